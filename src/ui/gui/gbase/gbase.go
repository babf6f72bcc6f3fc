package gbase

import (
	"errors"
	"image/color"
)

// ---- Exit Call ----

var ErrExit = errors.New("exit request")

// --- UI constants ---

const (
	WindowW int = 1000
	WindowH int = 700
	TPS     int = 60
	Title       = "TheChess"
)

// ---- Styles (palettes) ----

type Palette struct {
	Bg           color.RGBA
	ButtonFill   color.RGBA
	ButtonStroke color.RGBA
	ButtonText   color.RGBA
	MenuText     color.RGBA
	Accent       color.RGBA
	ModalBg      color.RGBA
	// board
	LightSq  color.RGBA
	DarkSq   color.RGBA
	Selected color.RGBA
	Target   color.RGBA
	Stale    color.RGBA
}

func (p Palette) String() string {
	switch p {
	case LightPalette:
		return "light"
	case DarkPalette:
		return "dark"
	default:
	}
	return ""
}

// unknown names fall back to the light palette
func PaletteFromString(p string) Palette {
	switch p {
	case "dark":
		return DarkPalette
	default:
	}
	return LightPalette
}

var LightPalette = Palette{
	Bg:           color.RGBA{0xf7, 0xf7, 0xf7, 0xff},
	ButtonFill:   color.RGBA{0xff, 0xff, 0xff, 0xff},
	ButtonStroke: color.RGBA{0x88, 0x88, 0x88, 0xff},
	ButtonText:   color.RGBA{0x22, 0x22, 0x22, 0xff},
	MenuText:     color.RGBA{0x22, 0x22, 0x22, 0xff},
	Accent:       color.RGBA{0x22, 0x88, 0xcc, 0xff},
	ModalBg:      color.RGBA{0x00, 0x00, 0x00, 0x88},
	LightSq:      color.RGBA{0xee, 0xee, 0xd2, 0xff},
	DarkSq:       color.RGBA{0x76, 0x96, 0x56, 0xff},
	Selected:     color.RGBA{0xf6, 0xf6, 0x69, 0xaa},
	Target:       color.RGBA{0x22, 0x22, 0x22, 0x55},
	Stale:        color.RGBA{0xaa, 0x44, 0x44, 0xff},
}

var DarkPalette = Palette{
	Bg:           color.RGBA{0x12, 0x12, 0x12, 0xff},
	ButtonFill:   color.RGBA{0x20, 0x20, 0x20, 0xff},
	ButtonStroke: color.RGBA{0xdd, 0xdd, 0xdd, 0xff},
	ButtonText:   color.RGBA{0xee, 0xee, 0xee, 0xff},
	MenuText:     color.RGBA{0xee, 0xee, 0xee, 0xff},
	Accent:       color.RGBA{0x2a, 0xa1, 0xd1, 0xff},
	ModalBg:      color.RGBA{0x00, 0x00, 0x00, 0x99},
	LightSq:      color.RGBA{0x9e, 0x9e, 0x9e, 0xff},
	DarkSq:       color.RGBA{0x4a, 0x4a, 0x4a, 0xff},
	Selected:     color.RGBA{0x2a, 0xa1, 0xd1, 0x99},
	Target:       color.RGBA{0xee, 0xee, 0xee, 0x55},
	Stale:        color.RGBA{0xdd, 0x66, 0x66, 0xff},
}
