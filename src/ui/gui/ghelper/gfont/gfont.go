package gfont

import (
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

type Fonts struct {
	Small  font.Face
	Normal font.Face
	Bold   font.Face
	Mono   font.Face
}

func face(ttf []byte, size float64) (font.Face, error) {
	f, err := opentype.Parse(ttf)
	if err != nil {
		return nil, err
	}
	return opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}

func LoadFonts() (*Fonts, error) {
	var err error
	fonts := &Fonts{}
	// for the move list
	if fonts.Small, err = face(goregular.TTF, 12); err != nil {
		return nil, err
	}
	if fonts.Normal, err = face(goregular.TTF, 15); err != nil {
		return nil, err
	}
	// for titles
	if fonts.Bold, err = face(gobold.TTF, 18); err != nil {
		return nil, err
	}
	// for numbers and engine lines
	if fonts.Mono, err = face(gomono.TTF, 14); err != nil {
		return nil, err
	}
	return fonts, nil
}

// Face returns a bold face of any size, used for piece letters.
func Face(size float64) (font.Face, error) {
	return face(gobold.TTF, size)
}
