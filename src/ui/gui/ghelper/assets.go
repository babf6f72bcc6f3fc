package ghelper

import (
	"image"
	"math"
	"thechess/src/ui/gui/gbase/gconf"
	"thechess/src/ui/gui/ghelper/gfont"
	"thechess/src/ui/gui/ghelper/gimages"
	"thechess/src/ui/gui/ghelper/glang"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/notnil/chess"
)

// source resolution of procedurally drawn pieces
const pieceRenderSize = 128

type GUIAssetsWorker struct {
	fonts  *gfont.Fonts
	pieces map[chess.Piece]*ebiten.Image
	scaled map[chess.Piece]*ebiten.Image
	sqSize int
	icons  []image.Image
	lang   *glang.GUILangWorker
}

// workdir may override embedded assets, cfg.Textures may hold piece images
func NewGUIAssetsWorker(workdir string, cfg *gconf.Config) (*GUIAssetsWorker, error) {
	pieces, err := gimages.LoadPieces(cfg.Textures, pieceRenderSize)
	if err != nil {
		return nil, err
	}
	l, err := glang.NewGUILangWorker(workdir, cfg.Lang)
	if err != nil {
		return nil, err
	}
	f, err := gfont.LoadFonts()
	if err != nil {
		return nil, err
	}
	return &GUIAssetsWorker{
		fonts:  f,
		pieces: pieces,
		scaled: make(map[chess.Piece]*ebiten.Image),
		icons:  gimages.Icons(cfg.Textures),
		lang:   l,
	}, nil
}

// ScaledPiece returns p fitted to a square of sqSize, cached until the size changes
func (aw *GUIAssetsWorker) ScaledPiece(p chess.Piece, sqSize int) *ebiten.Image {
	if sqSize <= 0 {
		return nil
	}
	if sqSize != aw.sqSize {
		for _, img := range aw.scaled {
			img.Deallocate()
		}
		aw.scaled = make(map[chess.Piece]*ebiten.Image)
		aw.sqSize = sqSize
	}
	if img, ok := aw.scaled[p]; ok {
		return img
	}
	src := aw.pieces[p]
	if src == nil {
		return nil
	}
	dst := ebiten.NewImage(sqSize, sqSize)
	iw, ih := src.Bounds().Dx(), src.Bounds().Dy()
	s := math.Min(float64(sqSize)/float64(iw), float64(sqSize)/float64(ih))
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(s, s)
	op.GeoM.Translate((float64(sqSize)-float64(iw)*s)/2, (float64(sqSize)-float64(ih)*s)/2)
	op.Filter = ebiten.FilterLinear
	dst.DrawImage(src, op)
	aw.scaled[p] = dst
	return dst
}

func (aw *GUIAssetsWorker) Lang() *glang.GUILangWorker {
	return aw.lang
}

func (aw *GUIAssetsWorker) Icons() []image.Image {
	return aw.icons
}

func (aw *GUIAssetsWorker) Fonts() *gfont.Fonts {
	return aw.fonts
}
