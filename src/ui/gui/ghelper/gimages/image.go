package gimages

import (
	"image"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"
	"thechess/src/ui/gui/ghelper/gfont"

	"github.com/fogleman/gg"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/notnil/chess"
)

var AllPieces = []chess.Piece{
	chess.WhiteKing, chess.WhiteQueen, chess.WhiteRook, chess.WhiteBishop, chess.WhiteKnight, chess.WhitePawn,
	chess.BlackKing, chess.BlackQueen, chess.BlackRook, chess.BlackBishop, chess.BlackKnight, chess.BlackPawn,
}

// FileName is "wq.png", "bn.png" and so on.
func FileName(p chess.Piece) string {
	c := "w"
	if p.Color() == chess.Black {
		c = "b"
	}
	return c + strings.ToLower(p.Type().String()) + ".png"
}

// LoadPieces takes images from dir when present and draws the rest.
func LoadPieces(dir string, size int) (map[chess.Piece]*ebiten.Image, error) {
	out := make(map[chess.Piece]*ebiten.Image, len(AllPieces))
	for _, p := range AllPieces {
		if dir != "" {
			if img, _, err := ebitenutil.NewImageFromFile(filepath.Join(dir, FileName(p))); err == nil {
				out[p] = img
				continue
			}
		}
		img, err := RenderPiece(p, size)
		if err != nil {
			return nil, err
		}
		out[p] = ebiten.NewImageFromImage(img)
	}
	return out, nil
}

// RenderPiece draws a disc with the piece letter.
func RenderPiece(p chess.Piece, size int) (image.Image, error) {
	fill, ink := "#f8f8f0", "#202020"
	if p.Color() == chess.Black {
		fill, ink = "#303030", "#f0f0f0"
	}
	s := float64(size)
	dc := gg.NewContext(size, size)

	dc.DrawCircle(s/2, s/2, s*0.40)
	dc.SetHexColor(fill)
	dc.FillPreserve()
	dc.SetHexColor("#101010")
	dc.SetLineWidth(s * 0.04)
	dc.Stroke()

	face, err := gfont.Face(s * 0.48)
	if err != nil {
		return nil, err
	}
	dc.SetFontFace(face)
	dc.SetHexColor(ink)
	dc.DrawStringAnchored(strings.ToUpper(p.Type().String()), s/2, s/2, 0.5, 0.38)
	return dc.Image(), nil
}

// Icons returns window icons of 16, 32 and 48 px.
func Icons(dir string) []image.Image {
	var out []image.Image
	for _, size := range []int{16, 32, 48} {
		if dir != "" {
			if f, err := os.Open(filepath.Join(dir, FileName(chess.WhiteQueen))); err == nil {
				img, _, err := image.Decode(f)
				f.Close()
				if err == nil {
					out = append(out, img)
					continue
				}
			}
		}
		if img, err := RenderPiece(chess.WhiteQueen, size); err == nil {
			out = append(out, img)
		}
	}
	return out
}
