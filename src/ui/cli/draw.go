package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/notnil/chess"
	"golang.org/x/term"
)

// [light square][white piece]
var squareColors = [2][2]*color.Color{
	{color.New(color.BgHiBlack, color.FgBlack, color.Bold), color.New(color.BgHiBlack, color.FgHiWhite, color.Bold)},
	{color.New(color.BgWhite, color.FgBlack, color.Bold), color.New(color.BgWhite, color.FgHiWhite, color.Bold)},
}

// SetupColor enables ANSI colors only when out is a terminal.
func SetupColor(out *os.File) {
	color.NoColor = !term.IsTerminal(int(out.Fd()))
	if !color.NoColor {
		EnableANSI(out)
	}
}

// Piece -> unicode glyph
func glyph(p chess.Piece) string {
	switch p {
	case chess.WhiteKing:
		return "♔"
	case chess.WhiteQueen:
		return "♕"
	case chess.WhiteRook:
		return "♖"
	case chess.WhiteBishop:
		return "♗"
	case chess.WhiteKnight:
		return "♘"
	case chess.WhitePawn:
		return "♙"
	case chess.BlackKing:
		return "♚"
	case chess.BlackQueen:
		return "♛"
	case chess.BlackRook:
		return "♜"
	case chess.BlackBishop:
		return "♝"
	case chess.BlackKnight:
		return "♞"
	case chess.BlackPawn:
		return "♟"
	case chess.NoPiece:
		return " "
	default:
		return "?"
	}
}

// PrintBoard draws pos from White's side.
func PrintBoard(w io.Writer, pos *chess.Position) {
	if pos == nil {
		return
	}
	board := pos.Board()

	fmt.Fprintln(w)
	fmt.Fprintln(w, "   a  b  c  d  e  f  g  h")
	for rank := 7; rank >= 0; rank-- {
		fmt.Fprintf(w, "%d ", rank+1)
		for file := 0; file < 8; file++ {
			p := board.Piece(chess.Square(rank*8 + file))

			light, white := (rank+file)%2, 0
			if p != chess.NoPiece && p.Color() == chess.White {
				white = 1
			}
			squareColors[light][white].Fprint(w, " "+glyph(p)+" ")
		}
		fmt.Fprintf(w, " %d\n", rank+1)
	}
	fmt.Fprintln(w, "   a  b  c  d  e  f  g  h")
	fmt.Fprintln(w)
}
