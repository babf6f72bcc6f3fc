// Package glayout maps window pixels to board squares.
package glayout

import "github.com/notnil/chess"

const (
	SidebarW = 320
	Margin   = 24
	MinBoard = 8 * 24
)

type Layout struct {
	BoardX, BoardY int
	BoardSize      int
	Sq             int
	Flipped        bool
}

// Compute fits the board into a window of w x h leaving room for the sidebar.
func Compute(w, h int, flipped bool) Layout {
	size := min(h-2*Margin, w-SidebarW-2*Margin)
	if size < MinBoard {
		size = MinBoard
	}
	sq := size / 8
	return Layout{
		BoardX:    Margin,
		BoardY:    Margin,
		BoardSize: sq * 8,
		Sq:        sq,
		Flipped:   flipped,
	}
}

func (l Layout) InBoard(px, py int) bool {
	return px >= l.BoardX && py >= l.BoardY && px < l.BoardX+l.Sq*8 && py < l.BoardY+l.Sq*8
}

// PixelToSquare returns the square under (px, py); ok is false off board.
func (l Layout) PixelToSquare(px, py int) (chess.Square, bool) {
	if !l.InBoard(px, py) {
		return chess.NoSquare, false
	}
	fx := (px - l.BoardX) / l.Sq
	fy := (py - l.BoardY) / l.Sq

	var file, rank int
	if !l.Flipped {
		// top row on screen is rank 8
		file, rank = fx, 7-fy
	} else {
		file, rank = 7-fx, fy
	}
	return chess.Square(rank*8 + file), true
}

// SquareToPixel returns the top-left corner of sq.
func (l Layout) SquareToPixel(sq chess.Square) (int, int) {
	file, rank := int(sq)%8, int(sq)/8
	if !l.Flipped {
		return l.BoardX + file*l.Sq, l.BoardY + (7-rank)*l.Sq
	}
	return l.BoardX + (7-file)*l.Sq, l.BoardY + rank*l.Sq
}

func (l Layout) SidebarX() int {
	return l.BoardX + l.BoardSize + Margin
}

func IsLightSquare(sq chess.Square) bool {
	file, rank := int(sq)%8, int(sq)/8
	return (file+rank)%2 == 1
}
