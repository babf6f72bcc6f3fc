package glayout

import (
	"testing"

	"github.com/notnil/chess"
)

func TestCompute(t *testing.T) {
	l := Compute(1200, 700, false)
	if l.Sq != (700-2*Margin)/8 || l.BoardSize != l.Sq*8 {
		t.Errorf("layout = %+v", l)
	}
	if l.SidebarX()+SidebarW > 1200 {
		t.Errorf("sidebar off window: %+v", l)
	}
	narrow := Compute(400, 900, false)
	if narrow.BoardSize > 400 {
		t.Errorf("board wider than window: %+v", narrow)
	}
	tiny := Compute(10, 10, false)
	if tiny.BoardSize < MinBoard {
		t.Errorf("board below minimum: %+v", tiny)
	}
}

func TestPixelToSquare(t *testing.T) {
	l := Layout{BoardX: 10, BoardY: 20, Sq: 50, BoardSize: 400}
	cases := []struct {
		px, py  int
		flipped bool
		want    chess.Square
		ok      bool
	}{
		{11, 21, false, chess.A8, true},
		{11, 20 + 7*50 + 1, false, chess.A1, true},
		{10 + 7*50 + 49, 20 + 7*50 + 49, false, chess.H1, true},
		{10 + 4*50, 20 + 4*50, false, chess.E4, true},
		{11, 21, true, chess.H1, true},
		{10 + 7*50 + 1, 20 + 7*50 + 1, true, chess.A8, true},
		{9, 21, false, chess.NoSquare, false},
		{11, 20 + 8*50, false, chess.NoSquare, false},
	}
	for _, c := range cases {
		l.Flipped = c.flipped
		got, ok := l.PixelToSquare(c.px, c.py)
		if got != c.want || ok != c.ok {
			t.Errorf("PixelToSquare(%d,%d flipped=%v) = %v,%v want %v,%v", c.px, c.py, c.flipped, got, ok, c.want, c.ok)
		}
	}
}

func TestSquareRoundTrip(t *testing.T) {
	for _, flipped := range []bool{false, true} {
		l := Compute(1000, 700, flipped)
		for sq := chess.A1; sq <= chess.H8; sq++ {
			x, y := l.SquareToPixel(sq)
			got, ok := l.PixelToSquare(x+l.Sq/2, y+l.Sq/2)
			if !ok || got != sq {
				t.Fatalf("flipped=%v: %v -> (%d,%d) -> %v", flipped, sq, x, y, got)
			}
		}
	}
}

func TestIsLightSquare(t *testing.T) {
	if IsLightSquare(chess.A1) || !IsLightSquare(chess.H1) || !IsLightSquare(chess.A8) {
		t.Error("square colours are wrong")
	}
}
