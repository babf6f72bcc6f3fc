// Package ginput turns pointer events over the board into moves.
package ginput

import (
	"github.com/notnil/chess"
)

type State int

const (
	Idle State = iota
	Selected
	Dragging
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Selected:
		return "selected"
	case Dragging:
		return "dragging"
	default:
		return "unknown"
	}
}

type Outcome int

const (
	None Outcome = iota
	Moved
	Discarded
)

// Board is the part of the game the input needs.
type Board interface {
	IsOwnPiece(sq chess.Square) bool
	Move(from, to chess.Square) (string, error)
}

type Machine struct {
	state State
	from  chess.Square
	x, y  int
	// press started on an already selected square: releasing there deselects
	reselect bool
	san      string
}

func NewMachine() *Machine {
	return &Machine{from: chess.NoSquare}
}

func (m *Machine) State() State { return m.state }

// From returns the selected or dragged square.
func (m *Machine) From() (chess.Square, bool) {
	if m.state == Idle {
		return chess.NoSquare, false
	}
	return m.from, true
}

func (m *Machine) Pointer() (int, int) { return m.x, m.y }

// LastSAN is the notation of the last applied move.
func (m *Machine) LastSAN() string { return m.san }

// Down handles a pointer press. onBoard is false when the press is outside
// of the board; sq is ignored then.
func (m *Machine) Down(sq chess.Square, onBoard bool, x, y int, b Board) {
	m.x, m.y = x, y
	if !onBoard {
		return
	}
	switch m.state {
	case Idle:
		if b.IsOwnPiece(sq) {
			m.grab(sq, false)
		}
	case Selected:
		if sq == m.from {
			m.grab(sq, true)
		} else if b.IsOwnPiece(sq) {
			m.grab(sq, false)
		}
	}
}

func (m *Machine) grab(sq chess.Square, reselect bool) {
	m.state = Dragging
	m.from = sq
	m.reselect = reselect
}

func (m *Machine) Drag(x, y int) {
	if m.state == Dragging {
		m.x, m.y = x, y
	}
}

// Up handles a pointer release and reports whether a move was applied.
func (m *Machine) Up(sq chess.Square, onBoard bool, b Board) Outcome {
	if m.state == Idle {
		return None
	}
	if !onBoard {
		m.Cancel()
		return None
	}
	if sq == m.from {
		if m.state == Dragging && !m.reselect {
			m.state = Selected
			return None
		}
		m.Cancel()
		return None
	}

	from := m.from
	m.Cancel()
	san, err := b.Move(from, sq)
	if err != nil {
		return Discarded
	}
	m.san = san
	return Moved
}

func (m *Machine) Cancel() {
	m.state = Idle
	m.from = chess.NoSquare
	m.reselect = false
}
