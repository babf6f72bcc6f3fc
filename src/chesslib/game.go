package chesslib

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"thechess/src/chesslib/engine"
	"thechess/src/logx"

	"github.com/notnil/chess"
)

var ErrIllegalMove = errors.New("illegal move")

type GameStatus int

const (
	Pass GameStatus = iota
	Check
	Checkmate
	Stalemate
	Draw
)

func (s GameStatus) String() string {
	switch s {
	case Pass:
		return "Normal"
	case Check:
		return "Check"
	case Checkmate:
		return "Checkmate"
	case Stalemate:
		return "Stalemate"
	case Draw:
		return "Draw"
	default:
		return fmt.Sprintf("Unknown(%d)", int(s))
	}
}

func (s GameStatus) Finished() bool {
	return s == Checkmate || s == Stalemate || s == Draw
}

// GameBuilder owns the live game. At first use Create* methods.
// Not safe for concurrent use: the render loop is its only caller.
type GameBuilder struct {
	game     *chess.Game
	startFEN string
	history  []string      // SAN of played moves
	redo     []*chess.Move // undone moves, last undone at the end
	logger   logx.Logger
}

func NewBuilderBoard(logger logx.Logger) *GameBuilder {
	gb := &GameBuilder{logger: logger}
	gb.CreateClassic()
	return gb
}

func (gb *GameBuilder) CreateClassic() {
	gb.logger.Debug("create classic game")
	gb.reset(chess.NewGame())
}

func (gb *GameBuilder) CreateFromFEN(fen string) error {
	gb.logger.Debugf("create game by FEN: %v", fen)
	opt, err := chess.FEN(strings.TrimSpace(fen))
	if err != nil {
		return fmt.Errorf("error parse FEN: %w", err)
	}
	gb.reset(chess.NewGame(opt))
	return nil
}

func (gb *GameBuilder) CreateFromPGN(r io.Reader) error {
	gb.logger.Debug("create game by PGN")
	opt, err := chess.PGN(r)
	if err != nil {
		return fmt.Errorf("error parse PGN: %w", err)
	}
	loaded := chess.NewGame(opt)

	// replay from the initial position so the SAN history is ours
	positions := loaded.Positions()
	start, err := chess.FEN(positions[0].String())
	if err != nil {
		return fmt.Errorf("error parse PGN start position: %w", err)
	}
	gb.reset(chess.NewGame(start))
	for _, mv := range loaded.Moves() {
		if _, err := gb.apply(mv); err != nil {
			return fmt.Errorf("error replay PGN move %s: %w", mv, err)
		}
	}
	return nil
}

func (gb *GameBuilder) reset(g *chess.Game) {
	gb.game = g
	gb.startFEN = g.Position().String()
	gb.history = nil
	gb.redo = nil
	gb.tagStart()
}

// tagStart records a non-standard start position in the PGN tags, otherwise
// the exported game replays from the initial position.
func (gb *GameBuilder) tagStart() {
	if gb.startFEN == chess.StartingPosition().String() {
		return
	}
	gb.game.AddTagPair("SetUp", "1")
	gb.game.AddTagPair("FEN", gb.startFEN)
}

// Move applies from->to if it is legal; promotions become a queen.
func (gb *GameBuilder) Move(from, to chess.Square) (string, error) {
	mv := gb.findMove(from, to)
	if mv == nil {
		return "", fmt.Errorf("%w: %s%s", ErrIllegalMove, from, to)
	}
	san, err := gb.apply(mv)
	if err != nil {
		return "", err
	}
	gb.redo = nil
	gb.logger.Infof("move %s (%s)", san, mv)
	return san, nil
}

func (gb *GameBuilder) MoveSAN(san string) (string, error) {
	mv, err := chess.AlgebraicNotation{}.Decode(gb.game.Position(), strings.TrimSpace(san))
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrIllegalMove, san)
	}
	return gb.Move(mv.S1(), mv.S2())
}

func (gb *GameBuilder) findMove(from, to chess.Square) *chess.Move {
	var found *chess.Move
	for _, mv := range gb.game.ValidMoves() {
		if mv.S1() != from || mv.S2() != to {
			continue
		}
		if mv.Promo() == chess.NoPieceType || mv.Promo() == chess.Queen {
			return mv
		}
		found = mv
	}
	return found
}

func (gb *GameBuilder) apply(mv *chess.Move) (string, error) {
	san := chess.AlgebraicNotation{}.Encode(gb.game.Position(), mv)
	if err := gb.game.Move(mv); err != nil {
		return "", fmt.Errorf("%w: %v", ErrIllegalMove, err)
	}
	gb.history = append(gb.history, san)
	return san, nil
}

// Undo pops the last move. Returns false if there is nothing to undo.
func (gb *GameBuilder) Undo() bool {
	moves := gb.game.Moves()
	if len(moves) == 0 {
		return false
	}
	last := moves[len(moves)-1]
	if err := gb.replay(moves[:len(moves)-1]); err != nil {
		gb.logger.Errorf("error undo: %v", err)
		return false
	}
	gb.redo = append(gb.redo, last)
	gb.logger.Debugf("undo %s", last)
	return true
}

func (gb *GameBuilder) Redo() bool {
	if len(gb.redo) == 0 {
		return false
	}
	mv := gb.redo[len(gb.redo)-1]
	if _, err := gb.apply(mv); err != nil {
		gb.logger.Errorf("error redo: %v", err)
		gb.redo = nil
		return false
	}
	gb.redo = gb.redo[:len(gb.redo)-1]
	gb.logger.Debugf("redo %s", mv)
	return true
}

func (gb *GameBuilder) replay(moves []*chess.Move) error {
	start, err := chess.FEN(gb.startFEN)
	if err != nil {
		return err
	}
	redo := gb.redo
	gb.game = chess.NewGame(start)
	gb.history = nil
	gb.tagStart()
	for _, mv := range moves {
		if _, err := gb.apply(mv); err != nil {
			return err
		}
	}
	gb.redo = redo
	return nil
}

func (gb *GameBuilder) CanUndo() bool { return len(gb.game.Moves()) > 0 }
func (gb *GameBuilder) CanRedo() bool { return len(gb.redo) > 0 }

// LegalTargets returns destination squares of legal moves from sq.
func (gb *GameBuilder) LegalTargets(from chess.Square) []chess.Square {
	var out []chess.Square
	seen := make(map[chess.Square]bool)
	for _, mv := range gb.game.ValidMoves() {
		if mv.S1() == from && !seen[mv.S2()] {
			seen[mv.S2()] = true
			out = append(out, mv.S2())
		}
	}
	return out
}

func (gb *GameBuilder) PieceAt(sq chess.Square) chess.Piece {
	return gb.game.Position().Board().Piece(sq)
}

// IsOwnPiece reports whether sq holds a piece of the side to move.
func (gb *GameBuilder) IsOwnPiece(sq chess.Square) bool {
	p := gb.PieceAt(sq)
	return p != chess.NoPiece && p.Color() == gb.game.Position().Turn()
}

func (gb *GameBuilder) IsWhiteToMove() bool {
	return gb.game.Position().Turn() == chess.White
}

func (gb *GameBuilder) CountHalfMoves() int {
	return len(gb.history)
}

func (gb *GameBuilder) History() []string {
	out := make([]string, len(gb.history))
	copy(out, gb.history)
	return out
}

func (gb *GameBuilder) Status() GameStatus {
	switch gb.game.Method() {
	case chess.Checkmate:
		return Checkmate
	case chess.Stalemate:
		return Stalemate
	}
	if gb.game.Outcome() == chess.Draw {
		return Draw
	}
	moves := gb.game.Moves()
	if len(moves) > 0 && moves[len(moves)-1].HasTag(chess.Check) {
		return Check
	}
	return Pass
}

func (gb *GameBuilder) Outcome() string {
	return string(gb.game.Outcome())
}

func (gb *GameBuilder) FEN() string {
	return gb.game.Position().String()
}

// CurrentPosition returns a copy that shares nothing with the live game.
func (gb *GameBuilder) CurrentPosition() *chess.Position {
	return PositionFromFEN(gb.FEN())
}

// Setup returns the start position and the played moves for an engine.
// Nothing in it is shared with the live game.
func (gb *GameBuilder) Setup() engine.Setup {
	return engine.Setup{
		Start: PositionFromFEN(gb.startFEN),
		Moves: append([]*chess.Move(nil), gb.game.Moves()...),
	}
}

// PositionFromFEN decodes fen; nil on error.
func PositionFromFEN(fen string) *chess.Position {
	opt, err := chess.FEN(fen)
	if err != nil {
		return nil
	}
	return chess.NewGame(opt).Position()
}

// PGN writes the game in portable game notation.
func (gb *GameBuilder) PGN(w io.Writer) error {
	_, err := io.WriteString(w, gb.game.String())
	return err
}

// moves only: "1. e4 e5 2. Nf3"
func (gb *GameBuilder) PGNBody() string {
	var b strings.Builder
	start := PositionFromFEN(gb.startFEN)
	ply := 0
	if start != nil && start.Turn() == chess.Black && len(gb.history) > 0 {
		ply = 1
		b.WriteString("1...")
	}
	for i, san := range gb.history {
		if ply%2 == 0 {
			if i > 0 {
				b.WriteByte(' ')
			}
			fmt.Fprintf(&b, "%d. ", ply/2+1)
		} else {
			b.WriteByte(' ')
		}
		b.WriteString(san)
		ply++
	}
	return b.String()
}
