package chesslib

import (
	"bytes"
	"errors"
	"reflect"
	"strings"
	"testing"
	"thechess/src/logx"

	"github.com/notnil/chess"
)

const startFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

func newBuilder(t *testing.T) *GameBuilder {
	t.Helper()
	return NewBuilderBoard(logx.NewTestLogx(t))
}

func play(t *testing.T, gb *GameBuilder, sans ...string) {
	t.Helper()
	for _, san := range sans {
		if _, err := gb.MoveSAN(san); err != nil {
			t.Fatalf("MoveSAN(%s): %v", san, err)
		}
	}
}

func TestMoveAndHistory(t *testing.T) {
	gb := newBuilder(t)
	if gb.FEN() != startFEN {
		t.Fatalf("initial FEN = %s", gb.FEN())
	}

	san, err := gb.Move(chess.E2, chess.E4)
	if err != nil || san != "e4" {
		t.Fatalf("Move(e2,e4) = %q, %v", san, err)
	}
	play(t, gb, "e5", "Nf3")

	if want := []string{"e4", "e5", "Nf3"}; !reflect.DeepEqual(gb.History(), want) {
		t.Errorf("History() = %v, want %v", gb.History(), want)
	}
	if gb.IsWhiteToMove() {
		t.Error("white to move after three plies")
	}
	if got := gb.PGNBody(); got != "1. e4 e5 2. Nf3" {
		t.Errorf("PGNBody() = %q", got)
	}

	// History returns a copy
	h := gb.History()
	h[0] = "xx"
	if gb.History()[0] != "e4" {
		t.Error("History() exposes internal slice")
	}
}

func TestIllegalMove(t *testing.T) {
	gb := newBuilder(t)
	before := gb.FEN()
	if _, err := gb.Move(chess.E2, chess.E5); !errors.Is(err, ErrIllegalMove) {
		t.Errorf("Move(e2,e5) err = %v, want ErrIllegalMove", err)
	}
	// black piece on white's turn
	if _, err := gb.Move(chess.E7, chess.E5); !errors.Is(err, ErrIllegalMove) {
		t.Errorf("Move(e7,e5) err = %v, want ErrIllegalMove", err)
	}
	if _, err := gb.MoveSAN("Qh5"); !errors.Is(err, ErrIllegalMove) {
		t.Errorf("MoveSAN(Qh5) err = %v, want ErrIllegalMove", err)
	}
	if gb.FEN() != before || gb.CountHalfMoves() != 0 {
		t.Error("illegal move changed the game")
	}
}

func TestUndoRedo(t *testing.T) {
	gb := newBuilder(t)
	if gb.Undo() || gb.Redo() {
		t.Fatal("undo/redo on an empty game")
	}
	play(t, gb, "d4", "d5", "c4")
	afterC4 := gb.FEN()

	if !gb.Undo() || !gb.Undo() {
		t.Fatal("Undo failed")
	}
	if gb.CountHalfMoves() != 1 || gb.IsWhiteToMove() {
		t.Errorf("after two undos: %d plies, white=%v", gb.CountHalfMoves(), gb.IsWhiteToMove())
	}
	if !gb.CanRedo() {
		t.Fatal("CanRedo() = false")
	}
	if !gb.Redo() || !gb.Redo() {
		t.Fatal("Redo failed")
	}
	if gb.FEN() != afterC4 {
		t.Errorf("FEN after redo = %s, want %s", gb.FEN(), afterC4)
	}
	if gb.CanRedo() {
		t.Error("redo stack not empty")
	}

	// a new move drops the redo stack
	gb.Undo()
	play(t, gb, "Nf3")
	if gb.CanRedo() {
		t.Error("new move kept the redo stack")
	}
	if want := []string{"d4", "d5", "Nf3"}; !reflect.DeepEqual(gb.History(), want) {
		t.Errorf("History() = %v, want %v", gb.History(), want)
	}
}

func TestUndoRoundTripFEN(t *testing.T) {
	gb := newBuilder(t)
	play(t, gb, "e4")
	before := gb.FEN()
	play(t, gb, "c5")
	gb.Undo()
	if gb.FEN() != before {
		t.Errorf("FEN after undo = %s, want %s", gb.FEN(), before)
	}
}

func TestPromotionIsQueen(t *testing.T) {
	gb := newBuilder(t)
	if err := gb.CreateFromFEN("8/4P3/8/8/8/8/k7/4K3 w - - 0 1"); err != nil {
		t.Fatal(err)
	}
	san, err := gb.Move(chess.E7, chess.E8)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(san, "e8=Q") {
		t.Errorf("promotion SAN = %q", san)
	}
	if p := gb.PieceAt(chess.E8); p != chess.WhiteQueen {
		t.Errorf("piece on e8 = %v", p)
	}
}

func TestCreateFromFEN(t *testing.T) {
	gb := newBuilder(t)
	if err := gb.CreateFromFEN("not a fen"); err == nil {
		t.Error("CreateFromFEN accepted garbage")
	}
	if gb.FEN() != startFEN {
		t.Error("failed FEN load changed the game")
	}

	fen := "rnbqkbnr/pppp1ppp/8/4p3/4P3/8/PPPP1PPP/RNBQKBNR b KQkq - 0 2"
	if err := gb.CreateFromFEN(fen); err != nil {
		t.Fatal(err)
	}
	play(t, gb, "Nc6", "Nf3")
	if got := gb.PGNBody(); got != "1... Nc6 2. Nf3" {
		t.Errorf("PGNBody() = %q", got)
	}
}

func TestCreateFromPGN(t *testing.T) {
	gb := newBuilder(t)
	pgn := `[Event "test"]

1. e4 e5 2. Nf3 Nc6 3. Bb5 a6 *`
	if err := gb.CreateFromPGN(strings.NewReader(pgn)); err != nil {
		t.Fatal(err)
	}
	if want := []string{"e4", "e5", "Nf3", "Nc6", "Bb5", "a6"}; !reflect.DeepEqual(gb.History(), want) {
		t.Errorf("History() = %v, want %v", gb.History(), want)
	}
	if !gb.Undo() || gb.CountHalfMoves() != 5 {
		t.Error("undo after PGN load failed")
	}
}

func TestPGNExport(t *testing.T) {
	gb := newBuilder(t)
	play(t, gb, "e4", "e5", "Qh5", "Nc6", "Bc4", "Nf6", "Qxf7#")

	if got := gb.Status(); got != Checkmate || !got.Finished() {
		t.Errorf("Status() = %v, want Checkmate", got)
	}
	if gb.Outcome() != "1-0" {
		t.Errorf("Outcome() = %s", gb.Outcome())
	}

	var buf bytes.Buffer
	if err := gb.PGN(&buf); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "Qxf7#") {
		t.Errorf("PGN misses the mating move:\n%s", buf.String())
	}
}

func TestPGNExportFromFEN(t *testing.T) {
	const fen = "4k3/8/8/8/8/8/4P3/4K3 w - - 0 1"
	gb := newBuilder(t)
	if err := gb.CreateFromFEN(fen); err != nil {
		t.Fatal(err)
	}
	play(t, gb, "e4", "Kd7")
	// undo rebuilds the game, the start position must survive it
	if !gb.Undo() {
		t.Fatal("Undo failed")
	}
	want := gb.FEN()

	var buf bytes.Buffer
	if err := gb.PGN(&buf); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `[FEN "`+fen+`"]`) || !strings.Contains(buf.String(), `[SetUp "1"]`) {
		t.Errorf("PGN misses the start position:\n%s", buf.String())
	}

	loaded := newBuilder(t)
	if err := loaded.CreateFromPGN(&buf); err != nil {
		t.Fatalf("CreateFromPGN: %v", err)
	}
	if got := loaded.FEN(); got != want {
		t.Errorf("reloaded FEN = %s, want %s", got, want)
	}
	if got := loaded.History(); !reflect.DeepEqual(got, []string{"e4"}) {
		t.Errorf("reloaded history = %v", got)
	}
}

func TestPGNExportClassicHasNoSetUp(t *testing.T) {
	gb := newBuilder(t)
	play(t, gb, "e4")
	var buf bytes.Buffer
	if err := gb.PGN(&buf); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(buf.String(), "SetUp") {
		t.Errorf("classic game carries SetUp:\n%s", buf.String())
	}
}

func TestSetupKeepsHistory(t *testing.T) {
	gb := newBuilder(t)
	play(t, gb, "Nf3", "Nf6", "Ng1", "Ng8")

	setup := gb.Setup()
	if got := setup.Start.String(); got != startFEN {
		t.Errorf("setup start = %s", got)
	}
	if len(setup.Moves) != 4 {
		t.Fatalf("setup moves = %v", setup.Moves)
	}
	if got := setup.Position().String(); got != gb.FEN() {
		t.Errorf("setup position = %s, want %s", got, gb.FEN())
	}

	// later changes to the game do not leak into the setup
	if !gb.Undo() {
		t.Fatal("Undo failed")
	}
	if len(setup.Moves) != 4 {
		t.Errorf("setup changed after undo: %v", setup.Moves)
	}
}

func TestStatusCheck(t *testing.T) {
	gb := newBuilder(t)
	play(t, gb, "e4", "f5", "Qh5+")
	if got := gb.Status(); got != Check || got.Finished() {
		t.Errorf("Status() = %v, want Check", got)
	}
}

func TestLegalTargetsAndOwnership(t *testing.T) {
	gb := newBuilder(t)
	got := gb.LegalTargets(chess.G1)
	if len(got) != 2 {
		t.Errorf("LegalTargets(g1) = %v", got)
	}
	if len(gb.LegalTargets(chess.E4)) != 0 {
		t.Error("empty square has targets")
	}
	if !gb.IsOwnPiece(chess.G1) || gb.IsOwnPiece(chess.G8) || gb.IsOwnPiece(chess.E4) {
		t.Error("IsOwnPiece mismatch")
	}
}

func TestCurrentPositionIsCopy(t *testing.T) {
	gb := newBuilder(t)
	pos := gb.CurrentPosition()
	play(t, gb, "e4")
	if pos.String() != startFEN {
		t.Errorf("copied position changed: %s", pos.String())
	}
	if PositionFromFEN("bad") != nil {
		t.Error("PositionFromFEN(bad) != nil")
	}
}
