package cli

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"thechess/src/analysis"
	"thechess/src/chesslib"
	"thechess/src/chesslib/engine"
	"thechess/src/logx"

	"github.com/fatih/color"
	"github.com/notnil/chess"
)

func init() {
	color.NoColor = true
}

// idleEngine accepts positions and never reports anything.
type idleEngine struct {
	mu  sync.Mutex
	fen string
}

func (e *idleEngine) Init() error  { return nil }
func (e *idleEngine) Name() string { return "idle" }
func (e *idleEngine) SetPosition(setup engine.Setup) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.fen = setup.Position().String()
	return nil
}
func (e *idleEngine) StartAnalysis(engine.SearchParams) error { return nil }
func (e *idleEngine) NextInfo(ctx context.Context) (engine.AnalysisInfo, error) {
	<-ctx.Done()
	return engine.AnalysisInfo{}, ctx.Err()
}
func (e *idleEngine) StopAnalysis() error { return nil }
func (e *idleEngine) Close()              {}

func (e *idleEngine) lastFEN() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.fen
}

func run(t *testing.T, ch *analysis.Channel, input string) string {
	t.Helper()
	logger := logx.NewTestLogx(t)
	var out bytes.Buffer
	c := NewCLI(chesslib.NewBuilderBoard(logger), ch, PrintBoard, logger).WithIO(strings.NewReader(input), &out)
	if err := c.Run(); err != nil {
		t.Fatalf("run: %v", err)
	}
	return out.String()
}

func TestLineModeMoves(t *testing.T) {
	out := run(t, nil, "e4\ne5\nNf3\nundo\nredo\nmoves\nq\nd4\n")

	if !strings.Contains(out, "Moves: 1. e4 e5 2. Nf3") {
		t.Errorf("history missing in output:\n%s", out)
	}
	if !strings.Contains(out, "Quitting") {
		t.Error("q must quit")
	}
	// input after q is not read
	if strings.Contains(out, "d4") {
		t.Error("move after quit was played")
	}
}

func TestLineModeInvalidMove(t *testing.T) {
	out := run(t, nil, "e5\nundo\n")
	if !strings.Contains(out, "Invalid move: e5") {
		t.Errorf("want invalid move message:\n%s", out)
	}
	if !strings.Contains(out, "Nothing to undo") {
		t.Errorf("want nothing to undo:\n%s", out)
	}
}

func TestLineModeFENAndPGN(t *testing.T) {
	out := run(t, nil, "f3\ne5\ng4\nQh4\nfen\npgn\n")
	if !strings.Contains(out, "Status: Checkmate 0-1") {
		t.Errorf("want checkmate status:\n%s", out)
	}
	if !strings.Contains(out, "Qh4#") {
		t.Errorf("pgn must hold the mating move:\n%s", out)
	}
	if !strings.Contains(out, "rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3") {
		t.Errorf("fen missing:\n%s", out)
	}
}

func TestAnalysisWithoutEngine(t *testing.T) {
	out := run(t, nil, "analysis\n")
	if !strings.Contains(out, "No engine") {
		t.Errorf("want no engine message:\n%s", out)
	}
}

func TestMovesRestartAnalysis(t *testing.T) {
	logger := logx.NewTestLogx(t)
	eng := &idleEngine{}
	ch := analysis.NewChannel(logger, 0, engine.SearchParams{Infinite: true})
	defer ch.Close()

	gb := chesslib.NewBuilderBoard(logger)
	if err := ch.Start(gb.Setup(), analysis.NewSession(eng)); err != nil {
		t.Fatalf("start: %v", err)
	}
	gen := ch.Generation()

	var out bytes.Buffer
	c := NewCLI(gb, ch, PrintBoard, logger).WithIO(strings.NewReader("e4\nanalysis\n"), &out)
	if err := c.Run(); err != nil {
		t.Fatalf("run: %v", err)
	}

	if ch.Generation() <= gen {
		t.Error("move did not restart analysis")
	}
	if got, want := eng.lastFEN(), gb.FEN(); got != want {
		t.Errorf("engine position = %q, want %q", got, want)
	}
	if !strings.Contains(out.String(), "Engine idle: waiting") {
		t.Errorf("want waiting analysis:\n%s", out.String())
	}
}

func TestPrintBoard(t *testing.T) {
	var out bytes.Buffer
	PrintBoard(&out, chess.NewGame().Position())
	s := out.String()

	if strings.Count(s, "♔") != 1 || strings.Count(s, "♟") != 8 {
		t.Errorf("unexpected pieces:\n%s", s)
	}
	lines := strings.Split(strings.TrimSpace(s), "\n")
	if len(lines) != 10 {
		t.Fatalf("want 10 lines, got %d", len(lines))
	}
	if !strings.HasPrefix(lines[1], "8  ♜ ") {
		t.Errorf("rank 8 = %q", lines[1])
	}
}

func TestCRLFWriter(t *testing.T) {
	var out bytes.Buffer
	n, err := crlfWriter{w: &out}.Write([]byte("a\nb\n"))
	if err != nil || n != 4 {
		t.Fatalf("write = %d, %v", n, err)
	}
	if out.String() != "a\r\nb\r\n" {
		t.Errorf("got %q", out.String())
	}
}
