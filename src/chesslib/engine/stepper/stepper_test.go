package stepper

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"testing"
	"thechess/src/chesslib/engine"
	"thechess/src/logx"
	"time"

	"github.com/notnil/chess"
)

const fakeEngineEnv = "THECHESS_FAKE_STEPPER"

func TestMain(m *testing.M) {
	if os.Getenv(fakeEngineEnv) == "1" {
		fakeEngine(os.Stdin, os.Stdout)
		os.Exit(0)
	}
	os.Exit(m.Run())
}

// answers every bounded search with one info line and a bestmove
func fakeEngine(r io.Reader, w io.Writer) {
	depth := 0
	scr := bufio.NewScanner(r)
	for scr.Scan() {
		fld := strings.Fields(scr.Text())
		if len(fld) == 0 {
			continue
		}
		switch fld[0] {
		case "uci":
			fmt.Fprintln(w, "id name StepFish")
			fmt.Fprintln(w, "uciok")
		case "isready":
			fmt.Fprintln(w, "readyok")
		case "go":
			depth++
			fmt.Fprintf(w, "info depth %d score cp %d nodes %d time 1 pv e2e4 e7e5\n", depth, 10*depth, 1000*depth)
			fmt.Fprintln(w, "bestmove e2e4 ponder e7e5")
		case "quit":
			return
		}
	}
}

func newFakeStepper(t *testing.T) *Stepper {
	t.Helper()
	t.Setenv(fakeEngineEnv, "1")
	s := NewStepper(logx.NewTestLogx(t), os.Args[0], 20*time.Millisecond)
	if err := s.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	t.Cleanup(s.Close)
	return s
}

func TestStepsUntilStopped(t *testing.T) {
	s := newFakeStepper(t)
	if s.Name() == "" {
		t.Error("empty engine name")
	}
	if err := s.SetPosition(engine.FromPosition(chess.NewGame().Position())); err != nil {
		t.Fatalf("SetPosition: %v", err)
	}
	if err := s.StartAnalysis(engine.SearchParams{Infinite: true}); err != nil {
		t.Fatalf("StartAnalysis: %v", err)
	}

	ctx := context.Background()
	prev := 0
	for i := 0; i < 3; i++ {
		info, err := s.NextInfo(ctx)
		if err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		if info.Depth <= prev {
			t.Errorf("step %d: depth %d did not grow past %d", i, info.Depth, prev)
		}
		if len(info.UCIPV) == 0 {
			t.Errorf("step %d: empty pv", i)
		}
		prev = info.Depth
	}

	if err := s.StopAnalysis(); err != nil {
		t.Fatalf("StopAnalysis: %v", err)
	}
	if _, err := s.NextInfo(ctx); !errors.Is(err, engine.ErrSearchDone) {
		t.Errorf("NextInfo after stop = %v, want ErrSearchDone", err)
	}
}

func TestNoLegalMoves(t *testing.T) {
	s := newFakeStepper(t)
	// black is stalemated
	fen, err := chess.FEN("7k/5Q2/6K1/8/8/8/8/8 b - - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	pos := chess.NewGame(fen).Position()
	if err := s.SetPosition(engine.FromPosition(pos)); err != nil {
		t.Fatalf("SetPosition: %v", err)
	}
	if err := s.StartAnalysis(engine.SearchParams{Infinite: true}); err != nil {
		t.Fatalf("StartAnalysis: %v", err)
	}
	if _, err := s.NextInfo(context.Background()); !errors.Is(err, engine.ErrSearchDone) {
		t.Errorf("NextInfo = %v, want ErrSearchDone", err)
	}
}

func TestCancelledContext(t *testing.T) {
	s := NewStepper(logx.NewTestLogx(t), "unused", 0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := s.NextInfo(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("NextInfo = %v, want context.Canceled", err)
	}
	if err := s.StartAnalysis(engine.SearchParams{}); !errors.Is(err, engine.ErrNotStarted) {
		t.Errorf("StartAnalysis without Init = %v", err)
	}
}
