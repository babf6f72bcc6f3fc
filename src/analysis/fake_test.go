package analysis

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"thechess/src/chesslib/engine"
	"time"
)

// tracker is shared by all fakes of a test to observe concurrent workers.
type tracker struct {
	inside atomic.Int32
	max    atomic.Int32
}

func (tr *tracker) enter() {
	n := tr.inside.Add(1)
	for {
		m := tr.max.Load()
		if n <= m || tr.max.CompareAndSwap(m, n) {
			return
		}
	}
}

func (tr *tracker) leave() { tr.inside.Add(-1) }

// fakeEngine produces auto updates every millisecond, or exactly what is
// sent to feed when feed is set. Closing feed simulates a crash.
type fakeEngine struct {
	name    string
	initErr error
	feed    chan engine.AnalysisInfo
	auto    engine.AnalysisInfo
	tr      *tracker

	calls atomic.Int32
	stops atomic.Int32
	// when set, StopAnalysis waits until it is closed
	stopGate chan struct{}

	mu        sync.Mutex
	inits     int
	closes    int
	positions []string
	setup     engine.Setup
	searching bool
}

func newFake(tr *tracker, name string) *fakeEngine {
	return &fakeEngine{
		name: name,
		tr:   tr,
		auto: engine.AnalysisInfo{Depth: 1, Nodes: 10, ScoreCP: 5, UCIPV: []string{"e2e4"}},
	}
}

func (f *fakeEngine) Init() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inits++
	return f.initErr
}

func (f *fakeEngine) Name() string { return f.name }

func (f *fakeEngine) SetPosition(setup engine.Setup) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.positions = append(f.positions, setup.Position().String())
	f.setup = setup
	return nil
}

func (f *fakeEngine) StartAnalysis(engine.SearchParams) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.searching = true
	return nil
}

func (f *fakeEngine) NextInfo(ctx context.Context) (engine.AnalysisInfo, error) {
	f.tr.enter()
	defer f.tr.leave()
	f.calls.Add(1)

	if f.feed != nil {
		select {
		case info, ok := <-f.feed:
			if !ok {
				return engine.AnalysisInfo{}, engine.ErrProcessExited
			}
			return info, nil
		case <-ctx.Done():
			return engine.AnalysisInfo{}, ctx.Err()
		}
	}
	select {
	case <-time.After(time.Millisecond):
		return f.auto, nil
	case <-ctx.Done():
		return engine.AnalysisInfo{}, ctx.Err()
	}
}

func (f *fakeEngine) StopAnalysis() error {
	f.stops.Add(1)
	if f.stopGate != nil {
		<-f.stopGate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.searching = false
	return nil
}

func (f *fakeEngine) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closes++
}

func (f *fakeEngine) counts() (inits, closes int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.inits, f.closes
}

func (f *fakeEngine) lastPosition() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.positions) == 0 {
		return ""
	}
	return f.positions[len(f.positions)-1]
}

func (f *fakeEngine) seen() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.positions...)
}

func (f *fakeEngine) lastSetup() engine.Setup {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.setup
}

var errBoom = errors.New("boom")

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timeout waiting for %s", what)
		}
		time.Sleep(time.Millisecond)
	}
}
