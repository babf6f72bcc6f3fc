// Package stepper drives a UCI engine through notnil/chess/uci. Every
// incremental update is one short bounded search, so a stop request is
// honoured at the next step boundary.
package stepper

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"thechess/src/chesslib/engine"
	"thechess/src/logx"
	"time"

	"github.com/notnil/chess"
	"github.com/notnil/chess/uci"
)

const DefaultStep = 300 * time.Millisecond

type Stepper struct {
	path string
	step time.Duration
	logx logx.Logger

	mu      sync.Mutex
	eng     *uci.Engine
	name    string
	setup   engine.Setup
	pos     *chess.Position // after setup.Moves
	params  engine.SearchParams
	started time.Time
	steps   int
	running bool
}

func NewStepper(logger logx.Logger, enginePath string, step time.Duration) *Stepper {
	if step <= 0 {
		step = DefaultStep
	}
	return &Stepper{path: enginePath, step: step, logx: logger}
}

func (s *Stepper) Init() error {
	if s.path == "" {
		return errors.New("engine path is empty")
	}
	eng, err := uci.New(s.path)
	if err != nil {
		return fmt.Errorf("error open %s engine: %w", s.path, err)
	}
	if err := eng.Run(uci.CmdUCI, uci.CmdIsReady, uci.CmdUCINewGame); err != nil {
		_ = eng.Close()
		return fmt.Errorf("error handshake %s engine: %w", s.path, err)
	}

	s.mu.Lock()
	s.eng = eng
	s.name = eng.ID()["name"]
	s.mu.Unlock()
	s.logx.Infof("open engine: %s (stepped, %v per step)", s.Name(), s.step)
	return nil
}

func (s *Stepper) Name() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.name != "" {
		return s.name
	}
	return filepath.Base(s.path)
}

func (s *Stepper) SetPosition(setup engine.Setup) error {
	pos := setup.Position()
	if pos == nil {
		return errors.New("nil position")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.eng == nil {
		return engine.ErrNotStarted
	}
	s.setup, s.pos = setup, pos
	return s.eng.Run(uci.CmdPosition{Position: setup.Start, Moves: setup.Moves}, uci.CmdIsReady)
}

func (s *Stepper) StartAnalysis(prm engine.SearchParams) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.eng == nil {
		return engine.ErrNotStarted
	}
	if s.pos == nil {
		return errors.New("no position")
	}
	s.params = prm
	s.started = time.Now()
	s.steps = 0
	s.running = true
	s.logx.Infof("start stepped analyze: %+v", prm)
	return nil
}

// NextInfo runs one step. The engine keeps its hash between steps, so
// every step searches deeper than the previous one.
func (s *Stepper) NextInfo(ctx context.Context) (engine.AnalysisInfo, error) {
	if err := ctx.Err(); err != nil {
		return engine.AnalysisInfo{}, err
	}
	s.mu.Lock()
	eng, setup, pos, prm, started := s.eng, s.setup, s.pos, s.params, s.started
	done := !s.running || s.limitReached()
	s.mu.Unlock()

	if eng == nil {
		return engine.AnalysisInfo{}, engine.ErrNotStarted
	}
	if done || len(pos.ValidMoves()) == 0 {
		s.finish()
		return engine.AnalysisInfo{}, engine.ErrSearchDone
	}

	step := s.step
	if prm.MaxTimeMs > 0 {
		left := time.Duration(prm.MaxTimeMs)*time.Millisecond - time.Since(started)
		if left < step {
			step = left
		}
	}
	if step < 10*time.Millisecond {
		step = 10 * time.Millisecond
	}

	if err := eng.Run(uci.CmdPosition{Position: setup.Start, Moves: setup.Moves}, uci.CmdGo{MoveTime: step}); err != nil {
		return engine.AnalysisInfo{}, fmt.Errorf("%w: %v", engine.ErrProcessExited, err)
	}

	res := eng.SearchResults()
	info := convertInfo(res.Info)
	if len(info.UCIPV) == 0 && res.BestMove != nil {
		info.UCIPV = []string{res.BestMove.String()}
	}
	info.TimeMs = time.Since(started).Milliseconds()

	s.mu.Lock()
	s.steps++
	s.mu.Unlock()
	return info, nil
}

func (s *Stepper) limitReached() bool {
	if s.params.Infinite {
		return false
	}
	if s.params.MaxTimeMs > 0 && time.Since(s.started) >= time.Duration(s.params.MaxTimeMs)*time.Millisecond {
		return true
	}
	return s.params.MaxTimeMs == 0 && s.steps > 0
}

func (s *Stepper) finish() {
	s.mu.Lock()
	s.running = false
	s.mu.Unlock()
}

// StopAnalysis takes effect at the next step boundary.
func (s *Stepper) StopAnalysis() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.eng == nil {
		return engine.ErrNotStarted
	}
	if s.running {
		s.logx.Info("stop stepped analyze")
	}
	s.running = false
	return nil
}

func (s *Stepper) Close() {
	s.mu.Lock()
	eng := s.eng
	s.eng = nil
	s.running = false
	s.mu.Unlock()
	if eng == nil {
		return
	}
	if err := eng.Close(); err != nil {
		s.logx.Debugf("close engine: %v", err)
	}
	s.logx.Info("uci-process terminated")
}

func convertInfo(in uci.Info) engine.AnalysisInfo {
	out := engine.AnalysisInfo{
		Depth:   in.Depth,
		Nodes:   int64(in.Nodes),
		NPS:     int64(in.NPS),
		ScoreCP: in.Score.CP,
	}
	if in.Score.Mate != 0 {
		out.MateIn = in.Score.Mate
		out.HasMate = true
	}
	for _, mv := range in.PV {
		out.UCIPV = append(out.UCIPV, mv.String())
	}
	return out
}
