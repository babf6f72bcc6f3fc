package engine

import (
	"context"
	"errors"
	"time"

	"github.com/notnil/chess"
)

var (
	ErrSearchDone    = errors.New("search finished")
	ErrProcessExited = errors.New("engine process exited")
	ErrNotStarted    = errors.New("no running engine process")
)

// AnalysisInfo is one incremental update of a running search.
type AnalysisInfo struct {
	Depth   int      // current depth
	TimeMs  int64    // elapsed time in ms
	Nodes   int64    // searched nodes
	NPS     int64    // nodes per second
	ScoreCP int      // centipawns, + = advantage for side to move
	MateIn  int      // mate in N moves (0 if none), negative if side to move is mated
	HasMate bool     // MateIn is valid; "mate 0" means mated
	UCIPV   []string // principal variation in UCI long algebraic, best move first
}

// Setup is what an engine analyses: a start position and the moves played
// from it. The moves let the engine see repetitions.
type Setup struct {
	Start *chess.Position
	Moves []*chess.Move
}

// FromPosition is a setup without history.
func FromPosition(pos *chess.Position) Setup {
	return Setup{Start: pos}
}

// Position returns the position after Moves, nil without a start.
func (s Setup) Position() *chess.Position {
	pos := s.Start
	for _, mv := range s.Moves {
		if pos == nil {
			return nil
		}
		pos = pos.Update(mv)
	}
	return pos
}

type SearchParams struct {
	MaxDepth  int   // 0 = unlimited (but bounded by MaxTimeMs)
	MaxTimeMs int64 // 0 = no time limits
	Infinite  bool  // if true, search until StopAnalysis()
}

type LevelAnalyze int

const (
	LevelOne LevelAnalyze = iota
	LevelTwo
	LevelThree
	LevelFour
	LevelFive
	LevelLast
)

const (
	UCIHandshakeTimeout = 2 * time.Second // uci / isready
	StopAnalyzeTimeout  = 5 * time.Second // wait bestmove after stop
	QuitTimeout         = 2 * time.Second // wait exit after quit
)

// Engine is a handle to an external analysis process.
// SetPosition/StartAnalysis/StopAnalysis/Close are called by one owner;
// NextInfo is called by the single analysis worker while a search runs.
type Engine interface {
	Init() error
	Name() string
	SetPosition(setup Setup) error
	StartAnalysis(params SearchParams) error
	// NextInfo blocks until the next update. Returns ErrSearchDone once the
	// search is over and ErrProcessExited if the process is gone.
	NextInfo(ctx context.Context) (AnalysisInfo, error)
	StopAnalysis() error
	Close()
}

func LevelToParams(lvl LevelAnalyze) SearchParams {
	switch lvl {
	case LevelOne:
		return SearchParams{MaxDepth: 4, MaxTimeMs: 500}
	case LevelTwo:
		return SearchParams{MaxDepth: 8, MaxTimeMs: 1500}
	case LevelThree:
		return SearchParams{MaxDepth: 12, MaxTimeMs: 3000}
	case LevelFour:
		return SearchParams{MaxDepth: 16, MaxTimeMs: 6000}
	case LevelFive:
		return SearchParams{MaxDepth: 20, MaxTimeMs: 10000}
	default:
		// full strength, until stopped
		return SearchParams{Infinite: true}
	}
}

func LevelFromString(s string) LevelAnalyze {
	switch s {
	case "1":
		return LevelOne
	case "2":
		return LevelTwo
	case "3":
		return LevelThree
	case "4":
		return LevelFour
	case "5":
		return LevelFive
	default:
		return LevelLast
	}
}
