package analysis

import (
	"fmt"
	"strings"
	"thechess/src/chesslib/engine"

	"github.com/notnil/chess"
)

const DefaultLineLength = 5

// Snapshot is the latest known analysis state. Published snapshots are
// never modified; a new value replaces the old one.
type Snapshot struct {
	Line       []string // principal variation in SAN
	Nodes      uint64
	Score      string // "+0.35", "#3", "#-2"
	Depth      int
	Engine     string
	Generation uint64
	Stale      bool // engine died, kept for display
}

var emptySnapshot = &Snapshot{}

func (s *Snapshot) Empty() bool {
	return s == nil || (len(s.Line) == 0 && s.Score == "" && s.Nodes == 0)
}

func (s *Snapshot) LineText() string {
	return strings.Join(s.Line, " ")
}

func newSnapshot(pos *chess.Position, info engine.AnalysisInfo, name string, gen uint64, maxLen int) *Snapshot {
	nodes := info.Nodes
	if nodes < 0 {
		nodes = 0
	}
	return &Snapshot{
		Line:       LineToSAN(pos, info.UCIPV, maxLen),
		Nodes:      uint64(nodes),
		Score:      FormatScore(info),
		Depth:      info.Depth,
		Engine:     name,
		Generation: gen,
	}
}

// FormatScore renders the score from the side to move's perspective.
func FormatScore(info engine.AnalysisInfo) string {
	if info.HasMate {
		return fmt.Sprintf("#%d", info.MateIn)
	}
	return fmt.Sprintf("%+.2f", float64(info.ScoreCP)/100)
}

// LineToSAN replays up to maxLen UCI moves on pos and returns their SAN.
// The line is cut at the first move that is not legal.
func LineToSAN(pos *chess.Position, pv []string, maxLen int) []string {
	if pos == nil || maxLen <= 0 {
		return nil
	}
	out := make([]string, 0, min(len(pv), maxLen))
	for _, s := range pv {
		if len(out) == maxLen {
			break
		}
		mv := findUCI(pos, s)
		if mv == nil {
			break
		}
		out = append(out, chess.AlgebraicNotation{}.Encode(pos, mv))
		pos = pos.Update(mv)
	}
	return out
}

func findUCI(pos *chess.Position, s string) *chess.Move {
	dec, err := chess.UCINotation{}.Decode(pos, s)
	if err != nil {
		return nil
	}
	for _, mv := range pos.ValidMoves() {
		if mv.S1() == dec.S1() && mv.S2() == dec.S2() && mv.Promo() == dec.Promo() {
			return mv
		}
	}
	return nil
}
