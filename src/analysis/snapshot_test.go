package analysis

import (
	"reflect"
	"testing"
	"thechess/src/chesslib/engine"

	"github.com/notnil/chess"
)

func TestFormatScore(t *testing.T) {
	cases := []struct {
		info engine.AnalysisInfo
		want string
	}{
		{engine.AnalysisInfo{ScoreCP: 35}, "+0.35"},
		{engine.AnalysisInfo{ScoreCP: -120}, "-1.20"},
		{engine.AnalysisInfo{ScoreCP: 0}, "+0.00"},
		{engine.AnalysisInfo{HasMate: true, MateIn: 3}, "#3"},
		{engine.AnalysisInfo{HasMate: true, MateIn: -2, ScoreCP: 50}, "#-2"},
	}
	for _, c := range cases {
		if got := FormatScore(c.info); got != c.want {
			t.Errorf("FormatScore(%+v) = %q, want %q", c.info, got, c.want)
		}
	}
}

func TestLineToSAN(t *testing.T) {
	start := chess.NewGame().Position()
	cases := []struct {
		name string
		pv   []string
		max  int
		want []string
	}{
		{"full", []string{"e2e4", "e7e5", "g1f3", "b8c6", "f1b5"}, 5, []string{"e4", "e5", "Nf3", "Nc6", "Bb5"}},
		{"truncated", []string{"e2e4", "e7e5", "g1f3", "b8c6", "f1b5", "a7a6"}, 5, []string{"e4", "e5", "Nf3", "Nc6", "Bb5"}},
		{"short limit", []string{"d2d4", "d7d5"}, 1, []string{"d4"}},
		{"illegal cuts", []string{"e2e4", "e2e4", "g1f3"}, 5, []string{"e4"}},
		{"garbage", []string{"zz"}, 5, []string{}},
		{"empty", nil, 5, []string{}},
	}
	for _, c := range cases {
		got := LineToSAN(start, c.pv, c.max)
		if !reflect.DeepEqual(got, c.want) {
			t.Errorf("%s: LineToSAN = %v, want %v", c.name, got, c.want)
		}
	}
	if LineToSAN(nil, []string{"e2e4"}, 5) != nil {
		t.Error("nil position produced a line")
	}
}

func TestLineToSANCheckAndPromotion(t *testing.T) {
	fen, err := chess.FEN("8/4P3/8/8/8/8/k7/4K3 w - - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	pos := chess.NewGame(fen).Position()
	got := LineToSAN(pos, []string{"e7e8q", "a2b2", "e8e5"}, 5)
	if want := []string{"e8=Q", "Kb2", "Qe5+"}; !reflect.DeepEqual(got, want) {
		t.Errorf("LineToSAN = %v, want %v", got, want)
	}
}

func TestSnapshotEmpty(t *testing.T) {
	var nilSnap *Snapshot
	if !nilSnap.Empty() || !emptySnapshot.Empty() {
		t.Error("empty snapshots reported as filled")
	}
	s := &Snapshot{Line: []string{"e4", "e5"}, Score: "+0.10"}
	if s.Empty() || s.LineText() != "e4 e5" {
		t.Errorf("snapshot %+v", s)
	}
}
