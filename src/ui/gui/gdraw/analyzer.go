package gdraw

import (
	"fmt"
	"image/color"
	"strings"
	"thechess/src/ui/gui/ghelper"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font"
)

const (
	panelLineH = 22
	movesRows  = 8
)

// GUIAnalysisPanel shows the last analysis snapshot and the game state.
// It only reads the channel, so drawing never waits for the engine.
type GUIAnalysisPanel struct {
	x, y, w int
}

func NewGUIAnalysisPanel() *GUIAnalysisPanel {
	return &GUIAnalysisPanel{}
}

func (ap *GUIAnalysisPanel) MoveTo(x, y, w int) {
	ap.x, ap.y, ap.w = x, y, w
}

func (ap *GUIAnalysisPanel) Draw(ctx *ghelper.GUIGameContext, screen *ebiten.Image) {
	fonts := ctx.AssetsWorker.Fonts()
	lang := ctx.AssetsWorker.Lang()
	x, y := ap.x, ap.y+panelLineH
	line := func(face font.Face, s string, col color.Color) {
		text.Draw(screen, s, face, x, y, col)
		y += panelLineH
	}

	// game
	turn := lang.T("play.turn.white")
	if !ctx.Builder.IsWhiteToMove() {
		turn = lang.T("play.turn.black")
	}
	line(fonts.Bold, turn, ctx.Theme.MenuText)
	status := ctx.Builder.Status()
	statusText := status.String()
	if status.Finished() {
		statusText += " " + ctx.Builder.Outcome()
	}
	line(fonts.Normal, fmt.Sprintf("%s: %s", lang.T("play.status"), statusText), ctx.Theme.MenuText)
	y += panelLineH / 2

	// engine
	name := ctx.Channel.EngineName()
	if name == "" {
		name = lang.T("analyzer.engine.empty")
	}
	line(fonts.Bold, fmt.Sprintf("%s: %s", lang.T("analyzer.engine.title"), name), ctx.Theme.MenuText)

	// the snapshot is shown only while an engine is attached
	snap := ctx.Channel.Read()
	active := ctx.Channel.Active()
	switch {
	case ctx.Loading():
		line(fonts.Normal, lang.T("analyzer.waiting"), ctx.Theme.Accent)
	case !active:
	case snap.Stale:
		line(fonts.Normal, lang.T("analyzer.stale"), ctx.Theme.Stale)
	case snap.Empty() && ctx.Channel.Running():
		line(fonts.Normal, lang.T("analyzer.waiting"), ctx.Theme.Accent)
	}
	if active && !snap.Empty() {
		col := color.Color(ctx.Theme.MenuText)
		if snap.Stale {
			col = ctx.Theme.Stale
		}
		line(fonts.Mono, fmt.Sprintf("%s: %s", lang.T("analyzer.score"), snap.Score), col)
		line(fonts.Mono, fmt.Sprintf("%s: %d", lang.T("analyzer.depth"), snap.Depth), col)
		line(fonts.Mono, fmt.Sprintf("%s: %d", lang.T("analyzer.nodes"), snap.Nodes), col)
		for i, l := range wrapText(fonts.Mono, lang.T("analyzer.line")+": "+snap.LineText(), ap.w) {
			if i > 1 {
				break
			}
			line(fonts.Mono, l, col)
		}
	}
	y += panelLineH / 2

	// moves, newest at the bottom
	line(fonts.Bold, lang.T("play.moves"), ctx.Theme.MenuText)
	rows := wrapText(fonts.Small, ctx.Builder.PGNBody(), ap.w)
	if len(rows) > movesRows {
		rows = rows[len(rows)-movesRows:]
	}
	for _, r := range rows {
		line(fonts.Small, r, ctx.Theme.MenuText)
	}
}

// wrapText splits s on spaces into rows no wider than maxW.
func wrapText(face font.Face, s string, maxW int) []string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return nil
	}
	var rows []string
	cur := words[0]
	for _, w := range words[1:] {
		next := cur + " " + w
		if font.MeasureString(face, next).Ceil() > maxW {
			rows = append(rows, cur)
			cur = w
			continue
		}
		cur = next
	}
	return append(rows, cur)
}
