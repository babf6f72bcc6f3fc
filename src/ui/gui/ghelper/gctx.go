package ghelper

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"thechess/src/analysis"
	"thechess/src/chesslib"
	"thechess/src/logx"
	"thechess/src/ui/gui/gbase"
	"thechess/src/ui/gui/gbase/gconf"
	"thechess/src/ui/gui/ghelper/gdialog"
	"time"
)

// pending results of dialogs and engine launches
const actionQueueSize = 16

// Action runs on the render loop.
type Action func(ctx *GUIGameContext)

// ---- GUI Context ----

type GUIGameContext struct {
	Builder      *chesslib.GameBuilder
	Channel      *analysis.Channel
	Analysis     *analysis.Follower // all channel changes go through it
	AssetsWorker *GUIAssetsWorker
	Config       *gconf.Config
	Theme        gbase.Palette
	Logx         logx.Logger
	Msg          *MessageBox

	Width, Height int
	EnginePath    string // last selected engine, "" if none

	actions  chan Action
	done     chan struct{}
	launches sync.WaitGroup
	loading  int
	shutdown sync.Once
}

func NewGUIGameContext(b *chesslib.GameBuilder, ch *analysis.Channel, a *GUIAssetsWorker, c *gconf.Config, l logx.Logger) *GUIGameContext {
	return &GUIGameContext{
		Builder:      b,
		Channel:      ch,
		Analysis:     analysis.NewFollower(ch, l, b.Setup()),
		AssetsWorker: a,
		Config:       c,
		Theme:        gbase.PaletteFromString(c.Theme),
		Logx:         l,
		Msg:          NewMessageBox(),
		Width:        c.WindowW,
		Height:       c.WindowH,
		actions:      make(chan Action, actionQueueSize),
		done:         make(chan struct{}),
	}
}

// post hands fn to the render loop. After shutdown cancel runs instead.
func (ctx *GUIGameContext) post(fn Action, cancel func()) {
	select {
	case ctx.actions <- fn:
	case <-ctx.done:
		if cancel != nil {
			cancel()
		}
	}
}

// RunActions applies queued results. Call from Update only.
func (ctx *GUIGameContext) RunActions() {
	for {
		select {
		case fn := <-ctx.actions:
			fn(ctx)
		default:
			return
		}
	}
}

// Loading reports an engine launch in flight.
func (ctx *GUIGameContext) Loading() bool {
	return ctx.loading > 0
}

func (ctx *GUIGameContext) ShowError(key string, err error) {
	ctx.Logx.Errorf("%s: %v", key, err)
	ctx.Msg.ShowMessage(fmt.Sprintf("%s: %v", ctx.AssetsWorker.Lang().T(key), err), nil)
}

// ---- position changes ----

// Restart points analysis at the current position. Does not wait for the
// engine.
func (ctx *GUIGameContext) Restart() {
	ctx.Analysis.Follow(ctx.Builder.Setup())
}

func (ctx *GUIGameContext) NewGame() {
	ctx.Builder.CreateClassic()
	ctx.Restart()
}

func (ctx *GUIGameContext) Undo() {
	if ctx.Builder.Undo() {
		ctx.Restart()
	}
}

func (ctx *GUIGameContext) Redo() {
	if ctx.Builder.Redo() {
		ctx.Restart()
	}
}

func (ctx *GUIGameContext) LoadFEN(fen string) {
	if err := ctx.Builder.CreateFromFEN(fen); err != nil {
		ctx.ShowError("msg.fen.bad", err)
		return
	}
	ctx.Restart()
}

// ---- engine ----

// StartEngine launches the engine at path off the render loop and starts
// analysis once it is up.
func (ctx *GUIGameContext) StartEngine(path string) {
	select {
	case <-ctx.done:
		return
	default:
	}
	step := time.Duration(ctx.Config.StepMs) * time.Millisecond
	sess := analysis.NewSession(analysis.NewEngine(ctx.Logx, ctx.Config.EngineMode, path, step))
	ctx.loading++
	ctx.launches.Add(1)
	go func() {
		defer ctx.launches.Done()
		if err := sess.Launch(); err != nil {
			ctx.Logx.Warnf("engine %s not launched: %v", path, err)
		}
		ctx.Analysis.Attach(sess, func(err error) {
			ctx.post(func(ctx *GUIGameContext) {
				ctx.loading--
				ctx.engineAttached(path, err)
			}, nil)
		})
	}()
}

func (ctx *GUIGameContext) engineAttached(path string, err error) {
	switch {
	case err == nil:
	case errors.Is(err, analysis.ErrClosed):
		return
	default:
		ctx.ShowError("msg.engine.failed", err)
		return
	}
	ctx.Logx.Infof("engine %s attached", ctx.Channel.EngineName())
	if path == ctx.EnginePath {
		return
	}
	ctx.EnginePath = path
	if err := gconf.SaveEnginePath(ctx.Config.EngineFile, path); err != nil {
		ctx.Logx.Warnf("error save engine path: %v", err)
	}
}

// ToggleEngine stops a running analysis or restarts the last engine.
func (ctx *GUIGameContext) ToggleEngine() {
	if ctx.Loading() {
		return
	}
	if ctx.Channel.Active() {
		ctx.Analysis.Detach()
		return
	}
	if ctx.EnginePath == "" {
		ctx.SelectEngine()
		return
	}
	ctx.StartEngine(ctx.EnginePath)
}

// SelectEngine asks for an executable; the dialog runs off the render loop.
func (ctx *GUIGameContext) SelectEngine() {
	title := ctx.AssetsWorker.Lang().T("dialog.engine")
	go func() {
		res, err := gdialog.OpenEngine(title)
		if err != nil {
			if !gdialog.IsCancelled(err) {
				ctx.Logx.Errorf("error engine dialog: %v", err)
			}
			return
		}
		ctx.post(func(ctx *GUIGameContext) { ctx.StartEngine(res.Path) }, nil)
	}()
}

// ExportPGN asks for a file and writes the game there.
func (ctx *GUIGameContext) ExportPGN() {
	title := ctx.AssetsWorker.Lang().T("dialog.pgn")
	go func() {
		res, err := gdialog.SavePGN(title, "game.pgn")
		if err != nil {
			if !gdialog.IsCancelled(err) {
				ctx.Logx.Errorf("error pgn dialog: %v", err)
			}
			return
		}
		ctx.post(func(ctx *GUIGameContext) { ctx.writePGN(res.Path) }, nil)
	}()
}

func (ctx *GUIGameContext) writePGN(path string) {
	f, err := os.Create(path)
	if err != nil {
		ctx.ShowError("msg.export.failed", err)
		return
	}
	err = ctx.Builder.PGN(f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		ctx.ShowError("msg.export.failed", err)
		return
	}
	ctx.Logx.Infof("game saved to %s", path)
	ctx.Msg.ShowMessage(ctx.AssetsWorker.Lang().T("msg.export.done")+": "+path, nil)
}

// Shutdown waits for engine launches in flight and closes the channel.
func (ctx *GUIGameContext) Shutdown() {
	ctx.shutdown.Do(func() {
		close(ctx.done)
		ctx.launches.Wait()
		// sessions attached late are released by the closed channel
		ctx.Analysis.Close()
		ctx.RunActions()
		ctx.Logx.Info("gui context closed")
	})
}
