package gui

import (
	"errors"
	"os"
	"thechess/src/analysis"
	"thechess/src/chesslib"
	"thechess/src/chesslib/engine"
	"thechess/src/logx"
	"thechess/src/ui/gui/gbase"
	"thechess/src/ui/gui/gbase/gconf"
	"thechess/src/ui/gui/gdraw"
	"thechess/src/ui/gui/ghelper"

	"github.com/hajimehoshi/ebiten/v2"
)

type Options struct {
	ConfigPath string // "" = gconf.DefaultFile
	EnginePath string // overrides the persisted engine
	Workdir    string // dir with assets overriding the embedded ones
}

type GUIProcessing struct {
	mgr *gdraw.SceneManager
	ctx *ghelper.GUIGameContext
}

func NewGUI(b *chesslib.GameBuilder, logger logx.Logger, opts Options) (*GUIProcessing, error) {
	cfg, err := gconf.NewGUIConfig(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	as, err := ghelper.NewGUIAssetsWorker(opts.Workdir, cfg)
	if err != nil {
		return nil, err
	}
	ch := analysis.NewChannel(logger.Named("analysis"), cfg.LineLength, engine.SearchParams{Infinite: true})
	ctx := ghelper.NewGUIGameContext(b, ch, as, cfg, logger)

	path := opts.EnginePath
	if path == "" {
		path, err = gconf.LoadEnginePath(cfg.EngineFile)
		switch {
		case err == nil:
			ctx.EnginePath = path
		case errors.Is(err, gconf.ErrNoEngine), errors.Is(err, os.ErrNotExist):
			logger.Debugf("no saved engine in %s", cfg.EngineFile)
		default:
			logger.Warnf("error read engine path: %v", err)
		}
	}
	if path != "" {
		ctx.StartEngine(path)
	}

	mgr := gdraw.NewSceneManager(ctx)
	return &GUIProcessing{mgr: mgr, ctx: ctx}, nil
}

// Run blocks until the window is closed. The analysis channel is closed
// before it returns.
func (gp *GUIProcessing) Run() error {
	defer gp.ctx.Shutdown()

	ebiten.SetWindowIcon(gp.ctx.AssetsWorker.Icons())
	ebiten.SetWindowSize(gp.ctx.Config.WindowW, gp.ctx.Config.WindowH)
	ebiten.SetWindowTitle(gbase.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowClosingHandled(true)
	ebiten.SetTPS(gp.ctx.Config.TPS)
	return ebiten.RunGame(gp)
}

func (gp *GUIProcessing) Update() error {
	if ebiten.IsWindowBeingClosed() {
		gp.ctx.Shutdown()
		return gbase.ErrExit
	}
	return gp.mgr.Update()
}

func (gp *GUIProcessing) Draw(screen *ebiten.Image) {
	gp.mgr.Draw(screen)
}

func (gp *GUIProcessing) Layout(outsideWidth, outsideHeight int) (screenWidth, screenHeight int) {
	gp.ctx.Width = outsideWidth
	gp.ctx.Height = outsideHeight
	return outsideWidth, outsideHeight
}
