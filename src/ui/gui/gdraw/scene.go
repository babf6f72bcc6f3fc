package gdraw

import (
	"thechess/src/ui/gui/ghelper"

	"github.com/hajimehoshi/ebiten/v2"
)

// ---- Scene ----

type Scene interface {
	Update(ctx *ghelper.GUIGameContext) (SceneType, error)
	Draw(ctx *ghelper.GUIGameContext, screen *ebiten.Image)
}

type SceneType int

const (
	SceneBoard SceneType = iota
	SceneNotChanged
)

func (t SceneType) ToScene(s Scene, ctx *ghelper.GUIGameContext) Scene {
	switch t {
	case SceneBoard:
		s = NewGUIBoardDrawer(ctx)
	case SceneNotChanged:
	default:
	}
	return s
}

// ---- Scene manager ----

type SceneManager struct {
	ctx     *ghelper.GUIGameContext
	current Scene
}

func NewSceneManager(ctx *ghelper.GUIGameContext) *SceneManager {
	return &SceneManager{ctx: ctx, current: SceneBoard.ToScene(nil, ctx)}
}

func (m *SceneManager) Update() error {
	// dialog and launch results first, so the scene sees them this tick
	m.ctx.RunActions()
	t, err := m.current.Update(m.ctx)
	if err != nil {
		return err
	}
	m.current = t.ToScene(m.current, m.ctx)
	return nil
}

func (m *SceneManager) Draw(screen *ebiten.Image) {
	m.current.Draw(m.ctx, screen)
}
