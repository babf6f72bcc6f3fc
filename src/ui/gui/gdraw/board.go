package gdraw

import (
	"fmt"
	"thechess/src/ui/gui/ghelper"
	"thechess/src/ui/gui/ghelper/gclipboard"
	"thechess/src/ui/gui/ginput"
	"thechess/src/ui/gui/glayout"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/notnil/chess"
)

const (
	btnW   = (glayout.SidebarW - 2*glayout.Margin - btnGap) / 2
	btnH   = 36
	btnGap = 12
)

type GUIBoardDrawer struct {
	layout  glayout.Layout
	w, h    int
	flipped bool
	input   *ginput.Machine

	borderImg *ebiten.Image
	panel     *GUIAnalysisPanel

	// UI buttons
	btnNewIdx    int
	btnFlipIdx   int
	btnUndoIdx   int
	btnRedoIdx   int
	btnEngineIdx int
	btnSelectIdx int
	btnExportIdx int
	buttons      []*ghelper.Button

	lastTick time.Time
}

func NewGUIBoardDrawer(ctx *ghelper.GUIGameContext) *GUIBoardDrawer {
	bd := &GUIBoardDrawer{
		input:    ginput.NewMachine(),
		panel:    NewGUIAnalysisPanel(),
		lastTick: time.Now(),
	}
	lang := ctx.AssetsWorker.Lang()
	bd.buttons = []*ghelper.Button{}
	bd.btnNewIdx, bd.buttons = ghelper.AppendButton(ctx, lang.T("button.new"), 0, 0, btnW, btnH, bd.buttons)
	bd.btnFlipIdx, bd.buttons = ghelper.AppendButton(ctx, lang.T("button.flip"), 0, 0, btnW, btnH, bd.buttons)
	bd.btnUndoIdx, bd.buttons = ghelper.AppendButton(ctx, lang.T("button.undo"), 0, 0, btnW, btnH, bd.buttons)
	bd.btnRedoIdx, bd.buttons = ghelper.AppendButton(ctx, lang.T("button.redo"), 0, 0, btnW, btnH, bd.buttons)
	bd.btnEngineIdx, bd.buttons = ghelper.AppendButton(ctx, lang.T("button.engine.on"), 0, 0, btnW, btnH, bd.buttons)
	bd.btnSelectIdx, bd.buttons = ghelper.AppendButton(ctx, lang.T("button.engine.select"), 0, 0, btnW, btnH, bd.buttons)
	bd.btnExportIdx, bd.buttons = ghelper.AppendButton(ctx, lang.T("button.export"), 0, 0, btnW, btnH, bd.buttons)
	bd.recalcLayout(ctx)
	return bd
}

// recalcLayout follows the window size and the board orientation.
func (bd *GUIBoardDrawer) recalcLayout(ctx *ghelper.GUIGameContext) {
	if bd.w == ctx.Width && bd.h == ctx.Height && bd.layout.Flipped == bd.flipped && bd.borderImg != nil {
		return
	}
	bd.w, bd.h = ctx.Width, ctx.Height
	bd.layout = glayout.Compute(bd.w, bd.h, bd.flipped)

	if bd.borderImg == nil || bd.borderImg.Bounds().Dx() != bd.layout.BoardSize+8 {
		if bd.borderImg != nil {
			bd.borderImg.Deallocate()
		}
		bd.borderImg = ghelper.RenderRoundedRect(bd.layout.BoardSize+8, bd.layout.BoardSize+8, 6, ctx.Theme.ButtonFill, ctx.Theme.ButtonStroke, 3)
	}

	// two columns of buttons, the panel below them
	x := bd.layout.SidebarX()
	y := bd.layout.BoardY
	for i, b := range bd.buttons {
		col, row := i%2, i/2
		b.MoveTo(x+col*(btnW+btnGap), y+row*(btnH+btnGap/2+4))
	}
	rows := (len(bd.buttons) + 1) / 2
	bd.panel.MoveTo(x, y+rows*(btnH+btnGap/2+4)+btnGap, glayout.SidebarW-2*glayout.Margin)
}

func (bd *GUIBoardDrawer) syncButtons(ctx *ghelper.GUIGameContext) {
	lang := ctx.AssetsWorker.Lang()
	bd.buttons[bd.btnUndoIdx].Disabled = !ctx.Builder.CanUndo()
	bd.buttons[bd.btnRedoIdx].Disabled = !ctx.Builder.CanRedo()
	bd.buttons[bd.btnEngineIdx].Disabled = ctx.Loading()
	if ctx.Channel.Active() {
		bd.buttons[bd.btnEngineIdx].Label = lang.T("button.engine.off")
	} else {
		bd.buttons[bd.btnEngineIdx].Label = lang.T("button.engine.on")
	}
}

func (bd *GUIBoardDrawer) Update(ctx *ghelper.GUIGameContext) (SceneType, error) {
	now := time.Now()
	dt := now.Sub(bd.lastTick).Seconds()
	bd.lastTick = now

	bd.recalcLayout(ctx)

	mx, my := ebiten.CursorPosition()
	justPressed := inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft)
	justReleased := inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft)

	// message box
	dismiss := inpututil.IsKeyJustPressed(ebiten.KeyEnter) || inpututil.IsKeyJustPressed(ebiten.KeyEscape)
	ctx.Msg.Update(ctx, mx, my, justReleased, dismiss)
	ctx.Msg.AnimateMessage()
	if ctx.Msg.IsOverlayed() {
		bd.input.Cancel()
		return SceneNotChanged, nil
	}

	// buttons
	bd.syncButtons(ctx)
	for i, b := range bd.buttons {
		clicked := b.HandleInput(mx, my, justPressed, justReleased)
		b.UpdateAnim(dt)
		if clicked {
			bd.onButton(ctx, i)
		}
	}

	bd.handleKeys(ctx)

	// board
	sq, onBoard := bd.layout.PixelToSquare(mx, my)
	if justPressed {
		bd.input.Down(sq, onBoard, mx, my, ctx.Builder)
	} else if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		bd.input.Drag(mx, my)
	}
	if justReleased {
		switch bd.input.Up(sq, onBoard, ctx.Builder) {
		case ginput.Moved:
			ctx.Logx.Debugf("input move %s", bd.input.LastSAN())
			ctx.Restart()
		case ginput.Discarded:
			ctx.Logx.Debugf("input move discarded on %s", sq)
		}
	}
	return SceneNotChanged, nil
}

func (bd *GUIBoardDrawer) onButton(ctx *ghelper.GUIGameContext, i int) {
	switch i {
	case bd.btnNewIdx:
		bd.input.Cancel()
		ctx.NewGame()
	case bd.btnFlipIdx:
		bd.flipped = !bd.flipped
	case bd.btnUndoIdx:
		bd.input.Cancel()
		ctx.Undo()
	case bd.btnRedoIdx:
		bd.input.Cancel()
		ctx.Redo()
	case bd.btnEngineIdx:
		ctx.ToggleEngine()
	case bd.btnSelectIdx:
		ctx.SelectEngine()
	case bd.btnExportIdx:
		ctx.ExportPGN()
	}
}

func (bd *GUIBoardDrawer) handleKeys(ctx *ghelper.GUIGameContext) {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		bd.onButton(ctx, bd.btnNewIdx)
	case inpututil.IsKeyJustPressed(ebiten.KeyLeft):
		bd.onButton(ctx, bd.btnUndoIdx)
	case inpututil.IsKeyJustPressed(ebiten.KeyRight):
		bd.onButton(ctx, bd.btnRedoIdx)
	case inpututil.IsKeyJustPressed(ebiten.KeyF):
		bd.onButton(ctx, bd.btnFlipIdx)
	case inpututil.IsKeyJustPressed(ebiten.KeyE):
		ctx.ToggleEngine()
	case inpututil.IsKeyJustPressed(ebiten.KeyEscape):
		bd.input.Cancel()
	case inpututil.IsKeyJustPressed(ebiten.KeyC):
		if err := gclipboard.WriteAll(ctx.Builder.FEN()); err != nil {
			ctx.Logx.Warnf("error copy FEN: %v", err)
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyV):
		fen, err := gclipboard.ReadAll()
		if err != nil {
			ctx.Logx.Warnf("error paste FEN: %v", err)
			return
		}
		bd.input.Cancel()
		ctx.LoadFEN(fen)
	}
}

func (bd *GUIBoardDrawer) Draw(ctx *ghelper.GUIGameContext, screen *ebiten.Image) {
	screen.Fill(ctx.Theme.Bg)
	l := bd.layout
	sqf := float64(l.Sq)

	// board border
	if bd.borderImg != nil {
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Translate(float64(l.BoardX-4), float64(l.BoardY-4))
		screen.DrawImage(bd.borderImg, op)
	}

	// squares
	for sq := chess.A1; sq <= chess.H8; sq++ {
		x, y := l.SquareToPixel(sq)
		col := ctx.Theme.DarkSq
		if glayout.IsLightSquare(sq) {
			col = ctx.Theme.LightSq
		}
		ghelper.DrawRect(screen, float64(x), float64(y), sqf, sqf, col)
	}

	// selection and legal destinations
	from, active := bd.input.From()
	if active {
		x, y := l.SquareToPixel(from)
		ghelper.DrawRect(screen, float64(x), float64(y), sqf, sqf, ctx.Theme.Selected)
		for _, to := range ctx.Builder.LegalTargets(from) {
			tx, ty := l.SquareToPixel(to)
			d := sqf / 3
			ghelper.DrawRect(screen, float64(tx)+d, float64(ty)+d, d, d, ctx.Theme.Target)
		}
	}

	// pieces
	dragging := bd.input.State() == ginput.Dragging
	for sq := chess.A1; sq <= chess.H8; sq++ {
		p := ctx.Builder.PieceAt(sq)
		if p == chess.NoPiece || (dragging && sq == from) {
			continue
		}
		img := ctx.AssetsWorker.ScaledPiece(p, l.Sq)
		if img == nil {
			continue
		}
		x, y := l.SquareToPixel(sq)
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Translate(float64(x), float64(y))
		screen.DrawImage(img, op)
	}

	// dragged piece on top, centered on the pointer
	if dragging {
		px, py := bd.input.Pointer()
		if over, ok := l.PixelToSquare(px, py); ok && over != from {
			ox, oy := l.SquareToPixel(over)
			ghelper.DrawRectStroke(screen, float64(ox), float64(oy), sqf, sqf, 3, ctx.Theme.Accent)
		}
		if img := ctx.AssetsWorker.ScaledPiece(ctx.Builder.PieceAt(from), l.Sq); img != nil {
			op := &ebiten.DrawImageOptions{}
			op.GeoM.Translate(float64(px-l.Sq/2), float64(py-l.Sq/2))
			screen.DrawImage(img, op)
		}
	}

	// sidebar
	for _, b := range bd.buttons {
		b.DrawAnimated(screen, ctx.AssetsWorker.Fonts().Normal, ctx.Theme)
	}
	bd.panel.Draw(ctx, screen)

	ctx.Msg.Draw(ctx, screen)
	// debug overlay
	if ctx.Config.Debug {
		ebitenutil.DebugPrint(screen, fmt.Sprintf("TPS: %0.2f gen: %d", ebiten.ActualTPS(), ctx.Channel.Generation()))
	}
}
