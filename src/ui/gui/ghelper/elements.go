package ghelper

import (
	"image/color"
	"math"
	"thechess/src/ui/gui/gbase"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font"
)

// ---- UI ELEMENTS ----

// ---- Button ----

type Button struct {
	Label      string
	X, Y, W, H int
	Image      *ebiten.Image // pre-rendered rounded rect with stroke
	Disabled   bool

	// animation state
	Hover   bool // mouse over
	Pressed bool // mouse currently pressed on this button
	// animation variables
	Scale         float64 // current scale (1.0 default)
	TargetScale   float64
	OffsetY       float64 // current vertical offset for pressed effect
	TargetOffsetY float64
	AnimSpeed     float64 // how fast to approach target (per second)
}

func NewButton(ctx *GUIGameContext, label string, x, y, w, h int) *Button {
	return &Button{
		Label: label,
		X:     x, Y: y, W: w, H: h,
		Image:       RenderRoundedRect(w, h, 12, ctx.Theme.ButtonFill, ctx.Theme.ButtonStroke, 2),
		Scale:       1.0,
		TargetScale: 1.0,
	}
}

// AppendButton adds a button and returns its index
func AppendButton(ctx *GUIGameContext, label string, x, y, w, h int, buttons []*Button) (int, []*Button) {
	buttons = append(buttons, NewButton(ctx, label, x, y, w, h))
	return len(buttons) - 1, buttons
}

// MoveTo places the button, used after a window resize
func (b *Button) MoveTo(x, y int) {
	b.X, b.Y = x, y
}

func (b *Button) Contains(px, py int) bool {
	return px >= b.X && px < b.X+b.W && py >= b.Y && py < b.Y+b.H
}

// Call every Update: pass mouse info, returns true if click finished on this button
func (b *Button) HandleInput(px, py int, justClicked, justReleased bool) bool {
	if b.Disabled {
		b.Hover, b.Pressed = false, false
		b.TargetScale, b.TargetOffsetY = 1.0, 0
		return false
	}
	inside := b.Contains(px, py)
	b.Hover = inside

	// pressed start only if mouse went down while cursor inside the button
	if justClicked && inside {
		b.Pressed = true
		b.TargetScale = 0.96
		b.TargetOffsetY = 3.0 // push down 3px
	}
	// release: if we released and the press started on this button and cursor still inside => click
	if justReleased {
		if b.Pressed && inside {
			b.Pressed = false
			b.TargetScale = 1.03 // small click bounce out
			b.TargetOffsetY = 0
			return true
		}
		// released outside: cancel press
		b.Pressed = false
		b.TargetScale = 1.0
		b.TargetOffsetY = 0
	}
	if inside && !b.Pressed {
		b.TargetScale = 1.02
		b.TargetOffsetY = 0
	} else if !b.Pressed {
		b.TargetScale = 1.0
		b.TargetOffsetY = 0
	}
	return false
}

// Call every Update with dt seconds to approach the target values
func (b *Button) UpdateAnim(dt float64) {
	if b.AnimSpeed <= 0 {
		b.AnimSpeed = 8.0
	}
	approach := func(cur *float64, target float64, speed float64) {
		t := 1.0 - math.Exp(-speed*dt)
		*cur = *cur*(1.0-t) + target*t
	}

	approach(&b.Scale, b.TargetScale, b.AnimSpeed)
	approach(&b.OffsetY, b.TargetOffsetY, b.AnimSpeed)

	if !b.Pressed && math.Abs(b.Scale-1.03) < 0.005 {
		b.TargetScale = 1.0
	}
}

func (b *Button) DrawAnimated(screen *ebiten.Image, face font.Face, theme gbase.Palette) {
	if b.Image == nil {
		return
	}
	cx := float64(b.X + b.W/2)
	cy := float64(b.Y+b.H/2) + b.OffsetY

	// draw button image scaled around center
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(-float64(b.Image.Bounds().Dx())/2, -float64(b.Image.Bounds().Dy())/2)
	op.GeoM.Scale(b.Scale, b.Scale)
	op.GeoM.Translate(cx, cy)
	op.Filter = ebiten.FilterLinear // UI filter
	if b.Disabled {
		op.ColorScale.ScaleAlpha(0.45)
	}
	screen.DrawImage(b.Image, op)

	// draw label centered using font metrics
	bounds := text.BoundString(face, b.Label)
	tx := int(cx) - bounds.Dx()/2
	ty := int(cy) + bounds.Dy()/2
	col := color.Color(theme.ButtonText)
	if b.Disabled {
		col = theme.ButtonStroke
	}
	text.Draw(screen, b.Label, face, tx, ty, col)
}

// ---- MessageBox ----

type MessageBox struct {
	Label string

	// state
	Open      bool
	Animating bool
	Scale     float64 // 0..1
	Opening   bool
	OnClose   func()
}

func NewMessageBox() *MessageBox {
	return &MessageBox{}
}

func (mb *MessageBox) AnimateMessage() {
	if !mb.Animating {
		return
	}
	const dt = 1.0 / 60.0
	const speed = 6.0
	if mb.Opening {
		mb.Scale += speed * dt
		if mb.Scale >= 1.0 {
			mb.Scale = 1.0
			mb.Animating = false
		}
	} else {
		mb.Scale -= speed * dt
		if mb.Scale <= 0.0 {
			mb.Scale = 0.0
			mb.Animating = false
			mb.Open = false
			if mb.OnClose != nil {
				mb.OnClose()
			}
		}
	}
}

func (mb *MessageBox) ShowMessage(msg string, onClose func()) {
	mb.Label = msg
	mb.Open = true
	mb.Opening = true
	mb.Animating = true
	mb.Scale = 0.0
	mb.OnClose = onClose
}

func (mb *MessageBox) IsOverlayed() bool {
	return mb.Open || mb.Animating
}

func (mb *MessageBox) CollapseMessage() {
	mb.Opening = false
	mb.Animating = true
}

func (mb *MessageBox) rect(ctx *GUIGameContext) (x, y, w, h int) {
	bounds := text.BoundString(ctx.AssetsWorker.Fonts().Normal, mb.Label)
	mw := max(bounds.Dx(), 200) + 64
	mh := bounds.Dy() + 40 + 64

	scale := math.Max(0, math.Min(1, mb.Scale))
	w = max(int(float64(mw)*scale), 6)
	h = max(int(float64(mh)*scale), 6)
	return (ctx.Width-w)/2, (ctx.Height-h)/2, w, h
}

func okRect(x, y, w, h int) (int, int, int, int) {
	okW, okH := 120, 40
	return x + (w-okW)/2, y + h - okH - 16, okW, okH
}

// Update closes the box on OK click or Enter/Escape.
func (mb *MessageBox) Update(ctx *GUIGameContext, mx, my int, justReleased, dismiss bool) {
	if !mb.Open || !mb.Opening {
		return
	}
	if dismiss {
		mb.CollapseMessage()
		return
	}
	ox, oy, ow, oh := okRect(mb.rect(ctx))
	if justReleased && PointInRect(mx, my, ox, oy, ow, oh) {
		mb.CollapseMessage()
	}
}

func (mb *MessageBox) Draw(ctx *GUIGameContext, screen *ebiten.Image) {
	if !mb.IsOverlayed() {
		return
	}
	DrawRect(screen, 0, 0, float64(ctx.Width), float64(ctx.Height), ctx.Theme.ModalBg)

	x, y, w, h := mb.rect(ctx)
	modalImg := RenderRoundedRect(w, h, 16, ctx.Theme.ButtonFill, ctx.Theme.ButtonStroke, 3)
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(x), float64(y))
	screen.DrawImage(modalImg, op)
	if mb.Scale < 0.85 {
		return
	}

	fonts := ctx.AssetsWorker.Fonts()
	text.Draw(screen, mb.Label, fonts.Normal, x+32, y+40, ctx.Theme.MenuText)

	ox, oy, ow, oh := okRect(x, y, w, h)
	DrawRect(screen, float64(ox), float64(oy), float64(ow), float64(oh), ctx.Theme.Accent)
	label := ctx.AssetsWorker.Lang().T("button.ok")
	b := text.BoundString(fonts.Normal, label)
	text.Draw(screen, label, fonts.Normal, ox+(ow-b.Dx())/2, oy+(oh+b.Dy())/2, color.White)
}
