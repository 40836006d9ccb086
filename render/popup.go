package render

import (
	"github.com/gdamore/tcell/v2"
)

const (
	popupPadX    = 3
	popupPadY    = 1
	popupMinW    = 24
	popupHint    = "click or press any key"
	popupImageOf = 0.8 // popup sprite width relative to the disc radius in columns
)

// PopupRect is the on-screen box of the winner popup
type PopupRect struct {
	X, Y, W, H int
}

// MessageFor formats the popup headline
func MessageFor(label string) string {
	return "Winner: " + label
}

func (r *WheelRenderer) popupSpriteWidth(g Geometry) int {
	width := int(float64(g.Radius) * 2 * popupImageOf)
	if r.maxImageWidth > 0 && width > r.maxImageWidth {
		width = r.maxImageWidth
	}
	return width
}

// PopupBounds computes the popup box for a canvas, used by renderer and tests
func (r *WheelRenderer) PopupBounds(w, h int, p *Popup) PopupRect {
	g := Layout(w, h)
	msg := []rune(MessageFor(p.Label))

	inner := len(msg)
	if len(popupHint) > inner {
		inner = len(popupHint)
	}
	spriteH := 0
	if p.Image != nil {
		sp := p.Image.Sprite(r.popupSpriteWidth(g))
		if sp.Width > inner {
			inner = sp.Width
		}
		spriteH = sp.Height + 1
	}

	bw := inner + 2*popupPadX + 2
	if bw < popupMinW {
		bw = popupMinW
	}
	// border + pad + message + gap + sprite + hint + pad + border
	bh := 2 + 2*popupPadY + 1 + 1 + spriteH + 1
	return PopupRect{X: (w - bw) / 2, Y: (h - bh) / 2, W: bw, H: bh}
}

func (r *WheelRenderer) drawPopup(c Canvas, g Geometry, w, h int, p *Popup) {
	rect := r.PopupBounds(w, h, p)
	body := styleFgBg(ColorText, ColorPopupBg)
	edge := styleFgBg(ColorPopupEdge, ColorPopupBg)

	for y := rect.Y; y < rect.Y+rect.H; y++ {
		for x := rect.X; x < rect.X+rect.W; x++ {
			c.SetContent(x, y, ' ', nil, body)
		}
	}
	drawBox(c, rect, edge)

	y := rect.Y + 1 + popupPadY
	msg := MessageFor(p.Label)
	drawText(c, rect.X+(rect.W-len([]rune(msg)))/2, y, msg, body.Bold(true))
	y += 2

	if p.Image != nil {
		sp := p.Image.Sprite(r.popupSpriteWidth(g))
		r.blit(c, sp, rect.X+(rect.W-sp.Width)/2, y, func(int, int) tcell.Color { return ColorPopupBg })
		y += sp.Height + 1
	}

	drawText(c, rect.X+(rect.W-len(popupHint))/2, y, popupHint, styleFgBg(ColorDim, ColorPopupBg))
}

func drawBox(c Canvas, r PopupRect, st tcell.Style) {
	right, bottom := r.X+r.W-1, r.Y+r.H-1
	for x := r.X + 1; x < right; x++ {
		c.SetContent(x, r.Y, '─', nil, st)
		c.SetContent(x, bottom, '─', nil, st)
	}
	for y := r.Y + 1; y < bottom; y++ {
		c.SetContent(r.X, y, '│', nil, st)
		c.SetContent(right, y, '│', nil, st)
	}
	c.SetContent(r.X, r.Y, '╭', nil, st)
	c.SetContent(right, r.Y, '╮', nil, st)
	c.SetContent(r.X, bottom, '╰', nil, st)
	c.SetContent(right, bottom, '╯', nil, st)
}
