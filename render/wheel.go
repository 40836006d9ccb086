// Package render draws the wheel, needle, status bar and winner popup onto a
// character-cell canvas.
package render

import (
	"fmt"
	"math"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/prize-wheel/asset"
	"github.com/lixenwraith/prize-wheel/wheel"
)

// Canvas is the drawing surface, satisfied by tcell.Screen
type Canvas interface {
	SetContent(x, y int, primary rune, combining []rune, style tcell.Style)
	Size() (width, height int)
}

// Image sizing against a 200px reference wheel: 80px plus up to 120px by slice share
const (
	imageBase   = 80.0
	imageScale  = 120.0
	imageRadius = 200.0
	imageOrbit  = 0.6 // fraction of the radius where slice images sit
)

// Layout rows: title, needle, wheel, status bar
const (
	titleRow     = 0
	topMargin    = 2
	bottomMargin = 2
	minRadius    = 3
)

// Popup is the winner announcement; nil in Scene hides it
type Popup struct {
	Label string
	Image *asset.Image
}

// Scene is everything one frame needs
type Scene struct {
	Rotation float64
	Slices   []wheel.Slice
	Colors   []tcell.Color
	Labels   []string
	Images   []*asset.Image // nil entries draw no artwork
	Needle   float64
	Variant  wheel.Variant
	Bias     float64
	Spinning bool
	Popup    *Popup
}

// Geometry places the disc on screen; radius is in rows, columns are doubled for cell aspect
type Geometry struct {
	CX, CY int
	Radius int
}

// Layout fits the largest disc into a width x height canvas
func Layout(width, height int) Geometry {
	r := (height - topMargin - bottomMargin - 1) / 2
	if byWidth := (width - 2) / 4; byWidth < r {
		r = byWidth
	}
	if r < minRadius {
		r = minRadius
	}
	return Geometry{CX: width / 2, CY: topMargin + r, Radius: r}
}

// Contains reports whether a cell lies on the disc
func (g Geometry) Contains(x, y int) bool {
	dx := float64(x-g.CX) / 2
	dy := float64(y - g.CY)
	r := float64(g.Radius) + 0.25
	return dx*dx+dy*dy <= r*r
}

// ScreenAngle returns the clockwise screen angle of a cell around the centre
func (g Geometry) ScreenAngle(x, y int) float64 {
	return wheel.Normalize(math.Atan2(float64(y-g.CY), float64(x-g.CX)/2))
}

// Point returns the cell at screen angle a and distance d (in rows) from the centre
func (g Geometry) Point(a, d float64) (int, int) {
	x := g.CX + int(math.Round(math.Cos(a)*d*2))
	y := g.CY + int(math.Round(math.Sin(a)*d))
	return x, y
}

// WheelRenderer draws scenes; maxImageWidth caps sprite width in columns
type WheelRenderer struct {
	maxImageWidth int
}

// NewWheelRenderer creates a renderer
func NewWheelRenderer(maxImageWidth int) *WheelRenderer {
	return &WheelRenderer{maxImageWidth: maxImageWidth}
}

// Render draws a full frame
func (r *WheelRenderer) Render(c Canvas, s Scene) {
	w, h := c.Size()
	g := Layout(w, h)

	fill(c, w, h)
	r.drawTitle(c, w)
	r.drawDisc(c, g, s)
	r.drawImages(c, g, s)
	r.drawNeedle(c, g, s.Needle)
	r.drawStatus(c, w, h, s)
	if s.Popup != nil {
		r.drawPopup(c, g, w, h, s.Popup)
	}
}

// SliceAt returns the slice index coloured at a disc cell, -1 outside the disc
func SliceAt(g Geometry, x, y int, s Scene) int {
	if !g.Contains(x, y) {
		return -1
	}
	return wheel.IndexAt(s.Slices, g.ScreenAngle(x, y)-s.Rotation)
}

func fill(c Canvas, w, h int) {
	st := styleBg(ColorBackground)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c.SetContent(x, y, ' ', nil, st)
		}
	}
}

func (r *WheelRenderer) drawTitle(c Canvas, w int) {
	title := "PRIZE WHEEL"
	drawText(c, (w-len(title))/2, titleRow, title, styleFgBg(ColorText, ColorBackground).Bold(true))
}

func (r *WheelRenderer) drawDisc(c Canvas, g Geometry, s Scene) {
	for y := g.CY - g.Radius; y <= g.CY+g.Radius; y++ {
		for x := g.CX - 2*g.Radius - 1; x <= g.CX+2*g.Radius+1; x++ {
			idx := SliceAt(g, x, y, s)
			if idx < 0 {
				continue
			}
			c.SetContent(x, y, ' ', nil, styleBg(sliceColor(s, idx)))
		}
	}
	c.SetContent(g.CX, g.CY, '●', nil, styleFgBg(ColorHub, sliceColor(s, SliceAt(g, g.CX, g.CY, s))))
}

// drawImages places each slice's sprite on its mid-angle, sized by the slice share
// Transparent quadrants take the colour of the wheel cell underneath
func (r *WheelRenderer) drawImages(c Canvas, g Geometry, s Scene) {
	for i, sl := range s.Slices {
		if i >= len(s.Images) || s.Images[i] == nil {
			continue
		}
		width := r.imageWidth(g, sl.Share())
		if width <= 0 {
			continue
		}
		sprite := s.Images[i].Sprite(width)
		px, py := g.Point(sl.Mid()+s.Rotation, float64(g.Radius)*imageOrbit)
		r.blit(c, sprite, px-sprite.Width/2, py-sprite.Height/2, func(x, y int) tcell.Color {
			if idx := SliceAt(g, x, y, s); idx >= 0 {
				return sliceColor(s, idx)
			}
			return ColorBackground
		})
	}
}

func (r *WheelRenderer) imageWidth(g Geometry, share float64) int {
	frac := (imageBase + share*imageScale) / imageRadius
	// Columns are half a row wide
	width := int(math.Round(2 * frac * float64(g.Radius)))
	if r.maxImageWidth > 0 && width > r.maxImageWidth {
		width = r.maxImageWidth
	}
	return width
}

func (r *WheelRenderer) blit(c Canvas, sp *asset.Sprite, ox, oy int, under func(x, y int) tcell.Color) {
	w, h := c.Size()
	for y := 0; y < sp.Height; y++ {
		for x := 0; x < sp.Width; x++ {
			cell := sp.At(x, y)
			sx, sy := ox+x, oy+y
			if cell.Rune == 0 || sx < 0 || sy < 0 || sx >= w || sy >= h {
				continue
			}
			bg := cell.Bg
			if !cell.HasBg {
				bg = under(sx, sy)
			}
			c.SetContent(sx, sy, cell.Rune, nil, styleFgBg(cell.Fg, bg))
		}
	}
}

// drawNeedle puts a pointer just outside the rim at the needle angle
func (r *WheelRenderer) drawNeedle(c Canvas, g Geometry, needle float64) {
	x, y := g.Point(needle, float64(g.Radius)+1)
	c.SetContent(x, y, needleRune(needle), nil, styleFgBg(ColorNeedle, ColorBackground))
}

func needleRune(a float64) rune {
	switch q := int(math.Round(wheel.Normalize(a)/(math.Pi/2))) % 4; q {
	case 0:
		return '◀'
	case 1:
		return '▲'
	case 2:
		return '▶'
	default:
		return '▼'
	}
}

func (r *WheelRenderer) drawStatus(c Canvas, w, h int, s Scene) {
	y := h - 1
	st := styleFgBg(ColorText, ColorStatusBg)
	for x := 0; x < w; x++ {
		c.SetContent(x, y, ' ', nil, st)
	}

	var b strings.Builder
	fmt.Fprintf(&b, " [%s]", s.Variant)
	if s.Variant == wheel.VariantBiased {
		fmt.Fprintf(&b, " bias %+.2f", s.Bias)
	}
	for i, sl := range s.Slices {
		label := fmt.Sprintf("#%d", i)
		if i < len(s.Labels) {
			label = s.Labels[i]
		}
		fmt.Fprintf(&b, "  %s %.1f%%", label, sl.Share()*100)
	}
	if s.Spinning {
		b.WriteString("  spinning...")
	}
	drawText(c, 0, y, b.String(), st)

	hint := "space spin  q quit "
	if s.Variant == wheel.VariantBiased {
		hint = "space spin  ←/→ bias  0 reset  q quit "
	}
	if x := w - len([]rune(hint)); x > len([]rune(b.String()))+1 {
		drawText(c, x, y, hint, styleFgBg(ColorDim, ColorStatusBg))
	}
}

func sliceColor(s Scene, idx int) tcell.Color {
	if idx < 0 || len(s.Colors) == 0 {
		return ColorBackground
	}
	return s.Colors[idx%len(s.Colors)]
}

func drawText(c Canvas, x, y int, text string, st tcell.Style) {
	for _, ch := range text {
		c.SetContent(x, y, ch, nil, st)
		x++
	}
}
