package asset

import (
	"image"
	"image/color"

	"github.com/gdamore/tcell/v2"
)

// QuadrantChars maps 4-bit patterns to Unicode quadrant characters
// Bit order: 0=UL, 1=UR, 2=LL, 3=LR (1 = foreground)
var QuadrantChars = [16]rune{
	' ', '▘', '▝', '▀', '▖', '▌', '▞', '▛',
	'▗', '▚', '▐', '▜', '▄', '▙', '▟', '█',
}

// alphaCutoff is the 16-bit alpha below which a pixel counts as transparent
const alphaCutoff = 0x8000

// charAspect compensates for terminal cells being about twice as tall as wide
const charAspect = 0.5

// Cell is one converted character, Rune 0 marks a fully transparent cell
type Cell struct {
	Rune  rune
	Fg    tcell.Color
	Bg    tcell.Color
	HasBg bool // false lets the underlying wheel colour show through the off quadrants
}

// Sprite is an image converted to a grid of quadrant cells
type Sprite struct {
	Cells  []Cell
	Width  int
	Height int
}

// At returns the cell at x, y
func (s *Sprite) At(x, y int) Cell {
	return s.Cells[y*s.Width+x]
}

type rgba struct {
	r, g, b int
	opaque  bool
}

// Convert samples img into a sprite targetWidth columns wide using 2x2 pixels per cell
func Convert(img image.Image, targetWidth int) *Sprite {
	bounds := img.Bounds()
	srcW, srcH := bounds.Dx(), bounds.Dy()
	if srcW == 0 || srcH == 0 || targetWidth <= 0 {
		return &Sprite{}
	}

	outW := targetWidth
	outH := int(float64(targetWidth)*float64(srcH)/float64(srcW)*charAspect + 0.5)
	if outH < 1 {
		outH = 1
	}

	gridW, gridH := outW*2, outH*2
	cells := make([]Cell, outW*outH)
	offsets := [4][2]int{{0, 0}, {1, 0}, {0, 1}, {1, 1}}

	for y := 0; y < outH; y++ {
		for x := 0; x < outW; x++ {
			var px [4]rgba
			for i, off := range offsets {
				sx := bounds.Min.X + ((x*2+off[0])*srcW+srcW/2)/gridW
				sy := bounds.Min.Y + ((y*2+off[1])*srcH+srcH/2)/gridH
				if sx >= bounds.Max.X {
					sx = bounds.Max.X - 1
				}
				if sy >= bounds.Max.Y {
					sy = bounds.Max.Y - 1
				}
				px[i] = toRGBA(img.At(sx, sy))
			}
			cells[y*outW+x] = quadrant(px)
		}
	}

	return &Sprite{Cells: cells, Width: outW, Height: outH}
}

// quadrant picks the pattern with the lowest colour error
// Transparent pixels are pinned to the background group
func quadrant(px [4]rgba) Cell {
	var opaqueMask int
	for i, p := range px {
		if p.opaque {
			opaqueMask |= 1 << i
		}
	}
	if opaqueMask == 0 {
		return Cell{}
	}

	if opaqueMask != 0xF {
		fg, _ := average(px, opaqueMask)
		return Cell{Rune: QuadrantChars[opaqueMask], Fg: fg}
	}

	// Descending so a uniform cell settles on the full block
	bestErr := int(^uint(0) >> 1)
	bestPattern := 0xF
	for pattern := 0xF; pattern > 0; pattern-- {
		if e := patternError(px, pattern); e < bestErr {
			bestErr = e
			bestPattern = pattern
		}
	}

	fg, _ := average(px, bestPattern)
	if bestPattern == 0xF {
		return Cell{Rune: QuadrantChars[0xF], Fg: fg}
	}
	bg, _ := average(px, 0xF&^bestPattern)
	return Cell{Rune: QuadrantChars[bestPattern], Fg: fg, Bg: bg, HasBg: true}
}

func average(px [4]rgba, mask int) (tcell.Color, int) {
	var r, g, b, n int
	for i, p := range px {
		if mask&(1<<i) == 0 {
			continue
		}
		r += p.r
		g += p.g
		b += p.b
		n++
	}
	if n == 0 {
		return tcell.ColorDefault, 0
	}
	return tcell.NewRGBColor(int32(r/n), int32(g/n), int32(b/n)), n
}

func patternError(px [4]rgba, pattern int) int {
	var sums [2][3]int
	var counts [2]int
	for i, p := range px {
		g := 0
		if pattern&(1<<i) != 0 {
			g = 1
		}
		sums[g][0] += p.r
		sums[g][1] += p.g
		sums[g][2] += p.b
		counts[g]++
	}

	total := 0
	for i, p := range px {
		g := 0
		if pattern&(1<<i) != 0 {
			g = 1
		}
		n := counts[g]
		dr := p.r - sums[g][0]/n
		dg := p.g - sums[g][1]/n
		db := p.b - sums[g][2]/n
		total += dr*dr + dg*dg + db*db
	}
	return total
}

// toRGBA un-premultiplies a colour into 8-bit channels
func toRGBA(c color.Color) rgba {
	r, g, b, a := c.RGBA()
	if a < alphaCutoff {
		return rgba{}
	}
	return rgba{
		r:      int(r * 0xFFFF / a >> 8),
		g:      int(g * 0xFFFF / a >> 8),
		b:      int(b * 0xFFFF / a >> 8),
		opaque: true,
	}
}
