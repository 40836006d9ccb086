package render

import "github.com/gdamore/tcell/v2"

// Fixed colours; slice colours come from config
var (
	ColorBackground = tcell.NewRGBColor(26, 27, 38)
	ColorNeedle     = tcell.NewRGBColor(230, 30, 30)
	ColorHub        = tcell.NewRGBColor(40, 40, 40)
	ColorText       = tcell.NewRGBColor(192, 202, 245)
	ColorDim        = tcell.NewRGBColor(86, 95, 137)
	ColorPopupBg    = tcell.NewRGBColor(36, 40, 59)
	ColorPopupEdge  = tcell.NewRGBColor(255, 215, 0)
	ColorStatusBg   = tcell.NewRGBColor(22, 22, 30)
)

// DefaultSliceColors alternates gold and tomato
var DefaultSliceColors = []tcell.Color{
	tcell.NewRGBColor(0xFF, 0xD7, 0x00),
	tcell.NewRGBColor(0xFF, 0x63, 0x47),
}

// SliceColors parses hex or named colours, falling back to the default alternation
func SliceColors(specs []string) []tcell.Color {
	out := make([]tcell.Color, len(specs))
	for i, spec := range specs {
		c := tcell.GetColor(spec)
		if spec == "" || c == tcell.ColorDefault {
			c = DefaultSliceColors[i%len(DefaultSliceColors)]
		}
		out[i] = c
	}
	return out
}

func styleBg(bg tcell.Color) tcell.Style {
	return tcell.StyleDefault.Background(bg)
}

func styleFgBg(fg, bg tcell.Color) tcell.Style {
	return tcell.StyleDefault.Foreground(fg).Background(bg)
}
