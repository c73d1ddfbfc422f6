package ink

import (
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Style is the drawing style of a stroke.
type Style struct {
	ColorName string
	WidthPx   float64
}

// DefaultStyle is the pen style used when nothing else is configured.
var DefaultStyle = Style{ColorName: "black", WidthPx: 2}

// fallbackColor is used for names that are neither known nor #rrggbb.
var fallbackColor = colorful.Color{R: 0.5, G: 0.5, B: 0.5}

var namedColors = map[string]string{
	"black":   "#000000",
	"white":   "#ffffff",
	"gray":    "#808080",
	"grey":    "#808080",
	"red":     "#ff0000",
	"green":   "#008000",
	"blue":    "#0000ff",
	"yellow":  "#ffff00",
	"orange":  "#ffa500",
	"purple":  "#800080",
	"brown":   "#a52a2a",
	"pink":    "#ffc0cb",
	"cyan":    "#00ffff",
	"magenta": "#ff00ff",
	"navy":    "#000080",
	"teal":    "#008080",
}

// ResolveColor converts a color name or #rrggbb string. Anything else
// resolves to gray.
func ResolveColor(s string) colorful.Color {
	s = strings.TrimSpace(s)
	if hex, ok := namedColors[strings.ToLower(s)]; ok {
		c, _ := colorful.Hex(hex)
		return c
	}
	if len(s) == 7 && s[0] == '#' {
		if c, err := colorful.Hex(s); err == nil {
			return c
		}
	}
	return fallbackColor
}

// Color returns the resolved stroke color.
func (s Style) Color() colorful.Color {
	return ResolveColor(s.ColorName)
}

// CSS returns the resolved color as #rrggbb.
func (s Style) CSS() string {
	return s.Color().Clamped().Hex()
}

// Width returns the pen width, falling back to the default for
// non-positive values.
func (s Style) Width() float64 {
	if s.WidthPx <= 0 {
		return DefaultStyle.WidthPx
	}
	return s.WidthPx
}
