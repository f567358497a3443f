package palette

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
)

// CSSToRGB parses a CSS color: #rgb, #rrggbb, or a W3C color name.
func CSSToRGB(s string) (RGB, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return RGB{}, fmt.Errorf("empty color")
	}

	if strings.HasPrefix(s, "#") {
		c, e := colorful.Hex(s)
		if e != nil {
			return RGB{}, fmt.Errorf("invalid hex color %q: %w", s, e)
		}
		return fromColorful(c), nil
	}

	if _, ok := tcell.ColorNames[s]; !ok {
		return RGB{}, fmt.Errorf("unknown color name %q", s)
	}
	r, g, b := tcell.GetColor(s).RGB()
	if r < 0 {
		return RGB{}, fmt.Errorf("color name %q has no RGB value", s)
	}
	return RGB{float64(r) / 255, float64(g) / 255, float64(b) / 255}, nil
}

// MustCSS is like CSSToRGB but panics on invalid input. It is meant for constants.
func MustCSS(s string) RGB {
	c, e := CSSToRGB(s)
	if e != nil {
		panic("MustCSS: " + e.Error())
	}
	return c
}
