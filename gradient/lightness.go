package gradient

import (
	"fmt"
	"math"
	"sort"

	"github.com/mmuldo/scaler/palette"
)

// Mode selects how FixLightness re-spaces stops.
type Mode string

const (
	// Absolute places each stop by its HSLUV lightness relative to the
	// darkest and lightest stops.
	Absolute Mode = "absolute"
	// Relative pins the most chromatic stop at 0.5 and spreads the rest
	// by LCH lightness on either side of it.
	Relative Mode = "relative"
)

// Modes lists the supported modes.
var Modes = []Mode{Absolute, Relative}

// FixLightness re-spaces g according to mode. Colors are left untouched.
func FixLightness(g Gradient, mode Mode) (Gradient, error) {
	switch mode {
	case Absolute:
		return FixAbsolute(g), nil
	case Relative:
		return FixRelative(g), nil
	default:
		return nil, fmt.Errorf("unsupported lightness mode %q", mode)
	}
}

// FixAbsolute moves every stop to its HSLUV lightness remapped from
// [min lightness, max lightness] onto [0, 1].
func FixAbsolute(g Gradient) Gradient {
	ls := make([]float64, len(g))
	lo, hi := math.Inf(1), math.Inf(-1)
	for i, s := range g {
		ls[i] = palette.RGBToHSLUV(s.Color).L
		lo = math.Min(lo, ls[i])
		hi = math.Max(hi, ls[i])
	}

	out := make(Gradient, len(g))
	for i, s := range g {
		out[i] = Stop{Position: palette.Remap(ls[i], lo, hi, 0, 1), Color: s.Color}
	}
	sort.Stable(byPosition(out))
	return out
}

// FixRelative pins the stop with the highest LCH chroma at 0.5. Darker stops
// spread over [0, 0.5) towards the darkest stop and lighter ones over
// (0.5, 1] towards the lightest.
func FixRelative(g Gradient) Gradient {
	lchs := make([]palette.LCH, len(g))
	lo, hi := math.Inf(1), math.Inf(-1)
	pivot := 0
	for i, s := range g {
		lchs[i] = palette.RGBToLCH(s.Color)
		if lchs[i].C > lchs[pivot].C {
			pivot = i
		}
		lo = math.Min(lo, lchs[i].L)
		hi = math.Max(hi, lchs[i].L)
	}

	pl := lchs[pivot].L
	out := make(Gradient, len(g))
	for i, s := range g {
		l := lchs[i].L
		var p float64
		switch {
		case i == pivot || palette.Equal(l, pl):
			p = 0.5
		case l < pl:
			p = palette.Remap(l, pl, lo, 0.5, 0)
		default:
			p = palette.Remap(l, pl, hi, 0.5, 1)
		}
		out[i] = Stop{Position: p, Color: s.Color}
	}
	sort.Stable(byPosition(out))
	return out
}
