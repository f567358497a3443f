package scale

import (
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/mmuldo/scaler/gradient"
	"github.com/mmuldo/scaler/palette"
)

// Spline is a Catmull-Rom spline through LCH knots, parameterized by lightness.
type Spline struct {
	knots []palette.LCH
}

type byLightness []palette.LCH

func (k byLightness) Len() int           { return len(k) }
func (k byLightness) Less(i, j int) bool { return k[i].L < k[j].L }
func (k byLightness) Swap(i, j int)      { k[i], k[j] = k[j], k[i] }

// NewSpline builds a spline through at least two known colors. Black and
// white boundary knots are extrapolated from the two nearest known knots at
// each end and doubled, so every interior lightness has a full window.
func NewSpline(known []palette.LCH) (*Spline, error) {
	if len(known) < 2 {
		return nil, fmt.Errorf("%w: spline needs at least 2 known colors, got %d", ErrEvidenceNotFound, len(known))
	}

	k := append([]palette.LCH(nil), known...)
	sort.Stable(byLightness(k))
	// Unwrap hues so neighbouring knots never differ by more than a half turn.
	for i := 1; i < len(k); i++ {
		d := palette.WrapHue(k[i].H - k[i-1].H)
		if d > 180 {
			d -= 360
		}
		k[i].H = k[i-1].H + d
	}

	n := len(k)
	black := extrapolate(0, k[0], k[1])
	white := extrapolate(1, k[n-1], k[n-2])

	knots := make([]palette.LCH, 0, n+4)
	knots = append(knots, black, black)
	knots = append(knots, k...)
	knots = append(knots, white, white)

	return &Spline{knots: knots}, nil
}

// NewSplineRGB is NewSpline over RGB colors.
func NewSplineRGB(known []palette.RGB) (*Spline, error) {
	lchs := make([]palette.LCH, len(known))
	for i, c := range known {
		lchs[i] = palette.RGBToLCH(c)
	}
	return NewSpline(lchs)
}

// extrapolate returns the knot at lightness l on the line through a and b.
func extrapolate(l float64, a, b palette.LCH) palette.LCH {
	return palette.LCH{
		L: l,
		C: palette.Remap(l, a.L, b.L, a.C, b.C),
		H: palette.Remap(l, a.L, b.L, a.H, b.H),
	}
}

// At evaluates chroma and hue at lightness l, which must lie strictly
// between 0 and 1. At a known knot's lightness it returns that knot.
func (s *Spline) At(l float64) (palette.LCH, error) {
	if !(l > 0 && l < 1) {
		return palette.LCH{}, fmt.Errorf("%w: lightness %v", gradient.ErrOutOfRange, l)
	}

	i3 := sort.Search(len(s.knots), func(i int) bool { return s.knots[i].L > l })
	if i3 < 2 || i3+1 >= len(s.knots) {
		return palette.LCH{}, fmt.Errorf("%w: lightness %v", gradient.ErrOutOfRange, l)
	}
	c1, c2, c3, c4 := s.knots[i3-2], s.knots[i3-1], s.knots[i3], s.knots[i3+1]

	t := palette.Remap(l, c2.L, c3.L, 0, 1)
	return clampLCH(palette.LCH{
		L: l,
		C: catmullRom(c1.C, c2.C, c3.C, c4.C, t),
		H: catmullRom(c1.H, c2.H, c3.H, c4.H, t),
	}), nil
}

// catmullRom evaluates the uniform Catmull-Rom segment between b and c.
func catmullRom(a, b, c, d, t float64) float64 {
	n0 := -0.5*a + 1.5*b - 1.5*c + 0.5*d
	n1 := a - 2.5*b + 2.0*c - 0.5*d
	n2 := -0.5*a + 0.5*c
	return n0*t*t*t + n1*t*t + n2*t + b
}

// clampLCH pulls spline overshoot back into range through HSLUV.
func clampLCH(c palette.LCH) palette.LCH {
	h := palette.LCHToHSLUV(c)
	h.H = palette.WrapHue(h.H)
	h.S = palette.Clamp(h.S, 0, 1)
	h.L = palette.Clamp01(h.L)
	out := palette.HSLUVToLCH(h)
	if math.IsNaN(out.C) {
		out.C = 0
	}
	return out
}

// Channel selects which LCH channels smoothing replaces.
type Channel string

const (
	SmoothChroma Channel = "chroma"
	SmoothHue    Channel = "hue"
	SmoothAll    Channel = "all"
)

// Channels lists the supported smoothing channels.
var Channels = []Channel{SmoothChroma, SmoothHue, SmoothAll}

// Smooth returns c with the selected channels taken from the spline at c's
// own lightness.
func (s *Spline) Smooth(c palette.RGB, ch Channel) (palette.RGB, error) {
	lch := palette.RGBToLCH(c)
	fit, e := s.At(lch.L)
	if e != nil {
		return palette.RGB{}, e
	}

	switch ch {
	case SmoothChroma:
		lch.C = fit.C
	case SmoothHue:
		lch.H = fit.H
	case SmoothAll:
		lch.C, lch.H = fit.C, fit.H
	default:
		return palette.RGB{}, fmt.Errorf("unsupported smoothing channel %q", ch)
	}
	hs := palette.LCHToHSLUV(lch)
	hs.S = palette.Clamp(hs.S, 0, 1)
	return palette.HSLUVToRGB(hs), nil
}

// FromKnown fills a whole scale around a few anchor colors: each stop is
// the spline through the anchors evaluated at the stop's target lightness.
func FromKnown(id Identity, anchors []palette.RGB) (Scale, error) {
	sp, e := NewSplineRGB(anchors)
	if e != nil {
		return Scale{}, e
	}

	stops := stopsOrDefault(id.Stops)
	offsets, e := Offsets(stops)
	if e != nil {
		return Scale{}, e
	}

	s := Scale{Name: id.Name, Theme: id.Theme}
	for i, n := range stops {
		lch, e := sp.At(TargetLightness(offsets[i]))
		if e != nil {
			return Scale{}, fmt.Errorf("stop %d: %w", n, e)
		}
		s.Stops = append(s.Stops, Stop{Name: strconv.Itoa(n), Offset: offsets[i], Color: palette.LCHToRGB(lch)})
	}
	return s, nil
}
