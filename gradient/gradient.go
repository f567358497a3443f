package gradient

import (
	"errors"
	"fmt"
	"sort"

	"github.com/mmuldo/scaler/palette"
)

// ErrOutOfRange is returned when a gradient or spline is sampled outside
// the range its stops cover.
var ErrOutOfRange = errors.New("sample out of range")

// Stop is one control point of a gradient.
type Stop struct {
	Position float64     `json:"position"`
	Color    palette.RGB `json:"color"`
}

// Gradient is a sequence of at least two stops sorted by position.
type Gradient []Stop

type byPosition []Stop

func (s byPosition) Len() int           { return len(s) }
func (s byPosition) Less(i, j int) bool { return s[i].Position < s[j].Position }
func (s byPosition) Swap(i, j int)      { s[i], s[j] = s[j], s[i] }

// New copies and sorts stops into a Gradient.
func New(stops []Stop) (Gradient, error) {
	if len(stops) < 2 {
		return nil, fmt.Errorf("gradient needs at least 2 stops, got %d", len(stops))
	}

	g := make(Gradient, len(stops))
	copy(g, stops)
	for _, s := range g {
		if s.Position < 0 || s.Position > 1 {
			return nil, fmt.Errorf("stop position %v outside [0, 1]", s.Position)
		}
	}
	sort.Stable(byPosition(g))

	return g, nil
}

// Sample returns the color at t by linear interpolation of each RGB channel
// between the two stops bracketing t. It never extrapolates: t before the
// first stop or at/after the last one is an error.
func (g Gradient) Sample(t float64) (palette.RGB, error) {
	i := sort.Search(len(g), func(i int) bool { return g[i].Position > t })
	if i == 0 || i == len(g) {
		return palette.RGB{}, fmt.Errorf("%w: position %v not in [%v, %v)", ErrOutOfRange, t, g.first(), g.last())
	}

	a, b := g[i-1], g[i]
	u := palette.Remap(t, a.Position, b.Position, 0, 1)
	return palette.RGB{
		R: palette.Lerp(a.Color.R, b.Color.R, u),
		G: palette.Lerp(a.Color.G, b.Color.G, u),
		B: palette.Lerp(a.Color.B, b.Color.B, u),
	}, nil
}

// Colors returns the stop colors in position order.
func (g Gradient) Colors() []palette.RGB {
	cs := make([]palette.RGB, len(g))
	for i, s := range g {
		cs[i] = s.Color
	}
	return cs
}

func (g Gradient) first() float64 {
	if len(g) == 0 {
		return 0
	}
	return g[0].Position
}

func (g Gradient) last() float64 {
	if len(g) == 0 {
		return 0
	}
	return g[len(g)-1].Position
}
