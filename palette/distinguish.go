package palette

import (
	"github.com/aclements/go-moremath/stats"
	"github.com/jkl1337/go-chromath"
	"github.com/jkl1337/go-chromath/deltae"
)

var (
	// for RGB-to-Lab conversion
	targetIlluminant = &chromath.IlluminantRefD50
	rgb2Xyz          = chromath.NewRGBTransformer(
		&chromath.SpaceSRGB,
		&chromath.AdaptationBradford,
		targetIlluminant,
		&chromath.Scaler8bClamping,
		1.0,
		nil,
	)
	lab2Xyz = chromath.NewLabTransformer(targetIlluminant)
	klch    = &deltae.KLChDefault
)

// Steps summarizes the perceptual distance between neighbouring colors of a scale.
type Steps struct {
	Deltas            []float64
	Mean, StdDev      float64
	Smallest, Largest float64
}

// RGBToLab converts an RGB color to its Lab equivalent.
func RGBToLab(c RGB) chromath.Lab {
	c = c.Clamped()
	xyz := rgb2Xyz.Convert(chromath.RGB{c.R * 255, c.G * 255, c.B * 255})
	return lab2Xyz.Invert(xyz)
}

// DeltaE returns the CIEDE2000 difference between two colors.
func DeltaE(a, b RGB) float64 {
	return deltae.CIE2000(RGBToLab(a), RGBToLab(b), klch)
}

// MeasureSteps computes DeltaE between each pair of neighbouring colors.
// Fewer than two colors yield a zero Steps.
func MeasureSteps(colors []RGB) Steps {
	if len(colors) < 2 {
		return Steps{}
	}

	d := make([]float64, len(colors)-1)
	for i := range d {
		d[i] = DeltaE(colors[i], colors[i+1])
	}

	lo, hi := stats.Bounds(d)
	s := Steps{Deltas: d, Mean: stats.Mean(d), Smallest: lo, Largest: hi}
	if len(d) > 1 {
		s.StdDev = stats.StdDev(d)
	}
	return s
}
