package palette

import (
	"math"

	"github.com/aclements/go-moremath/scale"
)

// Epsilon is the tolerance used when comparing lightness values.
const Epsilon = 1e-9

// Clamp restricts n to [min, max].
func Clamp(n, min, max float64) float64 {
	return math.Min(math.Max(n, min), max)
}

// Clamp01 restricts n to [0, 1].
func Clamp01(n float64) float64 {
	return Clamp(n, 0, 1)
}

// Lerp interpolates between a and b. Lerp(a, b, 0) is exactly a.
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// Remap linearly maps n from the range [from0, from1] onto [to0, to1]
// without clamping. A degenerate source range maps to the target midpoint.
func Remap(n, from0, from1, to0, to1 float64) float64 {
	if from0 == from1 {
		return (to0 + to1) / 2
	}
	t := scale.Linear{Min: from0, Max: from1}.Map(n)
	return scale.Linear{Min: to0, Max: to1}.Unmap(t)
}

// NextPowerOf10 returns the smallest power of ten that is >= n.
func NextPowerOf10(n float64) float64 {
	p := math.Ceil(math.Log10(n))
	// Log10 is not exact at powers of ten.
	if math.Pow(10, p-1) >= n {
		p--
	}
	return math.Pow(10, p)
}

// Equal reports whether a and b are within Epsilon of each other.
func Equal(a, b float64) bool {
	return math.Abs(b-a) < Epsilon
}
