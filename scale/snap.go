package scale

import (
	"fmt"
	"math"

	"github.com/mmuldo/scaler/palette"
)

// Property selects which LCH channels Snap re-derives.
type Property string

const (
	SnapLightness Property = "lightness"
	SnapChroma    Property = "chroma"
	SnapHue       Property = "hue"
	SnapAll       Property = "all"
)

// Properties lists the supported snap properties.
var Properties = []Property{SnapLightness, SnapChroma, SnapHue, SnapAll}

// Snap re-derives c, a stop at offset, from base. Lightness snaps to the
// stop's target lightness; chroma and hue are copied from base. A result
// lighter than base never exceeds base's HSLUV saturation.
func Snap(base, c palette.RGB, offset float64, p Property) (palette.RGB, error) {
	b := palette.RGBToLCH(base)
	out := palette.RGBToLCH(c)

	switch p {
	case SnapLightness:
		out.L = TargetLightness(offset)
	case SnapChroma:
		out.C = b.C
	case SnapHue:
		out.H = b.H
	case SnapAll:
		out = palette.LCH{L: TargetLightness(offset), C: b.C, H: b.H}
	default:
		return palette.RGB{}, fmt.Errorf("unsupported snap property %q", p)
	}

	limit := 1.0
	if out.L > b.L {
		limit = math.Min(limit, palette.RGBToHSLUV(base).S)
	}
	hs := palette.LCHToHSLUV(out)
	hs.S = palette.Clamp(hs.S, 0, limit)
	return palette.HSLUVToRGB(hs), nil
}
