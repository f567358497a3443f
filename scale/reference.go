package scale

import (
	"fmt"
	"strconv"

	"github.com/mmuldo/scaler/palette"
)

// Reference holds the three colors the anchor-reference strategy remaps between.
type Reference struct {
	Base     palette.RGB
	Darkest  palette.RGB
	Lightest palette.RGB
}

// DefaultReference is used when configuration does not override it.
var DefaultReference = Reference{
	Base:     palette.MustCSS("#6463EA"),
	Darkest:  palette.MustCSS("#07071E"),
	Lightest: palette.MustCSS("#FBFCFF"),
}

// TargetLightness is the HSLUV lightness a stop at offset aims for. Low
// stop numbers are light, high ones dark.
func TargetLightness(offset float64) float64 {
	return palette.Clamp01(1 - offset)
}

// FromReference builds a scale whose stops sit at TargetLightness of their
// offsets, with hue and saturation remapped from the base towards the
// darkest or lightest reference.
func FromReference(id Identity, ref Reference, stops []int) (Scale, error) {
	stops = stopsOrDefault(stops)
	offsets, e := Offsets(stops)
	if e != nil {
		return Scale{}, e
	}

	base := palette.RGBToHSLUV(ref.Base)
	darkest := palette.RGBToHSLUV(ref.Darkest)
	lightest := palette.RGBToHSLUV(ref.Lightest)

	s := Scale{Name: id.Name, Theme: id.Theme}
	for i, n := range stops {
		l := TargetLightness(offsets[i])
		s.Stops = append(s.Stops, Stop{
			Name:   strconv.Itoa(n),
			Offset: offsets[i],
			Color:  palette.HSLUVToRGB(remapFromBase(base, darkest, lightest, l)),
		})
	}
	if e := s.Validate(); e != nil {
		return Scale{}, fmt.Errorf("reference scale: %w", e)
	}
	return s, nil
}

func remapFromBase(base, darkest, lightest palette.HSLUV, l float64) palette.HSLUV {
	extreme := darkest
	if l > base.L {
		extreme = lightest
	}

	h := palette.Remap(l, base.L, extreme.L, base.H, NearestHue(base.H, extreme.H))
	s := palette.Remap(l, base.L, extreme.L, base.S, extreme.S)
	return palette.HSLUV{H: palette.WrapHue(h), S: palette.Clamp01(s), L: l}
}

// NearestHue returns to, shifted by ±360 if needed, so that the arc from
// `from` is as short as possible. An exact half turn goes the positive way.
func NearestHue(from, to float64) float64 {
	from, to = palette.WrapHue(from), palette.WrapHue(to)
	switch d := to - from; {
	case d > 180:
		return to - 360
	case d <= -180:
		return to + 360
	}
	return to
}
