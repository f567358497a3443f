package palette

import (
	"fmt"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// hsluvWhite is the D65 reference white used by HSLuv. LCH values are
// computed against it too so that LCH and HSLUV share one lightness axis.
var hsluvWhite = [3]float64{0.95045592705167, 1.0, 1.089057750759878}

// RGB represents an sRGB color with every channel in [0, 1].
type RGB struct {
	R float64 `json:"r"`
	G float64 `json:"g"`
	B float64 `json:"b"`
}

// HSLUV represents a color in HSLuv space. H is in degrees [0, 360), S and L are in [0, 1].
type HSLUV struct {
	H, S, L float64
}

// LCH represents a color in CIE LCh(uv) space. L and C are the native
// 0-100 values divided by 100; H is in degrees [0, 360).
type LCH struct {
	L, C, H float64
}

// RGBToHSLUV converts an RGB color to HSLUV.
func RGBToHSLUV(c RGB) HSLUV {
	return LCHToHSLUV(RGBToLCH(c))
}

// HSLUVToRGB converts an HSLUV color to RGB, clamping out of gamut results.
func HSLUVToRGB(c HSLUV) RGB {
	return fromColorful(colorful.HSLuv(WrapHue(c.H), Clamp01(c.S), Clamp01(c.L)))
}

// RGBToLCH converts an RGB color to LCH.
// The hue is taken from atan2(v, u) directly: colorful's LuvLCh reports a
// zero hue whenever u and v are within 1e-4 of each other, chromatic or not.
func RGBToLCH(c RGB) LCH {
	l, u, v := c.colorful().LuvWhiteRef(hsluvWhite)
	return LCH{L: l, C: math.Hypot(u, v), H: WrapHue(math.Atan2(v, u) * 180 / math.Pi)}
}

// LCHToRGB converts an LCH color to RGB, clamping out of gamut results.
func LCHToRGB(c LCH) RGB {
	return fromColorful(colorful.LuvLChWhiteRef(c.L, c.C, WrapHue(c.H), hsluvWhite))
}

// LCHToHSLUV re-expresses an LCH color in HSLUV without a trip through RGB,
// so colors outside the sRGB gamut keep their coordinates.
func LCHToHSLUV(c LCH) HSLUV {
	h, s, l := colorful.LuvLChToHSLuv(c.L, c.C, WrapHue(c.H))
	return HSLUV{H: WrapHue(h), S: s, L: l}
}

// HSLUVToLCH is the inverse of LCHToHSLUV.
func HSLUVToLCH(c HSLUV) LCH {
	l, ch, h := colorful.HSLuvToLuvLCh(WrapHue(c.H), c.S, c.L)
	return LCH{L: l, C: ch, H: WrapHue(h)}
}

// Hex returns the color as a lowercase #rrggbb string.
func (c RGB) Hex() string {
	return c.colorful().Clamped().Hex()
}

// RGB255 returns the color as 8-bit channels.
func (c RGB) RGB255() (r, g, b uint8) {
	return c.colorful().Clamped().RGB255()
}

func (c RGB) String() string {
	return fmt.Sprintf("rgb(%.4f, %.4f, %.4f)", c.R, c.G, c.B)
}

// Clamped returns the color with every channel clamped to [0, 1].
func (c RGB) Clamped() RGB {
	return RGB{Clamp01(c.R), Clamp01(c.G), Clamp01(c.B)}
}

func (c RGB) colorful() colorful.Color {
	return colorful.Color{R: c.R, G: c.G, B: c.B}
}

func fromColorful(c colorful.Color) RGB {
	return RGB{R: c.R, G: c.G, B: c.B}
}

// WrapHue maps any angle in degrees into [0, 360).
func WrapHue(h float64) float64 {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	if h >= 360 {
		h = 0
	}
	return h
}
