package image

import (
	"fmt"
	"image"
	"image/color"
	"sort"

	"github.com/esimov/colorquant"
	"github.com/mmuldo/scaler/palette"
)

const (
	// MinDistance is the CIEDE2000 difference below which two colors are
	// treated as one anchor.
	MinDistance = 10
	// MaxSide bounds the image size before quantization.
	MaxSide = 256
)

type ColorCount struct {
	Color palette.RGB
	Count int
}

type ColorCountList []ColorCount

func (ccl ColorCountList) Len() int           { return len(ccl) }
func (ccl ColorCountList) Less(i, j int) bool { return ccl[i].Count > ccl[j].Count }
func (ccl ColorCountList) Swap(i, j int)      { ccl[i], ccl[j] = ccl[j], ccl[i] }

// Colors returns the colors in list order.
func (ccl ColorCountList) Colors() []palette.RGB {
	cs := make([]palette.RGB, len(ccl))
	for i, cc := range ccl {
		cs[i] = cc.Color
	}
	return cs
}

// GetColors returns a map of an image's opaque colors
// and the number of times each color occurs
func GetColors(img image.Image) map[color.Color]int {
	m := make(map[color.Color]int)

	b := img.Bounds()
	for x := b.Min.X; x < b.Max.X; x++ {
		for y := b.Min.Y; y < b.Max.Y; y++ {
			c := img.At(x, y)
			if _, _, _, a := c.RGBA(); a != 0 {
				m[c]++
			}
		}
	}

	return m
}

// RankColors orders the colors of m by prevalence, most common first.
// Ties are broken by hex value so the order is stable.
func RankColors(m map[color.Color]int) ColorCountList {
	cc := make(ColorCountList, 0, len(m))
	for k, v := range m {
		c := color.NRGBAModel.Convert(k).(color.NRGBA)
		cc = append(cc, ColorCount{
			Color: palette.RGB{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255},
			Count: v,
		})
	}

	sort.SliceStable(cc, func(i, j int) bool { return cc[i].Color.Hex() < cc[j].Color.Hex() })
	sort.Stable(cc)
	return cc
}

// Quantize reduces img to at most n colors.
func Quantize(img image.Image, n int) image.Image {
	b := img.Bounds()
	o := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	colorquant.NoDither.Quantize(img, o, n, false, true)
	return o
}

// Distinct folds every color into the first earlier color within min
// CIEDE2000 of it, adding its count there.
func Distinct(ccl ColorCountList, min float64) ColorCountList {
	var out ColorCountList
	for _, cc := range ccl {
		merged := false
		for i := range out {
			if palette.DeltaE(out[i].Color, cc.Color) < min {
				out[i].Count += cc.Count
				merged = true
				break
			}
		}
		if !merged {
			out = append(out, cc)
		}
	}
	sort.Stable(out)
	return out
}

// Anchors returns up to n perceptually distinct colors that best represent
// img, most prevalent first.
func Anchors(img image.Image, n int) ([]palette.RGB, error) {
	if n < 1 {
		return nil, fmt.Errorf("anchor count must be positive, got %d", n)
	}

	q := Quantize(Fit(img, MaxSide), n)
	ranked := Distinct(RankColors(GetColors(q)), MinDistance)
	if len(ranked) == 0 {
		return nil, fmt.Errorf("image has no opaque pixels")
	}
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked.Colors(), nil
}

// LoadAnchors is Anchors for the image file at path.
func LoadAnchors(path string, n int) ([]palette.RGB, error) {
	img, e := Load(path)
	if e != nil {
		return nil, e
	}
	return Anchors(img, n)
}
