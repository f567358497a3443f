package image

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/mmuldo/scaler/palette"
)

// halves returns a w×h image whose left `split` columns are a and the rest b.
func halves(w, h, split int, a, b color.Color) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			if x < split {
				img.Set(x, y, a)
			} else {
				img.Set(x, y, b)
			}
		}
	}
	return img
}

var (
	red  = color.NRGBA{R: 255, A: 255}
	blue = color.NRGBA{B: 255, A: 255}
)

func TestFit(t *testing.T) {
	img := halves(100, 50, 50, red, blue)
	got := Fit(img, 20).Bounds()
	if got.Dx() != 20 || got.Dy() != 10 {
		t.Errorf("Fit bounds = %v, want 20x10", got)
	}
	if Fit(img, 200) != image.Image(img) {
		t.Error("an image that fits should be returned as is")
	}
}

func TestRankColors(t *testing.T) {
	img := halves(4, 1, 3, red, blue)
	img.Set(0, 0, color.NRGBA{}) // transparent pixels are ignored

	ranked := RankColors(GetColors(img))
	if len(ranked) != 2 {
		t.Fatalf("ranked = %v", ranked)
	}
	if ranked[0].Color != (palette.RGB{R: 1}) || ranked[0].Count != 2 {
		t.Errorf("first = %+v, want red x2", ranked[0])
	}
	if ranked[1].Color != (palette.RGB{B: 1}) || ranked[1].Count != 1 {
		t.Errorf("second = %+v, want blue x1", ranked[1])
	}
}

func TestDistinct(t *testing.T) {
	in := ColorCountList{
		{Color: palette.RGB{R: 1}, Count: 5},
		{Color: palette.RGB{B: 1}, Count: 4},
		{Color: palette.RGB{R: 0.98, G: 0.01}, Count: 3},
	}
	out := Distinct(in, MinDistance)
	if len(out) != 2 {
		t.Fatalf("Distinct = %v", out)
	}
	if out[0].Count != 8 || out[0].Color != (palette.RGB{R: 1}) {
		t.Errorf("merged = %+v", out[0])
	}
}

func TestLoadAnchors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "anchors.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, halves(40, 40, 30, red, blue)); err != nil {
		t.Fatal(err)
	}
	f.Close()

	anchors, err := LoadAnchors(path, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(anchors) != 2 {
		t.Fatalf("anchors = %v", anchors)
	}
	if palette.DeltaE(anchors[0], palette.RGB{R: 1}) > 5 {
		t.Errorf("first anchor = %s, want red", anchors[0].Hex())
	}
	if palette.DeltaE(anchors[1], palette.RGB{B: 1}) > 5 {
		t.Errorf("second anchor = %s, want blue", anchors[1].Hex())
	}

	if _, err := Anchors(halves(2, 2, 1, red, blue), 0); err == nil {
		t.Error("expected error for zero anchors")
	}
}
