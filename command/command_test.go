package command

import (
	"context"
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/mmuldo/scaler/document"
	"github.com/mmuldo/scaler/gradient"
	"github.com/mmuldo/scaler/logger"
	"github.com/mmuldo/scaler/palette"
	"github.com/mmuldo/scaler/registry"
	"github.com/mmuldo/scaler/scale"
)

var blackToWhite = &document.Paint{Type: document.GradientLinear, Stops: []gradient.Stop{
	{Position: 0, Color: palette.RGB{}},
	{Position: 1, Color: palette.RGB{R: 1, G: 1, B: 1}},
}}

func solid(c palette.RGB) *document.Paint {
	return &document.Paint{Type: document.Solid, Color: c}
}

func stopNode(id, name string, c palette.RGB) document.Node {
	return document.Node{ID: id, Name: name, Type: document.Rectangle, Fill: solid(c)}
}

type fixture struct {
	doc  *document.File
	repo *registry.MemoryRepository
	env  *Env
}

func newFixture(selection []string, nodes ...document.Node) *fixture {
	doc := document.New(document.Contents{Selection: selection, Nodes: nodes})
	repo := registry.NewMemoryRepository()
	return &fixture{
		doc:  doc,
		repo: repo,
		env: &Env{
			Store:     doc,
			Registry:  registry.New(repo, logger.Discard()),
			Reference: scale.DefaultReference,
			Log:       logger.Discard(),
		},
	}
}

func (f *fixture) node(id string) document.Node {
	return f.doc.Find(func(n document.Node) bool { return n.ID == id })[0]
}

func gradientScale() document.Node {
	return document.Node{
		ID: "scale", Name: "$scale = brand/dark/{50,500,950}", Type: document.Frame, Fill: blackToWhite,
		Children: []document.Node{
			stopNode("s50", "50", palette.RGB{}),
			stopNode("s500", "500", palette.RGB{}),
			stopNode("s950", "950", palette.RGB{}),
		},
	}
}

func TestRunRejectsBeforeWriting(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name string
		cmd  string
		args Args
	}{
		{"unknown command", "explode", nil},
		{"unknown value", "fixGradientLightness", Args{"mode": "sideways"}},
		{"unknown parameter", "generateScale", Args{"model": "hsl"}},
		{"missing required", "swapScale", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture([]string{"scale"}, gradientScale())
			persisted := false
			f.env.Persist = func() error { persisted = true; return nil }

			_, err := Run(ctx, f.env, tt.cmd, tt.args)
			if !errors.Is(err, ErrInvalidParameter) {
				t.Errorf("error = %v, want ErrInvalidParameter", err)
			}
			if f.repo.Writes() != 0 || f.doc.Dirty() || persisted {
				t.Error("a rejected command must not write")
			}
		})
	}
}

func TestGenerateScaleFromGradient(t *testing.T) {
	ctx := context.Background()
	f := newFixture([]string{"scale"}, gradientScale())

	res, err := Run(ctx, f.env, "generateScale", nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Scales) != 1 || res.Report.Created != 3 || res.Report.Bound != 3 {
		t.Fatalf("result = %+v", res)
	}

	rec, ok, _ := f.repo.FindByName(ctx, "dark/brand/500")
	if !ok {
		t.Fatal("dark/brand/500 missing")
	}
	if !rgbNear(rec.Color, palette.RGB{R: 0.5, G: 0.5, B: 0.5}, 1e-9) {
		t.Errorf("500 = %v, want mid grey", rec.Color)
	}
	if f.node("s500").StyleRef != rec.ID {
		t.Error("stop element not bound to its record")
	}

	writes := f.repo.Writes()
	before := f.doc.Contents()
	if _, err := Run(ctx, f.env, "generateScale", nil); err != nil {
		t.Fatal(err)
	}
	if f.repo.Writes() != writes || !reflect.DeepEqual(before, f.doc.Contents()) {
		t.Error("second run was not idempotent")
	}
}

func TestGenerateScaleFromReference(t *testing.T) {
	ctx := context.Background()
	f := newFixture([]string{"scale"}, document.Node{
		ID: "scale", Name: "$scale = brand", Type: document.Frame,
		Children: []document.Node{
			stopNode("s100", "100", palette.RGB{}),
			stopNode("s900", "900", palette.RGB{}),
		},
	})

	res, err := Run(ctx, f.env, "generateScale", nil)
	if err != nil {
		t.Fatal(err)
	}
	names := res.Scales[0].StopNames()
	if !reflect.DeepEqual(names, []string{"100", "900"}) {
		t.Errorf("stops = %v, want the element stops", names)
	}
	light, _, _ := f.repo.FindByName(ctx, "brand/100")
	dark, _, _ := f.repo.FindByName(ctx, "brand/900")
	if palette.RGBToHSLUV(light.Color).L <= palette.RGBToHSLUV(dark.Color).L {
		t.Error("100 should be lighter than 900")
	}
}

func TestGenerateScaleEvidence(t *testing.T) {
	ctx := context.Background()

	f := newFixture(nil, gradientScale())
	if _, err := Run(ctx, f.env, "generateScale", nil); !errors.Is(err, scale.ErrEvidenceNotFound) {
		t.Errorf("empty selection: %v", err)
	}

	bad := gradientScale()
	bad.ID, bad.Name = "bad", "$scale brand"
	f = newFixture([]string{"scale", "bad"}, gradientScale(), bad)
	if _, err := Run(ctx, f.env, "generateScale", nil); !errors.Is(err, scale.ErrMalformedName) {
		t.Errorf("malformed: %v", err)
	}
	if f.repo.Writes() != 0 {
		t.Error("malformed evidence must not write")
	}
}

func TestUpdateScaleReferencesOnlyBinds(t *testing.T) {
	ctx := context.Background()
	f := newFixture([]string{"scale"}, gradientScale())
	for _, v := range []string{"50", "500", "950"} {
		f.env.Registry.Upsert(ctx, "dark/brand/"+v, palette.RGB{R: 1})
	}
	writes := f.repo.Writes()

	res, err := Run(ctx, f.env, "updateScaleReferences", nil)
	if err != nil {
		t.Fatal(err)
	}
	if res.Report.Bound != 3 {
		t.Errorf("bound = %d", res.Report.Bound)
	}
	if f.repo.Writes() != writes {
		t.Error("updateScaleReferences wrote records")
	}
}

func TestUpdateStylesCoversTheDocument(t *testing.T) {
	ctx := context.Background()
	other := gradientScale()
	other.ID, other.Name = "other", "$scale = accent/dark/{500}"
	other.Children = []document.Node{stopNode("o500", "500", palette.RGB{})}
	f := newFixture(nil, gradientScale(), other)

	res, err := Run(ctx, f.env, "updateStyles", nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Scales) != 2 || res.Report.Created != 4 {
		t.Errorf("result = %+v", res)
	}
}

func TestFixGradientLightness(t *testing.T) {
	ctx := context.Background()
	red := palette.MustCSS("#ff0000")
	g := document.Node{ID: "g", Name: "gradient", Type: document.Rectangle, Fill: &document.Paint{
		Type: document.GradientLinear,
		Stops: []gradient.Stop{
			{Position: 0, Color: palette.MustCSS("#111111")},
			{Position: 0.2, Color: red},
			{Position: 1, Color: palette.MustCSS("#eeeeee")},
		},
	}}
	f := newFixture([]string{"g"}, g)

	if _, err := Run(ctx, f.env, "fixGradientLightness", Args{"mode": "relative"}); err != nil {
		t.Fatal(err)
	}
	out, _, _ := f.node("g").Gradient()
	for _, st := range out {
		if st.Color == red && st.Position != 0.5 {
			t.Errorf("pivot at %v, want 0.5", st.Position)
		}
	}

	f = newFixture([]string{"missing"}, g)
	if _, err := Run(ctx, f.env, "fixGradientLightness", nil); !errors.Is(err, scale.ErrEvidenceNotFound) {
		t.Errorf("error = %v, want ErrEvidenceNotFound", err)
	}
}

func TestSmooth(t *testing.T) {
	ctx := context.Background()
	locked := func(id, name string, c palette.LCH) document.Node {
		n := stopNode(id, name, palette.LCHToRGB(c))
		n.Locked = true
		return n
	}
	mid := palette.LCHToRGB(palette.LCH{L: 0.5, C: 0.05, H: 120})
	f := newFixture([]string{"scale"}, document.Node{
		ID: "scale", Name: "$scale = brand", Type: document.Frame,
		Children: []document.Node{
			locked("a", "200", palette.LCH{L: 0.8, C: 0.2, H: 260}),
			stopNode("b", "500", mid),
			locked("c", "800", palette.LCH{L: 0.2, C: 0.2, H: 280}),
		},
	})

	res, err := Run(ctx, f.env, "smooth", Args{"property": "all"})
	if err != nil {
		t.Fatal(err)
	}
	if res.Changed != 1 {
		t.Errorf("changed = %d", res.Changed)
	}
	got, _ := f.node("b").Solid()
	if math.Abs(palette.RGBToLCH(got).L-palette.RGBToLCH(mid).L) > 1e-3 {
		t.Error("smoothing changed lightness")
	}
	if h := palette.RGBToLCH(got).H; h < 240 || h > 300 {
		t.Errorf("hue = %v, want between the locked hues", h)
	}
	if f.node("a").Fill.Color != palette.LCHToRGB(palette.LCH{L: 0.8, C: 0.2, H: 260}) {
		t.Error("locked stop was changed")
	}
}

func TestSmoothNeedsTwoLockedStops(t *testing.T) {
	f := newFixture([]string{"scale"}, document.Node{
		ID: "scale", Name: "$scale = brand", Type: document.Frame,
		Children: []document.Node{stopNode("b", "500", palette.RGB{R: 0.5})},
	})
	_, err := Run(context.Background(), f.env, "smooth", nil)
	if !errors.Is(err, scale.ErrEvidenceNotFound) {
		t.Errorf("error = %v, want ErrEvidenceNotFound", err)
	}
	if f.doc.Dirty() {
		t.Error("document was written")
	}
}

func TestSnapScale(t *testing.T) {
	ctx := context.Background()
	base := palette.MustCSS("#6463EA")
	f := newFixture([]string{"scale"}, document.Node{
		ID: "scale", Name: "$scale = brand", Type: document.Frame,
		Children: []document.Node{
			stopNode("base", "$base", base),
			stopNode("s500", "500", palette.MustCSS("#336633")),
		},
	})

	if _, err := Run(ctx, f.env, "snapScale", Args{"property": "hue"}); err != nil {
		t.Fatal(err)
	}
	got, _ := f.node("s500").Solid()
	if d := math.Abs(palette.RGBToLCH(got).H - palette.RGBToLCH(base).H); d > 1 {
		t.Errorf("hue differs from base by %v", d)
	}
	if c, _ := f.node("base").Solid(); c != base {
		t.Error("$base was changed")
	}
}

func TestCaptureScale(t *testing.T) {
	ctx := context.Background()
	c500 := palette.MustCSS("#6463EA")
	def := palette.MustCSS("#123456")
	f := newFixture([]string{"scale"}, document.Node{
		ID: "scale", Name: "$scale = brand/dark", Type: document.Frame,
		Children: []document.Node{
			stopNode("d", "$default", def),
			stopNode("s500", "500", c500),
		},
	})

	if _, err := Run(ctx, f.env, "captureScale", nil); err != nil {
		t.Fatal(err)
	}
	for name, want := range map[string]palette.RGB{"dark/brand/500": c500, "dark/brand/DEFAULT": def} {
		rec, ok, _ := f.repo.FindByName(ctx, name)
		if !ok || rec.Color != want {
			t.Errorf("%s = %v %v, want %v", name, rec.Color, ok, want)
		}
	}
}

func TestSwapScale(t *testing.T) {
	ctx := context.Background()
	f := newFixture([]string{"card"}, document.Node{
		ID:       "card",
		Name:     "card",
		Type:     document.Frame,
		Children: []document.Node{{ID: "bg", Name: "bg", Type: document.Rectangle, StyleRef: "brand"}},
	})
	f.repo = registry.NewMemoryRepository(
		registry.Record{ID: "brand", Name: "dark/brand/500"},
		registry.Record{ID: "accent", Name: "dark/accent/500"},
	)
	f.env.Registry = registry.New(f.repo, logger.Discard())

	res, err := Run(ctx, f.env, "swapScale", Args{"pivot": "accent"})
	if err != nil {
		t.Fatal(err)
	}
	if res.Changed != 1 || f.node("bg").StyleRef != "accent" {
		t.Errorf("result = %+v, ref = %q", res, f.node("bg").StyleRef)
	}

	got, err := Suggest(ctx, f.env, "swapScale", "pivot", "a")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, []string{"accent"}) {
		t.Errorf("Suggest = %v", got)
	}
}

func TestSuggestValues(t *testing.T) {
	env := &Env{Log: logger.Discard()}
	got, err := Suggest(context.Background(), env, "snapScale", "property", "CH")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, []string{"chroma"}) {
		t.Errorf("Suggest = %v", got)
	}
	if _, err := Suggest(context.Background(), env, "snapScale", "nope", ""); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("error = %v", err)
	}
}

func TestPersistRunsAfterExecute(t *testing.T) {
	f := newFixture([]string{"scale"}, gradientScale())
	calls := 0
	f.env.Persist = func() error { calls++; return errors.New("disk full") }

	_, err := Run(context.Background(), f.env, "generateScale", nil)
	if calls != 1 || err == nil {
		t.Errorf("calls = %d, err = %v", calls, err)
	}
}

func TestCommandTable(t *testing.T) {
	want := []string{"captureScale", "fixGradientLightness", "generateScale", "smooth", "snapScale", "swapScale", "updateScaleReferences", "updateStyles"}
	var got []string
	for _, d := range Commands() {
		got = append(got, d.Name)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Commands = %v", got)
	}
}

func rgbNear(a, b palette.RGB, tol float64) bool {
	return math.Abs(a.R-b.R) <= tol && math.Abs(a.G-b.G) <= tol && math.Abs(a.B-b.B) <= tol
}
