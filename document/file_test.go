package document

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/mmuldo/scaler/gradient"
	"github.com/mmuldo/scaler/palette"
)

func sample() Contents {
	label := Node{ID: "label", Name: "hex", Type: Text, FontFamily: "Inter"}
	stop := Node{ID: "s500", Name: "500", Type: Rectangle, Fill: &Paint{Type: Solid, Color: palette.RGB{R: 1}}}
	stop.Children = []Node{label}
	hidden := Node{ID: "g", Name: "gradient", Type: Rectangle, Hidden: true}

	scaleNode := Node{ID: "scale", Name: "$scale = brand/dark", Type: Frame, Children: []Node{stop, hidden}}
	page := Node{ID: "page", Name: "$dark", Type: Frame, Children: []Node{scaleNode}}

	return Contents{
		Fonts:     []string{"Inter"},
		Selection: []string{"scale"},
		Nodes:     []Node{page},
	}
}

func TestFindIsDepthFirst(t *testing.T) {
	f := New(sample())
	var ids []string
	for _, n := range f.Find(All) {
		ids = append(ids, n.ID)
	}
	want := []string{"page", "scale", "s500", "label", "g"}
	if len(ids) != len(want) {
		t.Fatalf("Find = %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("Find[%d] = %s, want %s", i, ids[i], want[i])
		}
	}

	hidden := f.Find(func(n Node) bool { return !n.Visible() })
	if len(hidden) != 1 || hidden[0].ID != "g" {
		t.Errorf("hidden = %v", hidden)
	}
}

func TestSnapshotsAreValues(t *testing.T) {
	f := New(sample())
	sel := f.Selection()
	if len(sel) != 1 || sel[0].ID != "scale" {
		t.Fatalf("Selection = %v", sel)
	}
	sel[0].Children[0].Fill.Color = palette.RGB{G: 1}
	sel[0].Children[0].Name = "changed"

	again := f.Selection()
	if c, _ := again[0].Children[0].Solid(); c != (palette.RGB{R: 1}) {
		t.Errorf("snapshot write leaked into the document: %v", c)
	}
	if f.Dirty() {
		t.Error("document should be clean")
	}
}

func TestWrites(t *testing.T) {
	ctx := context.Background()
	f := New(sample())

	if err := f.SetStyleRef(ctx, "s500", "style-1"); err != nil {
		t.Fatal(err)
	}
	if !f.Dirty() {
		t.Error("expected dirty after SetStyleRef")
	}
	n := f.Find(func(n Node) bool { return n.ID == "s500" })[0]
	if n.StyleRef != "style-1" {
		t.Errorf("StyleRef = %q", n.StyleRef)
	}

	if err := f.SetColor(ctx, "s500", palette.RGB{B: 1}); err != nil {
		t.Fatal(err)
	}
	n = f.Find(func(n Node) bool { return n.ID == "s500" })[0]
	if c, ok := n.Solid(); !ok || c != (palette.RGB{B: 1}) || n.StyleRef != "" {
		t.Errorf("after SetColor: %+v", n)
	}

	stops := []gradient.Stop{{Position: 0, Color: palette.RGB{}}, {Position: 1, Color: palette.RGB{R: 1, G: 1, B: 1}}}
	if err := f.SetGradient(ctx, "g", stops); err != nil {
		t.Fatal(err)
	}
	g := f.Find(func(n Node) bool { return n.ID == "g" })[0]
	if grad, ok, err := g.Gradient(); !ok || err != nil || len(grad) != 2 {
		t.Errorf("Gradient = %v %v %v", grad, ok, err)
	}

	if err := f.SetColor(ctx, "missing", palette.RGB{}); !errors.Is(err, ErrNodeNotFound) {
		t.Errorf("error = %v, want ErrNodeNotFound", err)
	}
}

func TestSetTextNeedsFont(t *testing.T) {
	ctx := context.Background()
	f := New(sample())

	if err := f.SetText(ctx, "label", "#ff0000"); !errors.Is(err, ErrFontNotLoaded) {
		t.Errorf("error = %v, want ErrFontNotLoaded", err)
	}
	if err := f.LoadFont(ctx, "Comic"); err == nil {
		t.Error("expected unknown font to fail")
	}
	if err := f.LoadFont(ctx, "Inter"); err != nil {
		t.Fatal(err)
	}
	if err := f.SetText(ctx, "label", "#ff0000"); err != nil {
		t.Fatal(err)
	}
	if n := f.Find(func(n Node) bool { return n.ID == "label" })[0]; n.Characters != "#ff0000" {
		t.Errorf("Characters = %q", n.Characters)
	}
	if err := f.SetText(ctx, "s500", "x"); err == nil {
		t.Error("expected error setting text on a rectangle")
	}
}

func TestSaveOnlyWhenChanged(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "doc.json")

	f := New(sample())
	f.SetPath(path)
	if err := f.Save(); err != nil {
		t.Fatal(err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	before, _ := os.Stat(path)

	// rebinding to the same reference leaves the file alone
	if err := loaded.SetStyleRef(ctx, "s500", ""); err != nil {
		t.Fatal(err)
	}
	if loaded.Dirty() {
		t.Error("no-op write marked the document dirty")
	}
	if err := loaded.Save(); err != nil {
		t.Fatal(err)
	}
	after, _ := os.Stat(path)
	if !after.ModTime().Equal(before.ModTime()) {
		t.Error("unchanged document was rewritten")
	}

	if err := loaded.SetStyleRef(ctx, "s500", "style-9"); err != nil {
		t.Fatal(err)
	}
	if err := loaded.Save(); err != nil {
		t.Fatal(err)
	}
	again, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if n := again.Find(func(n Node) bool { return n.ID == "s500" })[0]; n.StyleRef != "style-9" {
		t.Errorf("StyleRef after reload = %q", n.StyleRef)
	}
}

func TestLoadAcceptsCSSColors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.json")
	doc := `{"nodes": [{"id": "a", "name": "500", "type": "RECTANGLE", "fill": {"type": "SOLID", "color": "#6463EA"}}]}`
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}
	f, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	c, ok := f.Find(All)[0].Solid()
	if !ok || c.Hex() != "#6463ea" {
		t.Errorf("fill = %v %v", c, ok)
	}
}
