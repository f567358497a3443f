package registry

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/mmuldo/scaler/logger"
	"github.com/mmuldo/scaler/palette"
)

var purple = palette.RGB{R: 0.39, G: 0.39, B: 0.92}

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want Key
	}{
		{in: "brand/500", want: Key{Hue: "brand", Variant: "500"}},
		{in: "dark/brand/500", want: Key{Theme: "dark", Hue: "brand", Variant: "500"}},
		{in: " dark / brand /500 ", want: Key{Theme: "dark", Hue: "brand", Variant: "500"}},
		{in: "a/b/c/d", want: Key{Theme: "a/b", Hue: "c", Variant: "d"}},
		{in: "dark/br.*nd(/[5]+", want: Key{Theme: "dark", Hue: "br.*nd(", Variant: "[5]+"}},
	}
	for _, tt := range tests {
		got, err := Parse(tt.in)
		if err != nil {
			t.Errorf("Parse(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Parse(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}

	for _, in := range []string{"", "brand", "brand/", "/500", "dark//500"} {
		if _, err := Parse(in); !errors.Is(err, ErrMalformedName) {
			t.Errorf("Parse(%q) error = %v, want ErrMalformedName", in, err)
		}
	}
}

func TestNormalize(t *testing.T) {
	if got := Normalize(" dark /  brand/ 500"); got != "dark/brand/500" {
		t.Errorf("Normalize = %q", got)
	}
	// whitespace inside a segment is significant
	if got := Normalize("dark/light blue/500"); got != "dark/light blue/500" {
		t.Errorf("Normalize = %q", got)
	}
	if Normalize("the\u0300me/x/1") != Normalize("th\u00e8me/x/1") {
		t.Error("expected NFC-equivalent names to normalize equally")
	}
}

func TestUpsertIdempotent(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	reg := New(repo, logger.Discard())

	rec, change, err := reg.Upsert(ctx, "dark/brand/500", purple)
	if err != nil {
		t.Fatal(err)
	}
	if change != Created {
		t.Errorf("first upsert = %s, want created", change)
	}

	again, change, err := reg.Upsert(ctx, "dark/brand/500", purple)
	if err != nil {
		t.Fatal(err)
	}
	if change != Unchanged || again.ID != rec.ID {
		t.Errorf("second upsert = %s (%s), want unchanged (%s)", change, again.ID, rec.ID)
	}
	if repo.Writes() != 1 {
		t.Errorf("expected 1 write, got %d", repo.Writes())
	}

	all, _ := repo.FindAll(ctx)
	if len(all) != 1 {
		t.Errorf("expected exactly one record, got %d", len(all))
	}
}

func TestUpsertUpdatesInPlace(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository(Record{ID: "keep", Name: " dark / brand / 500 ", Color: palette.RGB{}})
	reg := New(repo, logger.Discard())

	rec, change, err := reg.Upsert(ctx, "dark/brand/500", purple)
	if err != nil {
		t.Fatal(err)
	}
	if change != Updated || rec.ID != "keep" {
		t.Errorf("upsert = %s %s, want updated keep", change, rec.ID)
	}
	if rec.Name != "dark/brand/500" || rec.Color != purple {
		t.Errorf("record = %+v", rec)
	}

	all, _ := repo.FindAll(ctx)
	if len(all) != 1 || all[0].Name != "dark/brand/500" {
		t.Errorf("records = %+v", all)
	}
}

func TestUpsertRejectsMalformed(t *testing.T) {
	reg := New(NewMemoryRepository(), logger.Discard())
	if _, _, err := reg.Upsert(context.Background(), "brand", purple); !errors.Is(err, ErrMalformedName) {
		t.Errorf("error = %v, want ErrMalformedName", err)
	}
}

func TestFindByKeyIsStructural(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository(
		Record{Name: "dark/brand-2/500", Color: purple},
		Record{Name: "dark/brand/5000", Color: purple},
		Record{Name: "xdark/brand/500", Color: purple},
		Record{Name: "dark / brand / 500", Color: palette.RGB{R: 1}},
		Record{Name: "broken"},
	)
	reg := New(repo, logger.Discard())

	rec, ok, err := reg.FindByKey(ctx, Key{Theme: "dark", Hue: "brand", Variant: "500"})
	if err != nil || !ok {
		t.Fatalf("FindByKey: ok=%v err=%v", ok, err)
	}
	if rec.Color != (palette.RGB{R: 1}) {
		t.Errorf("matched %q, want the dark/brand/500 record", rec.Name)
	}

	if _, ok, _ := reg.FindByKey(ctx, Key{Hue: "brand", Variant: "500"}); ok {
		t.Error("a key without theme must not match themed records")
	}
	if _, ok, _ := reg.FindByKey(ctx, Key{Theme: "dark", Hue: "bran.", Variant: "500"}); ok {
		t.Error("key segments must not act as patterns")
	}
}

func TestVariants(t *testing.T) {
	ctx := context.Background()
	reg := New(NewMemoryRepository(
		Record{Name: "dark/brand/100"},
		Record{Name: "dark/brand/500"},
		Record{Name: "light/brand/500"},
		Record{Name: "dark/other/500"},
	), logger.Discard())

	vs, err := reg.Variants(ctx, "dark", "brand")
	if err != nil {
		t.Fatal(err)
	}
	if len(vs) != 2 {
		t.Errorf("expected 2 variants, got %v", vs)
	}
	if _, err := reg.Variants(ctx, "dark", " "); err == nil {
		t.Error("expected error for empty hue")
	}
}

func TestSwaps(t *testing.T) {
	got := Swaps("dark/brand/500", "700")
	want := []string{"dark/brand/700", "dark/700/500", "700/brand/500"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Swaps = %v, want %v", got, want)
	}
}

func TestSwap(t *testing.T) {
	ctx := context.Background()
	reg := New(NewMemoryRepository(
		Record{ID: "a", Name: "dark/brand/500"},
		Record{ID: "b", Name: "dark/accent/500"},
	), logger.Discard())

	rec, ok, err := reg.Swap(ctx, "dark/brand/500", "accent")
	if err != nil || !ok || rec.ID != "b" {
		t.Errorf("Swap = %+v %v %v, want record b", rec, ok, err)
	}
	if _, ok, _ := reg.Swap(ctx, "dark/brand/500", "missing"); ok {
		t.Error("expected no swap target")
	}
}

func TestSQLiteRepository(t *testing.T) {
	ctx := context.Background()
	repo, err := OpenSQLite(filepath.Join(t.TempDir(), "styles.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	defer repo.Close()

	reg := New(repo, logger.Discard())
	rec, change, err := reg.Upsert(ctx, "dark / brand / 500", purple)
	if err != nil {
		t.Fatal(err)
	}
	if change != Created || rec.Name != "dark/brand/500" {
		t.Errorf("upsert = %s %q", change, rec.Name)
	}

	if _, change, _ := reg.Upsert(ctx, "dark/brand/500", purple); change != Unchanged {
		t.Errorf("second upsert = %s, want unchanged", change)
	}

	next := palette.RGB{R: 0.1, G: 0.2, B: 0.3}
	if _, change, _ := reg.Upsert(ctx, "dark/brand/500", next); change != Updated {
		t.Errorf("third upsert = %s, want updated", change)
	}

	got, ok, err := repo.FindByName(ctx, "dark/brand/500")
	if err != nil || !ok {
		t.Fatalf("FindByName: %v %v", ok, err)
	}
	if got.ID != rec.ID || got.Color != next {
		t.Errorf("stored %+v, want id %s color %v", got, rec.ID, next)
	}

	all, err := repo.FindAll(ctx)
	if err != nil || len(all) != 1 {
		t.Errorf("FindAll = %v, %v", all, err)
	}

	if err := repo.Update(ctx, Record{ID: "nope", Name: "x/y"}); err == nil {
		t.Error("expected error updating a missing record")
	}
}
