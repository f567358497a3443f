package theme

import (
	"fmt"
	"sort"

	"github.com/flosch/pongo2"
	"github.com/mmuldo/scaler/palette"
	"github.com/mmuldo/scaler/registry"
)

// Theme is the context export templates are rendered against.
type Theme map[string]interface{}

// Style is a registry style as templates see it.
type Style struct {
	Name    string
	Theme   string
	Hue     string
	Variant string
	Hex     string
	R, G, B uint8
	Color   palette.RGB
}

type byName []Style

func (ss byName) Len() int           { return len(ss) }
func (ss byName) Less(i, j int) bool { return ss[i].Name < ss[j].Name }
func (ss byName) Swap(i, j int)      { ss[i], ss[j] = ss[j], ss[i] }

type byLightness []Style

func (ss byLightness) Len() int { return len(ss) }
func (ss byLightness) Less(i, j int) bool {
	return palette.RGBToHSLUV(ss[i].Color).L < palette.RGBToHSLUV(ss[j].Color).L
}
func (ss byLightness) Swap(i, j int) { ss[i], ss[j] = ss[j], ss[i] }

// exported functions

// Styles converts registry records to styles, sorted by name. Records whose
// names do not parse are skipped.
func Styles(records []registry.Record) []Style {
	ss := make([]Style, 0, len(records))
	for _, rec := range records {
		k, e := registry.Parse(rec.Name)
		if e != nil {
			continue
		}
		r, g, b := rec.Color.RGB255()
		ss = append(ss, Style{
			Name:    registry.Normalize(rec.Name),
			Theme:   k.Theme,
			Hue:     k.Hue,
			Variant: k.Variant,
			Hex:     rec.Color.Hex(),
			R:       r,
			G:       g,
			B:       b,
			Color:   rec.Color,
		})
	}
	sort.Sort(byName(ss))
	return ss
}

// Create builds the template context for records. Options override the
// computed values.
func Create(records []registry.Record, opts map[string]interface{}) (Theme, error) {
	ss := Styles(records)
	if len(ss) == 0 {
		return nil, fmt.Errorf("no styles to export")
	}

	scales := make(map[string]map[string]map[string]string)
	for _, s := range ss {
		if scales[s.Theme] == nil {
			scales[s.Theme] = make(map[string]map[string]string)
		}
		if scales[s.Theme][s.Hue] == nil {
			scales[s.Theme][s.Hue] = make(map[string]string)
		}
		scales[s.Theme][s.Hue][s.Variant] = s.Hex
	}

	t := Theme{
		"styles": ss,
		"scales": scales,
		"rows":   Rows(ss),
	}
	for k, v := range opts {
		t[k] = v
	}
	setDefaults(t, ss)

	return t, nil
}

// Render executes the template file at path against t.
func Render(path string, t Theme) (string, error) {
	tpl, e := pongo2.FromFile(path)
	if e != nil {
		return "", e
	}
	return tpl.Execute(pongo2.Context(t))
}

// RenderString executes an inline template against t.
func RenderString(src string, t Theme) (string, error) {
	tpl, e := pongo2.FromString(src)
	if e != nil {
		return "", e
	}
	return tpl.Execute(pongo2.Context(t))
}

// helper functions

func setDefaults(t Theme, ss []Style) {
	byL := append([]Style(nil), ss...)
	sort.Stable(byLightness(byL))

	if _, ok := t["background"]; !ok {
		t["background"] = byL[len(byL)-1].Hex
	}

	if _, ok := t["foreground"]; !ok {
		t["foreground"] = byL[0].Hex
	}

	if _, ok := t["transparency"]; !ok {
		t["transparency"] = 1.0
	}
}
