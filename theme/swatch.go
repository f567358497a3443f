package theme

import (
	"io"
	"sort"

	svg "github.com/ajstarks/svgo"
	"github.com/mmuldo/scaler/palette"
	"github.com/mmuldo/scaler/scale"
)

const (
	cell   = 72
	label  = 160
	margin = 8
)

// Row is one scale: its styles in stop order.
type Row struct {
	Theme  string
	Hue    string
	Styles []Style
}

// Label returns "theme/hue", or the hue alone.
func (r Row) Label() string {
	if r.Theme == "" {
		return r.Hue
	}
	return r.Theme + "/" + r.Hue
}

// Rows groups styles by theme and hue. Numbered variants come first in
// numeric order, then the rest by name.
func Rows(ss []Style) []Row {
	index := make(map[string]int)
	var rows []Row
	for _, s := range ss {
		k := s.Theme + "/" + s.Hue
		i, ok := index[k]
		if !ok {
			i = len(rows)
			index[k] = i
			rows = append(rows, Row{Theme: s.Theme, Hue: s.Hue})
		}
		rows[i].Styles = append(rows[i].Styles, s)
	}

	for _, r := range rows {
		sort.SliceStable(r.Styles, func(i, j int) bool {
			return variantLess(r.Styles[i].Variant, r.Styles[j].Variant)
		})
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Label() < rows[j].Label() })
	return rows
}

func variantLess(a, b string) bool {
	na, ea := scale.ParseStopNumber(a)
	nb, eb := scale.ParseStopNumber(b)
	switch {
	case ea == nil && eb == nil:
		return na < nb
	case ea == nil:
		return true
	case eb == nil:
		return false
	}
	return a < b
}

// WriteSwatch draws rows as an SVG sheet, one row per scale.
func WriteSwatch(w io.Writer, rows []Row) {
	cols := 0
	for _, r := range rows {
		if len(r.Styles) > cols {
			cols = len(r.Styles)
		}
	}

	width := 2*margin + label + cols*cell
	height := 2*margin + len(rows)*cell
	canvas := svg.New(w)
	canvas.Start(width, height, `font-family="sans-serif" font-size="11px"`)
	defer canvas.End()

	for i, r := range rows {
		y := margin + i*cell
		canvas.Text(margin, y+cell/2, r.Label(), `dy=".3em" fill="#333"`)
		for j, s := range r.Styles {
			x := margin + label + j*cell
			canvas.Rect(x, y, cell, cell, "fill:"+s.Hex)
			ink := "#000"
			if palette.RGBToHSLUV(s.Color).L < 0.6 {
				ink = "#fff"
			}
			canvas.Text(x+cell/2, y+cell/2-6, s.Variant, `text-anchor="middle" fill="`+ink+`"`)
			canvas.Text(x+cell/2, y+cell/2+10, s.Hex, `text-anchor="middle" fill="`+ink+`"`)
		}
	}
}
