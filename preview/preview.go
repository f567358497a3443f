// Package preview draws registry scales as colored cells in a terminal.
package preview

import (
	"github.com/gdamore/tcell/v2"
	"github.com/mmuldo/scaler/palette"
	"github.com/mmuldo/scaler/theme"
)

const (
	cellWidth  = 9
	labelWidth = 18
)

// Canvas is the part of tcell.Screen that Draw writes to.
type Canvas interface {
	SetContent(x, y int, primary rune, combining []rune, style tcell.Style)
	Size() (width, height int)
}

// Style returns a cell style with c as background and a readable foreground.
func Style(c palette.RGB) tcell.Style {
	r, g, b := c.RGB255()
	fg := tcell.ColorBlack
	if palette.RGBToHSLUV(c).L < 0.6 {
		fg = tcell.ColorWhite
	}
	return tcell.StyleDefault.Background(tcell.NewRGBColor(int32(r), int32(g), int32(b))).Foreground(fg)
}

// Draw lays rows out two lines each: the variant names, then the hex values.
// Rows and cells that do not fit are cut off.
func Draw(c Canvas, rows []theme.Row) {
	width, height := c.Size()
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c.SetContent(x, y, ' ', nil, tcell.StyleDefault)
		}
	}

	for i, row := range rows {
		y := i * 3
		if y+1 >= height {
			return
		}
		text(c, 0, y, labelWidth, row.Label(), tcell.StyleDefault.Bold(true))

		for j, s := range row.Styles {
			x := labelWidth + j*cellWidth
			if x+cellWidth > width {
				break
			}
			st := Style(s.Color)
			text(c, x, y, cellWidth, center(s.Variant, cellWidth), st)
			text(c, x, y+1, cellWidth, center(s.Hex, cellWidth), st)
		}
	}
}

// text writes s padded or cut to n cells.
func text(c Canvas, x, y, n int, s string, st tcell.Style) {
	rs := []rune(s)
	for i := 0; i < n; i++ {
		r := ' '
		if i < len(rs) {
			r = rs[i]
		}
		c.SetContent(x+i, y, r, nil, st)
	}
}

func center(s string, n int) string {
	pad := (n - len([]rune(s))) / 2
	if pad <= 0 {
		return s
	}
	out := make([]rune, pad, n)
	for i := range out {
		out[i] = ' '
	}
	return string(append(out, []rune(s)...))
}

// Run shows rows on screen until the user presses q, Esc or Ctrl-C.
func Run(screen tcell.Screen, rows []theme.Row) error {
	if e := screen.Init(); e != nil {
		return e
	}
	defer screen.Fini()

	Draw(screen, rows)
	screen.Show()

	for {
		switch ev := screen.PollEvent().(type) {
		case *tcell.EventResize:
			screen.Sync()
			Draw(screen, rows)
			screen.Show()
		case *tcell.EventKey:
			if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC ||
				(ev.Key() == tcell.KeyRune && ev.Rune() == 'q') {
				return nil
			}
		case nil:
			return nil
		}
	}
}
