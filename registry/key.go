package registry

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Separator joins the segments of a style name.
const Separator = "/"

// ErrMalformedName is returned for style names that do not have the
// `[theme/]hue/variant` shape.
var ErrMalformedName = errors.New("malformed style name")

// Key is the structural form of a style name `[theme/]hue/variant`.
type Key struct {
	Theme   string
	Hue     string
	Variant string
}

// String returns the canonical name.
func (k Key) String() string {
	if k.Theme == "" {
		return k.Hue + Separator + k.Variant
	}
	return k.Theme + Separator + k.Hue + Separator + k.Variant
}

// Parse splits name into its key from the right: the last segment is the
// variant, the one before it the hue, and whatever precedes them the theme.
func Parse(name string) (Key, error) {
	segs := segments(name)
	if len(segs) < 2 {
		return Key{}, fmt.Errorf("%w %q: expected at least hue/variant", ErrMalformedName, name)
	}
	for _, s := range segs {
		if s == "" {
			return Key{}, fmt.Errorf("%w %q: empty segment", ErrMalformedName, name)
		}
	}

	n := len(segs)
	return Key{
		Theme:   strings.Join(segs[:n-2], Separator),
		Hue:     segs[n-2],
		Variant: segs[n-1],
	}, nil
}

// Normalize returns name with whitespace around separators removed and each
// segment in Unicode NFC form. Two names refer to the same style exactly when
// their normalized forms are equal.
func Normalize(name string) string {
	return strings.Join(segments(name), Separator)
}

func segments(name string) []string {
	segs := strings.Split(strings.TrimSpace(name), Separator)
	for i, s := range segs {
		segs[i] = norm.NFC.String(strings.TrimSpace(s))
	}
	return segs
}

// Swaps lists the names obtained by replacing one segment of name with
// pivot, right-most segment first.
func Swaps(name, pivot string) []string {
	segs := segments(name)
	pivot = norm.NFC.String(strings.TrimSpace(pivot))

	var out []string
	for i := len(segs) - 1; i >= 0; i-- {
		if segs[i] == pivot {
			continue
		}
		swapped := append([]string(nil), segs...)
		swapped[i] = pivot
		out = append(out, strings.Join(swapped, Separator))
	}
	return out
}
