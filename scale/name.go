package scale

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/mmuldo/scaler/palette"
)

const namePrefix = "$scale"

// DefaultStops is the stop set used when a scale name lists none.
var DefaultStops = []int{50, 100, 200, 300, 400, 500, 600, 700, 800, 900}

// Identity is the parsed form of a declarative scale name
// `$scale = <name>[/<theme>][/{n1,n2,...}]`.
type Identity struct {
	Name  string
	Theme string
	// Stops is nil unless the name carries an explicit stop list.
	Stops []int
}

// Matches reports whether o names the same scale, ignoring stop lists.
func (id Identity) Matches(o Identity) bool {
	return id.Name == o.Name && id.Theme == o.Theme
}

// ParseName parses a declarative scale name.
func ParseName(s string) (Identity, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, namePrefix) {
		return Identity{}, malformed(s, "missing %q prefix", namePrefix)
	}
	rest := strings.TrimSpace(s[len(namePrefix):])
	if !strings.HasPrefix(rest, "=") {
		return Identity{}, malformed(s, "missing '='")
	}
	rest = strings.TrimSpace(rest[1:])

	segs := strings.Split(rest, "/")
	for i := range segs {
		segs[i] = strings.TrimSpace(segs[i])
	}

	var id Identity
	if last := segs[len(segs)-1]; strings.HasPrefix(last, "{") {
		stops, e := parseStopList(last)
		if e != nil {
			return Identity{}, malformed(s, "%v", e)
		}
		id.Stops = stops
		segs = segs[:len(segs)-1]
	}

	switch len(segs) {
	case 1:
		id.Name = segs[0]
	case 2:
		id.Name, id.Theme = segs[0], segs[1]
	default:
		return Identity{}, malformed(s, "expected <name>[/<theme>]")
	}

	for _, seg := range []string{id.Name, id.Theme} {
		if strings.IndexFunc(seg, unicode.IsSpace) >= 0 || strings.ContainsAny(seg, "{}") {
			return Identity{}, malformed(s, "invalid segment %q", seg)
		}
	}
	if id.Name == "" || (len(segs) == 2 && id.Theme == "") {
		return Identity{}, malformed(s, "empty segment")
	}

	return id, nil
}

func parseStopList(s string) ([]int, error) {
	if !strings.HasSuffix(s, "}") {
		return nil, fmt.Errorf("unterminated stop list %q", s)
	}
	body := strings.TrimSpace(s[1 : len(s)-1])
	if body == "" {
		return nil, fmt.Errorf("empty stop list")
	}

	var stops []int
	seen := make(map[int]bool)
	for _, f := range strings.Split(body, ",") {
		n, e := ParseStopNumber(f)
		if e != nil {
			return nil, e
		}
		if seen[n] {
			return nil, fmt.Errorf("duplicate stop %d", n)
		}
		seen[n] = true
		stops = append(stops, n)
	}
	return stops, nil
}

// ParseStopNumber parses a stop label such as "500".
func ParseStopNumber(s string) (int, error) {
	s = strings.TrimSpace(s)
	if !IsStopName(s) {
		return 0, fmt.Errorf("invalid stop %q", s)
	}
	return strconv.Atoi(s)
}

// IsStopName reports whether s is a non-empty run of ASCII digits.
func IsStopName(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Offsets maps stop numbers onto [0, 1] by dividing by the next power of
// ten at or above the largest stop.
func Offsets(stops []int) ([]float64, error) {
	max := 0
	for _, n := range stops {
		if n > max {
			max = n
		}
	}
	if max <= 0 {
		return nil, fmt.Errorf("%w: stops %v have no positive maximum", ErrMalformedName, stops)
	}

	m := palette.NextPowerOf10(float64(max))
	offsets := make([]float64, len(stops))
	for i, n := range stops {
		offsets[i] = float64(n) / m
	}
	return offsets, nil
}

func malformed(name, format string, args ...interface{}) error {
	return fmt.Errorf("%w %q: %s", ErrMalformedName, name, fmt.Sprintf(format, args...))
}
