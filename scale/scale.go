// Package scale derives named color scales from gradient, reference,
// anchor and swatch evidence.
package scale

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/mmuldo/scaler/gradient"
	"github.com/mmuldo/scaler/palette"
)

var (
	// ErrEvidenceNotFound is returned when there are no stops or colors to build a scale from.
	ErrEvidenceNotFound = errors.New("evidence not found")
	// ErrMalformedName is returned when a scale name does not follow the naming grammar.
	ErrMalformedName = errors.New("malformed scale name")
)

// DefaultVariant names the stop taken from a scale's `$default` element.
const DefaultVariant = "DEFAULT"

// Stop is one named color of a scale.
type Stop struct {
	Name   string      `json:"name"`
	Offset float64     `json:"offset"`
	Color  palette.RGB `json:"color"`
}

// Scale is a named list of stops, optionally scoped to a theme.
type Scale struct {
	Name  string `json:"name"`
	Theme string `json:"theme,omitempty"`
	Stops []Stop `json:"stops"`
}

// Identity returns the scale's name and theme.
func (s Scale) Identity() Identity {
	return Identity{Name: s.Name, Theme: s.Theme}
}

// StopNames returns the stop names in order.
func (s Scale) StopNames() []string {
	names := make([]string, len(s.Stops))
	for i, st := range s.Stops {
		names[i] = st.Name
	}
	return names
}

// Colors returns the stop colors in order.
func (s Scale) Colors() []palette.RGB {
	cs := make([]palette.RGB, len(s.Stops))
	for i, st := range s.Stops {
		cs[i] = st.Color
	}
	return cs
}

// Validate checks that the scale has stops and that their names are unique.
func (s Scale) Validate() error {
	if len(s.Stops) == 0 {
		return fmt.Errorf("%w: scale %q has no stops", ErrEvidenceNotFound, s.Name)
	}
	seen := make(map[string]bool, len(s.Stops))
	for _, st := range s.Stops {
		if st.Name == "" {
			return fmt.Errorf("scale %q has an unnamed stop", s.Name)
		}
		if seen[st.Name] {
			return fmt.Errorf("scale %q has duplicate stop %q", s.Name, st.Name)
		}
		seen[st.Name] = true
	}
	return nil
}

func stopsOrDefault(stops []int) []int {
	if len(stops) == 0 {
		return DefaultStops
	}
	return stops
}

// FromGradient samples g at each stop offset of id. Stops are named by
// their integer labels.
func FromGradient(id Identity, g gradient.Gradient) (Scale, error) {
	if len(g) < 2 {
		return Scale{}, fmt.Errorf("%w: scale %q has no gradient", ErrEvidenceNotFound, id.Name)
	}

	stops := stopsOrDefault(id.Stops)
	offsets, e := Offsets(stops)
	if e != nil {
		return Scale{}, e
	}

	s := Scale{Name: id.Name, Theme: id.Theme}
	for i, n := range stops {
		c, e := g.Sample(offsets[i])
		if e != nil {
			return Scale{}, fmt.Errorf("stop %d: %w", n, e)
		}
		s.Stops = append(s.Stops, Stop{Name: strconv.Itoa(n), Offset: offsets[i], Color: c})
	}
	return s, nil
}

// FromSwatches builds a scale from colors that are already present, such
// as the solid fills of a scale's stop elements.
func FromSwatches(id Identity, stops []Stop) (Scale, error) {
	s := Scale{Name: id.Name, Theme: id.Theme, Stops: append([]Stop(nil), stops...)}
	if e := s.Validate(); e != nil {
		return Scale{}, e
	}
	return s, nil
}
