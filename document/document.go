// Package document models the host design document that scales are read
// from and bound into. The core only sees value snapshots of its nodes and
// changes them through the Store's write operations.
package document

import (
	"context"
	"errors"
	"strings"

	"github.com/mmuldo/scaler/gradient"
	"github.com/mmuldo/scaler/palette"
)

var (
	// ErrNodeNotFound is returned when a write names an unknown node.
	ErrNodeNotFound = errors.New("node not found")
	// ErrFontNotLoaded is returned when text is edited before its font is loaded.
	ErrFontNotLoaded = errors.New("font not loaded")
)

// NodeType is the kind of a document node.
type NodeType string

const (
	Frame     NodeType = "FRAME"
	Group     NodeType = "GROUP"
	Instance  NodeType = "INSTANCE"
	Rectangle NodeType = "RECTANGLE"
	Text      NodeType = "TEXT"
	Vector    NodeType = "VECTOR"
)

// PaintType is the kind of a fill.
type PaintType string

const (
	Solid          PaintType = "SOLID"
	GradientLinear PaintType = "GRADIENT_LINEAR"
)

// Paint is a node fill: a solid color or a linear gradient.
type Paint struct {
	Type  PaintType       `json:"type"`
	Color palette.RGB     `json:"color"`
	Stops []gradient.Stop `json:"stops,omitempty"`
}

// Node is a value snapshot of a document node and its subtree.
type Node struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Type       NodeType `json:"type"`
	Hidden     bool     `json:"hidden,omitempty"`
	Locked     bool     `json:"locked,omitempty"`
	Fill       *Paint   `json:"fill,omitempty"`
	StyleRef   string   `json:"styleRef,omitempty"`
	Characters string   `json:"characters,omitempty"`
	FontFamily string   `json:"fontFamily,omitempty"`
	Children   []Node   `json:"children,omitempty"`
}

// Visible reports whether the node is shown.
func (n Node) Visible() bool {
	return !n.Hidden
}

// TrimmedName returns the node name without surrounding whitespace.
func (n Node) TrimmedName() string {
	return strings.TrimSpace(n.Name)
}

// Solid reports the node's solid fill color, if it has one.
func (n Node) Solid() (palette.RGB, bool) {
	if n.Fill == nil || n.Fill.Type != Solid {
		return palette.RGB{}, false
	}
	return n.Fill.Color, true
}

// Gradient returns the node's gradient fill, if it has one.
func (n Node) Gradient() (gradient.Gradient, bool, error) {
	if n.Fill == nil || n.Fill.Type != GradientLinear {
		return nil, false, nil
	}
	g, e := gradient.New(n.Fill.Stops)
	return g, true, e
}

// Walk calls fn for n and every descendant, depth first.
func (n Node) Walk(fn func(Node)) {
	fn(n)
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// Store is the read and write surface of a document.
type Store interface {
	// Find returns snapshots of every node matching pred, depth first.
	Find(pred func(Node) bool) []Node
	// Selection returns snapshots of the selected nodes.
	Selection() []Node

	SetColor(ctx context.Context, id string, c palette.RGB) error
	SetGradient(ctx context.Context, id string, stops []gradient.Stop) error
	// SetStyleRef binds the node's fill to a registry record by ID.
	SetStyleRef(ctx context.Context, id, recordID string) error
	// LoadFont must complete before SetText on a node using family.
	LoadFont(ctx context.Context, family string) error
	SetText(ctx context.Context, id, text string) error
}

// All matches every node.
func All(Node) bool { return true }

func clone(n Node) Node {
	if n.Fill != nil {
		p := *n.Fill
		p.Stops = append([]gradient.Stop(nil), p.Stops...)
		n.Fill = &p
	}
	if n.Children != nil {
		children := make([]Node, len(n.Children))
		for i, c := range n.Children {
			children[i] = clone(c)
		}
		n.Children = children
	}
	return n
}
