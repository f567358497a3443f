package command

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mmuldo/scaler/document"
	"github.com/mmuldo/scaler/scale"
	"github.com/mmuldo/scaler/scalesync"
)

const (
	baseElement     = "$base"
	gradientElement = "$gradient"
)

// scaleNode is a document node carrying a declarative scale name.
type scaleNode struct {
	document.Node
	Identity scale.Identity
}

// scaleNodes keeps the visible nodes named with the scale grammar. A node
// that starts with the grammar's prefix but does not parse is an error.
func scaleNodes(nodes []document.Node) ([]scaleNode, error) {
	var out []scaleNode
	for _, n := range nodes {
		if !n.Visible() || !isScaleName(n.Name) {
			continue
		}
		id, e := scale.ParseName(n.Name)
		if e != nil {
			return nil, e
		}
		out = append(out, scaleNode{Node: n, Identity: id})
	}
	return out, nil
}

func isScaleName(name string) bool {
	return strings.HasPrefix(strings.TrimSpace(name), "$scale")
}

func selectedScales(env *Env) ([]scaleNode, error) {
	nodes, e := scaleNodes(env.Store.Selection())
	if e != nil {
		return nil, e
	}
	if len(nodes) == 0 {
		return nil, fmt.Errorf("%w: select one or more nodes named like \"$scale = name/theme\"", scale.ErrEvidenceNotFound)
	}
	return nodes, nil
}

func child(n document.Node, name string) (document.Node, bool) {
	for _, c := range n.Children {
		if c.TrimmedName() == name {
			return c, true
		}
	}
	return document.Node{}, false
}

// derive interprets the evidence of a scale node. A gradient fill on the
// node or on its `$gradient` child is sampled; otherwise the scale is built
// from the reference colors, with `$base` overriding the base color.
func derive(env *Env, n scaleNode) (scale.Scale, error) {
	if g, ok, e := n.Gradient(); ok || e != nil {
		if e != nil {
			return scale.Scale{}, e
		}
		return scale.FromGradient(n.Identity, g)
	}
	if c, ok := child(n.Node, gradientElement); ok {
		g, ok, e := c.Gradient()
		if e != nil {
			return scale.Scale{}, e
		}
		if !ok {
			return scale.Scale{}, fmt.Errorf("%w: %s has no gradient fill", scale.ErrEvidenceNotFound, gradientElement)
		}
		return scale.FromGradient(n.Identity, g)
	}

	ref := env.Reference
	ref.Base = baseColor(env, n.Node)
	stops := n.Identity.Stops
	if len(stops) == 0 {
		stops = elementStops(n.Node)
	}
	return scale.FromReference(n.Identity, ref, stops)
}

// elementStops returns the numeric stop names of n's stop elements, sorted.
func elementStops(n document.Node) []int {
	var stops []int
	for _, el := range scalesync.StopElements(n) {
		if v, e := scale.ParseStopNumber(el.Variant); e == nil {
			stops = append(stops, v)
		}
	}
	sort.Ints(stops)
	return stops
}

// deriveAll interprets every node before anything is written. Nodes naming
// a scale already seen are skipped.
func deriveAll(env *Env, nodes []scaleNode) ([]scale.Scale, error) {
	var out []scale.Scale
	seen := make(map[string]bool)
	for _, n := range nodes {
		key := n.Identity.Theme + "/" + n.Identity.Name
		if seen[key] {
			env.logger().Debug("scale already derived", "scale", n.Identity.Name, "theme", n.Identity.Theme, "node", n.Node.ID)
			continue
		}
		seen[key] = true

		sc, e := derive(env, n)
		if e != nil {
			return nil, fmt.Errorf("%s: %w", n.TrimmedName(), e)
		}
		out = append(out, sc)
	}
	return out, nil
}
