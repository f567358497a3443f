package command

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/mmuldo/scaler/document"
	"github.com/mmuldo/scaler/gradient"
	"github.com/mmuldo/scaler/palette"
	"github.com/mmuldo/scaler/registry"
	"github.com/mmuldo/scaler/scale"
	"github.com/mmuldo/scaler/scalesync"
)

func init() {
	register(Descriptor{
		Name:    "generateScale",
		Summary: "Derive the selected scales and write their styles",
		Execute: func(ctx context.Context, env *Env, args Args) (Result, error) {
			nodes, e := selectedScales(env)
			if e != nil {
				return Result{}, e
			}
			return syncScales(ctx, env, nodes, false)
		},
	})
	register(Descriptor{
		Name:    "updateScaleReferences",
		Summary: "Bind the selected scales to their existing styles",
		Execute: func(ctx context.Context, env *Env, args Args) (Result, error) {
			nodes, e := selectedScales(env)
			if e != nil {
				return Result{}, e
			}
			return syncScales(ctx, env, nodes, true)
		},
	})
	register(Descriptor{
		Name:    "updateStyles",
		Summary: "Derive every scale in the document and write their styles",
		Execute: func(ctx context.Context, env *Env, args Args) (Result, error) {
			nodes, e := scaleNodes(env.Store.Find(document.All))
			if e != nil {
				return Result{}, e
			}
			if len(nodes) == 0 {
				return Result{}, fmt.Errorf("%w: the document has no scales", scale.ErrEvidenceNotFound)
			}
			return syncScales(ctx, env, nodes, false)
		},
	})
	register(Descriptor{
		Name:    "fixGradientLightness",
		Summary: "Re-space the selected gradients by lightness",
		Params:  []Param{{Name: "mode", Values: modeNames(), Default: string(gradient.Absolute)}},
		Execute: fixGradientLightness,
	})
	register(Descriptor{
		Name:    "smooth",
		Summary: "Interpolate unlocked stops from the locked ones",
		Params:  []Param{{Name: "property", Values: channelNames(), Default: string(scale.SmoothAll)}},
		Execute: smooth,
	})
	register(Descriptor{
		Name:    "snapScale",
		Summary: "Re-derive the selected stops from the scale's base color",
		Params:  []Param{{Name: "property", Values: propertyNames(), Default: string(scale.SnapAll)}},
		Execute: snapScale,
	})
	register(Descriptor{
		Name:    "captureScale",
		Summary: "Write the colors of the selected scales' swatches as styles",
		Execute: captureScale,
	})
	register(Descriptor{
		Name:    "swapScale",
		Summary: "Rebind the selection to the styles of another scale",
		Params:  []Param{{Name: "pivot"}},
		Execute: swapScale,
		Suggest: suggestPivot,
	})
}

func modeNames() []string {
	var out []string
	for _, m := range gradient.Modes {
		out = append(out, string(m))
	}
	return out
}

func channelNames() []string {
	var out []string
	for _, c := range scale.Channels {
		out = append(out, string(c))
	}
	return out
}

func propertyNames() []string {
	var out []string
	for _, p := range scale.Properties {
		out = append(out, string(p))
	}
	return out
}

func syncScales(ctx context.Context, env *Env, nodes []scaleNode, rebindOnly bool) (Result, error) {
	scales, e := deriveAll(env, nodes)
	if e != nil {
		return Result{}, e
	}

	s := env.sync()
	res := Result{Scales: scales}
	var errs []error
	for _, sc := range scales {
		var rep scalesync.Report
		var e error
		if rebindOnly {
			rep, e = s.Rebind(ctx, sc)
		} else {
			rep, e = s.Sync(ctx, sc)
		}
		res.Report = addReports(res.Report, rep)
		if e != nil {
			errs = append(errs, fmt.Errorf("%s: %w", sc.Name, e))
		}
	}

	r := res.Report
	res.Message = fmt.Sprintf("%d scale(s): %d created, %d updated, %d bound, %d binding failure(s)",
		len(scales), r.Created, r.Updated, r.Bound, len(r.Failures))
	return res, errors.Join(errs...)
}

func addReports(a, b scalesync.Report) scalesync.Report {
	a.Created += b.Created
	a.Updated += b.Updated
	a.Unchanged += b.Unchanged
	a.Consumers += b.Consumers
	a.Bound += b.Bound
	a.Failures = append(a.Failures, b.Failures...)
	return a
}

type colorWrite struct {
	id    string
	color palette.RGB
}

func applyColors(ctx context.Context, env *Env, writes []colorWrite) (int, error) {
	var errs []error
	n := 0
	for _, w := range writes {
		if e := env.Store.SetColor(ctx, w.id, w.color); e != nil {
			errs = append(errs, e)
			continue
		}
		n++
	}
	return n, errors.Join(errs...)
}

func fixGradientLightness(ctx context.Context, env *Env, args Args) (Result, error) {
	mode := gradient.Mode(args["mode"])

	type fix struct {
		id    string
		stops []gradient.Stop
	}
	var fixes []fix
	for _, n := range env.Store.Selection() {
		g, ok, e := n.Gradient()
		if e != nil {
			return Result{}, fmt.Errorf("%s: %w", n.TrimmedName(), e)
		}
		if !ok {
			continue
		}
		out, e := gradient.FixLightness(g, mode)
		if e != nil {
			return Result{}, fmt.Errorf("%w: %v", ErrInvalidParameter, e)
		}
		fixes = append(fixes, fix{id: n.ID, stops: out})
	}
	if len(fixes) == 0 {
		return Result{}, fmt.Errorf("%w: select one or more nodes with a gradient fill", scale.ErrEvidenceNotFound)
	}

	var errs []error
	res := Result{}
	for _, f := range fixes {
		if e := env.Store.SetGradient(ctx, f.id, f.stops); e != nil {
			errs = append(errs, e)
			continue
		}
		res.Changed++
	}
	res.Message = fmt.Sprintf("re-spaced %d gradient(s) by %s lightness", res.Changed, mode)
	return res, errors.Join(errs...)
}

func smooth(ctx context.Context, env *Env, args Args) (Result, error) {
	ch := scale.Channel(args["property"])
	nodes, e := selectedScales(env)
	if e != nil {
		return Result{}, e
	}

	var writes []colorWrite
	for _, n := range nodes {
		var known []palette.RGB
		var unknown []scalesync.StopElement
		for _, el := range scalesync.StopElements(n.Node) {
			c, ok := el.Solid()
			if !ok {
				continue
			}
			if el.Locked {
				known = append(known, c)
			} else {
				unknown = append(unknown, el)
			}
		}

		sp, e := scale.NewSplineRGB(known)
		if e != nil {
			return Result{}, fmt.Errorf("%s: lock at least two stops: %w", n.TrimmedName(), e)
		}
		for _, el := range unknown {
			c, _ := el.Solid()
			out, e := sp.Smooth(c, ch)
			if e != nil {
				return Result{}, fmt.Errorf("%s/%s: %w", n.TrimmedName(), el.Variant, e)
			}
			writes = append(writes, colorWrite{id: el.ID, color: out})
		}
	}

	changed, e := applyColors(ctx, env, writes)
	return Result{Changed: changed, Message: fmt.Sprintf("smoothed %s of %d stop(s)", ch, changed)}, e
}

// baseColor is the `$base` swatch of n, or the configured base color.
func baseColor(env *Env, n document.Node) palette.RGB {
	if c, ok := child(n, baseElement); ok {
		if base, ok := c.Solid(); ok {
			return base
		}
	}
	return env.Reference.Base
}

func snapScale(ctx context.Context, env *Env, args Args) (Result, error) {
	p := scale.Property(args["property"])
	nodes, e := selectedScales(env)
	if e != nil {
		return Result{}, e
	}

	var writes []colorWrite
	for _, n := range nodes {
		base := baseColor(env, n.Node)
		stops := elementStops(n.Node)
		if len(stops) == 0 {
			return Result{}, fmt.Errorf("%w: %s has no stop elements", scale.ErrEvidenceNotFound, n.TrimmedName())
		}
		offsets, e := scale.Offsets(stops)
		if e != nil {
			return Result{}, e
		}
		offset := make(map[int]float64, len(stops))
		for i, st := range stops {
			offset[st] = offsets[i]
		}

		for _, el := range scalesync.StopElements(n.Node) {
			c, ok := el.Solid()
			num, e := scale.ParseStopNumber(el.Variant)
			if !ok || e != nil {
				continue
			}
			out, e := scale.Snap(base, c, offset[num], p)
			if e != nil {
				return Result{}, fmt.Errorf("%w: %v", ErrInvalidParameter, e)
			}
			writes = append(writes, colorWrite{id: el.ID, color: out})
		}
	}

	changed, e := applyColors(ctx, env, writes)
	return Result{Changed: changed, Message: fmt.Sprintf("snapped %s of %d stop(s)", p, changed)}, e
}

// captureScale takes the selected scales' swatch colors as they are.
func captureScale(ctx context.Context, env *Env, args Args) (Result, error) {
	nodes, e := selectedScales(env)
	if e != nil {
		return Result{}, e
	}

	var scales []scale.Scale
	for _, n := range nodes {
		var stops []scale.Stop
		for _, el := range scalesync.StopElements(n.Node) {
			c, ok := el.Solid()
			if !ok {
				continue
			}
			if el.Variant != scale.DefaultVariant && !scale.IsStopName(el.Variant) {
				continue
			}
			stops = append(stops, scale.Stop{Name: el.Variant, Color: c})
		}
		if e := setOffsets(stops); e != nil {
			return Result{}, fmt.Errorf("%s: %w", n.TrimmedName(), e)
		}
		sc, e := scale.FromSwatches(n.Identity, stops)
		if e != nil {
			return Result{}, fmt.Errorf("%s: %w", n.TrimmedName(), e)
		}
		scales = append(scales, sc)
	}

	s := env.sync()
	res := Result{Scales: scales}
	var errs []error
	for _, sc := range scales {
		rep, e := s.Sync(ctx, sc)
		res.Report = addReports(res.Report, rep)
		if e != nil {
			errs = append(errs, fmt.Errorf("%s: %w", sc.Name, e))
		}
	}
	r := res.Report
	res.Message = fmt.Sprintf("captured %d scale(s): %d created, %d updated", len(scales), r.Created, r.Updated)
	return res, errors.Join(errs...)
}

// setOffsets fills in the offsets of numbered stops.
func setOffsets(stops []scale.Stop) error {
	var nums []int
	var idx []int
	for i, st := range stops {
		if n, e := scale.ParseStopNumber(st.Name); e == nil {
			nums = append(nums, n)
			idx = append(idx, i)
		}
	}
	if len(nums) == 0 {
		return nil
	}
	offsets, e := scale.Offsets(nums)
	if e != nil {
		return e
	}
	for j, i := range idx {
		stops[i].Offset = offsets[j]
	}
	return nil
}

type rebinding struct {
	node string
	from string
	to   registry.Record
}

func swapScale(ctx context.Context, env *Env, args Args) (Result, error) {
	pivot := args["pivot"]

	var bound []document.Node
	for _, n := range env.Store.Selection() {
		n.Walk(func(m document.Node) {
			if m.StyleRef != "" {
				bound = append(bound, m)
			}
		})
	}
	if len(bound) == 0 {
		return Result{}, fmt.Errorf("%w: the selection has no nodes bound to a style", scale.ErrEvidenceNotFound)
	}

	var plan []rebinding
	for _, n := range bound {
		rec, ok, e := env.Registry.FindByID(ctx, n.StyleRef)
		if e != nil {
			return Result{}, e
		}
		if !ok {
			env.logger().Warn("bound style not in registry", "node", n.ID, "style", n.StyleRef)
			continue
		}
		to, ok, e := env.Registry.Swap(ctx, rec.Name, pivot)
		if e != nil {
			return Result{}, e
		}
		if !ok {
			env.logger().Warn("no style to swap to", "node", n.ID, "style", rec.Name, "pivot", pivot)
			continue
		}
		plan = append(plan, rebinding{node: n.ID, from: rec.Name, to: to})
	}

	var errs []error
	res := Result{}
	for _, r := range plan {
		if e := env.Store.SetStyleRef(ctx, r.node, r.to.ID); e != nil {
			errs = append(errs, e)
			continue
		}
		env.logger().Debug("swapped style", "node", r.node, "from", r.from, "to", r.to.Name)
		res.Changed++
	}
	res.Message = fmt.Sprintf("swapped %d of %d bound node(s) to %q", res.Changed, len(bound), pivot)
	return res, errors.Join(errs...)
}

// suggestPivot offers every segment used in registry names.
func suggestPivot(ctx context.Context, env *Env, param, query string) []string {
	records, e := env.Registry.Records(ctx)
	if e != nil {
		return nil
	}
	seen := make(map[string]bool)
	var out []string
	for _, rec := range records {
		k, e := registry.Parse(rec.Name)
		if e != nil {
			continue
		}
		for _, seg := range []string{k.Theme, k.Hue, k.Variant} {
			if seg != "" && !seen[seg] {
				seen[seg] = true
				out = append(out, seg)
			}
		}
	}
	sort.Strings(out)
	return out
}
