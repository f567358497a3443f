// Package scalesync writes a scale's stops into the style registry and binds
// every document element that displays the scale to the written records.
//
// Deriving a scale is strict: any validation error aborts before a write.
// Binding is lenient: each consumer is bound independently, missing or
// unrecognized stops are reported as BindingFailures, and a failing consumer
// does not stop the others. Nothing is rolled back.
package scalesync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/mmuldo/scaler/document"
	"github.com/mmuldo/scaler/logger"
	"github.com/mmuldo/scaler/registry"
	"github.com/mmuldo/scaler/scale"
)

// DefaultElement is the name of the stop element bound to the DEFAULT variant.
const DefaultElement = "$default"

// BindingFailure is a consumer element that could not be bound.
type BindingFailure struct {
	Consumer string
	Element  string
	Reason   string
}

func (f BindingFailure) Error() string {
	if f.Element == "" {
		return fmt.Sprintf("%s: %s", f.Consumer, f.Reason)
	}
	return fmt.Sprintf("%s/%s: %s", f.Consumer, f.Element, f.Reason)
}

// Report summarizes a Sync or Rebind.
type Report struct {
	Created   int
	Updated   int
	Unchanged int
	Consumers int
	Bound     int
	Failures  []BindingFailure
}

func (r *Report) count(c registry.Change) {
	switch c {
	case registry.Created:
		r.Created++
	case registry.Updated:
		r.Updated++
	default:
		r.Unchanged++
	}
}

func (r *Report) merge(o Report) {
	r.Consumers += o.Consumers
	r.Bound += o.Bound
	r.Failures = append(r.Failures, o.Failures...)
}

// Synchronizer binds scales between a document and a registry.
type Synchronizer struct {
	store document.Store
	reg   *registry.Registry
	log   *slog.Logger
}

// New returns a Synchronizer. A nil log uses the default logger.
func New(store document.Store, reg *registry.Registry, log *slog.Logger) *Synchronizer {
	if log == nil {
		log = logger.ForComponent("scalesync")
	}
	return &Synchronizer{store: store, reg: reg, log: log}
}

// Sync upserts every stop of s and binds the scale's consumers to the
// resulting records.
func (s *Synchronizer) Sync(ctx context.Context, sc scale.Scale) (Report, error) {
	if e := sc.Validate(); e != nil {
		return Report{}, e
	}

	var rep Report
	records := make(map[string]registry.Record, len(sc.Stops))
	for _, st := range sc.Stops {
		rec, change, e := s.reg.UpsertKey(ctx, key(sc, st.Name), st.Color)
		if e != nil {
			return rep, fmt.Errorf("upsert %s: %w", key(sc, st.Name), e)
		}
		rep.count(change)
		records[st.Name] = rec
	}

	bound, e := s.bind(ctx, sc, records)
	rep.merge(bound)
	return rep, e
}

// Rebind binds the consumers of s to records already in the registry,
// without writing any record.
func (s *Synchronizer) Rebind(ctx context.Context, sc scale.Scale) (Report, error) {
	if e := sc.Validate(); e != nil {
		return Report{}, e
	}

	records := make(map[string]registry.Record, len(sc.Stops))
	for _, st := range sc.Stops {
		rec, ok, e := s.reg.FindByKey(ctx, key(sc, st.Name))
		if e != nil {
			return Report{}, e
		}
		if ok {
			records[st.Name] = rec
		}
	}
	return s.bind(ctx, sc, records)
}

func key(sc scale.Scale, variant string) registry.Key {
	return registry.Key{Theme: sc.Theme, Hue: sc.Name, Variant: variant}
}

// Consumers returns the visible nodes whose declarative name matches id.
func Consumers(store document.Store, id scale.Identity) []document.Node {
	return store.Find(func(n document.Node) bool {
		if !n.Visible() {
			return false
		}
		got, e := scale.ParseName(n.Name)
		return e == nil && got.Matches(id)
	})
}

// StopElement is a child of a scale node that displays one stop.
type StopElement struct {
	document.Node
	// Variant is the registry variant the element binds to.
	Variant string
}

// StopElements returns the children of n that display stops: those with a
// solid fill or a style reference. Text children, gradients and `$` control
// elements other than `$default` are skipped.
func StopElements(n document.Node) []StopElement {
	var out []StopElement
	for _, c := range n.Children {
		name := c.TrimmedName()
		if c.Type == document.Text || (c.Fill == nil && c.StyleRef == "") {
			continue
		}
		if c.Fill != nil && c.Fill.Type != document.Solid {
			continue
		}
		switch {
		case name == DefaultElement:
			out = append(out, StopElement{Node: c, Variant: scale.DefaultVariant})
		case strings.HasPrefix(name, "$"):
			// control element
		default:
			out = append(out, StopElement{Node: c, Variant: name})
		}
	}
	return out
}

func (s *Synchronizer) bind(ctx context.Context, sc scale.Scale, records map[string]registry.Record) (Report, error) {
	consumers := Consumers(s.store, sc.Identity())

	reports := make([]Report, len(consumers))
	e := fanOut(len(consumers), func(i int) error {
		var e error
		reports[i], e = s.bindConsumer(ctx, sc, consumers[i], records)
		return e
	})

	var rep Report
	for _, r := range reports {
		rep.merge(r)
	}
	for _, f := range rep.Failures {
		s.log.Warn("binding failure", "scale", sc.Name, "theme", sc.Theme, "consumer", f.Consumer, "element", f.Element, "reason", f.Reason)
	}
	return rep, e
}

func (s *Synchronizer) bindConsumer(ctx context.Context, sc scale.Scale, consumer document.Node, records map[string]registry.Record) (Report, error) {
	rep := Report{Consumers: 1}
	fail := func(element, format string, args ...interface{}) {
		rep.Failures = append(rep.Failures, BindingFailure{
			Consumer: consumer.TrimmedName(),
			Element:  element,
			Reason:   fmt.Sprintf(format, args...),
		})
	}

	stops := make(map[string]bool, len(sc.Stops))
	for _, st := range sc.Stops {
		stops[st.Name] = true
	}

	elements := StopElements(consumer)
	present := make(map[string]bool, len(elements))
	var errs []error
	for _, el := range elements {
		present[el.Variant] = true
		if el.Variant == scale.DefaultVariant && !stops[el.Variant] {
			continue
		}
		if el.Variant != scale.DefaultVariant && !scale.IsStopName(el.Variant) {
			fail(el.Variant, "not a stop name")
			continue
		}
		rec, ok := records[el.Variant]
		if !ok {
			fail(el.Variant, "no registry record")
			continue
		}
		if e := s.store.SetStyleRef(ctx, el.ID, rec.ID); e != nil {
			errs = append(errs, fmt.Errorf("bind %s/%s: %w", consumer.TrimmedName(), el.Variant, e))
			continue
		}
		rep.Bound++
		if e := s.label(ctx, el.Node, rec); e != nil {
			errs = append(errs, e)
		}
	}

	for _, st := range sc.Stops {
		if !present[st.Name] {
			fail(st.Name, "stop missing from consumer")
		}
	}
	return rep, errors.Join(errs...)
}

// label writes the record's color into the text children of el, loading
// each font before its text is changed.
func (s *Synchronizer) label(ctx context.Context, el document.Node, rec registry.Record) error {
	var texts []document.Node
	for _, c := range el.Children {
		if c.Type == document.Text {
			texts = append(texts, c)
		}
	}
	return fanOut(len(texts), func(i int) error {
		if e := s.store.LoadFont(ctx, texts[i].FontFamily); e != nil {
			return fmt.Errorf("label %s: %w", rec.Name, e)
		}
		return s.store.SetText(ctx, texts[i].ID, rec.Color.Hex())
	})
}

// fanOut runs fn for 0 <= i < n concurrently and waits for every call.
// A failure does not cancel the others; all errors are joined.
func fanOut(n int, fn func(i int) error) error {
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = fn(i)
		}(i)
	}
	wg.Wait()
	return errors.Join(errs...)
}
