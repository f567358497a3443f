// Package registry keeps named color styles in sync with scale evidence.
//
// Style names are hierarchical, `[theme/]hue/variant`. Lookups compare names
// structurally: whitespace around separators is ignored and segments are
// compared in NFC form. Names are never turned into match patterns.
package registry

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mmuldo/scaler/logger"
	"github.com/mmuldo/scaler/palette"
)

// Change describes what Upsert did.
type Change int

const (
	Unchanged Change = iota
	Created
	Updated
)

func (c Change) String() string {
	switch c {
	case Created:
		return "created"
	case Updated:
		return "updated"
	default:
		return "unchanged"
	}
}

// Registry wraps a Repository with structural name handling.
type Registry struct {
	repo Repository
	log  *slog.Logger
}

// New returns a Registry over repo. A nil log uses the default logger.
func New(repo Repository, log *slog.Logger) *Registry {
	if log == nil {
		log = logger.ForComponent("registry")
	}
	return &Registry{repo: repo, log: log}
}

// Records returns every record in repository order.
func (r *Registry) Records(ctx context.Context) ([]Record, error) {
	return r.repo.FindAll(ctx)
}

// Upsert writes c under name. An existing record whose normalized name
// matches is updated in place (keeping its ID); otherwise a record is
// created under the canonical name. Repeating a call changes nothing.
func (r *Registry) Upsert(ctx context.Context, name string, c palette.RGB) (Record, Change, error) {
	if _, e := Parse(name); e != nil {
		return Record{}, Unchanged, e
	}
	canonical := Normalize(name)

	existing, found, e := r.findNormalized(ctx, canonical)
	if e != nil {
		return Record{}, Unchanged, e
	}

	if !found {
		rec, e := r.repo.Create(ctx, canonical, c)
		if e != nil {
			return Record{}, Unchanged, e
		}
		r.log.Debug("style created", "name", canonical, "color", c.Hex())
		return rec, Created, nil
	}

	if existing.Name == canonical && existing.Color == c {
		return existing, Unchanged, nil
	}

	existing.Name = canonical
	existing.Color = c
	if e := r.repo.Update(ctx, existing); e != nil {
		return Record{}, Unchanged, e
	}
	r.log.Debug("style updated", "name", canonical, "color", c.Hex())
	return existing, Updated, nil
}

// UpsertKey is Upsert under the canonical name of k.
func (r *Registry) UpsertKey(ctx context.Context, k Key, c palette.RGB) (Record, Change, error) {
	return r.Upsert(ctx, k.String(), c)
}

// FindByName finds a record whose normalized name equals name's.
func (r *Registry) FindByName(ctx context.Context, name string) (Record, bool, error) {
	if rec, ok, e := r.repo.FindByName(ctx, Normalize(name)); e != nil || ok {
		return rec, ok, e
	}
	return r.findNormalized(ctx, Normalize(name))
}

func (r *Registry) findNormalized(ctx context.Context, canonical string) (Record, bool, error) {
	all, e := r.repo.FindAll(ctx)
	if e != nil {
		return Record{}, false, e
	}
	for _, rec := range all {
		if Normalize(rec.Name) == canonical {
			return rec, true, nil
		}
	}
	return Record{}, false, nil
}

// FindByKey finds the record whose parsed name equals k exactly.
func (r *Registry) FindByKey(ctx context.Context, k Key) (Record, bool, error) {
	want, e := Parse(k.String())
	if e != nil {
		return Record{}, false, e
	}

	all, e := r.repo.FindAll(ctx)
	if e != nil {
		return Record{}, false, e
	}
	for _, rec := range all {
		got, e := Parse(rec.Name)
		if e != nil {
			continue
		}
		if got == want {
			return rec, true, nil
		}
	}
	return Record{}, false, nil
}

// FindByID finds a record by its repository ID.
func (r *Registry) FindByID(ctx context.Context, id string) (Record, bool, error) {
	all, e := r.repo.FindAll(ctx)
	if e != nil {
		return Record{}, false, e
	}
	for _, rec := range all {
		if rec.ID == id {
			return rec, true, nil
		}
	}
	return Record{}, false, nil
}

// Variants returns the records belonging to the hue scale in theme, keyed by variant.
func (r *Registry) Variants(ctx context.Context, theme, hue string) (map[string]Record, error) {
	all, e := r.repo.FindAll(ctx)
	if e != nil {
		return nil, e
	}
	if Normalize(hue) == "" {
		return nil, fmt.Errorf("%w: empty hue", ErrMalformedName)
	}

	out := make(map[string]Record)
	for _, rec := range all {
		k, e := Parse(rec.Name)
		if e != nil {
			continue
		}
		if k.Theme == Normalize(theme) && k.Hue == Normalize(hue) {
			out[k.Variant] = rec
		}
	}
	return out, nil
}

// Swap finds the first existing record named like name with one segment
// replaced by pivot, trying the right-most segment first.
func (r *Registry) Swap(ctx context.Context, name, pivot string) (Record, bool, error) {
	for _, candidate := range Swaps(name, pivot) {
		rec, ok, e := r.findNormalized(ctx, candidate)
		if e != nil || ok {
			return rec, ok, e
		}
	}
	return Record{}, false, nil
}
