package document

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/mmuldo/scaler/gradient"
	"github.com/mmuldo/scaler/palette"
)

// Contents is the on-disk form of a document.
type Contents struct {
	// Fonts lists the font families the document can load.
	Fonts     []string `json:"fonts,omitempty"`
	Selection []string `json:"selection,omitempty"`
	Nodes     []Node   `json:"nodes"`
}

// File is a Store kept in memory and persisted as JSON.
type File struct {
	mu     sync.Mutex
	path   string
	data   Contents
	loaded map[string]bool
	dirty  bool
}

// New returns an in-memory document. Save is a no-op until SetPath is called.
func New(c Contents) *File {
	return &File{data: cloneContents(c), loaded: make(map[string]bool)}
}

// Load reads the document at path.
func Load(path string) (*File, error) {
	b, e := os.ReadFile(path)
	if e != nil {
		return nil, e
	}
	var c Contents
	if e := json.Unmarshal(b, &c); e != nil {
		return nil, fmt.Errorf("parse document %s: %w", path, e)
	}
	f := New(c)
	f.path = path
	return f, nil
}

// Path returns the file the document is saved to.
func (f *File) Path() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.path
}

// SetPath sets the file the document is saved to.
func (f *File) SetPath(path string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.path = path
	f.dirty = true
}

// Dirty reports whether the document changed since it was loaded or saved.
func (f *File) Dirty() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.dirty
}

// Contents returns a copy of the whole document.
func (f *File) Contents() Contents {
	f.mu.Lock()
	defer f.mu.Unlock()
	return cloneContents(f.data)
}

// Save writes the document if it changed. Unchanged documents are not
// rewritten, so watchers of the file do not see spurious writes.
func (f *File) Save() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.dirty || f.path == "" {
		return nil
	}

	b, e := json.MarshalIndent(f.data, "", "  ")
	if e != nil {
		return e
	}
	b = append(b, '\n')

	if old, e := os.ReadFile(f.path); e == nil && bytes.Equal(old, b) {
		f.dirty = false
		return nil
	}

	tmp := f.path + ".tmp"
	if e := os.WriteFile(tmp, b, 0644); e != nil {
		return e
	}
	if e := os.Rename(tmp, f.path); e != nil {
		return e
	}
	f.dirty = false
	return nil
}

// Select replaces the selection.
func (f *File) Select(ids ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data.Selection = append([]string(nil), ids...)
}

func (f *File) Find(pred func(Node) bool) []Node {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []Node
	for _, n := range f.data.Nodes {
		n.Walk(func(m Node) {
			if pred(m) {
				out = append(out, clone(m))
			}
		})
	}
	return out
}

func (f *File) Selection() []Node {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []Node
	for _, id := range f.data.Selection {
		if n := f.lookup(id); n != nil {
			out = append(out, clone(*n))
		}
	}
	return out
}

func (f *File) SetColor(ctx context.Context, id string, c palette.RGB) error {
	return f.update(id, func(n *Node) error {
		if n.Fill != nil && n.Fill.Type == Solid && n.Fill.Color == c && n.StyleRef == "" {
			return errUnchanged
		}
		n.Fill = &Paint{Type: Solid, Color: c}
		n.StyleRef = ""
		return nil
	})
}

func (f *File) SetGradient(ctx context.Context, id string, stops []gradient.Stop) error {
	if _, e := gradient.New(stops); e != nil {
		return e
	}
	return f.update(id, func(n *Node) error {
		n.Fill = &Paint{Type: GradientLinear, Stops: append([]gradient.Stop(nil), stops...)}
		n.StyleRef = ""
		return nil
	})
}

func (f *File) SetStyleRef(ctx context.Context, id, recordID string) error {
	return f.update(id, func(n *Node) error {
		if n.StyleRef == recordID {
			return errUnchanged
		}
		n.StyleRef = recordID
		return nil
	})
}

func (f *File) LoadFont(ctx context.Context, family string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, known := range f.data.Fonts {
		if known == family {
			f.loaded[family] = true
			return nil
		}
	}
	return fmt.Errorf("font %q is not available", family)
}

func (f *File) SetText(ctx context.Context, id, text string) error {
	return f.update(id, func(n *Node) error {
		if n.Type != Text {
			return fmt.Errorf("node %s is not a text node", id)
		}
		if !f.loaded[n.FontFamily] {
			return fmt.Errorf("%w: %q", ErrFontNotLoaded, n.FontFamily)
		}
		if n.Characters == text {
			return errUnchanged
		}
		n.Characters = text
		return nil
	})
}

var errUnchanged = fmt.Errorf("unchanged")

// update applies fn to the node id under the lock. fn returns errUnchanged
// to leave the document clean.
func (f *File) update(id string, fn func(*Node) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	n := f.lookup(id)
	if n == nil {
		return fmt.Errorf("%w: %s", ErrNodeNotFound, id)
	}
	switch e := fn(n); e {
	case nil:
		f.dirty = true
		return nil
	case errUnchanged:
		return nil
	default:
		return e
	}
}

func (f *File) lookup(id string) *Node {
	var find func(ns []Node) *Node
	find = func(ns []Node) *Node {
		for i := range ns {
			if ns[i].ID == id {
				return &ns[i]
			}
			if n := find(ns[i].Children); n != nil {
				return n
			}
		}
		return nil
	}
	return find(f.data.Nodes)
}

func cloneContents(c Contents) Contents {
	out := Contents{
		Fonts:     append([]string(nil), c.Fonts...),
		Selection: append([]string(nil), c.Selection...),
		Nodes:     make([]Node, len(c.Nodes)),
	}
	for i, n := range c.Nodes {
		out.Nodes[i] = clone(n)
	}
	return out
}
