// Package command is the table of user-facing commands. Each command reads
// evidence from a document, validates all of it, and only then writes to the
// registry and the document.
package command

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/mmuldo/scaler/document"
	"github.com/mmuldo/scaler/logger"
	"github.com/mmuldo/scaler/registry"
	"github.com/mmuldo/scaler/scale"
	"github.com/mmuldo/scaler/scalesync"
)

// ErrInvalidParameter is returned for unknown commands, parameters or values.
var ErrInvalidParameter = errors.New("invalid parameter")

// Param describes one named command parameter.
type Param struct {
	Name string `json:"name"`
	// Values lists the accepted values; empty means free text.
	Values  []string `json:"values,omitempty"`
	Default string   `json:"default,omitempty"`
}

// Args are the named arguments of one command run.
type Args map[string]string

// Env is what a command runs against.
type Env struct {
	Store     document.Store
	Registry  *registry.Registry
	Reference scale.Reference
	Log       *slog.Logger
	// Persist, if set, is called after every run that reached Execute.
	Persist func() error
}

func (env *Env) logger() *slog.Logger {
	if env.Log == nil {
		return logger.ForComponent("command")
	}
	return env.Log
}

func (env *Env) sync() *scalesync.Synchronizer {
	return scalesync.New(env.Store, env.Registry, env.logger())
}

// Result is what a command did.
type Result struct {
	Message string
	Scales  []scale.Scale
	Report  scalesync.Report
	// Changed counts document nodes written directly by the command.
	Changed int
}

// Descriptor is one entry of the command table.
type Descriptor struct {
	Name    string
	Summary string
	Params  []Param
	Execute func(ctx context.Context, env *Env, args Args) (Result, error)
	// Suggest, if set, completes free-text parameters.
	Suggest func(ctx context.Context, env *Env, param, query string) []string
}

func (d Descriptor) param(name string) (Param, bool) {
	for _, p := range d.Params {
		if p.Name == name {
			return p, true
		}
	}
	return Param{}, false
}

// resolve checks args against the descriptor and fills in defaults.
func (d Descriptor) resolve(args Args) (Args, error) {
	out := make(Args, len(d.Params))
	for k := range args {
		if _, ok := d.param(k); !ok {
			return nil, fmt.Errorf("%w: %s has no parameter %q", ErrInvalidParameter, d.Name, k)
		}
	}
	for _, p := range d.Params {
		v, ok := args[p.Name]
		v = strings.TrimSpace(v)
		if !ok || v == "" {
			v = p.Default
		}
		if v == "" {
			return nil, fmt.Errorf("%w: %s requires %q", ErrInvalidParameter, d.Name, p.Name)
		}
		if len(p.Values) > 0 && !contains(p.Values, v) {
			return nil, fmt.Errorf("%w: %s=%q (want one of %s)", ErrInvalidParameter, p.Name, v, strings.Join(p.Values, ", "))
		}
		out[p.Name] = v
	}
	return out, nil
}

func contains(vs []string, v string) bool {
	for _, x := range vs {
		if x == v {
			return true
		}
	}
	return false
}

var table = map[string]Descriptor{}

func register(d Descriptor) {
	if _, dup := table[d.Name]; dup {
		panic("command: duplicate " + d.Name)
	}
	table[d.Name] = d
}

// Lookup returns the descriptor named exactly name.
func Lookup(name string) (Descriptor, bool) {
	d, ok := table[name]
	return d, ok
}

// Commands returns the command table sorted by name.
func Commands() []Descriptor {
	out := make([]Descriptor, 0, len(table))
	for _, d := range table {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Run executes the named command. Parameters are checked before Execute
// is called, so an invalid run writes nothing.
func Run(ctx context.Context, env *Env, name string, args Args) (Result, error) {
	d, ok := Lookup(name)
	if !ok {
		return Result{}, fmt.Errorf("%w: unknown command %q", ErrInvalidParameter, name)
	}
	resolved, e := d.resolve(args)
	if e != nil {
		return Result{}, e
	}

	log := env.logger().With("command", name)
	log.Info("command started", "args", resolved)
	start := time.Now()

	res, e := d.Execute(ctx, env, resolved)
	if env.Persist != nil {
		if pe := env.Persist(); pe != nil {
			e = errors.Join(e, fmt.Errorf("persist: %w", pe))
		}
	}

	if e != nil {
		log.Error("command failed", "error", e, "elapsed", time.Since(start))
		return res, e
	}
	log.Info("command finished", "result", res.Message, "elapsed", time.Since(start))
	return res, nil
}

// Suggest completes a value for the named parameter of command name.
func Suggest(ctx context.Context, env *Env, name, param, query string) ([]string, error) {
	d, ok := Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: unknown command %q", ErrInvalidParameter, name)
	}
	p, ok := d.param(param)
	if !ok {
		return nil, fmt.Errorf("%w: %s has no parameter %q", ErrInvalidParameter, name, param)
	}

	candidates := p.Values
	if len(candidates) == 0 && d.Suggest != nil {
		candidates = d.Suggest(ctx, env, param, query)
	}

	query = strings.ToLower(strings.TrimSpace(query))
	var out []string
	for _, c := range candidates {
		if strings.HasPrefix(strings.ToLower(c), query) {
			out = append(out, c)
		}
	}
	return out, nil
}
