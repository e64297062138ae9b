package sampler

import (
	"sort"

	"github.com/hscells/sweep/dataset"
	"github.com/pkg/errors"
)

// Args are the parameters a sampler is built from. Positional arguments are matched to the
// parameter names of the sampler in order; keyword arguments take precedence.
type Args struct {
	Seed   int64
	Task   dataset.Task
	Args   []interface{}
	Kwargs map[string]interface{}
}

// Constructor builds a sampler from its arguments.
type Constructor func(Args) (Sampler, error)

var registry = map[string]Constructor{
	"count": newCountSamplerFromArgs,
}

var countSamplerParams = []string{"min_examples_per_class", "max_rows", "is_constraint_driven", "train_frac"}

// Register adds a sampler constructor under id.
func Register(id string, c Constructor) {
	registry[id] = c
}

// Known reports whether a sampler id is registered.
func Known(id string) bool {
	_, ok := registry[id]
	return ok
}

// IDs lists the registered sampler ids.
func IDs() []string {
	ids := make([]string, 0, len(registry))
	for id := range registry {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// New builds the sampler registered under id.
func New(id string, args Args) (Sampler, error) {
	c, ok := registry[id]
	if !ok {
		return nil, errors.Wrapf(ErrConfiguration, "unknown sampler %q", id)
	}
	return c(args)
}

func (a Args) lookup(params []string) map[string]interface{} {
	m := make(map[string]interface{}, len(params))
	for i, v := range a.Args {
		if i < len(params) {
			m[params[i]] = v
		}
	}
	for k, v := range a.Kwargs {
		m[k] = v
	}
	return m
}

func newCountSamplerFromArgs(a Args) (Sampler, error) {
	m := a.lookup(countSamplerParams)
	minExamples, err := intParam(m, "min_examples_per_class", 0)
	if err != nil {
		return nil, err
	}
	maxRows, err := intParam(m, "max_rows", 0)
	if err != nil {
		return nil, err
	}
	constraint := true
	if v, ok := m["is_constraint_driven"]; ok {
		b, ok := v.(bool)
		if !ok {
			return nil, errors.Wrapf(ErrConfiguration, "is_constraint_driven must be a bool, got %T", v)
		}
		constraint = b
	}
	var options []CountSamplerOption
	if v, ok := m["train_frac"]; ok && v != nil {
		f, err := floatParam(v)
		if err != nil {
			return nil, err
		}
		options = append(options, TrainFrac(f))
	}
	return NewCountSampler(a.Seed, minExamples, maxRows, constraint, a.Task, options...)
}

func intParam(m map[string]interface{}, key string, def int) (int, error) {
	v, ok := m[key]
	if !ok || v == nil {
		return def, nil
	}
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case float64:
		return int(n), nil
	}
	return 0, errors.Wrapf(ErrConfiguration, "%s must be a number, got %T", key, v)
}

func floatParam(v interface{}) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	}
	return 0, errors.Wrapf(ErrConfiguration, "train_frac must be a number, got %T", v)
}
