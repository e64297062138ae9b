// Package featurize turns raw columns into numeric feature matrices. Featurizers are created by
// id from a registry so that sweeper configurations can refer to them by name.
package featurize

import (
	"sort"

	"github.com/hscells/sweep/purpose"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

var (
	// ErrBlocked is returned when a featurizer has been blocked by the featurization config.
	ErrBlocked = errors.New("featurizer blocked")
	// ErrUnknown is returned when no featurizer is registered under an id.
	ErrUnknown = errors.New("unknown featurizer")
	// ErrNotFitted is returned when Transform is called before Fit.
	ErrNotFitted = errors.New("featurizer not fitted")
)

// Transformer is a fittable transform over a single column of raw values.
type Transformer interface {
	// Fit learns the transform from the training values. y holds the training labels.
	Fit(values []string, y []float64) error
	// Transform featurizes values, producing one row per value.
	Transform(values []string) (mat.Matrix, error)
}

// Spec names a featurizer and its arguments.
type Spec struct {
	ID     string                 `json:"id" yaml:"id"`
	Kwargs map[string]interface{} `json:"kwargs,omitempty" yaml:"kwargs,omitempty"`
}

// Config is the featurization configuration shared by every featurizer in a sweep.
type Config struct {
	// BlockedTransformers lists featurizer ids that must not be used.
	BlockedTransformers []string
	// DatasetLanguage is the ISO 639-3 language of text columns, for language aware featurizers.
	DatasetLanguage string
}

// Blocked reports whether the featurizer id is blocked.
func (c Config) Blocked(id string) bool {
	for _, b := range c.BlockedTransformers {
		if b == id {
			return true
		}
	}
	return false
}

// Constructor builds a featurizer from its keyword arguments.
type Constructor func(kwargs map[string]interface{}) (Transformer, error)

var registry = map[string]Constructor{
	"one_hot":         newOneHot,
	"hash_words":      newWordHasher,
	"hash_chars":      newCharHasher,
	"text_stats":      newTextStats,
	"text_embedding":  newTextEmbedding,
	"numeric":         newNumeric,
	"target_encoding": newTargetEncoder,
}

// Register adds a featurizer constructor under id, replacing any existing one.
func Register(id string, c Constructor) {
	registry[id] = c
}

// Known reports whether a featurizer is registered under id.
func Known(id string) bool {
	_, ok := registry[id]
	return ok
}

// IDs lists the registered featurizer ids.
func IDs() []string {
	ids := make([]string, 0, len(registry))
	for id := range registry {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// New creates the featurizer described by spec.
func New(spec Spec, config Config) (Transformer, error) {
	if config.Blocked(spec.ID) {
		return nil, errors.Wrap(ErrBlocked, spec.ID)
	}
	c, ok := registry[spec.ID]
	if !ok {
		return nil, errors.Wrap(ErrUnknown, spec.ID)
	}
	kwargs := make(map[string]interface{}, len(spec.Kwargs)+1)
	for k, v := range spec.Kwargs {
		kwargs[k] = v
	}
	if _, ok := kwargs["language"]; !ok && config.DatasetLanguage != "" {
		kwargs["language"] = config.DatasetLanguage
	}
	t, err := c(kwargs)
	return t, errors.Wrapf(err, "creating featurizer %s", spec.ID)
}

// Check verifies that every spec can be created under config without building anything.
func Check(specs []Spec, config Config) error {
	for _, s := range specs {
		if config.Blocked(s.ID) {
			return errors.Wrap(ErrBlocked, s.ID)
		}
		if !Known(s.ID) {
			return errors.Wrap(ErrUnknown, s.ID)
		}
	}
	return nil
}

// DefaultSpecs is the featurization given to a column of the given purpose when no explicit
// featurizers are configured. Columns that carry no signal get none.
func DefaultSpecs(p purpose.Purpose) []Spec {
	switch p {
	case purpose.Numeric:
		return []Spec{{ID: "numeric"}}
	case purpose.Categorical:
		return []Spec{{ID: "one_hot"}}
	case purpose.CategoricalHash, purpose.Text:
		return []Spec{{ID: "hash_words"}}
	}
	return nil
}

func intArg(kwargs map[string]interface{}, key string, def int) (int, error) {
	v, ok := kwargs[key]
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
	return 0, errors.Errorf("%s must be a number, got %T", key, v)
}

func floatArg(kwargs map[string]interface{}, key string, def float64) (float64, error) {
	v, ok := kwargs[key]
	if !ok || v == nil {
		return def, nil
	}
	switch n := v.(type) {
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	}
	return 0, errors.Errorf("%s must be a number, got %T", key, v)
}

func boolArg(kwargs map[string]interface{}, key string, def bool) (bool, error) {
	v, ok := kwargs[key]
	if !ok || v == nil {
		return def, nil
	}
	b, ok := v.(bool)
	if !ok {
		return false, errors.Errorf("%s must be a boolean, got %T", key, v)
	}
	return b, nil
}

func stringArg(kwargs map[string]interface{}, key string, def string) string {
	if s, ok := kwargs[key].(string); ok && s != "" {
		return s
	}
	return def
}
