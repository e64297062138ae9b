// Package estimator contains the models fitted during a sweep trial. Estimators are small and
// deterministic so that the only difference between a baseline and an experiment is the
// featurization.
package estimator

import (
	"sort"

	"github.com/hscells/sweep/dataset"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

var (
	// ErrUnknown is returned when no estimator is registered under an id.
	ErrUnknown = errors.New("unknown estimator")
	// ErrNotFitted is returned when Predict is called before Fit.
	ErrNotFitted = errors.New("estimator not fitted")
)

// Estimator is a supervised model.
type Estimator interface {
	// Fit trains on X and y. weights may be nil, meaning every row has weight one.
	Fit(X mat.Matrix, y []float64, weights []float64) error
	Predict(X mat.Matrix) ([]float64, error)
	// Clone returns an unfitted estimator with the same parameters.
	Clone() Estimator
}

// Args are the parameters an estimator is built from.
type Args struct {
	Task   dataset.Task
	Seed   int64
	Kwargs map[string]interface{}
}

// Constructor builds an estimator.
type Constructor func(Args) (Estimator, error)

var registry = map[string]Constructor{
	"default":             newDefault,
	"logistic_regression": newLogisticRegressionFromArgs,
	"ridge":               newRidgeFromArgs,
	"prior":               newPriorFromArgs,
}

// Register adds an estimator constructor under id.
func Register(id string, c Constructor) {
	registry[id] = c
}

// Known reports whether an estimator id is registered. The empty id is the default estimator.
func Known(id string) bool {
	_, ok := registry[id]
	return ok || id == ""
}

// IDs lists the registered estimator ids.
func IDs() []string {
	ids := make([]string, 0, len(registry))
	for id := range registry {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// New builds the estimator registered under id.
func New(id string, args Args) (Estimator, error) {
	if id == "" {
		id = "default"
	}
	c, ok := registry[id]
	if !ok {
		return nil, errors.Wrap(ErrUnknown, id)
	}
	e, err := c(args)
	return e, errors.Wrapf(err, "creating estimator %s", id)
}

func newDefault(args Args) (Estimator, error) {
	if args.Task == dataset.Regression {
		return newRidgeFromArgs(args)
	}
	return newLogisticRegressionFromArgs(args)
}

func check(X mat.Matrix, y, weights []float64) error {
	r, _ := X.Dims()
	if r != len(y) {
		return errors.Errorf("%d rows of features but %d labels", r, len(y))
	}
	if weights != nil && len(weights) != len(y) {
		return errors.Errorf("%d weights for %d labels", len(weights), len(y))
	}
	if r == 0 {
		return errors.New("cannot fit on zero rows")
	}
	return nil
}

func weight(weights []float64, i int) float64 {
	if weights == nil {
		return 1
	}
	return weights[i]
}

type rowNonZeroer interface {
	DoRowNonZero(i int, fn func(i, j int, v float64))
}

// eachNonZero calls fn for every non-zero value of row i.
func eachNonZero(X mat.Matrix, i int, fn func(j int, v float64)) {
	switch m := X.(type) {
	case rowNonZeroer:
		m.DoRowNonZero(i, func(_, j int, v float64) { fn(j, v) })
	case mat.RawRowViewer:
		for j, v := range m.RawRowView(i) {
			if v != 0 {
				fn(j, v)
			}
		}
	default:
		_, c := X.Dims()
		for j := 0; j < c; j++ {
			if v := X.At(i, j); v != 0 {
				fn(j, v)
			}
		}
	}
}

func floatKwarg(kwargs map[string]interface{}, key string, def float64) (float64, error) {
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
