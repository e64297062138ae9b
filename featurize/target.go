package featurize

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// targetEncoder replaces each category with the smoothed mean label of its training rows.
// Rare categories shrink towards the global mean.
type targetEncoder struct {
	smoothing float64
	prior     float64
	encoding  map[string]float64
}

func newTargetEncoder(kwargs map[string]interface{}) (Transformer, error) {
	s, err := floatArg(kwargs, "smoothing", 10)
	if err != nil {
		return nil, err
	}
	if s < 0 {
		return nil, errors.Errorf("smoothing must not be negative, got %v", s)
	}
	return &targetEncoder{smoothing: s}, nil
}

func (t *targetEncoder) Fit(values []string, y []float64) error {
	if len(values) != len(y) {
		return errors.Errorf("target encoding needs one label per value, got %d values and %d labels", len(values), len(y))
	}
	if len(y) == 0 {
		return errors.New("target encoding needs at least one labelled row")
	}
	t.prior = floats.Sum(y) / float64(len(y))
	sums := make(map[string]float64)
	counts := make(map[string]float64)
	for i, v := range values {
		sums[v] += y[i]
		counts[v]++
	}
	t.encoding = make(map[string]float64, len(sums))
	for v, sum := range sums {
		t.encoding[v] = (sum + t.smoothing*t.prior) / (counts[v] + t.smoothing)
	}
	return nil
}

func (t *targetEncoder) Transform(values []string) (mat.Matrix, error) {
	if t.encoding == nil {
		return nil, ErrNotFitted
	}
	if len(values) == 0 {
		return empty(1), nil
	}
	m := mat.NewDense(len(values), 1, nil)
	for i, v := range values {
		e, ok := t.encoding[v]
		if !ok {
			e = t.prior
		}
		m.Set(i, 0, e)
	}
	return m, nil
}
