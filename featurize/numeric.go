package featurize

import (
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// numeric parses values as numbers, imputes missing values with the training mean and
// standardises. A second column flags imputed values.
type numeric struct {
	fitted    bool
	mean, std float64
}

func newNumeric(map[string]interface{}) (Transformer, error) {
	return &numeric{}, nil
}

func parse(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func (n *numeric) Fit(values []string, _ []float64) error {
	var xs []float64
	for _, v := range values {
		if f, ok := parse(v); ok {
			xs = append(xs, f)
		}
	}
	if len(values) > 0 && len(xs) == 0 {
		return errors.New("column has no numeric values")
	}
	n.mean, n.std = meanStd(xs)
	n.fitted = true
	return nil
}

func (n *numeric) Transform(values []string) (mat.Matrix, error) {
	if !n.fitted {
		return nil, ErrNotFitted
	}
	if len(values) == 0 {
		return empty(2), nil
	}
	m := mat.NewDense(len(values), 2, nil)
	for i, v := range values {
		f, ok := parse(v)
		if !ok {
			m.Set(i, 1, 1)
			continue
		}
		m.Set(i, 0, (f-n.mean)/n.std)
	}
	return m, nil
}
