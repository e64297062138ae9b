package estimator

import (
	"github.com/hscells/sweep/dataset"
	"gonum.org/v1/gonum/mat"
)

// Prior ignores the features and predicts the weighted majority class for classification or
// the weighted mean for regression.
type Prior struct {
	Task dataset.Task

	fitted     bool
	prediction float64
}

func newPriorFromArgs(args Args) (Estimator, error) {
	return &Prior{Task: args.Task}, nil
}

// Clone returns an unfitted copy.
func (m *Prior) Clone() Estimator {
	return &Prior{Task: m.Task}
}

// Fit records the label prior.
func (m *Prior) Fit(X mat.Matrix, y []float64, weights []float64) error {
	if err := check(X, y, weights); err != nil {
		return err
	}
	if m.Task == dataset.Regression {
		var sum, total float64
		for i, v := range y {
			sum += weight(weights, i) * v
			total += weight(weights, i)
		}
		m.prediction = sum / total
	} else {
		counts := make(map[float64]float64)
		for i, v := range y {
			counts[v] += weight(weights, i)
		}
		best := -1.0
		for _, c := range dataset.Classes(y) {
			if counts[c] > best {
				best, m.prediction = counts[c], c
			}
		}
	}
	m.fitted = true
	return nil
}

// Predict returns the prior for every row.
func (m *Prior) Predict(X mat.Matrix) ([]float64, error) {
	if !m.fitted {
		return nil, ErrNotFitted
	}
	r, _ := X.Dims()
	out := make([]float64, r)
	for i := range out {
		out[i] = m.prediction
	}
	return out, nil
}
