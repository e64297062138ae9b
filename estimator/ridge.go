package estimator

import (
	"github.com/hscells/sweep/dataset"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Ridge is an L2 regularised linear regression solved with the weighted normal equations. The
// intercept is not regularised.
type Ridge struct {
	Alpha float64

	coef []float64
}

// NewRidge creates a ridge regression with regularisation strength alpha.
func NewRidge(alpha float64) *Ridge {
	return &Ridge{Alpha: alpha}
}

func newRidgeFromArgs(args Args) (Estimator, error) {
	if args.Task == dataset.Classification {
		return nil, errors.New("ridge regression cannot be used for classification")
	}
	alpha, err := floatKwarg(args.Kwargs, "alpha", 1)
	if err != nil {
		return nil, err
	}
	if alpha <= 0 {
		return nil, errors.Errorf("alpha must be positive, got %v", alpha)
	}
	return NewRidge(alpha), nil
}

// Clone returns an unfitted copy.
func (m *Ridge) Clone() Estimator {
	return NewRidge(m.Alpha)
}

// Fit solves for the coefficients.
func (m *Ridge) Fit(X mat.Matrix, y []float64, weights []float64) error {
	if err := check(X, y, weights); err != nil {
		return err
	}
	r, c := X.Dims()
	a := mat.NewDense(c+1, c+1, nil)
	b := mat.NewVecDense(c+1, nil)

	type entry struct {
		j int
		v float64
	}
	row := make([]entry, 0, c+1)
	for i := 0; i < r; i++ {
		row = row[:0]
		eachNonZero(X, i, func(j int, v float64) {
			row = append(row, entry{j, v})
		})
		row = append(row, entry{c, 1})
		g := weight(weights, i)
		for _, p := range row {
			b.SetVec(p.j, b.AtVec(p.j)+g*p.v*y[i])
			for _, q := range row {
				a.Set(p.j, q.j, a.At(p.j, q.j)+g*p.v*q.v)
			}
		}
	}
	for j := 0; j < c; j++ {
		a.Set(j, j, a.At(j, j)+m.Alpha)
	}

	var coef mat.VecDense
	if err := coef.SolveVec(a, b); err != nil {
		return errors.Wrap(err, "solving ridge regression")
	}
	m.coef = make([]float64, c+1)
	for j := range m.coef {
		m.coef[j] = coef.AtVec(j)
	}
	return nil
}

// Predict returns the fitted linear function of each row.
func (m *Ridge) Predict(X mat.Matrix) ([]float64, error) {
	if m.coef == nil {
		return nil, ErrNotFitted
	}
	r, c := X.Dims()
	if c+1 != len(m.coef) {
		return nil, errors.Errorf("fitted on %d features, got %d", len(m.coef)-1, c)
	}
	out := make([]float64, r)
	for i := range out {
		out[i] = m.coef[c]
		eachNonZero(X, i, func(j int, v float64) {
			out[i] += m.coef[j] * v
		})
	}
	return out, nil
}
