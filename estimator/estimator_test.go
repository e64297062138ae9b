package estimator_test

import (
	"testing"

	"github.com/hscells/sweep/dataset"
	"github.com/hscells/sweep/estimator"
	"github.com/hscells/sweep/featurize"
	"github.com/hscells/sweep/metric"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

// separable has class 1 exactly when the first feature is positive.
func separable() (*mat.Dense, []float64) {
	n := 60
	X := mat.NewDense(n, 2, nil)
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		x := float64(i%10) - 4.5
		X.Set(i, 0, x)
		X.Set(i, 1, float64(i%3))
		if x > 0 {
			y[i] = 1
		}
	}
	return X, y
}

func TestLogisticRegressionSeparable(t *testing.T) {
	X, y := separable()
	m := estimator.NewLogisticRegression(1)
	require.NoError(t, m.Fit(X, y, nil))

	p, err := m.Predict(X)
	require.NoError(t, err)
	assert.Equal(t, 1.0, metric.Accuracy.Score(y, p))

	// The same rows stored sparsely give the same predictions.
	rows := make([]map[int]float64, 60)
	for i := range rows {
		rows[i] = map[int]float64{0: X.At(i, 0), 1: X.At(i, 1)}
	}
	q, err := m.Predict(featurize.NewSparse(2, rows))
	require.NoError(t, err)
	assert.Equal(t, p, q)
}

func TestLogisticRegressionDeterministic(t *testing.T) {
	X, y := separable()
	a, b := estimator.NewLogisticRegression(7), estimator.NewLogisticRegression(7)
	require.NoError(t, a.Fit(X, y, nil))
	require.NoError(t, b.Fit(X, y, nil))
	pa, _ := a.Predict(X)
	pb, _ := b.Predict(X)
	assert.Equal(t, pa, pb)
}

func TestCloneIsUnfitted(t *testing.T) {
	X, y := separable()
	m := estimator.NewLogisticRegression(1)
	require.NoError(t, m.Fit(X, y, nil))

	c := m.Clone()
	_, err := c.Predict(X)
	assert.True(t, errors.Is(err, estimator.ErrNotFitted))
	assert.Equal(t, m.Epochs, c.(*estimator.LogisticRegression).Epochs)
}

func TestRidge(t *testing.T) {
	n := 20
	X := mat.NewDense(n, 1, nil)
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		X.Set(i, 0, float64(i))
		y[i] = 3*float64(i) + 2
	}
	m := estimator.NewRidge(1e-6)
	require.NoError(t, m.Fit(X, y, nil))
	p, err := m.Predict(X)
	require.NoError(t, err)
	assert.InDeltaSlice(t, y, p, 1e-3)

	_, err = m.Predict(mat.NewDense(1, 2, nil))
	assert.Error(t, err)
}

func TestPriorWeighted(t *testing.T) {
	X := mat.NewDense(4, 1, nil)
	y := []float64{0, 0, 0, 1}

	m := &estimator.Prior{Task: dataset.Classification}
	require.NoError(t, m.Fit(X, y, nil))
	p, _ := m.Predict(X)
	assert.Equal(t, []float64{0, 0, 0, 0}, p)

	require.NoError(t, m.Fit(X, y, []float64{1, 1, 1, 4}))
	p, _ = m.Predict(X)
	assert.Equal(t, []float64{1, 1, 1, 1}, p)
}

func TestRegistry(t *testing.T) {
	m, err := estimator.New("", estimator.Args{Task: dataset.Regression})
	require.NoError(t, err)
	assert.IsType(t, &estimator.Ridge{}, m)

	m, err = estimator.New("default", estimator.Args{Task: dataset.Classification})
	require.NoError(t, err)
	assert.IsType(t, &estimator.LogisticRegression{}, m)

	_, err = estimator.New("ridge", estimator.Args{Task: dataset.Classification})
	assert.Error(t, err)

	_, err = estimator.New("xgboost", estimator.Args{})
	assert.True(t, errors.Is(err, estimator.ErrUnknown))

	m, err = estimator.New("logistic_regression", estimator.Args{Kwargs: map[string]interface{}{"epochs": 5}})
	require.NoError(t, err)
	assert.Equal(t, 5, m.(*estimator.LogisticRegression).Epochs)
}
