package sampler_test

import (
	"strconv"
	"testing"

	"github.com/hscells/sweep/dataset"
	"github.com/hscells/sweep/sampler"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func balanced(rows, classes int) *dataset.Dataset {
	values := make([]string, rows)
	y := make([]float64, rows)
	for i := range values {
		values[i] = strconv.Itoa(i)
		y[i] = float64(i % classes)
	}
	return &dataset.Dataset{X: &dataset.Frame{Columns: []dataset.Column{{Name: "id", Values: values}}}, Y: y}
}

func TestCountSamplerPassThrough(t *testing.T) {
	s, err := sampler.NewCountSampler(0, 2000, 10000, true, dataset.Classification)
	require.NoError(t, err)

	trainFrac, testFrac, sampleFraction := s.Fractions(5000, 2)
	assert.InDelta(t, 0.8, trainFrac, 1e-12)
	assert.InDelta(t, 0.2, testFrac, 1e-12)
	assert.Equal(t, 1.0, sampleFraction)

	data := balanced(5000, 2)
	sampled, config, err := s.Sample(data)
	require.NoError(t, err)
	assert.Same(t, data, sampled)
	assert.InDelta(t, 0.2, config.TestSize, 1e-12)
	assert.Equal(t, dataset.Classification, config.Task)
}

func TestCountSamplerSubsamples(t *testing.T) {
	s, err := sampler.NewCountSampler(1, 10, 1000, true, dataset.Classification)
	require.NoError(t, err)

	// 2 classes * 10 examples over 1000 rows.
	trainFrac, testFrac, sampleFraction := s.Fractions(1000, 2)
	assert.InDelta(t, 0.02, trainFrac, 1e-12)
	assert.InDelta(t, 0.02, testFrac, 1e-12)
	assert.InDelta(t, 0.04, sampleFraction, 1e-12)

	sampled, config, err := s.Sample(balanced(1000, 2))
	require.NoError(t, err)
	assert.Equal(t, 40, sampled.NumRows())
	assert.Equal(t, 20, dataset.ClassCounts(sampled.Y)[0])
	assert.InDelta(t, 0.5, config.TestSize, 1e-12)
}

func TestCountSamplerRegressionUsesMaxRows(t *testing.T) {
	s, err := sampler.NewCountSampler(0, 0, 100, true, dataset.Regression)
	require.NoError(t, err)
	trainFrac, _, _ := s.Fractions(1000, 0)
	assert.InDelta(t, 0.1, trainFrac, 1e-12)
}

func TestCountSamplerRequiresTrainFrac(t *testing.T) {
	_, err := sampler.NewCountSampler(0, 10, 100, false, dataset.Classification)
	require.Error(t, err)
	assert.True(t, errors.Is(err, sampler.ErrConfiguration))

	s, err := sampler.NewCountSampler(0, 10, 100, false, dataset.Classification, sampler.TrainFrac(0.9))
	require.NoError(t, err)
	trainFrac, testFrac, _ := s.Fractions(50, 2)
	assert.Equal(t, sampler.MaxTrainFrac, trainFrac)
	assert.InDelta(t, 0.2, testFrac, 1e-12)
}

func TestCountSamplerFractionBounds(t *testing.T) {
	for _, maxRows := range []int{1, 10, 500, 10000, 1000000} {
		for _, minExamples := range []int{1, 50, 2000} {
			for _, nrows := range []int{2, 7, 100, 5000, 250000} {
				for _, classes := range []int{2, 3, 10} {
					s, err := sampler.NewCountSampler(0, minExamples, maxRows, true, dataset.Classification)
					require.NoError(t, err)
					trainFrac, testFrac, sampleFraction := s.Fractions(nrows, classes)
					assert.Greater(t, trainFrac, 0.0)
					assert.LessOrEqual(t, trainFrac, sampler.MaxTrainFrac)
					assert.Greater(t, sampleFraction, 0.0)
					assert.LessOrEqual(t, sampleFraction, 1.0)
					assert.LessOrEqual(t, testFrac, trainFrac+1e-12)
				}
			}
		}
	}
}

func TestRegistry(t *testing.T) {
	s, err := sampler.New("count", sampler.Args{
		Task:   dataset.Classification,
		Args:   []interface{}{2000},
		Kwargs: map[string]interface{}{"max_rows": 10000},
	})
	require.NoError(t, err)
	_, _, sampleFraction := s.(*sampler.CountSampler).Fractions(5000, 2)
	assert.Equal(t, 1.0, sampleFraction)

	_, err = sampler.New("count", sampler.Args{Kwargs: map[string]interface{}{
		"min_examples_per_class": 10, "max_rows": 100, "is_constraint_driven": false,
	}})
	assert.True(t, errors.Is(err, sampler.ErrConfiguration))

	_, err = sampler.New("stratified_magic", sampler.Args{})
	assert.True(t, errors.Is(err, sampler.ErrConfiguration))
	assert.Contains(t, sampler.IDs(), "count")
}
