package dataset_test

import (
	"testing"

	"github.com/hscells/sweep/dataset"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func labels(counts ...int) []float64 {
	var y []float64
	for c, n := range counts {
		for i := 0; i < n; i++ {
			y = append(y, float64(c))
		}
	}
	return y
}

func TestClasses(t *testing.T) {
	assert.Equal(t, []float64{0, 1, 3}, dataset.Classes([]float64{3, 1, 0, 1, 3, 3}))
	assert.Empty(t, dataset.Classes(nil))
}

func TestParseTask(t *testing.T) {
	task, err := dataset.ParseTask("regression")
	require.NoError(t, err)
	assert.Equal(t, dataset.Regression, task)

	_, err = dataset.ParseTask("ranking")
	assert.Error(t, err)
}

func TestTestFraction(t *testing.T) {
	assert.Equal(t, 0.2, dataset.SplittingConfig{TestSize: 0.2, TrainSize: 0.5}.TestFraction())
	assert.InDelta(t, 0.3, dataset.SplittingConfig{TrainSize: 0.7}.TestFraction(), 1e-9)
	assert.Equal(t, dataset.DefaultTestSize, dataset.SplittingConfig{}.TestFraction())
}

func TestStratifiedSplitKeepsProportions(t *testing.T) {
	y := labels(80, 20)
	train, test, err := dataset.TrainTestSplit(y, 0.25, true, 7)
	require.NoError(t, err)
	assert.Len(t, test, 25)
	assert.Len(t, train, 75)

	counts := map[float64]int{}
	for _, i := range test {
		counts[y[i]]++
	}
	assert.Equal(t, 20, counts[0])
	assert.Equal(t, 5, counts[1])
	assert.Equal(t, dataset.Complement(len(y), test), train)
}

func TestSplitIsDeterministic(t *testing.T) {
	y := labels(30, 30)
	a, _, err := dataset.TrainTestSplit(y, 0.3, true, 42)
	require.NoError(t, err)
	b, _, err := dataset.TrainTestSplit(y, 0.3, true, 42)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestStratifyFailsOnSingletonClass(t *testing.T) {
	y := append(labels(10), 1)
	_, _, err := dataset.TrainTestSplit(y, 0.3, true, 0)
	assert.True(t, errors.Is(err, dataset.ErrStratify))

	train, test, stratified, err := dataset.SplitWithFallback(y, 0.3, true, 0)
	require.NoError(t, err)
	assert.False(t, stratified)
	assert.Len(t, append(train, test...), len(y))
}

func TestKFold(t *testing.T) {
	y := labels(9, 6)
	folds, err := dataset.KFold(y, 3, true, 1)
	require.NoError(t, err)
	require.Len(t, folds, 3)
	seen := map[int]bool{}
	for _, f := range folds {
		assert.Len(t, f, 5)
		for _, i := range f {
			assert.False(t, seen[i])
			seen[i] = true
		}
	}
	assert.Len(t, seen, 15)

	_, err = dataset.KFold(labels(9, 2), 3, true, 1)
	assert.True(t, errors.Is(err, dataset.ErrStratify))
}

func TestFrameTake(t *testing.T) {
	f, err := dataset.NewFrame(
		dataset.Column{Name: "a", Values: []string{"x", "y", "z"}},
		dataset.Column{Name: "b", Values: []string{"1", "2", "3"}},
	)
	require.NoError(t, err)
	d := &dataset.Dataset{X: f, Y: []float64{0, 1, 0}}
	require.NoError(t, d.Validate())

	sub := d.Take([]int{2, 0})
	c, ok := sub.X.Column("b")
	require.True(t, ok)
	assert.Equal(t, []string{"3", "1"}, c.Values)
	assert.Equal(t, []float64{0, 0}, sub.Y)

	_, err = dataset.NewFrame(
		dataset.Column{Name: "a", Values: []string{"x"}},
		dataset.Column{Name: "b", Values: []string{"1", "2"}},
	)
	assert.Error(t, err)
}

func TestPageStore(t *testing.T) {
	store := dataset.NewPageStore(t.TempDir())
	d := &dataset.Dataset{
		X: &dataset.Frame{Columns: []dataset.Column{{Name: "text", Values: []string{"a b", "c"}}}},
		Y: []float64{1, 0},
	}
	require.NoError(t, store.Store("sampled-0", d))

	got, err := store.Load("sampled-0")
	require.NoError(t, err)
	assert.Equal(t, d, got)

	_, err = store.Load("sampled-1")
	assert.True(t, errors.Is(err, dataset.ErrPageMissing))

	require.NoError(t, store.Erase())
	_, err = store.Load("sampled-0")
	assert.Error(t, err)
}
