package featurize_test

import (
	"testing"

	"github.com/hscells/sweep/dataset"
	"github.com/hscells/sweep/featurize"
	"github.com/hscells/sweep/purpose"
	"github.com/james-bowman/sparse"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func frame(t *testing.T) *dataset.Frame {
	f, err := dataset.NewFrame(
		dataset.Column{Name: "colour", Values: []string{"red", "blue", "red", "green"}},
		dataset.Column{Name: "title", Values: []string{"red apple", "blue sky", "red car", "green tree"}},
		dataset.Column{Name: "body", Values: []string{"an apple a day", "clear sky today", "", "tall tree"}},
		dataset.Column{Name: "price", Values: []string{"1.5", "2", "", "4.5"}},
	)
	require.NoError(t, err)
	return f
}

func TestOneHot(t *testing.T) {
	tr, err := featurize.New(featurize.Spec{ID: "one_hot", Kwargs: map[string]interface{}{"max_categories": 2}}, featurize.Config{})
	require.NoError(t, err)

	require.NoError(t, tr.Fit([]string{"red", "blue", "red", "green"}, nil))
	m, err := tr.Transform([]string{"red", "blue", "purple"})
	require.NoError(t, err)

	r, c := m.Dims()
	assert.Equal(t, 3, r)
	assert.Equal(t, 2, c)
	assert.True(t, featurize.IsSparse(m))
	// red is the most frequent category, then blue wins the tie on name.
	assert.Equal(t, 1.0, m.At(0, 0))
	assert.Equal(t, 1.0, m.At(1, 1))
	assert.Equal(t, 0.0, m.At(2, 0)+m.At(2, 1))
}

func TestHashingIsNormalised(t *testing.T) {
	for _, id := range []string{"hash_words", "hash_chars"} {
		tr, err := featurize.New(featurize.Spec{ID: id, Kwargs: map[string]interface{}{"dims": 64}}, featurize.Config{})
		require.NoError(t, err)
		require.NoError(t, tr.Fit(nil, nil))

		m, err := tr.Transform([]string{"the quick brown fox", ""})
		require.NoError(t, err)
		_, c := m.Dims()
		assert.Equal(t, 64, c, id)

		var norm float64
		m.(*sparse.CSR).DoRowNonZero(0, func(_, _ int, v float64) { norm += v * v })
		assert.InDelta(t, 1, norm, 1e-9, id)
		assert.Equal(t, 0.0, rowSum(m, 1), id)
	}
}

func rowSum(m mat.Matrix, i int) float64 {
	_, c := m.Dims()
	var s float64
	for j := 0; j < c; j++ {
		s += m.At(i, j)
	}
	return s
}

func TestNumericImputes(t *testing.T) {
	tr, err := featurize.New(featurize.Spec{ID: "numeric"}, featurize.Config{})
	require.NoError(t, err)
	require.NoError(t, tr.Fit([]string{"1", "3", "x"}, nil))

	m, err := tr.Transform([]string{"2", "n/a"})
	require.NoError(t, err)
	assert.Equal(t, 0.0, m.At(0, 0))
	assert.Equal(t, 0.0, m.At(0, 1))
	assert.Equal(t, 0.0, m.At(1, 0))
	assert.Equal(t, 1.0, m.At(1, 1))

	assert.Error(t, tr.Fit([]string{"a", "b"}, nil))
}

func TestTargetEncoding(t *testing.T) {
	tr, err := featurize.New(featurize.Spec{ID: "target_encoding", Kwargs: map[string]interface{}{"smoothing": 0}}, featurize.Config{})
	require.NoError(t, err)
	require.NoError(t, tr.Fit([]string{"a", "a", "b", "b"}, []float64{1, 1, 0, 1}))

	m, err := tr.Transform([]string{"a", "b", "unseen"})
	require.NoError(t, err)
	assert.Equal(t, 1.0, m.At(0, 0))
	assert.Equal(t, 0.5, m.At(1, 0))
	assert.Equal(t, 0.75, m.At(2, 0))
}

func TestTextEmbeddingDeterministic(t *testing.T) {
	config := featurize.Config{DatasetLanguage: "jpn"}
	a, err := featurize.New(featurize.Spec{ID: "text_embedding"}, config)
	require.NoError(t, err)
	b, err := featurize.New(featurize.Spec{ID: "text_embedding"}, config)
	require.NoError(t, err)

	ma, err := a.Transform([]string{"東京タワー"})
	require.NoError(t, err)
	mb, err := b.Transform([]string{"東京タワー"})
	require.NoError(t, err)
	assert.True(t, mat.Equal(ma, mb))

	_, c := ma.Dims()
	assert.Equal(t, 32, c)
}

func TestBlockedAndUnknown(t *testing.T) {
	config := featurize.Config{BlockedTransformers: []string{"hash_words"}}

	_, err := featurize.New(featurize.Spec{ID: "hash_words"}, config)
	assert.True(t, errors.Is(err, featurize.ErrBlocked))

	err = featurize.Check([]featurize.Spec{{ID: "one_hot"}, {ID: "bert"}}, config)
	assert.True(t, errors.Is(err, featurize.ErrUnknown))

	assert.NoError(t, featurize.Check([]featurize.Spec{{ID: "one_hot"}}, config))
}

func TestWordHashingStopWordsAndStemming(t *testing.T) {
	kwargs := map[string]interface{}{"dims": 512, "stop_words": true, "stem": true}
	tr, err := featurize.New(featurize.Spec{ID: "hash_words", Kwargs: kwargs}, featurize.Config{DatasetLanguage: "eng"})
	require.NoError(t, err)
	m, err := tr.Transform([]string{"The cats are running", "cat run"})
	require.NoError(t, err)
	assert.True(t, mat.Equal(rowOf(m, 0), rowOf(m, 1)))

	// No stop list or stemmer for an unknown language, so the rows differ.
	tr, err = featurize.New(featurize.Spec{ID: "hash_words", Kwargs: kwargs}, featurize.Config{DatasetLanguage: "xxx"})
	require.NoError(t, err)
	m, err = tr.Transform([]string{"The cats are running", "cat run"})
	require.NoError(t, err)
	assert.False(t, mat.Equal(rowOf(m, 0), rowOf(m, 1)))

	_, err = featurize.New(featurize.Spec{ID: "hash_words", Kwargs: map[string]interface{}{"stem": "yes"}}, featurize.Config{})
	assert.Error(t, err)
}

func rowOf(m mat.Matrix, i int) mat.Matrix {
	_, c := m.Dims()
	row := mat.NewDense(1, c, nil)
	for j := 0; j < c; j++ {
		row.Set(0, j, m.At(i, j))
	}
	return row
}

func TestHStack(t *testing.T) {
	dense := mat.NewDense(2, 2, []float64{1, 2, 3, 4})
	sp := featurize.NewSparse(3, []map[int]float64{{2: 5}, {0: 6}})

	m, err := featurize.HStack(dense, dense)
	require.NoError(t, err)
	assert.False(t, featurize.IsSparse(m))
	assert.Equal(t, 4.0, m.At(1, 3))

	m, err = featurize.HStack(dense, sp)
	require.NoError(t, err)
	assert.True(t, featurize.IsSparse(m))
	r, c := m.Dims()
	assert.Equal(t, 2, r)
	assert.Equal(t, 5, c)
	assert.Equal(t, 2.0, m.At(0, 1))
	assert.Equal(t, 5.0, m.At(0, 4))
	assert.Equal(t, 6.0, m.At(1, 2))
	assert.Equal(t, 0.0, m.At(1, 4))

	_, err = featurize.HStack(dense, featurize.NewSparse(1, []map[int]float64{{}}))
	assert.Error(t, err)
}

func TestPipelineGrouping(t *testing.T) {
	f := frame(t)
	y := []float64{0, 1, 0, 1}
	specs := []featurize.Spec{{ID: "hash_words", Kwargs: map[string]interface{}{"dims": 16}}}

	joined, err := featurize.NewPipeline([]string{"title", "body"}, specs, false, featurize.Config{})
	require.NoError(t, err)
	m, err := joined.FitTransform(f, y)
	require.NoError(t, err)
	_, c := m.Dims()
	assert.Equal(t, 16, c)

	separate, err := featurize.NewPipeline([]string{"title", "body"}, specs, true, featurize.Config{})
	require.NoError(t, err)
	m, err = separate.FitTransform(f, y)
	require.NoError(t, err)
	r, c := m.Dims()
	assert.Equal(t, 4, r)
	assert.Equal(t, 32, c)
	assert.True(t, featurize.IsSparse(m))
}

func TestPipelineMixedAndEmpty(t *testing.T) {
	f := frame(t)
	y := []float64{0, 1, 0, 1}

	p, err := featurize.NewPipeline([]string{"price"}, []featurize.Spec{{ID: "numeric"}, {ID: "text_stats"}}, false, featurize.Config{})
	require.NoError(t, err)
	_, err = p.Transform(f)
	assert.True(t, errors.Is(err, featurize.ErrNotFitted))

	m, err := p.FitTransform(f, y)
	require.NoError(t, err)
	_, c := m.Dims()
	assert.Equal(t, 5, c)
	assert.False(t, featurize.IsSparse(m))

	none, err := featurize.NewPipeline([]string{"colour"}, nil, false, featurize.Config{})
	require.NoError(t, err)
	m, err = none.FitTransform(f, y)
	require.NoError(t, err)
	r, c := m.Dims()
	assert.Equal(t, 4, r)
	assert.Equal(t, 1, c)

	missing, err := featurize.NewPipeline([]string{"nope"}, []featurize.Spec{{ID: "one_hot"}}, false, featurize.Config{})
	require.NoError(t, err)
	assert.Error(t, missing.Fit(f, y))
}

func TestUnion(t *testing.T) {
	base := []featurize.Spec{{ID: "one_hot"}, {ID: "hash_words", Kwargs: map[string]interface{}{"dims": 8}}}
	exp := []featurize.Spec{{ID: "hash_words", Kwargs: map[string]interface{}{"dims": 8}}, {ID: "hash_chars"}, {ID: "one_hot"}}

	u := featurize.Union(base, exp)
	require.Len(t, u, 3)
	assert.Equal(t, "hash_chars", u[2].ID)
}

func TestDefaultSpecs(t *testing.T) {
	assert.Equal(t, "numeric", featurize.DefaultSpecs(purpose.Numeric)[0].ID)
	assert.Equal(t, "one_hot", featurize.DefaultSpecs(purpose.Categorical)[0].ID)
	assert.Equal(t, "hash_words", featurize.DefaultSpecs(purpose.Text)[0].ID)
	assert.Empty(t, featurize.DefaultSpecs(purpose.Ignore))
}
