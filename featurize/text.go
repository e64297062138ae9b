package featurize

import (
	"math"
	"unicode"
	"unicode/utf8"

	"github.com/cespare/xxhash/v2"
	lru "github.com/hashicorp/golang-lru"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// textStats produces dense, standardised surface statistics of a text column: length in
// characters, number of words and the ratio of digits.
type textStats struct {
	mean, std []float64
}

func newTextStats(map[string]interface{}) (Transformer, error) {
	return &textStats{}, nil
}

func surface(s string) []float64 {
	n := utf8.RuneCountInString(s)
	var digits int
	for _, r := range s {
		if unicode.IsDigit(r) {
			digits++
		}
	}
	ratio := 0.0
	if n > 0 {
		ratio = float64(digits) / float64(n)
	}
	return []float64{math.Log1p(float64(n)), math.Log1p(float64(len(words(s)))), ratio}
}

func (t *textStats) Fit(values []string, _ []float64) error {
	cols := make([][]float64, 3)
	for _, v := range values {
		for j, x := range surface(v) {
			cols[j] = append(cols[j], x)
		}
	}
	t.mean, t.std = make([]float64, 3), make([]float64, 3)
	for j := range cols {
		t.mean[j], t.std[j] = meanStd(cols[j])
	}
	return nil
}

func (t *textStats) Transform(values []string) (mat.Matrix, error) {
	if t.mean == nil {
		return nil, ErrNotFitted
	}
	if len(values) == 0 {
		return empty(3), nil
	}
	m := mat.NewDense(len(values), 3, nil)
	for i, v := range values {
		for j, x := range surface(v) {
			m.Set(i, j, (x-t.mean[j])/t.std[j])
		}
	}
	return m, nil
}

// meanStd is the mean and standard deviation of xs, with a unit deviation for constant or
// empty input.
func meanStd(xs []float64) (float64, float64) {
	if len(xs) < 2 {
		if len(xs) == 1 {
			return xs[0], 1
		}
		return 0, 1
	}
	mean, std := stat.MeanStdDev(xs, nil)
	if std == 0 || math.IsNaN(std) {
		std = 1
	}
	return mean, std
}

// charLanguages are languages written without spaces between words, which are embedded
// character by character.
var charLanguages = map[string]bool{"jpn": true, "zho": true, "chi": true, "kor": true, "tha": true}

// vectorCache holds token vectors shared by every embedding featurizer of the same size.
var vectorCache, _ = lru.New(1 << 15)

// textEmbedding averages fixed pseudo-random token vectors into a dense document vector. Vectors
// are derived deterministically from the token hash so no model needs to be loaded.
type textEmbedding struct {
	dims     int
	tokenize tokenizer
}

func newTextEmbedding(kwargs map[string]interface{}) (Transformer, error) {
	dims, err := intArg(kwargs, "dims", 32)
	if err != nil {
		return nil, err
	}
	if dims <= 0 {
		return nil, errors.Errorf("dims must be positive, got %d", dims)
	}
	tok, err := wordTokenizer(kwargs)
	if err != nil {
		return nil, err
	}
	if charLanguages[stringArg(kwargs, "language", "eng")] {
		tok = charGrams(1)
	}
	return &textEmbedding{dims: dims, tokenize: tok}, nil
}

func (e *textEmbedding) vector(token string) []float64 {
	h := xxhash.Sum64String(token)
	key := [2]uint64{h, uint64(e.dims)}
	if v, ok := vectorCache.Get(key); ok {
		return v.([]float64)
	}
	v := make([]float64, e.dims)
	state := h
	for i := range v {
		// splitmix64
		state += 0x9e3779b97f4a7c15
		z := state
		z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
		z = (z ^ (z >> 27)) * 0x94d049bb133111eb
		z ^= z >> 31
		v[i] = float64(z>>11)/float64(1<<53)*2 - 1
	}
	vectorCache.Add(key, v)
	return v
}

func (e *textEmbedding) Fit([]string, []float64) error {
	return nil
}

func (e *textEmbedding) Transform(values []string) (mat.Matrix, error) {
	if len(values) == 0 {
		return empty(e.dims), nil
	}
	m := mat.NewDense(len(values), e.dims, nil)
	for i, s := range values {
		tokens := e.tokenize(s)
		if len(tokens) == 0 {
			continue
		}
		row := m.RawRowView(i)
		for _, t := range tokens {
			for j, x := range e.vector(t) {
				row[j] += x
			}
		}
		for j := range row {
			row[j] /= float64(len(tokens))
		}
	}
	return m, nil
}
