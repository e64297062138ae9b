package featurize

import (
	"sort"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// oneHot encodes the most frequent categories of a column as indicator features. Categories
// unseen during fitting map to no feature.
type oneHot struct {
	maxCategories int
	index         map[string]int
}

func newOneHot(kwargs map[string]interface{}) (Transformer, error) {
	n, err := intArg(kwargs, "max_categories", 100)
	if err != nil {
		return nil, err
	}
	if n <= 0 {
		return nil, errors.Errorf("max_categories must be positive, got %d", n)
	}
	return &oneHot{maxCategories: n}, nil
}

func (o *oneHot) Fit(values []string, _ []float64) error {
	counts := make(map[string]int)
	for _, v := range values {
		counts[v]++
	}
	categories := make([]string, 0, len(counts))
	for c := range counts {
		categories = append(categories, c)
	}
	sort.Slice(categories, func(i, j int) bool {
		if counts[categories[i]] != counts[categories[j]] {
			return counts[categories[i]] > counts[categories[j]]
		}
		return categories[i] < categories[j]
	})
	if len(categories) > o.maxCategories {
		categories = categories[:o.maxCategories]
	}
	o.index = make(map[string]int, len(categories))
	for i, c := range categories {
		o.index[c] = i
	}
	return nil
}

func (o *oneHot) Transform(values []string) (mat.Matrix, error) {
	if o.index == nil {
		return nil, ErrNotFitted
	}
	rows := make([]map[int]float64, len(values))
	for i, v := range values {
		rows[i] = make(map[int]float64, 1)
		if j, ok := o.index[v]; ok {
			rows[i][j] = 1
		}
	}
	return NewSparse(len(o.index), rows), nil
}
