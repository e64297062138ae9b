package dataset

import (
	"math"
	"math/rand"
	"sort"

	"github.com/pkg/errors"
)

// ErrStratify is returned when a stratified split cannot be made, for instance because a class
// has too few members to appear on both sides of the split.
var ErrStratify = errors.New("cannot stratify split")

// TrainTestSplit splits the rows of y into train and test indices. When stratify is true, each
// class is split in proportion to testFrac, otherwise rows are assigned uniformly at random.
// The split is deterministic for a given seed.
func TrainTestSplit(y []float64, testFrac float64, stratify bool, seed int64) (train, test []int, err error) {
	n := len(y)
	if n < 2 {
		return nil, nil, errors.Errorf("cannot split %d rows", n)
	}
	if testFrac <= 0 || testFrac >= 1 {
		return nil, nil, errors.Errorf("test fraction %v is not in (0, 1)", testFrac)
	}
	nTest := int(math.Round(testFrac * float64(n)))
	if nTest < 1 {
		nTest = 1
	}
	if nTest > n-1 {
		nTest = n - 1
	}

	rng := rand.New(rand.NewSource(seed))
	if !stratify {
		perm := rng.Perm(n)
		test = append(test, perm[:nTest]...)
		train = append(train, perm[nTest:]...)
		sort.Ints(train)
		sort.Ints(test)
		return train, test, nil
	}

	byClass := indicesByClass(y)
	classes := Classes(y)
	if nTest < len(classes) || n-nTest < len(classes) {
		return nil, nil, errors.Wrapf(ErrStratify, "%d classes do not fit a %d/%d split", len(classes), n-nTest, nTest)
	}
	for _, c := range classes {
		idx := byClass[c]
		if len(idx) < 2 {
			return nil, nil, errors.Wrapf(ErrStratify, "class %v has %d member(s)", c, len(idx))
		}
		rng.Shuffle(len(idx), func(i, j int) { idx[i], idx[j] = idx[j], idx[i] })
		k := int(math.Round(testFrac * float64(len(idx))))
		if k < 1 {
			k = 1
		}
		if k > len(idx)-1 {
			k = len(idx) - 1
		}
		test = append(test, idx[:k]...)
		train = append(train, idx[k:]...)
	}
	sort.Ints(train)
	sort.Ints(test)
	return train, test, nil
}

// SplitWithFallback performs a stratified split and falls back to an unstratified one when
// stratification is impossible. The returned flag reports whether the split was stratified.
func SplitWithFallback(y []float64, testFrac float64, stratify bool, seed int64) (train, test []int, stratified bool, err error) {
	if stratify {
		train, test, err = TrainTestSplit(y, testFrac, true, seed)
		if err == nil {
			return train, test, true, nil
		}
		if !errors.Is(err, ErrStratify) {
			return nil, nil, false, err
		}
	}
	train, test, err = TrainTestSplit(y, testFrac, false, seed)
	return train, test, false, err
}

// KFold assigns the rows of y to k folds and returns the held-out indices of each fold. When
// stratify is true every class is spread evenly across the folds.
func KFold(y []float64, k int, stratify bool, seed int64) ([][]int, error) {
	n := len(y)
	if k < 2 || k > n {
		return nil, errors.Errorf("cannot make %d folds from %d rows", k, n)
	}
	rng := rand.New(rand.NewSource(seed))
	folds := make([][]int, k)
	if !stratify {
		for i, idx := range rng.Perm(n) {
			folds[i%k] = append(folds[i%k], idx)
		}
	} else {
		byClass := indicesByClass(y)
		for _, c := range Classes(y) {
			if len(byClass[c]) < k {
				return nil, errors.Wrapf(ErrStratify, "class %v has %d member(s) for %d folds", c, len(byClass[c]), k)
			}
		}
		j := 0
		for _, c := range Classes(y) {
			idx := byClass[c]
			rng.Shuffle(len(idx), func(a, b int) { idx[a], idx[b] = idx[b], idx[a] })
			for _, i := range idx {
				folds[j%k] = append(folds[j%k], i)
				j++
			}
		}
	}
	for _, f := range folds {
		sort.Ints(f)
	}
	return folds, nil
}

// Complement returns the indices in [0, n) that are not in held, which must be sorted.
func Complement(n int, held []int) []int {
	out := make([]int, 0, n-len(held))
	j := 0
	for i := 0; i < n; i++ {
		if j < len(held) && held[j] == i {
			j++
			continue
		}
		out = append(out, i)
	}
	return out
}

func indicesByClass(y []float64) map[float64][]int {
	m := make(map[float64][]int)
	for i, v := range y {
		m[v] = append(m[v], i)
	}
	return m
}
