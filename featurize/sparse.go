package featurize

import (
	"sort"

	"github.com/james-bowman/sparse"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// NewSparse builds a compressed sparse row matrix from one map of column -> value per row.
func NewSparse(cols int, rows []map[int]float64) *sparse.CSR {
	indptr := make([]int, len(rows)+1)
	var (
		indices []int
		data    []float64
	)
	for i, row := range rows {
		keys := make([]int, 0, len(row))
		for j, v := range row {
			if v != 0 {
				keys = append(keys, j)
			}
		}
		sort.Ints(keys)
		for _, j := range keys {
			indices = append(indices, j)
			data = append(data, row[j])
		}
		indptr[i+1] = len(indices)
	}
	return sparse.NewCSR(len(rows), cols, indptr, indices, data)
}

// empty is a matrix with no rows, which gonum dense matrices cannot represent.
func empty(cols int) *sparse.CSR {
	return NewSparse(cols, nil)
}

// IsSparse reports whether m is stored sparsely.
func IsSparse(m mat.Matrix) bool {
	_, ok := m.(*sparse.CSR)
	return ok
}

// HStack concatenates matrices column-wise. The result is sparse if any input is sparse and
// dense otherwise.
func HStack(ms ...mat.Matrix) (mat.Matrix, error) {
	if len(ms) == 0 {
		return nil, errors.New("nothing to stack")
	}
	rows, _ := ms[0].Dims()
	total, anySparse := 0, false
	for _, m := range ms {
		r, c := m.Dims()
		if r != rows {
			return nil, errors.Errorf("cannot stack %d rows with %d rows", r, rows)
		}
		total += c
		anySparse = anySparse || IsSparse(m)
	}

	if rows == 0 || total == 0 {
		return NewSparse(total, make([]map[int]float64, rows)), nil
	}

	if !anySparse {
		dst := mat.NewDense(rows, total, nil)
		off := 0
		for _, m := range ms {
			_, c := m.Dims()
			if c > 0 {
				dst.Slice(0, rows, off, off+c).(*mat.Dense).Copy(m)
			}
			off += c
		}
		return dst, nil
	}

	out := make([]map[int]float64, rows)
	for i := range out {
		out[i] = make(map[int]float64)
	}
	off := 0
	for _, m := range ms {
		_, c := m.Dims()
		if s, ok := m.(*sparse.CSR); ok {
			for i := 0; i < rows; i++ {
				s.DoRowNonZero(i, func(i, j int, v float64) {
					out[i][off+j] = v
				})
			}
		} else {
			for i := 0; i < rows; i++ {
				for j := 0; j < c; j++ {
					if v := m.At(i, j); v != 0 {
						out[i][off+j] = v
					}
				}
			}
		}
		off += c
	}
	return NewSparse(total, out), nil
}
