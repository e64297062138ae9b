package featurize

import (
	"reflect"
	"strings"

	"github.com/hscells/sweep/dataset"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Pipeline featurizes a set of columns with a set of featurizers. Unless Separate is set, the
// values of grouped columns are joined and featurized as a single column.
type Pipeline struct {
	Columns  []string `json:"columns"`
	Specs    []Spec   `json:"featurizers"`
	Separate bool     `json:"featurize_separately,omitempty"`

	config Config
	steps  []step
}

type step struct {
	columns     []string
	transformer Transformer
}

// NewPipeline creates an unfitted pipeline over columns.
func NewPipeline(columns []string, specs []Spec, separate bool, config Config) (*Pipeline, error) {
	if len(columns) == 0 {
		return nil, errors.New("pipeline needs at least one column")
	}
	if err := Check(specs, config); err != nil {
		return nil, err
	}
	return &Pipeline{
		Columns:  append([]string(nil), columns...),
		Specs:    append([]Spec(nil), specs...),
		Separate: separate,
		config:   config,
	}, nil
}

func (p *Pipeline) groups() [][]string {
	if !p.Separate || len(p.Columns) == 1 {
		return [][]string{p.Columns}
	}
	g := make([][]string, len(p.Columns))
	for i, c := range p.Columns {
		g[i] = []string{c}
	}
	return g
}

func values(f *dataset.Frame, columns []string) ([]string, error) {
	cols := make([][]string, len(columns))
	for i, name := range columns {
		c, ok := f.Column(name)
		if !ok {
			return nil, errors.Errorf("no column %q", name)
		}
		cols[i] = c.Values
	}
	if len(cols) == 1 {
		return cols[0], nil
	}
	out := make([]string, f.NumRows())
	parts := make([]string, len(cols))
	for i := range out {
		for j := range cols {
			parts[j] = cols[j][i]
		}
		out[i] = strings.Join(parts, " ")
	}
	return out, nil
}

// Fit fits every featurizer of the pipeline on the training frame.
func (p *Pipeline) Fit(f *dataset.Frame, y []float64) error {
	var steps []step
	for _, g := range p.groups() {
		v, err := values(f, g)
		if err != nil {
			return err
		}
		for _, s := range p.Specs {
			t, err := New(s, p.config)
			if err != nil {
				return err
			}
			if err := t.Fit(v, y); err != nil {
				return errors.Wrapf(err, "fitting %s on %v", s.ID, g)
			}
			steps = append(steps, step{columns: g, transformer: t})
		}
	}
	p.steps = steps
	return nil
}

// Transform featurizes f with the fitted featurizers. A pipeline with no featurizers produces a
// single zero column, so that an estimator falls back to the label prior.
func (p *Pipeline) Transform(f *dataset.Frame) (mat.Matrix, error) {
	if p.steps == nil && len(p.Specs) > 0 {
		return nil, ErrNotFitted
	}
	if len(p.steps) == 0 {
		return HStack(NewSparse(1, make([]map[int]float64, f.NumRows())))
	}
	parts := make([]mat.Matrix, len(p.steps))
	for i, s := range p.steps {
		v, err := values(f, s.columns)
		if err != nil {
			return nil, err
		}
		m, err := s.transformer.Transform(v)
		if err != nil {
			return nil, errors.Wrapf(err, "transforming %v", s.columns)
		}
		parts[i] = m
	}
	return HStack(parts...)
}

// FitTransform fits the pipeline on f and featurizes it.
func (p *Pipeline) FitTransform(f *dataset.Frame, y []float64) (mat.Matrix, error) {
	if err := p.Fit(f, y); err != nil {
		return nil, err
	}
	return p.Transform(f)
}

// Union is the featurizers of baseline followed by those of experiment not already present.
func Union(baseline, experiment []Spec) []Spec {
	out := append([]Spec(nil), baseline...)
	for _, e := range experiment {
		dup := false
		for _, b := range baseline {
			if sameSpec(b, e) {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, e)
		}
	}
	return out
}

func sameSpec(a, b Spec) bool {
	if a.ID != b.ID || len(a.Kwargs) != len(b.Kwargs) {
		return false
	}
	return len(a.Kwargs) == 0 || reflect.DeepEqual(a.Kwargs, b.Kwargs)
}
