package sweeper

import (
	"context"
	"sort"

	"github.com/hscells/sweep/dataset"
	"github.com/hscells/sweep/featurize"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Weight compares an unweighted fit against a fit with balanced class weights. Both sides share
// the same featurization, the default one for each column purpose.
type Weight struct {
	opts Options
}

// NewWeight creates a class weight sweeper. It only serves classification.
func NewWeight(o Options) (*Weight, error) {
	if err := o.validate(); err != nil {
		return nil, err
	}
	if o.Task != dataset.Classification {
		return nil, errors.Errorf("weight sweeper %s needs a classification task, got %s", o.Name, o.Task)
	}
	return &Weight{opts: o}, nil
}

// Name of the sweeper.
func (s *Weight) Name() string {
	return s.opts.Name
}

// Task of the sweeper.
func (s *Weight) Task() dataset.Task {
	return s.opts.Task
}

// Run evaluates the trial.
func (s *Weight) Run(ctx context.Context, trial Trial) Outcome {
	return run(ctx, &s.opts, trial, s.evaluate)
}

type featurized struct {
	train, valid mat.Matrix
}

func (s *Weight) features(trial Trial, train, valid *dataset.Dataset) (*featurized, error) {
	columns := append([]string(nil), trial.Columns...)
	sort.Strings(columns)
	var trainParts, validParts []mat.Matrix
	for _, c := range columns {
		specs := featurize.DefaultSpecs(trial.Purposes[c])
		if len(specs) == 0 {
			continue
		}
		p, err := featurize.NewPipeline([]string{c}, specs, false, s.opts.Featurization)
		if err != nil {
			return nil, err
		}
		tx, err := p.FitTransform(train.X, train.Y)
		if err != nil {
			return nil, err
		}
		vx, err := p.Transform(valid.X)
		if err != nil {
			return nil, err
		}
		trainParts, validParts = append(trainParts, tx), append(validParts, vx)
	}
	if len(trainParts) == 0 {
		return nil, errors.New("no column can be featurized")
	}
	tx, err := featurize.HStack(trainParts...)
	if err != nil {
		return nil, err
	}
	vx, err := featurize.HStack(validParts...)
	if err != nil {
		return nil, err
	}
	return &featurized{train: tx, valid: vx}, nil
}

func (s *Weight) evaluate(ctx context.Context, trial Trial, train, valid *dataset.Dataset) (float64, float64, error) {
	f, err := s.features(trial, train, valid)
	if err != nil {
		return 0, 0, errors.Wrap(err, "featurizing")
	}
	if err := ctx.Err(); err != nil {
		return 0, 0, err
	}
	b, err := fitScore(s.opts.Scorer, s.opts.Estimator.Clone(), f.train, train, f.valid, valid, nil)
	if err != nil {
		return 0, 0, errors.Wrap(err, "baseline")
	}
	e, err := fitScore(s.opts.Scorer, s.opts.Estimator, f.train, train, f.valid, valid, BalancedWeights(train.Y))
	if err != nil {
		return 0, 0, errors.Wrap(err, "experiment")
	}
	return b, e, nil
}

// BalancedWeights weights each row by n / (k * count(class)), so that every class carries the
// same total weight.
func BalancedWeights(y []float64) []float64 {
	counts := dataset.ClassCounts(y)
	n, k := float64(len(y)), float64(len(counts))
	w := make([]float64, len(y))
	for i, v := range y {
		w[i] = n / (k * float64(counts[v]))
	}
	return w
}
