package sweeper

import (
	"context"

	"github.com/hscells/sweep/dataset"
	"github.com/hscells/sweep/featurize"
	"github.com/pkg/errors"
)

// Binary compares a baseline featurization of a column against an experiment featurization.
// The baseline is fitted by a clone of the estimator and the experiment by the estimator itself.
type Binary struct {
	opts Options
}

// NewBinary creates a binary sweeper.
func NewBinary(o Options) (*Binary, error) {
	if err := o.validate(); err != nil {
		return nil, err
	}
	if len(o.Experiment) == 0 {
		return nil, errors.Wrapf(ErrMissing, "experiment featurizers of %s", o.Name)
	}
	if err := featurize.Check(append(append([]featurize.Spec(nil), o.Baseline...), o.Experiment...), o.Featurization); err != nil {
		return nil, err
	}
	return &Binary{opts: o}, nil
}

// Name of the sweeper.
func (s *Binary) Name() string {
	return s.opts.Name
}

// Task of the sweeper.
func (s *Binary) Task() dataset.Task {
	return s.opts.Task
}

// Run evaluates the trial.
func (s *Binary) Run(ctx context.Context, trial Trial) Outcome {
	return run(ctx, &s.opts, trial, s.evaluate)
}

func (s *Binary) side(specs []featurize.Spec, trial Trial, train, valid *dataset.Dataset) (*featurized, error) {
	p, err := featurize.NewPipeline(trial.Columns, specs, trial.Separate, s.opts.Featurization)
	if err != nil {
		return nil, err
	}
	trainX, err := p.FitTransform(train.X, train.Y)
	if err != nil {
		return nil, err
	}
	validX, err := p.Transform(valid.X)
	if err != nil {
		return nil, err
	}
	return &featurized{train: trainX, valid: validX}, nil
}

func (s *Binary) evaluate(ctx context.Context, trial Trial, train, valid *dataset.Dataset) (float64, float64, error) {
	base, err := s.side(s.opts.Baseline, trial, train, valid)
	if err != nil {
		return 0, 0, errors.Wrap(err, "featurizing baseline")
	}
	exp, err := s.side(s.opts.Experiment, trial, train, valid)
	if err != nil {
		return 0, 0, errors.Wrap(err, "featurizing experiment")
	}
	if err := ctx.Err(); err != nil {
		return 0, 0, err
	}

	b, err := fitScore(s.opts.Scorer, s.opts.Estimator.Clone(), base.train, train, base.valid, valid, nil)
	if err != nil {
		return 0, 0, errors.Wrap(err, "baseline")
	}
	e, err := fitScore(s.opts.Scorer, s.opts.Estimator, exp.train, train, exp.valid, valid, nil)
	if err != nil {
		return 0, 0, errors.Wrap(err, "experiment")
	}
	return b, e, nil
}
