// Package sweeper runs single baseline versus experiment trials. A trial never fails its caller:
// errors and panics are converted into a rejected Outcome that carries the error.
package sweeper

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/hscells/sweep/dataset"
	"github.com/hscells/sweep/estimator"
	"github.com/hscells/sweep/featurize"
	"github.com/hscells/sweep/provider"
	"github.com/hscells/sweep/purpose"
	"github.com/hscells/sweep/scorer"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

var (
	// ErrUnknown is returned when no sweeper type is registered under a name.
	ErrUnknown = errors.New("unknown sweeper type")
	// ErrMissing is returned when a sweeper is built without a required collaborator.
	ErrMissing = errors.New("missing collaborator")
)

// Trial is one candidate to evaluate.
type Trial struct {
	// Columns are the columns the trial featurizes, one column or a group.
	Columns []string
	// Separate featurizes each column of a group on its own before stacking.
	Separate bool
	// Purposes maps each column to its purpose. Weight sweepers featurize by purpose.
	Purposes map[string]purpose.Purpose
}

// Outcome is the result of one trial.
type Outcome struct {
	Sweeper         string
	Columns         []string
	Accepted        bool
	State           State
	BaselineScore   float64
	ExperimentScore float64
	Lift            float64
	Duration        time.Duration
	Err             *Error
}

// Sweeper evaluates trials.
type Sweeper interface {
	Name() string
	Task() dataset.Task
	Run(ctx context.Context, trial Trial) Outcome
}

// Options are the collaborators and parameters of a sweeper.
type Options struct {
	Name      string
	Task      dataset.Task
	Provider  provider.DataProvider
	Estimator estimator.Estimator
	Scorer    scorer.Scorer
	// Baseline and Experiment are the featurizers of each side of a binary sweeper. Experiment
	// already includes the baseline featurizers when the configuration asks for them.
	Baseline   []featurize.Spec
	Experiment []featurize.Spec
	Epsilon    float64
	// CrossValidate averages scores over the folds of the provider.
	CrossValidate bool
	Featurization featurize.Config
	Logger        *slog.Logger
}

func (o Options) validate() error {
	switch {
	case o.Provider == nil:
		return errors.Wrap(ErrMissing, "data provider")
	case o.Estimator == nil:
		return errors.Wrap(ErrMissing, "estimator")
	case o.Scorer == nil:
		return errors.Wrap(ErrMissing, "scorer")
	}
	if o.Scorer.Task() != o.Task {
		return errors.Wrapf(scorer.ErrTaskMismatch, "sweeper %s is for %s, scorer is for %s", o.Name, o.Task, o.Scorer.Task())
	}
	return nil
}

// Constructor builds a sweeper.
type Constructor func(Options) (Sweeper, error)

var registry = map[string]Constructor{
	"binary": func(o Options) (Sweeper, error) { return NewBinary(o) },
	"weight": func(o Options) (Sweeper, error) { return NewWeight(o) },
}

// Register adds a sweeper constructor under a type name.
func Register(kind string, c Constructor) {
	registry[kind] = c
}

// Known reports whether a sweeper type is registered.
func Known(kind string) bool {
	_, ok := registry[kind]
	return ok
}

// Types lists the registered sweeper types.
func Types() []string {
	ids := make([]string, 0, len(registry))
	for id := range registry {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// New builds a sweeper of the given type.
func New(kind string, o Options) (Sweeper, error) {
	c, ok := registry[kind]
	if !ok {
		return nil, errors.Wrap(ErrUnknown, kind)
	}
	return c(o)
}

// sides featurizes and fits both sides of a trial on a split and returns their scores.
type sides func(ctx context.Context, trial Trial, train, valid *dataset.Dataset) (baseline, experiment float64, err error)

// run drives a trial through its states, converting errors and panics into a failed Outcome.
func run(ctx context.Context, o *Options, trial Trial, evaluate sides) (out Outcome) {
	start := time.Now()
	out = Outcome{Sweeper: o.Name, Columns: trial.Columns, State: Unscored}
	logger := o.Logger
	if logger == nil {
		logger = slog.Default()
	}

	fail := func(cause interface{}) {
		out.Accepted = false
		out.Err = newError(o.Name, trial.Columns, out.State, cause, 2)
		out.State = Failed
		logger.Warn("sweep trial failed", "sweeper", o.Name, "columns", trial.Columns, "error", out.Err.Error(), "stack", out.Err.Stack())
	}
	defer func() {
		if r := recover(); r != nil {
			fail(r)
		}
		out.Duration = time.Since(start)
	}()

	splits, err := folds(o)
	if err != nil {
		fail(err)
		return out
	}
	var b, e float64
	for _, s := range splits {
		if err := ctx.Err(); err != nil {
			fail(err)
			return out
		}
		fb, fe, err := evaluate(ctx, trial, s.Train, s.Valid)
		if err != nil {
			fail(err)
			return out
		}
		b += fb / float64(len(splits))
		e += fe / float64(len(splits))
	}
	out.BaselineScore, out.ExperimentScore, out.State = b, e, Scored

	better, err := o.Scorer.IsExperimentBetterThanBaseline(b, e, o.Epsilon)
	if err != nil {
		fail(err)
		return out
	}
	out.State = Compared
	if !better {
		out.State = Rejected
		logger.Debug("sweep trial rejected", "sweeper", o.Name, "columns", trial.Columns, "baseline", b, "experiment", e)
		return out
	}
	if out.Lift, err = o.Scorer.CalculateLift(b, e); err != nil {
		fail(err)
		return out
	}
	out.Accepted, out.State = true, Accepted
	logger.Info("sweep trial accepted", "sweeper", o.Name, "columns", trial.Columns, "baseline", b, "experiment", e, "lift", out.Lift)
	return out
}

func folds(o *Options) ([]provider.Fold, error) {
	if o.CrossValidate {
		return o.Provider.CrossValidation()
	}
	train, valid, err := o.Provider.TrainValidation()
	if err != nil {
		return nil, err
	}
	return []provider.Fold{{Train: train, Valid: valid}}, nil
}

// fitScore fits est on the training features and scores it on the validation features.
func fitScore(s scorer.Scorer, est estimator.Estimator, trainX mat.Matrix, train *dataset.Dataset, validX mat.Matrix, valid *dataset.Dataset, weights []float64) (float64, error) {
	if err := est.Fit(trainX, train.Y, weights); err != nil {
		return 0, errors.Wrap(err, "fitting estimator")
	}
	return s.Score(est, validX, valid.Y)
}
