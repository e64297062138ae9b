// Package scorer decides whether an experiment beat its baseline by a margin large enough to be
// trusted, and by how much.
package scorer

import (
	"math"

	"github.com/hscells/sweep/dataset"
	"github.com/hscells/sweep/estimator"
	"github.com/hscells/sweep/metric"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

var (
	// ErrOutOfOrder is returned when a comparison is requested before any score was computed.
	ErrOutOfOrder = errors.New("scorer used out of order: score must be called before comparing")
	// ErrScoreOutOfRange is returned when a classification score is outside [0, 1].
	ErrScoreOutOfRange = errors.New("score out of range")
	// ErrTaskMismatch is returned when a scorer is built for the wrong task.
	ErrTaskMismatch = errors.New("scorer task mismatch")
	// ErrUnknown is returned when no scorer is registered under an id.
	ErrUnknown = errors.New("unknown scorer")
)

// smoothing keeps lift finite for perfect or zero baselines.
const smoothing = 1e-6

// Scorer scores fitted estimators and compares baseline and experiment scores.
type Scorer interface {
	Task() dataset.Task
	Metric() metric.Metric
	// Score computes the metric of est on X against y and records the number of rows scored.
	Score(est estimator.Estimator, X mat.Matrix, y []float64) (float64, error)
	// IsExperimentScoreBetter compares an already hardened baseline with an experiment.
	IsExperimentScoreBetter(baseline, experiment float64) bool
	// CalculateLift is the relative improvement of experiment over baseline.
	CalculateLift(baseline, experiment float64) (float64, error)
	// IsExperimentBetterThanBaseline hardens the baseline by the required delta and compares.
	IsExperimentBetterThanBaseline(baseline, experiment, epsilon float64) (bool, error)
	// RequiredDelta is the margin an experiment must beat the baseline by.
	RequiredDelta(epsilon float64) (float64, error)
}

type base struct {
	metric   metric.Metric
	override *bool
	nRows    int
}

func (s *base) Metric() metric.Metric {
	return s.metric
}

func (s *base) Score(est estimator.Estimator, X mat.Matrix, y []float64) (float64, error) {
	predicted, err := est.Predict(X)
	if err != nil {
		return 0, errors.Wrap(err, "predicting for scoring")
	}
	if len(predicted) != len(y) {
		return 0, errors.Errorf("%d predictions for %d labels", len(predicted), len(y))
	}
	if len(y) == 0 {
		return 0, errors.New("cannot score zero rows")
	}
	s.nRows = len(y)
	return s.metric.Score(y, predicted), nil
}

func (s *base) IsExperimentScoreBetter(baseline, experiment float64) bool {
	if s.override != nil {
		return *s.override
	}
	return metric.IsBetter(experiment, baseline, s.metric)
}

// NRows is the number of rows of the most recent Score call.
func (s *base) NRows() int {
	return s.nRows
}

// Classification scores classifiers. Its required delta shrinks with the square root of the
// number of validation rows.
type Classification struct {
	base
}

// NewClassification creates a classification scorer. A nil metric means accuracy. A non-nil
// override replaces every score comparison with its value.
func NewClassification(m metric.Metric, override *bool) (*Classification, error) {
	if m == nil {
		m = metric.Default(dataset.Classification)
	}
	if m.Task() != dataset.Classification {
		return nil, errors.Wrapf(ErrTaskMismatch, "metric %s is not a classification metric", m.Name())
	}
	return &Classification{base{metric: m, override: override}}, nil
}

// Task is classification.
func (s *Classification) Task() dataset.Task {
	return dataset.Classification
}

// CalculateLift is the reduction in error rate, (e-b)/(1-b).
func (s *Classification) CalculateLift(baseline, experiment float64) (float64, error) {
	for _, v := range []float64{baseline, experiment} {
		if !(v >= 0 && v <= 1) {
			return 0, errors.Wrapf(ErrScoreOutOfRange, "%v is not in [0, 1]", v)
		}
	}
	return (experiment - baseline) / (1 - baseline + smoothing), nil
}

// RequiredDelta is ClassificationDelta of the rows last scored.
func (s *Classification) RequiredDelta(epsilon float64) (float64, error) {
	if s.nRows == 0 {
		return 0, ErrOutOfOrder
	}
	return ClassificationDelta(s.nRows, epsilon), nil
}

// IsExperimentBetterThanBaseline compares experiment against baseline plus the required delta.
func (s *Classification) IsExperimentBetterThanBaseline(baseline, experiment, epsilon float64) (bool, error) {
	delta, err := s.RequiredDelta(epsilon)
	if err != nil {
		return false, err
	}
	return s.IsExperimentScoreBetter(baseline+delta, experiment), nil
}

// Delta bounds for classification.
const (
	MinClassificationDelta = 0.001
	MaxClassificationDelta = 0.03
)

// ClassificationDelta is epsilon*sqrt(10000/nRows) clamped to
// [MinClassificationDelta, MaxClassificationDelta]. The standard deviation of an accuracy
// estimate falls with the square root of the number of rows.
func ClassificationDelta(nRows int, epsilon float64) float64 {
	if nRows <= 0 {
		return MaxClassificationDelta
	}
	d := epsilon * math.Sqrt(10000/float64(nRows))
	switch {
	case d < MinClassificationDelta:
		return MinClassificationDelta
	case d > MaxClassificationDelta:
		return MaxClassificationDelta
	}
	return d
}

// Regression scores regressors. Its required delta is epsilon, applied in the direction the
// metric improves.
type Regression struct {
	base
}

// NewRegression creates a regression scorer. A nil metric means r2.
func NewRegression(m metric.Metric, override *bool) (*Regression, error) {
	if m == nil {
		m = metric.Default(dataset.Regression)
	}
	if m.Task() != dataset.Regression {
		return nil, errors.Wrapf(ErrTaskMismatch, "metric %s is not a regression metric", m.Name())
	}
	return &Regression{base{metric: m, override: override}}, nil
}

// Task is regression.
func (s *Regression) Task() dataset.Task {
	return dataset.Regression
}

// CalculateLift is the improvement relative to the magnitude of the baseline, positive when the
// experiment is better.
func (s *Regression) CalculateLift(baseline, experiment float64) (float64, error) {
	if s.metric.Objective() == metric.Minimize {
		return (baseline - experiment) / (math.Abs(baseline) + smoothing), nil
	}
	return (experiment - baseline) / (math.Abs(baseline) + smoothing), nil
}

// RequiredDelta is epsilon.
func (s *Regression) RequiredDelta(epsilon float64) (float64, error) {
	if s.nRows == 0 {
		return 0, ErrOutOfOrder
	}
	return epsilon, nil
}

// IsExperimentBetterThanBaseline compares experiment against the baseline moved by epsilon in
// the direction the metric improves.
func (s *Regression) IsExperimentBetterThanBaseline(baseline, experiment, epsilon float64) (bool, error) {
	delta, err := s.RequiredDelta(epsilon)
	if err != nil {
		return false, err
	}
	if s.metric.Objective() == metric.Minimize {
		return s.IsExperimentScoreBetter(baseline-delta, experiment), nil
	}
	return s.IsExperimentScoreBetter(baseline+delta, experiment), nil
}
