// Package sampler reduces a full dataset to a bounded-size sample that is cheap to evaluate
// sweep trials on.
package sampler

import (
	"math"
	"sort"

	"github.com/hscells/sweep/dataset"
	"github.com/pkg/errors"
)

// ErrConfiguration is returned when a sampler is constructed with invalid or missing parameters.
var ErrConfiguration = errors.New("invalid sampler configuration")

// MaxTrainFrac is the largest fraction of rows used for training; at least 20% of the rows are
// always left for validation.
const MaxTrainFrac = 0.8

// Sampler samples a dataset and describes how the sample should be split further.
type Sampler interface {
	Sample(data *dataset.Dataset) (*dataset.Dataset, dataset.SplittingConfig, error)
}

// CountSampler samples a dataset down to a row count, either driven by the number of examples
// required per class (constraint driven) or by a fixed training fraction.
type CountSampler struct {
	seed                int64
	minExamplesPerClass int
	maxRows             int
	isConstraintDriven  bool
	task                dataset.Task
	trainFrac           float64
}

// CountSamplerOption configures optional parameters of a CountSampler.
type CountSamplerOption func(*CountSampler)

// TrainFrac sets the training fraction used when the sampler is not constraint driven.
func TrainFrac(f float64) CountSamplerOption {
	return func(s *CountSampler) {
		s.trainFrac = f
	}
}

// NewCountSampler creates a count sampler. When isConstraintDriven is false a training fraction
// must be supplied with TrainFrac.
func NewCountSampler(seed int64, minExamplesPerClass, maxRows int, isConstraintDriven bool, task dataset.Task, options ...CountSamplerOption) (*CountSampler, error) {
	s := &CountSampler{
		seed:                seed,
		minExamplesPerClass: minExamplesPerClass,
		maxRows:             maxRows,
		isConstraintDriven:  isConstraintDriven,
		task:                task,
	}
	for _, option := range options {
		option(s)
	}

	if maxRows <= 0 {
		return nil, errors.Wrapf(ErrConfiguration, "max_rows must be positive, got %d", maxRows)
	}
	if task == dataset.Classification && minExamplesPerClass <= 0 {
		return nil, errors.Wrapf(ErrConfiguration, "min_examples_per_class must be positive, got %d", minExamplesPerClass)
	}
	if !isConstraintDriven {
		if s.trainFrac == 0 {
			return nil, errors.Wrap(ErrConfiguration, "is_constraint_driven requires train_frac when False")
		}
		if s.trainFrac < 0 || s.trainFrac > 1 {
			return nil, errors.Wrapf(ErrConfiguration, "train_frac %v is not in (0, 1]", s.trainFrac)
		}
	}
	return s, nil
}

// Fractions computes the training fraction, the test fraction and the total fraction of rows to
// sample for a dataset with nrows rows and numClasses classes.
func (s *CountSampler) Fractions(nrows, numClasses int) (trainFrac, testFrac, sampleFraction float64) {
	nTrain := s.maxRows
	if s.task == dataset.Classification {
		if n := numClasses * s.minExamplesPerClass; n < nTrain {
			nTrain = n
		}
	}
	constraintTrainFrac := float64(nTrain) / float64(nrows)

	trainFrac = s.trainFrac
	if s.isConstraintDriven {
		trainFrac = constraintTrainFrac
	}
	trainFrac = math.Min(trainFrac, MaxTrainFrac)

	// Keep the test portion from overlapping the train portion on small datasets.
	if trainFrac < 0.5 {
		return trainFrac, trainFrac, 2 * trainFrac
	}
	return trainFrac, 1 - trainFrac, 1
}

// Sample draws the sample. When the sample fraction covers the whole dataset it is returned
// unchanged. The returned SplittingConfig carries the test size relative to the sample.
func (s *CountSampler) Sample(data *dataset.Dataset) (*dataset.Dataset, dataset.SplittingConfig, error) {
	if err := data.Validate(); err != nil {
		return nil, dataset.SplittingConfig{}, err
	}
	nrows := data.NumRows()
	if nrows == 0 {
		return nil, dataset.SplittingConfig{}, errors.New("cannot sample an empty dataset")
	}

	_, testFrac, sampleFraction := s.Fractions(nrows, len(dataset.Classes(data.Y)))
	config := dataset.SplittingConfig{
		Task:     s.task,
		TestSize: testFrac / sampleFraction,
	}
	if sampleFraction >= 1 {
		return data, config, nil
	}

	// The sample is the "train" side of a split whose held out side is discarded.
	keep, _, _, err := dataset.SplitWithFallback(data.Y, 1-sampleFraction, s.task == dataset.Classification, s.seed)
	if err != nil {
		return nil, dataset.SplittingConfig{}, errors.Wrap(err, "sampling dataset")
	}
	sort.Ints(keep)
	return data.Take(keep), config, nil
}
