// Package provider supplies train/validation (and cross validation) splits of a dataset to a sweeper.
package provider

import (
	"sync"

	"github.com/hscells/sweep/dataset"
	"github.com/pkg/errors"
)

// ErrCrossValidationUnsupported is returned by providers that cannot produce folds.
var ErrCrossValidationUnsupported = errors.New("cross validation not supported")

// Fold is a single train/validation pair.
type Fold struct {
	Train *dataset.Dataset
	Valid *dataset.Dataset
}

// DataProvider supplies splits of a dataset.
type DataProvider interface {
	TrainValidation() (train, valid *dataset.Dataset, err error)
	CrossValidation() ([]Fold, error)
}

// InMemory splits a resident dataset. Classification datasets are stratified by label, falling
// back to a plain random split when a class has too few members.
type InMemory struct {
	data   *dataset.Dataset
	config dataset.SplittingConfig
	seed   int64
}

// NewInMemory creates a provider over the dataset.
func NewInMemory(data *dataset.Dataset, config dataset.SplittingConfig, seed int64) (*InMemory, error) {
	if err := data.Validate(); err != nil {
		return nil, err
	}
	return &InMemory{data: data, config: config, seed: seed}, nil
}

// TrainValidation splits the dataset using the configured test fraction.
func (p *InMemory) TrainValidation() (*dataset.Dataset, *dataset.Dataset, error) {
	train, valid, _, err := dataset.SplitWithFallback(p.data.Y, p.config.TestFraction(), p.config.Task == dataset.Classification, p.seed)
	if err != nil {
		return nil, nil, err
	}
	return p.data.Take(train), p.data.Take(valid), nil
}

// CrossValidation produces NumberCrossValidation folds, or ErrCrossValidationUnsupported if
// fewer than two folds were configured.
func (p *InMemory) CrossValidation() ([]Fold, error) {
	k := p.config.NumberCrossValidation
	if k < 2 {
		return nil, ErrCrossValidationUnsupported
	}
	stratify := p.config.Task == dataset.Classification
	held, err := dataset.KFold(p.data.Y, k, stratify, p.seed)
	if err != nil && stratify && errors.Is(err, dataset.ErrStratify) {
		held, err = dataset.KFold(p.data.Y, k, false, p.seed)
	}
	if err != nil {
		return nil, err
	}
	folds := make([]Fold, k)
	for i, h := range held {
		folds[i] = Fold{
			Train: p.data.Take(dataset.Complement(p.data.NumRows(), h)),
			Valid: p.data.Take(h),
		}
	}
	return folds, nil
}

// DiskBased defers loading its dataset until one of the accessors is first called. The dataset
// is read exactly once and the resulting InMemory provider is reused for every later call.
type DiskBased struct {
	loader dataset.Loader
	key    string
	config dataset.SplittingConfig
	seed   int64

	once     sync.Once
	provider *InMemory
	err      error
}

// NewDiskBased creates a provider that loads the dataset stored under key.
func NewDiskBased(loader dataset.Loader, key string, config dataset.SplittingConfig, seed int64) *DiskBased {
	return &DiskBased{loader: loader, key: key, config: config, seed: seed}
}

func (p *DiskBased) materialise() (*InMemory, error) {
	p.once.Do(func() {
		var data *dataset.Dataset
		data, p.err = p.loader.Load(p.key)
		if p.err != nil {
			return
		}
		p.provider, p.err = NewInMemory(data, p.config, p.seed)
	})
	return p.provider, p.err
}

// TrainValidation loads the dataset if needed and splits it.
func (p *DiskBased) TrainValidation() (*dataset.Dataset, *dataset.Dataset, error) {
	m, err := p.materialise()
	if err != nil {
		return nil, nil, err
	}
	return m.TrainValidation()
}

// CrossValidation loads the dataset if needed and folds it.
func (p *DiskBased) CrossValidation() ([]Fold, error) {
	m, err := p.materialise()
	if err != nil {
		return nil, err
	}
	return m.CrossValidation()
}
