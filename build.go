package sweep

import (
	"fmt"
	"path/filepath"

	"github.com/hscells/sweep/config"
	"github.com/hscells/sweep/dataset"
	"github.com/hscells/sweep/estimator"
	"github.com/hscells/sweep/featurize"
	"github.com/hscells/sweep/provider"
	"github.com/hscells/sweep/purpose"
	"github.com/hscells/sweep/sampler"
	"github.com/hscells/sweep/scorer"
	"github.com/hscells/sweep/sweeper"
	"github.com/pkg/errors"
)

// built is a sweeper constructed from the enabled config at index.
type built struct {
	index   int
	config  config.Sweeper
	sweeper sweeper.Sweeper
}

// precondition returns why a dataset cannot be swept, or the empty string.
func precondition(ds *dataset.Dataset) string {
	switch {
	case ds == nil || ds.X == nil || ds.Y == nil:
		return "missing features or labels"
	case ds.X.NumRows() != len(ds.Y):
		return fmt.Sprintf("%d feature rows but %d labels", ds.X.NumRows(), len(ds.Y))
	case len(dataset.Classes(ds.Y)) < 2:
		return "fewer than two distinct labels"
	}
	return ""
}

// build constructs the enabled sweepers of roster. Sweepers whose featurizers are blocked are
// skipped. Any other construction failure is a configuration error.
func (m *MetaSweeper) build(roster []config.Sweeper, ds *dataset.Dataset, task dataset.Task, workdir string) ([]built, error) {
	var store *dataset.PageStore
	if m.paging() {
		store = dataset.NewPageStore(filepath.Join(workdir, "pages"))
	}

	var out []built
	for i, c := range config.Enabled(roster) {
		if err := featurize.Check(append(append([]featurize.Spec(nil), c.Baseline.Featurizers...), c.Experiment.Featurizers...), m.featurization); err != nil {
			if errors.Is(err, featurize.ErrBlocked) {
				m.logger.Info("skipping sweeper with blocked featurizer", "sweeper", c.Name, "reason", err.Error())
				continue
			}
			return nil, errors.Wrapf(config.ErrConfiguration, "sweeper %s: %v", c.Name, err)
		}

		s, err := m.construct(i, c, ds, task, store)
		if err != nil {
			return nil, errors.Wrapf(config.ErrConfiguration, "sweeper %s: %v", c.Name, err)
		}
		out = append(out, built{index: i, config: c, sweeper: s})
	}
	return out, nil
}

func (m *MetaSweeper) construct(index int, c config.Sweeper, ds *dataset.Dataset, task dataset.Task, store *dataset.PageStore) (sweeper.Sweeper, error) {
	smp, err := sampler.New(c.Sampler.ID, sampler.Args{Seed: m.seed, Task: task, Args: c.Sampler.Args, Kwargs: c.Sampler.Kwargs})
	if err != nil {
		return nil, err
	}
	sampled, split, err := smp.Sample(ds)
	if err != nil {
		return nil, errors.Wrap(err, "sampling")
	}
	split.NumberCrossValidation = c.CrossValidate

	var p provider.DataProvider
	if store != nil {
		key := fmt.Sprintf("sweeper-%d", index)
		if err := store.Store(key, sampled); err != nil {
			return nil, errors.Wrap(err, "paging sampled data")
		}
		p = provider.NewDiskBased(store, key, split, m.seed)
	} else if p, err = provider.NewInMemory(sampled, split, m.seed); err != nil {
		return nil, err
	}

	est, err := estimator.New(c.Estimator, estimator.Args{Task: task, Seed: m.seed})
	if err != nil {
		return nil, err
	}
	sc, err := scorer.New(c.Scorer.ID, scorer.Args{Task: task, Kwargs: c.Scorer.Kwargs, Override: c.ExperimentResultOverride})
	if err != nil {
		return nil, err
	}
	return sweeper.New(c.Type, sweeper.Options{
		Name:          c.Name,
		Task:          task,
		Provider:      p,
		Estimator:     est,
		Scorer:        sc,
		Baseline:      c.Baseline.Featurizers,
		Experiment:    c.ExperimentSpecs(),
		Epsilon:       c.Epsilon,
		CrossValidate: c.CrossValidate >= 2,
		Featurization: m.featurization,
		Logger:        m.logger,
	})
}

// trials lists the trials of a sweeper over the columns whose purposes it targets. Grouped
// purposes give one trial over all their columns, the others one trial per column. Whether a
// group is featurized column by column comes from the entry that selected it.
func trials(c config.Sweeper, purposes []purpose.ColumnPurpose) []sweeper.Trial {
	byColumn := make(map[string]purpose.Purpose, len(purposes))
	for _, cp := range purposes {
		byColumn[cp.Column] = cp.Purpose
	}
	var out []sweeper.Trial
	for _, cp := range c.ColumnPurposes {
		columns := purpose.Columns(purposes, cp.Types...)
		if len(columns) == 0 {
			continue
		}
		if cp.Group {
			out = append(out, sweeper.Trial{Columns: columns, Separate: cp.FeaturizeSeparately && len(columns) > 1, Purposes: byColumn})
			continue
		}
		for _, col := range columns {
			out = append(out, sweeper.Trial{Columns: []string{col}, Purposes: byColumn})
		}
	}
	return out
}

// result is the Result of an accepted trial. Live and recovered results are both made here.
func (m *MetaSweeper) result(b built, columns []string, separate bool) (Result, error) {
	p, err := featurize.NewPipeline(columns, b.config.ExperimentSpecs(), separate, m.featurization)
	if err != nil {
		return Result{}, err
	}
	return Result{Sweeper: b.config.Name, Columns: columns, Experiment: p}, nil
}
