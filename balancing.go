package sweep

import (
	"context"
	"sort"

	"github.com/hscells/sweep/dataset"
	"github.com/hscells/sweep/isolation"
	"github.com/hscells/sweep/purpose"
	"github.com/hscells/sweep/sweeper"
)

// SweepBalancing runs the class balancing sweepers, each as one trial over every usable column.
// Balancing only applies to classification. Unlike a feature sweep nothing is checkpointed: if
// the batch fails or runs out of time its results are discarded.
func (m *MetaSweeper) SweepBalancing(ctx context.Context, ds *dataset.Dataset, task dataset.Task, purposes []purpose.ColumnPurpose) (*BalancingReport, error) {
	report := &BalancingReport{}
	switch {
	case !m.config.Enabled:
		report.Skipped = "sweeping disabled"
		return report, nil
	case task != dataset.Classification:
		report.Skipped = "balancing needs a classification task"
		return report, nil
	}
	if reason := precondition(ds); reason != "" {
		m.logger.Info("skipping balancing sweep", "reason", reason)
		report.Skipped = reason
		return report, nil
	}
	if purposes == nil {
		purposes = m.detector.Detect(ds.X)
	}

	trial := sweeper.Trial{Purposes: make(map[string]purpose.Purpose)}
	for _, cp := range purposes {
		if cp.Purpose == purpose.Ignore {
			continue
		}
		trial.Columns = append(trial.Columns, cp.Column)
		trial.Purposes[cp.Column] = cp.Purpose
	}
	sort.Strings(trial.Columns)
	if len(trial.Columns) == 0 {
		report.Skipped = "no eligible columns"
		return report, nil
	}

	workdir, cleanup, err := m.scratch()
	if err != nil {
		return nil, err
	}
	defer cleanup()

	sweepers, err := m.build(m.config.Balancing, ds, task, workdir)
	if err != nil {
		return nil, err
	}
	if len(sweepers) == 0 {
		return report, nil
	}

	bar := m.bar(len(sweepers))
	outcome, err := m.executor.Execute(ctx, workdir, func(ctx context.Context) (interface{}, error) {
		var outcomes []sweeper.Outcome
		for _, b := range sweepers {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			o := b.sweeper.Run(ctx, trial)
			observe(o)
			outcomes = append(outcomes, o)
			if bar != nil {
				bar.Increment()
			}
		}
		return outcomes, nil
	})
	if bar != nil {
		bar.Finish()
	}
	if err != nil {
		outcome.Status = isolation.Failed
	}
	batchesTotal.WithLabelValues("balancing", outcome.Status.String()).Inc()
	report.Status = outcome.Status

	outcomes, ok := outcome.Result.([]sweeper.Outcome)
	if err != nil || outcome.Status != isolation.Completed || !ok {
		m.logger.Warn("balancing sweep batch failed, discarding its results", "status", outcome.Status.String(), "error", firstErr(err, outcome.Diagnostics.Err))
		report.Discarded = true
		return report, nil
	}
	report.Outcomes = outcomes
	for _, o := range outcomes {
		if o.Accepted {
			report.Strategies = append(report.Strategies, o.Sweeper)
		}
	}
	return report, nil
}

func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
