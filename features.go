package sweep

import (
	"context"
	"os"
	"path/filepath"

	"github.com/cheggaaa/pb/v3"
	"github.com/google/uuid"
	"github.com/hscells/sweep/dataset"
	"github.com/hscells/sweep/isolation"
	"github.com/hscells/sweep/purpose"
	"github.com/hscells/sweep/sweeper"
	"github.com/pkg/errors"
)

type batch struct {
	results  []Result
	outcomes []sweeper.Outcome
}

// scratch creates the scratch directory of one sweep and returns a function removing it.
func (m *MetaSweeper) scratch() (string, func(), error) {
	dir, err := os.MkdirTemp(m.tempDir, "sweep-"+uuid.NewString()+"-")
	if err != nil {
		return "", nil, errors.Wrap(err, "creating scratch directory")
	}
	return dir, func() {
		if err := os.RemoveAll(dir); err != nil {
			m.logger.Warn("could not remove scratch directory", "dir", dir, "error", err)
		}
	}, nil
}

func (m *MetaSweeper) bar(total int) *pb.ProgressBar {
	if m.progress == nil || total == 0 {
		return nil
	}
	return pb.New(total).SetWriter(m.progress).Start()
}

func observe(o sweeper.Outcome) {
	trialsTotal.WithLabelValues(o.Sweeper, o.State.String()).Inc()
	trialDuration.WithLabelValues(o.Sweeper).Observe(o.Duration.Seconds())
}

// SweepFeatures runs the feature sweepers over the columns of ds. purposes tags the columns;
// when nil they are detected. Only configuration errors are returned: trial failures reject the
// trial, and a batch that fails or runs out of time yields the results it checkpointed.
func (m *MetaSweeper) SweepFeatures(ctx context.Context, ds *dataset.Dataset, task dataset.Task, purposes []purpose.ColumnPurpose) (*Report, error) {
	report := &Report{}
	if !m.config.Enabled {
		report.Skipped = "sweeping disabled"
		return report, nil
	}
	if reason := precondition(ds); reason != "" {
		m.logger.Info("skipping feature sweep", "reason", reason)
		report.Skipped = reason
		return report, nil
	}
	if purposes == nil {
		purposes = m.detector.Detect(ds.X)
	}

	workdir, cleanup, err := m.scratch()
	if err != nil {
		return nil, err
	}
	defer cleanup()

	sweepers, err := m.build(m.config.Sweepers, ds, task, workdir)
	if err != nil {
		return nil, err
	}

	type job struct {
		b     built
		trial sweeper.Trial
	}
	var jobs []job
	for _, b := range sweepers {
		for _, t := range trials(b.config, purposes) {
			jobs = append(jobs, job{b, t})
		}
	}
	if len(jobs) == 0 {
		report.Skipped = "no eligible columns"
		return report, nil
	}

	path := filepath.Join(workdir, "checkpoint.jsonl")
	cp, err := createCheckpoint(path)
	if err != nil {
		return nil, err
	}
	defer cp.Close()

	bar := m.bar(len(jobs))
	outcome, err := m.executor.Execute(ctx, workdir, func(ctx context.Context) (interface{}, error) {
		var out batch
		for _, j := range jobs {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			o := j.b.sweeper.Run(ctx, j.trial)
			observe(o)
			out.outcomes = append(out.outcomes, o)
			if bar != nil {
				bar.Increment()
			}
			if !o.Accepted {
				continue
			}
			if err := cp.Append(CheckpointRecord{SweeperIndex: j.b.index, Columns: j.trial.Columns, Separate: j.trial.Separate}); err != nil {
				return nil, err
			}
			r, err := m.result(j.b, j.trial.Columns, j.trial.Separate)
			if err != nil {
				return nil, err
			}
			out.results = append(out.results, r)
		}
		return &out, nil
	})
	if bar != nil {
		bar.Finish()
	}

	reason := ""
	switch {
	case err != nil:
		reason = "executor_error"
		outcome.Status = isolation.Failed
		m.logger.Warn("feature sweep batch could not run", "error", err)
	case outcome.Status != isolation.Completed:
		reason = outcome.Status.String()
		m.logger.Warn("feature sweep batch did not complete", "status", outcome.Status.String(), "duration", outcome.Diagnostics.Duration, "error", outcome.Diagnostics.Err, "stack", outcome.Diagnostics.Stack)
	case outcome.Result == nil:
		reason = "no_result"
		m.logger.Warn("feature sweep batch returned no result")
	}
	batchesTotal.WithLabelValues("features", outcome.Status.String()).Inc()
	report.Status = outcome.Status

	if reason == "" {
		if b, ok := outcome.Result.(*batch); ok && b != nil {
			report.Results = b.results
			report.count(b.outcomes)
			return report, nil
		}
		reason = "no_result"
	}

	// Appends made after this point by a batch still running in the background fail.
	if err := cp.Close(); err != nil {
		m.logger.Warn("closing checkpoint", "error", err)
	}
	report.Results = m.replay(path, sweepers)
	report.Accepted = len(report.Results)
	report.Recovered = true
	recoveriesTotal.WithLabelValues(reason).Inc()
	recoveredResultsTotal.Add(float64(len(report.Results)))
	m.logger.Info("recovered feature sweep results from checkpoint", "results", len(report.Results), "reason", reason)
	return report, nil
}

// replay rebuilds the results of the decisions recorded in the checkpoint, in order.
func (m *MetaSweeper) replay(path string, sweepers []built) []Result {
	byIndex := make(map[int]built, len(sweepers))
	for _, b := range sweepers {
		byIndex[b.index] = b
	}
	var results []Result
	for _, r := range readCheckpoint(path, m.logger) {
		b, ok := byIndex[r.SweeperIndex]
		if !ok {
			m.logger.Warn("checkpoint refers to an unknown sweeper, stopping recovery", "sweeper_index", r.SweeperIndex)
			break
		}
		res, err := m.result(b, r.Columns, r.Separate)
		if err != nil {
			m.logger.Warn("could not rebuild recovered result, stopping recovery", "sweeper", b.config.Name, "columns", r.Columns, "error", err)
			break
		}
		results = append(results, res)
	}
	return results
}
