// Package sweep decides which candidate featurizations and class balancing strategies improve a
// model enough to be kept. A MetaSweeper runs every configured sweeper over the eligible columns
// of a dataset under a time budget, checkpointing each accepted decision so that a batch that
// crashes or runs out of time still yields the decisions it committed.
package sweep

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/hscells/sweep/config"
	"github.com/hscells/sweep/featurize"
	"github.com/hscells/sweep/isolation"
	"github.com/hscells/sweep/purpose"
	"github.com/pkg/errors"
)

// MetaSweeper builds sweepers from a configuration and runs them.
type MetaSweeper struct {
	base          *config.Sweeping
	flags         config.Flags
	config        *config.Sweeping
	executor      isolation.Executor
	timeout       time.Duration
	seed          int64
	detector      purpose.Detector
	logger        *slog.Logger
	progress      io.Writer
	tempDir       string
	featurization featurize.Config
	pageToDisk    *bool
}

// Configuration sets the sweeping configuration. The built-in one is used otherwise.
func Configuration(c *config.Sweeping) func(*MetaSweeper) {
	return func(m *MetaSweeper) {
		m.base = c
	}
}

// EnableDNN keeps sweepers that need a neural network.
func EnableDNN(enable bool) func(*MetaSweeper) {
	return func(m *MetaSweeper) {
		m.flags.EnableDNN = enable
	}
}

// ForceDNN keeps neural network sweepers and accepts their trials regardless of score.
func ForceDNN(force bool) func(*MetaSweeper) {
	return func(m *MetaSweeper) {
		m.flags.ForceDNN = force
	}
}

// DatasetLanguage is the ISO 639-3 language of the text in the dataset.
func DatasetLanguage(language string) func(*MetaSweeper) {
	return func(m *MetaSweeper) {
		m.flags.DatasetLanguage = language
		m.featurization.DatasetLanguage = language
	}
}

// Isolation sets the executor batches run in.
func Isolation(e isolation.Executor) func(*MetaSweeper) {
	return func(m *MetaSweeper) {
		m.executor = e
	}
}

// Timeout is the wall-clock budget of a batch. It overrides the configured timeout.
func Timeout(d time.Duration) func(*MetaSweeper) {
	return func(m *MetaSweeper) {
		m.timeout = d
	}
}

// Seed seeds sampling, splitting and estimators.
func Seed(seed int64) func(*MetaSweeper) {
	return func(m *MetaSweeper) {
		m.seed = seed
	}
}

// Detector sets the column purpose detector used when no purposes are given.
func Detector(d purpose.Detector) func(*MetaSweeper) {
	return func(m *MetaSweeper) {
		m.detector = d
	}
}

// Logger sets the logger.
func Logger(l *slog.Logger) func(*MetaSweeper) {
	return func(m *MetaSweeper) {
		m.logger = l
	}
}

// Progress draws a progress bar of the trials to w.
func Progress(w io.Writer) func(*MetaSweeper) {
	return func(m *MetaSweeper) {
		m.progress = w
	}
}

// TempDir is the directory scratch directories are created in.
func TempDir(dir string) func(*MetaSweeper) {
	return func(m *MetaSweeper) {
		m.tempDir = dir
	}
}

// BlockedTransformers are featurizers that must not be used. Sweepers that need them are skipped.
func BlockedTransformers(ids ...string) func(*MetaSweeper) {
	return func(m *MetaSweeper) {
		m.featurization.BlockedTransformers = append(m.featurization.BlockedTransformers, ids...)
	}
}

// PageToDisk overrides whether sampled data is paged to disk.
func PageToDisk(page bool) func(*MetaSweeper) {
	return func(m *MetaSweeper) {
		m.pageToDisk = &page
	}
}

// Settings applies run settings.
func Settings(s config.Settings) func(*MetaSweeper) {
	return func(m *MetaSweeper) {
		EnableDNN(s.EnableDNN)(m)
		ForceDNN(s.ForceDNN)(m)
		DatasetLanguage(s.DatasetLanguage)(m)
		Timeout(s.Timeout)(m)
		Seed(s.Seed)(m)
		PageToDisk(s.PageToDisk)(m)
		BlockedTransformers(s.BlockedTransformers...)(m)
	}
}

// NewMetaSweeper creates a meta sweeper. The configuration is assembled and validated here, so
// configuration errors are reported before any trial runs.
func NewMetaSweeper(options ...func(*MetaSweeper)) (*MetaSweeper, error) {
	m := &MetaSweeper{}
	for _, option := range options {
		option(m)
	}

	c, err := config.Assemble(m.base, m.flags)
	if err != nil {
		return nil, err
	}
	m.config = c
	m.featurization.BlockedTransformers = append(m.featurization.BlockedTransformers, c.BlockedTransformers...)

	if m.timeout <= 0 {
		m.timeout = time.Duration(c.TimeoutSeconds) * time.Second
	}
	if m.executor == nil {
		m.executor = isolation.NewInProcess(m.timeout)
	}
	if m.detector == nil {
		m.detector = purpose.NewHeuristicDetector()
	}
	if m.logger == nil {
		m.logger = slog.Default()
	}
	if m.tempDir == "" {
		m.tempDir = os.TempDir()
	}
	if _, err := os.Stat(m.tempDir); err != nil {
		return nil, errors.Wrapf(config.ErrConfiguration, "temp dir: %v", err)
	}
	return m, nil
}

// Config is the assembled configuration.
func (m *MetaSweeper) Config() *config.Sweeping {
	return m.config
}

func (m *MetaSweeper) paging() bool {
	if m.pageToDisk != nil {
		return *m.pageToDisk
	}
	return m.config.PageSampledData
}
