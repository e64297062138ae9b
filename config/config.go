// Package config describes the sweepers of a sweep run. The roster is read from YAML and run
// settings from a properties file.
package config

import (
	_ "embed"
	"os"

	"github.com/hscells/sweep/featurize"
	"github.com/hscells/sweep/purpose"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// ErrConfiguration is wrapped by every error caused by an invalid configuration.
var ErrConfiguration = errors.New("invalid sweep configuration")

//go:embed default.yaml
var defaultYAML []byte

// Sweeping is the configuration of all sweeps in a run.
type Sweeping struct {
	Enabled         bool      `yaml:"enabled"`
	TimeoutSeconds  int       `yaml:"timeout_seconds"`
	PageSampledData bool      `yaml:"page_sampled_data"`
	Sweepers        []Sweeper `yaml:"sweepers"`
	Balancing       []Sweeper `yaml:"balancing,omitempty"`
	// BlockedTransformers are featurizers no sweeper may use.
	BlockedTransformers []string `yaml:"blocked_transformers,omitempty"`
}

// Sweeper configures a single sweeper.
type Sweeper struct {
	Name           string            `yaml:"name"`
	Type           string            `yaml:"type"`
	Enabled        *bool             `yaml:"enabled,omitempty"`
	RequiresDNN    bool              `yaml:"requires_dnn,omitempty"`
	Sampler        Sampler           `yaml:"sampler"`
	Estimator      string            `yaml:"estimator,omitempty"`
	Scorer         Scorer            `yaml:"scorer"`
	Baseline       Pipeline          `yaml:"baseline,omitempty"`
	Experiment     Pipeline          `yaml:"experiment,omitempty"`
	Epsilon        float64           `yaml:"epsilon"`
	CrossValidate  int               `yaml:"cross_validation,omitempty"`
	ColumnPurposes []ColumnPurposes `yaml:"column_purposes,omitempty"`
	// ExperimentResultOverride replaces the score comparison of every trial when set.
	ExperimentResultOverride *bool `yaml:"experiment_result_override,omitempty"`
}

// IsEnabled reports whether the sweeper runs. Sweepers are enabled unless disabled explicitly.
func (s Sweeper) IsEnabled() bool {
	return s.Enabled == nil || *s.Enabled
}

// Sampler names a sampler and its arguments.
type Sampler struct {
	ID     string                 `yaml:"id"`
	Args   []interface{}          `yaml:"args,omitempty"`
	Kwargs map[string]interface{} `yaml:"kwargs,omitempty"`
}

// Scorer names a scorer and its arguments, such as the metric.
type Scorer struct {
	ID     string                 `yaml:"id"`
	Kwargs map[string]interface{} `yaml:"kwargs,omitempty"`
}

// Pipeline lists featurizers.
type Pipeline struct {
	Featurizers             []featurize.Spec `yaml:"featurizers,omitempty"`
	IncludeBaselineFeatures bool             `yaml:"include_baseline_features,omitempty"`
}

// ColumnPurposes selects the columns a sweeper targets.
type ColumnPurposes struct {
	Types []purpose.Purpose `yaml:"types"`
	// Group makes a single trial over all selected columns instead of one trial per column.
	Group               bool `yaml:"group,omitempty"`
	FeaturizeSeparately bool `yaml:"featurize_separately,omitempty"`
}

// Parse reads a sweeping configuration from YAML.
func Parse(data []byte) (*Sweeping, error) {
	var s Sweeping
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, errors.Wrapf(ErrConfiguration, "parsing yaml: %v", err)
	}
	return &s, nil
}

// Load reads a sweeping configuration from a YAML file.
func Load(path string) (*Sweeping, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Default returns a new copy of the built-in configuration.
func Default() *Sweeping {
	s, err := Parse(defaultYAML)
	if err != nil {
		panic(err)
	}
	return s
}

// Clone returns a deep copy of s.
func (s *Sweeping) Clone() (*Sweeping, error) {
	data, err := yaml.Marshal(s)
	if err != nil {
		return nil, errors.Wrap(err, "copying configuration")
	}
	return Parse(data)
}

// Enabled returns the enabled sweepers.
func Enabled(sweepers []Sweeper) []Sweeper {
	var out []Sweeper
	for _, s := range sweepers {
		if s.IsEnabled() {
			out = append(out, s)
		}
	}
	return out
}

// ExperimentSpecs are the featurizers of the experiment side, including the baseline ones when
// configured.
func (s Sweeper) ExperimentSpecs() []featurize.Spec {
	if s.Experiment.IncludeBaselineFeatures {
		return featurize.Union(s.Baseline.Featurizers, s.Experiment.Featurizers)
	}
	return s.Experiment.Featurizers
}

