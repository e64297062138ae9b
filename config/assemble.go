package config

import (
	"strings"

	"github.com/hscells/sweep/estimator"
	"github.com/hscells/sweep/featurize"
	"github.com/hscells/sweep/purpose"
	"github.com/hscells/sweep/sampler"
	"github.com/hscells/sweep/scorer"
	"github.com/hscells/sweep/sweeper"
	"github.com/pkg/errors"
)

// Flags are caller decisions merged into a configuration.
type Flags struct {
	// EnableDNN keeps sweepers that require a neural network.
	EnableDNN bool
	// ForceDNN keeps and enables neural network sweepers and accepts their trials regardless of
	// score.
	ForceDNN bool
	// DatasetLanguage is passed to neural network featurizers as their language.
	DatasetLanguage string
}

// Assemble returns a copy of base with flags applied, validated. base is not modified.
func Assemble(base *Sweeping, flags Flags) (*Sweeping, error) {
	if base == nil {
		base = Default()
	}
	s, err := base.Clone()
	if err != nil {
		return nil, err
	}
	s.Sweepers = applyDNN(s.Sweepers, flags)
	s.Balancing = applyDNN(s.Balancing, flags)
	if err := Validate(s); err != nil {
		return nil, err
	}
	return s, nil
}

func applyDNN(sweepers []Sweeper, flags Flags) []Sweeper {
	var out []Sweeper
	for _, c := range sweepers {
		if c.RequiresDNN {
			if !flags.EnableDNN && !flags.ForceDNN {
				continue
			}
			if flags.ForceDNN {
				yes := true
				c.Enabled = &yes
				c.ExperimentResultOverride = &yes
			}
			if flags.DatasetLanguage != "" {
				withLanguage(c.Baseline.Featurizers, flags.DatasetLanguage)
				withLanguage(c.Experiment.Featurizers, flags.DatasetLanguage)
			}
		}
		out = append(out, c)
	}
	return out
}

func withLanguage(specs []featurize.Spec, language string) {
	for i := range specs {
		if _, ok := specs[i].Kwargs["language"]; ok {
			continue
		}
		if specs[i].Kwargs == nil {
			specs[i].Kwargs = make(map[string]interface{})
		}
		specs[i].Kwargs["language"] = language
	}
}

// Validate checks that enabled sweeper names are unique within each roster and that every
// referenced sampler, estimator, scorer, sweeper type and featurizer is registered.
func Validate(s *Sweeping) error {
	if s.TimeoutSeconds < 0 {
		return errors.Wrapf(ErrConfiguration, "timeout_seconds must not be negative, got %d", s.TimeoutSeconds)
	}
	for _, roster := range [][]Sweeper{s.Sweepers, s.Balancing} {
		names := make(map[string]bool)
		for _, c := range Enabled(roster) {
			if c.Name == "" {
				return errors.Wrap(ErrConfiguration, "sweeper without a name")
			}
			if names[c.Name] {
				return errors.Wrapf(ErrConfiguration, "duplicate sweeper name %q", c.Name)
			}
			names[c.Name] = true
			if err := validate(c); err != nil {
				return errors.Wrapf(ErrConfiguration, "sweeper %s: %v", c.Name, err)
			}
		}
	}
	return nil
}

func validate(c Sweeper) error {
	switch {
	case !sweeper.Known(c.Type):
		return errors.Wrapf(sweeper.ErrUnknown, "%s (known: %s)", c.Type, known(sweeper.Types()))
	case !sampler.Known(c.Sampler.ID):
		return errors.Errorf("unknown sampler %q (known: %s)", c.Sampler.ID, known(sampler.IDs()))
	case !estimator.Known(c.Estimator):
		return errors.Wrapf(estimator.ErrUnknown, "%s (known: %s)", c.Estimator, known(estimator.IDs()))
	case !scorer.Known(c.Scorer.ID):
		return errors.Wrapf(scorer.ErrUnknown, "%s (known: %s)", c.Scorer.ID, known(scorer.IDs()))
	case c.Epsilon < 0:
		return errors.Errorf("epsilon must not be negative, got %v", c.Epsilon)
	case c.Type == "binary" && len(c.Experiment.Featurizers) == 0:
		return errors.New("binary sweeper needs experiment featurizers")
	}
	for _, f := range append(append([]featurize.Spec(nil), c.Baseline.Featurizers...), c.Experiment.Featurizers...) {
		if !featurize.Known(f.ID) {
			return errors.Wrapf(featurize.ErrUnknown, "%s (known: %s)", f.ID, known(featurize.IDs()))
		}
	}
	for _, cp := range c.ColumnPurposes {
		if len(cp.Types) == 0 {
			return errors.New("column purposes without types")
		}
		for _, t := range cp.Types {
			if !purpose.Valid(t) {
				return errors.Errorf("unknown column purpose %q", t)
			}
		}
	}
	return nil
}

func known(ids []string) string {
	return strings.Join(ids, ", ")
}
