package scorer

import (
	"sort"

	"github.com/hscells/sweep/dataset"
	"github.com/hscells/sweep/metric"
	"github.com/pkg/errors"
)

// Args are the parameters a scorer is built from.
type Args struct {
	// Task is the task of the sweeper the scorer serves.
	Task dataset.Task
	// Kwargs may name a "metric".
	Kwargs map[string]interface{}
	// Override replaces score comparison when non-nil.
	Override *bool
}

// Constructor builds a scorer.
type Constructor func(Args) (Scorer, error)

var registry = map[string]Constructor{
	"default":        newDefault,
	"classification": newClassificationFromArgs,
	"regression":     newRegressionFromArgs,
}

// Register adds a scorer constructor under id.
func Register(id string, c Constructor) {
	registry[id] = c
}

// Known reports whether a scorer id is registered. The empty id is the default scorer.
func Known(id string) bool {
	_, ok := registry[id]
	return ok || id == ""
}

// IDs lists the registered scorer ids.
func IDs() []string {
	ids := make([]string, 0, len(registry))
	for id := range registry {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// New builds the scorer registered under id and checks it serves args.Task.
func New(id string, args Args) (Scorer, error) {
	if id == "" {
		id = "default"
	}
	c, ok := registry[id]
	if !ok {
		return nil, errors.Wrap(ErrUnknown, id)
	}
	s, err := c(args)
	if err != nil {
		return nil, errors.Wrapf(err, "creating scorer %s", id)
	}
	if s.Task() != args.Task {
		return nil, errors.Wrapf(ErrTaskMismatch, "scorer %s is for %s, sweeper is for %s", id, s.Task(), args.Task)
	}
	return s, nil
}

func lookupMetric(kwargs map[string]interface{}) (metric.Metric, error) {
	name, ok := kwargs["metric"].(string)
	if !ok || name == "" {
		return nil, nil
	}
	return metric.Lookup(name)
}

func newDefault(args Args) (Scorer, error) {
	if args.Task == dataset.Regression {
		return newRegressionFromArgs(args)
	}
	return newClassificationFromArgs(args)
}

func newClassificationFromArgs(args Args) (Scorer, error) {
	m, err := lookupMetric(args.Kwargs)
	if err != nil {
		return nil, err
	}
	return NewClassification(m, args.Override)
}

func newRegressionFromArgs(args Args) (Scorer, error) {
	m, err := lookupMetric(args.Kwargs)
	if err != nil {
		return nil, err
	}
	return NewRegression(m, args.Override)
}
