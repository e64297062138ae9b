// Package metric provides the evaluation measures used to score sweep trials, together with the
// knowledge of whether a measure should be minimised or maximised.
package metric

import (
	"math"
	"sort"

	"github.com/hscells/sweep/dataset"
	"github.com/pkg/errors"
)

// Objective is the direction in which a metric improves.
type Objective uint8

const (
	// Maximize means larger values are better.
	Maximize Objective = iota
	// Minimize means smaller values are better.
	Minimize
)

func (o Objective) String() string {
	if o == Minimize {
		return "minimize"
	}
	return "maximize"
}

// Metric scores predictions against actual values.
type Metric interface {
	// Name is the name of the metric. It should not contain any spaces.
	Name() string
	// Score computes the metric for the predictions.
	Score(actual, predicted []float64) float64
	// Objective is the direction in which the metric improves.
	Objective() Objective
	// Task is the kind of problem the metric applies to.
	Task() dataset.Task
}

// ErrUnknownMetric is returned when a metric name is not registered.
var ErrUnknownMetric = errors.New("unknown metric")

var registry = map[string]Metric{}

func register(metrics ...Metric) {
	for _, m := range metrics {
		registry[m.Name()] = m
	}
}

func init() {
	register(Accuracy, BalancedAccuracy, F1Macro, R2, RMSE, MAE)
}

// Lookup finds a metric by name.
func Lookup(name string) (Metric, error) {
	m, ok := registry[name]
	if !ok {
		return nil, errors.Wrap(ErrUnknownMetric, name)
	}
	return m, nil
}

// Names lists the registered metric names.
func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Default is the metric used for a task when none is configured.
func Default(task dataset.Task) Metric {
	if task == dataset.Regression {
		return R2
	}
	return Accuracy
}

// IsBetter reports whether score a is strictly better than score b under the metric. A NaN on
// either side is never better.
func IsBetter(a, b float64, m Metric) bool {
	if math.IsNaN(a) || math.IsNaN(b) {
		return false
	}
	if m.Objective() == Minimize {
		return a < b
	}
	return a > b
}
