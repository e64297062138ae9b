package metric

import (
	"github.com/hscells/sweep/dataset"
)

type accuracy struct{}
type balancedAccuracy struct{}
type f1Macro struct{}

var (
	// Accuracy is the fraction of correct predictions.
	Accuracy = accuracy{}
	// BalancedAccuracy is the mean per-class recall.
	BalancedAccuracy = balancedAccuracy{}
	// F1Macro is the unweighted mean of the per-class f-measure.
	F1Macro = f1Macro{}
)

func (accuracy) Name() string { return "accuracy" }
func (accuracy) Objective() Objective { return Maximize }
func (accuracy) Task() dataset.Task { return dataset.Classification }
func (balancedAccuracy) Name() string { return "balanced_accuracy" }
func (balancedAccuracy) Objective() Objective { return Maximize }
func (balancedAccuracy) Task() dataset.Task { return dataset.Classification }
func (f1Macro) Name() string { return "f1_macro" }
func (f1Macro) Objective() Objective { return Maximize }
func (f1Macro) Task() dataset.Task { return dataset.Classification }

func (accuracy) Score(actual, predicted []float64) float64 {
	if len(actual) == 0 {
		return 0
	}
	c := 0.0
	for i := range actual {
		if actual[i] == predicted[i] {
			c++
		}
	}
	return c / float64(len(actual))
}

// confusion counts true positives, false positives and false negatives per class.
type confusion struct {
	tp, fp, fn map[float64]float64
	classes    []float64
}

func newConfusion(actual, predicted []float64) confusion {
	c := confusion{
		tp:      map[float64]float64{},
		fp:      map[float64]float64{},
		fn:      map[float64]float64{},
		classes: dataset.Classes(append(append([]float64{}, actual...), predicted...)),
	}
	for i := range actual {
		if actual[i] == predicted[i] {
			c.tp[actual[i]]++
		} else {
			c.fp[predicted[i]]++
			c.fn[actual[i]]++
		}
	}
	return c
}

func (balancedAccuracy) Score(actual, predicted []float64) float64 {
	if len(actual) == 0 {
		return 0
	}
	c := newConfusion(actual, predicted)
	var (
		sum float64
		n   float64
	)
	for _, k := range dataset.Classes(actual) {
		support := c.tp[k] + c.fn[k]
		sum += c.tp[k] / support
		n++
	}
	return sum / n
}

func (f1Macro) Score(actual, predicted []float64) float64 {
	if len(actual) == 0 {
		return 0
	}
	c := newConfusion(actual, predicted)
	sum := 0.0
	for _, k := range c.classes {
		denom := 2*c.tp[k] + c.fp[k] + c.fn[k]
		if denom > 0 {
			sum += 2 * c.tp[k] / denom
		}
	}
	return sum / float64(len(c.classes))
}
