package metric

import (
	"math"

	"github.com/hscells/sweep/dataset"
	"gonum.org/v1/gonum/stat"
)

type r2 struct{}
type rmse struct{}
type mae struct{}

var (
	// R2 is the coefficient of determination.
	R2 = r2{}
	// RMSE is the root mean squared error.
	RMSE = rmse{}
	// MAE is the mean absolute error.
	MAE = mae{}
)

func (r2) Name() string { return "r2" }
func (r2) Objective() Objective { return Maximize }
func (r2) Task() dataset.Task { return dataset.Regression }

func (r2) Score(actual, predicted []float64) float64 {
	if len(actual) == 0 {
		return 0
	}
	return stat.RSquaredFrom(predicted, actual, nil)
}

func (rmse) Name() string { return "rmse" }
func (rmse) Objective() Objective { return Minimize }
func (rmse) Task() dataset.Task { return dataset.Regression }

func (rmse) Score(actual, predicted []float64) float64 {
	if len(actual) == 0 {
		return 0
	}
	s := 0.0
	for i := range actual {
		d := predicted[i] - actual[i]
		s += d * d
	}
	return math.Sqrt(s / float64(len(actual)))
}

func (mae) Name() string { return "mae" }
func (mae) Objective() Objective { return Minimize }
func (mae) Task() dataset.Task { return dataset.Regression }

func (mae) Score(actual, predicted []float64) float64 {
	if len(actual) == 0 {
		return 0
	}
	s := 0.0
	for i := range actual {
		s += math.Abs(predicted[i] - actual[i])
	}
	return s / float64(len(actual))
}
