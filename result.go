package sweep

import (
	"github.com/hscells/sweep/featurize"
	"github.com/hscells/sweep/isolation"
	"github.com/hscells/sweep/sweeper"
)

// Result is an accepted feature sweep: the experiment pipeline improved the model on Columns.
type Result struct {
	Sweeper    string              `json:"sweeper"`
	Columns    []string            `json:"columns"`
	Experiment *featurize.Pipeline `json:"experiment"`
}

// Report summarises a sweep.
type Report struct {
	Results []Result `json:"results"`
	// Outcomes holds every trial outcome. It is empty when results were recovered.
	Outcomes []sweeper.Outcome `json:"-"`
	Accepted int               `json:"accepted"`
	Rejected int               `json:"rejected"`
	Failed   int               `json:"failed"`
	// Status is how the isolated batch ended.
	Status isolation.Status `json:"-"`
	// Recovered is set when results were replayed from the checkpoint.
	Recovered bool `json:"recovered"`
	// Skipped names a reason the dataset could not be swept at all.
	Skipped string `json:"skipped,omitempty"`
}

// count tallies outcomes into the report counters.
func (r *Report) count(outcomes []sweeper.Outcome) {
	r.Outcomes = outcomes
	for _, o := range outcomes {
		switch {
		case o.Accepted:
			r.Accepted++
		case o.Err != nil:
			r.Failed++
		default:
			r.Rejected++
		}
	}
}

// BalancingReport summarises a class balancing sweep.
type BalancingReport struct {
	// Strategies are the names of the accepted balancing sweepers.
	Strategies []string          `json:"strategies"`
	Outcomes   []sweeper.Outcome `json:"-"`
	Status     isolation.Status  `json:"-"`
	// Discarded is set when the batch failed and its results were dropped.
	Discarded bool   `json:"discarded,omitempty"`
	Skipped   string `json:"skipped,omitempty"`
}
