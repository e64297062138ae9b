// Package output formats sweep reports.
package output

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/hscells/sweep"
	"github.com/hscells/sweep/sweeper"
	"github.com/pkg/errors"
)

// Reports are the reports of one run. Either may be nil.
type Reports struct {
	Features  *sweep.Report          `json:"features,omitempty"`
	Balancing *sweep.BalancingReport `json:"balancing,omitempty"`
}

// Formatter renders reports.
type Formatter func(Reports) (string, error)

// Lookup returns the formatter with the given name.
func Lookup(name string) (Formatter, error) {
	switch name {
	case "json":
		return JSONFormatter, nil
	case "tsv":
		return TSVFormatter, nil
	}
	return nil, errors.Errorf("unknown output format %q", name)
}

// JSONFormatter outputs the accepted results in an indented JSON format.
func JSONFormatter(r Reports) (string, error) {
	v, err := json.MarshalIndent(r, "", "    ")
	if err != nil {
		return "", err
	}
	return string(v), nil
}

// TSVFormatter outputs one line per trial outcome.
func TSVFormatter(r Reports) (string, error) {
	var b strings.Builder
	b.WriteString("mode\tsweeper\tcolumns\tstate\tbaseline\texperiment\tlift\terror\n")
	if r.Features != nil {
		for _, o := range r.Features.Outcomes {
			line(&b, "features", o)
		}
		// Recovered sweeps only know their accepted results.
		if r.Features.Recovered {
			for _, res := range r.Features.Results {
				fmt.Fprintf(&b, "features\t%s\t%s\trecovered\t\t\t\t\n", res.Sweeper, strings.Join(res.Columns, ","))
			}
		}
	}
	if r.Balancing != nil {
		for _, o := range r.Balancing.Outcomes {
			line(&b, "balancing", o)
		}
	}
	return b.String(), nil
}

func line(b *strings.Builder, mode string, o sweeper.Outcome) {
	msg := ""
	if o.Err != nil {
		msg = strings.ReplaceAll(o.Err.Error(), "\t", " ")
	}
	fmt.Fprintf(b, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
		mode, o.Sweeper, strings.Join(o.Columns, ","), o.State,
		strconv.FormatFloat(o.BaselineScore, 'f', -1, 64),
		strconv.FormatFloat(o.ExperimentScore, 'f', -1, 64),
		strconv.FormatFloat(o.Lift, 'f', -1, 64),
		msg)
}
