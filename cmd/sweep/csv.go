package main

import (
	"encoding/csv"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/hscells/sweep/dataset"
	"github.com/pkg/errors"
)

// readCSV reads a dataset with a header row. Classification labels are encoded as the index of
// the label in the sorted list of distinct labels, which is returned.
func readCSV(r io.Reader, label string, task dataset.Task) (*dataset.Dataset, []string, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, nil, errors.Wrap(err, "reading csv")
	}
	if len(records) == 0 {
		return nil, nil, errors.New("csv has no header")
	}
	header, rows := records[0], records[1:]

	labelIdx := -1
	for i, h := range header {
		if strings.TrimSpace(h) == label {
			labelIdx = i
		}
	}
	if labelIdx < 0 {
		return nil, nil, errors.Errorf("no label column %q", label)
	}

	var columns []dataset.Column
	for i, h := range header {
		if i == labelIdx {
			continue
		}
		values := make([]string, len(rows))
		for j, row := range rows {
			values[j] = row[i]
		}
		columns = append(columns, dataset.Column{Name: strings.TrimSpace(h), Values: values})
	}
	X, err := dataset.NewFrame(columns...)
	if err != nil {
		return nil, nil, err
	}

	y := make([]float64, len(rows))
	var classes []string
	if task == dataset.Regression {
		for j, row := range rows {
			if y[j], err = strconv.ParseFloat(strings.TrimSpace(row[labelIdx]), 64); err != nil {
				return nil, nil, errors.Wrapf(err, "row %d label", j+1)
			}
		}
	} else {
		codes := make(map[string]int)
		for _, row := range rows {
			codes[row[labelIdx]] = 0
		}
		for c := range codes {
			classes = append(classes, c)
		}
		sort.Strings(classes)
		for i, c := range classes {
			codes[c] = i
		}
		for j, row := range rows {
			y[j] = float64(codes[row[labelIdx]])
		}
	}
	return &dataset.Dataset{X: X, Y: y}, classes, nil
}
