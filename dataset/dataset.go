// Package dataset contains the data model shared by the sweeping engine: the machine learning
// task, raw column frames, labelled datasets and the configuration describing how a dataset is split.
package dataset

import (
	"sort"

	"github.com/pkg/errors"
	"github.com/xtgo/set"
)

// Task is the kind of supervised learning problem being swept.
type Task uint8

const (
	// Classification predicts a discrete class label.
	Classification Task = iota
	// Regression predicts a continuous value.
	Regression
)

var taskNames = map[Task]string{
	Classification: "classification",
	Regression:     "regression",
}

func (t Task) String() string {
	if s, ok := taskNames[t]; ok {
		return s
	}
	return "unknown"
}

// ParseTask converts a task name into a Task.
func ParseTask(s string) (Task, error) {
	for t, name := range taskNames {
		if name == s {
			return t, nil
		}
	}
	return 0, errors.Errorf("unknown task %q", s)
}

// SplittingConfig describes how a (sampled) dataset should be split further. A zero value for
// any field means it is unset. At most one of TrainSize or TestSize is authoritative; when both
// are set, TestSize wins.
type SplittingConfig struct {
	Task                  Task
	TrainSize             float64
	TestSize              float64
	NumberCrossValidation int
}

// DefaultTestSize is used when neither the train nor the test size is set.
const DefaultTestSize = 0.25

// TestFraction resolves the fraction of rows held out for validation.
func (c SplittingConfig) TestFraction() float64 {
	switch {
	case c.TestSize > 0:
		return c.TestSize
	case c.TrainSize > 0:
		return 1 - c.TrainSize
	default:
		return DefaultTestSize
	}
}

// Column is a single named column of raw values.
type Column struct {
	Name   string
	Values []string
}

// Frame is a collection of equally sized raw columns.
type Frame struct {
	Columns []Column
}

// NewFrame creates a frame from columns, checking that they all have the same length.
func NewFrame(columns ...Column) (*Frame, error) {
	for _, c := range columns {
		if len(c.Values) != len(columns[0].Values) {
			return nil, errors.Errorf("column %q has %d rows, expected %d", c.Name, len(c.Values), len(columns[0].Values))
		}
	}
	return &Frame{Columns: columns}, nil
}

// NumRows is the number of rows in the frame.
func (f *Frame) NumRows() int {
	if f == nil || len(f.Columns) == 0 {
		return 0
	}
	return len(f.Columns[0].Values)
}

// Names lists the column names in order.
func (f *Frame) Names() []string {
	names := make([]string, len(f.Columns))
	for i, c := range f.Columns {
		names[i] = c.Name
	}
	return names
}

// Column looks up a column by name.
func (f *Frame) Column(name string) (Column, bool) {
	for _, c := range f.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// Take returns a new frame containing the rows at the given indices.
func (f *Frame) Take(indices []int) *Frame {
	out := &Frame{Columns: make([]Column, len(f.Columns))}
	for i, c := range f.Columns {
		values := make([]string, len(indices))
		for j, idx := range indices {
			values[j] = c.Values[idx]
		}
		out.Columns[i] = Column{Name: c.Name, Values: values}
	}
	return out
}

// Dataset is a frame of features X with a label vector Y. Class labels are encoded as floats.
type Dataset struct {
	X *Frame
	Y []float64
}

// NumRows is the number of labelled rows.
func (d *Dataset) NumRows() int {
	return len(d.Y)
}

// Take returns the subset of the dataset at the given row indices.
func (d *Dataset) Take(indices []int) *Dataset {
	y := make([]float64, len(indices))
	for i, idx := range indices {
		y[i] = d.Y[idx]
	}
	return &Dataset{X: d.X.Take(indices), Y: y}
}

// Validate checks that the dataset has features and labels of the same length.
func (d *Dataset) Validate() error {
	if d == nil || d.X == nil || d.Y == nil {
		return errors.New("dataset is missing features or labels")
	}
	if d.X.NumRows() != len(d.Y) {
		return errors.Errorf("feature rows (%d) and label rows (%d) differ", d.X.NumRows(), len(d.Y))
	}
	return nil
}

// Classes returns the distinct labels of y in ascending order.
func Classes(y []float64) []float64 {
	c := make([]float64, len(y))
	copy(c, y)
	data := sort.Float64Slice(c)
	sort.Sort(data)
	n := set.Uniq(data)
	return c[:n]
}

// ClassCounts counts the occurrences of each label.
func ClassCounts(y []float64) map[float64]int {
	counts := make(map[float64]int)
	for _, v := range y {
		counts[v]++
	}
	return counts
}
