// Package purpose tags the columns of a frame with their semantic role, which decides the
// featurization a column receives and which sweepers target it.
package purpose

import (
	"strconv"
	"strings"

	"github.com/hscells/sweep/dataset"
)

// Purpose is the semantic role of a column.
type Purpose string

const (
	Numeric         Purpose = "numeric"
	Categorical     Purpose = "categorical"
	CategoricalHash Purpose = "categorical_hash"
	Text            Purpose = "text"
	Hashes          Purpose = "hashes"
	Ignore          Purpose = "ignore"
)

// All lists every known purpose.
var All = []Purpose{Numeric, Categorical, CategoricalHash, Text, Hashes, Ignore}

// Valid reports whether p is a known purpose.
func Valid(p Purpose) bool {
	for _, q := range All {
		if p == q {
			return true
		}
	}
	return false
}

// Stats summarises the raw values of a column.
type Stats struct {
	NumRows     int
	NumUnique   int
	NumMissing  int
	IsNumeric   bool
	AvgTokens   float64
	AvgLength   float64
	UniqueRatio float64
}

// ColumnPurpose is the detected purpose of a named column.
type ColumnPurpose struct {
	Stats   Stats
	Purpose Purpose
	Column  string
}

// Detector assigns a purpose to each column of a frame.
type Detector interface {
	Detect(f *dataset.Frame) []ColumnPurpose
}

// HeuristicDetector detects purposes from simple value statistics.
type HeuristicDetector struct {
	// MaxCategorical is the largest number of distinct values a categorical column may have.
	MaxCategorical int
	// MinTextTokens is the average number of tokens from which a column is treated as free text.
	MinTextTokens float64
}

// NewHeuristicDetector creates a detector with the default thresholds.
func NewHeuristicDetector() HeuristicDetector {
	return HeuristicDetector{MaxCategorical: 100, MinTextTokens: 2.5}
}

// Detect tags every column of f.
func (h HeuristicDetector) Detect(f *dataset.Frame) []ColumnPurpose {
	out := make([]ColumnPurpose, len(f.Columns))
	for i, c := range f.Columns {
		s := Describe(c.Values)
		out[i] = ColumnPurpose{Stats: s, Purpose: h.classify(s), Column: c.Name}
	}
	return out
}

func (h HeuristicDetector) classify(s Stats) Purpose {
	present := s.NumRows - s.NumMissing
	switch {
	case present == 0 || s.NumUnique <= 1:
		return Ignore
	case s.IsNumeric && s.NumUnique > h.MaxCategorical/10:
		return Numeric
	case s.IsNumeric:
		return Categorical
	case s.AvgTokens >= h.MinTextTokens:
		return Text
	case s.NumUnique == present && present > h.MaxCategorical:
		return Hashes
	case s.NumUnique <= h.MaxCategorical:
		return Categorical
	default:
		return CategoricalHash
	}
}

// Describe computes the statistics of a column of raw values.
func Describe(values []string) Stats {
	s := Stats{NumRows: len(values), IsNumeric: true}
	seen := make(map[string]struct{})
	var tokens, length float64
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			s.NumMissing++
			continue
		}
		seen[v] = struct{}{}
		if _, err := strconv.ParseFloat(v, 64); err != nil {
			s.IsNumeric = false
		}
		tokens += float64(len(strings.Fields(v)))
		length += float64(len(v))
	}
	s.NumUnique = len(seen)
	if present := s.NumRows - s.NumMissing; present > 0 {
		s.AvgTokens = tokens / float64(present)
		s.AvgLength = length / float64(present)
		s.UniqueRatio = float64(s.NumUnique) / float64(present)
	} else {
		s.IsNumeric = false
	}
	return s
}

// Columns returns the names of the columns whose purpose is one of purposes, in frame order.
func Columns(purposes []ColumnPurpose, wanted ...Purpose) []string {
	var cols []string
	for _, cp := range purposes {
		for _, w := range wanted {
			if cp.Purpose == w {
				cols = append(cols, cp.Column)
				break
			}
		}
	}
	return cols
}
