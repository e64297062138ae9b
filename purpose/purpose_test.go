package purpose_test

import (
	"fmt"
	"testing"

	"github.com/hscells/sweep/dataset"
	"github.com/hscells/sweep/purpose"
	"github.com/stretchr/testify/assert"
)

func repeat(n int, f func(i int) string) []string {
	v := make([]string, n)
	for i := range v {
		v[i] = f(i)
	}
	return v
}

func TestHeuristicDetector(t *testing.T) {
	n := 200
	f := &dataset.Frame{Columns: []dataset.Column{
		{Name: "price", Values: repeat(n, func(i int) string { return fmt.Sprintf("%d.5", i) })},
		{Name: "rating", Values: repeat(n, func(i int) string { return fmt.Sprint(i % 5) })},
		{Name: "colour", Values: repeat(n, func(i int) string { return []string{"red", "blue", "green"}[i%3] })},
		{Name: "review", Values: repeat(n, func(i int) string { return fmt.Sprintf("this product is number %d", i%7) })},
		{Name: "id", Values: repeat(n, func(i int) string { return fmt.Sprintf("u%04d", i) })},
		{Name: "constant", Values: repeat(n, func(int) string { return "x" })},
		{Name: "empty", Values: repeat(n, func(int) string { return "" })},
	}}

	got := map[string]purpose.Purpose{}
	for _, cp := range purpose.NewHeuristicDetector().Detect(f) {
		got[cp.Column] = cp.Purpose
	}
	assert.Equal(t, map[string]purpose.Purpose{
		"price":    purpose.Numeric,
		"rating":   purpose.Categorical,
		"colour":   purpose.Categorical,
		"review":   purpose.Text,
		"id":       purpose.Hashes,
		"constant": purpose.Ignore,
		"empty":    purpose.Ignore,
	}, got)
}

func TestColumns(t *testing.T) {
	purposes := []purpose.ColumnPurpose{
		{Column: "a", Purpose: purpose.Text},
		{Column: "b", Purpose: purpose.Numeric},
		{Column: "c", Purpose: purpose.Categorical},
		{Column: "d", Purpose: purpose.Text},
	}
	assert.Equal(t, []string{"a", "c", "d"}, purpose.Columns(purposes, purpose.Text, purpose.Categorical))
	assert.Nil(t, purpose.Columns(purposes, purpose.Hashes))
	assert.True(t, purpose.Valid(purpose.CategoricalHash))
	assert.False(t, purpose.Valid("datetime"))
}

func TestDescribe(t *testing.T) {
	s := purpose.Describe([]string{"1", "2", "", "2"})
	assert.Equal(t, 4, s.NumRows)
	assert.Equal(t, 1, s.NumMissing)
	assert.Equal(t, 2, s.NumUnique)
	assert.True(t, s.IsNumeric)
	assert.InDelta(t, 2.0/3.0, s.UniqueRatio, 1e-12)
}
