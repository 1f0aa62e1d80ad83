// Package alloc holds the wide-format allocation table shared by the grid
// generator, the batch splitter and the consolidation layer: one row per
// asset class, one column per candidate portfolio, weights in percent.
package alloc

import (
	"fmt"
	"math"
	"strings"

	"pvbacktest/internal/config"
)

// Table is a wide-format allocation table. Weights are percentages; a NaN
// weight means the cell was empty in the source file.
type Table struct {
	AssetNumbers []string
	Assets       []string
	Columns      []string
	weights      map[string][]float64
}

// NewTable creates an allocation table over the given asset descriptions.
// Asset numbers are assigned sequentially from 1.
func NewTable(assets []string) *Table {
	numbers := make([]string, len(assets))
	for i := range assets {
		numbers[i] = fmt.Sprintf("%d", i+1)
	}
	return &Table{
		AssetNumbers: numbers,
		Assets:       assets,
		weights:      make(map[string][]float64),
	}
}

// AddColumn appends one portfolio column. weights must align with Assets and
// be expressed in percent.
func (t *Table) AddColumn(name string, weights []float64) error {
	if len(weights) != len(t.Assets) {
		return fmt.Errorf("column %s has %d weights for %d assets", name, len(weights), len(t.Assets))
	}
	if _, exists := t.weights[name]; exists {
		return fmt.Errorf("duplicate column %s", name)
	}
	t.Columns = append(t.Columns, name)
	t.weights[name] = append([]float64(nil), weights...)
	return nil
}

// Weight returns the percent weight for an allocation column and asset index.
// The second return is false when the cell is empty.
func (t *Table) Weight(column string, assetIdx int) (float64, bool) {
	w, ok := t.weights[column]
	if !ok || assetIdx < 0 || assetIdx >= len(w) {
		return 0, false
	}
	if math.IsNaN(w[assetIdx]) {
		return 0, false
	}
	return w[assetIdx], true
}

// Select returns a new table holding only the given columns, in the given
/// order. Unknown columns are an error: batch files must never silently lose a
// portfolio.
func (t *Table) Select(columns []string) (*Table, error) {
	out := &Table{
		AssetNumbers: append([]string(nil), t.AssetNumbers...),
		Assets:       append([]string(nil), t.Assets...),
		weights:      make(map[string][]float64),
	}
	for _, col := range columns {
		w, ok := t.weights[col]
		if !ok {
			return nil, fmt.Errorf("unknown allocation column %s", col)
		}
		out.Columns = append(out.Columns, col)
		out.weights[col] = append([]float64(nil), w...)
	}
	return out, nil
}

// IsAllocationColumn reports whether a CSV column name denotes a portfolio
// rather than asset metadata.
func IsAllocationColumn(name string) bool {
	for _, prefix := range config.AllocationColumnPrefixes {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}
