package alloc

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// ReadCSV loads an allocation table from a CSV with columns
// Asset_Number, Asset_Description, <allocation-column>... Columns that do not
// carry a recognized allocation prefix are ignored.
func ReadCSV(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open allocations file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read allocations CSV %s: %w", path, err)
	}
	if len(records) < 1 {
		return nil, fmt.Errorf("allocations CSV %s is empty", path)
	}

	header := records[0]
	descIdx := -1
	numIdx := -1
	var allocIdx []int
	for i, col := range header {
		switch {
		case col == "Asset_Description":
			descIdx = i
		case col == "Asset_Number":
			numIdx = i
		case IsAllocationColumn(col):
			allocIdx = append(allocIdx, i)
		}
	}
	if descIdx < 0 {
		return nil, fmt.Errorf("allocations CSV %s has no Asset_Description column", path)
	}

	table := &Table{weights: make(map[string][]float64)}
	for _, i := range allocIdx {
		table.Columns = append(table.Columns, header[i])
	}

	for _, record := range records[1:] {
		if descIdx >= len(record) {
			continue
		}
		table.Assets = append(table.Assets, record[descIdx])
		if numIdx >= 0 && numIdx < len(record) {
			table.AssetNumbers = append(table.AssetNumbers, record[numIdx])
		} else {
			table.AssetNumbers = append(table.AssetNumbers, strconv.Itoa(len(table.Assets)))
		}

		for _, i := range allocIdx {
			col := header[i]
			w := math.NaN()
			if i < len(record) {
				if v, err := strconv.ParseFloat(strings.TrimSpace(record[i]), 64); err == nil {
					w = v
				}
			}
			table.weights[col] = append(table.weights[col], w)
		}
	}

	return table, nil
}

// WriteCSV writes the table in the wide format the backtest driver and the
// consolidator consume. Empty cells are written for NaN weights.
func (t *Table) WriteCSV(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create allocations CSV: %w", err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	defer writer.Flush()

	header := append([]string{"Asset_Number", "Asset_Description"}, t.Columns...)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("write CSV header: %w", err)
	}

	for i, asset := range t.Assets {
		record := []string{t.AssetNumbers[i], asset}
		for _, col := range t.Columns {
			w := t.weights[col][i]
			if math.IsNaN(w) {
				record = append(record, "")
			} else {
				record = append(record, strconv.FormatFloat(w, 'f', -1, 64))
			}
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("write CSV record for %s: %w", asset, err)
		}
	}

	writer.Flush()
	return writer.Error()
}
