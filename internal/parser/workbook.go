package parser

import (
	"fmt"
	"log/slog"

	"github.com/xuri/excelize/v2"
)

// Report holds every usable table extracted from one results workbook, in
// sheet order.
type Report struct {
	Source string
	Tables []ParsedTable
}

// Find returns the table with the exact given name.
func (r *Report) Find(name string) (*ParsedTable, bool) {
	for i := range r.Tables {
		if r.Tables[i].Name == name {
			return &r.Tables[i], true
		}
	}
	return nil, false
}

// FindByPrefix returns the first table whose name starts with the given
// prefix. Exported workbooks embed the backtest date range in table names, so
// callers match on the stable leading portion.
func (r *Report) FindByPrefix(prefix string) (*ParsedTable, bool) {
	for i := range r.Tables {
		if len(r.Tables[i].Name) >= len(prefix) && r.Tables[i].Name[:len(prefix)] == prefix {
			return &r.Tables[i], true
		}
	}
	return nil, false
}

// ParseWorkbook reads one sheet of a results workbook and extracts every
// table it contains. Blocks that yield no usable content are skipped, not
// errors. Duplicate table names get a numeric suffix so every table stays
// addressable.
func ParseWorkbook(filePath, sheetName string) (*Report, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheetName, err)
	}

	return ParseGrid(rows, filePath), nil
}

// ParseGrid runs the full block-detect / classify / extract pipeline over a
// raw grid. Split out from ParseWorkbook so tests can feed grids directly.
func ParseGrid(rows [][]string, source string) *Report {
	report := &Report{Source: source}
	blocks := DetectTableBlocks(rows)

	slog.Debug("Detected table blocks",
		slog.String("source", source),
		slog.Int("count", len(blocks)))

	seen := make(map[string]bool)
	for num, block := range blocks {
		blockRows := rows[block.Start : block.End+1]
		structure := DetectStructure(blockRows)

		table := ExtractTable(blockRows, structure)
		if table.IsEmpty() {
			slog.Debug("Skipping empty block",
				slog.String("table", block.Name),
				slog.Int("start_row", block.Start),
				slog.Int("end_row", block.End))
			continue
		}

		name := block.Name
		if seen[name] {
			name = fmt.Sprintf("%s_%d", name, num+1)
		}
		seen[name] = true
		table.Name = name

		slog.Debug("Parsed table",
			slog.String("table", name),
			slog.String("type", string(structure.Type)),
			slog.Int("rows", block.Len()))

		report.Tables = append(report.Tables, table)
	}

	return report
}
