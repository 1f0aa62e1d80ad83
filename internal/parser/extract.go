package parser

import (
	"fmt"
	"strings"
)

// TableKind distinguishes the two extraction shapes.
type TableKind int

const (
	KindKeyValue TableKind = iota
	KindTabular
)

// Pair is one key-value row. An empty Value means the row carried a key only,
// e.g. a section header inside a metadata block.
type Pair struct {
	Key   string
	Value string
}

// ParsedTable is the structured form of one block: either an ordered list of
// key-value pairs or a rectangular table with named columns. Fully-empty rows
// and columns have been removed.
type ParsedTable struct {
	Name    string
	Kind    TableKind
	Pairs   []Pair
	Columns []string
	Rows    [][]string
}

// IsEmpty reports whether extraction yielded no usable content. Empty tables
// are omitted from parse results rather than treated as errors.
func (t ParsedTable) IsEmpty() bool {
	switch t.Kind {
	case KindKeyValue:
		return len(t.Pairs) == 0
	default:
		return len(t.Rows) == 0
	}
}

// ExtractTable converts a block's rows into a ParsedTable. Blocks with at most
// two columns and no recognized type are treated as key-value metadata; all
// others are parsed as tabular data against the detected header row.
func ExtractTable(rows [][]string, structure TableStructure) ParsedTable {
	if structure.NumColumns <= 2 && structure.Type == TypeUnknown {
		return extractKeyValue(rows)
	}
	return extractTabular(rows, structure)
}

// extractKeyValue walks every row of the block, pairing the first two
// non-empty cells. A row with a single non-empty cell becomes a key with no
// value; rows with none contribute nothing.
func extractKeyValue(rows [][]string) ParsedTable {
	table := ParsedTable{Kind: KindKeyValue}

	for _, row := range rows {
		cells := nonEmptyCells(row)
		switch {
		case len(cells) >= 2:
			table.Pairs = append(table.Pairs, Pair{Key: cells[0], Value: cells[1]})
		case len(cells) == 1:
			table.Pairs = append(table.Pairs, Pair{Key: cells[0]})
		}
	}

	return table
}

// extractTabular builds a rectangular table. Column names come from the
// header row, with Column_<i> placeholders for blank header cells. Data rows
// are padded or truncated to the header width, then fully-empty columns and
// rows are dropped.
func extractTabular(rows [][]string, structure TableStructure) ParsedTable {
	table := ParsedTable{Kind: KindTabular}

	if structure.HeaderRow < 0 || structure.HeaderRow >= len(rows) {
		return table
	}

	headerRow := rows[structure.HeaderRow]
	columns := make([]string, len(headerRow))
	for i, cell := range headerRow {
		if strings.TrimSpace(cell) != "" {
			columns[i] = strings.TrimSpace(cell)
		} else {
			columns[i] = fmt.Sprintf("Column_%d", i)
		}
	}

	var data [][]string
	for idx := structure.DataStartRow; idx < len(rows); idx++ {
		row := rows[idx]
		if isEmptyRow(row) {
			continue
		}
		data = append(data, padRow(row, len(columns)))
	}

	if len(data) == 0 {
		return table
	}

	table.Columns, table.Rows = dropEmptyColumns(columns, data)
	table.Rows = dropEmptyRows(table.Rows)
	return table
}

// padRow truncates or right-pads a row to exactly width cells.
func padRow(row []string, width int) []string {
	out := make([]string, width)
	for i := 0; i < width && i < len(row); i++ {
		out[i] = strings.TrimSpace(row[i])
	}
	return out
}

// dropEmptyColumns removes columns whose cells are blank in every row.
func dropEmptyColumns(columns []string, rows [][]string) ([]string, [][]string) {
	keep := make([]bool, len(columns))
	for _, row := range rows {
		for j, cell := range row {
			if cell != "" {
				keep[j] = true
			}
		}
	}

	var outCols []string
	for j, col := range columns {
		if keep[j] {
			outCols = append(outCols, col)
		}
	}

	outRows := make([][]string, len(rows))
	for i, row := range rows {
		var out []string
		for j, cell := range row {
			if keep[j] {
				out = append(out, cell)
			}
		}
		outRows[i] = out
	}

	return outCols, outRows
}

// dropEmptyRows removes rows whose retained cells are all blank.
func dropEmptyRows(rows [][]string) [][]string {
	var out [][]string
	for _, row := range rows {
		if !isEmptyRow(row) {
			out = append(out, row)
		}
	}
	return out
}
