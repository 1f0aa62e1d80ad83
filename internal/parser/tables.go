package parser

import (
	"fmt"
	"strings"
)

// TableBlock is a contiguous run of non-empty rows within a sheet, treated as
// one logical table. Start and End are inclusive row indices into the raw grid.
type TableBlock struct {
	Start int
	End   int
	Name  string
}

// Len returns the number of rows the block spans.
func (b TableBlock) Len() int {
	return b.End - b.Start + 1
}

// DetectTableBlocks scans the raw grid top to bottom and splits it into
// blocks separated by fully-empty rows. Consecutive empty rows collapse into a
// single separator, so no empty block is ever emitted. A block left open at
// the end of the grid closes on the last row.
func DetectTableBlocks(rows [][]string) []TableBlock {
	var blocks []TableBlock
	start := -1
	name := ""

	for idx, row := range rows {
		if isEmptyRow(row) {
			if start >= 0 {
				blocks = append(blocks, TableBlock{Start: start, End: idx - 1, Name: name})
				start = -1
				name = ""
			}
			continue
		}

		if start < 0 {
			start = idx
			name = blockName(row, len(blocks)+1)
		}
	}

	if start >= 0 {
		blocks = append(blocks, TableBlock{Start: start, End: len(rows) - 1, Name: name})
	}

	return blocks
}

// blockName takes the first non-empty cell of the block's first row, falling
// back to a synthetic Table_<n> name. The fallback should not occur for
// well-formed exports since the first row of a block is non-empty.
func blockName(row []string, n int) string {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return strings.TrimSpace(cell)
		}
	}
	return fmt.Sprintf("Table_%d", n)
}

// isEmptyRow reports whether every cell in the row is blank.
func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// nonEmptyCells returns the non-blank cells of a row in left-to-right order.
func nonEmptyCells(row []string) []string {
	var cells []string
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			cells = append(cells, strings.TrimSpace(cell))
		}
	}
	return cells
}
