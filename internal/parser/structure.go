package parser

import "strings"

// TableType tags the kind of table a block holds.
type TableType string

const (
	TypeAllocation  TableType = "allocation"
	TypeMetrics     TableType = "metrics"
	TypeReturns     TableType = "returns"
	TypeCorrelation TableType = "correlation"
	TypeUnknown     TableType = "unknown"
)

// TableStructure describes where a block's header and data rows sit.
// Row indices are relative to the block, not the sheet.
type TableStructure struct {
	HeaderRow    int
	DataStartRow int
	NumColumns   int
	Type         TableType
}

// headerKeywords mark a row as a plausible header when its joined text
// contains any of them.
var headerKeywords = []string{"metric", "name", "portfolio", "asset", "year", "allocation", "month"}

// typeRule maps header text to a table type. Rules are evaluated in order and
// the first match wins.
type typeRule struct {
	Match func(headerText string) bool
	Type  TableType
}

var typeRules = []typeRule{
	{func(s string) bool { return strings.Contains(s, "allocation") }, TypeAllocation},
	{func(s string) bool { return strings.Contains(s, "metric") || strings.Contains(s, "performance") }, TypeMetrics},
	{func(s string) bool { return strings.Contains(s, "return") || strings.Contains(s, "year") }, TypeReturns},
	{func(s string) bool { return strings.Contains(s, "correlation") }, TypeCorrelation},
}

// DetectStructure locates the header row of a block and classifies the table.
// The header is the first row with at least two non-empty cells whose joined
// lowercased text contains a header keyword; if none matches, the first row is
// assumed to be the header.
func DetectStructure(rows [][]string) TableStructure {
	structure := TableStructure{
		HeaderRow:    -1,
		DataStartRow: -1,
		Type:         TypeUnknown,
	}

	for idx, row := range rows {
		cells := nonEmptyCells(row)
		if len(cells) < 2 {
			continue
		}

		text := strings.ToLower(strings.Join(cells, " "))
		if containsAny(text, headerKeywords) {
			structure.HeaderRow = idx
			structure.DataStartRow = idx + 1
			structure.NumColumns = len(cells)
			break
		}
	}

	if structure.HeaderRow < 0 && len(rows) > 0 {
		structure.HeaderRow = 0
		structure.DataStartRow = 1
		structure.NumColumns = len(nonEmptyCells(rows[0]))
	}

	if structure.HeaderRow >= 0 {
		structure.Type = classify(rows[structure.HeaderRow])
	}

	return structure
}

// classify applies the ordered type rules to the header row's joined text.
func classify(headerRow []string) TableType {
	text := strings.ToLower(strings.Join(nonEmptyCells(headerRow), " "))
	for _, rule := range typeRules {
		if rule.Match(text) {
			return rule.Type
		}
	}
	return TypeUnknown
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
