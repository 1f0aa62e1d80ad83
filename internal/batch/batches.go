package batch

import (
	"fmt"
	"path/filepath"

	"pvbacktest/internal/alloc"
	"pvbacktest/internal/config"
)

// Split partitions the grid's allocation columns into groups of at most
// config.PortfoliosPerBatch, preserving column order. The final group may be
// short.
func Split(columns []string) [][]string {
	var groups [][]string
	for start := 0; start < len(columns); start += config.PortfoliosPerBatch {
		end := start + config.PortfoliosPerBatch
		if end > len(columns) {
			end = len(columns)
		}
		groups = append(groups, columns[start:end])
	}
	return groups
}

// FileName builds the canonical batch file name from the batch number and the
// first and last portfolio columns it holds.
func FileName(batchNum int, columns []string) string {
	return fmt.Sprintf("batch_%03d_%s_to_%s.csv", batchNum, columns[0], columns[len(columns)-1])
}

// CreateFile writes one batch's slice of the allocation grid to dir and
// returns the file path.
func CreateFile(table *alloc.Table, batchNum int, columns []string, dir string) (string, error) {
	sub, err := table.Select(columns)
	if err != nil {
		return "", fmt.Errorf("batch %d: %w", batchNum, err)
	}
	path := filepath.Join(dir, FileName(batchNum, columns))
	if err := sub.WriteCSV(path); err != nil {
		return "", fmt.Errorf("batch %d: %w", batchNum, err)
	}
	return path, nil
}

// FindFile locates the allocation CSV for a batch number in dir. The portfolio
// range in the name is not known to callers, so the lookup globs on the batch
// number alone. A missing file is an error: results cannot be consolidated
// without the allocations that produced them.
func FindFile(dir string, batchNum int) (string, error) {
	pattern := filepath.Join(dir, fmt.Sprintf(config.BatchFilePattern, batchNum))
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return "", fmt.Errorf("glob batch files: %w", err)
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("no batch file found for batch %d in %s", batchNum, dir)
	}
	return matches[0], nil
}
