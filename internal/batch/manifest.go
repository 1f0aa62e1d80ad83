// Package batch splits an allocation grid into fixed-size batches for the
// backtest driver and tracks which downloaded results file belongs to which
// batch.
package batch

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
)

// ManifestEntry links a batch number to the results workbook downloaded for it.
type ManifestEntry struct {
	BatchNum    int
	ResultsFile string
}

// ReadManifest loads the batch manifest. Entries with the same batch number
// are collapsed to the last one written, so re-running a batch simply
// supersedes the earlier download. A missing manifest is not an error.
func ReadManifest(path string) ([]ManifestEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open manifest: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest %s: %w", path, err)
	}

	latest := make(map[int]string)
	for i, record := range records {
		if i == 0 || len(record) < 2 {
			continue
		}
		num, err := strconv.Atoi(record[0])
		if err != nil {
			continue
		}
		latest[num] = record[1]
	}

	entries := make([]ManifestEntry, 0, len(latest))
	for num, file := range latest {
		entries = append(entries, ManifestEntry{BatchNum: num, ResultsFile: file})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].BatchNum < entries[j].BatchNum })
	return entries, nil
}

// AppendManifest records one batch's results file, creating the manifest with
// its header row on first use.
func AppendManifest(path string, entry ManifestEntry) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create manifest directory: %w", err)
	}

	_, statErr := os.Stat(path)
	newFile := os.IsNotExist(statErr)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open manifest for append: %w", err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	if newFile {
		if err := writer.Write([]string{"batch_num", "results_file"}); err != nil {
			return fmt.Errorf("write manifest header: %w", err)
		}
	}
	if err := writer.Write([]string{strconv.Itoa(entry.BatchNum), entry.ResultsFile}); err != nil {
		return fmt.Errorf("write manifest entry: %w", err)
	}
	writer.Flush()
	return writer.Error()
}
