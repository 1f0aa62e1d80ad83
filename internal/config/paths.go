package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Paths contains all the application paths.
// This is the single source of truth for file locations in the pipeline.
type Paths struct {
	ExecutableDir string
	DataDir       string
	DownloadsDir  string

	// Pipeline stage directories
	SourceTablesDir    string // allocation grids and downloaded result workbooks
	BatchFilesDir      string // per-batch allocation CSVs plus the manifest
	GeneratedTablesDir string // consolidated long-format outputs
	LogsDir            string

	// Well-known files
	ManifestCSV    string
	GridCSV        string
	MetadataCSV    string
	MetricsCSV     string
	UUIDMappingCSV string
}

// GetPaths returns the application paths relative to the executable location.
// Paths are always executable-relative, never working-directory-relative, so
// the pipeline behaves the same regardless of where it is invoked from.
func GetPaths() (*Paths, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("failed to get executable path: %w", err)
	}

	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve executable symlinks: %w", err)
	}

	return PathsFrom(filepath.Dir(exe)), nil
}

// PathsFrom builds the path set rooted at the given base directory.
// Split out from GetPaths so tests can root everything in a temp dir.
func PathsFrom(baseDir string) *Paths {
	dataDir := filepath.Join(baseDir, "data")
	sourceTablesDir := filepath.Join(dataDir, "source_tables")
	batchFilesDir := filepath.Join(dataDir, "batch_files")
	generatedTablesDir := filepath.Join(dataDir, "generated_tables")

	return &Paths{
		ExecutableDir:      baseDir,
		DataDir:            dataDir,
		DownloadsDir:       filepath.Join(dataDir, "downloads"),
		SourceTablesDir:    sourceTablesDir,
		BatchFilesDir:      batchFilesDir,
		GeneratedTablesDir: generatedTablesDir,
		LogsDir:            filepath.Join(baseDir, "logs"),

		ManifestCSV:    filepath.Join(batchFilesDir, ManifestFileName),
		GridCSV:        filepath.Join(sourceTablesDir, GridFileName),
		MetadataCSV:    filepath.Join(generatedTablesDir, MetadataFileName),
		MetricsCSV:     filepath.Join(generatedTablesDir, MetricsFileName),
		UUIDMappingCSV: filepath.Join(generatedTablesDir, UUIDMappingFileName),
	}
}

// EnsureDirectories creates all required directories if they don't exist.
func (p *Paths) EnsureDirectories() error {
	directories := []string{
		p.DataDir,
		p.DownloadsDir,
		p.SourceTablesDir,
		p.BatchFilesDir,
		p.GeneratedTablesDir,
		p.LogsDir,
	}

	for _, dir := range directories {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}

// GetLogPath returns the path for a named log file inside the logs directory.
func (p *Paths) GetLogPath(name string) string {
	return filepath.Join(p.LogsDir, name)
}

// FileExists checks if a file exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}
