package config

import "time"

// Application constants for the backtest automation pipeline.
const (
	AppName    = "PV Backtest"
	AppVersion = "1.2.0"

	// Portfolio Visualizer endpoints
	LoginURL    = "https://www.portfoliovisualizer.com/login"
	BacktestURL = "https://www.portfoliovisualizer.com/backtest-asset-class-allocation"

	// Results workbook sheet that carries the exported tables
	ResultsSheetName = "Asset Allocation Report"

	// Batching
	PortfoliosPerBatch = 3
	BatchFilePattern   = "batch_%03d_*.csv"

	// Allocation constraints
	MinAllocation = 0.03 // 3% floor per asset

	// Network timeouts
	DefaultHTTPTimeout  = 30 * time.Second
	LoginTimeout        = 20 * time.Second
	BacktestWaitTimeout = 60 * time.Second

	// File paths (relative to executable)
	DefaultDataDir            = "data"
	DefaultLogsDir            = "logs"
	DefaultDownloadsDir       = "data/downloads"
	DefaultSourceTablesDir    = "data/source_tables"
	DefaultBatchFilesDir      = "data/batch_files"
	DefaultGeneratedTablesDir = "data/generated_tables"

	// Well-known output files
	ManifestFileName    = "batch_manifest.csv"
	MetadataFileName    = "portfolio_metadata.csv"
	MetricsFileName     = "portfolio_performance_metrics.csv"
	UUIDMappingFileName = "portfolio_uuid_mapping.csv"
	GridFileName        = "portfolio_allocations_grid.csv"

	// Log settings
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// AllocationColumnPrefixes identify portfolio columns in allocation CSVs.
// Any other column is treated as asset metadata.
var AllocationColumnPrefixes = []string{"Grid_", "Portfolio_", "TreasuryGrid_"}
