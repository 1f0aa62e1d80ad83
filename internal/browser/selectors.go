// Package browser drives Portfolio Visualizer through chromedp: login,
// backtest form entry, submission and result download. The site's DOM is not
// a stable contract, so every selector lives here as overridable
// configuration rather than being scattered through the automation code.
package browser

// Selectors holds every DOM hook the automation touches. Login fields carry
// fallback chains because the site has served several variants of the form.
type Selectors struct {
	LoginEmail    []string
	LoginPassword []string
	LoginSubmit   []string
	AccountBadge  string

	SettingsButton string
	SettingsModal  string
	SettingsTab    string
	AssetsTab      string
	StartYear      string
	Benchmark      string

	MoreRowsLink   string
	AssetClassFmt  string // takes the 1-based asset number
	AllocationFmt  string // takes asset number and portfolio slot
	SubmitButton   string
	ResultsTable   string
	ExcelDownload  string
	LoginModal     string
	LoginModalOpen string
}

// DefaultSelectors returns the hooks for the current site layout.
func DefaultSelectors() Selectors {
	return Selectors{
		LoginEmail:    []string{`#email`, `input[name="email"]`, `input[type="email"]`},
		LoginPassword: []string{`#password`, `input[name="password"]`, `input[type="password"]`},
		LoginSubmit:   []string{`button[type="submit"]`, `input[type="submit"]`},
		AccountBadge:  `#accountDropdown`,

		SettingsButton: `#overview table tfoot button.btn-outline-primary`,
		SettingsModal:  `#custom-data-body`,
		SettingsTab:    `#inputSettings_btn`,
		AssetsTab:      `#inputAssets_btn`,
		StartYear:      `#startYear`,
		Benchmark:      `#benchmark`,

		MoreRowsLink:   `a[onclick*="addAssetRows"]`,
		AssetClassFmt:  `#asset%d`,
		AllocationFmt:  `#allocation%d_%d`,
		SubmitButton:   `#submitButton`,
		ResultsTable:   `.table`,
		ExcelDownload:  `a.downloadLink`,
		LoginModal:     `#confirmDialogTitle`,
		LoginModalOpen: `#confirmButton`,
	}
}
