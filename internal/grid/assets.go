// Package grid generates candidate allocation grids for backtesting: coarse
// and fine deterministic enumerations, constrained random sampling, and a
// treasury term-structure sweep around a fixed base portfolio.
package grid

// Asset is one asset class of a backtest universe. OptionValue is the site's
// asset-class select value; Description is the row label written to allocation
// CSVs.
type Asset struct {
	OptionValue string
	Description string
	Category    string
}

// StandardAssets is the seven-class universe used by the coarse, fine and
// random generators.
var StandardAssets = []Asset{
	{"TotalStockMarket", "US Equities - US Stock Market", "Equity"},
	{"IntlDeveloped", "Foreign Developed Equities - Intl Developed ex-US Market", "Equity"},
	{"EmergingMarket", "Emerging Market Equities - Emerging Markets", "Equity"},
	{"IntermediateTreasury", "US Treasuries - Intermediate Term Treasury", "Fixed Income"},
	{"TIPS", "TIPS - Inflation-Protected Bonds", "Fixed Income"},
	{"CorpBond", "Corporate Bonds - Investment Grade Corporate Bonds", "Fixed Income"},
	{"REIT", "Real Estate/REITs - US REIT", "Alternative"},
}

// TreasuryAssets is the ten-class universe for the treasury term-structure
// grid: the standard universe with the single treasury bucket expanded into
// four maturities.
var TreasuryAssets = []Asset{
	{"TotalStockMarket", "US Equities - US Stock Market", "Equity"},
	{"IntlDeveloped", "Foreign Developed Equities - Intl Developed ex-US Market", "Equity"},
	{"EmergingMarket", "Emerging Market Equities - Emerging Markets", "Equity"},
	{"ShortTreasury", "US Treasuries - Short Term Treasury", "Fixed Income"},
	{"IntermediateTreasury", "US Treasuries - Intermediate Term Treasury", "Fixed Income"},
	{"TreasuryNotes", "US Treasuries - 10-year Treasury", "Fixed Income"},
	{"LongTreasury", "US Treasuries - Long Term Treasury", "Fixed Income"},
	{"TIPS", "TIPS - Inflation-Protected Bonds", "Fixed Income"},
	{"CorpBond", "Corporate Bonds - Investment Grade Corporate Bonds", "Fixed Income"},
	{"REIT", "Real Estate/REITs - US REIT", "Alternative"},
}

// Descriptions returns the CSV row labels for a universe, in order.
func Descriptions(assets []Asset) []string {
	out := make([]string, len(assets))
	for i, a := range assets {
		out[i] = a.Description
	}
	return out
}

// OptionValues maps every known asset description to its site select value,
// across both universes. Allocation CSVs carry descriptions only, so the
// automation resolves select values through this map.
func OptionValues() map[string]string {
	out := make(map[string]string)
	for _, a := range StandardAssets {
		out[a.Description] = a.OptionValue
	}
	for _, a := range TreasuryAssets {
		out[a.Description] = a.OptionValue
	}
	return out
}
