package grid

import "fmt"

// treasuryBase is the fixed non-treasury portion of the term-structure sweep,
// in percent. It reproduces the best coarse-grid portfolio with its 25%
// treasury bucket left open for splitting.
var treasuryBase = struct {
	TotalStockMarket float64
	IntlDeveloped    float64
	EmergingMarket   float64
	TIPS             float64
	CorpBond         float64
	REIT             float64
}{31.5, 9.0, 4.5, 20.0, 5.0, 5.0}

// totalTreasuryPercent is the bucket split across the four maturities.
const totalTreasuryPercent = 25.0

// TreasurySplits enumerates every way to split the treasury bucket across the
// four maturities in 5% increments. Each split is [short, intermediate,
// 10-year, long] in percent and sums to the bucket.
func TreasurySplits() [][4]float64 {
	increments := []float64{0, 5, 10, 15, 20, 25}

	var splits [][4]float64
	for _, short := range increments {
		for _, intermediate := range increments {
			for _, tenYear := range increments {
				for _, long := range increments {
					if short+intermediate+tenYear+long == totalTreasuryPercent {
						splits = append(splits, [4]float64{short, intermediate, tenYear, long})
					}
				}
			}
		}
	}
	return splits
}

// TreasuryGrid builds one portfolio per treasury split over the ten-class
// universe, keeping every non-treasury weight at the base allocation.
func TreasuryGrid() []Portfolio {
	splits := TreasurySplits()

	portfolios := make([]Portfolio, 0, len(splits))
	for i, split := range splits {
		percents := []float64{
			treasuryBase.TotalStockMarket,
			treasuryBase.IntlDeveloped,
			treasuryBase.EmergingMarket,
			split[0],
			split[1],
			split[2],
			split[3],
			treasuryBase.TIPS,
			treasuryBase.CorpBond,
			treasuryBase.REIT,
		}

		weights := make([]float64, len(percents))
		for j, p := range percents {
			weights[j] = p / 100
		}
		portfolios = append(portfolios, Portfolio{
			ID:      fmt.Sprintf("TreasuryGrid_%03d", i+1),
			Weights: weights,
		})
	}
	return portfolios
}
