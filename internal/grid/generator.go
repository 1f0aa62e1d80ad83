package grid

import (
	"fmt"
	"log/slog"
	"math"
	"math/rand"

	"pvbacktest/internal/alloc"
	"pvbacktest/internal/config"
)

// Portfolio is one candidate allocation: fractional weights aligned with a
// universe's asset order, summing to 1.0.
type Portfolio struct {
	ID      string
	Weights []float64
}

// gridParams parameterize the deterministic enumerations. Weights are derived
// top-down: an equity/fixed-income split, ratios within each sleeve, and a
// standalone REIT level carved out of equity.
type gridParams struct {
	prefix        string
	equitySplits  []float64 // total equity as a fraction of the portfolio
	usRatios      []float64 // US share of non-REIT equity
	intlRatios    []float64 // developed intl share of non-REIT equity
	treasuryRatio []float64 // treasury share of fixed income
	tipsRatios    []float64 // TIPS share of fixed income
	reitLevels    []float64 // REIT as a fraction of the portfolio

	minNonREITEquity float64
}

var coarseParams = gridParams{
	prefix:        "Grid_",
	equitySplits:  []float64{0.50, 0.675, 0.70},
	usRatios:      []float64{0.70, 0.55, 0.50},
	intlRatios:    []float64{0.20, 0.22, 0.35},
	treasuryRatio: []float64{0.31, 0.40, 0.50},
	tipsRatios:    []float64{0.46, 0.40, 0.30},
	reitLevels:    []float64{0.05, 0.075, 0.10},
}

var fineParams = gridParams{
	prefix:           "Grid_",
	equitySplits:     []float64{0.40, 0.50, 0.60, 0.675, 0.70, 0.80},
	usRatios:         []float64{0.70, 0.60, 0.55, 0.50, 0.40},
	intlRatios:       []float64{0.20, 0.22, 0.30, 0.35, 0.40},
	treasuryRatio:    []float64{0.20, 0.31, 0.40, 0.50},
	tipsRatios:       []float64{0.30, 0.40, 0.46, 0.50},
	reitLevels:       []float64{0.05, 0.075, 0.10, 0.15, 0.20},
	minNonREITEquity: 0.20,
}

// CoarseGrid enumerates major variations of the equity/fixed-income split,
// regional equity mix, fixed-income composition and REIT level.
func CoarseGrid() []Portfolio {
	return enumerate(coarseParams)
}

// FineGrid is the denser enumeration over the same structure.
func FineGrid() []Portfolio {
	return enumerate(fineParams)
}

func enumerate(p gridParams) []Portfolio {
	var portfolios []Portfolio
	id := 1

	for _, eqSplit := range p.equitySplits {
		for _, usRatio := range p.usRatios {
			for _, intlRatio := range p.intlRatios {
				for _, treasRatio := range p.treasuryRatio {
					for _, tipsRatio := range p.tipsRatios {
						for _, reit := range p.reitLevels {
							totalFI := 1.0 - eqSplit
							nonREITEquity := eqSplit - reit
							if nonREITEquity < p.minNonREITEquity {
								continue
							}

							weights := []float64{
								nonREITEquity * usRatio,
								nonREITEquity * intlRatio,
								nonREITEquity * (1 - usRatio - intlRatio),
								totalFI * treasRatio,
								totalFI * tipsRatio,
								totalFI * (1 - treasRatio - tipsRatio),
								reit,
							}
							if belowFloor(weights) {
								continue
							}

							total := sum(weights)
							if math.Abs(total-1.0) >= 0.001 {
								continue
							}
							normalize(weights, total)

							portfolios = append(portfolios, Portfolio{
								ID:      fmt.Sprintf("%s%03d", p.prefix, id),
								Weights: weights,
							})
							id++
						}
					}
				}
			}
		}
	}
	return portfolios
}

// RandomPortfolios draws n constrained random allocations. The equity split
// and REIT level are uniform; the mixes within equity and fixed income are
// Dirichlet-distributed, slightly favoring US equity. A fixed seed makes the
// output reproducible.
func RandomPortfolios(n int, seed int64) []Portfolio {
	r := rand.New(rand.NewSource(seed))

	var portfolios []Portfolio
	maxAttempts := n * 10
	for attempts := 0; len(portfolios) < n && attempts < maxAttempts; attempts++ {
		totalEquity := 0.40 + r.Float64()*0.40
		reit := config.MinAllocation + r.Float64()*(0.20-config.MinAllocation)
		nonREITEquity := totalEquity - reit
		totalFI := 1.0 - totalEquity

		eq := dirichlet(r, []float64{2, 1.5, 1})
		fi := dirichlet(r, []float64{1.5, 1.5, 1})

		weights := []float64{
			nonREITEquity * eq[0],
			nonREITEquity * eq[1],
			nonREITEquity * eq[2],
			totalFI * fi[0],
			totalFI * fi[1],
			totalFI * fi[2],
			reit,
		}
		if belowFloor(weights) {
			continue
		}

		normalize(weights, sum(weights))
		if belowFloor(weights) {
			continue
		}

		portfolios = append(portfolios, Portfolio{
			ID:      fmt.Sprintf("Portfolio_%03d", len(portfolios)+1),
			Weights: weights,
		})
	}

	if len(portfolios) < n {
		slog.Default().Warn("random generation fell short",
			slog.Int("requested", n),
			slog.Int("generated", len(portfolios)))
	}
	return portfolios
}

// ToTable converts portfolios to the wide allocation table, weights as
// percentages.
func ToTable(assets []Asset, portfolios []Portfolio) (*alloc.Table, error) {
	table := alloc.NewTable(Descriptions(assets))
	for _, p := range portfolios {
		percents := make([]float64, len(p.Weights))
		for i, w := range p.Weights {
			percents[i] = w * 100
		}
		if err := table.AddColumn(p.ID, percents); err != nil {
			return nil, err
		}
	}
	return table, nil
}

func belowFloor(weights []float64) bool {
	for _, w := range weights {
		if w < config.MinAllocation {
			return true
		}
	}
	return false
}

func sum(weights []float64) float64 {
	var total float64
	for _, w := range weights {
		total += w
	}
	return total
}

func normalize(weights []float64, total float64) {
	for i := range weights {
		weights[i] /= total
	}
}

// dirichlet samples a point on the simplex by normalizing independent gamma
// draws.
func dirichlet(r *rand.Rand, alpha []float64) []float64 {
	out := make([]float64, len(alpha))
	var total float64
	for i, a := range alpha {
		out[i] = gammaSample(r, a)
		total += out[i]
	}
	for i := range out {
		out[i] /= total
	}
	return out
}

// gammaSample draws from Gamma(alpha, 1) using the Marsaglia-Tsang squeeze
// method. Requires alpha >= 1, which holds for every concentration used here.
func gammaSample(r *rand.Rand, alpha float64) float64 {
	d := alpha - 1.0/3.0
	c := 1.0 / math.Sqrt(9*d)
	for {
		x := r.NormFloat64()
		v := 1 + c*x
		if v <= 0 {
			continue
		}
		v = v * v * v
		u := r.Float64()
		if u < 1-0.0331*x*x*x*x {
			return d * v
		}
		if math.Log(u) < 0.5*x*x+d*(1-v+math.Log(v)) {
			return d * v
		}
	}
}
