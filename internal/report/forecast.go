package report

import (
	"math"

	"github.com/w4l-ops/fba-replenish/internal/config"
)

// SalesWindows bundles the per-window aggregates from AggregateSales. Any
// map may be nil when the corresponding export was absent; absent windows
// contribute zero.
type SalesWindows struct {
	Days30   map[string]float64
	Days60   map[string]float64
	Days90   map[string]float64
	Months12 map[string]float64
	Years2   map[string]float64
}

func (w SalesWindows) at(m map[string]float64, sku string) float64 {
	if m == nil {
		return 0
	}
	return m[sku]
}

const (
	// wmaEpsilon decides when a weighted average counts as "zero" for the
	// slow-mover floor.
	wmaEpsilon = 1e-6
	// monthsInTwoYears converts the 2-year window into a monthly average.
	monthsInTwoYears = 24
)

// GenerateForecast computes a weighted-moving-average demand forecast for
// every SKU in the universe, including SKUs with no sales at all.
//
// The cumulative 30/60/90-day windows are first differenced into three
// monthly buckets (clamped at zero, since a shrinking cumulative window only
// means the exports were taken on different days). SKUs whose WMA comes out
// at zero but that did sell inside the 2-year window get a small floor
// instead, so chronically slow movers are not forecast to zero forever. A
// floor fraction of zero disables the override.
func GenerateForecast(universe []string, windows SalesWindows, cfg config.ForecastConfig) (map[string]float64, error) {
	if len(universe) == 0 {
		return nil, ErrEmptySKUUniverse
	}

	weightSum := cfg.WeightM1 + cfg.WeightM2 + cfg.WeightM3
	forecasts := make(map[string]float64, len(universe))
	for _, sku := range universe {
		s30 := windows.at(windows.Days30, sku)
		s60 := windows.at(windows.Days60, sku)
		s90 := windows.at(windows.Days90, sku)

		m1 := s30
		m2 := math.Max(0, s60-s30)
		m3 := math.Max(0, s90-s60)

		wma := (cfg.WeightM1*m1 + cfg.WeightM2*m2 + cfg.WeightM3*m3) / weightSum

		if wma <= wmaEpsilon && cfg.FloorFraction > 0 {
			if s2yr := windows.at(windows.Years2, sku); s2yr > 0 {
				wma = math.Max(0.01, s2yr/monthsInTwoYears*cfg.FloorFraction)
			}
		}

		forecasts[sku] = round2(wma)
	}
	return forecasts, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
