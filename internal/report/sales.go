package report

import (
	"github.com/rs/zerolog/log"

	"github.com/w4l-ops/fba-replenish/internal/config"
)

// AggregateSales reduces one sales-window table to sku -> total units
// ordered (retail plus business). Duplicate SKUs keep the largest observed
// total rather than the sum: the exports have been seen to repeat rows
// verbatim, and summing those would double-count. A nil table aggregates to
// an empty map.
func AggregateSales(t *Table, cols config.Columns) (map[string]float64, error) {
	totals := make(map[string]float64)
	if t == nil {
		return totals, nil
	}
	if err := t.RequireColumns("sales", cols.SalesSKU, cols.UnitsOrdered); err != nil {
		return nil, err
	}
	hasB2B := t.HasColumn(cols.UnitsB2B)

	duplicates := 0
	for i := 0; i < t.Len(); i++ {
		sku := t.Value(i, cols.SalesSKU)
		if sku == "" {
			continue
		}
		units := t.Float(i, cols.UnitsOrdered)
		if hasB2B {
			units += t.Float(i, cols.UnitsB2B)
		}
		if prev, ok := totals[sku]; ok {
			duplicates++
			if units <= prev {
				continue
			}
		}
		totals[sku] = units
	}
	if duplicates > 0 {
		log.Warn().Int("rows", duplicates).Msg("duplicate SKUs in sales export, kept max per SKU")
	}
	return totals, nil
}
