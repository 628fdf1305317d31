// Package resources maintains the externally sourced canonical part-number
// mapping: fetched from a spreadsheet, cached, persisted as CSV and filtered
// per region into the lookup maps the report builder consumes.
package resources

import (
	"fmt"
	"strings"

	"github.com/w4l-ops/fba-replenish/internal/report"
)

// MappingFileName is the persisted copy of the mapping worksheet under the
// data directory.
const MappingFileName = "amz_sku_mapping.csv"

// Marketplaces the mapping worksheet carries per-region columns for.
var allowedRegions = []string{"PL", "FR", "SE", "US", "NL", "UK", "MX", "CA", "BE", "ES", "IT", "DE"}

// Listing statuses that keep a mapping row usable.
var allowedStatuses = []string{"Active", "Inactive", "Incomplete"}

const (
	sellerSKUColumn    = "seller_sku"
	partNumberColumn   = "B_SKU"
	supersessionColumn = "BS_SKU"
)

// ValidateRegion rejects region codes the worksheet has no columns for.
func ValidateRegion(region string) error {
	for _, r := range allowedRegions {
		if r == region {
			return nil
		}
	}
	return fmt.Errorf("invalid region %q, allowed values are %s", region, strings.Join(allowedRegions, ", "))
}

func statusAllowed(status string) bool {
	for _, s := range allowedStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// PartNumberMap builds seller_sku -> canonical part number for one region:
// rows with an allowed region status and a non-blank part number.
func PartNumberMap(t *report.Table, region string) (map[string]string, error) {
	return regionMap(t, region, partNumberColumn, false)
}

// SupersessionMap builds seller_sku -> superseding SKU for one region. On
// top of the status filter, the region's fulfillment flag must be DEFAULT:
// Amazon-fulfilled rows are superseded through their FBA counterpart
// instead.
func SupersessionMap(t *report.Table, region string) (map[string]string, error) {
	return regionMap(t, region, supersessionColumn, true)
}

func regionMap(t *report.Table, region, valueColumn string, defaultFulfillmentOnly bool) (map[string]string, error) {
	if err := ValidateRegion(region); err != nil {
		return nil, err
	}
	statusColumn := "status_" + region
	fulfillmentColumn := "fulfillment_" + region

	required := []string{sellerSKUColumn, valueColumn, statusColumn}
	if defaultFulfillmentOnly {
		required = append(required, fulfillmentColumn)
	}
	if err := t.RequireColumns("sku-mapping", required...); err != nil {
		return nil, err
	}

	out := make(map[string]string)
	for i := 0; i < t.Len(); i++ {
		sku := t.Value(i, sellerSKUColumn)
		value := t.Value(i, valueColumn)
		if sku == "" || value == "" {
			continue
		}
		if !statusAllowed(t.Value(i, statusColumn)) {
			continue
		}
		if defaultFulfillmentOnly && t.Value(i, fulfillmentColumn) != "DEFAULT" {
			continue
		}
		out[sku] = value
	}
	return out, nil
}
