package report

import (
	"sort"
	"strings"

	"github.com/w4l-ops/fba-replenish/internal/config"
)

// amazonFulfilledChannel is the fulfillment-channel code seller central puts
// on Amazon-fulfilled listings that have not (yet) shown up in the FBA
// inventory report.
const amazonFulfilledChannel = "AMAZON_NA"

// Classification partitions every seller SKU into exactly one of the two
// fulfillment channels.
type Classification struct {
	FBA      map[string]bool
	Merchant map[string]bool
}

// IsFBA reports the channel of a SKU; unknown SKUs are neither.
func (c Classification) IsFBA(sku string) bool { return c.FBA[sku] }

// ClassifyListings splits all listing SKUs into FBA and merchant sets. A SKU
// is FBA when it appears in the FBA inventory report or carries the
// Amazon-fulfilled channel code in listings; everything else is merchant.
// Inventory SKUs missing from listings still count as FBA, they just never
// become worksheet rows. The inventory table may be nil, in which case the
// channel code alone decides.
func ClassifyListings(listings, fbaInventory *Table, cols config.Columns) (Classification, error) {
	if err := listings.RequireColumns("listings", cols.SellerSKU); err != nil {
		return Classification{}, err
	}
	if fbaInventory != nil {
		if err := fbaInventory.RequireColumns("fba-inventory", cols.FBASKU); err != nil {
			return Classification{}, err
		}
	}

	inventorySKUs := make(map[string]bool, fbaInventory.Len())
	for i := 0; i < fbaInventory.Len(); i++ {
		if sku := fbaInventory.Value(i, cols.FBASKU); sku != "" {
			inventorySKUs[sku] = true
		}
	}

	hasChannel := listings.HasColumn(cols.FulfillmentChannel)
	cls := Classification{
		FBA:      make(map[string]bool, len(inventorySKUs)),
		Merchant: make(map[string]bool),
	}
	for sku := range inventorySKUs {
		cls.FBA[sku] = true
	}
	for i := 0; i < listings.Len(); i++ {
		sku := listings.Value(i, cols.SellerSKU)
		if sku == "" {
			continue
		}
		amazonFulfilled := false
		if hasChannel {
			channel := strings.ToUpper(listings.Value(i, cols.FulfillmentChannel))
			amazonFulfilled = channel == amazonFulfilledChannel
		}
		if inventorySKUs[sku] || amazonFulfilled {
			cls.FBA[sku] = true
			delete(cls.Merchant, sku)
		} else if !cls.FBA[sku] {
			cls.Merchant[sku] = true
		}
	}
	return cls, nil
}

// InconsistentSKUs returns, sorted, the SKUs that listings mark as
// Amazon-fulfilled but that the FBA inventory report does not know about.
// These are surfaced for review; classification still counts them as FBA.
func InconsistentSKUs(listings, fbaInventory *Table, cols config.Columns) ([]string, error) {
	if err := listings.RequireColumns("listings", cols.SellerSKU, cols.FulfillmentChannel); err != nil {
		return nil, err
	}
	if fbaInventory != nil {
		if err := fbaInventory.RequireColumns("fba-inventory", cols.FBASKU); err != nil {
			return nil, err
		}
	}

	inventorySKUs := make(map[string]bool, fbaInventory.Len())
	for i := 0; i < fbaInventory.Len(); i++ {
		inventorySKUs[fbaInventory.Value(i, cols.FBASKU)] = true
	}

	seen := make(map[string]bool)
	for i := 0; i < listings.Len(); i++ {
		sku := listings.Value(i, cols.SellerSKU)
		if sku == "" || seen[sku] || inventorySKUs[sku] {
			continue
		}
		channel := strings.ToUpper(listings.Value(i, cols.FulfillmentChannel))
		if channel == amazonFulfilledChannel {
			seen[sku] = true
		}
	}

	out := make([]string, 0, len(seen))
	for sku := range seen {
		out = append(out, sku)
	}
	sort.Strings(out)
	return out, nil
}
