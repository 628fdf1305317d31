package report

import (
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/w4l-ops/fba-replenish/internal/config"
)

// ChannelMapping ties the two SKU namespaces together through the shared
// product identity (ASIN).
type ChannelMapping struct {
	// FBAToASIN holds the lowercased ASIN of every FBA-classified SKU that
	// has one.
	FBAToASIN map[string]string
	// FBAToMerchant lists, per FBA SKU, the merchant SKUs that sell the same
	// ASIN, in the order the merchant rows appeared in the listings export.
	// An FBA SKU whose ASIN has no merchant counterpart maps to nil.
	FBAToMerchant map[string][]string
}

// BuildChannelMapping composes fba_sku -> asin with asin -> merchant_skus
// over the classified listings. Rows with a blank ASIN are skipped with a
// warning; they simply cannot be joined across channels.
func BuildChannelMapping(listings *Table, cls Classification, cols config.Columns) (ChannelMapping, error) {
	if err := listings.RequireColumns("listings", cols.SellerSKU, cols.ASIN); err != nil {
		return ChannelMapping{}, err
	}

	m := ChannelMapping{
		FBAToASIN:     make(map[string]string),
		FBAToMerchant: make(map[string][]string),
	}
	asinToMerchant := make(map[string][]string)
	merchantSeen := make(map[string]bool)

	for i := 0; i < listings.Len(); i++ {
		sku := listings.Value(i, cols.SellerSKU)
		if sku == "" {
			continue
		}
		asin := strings.ToLower(listings.Value(i, cols.ASIN))
		if asin == "" {
			log.Debug().Str("sku", sku).Msg("listing row has no asin, skipping for channel mapping")
			continue
		}
		switch {
		case cls.FBA[sku]:
			m.FBAToASIN[sku] = asin
		case cls.Merchant[sku] && !merchantSeen[sku]:
			merchantSeen[sku] = true
			asinToMerchant[asin] = append(asinToMerchant[asin], sku)
		}
	}

	for sku, asin := range m.FBAToASIN {
		m.FBAToMerchant[sku] = asinToMerchant[asin]
	}
	return m, nil
}
