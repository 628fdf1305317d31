package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Columns maps logical field names onto the column headers of the marketplace
// exports. Header names drift between seller-central report versions, so every
// one of them is overridable through the environment; comparison downstream is
// case-insensitive.
type Columns struct {
	// all listings report
	SellerSKU          string
	ASIN               string
	Title              string
	Price              string
	FulfillmentChannel string
	Status             string

	// FBA inventory report
	FBASKU     string
	Available  string
	InboundQty string

	// restock / merchant inventory report
	MerchantSKU     string
	MerchantOnHand  string
	MerchantInbound string

	// sales reports
	SalesSKU     string
	UnitsOrdered string
	UnitsB2B     string

	// weekly shipment reports
	ShipmentSKU string
	ShippedQty  string
}

func setColumnDefaults() {
	viper.SetDefault("COL_SELLER_SKU", "seller-sku")
	viper.SetDefault("COL_ASIN", "asin1")
	viper.SetDefault("COL_TITLE", "item-name")
	viper.SetDefault("COL_PRICE", "price")
	viper.SetDefault("COL_FULFILLMENT_CHANNEL", "fulfillment-channel")
	viper.SetDefault("COL_STATUS", "status")
	viper.SetDefault("COL_FBA_SKU", "sku")
	viper.SetDefault("COL_AVAILABLE", "available")
	viper.SetDefault("COL_INBOUND_QUANTITY", "inbound-quantity")
	viper.SetDefault("COL_MERCHANT_SKU", "merchant sku")
	viper.SetDefault("COL_MERCHANT_ON_HAND", "available")
	viper.SetDefault("COL_MERCHANT_INBOUND", "inbound")
	viper.SetDefault("COL_SALES_SKU", "sku")
	viper.SetDefault("COL_UNITS_ORDERED", "units ordered")
	viper.SetDefault("COL_UNITS_ORDERED_B2B", "units ordered - b2b")
	viper.SetDefault("COL_SHIPMENT_SKU", "merchant sku")
	viper.SetDefault("COL_SHIPPED_QUANTITY", "shipped")
}

func loadColumns() Columns {
	return Columns{
		SellerSKU:          viper.GetString("COL_SELLER_SKU"),
		ASIN:               viper.GetString("COL_ASIN"),
		Title:              viper.GetString("COL_TITLE"),
		Price:              viper.GetString("COL_PRICE"),
		FulfillmentChannel: viper.GetString("COL_FULFILLMENT_CHANNEL"),
		Status:             viper.GetString("COL_STATUS"),
		FBASKU:             viper.GetString("COL_FBA_SKU"),
		Available:          viper.GetString("COL_AVAILABLE"),
		InboundQty:         viper.GetString("COL_INBOUND_QUANTITY"),
		MerchantSKU:        viper.GetString("COL_MERCHANT_SKU"),
		MerchantOnHand:     viper.GetString("COL_MERCHANT_ON_HAND"),
		MerchantInbound:    viper.GetString("COL_MERCHANT_INBOUND"),
		SalesSKU:           viper.GetString("COL_SALES_SKU"),
		UnitsOrdered:       viper.GetString("COL_UNITS_ORDERED"),
		UnitsB2B:           viper.GetString("COL_UNITS_ORDERED_B2B"),
		ShipmentSKU:        viper.GetString("COL_SHIPMENT_SKU"),
		ShippedQty:         viper.GetString("COL_SHIPPED_QUANTITY"),
	}
}

// Validate reports every blank column name at once rather than failing on the
// first one, so a misconfigured deployment can be fixed in a single pass.
func (c Columns) Validate() error {
	fields := []struct {
		name  string
		value string
	}{
		{"COL_SELLER_SKU", c.SellerSKU},
		{"COL_ASIN", c.ASIN},
		{"COL_TITLE", c.Title},
		{"COL_PRICE", c.Price},
		{"COL_FULFILLMENT_CHANNEL", c.FulfillmentChannel},
		{"COL_STATUS", c.Status},
		{"COL_FBA_SKU", c.FBASKU},
		{"COL_AVAILABLE", c.Available},
		{"COL_INBOUND_QUANTITY", c.InboundQty},
		{"COL_MERCHANT_SKU", c.MerchantSKU},
		{"COL_MERCHANT_ON_HAND", c.MerchantOnHand},
		{"COL_MERCHANT_INBOUND", c.MerchantInbound},
		{"COL_SALES_SKU", c.SalesSKU},
		{"COL_UNITS_ORDERED", c.UnitsOrdered},
		{"COL_UNITS_ORDERED_B2B", c.UnitsB2B},
		{"COL_SHIPMENT_SKU", c.ShipmentSKU},
		{"COL_SHIPPED_QUANTITY", c.ShippedQty},
	}

	var missing []string
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing column configuration: %s", strings.Join(missing, ", "))
	}
	return nil
}
