package report

import "github.com/w4l-ops/fba-replenish/internal/config"

func testColumns() config.Columns {
	return config.Columns{
		SellerSKU:          "seller-sku",
		ASIN:               "asin1",
		Title:              "item-name",
		Price:              "price",
		FulfillmentChannel: "fulfillment-channel",
		Status:             "status",
		FBASKU:             "sku",
		Available:          "available",
		InboundQty:         "inbound-quantity",
		MerchantSKU:        "merchant sku",
		MerchantOnHand:     "available",
		MerchantInbound:    "inbound",
		SalesSKU:           "sku",
		UnitsOrdered:       "units ordered",
		UnitsB2B:           "units ordered - b2b",
		ShipmentSKU:        "merchant sku",
		ShippedQty:         "shipped",
	}
}

func testForecastConfig() config.ForecastConfig {
	return config.ForecastConfig{
		WeightM1:      3,
		WeightM2:      2,
		WeightM3:      1,
		FloorFraction: 0.05,
	}
}
