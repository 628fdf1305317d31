package domain

import "time"

// ReplenishmentRow is one worksheet line persisted in the warehouse.
type ReplenishmentRow struct {
	ID               int64     `db:"id" json:"id"`
	RunDate          time.Time `db:"run_date" json:"run_date"`
	FBASKU           string    `db:"fba_sku" json:"fba_sku"`
	MerchantSKUs     string    `db:"merchant_skus" json:"merchant_skus"`
	Title            string    `db:"title" json:"title"`
	ASIN             string    `db:"asin" json:"asin"`
	PartNumber       string    `db:"part_number" json:"part_number"`
	Price            *float64  `db:"price" json:"price,omitempty"`
	OnHand           float64   `db:"on_hand" json:"on_hand"`
	Inbound          float64   `db:"inbound" json:"inbound"`
	Shipped1W        *float64  `db:"shipped_1w" json:"shipped_1w,omitempty"`
	Shipped2W        *float64  `db:"shipped_2w" json:"shipped_2w,omitempty"`
	Shipped3W        *float64  `db:"shipped_3w" json:"shipped_3w,omitempty"`
	Shipped4W        *float64  `db:"shipped_4w" json:"shipped_4w,omitempty"`
	Sales30D         float64   `db:"sales_30d" json:"sales_30d"`
	Sales60D         float64   `db:"sales_60d" json:"sales_60d"`
	Sales90D         float64   `db:"sales_90d" json:"sales_90d"`
	Sales12M         float64   `db:"sales_12m" json:"sales_12m"`
	Sales2Yr         float64   `db:"sales_2yr" json:"sales_2yr"`
	MerchantSales30D float64   `db:"merchant_sales_30d" json:"merchant_sales_30d"`
	MerchantSales12M float64   `db:"merchant_sales_12m" json:"merchant_sales_12m"`
	Forecast         float64   `db:"wma_forecast" json:"wma_forecast"`
	Recommended      float64   `db:"recommended_shipment" json:"recommended_shipment"`
}

// Snapshot is one run's worth of worksheet rows, keyed by run date.
type Snapshot struct {
	RunDate time.Time          `json:"run_date"`
	Rows    []ReplenishmentRow `json:"rows"`
}
