package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"
)

// ReadWorksheetCSV loads a previously written worksheet back into memory,
// e.g. for seeding the warehouse from a past run. Blank optional cells
// (price, weekly shipments) come back as nil.
func ReadWorksheetCSV(path string) (*Worksheet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open worksheet file: %w", err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse worksheet file: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("worksheet file %s has no header row", path)
	}

	t := NewTable(records[0], records[1:])
	if err := t.RequireColumns("worksheet", worksheetHeader...); err != nil {
		return nil, err
	}

	ws := &Worksheet{Rows: make([]*Row, 0, t.Len())}
	for i := 0; i < t.Len(); i++ {
		row := &Row{
			FBASKU:           t.Value(i, "fba_sku"),
			Title:            t.Value(i, "title"),
			ASIN:             t.Value(i, "asin"),
			PartNumber:       t.Value(i, "part_number"),
			Price:            optionalCell(t, i, "price"),
			OnHand:           t.Float(i, "inventory"),
			Inbound:          t.Float(i, "inbound"),
			MerchantSales30:  t.Float(i, "merchant_sales_30d"),
			MerchantSales12M: t.Float(i, "merchant_sales_12m"),
			Forecast:         t.Float(i, "wma_forecast"),
			Recommended:      t.Float(i, "recommended_shipment"),
		}
		if joined := t.Value(i, "merchant_skus"); joined != "" {
			row.MerchantSKUs = strings.Split(joined, ",")
		}
		for w, col := range [4]string{"shipped_1w", "shipped_2w", "shipped_3w", "shipped_4w"} {
			row.Weekly[w] = optionalCell(t, i, col)
		}
		for s, col := range [5]string{"sales_30d", "sales_60d", "sales_90d", "sales_12m", "sales_2yr"} {
			row.Sales[s] = t.Float(i, col)
		}
		ws.Rows = append(ws.Rows, row)
	}
	return ws, nil
}

func optionalCell(t *Table, row int, col string) *float64 {
	v, ok := parseNumber(t.Value(row, col))
	if !ok {
		return nil
	}
	return &v
}
