package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
)

var worksheetHeader = []string{
	"fba_sku", "merchant_skus", "title", "asin", "part_number", "price",
	"inventory", "inbound",
	"shipped_1w", "shipped_2w", "shipped_3w", "shipped_4w",
	"sales_30d", "sales_60d", "sales_90d", "sales_12m", "sales_2yr",
	"merchant_sales_30d", "merchant_sales_12m",
	"wma_forecast", "recommended_shipment",
}

// WriteWorksheetCSV serializes the assembled worksheet. Blank cells mean
// "unknown" (missing price, weekly export without the SKU) and are kept
// blank rather than zeroed.
func WriteWorksheetCSV(ws *Worksheet, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create worksheet file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(worksheetHeader); err != nil {
		return fmt.Errorf("write worksheet header: %w", err)
	}
	for _, row := range ws.Rows {
		record := []string{
			row.FBASKU,
			strings.Join(row.MerchantSKUs, ","),
			row.Title,
			row.ASIN,
			row.PartNumber,
			formatOptional(row.Price),
			formatNumber(row.OnHand),
			formatNumber(row.Inbound),
		}
		for _, wk := range row.Weekly {
			record = append(record, formatOptional(wk))
		}
		for _, s := range row.Sales {
			record = append(record, formatNumber(s))
		}
		record = append(record,
			formatNumber(row.MerchantSales30),
			formatNumber(row.MerchantSales12M),
			formatNumber(row.Forecast),
			formatNumber(row.Recommended),
		)
		if err := w.Write(record); err != nil {
			return fmt.Errorf("write worksheet row %s: %w", row.FBASKU, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush worksheet: %w", err)
	}
	return f.Sync()
}

// WriteUnmappedCandidatesCSV persists the advisory potential-unmapped
// selection for manual review.
func WriteUnmappedCandidatesCSV(candidates []UnmappedCandidate, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create unmapped candidates file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"sku", "title", "asin", "price", "fulfillment_channel"}); err != nil {
		return fmt.Errorf("write unmapped candidates header: %w", err)
	}
	for _, c := range candidates {
		record := []string{c.SKU, c.Title, c.ASIN, formatNumber(c.Price), c.Channel}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("write unmapped candidate %s: %w", c.SKU, err)
		}
	}
	w.Flush()
	return w.Error()
}

// WriteSKUASINJSON dumps the fba_sku -> asin mapping as a debug artifact
// for downstream diagnostic tooling.
func WriteSKUASINJSON(mapping ChannelMapping, path string) error {
	data, err := json.MarshalIndent(mapping.FBAToASIN, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal sku-asin mapping: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write sku-asin mapping: %w", err)
	}
	return nil
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatOptional(v *float64) string {
	if v == nil {
		return ""
	}
	return formatNumber(*v)
}
