package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/w4l-ops/fba-replenish/internal/config"
)

const (
	// UnmappedPartNumber tags tracked rows that have no canonical part
	// number yet. They stay in the worksheet so nothing silently drops out.
	UnmappedPartNumber = "UNMAPPED"
	// NoFBASKU is the placeholder key for standalone merchant rows.
	NoFBASKU = "-"
)

// Sources bundles the parsed exports for one run. Listings and FBAInventory
// are required; everything else may be nil and degrades to zeros or blanks.
type Sources struct {
	Listings     *Table
	FBAInventory *Table
	Restock      *Table
	// Sales windows in fixed order: 30d, 60d, 90d, 12m, 2yr.
	Sales [5]*Table
	// Weekly shipment tables, most recent week first.
	Weekly [4]*Table
}

// Row is one line of the replenishment worksheet.
type Row struct {
	FBASKU       string
	MerchantSKUs []string
	Title        string
	ASIN         string
	PartNumber   string
	Price        *float64
	OnHand       float64
	Inbound      float64
	// Weekly shipment figures, most recent first; nil means the week's
	// export had no entry for this product.
	Weekly [4]*float64
	// Sales windows in the same order as Sources.Sales.
	Sales            [5]float64
	MerchantSales30  float64
	MerchantSales12M float64
	Forecast         float64
	Recommended      float64
}

// Worksheet is the assembled result of one run plus the artifacts that
// diagnostic tooling reads.
type Worksheet struct {
	Rows           []*Row
	Classification Classification
	Mapping        ChannelMapping
	// Inconsistent lists SKUs flagged Amazon-fulfilled in listings but
	// absent from the FBA inventory report.
	Inconsistent []string
}

// UnmappedCandidate is one advisory row of the potential-unmapped report.
type UnmappedCandidate struct {
	SKU     string
	Title   string
	ASIN    string
	Price   float64
	Channel string
}

// Builder assembles the worksheet from the source exports and the canonical
// part-number mapping fetched upstream.
type Builder struct {
	cols     config.Columns
	forecast config.ForecastConfig
	keyword  string
	bandLow  float64
	bandHigh float64

	// partNumbers maps channel SKU -> canonical part number.
	partNumbers map[string]string
	// supersessions maps channel SKU -> superseding SKU; only consulted by
	// the unmapped diagnostic.
	supersessions map[string]string
}

func NewBuilder(cfg *config.Config, partNumbers, supersessions map[string]string) *Builder {
	return &Builder{
		cols:          cfg.Columns,
		forecast:      cfg.Forecast,
		keyword:       cfg.Report.TitleKeyword,
		bandLow:       cfg.Report.PriceBandLow,
		bandHigh:      cfg.Report.PriceBandHigh,
		partNumbers:   partNumbers,
		supersessions: supersessions,
	}
}

// listingInfo caches the first-seen listing fields per SKU.
type listingInfo struct {
	title   string
	asin    string
	status  string
	channel string
	price   *float64
}

// Build runs the whole pipeline: classify, map identities, select the
// tracked subset, join inventory and sales, forecast, and compute the
// recommended shipment, returning the sorted worksheet.
func (b *Builder) Build(src Sources) (*Worksheet, error) {
	if src.Listings == nil {
		return nil, fmt.Errorf("build worksheet: %w", &SchemaError{Table: "listings", Missing: []string{b.cols.SellerSKU}})
	}
	err := src.Listings.RequireColumns("listings",
		b.cols.SellerSKU, b.cols.ASIN, b.cols.Title, b.cols.Price,
		b.cols.FulfillmentChannel, b.cols.Status)
	if err != nil {
		return nil, fmt.Errorf("build worksheet: %w", err)
	}

	cls, err := ClassifyListings(src.Listings, src.FBAInventory, b.cols)
	if err != nil {
		return nil, fmt.Errorf("classify listings: %w", err)
	}
	mapping, err := BuildChannelMapping(src.Listings, cls, b.cols)
	if err != nil {
		return nil, fmt.Errorf("map channel identities: %w", err)
	}
	inconsistent, err := InconsistentSKUs(src.Listings, src.FBAInventory, b.cols)
	if err != nil {
		return nil, fmt.Errorf("check channel consistency: %w", err)
	}
	if len(inconsistent) > 0 {
		log.Warn().Int("count", len(inconsistent)).
			Msg("SKUs marked Amazon-fulfilled but missing from the FBA inventory report")
	}

	universe, info := b.scanListings(src.Listings)
	windows, err := b.aggregateWindows(src.Sales)
	if err != nil {
		return nil, err
	}
	forecasts, err := GenerateForecast(universe, windows, b.forecast)
	if err != nil {
		return nil, fmt.Errorf("generate forecast: %w", err)
	}

	onHand, inbound := b.inventoryMaps(src.FBAInventory, src.Restock)
	weekly := b.weeklyMaps(src.Weekly)

	ws := &Worksheet{
		Classification: cls,
		Mapping:        mapping,
		Inconsistent:   inconsistent,
	}

	// FBA rows first, then merchant listings not owned by any FBA row.
	covered := make(map[string]bool)
	emitted := make(map[string]bool)
	for _, sku := range universe {
		if !cls.FBA[sku] || emitted[sku] || !b.tracked(sku, info[sku]) {
			continue
		}
		emitted[sku] = true
		merchants := mapping.FBAToMerchant[sku]
		for _, m := range merchants {
			covered[m] = true
		}
		ws.Rows = append(ws.Rows, b.populateRow(sku, sku, merchants, info, windows, forecasts, onHand, inbound, weekly))
	}
	for _, sku := range universe {
		if !cls.Merchant[sku] || emitted[sku] || covered[sku] || !b.tracked(sku, info[sku]) {
			continue
		}
		emitted[sku] = true
		ws.Rows = append(ws.Rows, b.populateRow(NoFBASKU, sku, []string{sku}, info, windows, forecasts, onHand, inbound, weekly))
	}

	sort.SliceStable(ws.Rows, func(i, j int) bool {
		ri, rj := ws.Rows[i], ws.Rows[j]
		if ri.Recommended != rj.Recommended {
			return ri.Recommended > rj.Recommended
		}
		if ri.Sales[0] != rj.Sales[0] {
			return ri.Sales[0] > rj.Sales[0]
		}
		return ri.MerchantSales30 > rj.MerchantSales30
	})
	return ws, nil
}

// scanListings walks the listings table once, collecting the SKU universe in
// encounter order and the first-seen fields per SKU.
func (b *Builder) scanListings(listings *Table) ([]string, map[string]listingInfo) {
	var universe []string
	info := make(map[string]listingInfo)
	for i := 0; i < listings.Len(); i++ {
		sku := listings.Value(i, b.cols.SellerSKU)
		if sku == "" {
			continue
		}
		if _, ok := info[sku]; ok {
			continue
		}
		universe = append(universe, sku)
		li := listingInfo{
			title:   listings.Value(i, b.cols.Title),
			asin:    listings.Value(i, b.cols.ASIN),
			status:  listings.Value(i, b.cols.Status),
			channel: strings.ToUpper(listings.Value(i, b.cols.FulfillmentChannel)),
		}
		if p, ok := parseNumber(listings.Value(i, b.cols.Price)); ok {
			li.price = &p
		}
		info[sku] = li
	}
	return universe, info
}

// tracked decides worksheet membership: the listing must be active and
// either carry a canonical part number or match the sub-category title
// keyword.
func (b *Builder) tracked(sku string, li listingInfo) bool {
	if !strings.EqualFold(li.status, "Active") {
		return false
	}
	if _, ok := b.partNumbers[sku]; ok {
		return true
	}
	return b.titleMatches(li.title)
}

func (b *Builder) titleMatches(title string) bool {
	if b.keyword == "" {
		return false
	}
	return strings.Contains(strings.ToLower(title), strings.ToLower(b.keyword))
}

func (b *Builder) aggregateWindows(tables [5]*Table) (SalesWindows, error) {
	names := [5]string{"30-day", "60-day", "90-day", "12-month", "2-year"}
	var aggs [5]map[string]float64
	for i, t := range tables {
		agg, err := AggregateSales(t, b.cols)
		if err != nil {
			return SalesWindows{}, fmt.Errorf("aggregate %s sales: %w", names[i], err)
		}
		aggs[i] = agg
	}
	return SalesWindows{
		Days30:   aggs[0],
		Days60:   aggs[1],
		Days90:   aggs[2],
		Months12: aggs[3],
		Years2:   aggs[4],
	}, nil
}

// inventoryMaps merges the FBA inventory and restock reports into single
// on-hand and inbound lookups. A positive FBA figure wins; restock covers
// merchant SKUs and anything the FBA report zeroes out.
func (b *Builder) inventoryMaps(fbaInventory, restock *Table) (onHand, inbound map[string]float64) {
	onHand = make(map[string]float64)
	inbound = make(map[string]float64)
	for i := 0; i < restock.Len(); i++ {
		sku := restock.Value(i, b.cols.MerchantSKU)
		if sku == "" {
			continue
		}
		onHand[sku] = restock.Float(i, b.cols.MerchantOnHand)
		inbound[sku] = restock.Float(i, b.cols.MerchantInbound)
	}
	for i := 0; i < fbaInventory.Len(); i++ {
		sku := fbaInventory.Value(i, b.cols.FBASKU)
		if sku == "" {
			continue
		}
		if v := fbaInventory.Float(i, b.cols.Available); v > 0 {
			onHand[sku] = v
		}
		if v := fbaInventory.Float(i, b.cols.InboundQty); v > 0 {
			inbound[sku] = v
		}
	}
	return onHand, inbound
}

// weeklyMaps indexes each weekly shipment table by SKU. Presence in the map
// means the week reported the SKU, even at zero units.
func (b *Builder) weeklyMaps(tables [4]*Table) [4]map[string]float64 {
	var out [4]map[string]float64
	for w, t := range tables {
		if t == nil {
			continue
		}
		m := make(map[string]float64, t.Len())
		for i := 0; i < t.Len(); i++ {
			sku := t.Value(i, b.cols.ShipmentSKU)
			if sku == "" {
				continue
			}
			m[sku] += t.Float(i, b.cols.ShippedQty)
		}
		out[w] = m
	}
	return out
}

func (b *Builder) populateRow(fbaSKU, key string, merchants []string, info map[string]listingInfo,
	windows SalesWindows, forecasts map[string]float64,
	onHand, inbound map[string]float64, weekly [4]map[string]float64) *Row {

	li := info[key]
	price := li.price
	if price == nil {
		for _, m := range merchants {
			if mi, ok := info[m]; ok && mi.price != nil {
				price = mi.price
				break
			}
		}
	}

	row := &Row{
		FBASKU:       fbaSKU,
		MerchantSKUs: merchants,
		Title:        li.title,
		ASIN:         li.asin,
		PartNumber:   b.canonicalPartNumber(key, merchants),
		Price:        price,
		OnHand:       onHand[key],
		Inbound:      inbound[key],
		Forecast:     forecasts[key],
	}

	row.Sales[0] = windows.at(windows.Days30, key)
	row.Sales[1] = windows.at(windows.Days60, key)
	row.Sales[2] = windows.at(windows.Days90, key)
	row.Sales[3] = windows.at(windows.Months12, key)
	row.Sales[4] = windows.at(windows.Years2, key)
	for _, m := range merchants {
		row.MerchantSales30 += windows.at(windows.Days30, m)
		row.MerchantSales12M += windows.at(windows.Months12, m)
	}

	// Weekly shipments are keyed by merchant SKU; sum whatever keys the
	// week's export actually covers, and leave the cell blank otherwise.
	keys := append([]string{key}, merchants...)
	for w, shipped := range weekly {
		if shipped == nil {
			continue
		}
		var total float64
		found := false
		seen := make(map[string]bool, len(keys))
		for _, k := range keys {
			if seen[k] {
				continue
			}
			seen[k] = true
			if v, ok := shipped[k]; ok {
				total += v
				found = true
			}
		}
		if found {
			row.Weekly[w] = &total
		}
	}

	row.Recommended = RecommendedShipment(ReplenishmentInput{
		Forecast:        row.Forecast,
		Inbound:         row.Inbound,
		OnHand:          row.OnHand,
		LastWeekShipped: row.Weekly[0],
	})
	return row
}

// canonicalPartNumber resolves the external part number for a row, trying
// the row key first and then its merchant SKUs.
func (b *Builder) canonicalPartNumber(key string, merchants []string) string {
	if pn := b.partNumbers[key]; pn != "" {
		return pn
	}
	for _, m := range merchants {
		if pn := b.partNumbers[m]; pn != "" {
			return pn
		}
	}
	return UnmappedPartNumber
}

// PotentialUnmapped runs the advisory selection of listings that look like
// they belong to the tracked sub-category but are missing from both mapping
// tables: title keyword or price band, Amazon-fulfilled, and unknown to the
// canonical mapping.
func (b *Builder) PotentialUnmapped(listings *Table) ([]UnmappedCandidate, error) {
	err := listings.RequireColumns("listings",
		b.cols.SellerSKU, b.cols.ASIN, b.cols.Title, b.cols.Price, b.cols.FulfillmentChannel)
	if err != nil {
		return nil, fmt.Errorf("select potential unmapped: %w", err)
	}

	var out []UnmappedCandidate
	seen := make(map[string]bool)
	for i := 0; i < listings.Len(); i++ {
		sku := listings.Value(i, b.cols.SellerSKU)
		if sku == "" || seen[sku] {
			continue
		}
		seen[sku] = true
		if _, mapped := b.partNumbers[sku]; mapped {
			continue
		}
		if _, superseded := b.supersessions[sku]; superseded {
			continue
		}
		channel := strings.ToUpper(listings.Value(i, b.cols.FulfillmentChannel))
		if channel != amazonFulfilledChannel {
			continue
		}
		price, _ := parseNumber(listings.Value(i, b.cols.Price))
		title := listings.Value(i, b.cols.Title)
		inBand := price >= b.bandLow && price <= b.bandHigh
		if !b.titleMatches(title) && !inBand {
			continue
		}
		out = append(out, UnmappedCandidate{
			SKU:     sku,
			Title:   title,
			ASIN:    listings.Value(i, b.cols.ASIN),
			Price:   price,
			Channel: channel,
		})
	}
	return out, nil
}
