package exports

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/w4l-ops/fba-replenish/internal/config"
)

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

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func weeklyFile(rows string) string {
	preamble := strings.Repeat("report metadata line\n", 7)
	return preamble + "Merchant SKU,Shipped\n" + rows
}

func newBundle(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "all_listings_report", "listings.txt"),
		"seller-sku\tasin1\titem-name\tprice\tfulfillment-channel\tstatus\n"+
			"X1\ta1\tBorder Kit\t19.99\tAMAZON_NA\tActive\n")
	writeFile(t, filepath.Join(dir, "FBA_Inventory", "inventory.csv"),
		"sku,available,inbound-quantity\nX1,10,2\n")
	writeFile(t, filepath.Join(dir, "30d", "sales.csv"),
		"sku,units ordered,units ordered - b2b\nX1,60,0\n")
	writeFile(t, filepath.Join(dir, "1_W", "week-a.csv"), weeklyFile("X1M,5\nY2M,1\n"))
	writeFile(t, filepath.Join(dir, "1_W", "week-b.csv"), weeklyFile("X1M,10\n"))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "2_W"), 0755))
	writeFile(t, filepath.Join(dir, "2_W", ".gitkeep"), "")
	return dir
}

func TestLoadBundle(t *testing.T) {
	l := NewLoader(newBundle(t), testColumns())

	src, err := l.Load()
	require.NoError(t, err)

	require.NotNil(t, src.Listings)
	assert.Equal(t, 1, src.Listings.Len())
	assert.Equal(t, "X1", src.Listings.Value(0, "seller-sku"))
	assert.Equal(t, "Border Kit", src.Listings.Value(0, "item-name"), "tab-separated parse")

	require.NotNil(t, src.FBAInventory)
	assert.Equal(t, 10.0, src.FBAInventory.Float(0, "available"))

	require.NotNil(t, src.Sales[0])
	assert.Nil(t, src.Sales[1], "missing 60d folder degrades to absent")
	assert.Nil(t, src.Restock, "missing restock folder degrades to absent")
}

func TestLoadWeeklyCombinesFilesBySum(t *testing.T) {
	l := NewLoader(newBundle(t), testColumns())

	src, err := l.Load()
	require.NoError(t, err)

	week := src.Weekly[0]
	require.NotNil(t, week)
	require.Equal(t, 2, week.Len())
	assert.Equal(t, "X1M", week.Value(0, "merchant sku"))
	assert.Equal(t, 15.0, week.Float(0, "shipped"), "summed across files, unlike sales dedup")
	assert.Equal(t, 1.0, week.Float(1, "shipped"))

	assert.Nil(t, src.Weekly[1], "empty weekly folder stays blank")
	assert.Nil(t, src.Weekly[3], "missing weekly folder stays blank")
}

func TestLoadMissingListingsIsFatal(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "FBA_Inventory", "inventory.csv"),
		"sku,available,inbound-quantity\n")

	_, err := NewLoader(dir, testColumns()).Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "listings")
}

func TestLoadAmbiguousListingsFolder(t *testing.T) {
	dir := newBundle(t)
	writeFile(t, filepath.Join(dir, "all_listings_report", "second.txt"), "seller-sku\n")

	_, err := NewLoader(dir, testColumns()).Load()
	require.ErrorIs(t, err, ErrAmbiguousFolder)
}

func TestLoadWeeklyShortPreamble(t *testing.T) {
	dir := newBundle(t)
	writeFile(t, filepath.Join(dir, "3_W", "short.csv"), "only one line")

	_, err := NewLoader(dir, testColumns()).Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "preamble")
}

func TestReadTableLatin1Fallback(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "latin1.csv")
	// 0xE9 is "é" in Latin-1 and invalid on its own in UTF-8.
	require.NoError(t, os.WriteFile(path, []byte("sku,item-name\nX1,Caf\xe9 Border\n"), 0644))

	tbl, err := readTable(path, 0)
	require.NoError(t, err)
	assert.Equal(t, "Café Border", tbl.Value(0, "item-name"))
}

func TestReadTableUnsupportedExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "report.xlsx")
	require.NoError(t, os.WriteFile(path, []byte("binary"), 0644))

	_, err := readTable(path, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported")
}
