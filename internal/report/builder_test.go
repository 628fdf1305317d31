package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/w4l-ops/fba-replenish/internal/config"
)

func testBuilder(partNumbers, supersessions map[string]string) *Builder {
	cfg := &config.Config{
		Report: config.ReportConfig{
			TitleKeyword:  "Border",
			PriceBandLow:  17,
			PriceBandHigh: 20,
		},
		Forecast: testForecastConfig(),
		Columns:  testColumns(),
	}
	return NewBuilder(cfg, partNumbers, supersessions)
}

func testSources() Sources {
	listings := listingsTable(
		[]string{"X1", "a1", "Border Kit Large", "19.99", "AMAZON_NA", "Active"},
		[]string{"X1M", "a1", "Border Kit Large", "18.50", "DEFAULT", "Active"},
		[]string{"Y2M", "a2", "Border Solo Strip", "12.00", "DEFAULT", "Active"},
		[]string{"Z3", "a3", "Garden Gadget", "9.99", "AMAZON_NA", "Active"},
		[]string{"W4", "a4", "Border Retired", "5", "AMAZON_NA", "Incomplete"},
		[]string{"V5", "a5", "Plain Widget", "18.00", "AMAZON_NA", "Active"},
	)
	restock := NewTable([]string{"merchant sku", "available", "inbound"}, [][]string{
		{"X1M", "3", "1"},
		{"Y2M", "4", "0"},
	})
	weekly1 := NewTable([]string{"merchant sku", "shipped"}, [][]string{{"X1M", "15"}})
	weekly2 := NewTable([]string{"merchant sku", "shipped"}, [][]string{
		{"X1M", "3"},
		{"Y2M", "1"},
	})
	return Sources{
		Listings:     listings,
		FBAInventory: fbaInventoryTable([]string{"X1", "10", "2"}),
		Restock:      restock,
		Sales: [5]*Table{
			salesTable([]string{"X1", "60", "0"}, []string{"X1M", "5", "1"}, []string{"Y2M", "2", "0"}),
			salesTable([]string{"X1", "100", "0"}),
			salesTable([]string{"X1", "120", "0"}),
			salesTable([]string{"X1", "500", "0"}, []string{"X1M", "50", "0"}, []string{"Y2M", "30", "0"}),
			nil,
		},
		Weekly: [4]*Table{weekly1, weekly2, nil, nil},
	}
}

func TestBuildWorksheet(t *testing.T) {
	b := testBuilder(map[string]string{"X1": "PN-100"}, nil)

	ws, err := b.Build(testSources())
	require.NoError(t, err)
	require.Len(t, ws.Rows, 2)

	x1 := ws.Rows[0]
	assert.Equal(t, "X1", x1.FBASKU)
	assert.Equal(t, []string{"X1M"}, x1.MerchantSKUs)
	assert.Equal(t, "PN-100", x1.PartNumber)
	require.NotNil(t, x1.Price)
	assert.Equal(t, 19.99, *x1.Price)
	assert.Equal(t, 10.0, x1.OnHand)
	assert.Equal(t, 2.0, x1.Inbound)
	assert.Equal(t, [5]float64{60, 100, 120, 500, 0}, x1.Sales)
	assert.Equal(t, 6.0, x1.MerchantSales30)
	assert.Equal(t, 50.0, x1.MerchantSales12M)
	require.NotNil(t, x1.Weekly[0])
	assert.Equal(t, 15.0, *x1.Weekly[0])
	require.NotNil(t, x1.Weekly[1])
	assert.Equal(t, 3.0, *x1.Weekly[1])
	assert.Nil(t, x1.Weekly[2])
	assert.Equal(t, 46.67, x1.Forecast)
	// last week (15) exceeds inbound (2): effective inbound 17.
	assert.InDelta(t, 19.67, x1.Recommended, 1e-9)

	y2m := ws.Rows[1]
	assert.Equal(t, NoFBASKU, y2m.FBASKU)
	assert.Equal(t, []string{"Y2M"}, y2m.MerchantSKUs)
	assert.Equal(t, UnmappedPartNumber, y2m.PartNumber)
	assert.Equal(t, 4.0, y2m.OnHand)
	assert.Equal(t, 2.0, y2m.Sales[0])
	assert.Nil(t, y2m.Weekly[0], "most recent week did not cover the SKU")
	require.NotNil(t, y2m.Weekly[1])
	assert.Equal(t, 1.0, *y2m.Weekly[1])
	assert.Equal(t, 1.0, y2m.Forecast)
	assert.Equal(t, 0.0, y2m.Recommended)
}

func TestBuildExcludesUntrackedAndInactive(t *testing.T) {
	b := testBuilder(map[string]string{"X1": "PN-100"}, nil)

	ws, err := b.Build(testSources())
	require.NoError(t, err)

	for _, row := range ws.Rows {
		assert.NotEqual(t, "Z3", row.FBASKU, "no part number, no keyword")
		assert.NotEqual(t, "V5", row.FBASKU, "no part number, no keyword")
		assert.NotEqual(t, "W4", row.FBASKU, "inactive listing")
		assert.NotEqual(t, "X1M", row.FBASKU, "owned by an FBA row")
	}
}

func TestBuildInventoryPrecedenceAndPriceFallback(t *testing.T) {
	listings := listingsTable(
		[]string{"X1", "a1", "Border Kit", "", "AMAZON_NA", "Active"},
		[]string{"X1M", "a1", "Border Kit", "18.50", "DEFAULT", "Active"},
	)
	restock := NewTable([]string{"merchant sku", "available", "inbound"}, [][]string{
		{"X1", "7", "4"},
	})
	src := Sources{
		Listings:     listings,
		FBAInventory: fbaInventoryTable([]string{"X1", "0", "5"}),
		Restock:      restock,
	}

	ws, err := testBuilder(map[string]string{"X1": "PN-100"}, nil).Build(src)
	require.NoError(t, err)
	require.Len(t, ws.Rows, 1)

	x1 := ws.Rows[0]
	require.NotNil(t, x1.Price)
	assert.Equal(t, 18.50, *x1.Price, "merchant listing price fills a blank FBA price")
	assert.Equal(t, 7.0, x1.OnHand, "zeroed FBA figure falls back to restock")
	assert.Equal(t, 5.0, x1.Inbound)
}

func TestBuildSortsByRecommendedThenSales(t *testing.T) {
	listings := listingsTable(
		[]string{"A1", "a1", "Border One", "19", "AMAZON_NA", "Active"},
		[]string{"B2", "a2", "Border Two", "19", "AMAZON_NA", "Active"},
		[]string{"C3", "a3", "Border Three", "19", "AMAZON_NA", "Active"},
	)
	src := Sources{
		Listings:     listings,
		FBAInventory: fbaInventoryTable(),
		Sales: [5]*Table{
			salesTable([]string{"A1", "6", "0"}, []string{"B2", "6", "0"}, []string{"C3", "12", "0"}),
			nil, nil, nil, nil,
		},
	}

	ws, err := testBuilder(nil, nil).Build(src)
	require.NoError(t, err)
	require.Len(t, ws.Rows, 3)

	// C3 has the highest forecast and nothing on hand, so it leads; A1 and
	// B2 tie on recommended and 30-day sales and keep listing order.
	assert.Equal(t, "C3", ws.Rows[0].FBASKU)
	assert.Equal(t, "A1", ws.Rows[1].FBASKU)
	assert.Equal(t, "B2", ws.Rows[2].FBASKU)
}

func TestBuildMissingListings(t *testing.T) {
	_, err := testBuilder(nil, nil).Build(Sources{})
	var schemaErr *SchemaError
	require.ErrorAs(t, err, &schemaErr)
}

func TestBuildEmptyListingsFailsOnForecast(t *testing.T) {
	src := Sources{Listings: listingsTable()}

	_, err := testBuilder(nil, nil).Build(src)
	require.ErrorIs(t, err, ErrEmptySKUUniverse)
}

func TestPotentialUnmapped(t *testing.T) {
	b := testBuilder(map[string]string{"X1": "PN-100"}, map[string]string{})

	got, err := b.PotentialUnmapped(testSources().Listings)
	require.NoError(t, err)
	require.Len(t, got, 2)

	// W4 matches the title keyword, V5 the price band; both Amazon-fulfilled
	// and absent from the mapping tables.
	assert.Equal(t, "W4", got[0].SKU)
	assert.Equal(t, "V5", got[1].SKU)
	assert.Equal(t, 18.0, got[1].Price)
}

func TestPotentialUnmappedSkipsSuperseded(t *testing.T) {
	b := testBuilder(map[string]string{"X1": "PN-100"}, map[string]string{"W4": "W4-NEW"})

	got, err := b.PotentialUnmapped(testSources().Listings)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "V5", got[0].SKU)
}
