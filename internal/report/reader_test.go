package report

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadWorksheetCSVRoundTrip(t *testing.T) {
	price := 19.99
	lastWeek := 15.0
	want := &Worksheet{
		Rows: []*Row{
			{
				FBASKU:           "X1",
				MerchantSKUs:     []string{"X1M"},
				Title:            "Border Kit Large",
				ASIN:             "a1",
				PartNumber:       "PN-100",
				Price:            &price,
				OnHand:           10,
				Inbound:          2,
				Weekly:           [4]*float64{&lastWeek, nil, nil, nil},
				Sales:            [5]float64{60, 100, 120, 500, 900},
				MerchantSales30:  6,
				MerchantSales12M: 50,
				Forecast:         46.67,
				Recommended:      19.67,
			},
			{FBASKU: NoFBASKU, PartNumber: UnmappedPartNumber},
		},
	}

	path := filepath.Join(t.TempDir(), "worksheet.csv")
	require.NoError(t, WriteWorksheetCSV(want, path))

	got, err := ReadWorksheetCSV(path)
	require.NoError(t, err)
	require.Len(t, got.Rows, 2)

	x1 := got.Rows[0]
	assert.Equal(t, "X1", x1.FBASKU)
	assert.Equal(t, []string{"X1M"}, x1.MerchantSKUs)
	require.NotNil(t, x1.Price)
	assert.Equal(t, 19.99, *x1.Price)
	require.NotNil(t, x1.Weekly[0])
	assert.Equal(t, 15.0, *x1.Weekly[0])
	assert.Nil(t, x1.Weekly[1])
	assert.Equal(t, [5]float64{60, 100, 120, 500, 900}, x1.Sales)
	assert.Equal(t, 46.67, x1.Forecast)

	dash := got.Rows[1]
	assert.Equal(t, NoFBASKU, dash.FBASKU)
	assert.Nil(t, dash.MerchantSKUs)
	assert.Nil(t, dash.Price)
}

func TestReadWorksheetCSVMissingColumns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.csv")
	require.NoError(t, WriteUnmappedCandidatesCSV(nil, path))

	_, err := ReadWorksheetCSV(path)
	var schemaErr *SchemaError
	require.ErrorAs(t, err, &schemaErr)
}
