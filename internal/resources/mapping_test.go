package resources

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/w4l-ops/fba-replenish/internal/config"
	"github.com/w4l-ops/fba-replenish/internal/report"
)

func mappingTable() *report.Table {
	header := []string{"seller_sku", "B_SKU", "BS_SKU", "status_US", "fulfillment_US", "status_DE", "fulfillment_DE"}
	rows := [][]string{
		{"X1", "PN-100", "X1-NEW", "Active", "AMAZON_NA", "", ""},
		{"X1M", "PN-100", "X1M-NEW", "Active", "DEFAULT", "Active", "DEFAULT"},
		{"Y2", "PN-200", "", "Inactive", "DEFAULT", "", ""},
		{"Z3", "PN-300", "Z3-NEW", "Suppressed", "DEFAULT", "Active", "DEFAULT"},
		{"W4", "", "W4-NEW", "Incomplete", "DEFAULT", "", ""},
		{"V5", "PN-500", "V5-NEW", "", "DEFAULT", "Active", "DEFAULT"},
	}
	return report.NewTable(header, rows)
}

func TestPartNumberMap(t *testing.T) {
	got, err := PartNumberMap(mappingTable(), "US")
	require.NoError(t, err)

	// Z3 has a disallowed status, V5 a blank one, W4 no part number.
	assert.Equal(t, map[string]string{
		"X1":  "PN-100",
		"X1M": "PN-100",
		"Y2":  "PN-200",
	}, got)
}

func TestSupersessionMapRequiresDefaultFulfillment(t *testing.T) {
	got, err := SupersessionMap(mappingTable(), "US")
	require.NoError(t, err)

	// X1 is Amazon-fulfilled in US, Y2 has no supersession.
	assert.Equal(t, map[string]string{
		"X1M": "X1M-NEW",
		"W4":  "W4-NEW",
	}, got)
}

func TestRegionFilteringIsPerRegion(t *testing.T) {
	got, err := PartNumberMap(mappingTable(), "DE")
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"X1M": "PN-100",
		"Z3":  "PN-300",
		"V5":  "PN-500",
	}, got, "DE statuses differ from US")
}

func TestValidateRegion(t *testing.T) {
	require.NoError(t, ValidateRegion("US"))
	require.NoError(t, ValidateRegion("DE"))

	err := ValidateRegion("BR")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BR")

	_, err = PartNumberMap(mappingTable(), "BR")
	require.Error(t, err)
}

func TestPartNumberMapMissingRegionColumns(t *testing.T) {
	tbl := report.NewTable([]string{"seller_sku", "B_SKU"}, nil)

	_, err := PartNumberMap(tbl, "US")
	var schemaErr *report.SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Contains(t, schemaErr.Missing, "status_US")
}

func TestSaveAndLoadMappingCSV(t *testing.T) {
	rows := [][]string{
		{"seller_sku", "B_SKU", "status_US"},
		{"X1", "PN-100", "Active"},
	}
	path := filepath.Join(t.TempDir(), "data", MappingFileName)
	require.NoError(t, SaveMappingCSV(rows, path))

	tbl, err := LoadMappingCSV(path)
	require.NoError(t, err)
	require.Equal(t, 1, tbl.Len())
	assert.Equal(t, "PN-100", tbl.Value(0, "b_sku"))
}

type staticFetcher struct {
	rows  [][]string
	calls int
}

func (f *staticFetcher) FetchWorksheet(ctx context.Context, spreadsheetID, worksheetName string) ([][]string, error) {
	f.calls++
	return f.rows, nil
}

func TestRefresherFetchesOnCacheMiss(t *testing.T) {
	dataDir := t.TempDir()
	fetcher := &staticFetcher{rows: [][]string{{"seller_sku", "B_SKU", "status_US"}, {"X1", "PN-100", "Active"}}}
	r := NewRefresher(fetcher, NewNoopMappingCache(), config.SheetsConfig{
		SpreadsheetID: "sheet-id",
		WorksheetName: "amazon_sku_mapping",
	}, dataDir)

	path, err := r.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, fetcher.calls)
	assert.Equal(t, MappingPath(dataDir), path)

	_, err = os.Stat(path)
	require.NoError(t, err, "mapping CSV persisted")
}

type memoryCache struct {
	rows [][]string
}

func (m *memoryCache) Get(ctx context.Context) ([][]string, bool, error) {
	return m.rows, m.rows != nil, nil
}

func (m *memoryCache) Set(ctx context.Context, rows [][]string) error {
	m.rows = rows
	return nil
}

func (m *memoryCache) Invalidate(ctx context.Context) error {
	m.rows = nil
	return nil
}

func TestRefresherServesFromCache(t *testing.T) {
	dataDir := t.TempDir()
	fetcher := &staticFetcher{}
	cache := &memoryCache{rows: [][]string{{"seller_sku"}, {"X1"}}}
	r := NewRefresher(fetcher, cache, config.SheetsConfig{}, dataDir)

	_, err := r.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, fetcher.calls, "cache hit skips the spreadsheet")
}
