// Package exports reads the folder-per-report layout of a marketplace
// export bundle into in-memory tables.
package exports

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog/log"

	"github.com/w4l-ops/fba-replenish/internal/config"
	"github.com/w4l-ops/fba-replenish/internal/report"
)

// Folder names inside the exports directory, fixed by the download tooling
// that drops the reports there.
const (
	listingsDir     = "all_listings_report"
	fbaInventoryDir = "FBA_Inventory"
	restockDir      = "restock_report"
)

var (
	salesDirs  = [5]string{"30d", "60d", "90d", "12m", "2yr"}
	weeklyDirs = [4]string{"1_W", "2_W", "3_W", "4_W"}
)

// Weekly shipment exports carry a fixed preamble before the header row.
const weeklyPreambleLines = 7

// ErrAmbiguousFolder means a single-report folder holds more than one file,
// so the loader cannot tell which export is current.
var ErrAmbiguousFolder = errors.New("more than one report file in folder")

type Loader struct {
	dir  string
	cols config.Columns
}

func NewLoader(dir string, cols config.Columns) *Loader {
	return &Loader{dir: dir, cols: cols}
}

// Load reads the whole bundle. Listings and FBA inventory are required;
// restock, sales windows and weekly shipments degrade to absent tables with
// a warning so the run still produces a best-effort worksheet.
func (l *Loader) Load() (report.Sources, error) {
	var src report.Sources
	var err error

	if src.Listings, err = l.loadSingle(listingsDir); err != nil {
		return src, fmt.Errorf("load listings report: %w", err)
	}
	if src.FBAInventory, err = l.loadSingle(fbaInventoryDir); err != nil {
		return src, fmt.Errorf("load FBA inventory report: %w", err)
	}
	src.Restock = l.loadOptional(restockDir)
	for i, dir := range salesDirs {
		src.Sales[i] = l.loadOptional(dir)
	}
	for i, dir := range weeklyDirs {
		if src.Weekly[i], err = l.loadWeekly(dir); err != nil {
			return src, fmt.Errorf("load weekly shipments %s: %w", dir, err)
		}
	}
	return src, nil
}

// loadOptional is loadSingle with absence downgraded to a warning.
func (l *Loader) loadOptional(dir string) *report.Table {
	t, err := l.loadSingle(dir)
	if err != nil {
		if errors.Is(err, ErrAmbiguousFolder) {
			log.Warn().Str("folder", dir).Msg("ambiguous report folder, treating window as absent")
		} else {
			log.Warn().Str("folder", dir).Msg("report folder missing or empty, treating window as absent")
		}
		return nil
	}
	return t
}

func (l *Loader) loadSingle(dir string) (*report.Table, error) {
	files, err := l.reportFiles(dir)
	if err != nil {
		return nil, err
	}
	switch len(files) {
	case 0:
		return nil, fmt.Errorf("no report file in %s", dir)
	case 1:
		return readTable(files[0], 0)
	default:
		return nil, fmt.Errorf("%w: %s", ErrAmbiguousFolder, dir)
	}
}

// loadWeekly combines every file in a weekly shipment folder: each file
// skips the preamble, then shipped quantities are summed per merchant SKU.
// An empty or missing folder yields a nil table, meaning the week is not
// available yet.
func (l *Loader) loadWeekly(dir string) (*report.Table, error) {
	files, err := l.reportFiles(dir)
	if err != nil || len(files) == 0 {
		log.Warn().Str("folder", dir).Msg("weekly shipment folder missing or empty, column will be blank")
		return nil, nil
	}

	totals := make(map[string]float64)
	var order []string
	for _, path := range files {
		t, err := readTable(path, weeklyPreambleLines)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", filepath.Base(path), err)
		}
		if err := t.RequireColumns(dir, l.cols.ShipmentSKU, l.cols.ShippedQty); err != nil {
			return nil, err
		}
		for i := 0; i < t.Len(); i++ {
			sku := t.Value(i, l.cols.ShipmentSKU)
			if sku == "" {
				continue
			}
			if _, ok := totals[sku]; !ok {
				order = append(order, sku)
			}
			totals[sku] += t.Float(i, l.cols.ShippedQty)
		}
	}

	rows := make([][]string, 0, len(order))
	for _, sku := range order {
		rows = append(rows, []string{sku, strconv.FormatFloat(totals[sku], 'f', -1, 64)})
	}
	return report.NewTable([]string{l.cols.ShipmentSKU, l.cols.ShippedQty}, rows), nil
}

// reportFiles lists the data files of one report folder, ignoring the
// housekeeping files the download tooling leaves behind.
func (l *Loader) reportFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(l.dir, dir))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("report folder %s not found", dir)
		}
		return nil, fmt.Errorf("read report folder %s: %w", dir, err)
	}
	var files []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || name == ".gitkeep" || name == ".DS_Store" || strings.HasPrefix(name, ".") {
			continue
		}
		files = append(files, filepath.Join(l.dir, dir, name))
	}
	return files, nil
}

// readTable parses one export file. Extension picks the delimiter: .csv is
// comma-separated, .txt and .tsv are tab-separated. skipLines preamble lines
// are dropped before the header.
func readTable(path string, skipLines int) (*report.Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	data = decodeLatin1IfNeeded(data)
	for i := 0; i < skipLines; i++ {
		idx := bytes.IndexByte(data, '\n')
		if idx < 0 {
			return nil, fmt.Errorf("file %s shorter than its %d preamble lines", filepath.Base(path), skipLines)
		}
		data = data[idx+1:]
	}

	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
	case ".txt", ".tsv":
		r.Comma = '\t'
	default:
		return nil, fmt.Errorf("unsupported report file extension %q", filepath.Ext(path))
	}

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("file %s has no header row", filepath.Base(path))
	}
	return report.NewTable(records[0], records[1:]), nil
}

// decodeLatin1IfNeeded transcodes the occasional Latin-1 export seller
// central still produces. Latin-1 bytes map one to one onto code points.
func decodeLatin1IfNeeded(b []byte) []byte {
	if utf8.Valid(b) {
		return b
	}
	runes := make([]rune, len(b))
	for i, c := range b {
		runes[i] = rune(c)
	}
	return []byte(string(runes))
}
