package resources

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/w4l-ops/fba-replenish/internal/report"
)

// SheetsService reads the mapping worksheet from Google Sheets with a
// service account.
type SheetsService struct {
	srv *sheets.Service
}

func NewSheetsService(ctx context.Context, credentialsJSON string) (*SheetsService, error) {
	config, err := google.JWTConfigFromJSON(
		[]byte(credentialsJSON),
		sheets.SpreadsheetsReadonlyScope,
	)
	if err != nil {
		return nil, fmt.Errorf("parse sheets credentials: %w", err)
	}

	srv, err := sheets.NewService(ctx, option.WithHTTPClient(config.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("create sheets client: %w", err)
	}
	return &SheetsService{srv: srv}, nil
}

// FetchWorksheet downloads all values of one worksheet as string rows.
func (s *SheetsService) FetchWorksheet(ctx context.Context, spreadsheetID, worksheetName string) ([][]string, error) {
	resp, err := s.srv.Spreadsheets.Values.Get(spreadsheetID, worksheetName).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("fetch worksheet %s: %w", worksheetName, err)
	}
	if len(resp.Values) == 0 {
		return nil, fmt.Errorf("worksheet %s is empty", worksheetName)
	}

	rows := make([][]string, 0, len(resp.Values))
	for _, row := range resp.Values {
		cells := make([]string, 0, len(row))
		for _, cell := range row {
			cells = append(cells, fmt.Sprint(cell))
		}
		rows = append(rows, cells)
	}
	return rows, nil
}

// MappingPath is where the persisted mapping CSV lives under the data dir.
func MappingPath(dataDir string) string {
	return filepath.Join(dataDir, MappingFileName)
}

// SaveMappingCSV persists fetched worksheet rows for later runs.
func SaveMappingCSV(rows [][]string, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create mapping directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create mapping file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("write mapping file: %w", err)
	}
	return nil
}

// LoadMappingCSV reads the persisted mapping file into a table. Ragged rows
// are tolerated; missing trailing cells read as blank.
func LoadMappingCSV(path string) (*report.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open mapping file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse mapping file: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("mapping file %s has no header row", path)
	}
	return report.NewTable(records[0], records[1:]), nil
}
