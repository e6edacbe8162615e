package sheets

import (
	"context"
	"fmt"
	"math"
	"os"
	"regexp"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
	"pdf2xlsx/internal/logger"
	"pdf2xlsx/internal/workbook"
	"pdf2xlsx/pkg/models"
)

// pixelsPerChar converts character width hints into pixel sizes
const pixelsPerChar = 7

var spreadsheetIDPattern = regexp.MustCompile(`/spreadsheets/d/([a-zA-Z0-9-_]+)`)

// Service writes reconstructed sheets into an existing Google spreadsheet
type Service struct {
	sheetsService *sheets.Service
	spreadsheetID string
	log           zerolog.Logger
}

// NewSheetsService creates a new Google Sheets service
func NewSheetsService(ctx context.Context, sheetURL string) (*Service, error) {
	const op = "NewSheetsService"

	log := logger.WithComponent("sheets")

	spreadsheetID, err := extractSpreadsheetID(sheetURL)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to extract spreadsheet ID: %w", op, err)
	}

	log.Debug().Str("spreadsheet_id", spreadsheetID).Msg("Extracted spreadsheet ID")

	// Get Google credentials
	var creds []byte
	if credsFile := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); credsFile != "" {
		creds, err = os.ReadFile(credsFile)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to read credentials file: %w", op, err)
		}
	} else if credsJSON := os.Getenv("GOOGLE_CREDENTIALS"); credsJSON != "" {
		creds = []byte(credsJSON)
	} else {
		return nil, fmt.Errorf("%s: neither GOOGLE_APPLICATION_CREDENTIALS nor GOOGLE_CREDENTIALS is set", op)
	}

	config, err := google.JWTConfigFromJSON(creds, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse credentials: %w", op, err)
	}

	client := config.Client(ctx)
	sheetsService, err := sheets.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("%s: failed to create sheets service: %w", op, err)
	}

	return &Service{
		sheetsService: sheetsService,
		spreadsheetID: spreadsheetID,
		log:           log,
	}, nil
}

// extractSpreadsheetID extracts the spreadsheet ID from a Google Sheets URL
func extractSpreadsheetID(url string) (string, error) {
	matches := spreadsheetIDPattern.FindStringSubmatch(url)
	if len(matches) < 2 {
		return "", fmt.Errorf("invalid Google Sheets URL format")
	}
	return matches[1], nil
}

// WriteWorkbook adds one sheet per output to the spreadsheet.
// It implements services.SpreadsheetWriter.
func (s *Service) WriteWorkbook(ctx context.Context, outputs []models.SheetOutput, opts models.WriteOptions) error {
	const op = "WriteWorkbook"

	if len(outputs) == 0 {
		return fmt.Errorf("%s: nothing to write", op)
	}

	existing, err := s.sheetTitles(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	raw := make([]string, len(outputs))
	for i, o := range outputs {
		raw[i] = o.SheetName
	}
	names := workbook.UniqueNames(raw, existing, workbook.DefaultMaxSheetNameLength)

	s.log.Info().
		Int("sheets", len(outputs)).
		Int("existing_sheets", len(existing)).
		Msg("Writing sheets to Google Sheet")

	sheetIDs, err := s.addSheets(ctx, names)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	data := make([]*sheets.ValueRange, len(outputs))
	for i, o := range outputs {
		data[i] = &sheets.ValueRange{
			Range:  quoteSheet(names[i]) + "!A1",
			Values: toValues(o.Data),
		}
	}

	_, err = s.sheetsService.Spreadsheets.Values.BatchUpdate(s.spreadsheetID, &sheets.BatchUpdateValuesRequest{
		ValueInputOption: "RAW",
		Data:             data,
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("%s: failed to write values: %w", op, err)
	}

	if requests := formatRequests(outputs, sheetIDs, opts); len(requests) > 0 {
		batchUpdateReq := &sheets.BatchUpdateSpreadsheetRequest{Requests: requests}
		_, err = s.sheetsService.Spreadsheets.BatchUpdate(s.spreadsheetID, batchUpdateReq).Context(ctx).Do()
		if err != nil {
			s.log.Warn().Err(err).Msg("Failed to format sheets, continuing anyway")
		}
	}

	s.log.Info().
		Int("sheets_written", len(outputs)).
		Msg("Successfully wrote sheets to Google Sheet")

	return nil
}

// sheetTitles returns the titles of the sheets already in the spreadsheet
func (s *Service) sheetTitles(ctx context.Context) ([]string, error) {
	spreadsheet, err := s.sheetsService.Spreadsheets.Get(s.spreadsheetID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get spreadsheet: %w", err)
	}

	titles := make([]string, 0, len(spreadsheet.Sheets))
	for _, sheet := range spreadsheet.Sheets {
		if sheet.Properties != nil {
			titles = append(titles, sheet.Properties.Title)
		}
	}
	return titles, nil
}

// addSheets creates the named sheets and returns their IDs in order
func (s *Service) addSheets(ctx context.Context, names []string) ([]int64, error) {
	requests := make([]*sheets.Request, len(names))
	for i, name := range names {
		requests[i] = &sheets.Request{
			AddSheet: &sheets.AddSheetRequest{
				Properties: &sheets.SheetProperties{Title: name},
			},
		}
	}

	resp, err := s.sheetsService.Spreadsheets.BatchUpdate(s.spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: requests,
	}).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets: %w", err)
	}
	if len(resp.Replies) != len(names) {
		return nil, fmt.Errorf("expected %d replies when creating sheets, got %d", len(names), len(resp.Replies))
	}

	ids := make([]int64, len(names))
	for i, reply := range resp.Replies {
		if reply.AddSheet == nil || reply.AddSheet.Properties == nil {
			return nil, fmt.Errorf("missing properties for created sheet %q", names[i])
		}
		ids[i] = reply.AddSheet.Properties.SheetId
	}
	return ids, nil
}

// formatRequests builds header, filter and column width requests
func formatRequests(outputs []models.SheetOutput, sheetIDs []int64, opts models.WriteOptions) []*sheets.Request {
	var requests []*sheets.Request

	for i, o := range outputs {
		rows := int64(len(o.Data))
		var cols int64
		for _, row := range o.Data {
			cols = max(cols, int64(len(row)))
		}
		if rows == 0 || cols == 0 {
			continue
		}
		id := sheetIDs[i]
		header := !o.IsFallback()

		if opts.BoldHeaders && header {
			requests = append(requests, &sheets.Request{
				RepeatCell: &sheets.RepeatCellRequest{
					Range: gridRange(id, 1, cols),
					Cell: &sheets.CellData{
						UserEnteredFormat: &sheets.CellFormat{
							TextFormat: &sheets.TextFormat{
								Bold: true,
							},
						},
					},
					Fields: "userEnteredFormat.textFormat.bold",
				},
			})
		}

		if opts.AutoFilter && header {
			requests = append(requests, &sheets.Request{
				SetBasicFilter: &sheets.SetBasicFilterRequest{
					Filter: &sheets.BasicFilter{Range: gridRange(id, rows, cols)},
				},
			})
		}

		if opts.AutoFitColumns {
			for c, width := range o.ColumnWidths {
				requests = append(requests, &sheets.Request{
					UpdateDimensionProperties: &sheets.UpdateDimensionPropertiesRequest{
						Range: &sheets.DimensionRange{
							SheetId:         id,
							Dimension:       "COLUMNS",
							StartIndex:      int64(c),
							EndIndex:        int64(c + 1),
							ForceSendFields: []string{"SheetId", "StartIndex"},
						},
						Properties: &sheets.DimensionProperties{
							PixelSize: int64(math.Round(width * pixelsPerChar)),
						},
						Fields: "pixelSize",
					},
				})
			}
		}
	}

	return requests
}

func gridRange(sheetID, rows, cols int64) *sheets.GridRange {
	return &sheets.GridRange{
		SheetId:          sheetID,
		StartRowIndex:    0,
		EndRowIndex:      rows,
		StartColumnIndex: 0,
		EndColumnIndex:   cols,
		ForceSendFields:  []string{"SheetId", "StartRowIndex", "StartColumnIndex"},
	}
}

// toValues converts a string grid to the interface{} matrix of the API
func toValues(data [][]string) [][]interface{} {
	values := make([][]interface{}, len(data))
	for r, row := range data {
		values[r] = make([]interface{}, len(row))
		for c, cell := range row {
			values[r][c] = cell
		}
	}
	return values
}

// quoteSheet quotes a sheet title for A1 notation
func quoteSheet(name string) string {
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}
