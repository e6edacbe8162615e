package services

import (
	"context"

	"pdf2xlsx/pkg/models"
)

// SpreadsheetWriter serializes reconstructed sheets into a spreadsheet backend
type SpreadsheetWriter interface {
	// WriteWorkbook writes one sheet per output, in order.
	// Sheet names are made unique by the writer when the backend requires it.
	WriteWorkbook(ctx context.Context, sheets []models.SheetOutput, opts models.WriteOptions) error
}
