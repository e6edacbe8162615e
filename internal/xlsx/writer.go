// Package xlsx writes reconstructed sheets into Office Open XML workbooks
// using excelize.
package xlsx

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
	"pdf2xlsx/internal/logger"
	"pdf2xlsx/internal/workbook"
	"pdf2xlsx/pkg/models"
)

// ErrNoSheets is returned when asked to write an empty workbook.
var ErrNoSheets = errors.New("workbook has no sheets")

// defaultSheet is the sheet excelize creates with every new file.
const defaultSheet = "Sheet1"

// Writer writes workbooks to a file path or an io.Writer.
type Writer struct {
	path string
	out  io.Writer
	log  zerolog.Logger
}

// NewFileWriter creates a writer saving to path.
func NewFileWriter(path string) *Writer {
	return &Writer{
		path: path,
		log:  logger.WithComponent("xlsx"),
	}
}

// NewStreamWriter creates a writer serializing to out.
func NewStreamWriter(out io.Writer) *Writer {
	return &Writer{
		out: out,
		log: logger.WithComponent("xlsx"),
	}
}

// WriteWorkbook implements services.SpreadsheetWriter.
func (w *Writer) WriteWorkbook(ctx context.Context, sheets []models.SheetOutput, opts models.WriteOptions) error {
	const op = "WriteWorkbook"

	f, err := Build(ctx, sheets, opts)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			w.log.Warn().Err(closeErr).Msg("Failed to close workbook")
		}
	}()

	if w.out != nil {
		if err := f.Write(w.out); err != nil {
			return fmt.Errorf("%s: failed to serialize workbook: %w", op, err)
		}
	} else {
		if err := f.SaveAs(w.path); err != nil {
			return fmt.Errorf("%s: failed to save workbook to %s: %w", op, w.path, err)
		}
	}

	w.log.Info().
		Str("output", w.path).
		Int("sheets", len(sheets)).
		Msg("Workbook written")
	return nil
}

// Build creates an in-memory workbook with one worksheet per sheet output.
// The caller owns the returned file and must close it.
func Build(ctx context.Context, sheets []models.SheetOutput, opts models.WriteOptions) (*excelize.File, error) {
	if len(sheets) == 0 {
		return nil, ErrNoSheets
	}

	raw := make([]string, len(sheets))
	for i, s := range sheets {
		raw[i] = s.SheetName
	}
	names := workbook.UniqueNames(raw, nil, workbook.DefaultMaxSheetNameLength)

	f := excelize.NewFile()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	for i, sheet := range sheets {
		if err := ctx.Err(); err != nil {
			f.Close()
			return nil, err
		}

		name := names[i]
		if i == 0 {
			err = f.SetSheetName(defaultSheet, name)
		} else {
			_, err = f.NewSheet(name)
		}
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to create sheet %q: %w", name, err)
		}

		if err := writeSheet(f, name, sheet, opts, bold); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to write sheet %q: %w", name, err)
		}
	}

	f.SetActiveSheet(0)
	return f, nil
}

func writeSheet(f *excelize.File, name string, sheet models.SheetOutput, opts models.WriteOptions, boldStyle int) error {
	cols := 0
	for r, row := range sheet.Data {
		cols = max(cols, len(row))

		cell, err := excelize.CoordinatesToCellName(1, r+1)
		if err != nil {
			return err
		}
		values := make([]interface{}, len(row))
		for c, v := range row {
			values[c] = v
		}
		if err := f.SetSheetRow(name, cell, &values); err != nil {
			return err
		}
	}

	rows := len(sheet.Data)
	if rows == 0 || cols == 0 {
		return nil
	}

	// Page text has no header row to style or filter.
	header := !sheet.IsFallback()

	if opts.BoldHeaders && header {
		end, err := excelize.CoordinatesToCellName(cols, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(name, "A1", end, boldStyle); err != nil {
			return err
		}
	}

	if opts.AutoFilter && header {
		end, err := excelize.CoordinatesToCellName(cols, rows)
		if err != nil {
			return err
		}
		if err := f.AutoFilter(name, "A1:"+end, nil); err != nil {
			return err
		}
	}

	if opts.AutoFitColumns {
		for c, width := range sheet.ColumnWidths {
			col, err := excelize.ColumnNumberToName(c + 1)
			if err != nil {
				return err
			}
			if err := f.SetColWidth(name, col, col, width); err != nil {
				return err
			}
		}
	}

	return nil
}
