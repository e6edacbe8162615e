package cmd

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"pdf2xlsx/internal/detect"
	"pdf2xlsx/internal/logger"
	"pdf2xlsx/internal/sheets"
	"pdf2xlsx/internal/workbook"
	"pdf2xlsx/internal/xlsx"
	"pdf2xlsx/pkg/services"
)

var convertCmd = &cobra.Command{
	Use:   "convert [pdf-file]",
	Short: "Convert the tables of a PDF into an xlsx workbook or Google Sheet",
	Long: `Detect tables in the text layer of a PDF and write each one to its own worksheet.

Every page is analyzed on its own. A page whose text forms one consistent grid
becomes one sheet; otherwise it is split into several tables. Pages without any
table are written as one cell holding all of their text.

Sheets are named "Page N", or "PN-TM" for the M-th table of a page with several
tables. With --no-page-numbers they are numbered "Sheet 1", "Sheet 2", ...

Optional environment variables:
  TABLE_ROW_THRESHOLD, TABLE_COLUMN_THRESHOLD - Row and column clustering thresholds
  TABLE_MIN_GRID_DENSITY, TABLE_MIN_COLUMN_CONSISTENCY - Grid acceptance thresholds
  GOOGLE_SHEET_URL - Default target for --sheet-url
  GOOGLE_APPLICATION_CREDENTIALS or GOOGLE_CREDENTIALS - Required for Google Sheets output`,
	Example: `  # Convert report.pdf to report.xlsx
  pdf2xlsx convert report.pdf

  # Choose the output file
  pdf2xlsx convert report.pdf -o tables.xlsx

  # Append the sheets to an existing Google Sheet
  pdf2xlsx convert report.pdf --sheet-url "https://docs.google.com/spreadsheets/d/ID/edit"

  # One sheet per page, plain formatting
  pdf2xlsx convert report.pdf --single-table --no-bold --no-filter`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)

	convertCmd.Flags().StringP("output", "o", "", "Output xlsx path (default: <pdf-name>.xlsx)")
	convertCmd.Flags().String("sheet-url", "", "Write to this Google Sheet instead of an xlsx file")
	convertCmd.Flags().Bool("no-bold", false, "Do not bold the first row of each sheet")
	convertCmd.Flags().Bool("no-filter", false, "Do not add an autofilter")
	convertCmd.Flags().Bool("no-autofit", false, "Do not set column widths")
	convertCmd.Flags().Bool("single-table", false, "Do not split pages into several tables")
	convertCmd.Flags().Bool("no-page-numbers", false, "Name sheets by position instead of page number")
	convertCmd.Flags().Int("workers", 0, "Pages processed in parallel (default: CONVERT_WORKERS)")
	convertCmd.Flags().Int("timeout", 300, "Processing timeout in seconds")
}

func runConvert(cmd *cobra.Command, args []string) error {
	pdfPath := args[0]
	log := logger.WithFile("convert", pdfPath)

	outputPath, _ := cmd.Flags().GetString("output")
	sheetURL, _ := cmd.Flags().GetString("sheet-url")
	noBold, _ := cmd.Flags().GetBool("no-bold")
	noFilter, _ := cmd.Flags().GetBool("no-filter")
	noAutofit, _ := cmd.Flags().GetBool("no-autofit")
	singleTable, _ := cmd.Flags().GetBool("single-table")
	noPageNumbers, _ := cmd.Flags().GetBool("no-page-numbers")
	workers, _ := cmd.Flags().GetInt("workers")
	timeoutSecs, _ := cmd.Flags().GetInt("timeout")

	cfg := loadConfig(log)
	if noBold {
		cfg.BoldHeaders = false
	}
	if noFilter {
		cfg.AutoFilter = false
	}
	if noAutofit {
		cfg.AutoFitColumns = false
	}
	if singleTable {
		cfg.DetectMultipleTables = false
	}
	if noPageNumbers {
		cfg.IncludePageNumbers = false
	}
	if workers > 0 {
		cfg.Workers = workers
	}
	if sheetURL == "" && outputPath == "" {
		sheetURL = cfg.GoogleSheetURL
	}
	if sheetURL == "" && outputPath == "" {
		outputPath = strings.TrimSuffix(pdfPath, filepath.Ext(pdfPath)) + ".xlsx"
	}

	log.Info().
		Str("output", outputPath).
		Bool("google_sheet", sheetURL != "").
		Bool("multiple_tables", cfg.DetectMultipleTables).
		Int("workers", cfg.Workers).
		Int("timeout", timeoutSecs).
		Msg("Starting conversion")

	if _, err := validatePDFFile(pdfPath, log); err != nil {
		return err
	}

	ctx, cancel := createContextWithTimeout(timeoutSecs, log)
	defer cancel()

	startTime := time.Now()

	pages, err := readDocument(ctx, pdfPath, log)
	if err != nil {
		return handleConversionError(err, log)
	}

	detector, err := detect.NewDetector(cfg.DetectConfig())
	if err != nil {
		return fmt.Errorf("invalid detection settings: %w", err)
	}

	converter := workbook.NewConverter(detector, cfg.WorkbookOptions())
	result, err := converter.Convert(ctx, pages, func(done, total int) {
		log.Debug().
			Int("done", done).
			Int("total", total).
			Msg("Page processed")
	})
	if err != nil {
		return handleConversionError(err, log)
	}

	var writer services.SpreadsheetWriter
	if sheetURL != "" {
		writer, err = sheets.NewSheetsService(ctx, sheetURL)
		if err != nil {
			log.Error().Err(err).Msg("Failed to create Google Sheets service")
			return fmt.Errorf("failed to connect to Google Sheets: %w", err)
		}
	} else {
		writer = xlsx.NewFileWriter(outputPath)
	}

	if err := writer.WriteWorkbook(ctx, result.Sheets, cfg.WriteOptions()); err != nil {
		return handleConversionError(err, log)
	}

	log.Info().
		Int("sheets", len(result.Sheets)).
		Dur("duration", time.Since(startTime)).
		Msg("Conversion completed successfully")

	target := outputPath
	if sheetURL != "" {
		target = sheetURL
	}
	fmt.Printf("Wrote %d sheet(s) to %s\n", len(result.Sheets), target)
	fmt.Printf("Pages: %d, tables: %d, text-only pages: %d, empty pages: %d\n",
		result.Stats.Pages, result.Stats.Tables, result.Stats.FallbackPages, result.Stats.EmptyPages)
	if result.Stats.Tables > 0 {
		fmt.Printf("Mean table confidence: %.1f%%\n", result.Stats.MeanConfidence*100)
	}

	return nil
}
