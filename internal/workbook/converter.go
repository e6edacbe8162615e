// Package workbook turns the text layer of a whole document into an ordered
// list of sheets ready for a spreadsheet writer.
//
// Pages are independent: each one is extracted, detected and reconstructed
// on its own, possibly in parallel, and the results are reassembled in page
// order before sheet names and column widths are assigned.
package workbook

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"pdf2xlsx/internal/detect"
	"pdf2xlsx/internal/logger"
	"pdf2xlsx/internal/textlayer"
	"pdf2xlsx/pkg/models"
)

// DefaultWorkers is the default number of pages processed concurrently.
const DefaultWorkers = 4

// Options configures sheet assembly.
type Options struct {
	IncludePageNumbers   bool
	DetectMultipleTables bool
	MaxSheetNameLength   int
	Workers              int
}

// DefaultOptions returns the default sheet assembly options.
func DefaultOptions() Options {
	return Options{
		IncludePageNumbers:   true,
		DetectMultipleTables: true,
		MaxSheetNameLength:   DefaultMaxSheetNameLength,
		Workers:              DefaultWorkers,
	}
}

func (o Options) maxNameLength() int {
	if o.MaxSheetNameLength <= 0 {
		return DefaultMaxSheetNameLength
	}
	return o.MaxSheetNameLength
}

func (o Options) workers() int {
	if o.Workers <= 0 {
		return 1
	}
	return o.Workers
}

// ProgressFunc is called once per processed page. It cannot stop the conversion.
type ProgressFunc func(done, total int)

// Stats summarizes a conversion.
type Stats struct {
	Pages          int
	Tables         int
	FallbackPages  int
	EmptyPages     int
	MeanConfidence float64 // Mean over detected tables
}

// Result is the outcome of converting a document.
type Result struct {
	Sheets []models.SheetOutput
	Stats  Stats
}

// Converter runs table detection over all pages of a document.
type Converter struct {
	detector *detect.Detector
	opts     Options
	log      zerolog.Logger
}

// NewConverter creates a converter.
func NewConverter(detector *detect.Detector, opts Options) *Converter {
	return &Converter{
		detector: detector,
		opts:     opts,
		log:      logger.WithComponent("workbook"),
	}
}

// Convert detects tables on every page and returns the sheets in page order.
// ErrDocumentEmpty is returned when no page produced a sheet.
func (c *Converter) Convert(ctx context.Context, pages []models.RawPage, progress ProgressFunc) (*Result, error) {
	const op = "Convert"

	results := make([]detect.PageResult, len(pages))

	var mu sync.Mutex
	done := 0

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.opts.workers())

	for i := range pages {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			fragments := textlayer.ExtractFragments(pages[i].Fragments)
			results[i] = c.detector.DetectPage(pages[i].Number, fragments)

			mu.Lock()
			done++
			if progress != nil {
				progress(done, len(pages))
			}
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, NewConversionError(op, err, "page processing interrupted")
	}

	result := c.assemble(pages, results)
	if len(result.Sheets) == 0 {
		return nil, NewConversionError(op, ErrDocumentEmpty, "")
	}

	c.log.Info().
		Int("pages", result.Stats.Pages).
		Int("tables", result.Stats.Tables).
		Int("fallback_pages", result.Stats.FallbackPages).
		Int("empty_pages", result.Stats.EmptyPages).
		Float64("mean_confidence", result.Stats.MeanConfidence).
		Msg("Document converted")

	return result, nil
}

// assemble turns per-page results into named sheets, in page order
func (c *Converter) assemble(pages []models.RawPage, results []detect.PageResult) *Result {
	result := &Result{Stats: Stats{Pages: len(pages)}}
	var confidenceSum float64

	for i, page := range results {
		number := pages[i].Number
		n := len(page.Tables)

		for t, table := range page.Tables {
			result.Sheets = append(result.Sheets, models.SheetOutput{
				Data:         table.Cells,
				SheetName:    SheetName(number, t+1, n, len(result.Sheets)+1, c.opts),
				Page:         number,
				TableIndex:   t + 1,
				Confidence:   table.Table.Confidence,
				ColumnWidths: ColumnWidths(table.Cells),
				MergeHints:   table.MergeHints,
			})
			confidenceSum += table.Table.Confidence
		}
		result.Stats.Tables += n

		switch {
		case page.HasFallback:
			data := [][]string{{page.Fallback}}
			result.Sheets = append(result.Sheets, models.SheetOutput{
				Data:         data,
				SheetName:    SheetName(number, 1, 1, len(result.Sheets)+1, c.opts),
				Page:         number,
				ColumnWidths: ColumnWidths(data),
			})
			result.Stats.FallbackPages++
		case n == 0:
			result.Stats.EmptyPages++
		}
	}

	if result.Stats.Tables > 0 {
		result.Stats.MeanConfidence = confidenceSum / float64(result.Stats.Tables)
	}
	return result
}
