package detect

import (
	"fmt"

	"github.com/rs/zerolog"
	"pdf2xlsx/internal/logger"
	"pdf2xlsx/pkg/models"
)

// DetectedTable is an accepted candidate with its reconstructed cells.
type DetectedTable struct {
	Table      models.CandidateTable
	Cells      [][]string
	MergeHints []models.MergeSpanHint
}

// PageResult is the outcome of running detection over one page.
type PageResult struct {
	Tables []DetectedTable

	// Fallback holds the page text joined in extraction order when no table
	// was accepted but the page has fragments.
	Fallback    string
	HasFallback bool

	// Segmented is true when the whole-page grid was rejected.
	Segmented bool
}

// Detector runs the table detection pipeline over single pages.
// A Detector holds no per-page state and is safe for concurrent use.
type Detector struct {
	cfg     Config
	measure TextMeasurer
	log     zerolog.Logger
}

// NewDetector creates a detector with the given configuration.
func NewDetector(cfg Config) (*Detector, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("NewDetector: invalid configuration: %w", err)
	}
	return &Detector{
		cfg:     cfg,
		measure: CharCountMeasurer,
		log:     logger.WithComponent("detect"),
	}, nil
}

// WithMeasurer replaces the text width estimate used for merge-span hints.
func (d *Detector) WithMeasurer(m TextMeasurer) *Detector {
	if m != nil {
		d.measure = m
	}
	return d
}

// DetectPage detects the tables formed by one page's fragments.
func (d *Detector) DetectPage(page int, fragments []models.TextFragment) PageResult {
	var result PageResult

	rows := GroupRows(fragments, d.cfg.RowThreshold)
	if len(rows) == 0 {
		d.log.Debug().Int("page", page).Msg("Page has no fragments")
		return result
	}

	columns := ClusterColumns(rows, d.cfg.ColumnThreshold)
	score := ValidateGrid(rows, columns, d.cfg)

	d.log.Debug().
		Int("page", page).
		Int("rows", len(rows)).
		Int("columns", len(columns)).
		Float64("grid_density", score.GridDensity).
		Float64("consistency", score.Consistency).
		Bool("valid", score.IsValid).
		Msg("Validated whole-page grid")

	var candidates []models.CandidateTable
	switch {
	case score.IsValid:
		candidates = []models.CandidateTable{newCandidate(rows, columns, score)}
	case d.cfg.DetectMultipleTables:
		result.Segmented = true
		candidates = SegmentTables(rows, d.cfg)
		kept := 0
		for _, c := range candidates {
			kept += countFragments(c.Rows)
		}
		d.log.Debug().
			Int("page", page).
			Int("tables", len(candidates)).
			Int("dropped_fragments", len(fragments)-kept).
			Msg("Segmented page into tables")
	}

	for _, candidate := range candidates {
		cells := ReconstructCells(candidate)
		if IsVacuous(cells) {
			continue
		}
		result.Tables = append(result.Tables, DetectedTable{
			Table:      candidate,
			Cells:      cells,
			MergeHints: EstimateMergeSpans(cells, candidate.Columns, d.cfg.MergedCellThreshold, d.measure),
		})
	}

	if len(result.Tables) == 0 && len(fragments) > 0 {
		result.Fallback = FallbackCell(fragments)
		result.HasFallback = true
		d.log.Debug().
			Int("page", page).
			Int("fragments", len(fragments)).
			Msg("No table accepted, using page text fallback")
	}

	return result
}
