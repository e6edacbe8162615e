package models

// RawFragment is one positioned text run as reported by a PDF text layer.
type RawFragment struct {
	Text      string     // Text content, not yet trimmed
	Transform [6]float64 // Affine transform [a b c d e f]; e/f carry the translation
	Width     float64    // Approximate advance width in page units
	Height    float64    // Approximate height (font size) in page units
	FontName  string     // Font resource name
}

// RawPage holds the raw fragments of one page in source order.
type RawPage struct {
	Number    int // 1-based page number
	Fragments []RawFragment
}

// TextFragment is a normalized fragment. X and Y are integer-rounded.
type TextFragment struct {
	Text   string  // Trimmed, never empty
	X      float64 // Left edge
	Y      float64 // Baseline, PDF space (grows upward)
	Width  float64
	Height float64
	Font   string
}

// Row is a horizontal band of fragments in creation order.
type Row struct {
	Fragments []TextFragment
}

// CandidateTable is a row set together with its shared column boundaries.
type CandidateTable struct {
	Rows        []Row
	Columns     []float64 // Ascending column left edges
	Confidence  float64   // (GridDensity + Consistency) / 2
	GridDensity float64   // Fraction of populated cells
	Consistency float64   // Fraction of columns populated in at least half the rows
}

// GridScore is the result of validating a row x column grid.
type GridScore struct {
	GridDensity float64
	Consistency float64
	Confidence  float64
	IsValid     bool
}

// MergeSpanHint flags a cell whose text probably overflows into the next
// Span-1 columns. Advisory only.
type MergeSpanHint struct {
	Row  int `json:"row"`
	Col  int `json:"col"`
	Span int `json:"span"`
}

// SheetOutput is one worksheet worth of reconstructed cells.
type SheetOutput struct {
	Data         [][]string      `json:"data"`
	SheetName    string          `json:"sheet_name"`
	Page         int             `json:"page"`
	TableIndex   int             `json:"table_index"` // 1-based index on the page, 0 for the text fallback
	Confidence   float64         `json:"confidence"`
	ColumnWidths []float64       `json:"column_widths,omitempty"`
	MergeHints   []MergeSpanHint `json:"merge_hints,omitempty"`
}

// IsFallback reports whether the sheet is the single-cell page text fallback.
func (s *SheetOutput) IsFallback() bool {
	return s.TableIndex == 0
}

// WriteOptions are the style toggles honored by spreadsheet writers.
type WriteOptions struct {
	AutoFilter     bool // Apply an autofilter over the occupied range
	AutoFitColumns bool // Apply ColumnWidths hints
	BoldHeaders    bool // Bold the first row
}
