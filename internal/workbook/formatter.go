package workbook

import (
	"fmt"
	"unicode/utf8"
)

const (
	// DefaultMaxSheetNameLength is the sheet name limit of the xlsx format.
	DefaultMaxSheetNameLength = 31

	// MinColumnWidth and MaxColumnWidth bound column width hints, in characters.
	MinColumnWidth = 10
	MaxColumnWidth = 50

	// columnPadding is added to the longest cell of a column.
	columnPadding = 2
)

// ColumnWidths derives one width hint per column from the longest cell text,
// clamped to [MinColumnWidth, MaxColumnWidth]. Ragged rows are tolerated.
func ColumnWidths(data [][]string) []float64 {
	cols := 0
	for _, row := range data {
		cols = max(cols, len(row))
	}
	if cols == 0 {
		return nil
	}

	longest := make([]int, cols)
	for _, row := range data {
		for c, cell := range row {
			longest[c] = max(longest[c], utf8.RuneCountInString(cell))
		}
	}

	widths := make([]float64, cols)
	for c, n := range longest {
		widths[c] = float64(min(max(n+columnPadding, MinColumnWidth), MaxColumnWidth))
	}
	return widths
}

// SheetName derives the name of a sheet.
//
// With page numbers enabled, a page holding several tables names each one
// "P{page}-T{index}" (when multiple table detection is on) and any other
// sheet "Page {page}". Without page numbers sheets are named "Sheet {seq}" by
// their 1-based position in the workbook. Names are truncated to maxLen runes;
// uniqueness is left to the writer.
func SheetName(page, tableIndex, tablesOnPage, seq int, opts Options) string {
	var name string
	switch {
	case opts.IncludePageNumbers && opts.DetectMultipleTables && tablesOnPage > 1:
		name = fmt.Sprintf("P%d-T%d", page, tableIndex)
	case opts.IncludePageNumbers:
		name = fmt.Sprintf("Page %d", page)
	default:
		name = fmt.Sprintf("Sheet %d", seq)
	}
	return TruncateName(name, opts.maxNameLength())
}

// TruncateName cuts name to at most maxLen runes.
func TruncateName(name string, maxLen int) string {
	if maxLen <= 0 || utf8.RuneCountInString(name) <= maxLen {
		return name
	}
	runes := []rune(name)
	return string(runes[:maxLen])
}
