package detect

import (
	"unicode/utf8"

	"pdf2xlsx/pkg/models"
)

const (
	// DefaultCharWidth approximates the rendered width of one character in
	// page units. It has no font-metric backing.
	DefaultCharWidth = 6.0

	// MaxMergeSpan caps the number of columns a hint may cover.
	MaxMergeSpan = 5

	// mergeFitTolerance is how far below the estimate the absorbed width may fall.
	mergeFitTolerance = 0.1
)

// TextMeasurer estimates the rendered width of s in page units.
type TextMeasurer func(s string) float64

// CharCountMeasurer measures text as rune count times DefaultCharWidth.
func CharCountMeasurer(s string) float64 {
	return float64(utf8.RuneCountInString(s)) * DefaultCharWidth
}

// EstimateMergeSpans flags cells whose text probably overflows into the
// columns to their right. The grid is never modified.
//
// A cell outside the last column triggers a probe when its estimated width
// exceeds its column width times threshold. The probe absorbs 1 to
// MaxMergeSpan-1 following columns and the first span whose total width is
// within 10% of the estimate is reported. The last column has no right
// boundary, so it is measured as the mean width of the bounded columns.
func EstimateMergeSpans(grid [][]string, columns []float64, threshold float64, measure TextMeasurer) []models.MergeSpanHint {
	if measure == nil {
		measure = CharCountMeasurer
	}
	n := len(columns)
	if n < 2 {
		return nil
	}

	lastWidth := (columns[n-1] - columns[0]) / float64(n-1)

	var hints []models.MergeSpanHint
	for r, row := range grid {
		for c := 0; c < n-1 && c < len(row); c++ {
			text := row[c]
			if text == "" {
				continue
			}
			estimated := measure(text)
			if estimated <= (columns[c+1]-columns[c])*threshold {
				continue
			}
			if span := probeSpan(columns, lastWidth, c, estimated); span > 1 {
				hints = append(hints, models.MergeSpanHint{Row: r, Col: c, Span: span})
			}
		}
	}
	return hints
}

// probeSpan returns the smallest span starting at column c whose width fits
// estimated, or 1 when nothing fits. lastWidth stands in for the width of
// the final column.
func probeSpan(columns []float64, lastWidth float64, c int, estimated float64) int {
	for extra := 1; extra < MaxMergeSpan; extra++ {
		last := c + extra
		if last >= len(columns) {
			break
		}
		end := columns[last] + lastWidth
		if last+1 < len(columns) {
			end = columns[last+1]
		}
		available := end - columns[c]
		if available >= estimated*(1-mergeFitTolerance) {
			return extra + 1
		}
	}
	return 1
}
