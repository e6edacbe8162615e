package textlayer

import (
	"math"
	"strings"

	"pdf2xlsx/pkg/models"
)

const (
	// baselineTolerance is the maximum baseline difference inside one run.
	baselineTolerance = 0.5

	// runGapRatio is the widest gap, relative to font size, bridged inside a run.
	runGapRatio = 0.3

	// spaceGapRatio is the gap, relative to font size, rendered as a space.
	spaceGapRatio = 0.15

	// overlapRatio is the largest backwards step, relative to font size,
	// still treated as the same run (kerning, overstrike).
	overlapRatio = 0.5
)

// glyph is one text item as reported by the PDF libraries.
type glyph struct {
	S        string
	Font     string
	FontSize float64
	X, Y, W  float64
}

// joinGlyphRuns merges consecutive glyphs that share a font and baseline and
// follow each other closely into single fragments. Many producers emit one
// text item per character; the detector expects word or phrase runs.
func joinGlyphRuns(glyphs []glyph) []models.RawFragment {
	var fragments []models.RawFragment
	var run *glyph
	var text strings.Builder

	flush := func() {
		if run == nil {
			return
		}
		fragments = append(fragments, models.RawFragment{
			Text:      text.String(),
			Transform: [6]float64{run.FontSize, 0, 0, run.FontSize, run.X, run.Y},
			Width:     run.W,
			Height:    run.FontSize,
			FontName:  run.Font,
		})
		run = nil
		text.Reset()
	}

	for _, g := range glyphs {
		if g.S == "" {
			continue
		}
		if run != nil && continuesRun(*run, g) {
			gap := g.X - (run.X + run.W)
			if gap > g.FontSize*spaceGapRatio && !endsWithSpace(text.String()) && !startsWithSpace(g.S) {
				text.WriteByte(' ')
			}
			text.WriteString(g.S)
			run.W = math.Max(run.W, g.X+g.W-run.X)
			continue
		}
		flush()
		start := g
		run = &start
		text.WriteString(g.S)
	}
	flush()

	return fragments
}

func continuesRun(run, g glyph) bool {
	if run.Font != g.Font || math.Abs(run.Y-g.Y) > baselineTolerance {
		return false
	}
	size := math.Max(run.FontSize, g.FontSize)
	gap := g.X - (run.X + run.W)
	return gap >= -size*overlapRatio && gap <= math.Max(1, size*runGapRatio)
}

func endsWithSpace(s string) bool {
	return strings.HasSuffix(s, " ")
}

func startsWithSpace(s string) bool {
	return strings.HasPrefix(s, " ")
}
