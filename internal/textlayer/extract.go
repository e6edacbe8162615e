package textlayer

import (
	"math"
	"strings"

	"pdf2xlsx/pkg/models"
)

// Transform components holding the X and Y translation.
const (
	transformX = 4
	transformY = 5
)

// ExtractFragments normalizes raw fragments of one page.
// Whitespace-only fragments are dropped, text is trimmed and the translation
// of the transform is rounded to integer X/Y. Source order is kept.
func ExtractFragments(raw []models.RawFragment) []models.TextFragment {
	fragments := make([]models.TextFragment, 0, len(raw))
	for _, r := range raw {
		text := strings.TrimSpace(r.Text)
		if text == "" {
			continue
		}
		fragments = append(fragments, models.TextFragment{
			Text:   text,
			X:      math.Round(r.Transform[transformX]),
			Y:      math.Round(r.Transform[transformY]),
			Width:  r.Width,
			Height: r.Height,
			Font:   r.FontName,
		})
	}
	return fragments
}
