package detect

import (
	"math"
	"sort"

	"pdf2xlsx/pkg/models"
)

// GroupRows clusters fragments into horizontal rows, top of the page first.
//
// Fragments are visited by descending Y. A row is anchored to the Y of its
// first fragment and a fragment joins the open row iff |y - anchor| <= threshold.
// The anchor never moves, so closely spaced baselines cannot drift a row
// downward. Fragments sharing a Y keep their source order.
func GroupRows(fragments []models.TextFragment, threshold float64) []models.Row {
	if len(fragments) == 0 {
		return nil
	}

	sorted := make([]models.TextFragment, len(fragments))
	copy(sorted, fragments)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Y > sorted[j].Y
	})

	var rows []models.Row
	current := models.Row{Fragments: []models.TextFragment{sorted[0]}}
	anchorY := sorted[0].Y

	for _, frag := range sorted[1:] {
		if math.Abs(frag.Y-anchorY) <= threshold {
			current.Fragments = append(current.Fragments, frag)
			continue
		}
		rows = append(rows, current)
		current = models.Row{Fragments: []models.TextFragment{frag}}
		anchorY = frag.Y
	}
	rows = append(rows, current)

	return rows
}

// countFragments returns the number of fragments across rows
func countFragments(rows []models.Row) int {
	n := 0
	for _, row := range rows {
		n += len(row.Fragments)
	}
	return n
}
