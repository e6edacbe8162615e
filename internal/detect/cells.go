package detect

import (
	"sort"
	"strings"

	"pdf2xlsx/pkg/models"
)

// ReconstructCells maps the fragments of a table into a rectangular grid of
// len(table.Rows) x len(table.Columns) strings.
//
// A cell joins, with single spaces and in ascending X order, the text of the
// row's fragments whose X falls in the column's [start, end) interval.
func ReconstructCells(table models.CandidateTable) [][]string {
	grid := make([][]string, len(table.Rows))

	for r, row := range table.Rows {
		cells := make([]string, len(table.Columns))
		for c := range table.Columns {
			var members []models.TextFragment
			for _, frag := range row.Fragments {
				if inColumn(table.Columns, c, frag.X) {
					members = append(members, frag)
				}
			}
			cells[c] = joinByX(members)
		}
		grid[r] = cells
	}

	return grid
}

func joinByX(frags []models.TextFragment) string {
	if len(frags) == 0 {
		return ""
	}
	sort.SliceStable(frags, func(i, j int) bool {
		return frags[i].X < frags[j].X
	})
	parts := make([]string, len(frags))
	for i, frag := range frags {
		parts[i] = frag.Text
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}

// IsVacuous reports whether every cell of the grid is empty.
func IsVacuous(grid [][]string) bool {
	for _, row := range grid {
		for _, cell := range row {
			if cell != "" {
				return false
			}
		}
	}
	return true
}

// FallbackCell joins all fragment texts with single spaces in extraction
// order. It is used when a page yields no table.
func FallbackCell(fragments []models.TextFragment) string {
	parts := make([]string, len(fragments))
	for i, frag := range fragments {
		parts[i] = frag.Text
	}
	return strings.Join(parts, " ")
}
