package detect

import (
	"pdf2xlsx/pkg/models"
)

// ValidateGrid scores the grid implied by rows and column boundaries.
//
// GridDensity is the fraction of (row, column) cells holding at least one
// fragment; Consistency is the fraction of columns populated in at least half
// of the rows. Grids below MinRows or MinCols score zero and are rejected.
func ValidateGrid(rows []models.Row, columns []float64, cfg Config) models.GridScore {
	if len(rows) < cfg.MinRows || len(columns) < cfg.MinCols {
		return models.GridScore{}
	}
	// Guards MinRows/MinCols configured below 1.
	if len(rows) == 0 || len(columns) == 0 {
		return models.GridScore{}
	}

	filled := 0
	columnHits := make([]int, len(columns))

	for _, row := range rows {
		for col := range columns {
			if rowHasFragmentIn(row, columns, col) {
				filled++
				columnHits[col]++
			}
		}
	}

	consistent := 0
	for _, hits := range columnHits {
		if hits*2 >= len(rows) {
			consistent++
		}
	}

	density := float64(filled) / float64(len(rows)*len(columns))
	consistency := float64(consistent) / float64(len(columns))

	return models.GridScore{
		GridDensity: density,
		Consistency: consistency,
		Confidence:  (density + consistency) / 2,
		IsValid:     density >= cfg.MinGridDensity && consistency >= cfg.MinColumnConsistency,
	}
}

func rowHasFragmentIn(row models.Row, columns []float64, col int) bool {
	for _, frag := range row.Fragments {
		if inColumn(columns, col, frag.X) {
			return true
		}
	}
	return false
}

// newCandidate builds a CandidateTable from an accepted grid score
func newCandidate(rows []models.Row, columns []float64, score models.GridScore) models.CandidateTable {
	return models.CandidateTable{
		Rows:        rows,
		Columns:     columns,
		Confidence:  score.Confidence,
		GridDensity: score.GridDensity,
		Consistency: score.Consistency,
	}
}
