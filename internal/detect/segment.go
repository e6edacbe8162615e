package detect

import (
	"pdf2xlsx/pkg/models"
)

// SegmentTables partitions rows into consecutive tables in a single greedy
// left-to-right pass.
//
// Rows are accumulated one at a time. After each addition the columns of the
// accumulated rows alone are reclustered and validated; as soon as the
// accumulator validates with at least MinRows rows it is emitted and reset.
// Emitted rows are never reconsidered. Rows left in the accumulator at the end
// of the page are dropped.
func SegmentTables(rows []models.Row, cfg Config) []models.CandidateTable {
	var tables []models.CandidateTable
	var acc []models.Row

	for _, row := range rows {
		acc = append(acc, row)

		columns := ClusterColumns(acc, cfg.ColumnThreshold)
		score := ValidateGrid(acc, columns, cfg)
		if !score.IsValid || len(acc) < cfg.MinRows {
			continue
		}

		tables = append(tables, newCandidate(acc, columns, score))
		acc = nil
	}

	return tables
}
