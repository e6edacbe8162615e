package detect

import (
	"math"
	"sort"

	"pdf2xlsx/pkg/models"
)

// ClusterColumns derives ascending column boundaries from the X origins of
// all fragments in rows.
//
// Distinct rounded X values are sorted and greedily clustered: a value joins
// the open cluster while it lies within threshold of the cluster's running
// average. Unlike GroupRows this compares against the average, not the first
// member. Each cluster collapses to its rounded average.
func ClusterColumns(rows []models.Row, threshold float64) []float64 {
	seen := make(map[float64]struct{})
	var xs []float64
	for _, row := range rows {
		for _, frag := range row.Fragments {
			x := math.Round(frag.X)
			if _, ok := seen[x]; ok {
				continue
			}
			seen[x] = struct{}{}
			xs = append(xs, x)
		}
	}
	if len(xs) == 0 {
		return nil
	}
	sort.Float64s(xs)

	var boundaries []float64
	sum, count := xs[0], 1

	closeCluster := func() {
		b := math.Round(sum / float64(count))
		// Rounding can only collide for sub-unit thresholds.
		if n := len(boundaries); n > 0 && b <= boundaries[n-1] {
			return
		}
		boundaries = append(boundaries, b)
	}

	for _, x := range xs[1:] {
		avg := sum / float64(count)
		if math.Abs(x-avg) <= threshold {
			sum += x
			count++
			continue
		}
		closeCluster()
		sum, count = x, 1
	}
	closeCluster()

	return boundaries
}

// columnRange returns the half-open X interval [start, end) of column i.
func columnRange(columns []float64, i int) (start, end float64) {
	start = columns[i]
	if i+1 < len(columns) {
		return start, columns[i+1]
	}
	return start, start + LastColumnExtent
}

// inColumn reports whether x falls in column i.
func inColumn(columns []float64, i int, x float64) bool {
	start, end := columnRange(columns, i)
	return x >= start && x < end
}
