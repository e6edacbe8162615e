// Package detect reconstructs tables from positioned text fragments.
//
// Detection is purely geometric. Fragments are grouped into rows by baseline
// proximity, rows share column boundaries derived from fragment X origins, and
// a candidate grid is accepted when it is dense and consistent enough. When a
// whole page does not validate, rows are greedily segmented into smaller
// tables. Nothing in this package performs I/O and every function is
// deterministic for identical input and configuration.
package detect

import "fmt"

const (
	// DefaultRowThreshold is the maximum baseline distance to the row anchor.
	DefaultRowThreshold = 5.0

	// DefaultColumnThreshold is the maximum distance of an X origin to the
	// running average of its column cluster.
	DefaultColumnThreshold = 10.0

	DefaultMinGridDensity       = 0.6
	DefaultMinColumnConsistency = 0.7
	DefaultMinRows              = 2
	DefaultMinCols              = 2
	DefaultMergedCellThreshold  = 0.9

	// LastColumnExtent is added to the last boundary to form the right edge
	// of the last column.
	LastColumnExtent = 1000.0
)

// Config holds the tunable thresholds of the detection pipeline.
type Config struct {
	RowThreshold         float64
	ColumnThreshold      float64
	MinGridDensity       float64
	MinColumnConsistency float64
	MinRows              int
	MinCols              int
	MergedCellThreshold  float64

	// DetectMultipleTables enables segmentation of pages whose whole-page
	// grid is rejected.
	DetectMultipleTables bool
}

// DefaultConfig returns the documented default thresholds.
func DefaultConfig() Config {
	return Config{
		RowThreshold:         DefaultRowThreshold,
		ColumnThreshold:      DefaultColumnThreshold,
		MinGridDensity:       DefaultMinGridDensity,
		MinColumnConsistency: DefaultMinColumnConsistency,
		MinRows:              DefaultMinRows,
		MinCols:              DefaultMinCols,
		MergedCellThreshold:  DefaultMergedCellThreshold,
		DetectMultipleTables: true,
	}
}

// Validate checks that thresholds are within their meaningful ranges.
func (c Config) Validate() error {
	if c.RowThreshold < 0 {
		return fmt.Errorf("row threshold must not be negative, got %v", c.RowThreshold)
	}
	if c.ColumnThreshold < 0 {
		return fmt.Errorf("column threshold must not be negative, got %v", c.ColumnThreshold)
	}
	if c.MinGridDensity < 0 || c.MinGridDensity > 1 {
		return fmt.Errorf("minimum grid density must be within [0,1], got %v", c.MinGridDensity)
	}
	if c.MinColumnConsistency < 0 || c.MinColumnConsistency > 1 {
		return fmt.Errorf("minimum column consistency must be within [0,1], got %v", c.MinColumnConsistency)
	}
	if c.MinRows < 1 {
		return fmt.Errorf("minimum rows must be at least 1, got %d", c.MinRows)
	}
	if c.MinCols < 1 {
		return fmt.Errorf("minimum columns must be at least 1, got %d", c.MinCols)
	}
	if c.MergedCellThreshold <= 0 {
		return fmt.Errorf("merged cell threshold must be positive, got %v", c.MergedCellThreshold)
	}
	return nil
}
