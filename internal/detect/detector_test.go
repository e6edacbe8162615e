package detect_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pdf2xlsx/internal/detect"
	"pdf2xlsx/pkg/models"
)

func newDetector(t *testing.T, cfg detect.Config) *detect.Detector {
	t.Helper()
	d, err := detect.NewDetector(cfg)
	require.NoError(t, err)
	return d
}

func TestNewDetectorRejectsInvalidConfig(t *testing.T) {
	cfg := detect.DefaultConfig()
	cfg.MinGridDensity = 2

	_, err := detect.NewDetector(cfg)

	assert.Error(t, err)
}

func TestDetectPageWholeGrid(t *testing.T) {
	d := newDetector(t, detect.DefaultConfig())

	result := d.DetectPage(1, gridPage(4, []float64{50, 150, 250}, 700, 20))

	require.Len(t, result.Tables, 1)
	assert.False(t, result.Segmented)
	assert.False(t, result.HasFallback)

	table := result.Tables[0]
	assert.Equal(t, 1.0, table.Table.Confidence)
	require.Len(t, table.Cells, 4)
	assert.Equal(t, []string{"A1", "B1", "C1"}, table.Cells[0])
	assert.Equal(t, []string{"Ax2", "Bx2", "Cx2"}, table.Cells[1])
}

func TestDetectPageSegmentsTwoTables(t *testing.T) {
	d := newDetector(t, detect.DefaultConfig())
	page := append(gridPage(2, []float64{50, 150, 250}, 700, 20), gridPage(2, []float64{400, 500}, 600, 20)...)

	result := d.DetectPage(1, page)

	assert.True(t, result.Segmented)
	require.Len(t, result.Tables, 2)
	assert.Len(t, result.Tables[0].Cells[0], 3)
	assert.Len(t, result.Tables[1].Cells[0], 2)
}

func TestDetectPageSingleTableModeFallsBack(t *testing.T) {
	cfg := detect.DefaultConfig()
	cfg.DetectMultipleTables = false
	d := newDetector(t, cfg)
	page := append(gridPage(2, []float64{50, 150, 250}, 700, 20), gridPage(2, []float64{400, 500}, 600, 20)...)

	result := d.DetectPage(1, page)

	assert.False(t, result.Segmented)
	assert.Empty(t, result.Tables)
	assert.True(t, result.HasFallback)
}

func TestDetectPageParagraphFallback(t *testing.T) {
	d := newDetector(t, detect.DefaultConfig())
	page := paragraph(5)

	result := d.DetectPage(3, page)

	assert.Empty(t, result.Tables)
	require.True(t, result.HasFallback)
	assert.Equal(t, "Lorem ipsum dolor sit amet, consectetur adipiscing elit, sed do eiusmod tempor "+
		"incididunt ut labore et dolore magna aliqua.", result.Fallback)
}

func TestDetectPageEmpty(t *testing.T) {
	d := newDetector(t, detect.DefaultConfig())

	result := d.DetectPage(1, nil)

	assert.Empty(t, result.Tables)
	assert.False(t, result.HasFallback)
}

func TestDetectPageProperties(t *testing.T) {
	d := newDetector(t, detect.DefaultConfig())
	pages := map[string][]models.TextFragment{
		"grid":       gridPage(6, []float64{40, 120, 200, 280}, 750, 18),
		"two tables": append(gridPage(3, []float64{50, 150}, 700, 20), gridPage(2, []float64{300, 400, 500}, 600, 20)...),
		"paragraph":  paragraph(8),
		"mixed": append(append(gridPage(3, []float64{50, 200, 350}, 760, 16),
			paragraph(3)...), gridPage(3, []float64{60, 260}, 500, 16)...),
	}

	for name, page := range pages {
		t.Run(name, func(t *testing.T) {
			first := d.DetectPage(1, page)
			second := d.DetectPage(1, page)
			assert.Equal(t, first, second, "detection is deterministic")

			for _, table := range first.Tables {
				assert.Len(t, table.Cells, len(table.Table.Rows))
				for _, row := range table.Cells {
					assert.Len(t, row, len(table.Table.Columns), "grid is rectangular")
				}
				assert.False(t, detect.IsVacuous(table.Cells))
				assert.GreaterOrEqual(t, table.Table.Confidence, 0.0)
				assert.LessOrEqual(t, table.Table.Confidence, 1.0)
				for i := 1; i < len(table.Table.Columns); i++ {
					assert.Less(t, table.Table.Columns[i-1], table.Table.Columns[i])
				}
			}

			if first.HasFallback {
				for _, f := range page {
					assert.Contains(t, first.Fallback, f.Text)
				}
			}
		})
	}
}

func TestGroupRowsThresholdMonotonic(t *testing.T) {
	page := []models.TextFragment{
		frag("a", 50, 700), frag("b", 150, 697),
		frag("c", 50, 690), frag("d", 150, 688),
		frag("e", 50, 670), frag("f", 150, 660),
	}

	prev := -1
	for _, threshold := range []float64{20, 10, 5, 2, 0} {
		n := len(detect.GroupRows(page, threshold))
		if prev >= 0 {
			assert.GreaterOrEqual(t, n, prev, "lower threshold never yields fewer rows")
		}
		prev = n
	}
}

func TestDetectPageMergeHints(t *testing.T) {
	d := newDetector(t, detect.DefaultConfig())
	page := []models.TextFragment{
		frag("Quarterly revenue summary", 50, 700),
		frag("Q1", 50, 680), frag("Q2", 150, 680), frag("Q3", 250, 680),
		frag("10", 50, 660), frag("20", 150, 660), frag("30", 250, 660),
	}

	result := d.DetectPage(1, page)

	require.Len(t, result.Tables, 1)
	// 25 characters at 6 units overflow the 100 unit column into the next one.
	assert.Equal(t, []models.MergeSpanHint{{Row: 0, Col: 0, Span: 2}}, result.Tables[0].MergeHints)
	assert.Equal(t, "Quarterly revenue summary", result.Tables[0].Cells[0][0])
}

func TestDetectPageWithMeasurer(t *testing.T) {
	d := newDetector(t, detect.DefaultConfig()).WithMeasurer(func(string) float64 { return 0 })

	result := d.DetectPage(1, []models.TextFragment{
		frag(strings.Repeat("wide", 20), 50, 700), frag("b", 150, 700),
		frag("c", 50, 680), frag("d", 150, 680),
	})

	require.Len(t, result.Tables, 1)
	assert.Empty(t, result.Tables[0].MergeHints)
}

// Example demonstrates detection of a small table on one page.
func Example() {
	detector, err := detect.NewDetector(detect.DefaultConfig())
	if err != nil {
		fmt.Println(err)
		return
	}

	fragments := []models.TextFragment{
		{Text: "Item", X: 50, Y: 700}, {Text: "Qty", X: 200, Y: 700}, {Text: "Price", X: 300, Y: 700},
		{Text: "Apples", X: 50, Y: 685}, {Text: "3", X: 200, Y: 685}, {Text: "1.20", X: 300, Y: 685},
		{Text: "Pears", X: 50, Y: 670}, {Text: "5", X: 200, Y: 670}, {Text: "0.90", X: 300, Y: 670},
	}

	result := detector.DetectPage(1, fragments)
	for _, table := range result.Tables {
		fmt.Printf("confidence %.2f\n", table.Table.Confidence)
		for _, row := range table.Cells {
			fmt.Println(strings.Join(row, " | "))
		}
	}
	// Output:
	// confidence 1.00
	// Item | Qty | Price
	// Apples | 3 | 1.20
	// Pears | 5 | 0.90
}
