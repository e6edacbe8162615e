package detect_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pdf2xlsx/internal/detect"
	"pdf2xlsx/pkg/models"
)

func frag(text string, x, y float64) models.TextFragment {
	return models.TextFragment{Text: text, X: x, Y: y, Width: float64(len(text)) * 6, Height: 10}
}

// gridPage lays out rows x cols fragments on a regular grid.
func gridPage(rows int, xs []float64, top, step float64) []models.TextFragment {
	var frags []models.TextFragment
	for r := 0; r < rows; r++ {
		y := top - float64(r)*step
		for c, x := range xs {
			frags = append(frags, frag(cellText(r, c), x, y))
		}
	}
	return frags
}

func cellText(r, c int) string {
	return string(rune('A'+c)) + strings.Repeat("x", r%3) + string(rune('1'+r))
}

func TestGroupRows(t *testing.T) {
	frags := []models.TextFragment{
		frag("a", 10, 100),
		frag("b", 50, 102),
		frag("c", 90, 97),
		frag("d", 10, 50),
		frag("e", 50, 50),
	}

	rows := detect.GroupRows(frags, detect.DefaultRowThreshold)

	require.Len(t, rows, 2)
	assert.Len(t, rows[0].Fragments, 3)
	assert.Len(t, rows[1].Fragments, 2)
	assert.Equal(t, "b", rows[0].Fragments[0].Text, "row starts at the highest baseline")
}

func TestGroupRowsAnchorDoesNotDrift(t *testing.T) {
	// Each baseline is within the threshold of the previous one, but not of the anchor.
	frags := []models.TextFragment{
		frag("a", 10, 100),
		frag("b", 10, 96),
		frag("c", 10, 92),
		frag("d", 10, 88),
	}

	rows := detect.GroupRows(frags, 5)

	require.Len(t, rows, 2)
	assert.Equal(t, []string{"a", "b"}, texts(rows[0]))
	assert.Equal(t, []string{"c", "d"}, texts(rows[1]))
}

func TestGroupRowsEmpty(t *testing.T) {
	assert.Empty(t, detect.GroupRows(nil, 5))
}

func TestGroupRowsKeepsSourceOrderOnEqualY(t *testing.T) {
	frags := []models.TextFragment{frag("z", 300, 10), frag("y", 100, 10), frag("x", 200, 10)}

	rows := detect.GroupRows(frags, 5)

	require.Len(t, rows, 1)
	assert.Equal(t, []string{"z", "y", "x"}, texts(rows[0]))
}

func texts(row models.Row) []string {
	out := make([]string, len(row.Fragments))
	for i, f := range row.Fragments {
		out[i] = f.Text
	}
	return out
}

func TestClusterColumns(t *testing.T) {
	tests := []struct {
		name string
		xs   []float64
		want []float64
	}{
		{"close origins merge", []float64{10, 12, 50, 53, 100}, []float64{11, 52, 100}},
		{"single column", []float64{72, 73, 72}, []float64{73}},
		{"duplicates collapse", []float64{20, 20, 20, 200}, []float64{20, 200}},
		{"unsorted input", []float64{300, 100, 200}, []float64{100, 200, 300}},
		{"joins against running average", []float64{0, 8, 12}, []float64{7}},
		{"splits beyond threshold", []float64{0, 8, 16, 24}, []float64{4, 20}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var row models.Row
			for _, x := range tt.xs {
				row.Fragments = append(row.Fragments, frag("t", x, 0))
			}

			got := detect.ClusterColumns([]models.Row{row}, detect.DefaultColumnThreshold)

			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClusterColumnsStrictlyIncreasing(t *testing.T) {
	var row models.Row
	for _, x := range []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10} {
		row.Fragments = append(row.Fragments, frag("t", x, 0))
	}

	got := detect.ClusterColumns([]models.Row{row}, 0.4)

	for i := 1; i < len(got); i++ {
		assert.Less(t, got[i-1], got[i])
	}
}

func TestValidateGridPerfect(t *testing.T) {
	cfg := detect.DefaultConfig()
	rows := detect.GroupRows(gridPage(4, []float64{50, 150, 250}, 700, 20), cfg.RowThreshold)
	columns := detect.ClusterColumns(rows, cfg.ColumnThreshold)

	score := detect.ValidateGrid(rows, columns, cfg)

	assert.Equal(t, []float64{50, 150, 250}, columns)
	assert.Equal(t, 1.0, score.GridDensity)
	assert.Equal(t, 1.0, score.Consistency)
	assert.Equal(t, 1.0, score.Confidence)
	assert.True(t, score.IsValid)
}

func TestValidateGridBelowMinimums(t *testing.T) {
	cfg := detect.DefaultConfig()

	oneRow := detect.GroupRows(gridPage(1, []float64{50, 150}, 700, 20), cfg.RowThreshold)
	assert.Equal(t, models.GridScore{}, detect.ValidateGrid(oneRow, []float64{50, 150}, cfg))

	oneCol := detect.GroupRows(gridPage(3, []float64{50}, 700, 20), cfg.RowThreshold)
	assert.Equal(t, models.GridScore{}, detect.ValidateGrid(oneCol, []float64{50}, cfg))
}

func TestValidateGridSparse(t *testing.T) {
	cfg := detect.DefaultConfig()
	frags := []models.TextFragment{
		frag("a", 50, 700), frag("b", 150, 700), frag("c", 250, 700), frag("d", 350, 700),
		frag("e", 50, 680),
		frag("f", 50, 660),
	}
	rows := detect.GroupRows(frags, cfg.RowThreshold)
	columns := detect.ClusterColumns(rows, cfg.ColumnThreshold)

	score := detect.ValidateGrid(rows, columns, cfg)

	assert.InDelta(t, 6.0/12.0, score.GridDensity, 1e-9)
	assert.InDelta(t, 0.25, score.Consistency, 1e-9)
	assert.False(t, score.IsValid)
}

func TestValidateGridLastColumnExtent(t *testing.T) {
	cfg := detect.DefaultConfig()
	// The fragment at 1200 lies beyond the last column and is not counted.
	rows := []models.Row{
		{Fragments: []models.TextFragment{frag("a", 50, 10), frag("b", 100, 10)}},
		{Fragments: []models.TextFragment{frag("c", 50, 0), frag("d", 1200, 0)}},
	}

	score := detect.ValidateGrid(rows, []float64{50, 100}, cfg)

	assert.InDelta(t, 0.75, score.GridDensity, 1e-9)
	assert.InDelta(t, 1.0, score.Consistency, 1e-9)
}

func TestValidateGridScoresInUnitInterval(t *testing.T) {
	cfg := detect.DefaultConfig()
	pages := [][]models.TextFragment{
		gridPage(5, []float64{10, 90, 170, 250}, 500, 15),
		paragraph(8),
		append(gridPage(2, []float64{50, 150, 250}, 700, 20), gridPage(2, []float64{400, 500}, 600, 20)...),
	}

	for _, page := range pages {
		rows := detect.GroupRows(page, cfg.RowThreshold)
		score := detect.ValidateGrid(rows, detect.ClusterColumns(rows, cfg.ColumnThreshold), cfg)

		assert.GreaterOrEqual(t, score.GridDensity, 0.0)
		assert.LessOrEqual(t, score.GridDensity, 1.0)
		assert.GreaterOrEqual(t, score.Consistency, 0.0)
		assert.LessOrEqual(t, score.Consistency, 1.0)
		assert.InDelta(t, (score.GridDensity+score.Consistency)/2, score.Confidence, 1e-9)
	}
}

// paragraph returns n lines of body text sharing one left margin.
func paragraph(n int) []models.TextFragment {
	words := []string{
		"Lorem ipsum dolor sit amet,", "consectetur adipiscing elit,", "sed do eiusmod tempor",
		"incididunt ut labore et", "dolore magna aliqua.", "Ut enim ad minim veniam,",
		"quis nostrud exercitation", "ullamco laboris nisi ut",
	}
	var frags []models.TextFragment
	for i := 0; i < n; i++ {
		frags = append(frags, frag(words[i%len(words)], 72+float64(i%2), 700-float64(i)*14))
	}
	return frags
}

func TestSegmentTables(t *testing.T) {
	cfg := detect.DefaultConfig()
	page := append(gridPage(2, []float64{50, 150, 250}, 700, 20), gridPage(2, []float64{400, 500}, 600, 20)...)
	rows := detect.GroupRows(page, cfg.RowThreshold)

	tables := detect.SegmentTables(rows, cfg)

	require.Len(t, tables, 2)
	assert.Equal(t, []float64{50, 150, 250}, tables[0].Columns)
	assert.Equal(t, []float64{400, 500}, tables[1].Columns)
	assert.Len(t, tables[0].Rows, 2)
	assert.Len(t, tables[1].Rows, 2)
}

func TestSegmentTablesNeverValidates(t *testing.T) {
	cfg := detect.DefaultConfig()
	rows := detect.GroupRows(paragraph(6), cfg.RowThreshold)

	assert.Empty(t, detect.SegmentTables(rows, cfg))
}

func TestSegmentTablesDisjoint(t *testing.T) {
	cfg := detect.DefaultConfig()
	page := append(gridPage(3, []float64{50, 150}, 700, 20), paragraph(2)...)
	page = append(page, gridPage(4, []float64{300, 380, 460}, 500, 20)...)
	rows := detect.GroupRows(page, cfg.RowThreshold)

	tables := detect.SegmentTables(rows, cfg)

	seen := make(map[models.TextFragment]bool)
	total := 0
	for _, table := range tables {
		assert.GreaterOrEqual(t, len(table.Rows), cfg.MinRows)
		for _, row := range table.Rows {
			for _, f := range row.Fragments {
				assert.False(t, seen[f], "fragment %q assigned twice", f.Text)
				seen[f] = true
			}
			total += len(row.Fragments)
		}
	}
	assert.LessOrEqual(t, total, len(page))
}

func TestReconstructCells(t *testing.T) {
	table := models.CandidateTable{
		Columns: []float64{50, 150},
		Rows: []models.Row{
			{Fragments: []models.TextFragment{frag("World", 90, 10), frag("Hello", 50, 10), frag(" 42 ", 150, 10)}},
			{Fragments: []models.TextFragment{frag("only", 160, 0)}},
		},
	}

	cells := detect.ReconstructCells(table)

	assert.Equal(t, [][]string{
		{"Hello World", "42"},
		{"", "only"},
	}, cells)
}

func TestReconstructCellsIgnoresFragmentsLeftOfFirstColumn(t *testing.T) {
	table := models.CandidateTable{
		Columns: []float64{50, 150},
		Rows:    []models.Row{{Fragments: []models.TextFragment{frag("margin", 10, 0), frag("a", 50, 0)}}},
	}

	assert.Equal(t, [][]string{{"a", ""}}, detect.ReconstructCells(table))
}

func TestIsVacuous(t *testing.T) {
	assert.True(t, detect.IsVacuous(nil))
	assert.True(t, detect.IsVacuous([][]string{{"", ""}, {""}}))
	assert.False(t, detect.IsVacuous([][]string{{"", "x"}}))
}

func TestFallbackCell(t *testing.T) {
	frags := []models.TextFragment{frag("second", 10, 50), frag("first", 10, 100)}

	assert.Equal(t, "second first", detect.FallbackCell(frags))
}

func TestEstimateMergeSpans(t *testing.T) {
	columns := []float64{0, 20, 40, 60, 80}

	tests := []struct {
		name string
		grid [][]string
		want []models.MergeSpanHint
	}{
		{
			name: "fits its column",
			grid: [][]string{{"abc", "", "", "", ""}},
		},
		{
			name: "overflows two columns",
			grid: [][]string{{"abcdefghij", "", "", "", ""}},
			want: []models.MergeSpanHint{{Row: 0, Col: 0, Span: 3}},
		},
		{
			name: "wider than the table",
			grid: [][]string{{"", "", "", "abcdefghijklmnopqrst", ""}},
		},
		{
			name: "spills into the last column",
			grid: [][]string{{"", "", "", "abcdef", ""}},
			want: []models.MergeSpanHint{{Row: 0, Col: 3, Span: 2}},
		},
		{
			name: "last column is never a source cell",
			grid: [][]string{{"", "", "", "", strings.Repeat("x", 100)}},
		},
		{
			name: "second row",
			grid: [][]string{{"a", "b", "c", "d", "e"}, {"", "abcdef", "", "", ""}},
			want: []models.MergeSpanHint{{Row: 1, Col: 1, Span: 2}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := detect.EstimateMergeSpans(tt.grid, columns, detect.DefaultMergedCellThreshold, detect.CharCountMeasurer)

			assert.Equal(t, tt.want, got)
			for _, h := range got {
				assert.LessOrEqual(t, h.Span, detect.MaxMergeSpan)
				assert.Greater(t, h.Span, 1)
			}
		})
	}
}

func TestEstimateMergeSpansCustomMeasurer(t *testing.T) {
	columns := []float64{0, 100, 200}
	grid := [][]string{{"x", ""}}

	wide := func(string) float64 { return 190 }

	assert.Equal(t, []models.MergeSpanHint{{Row: 0, Col: 0, Span: 2}},
		detect.EstimateMergeSpans(grid, columns, 0.9, wide))
	assert.Empty(t, detect.EstimateMergeSpans(grid, columns, 0.9, detect.CharCountMeasurer))
}

func TestEstimateMergeSpansTwoColumns(t *testing.T) {
	columns := []float64{50, 150}
	grid := [][]string{{"Quarterly revenue summary", ""}, {"Apples", "3"}}

	got := detect.EstimateMergeSpans(grid, columns, detect.DefaultMergedCellThreshold, detect.CharCountMeasurer)

	assert.Equal(t, []models.MergeSpanHint{{Row: 0, Col: 0, Span: 2}}, got)
}

func TestConfigValidate(t *testing.T) {
	require.NoError(t, detect.DefaultConfig().Validate())

	tests := []struct {
		name   string
		mutate func(*detect.Config)
	}{
		{"negative row threshold", func(c *detect.Config) { c.RowThreshold = -1 }},
		{"negative column threshold", func(c *detect.Config) { c.ColumnThreshold = -1 }},
		{"density above one", func(c *detect.Config) { c.MinGridDensity = 1.5 }},
		{"negative consistency", func(c *detect.Config) { c.MinColumnConsistency = -0.1 }},
		{"zero rows", func(c *detect.Config) { c.MinRows = 0 }},
		{"zero cols", func(c *detect.Config) { c.MinCols = 0 }},
		{"zero merge threshold", func(c *detect.Config) { c.MergedCellThreshold = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := detect.DefaultConfig()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
