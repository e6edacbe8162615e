package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"pdf2xlsx/internal/detect"
	"pdf2xlsx/internal/logger"
	"pdf2xlsx/internal/textlayer"
	"pdf2xlsx/pkg/models"
)

var detectCmd = &cobra.Command{
	Use:   "detect [pdf-file]",
	Short: "Show the tables detected in a PDF without writing a workbook",
	Long: `Run table detection on a PDF and print what was found on each page:
the number of rows and columns, grid density, column consistency and the
overall confidence of every table, followed by its cells.

Use --json for machine readable output.`,
	Example: `  # Inspect all pages
  pdf2xlsx detect report.pdf

  # Only page 3, as JSON
  pdf2xlsx detect report.pdf --page 3 --json`,
	Args: cobra.ExactArgs(1),
	RunE: runDetect,
}

// DetectOutput represents the JSON output structure when --json flag is used
type DetectOutput struct {
	FileName string       `json:"file_name"`
	Pages    []PageOutput `json:"pages"`
}

// PageOutput describes the detection result of one page
type PageOutput struct {
	Page      int           `json:"page"`
	Fragments int           `json:"fragments"`
	Segmented bool          `json:"segmented"`
	Tables    []TableOutput `json:"tables,omitempty"`
	Fallback  string        `json:"fallback,omitempty"`
}

// TableOutput describes one detected table
type TableOutput struct {
	Rows        int                    `json:"rows"`
	Columns     []float64              `json:"columns"`
	GridDensity float64                `json:"grid_density"`
	Consistency float64                `json:"consistency"`
	Confidence  float64                `json:"confidence"`
	Cells       [][]string             `json:"cells"`
	MergeHints  []models.MergeSpanHint `json:"merge_hints,omitempty"`
}

func init() {
	rootCmd.AddCommand(detectCmd)

	detectCmd.Flags().Bool("json", false, "Output as JSON")
	detectCmd.Flags().Int("page", 0, "Only analyze this 1-based page (default: all pages)")
	detectCmd.Flags().Bool("single-table", false, "Do not split pages into several tables")
	detectCmd.Flags().Int("timeout", 300, "Processing timeout in seconds")
}

func runDetect(cmd *cobra.Command, args []string) error {
	pdfPath := args[0]
	log := logger.WithFile("detect", pdfPath)

	jsonOutput, _ := cmd.Flags().GetBool("json")
	pageFilter, _ := cmd.Flags().GetInt("page")
	singleTable, _ := cmd.Flags().GetBool("single-table")
	timeoutSecs, _ := cmd.Flags().GetInt("timeout")

	cfg := loadConfig(log)
	if singleTable {
		cfg.DetectMultipleTables = false
	}

	if _, err := validatePDFFile(pdfPath, log); err != nil {
		return err
	}

	ctx, cancel := createContextWithTimeout(timeoutSecs, log)
	defer cancel()

	pages, err := readDocument(ctx, pdfPath, log)
	if err != nil {
		return handleConversionError(err, log)
	}

	if pageFilter > 0 {
		pages = selectPage(pages, pageFilter)
		if len(pages) == 0 {
			return fmt.Errorf("page %d does not exist in %s", pageFilter, filepath.Base(pdfPath))
		}
	}

	detector, err := detect.NewDetector(cfg.DetectConfig())
	if err != nil {
		return fmt.Errorf("invalid detection settings: %w", err)
	}

	output := DetectOutput{FileName: filepath.Base(pdfPath)}
	for _, page := range pages {
		if err := ctx.Err(); err != nil {
			return handleConversionError(err, log)
		}
		fragments := textlayer.ExtractFragments(page.Fragments)
		output.Pages = append(output.Pages, pageOutput(page.Number, fragments, detector.DetectPage(page.Number, fragments)))
	}

	return outputDetection(output, jsonOutput, log)
}

func selectPage(pages []models.RawPage, number int) []models.RawPage {
	for _, p := range pages {
		if p.Number == number {
			return []models.RawPage{p}
		}
	}
	return nil
}

func pageOutput(number int, fragments []models.TextFragment, result detect.PageResult) PageOutput {
	out := PageOutput{
		Page:      number,
		Fragments: len(fragments),
		Segmented: result.Segmented,
		Fallback:  result.Fallback,
	}
	for _, t := range result.Tables {
		out.Tables = append(out.Tables, TableOutput{
			Rows:        len(t.Table.Rows),
			Columns:     t.Table.Columns,
			GridDensity: t.Table.GridDensity,
			Consistency: t.Table.Consistency,
			Confidence:  t.Table.Confidence,
			Cells:       t.Cells,
			MergeHints:  t.MergeHints,
		})
	}
	return out
}

// outputDetection formats and outputs the detection results
func outputDetection(output DetectOutput, jsonOutput bool, log zerolog.Logger) error {
	var data []byte

	if jsonOutput {
		var err error
		data, err = json.MarshalIndent(output, "", "  ")
		if err != nil {
			log.Error().Err(err).Msg("Failed to marshal JSON output")
			return fmt.Errorf("failed to create JSON output: %w", err)
		}
		data = append(data, '\n')
	} else {
		data = []byte(formatDetection(output))
	}

	if _, err := os.Stdout.Write(data); err != nil {
		log.Error().Err(err).Msg("Failed to write to stdout")
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func formatDetection(output DetectOutput) string {
	var b strings.Builder

	fmt.Fprintf(&b, "=== Table detection for %s ===\n", output.FileName)
	for _, page := range output.Pages {
		fmt.Fprintf(&b, "\nPage %d: %d fragment(s), %d table(s)", page.Page, page.Fragments, len(page.Tables))
		if page.Segmented {
			b.WriteString(", segmented")
		}
		b.WriteString("\n")

		for i, t := range page.Tables {
			fmt.Fprintf(&b, "  Table %d: %d x %d, density %.2f, consistency %.2f, confidence %.1f%%\n",
				i+1, t.Rows, len(t.Columns), t.GridDensity, t.Consistency, t.Confidence*100)
			for _, row := range t.Cells {
				fmt.Fprintf(&b, "    | %s |\n", strings.Join(row, " | "))
			}
			for _, h := range t.MergeHints {
				fmt.Fprintf(&b, "    hint: cell (%d,%d) may span %d columns\n", h.Row+1, h.Col+1, h.Span)
			}
		}

		if page.Fallback != "" {
			fmt.Fprintf(&b, "  No table, page text: %s\n", page.Fallback)
		}
	}

	return b.String()
}
