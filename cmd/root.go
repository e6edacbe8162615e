package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"pdf2xlsx/internal/logger"
)

var version = "1.0.0"

var rootCmd = &cobra.Command{
	Use:   "pdf2xlsx",
	Short: "pdf2xlsx - Reconstruct tables from PDF documents into spreadsheets",
	Long: `pdf2xlsx reads the text layer of PDF documents, detects tables purely
from the position of text fragments and writes every detected table into
its own worksheet.

Pages without a recognizable table are kept as a single cell holding the
page text, so no text is lost. Output goes to an .xlsx workbook or to an
existing Google Sheet.`,
	Version: version,
	Run: func(cmd *cobra.Command, args []string) {
		log := logger.WithComponent("root")
		log.Info().
			Str("version", version).
			Msg("pdf2xlsx executed")

		fmt.Println("Welcome to pdf2xlsx!")
		fmt.Println("Use --help to see available commands and options.")
	},
}

func Execute() {
	log := logger.WithComponent("cmd")

	if err := rootCmd.Execute(); err != nil {
		log.Error().
			Err(err).
			Msg("Command execution failed")
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "Print version information")
}
