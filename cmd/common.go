package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"pdf2xlsx/internal/config"
	"pdf2xlsx/internal/textlayer"
	"pdf2xlsx/internal/workbook"
	"pdf2xlsx/pkg/models"
)

// loadConfig loads the environment configuration, falling back to defaults
func loadConfig(log zerolog.Logger) *config.Config {
	cfg, err := config.Load()
	if err != nil {
		log.Warn().Err(err).Msg("Invalid configuration, using defaults")
		return config.Default()
	}
	return cfg
}

// validatePDFFile checks if the file exists, is readable, and appears to be a PDF
func validatePDFFile(pdfPath string, log zerolog.Logger) (os.FileInfo, error) {
	fileInfo, err := os.Stat(pdfPath)
	if err != nil {
		if os.IsNotExist(err) {
			log.Error().
				Str("file", pdfPath).
				Msg("PDF file not found")
			return nil, fmt.Errorf("PDF file not found: %s", pdfPath)
		}
		if os.IsPermission(err) {
			log.Error().
				Str("file", pdfPath).
				Msg("Permission denied accessing PDF file")
			return nil, fmt.Errorf("permission denied accessing PDF file: %s", pdfPath)
		}
		return nil, fmt.Errorf("error accessing PDF file: %w", err)
	}

	if !fileInfo.Mode().IsRegular() {
		log.Error().
			Str("file", pdfPath).
			Msg("Path is not a regular file")
		return nil, fmt.Errorf("path is not a regular file: %s", pdfPath)
	}

	if !strings.HasSuffix(strings.ToLower(pdfPath), ".pdf") {
		log.Warn().
			Str("file", pdfPath).
			Msg("File does not have .pdf extension")
	}

	if fileInfo.Size() == 0 {
		log.Error().
			Str("file", pdfPath).
			Msg("PDF file is empty")
		return nil, fmt.Errorf("PDF file is empty: %s", pdfPath)
	}

	if fileInfo.Size() > textlayer.MaxFileSizeBytes {
		log.Error().
			Str("file", pdfPath).
			Int64("size", fileInfo.Size()).
			Int64("max_size", textlayer.MaxFileSizeBytes).
			Msg("PDF file exceeds maximum size limit")
		return nil, fmt.Errorf("PDF file too large (%d bytes). Maximum size is %d bytes (100MB)",
			fileInfo.Size(), textlayer.MaxFileSizeBytes)
	}

	return fileInfo, nil
}

// createContextWithTimeout creates a context with timeout and signal handling
func createContextWithTimeout(timeoutSecs int, log zerolog.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(timeoutSecs)*time.Second)

	// Handle interrupt signals for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		defer signal.Stop(sigChan)
		select {
		case sig := <-sigChan:
			log.Info().
				Str("signal", sig.String()).
				Msg("Received interrupt signal, canceling conversion")
			cancel()
		case <-ctx.Done():
			// Context completed normally
		}
	}()

	return ctx, cancel
}

// readDocument validates the PDF structure and reads its text layer
func readDocument(ctx context.Context, pdfPath string, log zerolog.Logger) ([]models.RawPage, error) {
	info, err := textlayer.Validate(pdfPath)
	if err != nil {
		return nil, err
	}

	log.Info().
		Int("page_count", info.PageCount).
		Bool("encrypted", info.Encrypted).
		Int64("size", info.FileSize).
		Msg("PDF structure validated")

	pages, err := textlayer.DefaultProvider().ReadPages(ctx, pdfPath)
	if err != nil {
		return nil, err
	}

	if len(pages) != info.PageCount {
		log.Warn().
			Int("expected", info.PageCount).
			Int("read", len(pages)).
			Msg("Text layer page count differs from document page count")
	}

	return pages, nil
}

// handleConversionError provides user-friendly error messages for conversion failures
func handleConversionError(err error, log zerolog.Logger) error {
	log.Error().Err(err).Msg("Conversion failed")

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("conversion timed out. Try increasing --timeout or processing a smaller file")
	case errors.Is(err, context.Canceled):
		return fmt.Errorf("conversion was canceled")
	case errors.Is(err, textlayer.ErrEncryptedPDF):
		return fmt.Errorf("PDF is password protected. Remove the password and try again")
	case errors.Is(err, textlayer.ErrFileTooLarge):
		return fmt.Errorf("PDF file is too large (maximum 100MB). Try splitting the file")
	case errors.Is(err, textlayer.ErrNoPages):
		return fmt.Errorf("PDF has no pages")
	case errors.Is(err, textlayer.ErrInvalidPDF):
		return fmt.Errorf("invalid or corrupted PDF file. Please check the file integrity")
	case errors.Is(err, workbook.ErrDocumentEmpty):
		return fmt.Errorf("no text found in the document. The PDF may contain only scanned images")
	default:
		return fmt.Errorf("conversion failed: %w", err)
	}
}
