// Package textlayer reads positioned text fragments from the text layer of
// PDF documents.
//
// The package wraps pure-Go PDF readers and exposes their glyph output as
// models.RawFragment records, one RawPage per document page. It does not
// render pages or run OCR; image-only pages simply yield no fragments.
//
// Providers:
//   - LedongthucProvider: github.com/ledongthuc/pdf, the most accurate coordinates
//   - DslipakProvider: github.com/dslipak/pdf, used as a fallback reader
//   - FallbackProvider: tries a list of providers in order
//
// Before reading, Validate uses pdfcpu to check the file structure, detect
// password protection and count pages.
package textlayer

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/rs/zerolog"
	"pdf2xlsx/internal/logger"
	"pdf2xlsx/pkg/models"
)

// MaxFileSizeBytes is the largest input accepted by the CLI (100MB)
const MaxFileSizeBytes = 100 * 1024 * 1024

// Provider reads the text layer of a PDF file.
type Provider interface {
	// Name identifies the underlying library.
	Name() string

	// ReadPages returns the raw fragments of every page, in page order.
	ReadPages(ctx context.Context, path string) ([]models.RawPage, error)
}

// FallbackProvider tries each provider in order and returns the first success.
type FallbackProvider struct {
	providers []Provider
	log       zerolog.Logger
}

// NewFallbackProvider creates a provider chain.
func NewFallbackProvider(providers ...Provider) *FallbackProvider {
	return &FallbackProvider{
		providers: providers,
		log:       logger.WithComponent("textlayer"),
	}
}

// DefaultProvider returns the ledongthuc reader with a dslipak fallback.
func DefaultProvider() *FallbackProvider {
	return NewFallbackProvider(NewLedongthucProvider(), NewDslipakProvider())
}

// Name implements Provider.
func (f *FallbackProvider) Name() string {
	return "fallback"
}

// ReadPages implements Provider.
func (f *FallbackProvider) ReadPages(ctx context.Context, path string) ([]models.RawPage, error) {
	const op = "ReadPages"

	if len(f.providers) == 0 {
		return nil, WrapTextLayerError(op, "", 0, ErrNoProvider)
	}

	var errs []error
	for _, p := range f.providers {
		pages, err := p.ReadPages(ctx, path)
		if err == nil {
			f.log.Debug().
				Str("provider", p.Name()).
				Int("pages", len(pages)).
				Msg("Text layer read")
			return pages, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		f.log.Warn().
			Err(err).
			Str("provider", p.Name()).
			Msg("Text layer provider failed, trying next")
		errs = append(errs, err)
	}

	return nil, fmt.Errorf("%s: all providers failed: %w", op, errors.Join(errs...))
}

// readGuarded runs fn and converts a library panic into ErrInvalidPDF.
// The PDF readers panic on some malformed content streams.
func readGuarded(op, provider string, page int, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = WrapTextLayerError(op, provider, page, fmt.Errorf("%w: %v", ErrInvalidPDF, r))
		}
	}()
	return fn()
}

// openError classifies a failure to open a document. Recovered panics are
// already wrapped and file system errors keep their own identity.
func openError(op, provider string, err error) error {
	var tlErr *TextLayerError
	if errors.As(err, &tlErr) {
		return err
	}
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		return WrapTextLayerError(op, provider, 0, err)
	}
	return WrapTextLayerError(op, provider, 0, fmt.Errorf("%w: %v", ErrInvalidPDF, err))
}
