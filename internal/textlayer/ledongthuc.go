package textlayer

import (
	"context"
	"os"

	lpdf "github.com/ledongthuc/pdf"
	"pdf2xlsx/pkg/models"
)

// LedongthucProvider reads text with the ledongthuc/pdf library
type LedongthucProvider struct{}

// NewLedongthucProvider creates a ledongthuc/pdf backed provider.
func NewLedongthucProvider() *LedongthucProvider {
	return &LedongthucProvider{}
}

// Name implements Provider.
func (p *LedongthucProvider) Name() string {
	return "ledongthuc"
}

// ReadPages implements Provider.
func (p *LedongthucProvider) ReadPages(ctx context.Context, path string) ([]models.RawPage, error) {
	const op = "ReadPages"

	var f *os.File
	var r *lpdf.Reader
	err := readGuarded(op, p.Name(), 0, func() error {
		var openErr error
		f, r, openErr = lpdf.Open(path)
		return openErr
	})
	if err != nil {
		return nil, openError(op, p.Name(), err)
	}
	defer f.Close()

	total := r.NumPage()
	if total == 0 {
		return nil, WrapTextLayerError(op, p.Name(), 0, ErrNoPages)
	}

	pages := make([]models.RawPage, 0, total)
	for i := 1; i <= total; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page := models.RawPage{Number: i}
		err := readGuarded(op, p.Name(), i, func() error {
			lp := r.Page(i)
			if lp.V.IsNull() {
				return nil
			}
			texts := lp.Content().Text
			glyphs := make([]glyph, len(texts))
			for j, t := range texts {
				glyphs[j] = glyph{S: t.S, Font: t.Font, FontSize: t.FontSize, X: t.X, Y: t.Y, W: t.W}
			}
			page.Fragments = joinGlyphRuns(glyphs)
			return nil
		})
		if err != nil {
			return nil, err
		}
		pages = append(pages, page)
	}

	return pages, nil
}
