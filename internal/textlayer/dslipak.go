package textlayer

import (
	"context"
	"os"

	gopdf "github.com/dslipak/pdf"
	"pdf2xlsx/pkg/models"
)

// DslipakProvider reads text with the dslipak/pdf library
type DslipakProvider struct{}

// NewDslipakProvider creates a dslipak/pdf backed provider.
func NewDslipakProvider() *DslipakProvider {
	return &DslipakProvider{}
}

// Name implements Provider.
func (p *DslipakProvider) Name() string {
	return "dslipak"
}

// ReadPages implements Provider.
func (p *DslipakProvider) ReadPages(ctx context.Context, path string) ([]models.RawPage, error) {
	const op = "ReadPages"

	f, err := os.Open(path)
	if err != nil {
		return nil, WrapTextLayerError(op, p.Name(), 0, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, WrapTextLayerError(op, p.Name(), 0, err)
	}

	var r *gopdf.Reader
	err = readGuarded(op, p.Name(), 0, func() error {
		var openErr error
		r, openErr = gopdf.NewReader(f, info.Size())
		return openErr
	})
	if err != nil {
		return nil, openError(op, p.Name(), err)
	}

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
			dp := r.Page(i)
			if dp.V.IsNull() {
				return nil
			}
			texts := dp.Content().Text
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
