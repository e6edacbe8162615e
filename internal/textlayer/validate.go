package textlayer

import (
	"errors"
	"fmt"
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// DocumentInfo describes a validated PDF file
type DocumentInfo struct {
	PageCount int
	Encrypted bool
	FileSize  int64
}

// Validate checks the structure of the PDF at path with pdfcpu and returns
// its page count. Relaxed validation is used so that files with minor
// structural defects, which the text readers usually handle, still pass.
func Validate(path string) (*DocumentInfo, error) {
	const op = "Validate"

	f, err := os.Open(path)
	if err != nil {
		return nil, WrapTextLayerError(op, "pdfcpu", 0, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, WrapTextLayerError(op, "pdfcpu", 0, err)
	}
	if info.Size() > MaxFileSizeBytes {
		return nil, WrapTextLayerError(op, "pdfcpu", 0, ErrFileTooLarge)
	}

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	ctx, err := api.ReadContext(f, conf)
	if err != nil {
		if isPasswordError(err) {
			return nil, WrapTextLayerError(op, "pdfcpu", 0, ErrEncryptedPDF)
		}
		return nil, WrapTextLayerError(op, "pdfcpu", 0, fmt.Errorf("%w: %v", ErrInvalidPDF, err))
	}

	if err := api.ValidateContext(ctx); err != nil {
		return nil, WrapTextLayerError(op, "pdfcpu", 0, fmt.Errorf("%w: %v", ErrInvalidPDF, err))
	}

	if ctx.PageCount == 0 {
		return nil, WrapTextLayerError(op, "pdfcpu", 0, ErrNoPages)
	}

	return &DocumentInfo{
		PageCount: ctx.PageCount,
		Encrypted: ctx.Encrypt != nil,
		FileSize:  info.Size(),
	}, nil
}

// isPasswordError reports whether pdfcpu failed for lack of the user
// password. Unsupported encryption schemes are not password errors.
func isPasswordError(err error) bool {
	return errors.Is(err, pdfcpu.ErrWrongPassword)
}
