package uploads

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/ledongthuc/pdf"
)

// DefaultMaxSize is the upload limit when none is configured.
const DefaultMaxSize int64 = 20 << 20

var (
	ErrEmptyFile     = errors.New("file is empty")
	ErrFileTooLarge  = errors.New("file exceeds the upload limit")
	ErrNotPDF        = errors.New("only PDF files are accepted")
	ErrUnreadablePDF = errors.New("PDF file could not be read")
)

// Info describes an accepted upload.
type Info struct {
	Name  string
	Size  int64
	MIME  string
	Pages int
}

// Inspect checks that r holds a readable PDF no larger than maxSize.
// The content is sniffed; the file name extension is not trusted.
func Inspect(name string, r io.ReaderAt, size, maxSize int64) (*Info, error) {
	name = strings.TrimSpace(name)
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	switch {
	case size <= 0:
		return nil, ErrEmptyFile
	case size > maxSize:
		return nil, fmt.Errorf("%w: %d bytes, limit %d", ErrFileTooLarge, size, maxSize)
	}

	mtype, err := mimetype.DetectReader(io.NewSectionReader(r, 0, size))
	if err != nil {
		return nil, fmt.Errorf("detect content type: %w", err)
	}
	if !mtype.Is("application/pdf") {
		return nil, fmt.Errorf("%w: got %s", ErrNotPDF, mtype.String())
	}

	pages, err := countPages(r, size)
	if err != nil {
		return nil, err
	}
	return &Info{Name: name, Size: size, MIME: mtype.String(), Pages: pages}, nil
}

// countPages opens the PDF structure. The parser panics on some malformed
// inputs; those are reported as ErrUnreadablePDF.
func countPages(r io.ReaderAt, size int64) (pages int, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			pages, err = 0, fmt.Errorf("%w: %v", ErrUnreadablePDF, rec)
		}
	}()

	reader, err := pdf.NewReader(r, size)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnreadablePDF, err)
	}
	pages = reader.NumPage()
	if pages < 1 {
		return 0, fmt.Errorf("%w: no pages", ErrUnreadablePDF)
	}
	return pages, nil
}
