// Package extractor pulls plain text out of uploaded PDF byte streams.
package extractor

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Validate reports whether data opens as a PDF with at least one page.
// Every parse failure maps to false.
func Validate(data []byte) bool {
	r, err := open(data)
	if err != nil {
		return false
	}
	return r.NumPage() > 0
}

// PageCount returns the total number of pages. A parse failure is
// reported as an error so callers can tell "zero pages" apart from
// "count unavailable".
func PageCount(data []byte) (int, error) {
	r, err := open(data)
	if err != nil {
		return 0, fmt.Errorf("failed to open pdf: %w", err)
	}
	return r.NumPage(), nil
}

// ExtractText concatenates the text of the first min(total, maxPages)
// pages in page order and trims surrounding whitespace. An empty result
// from a parseable PDF is a successful call; only parse failures return
// an error.
func ExtractText(data []byte, maxPages int) (string, error) {
	pages, err := ExtractPages(data, maxPages)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(strings.Join(pages, "")), nil
}

// ExtractPages returns the text of the first min(total, maxPages) pages,
// one entry per page in page order. Pages that fail to decode contribute
// an empty string rather than failing the whole call.
func ExtractPages(data []byte, maxPages int) ([]string, error) {
	r, err := open(data)
	if err != nil {
		return nil, fmt.Errorf("failed to open pdf: %w", err)
	}

	numPages := r.NumPage()
	if maxPages < numPages {
		numPages = maxPages
	}

	pages := make([]string, 0, numPages)
	for pageIndex := 1; pageIndex <= numPages; pageIndex++ {
		p := r.Page(pageIndex)
		if p.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		str, err := p.GetPlainText(nil)
		if err != nil {
			str = ""
		}
		pages = append(pages, str)
	}

	return pages, nil
}

func open(data []byte) (*pdf.Reader, error) {
	return pdf.NewReader(bytes.NewReader(data), int64(len(data)))
}
