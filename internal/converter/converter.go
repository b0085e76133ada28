// Package converter renders summary text into downloadable artifacts.
package converter

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	docx "github.com/fumiama/go-docx"
	"github.com/go-pdf/fpdf"
)

// Format selects the output artifact type.
type Format string

const (
	FormatTXT  Format = "txt"
	FormatDOCX Format = "docx"
	FormatPDF  Format = "pdf"
)

// ParseFormat maps a requested format string onto the supported set.
// Anything else is a client-input error.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatTXT:
		return FormatTXT, nil
	case FormatDOCX:
		return FormatDOCX, nil
	case FormatPDF:
		return FormatPDF, nil
	}
	return "", fmt.Errorf("unsupported format %q (supported: txt, docx, pdf)", s)
}

// Ext returns the filename extension for the format.
func (f Format) Ext() string { return "." + string(f) }

const documentTitle = "PDF Summary"

// txtHeader is prepended to plain-text artifacts.
const txtHeader = "=== PDF Summary ===\n\n"

// Converter renders text into the supported document formats. The CJK
// typeface comes from configuration; when it is absent rendering falls
// back to the default face, which is fine for Latin-script summaries.
type Converter struct {
	fontPath string // TTF file used for PDF rendering
	fontName string // font family name written into DOCX runs
}

// New creates a Converter. Either argument may be empty; an unreadable
// fontPath disables the CJK face rather than failing.
func New(fontPath, fontName string) *Converter {
	if fontPath != "" {
		if _, err := os.Stat(fontPath); err != nil {
			fontPath = ""
		}
	}
	return &Converter{fontPath: fontPath, fontName: fontName}
}

// HasCJKFont reports whether a usable CJK typeface is configured.
func (c *Converter) HasCJKFont() bool {
	return c.fontPath != ""
}

// Convert renders text in the given format.
func (c *Converter) Convert(format Format, text string) ([]byte, error) {
	switch format {
	case FormatTXT:
		return c.ToTXT(text), nil
	case FormatDOCX:
		return c.ToDOCX(text)
	case FormatPDF:
		return c.ToPDF(text)
	}
	return nil, fmt.Errorf("unsupported format %q", format)
}

// ToTXT prepends the fixed header and encodes as UTF-8.
func (c *Converter) ToTXT(text string) []byte {
	return []byte(txtHeader + text)
}

// ToDOCX emits a document with a centered title and one paragraph per
// blank-line-delimited block. When a CJK font name is configured it is
// applied to every run so east-Asian glyphs render correctly.
func (c *Converter) ToDOCX(text string) ([]byte, error) {
	doc := docx.New().WithDefaultTheme()

	title := doc.AddParagraph().Justification("center")
	titleRun := title.AddText(documentTitle).Size("36")
	if c.fontName != "" {
		titleRun.Font(c.fontName, c.fontName, c.fontName, "eastAsia")
	}

	for _, block := range splitParagraphs(text) {
		run := doc.AddParagraph().AddText(block).Size("22")
		if c.fontName != "" {
			run.Font(c.fontName, c.fontName, c.fontName, "eastAsia")
		}
	}

	var buf bytes.Buffer
	if _, err := doc.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("docx conversion failed: %w", err)
	}
	return buf.Bytes(), nil
}

// ToPDF lays out the title and paragraphs on A4 with 72pt margins,
// escaping markup-significant characters in body text before layout.
// With a configured TTF the CJK face is used, otherwise Helvetica.
func (c *Converter) ToPDF(text string) ([]byte, error) {
	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetMargins(72, 72, 72)
	pdf.SetAutoPageBreak(true, 18)

	font := "Helvetica"
	if c.fontPath != "" {
		pdf.AddUTF8Font("cjk", "", c.fontPath)
		if pdf.Err() {
			return nil, fmt.Errorf("pdf conversion failed: %w", pdf.Error())
		}
		font = "cjk"
	}

	pdf.AddPage()
	pdf.SetFont(font, "", 18)
	pdf.CellFormat(0, 24, documentTitle, "", 1, "C", false, 0, "")
	pdf.Ln(12)

	pdf.SetFont(font, "", 12)
	for _, block := range splitParagraphs(text) {
		pdf.MultiCell(0, 16, escapeMarkup(block), "", "L", false)
		pdf.Ln(6)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf conversion failed: %w", err)
	}
	return buf.Bytes(), nil
}

// splitParagraphs breaks text on blank lines, dropping empty blocks.
func splitParagraphs(text string) []string {
	var blocks []string
	for _, block := range strings.Split(text, "\n\n") {
		block = strings.TrimSpace(block)
		if block != "" {
			blocks = append(blocks, block)
		}
	}
	return blocks
}

var markupEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// escapeMarkup neutralizes markup-significant characters in body text.
// MultiCell does not parse markup, so the entities render literally in
// the output; raw angle brackets never reach the layout call.
func escapeMarkup(s string) string {
	return markupEscaper.Replace(s)
}
