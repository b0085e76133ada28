package converter

import (
	"bytes"
	"strings"
	"testing"
)

func TestParseFormat(t *testing.T) {
	for _, s := range []string{"txt", "docx", "pdf", "PDF", " docx "} {
		if _, err := ParseFormat(s); err != nil {
			t.Errorf("ParseFormat(%q) failed: %v", s, err)
		}
	}
	for _, s := range []string{"", "html", "exe", "doc"} {
		if _, err := ParseFormat(s); err == nil {
			t.Errorf("ParseFormat(%q) accepted, want error", s)
		}
	}
}

func TestToTXT_RoundTrip(t *testing.T) {
	c := New("", "")
	input := "First paragraph of the summary.\n\nSecond paragraph with more detail."

	out := string(c.ToTXT(input))
	if !strings.HasPrefix(out, txtHeader) {
		t.Error("plain-text output missing the header line")
	}
	// Header aside, the paragraph content survives verbatim.
	if !strings.Contains(out, "First paragraph of the summary.") ||
		!strings.Contains(out, "Second paragraph with more detail.") {
		t.Errorf("output %q lost paragraph content", out)
	}
}

func TestToDOCX(t *testing.T) {
	c := New("", "")
	out, err := c.ToDOCX("A summary paragraph.\n\nAnother one.")
	if err != nil {
		t.Fatalf("ToDOCX failed: %v", err)
	}
	// DOCX is a zip container.
	if !bytes.HasPrefix(out, []byte("PK")) {
		t.Error("docx output is not a zip archive")
	}
}

func TestToPDF(t *testing.T) {
	c := New("", "")
	out, err := c.ToPDF("A summary paragraph.\n\nAnother one.")
	if err != nil {
		t.Fatalf("ToPDF failed: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Error("pdf output missing %PDF header")
	}
}

func TestConvert_Dispatch(t *testing.T) {
	c := New("", "")
	for _, f := range []Format{FormatTXT, FormatDOCX, FormatPDF} {
		out, err := c.Convert(f, "content")
		if err != nil {
			t.Errorf("Convert(%s) failed: %v", f, err)
		}
		if len(out) == 0 {
			t.Errorf("Convert(%s) produced no bytes", f)
		}
	}
}

func TestNew_MissingFontPathDisablesCJK(t *testing.T) {
	c := New("/nonexistent/font.ttf", "Nanum Gothic")
	if c.HasCJKFont() {
		t.Error("unreadable font path should disable the CJK face")
	}
	// Rendering still works on the default face.
	if _, err := c.ToPDF("fallback text"); err != nil {
		t.Errorf("ToPDF without CJK font failed: %v", err)
	}
}

func TestSplitParagraphs(t *testing.T) {
	got := splitParagraphs("one\n\n\n\ntwo\n\n  \n\nthree")
	want := []string{"one", "two", "three"}
	if len(got) != len(want) {
		t.Fatalf("got %d blocks, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("block %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestEscapeMarkup(t *testing.T) {
	got := escapeMarkup(`a & b < c > d`)
	if got != "a &amp; b &lt; c &gt; d" {
		t.Errorf("escapeMarkup = %q", got)
	}
}

func TestFormatExt(t *testing.T) {
	if FormatTXT.Ext() != ".txt" || FormatDOCX.Ext() != ".docx" || FormatPDF.Ext() != ".pdf" {
		t.Error("unexpected extension mapping")
	}
}
