package shoppinglist

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"strconv"

	"github.com/go-pdf/fpdf"
)

// Ingredient names are mostly Cyrillic; the core PDF fonts only cover cp1252.
const pdfFont = "DejaVu"

var (
	//go:embed fonts/DejaVuSansCondensed.ttf
	regularFont []byte
	//go:embed fonts/DejaVuSansCondensed-Bold.ttf
	boldFont []byte
)

// Format selects the download representation.
type Format string

const (
	FormatText Format = "txt"
	FormatPDF  Format = "pdf"
)

// ParseFormat maps the query value to a Format. Empty means text.
func ParseFormat(raw string) (Format, error) {
	switch Format(raw) {
	case "", FormatText:
		return FormatText, nil
	case FormatPDF:
		return FormatPDF, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, raw)
}

func (f Format) ContentType() string {
	if f == FormatPDF {
		return "application/pdf"
	}
	return "text/plain; charset=utf-8"
}

func (f Format) Filename() string {
	return "shopping_cart." + string(f)
}

// Render writes entries in the given format.
func Render(w io.Writer, f Format, entries []Entry) error {
	if f == FormatPDF {
		return RenderPDF(w, entries)
	}
	return RenderText(w, entries)
}

// RenderText writes one "name (unit) - total" line per entry. No entries, no output.
func RenderText(w io.Writer, entries []Entry) error {
	var buf bytes.Buffer
	for _, e := range entries {
		buf.WriteString(e.Name)
		buf.WriteString(" (")
		buf.WriteString(e.MeasurementUnit)
		buf.WriteString(") - ")
		buf.WriteString(strconv.Itoa(e.TotalAmount))
		buf.WriteByte('\n')
	}
	_, err := w.Write(buf.Bytes())
	return err
}

// RenderPDF writes a one-table A4 document.
func RenderPDF(w io.Writer, entries []Entry) error {
	return renderPDF(w, entries, true)
}

func renderPDF(w io.Writer, entries []Entry, compress bool) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(compress)
	pdf.SetTitle("Shopping list", true)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddUTF8FontFromBytes(pdfFont, "", regularFont)
	pdf.AddUTF8FontFromBytes(pdfFont, "B", boldFont)
	pdf.AddPage()

	pdf.SetFont(pdfFont, "B", 16)
	pdf.CellFormat(0, 12, "Shopping list", "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont(pdfFont, "B", 11)
	pdf.SetFillColor(230, 230, 230)
	pdf.CellFormat(100, 8, "Ingredient", "1", 0, "L", true, 0, "")
	pdf.CellFormat(40, 8, "Unit", "1", 0, "L", true, 0, "")
	pdf.CellFormat(40, 8, "Amount", "1", 1, "R", true, 0, "")

	pdf.SetFont(pdfFont, "", 11)
	for _, e := range entries {
		pdf.CellFormat(100, 7, e.Name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(40, 7, e.MeasurementUnit, "1", 0, "L", false, 0, "")
		pdf.CellFormat(40, 7, strconv.Itoa(e.TotalAmount), "1", 1, "R", false, 0, "")
	}
	if len(entries) == 0 {
		pdf.CellFormat(180, 7, "Your shopping cart is empty.", "1", 1, "C", false, 0, "")
	}

	if pdf.Err() {
		return fmt.Errorf("render pdf: %w", pdf.Error())
	}
	return pdf.Output(w)
}
