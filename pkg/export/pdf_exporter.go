package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

type rgb struct{ r, g, b int }

var (
	saturdayFill = rgb{189, 215, 238}
	sundayFill   = rgb{248, 203, 173}
	bothFill     = rgb{198, 224, 180}
	markedFill   = rgb{255, 230, 153}
)

// PDFExporter renders datasets into a landscape table with Saturday and
// Sunday cells shaded and marked rows' names highlighted.
type PDFExporter struct{}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

func cellFill(header, value string, marked bool) (rgb, bool) {
	switch {
	case header == HeaderName && marked:
		return markedFill, true
	case value == "Sat":
		return saturdayFill, true
	case value == "Sun":
		return sundayFill, true
	case value == "Sat+Sun":
		return bothFill, true
	}
	return rgb{}, false
}

// Render creates a PDF document with an optional title, the table body,
// the summary rows in bold and the dataset notes.
func (e *PDFExporter) Render(data Dataset, title string) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("pdf requires at least one header")
	}
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(10, 15, 10)
	pdf.AddPage()

	if title != "" {
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 10, strings.ToUpper(title), "", 1, "C", false, 0, "")
		pdf.Ln(5)
	}

	pdf.SetFont("Arial", "B", 9)
	colWidth := 277.0 / float64(len(data.Headers))
	for _, header := range data.Headers {
		pdf.CellFormat(colWidth, 8, header, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for i, row := range data.Rows {
		marked := data.marked(i)
		for _, header := range data.Headers {
			value := row[header]
			fill, ok := cellFill(header, value, marked)
			if ok {
				pdf.SetFillColor(fill.r, fill.g, fill.b)
			}
			pdf.CellFormat(colWidth, 7, value, "1", 0, "C", ok, 0, "")
		}
		pdf.Ln(-1)
	}

	pdf.SetFont("Arial", "B", 9)
	for _, row := range data.Summary {
		for _, header := range data.Headers {
			pdf.CellFormat(colWidth, 7, row[header], "1", 0, "C", false, 0, "")
		}
		pdf.Ln(-1)
	}

	if len(data.Notes) > 0 {
		pdf.Ln(4)
		pdf.SetFont("Arial", "I", 8)
		for _, note := range data.Notes {
			pdf.CellFormat(0, 5, note, "", 1, "", false, 0, "")
		}
	}

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
