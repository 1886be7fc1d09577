package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"
)

// pdfColumns is a reduced column set: the full snapshot does not fit a
// readable landscape page, so the PDF keeps the identifying fields only.
var pdfColumns = []struct {
	header string
	width  float64
	value  func(Row) string
}{
	{"SERIAL", 42, func(r Row) string { return r.Serial }},
	{"TYPE", 38, func(r Row) string { return r.DeviceType }},
	{"BRAND", 32, func(r Row) string { return r.Brand }},
	{"MODEL", 42, func(r Row) string { return r.Model }},
	{"LOCATION", 42, func(r Row) string { return r.Location }},
	{"STATE", 30, func(r Row) string { return r.State }},
	{"QTY", 14, func(r Row) string { return fmt.Sprintf("%d", r.Quantity) }},
	{"ACQUIRED", 26, func(r Row) string { return r.Acquired }},
}

// WritePDF renders the snapshot as a landscape A4 table.
func WritePDF(rows []Row) (*bytes.Buffer, error) {
	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 12)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 14)
	pdf.Cell(0, 10, "Inventory Export")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 9)
	pdf.Cell(0, 6, fmt.Sprintf("Generated %s", time.Now().Format("2006-01-02 15:04")))
	pdf.Ln(10)

	writeHeader := func() {
		pdf.SetFont("Helvetica", "B", 8)
		pdf.SetFillColor(221, 221, 221)
		for _, col := range pdfColumns {
			pdf.CellFormat(col.width, 7, col.header, "1", 0, "L", true, 0, "")
		}
		pdf.Ln(-1)
	}

	writeHeader()
	pdf.SetFont("Helvetica", "", 8)
	for _, row := range rows {
		if pdf.GetY() > 190 {
			pdf.AddPage()
			writeHeader()
			pdf.SetFont("Helvetica", "", 8)
		}
		for _, col := range pdfColumns {
			pdf.CellFormat(col.width, 6, truncate(col.value(row), 28), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render pdf: %w", err)
	}
	return &buf, nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
