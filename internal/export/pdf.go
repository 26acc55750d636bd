package export

import (
	"fmt"
	"strconv"

	"github.com/jung-kurt/gofpdf"

	"github.com/sadopc/studylog/internal/report"
)

const (
	pdfCoreFont = "Arial"
	pdfUTF8Font = "studylog"
)

// ToPDF renders the weekly summary: a seven-day table and the subject
// breakdown. fontPath may name a UTF-8 TrueType font; without one the core
// font is used and characters outside cp1252 are substituted.
func ToPDF(week report.Weekly, path, fontPath string) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)

	family := pdfCoreFont
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	if fontPath != "" {
		pdf.AddUTF8Font(pdfUTF8Font, "", fontPath)
		pdf.AddUTF8Font(pdfUTF8Font, "B", fontPath)
		if err := pdf.Error(); err != nil {
			return fmt.Errorf("load pdf font: %w", err)
		}
		family = pdfUTF8Font
		tr = func(s string) string { return s }
	}

	pdf.AddPage()

	start := week.Today.AddDate(0, 0, -(report.WindowDays - 1))
	pdf.SetFont(family, "B", 14)
	pdf.CellFormat(0, 10, "WEEKLY STUDY REPORT", "", 1, "C", false, 0, "")
	pdf.SetFont(family, "", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf("%s - %s", start.Format("2006-01-02"), week.Today.Format("2006-01-02")), "", 1, "C", false, 0, "")
	pdf.Ln(5)

	pdf.SetFont(family, "B", 10)
	pdf.CellFormat(60, 8, "Day", "1", 0, "C", false, 0, "")
	pdf.CellFormat(40, 8, "Minutes", "1", 0, "C", false, 0, "")
	pdf.CellFormat(40, 8, "Duration", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)

	pdf.SetFont(family, "", 9)
	for _, d := range week.Days {
		pdf.CellFormat(60, 7, d.Day.Format("Mon 2006-01-02"), "1", 0, "", false, 0, "")
		pdf.CellFormat(40, 7, strconv.Itoa(d.Minutes), "1", 0, "R", false, 0, "")
		pdf.CellFormat(40, 7, formatMinutes(d.Minutes), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}
	pdf.SetFont(family, "B", 9)
	pdf.CellFormat(60, 7, "Total", "1", 0, "", false, 0, "")
	pdf.CellFormat(40, 7, strconv.Itoa(week.TotalMinutes), "1", 0, "R", false, 0, "")
	pdf.CellFormat(40, 7, formatMinutes(week.TotalMinutes), "1", 0, "R", false, 0, "")
	pdf.Ln(10)

	pdf.SetFont(family, "B", 12)
	pdf.CellFormat(0, 8, "By subject", "", 1, "", false, 0, "")

	if len(week.Subjects) == 0 {
		pdf.SetFont(family, "", 9)
		pdf.CellFormat(0, 7, "No sessions in this period.", "", 1, "", false, 0, "")
	} else {
		pdf.SetFont(family, "B", 10)
		pdf.CellFormat(80, 8, "Subject", "1", 0, "C", false, 0, "")
		pdf.CellFormat(40, 8, "Duration", "1", 0, "C", false, 0, "")
		pdf.CellFormat(40, 8, "Share", "1", 0, "C", false, 0, "")
		pdf.Ln(-1)

		pdf.SetFont(family, "", 9)
		for _, s := range week.Subjects {
			r, g, b := hexRGB(s.Color)
			pdf.SetFillColor(r, g, b)
			pdf.CellFormat(3, 7, "", "1", 0, "", true, 0, "")
			pdf.CellFormat(77, 7, tr(s.Subject), "1", 0, "", false, 0, "")
			pdf.CellFormat(40, 7, formatMinutes(s.Minutes), "1", 0, "R", false, 0, "")
			pdf.CellFormat(40, 7, fmt.Sprintf("%.1f%%", s.Percentage), "1", 0, "R", false, 0, "")
			pdf.Ln(-1)
		}
	}

	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("write pdf file: %w", err)
	}
	return nil
}

// hexRGB parses #rrggbb, falling back to grey.
func hexRGB(hex string) (int, int, int) {
	if len(hex) != 7 || hex[0] != '#' {
		return 128, 128, 128
	}
	v, err := strconv.ParseUint(hex[1:], 16, 32)
	if err != nil {
		return 128, 128, 128
	}
	return int(v >> 16 & 0xff), int(v >> 8 & 0xff), int(v & 0xff)
}
