package export

import (
	"fmt"
	"math"

	"github.com/go-pdf/fpdf"

	"github.com/piwi3910/blockbuilder/internal/model"
)

// Page layout constants (A4 landscape in mm).
const (
	pageWidth     = 297.0
	pageHeight    = 210.0
	marginLeft    = 15.0
	marginRight   = 15.0
	marginTop     = 15.0
	marginBottom  = 15.0
	headerHeight  = 12.0
	drawAreaTop   = marginTop + headerHeight + 5.0
	materialsW    = 70.0
	materialsRowH = 5.0
)

// ExportBlueprintPDF renders a build as a one-page blueprint: the blocks
// drawn to scale on the left and a materials list on the right.
func ExportBlueprintPDF(path string, cat *model.Catalog, b model.Build) error {
	blocks, bounds, err := layout(cat, b)
	if err != nil {
		return err
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)
	pdf.SetTitle(b.Name, true)
	pdf.AddPage()

	// Title
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, b.Name, "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(marginLeft, marginTop+headerHeight)
	stats := fmt.Sprintf("Blocks: %d | Footprint: %.0f x %.0f", len(blocks), bounds.Width, bounds.Height)
	if !b.UpdatedAt.IsZero() {
		stats += " | Saved " + b.UpdatedAt.Local().Format("2006-01-02 15:04")
	}
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 5, stats, "", 0, "L", false, 0, "")

	// Drawing area
	drawWidth := pageWidth - marginLeft - marginRight - materialsW - 5
	drawHeight := pageHeight - drawAreaTop - marginBottom
	scale := math.Min(drawWidth/bounds.Width, drawHeight/bounds.Height)
	canvasW := bounds.Width * scale
	canvasH := bounds.Height * scale
	offsetX := marginLeft + (drawWidth-canvasW)/2
	offsetY := drawAreaTop

	pdf.SetFillColor(245, 245, 240)
	pdf.SetDrawColor(180, 180, 180)
	pdf.SetLineWidth(0.2)
	pdf.Rect(offsetX, offsetY, canvasW, canvasH, "FD")

	for _, blk := range blocks {
		px := offsetX + (blk.Box.X-bounds.X)*scale
		py := offsetY + (blk.Box.Y-bounds.Y)*scale
		pw := blk.Box.Width * scale
		ph := blk.Box.Height * scale

		pdf.SetFillColor(int(blk.Spec.Color.R), int(blk.Spec.Color.G), int(blk.Spec.Color.B))
		pdf.SetDrawColor(30, 30, 30)
		pdf.SetLineWidth(0.3)
		pdf.Rect(px, py, pw, ph, "FD")

		// Type name, only if the rectangle is large enough
		if pw > 15 && ph > 6 {
			pdf.SetFont("Helvetica", "", labelFontSize(pw, ph))
			pdf.SetTextColor(0, 0, 0)
			label := string(blk.Type)
			if w := pdf.GetStringWidth(label); w < pw-2 {
				pdf.SetXY(px+(pw-w)/2, py+ph/2-2)
				pdf.CellFormat(w, 4, label, "", 0, "C", false, 0, "")
			}
		}
	}

	drawMaterials(pdf, cat, b, pageWidth-marginRight-materialsW, drawAreaTop)
	return pdf.OutputFileAndClose(path)
}

// drawMaterials renders the materials table at the given position.
func drawMaterials(pdf *fpdf.Fpdf, cat *model.Catalog, b model.Build, x, y float64) {
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(x, y)
	pdf.CellFormat(materialsW, 6, "Materials", "B", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	rowY := y + 7
	for _, row := range materials(cat, b) {
		if rowY > pageHeight-marginBottom-materialsRowH {
			pdf.SetXY(x, rowY)
			pdf.CellFormat(materialsW, materialsRowH, "...", "", 0, "L", false, 0, "")
			break
		}
		if spec, ok := cat.Lookup(row.Type); ok {
			pdf.SetFillColor(int(spec.Color.R), int(spec.Color.G), int(spec.Color.B))
			pdf.Rect(x, rowY+1, 3, 3, "F")
		}
		pdf.SetXY(x+5, rowY)
		pdf.CellFormat(materialsW-20, materialsRowH, string(row.Type), "", 0, "L", false, 0, "")
		pdf.CellFormat(15, materialsRowH, fmt.Sprintf("%d", row.Count), "", 0, "R", false, 0, "")
		rowY += materialsRowH
	}
}

// labelFontSize picks a font size that fits a rectangle of the given size in mm.
func labelFontSize(w, h float64) float64 {
	size := math.Min(w/6, h/2)
	return math.Max(5, math.Min(size, 9))
}
