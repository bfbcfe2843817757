package export

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"
	"github.com/skip2/go-qrcode"

	"github.com/piwi3910/blockbuilder/internal/model"
)

// shareCodePrefix marks a string as a build share code.
const shareCodePrefix = "BB1:"

// Card layout (A6 portrait in mm).
const (
	cardWidth  = 105.0
	cardHeight = 148.0
	cardMargin = 8.0
	qrSize     = 60.0
)

// sharePayload is the compact form of a build carried in a share code.
type sharePayload struct {
	Name   string       `json:"n"`
	Blocks [][4]float64 `json:"b"`
	Types  []string     `json:"t"`
}

// EncodeShareCode packs a build's name and blocks into a short string that
// fits in a QR code. Ids and timestamps are not carried.
func EncodeShareCode(b model.Build) (string, error) {
	p := sharePayload{Name: b.Name}
	typeIndex := make(map[model.ObjectType]int)
	for _, blk := range b.Blocks {
		idx, ok := typeIndex[blk.Type]
		if !ok {
			idx = len(p.Types)
			typeIndex[blk.Type] = idx
			p.Types = append(p.Types, string(blk.Type))
		}
		p.Blocks = append(p.Blocks, [4]float64{float64(idx), blk.X, blk.Y, float64(blk.Rotation)})
	}
	data, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("failed to encode share code: %w", err)
	}
	return shareCodePrefix + base64.RawURLEncoding.EncodeToString(data), nil
}

// DecodeShareCode reverses EncodeShareCode. The returned build has no id.
func DecodeShareCode(code string) (model.Build, error) {
	code = strings.TrimSpace(code)
	if !strings.HasPrefix(code, shareCodePrefix) {
		return model.Build{}, fmt.Errorf("not a build share code")
	}
	data, err := base64.RawURLEncoding.DecodeString(strings.TrimPrefix(code, shareCodePrefix))
	if err != nil {
		return model.Build{}, fmt.Errorf("failed to decode share code: %w", err)
	}
	var p sharePayload
	if err := json.Unmarshal(data, &p); err != nil {
		return model.Build{}, fmt.Errorf("failed to parse share code: %w", err)
	}

	b := model.Build{Name: p.Name, Blocks: make([]model.Block, 0, len(p.Blocks))}
	for i, raw := range p.Blocks {
		idx := int(raw[0])
		if idx < 0 || idx >= len(p.Types) {
			return model.Build{}, fmt.Errorf("share code block %d has an unknown type index %d", i, idx)
		}
		rot, err := model.ParseRotation(int(raw[3]))
		if err != nil {
			return model.Build{}, fmt.Errorf("share code block %d: %w", i, err)
		}
		b.Blocks = append(b.Blocks, model.Block{
			Type:     model.ObjectType(p.Types[idx]),
			X:        raw[1],
			Y:        raw[2],
			Rotation: rot,
		})
	}
	return b, nil
}

// ExportBuildCard writes a printable card with the build name, its
// materials and a QR code holding the share code.
func ExportBuildCard(path string, cat *model.Catalog, b model.Build) error {
	code, err := EncodeShareCode(b)
	if err != nil {
		return err
	}
	png, err := qrcode.Encode(code, qrcode.Medium, 256)
	if err != nil {
		// Large builds only fit with less error correction.
		png, err = qrcode.Encode(code, qrcode.Low, 256)
		if err != nil {
			return fmt.Errorf("build is too large for a share card: %w", err)
		}
	}

	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: cardWidth, Ht: cardHeight},
	})
	pdf.SetAutoPageBreak(false, cardMargin)
	pdf.SetTitle(b.Name, true)
	pdf.AddPage()

	pdf.SetDrawColor(120, 120, 120)
	pdf.SetLineWidth(0.4)
	pdf.Rect(cardMargin/2, cardMargin/2, cardWidth-cardMargin, cardHeight-cardMargin, "D")

	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(cardMargin, cardMargin)
	pdf.CellFormat(cardWidth-2*cardMargin, 8, b.Name, "", 1, "C", false, 0, "")

	imgName := "qr_" + b.ID
	pdf.RegisterImageOptionsReader(imgName, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(png))
	pdf.ImageOptions(imgName, (cardWidth-qrSize)/2, cardMargin+12, qrSize, qrSize, false,
		fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	pdf.SetFont("Helvetica", "", 8)
	pdf.SetXY(cardMargin, cardMargin+12+qrSize+2)
	pdf.CellFormat(cardWidth-2*cardMargin, 4, "Scan to load this build", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "B", 10)
	y := cardMargin + 12 + qrSize + 10
	pdf.SetXY(cardMargin, y)
	pdf.CellFormat(cardWidth-2*cardMargin, 6, fmt.Sprintf("Materials (%d blocks)", len(b.Blocks)), "B", 1, "L", false, 0, "")
	y += 7

	pdf.SetFont("Helvetica", "", 9)
	for _, row := range materials(cat, b) {
		if y > cardHeight-cardMargin-5 {
			break
		}
		pdf.SetXY(cardMargin, y)
		pdf.CellFormat(cardWidth-2*cardMargin-15, 5, string(row.Type), "", 0, "L", false, 0, "")
		pdf.CellFormat(15, 5, fmt.Sprintf("x%d", row.Count), "", 0, "R", false, 0, "")
		y += 5
	}

	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("failed to write build card: %w", err)
	}
	return nil
}
