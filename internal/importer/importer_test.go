package importer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
	"github.com/yofu/dxf"

	"github.com/piwi3910/blockbuilder/internal/model"
)

var cat = model.DefaultCatalog()

// ─── DetectCSVDelimiter Tests ──────────────────────────────

func TestDetectCSVDelimiter_Comma(t *testing.T) {
	data := []byte("Type,X,Y,Rotation\nDirt,0,0,0\nDoor,40,0,90\n")
	if got := DetectCSVDelimiter(data); got != ',' {
		t.Errorf("expected comma delimiter, got %q", got)
	}
}

func TestDetectCSVDelimiter_Semicolon(t *testing.T) {
	data := []byte("Type;X;Y;Rotation\nDirt;0;0;0\nDoor;40;0;90\n")
	if got := DetectCSVDelimiter(data); got != ';' {
		t.Errorf("expected semicolon delimiter, got %q", got)
	}
}

func TestDetectCSVDelimiter_Tab(t *testing.T) {
	data := []byte("Type\tX\tY\nDirt\t0\t0\nDoor\t40\t0\n")
	if got := DetectCSVDelimiter(data); got != '\t' {
		t.Errorf("expected tab delimiter, got %q", got)
	}
}

func TestDetectCSVDelimiter_Pipe(t *testing.T) {
	data := []byte("Type|X|Y\nDirt|0|0\nDoor|40|0\n")
	if got := DetectCSVDelimiter(data); got != '|' {
		t.Errorf("expected pipe delimiter, got %q", got)
	}
}

// ─── DetectColumns Tests ───────────────────────────────────

func TestDetectColumns_StandardHeaders(t *testing.T) {
	mapping, isHeader := DetectColumns([]string{"Type", "X", "Y", "Rotation"})

	if !isHeader {
		t.Error("expected header to be detected")
	}
	if mapping.Type != 0 || mapping.X != 1 || mapping.Y != 2 || mapping.Rotation != 3 {
		t.Errorf("unexpected mapping: %+v", mapping)
	}
}

func TestDetectColumns_AliasesAndOrder(t *testing.T) {
	mapping, isHeader := DetectColumns([]string{"ANGLE", "Top", "Left", "Block"})

	if !isHeader {
		t.Error("expected header to be detected")
	}
	if mapping.Rotation != 0 || mapping.Y != 1 || mapping.X != 2 || mapping.Type != 3 {
		t.Errorf("unexpected mapping: %+v", mapping)
	}
}

func TestDetectColumns_NoHeader(t *testing.T) {
	mapping, isHeader := DetectColumns([]string{"Dirt", "0", "40"})

	if isHeader {
		t.Error("expected no header detection for data row")
	}
	if mapping.Type != 0 || mapping.X != 1 || mapping.Y != 2 || mapping.Rotation != 3 {
		t.Errorf("expected positional mapping, got %+v", mapping)
	}
}

// ─── CSV Import Tests ──────────────────────────────────────

func TestImportCSVFromReader_WithHeader(t *testing.T) {
	data := "Type,X,Y,Rotation\nDirt,0,0,0\nDoor,40,-40,90\nStone,80,0,\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',', cat)

	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Objects) != 3 {
		t.Fatalf("expected 3 objects, got %d", len(result.Objects))
	}
	door := result.Objects[1]
	if door.Type != model.Door || door.X != 40 || door.Y != -40 || door.Rotation != model.Rotation90 {
		t.Errorf("unexpected door: %+v", door)
	}
	if result.Objects[2].Rotation != model.Rotation0 {
		t.Errorf("missing rotation should default to 0, got %d", result.Objects[2].Rotation)
	}
	for _, o := range result.Objects {
		if o.ID == "" {
			t.Error("imported objects need ids")
		}
	}
}

func TestImportCSVFromReader_NoHeader(t *testing.T) {
	result := ImportCSVFromReader(strings.NewReader("Dirt,0,0\nDirt,40,0\n"), ',', cat)

	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Objects) != 2 {
		t.Errorf("expected 2 objects, got %d", len(result.Objects))
	}
}

func TestImportCSVFromReader_RowErrors(t *testing.T) {
	data := strings.Join([]string{
		"type,x,y,rot",
		"Dirt,0,0,0",
		"Obsidian,0,0,0",
		"Dirt,abc,0,0",
		"Dirt,0,,0",
		"Dirt,0,0,45",
		",0,0,0",
		"",
		"Stone,40,0,270",
	}, "\n")
	result := ImportCSVFromReader(strings.NewReader(data), ',', cat)

	if len(result.Objects) != 2 {
		t.Errorf("expected 2 good rows, got %d", len(result.Objects))
	}
	if len(result.Errors) != 5 {
		t.Fatalf("expected 5 row errors, got %d: %v", len(result.Errors), result.Errors)
	}
	if !strings.Contains(result.Errors[0], "Line 3") || !strings.Contains(result.Errors[0], "Unknown block type") {
		t.Errorf("unexpected first error: %s", result.Errors[0])
	}
	if !strings.Contains(result.Errors[3], "must be 0, 90, 180 or 270") {
		t.Errorf("expected rotation error, got %s", result.Errors[3])
	}
}

func TestImportCSVFromReader_MissingRequiredColumns(t *testing.T) {
	result := ImportCSVFromReader(strings.NewReader("Type,Rotation\nDirt,0\n"), ',', cat)

	if len(result.Errors) != 1 || !strings.Contains(result.Errors[0], "X, Y") {
		t.Errorf("expected missing column error, got %v", result.Errors)
	}
}

func TestImportCSV_SemicolonFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blocks.csv")
	if err := os.WriteFile(path, []byte("Type;X;Y\nDirt;0;0\nDirt;40;0\n"), 0644); err != nil {
		t.Fatal(err)
	}

	result := ImportCSV(path, cat)

	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Objects) != 2 {
		t.Errorf("expected 2 objects, got %d", len(result.Objects))
	}
	found := false
	for _, w := range result.Warnings {
		if strings.Contains(w, "semicolon") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected semicolon warning, got %v", result.Warnings)
	}
}

func TestImportCSV_EmptyAndMissingFiles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	if err := os.WriteFile(path, []byte("  \n"), 0644); err != nil {
		t.Fatal(err)
	}
	if result := ImportCSV(path, cat); len(result.Errors) != 1 || result.Errors[0] != "File is empty" {
		t.Errorf("expected empty file error, got %v", result.Errors)
	}
	if result := ImportCSV(filepath.Join(t.TempDir(), "none.csv"), cat); len(result.Errors) != 1 {
		t.Errorf("expected open error, got %v", result.Errors)
	}
}

// ─── Excel Import Tests ────────────────────────────────────

func TestImportExcel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blocks.xlsx")
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	rows := [][]interface{}{
		{"Block", "Left", "Top", "Angle"},
		{"WoodPlank", 0, 100, 0},
		{"Door", 80, 60, 180},
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatal(err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}
	f.Close()

	result := ImportExcel(path, cat)

	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Objects) != 2 {
		t.Fatalf("expected 2 objects, got %d", len(result.Objects))
	}
	if result.Objects[1].Type != model.Door || result.Objects[1].Rotation != model.Rotation180 {
		t.Errorf("unexpected second object: %+v", result.Objects[1])
	}
}

func TestImportExcel_BadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.xlsx")
	if err := os.WriteFile(path, []byte("not a workbook"), 0644); err != nil {
		t.Fatal(err)
	}
	if result := ImportExcel(path, cat); len(result.Errors) == 0 {
		t.Error("expected an error for a corrupt workbook")
	}
}

// ─── DXF Import Tests ──────────────────────────────────────

func TestImportDXF_Rectangles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "build.dxf")
	d := dxf.NewDrawing()
	rects := []struct {
		layer      string
		x, y, w, h float64
	}{
		{"Dirt", 0, -40, 40, 40},   // top-left (0, 0)
		{"Dirt", 40, -40, 40, 40},  // top-left (40, 0), shares an edge
		{"Door", 80, -40, 80, 40},  // rotated door at (80, 0)
		{"Ghost", 0, -100, 10, 10}, // unknown layer
	}
	for _, r := range rects {
		if _, err := d.AddLayer(r.layer, dxf.DefaultColor, dxf.DefaultLineType, true); err != nil {
			if err := d.ChangeLayer(r.layer); err != nil {
				t.Fatal(err)
			}
		}
		d.Line(r.x, r.y+r.h, 0, r.x+r.w, r.y+r.h, 0)
		d.Line(r.x+r.w, r.y+r.h, 0, r.x+r.w, r.y, 0)
		d.Line(r.x+r.w, r.y, 0, r.x, r.y, 0)
		d.Line(r.x, r.y, 0, r.x, r.y+r.h, 0)
	}
	if err := d.SaveAs(path); err != nil {
		t.Fatal(err)
	}

	result := ImportDXF(path, cat)

	if len(result.Objects) != 3 {
		t.Fatalf("expected 3 objects, got %d (errors %v)", len(result.Objects), result.Errors)
	}
	if len(result.Errors) != 1 || !strings.Contains(result.Errors[0], "Ghost") {
		t.Errorf("expected one error for the unknown layer, got %v", result.Errors)
	}
	want := []model.PlacedObject{
		{Type: model.Dirt, X: 0, Y: 0, Rotation: model.Rotation0},
		{Type: model.Dirt, X: 40, Y: 0, Rotation: model.Rotation0},
		{Type: model.Door, X: 80, Y: 0, Rotation: model.Rotation90},
	}
	for i, w := range want {
		got := result.Objects[i]
		if got.Type != w.Type || got.X != w.X || got.Y != w.Y || got.Rotation != w.Rotation {
			t.Errorf("object %d: expected %+v, got %+v", i, w, got)
		}
	}
}

func TestImportDXF_MissingFile(t *testing.T) {
	result := ImportDXF(filepath.Join(t.TempDir(), "none.dxf"), cat)
	if len(result.Errors) != 1 {
		t.Errorf("expected one error, got %v", result.Errors)
	}
}
