package export

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"github.com/yofu/dxf"
	"github.com/yofu/dxf/entity"

	"github.com/piwi3910/blockbuilder/internal/engine"
	"github.com/piwi3910/blockbuilder/internal/importer"
	"github.com/piwi3910/blockbuilder/internal/model"
)

var cat = model.DefaultCatalog()

func testBuild() model.Build {
	return model.Build{
		ID:   "b1",
		Name: "Little House",
		Blocks: []model.Block{
			{Type: model.Dirt, X: 0, Y: 80, Rotation: model.Rotation0},
			{Type: model.Dirt, X: 40, Y: 80, Rotation: model.Rotation0},
			{Type: model.WoodPlank, X: 0, Y: 60, Rotation: model.Rotation0},
			{Type: model.Door, X: 80, Y: 40, Rotation: model.Rotation90},
			{Type: model.Apple, X: 10, Y: 40, Rotation: model.Rotation0},
		},
	}
}

func assertNonEmptyFile(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestLayout_Bounds(t *testing.T) {
	blocks, bounds, err := layout(cat, testBuild())
	require.NoError(t, err)

	assert.Len(t, blocks, 5)
	assert.Equal(t, 0.0, bounds.X)
	assert.Equal(t, 40.0, bounds.Y)
	assert.Equal(t, 160.0, bounds.Width) // rotated door spans 80..160
	assert.Equal(t, 80.0, bounds.Height)
}

func TestLayout_SkipsUnknownTypes(t *testing.T) {
	b := model.Build{Name: "odd", Blocks: []model.Block{{Type: "Obsidian"}}}
	_, _, err := layout(cat, b)
	assert.Error(t, err)
}

func TestMaterials_CatalogOrder(t *testing.T) {
	rows := materials(cat, testBuild())
	require.Len(t, rows, 4)
	assert.Equal(t, materialRow{Type: model.Dirt, Count: 2}, rows[0])
	assert.Equal(t, model.WoodPlank, rows[1].Type)
	assert.Equal(t, model.Apple, rows[2].Type)
	assert.Equal(t, model.Door, rows[3].Type)
}

func TestExportBlueprintPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "house.pdf")
	require.NoError(t, ExportBlueprintPDF(path, cat, testBuild()))
	assertNonEmptyFile(t, path)
}

func TestExportBlueprintPDF_EmptyBuild(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.pdf")
	assert.Error(t, ExportBlueprintPDF(path, cat, model.Build{Name: "empty"}))
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestLabelFontSize_Clamped(t *testing.T) {
	assert.Equal(t, 5.0, labelFontSize(10, 4))
	assert.Equal(t, 9.0, labelFontSize(200, 100))
}

func TestShareCode_RoundTrip(t *testing.T) {
	b := testBuild()
	code, err := EncodeShareCode(b)
	require.NoError(t, err)
	assert.Contains(t, code, shareCodePrefix)

	got, err := DecodeShareCode("  " + code + "\n")
	require.NoError(t, err)
	assert.Equal(t, b.Name, got.Name)
	assert.Equal(t, b.Blocks, got.Blocks)
	assert.Empty(t, got.ID)
}

func TestShareCode_EmptyBuild(t *testing.T) {
	code, err := EncodeShareCode(model.Build{Name: "nothing"})
	require.NoError(t, err)

	got, err := DecodeShareCode(code)
	require.NoError(t, err)
	assert.Equal(t, "nothing", got.Name)
	assert.Empty(t, got.Blocks)
}

func TestDecodeShareCode_Rejects(t *testing.T) {
	_, err := DecodeShareCode("hello")
	assert.Error(t, err)

	_, err = DecodeShareCode(shareCodePrefix + "!!!")
	assert.Error(t, err)

	// {"n":"x","b":[[3,0,0,0]],"t":["Dirt"]}: type index out of range
	_, err = DecodeShareCode(shareCodePrefix + "eyJuIjoieCIsImIiOltbMywwLDAsMF1dLCJ0IjpbIkRpcnQiXX0")
	assert.Error(t, err)
}

func TestExportBuildCard(t *testing.T) {
	path := filepath.Join(t.TempDir(), "card.pdf")
	require.NoError(t, ExportBuildCard(path, cat, testBuild()))
	assertNonEmptyFile(t, path)
}

func TestExportExcel_Sheets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "house.xlsx")
	require.NoError(t, ExportExcel(path, cat, testBuild()))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{BlocksSheet, MaterialsSheet}, f.GetSheetList())

	rows, err := f.GetRows(BlocksSheet)
	require.NoError(t, err)
	require.Len(t, rows, 6)
	assert.Equal(t, []string{"Type", "X", "Y", "Rotation", "Width", "Height"}, rows[0])
	assert.Equal(t, []string{"Door", "80", "40", "90", "80", "40"}, rows[4])

	mats, err := f.GetRows(MaterialsSheet)
	require.NoError(t, err)
	require.Len(t, mats, 5)
	assert.Equal(t, []string{"Dirt", "2"}, mats[1])
}

func TestExportExcel_ImportsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "house.xlsx")
	b := testBuild()
	require.NoError(t, ExportExcel(path, cat, b))

	result := importer.ImportExcel(path, cat)
	require.Empty(t, result.Errors)
	assert.Equal(t, b.Blocks, model.BlocksFromObjects(result.Objects))
}

func TestExportExcel_EmptyBuild(t *testing.T) {
	assert.Error(t, ExportExcel(filepath.Join(t.TempDir(), "x.xlsx"), cat, model.Build{}))
}

func TestExportDXF_Lines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "house.dxf")
	require.NoError(t, ExportDXF(path, cat, testBuild()))

	d, err := dxf.Open(path)
	require.NoError(t, err)

	lines := 0
	for _, ent := range d.Entities() {
		if _, ok := ent.(*entity.Line); ok {
			lines++
		}
	}
	assert.Equal(t, 20, lines)
}

func TestExportDXF_ImportsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "house.dxf")
	b := model.Build{Name: "row", Blocks: []model.Block{
		{Type: model.Dirt, X: 0, Y: 0},
		{Type: model.Dirt, X: 40, Y: 0},
		{Type: model.Door, X: 80, Y: 0, Rotation: model.Rotation90},
	}}
	require.NoError(t, ExportDXF(path, cat, b))

	result := importer.ImportDXF(path, cat)
	require.Empty(t, result.Errors)
	assert.Equal(t, b.Blocks, model.BlocksFromObjects(result.Objects))
}

func TestExportDXF_HalfTurnsComeBackAsQuarterTurns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "turned.dxf")
	b := model.Build{Name: "turned", Blocks: []model.Block{
		{Type: model.Door, X: 0, Y: 0, Rotation: model.Rotation180},
		{Type: model.Door, X: 100, Y: 0, Rotation: model.Rotation270},
	}}
	require.NoError(t, ExportDXF(path, cat, b))

	result := importer.ImportDXF(path, cat)
	require.Empty(t, result.Errors)
	require.Len(t, result.Objects, 2)

	assert.Equal(t, model.Rotation0, result.Objects[0].Rotation)
	assert.Equal(t, model.Rotation90, result.Objects[1].Rotation)
	for i, o := range result.Objects {
		want := engine.EffectiveDimensions(cat, b.Blocks[i].Type, b.Blocks[i].Rotation)
		assert.Equal(t, want, engine.EffectiveDimensions(cat, o.Type, o.Rotation))
		assert.Equal(t, b.Blocks[i].X, o.X)
		assert.Equal(t, b.Blocks[i].Y, o.Y)
	}
}
