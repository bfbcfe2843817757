package ui

import (
	"testing"

	"fyne.io/fyne/v2/test"
	"fyne.io/fyne/v2/theme"

	"github.com/piwi3910/blockbuilder/internal/model"
)

func TestBuilderThemeVariants(t *testing.T) {
	test.NewTempApp(t)
	dark := NewBuilderTheme("dark")
	if dark.Color(theme.ColorNameBackground, theme.VariantLight) != theme.DefaultTheme().Color(theme.ColorNameBackground, theme.VariantDark) {
		t.Error("dark preference should force the dark variant")
	}

	system := NewBuilderTheme("system")
	if system.Color(theme.ColorNameBackground, theme.VariantLight) != theme.DefaultTheme().Color(theme.ColorNameBackground, theme.VariantLight) {
		t.Error("system preference should follow the requested variant")
	}

	if got := system.Size(theme.SizeNameText); got != 15 {
		t.Errorf("expected text size 15, got %v", got)
	}
}

func TestSafeFileName(t *testing.T) {
	cases := map[string]string{
		"My House":    "My House",
		"  ":          "build",
		"a/b\\c:d?e*": "a_b_c_d_e_",
	}
	for in, want := range cases {
		if got := safeFileName(in); got != want {
			t.Errorf("safeFileName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestFormatCounts(t *testing.T) {
	cat := model.DefaultCatalog()
	got := formatCounts(cat, map[model.ObjectType]int{model.Stone: 2, model.Dirt: 1, model.Door: 0})
	if got != "Dirt: 1\nStone: 2" {
		t.Errorf("unexpected counts text: %q", got)
	}
	if formatCounts(cat, nil) != "(none)" {
		t.Error("expected (none) for empty counts")
	}
}

func TestToolName(t *testing.T) {
	if toolName("") != "none" || toolName(model.Air) != "Remove" || toolName(model.Dirt) != "Dirt" {
		t.Error("unexpected tool names")
	}
}

func TestLimitLines(t *testing.T) {
	lines := []string{"a", "b", "c"}
	if got := limitLines(lines, 5); len(got) != 3 {
		t.Errorf("expected lines unchanged, got %v", got)
	}
	got := limitLines(lines, 2)
	if len(got) != 3 || got[2] != "...and 1 more" {
		t.Errorf("unexpected truncation: %v", got)
	}
}
