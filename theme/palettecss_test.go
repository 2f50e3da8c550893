package theme_test

import (
	"strings"
	"testing"

	"go.uber.org/zap/zaptest"

	"themec/color"
	"themec/common"
	"themec/less"
	"themec/palette"
	"themec/theme"
)

func variables(t *testing.T, src string) *less.VariableMap {
	t.Helper()
	return less.BuildVariableMap(zaptest.NewLogger(t), src)
}

func TestPaletteStylesheet(t *testing.T) {
	vars := variables(t, "@error-color: #d54941;\n@blue: #0052d9;\n@brand-color: @blue;\n@radius: 3px;\n")

	got, err := theme.PaletteStylesheet(vars, []common.BrandVariable{common.BrandVariableBrandColor}, "")
	if err != nil {
		t.Fatalf("PaletteStylesheet() error = %v", err)
	}

	lines := strings.Split(strings.TrimSuffix(got, "\n"), "\n")
	if len(lines) != palette.Size+len(theme.Aliases)+2 {
		t.Fatalf("unexpected number of lines %d:\n%s", len(lines), got)
	}
	if lines[0] != `:root,:root[theme-mode="light"],:root[theme-mode="dark"] {` {
		t.Errorf("unexpected selector line %q", lines[0])
	}
	if lines[len(lines)-1] != "}" {
		t.Errorf("unexpected last line %q", lines[len(lines)-1])
	}
	if strings.Contains(got, "error-color") {
		t.Errorf("variable outside of allow list got palette:\n%s", got)
	}

	p, err := palette.Generate(color.MustParse("#0052d9"))
	if err != nil {
		t.Fatal(err)
	}
	stops := p.Strings()
	if lines[1] != "  --td-brand-color-1: "+stops[0]+";" {
		t.Errorf("first stop = %q", lines[1])
	}
	if lines[palette.Size] != "  --td-brand-color-10: "+stops[palette.Size-1]+";" {
		t.Errorf("last stop = %q", lines[palette.Size])
	}

	aliases := []string{
		"  --td-brand-color-light: var(--td-brand-color-1);",
		"  --td-brand-color-focus: var(--td-brand-color-2);",
		"  --td-brand-color-disabled: var(--td-brand-color-3);",
		"  --td-brand-color-hover: var(--td-brand-color-4);",
		"  --td-brand-color: var(--td-brand-color-5);",
		"  --td-brand-color-active: var(--td-brand-color-6);",
	}
	for i, want := range aliases {
		if got := lines[palette.Size+1+i]; got != want {
			t.Errorf("alias %d = %q, want %q", i, got, want)
		}
	}
}

func TestPaletteStylesheet_Order(t *testing.T) {
	vars := variables(t, "@warning-color: #e37318;\n@brand-color: #0052d9;\n@success-color: #2ba471;\n")
	names := []common.BrandVariable{
		common.BrandVariableBrandColor,
		common.BrandVariableSuccessColor,
		common.BrandVariableErrorColor,
		common.BrandVariableWarningColor,
	}

	got, err := theme.PaletteStylesheet(vars, names, "My Theme")
	if err != nil {
		t.Fatalf("PaletteStylesheet() error = %v", err)
	}

	warning := strings.Index(got, "--my-theme-warning-color-1:")
	brand := strings.Index(got, "--my-theme-brand-color-1:")
	success := strings.Index(got, "--my-theme-success-color-1:")
	if warning < 0 || brand < 0 || success < 0 {
		t.Fatalf("palette is missing:\n%s", got)
	}
	if !(warning < brand && brand < success) {
		t.Errorf("palettes are not in definition order:\n%s", got)
	}
	if strings.Contains(got, "error-color") {
		t.Errorf("palette generated for undefined variable:\n%s", got)
	}
}

func TestPaletteStylesheet_Empty(t *testing.T) {
	got, err := theme.PaletteStylesheet(variables(t, "@radius: 3px;"), []common.BrandVariable{common.BrandVariableBrandColor}, "")
	if err != nil {
		t.Fatalf("PaletteStylesheet() error = %v", err)
	}
	want := ":root,:root[theme-mode=\"light\"],:root[theme-mode=\"dark\"] {\n}\n"
	if got != want {
		t.Errorf("PaletteStylesheet() = %q, want %q", got, want)
	}
}

func TestPaletteStylesheet_BadSeed(t *testing.T) {
	vars := variables(t, "@brand-color: var(--primary);")
	if _, err := theme.PaletteStylesheet(vars, []common.BrandVariable{common.BrandVariableBrandColor}, ""); err == nil {
		t.Fatal("expected error for seed which is not a color")
	}
}

func TestPalettes(t *testing.T) {
	vars := variables(t, "@brand-color: #0052D9;")
	got, err := theme.Palettes(vars, []common.BrandVariable{common.BrandVariableBrandColor})
	if err != nil {
		t.Fatalf("Palettes() error = %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("Palettes() len = %d", len(got))
	}
	if got[0].Name != "brand-color" || got[0].Seed != "#0052D9" || len(got[0].Stops) != palette.Size {
		t.Errorf("Palettes() = %+v", got[0])
	}
}
