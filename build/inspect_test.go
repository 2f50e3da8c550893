package build

import (
	"bytes"
	"regexp"
	"strings"
	"testing"

	"go.uber.org/zap/zaptest"
)

func TestPrintPalette(t *testing.T) {
	buf := new(bytes.Buffer)
	if err := printPalette(buf, "#0052D9"); err != nil {
		t.Fatalf("printPalette() error = %v", err)
	}
	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if len(lines) != 10 {
		t.Fatalf("printPalette() printed %d lines:\n%s", len(lines), buf)
	}
	if !strings.HasPrefix(lines[0], " 1 #") || !strings.HasPrefix(lines[9], "10 #") {
		t.Errorf("unexpected output:\n%s", buf)
	}

	if err := printPalette(buf, "not a color"); err == nil {
		t.Error("expected error for bad color")
	}
}

func TestPrintPaletteCSS(t *testing.T) {
	log := zaptest.NewLogger(t)
	for _, name := range []string{"success-color", "@success-color"} {
		buf := new(bytes.Buffer)
		if err := printPaletteCSS(buf, "#2ba471", name, "demo", log); err != nil {
			t.Fatalf("printPaletteCSS(%q) error = %v", name, err)
		}
		if !strings.Contains(buf.String(), "  --demo-success-color: var(--demo-success-color-5);") {
			t.Errorf("unexpected output:\n%s", buf)
		}
	}
	if err := printPaletteCSS(new(bytes.Buffer), "#2ba471", "link-color", "", log); err == nil {
		t.Error("expected error for variable without palette")
	}
	if err := printPaletteCSS(new(bytes.Buffer), "@undefined", "brand-color", "", log); err == nil {
		t.Error("expected error for dangling reference")
	}
}

func TestPrintVariables(t *testing.T) {
	_, env := setupTestEnv(t)

	buf := new(bytes.Buffer)
	if err := printVariables(buf, env, env.Cfg.Theme.Variables(), env.Log); err != nil {
		t.Fatalf("printVariables() error = %v", err)
	}
	out := buf.String()
	first := strings.Index(out, "@brand-color-7")
	second := regexp.MustCompile(`@brand-color\W?:`).FindStringIndex(out)
	if first < 0 || second == nil || first > second[0] {
		t.Errorf("variables are missing or out of order:\n%s", out)
	}
	if strings.Count(out, `"#0052d9"`) != 2 {
		t.Errorf("reference was not resolved:\n%s", out)
	}

	if err := printVariables(buf, env, "/app/missing.less", env.Log); err == nil {
		t.Error("expected error for missing file")
	}
}
