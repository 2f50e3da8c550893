package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rupor-github/gencfg"

	"themec/common"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	return path
}

func TestLoadConfiguration_NoFile(t *testing.T) {
	cfg, err := LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() with empty path error = %v", err)
	}
	if cfg == nil {
		t.Fatal("LoadConfiguration() returned nil config")
	}
	if cfg.Version != 1 {
		t.Errorf("Default config version = %d, want 1", cfg.Version)
	}
}

func TestConfig_DefaultValues(t *testing.T) {
	cfg, err := LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	th := cfg.Theme
	if th.PackageDir != filepath.FromSlash("node_modules/tdesign-vue") {
		t.Errorf("PackageDir = %q", th.PackageDir)
	}
	if len(th.Roots) != 1 || th.Roots[0] != "src/styles" {
		t.Errorf("Roots = %v", th.Roots)
	}
	if len(th.BrandVariables) != 1 || th.BrandVariables[0] != common.BrandVariableBrandColor.String() {
		t.Errorf("BrandVariables = %v", th.BrandVariables)
	}
	if th.Prefix != "td" {
		t.Errorf("Prefix = %q", th.Prefix)
	}
	if th.OutputNameTemplate != "custom-theme.css" {
		t.Errorf("OutputNameTemplate = %q", th.OutputNameTemplate)
	}
	if th.GenerateOnce {
		t.Error("GenerateOnce should be off by default")
	}
	if cfg.Renderer.Kind != common.RendererKindBuiltin {
		t.Errorf("Renderer.Kind = %v", cfg.Renderer.Kind)
	}
	if cfg.HTML.Inject {
		t.Error("HTML injection should be off by default")
	}
	if cfg.Logging.ConsoleLogger.Level != "normal" {
		t.Errorf("console level = %q", cfg.Logging.ConsoleLogger.Level)
	}
}

func TestThemeConfig_Paths(t *testing.T) {
	tests := []struct {
		name                   string
		cfg                    ThemeConfig
		styles, vars, packages string
	}{
		{
			name:     "derived",
			cfg:      ThemeConfig{PackageDir: "/app/node_modules/tdesign-vue"},
			styles:   "/app/node_modules/tdesign-vue/esm/_common/style/web",
			vars:     "/app/node_modules/tdesign-vue/esm/_common/style/web/_variables.less",
			packages: "/app/node_modules",
		},
		{
			name:     "scoped package",
			cfg:      ThemeConfig{PackageDir: "/app/node_modules/@scope/lib"},
			styles:   "/app/node_modules/@scope/lib/esm/_common/style/web",
			vars:     "/app/node_modules/@scope/lib/esm/_common/style/web/_variables.less",
			packages: "/app/node_modules",
		},
		{
			name:     "outside of packages",
			cfg:      ThemeConfig{PackageDir: "/vendor/lib", StylesDir: "/vendor/lib/styles"},
			styles:   "/vendor/lib/styles",
			vars:     "/vendor/lib/styles/_variables.less",
			packages: "/vendor",
		},
		{
			name: "explicit",
			cfg: ThemeConfig{
				PackageDir:    "/app/node_modules/lib",
				StylesDir:     "/s",
				VariablesFile: "/v.less",
				PackageRoot:   "/p",
			},
			styles:   "/s",
			vars:     "/v.less",
			packages: "/p",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := filepath.ToSlash(tt.cfg.Styles()); got != tt.styles {
				t.Errorf("Styles() = %q, want %q", got, tt.styles)
			}
			if got := filepath.ToSlash(tt.cfg.Variables()); got != tt.vars {
				t.Errorf("Variables() = %q, want %q", got, tt.vars)
			}
			if got := filepath.ToSlash(tt.cfg.Packages()); got != tt.packages {
				t.Errorf("Packages() = %q, want %q", got, tt.packages)
			}
		})
	}
}

func TestLoadConfiguration_WithFile(t *testing.T) {
	configPath := writeConfig(t, `version: 1
theme:
  package_dir: /app/node_modules/tdesign-vue-next
  roots: ["src/styles", "src/components"]
  brand_variables: ["brand-color", "error-color"]
  prefix: my
  generate_once: true
  concurrency: 2
renderer:
  kind: exec
  command: lessc --js
html:
  inject: true
  path: public/index.html
logging:
  console:
    level: debug
reporting:
  destination: /tmp/test-report.zip
`)

	cfg, err := LoadConfiguration(configPath)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	if len(cfg.Theme.Roots) != 2 || cfg.Theme.Roots[1] != "src/components" {
		t.Errorf("Roots = %v", cfg.Theme.Roots)
	}
	if len(cfg.Theme.BrandVariables) != 2 {
		t.Errorf("BrandVariables = %v", cfg.Theme.BrandVariables)
	}
	if !cfg.Theme.GenerateOnce || cfg.Theme.Concurrency != 2 || cfg.Theme.Prefix != "my" {
		t.Errorf("unexpected theme config %+v", cfg.Theme)
	}
	if cfg.Renderer.Kind != common.RendererKindExec || cfg.Renderer.Command != "lessc --js" {
		t.Errorf("unexpected renderer config %+v", cfg.Renderer)
	}
	if !cfg.HTML.Inject || cfg.HTML.Path != "public/index.html" {
		t.Errorf("unexpected html config %+v", cfg.HTML)
	}
	// not in the file, must come from defaults
	if cfg.Theme.OutputNameTemplate != "custom-theme.css" {
		t.Errorf("OutputNameTemplate = %q", cfg.Theme.OutputNameTemplate)
	}
}

func TestLoadConfiguration_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"invalid yaml", "version: 1\ntheme:\n  prefix: x\n  invalid indent\n"},
		{"unknown field", "version: 1\ntheme:\n  unknown_field: value\n"},
		{"bad version", "version: 2\n"},
		{"unknown renderer", "version: 1\nrenderer:\n  kind: sass\n"},
		{"exec without command", "version: 1\nrenderer:\n  kind: exec\n  command: \"\"\n"},
		{"no roots", "version: 1\ntheme:\n  roots: []\n"},
		{"bad log level", "version: 1\nlogging:\n  console:\n    level: verbose\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadConfiguration(writeConfig(t, tt.content)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLoadConfiguration_NonExistentFile(t *testing.T) {
	if _, err := LoadConfiguration("/nonexistent/config.yaml"); err == nil {
		t.Error("Expected error for nonexistent file")
	}
}

func TestLoadConfiguration_WithOptions(t *testing.T) {
	option := func(opts *gencfg.ProcessingOptions) {
		// Options are opaque, just test that we can pass them
	}
	cfg, err := LoadConfiguration("", option)
	if err != nil {
		t.Fatalf("LoadConfiguration() with options error = %v", err)
	}
	if cfg == nil {
		t.Fatal("LoadConfiguration() returned nil config")
	}
}

func TestPrepare(t *testing.T) {
	data, err := Prepare()
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	if !strings.Contains(string(data), "output_name_template") {
		t.Error("Prepare() lost output name template")
	}

	cfg := &Config{}
	if _, err = unmarshalConfig(data, cfg, true); err != nil {
		t.Errorf("Prepared config is not valid: %v", err)
	}
}

func TestDump(t *testing.T) {
	cfg, err := LoadConfiguration("")
	if err != nil {
		t.Fatal(err)
	}
	cfg.Theme.Prefix = "dumped"

	data, err := Dump(cfg)
	if err != nil {
		t.Fatalf("Dump() error = %v", err)
	}
	for _, want := range []string{"prefix: dumped", "kind: builtin", "package_dir:"} {
		if !strings.Contains(string(data), want) {
			t.Errorf("Dump() output misses %q:\n%s", want, data)
		}
	}

	back, err := unmarshalConfig(data, &Config{}, true)
	if err != nil {
		t.Fatalf("dumped config does not load: %v", err)
	}
	if back.Theme.Prefix != "dumped" || back.Renderer.Kind != common.RendererKindBuiltin {
		t.Errorf("unexpected round trip result %+v", back.Theme)
	}
}

func TestUnmarshalConfig_WrapsValidationError(t *testing.T) {
	_, err := unmarshalConfig([]byte("version: 99\n"), &Config{}, true)
	if err == nil {
		t.Fatal("expected validation error, got nil")
	}
	if !strings.Contains(err.Error(), "validat") {
		t.Errorf("expected error to mention validation, got: %v", err)
	}
	if errors.Unwrap(err) == nil {
		t.Errorf("expected wrapped error, got bare error: %v", err)
	}
}

func TestCleanFileName(t *testing.T) {
	if got := CleanFileName("a"+string(os.PathSeparator)+"b.css", "x.css"); got != "ab.css" {
		t.Errorf("CleanFileName() = %q", got)
	}
	if got := CleanFileName(string(os.PathSeparator), "x.css"); got != "x.css" {
		t.Errorf("CleanFileName() fallback = %q", got)
	}
}
