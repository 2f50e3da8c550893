package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	yaml "gopkg.in/yaml.v3"

	"github.com/rupor-github/gencfg"

	"themec/common"
)

//go:embed config.yaml.tmpl
var ConfigTmpl []byte

type (
	TemplateFieldName string

	ThemeConfig struct {
		PackageDir         string   `yaml:"package_dir" sanitize:"path_clean" validate:"required"`
		StylesDir          string   `yaml:"styles_dir,omitempty"`
		VariablesFile      string   `yaml:"variables_file,omitempty"`
		PackageRoot        string   `yaml:"package_root,omitempty"`
		Roots              []string `yaml:"roots" validate:"min=1,dive,required"`
		BrandVariables     []string `yaml:"brand_variables" validate:"dive,required"`
		Prefix             string   `yaml:"prefix"`
		OutputNameTemplate string   `yaml:"output_name_template" validate:"required"`
		GenerateOnce       bool     `yaml:"generate_once"`
		Concurrency        int      `yaml:"concurrency" validate:"gte=0"`
	}

	RendererConfig struct {
		Kind    common.RendererKind `yaml:"kind" validate:"gte=0"`
		Command string              `yaml:"command" validate:"required_if=Kind 1"`
	}

	HTMLConfig struct {
		Inject bool   `yaml:"inject"`
		Path   string `yaml:"path" validate:"required_if=Inject true"`
	}

	Config struct {
		Version   int            `yaml:"version" validate:"eq=1"`
		Theme     ThemeConfig    `yaml:"theme"`
		Renderer  RendererConfig `yaml:"renderer"`
		HTML      HTMLConfig     `yaml:"html"`
		Logging   LoggingConfig  `yaml:"logging"`
		Reporting ReporterConfig `yaml:"reporting"`
	}
)

const (
	// NOTE: must match yaml field name above, alternative is to use struct
	// field name and reflection which I want to avoid for now
	OutputNameTemplateFieldName TemplateFieldName = "output_name_template"
)

var requiredOptions = append([]func(*gencfg.ProcessingOptions){},
	gencfg.WithDoNotExpandField(string(OutputNameTemplateFieldName)),
)

// Locations of library styles relative to library package directory.
const (
	libraryStylesDir     = "esm/_common/style/web"
	libraryVariablesFile = "_variables.less"
	packageRootName      = "node_modules"
)

// Styles returns directory with component library styles.
func (t *ThemeConfig) Styles() string {
	if len(t.StylesDir) > 0 {
		return t.StylesDir
	}
	return filepath.Join(t.PackageDir, filepath.FromSlash(libraryStylesDir))
}

// Variables returns theme variables entry file.
func (t *ThemeConfig) Variables() string {
	if len(t.VariablesFile) > 0 {
		return t.VariablesFile
	}
	return filepath.Join(t.Styles(), libraryVariablesFile)
}

// Packages returns directory "~" prefixed imports are resolved against. When
// not set explicitly it is the closest packages directory containing library
// package.
func (t *ThemeConfig) Packages() string {
	if len(t.PackageRoot) > 0 {
		return t.PackageRoot
	}
	dir := filepath.ToSlash(t.PackageDir)
	if i := strings.LastIndex(dir, packageRootName); i >= 0 {
		return filepath.FromSlash(dir[:i+len(packageRootName)])
	}
	return filepath.Dir(t.PackageDir)
}

func unmarshalConfig(data []byte, cfg *Config, process bool) (*Config, error) {
	// We want to use only fields we defined so we cannot use yaml.Unmarshal
	// directly here
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration data: %w", err)
	}
	if process {
		// sanitize and validate what has been loaded
		if err := gencfg.Sanitize(cfg); err != nil {
			return nil, fmt.Errorf("failed to sanitize configuration: %w", err)
		}
		if err := gencfg.Validate(cfg); err != nil {
			return nil, fmt.Errorf("failed to validate configuration: %w", err)
		}
	}
	return cfg, nil
}

// LoadConfiguration reads the configuration from the file at the given path,
// superimposes its values on top of expanded configuration tamplate to provide
// sane defaults and performs validation.
func LoadConfiguration(path string, options ...func(*gencfg.ProcessingOptions)) (*Config, error) {
	haveFile := len(path) > 0

	data, err := gencfg.Process(ConfigTmpl, append(requiredOptions, options...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	cfg, err := unmarshalConfig(data, &Config{}, !haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	if !haveFile {
		return cfg, nil
	}

	// overwrite cfg values with values from the file
	data, err = os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg, err = unmarshalConfig(data, cfg, haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration file: %w", err)
	}
	return cfg, nil
}

// Prepare generates configuration file from template and returns it as a byte
// slice.
func Prepare() ([]byte, error) {
	return gencfg.Process(ConfigTmpl, requiredOptions...)
}

func Dump(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(*cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config to yaml: %w", err)
	}
	return data, nil
}
