package theme

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	sprig "github.com/go-task/slim-sprig/v3"
	"github.com/gosimple/slug"

	"themec/color"
	"themec/common"
	"themec/less"
	"themec/palette"
)

// DefaultPrefix of generated custom properties.
const DefaultPrefix = "td"

// Alias names palette stop by its role. Empty suffix stands for the base
// property itself.
type Alias struct {
	Suffix string
	Stop   int
}

// Aliases of palette stops, 1 based.
var Aliases = [...]Alias{
	{"light", 1},
	{"focus", 2},
	{"disabled", 3},
	{"hover", 4},
	{"", 5},
	{"active", 6},
}

const paletteTemplate = `:root,:root[theme-mode="light"],:root[theme-mode="dark"] {
{{- range .Palettes }}
{{- $name := printf "--%s-%s" $.Prefix .Name }}
{{- range $i, $c := .Stops }}
  {{ $name }}-{{ add1 $i }}: {{ $c }};
{{- end }}
{{- range $.Aliases }}
  {{ $name }}{{ if .Suffix }}-{{ .Suffix }}{{ end }}: var({{ $name }}-{{ .Stop }});
{{- end }}
{{- end }}
}
`

var tmplPalette = template.Must(template.New("palette").Funcs(sprig.FuncMap()).Parse(paletteTemplate))

// Palette is a generated palette of a single brand variable.
type Palette struct {
	Name  string
	Seed  string
	Stops []string
}

// Values is a struct that holds variables we make available for template expansion
type Values struct {
	Prefix   string
	Palettes []Palette
	Aliases  []Alias
}

// Palettes generates palettes for allowed variables present in vars, in
// order of variables definition.
func Palettes(vars *less.VariableMap, names []common.BrandVariable) ([]Palette, error) {
	allowed := make(map[string]struct{}, len(names))
	for _, n := range names {
		allowed[n.LessName()] = struct{}{}
	}

	var result []Palette
	for name, value := range vars.All() {
		if _, ok := allowed[name]; !ok {
			continue
		}
		seed, err := color.Parse(value)
		if err != nil {
			return nil, fmt.Errorf("unable to generate palette for %s: %w", name, err)
		}
		p, err := palette.Generate(seed)
		if err != nil {
			return nil, fmt.Errorf("unable to generate palette for %s: %w", name, err)
		}
		result = append(result, Palette{
			Name:  strings.TrimPrefix(name, string(less.Sigil)),
			Seed:  value,
			Stops: p.Strings(),
		})
	}
	return result, nil
}

// PaletteStylesheet returns root ruleset declaring palette custom properties
// for every allowed brand variable: "--<prefix>-<name>-<1..10>" and role
// aliases referring to them.
func PaletteStylesheet(vars *less.VariableMap, names []common.BrandVariable, prefix string) (string, error) {
	palettes, err := Palettes(vars, names)
	if err != nil {
		return "", err
	}
	return RenderPalettes(palettes, prefix)
}

// RenderPalettes expands stylesheet template for already generated palettes.
func RenderPalettes(palettes []Palette, prefix string) (string, error) {
	prefix = slug.Make(prefix)
	if len(prefix) == 0 {
		prefix = DefaultPrefix
	}

	buf := new(bytes.Buffer)
	if err := tmplPalette.Execute(buf, Values{Prefix: prefix, Palettes: palettes, Aliases: Aliases[:]}); err != nil {
		return "", fmt.Errorf("unable to expand palette template: %w", err)
	}
	return buf.String(), nil
}
