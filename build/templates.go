package build

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"text/template"

	sprig "github.com/go-task/slim-sprig/v3"

	"themec/config"
	"themec/theme"
)

// hashLen is the number of hex digits of stylesheet digest exposed to
// templates.
const hashLen = 8

// Values is a struct that holds variables we make available for template expansion
type Values struct {
	Context  string
	Prefix   string
	Hash     string
	Palettes []string
	Renderer string
}

func buildPalettes(palettes []theme.Palette) []string {
	result := make([]string, 0, len(palettes))
	for _, p := range palettes {
		result = append(result, p.Name)
	}
	return result
}

func buildHash(css string) string {
	sum := sha256.Sum256([]byte(css))
	return hex.EncodeToString(sum[:])[:hashLen]
}

func expandTemplate(a *theme.Artifact, name config.TemplateFieldName, field string, cfg *config.Config) (string, error) {
	funcMap := sprig.FuncMap()

	tmpl, err := template.New(string(name)).Funcs(funcMap).Parse(field)
	if err != nil {
		return "", fmt.Errorf("unable to parse template field %s: %w", name, err)
	}

	values := Values{
		Context:  string(name),
		Prefix:   cfg.Theme.Prefix,
		Hash:     buildHash(a.CSS),
		Palettes: buildPalettes(a.Palettes),
		Renderer: cfg.Renderer.Kind.String(),
	}

	buf := new(bytes.Buffer)
	if err := tmpl.Execute(buf, values); err != nil {
		return "", err
	}
	return buf.String(), nil
}
