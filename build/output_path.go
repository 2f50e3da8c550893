package build

import (
	"path/filepath"
	"strings"

	"github.com/gosimple/slug"
	"go.uber.org/zap"

	"themec/config"
	"themec/theme"
)

const (
	defaultOutputName = "custom-theme.css"
	outputExt         = ".css"
)

// buildOutputPath returns destination of produced stylesheet. Name is
// expanded from configured template, cleaned and given ".css" extension when
// missing. Template failures fall back to default name.
func buildOutputPath(a *theme.Artifact, dst string, cfg *config.Config, log *zap.Logger) string {
	name := defaultOutputName
	if len(cfg.Theme.OutputNameTemplate) > 0 {
		expanded, err := expandTemplate(a, config.OutputNameTemplateFieldName, cfg.Theme.OutputNameTemplate, cfg)
		if err != nil {
			log.Warn("Unable to prepare output filename", zap.Error(err))
		} else {
			name = expanded
		}
	}
	return filepath.Join(dst, cleanOutputName(name))
}

// cleanOutputName keeps only last path element of the name, slugifies its
// base and makes sure it has proper extension.
func cleanOutputName(name string) string {
	name = strings.TrimSpace(filepath.Base(filepath.FromSlash(strings.TrimSpace(name))))
	base := strings.TrimSuffix(name, filepath.Ext(name))
	if !strings.EqualFold(filepath.Ext(name), outputExt) {
		base = name
	}
	base = slug.Make(base)
	if len(base) == 0 {
		return defaultOutputName
	}
	return config.CleanFileName(base+outputExt, defaultOutputName)
}
