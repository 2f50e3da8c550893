// Package build implements program commands: producing theme stylesheet and
// inspecting its ingredients.
package build

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"
	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"
	yaml "gopkg.in/yaml.v3"

	"themec/common"
	"themec/config"
	"themec/htmlinject"
	"themec/less"
	"themec/state"
	"themec/theme"
)

// Run is "build" command action.
func Run(ctx context.Context, cmd *cli.Command) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("build")

	dst := cmd.Args().Get(0)
	if len(dst) == 0 {
		if dst, err = os.Getwd(); err != nil {
			return fmt.Errorf("unable to get working directory: %w", err)
		}
	}
	if dst, err = filepath.Abs(dst); err != nil {
		return err
	}
	if cmd.Args().Len() > 1 {
		log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[1:]))
	}

	applyFlags(cmd, env.Cfg, log)
	env.Overwrite = cmd.Bool("overwrite")

	log.Info("Processing starting", zap.String("variables", env.Cfg.Theme.Variables()), zap.Strings("roots", env.Cfg.Theme.Roots), zap.String("destination", dst))
	defer func(start time.Time) {
		log.Info("Processing completed", zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	_, err = process(ctx, env, dst, log)
	return err
}

// applyFlags superimposes command line on top of configuration.
func applyFlags(cmd *cli.Command, cfg *config.Config, log *zap.Logger) {
	if v := cmd.String("package-dir"); len(v) > 0 {
		cfg.Theme.PackageDir = v
	}
	if v := cmd.String("variables"); len(v) > 0 {
		cfg.Theme.VariablesFile = v
	}
	if v := cmd.StringSlice("root"); len(v) > 0 {
		cfg.Theme.Roots = v
	}
	if v := cmd.StringSlice("brand"); len(v) > 0 {
		cfg.Theme.BrandVariables = v
	}
	if v := cmd.String("renderer"); len(v) > 0 {
		kind, err := common.ParseRendererKind(v)
		if err != nil {
			log.Warn("Unknown renderer requested, ignoring", zap.String("renderer", v), zap.Error(err))
		} else {
			cfg.Renderer.Kind = kind
		}
	}
	if v := cmd.String("html"); len(v) > 0 {
		cfg.HTML.Inject, cfg.HTML.Path = true, v
	}
}

// brandVariables converts configured names skipping unknown ones.
func brandVariables(names []string, log *zap.Logger) []common.BrandVariable {
	result := make([]common.BrandVariable, 0, len(names))
	for _, n := range names {
		// configuration may spell names the way stylesheets do
		b, err := common.ParseBrandVariable(strings.TrimPrefix(strings.TrimSpace(n), string(less.Sigil)))
		if err != nil {
			log.Warn("Palette cannot be generated for variable, ignoring", zap.String("variable", n), zap.Error(err))
			continue
		}
		result = append(result, b)
	}
	return result
}

func newBuilder(env *state.LocalEnv, log *zap.Logger) (*theme.Builder, error) {
	cfg := env.Cfg
	renderer, err := less.NewRenderer(cfg.Renderer.Kind, cfg.Renderer.Command, env.Fs, log)
	if err != nil {
		return nil, fmt.Errorf("unable to prepare renderer: %w", err)
	}
	return theme.NewBuilder(env.Fs, renderer, theme.Options{
		VariablesFile:  cfg.Theme.Variables(),
		LibraryDir:     cfg.Theme.Styles(),
		PackageRoot:    cfg.Theme.Packages(),
		Roots:          cfg.Theme.Roots,
		BrandVariables: brandVariables(cfg.Theme.BrandVariables, log),
		Prefix:         cfg.Theme.Prefix,
		GenerateOnce:   cfg.Theme.GenerateOnce,
		Concurrency:    cfg.Theme.Concurrency,
	}, log), nil
}

// process builds stylesheet and writes it into dst directory returning full
// name of produced file.
func process(ctx context.Context, env *state.LocalEnv, dst string, log *zap.Logger) (string, error) {
	b, err := newBuilder(env, log)
	if err != nil {
		return "", err
	}
	a, err := b.Build(ctx)
	if err != nil {
		return "", fmt.Errorf("unable to build theme: %w", err)
	}

	outputName := buildOutputPath(a, dst, env.Cfg, log)
	if err := writeOutput(env.Fs, outputName, []byte(a.CSS), env.Overwrite, log); err != nil {
		return "", err
	}
	log.Info("Stylesheet written", zap.String("to", outputName), zap.Int("bytes", len(a.CSS)), zap.Int("fragments", len(a.Compiled.Fragments)))

	// Store build result for debugging
	if env.Rpt != nil {
		env.Rpt.StoreData("result/"+filepath.Base(outputName), []byte(a.CSS))
		if data, err := yaml.Marshal(a.Variables); err == nil {
			env.Rpt.StoreData("result/variables.yaml", data)
		}
		if err := env.Rpt.StoreCopy(env.Fs, "variables", env.Cfg.Theme.Variables()); err != nil {
			log.Debug("Unable to store variables file in report", zap.Error(err))
		}
	}

	if env.Cfg.HTML.Inject {
		if err := injectLink(env.Fs, env.Cfg.HTML.Path, filepath.Base(outputName), log); err != nil {
			return outputName, err
		}
	}
	return outputName, nil
}

func writeOutput(fs afero.Fs, name string, data []byte, overwrite bool, log *zap.Logger) error {
	if _, err := fs.Stat(name); err == nil {
		if !overwrite {
			return fmt.Errorf("output file already exists: %s", name)
		}
		log.Warn("Overwriting existing file", zap.String("file", name))
	} else if !errors.Is(err, os.ErrNotExist) {
		return err
	} else if err := fs.MkdirAll(filepath.Dir(name), 0755); err != nil {
		return fmt.Errorf("unable to create output directory: %w", err)
	}
	return afero.WriteFile(fs, name, data, 0644)
}

func injectLink(fs afero.Fs, path, href string, log *zap.Logger) error {
	doc, err := afero.ReadFile(fs, path)
	if err != nil {
		return fmt.Errorf("unable to read html entry point: %w", err)
	}
	out, injected, err := htmlinject.Inject(doc, href)
	if err != nil {
		return fmt.Errorf("unable to inject stylesheet link into %s: %w", path, err)
	}
	if !injected {
		log.Debug("Stylesheet is already linked", zap.String("html", path))
		return nil
	}
	if err := afero.WriteFile(fs, path, out, 0644); err != nil {
		return fmt.Errorf("unable to write html entry point: %w", err)
	}
	log.Info("Stylesheet link injected", zap.String("html", path), zap.String("href", htmlinject.Href(href)))
	return nil
}
