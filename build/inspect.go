package build

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"
	yaml "gopkg.in/yaml.v3"

	"themec/color"
	"themec/common"
	"themec/less"
	"themec/palette"
	"themec/state"
	"themec/theme"
)

// Palette is "palette" command action.
func Palette(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)
	log := env.Log.Named("palette")

	seed := cmd.Args().Get(0)
	if len(seed) == 0 {
		return errors.New("no color has been specified")
	}
	if cmd.Args().Len() > 1 {
		log.Warn("Malformed command line, too many colors", zap.Strings("ignoring", cmd.Args().Slice()[1:]))
	}

	if name := cmd.String("css"); len(name) > 0 {
		return printPaletteCSS(os.Stdout, seed, name, cmd.String("prefix"), log)
	}
	return printPalette(os.Stdout, seed)
}

func printPalette(w io.Writer, seed string) error {
	c, err := color.Parse(seed)
	if err != nil {
		return fmt.Errorf("unable to parse color: %w", err)
	}
	p, err := palette.Generate(c)
	if err != nil {
		return err
	}
	for i, s := range p.Strings() {
		if _, err := fmt.Fprintf(w, "%2d %s\n", i+1, s); err != nil {
			return err
		}
	}
	return nil
}

// printPaletteCSS outputs custom properties stylesheet as if seed was the
// value of named brand variable.
func printPaletteCSS(w io.Writer, seed, name, prefix string, log *zap.Logger) error {
	b, err := common.ParseBrandVariable(strings.TrimPrefix(name, string(less.Sigil)))
	if err != nil {
		return err
	}
	vars := less.NewVariableMap()
	if err := vars.Declare(less.Declaration{Name: b.LessName(), Value: seed}); err != nil {
		return err
	}
	out, err := theme.PaletteStylesheet(vars, []common.BrandVariable{b}, prefix)
	if err != nil {
		return err
	}
	log.Debug("Palette generated", zap.String("variable", b.LessName()), zap.String("seed", seed))
	_, err = io.WriteString(w, out)
	return err
}

// Vars is "vars" command action.
func Vars(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)
	log := env.Log.Named("vars")

	src := cmd.Args().Get(0)
	if len(src) == 0 {
		src = env.Cfg.Theme.Variables()
	}
	if cmd.Args().Len() > 1 {
		log.Warn("Malformed command line, too many sources", zap.Strings("ignoring", cmd.Args().Slice()[1:]))
	}
	return printVariables(os.Stdout, env, src, log)
}

func printVariables(w io.Writer, env *state.LocalEnv, src string, log *zap.Logger) error {
	flat, err := (&less.Flattener{Fs: env.Fs, PackageRoot: env.Cfg.Theme.Packages(), Log: log}).Flatten(src)
	if err != nil {
		return fmt.Errorf("unable to combine variables: %w", err)
	}
	vars := less.BuildVariableMap(log, flat)

	enc := yaml.NewEncoder(w)
	defer enc.Close()
	if err := enc.Encode(vars); err != nil {
		return fmt.Errorf("unable to output variables: %w", err)
	}
	log.Debug("Variables resolved", zap.String("source", src), zap.Int("count", vars.Len()))
	return nil
}
