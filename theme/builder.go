// Package theme produces custom theme stylesheet: palette custom properties
// for brand colors followed by project styles compiled against theme
// variables.
package theme

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/afero"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"themec/common"
	"themec/compile"
	"themec/css"
	"themec/less"
)

// Options of the theme build.
type Options struct {
	// VariablesFile is theme variables entry point, its imports are inlined.
	VariablesFile string
	// LibraryDir is component library styles directory.
	LibraryDir  string
	PackageRoot string
	// Roots are project style directories.
	Roots          []string
	BrandVariables []common.BrandVariable
	Prefix         string
	// GenerateOnce keeps first successful result for the lifetime of builder.
	GenerateOnce bool
	Concurrency  int
}

// Artifact is result of a build.
type Artifact struct {
	CSS       string
	Variables *less.VariableMap
	Palettes  []Palette
	Compiled  *compile.Result
}

// Builder builds theme stylesheet. It is safe for concurrent use.
type Builder struct {
	fs       afero.Fs
	renderer less.Renderer
	log      *zap.Logger
	opts     Options

	mu     sync.Mutex
	cached *Artifact
}

// NewBuilder creates builder reading sources from fs.
func NewBuilder(fs afero.Fs, renderer less.Renderer, opts Options, log *zap.Logger) *Builder {
	if log == nil {
		log = zap.NewNop()
	}
	return &Builder{fs: fs, renderer: renderer, opts: opts, log: log.Named("theme")}
}

// Build resolves theme variables, generates palettes, compiles project styles
// and post-processes the result.
func (b *Builder) Build(ctx context.Context) (*Artifact, error) {
	if !b.opts.GenerateOnce {
		return b.build(ctx)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.cached != nil {
		b.log.Debug("Using previously generated theme")
		return b.cached, nil
	}
	a, err := b.build(ctx)
	if err != nil {
		return nil, err
	}
	b.cached = a
	return a, nil
}

func (b *Builder) build(ctx context.Context) (*Artifact, error) {
	if len(b.opts.VariablesFile) == 0 {
		return nil, errors.New("theme variables file is not specified")
	}

	flat, err := (&less.Flattener{Fs: b.fs, PackageRoot: b.opts.PackageRoot, Log: b.log}).Flatten(b.opts.VariablesFile)
	if err != nil {
		return nil, fmt.Errorf("unable to combine theme variables: %w", err)
	}
	vars := less.BuildVariableMap(b.log, flat)
	b.log.Debug("Theme variables resolved", zap.Int("count", vars.Len()))

	palettes, err := Palettes(vars, b.opts.BrandVariables)
	if err != nil {
		return nil, err
	}
	paletteCSS, err := RenderPalettes(palettes, b.opts.Prefix)
	if err != nil {
		return nil, err
	}

	renderOpts := less.RenderOptions{
		Paths:        b.searchPaths(),
		ImportPrefix: less.DefaultImportPrefix,
		PackageRoot:  b.opts.PackageRoot,
	}
	header, err := b.renderer.Render(ctx, paletteCSS+"\n"+vars.Source(), renderOpts)
	if err != nil {
		return nil, fmt.Errorf("unable to render theme palette: %w", err)
	}

	compiler := &compile.Compiler{Fs: b.fs, Renderer: b.renderer, Log: b.log, Concurrency: b.opts.Concurrency}
	res, err := compiler.Compile(ctx, compile.Options{
		Roots:               b.opts.Roots,
		LibraryDir:          b.opts.LibraryDir,
		PackageRoot:         b.opts.PackageRoot,
		Variables:           vars,
		SharedVariablesFile: b.opts.VariablesFile,
	})
	if err != nil {
		return nil, fmt.Errorf("unable to compile project styles: %w", err)
	}
	if res.Failures != nil {
		b.log.Warn("Some fragments were not rendered", zap.Int("failed", len(multierr.Errors(res.Failures))), zap.Int("total", len(res.Fragments)))
	}

	reduced := css.Reduce(b.log, []byte(header+"\n"+res.CSS))
	minified, err := css.Minify(reduced)
	if err != nil {
		return nil, err
	}

	b.log.Debug("Theme built",
		zap.Int("palettes", len(palettes)),
		zap.Int("fragments", len(res.Fragments)),
		zap.Int("duplicates", res.Duplicates),
		zap.Int("bytes", len(minified)))

	return &Artifact{
		CSS:       strings.TrimSpace(string(minified)),
		Variables: vars,
		Palettes:  palettes,
		Compiled:  res,
	}, nil
}

func (b *Builder) searchPaths() []string {
	paths := make([]string, 0, len(b.opts.Roots)+1)
	if len(b.opts.LibraryDir) > 0 {
		paths = append(paths, b.opts.LibraryDir)
	}
	return append(paths, b.opts.Roots...)
}
