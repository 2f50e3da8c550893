// Package compile renders project stylesheet fragments against resolved theme
// variables and merges results into single stylesheet.
package compile

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"sort"
	"strings"

	"github.com/maruel/natural"
	"github.com/spf13/afero"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"themec/less"
)

// ErrRender marks fragment which could not be read or rendered.
var ErrRender = errors.New("unable to render fragment")

// placeholder replaces output of failed fragment.
const placeholder = "\n"

// Fragment is a single stylesheet prepared for rendering.
type Fragment struct {
	Path   string
	Source string
}

// Options of single compilation.
type Options struct {
	// Roots are directories searched for *.less fragments, in order.
	Roots []string
	// LibraryDir is component library styles directory, first on the import
	// search path.
	LibraryDir string
	// PackageRoot is where "~" imports are resolved.
	PackageRoot string
	// Variables are substituted into fragments before rendering.
	Variables *less.VariableMap
	// SharedVariablesFile is imported at the top of every fragment.
	SharedVariablesFile string
}

// Result of compilation. Failures hold every fragment which ended up as
// placeholder, they do not invalidate CSS.
type Result struct {
	CSS        string
	Fragments  []string
	Duplicates int
	Failures   error
}

// Compiler renders fragments concurrently.
type Compiler struct {
	Fs          afero.Fs
	Renderer    less.Renderer
	Log         *zap.Logger
	Concurrency int
}

// Compile enumerates fragments under roots, rewrites and renders each of them
// and joins distinct outputs in enumeration order. Failure to render single
// fragment does not stop compilation, only cancellation of ctx does.
func (c *Compiler) Compile(ctx context.Context, opts Options) (*Result, error) {
	log := c.Log
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("compile")

	paths, err := Enumerate(c.Fs, opts.Roots)
	if err != nil {
		return nil, err
	}
	log.Debug("Fragments enumerated", zap.Int("count", len(paths)), zap.Strings("roots", opts.Roots))

	known := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		known[p] = struct{}{}
	}

	renderOpts := less.RenderOptions{
		ImportPrefix: less.DefaultImportPrefix,
		PackageRoot:  opts.PackageRoot,
	}
	if len(opts.LibraryDir) > 0 {
		renderOpts.Paths = append(renderOpts.Paths, opts.LibraryDir)
	}
	renderOpts.Paths = append(renderOpts.Paths, opts.Roots...)

	limit := c.Concurrency
	if limit <= 0 {
		limit = runtime.NumCPU()
	}

	outputs := make([]string, len(paths))
	failures := make([]error, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out, err := c.render(gctx, path, known, opts, renderOpts)
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				log.Warn("Unable to render fragment, skipping", zap.String("path", path), zap.Error(err))
				failures[i] = fmt.Errorf("%w %s: %w", ErrRender, path, err)
				out = placeholder
			}
			outputs[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	res := &Result{Fragments: paths, Failures: multierr.Combine(failures...)}

	seen := make(map[string]string, len(outputs))
	kept := make([]string, 0, len(outputs))
	for i, out := range outputs {
		sum := sha256.Sum256([]byte(out))
		digest := hex.EncodeToString(sum[:])
		if first, ok := seen[digest]; ok {
			log.Debug("Duplicate output dropped", zap.String("path", paths[i]), zap.String("same as", first))
			res.Duplicates++
			continue
		}
		seen[digest] = paths[i]
		kept = append(kept, out)
	}
	res.CSS = strings.Join(kept, "\n")
	return res, nil
}

func (c *Compiler) render(ctx context.Context, path string, known map[string]struct{}, opts Options, renderOpts less.RenderOptions) (string, error) {
	src, err := less.ReadSource(c.Fs, path)
	if err != nil {
		return "", err
	}
	frag := Prepare(path, src, known, opts)

	renderOpts.Filename = frag.Path
	return c.Renderer.Render(ctx, frag.Source, renderOpts)
}

// Enumerate returns *.less files found under roots. Files of every root are in
// natural order, roots follow each other as given.
func Enumerate(fs afero.Fs, roots []string) ([]string, error) {
	var (
		all  []string
		seen = make(map[string]struct{})
	)
	for _, root := range roots {
		var files []string
		err := afero.Walk(fs, root, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if !info.IsDir() && strings.EqualFold(filepath.Ext(path), less.Ext) {
				files = append(files, filepath.Clean(path))
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("unable to enumerate fragments in '%s': %w", root, err)
		}
		sort.Sort(natural.StringSlice(files))
		for _, f := range files {
			if _, ok := seen[f]; ok {
				continue
			}
			seen[f] = struct{}{}
			all = append(all, f)
		}
	}
	return all, nil
}

var reFragmentImport = regexp.MustCompile(`@import\s*(?:\([^)]*\)\s*)?["']([^"']+)["']\s*;?`)

// Prepare rewrites fragment source: imports of other known fragments are
// removed (they are rendered on their own), variable references are replaced
// with resolved values and shared variables file is imported on top.
func Prepare(path, src string, known map[string]struct{}, opts Options) Fragment {
	dir := filepath.Dir(path)
	src = reFragmentImport.ReplaceAllStringFunc(src, func(stmt string) string {
		target := reFragmentImport.FindStringSubmatch(stmt)[1]
		if _, ok := known[less.ImportPath(dir, target, less.DefaultImportPrefix, opts.PackageRoot)]; ok {
			return ""
		}
		return stmt
	})

	if opts.Variables != nil && opts.Variables.Len() > 0 {
		src = Substitute(src, opts.Variables)
	}
	if len(opts.SharedVariablesFile) > 0 {
		src = fmt.Sprintf("@import \"%s\";\n%s", filepath.ToSlash(opts.SharedVariablesFile), src)
	}
	return Fragment{Path: path, Source: src}
}

var reReference = regexp.MustCompile(`@[\w-]+`)

// Substitute replaces known variable references in value positions (after
// ':' up to ';', '}' or end of line) with their values. Every occurrence is
// replaced once, inserted values are not scanned again. Quoted strings are
// left intact: LESS only interpolates "@{name}" there and the compiler handles
// that itself.
func Substitute(src string, vars *less.VariableMap) string {
	lines := strings.Split(src, "\n")
	for i, line := range lines {
		if strings.IndexByte(line, ':') >= 0 && strings.IndexByte(line, less.Sigil) >= 0 {
			lines[i] = substituteLine(line, vars)
		}
	}
	return strings.Join(lines, "\n")
}

func substituteLine(line string, vars *less.VariableMap) string {
	var sb strings.Builder
	for {
		colon := strings.IndexByte(line, ':')
		if colon < 0 {
			sb.WriteString(line)
			return sb.String()
		}
		sb.WriteString(line[:colon+1])
		line = line[colon+1:]

		var (
			quote byte
			from  int
			end   = len(line)
		)
	scan:
		for i := 0; i < len(line); i++ {
			c := line[i]
			switch {
			case quote != 0:
				if c == '\\' {
					i++
				} else if c == quote {
					// closing quote, copy string literal verbatim
					sb.WriteString(line[from : i+1])
					quote, from = 0, i+1
				}
			case c == '"' || c == '\'':
				sb.WriteString(replaceReferences(line[from:i], vars))
				quote, from = c, i
			case c == ';' || c == '}':
				end = i
				break scan
			}
		}
		if quote != 0 {
			// unterminated string runs to the end of line
			sb.WriteString(line[from:])
			return sb.String()
		}
		sb.WriteString(replaceReferences(line[from:end], vars))
		line = line[end:]
	}
}

func replaceReferences(s string, vars *less.VariableMap) string {
	return reReference.ReplaceAllStringFunc(s, func(ref string) string {
		if v, ok := vars.Get(ref); ok {
			return v
		}
		return ref
	})
}
