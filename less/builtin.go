package less

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/afero"
	"github.com/tdewolff/parse/v2/css"
	"go.uber.org/zap"
)

// Builtin renders small subset of LESS: variables (lazy, lexically scoped,
// with interpolation), imports, nested rulesets and media queries, comments.
// Mixins, guards, operations and functions are not evaluated, mixin calls
// and guards are reported as ErrUnsupported.
type Builtin struct {
	fs  afero.Fs
	log *zap.Logger
}

// NewBuiltin returns renderer reading imports from fs.
func NewBuiltin(fs afero.Fs, log *zap.Logger) *Builtin {
	if log == nil {
		log = zap.NewNop()
	}
	return &Builtin{fs: fs, log: log.Named("less")}
}

// Render implements Renderer.
func (b *Builtin) Render(ctx context.Context, src string, opts RenderOptions) (string, error) {
	r := &rendering{
		ctx:  ctx,
		fs:   b.fs,
		log:  b.log,
		opts: opts,
		seen: make(map[string]struct{}),
	}

	var dir string
	name := "<input>"
	if len(opts.Filename) > 0 {
		name = filepath.Clean(opts.Filename)
		dir = filepath.Dir(name)
		r.seen[name] = struct{}{}
	}

	nodes, err := parseSource(src)
	if err != nil {
		return "", fmt.Errorf("%s: %w", name, err)
	}
	if nodes, err = r.expand(nodes, dir, false); err != nil {
		return "", fmt.Errorf("%s: %w", name, err)
	}

	e := &evaluator{}
	if err := e.body(nodes, newScope(nil, nodes), nil, nil); err != nil {
		return "", fmt.Errorf("%s: %w", name, err)
	}
	return e.String(), nil
}

type rendering struct {
	ctx  context.Context
	fs   afero.Fs
	log  *zap.Logger
	opts RenderOptions
	seen map[string]struct{}
}

// expand replaces import statements with content of imported files. Every
// file is imported once.
func (r *rendering) expand(nodes []*node, dir string, reference bool) ([]*node, error) {
	out := make([]*node, 0, len(nodes))
	for _, n := range nodes {
		if err := r.ctx.Err(); err != nil {
			return nil, err
		}
		n.reference = reference

		switch n.kind {
		case importNode:
			imported, err := r.load(n, dir, reference)
			if err != nil {
				return nil, err
			}
			out = append(out, imported...)
			continue
		case rulesetNode, atBlockNode:
			children, err := r.expand(n.children, dir, reference)
			if err != nil {
				return nil, err
			}
			n.children = children
		}
		out = append(out, n)
	}
	return out, nil
}

type importSpec struct {
	target  string
	options []string
	url     bool
}

func (s importSpec) has(option string) bool {
	return slices.Contains(s.options, option)
}

func (s importSpec) isCSS() bool {
	if s.has("css") {
		return true
	}
	if s.has("less") {
		return false
	}
	return s.url || strings.HasSuffix(s.target, ".css") ||
		strings.HasPrefix(s.target, "http://") || strings.HasPrefix(s.target, "https://") || strings.HasPrefix(s.target, "//")
}

func parseImport(toks []token) (importSpec, error) {
	var spec importSpec
	for i := 0; i < len(toks); i++ {
		switch t := toks[i]; t.tt {
		case css.WhitespaceToken:
		case css.LeftParenthesisToken:
			for i++; i < len(toks) && toks[i].tt != css.RightParenthesisToken; i++ {
				if toks[i].tt == css.IdentToken {
					spec.options = append(spec.options, strings.ToLower(toks[i].data))
				}
			}
		case css.StringToken:
			spec.target = unquote(t.data)
			return spec, nil
		case css.URLToken:
			spec.target = unquote(strings.TrimSpace(strings.TrimSuffix(t.data[4:], ")")))
			spec.url = true
			return spec, nil
		default:
			return spec, fmt.Errorf("malformed import %q", text(toks))
		}
	}
	return spec, fmt.Errorf("malformed import %q", text(toks))
}

// withoutOptions drops "(css)" like prefix of import prelude.
func withoutOptions(toks []token) []token {
	toks = trim(toks)
	if len(toks) == 0 || toks[0].tt != css.LeftParenthesisToken {
		return toks
	}
	for i, t := range toks {
		if t.tt == css.RightParenthesisToken {
			return trim(toks[i+1:])
		}
	}
	return toks
}

func (r *rendering) load(n *node, dir string, reference bool) ([]*node, error) {
	spec, err := parseImport(n.head)
	if err != nil {
		return nil, err
	}
	if spec.isCSS() {
		n.kind = atRuleNode
		n.head = withoutOptions(n.head)
		return []*node{n}, nil
	}
	reference = reference || spec.has("reference")

	path, err := r.locate(dir, spec.target)
	if err != nil {
		if spec.has("optional") {
			r.log.Debug("Optional import not found", zap.String("target", spec.target))
			return nil, nil
		}
		return nil, err
	}
	if _, ok := r.seen[path]; ok {
		return nil, nil
	}
	r.seen[path] = struct{}{}

	src, err := ReadSource(r.fs, path)
	if err != nil {
		return nil, err
	}
	nodes, err := parseSource(src)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	r.log.Debug("Imported", zap.String("path", path), zap.Bool("reference", reference))
	return r.expand(nodes, filepath.Dir(path), reference)
}

var errImportNotFound = errors.New("import not found")

func (r *rendering) locate(dir, target string) (string, error) {
	var candidates []string
	switch prefix := r.opts.ImportPrefix; {
	case len(prefix) > 0 && strings.HasPrefix(target, prefix):
		candidates = append(candidates, filepath.Join(r.opts.PackageRoot, strings.TrimPrefix(target, prefix)))
	case filepath.IsAbs(target):
		candidates = append(candidates, target)
	default:
		if len(dir) > 0 {
			candidates = append(candidates, filepath.Join(dir, target))
		}
		for _, p := range r.opts.Paths {
			candidates = append(candidates, filepath.Join(p, target))
		}
	}

	for _, c := range candidates {
		names := []string{c}
		if ext := filepath.Ext(c); ext != Ext && ext != ".css" {
			names = []string{c + Ext, c}
		}
		for _, name := range names {
			if fi, err := r.fs.Stat(name); err == nil && !fi.IsDir() {
				return name, nil
			}
		}
	}
	return "", fmt.Errorf("%w: %q", errImportNotFound, target)
}
