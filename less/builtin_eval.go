package less

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/tdewolff/parse/v2/css"
)

type variable struct {
	value      []token
	scope      *scope
	evaluating bool
	done       bool
	text       string
}

type scope struct {
	vars   map[string]*variable
	parent *scope
}

// newScope collects all variables of the block up front, so they could be
// used before declaration. Last declaration wins.
func newScope(parent *scope, nodes []*node) *scope {
	s := &scope{vars: make(map[string]*variable), parent: parent}
	for _, n := range nodes {
		if n.kind == varNode {
			s.vars[n.name] = &variable{value: n.value, scope: s}
		}
	}
	return s
}

func (s *scope) lookup(name string) *variable {
	for c := s; c != nil; c = c.parent {
		if v, ok := c.vars[name]; ok {
			return v
		}
	}
	return nil
}

// cssRule is single output block. Wrap holds enclosing at-rules, outermost
// first.
type cssRule struct {
	wrap      []string
	selectors []string
	decls     []string
	raw       string
}

type evaluator struct {
	rules []cssRule
}

// body evaluates block content. Declarations go first as a single rule,
// nested blocks follow in order.
func (e *evaluator) body(nodes []*node, sc *scope, selectors, wrap []string) error {
	var decls []string
	for _, n := range nodes {
		if n.reference {
			continue
		}
		switch n.kind {
		case declNode:
			d, err := e.declaration(n, sc)
			if err != nil {
				return err
			}
			decls = append(decls, d)
		case mixinCallNode:
			return fmt.Errorf("%w: mixin call %s", ErrUnsupported, text(n.head))
		case atRuleNode:
			if len(selectors) > 0 {
				return fmt.Errorf("%w: %s inside ruleset", ErrUnsupported, n.name)
			}
			prelude, err := e.value(n.head, sc)
			if err != nil {
				return err
			}
			e.rules = append(e.rules, cssRule{wrap: wrap, raw: joinNonEmpty(n.name, prelude) + ";\n"})
		}
	}
	if len(decls) > 0 {
		if len(selectors) == 0 {
			return errors.New("properties must be inside selector blocks")
		}
		e.rules = append(e.rules, cssRule{wrap: wrap, selectors: selectors, decls: decls})
	}

	for _, n := range nodes {
		if n.reference {
			continue
		}
		var err error
		switch n.kind {
		case rulesetNode:
			err = e.ruleset(n, sc, selectors, wrap)
		case atBlockNode:
			err = e.atBlock(n, sc, selectors, wrap)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (e *evaluator) ruleset(n *node, parent *scope, parents, wrap []string) error {
	sc := newScope(parent, n.children)
	head, err := e.value(n.head, sc)
	if err != nil {
		return err
	}
	return e.body(n.children, sc, combine(parents, splitSelectors(head)), wrap)
}

func (e *evaluator) atBlock(n *node, parent *scope, selectors, wrap []string) error {
	sc := newScope(parent, n.children)
	prelude, err := e.value(n.head, sc)
	if err != nil {
		return err
	}

	switch n.name {
	case "@media", "@supports", "@container", "@document", "@layer":
		inner := append([]string(nil), wrap...)
		if last := len(inner) - 1; n.name == "@media" && last >= 0 && strings.HasPrefix(inner[last], "@media ") {
			inner[last] += " and " + prelude
		} else {
			inner = append(inner, joinNonEmpty(n.name, prelude))
		}
		return e.body(n.children, sc, selectors, inner)
	}

	// @font-face, @keyframes, @page and the like are output as is
	var sb strings.Builder
	sb.WriteString(joinNonEmpty(n.name, prelude) + " {\n")
	if err := e.plain(&sb, n.children, sc, 1); err != nil {
		return err
	}
	sb.WriteString("}\n")
	e.rules = append(e.rules, cssRule{wrap: wrap, raw: sb.String()})
	return nil
}

// plain writes nodes without selector combination.
func (e *evaluator) plain(sb *strings.Builder, nodes []*node, sc *scope, depth int) error {
	pad := strings.Repeat("  ", depth)
	for _, n := range nodes {
		switch n.kind {
		case declNode:
			d, err := e.declaration(n, sc)
			if err != nil {
				return err
			}
			sb.WriteString(pad + d + ";\n")
		case rulesetNode, atBlockNode:
			inner := newScope(sc, n.children)
			head, err := e.value(n.head, inner)
			if err != nil {
				return err
			}
			if n.kind == atBlockNode {
				head = joinNonEmpty(n.name, head)
			}
			sb.WriteString(pad + head + " {\n")
			if err := e.plain(sb, n.children, inner, depth+1); err != nil {
				return err
			}
			sb.WriteString(pad + "}\n")
		case mixinCallNode:
			return fmt.Errorf("%w: mixin call %s", ErrUnsupported, text(n.head))
		}
	}
	return nil
}

func (e *evaluator) declaration(n *node, sc *scope) (string, error) {
	name, err := e.value(n.head, sc)
	if err != nil {
		return "", err
	}
	value, err := e.value(n.value, sc)
	if err != nil {
		return "", err
	}
	return name + ": " + value, nil
}

// value renders tokens substituting variables.
func (e *evaluator) value(toks []token, sc *scope) (string, error) {
	var sb strings.Builder
	for _, t := range toks {
		switch t.tt {
		case css.WhitespaceToken:
			sb.WriteByte(' ')
		case css.AtKeywordToken:
			s, err := e.variable(t.data, sc)
			if err != nil {
				return "", err
			}
			sb.WriteString(s)
		case interpToken:
			s, err := e.variable(string(Sigil)+t.data, sc)
			if err != nil {
				return "", err
			}
			sb.WriteString(unquote(s))
		case css.StringToken, css.URLToken, escapeToken:
			s, err := e.interpolate(t.data, sc)
			if err != nil {
				return "", err
			}
			sb.WriteString(s)
		default:
			sb.WriteString(t.data)
		}
	}
	return strings.TrimSpace(sb.String()), nil
}

func (e *evaluator) variable(name string, sc *scope) (string, error) {
	v := sc.lookup(name)
	if v == nil {
		return "", fmt.Errorf("variable %s is undefined", name)
	}
	if v.done {
		return v.text, nil
	}
	if v.evaluating {
		return "", fmt.Errorf("recursive variable definition for %s", name)
	}

	v.evaluating = true
	s, err := e.value(v.value, v.scope)
	v.evaluating = false
	if err != nil {
		return "", err
	}
	v.text, v.done = s, true
	return s, nil
}

var reInterpolation = regexp.MustCompile(`@\{([\w-]+)\}`)

func (e *evaluator) interpolate(s string, sc *scope) (string, error) {
	var failed error
	out := reInterpolation.ReplaceAllStringFunc(s, func(m string) string {
		v, err := e.variable(string(Sigil)+m[2:len(m)-1], sc)
		if err != nil {
			failed = err
			return m
		}
		return unquote(v)
	})
	return out, failed
}

// String serializes collected rules.
func (e *evaluator) String() string {
	var sb strings.Builder
	for _, r := range e.rules {
		for i, w := range r.wrap {
			sb.WriteString(strings.Repeat("  ", i) + w + " {\n")
		}
		pad := strings.Repeat("  ", len(r.wrap))
		if len(r.raw) > 0 {
			for _, line := range strings.SplitAfter(r.raw, "\n") {
				if len(line) > 0 {
					sb.WriteString(pad + line)
				}
			}
		} else {
			sb.WriteString(pad + strings.Join(r.selectors, ",\n"+pad) + " {\n")
			for _, d := range r.decls {
				sb.WriteString(pad + "  " + d + ";\n")
			}
			sb.WriteString(pad + "}\n")
		}
		for i := len(r.wrap) - 1; i >= 0; i-- {
			sb.WriteString(strings.Repeat("  ", i) + "}\n")
		}
	}
	return sb.String()
}

// splitSelectors splits selector list on commas outside of parentheses,
// brackets and strings.
func splitSelectors(s string) []string {
	var (
		out   []string
		depth int
		quote byte
		start int
	)
	add := func(part string) {
		if part = strings.TrimSpace(part); len(part) > 0 {
			out = append(out, part)
		}
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '(' || c == '[':
			depth++
		case c == ')' || c == ']':
			depth--
		case c == ',' && depth == 0:
			add(s[start:i])
			start = i + 1
		}
	}
	add(s[start:])
	return out
}

// combine joins nested selectors with parent ones, "&" stands for parent.
func combine(parents, own []string) []string {
	out := make([]string, 0, max(1, len(parents))*len(own))
	if len(parents) == 0 {
		for _, c := range own {
			out = append(out, strings.TrimSpace(strings.ReplaceAll(c, "&", "")))
		}
		return out
	}
	for _, p := range parents {
		for _, c := range own {
			if strings.Contains(c, "&") {
				out = append(out, strings.ReplaceAll(c, "&", p))
			} else {
				out = append(out, p+" "+c)
			}
		}
	}
	return out
}

func joinNonEmpty(a, b string) string {
	if len(b) == 0 {
		return a
	}
	return a + " " + b
}
