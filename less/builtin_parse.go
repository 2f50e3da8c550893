package less

import (
	"errors"
	"fmt"
	"io"
	"strings"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

// Token types produced by folding LESS specific sequences, outside of range
// used by css lexer.
const (
	interpToken css.TokenType = 1000 + iota // @{name}
	escapeToken                             // ~"text"
)

type token struct {
	tt   css.TokenType
	data string
}

type nodeKind int

const (
	declNode nodeKind = iota
	varNode
	importNode
	rulesetNode
	atRuleNode
	atBlockNode
	mixinCallNode
	mixinDefNode
)

type node struct {
	kind      nodeKind
	name      string  // variable or at-rule name
	head      []token // selector, property name or at-rule prelude
	value     []token // declaration or variable value
	children  []*node
	reference bool
}

func tokenize(src string) ([]token, error) {
	l := css.NewLexer(parse.NewInputString(stripLineComments(src)))

	var toks []token
	for {
		tt, data := l.Next()
		if tt == css.ErrorToken {
			if err := l.Err(); err != nil && !errors.Is(err, io.EOF) {
				return nil, err
			}
			break
		}
		if tt == css.CommentToken {
			continue
		}
		if tt == css.WhitespaceToken && len(toks) > 0 && toks[len(toks)-1].tt == css.WhitespaceToken {
			continue
		}
		toks = append(toks, token{tt: tt, data: string(data)})
	}
	return fold(toks), nil
}

// fold merges "@{name}" and "~'text'" sequences into single tokens.
func fold(in []token) []token {
	out := in[:0]
	for i := 0; i < len(in); i++ {
		t := in[i]
		switch {
		case t.tt == css.DelimToken && t.data == "@" && i+3 < len(in) &&
			in[i+1].tt == css.LeftBraceToken && in[i+2].tt == css.IdentToken && in[i+3].tt == css.RightBraceToken:
			t = token{tt: interpToken, data: in[i+2].data}
			i += 3
		case t.tt == css.DelimToken && t.data == "~" && i+1 < len(in) && in[i+1].tt == css.StringToken:
			t = token{tt: escapeToken, data: unquote(in[i+1].data)}
			i++
		}
		out = append(out, t)
	}
	return out
}

// stripLineComments removes "//" comments, leaving strings, block comments
// and unquoted urls alone.
func stripLineComments(src string) string {
	if !strings.Contains(src, "//") {
		return src
	}

	var (
		sb    strings.Builder
		quote byte
		inURL bool
	)
	sb.Grow(len(src))
	for i := 0; i < len(src); i++ {
		c := src[i]
		switch {
		case quote != 0:
			if c == '\\' && i+1 < len(src) {
				sb.WriteByte(c)
				i++
				c = src[i]
			} else if c == quote || c == '\n' {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case inURL:
			if c == ')' {
				inURL = false
			}
		case c == '(' && i >= 3 && strings.EqualFold(src[i-3:i], "url"):
			inURL = true
		case c == '/' && i+1 < len(src) && src[i+1] == '*':
			end := strings.Index(src[i+2:], "*/")
			if end < 0 {
				sb.WriteString(src[i:])
				return sb.String()
			}
			sb.WriteString(src[i : i+end+4])
			i += end + 3
			continue
		case c == '/' && i+1 < len(src) && src[i+1] == '/':
			end := strings.IndexByte(src[i:], '\n')
			if end < 0 {
				return sb.String()
			}
			i += end - 1
			continue
		}
		sb.WriteByte(c)
	}
	return sb.String()
}

type blockParser struct {
	toks []token
	pos  int
}

func parseSource(src string) ([]*node, error) {
	toks, err := tokenize(src)
	if err != nil {
		return nil, err
	}
	p := &blockParser{toks: toks}
	return p.block(false)
}

func (p *blockParser) block(nested bool) ([]*node, error) {
	var (
		nodes []*node
		cur   []token
		depth int
	)
	flush := func() error {
		n, err := statement(cur)
		cur = nil
		if err != nil {
			return err
		}
		if n != nil {
			nodes = append(nodes, n)
		}
		return nil
	}

	for p.pos < len(p.toks) {
		t := p.toks[p.pos]
		p.pos++

		switch {
		case t.tt == css.LeftParenthesisToken || t.tt == css.FunctionToken || t.tt == css.LeftBracketToken:
			depth++
		case (t.tt == css.RightParenthesisToken || t.tt == css.RightBracketToken) && depth > 0:
			depth--
		case depth > 0:
		case t.tt == css.SemicolonToken:
			if err := flush(); err != nil {
				return nil, err
			}
			continue
		case t.tt == css.LeftBraceToken:
			children, err := p.block(true)
			if err != nil {
				return nil, err
			}
			n, err := blockStatement(cur, children)
			cur = nil
			if err != nil {
				return nil, err
			}
			if n != nil {
				nodes = append(nodes, n)
			}
			continue
		case t.tt == css.RightBraceToken:
			if !nested {
				return nil, errors.New("unexpected '}'")
			}
			if err := flush(); err != nil {
				return nil, err
			}
			return nodes, nil
		}
		cur = append(cur, t)
	}

	if nested {
		return nil, errors.New("missing '}'")
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return nodes, nil
}

func statement(cur []token) (*node, error) {
	toks := trim(cur)
	if len(toks) == 0 {
		return nil, nil
	}

	first := toks[0]
	switch {
	case first.tt == css.AtKeywordToken:
		rest := trim(toks[1:])
		if strings.EqualFold(first.data, "@import") {
			return &node{kind: importNode, name: "@import", head: rest}, nil
		}
		if len(rest) > 0 && rest[0].tt == css.ColonToken {
			return &node{kind: varNode, name: first.data, value: trim(rest[1:])}, nil
		}
		return &node{kind: atRuleNode, name: strings.ToLower(first.data), head: rest}, nil
	case first.tt == css.HashToken, first.tt == css.DelimToken && first.data == ".":
		return &node{kind: mixinCallNode, head: toks}, nil
	}

	for i, t := range toks {
		if t.tt == css.ColonToken {
			return &node{kind: declNode, head: trim(toks[:i]), value: trim(toks[i+1:])}, nil
		}
	}
	return nil, fmt.Errorf("unrecognized statement %q", text(toks))
}

func blockStatement(cur []token, children []*node) (*node, error) {
	toks := trim(cur)
	if len(toks) == 0 {
		return nil, errors.New("block without selector")
	}

	if first := toks[0]; first.tt == css.AtKeywordToken {
		rest := trim(toks[1:])
		if len(rest) > 0 && rest[0].tt == css.ColonToken {
			return nil, fmt.Errorf("%w: detached ruleset %s", ErrUnsupported, first.data)
		}
		return &node{kind: atBlockNode, name: strings.ToLower(first.data), head: rest, children: children}, nil
	}
	if isMixinDefinition(toks) {
		return &node{kind: mixinDefNode, head: toks}, nil
	}
	for _, t := range toks {
		if t.tt == css.IdentToken && t.data == "when" {
			return nil, fmt.Errorf("%w: guard %q", ErrUnsupported, text(toks))
		}
	}
	return &node{kind: rulesetNode, head: toks, children: children}, nil
}

// isMixinDefinition recognizes ".name(" and "#name(" selectors. Such
// rulesets are never output.
func isMixinDefinition(toks []token) bool {
	if len(toks) < 2 {
		return false
	}
	i := 1
	switch {
	case toks[0].tt == css.HashToken:
	case toks[0].tt == css.DelimToken && toks[0].data == ".":
		if toks[1].tt == css.FunctionToken {
			return true
		}
		if toks[1].tt != css.IdentToken {
			return false
		}
		i = 2
	default:
		return false
	}
	for i < len(toks) && toks[i].tt == css.WhitespaceToken {
		i++
	}
	return i < len(toks) && toks[i].tt == css.LeftParenthesisToken
}

func trim(toks []token) []token {
	for len(toks) > 0 && toks[0].tt == css.WhitespaceToken {
		toks = toks[1:]
	}
	for len(toks) > 0 && toks[len(toks)-1].tt == css.WhitespaceToken {
		toks = toks[:len(toks)-1]
	}
	return toks
}

// text returns tokens as written, whitespace collapsed.
func text(toks []token) string {
	var sb strings.Builder
	for _, t := range toks {
		switch t.tt {
		case css.WhitespaceToken:
			sb.WriteByte(' ')
		case interpToken:
			sb.WriteString("@{" + t.data + "}")
		case escapeToken:
			sb.WriteString(`~"` + t.data + `"`)
		default:
			sb.WriteString(t.data)
		}
	}
	return sb.String()
}

func unquote(s string) string {
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	return s
}
