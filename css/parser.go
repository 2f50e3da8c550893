package css

import (
	"bytes"
	"errors"
	"io"
	"strings"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
	"go.uber.org/zap"
)

// Parser reads compiled stylesheets keeping plain rulesets only.
type Parser struct {
	log *zap.Logger
}

// NewParser creates a new CSS parser.
func NewParser(log *zap.Logger) *Parser {
	if log == nil {
		log = zap.NewNop()
	}
	return &Parser{log: log.Named("css-parser")}
}

// Reduce removes every at-rule (with its block) and every comment from
// stylesheet.
func Reduce(log *zap.Logger, data []byte) []byte {
	return NewParser(log).Parse(data, "reduce").Bytes()
}

// Parse parses CSS text into a Stylesheet.
// The optional source parameter identifies what's being parsed (for debug logging).
func (p *Parser) Parse(data []byte, source ...string) *Stylesheet {
	sheet := &Stylesheet{}

	log := p.log
	if len(source) > 0 && source[0] != "" {
		log = log.With(zap.String("source", source[0]))
	}
	log.Debug("Parsing CSS", zap.Int("bytes", len(data)))

	parser := css.NewParser(parse.NewInput(bytes.NewReader(data)), false)

	var (
		current  *Rule
		depth    int // nesting of at-rule blocks being skipped
		errorPos = -1
	)
	for {
		gt, _, data := parser.Next()

		switch gt {
		case css.ErrorGrammar:
			err := parser.Err()
			if err == nil || errors.Is(err, io.EOF) {
				log.Debug("Parsed CSS", zap.Int("rules", len(sheet.Rules)), zap.Strings("removed", sheet.AtRules), zap.Int("comments", sheet.Comments))
				return sheet
			}
			sheet.Warnings = append(sheet.Warnings, err.Error())
			log.Debug("CSS parse error", zap.Error(err))
			// no progress, give up
			pos := parser.Offset()
			if pos == errorPos {
				return sheet
			}
			errorPos = pos

		case css.CommentGrammar:
			sheet.Comments++

		case css.AtRuleGrammar:
			if depth == 0 {
				sheet.AtRules = append(sheet.AtRules, string(data))
			}

		case css.BeginAtRuleGrammar:
			if depth == 0 {
				sheet.AtRules = append(sheet.AtRules, string(data))
			}
			depth++

		case css.EndAtRuleGrammar:
			depth--

		case css.BeginRulesetGrammar:
			if depth == 0 {
				current = &Rule{Selector: tokensString(parser.Values())}
			}

		case css.DeclarationGrammar, css.CustomPropertyGrammar:
			if depth == 0 && current != nil {
				current.Declarations = append(current.Declarations, Declaration{
					Property: string(data),
					Value:    strings.TrimSpace(tokensString(parser.Values())),
				})
			}

		case css.EndRulesetGrammar:
			if depth == 0 && current != nil {
				if len(current.Declarations) > 0 {
					sheet.Rules = append(sheet.Rules, *current)
				}
				current = nil
			}
		}
	}
}

func tokensString(tokens []css.Token) string {
	var sb strings.Builder
	for _, t := range tokens {
		sb.Write(t.Data)
	}
	return sb.String()
}
