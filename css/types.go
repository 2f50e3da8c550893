package css

import (
	"fmt"
	"io"
	"strings"
)

// Declaration is a single "property: value" pair, custom properties
// included.
type Declaration struct {
	Property string
	Value    string
}

// Rule is a top level ruleset with declarations in source order.
type Rule struct {
	Selector     string
	Declarations []Declaration
}

// GetProperty returns value of the last declaration of property.
func (r Rule) GetProperty(name string) (string, bool) {
	for i := len(r.Declarations) - 1; i >= 0; i-- {
		if r.Declarations[i].Property == name {
			return r.Declarations[i].Value, true
		}
	}
	return "", false
}

// Stylesheet is what remains of the source after at-rules and comments have
// been removed.
type Stylesheet struct {
	Rules []Rule
	// AtRules lists names of removed top level at-rules, in source order.
	AtRules []string
	// Comments counts removed top level comments.
	Comments int
	Warnings []string
}

// RulesBySelector returns all rules with the given selector.
func (s *Stylesheet) RulesBySelector(selector string) []Rule {
	var result []Rule
	for _, r := range s.Rules {
		if r.Selector == selector {
			result = append(result, r)
		}
	}
	return result
}

// WriteTo writes the stylesheet to w in source order, implementing io.WriterTo.
func (s *Stylesheet) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for i := range s.Rules {
		n, err := writeRule(w, &s.Rules[i])
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// String returns the CSS text of the stylesheet.
func (s *Stylesheet) String() string {
	var sb strings.Builder
	s.WriteTo(&sb) //nolint:errcheck
	return sb.String()
}

// Bytes returns the CSS text of the stylesheet.
func (s *Stylesheet) Bytes() []byte {
	return []byte(s.String())
}

// writeRule writes a single CSS rule to w.
func writeRule(w io.Writer, rule *Rule) (int, error) {
	var total int
	n, err := fmt.Fprintf(w, "%s {\n", rule.Selector)
	total += n
	if err != nil {
		return total, err
	}
	for _, d := range rule.Declarations {
		n, err = fmt.Fprintf(w, "  %s: %s;\n", d.Property, d.Value)
		total += n
		if err != nil {
			return total, err
		}
	}
	n, err = fmt.Fprint(w, "}\n")
	total += n
	return total, err
}
