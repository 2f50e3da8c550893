package less

import (
	"errors"
	"fmt"
	"strings"
)

// Sigil starts every LESS variable name.
const Sigil = '@'

// ErrMalformedDeclaration is returned for lines which are not variable
// declarations.
var ErrMalformedDeclaration = errors.New("malformed variable declaration")

// Declaration is a single variable declaration: "@name: value;".
type Declaration struct {
	Name  string // including sigil
	Value string // raw value, trimmed
	Line  int    // 1 based line number in source, 0 if unknown
}

// IsReference reports whether declaration value refers to another variable.
func (d Declaration) IsReference() bool {
	return IsReference(d.Value)
}

// IsReference reports whether value is a variable reference.
func IsReference(value string) bool {
	return len(value) > 1 && value[0] == Sigil
}

// ScanDeclaration tokenizes single line of LESS source. Anything after
// statement terminator is ignored.
func ScanDeclaration(line string) (Declaration, error) {
	var d Declaration

	i := 0
	if i >= len(line) || line[i] != Sigil {
		return d, fmt.Errorf("%w: no variable sigil", ErrMalformedDeclaration)
	}
	i++
	start := i
	for i < len(line) && isNameByte(line[i]) {
		i++
	}
	if i == start {
		return d, fmt.Errorf("%w: empty variable name", ErrMalformedDeclaration)
	}
	d.Name = line[:i]

	i = skipBlanks(line, i)
	if i >= len(line) || line[i] != ':' {
		return d, fmt.Errorf("%w: expected ':' after %s", ErrMalformedDeclaration, d.Name)
	}
	i = skipBlanks(line, i+1)

	end, ok := findTerminator(line, i)
	if !ok {
		return d, fmt.Errorf("%w: %s is not terminated", ErrMalformedDeclaration, d.Name)
	}
	d.Value = strings.TrimSpace(line[i:end])
	if len(d.Value) == 0 {
		return d, fmt.Errorf("%w: %s has no value", ErrMalformedDeclaration, d.Name)
	}
	return d, nil
}

// findTerminator returns position of ';' which is not inside quotes or
// parentheses.
func findTerminator(s string, from int) (int, bool) {
	var (
		quote byte
		depth int
	)
	for i := from; i < len(s); i++ {
		c := s[i]
		switch {
		case quote != 0:
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '(':
			depth++
		case c == ')':
			if depth > 0 {
				depth--
			}
		case c == ';' && depth == 0:
			return i, true
		}
	}
	return 0, false
}

func skipBlanks(s string, i int) int {
	for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
		i++
	}
	return i
}

func isNameByte(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9') ||
		c == '-' || c == '_' || c == '\''
}
