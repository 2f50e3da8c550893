package color

import (
	"regexp"
	"strings"
)

var reFunctional = regexp.MustCompile(`(?i)^(rgb|hsl|hsv)a?\((\d+%?(deg|rad|grad|turn)?[,\s]+){2,3}[\s/]*[\d.]+%?\)$`)

// IsValid reports whether value looks like something usable as a colour in
// LESS variable: hex literal, functional notation or css var() reference.
// Lengths (e.g. "20px") are rejected. This is intentionally wider than Parse -
// css var() references are passed through to the browser.
func IsValid(value string) bool {
	switch {
	case strings.Contains(value, "rgb"):
		return true
	case value == "" || strings.Contains(value, "px"):
		return false
	case strings.Contains(value, "var"):
		return true
	case strings.HasPrefix(value, "#"):
		digits := value[1:]
		switch len(digits) {
		case 3, 4, 6, 8:
		default:
			return false
		}
		for i := 0; i < len(digits); i++ {
			if !isHexDigit(digits[i]) {
				return false
			}
		}
		return true
	}
	return reFunctional.MatchString(value)
}
