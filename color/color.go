// Package color normalizes colour literals found in stylesheets into
// canonical hexadecimal form.
package color

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// ErrUnsupportedFormat is returned when input does not match any of supported
// colour notations.
var ErrUnsupportedFormat = errors.New("unsupported color format")

// Canonical is a colour in "#rrggbb" or "#rrggbbaa" form, always lower case.
type Canonical string

// String implements fmt.Stringer.
func (c Canonical) String() string {
	return string(c)
}

// HasAlpha reports whether colour carries alpha channel.
func (c Canonical) HasAlpha() bool {
	return len(c) == 9
}

// Opaque returns colour without alpha channel.
func (c Canonical) Opaque() Canonical {
	if c.HasAlpha() {
		return c[:7]
	}
	return c
}

var (
	reRGB  = regexp.MustCompile(`^rgb\(\s*(\d+)\s*,\s*(\d+)\s*,\s*(\d+)\s*\)$`)
	reRGBA = regexp.MustCompile(`^rgba\(\s*(\d+)\s*,\s*(\d+)\s*,\s*(\d+)\s*,\s*([\d.]+)\s*\)$`)
	reHSL  = regexp.MustCompile(`^hsl\(\s*([\d.]+)\s*,\s*([\d.]+)%\s*,\s*([\d.]+)%\s*\)$`)
	reHSLA = regexp.MustCompile(`^hsla\(\s*([\d.]+)\s*,\s*([\d.]+)%\s*,\s*([\d.]+)%\s*,\s*([\d.]+)\s*\)$`)
)

// Parse converts string colour literal (hex, rgb, rgba, hsl or hsla) into
// canonical form.
func Parse(s string) (Canonical, error) {
	in := strings.ToLower(strings.TrimSpace(s))

	if strings.HasPrefix(in, "#") {
		return parseHex(in)
	}
	if m := reRGB.FindStringSubmatch(in); m != nil {
		c, err := atofs(m[1:])
		if err != nil {
			return "", err
		}
		return FromComponents(c...)
	}
	if m := reRGBA.FindStringSubmatch(in); m != nil {
		c, err := atofs(m[1:])
		if err != nil {
			return "", err
		}
		return FromComponents(c...)
	}
	if m := reHSL.FindStringSubmatch(in); m != nil {
		c, err := atofs(m[1:])
		if err != nil {
			return "", err
		}
		r, g, b := hslToRGB(c[0], c[1]/100, c[2]/100)
		return FromComponents(r, g, b)
	}
	if m := reHSLA.FindStringSubmatch(in); m != nil {
		c, err := atofs(m[1:])
		if err != nil {
			return "", err
		}
		r, g, b := hslToRGB(c[0], c[1]/100, c[2]/100)
		return FromComponents(r, g, b, c[3])
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

// FromComponents converts numeric sequence of 3 (r, g, b in 0-255) or 4
// (alpha in 0-1) elements into canonical form.
func FromComponents(c ...float64) (Canonical, error) {
	if len(c) != 3 && len(c) != 4 {
		return "", fmt.Errorf("%w: %d components", ErrUnsupportedFormat, len(c))
	}
	for _, v := range c {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return "", fmt.Errorf("%w: %v", ErrUnsupportedFormat, c)
		}
	}

	var sb strings.Builder
	sb.Grow(9)
	sb.WriteByte('#')
	for _, v := range c[:3] {
		writeByte(&sb, v)
	}
	if len(c) == 4 {
		writeByte(&sb, c[3]*255)
	}
	return Canonical(sb.String()), nil
}

// Normalize accepts any supported colour literal representation: string or
// numeric sequence.
func Normalize(v any) (Canonical, error) {
	switch c := v.(type) {
	case Canonical:
		return Parse(string(c))
	case string:
		return Parse(c)
	case []float64:
		return FromComponents(c...)
	case []int:
		f := make([]float64, len(c))
		for i := range c {
			f[i] = float64(c[i])
		}
		return FromComponents(f...)
	case []uint8:
		f := make([]float64, len(c))
		for i := range c {
			f[i] = float64(c[i])
		}
		return FromComponents(f...)
	case []any:
		// this is what yaml and json decoders produce
		f := make([]float64, len(c))
		for i := range c {
			switch n := c[i].(type) {
			case int:
				f[i] = float64(n)
			case float64:
				f[i] = n
			default:
				return "", fmt.Errorf("%w: %v", ErrUnsupportedFormat, v)
			}
		}
		return FromComponents(f...)
	}
	return "", fmt.Errorf("%w: %v", ErrUnsupportedFormat, v)
}

// MustParse is like Parse but panics on error. Intended for constants.
func MustParse(s string) Canonical {
	c, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return c
}

func parseHex(in string) (Canonical, error) {
	digits := in[1:]
	for i := 0; i < len(digits); i++ {
		if !isHexDigit(digits[i]) {
			return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, in)
		}
	}
	switch len(digits) {
	case 3, 4:
		// shorthand, expand every digit
		var sb strings.Builder
		sb.WriteByte('#')
		for i := 0; i < len(digits); i++ {
			sb.WriteByte(digits[i])
			sb.WriteByte(digits[i])
		}
		return Canonical(sb.String()), nil
	case 6, 8:
		return Canonical(in), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, in)
}

// hslToRGB expects hue in degrees, saturation and lightness in 0-1 range.
func hslToRGB(h, s, l float64) (float64, float64, float64) {
	k := func(n float64) float64 {
		return math.Mod(n+h/30, 12)
	}
	a := s * min(l, 1-l)
	f := func(n float64) float64 {
		return l - a*max(-1, min(k(n)-3, 9-k(n), 1))
	}
	return 255 * f(0), 255 * f(8), 255 * f(4)
}

func writeByte(sb *strings.Builder, v float64) {
	n := int(math.Round(v))
	n = max(0, min(n, 255))
	const hex = "0123456789abcdef"
	sb.WriteByte(hex[n>>4])
	sb.WriteByte(hex[n&0x0f])
}

// atofs converts captured numeric groups, rejecting malformed ones such as
// "1.2.3" which the patterns above let through.
func atofs(in []string) ([]float64, error) {
	out := make([]float64, len(in))
	for i, s := range in {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
		}
		out[i] = v
	}
	return out, nil
}

func isHexDigit(c byte) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}
