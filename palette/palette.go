// Package palette derives tonal colour ramps from a single seed colour.
package palette

import (
	"fmt"
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"

	"themec/color"
)

// Size is the number of colours in generated palette.
const Size = 10

var tones = [...]float64{0, 10, 20, 30, 40, 50, 60, 70, 80, 90, 95, 98, 100}

// Tones returns lightness stops of the tonal scheme, dark to light. Result
// is a copy and may be modified freely.
func Tones() [len(tones)]float64 {
	return tones
}

// Palette is a tonal ramp ordered from the lightest to the darkest stop.
type Palette [Size]color.Canonical

// Strings returns palette colours as plain strings.
func (p Palette) Strings() []string {
	out := make([]string, len(p))
	for i, c := range p {
		out[i] = string(c)
	}
	return out
}

// Base is a set of harmonically related colours derived from seed.
type Base struct {
	Primary   colorful.Color
	Secondary colorful.Color
	Accent    colorful.Color
	Neutral   colorful.Color
	Error     colorful.Color
}

var errorBase = colorful.Color{R: 0xb7 / 255.0, G: 0x1f / 255.0, B: 0x1c / 255.0}

// Harmony derives base colours from seed: secondary is analogous, accent is
// complementary and neutral is seed with almost no saturation.
func Harmony(seed color.Canonical) (Base, error) {
	c, err := colorful.Hex(string(seed.Opaque()))
	if err != nil {
		return Base{}, fmt.Errorf("unable to use %q as palette seed: %w", seed, err)
	}
	h, s, l := c.Hsl()
	return Base{
		Primary:   c,
		Secondary: colorful.Hsl(rotate(h, 30), s, l),
		Accent:    colorful.Hsl(rotate(h, 180), s, l),
		Neutral:   colorful.Hsl(h, s*0.08, l),
		Error:     errorBase,
	}, nil
}

// Scheme maps colour roles to tones.
type Scheme struct {
	base Base
}

// NewScheme creates tonal scheme over base colours.
func NewScheme(base Base) Scheme {
	return Scheme{base: base}
}

// Primary returns primary colour at given tone (0 - black, 100 - white)
// keeping primary hue and saturation.
func (s Scheme) Primary(tone float64) color.Canonical {
	return project(s.base.Primary, tone)
}

// Secondary returns secondary colour at given tone.
func (s Scheme) Secondary(tone float64) color.Canonical {
	return project(s.base.Secondary, tone)
}

// Accent returns accent colour at given tone.
func (s Scheme) Accent(tone float64) color.Canonical {
	return project(s.base.Accent, tone)
}

// Neutral returns neutral colour at given tone.
func (s Scheme) Neutral(tone float64) color.Canonical {
	return project(s.base.Neutral, tone)
}

// Generate returns 10 stop palette for seed colour, lightest first.
func Generate(seed color.Canonical) (Palette, error) {
	base, err := Harmony(seed)
	if err != nil {
		return Palette{}, err
	}
	scheme := NewScheme(base)

	stops := Tones()
	for i, j := 0, len(stops)-1; i < j; i, j = i+1, j-1 {
		stops[i], stops[j] = stops[j], stops[i]
	}

	ramp := make([]color.Canonical, 0, len(stops))
	for _, tone := range stops {
		ramp = append(ramp, scheme.Primary(tone))
	}

	var p Palette
	// drop two lightest stops and black
	copy(p[:], ramp[2:2+Size])
	return p, nil
}

// GenerateFrom normalizes colour literal and generates palette for it.
func GenerateFrom(literal any) (Palette, error) {
	seed, err := color.Normalize(literal)
	if err != nil {
		return Palette{}, err
	}
	return Generate(seed)
}

func project(c colorful.Color, tone float64) color.Canonical {
	h, s, _ := c.Hsl()
	return color.Canonical(colorful.Hsl(h, s, tone/100).Clamped().Hex())
}

func rotate(h, deg float64) float64 {
	return math.Mod(h+deg, 360)
}
