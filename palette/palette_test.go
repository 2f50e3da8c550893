package palette

import (
	"errors"
	"sync"
	"testing"

	"themec/color"
)

func TestGenerate_Length(t *testing.T) {
	for _, seed := range []color.Canonical{"#0052d9", "#000000", "#ffffff", "#e34d59", "#00a870", "#ed7b2f80"} {
		p, err := Generate(seed)
		if err != nil {
			t.Fatalf("Generate(%q) error = %v", seed, err)
		}
		if len(p) != Size {
			t.Fatalf("Generate(%q) len = %d", seed, len(p))
		}
		for i, c := range p {
			if _, err := color.Parse(string(c)); err != nil {
				t.Errorf("Generate(%q)[%d] = %q is not canonical: %v", seed, i, c, err)
			}
		}
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	first, err := Generate("#0052d9")
	if err != nil {
		t.Fatal(err)
	}
	// repeated calls must not see shared tone list reversed by previous calls
	for range 5 {
		next, err := Generate("#0052d9")
		if err != nil {
			t.Fatal(err)
		}
		if next != first {
			t.Fatalf("Generate is not deterministic: %v != %v", next, first)
		}
	}
	if got := Tones(); got[0] != 0 || got[len(got)-1] != 100 {
		t.Errorf("Tones modified: %v", got)
	}
}

func TestTones_ReturnsCopy(t *testing.T) {
	want, err := Generate("#00a870")
	if err != nil {
		t.Fatal(err)
	}

	stops := Tones()
	for i := range stops {
		stops[i] = 50
	}

	got, err := Generate("#00a870")
	if err != nil {
		t.Fatal(err)
	}
	if got != want {
		t.Errorf("Generate after modifying Tones() result = %v, want %v", got, want)
	}
	if fresh := Tones(); fresh[0] != 0 || fresh[12] != 100 {
		t.Errorf("Tones() = %v, want untouched stops", fresh)
	}
}

func TestGenerate_Concurrent(t *testing.T) {
	want, err := Generate("#e34d59")
	if err != nil {
		t.Fatal(err)
	}
	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for range 16 {
		wg.Go(func() {
			got, err := Generate("#e34d59")
			if err != nil {
				errs <- err
				return
			}
			if got != want {
				errs <- errors.New("palette differs")
			}
		})
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}

func TestGenerate_LightToDark(t *testing.T) {
	p, err := Generate("#0052d9")
	if err != nil {
		t.Fatal(err)
	}
	// the lightest stop used is tone 95, the darkest is tone 10
	if p[0] == "#ffffff" || p[Size-1] == "#000000" {
		t.Errorf("palette includes extreme stops: %v", p)
	}
	prev := 2.0
	for i, c := range p {
		l := lightness(t, c)
		if l > prev {
			t.Errorf("stop %d (%s) is lighter than previous", i, c)
		}
		prev = l
	}
}

func TestGenerate_MiddleStopKeepsHue(t *testing.T) {
	p, err := Generate("#ff0000")
	if err != nil {
		t.Fatal(err)
	}
	// tone 50 of pure red is pure red
	if p[5] != "#ff0000" {
		t.Errorf("p[5] = %q, want #ff0000", p[5])
	}
}

func TestGenerateFrom(t *testing.T) {
	p, err := GenerateFrom("rgb(0, 82, 217)")
	if err != nil {
		t.Fatal(err)
	}
	q, err := GenerateFrom([]int{0, 82, 217})
	if err != nil {
		t.Fatal(err)
	}
	if p != q {
		t.Errorf("palettes for the same colour differ: %v vs %v", p, q)
	}

	if _, err := GenerateFrom("var(--brand)"); !errors.Is(err, color.ErrUnsupportedFormat) {
		t.Errorf("GenerateFrom(var) error = %v", err)
	}
}

func TestHarmony(t *testing.T) {
	base, err := Harmony("#0052d9")
	if err != nil {
		t.Fatal(err)
	}
	if base.Primary.Hex() != "#0052d9" {
		t.Errorf("Primary = %s", base.Primary.Hex())
	}
	h, _, _ := base.Primary.Hsl()
	ah, _, _ := base.Accent.Hsl()
	diff := ah - h
	if diff < 0 {
		diff += 360
	}
	if diff < 179 || diff > 181 {
		t.Errorf("accent hue offset = %f, want 180", diff)
	}

	s := NewScheme(base)
	if s.Neutral(50) == s.Primary(50) {
		t.Error("neutral role equals primary")
	}
	if s.Secondary(100) != "#ffffff" || s.Accent(0) != "#000000" {
		t.Errorf("extreme tones: %s %s", s.Secondary(100), s.Accent(0))
	}
}

func lightness(t *testing.T, c color.Canonical) float64 {
	t.Helper()
	base, err := Harmony(c)
	if err != nil {
		t.Fatal(err)
	}
	_, _, l := base.Primary.Hsl()
	return l
}
