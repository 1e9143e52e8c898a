// Package color computes the scalar and vector keys used to order badges by
// their brand colour.
package color

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// RGB is an 8-bit colour triple.
type RGB [3]int

// ParseHex parses a six digit hex colour with or without a leading '#'.
func ParseHex(hex string) (RGB, error) {
	h := strings.TrimPrefix(hex, "#")
	if len(h) != 6 {
		return RGB{}, fmt.Errorf("invalid hex colour %q", hex)
	}
	n, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return RGB{}, fmt.Errorf("invalid hex colour %q: %w", hex, err)
	}
	return RGB{int(n >> 16 & 0xff), int(n >> 8 & 0xff), int(n & 0xff)}, nil
}

// Hex returns the colour as six upper-case hex digits.
func (c RGB) Hex() string {
	return fmt.Sprintf("%02X%02X%02X", c[0], c[1], c[2])
}

// Luminance approximates perceived brightness from raw channel values.
// The weights are applied without gamma correction.
func Luminance(r, g, b int) float64 {
	return math.Sqrt(0.241*float64(r) + 0.691*float64(g) + 0.068*float64(b))
}

// HSV converts an RGB triple to hue, saturation and value, each in [0, 1].
// Hue is expressed as a fraction of a full turn.
func HSV(r, g, b int) (h, s, v float64) {
	c := colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
	deg, s, v := c.Hsv()
	return deg / 360, s, v
}

// StepKey orders colours into hue bands of ascending (or alternating) value.
type StepKey struct {
	Hue   int
	Lum   float64
	Value int
}

// Less compares keys lexicographically by Hue, Lum, then Value.
func (k StepKey) Less(o StepKey) bool {
	if k.Hue != o.Hue {
		return k.Hue < o.Hue
	}
	if k.Lum != o.Lum {
		return k.Lum < o.Lum
	}
	return k.Value < o.Value
}

// Step quantises hue and value into repetitions buckets after rotating the
// hue by hueRotation/255 of a turn. With invert set, odd hue bands have their
// value bucket and luminance mirrored so that brightness zig-zags from one
// band to the next.
func Step(r, g, b, repetitions, hueRotation int, invert bool) StepKey {
	lum := Luminance(r, g, b)
	h, _, v := HSV(r, g, b)

	h = math.Mod(h+float64(hueRotation)/255, 1)
	if h < 0 {
		h++
	}

	key := StepKey{
		Hue:   int(h * float64(repetitions)),
		Lum:   lum,
		Value: int(v * float64(repetitions)),
	}
	if invert && key.Hue%2 == 1 {
		key.Value = repetitions - key.Value
		key.Lum = float64(repetitions) - key.Lum
	}
	return key
}

// Contrast picks the foreground colour name that reads best on top of the
// given background.
func Contrast(r, g, b int) string {
	brightness := float64(r*299+g*587+b*114) / 255000
	if brightness <= 0.7 {
		return "white"
	}
	return "black"
}
