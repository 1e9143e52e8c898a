package color

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHex(t *testing.T) {
	tests := []struct {
		in      string
		want    RGB
		wantErr bool
	}{
		{"181717", RGB{0x18, 0x17, 0x17}, false},
		{"#3776AB", RGB{0x37, 0x76, 0xab}, false},
		{"ffffff", RGB{255, 255, 255}, false},
		{"fff", RGB{}, true},
		{"zzzzzz", RGB{}, true},
		{"", RGB{}, true},
	}
	for _, tt := range tests {
		got, err := ParseHex(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestHexRoundTrip(t *testing.T) {
	assert.Equal(t, "3776AB", RGB{0x37, 0x76, 0xab}.Hex())
}

func TestLuminance(t *testing.T) {
	assert.Equal(t, 0.0, Luminance(0, 0, 0))
	assert.InDelta(t, math.Sqrt(255), Luminance(255, 255, 255), 1e-9)
	assert.InDelta(t, math.Sqrt(0.241*255), Luminance(255, 0, 0), 1e-12)
	assert.Greater(t, Luminance(0, 255, 0), Luminance(255, 0, 0))
	assert.Greater(t, Luminance(255, 0, 0), Luminance(0, 0, 255))
}

func TestHSV(t *testing.T) {
	tests := []struct {
		r, g, b int
		h, s, v float64
	}{
		{255, 0, 0, 0, 1, 1},
		{0, 255, 0, 1.0 / 3, 1, 1},
		{0, 0, 255, 2.0 / 3, 1, 1},
		{0, 0, 0, 0, 0, 0},
		{255, 255, 255, 0, 0, 1},
		{128, 128, 128, 0, 0, 128.0 / 255},
	}
	for _, tt := range tests {
		h, s, v := HSV(tt.r, tt.g, tt.b)
		assert.InDelta(t, tt.h, h, 1e-9, "hue of %d,%d,%d", tt.r, tt.g, tt.b)
		assert.InDelta(t, tt.s, s, 1e-9, "saturation of %d,%d,%d", tt.r, tt.g, tt.b)
		assert.InDelta(t, tt.v, v, 1e-9, "value of %d,%d,%d", tt.r, tt.g, tt.b)
	}
}

func TestStepBuckets(t *testing.T) {
	red := Step(255, 0, 0, 8, 0, false)
	green := Step(0, 255, 0, 8, 0, false)
	blue := Step(0, 0, 255, 8, 0, false)

	assert.Equal(t, 0, red.Hue)
	assert.Equal(t, 2, green.Hue)
	assert.Equal(t, 5, blue.Hue)
	for _, k := range []StepKey{red, green, blue} {
		assert.Equal(t, 8, k.Value)
	}
}

func TestStepInvertMirrorsOddBands(t *testing.T) {
	for _, c := range []RGB{{255, 0, 0}, {0, 255, 0}, {0, 0, 255}, {200, 180, 20}, {20, 120, 200}} {
		plain := Step(c[0], c[1], c[2], 8, 0, false)
		inverted := Step(c[0], c[1], c[2], 8, 0, true)
		require.Equal(t, plain.Hue, inverted.Hue)
		if plain.Hue%2 == 1 {
			assert.Equal(t, 8-plain.Value, inverted.Value, "colour %v", c)
			assert.InDelta(t, 8-plain.Lum, inverted.Lum, 1e-12, "colour %v", c)
		} else {
			assert.Equal(t, plain, inverted, "colour %v", c)
		}
	}
}

func TestStepHueRotationUses255Divisor(t *testing.T) {
	// Red sits at hue 0; rotating by 255 "degrees" is a full turn.
	assert.Equal(t, Step(255, 0, 0, 8, 0, false), Step(255, 0, 0, 8, 255, false))

	// 64/255 of a turn moves red into the third of eight bands.
	assert.Equal(t, 2, Step(255, 0, 0, 8, 64, false).Hue)

	// Negative rotations wrap around.
	assert.Equal(t, 7, Step(255, 0, 0, 8, -1, false).Hue)
}

func TestStepKeyLess(t *testing.T) {
	a := StepKey{Hue: 0, Lum: 3, Value: 1}
	b := StepKey{Hue: 1, Lum: 1, Value: 0}
	c := StepKey{Hue: 1, Lum: 2, Value: 0}
	d := StepKey{Hue: 1, Lum: 2, Value: 1}

	assert.True(t, a.Less(b))
	assert.True(t, b.Less(c))
	assert.True(t, c.Less(d))
	assert.False(t, d.Less(c))
	assert.False(t, d.Less(d))
}

func TestContrast(t *testing.T) {
	assert.Equal(t, "white", Contrast(0x18, 0x17, 0x17))
	assert.Equal(t, "white", Contrast(0x37, 0x76, 0xab))
	assert.Equal(t, "black", Contrast(0xf7, 0xdf, 0x1e))
	assert.Equal(t, "black", Contrast(255, 255, 255))
	assert.Equal(t, "white", Contrast(0, 0, 0))
}
