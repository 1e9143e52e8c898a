package badge

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseProvider(t *testing.T) {
	p, err := ParseProvider("Shields")
	require.NoError(t, err)
	assert.Equal(t, Shields, p)
	assert.True(t, p.NativeLogos())

	p, err = ParseProvider("badgen")
	require.NoError(t, err)
	assert.Equal(t, Badgen, p)
	assert.False(t, p.NativeLogos())

	_, err = ParseProvider("flat.badgen")
	assert.Error(t, err)
}

func TestEscapeAll(t *testing.T) {
	assert.Equal(t, "abc-_.~", escapeAll("abc-_.~"))
	assert.Equal(t, "data%3Aimage%2Fsvg%2Bxml%3Bbase64%2CAB%3D%3D", escapeAll("data:image/svg+xml;base64,AB=="))
	assert.Equal(t, "C%2B%2B", escapeAll("C++"))
	assert.Equal(t, "Citro%C3%ABn", escapeAll("Citroën"))
}

func TestShieldsLabel(t *testing.T) {
	assert.Equal(t, "Let%27s--Encrypt", shieldsLabel("Let's-Encrypt"))
	assert.Equal(t, "GitHub%20Actions", shieldsLabel("GitHub Actions"))
}

func TestForEach(t *testing.T) {
	results := make([]int, 50)
	err := forEach(len(results), 8, func(i int) error {
		results[i] = i * i
		return nil
	})
	require.NoError(t, err)
	for i, r := range results {
		assert.Equal(t, i*i, r)
	}

	boom := errors.New("boom")
	err = forEach(10, 2, func(i int) error {
		if i == 3 {
			return boom
		}
		return nil
	})
	assert.True(t, errors.Is(err, boom))

	assert.NoError(t, forEach(0, 0, func(int) error { return boom }))
}
