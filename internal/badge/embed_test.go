package badge

import (
	"bytes"
	"encoding/base64"
	"errors"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const glyph = `<svg role="img" viewBox="0 0 24 24" xmlns="http://www.w3.org/2000/svg"><title>Test</title><path d="M0 0h24v24H0z"/></svg>`

type fakeRasterizer struct {
	out   []byte
	err   error
	calls int
}

func (f *fakeRasterizer) Rasterize(svg []byte, size int) ([]byte, error) {
	f.calls++
	return f.out, f.err
}

func TestRecolor(t *testing.T) {
	got := string(Recolor([]byte(glyph), "white"))
	assert.True(t, strings.HasPrefix(got, `<svg fill="white" role="img"`), got)

	again := string(Recolor([]byte(got), "black"))
	assert.Equal(t, 1, strings.Count(again, "fill="))
	assert.Contains(t, again, `fill="black"`)

	assert.Equal(t, "no svg here", string(Recolor([]byte("no svg here"), "white")))
}

func TestRecolorKeepsFillRule(t *testing.T) {
	in := `<svg fill-rule="evenodd" viewBox="0 0 1 1"><path/></svg>`
	got := string(Recolor([]byte(in), "white"))
	assert.Contains(t, got, `fill-rule="evenodd"`)
	assert.Contains(t, got, `fill="white"`)
}

func TestDataURISVG(t *testing.T) {
	uri, err := Embedder{}.DataURI([]byte(glyph), "white")
	require.NoError(t, err)

	require.True(t, strings.HasPrefix(uri, "data:image/svg+xml;base64,"))
	decoded, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(uri, "data:image/svg+xml;base64,"))
	require.NoError(t, err)
	assert.Contains(t, string(decoded), `fill="white"`)
	assert.LessOrEqual(t, len(escapeAll(uri)), DefaultMaxURLLength)
}

func TestDataURIFallsBackToPNG(t *testing.T) {
	r := &fakeRasterizer{out: []byte{0x89, 'P', 'N', 'G'}}
	uri, err := Embedder{MaxURLLength: 100, Rasterizer: r}.DataURI([]byte(glyph), "white")
	require.NoError(t, err)
	assert.Equal(t, 1, r.calls)
	assert.True(t, strings.HasPrefix(uri, "data:image/png;base64,"))
}

func TestDataURITooLong(t *testing.T) {
	_, err := Embedder{MaxURLLength: 10}.DataURI([]byte(glyph), "white")
	assert.True(t, errors.Is(err, ErrTooLong), "no rasterizer")

	r := &fakeRasterizer{out: bytes.Repeat([]byte{1}, 200)}
	_, err = Embedder{MaxURLLength: 100, Rasterizer: r}.DataURI([]byte(glyph), "white")
	assert.True(t, errors.Is(err, ErrTooLong), "png still too long")

	r = &fakeRasterizer{err: errors.New("no converter")}
	_, err = Embedder{MaxURLLength: 100, Rasterizer: r}.DataURI([]byte(glyph), "white")
	assert.Error(t, err)
}

type upperCompressor struct{}

func (upperCompressor) Compress(svg []byte) ([]byte, error) { return []byte("<svg/>"), nil }

func TestDataURIUsesCompressor(t *testing.T) {
	uri, err := Embedder{Compressor: upperCompressor{}}.DataURI([]byte(glyph), "white")
	require.NoError(t, err)
	assert.Equal(t, "data:image/svg+xml;base64,"+base64.StdEncoding.EncodeToString([]byte("<svg/>")), uri)

	uri, err = Embedder{Compressor: Passthrough{}}.DataURI([]byte(glyph), "white")
	require.NoError(t, err)
	assert.Equal(t, "data:image/svg+xml;base64,"+base64.StdEncoding.EncodeToString(Recolor([]byte(glyph), "white")), uri)
}

func TestMinifyCompressor(t *testing.T) {
	in := []byte("<svg  xmlns=\"http://www.w3.org/2000/svg\"   viewBox=\"0 0 24 24\">\n\n  <path d=\"M 0.000 0.000 L 24.000 24.000\"/>\n</svg>\n")
	out, err := NewMinifyCompressor().Compress(in)
	require.NoError(t, err)
	assert.Less(t, len(out), len(in))
	assert.Contains(t, string(out), "<path")
}

func TestOKSVGRasterizer(t *testing.T) {
	out, err := OKSVGRasterizer{}.Rasterize(Recolor([]byte(glyph), "white"), 16)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 16, img.Bounds().Dx())
	assert.Equal(t, 16, img.Bounds().Dy())
}
