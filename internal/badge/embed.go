package badge

import (
	"encoding/base64"
	"errors"
	"fmt"
	"regexp"
)

const (
	// DefaultMaxURLLength keeps a badge URL under GitHub camo's 8192 byte
	// ceiling once camo hex-encodes it and adds its own prefix.
	DefaultMaxURLLength = 3550
	// DefaultRasterSize is the edge length of PNG fallback logos.
	DefaultRasterSize = 32
)

// ErrTooLong is returned when no embedding fits the URL length limit.
var ErrTooLong = errors.New("badge: embedded logo exceeds URL length limit")

// Compressor shrinks SVG source before embedding.
type Compressor interface {
	Compress(svg []byte) ([]byte, error)
}

// Rasterizer renders SVG source to a square PNG.
type Rasterizer interface {
	Rasterize(svg []byte, size int) ([]byte, error)
}

// Passthrough is the no-op Compressor.
type Passthrough struct{}

// Compress returns svg unchanged.
func (Passthrough) Compress(svg []byte) ([]byte, error) { return svg, nil }

// Embedder turns icon glyphs into data URIs that fit in a badge URL.
type Embedder struct {
	MaxURLLength int
	RasterSize   int
	Compressor   Compressor
	// Rasterizer is optional; without it oversized SVGs cannot be embedded.
	Rasterizer Rasterizer
}

// DataURI recolours svg with fill and returns it as a base64 data URI. When
// the URL-escaped SVG URI is longer than MaxURLLength, a PNG rendering is
// tried instead.
func (e Embedder) DataURI(svg []byte, fill string) (string, error) {
	limit := e.MaxURLLength
	if limit <= 0 {
		limit = DefaultMaxURLLength
	}

	colored := Recolor(svg, fill)
	compressed := colored
	if e.Compressor != nil {
		out, err := e.Compressor.Compress(colored)
		if err != nil {
			return "", fmt.Errorf("compressing svg: %w", err)
		}
		compressed = out
	}

	uri := "data:image/svg+xml;base64," + base64.StdEncoding.EncodeToString(compressed)
	if len(escapeAll(uri)) <= limit {
		return uri, nil
	}

	if e.Rasterizer == nil {
		return "", fmt.Errorf("%w: svg needs %d bytes and no rasterizer is available", ErrTooLong, len(escapeAll(uri)))
	}
	size := e.RasterSize
	if size <= 0 {
		size = DefaultRasterSize
	}
	png, err := e.Rasterizer.Rasterize(colored, size)
	if err != nil {
		return "", fmt.Errorf("rasterizing svg: %w", err)
	}
	uri = "data:image/png;base64," + base64.StdEncoding.EncodeToString(png)
	if n := len(escapeAll(uri)); n > limit {
		return "", fmt.Errorf("%w: png needs %d bytes", ErrTooLong, n)
	}
	return uri, nil
}

var (
	rootTag  = regexp.MustCompile(`(?s)<svg\b[^>]*>`)
	fillAttr = regexp.MustCompile(`\sfill="[^"]*"`)
)

// Recolor sets the fill of the root <svg> element.
func Recolor(svg []byte, fill string) []byte {
	loc := rootTag.FindIndex(svg)
	if loc == nil {
		return svg
	}
	tag := svg[loc[0]:loc[1]]
	attr := []byte(fmt.Sprintf(` fill="%s"`, fill))

	var newTag []byte
	if fillAttr.Match(tag) {
		newTag = fillAttr.ReplaceAllLiteral(tag, attr)
	} else {
		// "<svg" is four bytes; insert the attribute right after it.
		newTag = append(append(append([]byte{}, tag[:4]...), attr...), tag[4:]...)
	}

	out := make([]byte, 0, len(svg)+len(attr))
	out = append(out, svg[:loc[0]]...)
	out = append(out, newTag...)
	out = append(out, svg[loc[1]:]...)
	return out
}
