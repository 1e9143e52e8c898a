package badge

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"github.com/disintegration/imaging"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/svg"
)

// supersample renders glyphs larger than requested and downsamples them,
// which smooths edges at badge sizes.
const supersample = 4

// OKSVGRasterizer renders SVG glyphs in-process.
type OKSVGRasterizer struct{}

// Rasterize draws svgData centred in a size x size transparent PNG.
func (OKSVGRasterizer) Rasterize(svgData []byte, size int) ([]byte, error) {
	if size <= 0 {
		size = DefaultRasterSize
	}
	icon, err := oksvg.ReadIconStream(bytes.NewReader(svgData))
	if err != nil {
		return nil, fmt.Errorf("parsing svg: %w", err)
	}

	canvas := size * supersample
	w, h := icon.ViewBox.W, icon.ViewBox.H
	if w <= 0 || h <= 0 {
		w, h = float64(canvas), float64(canvas)
	}
	scale := float64(canvas) / max(w, h)
	outW, outH := w*scale, h*scale
	icon.SetTarget((float64(canvas)-outW)/2, (float64(canvas)-outH)/2, outW, outH)

	img := image.NewRGBA(image.Rect(0, 0, canvas, canvas))
	scanner := rasterx.NewScannerGV(canvas, canvas, img, img.Bounds())
	icon.Draw(rasterx.NewDasher(canvas, canvas, scanner), 1.0)

	small := imaging.Fit(img, size, size, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, small, imaging.PNG, imaging.PNGCompressionLevel(png.BestCompression)); err != nil {
		return nil, fmt.Errorf("encoding png: %w", err)
	}
	return buf.Bytes(), nil
}

// MinifyCompressor strips whitespace, metadata and redundant precision from
// SVG source.
type MinifyCompressor struct {
	m *minify.M
}

// NewMinifyCompressor returns a Compressor backed by the tdewolff SVG
// minifier.
func NewMinifyCompressor() *MinifyCompressor {
	m := minify.New()
	m.AddFunc("image/svg+xml", svg.Minify)
	return &MinifyCompressor{m: m}
}

// Compress minifies svgData.
func (c *MinifyCompressor) Compress(svgData []byte) ([]byte, error) {
	return c.m.Bytes("image/svg+xml", svgData)
}
