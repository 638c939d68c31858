package render

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"math"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

// maxRasterSide caps the pixel size of either side of a rasterized image.
const maxRasterSide = 8192

// Rasterize converts SVG bytes to PNG in-process. Paths, lines, polylines and
// rectangles are drawn; text elements are skipped. scale multiplies the SVG
// viewBox size (2.0 for a 2x image).
func Rasterize(svg []byte, scale float64) ([]byte, error) {
	if scale <= 0 || math.IsNaN(scale) || math.IsInf(scale, 0) {
		return nil, fmt.Errorf("rasterize: scale must be positive, got %g", scale)
	}

	icon, err := oksvg.ReadIconStream(bytes.NewReader(svg), oksvg.IgnoreErrorMode)
	if err != nil {
		return nil, fmt.Errorf("rasterize: parse svg: %w", err)
	}

	w := int(math.Ceil(icon.ViewBox.W * scale))
	h := int(math.Ceil(icon.ViewBox.H * scale))
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("rasterize: svg has an empty viewBox")
	}
	if w > maxRasterSide || h > maxRasterSide {
		return nil, fmt.Errorf("rasterize: %dx%d exceeds the %d pixel limit", w, h, maxRasterSide)
	}

	icon.SetTarget(0, 0, float64(w), float64(h))
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	scanner := rasterx.NewScannerGV(w, h, img, img.Bounds())
	dasher := rasterx.NewDasher(w, h, scanner)
	icon.Draw(dasher, 1.0)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("rasterize: encode png: %w", err)
	}
	return buf.Bytes(), nil
}
