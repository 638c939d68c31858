package sink

import (
	"errors"

	"github.com/matzehuels/densitywalk/pkg/render"
	"github.com/matzehuels/densitywalk/pkg/render/figure"
)

// PNGOption configures PNG rendering.
type PNGOption func(*pngRenderer)

type pngRenderer struct {
	svgOpts []SVGOption
	scale   float64
}

// WithPNGSVGOptions passes options through to the underlying SVG renderer.
func WithPNGSVGOptions(opts ...SVGOption) PNGOption {
	return func(r *pngRenderer) { r.svgOpts = opts }
}

// WithScale sets the PNG scale factor (default 2.0 for 2x resolution).
func WithScale(s float64) PNGOption {
	return func(r *pngRenderer) { r.scale = s }
}

// RenderPNG renders the figure as PNG via SVG conversion. Without rsvg-convert
// on PATH the SVG is rasterized in-process and text is omitted.
func RenderPNG(fig *figure.Figure, opts ...PNGOption) ([]byte, error) {
	r := pngRenderer{scale: 2.0}
	for _, opt := range opts {
		opt(&r)
	}
	svg := RenderSVG(fig, r.svgOpts...)
	data, err := render.ToPNG(svg, r.scale)
	if errors.Is(err, render.ErrConverterMissing) {
		return render.Rasterize(svg, r.scale)
	}
	return data, err
}
