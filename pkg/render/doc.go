// Package render provides format conversion for rendered plots.
//
// # Overview
//
// Plots are drawn once as SVG and converted to other formats from there:
//
//   - [ToPDF] and [ToPNG] shell out to rsvg-convert (from librsvg)
//   - [Rasterize] converts SVG to PNG in-process with oksvg and rasterx
//
// rsvg-convert produces the better PNG (it renders text); [Rasterize] draws
// shapes only and is used as a fallback when rsvg-convert is not installed.
//
//	svg := sink.RenderSVG(fig)
//	pdf, err := render.ToPDF(svg)
//	png, err := render.ToPNG(svg, 2.0)  // 2x scale
//	if errors.Is(err, render.ErrConverterMissing) {
//	    png, err = render.Rasterize(svg, 2.0)
//	}
//
// # Subpackages
//
//   - [figure]: in-memory drawing surface
//   - [sink]: figure to SVG, JSON, PNG and PDF
//   - [gonumplot]: drawing surface backed by gonum.org/v1/plot
//   - [gochart]: drawing surface backed by go-chart
//
// [figure]: github.com/matzehuels/densitywalk/pkg/render/figure
// [sink]: github.com/matzehuels/densitywalk/pkg/render/sink
// [gonumplot]: github.com/matzehuels/densitywalk/pkg/render/gonumplot
// [gochart]: github.com/matzehuels/densitywalk/pkg/render/gochart
package render
