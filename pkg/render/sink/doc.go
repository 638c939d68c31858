// Package sink turns a [figure.Figure] into a final output format.
//
// # Overview
//
// A "sink" serializes a recorded figure. This package provides:
//
//   - SVG: hand-written vector output with axes, ticks and labels
//   - JSON: the figure's data for external tools
//   - PNG: raster output (rsvg-convert, or the in-process rasterizer)
//   - PDF: print-ready output (requires rsvg-convert)
//
// # SVG Output
//
//	svg := sink.RenderSVG(fig,
//	    sink.WithStrokeColor("#d62728"),
//	    sink.WithGrid(),
//	)
//
// Non-finite y values break a line into separate polylines, so a density that
// diverges at a boundary is drawn as a gap rather than a spike.
//
// # PNG Output
//
// [RenderPNG] prefers rsvg-convert. When the binary is missing it falls back to
// [render.Rasterize], which draws lines and axes but not text.
//
// # JSON Output
//
// [RenderJSON] writes the figure with non-finite numbers encoded as null.
//
// [figure.Figure]: github.com/matzehuels/densitywalk/pkg/render/figure.Figure
// [render.Rasterize]: github.com/matzehuels/densitywalk/pkg/render.Rasterize
package sink
