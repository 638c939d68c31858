package sink

import (
	"bytes"
	"fmt"
	"math"
	"strings"

	"github.com/matzehuels/densitywalk/pkg/render/figure"
)

const (
	fontFamily   = "Helvetica, Arial, sans-serif"
	marginLeft   = 72.0
	marginRight  = 24.0
	marginTop    = 44.0
	marginBottom = 56.0
	tickCount    = 6
	tickLength   = 5.0
	axisColor    = "#333333"
	gridColor    = "#e5e5e5"
	markerColor  = "#888888"
)

var palette = []string{"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd"}

// SVGOption configures SVG rendering.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	stroke      string
	strokeWidth float64
	grid        bool
}

// WithStrokeColor sets the colour of the first line. Further lines cycle
// through the default palette.
func WithStrokeColor(c string) SVGOption { return func(r *svgRenderer) { r.stroke = c } }

// WithStrokeWidth sets the line width in pixels.
func WithStrokeWidth(w float64) SVGOption { return func(r *svgRenderer) { r.strokeWidth = w } }

// WithGrid draws light grid lines at every tick.
func WithGrid() SVGOption { return func(r *svgRenderer) { r.grid = true } }

func newSVGRenderer(opts ...SVGOption) svgRenderer {
	r := svgRenderer{stroke: palette[0], strokeWidth: 2}
	for _, opt := range opts {
		opt(&r)
	}
	if r.strokeWidth <= 0 {
		r.strokeWidth = 2
	}
	return r
}

// frame maps data coordinates to pixels.
type frame struct {
	x0, x1, y0, y1 float64 // plot area in pixels; y0 is the top
	b              figure.Bounds
}

func (f frame) px(x float64) float64 {
	return f.x0 + (x-f.b.XMin)/(f.b.XMax-f.b.XMin)*(f.x1-f.x0)
}

func (f frame) py(y float64) float64 {
	return f.y1 - (y-f.b.YMin)/(f.b.YMax-f.b.YMin)*(f.y1-f.y0)
}

// RenderSVG draws the figure as a standalone SVG document.
func RenderSVG(fig *figure.Figure, opts ...SVGOption) []byte {
	r := newSVGRenderer(opts...)
	f := newFrame(fig)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		fig.Width, fig.Height, fig.Width, fig.Height)
	fmt.Fprintf(&buf, `  <rect x="0" y="0" width="%.1f" height="%.1f" fill="#ffffff"/>`+"\n", fig.Width, fig.Height)

	xt := ticks(f.b.XMin, f.b.XMax, tickCount)
	yt := ticks(f.b.YMin, f.b.YMax, tickCount)
	if r.grid {
		renderGrid(&buf, f, xt, yt)
	}
	renderAxes(&buf, f, xt, yt)
	for i, l := range fig.Lines {
		color := palette[i%len(palette)]
		if i == 0 {
			color = r.stroke
		}
		renderLine(&buf, f, l, color, r.strokeWidth)
	}
	for _, m := range fig.Markers {
		renderMarker(&buf, f, m)
	}
	renderLabels(&buf, fig, f)

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func newFrame(fig *figure.Figure) frame {
	b, ok := fig.Bounds()
	if !ok {
		b = figure.Bounds{XMin: 0, XMax: 1, YMin: 0, YMax: 1}
	}
	// Densities are drawn from a zero baseline with a little headroom.
	b.YMin = min(b.YMin, 0)
	if b.YMax <= b.YMin {
		b.YMax = b.YMin + 1
	} else {
		b.YMax += 0.05 * (b.YMax - b.YMin)
	}
	if b.XMax <= b.XMin {
		b.XMin, b.XMax = b.XMin-0.5, b.XMax+0.5
	}

	f := frame{
		x0: marginLeft,
		x1: max(fig.Width-marginRight, marginLeft+1),
		y0: marginTop,
		y1: max(fig.Height-marginBottom, marginTop+1),
		b:  b,
	}
	return f
}

func renderGrid(buf *bytes.Buffer, f frame, xt, yt []float64) {
	for _, x := range xt {
		fmt.Fprintf(buf, `  <line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-width="1"/>`+"\n",
			f.px(x), f.y0, f.px(x), f.y1, gridColor)
	}
	for _, y := range yt {
		fmt.Fprintf(buf, `  <line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-width="1"/>`+"\n",
			f.x0, f.py(y), f.x1, f.py(y), gridColor)
	}
}

func renderAxes(buf *bytes.Buffer, f frame, xt, yt []float64) {
	fmt.Fprintf(buf, `  <path d="M%.2f,%.2f V%.2f H%.2f" fill="none" stroke="%s" stroke-width="1"/>`+"\n",
		f.x0, f.y0, f.y1, f.x1, axisColor)

	for _, x := range xt {
		px := f.px(x)
		fmt.Fprintf(buf, `  <line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-width="1"/>`+"\n",
			px, f.y1, px, f.y1+tickLength, axisColor)
		fmt.Fprintf(buf, `  <text x="%.2f" y="%.2f" font-family="%s" font-size="11" text-anchor="middle" fill="%s">%s</text>`+"\n",
			px, f.y1+tickLength+13, fontFamily, axisColor, formatTick(x))
	}
	for _, y := range yt {
		py := f.py(y)
		fmt.Fprintf(buf, `  <line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-width="1"/>`+"\n",
			f.x0-tickLength, py, f.x0, py, axisColor)
		fmt.Fprintf(buf, `  <text x="%.2f" y="%.2f" font-family="%s" font-size="11" text-anchor="end" fill="%s">%s</text>`+"\n",
			f.x0-tickLength-3, py+4, fontFamily, axisColor, formatTick(y))
	}
}

// renderLine writes one polyline per run of finite points.
func renderLine(buf *bytes.Buffer, f frame, l figure.Line, color string, width float64) {
	for _, run := range finiteRuns(l) {
		var pts strings.Builder
		for i, idx := range run {
			if i > 0 {
				pts.WriteByte(' ')
			}
			fmt.Fprintf(&pts, "%.2f,%.2f", f.px(l.Xs[idx]), f.py(l.Ys[idx]))
		}
		fmt.Fprintf(buf, `  <polyline points="%s" fill="none" stroke="%s" stroke-width="%.1f" stroke-linejoin="round"/>`+"\n",
			pts.String(), color, width)
	}
}

func finiteRuns(l figure.Line) [][]int {
	var runs [][]int
	var cur []int
	for i := range l.Xs {
		if finite(l.Xs[i]) && finite(l.Ys[i]) {
			cur = append(cur, i)
			continue
		}
		if len(cur) > 0 {
			runs = append(runs, cur)
			cur = nil
		}
	}
	if len(cur) > 0 {
		runs = append(runs, cur)
	}
	return runs
}

func renderMarker(buf *bytes.Buffer, f frame, m figure.Marker) {
	if !finite(m.X) {
		return
	}
	px := f.px(m.X)
	fmt.Fprintf(buf, `  <line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-width="1" stroke-dasharray="4,3"/>`+"\n",
		px, f.y0, px, f.y1, markerColor)
	if m.Label != "" {
		fmt.Fprintf(buf, `  <text x="%.2f" y="%.2f" font-family="%s" font-size="11" text-anchor="start" fill="%s">%s</text>`+"\n",
			px+4, f.y0+12, fontFamily, markerColor, escapeXML(m.Label))
	}
}

func renderLabels(buf *bytes.Buffer, fig *figure.Figure, f frame) {
	midX := (f.x0 + f.x1) / 2
	midY := (f.y0 + f.y1) / 2
	if fig.Title != "" {
		fmt.Fprintf(buf, `  <text x="%.2f" y="%.2f" font-family="%s" font-size="16" font-weight="bold" text-anchor="middle" fill="%s">%s</text>`+"\n",
			midX, f.y0/2+6, fontFamily, axisColor, escapeXML(fig.Title))
	}
	if fig.XLabel != "" {
		fmt.Fprintf(buf, `  <text x="%.2f" y="%.2f" font-family="%s" font-size="13" text-anchor="middle" fill="%s">%s</text>`+"\n",
			midX, math.Min(fig.Height-12, f.y1+44), fontFamily, axisColor, escapeXML(fig.XLabel))
	}
	if fig.YLabel != "" {
		x := 18.0
		fmt.Fprintf(buf, `  <text x="%.2f" y="%.2f" font-family="%s" font-size="13" text-anchor="middle" fill="%s" transform="rotate(-90 %.2f %.2f)">%s</text>`+"\n",
			x, midY, fontFamily, axisColor, x, midY, escapeXML(fig.YLabel))
	}
}
