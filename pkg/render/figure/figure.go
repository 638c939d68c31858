// Package figure provides an in-memory drawing surface.
//
// A [Figure] records axis labels, a title, line curves and vertical markers.
// It satisfies [curve.Surface] and is turned into SVG, JSON, PNG or PDF by
// the sink package.
//
//	fig, err := curve.Render(d, figure.New(800, 600))
//	fig.SetTitle("A Gaussian PDF")
//	svg := sink.RenderSVG(fig)
//
// A Figure is not safe for concurrent mutation.
//
// [curve.Surface]: github.com/matzehuels/densitywalk/pkg/curve.Surface
package figure

import (
	"fmt"
	"math"
	"slices"
)

// Line is a connected curve through (Xs[i], Ys[i]).
type Line struct {
	Xs []float64 `json:"xs"`
	Ys []float64 `json:"ys"`
}

// Marker is a vertical rule at X, used to highlight a single point such as
// the x value whose density is being read off.
type Marker struct {
	X     float64 `json:"x"`
	Label string  `json:"label,omitempty"`
}

// Figure is a mutable plot description.
type Figure struct {
	Width   float64  `json:"width"`
	Height  float64  `json:"height"`
	Title   string   `json:"title,omitempty"`
	XLabel  string   `json:"x_label,omitempty"`
	YLabel  string   `json:"y_label,omitempty"`
	Lines   []Line   `json:"lines"`
	Markers []Marker `json:"markers,omitempty"`
}

// New returns an empty figure with the given frame size in pixels.
func New(width, height float64) *Figure {
	return &Figure{Width: width, Height: height, Lines: []Line{}}
}

// SetXLabel replaces the x axis label.
func (f *Figure) SetXLabel(label string) { f.XLabel = label }

// SetYLabel replaces the y axis label.
func (f *Figure) SetYLabel(label string) { f.YLabel = label }

// SetTitle replaces the title.
func (f *Figure) SetTitle(title string) { f.Title = title }

// PlotLine appends a curve. The slices are copied. Mismatched or empty input
// is rejected and leaves the figure unchanged.
func (f *Figure) PlotLine(xs, ys []float64) error {
	if len(xs) != len(ys) {
		return fmt.Errorf("line has %d x values but %d y values", len(xs), len(ys))
	}
	if len(xs) == 0 {
		return fmt.Errorf("line has no points")
	}
	f.Lines = append(f.Lines, Line{Xs: slices.Clone(xs), Ys: slices.Clone(ys)})
	return nil
}

// AddMarker appends a vertical marker at x.
func (f *Figure) AddMarker(x float64, label string) {
	f.Markers = append(f.Markers, Marker{X: x, Label: label})
}

// Validate reports whether the figure can be drawn on.
func (f *Figure) Validate() error {
	if !finite(f.Width) || !finite(f.Height) || f.Width <= 0 || f.Height <= 0 {
		return fmt.Errorf("figure size %gx%g must be positive and finite", f.Width, f.Height)
	}
	return nil
}

// Bounds is the data-space bounding box of a figure.
type Bounds struct {
	XMin, XMax float64
	YMin, YMax float64
}

// Bounds returns the smallest box containing every finite point and marker.
// ok is false when the figure holds no finite data.
func (f *Figure) Bounds() (b Bounds, ok bool) {
	b = Bounds{XMin: math.Inf(1), XMax: math.Inf(-1), YMin: math.Inf(1), YMax: math.Inf(-1)}
	for _, l := range f.Lines {
		for i, x := range l.Xs {
			y := l.Ys[i]
			if !finite(x) || !finite(y) {
				continue
			}
			b.XMin, b.XMax = min(b.XMin, x), max(b.XMax, x)
			b.YMin, b.YMax = min(b.YMin, y), max(b.YMax, y)
			ok = true
		}
	}
	for _, m := range f.Markers {
		if finite(m.X) {
			b.XMin, b.XMax = min(b.XMin, m.X), max(b.XMax, m.X)
		}
	}
	return b, ok
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
