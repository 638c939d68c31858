// Package gochart adapts a wcharczuk/go-chart chart to [curve.Surface].
//
// Each PlotLine call becomes one or more ContinuousSeries. Non-finite points
// split a curve into separate series.
//
// [curve.Surface]: github.com/matzehuels/densitywalk/pkg/curve.Surface
package gochart

import (
	"bytes"
	"fmt"
	"math"
	"strings"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/matzehuels/densitywalk/pkg/errors"
)

// Formats lists the encodings supported by Encode.
var Formats = []string{"svg", "png"}

var (
	markerColor = drawing.ColorFromHex("888888")
	gridColor   = drawing.ColorFromHex("e5e5e5")
)

// Surface accumulates a chart.Chart.
type Surface struct {
	Chart chart.Chart

	LineColor drawing.Color
	LineWidth float64

	top float64 // largest finite y plotted so far; markers span [0, top]
}

// New returns a surface sized in pixels.
func New(width, height int) *Surface {
	return &Surface{Chart: chart.Chart{
		Width:  width,
		Height: height,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 10},
		},
	}, LineColor: drawing.ColorFromHex("1f77b4"), LineWidth: 2}
}

// SetStyle sets the curve colour from a "#rrggbb" string and the curve
// width in pixels. It applies to lines plotted afterwards.
func (s *Surface) SetStyle(hex string, width float64) error {
	if h := strings.TrimPrefix(hex, "#"); len(h) != 6 || strings.Trim(strings.ToLower(h), "0123456789abcdef") != "" {
		return fmt.Errorf("gochart: bad colour %q", hex)
	}
	if !(width > 0) {
		return fmt.Errorf("gochart: line width %g must be positive", width)
	}
	s.LineColor = drawing.ColorFromHex(hex)
	s.LineWidth = width
	return nil
}

// ShowGrid draws grid lines at the axis ticks.
func (s *Surface) ShowGrid() {
	grid := chart.Style{StrokeColor: gridColor, StrokeWidth: 1}
	s.Chart.XAxis.GridMajorStyle, s.Chart.XAxis.GridMinorStyle = grid, grid
	s.Chart.YAxis.GridMajorStyle, s.Chart.YAxis.GridMinorStyle = grid, grid
}

// AddMarker adds a dashed vertical series at x from zero to the top of the
// plotted curve, annotated with label. Non-finite x is ignored.
func (s *Surface) AddMarker(x float64, label string) {
	if !finite(x) {
		return
	}
	top := s.top
	if top <= 0 {
		top = 1
	}
	s.Chart.Series = append(s.Chart.Series, chart.ContinuousSeries{
		Style:   chart.Style{StrokeColor: markerColor, StrokeWidth: 1, StrokeDashArray: []float64{4, 3}},
		XValues: []float64{x, x},
		YValues: []float64{0, top},
	})
	if label != "" {
		s.Chart.Series = append(s.Chart.Series, chart.AnnotationSeries{
			Annotations: []chart.Value2{{XValue: x, YValue: top, Label: label}},
		})
	}
}

func (s *Surface) SetXLabel(label string) { s.Chart.XAxis.Name = label }
func (s *Surface) SetYLabel(label string) { s.Chart.YAxis.Name = label }
func (s *Surface) SetTitle(title string)  { s.Chart.Title = title }

func (s *Surface) Validate() error {
	if s.Chart.Width <= 0 || s.Chart.Height <= 0 {
		return fmt.Errorf("gochart: size %dx%d must be positive", s.Chart.Width, s.Chart.Height)
	}
	return nil
}

func (s *Surface) PlotLine(xs, ys []float64) error {
	if len(xs) != len(ys) {
		return fmt.Errorf("gochart: %d x values but %d y values", len(xs), len(ys))
	}
	style := chart.Style{StrokeColor: s.LineColor, StrokeWidth: s.LineWidth}
	top := s.top

	var series []chart.Series
	var rx, ry []float64
	flush := func() {
		if len(rx) > 0 {
			series = append(series, chart.ContinuousSeries{Style: style, XValues: rx, YValues: ry})
			rx, ry = nil, nil
		}
	}
	for i := range xs {
		if finite(xs[i]) && finite(ys[i]) {
			rx, ry = append(rx, xs[i]), append(ry, ys[i])
			top = max(top, ys[i])
			continue
		}
		flush()
	}
	flush()
	if len(series) == 0 {
		return fmt.Errorf("gochart: line has no finite points")
	}
	s.Chart.Series = append(s.Chart.Series, series...)
	s.top = top
	return nil
}

// Encode renders the chart as svg or png.
func (s *Surface) Encode(format string) ([]byte, error) {
	if err := s.Validate(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeSurfaceCapability, err, "encode")
	}
	var rp chart.RendererProvider
	switch format {
	case "svg":
		rp = chart.SVG
	case "png":
		rp = chart.PNG
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "gochart backend cannot encode %q (supported: %v)", format, Formats)
	}
	var buf bytes.Buffer
	if err := s.Chart.Render(rp, &buf); err != nil {
		return nil, fmt.Errorf("gochart: render %s: %w", format, err)
	}
	return buf.Bytes(), nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
