// Package gonumplot adapts a gonum.org/v1/plot figure to [curve.Surface].
//
//	s, err := curve.Render(d, gonumplot.New(800, 600))
//	s.SetTitle("A Gaussian PDF")
//	png, err := s.Encode("png")
//
// gonum/plot rejects NaN and infinite coordinates, so PlotLine adds one line
// per run of finite points.
//
// [curve.Surface]: github.com/matzehuels/densitywalk/pkg/curve.Surface
package gonumplot

import (
	"bytes"
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/matzehuels/densitywalk/pkg/errors"
)

// Formats lists the encodings supported by Encode.
var Formats = []string{"svg", "png", "pdf"}

var lineColor = color.RGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff}

var markerColor = color.Gray{Y: 0x88}

// Surface draws onto a *plot.Plot. Width and Height are in points.
type Surface struct {
	Plot          *plot.Plot
	Width, Height float64

	LineColor color.Color
	LineWidth vg.Length

	top float64 // largest finite y plotted so far; markers span [0, top]
}

// New returns a surface with a fresh plot of the given size.
func New(width, height float64) *Surface {
	return &Surface{Plot: plot.New(), Width: width, Height: height, LineColor: lineColor, LineWidth: vg.Points(2)}
}

// SetStyle sets the curve colour from a "#rrggbb" string and the curve
// width in points. It applies to lines plotted afterwards.
func (s *Surface) SetStyle(hex string, width float64) error {
	rgb, err := strconv.ParseUint(strings.TrimPrefix(hex, "#"), 16, 32)
	if err != nil || len(strings.TrimPrefix(hex, "#")) != 6 {
		return fmt.Errorf("gonumplot: bad colour %q", hex)
	}
	if !(width > 0) {
		return fmt.Errorf("gonumplot: line width %g must be positive", width)
	}
	s.LineColor = color.RGBA{R: uint8(rgb >> 16), G: uint8(rgb >> 8), B: uint8(rgb), A: 0xff}
	s.LineWidth = vg.Points(width)
	return nil
}

// ShowGrid adds grid lines at the major ticks.
func (s *Surface) ShowGrid() {
	s.Plot.Add(plotter.NewGrid())
}

// AddMarker draws a dashed vertical rule at x from zero to the top of the
// plotted curve, with label at its upper end. Non-finite x is ignored.
func (s *Surface) AddMarker(x float64, label string) {
	if !finite(x) {
		return
	}
	top := s.top
	if top <= 0 {
		top = 1
	}
	rule, err := plotter.NewLine(plotter.XYs{{X: x, Y: 0}, {X: x, Y: top}})
	if err != nil {
		return
	}
	rule.LineStyle.Color = markerColor
	rule.LineStyle.Width = vg.Points(1)
	rule.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(3)}
	s.Plot.Add(rule)

	if label == "" {
		return
	}
	labels, err := plotter.NewLabels(plotter.XYLabels{XYs: plotter.XYs{{X: x, Y: top}}, Labels: []string{label}})
	if err != nil {
		return
	}
	s.Plot.Add(labels)
}

func (s *Surface) SetXLabel(label string) { s.Plot.X.Label.Text = label }
func (s *Surface) SetYLabel(label string) { s.Plot.Y.Label.Text = label }
func (s *Surface) SetTitle(title string)  { s.Plot.Title.Text = title }

// Validate reports whether the surface holds a plot and a positive size.
func (s *Surface) Validate() error {
	if s.Plot == nil {
		return fmt.Errorf("gonumplot: no plot")
	}
	if !(s.Width > 0) || !(s.Height > 0) || math.IsInf(s.Width, 0) || math.IsInf(s.Height, 0) {
		return fmt.Errorf("gonumplot: size %gx%g must be positive and finite", s.Width, s.Height)
	}
	return nil
}

// PlotLine adds the curve as one or more plotter lines. All lines are built
// before any is added, so a failure leaves the plot unchanged.
func (s *Surface) PlotLine(xs, ys []float64) error {
	if len(xs) != len(ys) {
		return fmt.Errorf("gonumplot: %d x values but %d y values", len(xs), len(ys))
	}

	var lines []plot.Plotter
	var run plotter.XYs
	top := s.top
	flush := func() error {
		if len(run) == 0 {
			return nil
		}
		l, err := plotter.NewLine(run)
		if err != nil {
			return fmt.Errorf("gonumplot: %w", err)
		}
		l.LineStyle.Width = s.LineWidth
		l.LineStyle.Color = s.LineColor
		lines = append(lines, l)
		run = nil
		return nil
	}
	for i := range xs {
		if finite(xs[i]) && finite(ys[i]) {
			run = append(run, plotter.XY{X: xs[i], Y: ys[i]})
			top = max(top, ys[i])
			continue
		}
		if err := flush(); err != nil {
			return err
		}
	}
	if err := flush(); err != nil {
		return err
	}
	if len(lines) == 0 {
		return fmt.Errorf("gonumplot: line has no finite points")
	}
	s.Plot.Add(lines...)
	s.top = top
	return nil
}

// Encode writes the plot in the given format: svg, png or pdf.
func (s *Surface) Encode(format string) ([]byte, error) {
	if err := s.Validate(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeSurfaceCapability, err, "encode")
	}
	switch format {
	case "svg", "png", "pdf":
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "gonum backend cannot encode %q (supported: %v)", format, Formats)
	}
	wt, err := s.Plot.WriterTo(vg.Points(s.Width), vg.Points(s.Height), format)
	if err != nil {
		return nil, fmt.Errorf("gonumplot: %w", err)
	}
	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("gonumplot: write %s: %w", format, err)
	}
	return buf.Bytes(), nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
