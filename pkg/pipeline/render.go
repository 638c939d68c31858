package pipeline

import (
	"fmt"
	"strconv"

	"github.com/matzehuels/densitywalk/pkg/curve"
	"github.com/matzehuels/densitywalk/pkg/errors"
	"github.com/matzehuels/densitywalk/pkg/render/figure"
	"github.com/matzehuels/densitywalk/pkg/render/gochart"
	"github.com/matzehuels/densitywalk/pkg/render/gonumplot"
	"github.com/matzehuels/densitywalk/pkg/render/sink"
)

// marker is implemented by surfaces that can highlight a single x value.
type marker interface {
	AddMarker(x float64, label string)
}

// RenderFormat draws d on a fresh surface of opts.Backend and encodes it as
// format. opts must already be validated. A panic inside a plotting library
// is returned as an INTERNAL_ERROR.
func RenderFormat(d curve.Distribution, opts Options, format string) (data []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			data, err = nil, errors.New(errors.ErrCodeInternal, "%s backend panicked rendering %s: %v", opts.Backend, format, r)
		}
	}()

	switch opts.Backend {
	case BackendNative:
		return renderNative(d, opts, format)
	case BackendGonum:
		return renderGonum(d, opts, format)
	case BackendGoChart:
		return renderGoChart(d, opts, format)
	default:
		return nil, ValidateBackend(opts.Backend)
	}
}

// markLabel is the label drawn next to a marked x value.
func markLabel(d curve.Distribution, x float64) string {
	return "p(" + strconv.FormatFloat(x, 'g', 4, 64) + ") = " + strconv.FormatFloat(d.Prob(x), 'g', 4, 64)
}

func addMarks(m marker, d curve.Distribution, marks []float64) {
	for _, x := range marks {
		m.AddMarker(x, markLabel(d, x))
	}
}

func renderNative(d curve.Distribution, opts Options, format string) ([]byte, error) {
	fig, err := curve.Render(d, figure.New(opts.Width, opts.Height), opts.CurveOptions()...)
	if err != nil {
		return nil, err
	}
	fig.SetTitle(opts.Title)
	addMarks(fig, d, opts.Marks)

	svgOpts := []sink.SVGOption{sink.WithStrokeColor(opts.Color), sink.WithStrokeWidth(opts.LineWidth)}
	if opts.Grid {
		svgOpts = append(svgOpts, sink.WithGrid())
	}

	switch format {
	case FormatSVG:
		return sink.RenderSVG(fig, svgOpts...), nil
	case FormatPNG:
		return sink.RenderPNG(fig, sink.WithPNGSVGOptions(svgOpts...))
	case FormatPDF:
		data, err := sink.RenderPDF(fig, sink.WithPDFSVGOptions(svgOpts...))
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeUnsupported, err, "render pdf")
		}
		return data, nil
	case FormatJSON:
		return sink.RenderJSON(fig)
	default:
		return nil, fmt.Errorf("unsupported native format: %s", format)
	}
}

func renderGonum(d curve.Distribution, opts Options, format string) ([]byte, error) {
	surface := gonumplot.New(opts.Width, opts.Height)
	if err := surface.SetStyle(opts.Color, opts.LineWidth); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "style")
	}
	if opts.Grid {
		surface.ShowGrid()
	}
	s, err := curve.Render(d, surface, opts.CurveOptions()...)
	if err != nil {
		return nil, err
	}
	s.SetTitle(opts.Title)
	addMarks(s, d, opts.Marks)
	return s.Encode(format)
}

func renderGoChart(d curve.Distribution, opts Options, format string) ([]byte, error) {
	surface := gochart.New(int(opts.Width), int(opts.Height))
	if err := surface.SetStyle(opts.Color, opts.LineWidth); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "style")
	}
	if opts.Grid {
		surface.ShowGrid()
	}
	s, err := curve.Render(d, surface, opts.CurveOptions()...)
	if err != nil {
		return nil, err
	}
	s.SetTitle(opts.Title)
	addMarks(s, d, opts.Marks)
	return s.Encode(format)
}
