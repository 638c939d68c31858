package gonumplot

import (
	"bytes"
	"math"
	"testing"

	"gonum.org/v1/gonum/stat/distuv"
	"gonum.org/v1/plot/vg"

	"github.com/matzehuels/densitywalk/pkg/curve"
	"github.com/matzehuels/densitywalk/pkg/errors"
)

func TestRenderOntoPlot(t *testing.T) {
	s, err := curve.Render(distuv.UnitNormal, New(400, 300))
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if s.Plot.X.Label.Text != curve.XLabel || s.Plot.Y.Label.Text != curve.YLabel {
		t.Errorf("labels = %q, %q", s.Plot.X.Label.Text, s.Plot.Y.Label.Text)
	}
	if s.Plot.X.Min > -3.7 || s.Plot.X.Max < 3.7 {
		t.Errorf("x range = [%v, %v], want to cover ±3.7", s.Plot.X.Min, s.Plot.X.Max)
	}
}

func TestPlotLineSplitsOnNonFinite(t *testing.T) {
	s := New(400, 300)
	err := s.PlotLine([]float64{0, 1, 2, 3, 4}, []float64{1, math.Inf(1), 1, 2, 1})
	if err != nil {
		t.Fatalf("PlotLine() error: %v", err)
	}
	if s.Plot.Y.Max != 2 {
		t.Errorf("y max = %v, want 2", s.Plot.Y.Max)
	}
}

func TestPlotLineRejects(t *testing.T) {
	tests := []struct {
		name   string
		xs, ys []float64
	}{
		{"mismatched", []float64{0, 1}, []float64{1}},
		{"empty", nil, nil},
		{"all nan", []float64{0, 1}, []float64{math.NaN(), math.NaN()}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := New(400, 300).PlotLine(tt.xs, tt.ys); err == nil {
				t.Error("PlotLine() should fail")
			}
		})
	}
}

func TestValidateBlocksRender(t *testing.T) {
	s := New(0, 300)
	_, err := curve.Render(distuv.UnitNormal, s)
	if !errors.Is(err, errors.ErrCodeSurfaceCapability) {
		t.Fatalf("Render() error = %v, want %s", err, errors.ErrCodeSurfaceCapability)
	}
	if s.Plot.X.Label.Text != "" {
		t.Error("failed Render() must not label the plot")
	}
}

func TestEncode(t *testing.T) {
	s, err := curve.Render(distuv.UnitNormal, New(200, 150))
	if err != nil {
		t.Fatal(err)
	}
	s.SetTitle("A Gaussian PDF")

	markers := map[string][]byte{
		"svg": []byte("<svg"),
		"png": []byte("\x89PNG"),
		"pdf": []byte("%PDF"),
	}
	for format, marker := range markers {
		t.Run(format, func(t *testing.T) {
			data, err := s.Encode(format)
			if err != nil {
				t.Fatalf("Encode(%s) error: %v", format, err)
			}
			if !bytes.Contains(data[:min(len(data), 256)], marker) {
				t.Errorf("Encode(%s) output lacks %q", format, marker)
			}
		})
	}

	if _, err := s.Encode("json"); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("Encode(json) error = %v, want %s", err, errors.ErrCodeInvalidFormat)
	}
}

func TestStyleGridAndMarker(t *testing.T) {
	s := New(400, 300)
	if err := s.SetStyle("#d62728", 3); err != nil {
		t.Fatal(err)
	}
	s.ShowGrid()
	if _, err := curve.Render(distuv.UnitNormal, s); err != nil {
		t.Fatal(err)
	}
	s.AddMarker(1, "p(1) = 0.242")
	s.AddMarker(math.Inf(1), "ignored")

	if s.LineWidth != vg.Points(3) {
		t.Errorf("LineWidth = %v, want 3pt", s.LineWidth)
	}
	if r, _, _, _ := s.LineColor.RGBA(); r>>8 != 0xd6 {
		t.Errorf("LineColor red = %#x, want 0xd6", r>>8)
	}
	if s.Plot.X.Max < 1 || s.Plot.Y.Max < 0.39 {
		t.Errorf("plot range should cover the marker: x max %v, y max %v", s.Plot.X.Max, s.Plot.Y.Max)
	}
	if _, err := s.Encode("svg"); err != nil {
		t.Errorf("Encode(svg) error: %v", err)
	}
}

func TestSetStyleRejects(t *testing.T) {
	for _, hex := range []string{"red", "#12345", "#gggggg"} {
		if err := New(400, 300).SetStyle(hex, 2); err == nil {
			t.Errorf("SetStyle(%q) should fail", hex)
		}
	}
	if err := New(400, 300).SetStyle("#123456", math.NaN()); err == nil {
		t.Error("SetStyle() should reject a NaN width")
	}
}

func TestValidateRejectsNaNSize(t *testing.T) {
	if err := New(math.NaN(), 300).Validate(); err == nil {
		t.Error("Validate() should reject a NaN width")
	}
}
