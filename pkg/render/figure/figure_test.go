package figure

import (
	"math"
	"testing"
)

func TestPlotLineCopiesInput(t *testing.T) {
	f := New(800, 600)
	xs := []float64{0, 1, 2}
	ys := []float64{0.1, 0.5, 0.1}
	if err := f.PlotLine(xs, ys); err != nil {
		t.Fatalf("PlotLine() error: %v", err)
	}
	xs[0] = 99
	if f.Lines[0].Xs[0] != 0 {
		t.Error("PlotLine() should copy its input")
	}
}

func TestPlotLineRejects(t *testing.T) {
	tests := []struct {
		name   string
		xs, ys []float64
	}{
		{"mismatched", []float64{1, 2}, []float64{1}},
		{"empty", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := New(800, 600)
			if err := f.PlotLine(tt.xs, tt.ys); err == nil {
				t.Fatal("PlotLine() should fail")
			}
			if len(f.Lines) != 0 {
				t.Error("failed PlotLine() must not add a line")
			}
		})
	}
}

func TestLabelsOverwrite(t *testing.T) {
	f := New(800, 600)
	f.SetXLabel("a")
	f.SetXLabel("x value")
	f.SetYLabel("likelihood")
	f.SetTitle("A Gaussian PDF")
	if f.XLabel != "x value" || f.YLabel != "likelihood" || f.Title != "A Gaussian PDF" {
		t.Errorf("labels = %q, %q, %q", f.XLabel, f.YLabel, f.Title)
	}
}

func TestValidate(t *testing.T) {
	if err := New(800, 600).Validate(); err != nil {
		t.Errorf("Validate() error: %v", err)
	}
	for _, f := range []*Figure{New(0, 600), New(math.NaN(), 600), New(800, math.Inf(1))} {
		if err := f.Validate(); err == nil {
			t.Errorf("Validate() of %vx%v should fail", f.Width, f.Height)
		}
	}
}

func TestBounds(t *testing.T) {
	f := New(800, 600)
	if _, ok := f.Bounds(); ok {
		t.Error("empty figure should have no bounds")
	}

	_ = f.PlotLine([]float64{-1, 0, 1, 2}, []float64{0.2, 0.4, math.Inf(1), 0.1})
	f.AddMarker(3, "")

	b, ok := f.Bounds()
	if !ok {
		t.Fatal("Bounds() ok = false")
	}
	want := Bounds{XMin: -1, XMax: 3, YMin: 0.1, YMax: 0.4}
	if b != want {
		t.Errorf("Bounds() = %+v, want %+v", b, want)
	}
}
