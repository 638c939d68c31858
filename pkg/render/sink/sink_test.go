package sink

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/matzehuels/densitywalk/pkg/render/figure"
)

func testFigure(t *testing.T) *figure.Figure {
	t.Helper()
	fig := figure.New(400, 300)
	fig.SetTitle("A <Gaussian> PDF")
	fig.SetXLabel("x value")
	fig.SetYLabel("likelihood")
	if err := fig.PlotLine([]float64{-2, -1, 0, 1, 2}, []float64{0.05, 0.24, 0.4, 0.24, 0.05}); err != nil {
		t.Fatal(err)
	}
	return fig
}

func TestRenderSVG(t *testing.T) {
	svg := string(RenderSVG(testFigure(t)))

	for _, want := range []string{
		`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 400.0 300.0"`,
		">x value</text>",
		">likelihood</text>",
		"A &lt;Gaussian&gt; PDF",
		`stroke="#1f77b4"`,
		"</svg>\n",
	} {
		if !strings.Contains(svg, want) {
			t.Errorf("SVG missing %q", want)
		}
	}
	if n := strings.Count(svg, "<polyline"); n != 1 {
		t.Errorf("polyline count = %d, want 1", n)
	}
}

func TestRenderSVGOptions(t *testing.T) {
	fig := testFigure(t)

	plain := string(RenderSVG(fig))
	styled := string(RenderSVG(fig, WithStrokeColor("#d62728"), WithStrokeWidth(3), WithGrid()))

	if !strings.Contains(styled, `stroke="#d62728" stroke-width="3.0"`) {
		t.Error("WithStrokeColor/WithStrokeWidth not applied")
	}
	if strings.Contains(plain, gridColor) {
		t.Error("grid drawn without WithGrid")
	}
	if !strings.Contains(styled, gridColor) {
		t.Error("WithGrid did not draw grid lines")
	}
}

func TestRenderSVGSplitsOnNonFinite(t *testing.T) {
	fig := figure.New(400, 300)
	_ = fig.PlotLine(
		[]float64{0, 1, 2, 3, 4, 5, 6},
		[]float64{1, 2, math.Inf(1), 2, 1, math.NaN(), 0.5},
	)
	svg := string(RenderSVG(fig))
	if n := strings.Count(svg, "<polyline"); n != 3 {
		t.Errorf("polyline count = %d, want 3", n)
	}
}

func TestRenderSVGEmptyFigure(t *testing.T) {
	svg := string(RenderSVG(figure.New(200, 100)))
	if strings.Contains(svg, "<polyline") {
		t.Error("empty figure should draw no lines")
	}
	if !strings.HasSuffix(svg, "</svg>\n") {
		t.Error("SVG not closed")
	}
}

func TestRenderSVGMarker(t *testing.T) {
	fig := testFigure(t)
	fig.AddMarker(0.5, "x = 0.5")
	svg := string(RenderSVG(fig))
	if !strings.Contains(svg, `stroke-dasharray="4,3"`) || !strings.Contains(svg, ">x = 0.5</text>") {
		t.Error("marker not drawn")
	}
}

func TestRenderJSON(t *testing.T) {
	fig := testFigure(t)
	fig.Lines[0].Ys[2] = math.Inf(1)
	fig.AddMarker(1, "peak")

	data, err := RenderJSON(fig)
	if err != nil {
		t.Fatalf("RenderJSON() error: %v", err)
	}

	var out struct {
		Width  float64 `json:"width"`
		XLabel string  `json:"x_label"`
		YLabel string  `json:"y_label"`
		Lines  []struct {
			Xs []*float64 `json:"xs"`
			Ys []*float64 `json:"ys"`
		} `json:"lines"`
		Markers []jsonMarker `json:"markers"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("json.Unmarshal() error: %v", err)
	}

	if out.Width != 400 || out.XLabel != "x value" || out.YLabel != "likelihood" {
		t.Errorf("header = %v %q %q", out.Width, out.XLabel, out.YLabel)
	}
	if len(out.Lines) != 1 || len(out.Lines[0].Ys) != 5 {
		t.Fatalf("lines = %+v", out.Lines)
	}
	if out.Lines[0].Ys[2] != nil {
		t.Errorf("Inf should encode as null, got %v", *out.Lines[0].Ys[2])
	}
	if len(out.Markers) != 1 || out.Markers[0].Label != "peak" {
		t.Errorf("markers = %+v", out.Markers)
	}
}

func TestRenderPNG(t *testing.T) {
	data, err := RenderPNG(testFigure(t), WithScale(1))
	if err != nil {
		t.Fatalf("RenderPNG() error: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("\x89PNG\r\n\x1a\n")) {
		t.Error("RenderPNG() did not return a PNG")
	}
}

func TestTicks(t *testing.T) {
	tests := []struct {
		lo, hi float64
		want   []float64
	}{
		{0, 1, []float64{0, 0.2, 0.4, 0.6, 0.8, 1}},
		{-3.719, 3.719, []float64{-3, -2, -1, 0, 1, 2, 3}},
		{0, 0.38, []float64{0, 0.05, 0.1, 0.15, 0.2, 0.25, 0.3, 0.35}},
		{10, 95, []float64{10, 20, 30, 40, 50, 60, 70, 80, 90}},
	}
	for _, tt := range tests {
		got := ticks(tt.lo, tt.hi, tickCount)
		if diff := cmp.Diff(tt.want, got, cmpopts.EquateApprox(0, 1e-12)); diff != "" {
			t.Errorf("ticks(%v, %v) mismatch (-want +got):\n%s", tt.lo, tt.hi, diff)
		}
	}
}

func TestFormatTick(t *testing.T) {
	for v, want := range map[float64]string{0: "0", 0.30000000000000004: "0.3", -3: "-3", 1e-5: "1e-05"} {
		if got := formatTick(v); got != want {
			t.Errorf("formatTick(%v) = %q, want %q", v, got, want)
		}
	}
}
