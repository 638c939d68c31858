package sink

import (
	"encoding/json"
	"strconv"

	"github.com/matzehuels/densitywalk/pkg/render/figure"
)

// number marshals non-finite values as null; encoding/json rejects them.
type number float64

func (n number) MarshalJSON() ([]byte, error) {
	if !finite(float64(n)) {
		return []byte("null"), nil
	}
	return strconv.AppendFloat(nil, float64(n), 'g', -1, 64), nil
}

type jsonOutput struct {
	Width   float64      `json:"width"`
	Height  float64      `json:"height"`
	Title   string       `json:"title,omitempty"`
	XLabel  string       `json:"x_label,omitempty"`
	YLabel  string       `json:"y_label,omitempty"`
	Lines   []jsonLine   `json:"lines"`
	Markers []jsonMarker `json:"markers,omitempty"`
}

type jsonLine struct {
	Xs []number `json:"xs"`
	Ys []number `json:"ys"`
}

type jsonMarker struct {
	X     number `json:"x"`
	Label string `json:"label,omitempty"`
}

// RenderJSON exports the figure as a pretty-printed JSON document. It does not
// modify fig.
func RenderJSON(fig *figure.Figure) ([]byte, error) {
	out := jsonOutput{
		Width:  fig.Width,
		Height: fig.Height,
		Title:  fig.Title,
		XLabel: fig.XLabel,
		YLabel: fig.YLabel,
		Lines:  make([]jsonLine, 0, len(fig.Lines)),
	}
	for _, l := range fig.Lines {
		out.Lines = append(out.Lines, jsonLine{Xs: numbers(l.Xs), Ys: numbers(l.Ys)})
	}
	for _, m := range fig.Markers {
		out.Markers = append(out.Markers, jsonMarker{X: number(m.X), Label: m.Label})
	}
	return json.MarshalIndent(out, "", "  ")
}

func numbers(vs []float64) []number {
	out := make([]number, len(vs))
	for i, v := range vs {
		out[i] = number(v)
	}
	return out
}
