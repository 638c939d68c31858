package render

import (
	"bytes"
	"errors"
	"image/png"
	"testing"
)

const testSVG = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 40 20" width="40" height="20">
  <rect x="0" y="0" width="40" height="20" fill="#ffffff"/>
  <polyline points="2,18 10,4 20,2 30,4 38,18" fill="none" stroke="#1f77b4" stroke-width="2"/>
  <text x="20" y="10">ignored</text>
</svg>
`

func TestRasterize(t *testing.T) {
	data, err := Rasterize([]byte(testSVG), 2)
	if err != nil {
		t.Fatalf("Rasterize() error: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("png.Decode() error: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 80 || b.Dy() != 40 {
		t.Errorf("image size = %dx%d, want 80x40", b.Dx(), b.Dy())
	}
}

func TestRasterizeInvalidScale(t *testing.T) {
	for _, s := range []float64{0, -1} {
		if _, err := Rasterize([]byte(testSVG), s); err == nil {
			t.Errorf("Rasterize(scale=%v) should fail", s)
		}
	}
}

func TestConverterMissing(t *testing.T) {
	old := converter
	converter = "densitywalk-no-such-binary"
	defer func() { converter = old }()

	if _, err := ToPNG([]byte(testSVG), 1); !errors.Is(err, ErrConverterMissing) {
		t.Errorf("ToPNG() error = %v, want ErrConverterMissing", err)
	}
	if _, err := ToPDF([]byte(testSVG)); !errors.Is(err, ErrConverterMissing) {
		t.Errorf("ToPDF() error = %v, want ErrConverterMissing", err)
	}
}
