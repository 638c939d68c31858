package dist

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/densitywalk/pkg/curve"
	"github.com/matzehuels/densitywalk/pkg/errors"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name    string
		spec    Spec
		want    Spec
		wantErr bool
	}{
		{
			name: "empty defaults to standard normal",
			spec: Spec{},
			want: Spec{Family: "normal", Params: map[string]float64{"loc": 0, "scale": 1}},
		},
		{
			name: "alias and partial params",
			spec: Spec{Family: "Gaussian", Params: map[string]float64{"scale": 2}},
			want: Spec{Family: "normal", Params: map[string]float64{"loc": 0, "scale": 2}},
		},
		{
			name: "uppercase param names",
			spec: Spec{Family: "uniform", Params: map[string]float64{"MIN": -1}},
			want: Spec{Family: "uniform", Params: map[string]float64{"min": -1, "max": 1}},
		},
		{
			name: "point",
			spec: Spec{Family: "dirac", Params: map[string]float64{"at": 3}},
			want: Spec{Family: "point", Params: map[string]float64{"at": 3}},
		},
		{name: "unknown family", spec: Spec{Family: "cauchy"}, wantErr: true},
		{name: "unknown param", spec: Spec{Family: "normal", Params: map[string]float64{"mean": 1}}, wantErr: true},
		{name: "zero scale", spec: Spec{Family: "normal", Params: map[string]float64{"scale": 0}}, wantErr: true},
		{name: "negative rate", spec: Spec{Family: "exponential", Params: map[string]float64{"rate": -1}}, wantErr: true},
		{name: "inverted uniform", spec: Spec{Family: "uniform", Params: map[string]float64{"min": 2, "max": 1}}, wantErr: true},
		{name: "nan param", spec: Spec{Family: "gamma", Params: map[string]float64{"alpha": math.NaN()}}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.spec.Normalize()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Normalize() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, errors.ErrCodeInvalidDistribution) {
					t.Errorf("error code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidDistribution)
				}
				return
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Normalize() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestNormalizeDoesNotModify(t *testing.T) {
	spec := Spec{Family: "normal", Params: map[string]float64{"scale": 3}}
	if _, err := spec.Normalize(); err != nil {
		t.Fatal(err)
	}
	if len(spec.Params) != 1 {
		t.Errorf("Normalize() modified the input params: %v", spec.Params)
	}
}

func TestSpecString(t *testing.T) {
	tests := []struct {
		spec Spec
		want string
	}{
		{Spec{Family: "normal", Params: map[string]float64{"loc": 0, "scale": 1}}, "normal(loc=0, scale=1)"},
		{Spec{Family: "studentst", Params: map[string]float64{"nu": 3, "loc": 0, "scale": 1.5}}, "studentst(nu=3, loc=0, scale=1.5)"},
		{Spec{Family: "mystery", Params: map[string]float64{"b": 2, "a": 1}}, "mystery(a=1, b=2)"},
	}
	for _, tt := range tests {
		if got := tt.spec.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestSpecTitle(t *testing.T) {
	if got := (Spec{Family: "normal"}).Title(); got != "A Gaussian PDF" {
		t.Errorf("Title() = %q, want %q", got, "A Gaussian PDF")
	}
	if got := (Spec{Family: "gamma"}).Title(); got != "A Gamma PDF" {
		t.Errorf("Title() = %q, want %q", got, "A Gamma PDF")
	}
}

func TestFamiliesAndParams(t *testing.T) {
	fams := Families()
	if len(fams) != len(families) {
		t.Fatalf("Families() = %v", fams)
	}
	for i := 1; i < len(fams); i++ {
		if fams[i-1] >= fams[i] {
			t.Errorf("Families() not sorted: %v", fams)
		}
	}
	if diff := cmp.Diff([]string{"loc", "scale"}, Params("gaussian")); diff != "" {
		t.Errorf("Params(gaussian) mismatch (-want +got):\n%s", diff)
	}
	if Params("nope") != nil {
		t.Error("Params(unknown) should be nil")
	}
}

func TestNewEveryFamilyPlots(t *testing.T) {
	for _, name := range Families() {
		t.Run(name, func(t *testing.T) {
			d, err := New(Spec{Family: name}, NewSource(1))
			if err != nil {
				t.Fatalf("New(%s) error: %v", name, err)
			}
			_, _, err = curve.Domain(d)
			if name == "point" {
				if !errors.Is(err, errors.ErrCodeInvalidDomain) {
					t.Errorf("Domain(point) error = %v, want %s", err, errors.ErrCodeInvalidDomain)
				}
				return
			}
			if err != nil {
				t.Errorf("Domain(%s) error: %v", name, err)
			}
		})
	}
}

func TestStandardNormalValues(t *testing.T) {
	d, err := New(Spec{Family: "normal"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if got := d.Prob(0); math.Abs(got-0.398942) > 1e-6 {
		t.Errorf("Prob(0) = %v, want ≈ 0.398942", got)
	}
	if got := d.Quantile(0.0001); math.Abs(got+3.719016) > 1e-5 {
		t.Errorf("Quantile(0.0001) = %v, want ≈ -3.719016", got)
	}
	if got := d.LogProb(1); math.Abs(got-math.Log(d.Prob(1))) > 1e-12 {
		t.Errorf("LogProb(1) = %v, want log(Prob(1))", got)
	}
}

func TestPoint(t *testing.T) {
	p := Point{At: 1.5}
	if p.Quantile(0.0001) != 1.5 || p.Quantile(0.9999) != 1.5 {
		t.Error("Quantile should be constant")
	}
	if !math.IsInf(p.Prob(1.5), 1) || p.Prob(0) != 0 {
		t.Error("Prob should be +Inf at At and 0 elsewhere")
	}
	if !math.IsInf(p.LogProb(0), -1) {
		t.Error("LogProb should be -Inf away from At")
	}
	if p.Rand() != 1.5 {
		t.Error("Rand should return At")
	}
}
