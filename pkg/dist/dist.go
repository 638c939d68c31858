// Package dist builds continuous probability distributions from a small,
// serializable description and provides the i.i.d. helpers used throughout
// densitywalk: batch densities, sampling, joint density and log-likelihood.
//
// Distributions are backed by gonum.org/v1/gonum/stat/distuv, except for the
// degenerate "point" family which lives in this package. Every value returned
// by [New] satisfies [curve.Distribution].
//
//	d, err := dist.New(dist.Spec{Family: "normal"}, dist.NewSource(42))
//	xs, err := dist.Sample(d, 10)
//	ll := dist.LogLikelihood(d, xs)
//
// [curve.Distribution]: github.com/matzehuels/densitywalk/pkg/curve.Distribution
package dist

import (
	"fmt"
	"maps"
	"math"
	"math/rand/v2"
	"slices"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/matzehuels/densitywalk/pkg/errors"
)

// Continuous is a distribution that can be plotted, scored and sampled.
type Continuous interface {
	Quantile(p float64) float64
	Prob(x float64) float64
	LogProb(x float64) float64
	Rand() float64
}

// Spec describes a distribution by family name and named parameters.
// Missing parameters take the family defaults.
type Spec struct {
	Family string             `json:"family" toml:"family" yaml:"family"`
	Params map[string]float64 `json:"params,omitempty" toml:"params" yaml:"params,omitempty"`
}

// param is a named family parameter with its default.
type param struct {
	name string
	def  float64
}

// family knows how to validate its parameters and build the distribution.
type family struct {
	display string
	params  []param
	check   func(p map[string]float64) error
	build   func(p map[string]float64, src rand.Source) Continuous
}

var families = map[string]family{
	"normal": {
		display: "Gaussian",
		params:  []param{{"loc", 0}, {"scale", 1}},
		check:   positive("scale"),
		build: func(p map[string]float64, src rand.Source) Continuous {
			return distuv.Normal{Mu: p["loc"], Sigma: p["scale"], Src: src}
		},
	},
	"uniform": {
		display: "Uniform",
		params:  []param{{"min", 0}, {"max", 1}},
		check: func(p map[string]float64) error {
			if p["max"] <= p["min"] {
				return fmt.Errorf("max (%g) must be greater than min (%g)", p["max"], p["min"])
			}
			return nil
		},
		build: func(p map[string]float64, src rand.Source) Continuous {
			return distuv.Uniform{Min: p["min"], Max: p["max"], Src: src}
		},
	},
	"exponential": {
		display: "Exponential",
		params:  []param{{"rate", 1}},
		check:   positive("rate"),
		build: func(p map[string]float64, src rand.Source) Continuous {
			return distuv.Exponential{Rate: p["rate"], Src: src}
		},
	},
	"lognormal": {
		display: "Log-normal",
		params:  []param{{"mu", 0}, {"sigma", 1}},
		check:   positive("sigma"),
		build: func(p map[string]float64, src rand.Source) Continuous {
			return distuv.LogNormal{Mu: p["mu"], Sigma: p["sigma"], Src: src}
		},
	},
	"gamma": {
		display: "Gamma",
		params:  []param{{"alpha", 2}, {"beta", 1}},
		check:   positive("alpha", "beta"),
		build: func(p map[string]float64, src rand.Source) Continuous {
			return distuv.Gamma{Alpha: p["alpha"], Beta: p["beta"], Src: src}
		},
	},
	"beta": {
		display: "Beta",
		params:  []param{{"alpha", 2}, {"beta", 2}},
		check:   positive("alpha", "beta"),
		build: func(p map[string]float64, src rand.Source) Continuous {
			return distuv.Beta{Alpha: p["alpha"], Beta: p["beta"], Src: src}
		},
	},
	"laplace": {
		display: "Laplace",
		params:  []param{{"loc", 0}, {"scale", 1}},
		check:   positive("scale"),
		build: func(p map[string]float64, src rand.Source) Continuous {
			return distuv.Laplace{Mu: p["loc"], Scale: p["scale"], Src: src}
		},
	},
	"studentst": {
		display: "Student's t",
		params:  []param{{"nu", 3}, {"loc", 0}, {"scale", 1}},
		check:   positive("nu", "scale"),
		build: func(p map[string]float64, src rand.Source) Continuous {
			return distuv.StudentsT{Mu: p["loc"], Sigma: p["scale"], Nu: p["nu"], Src: src}
		},
	},
	"weibull": {
		display: "Weibull",
		params:  []param{{"k", 1.5}, {"lambda", 1}},
		check:   positive("k", "lambda"),
		build: func(p map[string]float64, src rand.Source) Continuous {
			return distuv.Weibull{K: p["k"], Lambda: p["lambda"], Src: src}
		},
	},
	"chisquared": {
		display: "Chi-squared",
		params:  []param{{"k", 3}},
		check:   positive("k"),
		build: func(p map[string]float64, src rand.Source) Continuous {
			return distuv.ChiSquared{K: p["k"], Src: src}
		},
	},
	"point": {
		display: "Point mass",
		params:  []param{{"at", 0}},
		build: func(p map[string]float64, _ rand.Source) Continuous {
			return Point{At: p["at"]}
		},
	},
}

// aliases maps common alternative names onto family names.
var aliases = map[string]string{
	"gaussian": "normal",
	"gauss":    "normal",
	"exp":      "exponential",
	"t":        "studentst",
	"student":  "studentst",
	"chi2":     "chisquared",
	"constant": "point",
	"dirac":    "point",
}

func positive(names ...string) func(map[string]float64) error {
	return func(p map[string]float64) error {
		for _, n := range names {
			if p[n] <= 0 {
				return fmt.Errorf("%s must be positive, got %g", n, p[n])
			}
		}
		return nil
	}
}

// Families returns the supported family names in sorted order.
func Families() []string {
	return slices.Sorted(maps.Keys(families))
}

// Params returns the parameter names of family in declaration order, or nil for
// an unknown family.
func Params(name string) []string {
	f, ok := families[canonical(name)]
	if !ok {
		return nil
	}
	names := make([]string, len(f.params))
	for i, p := range f.params {
		names[i] = p.name
	}
	return names
}

func canonical(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if a, ok := aliases[name]; ok {
		return a
	}
	return name
}

// Normalize resolves aliases, fills default parameters and validates the spec.
// It returns a new Spec and never modifies s.
func (s Spec) Normalize() (Spec, error) {
	name := canonical(s.Family)
	if name == "" {
		name = "normal"
	}
	f, ok := families[name]
	if !ok {
		return Spec{}, errors.New(errors.ErrCodeInvalidDistribution,
			"unknown distribution family %q (must be one of: %s)", s.Family, strings.Join(Families(), ", "))
	}

	params := make(map[string]float64, len(f.params))
	for _, p := range f.params {
		params[p.name] = p.def
	}
	for k, v := range s.Params {
		k = strings.ToLower(k)
		if _, ok := params[k]; !ok {
			return Spec{}, errors.New(errors.ErrCodeInvalidDistribution,
				"unknown parameter %q for %s (expected: %s)", k, name, strings.Join(Params(name), ", "))
		}
		if err := errors.ValidateFinite(k, v); err != nil {
			return Spec{}, errors.Wrap(errors.ErrCodeInvalidDistribution, err, "invalid %s parameter", name)
		}
		params[k] = v
	}
	if f.check != nil {
		if err := f.check(params); err != nil {
			return Spec{}, errors.Wrap(errors.ErrCodeInvalidDistribution, err, "invalid %s parameters", name)
		}
	}
	return Spec{Family: name, Params: params}, nil
}

// String renders the spec as family(name=value, ...) with parameters in
// declaration order. Unnormalized specs are printed as given.
func (s Spec) String() string {
	names := Params(s.Family)
	if names == nil {
		names = slices.Sorted(maps.Keys(s.Params))
	}
	parts := make([]string, 0, len(names))
	for _, n := range names {
		v, ok := s.Params[n]
		if !ok {
			continue
		}
		parts = append(parts, n+"="+strconv.FormatFloat(v, 'g', -1, 64))
	}
	return canonical(s.Family) + "(" + strings.Join(parts, ", ") + ")"
}

// Title returns a plot title such as "A Gaussian PDF".
func (s Spec) Title() string {
	f, ok := families[canonical(s.Family)]
	if !ok {
		return "A PDF"
	}
	return "A " + f.display + " PDF"
}

// New validates spec and builds the distribution. src seeds Rand; a nil src
// falls back to the global math/rand/v2 source.
func New(spec Spec, src rand.Source) (Continuous, error) {
	n, err := spec.Normalize()
	if err != nil {
		return nil, err
	}
	return families[n.Family].build(n.Params, src), nil
}

// NewSource returns a deterministic PCG source for seed.
func NewSource(seed uint64) rand.Source {
	return rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)
}

// Point is a degenerate distribution with all mass at At. Its quantile
// function is constant, so it has no plottable domain.
type Point struct {
	At float64
}

// Quantile returns At for every p.
func (p Point) Quantile(float64) float64 { return p.At }

// Prob returns +Inf at At and 0 elsewhere.
func (p Point) Prob(x float64) float64 {
	if x == p.At {
		return math.Inf(1)
	}
	return 0
}

// LogProb returns +Inf at At and -Inf elsewhere.
func (p Point) LogProb(x float64) float64 {
	if x == p.At {
		return math.Inf(1)
	}
	return math.Inf(-1)
}

// Rand returns At.
func (p Point) Rand() float64 { return p.At }
