package pipeline

import (
	"math"
	"math/rand/v2"
	"strconv"

	"github.com/matzehuels/densitywalk/pkg/dist"
	"github.com/matzehuels/densitywalk/pkg/errors"
)

// =============================================================================
// Point queries
// =============================================================================

// Float is a float64 that encodes NaN and ±Inf as JSON null. Densities are
// infinite at a point mass and log densities are -Inf outside the support.
type Float float64

func (f Float) MarshalJSON() ([]byte, error) {
	v := float64(f)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return []byte("null"), nil
	}
	return strconv.AppendFloat(nil, v, 'g', -1, 64), nil
}

func floats(vs []float64) []Float {
	out := make([]Float, len(vs))
	for i, v := range vs {
		out[i] = Float(v)
	}
	return out
}

// DensityReport is the density of a distribution at one x value.
type DensityReport struct {
	Dist       string  `json:"dist"`
	X          float64 `json:"x"`
	Density    Float   `json:"density"`
	LogDensity Float   `json:"log_density"`
}

// Density evaluates the density of spec at x. x must be finite.
func Density(spec dist.Spec, x float64) (DensityReport, error) {
	if err := errors.ValidateFinite("x", x); err != nil {
		return DensityReport{}, err
	}
	n, err := spec.Normalize()
	if err != nil {
		return DensityReport{}, err
	}
	d, err := dist.New(n, nil)
	if err != nil {
		return DensityReport{}, err
	}
	return DensityReport{Dist: n.String(), X: x, Density: Float(d.Prob(x)), LogDensity: Float(d.LogProb(x))}, nil
}

// Draws are i.i.d. values drawn from a distribution. Seed reproduces them.
type Draws struct {
	Dist   string    `json:"dist"`
	Seed   uint64    `json:"seed"`
	Values []float64 `json:"values"`
}

// Sample draws n values from spec. A zero seed picks a random one, which is
// reported in the result.
func Sample(spec dist.Spec, n int, seed uint64) (Draws, error) {
	if n < 0 || n > MaxDraws {
		return Draws{}, errors.New(errors.ErrCodeInvalidInput, "n must be between 0 and %d, got %d", MaxDraws, n)
	}
	norm, err := spec.Normalize()
	if err != nil {
		return Draws{}, err
	}
	for seed == 0 {
		seed = rand.Uint64()
	}
	d, err := dist.New(norm, dist.NewSource(seed))
	if err != nil {
		return Draws{}, err
	}
	xs, err := dist.Sample(d, n)
	if err != nil {
		return Draws{}, err
	}
	return Draws{Dist: norm.String(), Seed: seed, Values: xs}, nil
}

// LikelihoodReport scores draws under the distribution they came from.
type LikelihoodReport struct {
	Draws
	Densities     []Float `json:"densities"`
	LogDensities  []Float `json:"log_densities"`
	JointDensity  Float   `json:"joint_density"`
	LogLikelihood Float   `json:"log_likelihood"`
}

// Likelihood draws n values from spec and reports their densities, their
// joint density (product) and their log-likelihood (sum of logs).
func Likelihood(spec dist.Spec, n int, seed uint64) (LikelihoodReport, error) {
	draws, err := Sample(spec, n, seed)
	if err != nil {
		return LikelihoodReport{}, err
	}
	d, err := dist.New(spec, nil)
	if err != nil {
		return LikelihoodReport{}, err
	}
	return LikelihoodReport{
		Draws:         draws,
		Densities:     floats(dist.Densities(d, draws.Values)),
		LogDensities:  floats(dist.LogDensities(d, draws.Values)),
		JointDensity:  Float(dist.JointDensity(d, draws.Values)),
		LogLikelihood: Float(dist.LogLikelihood(d, draws.Values)),
	}, nil
}
