package dist

import (
	"gonum.org/v1/gonum/floats"

	"github.com/matzehuels/densitywalk/pkg/errors"
)

// Sampler draws single values from a distribution.
type Sampler interface {
	Rand() float64
}

// Sample draws n independent values from d.
func Sample(d Sampler, n int) ([]float64, error) {
	if n < 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "sample size must be non-negative, got %d", n)
	}
	xs := make([]float64, n)
	for i := range xs {
		xs[i] = d.Rand()
	}
	return xs, nil
}

// Densities evaluates d.Prob at every x, preserving order.
func Densities(d interface{ Prob(float64) float64 }, xs []float64) []float64 {
	ps := make([]float64, len(xs))
	for i, x := range xs {
		ps[i] = d.Prob(x)
	}
	return ps
}

// LogDensities evaluates d.LogProb at every x, preserving order.
func LogDensities(d interface{ LogProb(float64) float64 }, xs []float64) []float64 {
	lps := make([]float64, len(xs))
	for i, x := range xs {
		lps[i] = d.LogProb(x)
	}
	return lps
}

// JointDensity returns the joint density of i.i.d. draws xs: the product of
// the individual densities. It underflows to 0 quickly as len(xs) grows; see
// LogLikelihood. The joint density of no draws is 1.
func JointDensity(d interface{ Prob(float64) float64 }, xs []float64) float64 {
	return floats.Prod(Densities(d, xs))
}

// LogLikelihood returns the sum of log densities of xs under d.
func LogLikelihood(d interface{ LogProb(float64) float64 }, xs []float64) float64 {
	return floats.Sum(LogDensities(d, xs))
}
