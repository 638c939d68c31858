// Package curve renders the density curve of a continuous probability
// distribution onto a drawing surface.
//
// # Overview
//
// [Render] picks the display domain automatically from the distribution's
// quantile function, so callers never pass bounds:
//
//  1. x_min = Quantile(0.0001), x_max = Quantile(0.9999)
//  2. 1000 evenly spaced points over [x_min, x_max], endpoints included
//  3. one density evaluation per point, in ascending x order
//  4. axis labels "x value" and "likelihood"
//  5. a single connected line through all points
//
// The domain therefore covers 99.98% of the probability mass and adapts to
// the location and scale of whatever distribution is passed in.
//
// # Capabilities
//
// A [Distribution] only needs Quantile and Prob. Every distribution in
// gonum.org/v1/gonum/stat/distuv satisfies it directly:
//
//	fig := figure.New(800, 600)
//	fig, err := curve.Render(distuv.Normal{Mu: 0, Sigma: 1}, fig)
//
// A [Surface] needs SetXLabel, SetYLabel and PlotLine. Surfaces that wrap
// another backend can also implement [Validator] so missing capabilities are
// reported before anything is drawn.
//
// # Errors
//
// Render fails with [errors.ErrCodeInvalidDomain] when either quantile is not
// finite or the domain has zero width (a point mass, for instance), and with
// [errors.ErrCodeSurfaceCapability] when the surface is nil, fails validation,
// or rejects the curve. In both cases the surface is left untouched.
//
// # Concurrency
//
// The package holds no state. Concurrent calls are safe as long as each call
// gets its own distribution and surface.
//
// [errors.ErrCodeInvalidDomain]: github.com/matzehuels/densitywalk/pkg/errors.ErrCodeInvalidDomain
// [errors.ErrCodeSurfaceCapability]: github.com/matzehuels/densitywalk/pkg/errors.ErrCodeSurfaceCapability
package curve
