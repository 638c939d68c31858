package curve

import (
	"math"
	"reflect"

	"github.com/matzehuels/densitywalk/pkg/errors"
)

const (
	// XLabel is the fixed x axis label applied by Render.
	XLabel = "x value"

	// YLabel is the fixed y axis label applied by Render.
	YLabel = "likelihood"

	// DefaultLowerTail is the probability mass excluded below the domain.
	DefaultLowerTail = 0.0001

	// DefaultUpperTail is the cumulative probability at the top of the domain.
	DefaultUpperTail = 0.9999

	// DefaultPoints is the number of samples along the curve.
	DefaultPoints = 1000
)

// Distribution is the capability Render needs from a probability distribution.
// Quantile must be non-decreasing in p and Prob must be non-negative.
type Distribution interface {
	// Quantile returns the inverse CDF at p.
	Quantile(p float64) float64
	// Prob returns the probability density at x.
	Prob(x float64) float64
}

// Surface is the capability Render needs from a drawing target.
type Surface interface {
	SetXLabel(label string)
	SetYLabel(label string)
	// PlotLine draws one connected curve through (xs[i], ys[i]) in order.
	// Implementations must not mutate themselves when returning an error.
	PlotLine(xs, ys []float64) error
}

// Validator is implemented by surfaces that can tell up front whether they are
// able to draw, typically adapters around another plotting backend.
type Validator interface {
	Validate() error
}

// Curve is a sampled density curve.
type Curve struct {
	Xs []float64 `json:"xs"`
	Ys []float64 `json:"ys"`
}

// Len returns the number of sample points.
func (c Curve) Len() int { return len(c.Xs) }

// Lo returns the first x value, or NaN for an empty curve.
func (c Curve) Lo() float64 {
	if len(c.Xs) == 0 {
		return math.NaN()
	}
	return c.Xs[0]
}

// Hi returns the last x value, or NaN for an empty curve.
func (c Curve) Hi() float64 {
	if len(c.Xs) == 0 {
		return math.NaN()
	}
	return c.Xs[len(c.Xs)-1]
}

// Peak returns the index of the largest density value, or -1 for an empty curve.
// Ties resolve to the leftmost point.
func (c Curve) Peak() int {
	best := -1
	for i, y := range c.Ys {
		if best < 0 || y > c.Ys[best] {
			best = i
		}
	}
	return best
}

// Domain returns the display domain [lo, hi] of d: the quantiles at the lower
// and upper tail masses. It fails with ErrCodeInvalidDomain when either bound
// is not finite or lo >= hi.
func Domain(d Distribution, opts ...Option) (lo, hi float64, err error) {
	o, err := newOptions(opts)
	if err != nil {
		return 0, 0, err
	}
	return domain(d, o)
}

func domain(d Distribution, o options) (float64, float64, error) {
	if isNil(d) {
		return 0, 0, errors.New(errors.ErrCodeInvalidInput, "distribution is nil")
	}
	lo, hi := d.Quantile(o.lowerTail), d.Quantile(o.upperTail)
	if !finite(lo) {
		return 0, 0, errors.New(errors.ErrCodeInvalidDomain, "quantile(%g) is not finite: %g", o.lowerTail, lo)
	}
	if !finite(hi) {
		return 0, 0, errors.New(errors.ErrCodeInvalidDomain, "quantile(%g) is not finite: %g", o.upperTail, hi)
	}
	if lo >= hi {
		return 0, 0, errors.New(errors.ErrCodeInvalidDomain, "degenerate domain [%g, %g]", lo, hi)
	}
	return lo, hi, nil
}

// Evaluate samples the density of d across its display domain without drawing
// anything. Render uses the same computation.
func Evaluate(d Distribution, opts ...Option) (Curve, error) {
	o, err := newOptions(opts)
	if err != nil {
		return Curve{}, err
	}
	return evaluate(d, o)
}

func evaluate(d Distribution, o options) (Curve, error) {
	lo, hi, err := domain(d, o)
	if err != nil {
		return Curve{}, err
	}
	xs := Linspace(lo, hi, o.points)
	ys := make([]float64, len(xs))
	for i, x := range xs {
		ys[i] = d.Prob(x)
	}
	return Curve{Xs: xs, Ys: ys}, nil
}

// Render draws the density curve of d onto s and labels both axes, returning s
// so callers can keep decorating it (a title, for instance).
//
// The domain is validated and the curve computed before s is touched; on any
// error s is returned unchanged.
func Render[S Surface](d Distribution, s S, opts ...Option) (S, error) {
	o, err := newOptions(opts)
	if err != nil {
		return s, err
	}
	if isNil(s) {
		return s, errors.New(errors.ErrCodeSurfaceCapability, "surface is nil")
	}
	if v, ok := any(s).(Validator); ok {
		if err := v.Validate(); err != nil {
			return s, errors.Wrap(errors.ErrCodeSurfaceCapability, err, "surface cannot draw")
		}
	}

	c, err := evaluate(d, o)
	if err != nil {
		return s, err
	}

	// The line goes first: it is the only step that can fail, and labels are
	// plain setters.
	if err := s.PlotLine(c.Xs, c.Ys); err != nil {
		return s, errors.Wrap(errors.ErrCodeSurfaceCapability, err, "plot line")
	}
	s.SetXLabel(XLabel)
	s.SetYLabel(YLabel)
	return s, nil
}

// Linspace returns n evenly spaced values over the closed interval [lo, hi].
// The first value is exactly lo and the last exactly hi. n < 1 yields nil and
// n == 1 yields [lo].
func Linspace(lo, hi float64, n int) []float64 {
	if n < 1 {
		return nil
	}
	xs := make([]float64, n)
	if n == 1 {
		xs[0] = lo
		return xs
	}
	step := (hi - lo) / float64(n-1)
	for i := range xs {
		xs[i] = lo + float64(i)*step
	}
	xs[n-1] = hi
	return xs
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}
