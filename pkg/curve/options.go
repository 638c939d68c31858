package curve

import "github.com/matzehuels/densitywalk/pkg/errors"

// Option configures Domain, Evaluate and Render.
type Option func(*options)

type options struct {
	lowerTail float64
	upperTail float64
	points    int
}

// WithTails sets the cumulative probabilities at the lower and upper edge of
// the domain (defaults 0.0001 and 0.9999).
func WithTails(lower, upper float64) Option {
	return func(o *options) { o.lowerTail, o.upperTail = lower, upper }
}

// WithPoints sets the number of sample points (default 1000, minimum 2).
func WithPoints(n int) Option {
	return func(o *options) { o.points = n }
}

func newOptions(opts []Option) (options, error) {
	o := options{
		lowerTail: DefaultLowerTail,
		upperTail: DefaultUpperTail,
		points:    DefaultPoints,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if err := errors.ValidateProbability("lower tail", o.lowerTail); err != nil {
		return o, err
	}
	if err := errors.ValidateProbability("upper tail", o.upperTail); err != nil {
		return o, err
	}
	if o.lowerTail >= o.upperTail {
		return o, errors.New(errors.ErrCodeInvalidInput, "lower tail %g must be below upper tail %g", o.lowerTail, o.upperTail)
	}
	if o.points < 2 {
		return o, errors.New(errors.ErrCodeInvalidInput, "points must be at least 2, got %d", o.points)
	}
	return o, nil
}
