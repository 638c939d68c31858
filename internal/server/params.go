package server

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/matzehuels/densitywalk/pkg/dist"
	"github.com/matzehuels/densitywalk/pkg/errors"
	"github.com/matzehuels/densitywalk/pkg/pipeline"
)

// paramPrefix marks distribution parameters in the query string.
const paramPrefix = "p."

// defaultDraws is n when a draw request omits it.
const defaultDraws = 10

// query wraps url.Values with typed, validating getters. The first parse
// error sticks; later getters return zero values.
type query struct {
	v   url.Values
	err error
}

func newQuery(v url.Values) *query { return &query{v: v} }

func (q *query) fail(err error) {
	if q.err == nil {
		q.err = err
	}
}

func (q *query) str(name string) string {
	return strings.TrimSpace(q.v.Get(name))
}

func (q *query) float(name string) float64 {
	s := q.str(name)
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		q.fail(errors.New(errors.ErrCodeInvalidInput, "%s=%q is not a number", name, s))
		return 0
	}
	return v
}

// requiredFloat is float for parameters that have no default.
func (q *query) requiredFloat(name string) float64 {
	if q.str(name) == "" {
		q.fail(errors.New(errors.ErrCodeInvalidInput, "%s is required", name))
		return 0
	}
	return q.float(name)
}

func (q *query) int(name string, def int) int {
	s := q.str(name)
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		q.fail(errors.New(errors.ErrCodeInvalidInput, "%s=%q is not an integer", name, s))
		return def
	}
	return v
}

func (q *query) uint64(name string) uint64 {
	s := q.str(name)
	if s == "" {
		return 0
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		q.fail(errors.New(errors.ErrCodeInvalidInput, "%s=%q is not an unsigned integer", name, s))
		return 0
	}
	return v
}

func (q *query) bool(name string) bool {
	s := q.str(name)
	if s == "" {
		return false
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		q.fail(errors.New(errors.ErrCodeInvalidInput, "%s=%q is not a boolean", name, s))
		return false
	}
	return v
}

// floats reads every value of a repeated parameter.
func (q *query) floats(name string) []float64 {
	var out []float64
	for _, raw := range q.v[name] {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			q.fail(errors.New(errors.ErrCodeInvalidInput, "%s=%q is not a number", name, raw))
			return nil
		}
		out = append(out, v)
	}
	return out
}

// spec reads dist and every p.<name> parameter.
func (q *query) spec() dist.Spec {
	spec := dist.Spec{Family: q.str("dist")}
	for key, vals := range q.v {
		name, ok := strings.CutPrefix(key, paramPrefix)
		if !ok || len(vals) == 0 {
			continue
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(vals[0]), 64)
		if err != nil {
			q.fail(errors.New(errors.ErrCodeInvalidDistribution, "parameter %s=%q is not a number", name, vals[0]))
			continue
		}
		if spec.Params == nil {
			spec.Params = make(map[string]float64)
		}
		spec.Params[name] = v
	}
	return spec
}

// plotOptions reads the plot query parameters. Defaults are left to
// pipeline.Options.ValidateAndSetDefaults.
func (q *query) plotOptions(format string) pipeline.Options {
	return pipeline.Options{
		Dist:      q.spec(),
		LowerTail: q.float("lower"),
		UpperTail: q.float("upper"),
		Points:    q.int("points", 0),
		Width:     q.float("width"),
		Height:    q.float("height"),
		Title:     q.str("title"),
		Backend:   q.str("backend"),
		Formats:   []string{format},
		Color:     q.str("color"),
		LineWidth: q.float("line_width"),
		Grid:      q.bool("grid"),
		Marks:     q.floats("mark"),
		Refresh:   q.bool("refresh"),
	}
}
