// Package pipeline turns a distribution description into rendered plots.
//
// It is the single entry point used by the CLI and the HTTP host, so both
// validate, default, cache and log the same way.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Dist:    dist.Spec{Family: "normal"},
//	    Formats: []string{"svg", "png"},
//	})
//	svg := result.Artifacts["svg"]
//
// Besides plotting, [Density], [Sample] and [Likelihood] answer the point
// queries the CLI and HTTP host expose.
package pipeline

import (
	"io"
	"slices"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/densitywalk/pkg/curve"
	"github.com/matzehuels/densitywalk/pkg/dist"
	"github.com/matzehuels/densitywalk/pkg/errors"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and HTTP host
// =============================================================================

const (
	// DefaultWidth is the default frame width in pixels.
	DefaultWidth = 800.0

	// DefaultHeight is the default frame height in pixels.
	DefaultHeight = 600.0

	// MinSide and MaxSide bound width and height.
	MinSide = 1.0
	MaxSide = 4096.0

	// DefaultColor is the default curve colour.
	DefaultColor = "#1f77b4"

	// DefaultLineWidth is the default curve width in pixels.
	DefaultLineWidth = 2.0

	// MaxLineWidth bounds the curve width.
	MaxLineWidth = 20.0

	// MaxMarks bounds the number of marked x values.
	MaxMarks = 16

	// MaxPoints bounds the number of curve samples.
	MaxPoints = 100_000

	// MaxDraws bounds the number of values Sample and Likelihood draw.
	MaxDraws = 100_000
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
)

// Backend constants for plotting backends.
const (
	// BackendNative draws with densitywalk's own figure and sinks.
	BackendNative = "native"
	// BackendGonum draws with gonum.org/v1/plot.
	BackendGonum = "gonum"
	// BackendGoChart draws with github.com/wcharczuk/go-chart.
	BackendGoChart = "gochart"
)

// DefaultBackend is the default plotting backend.
const DefaultBackend = BackendNative

// BackendFormats lists the formats each backend can produce.
var BackendFormats = map[string][]string{
	BackendNative:  {FormatSVG, FormatPNG, FormatPDF, FormatJSON},
	BackendGonum:   {FormatSVG, FormatPNG, FormatPDF},
	BackendGoChart: {FormatSVG, FormatPNG},
}

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatJSON: true,
}

// Backends returns the backend names in a stable order.
func Backends() []string {
	return []string{BackendNative, BackendGonum, BackendGoChart}
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options configures a plot. It decodes from JSON, TOML and YAML.
type Options struct {
	Dist dist.Spec `json:"dist" toml:"dist" yaml:"dist"`

	// Domain options
	LowerTail float64 `json:"lower_tail,omitempty" toml:"lower_tail" yaml:"lower_tail,omitempty"`
	UpperTail float64 `json:"upper_tail,omitempty" toml:"upper_tail" yaml:"upper_tail,omitempty"`
	Points    int     `json:"points,omitempty" toml:"points" yaml:"points,omitempty"`

	// Render options
	Width   float64  `json:"width,omitempty" toml:"width" yaml:"width,omitempty"`
	Height  float64  `json:"height,omitempty" toml:"height" yaml:"height,omitempty"`
	Title   string   `json:"title,omitempty" toml:"title" yaml:"title,omitempty"`
	Backend string   `json:"backend,omitempty" toml:"backend" yaml:"backend,omitempty"`
	Formats []string `json:"formats,omitempty" toml:"formats" yaml:"formats,omitempty"`

	// Style options
	Color     string    `json:"color,omitempty" toml:"color" yaml:"color,omitempty"`
	LineWidth float64   `json:"line_width,omitempty" toml:"line_width" yaml:"line_width,omitempty"`
	Grid      bool      `json:"grid,omitempty" toml:"grid" yaml:"grid,omitempty"`
	Marks     []float64 `json:"marks,omitempty" toml:"marks" yaml:"marks,omitempty"`

	// Runtime options (not serialized)
	Refresh bool        `json:"-" toml:"-" yaml:"-"`
	Logger  *log.Logger `json:"-" toml:"-" yaml:"-"`

	validated bool
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, png, pdf, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateColor checks that c is a "#rrggbb" hex colour.
func ValidateColor(c string) error {
	if len(c) != 7 || c[0] != '#' {
		return errors.New(errors.ErrCodeInvalidInput, "color %q must look like #rrggbb", c)
	}
	for _, r := range c[1:] {
		if !strings.ContainsRune("0123456789abcdefABCDEF", r) {
			return errors.New(errors.ErrCodeInvalidInput, "color %q must look like #rrggbb", c)
		}
	}
	return nil
}

// ValidateBackend checks that a backend is known.
func ValidateBackend(backend string) error {
	if _, ok := BackendFormats[backend]; !ok {
		return errors.New(errors.ErrCodeInvalidBackend, "invalid backend: %q (must be one of: %s)", backend, strings.Join(Backends(), ", "))
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults normalizes the distribution, applies defaults and
// checks every field. It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}

	spec, err := o.Dist.Normalize()
	if err != nil {
		return err
	}
	o.Dist = spec

	if o.LowerTail == 0 {
		o.LowerTail = curve.DefaultLowerTail
	}
	if o.UpperTail == 0 {
		o.UpperTail = curve.DefaultUpperTail
	}
	if err := errors.ValidateProbability("lower tail", o.LowerTail); err != nil {
		return err
	}
	if err := errors.ValidateProbability("upper tail", o.UpperTail); err != nil {
		return err
	}
	if o.LowerTail >= o.UpperTail {
		return errors.New(errors.ErrCodeInvalidInput, "lower tail %g must be below upper tail %g", o.LowerTail, o.UpperTail)
	}

	if o.Points == 0 {
		o.Points = curve.DefaultPoints
	}
	if o.Points < 2 || o.Points > MaxPoints {
		return errors.New(errors.ErrCodeInvalidInput, "points must be between 2 and %d, got %d", MaxPoints, o.Points)
	}

	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if err := errors.ValidateFinite("width", o.Width); err != nil {
		return err
	}
	if err := errors.ValidateFinite("height", o.Height); err != nil {
		return err
	}
	if o.Width < MinSide || o.Height < MinSide || o.Width > MaxSide || o.Height > MaxSide {
		return errors.New(errors.ErrCodeInvalidInput, "size %gx%g must be between %g and %g", o.Width, o.Height, MinSide, MaxSide)
	}

	if o.Color == "" {
		o.Color = DefaultColor
	}
	o.Color = strings.ToLower(o.Color)
	if err := ValidateColor(o.Color); err != nil {
		return err
	}
	if o.LineWidth == 0 {
		o.LineWidth = DefaultLineWidth
	}
	if err := errors.ValidateFinite("line width", o.LineWidth); err != nil {
		return err
	}
	if o.LineWidth < 0 || o.LineWidth > MaxLineWidth {
		return errors.New(errors.ErrCodeInvalidInput, "line width must be in (0, %g], got %g", MaxLineWidth, o.LineWidth)
	}
	if len(o.Marks) > MaxMarks {
		return errors.New(errors.ErrCodeInvalidInput, "at most %d marks, got %d", MaxMarks, len(o.Marks))
	}
	for _, x := range o.Marks {
		if err := errors.ValidateFinite("mark", x); err != nil {
			return err
		}
	}

	if o.Title == "" {
		o.Title = o.Dist.Title()
	}

	o.Backend = strings.ToLower(o.Backend)
	if o.Backend == "" {
		o.Backend = DefaultBackend
	}
	if err := ValidateBackend(o.Backend); err != nil {
		return err
	}

	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	formats := make([]string, 0, len(o.Formats))
	for _, f := range o.Formats {
		f = strings.ToLower(strings.TrimSpace(f))
		if !slices.Contains(formats, f) {
			formats = append(formats, f)
		}
	}
	o.Formats = formats
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	for _, f := range o.Formats {
		if !slices.Contains(BackendFormats[o.Backend], f) {
			return errors.New(errors.ErrCodeInvalidFormat, "backend %s cannot produce %s (supported: %s)",
				o.Backend, f, strings.Join(BackendFormats[o.Backend], ", "))
		}
	}

	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// CurveOptions returns the domain options for the curve package.
func (o *Options) CurveOptions() []curve.Option {
	return []curve.Option{curve.WithTails(o.LowerTail, o.UpperTail), curve.WithPoints(o.Points)}
}
