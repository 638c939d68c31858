package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/matzehuels/densitywalk/pkg/config"
	"github.com/matzehuels/densitywalk/pkg/curve"
	"github.com/matzehuels/densitywalk/pkg/errors"
	"github.com/matzehuels/densitywalk/pkg/pipeline"
)

// plotFlags mirrors pipeline.Options for the plot command.
type plotFlags struct {
	dist       distFlags
	lower      float64
	upper      float64
	points     int
	width      float64
	height     float64
	title      string
	backend    string
	color      string
	lineWidth  float64
	grid       bool
	marks      []float64
	formatsStr string
	output     string
	configPath string
	noCache    bool
	refresh    bool
}

// plotCommand creates the plot command for rendering density curves.
func (c *CLI) plotCommand() *cobra.Command {
	var f plotFlags

	cmd := &cobra.Command{
		Use:   "plot",
		Short: "Render the density curve of a distribution",
		Long: `Render the density curve of a distribution to SVG, PNG, PDF or JSON.

The plotted domain runs from the lower to the upper tail quantile, so the
curve adapts to the distribution's location and spread. The default tails
(0.0001 and 0.9999) capture 99.98% of the probability mass.

Settings can also come from a TOML, YAML or JSON file passed with --config.
Flags given on the command line override values from the file.

Results are cached locally for faster subsequent runs.`,
		Example: `  densitywalk plot
  densitywalk plot -d gamma -p alpha=2 -p beta=0.5 -f svg,png
  densitywalk plot -d studentst -p nu=3 -b gonum -o out/t3
  densitywalk plot --mark 1.5 --mark -1 --grid --color '#d62728'
  densitywalk plot --config plot.toml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := f.options(cmd.Flags())
			if err != nil {
				return err
			}
			return c.runPlot(cmd.Context(), opts, f.output, f.noCache)
		},
	}

	f.register(cmd)
	return cmd
}

// register adds the plot flags to cmd.
func (f *plotFlags) register(cmd *cobra.Command) {
	f.dist.register(cmd)

	fs := cmd.Flags()
	fs.Float64Var(&f.lower, "lower", curve.DefaultLowerTail, "lower tail mass excluded from the domain")
	fs.Float64Var(&f.upper, "upper", curve.DefaultUpperTail, "upper quantile bounding the domain")
	fs.IntVar(&f.points, "points", curve.DefaultPoints, "number of evenly spaced curve samples")
	fs.Float64Var(&f.width, "width", pipeline.DefaultWidth, "frame width in pixels")
	fs.Float64Var(&f.height, "height", pipeline.DefaultHeight, "frame height in pixels")
	fs.StringVarP(&f.title, "title", "t", "", "plot title (default derived from the distribution)")
	fs.StringVarP(&f.backend, "backend", "b", pipeline.DefaultBackend, "plotting backend: "+strings.Join(pipeline.Backends(), ", "))
	fs.StringVar(&f.color, "color", pipeline.DefaultColor, "curve colour as #rrggbb")
	fs.Float64Var(&f.lineWidth, "line-width", pipeline.DefaultLineWidth, "curve width in pixels")
	fs.BoolVar(&f.grid, "grid", false, "draw grid lines")
	fs.Float64SliceVarP(&f.marks, "mark", "m", nil, "mark x with a rule labelled by its density (repeatable)")
	fs.StringVarP(&f.formatsStr, "format", "f", "", "output format(s): svg (default), png, pdf, json (comma-separated)")
	fs.StringVarP(&f.output, "output", "o", "", "output file (single format) or base path (multiple)")
	fs.StringVarP(&f.configPath, "config", "c", "", "read plot settings from a TOML, YAML or JSON file")
	fs.BoolVar(&f.noCache, "no-cache", false, "disable caching")
	fs.BoolVar(&f.refresh, "refresh", false, "re-render even when cached artifacts exist")

	_ = cmd.RegisterFlagCompletionFunc("backend", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return pipeline.Backends(), cobra.ShellCompDirectiveNoFileComp
	})
	_ = cmd.MarkFlagFilename("config", "toml", "yaml", "yml", "json")
}

// options builds pipeline options. Without --config every flag applies;
// with it, only flags set explicitly override the file.
func (f *plotFlags) options(fs *pflag.FlagSet) (pipeline.Options, error) {
	var opts pipeline.Options
	if f.configPath != "" {
		loaded, err := config.Load(f.configPath)
		if err != nil {
			return pipeline.Options{}, err
		}
		opts = loaded
	}
	set := func(name string) bool { return f.configPath == "" || fs.Changed(name) }

	if f.configPath == "" || f.dist.changed(fs) {
		params, err := parseParams(f.dist.params)
		if err != nil {
			return pipeline.Options{}, err
		}
		if set("dist") {
			opts.Dist.Family = f.dist.family
		}
		if set("param") {
			opts.Dist.Params = params
		}
	}
	if set("lower") {
		opts.LowerTail = f.lower
	}
	if set("upper") {
		opts.UpperTail = f.upper
	}
	if set("points") {
		opts.Points = f.points
	}
	if set("width") {
		opts.Width = f.width
	}
	if set("height") {
		opts.Height = f.height
	}
	if set("title") {
		opts.Title = f.title
	}
	if set("backend") {
		opts.Backend = f.backend
	}
	if set("color") {
		opts.Color = f.color
	}
	if set("line-width") {
		opts.LineWidth = f.lineWidth
	}
	if set("grid") {
		opts.Grid = f.grid
	}
	if set("mark") {
		opts.Marks = f.marks
	}
	if set("format") || len(opts.Formats) == 0 {
		opts.Formats = parseFormats(f.formatsStr)
	}
	opts.Refresh = f.refresh

	if err := opts.ValidateAndSetDefaults(); err != nil {
		return pipeline.Options{}, err
	}
	return opts, nil
}

// runPlot renders opts and writes one file per format.
func (c *CLI) runPlot(ctx context.Context, opts pipeline.Options, output string, noCache bool) error {
	paths, err := outputPaths(output, opts.Dist.Family, opts.Formats)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = loggerFromContext(ctx)
	prog := newProgress(opts.Logger)

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Plotting %s...", opts.Dist))
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Plot failed")
		return fmt.Errorf("plot: %w", err)
	}
	spinner.Stop()

	for _, format := range opts.Formats {
		if err := writeArtifact(paths[format], result.Artifacts[format]); err != nil {
			return err
		}
	}
	prog.done(fmt.Sprintf("Rendered %d artifacts", len(opts.Formats)))

	printSuccess("Plotted %s", StyleTitle.Render(result.Spec.String()))
	printPlotStats(result.Stats.Points, result.Lo, result.Hi, result.CacheHit)
	printDetail("peak density %s at x = %s", formatFloat(result.Stats.PeakDensity), formatFloat(result.Stats.PeakX))
	for _, format := range opts.Formats {
		printFile(paths[format])
	}
	return nil
}

// outputPaths maps each format to a file path. A single format with an
// output that already carries its extension is used as-is; otherwise the
// output (or the family name) is a stem that gets one extension per format.
func outputPaths(output, family string, formats []string) (map[string]string, error) {
	stem := output
	if stem == "" {
		stem = family
	}
	if err := errors.ValidatePath(stem); err != nil {
		return nil, err
	}

	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(stem)), ".")
	if pipeline.ValidFormats[ext] {
		if len(formats) == 1 && formats[0] == ext {
			return map[string]string{ext: stem}, nil
		}
		if slices.Contains(formats, ext) {
			stem = strings.TrimSuffix(stem, filepath.Ext(stem))
		}
	}

	paths := make(map[string]string, len(formats))
	for _, format := range formats {
		paths[format] = stem + "." + format
	}
	return paths, nil
}

func writeArtifact(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
