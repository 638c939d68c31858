package cli

import (
	"context"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/matzehuels/densitywalk/pkg/buildinfo"
	"github.com/matzehuels/densitywalk/pkg/cache"
	"github.com/matzehuels/densitywalk/pkg/dist"
	"github.com/matzehuels/densitywalk/pkg/errors"
	"github.com/matzehuels/densitywalk/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "densitywalk"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "densitywalk plots, samples and scores probability distributions",
		Long: `densitywalk walks through the basics of probability distributions:
density curves over an automatically chosen domain, the density at a single
point, i.i.d. sampling, joint density and log-likelihood.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.plotCommand())
	root.AddCommand(c.densityCommand())
	root.AddCommand(c.sampleCommand())
	root.AddCommand(c.likelihoodCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner backed by the local file cache.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	cc, err := newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cc, nil, c.Logger), nil
}

// newCache opens the local file cache. Without a resolvable cache directory
// caching is disabled rather than failing the command.
func newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		loggerFromContext(ctx).Debug("caching disabled", "reason", err)
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// cacheDir returns the artifact cache directory (~/.cache/densitywalk/).
func cacheDir() (string, error) {
	return cache.DefaultDir()
}

// =============================================================================
// Distribution Flags
// =============================================================================

// distFlags are the flags shared by every command that takes a distribution.
type distFlags struct {
	family string
	params map[string]string
}

// register adds --dist and --param to cmd.
func (f *distFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVarP(&f.family, "dist", "d", "normal", "distribution family: "+strings.Join(dist.Families(), ", "))
	fs.StringToStringVarP(&f.params, "param", "p", nil, "distribution parameter as name=value (repeatable)")
	_ = cmd.RegisterFlagCompletionFunc("dist", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return dist.Families(), cobra.ShellCompDirectiveNoFileComp
	})
}

// spec parses the flags into a normalized distribution spec.
func (f *distFlags) spec() (dist.Spec, error) {
	params, err := parseParams(f.params)
	if err != nil {
		return dist.Spec{}, err
	}
	return dist.Spec{Family: f.family, Params: params}.Normalize()
}

// changed reports whether either distribution flag was set explicitly.
func (f *distFlags) changed(fs *pflag.FlagSet) bool {
	return fs.Changed("dist") || fs.Changed("param")
}

// parseParams converts name=value pairs into float parameters.
func parseParams(raw map[string]string) (map[string]float64, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	params := make(map[string]float64, len(raw))
	for name, s := range raw {
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return nil, errors.New(errors.ErrCodeInvalidDistribution, "parameter %s=%q is not a number", name, s)
		}
		params[name] = v
	}
	return params, nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	return strings.Split(s, ",")
}
