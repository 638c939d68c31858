package cli

import (
	"encoding/json"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/densitywalk/pkg/errors"
	"github.com/matzehuels/densitywalk/pkg/pipeline"
)

// densityCommand creates the density command for reading off single points.
func (c *CLI) densityCommand() *cobra.Command {
	var (
		df     distFlags
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "density x [x...]",
		Short: "Print the density and log density at points",
		Long: `Print the density and log density of a distribution at one or more x values.

The density is not a probability: it is the relative credibility of a value,
and only integrates to a probability over an interval.`,
		Example: `  densitywalk density 0
  densitywalk density -d exponential -p rate=2 0.1 0.5 1
  densitywalk density -- -1.5 0 1.5`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			spec, err := df.spec()
			if err != nil {
				return err
			}
			reports := make([]pipeline.DensityReport, 0, len(args))
			for _, arg := range args {
				x, err := strconv.ParseFloat(arg, 64)
				if err != nil {
					return errors.New(errors.ErrCodeInvalidInput, "x %q is not a number", arg)
				}
				r, err := pipeline.Density(spec, x)
				if err != nil {
					return err
				}
				reports = append(reports, r)
			}
			loggerFromContext(cmd.Context()).Debug("evaluated density", "dist", spec, "points", len(reports))

			if asJSON {
				return writeJSON(reports)
			}
			printInfo("%s", StyleTitle.Render(spec.String()))
			rows := make([][]string, len(reports))
			for i, r := range reports {
				rows[i] = []string{formatFloat(r.X), formatFloat(float64(r.Density)), formatFloat(float64(r.LogDensity))}
			}
			printTable([]string{"x", "density", "log density"}, rows)
			return nil
		},
	}

	df.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	return cmd
}

// writeJSON prints v as indented JSON on stdout.
func writeJSON(v any) error {
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
