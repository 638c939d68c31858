package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/densitywalk/pkg/pipeline"
)

// likelihoodCommand creates the likelihood command for scoring draws.
func (c *CLI) likelihoodCommand() *cobra.Command {
	var f drawFlags

	cmd := &cobra.Command{
		Use:   "likelihood",
		Short: "Draw values and report their joint density and log-likelihood",
		Long: `Draw n independent values and score them under the distribution they came from.

For i.i.d. draws the joint density is the product of the individual
densities. The product underflows quickly as n grows, which is why the sum
of log densities (the log-likelihood) is reported alongside it.`,
		Example: `  densitywalk likelihood -n 10 --seed 7
  densitywalk likelihood -n 2000`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			spec, err := f.dist.spec()
			if err != nil {
				return err
			}
			report, err := pipeline.Likelihood(spec, f.n, f.seed)
			if err != nil {
				return err
			}
			loggerFromContext(cmd.Context()).Info("scored draws",
				"dist", report.Dist, "n", len(report.Values), "seed", report.Seed)

			if f.asJSON {
				return writeJSON(report)
			}
			printLikelihood(report)
			return nil
		},
	}

	f.register(cmd, 10)
	return cmd
}

// maxLikelihoodRows bounds the per-draw table; longer runs print totals only.
const maxLikelihoodRows = 50

func printLikelihood(r pipeline.LikelihoodReport) {
	printInfo("%s %s", StyleTitle.Render(r.Dist), StyleDim.Render(fmt.Sprintf("seed %d", r.Seed)))

	if n := len(r.Values); n > 0 && n <= maxLikelihoodRows {
		rows := make([][]string, n)
		for i, v := range r.Values {
			rows[i] = []string{
				strconv.Itoa(i + 1),
				formatFloat(v),
				formatFloat(float64(r.Densities[i])),
				formatFloat(float64(r.LogDensities[i])),
			}
		}
		printTable([]string{"#", "x", "density", "log density"}, rows)
	} else if n > maxLikelihoodRows {
		printDetail("%d draws (table omitted)", n)
	}

	printKeyValue("joint density", formatFloat(float64(r.JointDensity)))
	printKeyValue("log-likelihood", formatFloat(float64(r.LogLikelihood)))
	if r.JointDensity == 0 && len(r.Values) > 0 {
		printWarning("joint density underflowed to 0; compare draws by log-likelihood instead")
	}
}
