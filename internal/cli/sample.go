package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/densitywalk/pkg/pipeline"
)

// drawFlags are shared by sample and likelihood.
type drawFlags struct {
	dist   distFlags
	n      int
	seed   uint64
	asJSON bool
}

func (f *drawFlags) register(cmd *cobra.Command, defaultN int) {
	f.dist.register(cmd)
	fs := cmd.Flags()
	fs.IntVarP(&f.n, "count", "n", defaultN, "number of values to draw")
	fs.Uint64Var(&f.seed, "seed", 0, "random seed (0 picks one and reports it)")
	fs.BoolVar(&f.asJSON, "json", false, "print JSON instead of text")
}

// sampleCommand creates the sample command for drawing i.i.d. values.
func (c *CLI) sampleCommand() *cobra.Command {
	var f drawFlags

	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Draw independent values from a distribution",
		Long: `Draw n independent, identically distributed values from a distribution.

Values are printed one per line so they can be piped into other tools. The
seed is logged; pass it back with --seed to reproduce the draws.`,
		Example: `  densitywalk sample -n 10
  densitywalk sample -d uniform -p min=0 -p max=10 -n 5 --seed 42`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			spec, err := f.dist.spec()
			if err != nil {
				return err
			}
			draws, err := pipeline.Sample(spec, f.n, f.seed)
			if err != nil {
				return err
			}
			loggerFromContext(cmd.Context()).Info("drew values", "dist", draws.Dist, "n", len(draws.Values), "seed", draws.Seed)

			if f.asJSON {
				return writeJSON(draws)
			}
			for _, v := range draws.Values {
				fmt.Fprintln(stdout, strconv.FormatFloat(v, 'g', -1, 64))
			}
			return nil
		},
	}

	f.register(cmd, 10)
	return cmd
}
