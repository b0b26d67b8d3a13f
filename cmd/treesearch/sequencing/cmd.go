package sequencing

import (
	"github.com/spf13/cobra"

	"github.com/katalvlaran/treesearch/internal/cli"
	"github.com/katalvlaran/treesearch/schemes/sequencing"
	"github.com/katalvlaran/treesearch/search"
)

// Solution is the sequencing part of the report.
type Solution struct {
	Order []int   `json:"order"`
	Setup float64 `json:"setup"`
}

func NewSequencingCommand(flags *cli.Flags) *cobra.Command {
	var (
		path    string
		n       int
		seed    int64
		lo, hi  float64
		closed  bool
		noBound bool
	)
	cmd := &cobra.Command{
		Use:     "sequencing",
		Aliases: []string{"atsp"},
		Short:   "Orders jobs to minimise sequence-dependent setup time",
		Long: `Orders jobs to minimise the total sequence-dependent setup time. With
--closed the order is a tour back to job 0 (asymmetric TSP). The instance
is read from --instance (YAML or JSON) or generated from --n and --seed:

closed: true
setup:
  - [0, 3, 9]
  - [4, 0, 2]
  - [1, 8, 0]
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			inst := sequencing.Random(n, lo, hi, closed, seed)
			if path != "" {
				inst = sequencing.Instance{}
				if err := cli.ReadInstance(path, &inst); err != nil {
					return err
				}
			}
			s, err := sequencing.New(inst, sequencing.WithBound(!noBound))
			if err != nil {
				return err
			}

			return flags.Run(cmd, s, decode)
		},
	}
	cmd.Flags().StringVarP(&path, "instance", "i", "", "instance file")
	cmd.Flags().IntVar(&n, "n", 10, "number of random jobs")
	cmd.Flags().Int64Var(&seed, "seed", 1, "random instance seed")
	cmd.Flags().Float64Var(&lo, "min-setup", 1, "smallest random setup time")
	cmd.Flags().Float64Var(&hi, "max-setup", 100, "largest random setup time")
	cmd.Flags().BoolVar(&closed, "closed", false, "return to job 0 at the end")
	cmd.Flags().BoolVar(&noBound, "no-bound", false, "disable the lower bound (partial cost only)")

	return cmd
}

func decode(res search.Result) any {
	return Solution{Order: sequencing.Sequence(res.Path), Setup: res.Cost}
}
