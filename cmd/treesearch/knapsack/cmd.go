package knapsack

import (
	"github.com/spf13/cobra"

	"github.com/katalvlaran/treesearch/internal/cli"
	"github.com/katalvlaran/treesearch/schemes/knapsack"
	"github.com/katalvlaran/treesearch/search"
)

// Solution is the knapsack part of the report.
type Solution struct {
	Items  []int `json:"items"`
	Value  int   `json:"value"`
	Weight int   `json:"weight"`
}

func NewKnapsackCommand(flags *cli.Flags) *cobra.Command {
	var (
		path      string
		n         int
		seed      int64
		maxWeight int
		maxValue  int
	)
	cmd := &cobra.Command{
		Use:   "knapsack",
		Short: "Packs a 0/1 knapsack of maximum value",
		Long: `Packs a 0/1 knapsack of maximum value. The instance is read from
--instance (YAML or JSON) or generated from --n and --seed:

capacity: 10
items:
  - {weight: 5, value: 10}
  - {weight: 4, value: 40}
conflicts: [[0, 1]]
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			inst := knapsack.Random(n, maxWeight, maxValue, seed)
			if path != "" {
				inst = knapsack.Instance{}
				if err := cli.ReadInstance(path, &inst); err != nil {
					return err
				}
			}
			s, err := knapsack.New(inst)
			if err != nil {
				return err
			}

			return flags.Run(cmd, s, decode)
		},
	}
	cmd.Flags().StringVarP(&path, "instance", "i", "", "instance file")
	cmd.Flags().IntVar(&n, "n", 30, "number of random items")
	cmd.Flags().Int64Var(&seed, "seed", 1, "random instance seed")
	cmd.Flags().IntVar(&maxWeight, "max-weight", 20, "largest random weight")
	cmd.Flags().IntVar(&maxValue, "max-value", 30, "largest random value")

	return cmd
}

func decode(res search.Result) any {
	st := res.Leaf.(knapsack.State)

	return Solution{Items: knapsack.Selected(st), Value: st.Value, Weight: st.Weight}
}
