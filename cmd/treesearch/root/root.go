package root

import (
	"github.com/spf13/cobra"

	"github.com/katalvlaran/treesearch/cmd/treesearch/knapsack"
	"github.com/katalvlaran/treesearch/cmd/treesearch/sequencing"
	"github.com/katalvlaran/treesearch/internal/cli"
)

func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "treesearch",
		Short: "Treesearch runs anytime tree search algorithms on sample problems",
		Long: `Treesearch explores the branching tree of a combinatorial problem with
greedy, best-first, depth-first, iterative beam search or iterative
memory-bounded best-first search and prints a JSON report.

Settings come from --config (YAML), then TREESEARCH_* environment
variables, then flags.`,
		SilenceUsage: true,
	}

	flags := &cli.Flags{}
	flags.Bind(rootCmd)

	// add sub-commands
	rootCmd.AddCommand(knapsack.NewKnapsackCommand(flags))
	rootCmd.AddCommand(sequencing.NewSequencingCommand(flags))

	return rootCmd
}
