package main

import (
	"fmt"

	"github.com/aretw0/interleave"
	"github.com/aretw0/interleave/internal/presentation/graph"
	"github.com/aretw0/interleave/pkg/adapters/modelfile"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph <model-file>",
	Short: "Export the process graphs as Mermaid",
	Long: `Outputs a Mermaid diagram (graph TD) with one subgraph per process.
With --overlay the model is analyzed first and its mutual exclusion segments
and unreachable nodes are highlighted.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		withOverlay, _ := cmd.Flags().GetBool("overlay")

		model, err := modelfile.LoadFile(args[0])
		if err != nil {
			return err
		}

		var overlay *graph.GraphOverlay
		if withOverlay {
			reports, err := analyzeFiles(cmd.Context(), args, 1, interleave.WithStaticAnalysis(false))
			if err != nil {
				return err
			}
			overlay = graph.OverlayFromReport(reports[0])
		}

		fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(model.Set, overlay))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().Bool("overlay", false, "Highlight analysis results")
}
