package main

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/aretw0/interleave"
	"github.com/aretw0/interleave/pkg/adapters/modelfile"
	"github.com/spf13/cobra"
)

var spaceCmd = &cobra.Command{
	Use:   "space <model-file>",
	Short: "Show what other processes may do while one sits at a node",
	Long: `Computes the concurrent space of a local state from the process graphs
alone, without exploring the state space.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		processName, _ := cmd.Flags().GetString("process")
		nodeName, _ := cmd.Flags().GetString("node")
		asJSON, _ := cmd.Flags().GetBool("json")

		model, err := modelfile.LoadFile(args[0])
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		space, err := interleave.ConcurrentSpaceOf(ctx, model.Set, processName, nodeName, analyzeOptions()...)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if asJSON {
			return json.NewEncoder(out).Encode(space)
		}
		fmt.Fprintf(out, "While %s is at %s:\n", space.Process, space.Node)
		others := make([]string, 0, len(space.Concurrent))
		for q := range space.Concurrent {
			others = append(others, q)
		}
		sort.Strings(others)
		for _, q := range others {
			fmt.Fprintf(out, "  %s: %s\n", q, strings.Join(space.Concurrent[q], ", "))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(spaceCmd)

	spaceCmd.Flags().StringP("process", "p", "", "Process name")
	spaceCmd.Flags().StringP("node", "n", "", "Node mnemonic")
	spaceCmd.Flags().Bool("json", false, "Print JSON")
	_ = spaceCmd.MarkFlagRequired("process")
	_ = spaceCmd.MarkFlagRequired("node")
}
