package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/interleave"
	"github.com/aretw0/interleave/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of interleave",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		if tui.IsTerminal(out) {
			tui.PrintBanner(out)
		}
		fmt.Fprintf(out, "interleave version %s\n", strings.TrimSpace(interleave.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
