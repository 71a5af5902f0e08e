package main

import (
	"errors"
	"fmt"

	"github.com/aretw0/interleave/internal/validator"
	"github.com/aretw0/interleave/pkg/adapters/modelfile"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <model-file>...",
	Short: "Check model files for consistency",
	Long: `Parses every model file and crawls its graphs, reporting messages sent
to unknown processes, sink nodes, triggers nobody sends and messages nobody
consumes. Fails only on errors; warnings are printed.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		failed := false
		for _, path := range args {
			model, err := modelfile.LoadFile(path)
			if err != nil {
				fmt.Fprintf(out, "%s: %v\n", path, err)
				failed = true
				continue
			}
			issues := validator.ValidateSet(model.Set)
			for _, issue := range issues {
				fmt.Fprintf(out, "%s: %s\n", path, issue)
			}
			if validator.HasErrors(issues) {
				failed = true
				continue
			}
			fmt.Fprintf(out, "%s: model is valid! ✅\n", path)
		}
		if failed {
			return errors.New("validation failed")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
