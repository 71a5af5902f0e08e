package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/interleave"
	"github.com/aretw0/interleave/internal/presentation/tui"
	"github.com/aretw0/interleave/pkg/adapters/modelfile"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <model-file>...",
	Short: "Analyze one or more model files",
	Long: `Explores the state space of every model file and prints its report.
Files are analyzed in parallel; reports are printed in argument order.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		static, _ := cmd.Flags().GetBool("static")
		parallel, _ := cmd.Flags().GetInt("parallel")

		reports, err := analyzeFiles(cmd.Context(), args, parallel, interleave.WithStaticAnalysis(static))
		if err != nil {
			return err
		}
		return printReports(cmd.OutOrStdout(), reports, format)
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringP("format", "f", "markdown", "Output format: 'markdown' or 'json'")
	analyzeCmd.Flags().Bool("static", true, "Compute the graph based concurrent space of every local state")
	analyzeCmd.Flags().Int("parallel", 4, "Number of models analyzed at once")
}

func analyzeFiles(ctx context.Context, paths []string, parallel int, extra ...interleave.Option) ([]*interleave.Report, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	reports := make([]*interleave.Report, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	if parallel > 0 {
		g.SetLimit(parallel)
	}
	for i, path := range paths {
		g.Go(func() error {
			model, err := modelfile.LoadFile(path)
			if err != nil {
				return err
			}
			opts := analyzeOptions(append([]interleave.Option{interleave.WithName(model.Name)}, extra...)...)
			report, err := interleave.Analyze(ctx, model.Set, opts...)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			report.Digest = model.Digest
			reports[i] = report
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}

func printReports(w io.Writer, reports []*interleave.Report, format string) error {
	switch format {
	case "json":
		for _, r := range reports {
			data, err := r.JSON()
			if err != nil {
				return err
			}
			fmt.Fprintln(w, string(data))
		}
		return nil
	case "markdown", "md":
		var sb strings.Builder
		for i, r := range reports {
			if i > 0 {
				sb.WriteString("\n---\n\n")
			}
			sb.WriteString(r.Markdown())
		}
		out := sb.String()
		if tui.IsTerminal(w) {
			rendered, err := tui.NewRenderer()(out)
			if err == nil {
				out = rendered
			}
		}
		fmt.Fprint(w, out)
		return nil
	}
	return fmt.Errorf("unknown format %q: use 'markdown' or 'json'", format)
}
