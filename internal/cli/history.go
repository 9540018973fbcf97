package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/odsgen/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	DB      string
	Dialect string // filter; all dialects when empty
	Run     string // show one run's operation results
	Op      string // show one operation across runs
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded generation runs",
		Long: `List the generation runs recorded by "odsgen gen --db".

Runs are listed in the order they were recorded. Use --run to show the
per-operation results of one run, or --op to follow one operation
across runs.

Examples:
  odsgen history --db odsgen.db
  odsgen history --db odsgen.db --dialect arith
  odsgen history --db odsgen.db --run 019400e8-...
  odsgen history --db odsgen.db --op arith.addi`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.DB, "db", "", "path to the SQLite ledger (required)")
	cmd.Flags().StringVar(&opts.Dialect, "dialect", "", "only list runs of this dialect")
	cmd.Flags().StringVar(&opts.Run, "run", "", "show the operation results of one run")
	cmd.Flags().StringVar(&opts.Op, "op", "", "show one operation across runs")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	// Opening would create an empty ledger; a missing file is a usage error.
	if _, err := os.Stat(opts.DB); os.IsNotExist(err) {
		msg := fmt.Sprintf("database not found: %s", opts.DB)
		_ = formatter.Error(ErrCodeNotFound, msg, nil)
		return NewExitError(ExitCommandError, msg)
	}

	st, err := store.Open(opts.DB)
	if err != nil {
		_ = formatter.Error(ErrCodeStoreFailed, err.Error(), nil)
		return WrapExitError(ExitCommandError, ErrCodeStoreFailed, err)
	}
	defer st.Close()

	switch {
	case opts.Run != "":
		if _, err := st.ReadRun(ctx, opts.Run); err != nil {
			_ = formatter.Error(ErrCodeNotFound, err.Error(), nil)
			return WrapExitError(ExitCommandError, "run lookup failed", err)
		}
		results, err := st.ReadOperationResults(ctx, opts.Run)
		if err != nil {
			return storeFailure(formatter, err)
		}
		return outputOperationResults(formatter, results)
	case opts.Op != "":
		results, err := st.OperationHistory(ctx, opts.Op)
		if err != nil {
			return storeFailure(formatter, err)
		}
		return outputOperationResults(formatter, results)
	}

	runs, err := st.ListRuns(ctx, opts.Dialect)
	if err != nil {
		return storeFailure(formatter, err)
	}
	if formatter.Format == "json" {
		return formatter.Success(runs)
	}
	if len(runs) == 0 {
		fmt.Fprintln(formatter.Writer, "No runs recorded.")
		return nil
	}
	for _, r := range runs {
		fmt.Fprintf(formatter.Writer, "#%-4d %s  %-12s %d operation(s), %d skipped\n",
			r.Seq, r.ID, r.Dialect, r.OpCount, r.FailureCount)
	}
	return nil
}

func outputOperationResults(formatter *OutputFormatter, results []store.OperationResult) error {
	if formatter.Format == "json" {
		return formatter.Success(results)
	}
	for _, r := range results {
		line := fmt.Sprintf("%s #%-3d %-24s %-9s", r.RunID, r.Seq, r.OpName, r.Status)
		if r.Code != "" {
			line += fmt.Sprintf(" [%s] %s", r.Code, r.Message)
		} else {
			line += " " + r.Fingerprint
		}
		fmt.Fprintln(formatter.Writer, line)
	}
	return nil
}

func storeFailure(formatter *OutputFormatter, err error) error {
	_ = formatter.Error(ErrCodeStoreFailed, err.Error(), nil)
	return WrapExitError(ExitCommandError, ErrCodeStoreFailed, err)
}
