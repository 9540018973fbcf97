package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/odsgen/internal/emit"
	"github.com/roach88/odsgen/internal/ods"
	"github.com/roach88/odsgen/internal/render/python"
	"github.com/roach88/odsgen/internal/store"
)

// GenOptions holds flags for the gen command.
type GenOptions struct {
	*RootOptions
	Dialect   string
	Extension string
	Output    string // file path; stdout when empty
	DB        string // generation ledger; not recorded when empty
	FailFast  bool
	Workers   int
}

// GenResult summarizes one generation.
type GenResult struct {
	RunID     string          `json:"run_id"`
	Dialect   string          `json:"dialect"`
	Extension string          `json:"extension,omitempty"`
	Output    string          `json:"output,omitempty"`
	Generated int             `json:"generated"`
	Skipped   int             `json:"skipped"`
	Failures  []emit.OpResult `json:"failures,omitempty"`

	// Ledger comparison, set only with --db.
	RunSeq    int64    `json:"run_seq,omitempty"`
	Changed   []string `json:"changed,omitempty"` // new or different fingerprint since the last run
	Unchanged int      `json:"unchanged,omitempty"`
}

// NewGenCommand creates the gen command.
func NewGenCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &GenOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "gen <specs-dir>",
		Short: "Generate Python bindings for one dialect",
		Long: `Generate the Python OpView module for every operation of one dialect.

Operations that cannot be bound are skipped and reported; the rest of the
dialect is still generated. With --fail-fast the first such operation
aborts the run and nothing is written.

With --db each run is recorded in a SQLite ledger, and the summary lists
operations whose definition changed since the previous run of the dialect.

Exit codes:
  0 - Module written (possibly with skipped operations)
  1 - Generation aborted by --fail-fast
  2 - Command error (invalid specs, unwritable output, ledger error)

Examples:
  odsgen gen ./specs --dialect arith -o _arith_ops_gen.py
  odsgen gen ./specs --dialect arith --dialect-extension arith_ext
  odsgen gen ./specs --dialect arith --db odsgen.db --format json -o out.py`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGen(cmd.Context(), opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Dialect, "dialect", "", "dialect to generate (required)")
	cmd.Flags().StringVar(&opts.Extension, "dialect-extension", "", "generate an extension module of the dialect")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVar(&opts.DB, "db", "", "record the run in this SQLite ledger")
	cmd.Flags().BoolVar(&opts.FailFast, "fail-fast", false, "abort on the first operation that cannot be bound")
	cmd.Flags().IntVar(&opts.Workers, "workers", 0, "concurrent operations (default GOMAXPROCS)")
	_ = cmd.MarkFlagRequired("dialect")

	return cmd
}

func runGen(ctx context.Context, opts *GenOptions, specsDir string, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	formatter := newFormatter(opts.RootOptions, cmd)

	// Generated code owns stdout unless it goes to a file.
	if opts.Output == "" {
		formatter.Writer = cmd.ErrOrStderr()
	}

	loadResult, loadErrors := LoadSpecs(specsDir, LoadModeFailFast)
	if len(loadErrors) > 0 {
		return loadFailure(formatter, loadErrors)
	}
	formatter.VerboseLog("Loaded %d operation(s) from %d CUE file(s)", len(loadResult.Operations), loadResult.FileCount)

	driver := &emit.Driver{
		Dialect:   opts.Dialect,
		Extension: opts.Extension,
		Renderer:  python.New(),
		Logger:    newLogger(opts.RootOptions, cmd.ErrOrStderr()),
		Workers:   opts.Workers,
		FailFast:  opts.FailFast,
	}

	var buf bytes.Buffer
	report, err := driver.Generate(ctx, loadResult.Operations, &buf)
	if err != nil {
		return genFailure(formatter, report, err)
	}
	if len(report.Results) == 0 {
		formatter.VerboseLog("No operations found for dialect %q", opts.Dialect)
	}

	result := GenResult{
		RunID:     report.RunID,
		Dialect:   report.Dialect,
		Extension: report.Extension,
		Output:    opts.Output,
		Generated: report.Generated(),
		Skipped:   len(report.Failures),
		Failures:  report.Failures,
	}

	if err := writeOutput(opts.Output, cmd.OutOrStdout(), buf.Bytes()); err != nil {
		_ = formatter.Error(ErrCodeWriteFailed, err.Error(), nil)
		return WrapExitError(ExitCommandError, ErrCodeWriteFailed, err)
	}

	if opts.DB != "" {
		if err := recordRun(ctx, opts.DB, report, &result); err != nil {
			_ = formatter.Error(ErrCodeStoreFailed, err.Error(), nil)
			return WrapExitError(ExitCommandError, ErrCodeStoreFailed, err)
		}
		formatter.VerboseLog("Recorded run %s as #%d in %s", result.RunID, result.RunSeq, opts.DB)
	}

	return outputGenResult(formatter, result)
}

func writeOutput(path string, stdout io.Writer, data []byte) error {
	if path == "" {
		_, err := stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// recordRun compares against the dialect's previous run, then appends this one.
func recordRun(ctx context.Context, dbPath string, report *emit.Report, result *GenResult) error {
	st, err := store.Open(dbPath)
	if err != nil {
		return err
	}
	defer st.Close()

	previous, err := st.LastFingerprints(ctx, report.Dialect)
	if err != nil {
		return err
	}

	rows := make([]store.OperationResult, 0, len(report.Results))
	for _, r := range report.Results {
		rows = append(rows, store.OperationResult{
			Seq:         r.Seq,
			OpName:      r.Operation,
			Fingerprint: r.Fingerprint,
			Status:      string(r.Status),
			Code:        r.Code,
			Message:     r.Message,
		})
		if r.Status != emit.StatusGenerated {
			continue
		}
		if fp, ok := previous[r.Operation]; ok && fp == r.Fingerprint {
			result.Unchanged++
		} else {
			result.Changed = append(result.Changed, r.Operation)
		}
	}

	result.RunSeq, err = st.WriteRun(ctx, store.Run{
		ID:               report.RunID,
		Dialect:          report.Dialect,
		Extension:        report.Extension,
		GeneratorVersion: ods.GeneratorVersion,
	}, rows)
	return err
}

func genFailure(formatter *OutputFormatter, report *emit.Report, err error) error {
	if errors.Is(err, emit.ErrNoDialect) {
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return NewExitError(ExitCommandError, err.Error())
	}
	if report == nil {
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitCommandError, "generation failed", err)
	}

	// Fail-fast abort: the report holds the failing operation.
	code := ErrCodeGeneric
	if len(report.Failures) > 0 {
		code = report.Failures[0].Code
	}
	_ = formatter.Error(code, err.Error(), report.Failures)
	return WrapExitError(ExitFailure, "generation aborted", err)
}

func outputGenResult(formatter *OutputFormatter, result GenResult) error {
	if formatter.Format == "json" {
		return formatter.JSON(CLIResponse{
			Status: "ok",
			Data:   result,
			RunID:  result.RunID,
		})
	}

	w := formatter.Writer
	target := result.Output
	if target == "" {
		target = "stdout"
	}
	fmt.Fprintf(w, "✓ Generated %d operation(s) for dialect %s → %s\n", result.Generated, result.Dialect, target)
	for _, f := range result.Failures {
		fmt.Fprintf(w, "✗ Skipped %s [%s]: %s\n", f.Operation, f.Code, f.Message)
	}
	if result.RunSeq > 0 {
		fmt.Fprintf(w, "  Run #%d: %d changed, %d unchanged\n", result.RunSeq, len(result.Changed), result.Unchanged)
		for _, name := range result.Changed {
			fmt.Fprintf(w, "    %s\n", name)
		}
	}
	return nil
}
