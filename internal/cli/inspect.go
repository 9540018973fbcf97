package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/odsgen/internal/binding"
	"github.com/roach88/odsgen/internal/ods"
	"github.com/roach88/odsgen/internal/render/python"
)

// InspectOptions holds flags for the inspect command.
type InspectOptions struct {
	*RootOptions
	Op string // operation name, e.g. "arith.addi"
}

// OperationSummary is one line of the inspect listing.
type OperationSummary struct {
	Name         string `json:"name"`
	ClassName    string `json:"class_name"`
	Dialect      string `json:"dialect"`
	OperandCount int    `json:"operands"`
	ResultCount  int    `json:"results"`
	Traits       string `json:"traits"`
}

// NewInspectCommand creates the inspect command.
func NewInspectCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &InspectOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "inspect <specs-dir>",
		Short: "Show the synthesized binding of an operation",
		Long: `Show the structured binding synthesized for one operation: the slot-shape
policy and accessor of every operand and result, attribute and region
accessors, and the default builder's parameters and statements.

Without --op, lists the operations found in the specs.

Examples:
  odsgen inspect ./specs
  odsgen inspect ./specs --op arith.addi`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Op, "op", "", "operation name to inspect")

	return cmd
}

func runInspect(opts *InspectOptions, specsDir string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	loadResult, loadErrors := LoadSpecs(specsDir, LoadModeFailFast)
	if len(loadErrors) > 0 {
		return loadFailure(formatter, loadErrors)
	}

	if opts.Op == "" {
		return outputOperationList(formatter, loadResult.Operations)
	}

	var op *ods.Operation
	for _, candidate := range loadResult.Operations {
		if candidate.Name == opts.Op {
			op = candidate
			break
		}
	}
	if op == nil {
		msg := fmt.Sprintf("operation %q not found in %s", opts.Op, specsDir)
		_ = formatter.Error(ErrCodeNotFound, msg, nil)
		return NewExitError(ExitCommandError, msg)
	}

	b, err := binding.Synthesize(op, python.New().Resolver())
	if err != nil {
		code := string(binding.Code(err))
		if code == "" {
			code = ErrCodeGeneric
		}
		_ = formatter.Error(code, err.Error(), nil)
		return WrapExitError(ExitFailure, "synthesis failed", err)
	}

	if formatter.Format == "json" {
		return formatter.Success(b)
	}
	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal binding: %w", err)
	}
	fmt.Fprintln(formatter.Writer, string(data))
	return nil
}

func outputOperationList(formatter *OutputFormatter, ops []*ods.Operation) error {
	summaries := make([]OperationSummary, 0, len(ops))
	for _, op := range ops {
		summaries = append(summaries, OperationSummary{
			Name:         op.Name,
			ClassName:    op.ClassName,
			Dialect:      op.Dialect,
			OperandCount: len(op.Operands),
			ResultCount:  len(op.Results),
			Traits:       op.Traits.String(),
		})
	}

	if formatter.Format == "json" {
		return formatter.Success(summaries)
	}
	for _, s := range summaries {
		fmt.Fprintf(formatter.Writer, "%-24s %-20s operands=%d results=%d traits=%s\n",
			s.Name, s.ClassName, s.OperandCount, s.ResultCount, s.Traits)
	}
	return nil
}
