package emit

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/roach88/odsgen/internal/binding"
	"github.com/roach88/odsgen/internal/ods"
)

// ErrNoDialect is returned when the driver has no dialect to select.
var ErrNoDialect = errors.New("dialect name not provided")

// Renderer serializes bindings for one host language.
type Renderer interface {
	Resolver() binding.Resolver
	WriteHeader(w io.Writer, dialect, extension string) error
	WriteOp(w io.Writer, b *binding.OpBinding) error
}

// Driver selects a dialect's operations, synthesizes their bindings and
// writes one module.
//
// Synthesis and rendering of individual operations run on up to Workers
// goroutines; output is always assembled in input order. A failing
// operation is skipped and recorded unless FailFast is set, in which case
// the first failure aborts the run and nothing is written.
type Driver struct {
	Dialect   string
	Extension string // optional dialect extension prefix
	Renderer  Renderer
	Logger    *slog.Logger   // nil means slog.Default()
	Workers   int            // <= 0 means GOMAXPROCS
	FailFast  bool
	RunIDs    RunIDGenerator // nil means UUIDv7Generator
}

// outcome is one operation's rendered class or its failure.
type outcome struct {
	result OpResult
	text   []byte
	err    error
}

// Generate writes the module for the driver's dialect to w.
func (d *Driver) Generate(ctx context.Context, ops []*ods.Operation, w io.Writer) (*Report, error) {
	if d.Dialect == "" {
		return nil, ErrNoDialect
	}
	if d.Renderer == nil {
		return nil, errors.New("emit: no renderer configured")
	}
	logger := d.logger()

	selected := make([]*ods.Operation, 0, len(ops))
	for _, op := range ops {
		if op.Dialect == d.Dialect {
			selected = append(selected, op)
		}
	}

	report := &Report{
		RunID:     d.runIDs().Generate(),
		Dialect:   d.Dialect,
		Extension: d.Extension,
	}
	logger.Info("generation starting",
		"run_id", report.RunID,
		"dialect", d.Dialect,
		"operations", len(selected),
		"skipped_other_dialects", len(ops)-len(selected),
	)

	outcomes := make([]outcome, len(selected))
	resolver := d.Renderer.Resolver()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.workers())
	// Operations launch in input order and every launched one runs to
	// completion, so all operations before a fail-fast failure have outcomes.
	for i, op := range selected {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			outcomes[i] = d.process(op, int64(i+1), resolver)
			if outcomes[i].err != nil && d.FailFast {
				return outcomes[i].err
			}
			return nil
		})
	}
	waitErr := g.Wait()

	if err := ctx.Err(); err != nil {
		logger.Warn("generation cancelled", "run_id", report.RunID, "error", err)
		return nil, err
	}

	for i, o := range outcomes {
		if o.result.Operation == "" {
			// Not launched: a fail-fast abort or cancellation stopped the loop.
			continue
		}
		report.Results = append(report.Results, o.result)
		if o.err == nil {
			continue
		}
		report.Failures = append(report.Failures, o.result)
		logger.Warn("operation skipped",
			"run_id", report.RunID,
			"operation", selected[i].Name,
			"code", o.result.Code,
			"error", o.err,
		)
		if d.FailFast {
			return report, fmt.Errorf("generation aborted at %s: %w", selected[i].Name, o.err)
		}
	}
	if waitErr != nil {
		return report, waitErr
	}

	if err := d.Renderer.WriteHeader(w, d.Dialect, d.Extension); err != nil {
		return report, fmt.Errorf("write header: %w", err)
	}
	for _, o := range outcomes {
		if o.err != nil {
			continue
		}
		if _, err := w.Write(o.text); err != nil {
			return report, fmt.Errorf("write %s: %w", o.result.Operation, err)
		}
	}

	logger.Info("generation finished",
		"run_id", report.RunID,
		"generated", report.Generated(),
		"failed", len(report.Failures),
	)
	return report, nil
}

// process synthesizes and renders one operation. It never touches shared
// state, so it is safe to run concurrently.
func (d *Driver) process(op *ods.Operation, seq int64, resolver binding.Resolver) outcome {
	res := OpResult{Seq: seq, Operation: op.Name, Status: StatusGenerated}

	fp, err := ods.Fingerprint(op)
	if err != nil {
		return failed(res, CodeFingerprintFailed, err)
	}
	res.Fingerprint = fp

	b, err := binding.Synthesize(op, resolver)
	if err != nil {
		return failed(res, string(binding.Code(err)), err)
	}

	var buf bytes.Buffer
	if err := d.Renderer.WriteOp(&buf, b); err != nil {
		return failed(res, CodeRenderFailed, err)
	}

	d.logger().Debug("operation synthesized",
		"operation", op.Name,
		"operand_policy", b.Operands.Policy,
		"result_policy", b.Results.Policy,
		"builder", b.Builder != nil,
	)
	return outcome{result: res, text: buf.Bytes()}
}

func failed(res OpResult, code string, err error) outcome {
	res.Status = StatusSkipped
	res.Code = code
	res.Message = err.Error()
	return outcome{result: res, err: err}
}

func (d *Driver) logger() *slog.Logger {
	if d.Logger != nil {
		return d.Logger
	}
	return slog.Default()
}

func (d *Driver) runIDs() RunIDGenerator {
	if d.RunIDs != nil {
		return d.RunIDs
	}
	return UUIDv7Generator{}
}

func (d *Driver) workers() int {
	if d.Workers > 0 {
		return d.Workers
	}
	return runtime.GOMAXPROCS(0)
}
