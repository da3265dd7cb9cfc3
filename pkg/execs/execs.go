package execs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/yantoz/finderex/pkg/config"
	"github.com/yantoz/finderex/pkg/log"
)

// ErrNoRunner is returned by an [Executor] without a [Runner].
var ErrNoRunner = errors.New("no process runner")

// Runner runs processes on behalf of the executor.
type Runner interface {
	RunProcess(ctx context.Context, executable, stdin string, argv []string) (*Result, error)
}

// Executor runs actions through a [Runner].
type Executor struct {
	tracer trace.Tracer
	runner Runner
}

// NewExecutor creates a new [Executor].
func NewExecutor(r Runner) *Executor {
	return &Executor{
		tracer: otel.Tracer("executor"),
		runner: r,
	}
}

// Exec builds the command for a with inputs and runs it. Invalid or
// unsupported actions are rejected before anything is sent to the runner.
func (e *Executor) Exec(ctx context.Context, a *config.Action, inputs []string) (*Result, error) {
	ctx, span := e.tracer.Start(ctx, "exec", trace.WithAttributes(
		attribute.String("title", a.GetTitle()),
		attribute.String("kind", a.GetKind()),
		attribute.Int("inputs", len(inputs)),
	))
	defer span.End()

	cmd, err := Build(a, inputs)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())

		return nil, err
	}

	if e.runner == nil {
		return nil, ErrNoRunner
	}

	logger := log.WithContext(ctx).With(
		slog.String("title", a.GetTitle()),
		slog.String("command", cmd.String()),
	)

	start := time.Now()

	result, err := e.runner.RunProcess(ctx, cmd.Executable, cmd.Stdin, cmd.Args)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

		return nil, fmt.Errorf("run %q: %w", a.GetTitle(), err)
	}

	span.SetAttributes(attribute.Int("exit_code", result.ExitCode))

	logger.DebugContext(ctx, "action finished",
		slog.Int("exit_code", result.ExitCode),
		slog.Duration("duration", time.Since(start)),
	)

	return result, nil
}
