package execs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"github.com/yantoz/finderex/pkg/config"
	"github.com/yantoz/finderex/pkg/log"
)

// Env is the launcher every action is run through.
const Env = "/usr/bin/env"

var (
	// ErrInvalidAction is returned for actions that fail validation.
	ErrInvalidAction = errors.New("invalid action")
	// ErrMissingPath is returned for file-based actions with an empty path.
	ErrMissingPath = errors.New("missing script path")
	// ErrUnsupported is returned for kind and source combinations that
	// cannot run, such as inline workflows.
	ErrUnsupported = errors.New("unsupported action")
	// ErrSpawn is returned when a process could not be started.
	ErrSpawn = errors.New("spawn process")
	// ErrEmptyCommand is returned when a command has no executable.
	ErrEmptyCommand = errors.New("empty command")
)

// Result is the outcome of a finished process.
type Result struct {
	// Output is the combined stdout and stderr.
	Output string `json:"output"`
	// ExitCode is the process exit status.
	ExitCode int `json:"exitCode"`
}

// Command is a concrete process invocation.
type Command struct {
	// Executable is the program to run.
	Executable string
	// Stdin is written in full before the write side is closed.
	Stdin string
	// Args is the argument vector, excluding the executable.
	Args []string
}

// Build returns the [Command] that runs action a with inputs.
//
//	kind         fromFile                  inline
//	bash         bash <path> <inputs...>   bash /dev/stdin <inputs...>  (stdin: content)
//	applescript  osascript <path> <in...>  osascript - <inputs...>      (stdin: content)
//	workflow     automator -i - <path>     unsupported                  (stdin: inputs, one per line)
func Build(a *config.Action, inputs []string) (*Command, error) {
	if !a.IsValid() {
		return nil, ErrInvalidAction
	}

	if a.FromFile && a.GetPath() == "" {
		return nil, fmt.Errorf("%s: %w", a.GetTitle(), ErrMissingPath)
	}

	var (
		args  []string
		stdin string
	)

	switch a.GetKind() {
	case config.KindBash:
		if a.FromFile {
			args = []string{"bash", a.GetPath()}
		} else {
			args = []string{"bash", "/dev/stdin"}
			stdin = a.GetContent()
		}

		args = append(args, inputs...)

	case config.KindAppleScript:
		if a.FromFile {
			args = []string{"osascript", a.GetPath()}
		} else {
			args = []string{"osascript", "-"}
			stdin = a.GetContent()
		}

		args = append(args, inputs...)

	case config.KindWorkflow:
		if !a.FromFile {
			return nil, fmt.Errorf("%s: inline workflow: %w", a.GetTitle(), ErrUnsupported)
		}

		args = []string{"automator", "-i", "-", a.GetPath()}
		stdin = strings.Join(inputs, "\n")

	default:
		return nil, fmt.Errorf("%s: kind %q: %w", a.GetTitle(), a.GetKind(), ErrUnsupported)
	}

	return &Command{
		Executable: Env,
		Args:       args,
		Stdin:      stdin,
	}, nil
}

// Run spawns the command, writes Stdin, waits for it to exit and returns
// the combined output with the exit status. A non-zero exit is a result,
// not an error; only a failure to start the process is.
func (c *Command) Run(ctx context.Context) (*Result, error) {
	if c.Executable == "" {
		return nil, ErrEmptyCommand
	}

	logger := log.WithContext(ctx).With(slog.String("command", c.String()))

	start := time.Now()

	//nolint:gosec // G204: Subprocess launched with a potential tainted input or cmd arguments.
	cmd := exec.CommandContext(ctx, c.Executable, c.Args...)
	cmd.Stdin = strings.NewReader(c.Stdin)

	var output bytes.Buffer

	cmd.Stdout = &output
	cmd.Stderr = &output

	err := cmd.Run()

	var exitErr *exec.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		logger.DebugContext(ctx, "command failed to start", slog.Any("err", err))

		return nil, fmt.Errorf("%w: %w", ErrSpawn, err)
	}

	result := &Result{
		Output:   output.String(),
		ExitCode: cmd.ProcessState.ExitCode(),
	}

	logger.DebugContext(ctx, "command finished",
		slog.Int("exit_code", result.ExitCode),
		slog.Duration("duration", time.Since(start)),
	)

	return result, nil
}

func (c *Command) String() string {
	if len(c.Args) == 0 {
		return c.Executable
	}

	return fmt.Sprintf("%s %s", c.Executable, strings.Join(c.Args, " "))
}
