package helper

import (
	"context"
	"errors"

	"github.com/yantoz/finderex/pkg/config"
	"github.com/yantoz/finderex/pkg/execs"
)

// Tool names.
const (
	ToolHomeDirectory = "home_directory"
	ToolLoadConfig    = "load_config"
	ToolSaveConfig    = "save_config"
	ToolRunProcess    = "run_process"
)

var (
	// ErrUnavailable is returned when the helper connection could not be
	// established or a call could not be completed. Callers treat it as
	// "feature unavailable".
	ErrUnavailable = errors.New("helper unavailable")
	// ErrSpawn is returned when the helper could not start a process.
	ErrSpawn = execs.ErrSpawn
	// ErrRemote wraps errors reported by the helper itself.
	ErrRemote = errors.New("helper call failed")
)

// Helper is the four-operation privileged boundary.
type Helper interface {
	// HomeDirectory returns the home directory of the helper's user.
	HomeDirectory(ctx context.Context) (string, error)
	// LoadConfig returns the document for scope, or an empty string when it
	// cannot be read.
	LoadConfig(ctx context.Context, scope config.Scope) (string, error)
	// SaveConfig replaces the user document with content and reports
	// whether every stage of the write succeeded.
	SaveConfig(ctx context.Context, content string) (bool, error)
	// RunProcess runs executable with argv, writes stdin, waits for exit and
	// returns the combined output with the exit status.
	RunProcess(ctx context.Context, executable, stdin string, argv []string) (*execs.Result, error)
}

var (
	_ Helper = (*Local)(nil)
	_ Helper = (*Client)(nil)

	_ config.Source = Helper(nil)
	_ execs.Runner  = Helper(nil)
)
