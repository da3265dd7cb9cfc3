package helper

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/yantoz/finderex/pkg/config"
	"github.com/yantoz/finderex/pkg/execs"
	"github.com/yantoz/finderex/pkg/log"
)

// Local performs helper operations in the current process.
type Local struct {
	home       string
	userRoot   string
	systemRoot string
	// One child process at a time.
	runMu sync.Mutex
}

// LocalOpt configures a [Local].
type LocalOpt func(*Local)

// WithHome overrides the reported home directory.
func WithHome(dir string) LocalOpt {
	return func(l *Local) {
		l.home = dir
	}
}

// WithUserRoot overrides the root of the user document, which defaults to
// the home directory.
func WithUserRoot(dir string) LocalOpt {
	return func(l *Local) {
		l.userRoot = dir
	}
}

// WithSystemRoot overrides the root of the system-wide document, which
// defaults to "/".
func WithSystemRoot(dir string) LocalOpt {
	return func(l *Local) {
		l.systemRoot = dir
	}
}

// NewLocal creates a new [Local].
func NewLocal(opts ...LocalOpt) (*Local, error) {
	l := &Local{systemRoot: "/"}
	for _, opt := range opts {
		opt(l)
	}

	if l.home == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home directory: %w", err)
		}

		l.home = home
	}

	if l.userRoot == "" {
		l.userRoot = l.home
	}

	return l, nil
}

// ConfigPath returns the document path for scope.
func (l *Local) ConfigPath(scope config.Scope) (string, error) {
	switch scope {
	case config.ScopeUser:
		return config.Path(l.userRoot), nil
	case config.ScopeSystemWide:
		return config.Path(l.systemRoot), nil
	}

	return "", fmt.Errorf("%w: %q", config.ErrUnknownScope, scope)
}

func (l *Local) HomeDirectory(_ context.Context) (string, error) {
	return l.home, nil
}

// LoadConfig returns the document text for scope. Read failures, including
// an unknown scope, yield an empty string.
func (l *Local) LoadConfig(ctx context.Context, scope config.Scope) (string, error) {
	logger := log.WithContext(ctx).With(slog.String("scope", string(scope)))

	path, err := l.ConfigPath(scope)
	if err != nil {
		logger.WarnContext(ctx, "load config", slog.Any("err", err))

		return "", nil
	}

	//nolint:gosec // G304: Path is derived from the configured roots.
	b, err := os.ReadFile(path)
	if err != nil {
		logger.DebugContext(ctx, "read config", slog.String("path", path), slog.Any("err", err))

		return "", nil
	}

	return string(b), nil
}

// SaveConfig writes content to the user document: the directory is
// created, the file created if absent, then opened, truncated and written.
// A failure at any stage is reported as false.
func (l *Local) SaveConfig(ctx context.Context, content string) (bool, error) {
	path := config.Path(l.userRoot)
	logger := log.WithContext(ctx).With(slog.String("path", path))

	err := writeStaged(path, []byte(content))
	if err != nil {
		logger.WarnContext(ctx, "save config", slog.Any("err", err))

		return false, nil
	}

	logger.DebugContext(ctx, "saved config", slog.Int("bytes", len(content)))

	return true, nil
}

func writeStaged(path string, content []byte) error {
	err := os.MkdirAll(filepath.Dir(path), 0o755)
	if err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	//nolint:gosec // G304: Path is derived from the configured roots.
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("open file: %w", err)
	}

	_, err = f.Write(content)
	if err != nil {
		_ = f.Close()

		return fmt.Errorf("write file: %w", err)
	}

	err = f.Close()
	if err != nil {
		return fmt.Errorf("close file: %w", err)
	}

	return nil
}

// RunProcess runs one process at a time; concurrent calls wait their turn.
func (l *Local) RunProcess(ctx context.Context, executable, stdin string, argv []string) (*execs.Result, error) {
	l.runMu.Lock()
	defer l.runMu.Unlock()

	cmd := &execs.Command{
		Executable: executable,
		Args:       argv,
		Stdin:      stdin,
	}

	return cmd.Run(ctx)
}
