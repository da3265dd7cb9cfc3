package execs_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yantoz/finderex/pkg/config"
	"github.com/yantoz/finderex/pkg/execs"
)

func strPtr(s string) *string {
	return &s
}

func inline(kind, content string) *config.Action {
	return &config.Action{Title: strPtr("t"), Kind: strPtr(kind), Content: strPtr(content)}
}

func fromFile(kind, path string) *config.Action {
	return &config.Action{Title: strPtr("t"), Kind: strPtr(kind), Path: strPtr(path), FromFile: true}
}

func TestBuild(t *testing.T) {
	t.Parallel()

	inputs := []string{"/tmp/folder", "/d/a.png", "/d/b.png"}

	tcs := map[string]struct {
		action  *config.Action
		want    *execs.Command
		wantErr error
	}{
		"inline bash": {
			action: inline("bash", "echo \"$@\""),
			want: &execs.Command{
				Executable: "/usr/bin/env",
				Args:       []string{"bash", "/dev/stdin", "/tmp/folder", "/d/a.png", "/d/b.png"},
				Stdin:      "echo \"$@\"",
			},
		},
		"bash from file": {
			action: fromFile("bash", "/scripts/x.sh"),
			want: &execs.Command{
				Executable: "/usr/bin/env",
				Args:       []string{"bash", "/scripts/x.sh", "/tmp/folder", "/d/a.png", "/d/b.png"},
			},
		},
		"inline applescript": {
			action: inline("applescript", "on run argv\nend run"),
			want: &execs.Command{
				Executable: "/usr/bin/env",
				Args:       []string{"osascript", "-", "/tmp/folder", "/d/a.png", "/d/b.png"},
				Stdin:      "on run argv\nend run",
			},
		},
		"applescript from file": {
			action: fromFile("applescript", "/scripts/x.scpt"),
			want: &execs.Command{
				Executable: "/usr/bin/env",
				Args:       []string{"osascript", "/scripts/x.scpt", "/tmp/folder", "/d/a.png", "/d/b.png"},
			},
		},
		"workflow from file": {
			action: fromFile("workflow", "/flows/resize.workflow"),
			want: &execs.Command{
				Executable: "/usr/bin/env",
				Args:       []string{"automator", "-i", "-", "/flows/resize.workflow"},
				Stdin:      "/tmp/folder\n/d/a.png\n/d/b.png",
			},
		},
		"inline workflow": {
			action:  inline("workflow", "x"),
			wantErr: execs.ErrUnsupported,
		},
		"from file with empty path": {
			action:  fromFile("bash", ""),
			wantErr: execs.ErrMissingPath,
		},
		"from file without path": {
			action:  &config.Action{Title: strPtr("t"), Kind: strPtr("bash"), Content: strPtr("x"), FromFile: true},
			wantErr: execs.ErrInvalidAction,
		},
		"unknown kind": {
			action:  inline("python", "print()"),
			wantErr: execs.ErrInvalidAction,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := execs.Build(tc.action, inputs)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestCommand_Run(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		cmd        execs.Command
		wantOutput string
		wantCode   int
	}{
		"stdin script": {
			cmd:        execs.Command{Executable: "/usr/bin/env", Args: []string{"bash", "/dev/stdin"}, Stdin: "echo hi"},
			wantOutput: "hi\n",
			wantCode:   0,
		},
		"arguments": {
			cmd: execs.Command{
				Executable: "/usr/bin/env",
				Args:       []string{"bash", "/dev/stdin", "one", "two"},
				Stdin:      `printf '%s,' "$@"`,
			},
			wantOutput: "one,two,",
		},
		"combined output": {
			cmd: execs.Command{
				Executable: "/usr/bin/env",
				Args:       []string{"bash", "/dev/stdin"},
				Stdin:      "echo out; echo err >&2",
			},
			wantOutput: "out\nerr\n",
		},
		"non-zero exit": {
			cmd: execs.Command{
				Executable: "/usr/bin/env",
				Args:       []string{"bash", "/dev/stdin"},
				Stdin:      "echo failing; exit 3",
			},
			wantOutput: "failing\n",
			wantCode:   3,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			res, err := tc.cmd.Run(t.Context())
			require.NoError(t, err)
			assert.Equal(t, tc.wantOutput, res.Output)
			assert.Equal(t, tc.wantCode, res.ExitCode)
		})
	}
}

func TestCommand_Run_SpawnError(t *testing.T) {
	t.Parallel()

	cmd := execs.Command{Executable: "/nonexistent/finderex-test-binary"}

	_, err := cmd.Run(t.Context())
	require.ErrorIs(t, err, execs.ErrSpawn)

	_, err = (&execs.Command{}).Run(t.Context())
	require.ErrorIs(t, err, execs.ErrEmptyCommand)
}

type recordingRunner struct {
	result     *execs.Result
	err        error
	executable string
	stdin      string
	argv       []string
	calls      int
}

func (r *recordingRunner) RunProcess(_ context.Context, executable, stdin string, argv []string) (*execs.Result, error) {
	r.calls++
	r.executable = executable
	r.stdin = stdin
	r.argv = argv

	return r.result, r.err
}

func TestExecutor_Exec(t *testing.T) {
	t.Parallel()

	t.Run("delegates to runner", func(t *testing.T) {
		t.Parallel()

		runner := &recordingRunner{result: &execs.Result{Output: "ok", ExitCode: 0}}
		e := execs.NewExecutor(runner)

		res, err := e.Exec(t.Context(), inline("bash", "echo ok"), []string{"/a"})
		require.NoError(t, err)
		assert.Equal(t, "ok", res.Output)
		assert.Equal(t, 1, runner.calls)
		assert.Equal(t, "/usr/bin/env", runner.executable)
		assert.Equal(t, "echo ok", runner.stdin)
		assert.Equal(t, []string{"bash", "/dev/stdin", "/a"}, runner.argv)
	})

	t.Run("empty path is never run", func(t *testing.T) {
		t.Parallel()

		runner := &recordingRunner{result: &execs.Result{}}
		e := execs.NewExecutor(runner)

		_, err := e.Exec(t.Context(), fromFile("bash", ""), []string{"/a"})
		require.ErrorIs(t, err, execs.ErrMissingPath)
		assert.Zero(t, runner.calls)
	})

	t.Run("invalid action is never run", func(t *testing.T) {
		t.Parallel()

		runner := &recordingRunner{result: &execs.Result{}}
		e := execs.NewExecutor(runner)

		_, err := e.Exec(t.Context(), &config.Action{Title: strPtr("x")}, nil)
		require.ErrorIs(t, err, execs.ErrInvalidAction)
		assert.Zero(t, runner.calls)
	})

	t.Run("runner error", func(t *testing.T) {
		t.Parallel()

		runner := &recordingRunner{err: execs.ErrSpawn}
		e := execs.NewExecutor(runner)

		_, err := e.Exec(t.Context(), inline("bash", "x"), nil)
		require.ErrorIs(t, err, execs.ErrSpawn)
	})

	t.Run("no runner", func(t *testing.T) {
		t.Parallel()

		_, err := execs.NewExecutor(nil).Exec(t.Context(), inline("bash", "x"), nil)
		require.ErrorIs(t, err, execs.ErrNoRunner)
	})
}
