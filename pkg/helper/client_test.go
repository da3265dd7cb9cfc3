package helper_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yantoz/finderex/pkg/config"
	"github.com/yantoz/finderex/pkg/execs"
	"github.com/yantoz/finderex/pkg/helper"
)

var errBoom = errors.New("boom")

type failingHelper struct{}

func (failingHelper) HomeDirectory(context.Context) (string, error) {
	return "", errBoom
}

func (failingHelper) LoadConfig(context.Context, config.Scope) (string, error) {
	return "", errBoom
}

func (failingHelper) SaveConfig(context.Context, string) (bool, error) {
	return false, errBoom
}

func (failingHelper) RunProcess(context.Context, string, string, []string) (*execs.Result, error) {
	return nil, errBoom
}

func dialLocal(t *testing.T) (*helper.Client, string) {
	t.Helper()

	l, userRoot, _ := newLocal(t)

	c := helper.DialInProcess(t.Context(), l)
	require.True(t, c.Available(), c.Err())

	t.Cleanup(func() {
		_ = c.Close()
	})

	return c, userRoot
}

func TestClient_HomeDirectory(t *testing.T) {
	t.Parallel()

	c, _ := dialLocal(t)

	home, err := c.HomeDirectory(t.Context())
	require.NoError(t, err)
	assert.Equal(t, "/Users/tester", home)
}

func TestClient_Config(t *testing.T) {
	t.Parallel()

	c, _ := dialLocal(t)
	ctx := t.Context()

	content, err := c.LoadConfig(ctx, config.ScopeUser)
	require.NoError(t, err)
	assert.Empty(t, content)

	doc := string(config.Encode(config.GenerateDefault()))

	ok, err := c.SaveConfig(ctx, doc)
	require.NoError(t, err)
	require.True(t, ok)

	content, err = c.LoadConfig(ctx, config.ScopeUser)
	require.NoError(t, err)
	assert.Equal(t, doc, content)

	content, err = c.LoadConfig(ctx, config.ScopeSystemWide)
	require.NoError(t, err)
	assert.Empty(t, content)

	store := config.NewStore(c)
	assert.Equal(t, config.GenerateDefault(), store.LoadMerged(ctx, true))
}

func TestClient_RunProcess(t *testing.T) {
	t.Parallel()

	c, _ := dialLocal(t)

	tcs := map[string]struct {
		stdin    string
		argv     []string
		want     string
		exitCode int
	}{
		"script on stdin": {
			stdin: "echo hi",
			argv:  []string{"bash", "/dev/stdin"},
			want:  "hi",
		},
		"arguments": {
			stdin: `echo "$1-$2"`,
			argv:  []string{"bash", "/dev/stdin", "a", "b"},
			want:  "a-b",
		},
		"exit status": {
			stdin:    "echo err >&2; exit 4",
			argv:     []string{"bash", "/dev/stdin"},
			want:     "err",
			exitCode: 4,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			res, err := c.RunProcess(t.Context(), execs.Env, tc.stdin, tc.argv)
			require.NoError(t, err)
			assert.Contains(t, res.Output, tc.want)
			assert.Equal(t, tc.exitCode, res.ExitCode)
		})
	}
}

func TestClient_RunProcess_Spawn(t *testing.T) {
	t.Parallel()

	c, _ := dialLocal(t)

	_, err := c.RunProcess(t.Context(), "/nonexistent/program", "", nil)
	require.ErrorIs(t, err, helper.ErrSpawn)
}

func TestClient_RemoteError(t *testing.T) {
	t.Parallel()

	c := helper.DialInProcess(t.Context(), failingHelper{})
	require.True(t, c.Available())

	t.Cleanup(func() {
		_ = c.Close()
	})

	_, err := c.HomeDirectory(t.Context())
	require.ErrorIs(t, err, helper.ErrRemote)
	assert.Contains(t, err.Error(), "boom")

	_, err = c.SaveConfig(t.Context(), "")
	require.ErrorIs(t, err, helper.ErrRemote)
}

func TestClient_Unavailable(t *testing.T) {
	t.Parallel()

	c := helper.DialCommand(t.Context(), "/nonexistent/finderex", "helper", "serve")
	assert.False(t, c.Available())
	require.ErrorIs(t, c.Err(), helper.ErrUnavailable)

	_, err := c.HomeDirectory(t.Context())
	require.ErrorIs(t, err, helper.ErrUnavailable)

	_, err = c.LoadConfig(t.Context(), config.ScopeUser)
	require.ErrorIs(t, err, helper.ErrUnavailable)

	_, err = c.RunProcess(t.Context(), execs.Env, "echo hi", []string{"bash", "/dev/stdin"})
	require.ErrorIs(t, err, helper.ErrUnavailable)

	// The store degrades to an empty configuration.
	assert.Empty(t, config.NewStore(c).LoadMerged(t.Context(), true))
	require.ErrorIs(t, config.NewStore(c).Save(t.Context(), config.GenerateDefault()), config.ErrSave)
}

func TestClient_Closed(t *testing.T) {
	t.Parallel()

	l, _, _ := newLocal(t)

	c := helper.DialInProcess(t.Context(), l)
	require.True(t, c.Available())

	_ = c.Close()
	assert.False(t, c.Available())

	_, err := c.HomeDirectory(t.Context())
	require.ErrorIs(t, err, helper.ErrUnavailable)
}
