package cli_test

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/fang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yantoz/finderex/internal/cli"
	"github.com/yantoz/finderex/pkg/config"
	"github.com/yantoz/finderex/pkg/editor"
	"github.com/yantoz/finderex/pkg/helper"
)

type env struct {
	userRoot   string
	systemRoot string
}

func newEnv(t *testing.T) env {
	t.Helper()

	return env{userRoot: t.TempDir(), systemRoot: t.TempDir()}
}

func (e env) run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := cli.NewRootCmd()

	stdout := &bytes.Buffer{}
	cmd.SetOut(stdout)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader(""))
	cmd.SetArgs(append([]string{
		"--helper", cli.HelperInProcess,
		"--user-root", e.userRoot,
		"--system-root", e.systemRoot,
		"--log-level", "error",
	}, args...))

	err := cmd.ExecuteContext(t.Context())

	return stdout.String(), err
}

func (e env) mustRun(t *testing.T, args ...string) string {
	t.Helper()

	out, err := e.run(t, args...)
	require.NoError(t, err)

	return out
}

func TestConfigCommands(t *testing.T) {
	t.Parallel()

	e := newEnv(t)

	out := e.mustRun(t, "config", "show")
	assert.Empty(t, out)

	e.mustRun(t, "config", "init")

	out = e.mustRun(t, "config", "show")
	assert.Equal(t, string(config.Encode(config.GenerateDefault())), out)

	_, err := e.run(t, "config", "init")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	e.mustRun(t, "config", "init", "--force")

	out = e.mustRun(t, "config", "show", "--default")
	assert.Equal(t, string(config.DefaultYAML()), out)

	out = e.mustRun(t, "config", "validate")
	assert.Contains(t, out, "valid")

	out = e.mustRun(t, "config", "schema")
	assert.Contains(t, out, `"type": "array"`)
}

func TestConfigShow_Merged(t *testing.T) {
	t.Parallel()

	e := newEnv(t)

	sysPath := config.Path(e.systemRoot)
	require.NoError(t, os.MkdirAll(filepath.Dir(sysPath), 0o755))
	require.NoError(t, os.WriteFile(sysPath, []byte("- name: \"System\"\n"), 0o600))

	userPath := config.Path(e.userRoot)
	require.NoError(t, os.MkdirAll(filepath.Dir(userPath), 0o755))
	require.NoError(t, os.WriteFile(userPath, []byte("- name: \"User\"\n"), 0o600))

	out := e.mustRun(t, "config", "show", "--system-wide")
	assert.Equal(t, "- name: \"System\"\n", out)

	out = e.mustRun(t, "config", "show", "--merged")

	cats, err := config.Parse([]byte(out))
	require.NoError(t, err)
	require.Len(t, cats, 2)
	assert.Equal(t, "System", cats[0].Name)
	assert.Equal(t, "User", cats[1].Name)
}

func TestConfigFmt(t *testing.T) {
	t.Parallel()

	e := newEnv(t)

	userPath := config.Path(e.userRoot)
	require.NoError(t, os.MkdirAll(filepath.Dir(userPath), 0o755))
	require.NoError(t, os.WriteFile(userPath, []byte("- {name: Docs, ext: .md}\n"), 0o600))

	out := e.mustRun(t, "config", "fmt", "--diff")
	assert.Contains(t, out, "-- {name: Docs, ext: .md}")
	assert.Contains(t, out, "+- name: \"Docs\"")

	e.mustRun(t, "config", "fmt")

	b, err := os.ReadFile(userPath)
	require.NoError(t, err)
	assert.Equal(t, "- name: \"Docs\"\n  ext: \".md\"\n", string(b))

	out = e.mustRun(t, "config", "fmt", "--diff")
	assert.Empty(t, out)
}

func TestConfigValidate_File(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	dir := t.TempDir()

	valid := filepath.Join(dir, "valid.yaml")
	require.NoError(t, os.WriteFile(valid, config.DefaultYAML(), 0o600))

	invalid := filepath.Join(dir, "invalid.yaml")
	require.NoError(t, os.WriteFile(invalid, []byte("- name: \"Docs\"\n  type: z\n"), 0o600))

	out := e.mustRun(t, "config", "validate", valid)
	assert.Contains(t, out, "valid.yaml: valid")

	_, err := e.run(t, "config", "validate", invalid)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid.yaml")
}

func TestCategoryAndActionCommands(t *testing.T) {
	t.Parallel()

	e := newEnv(t)

	e.mustRun(t, "config", "init")
	e.mustRun(t, "category", "add", "--name", "Text", "--ext", ".txt;.md")
	e.mustRun(t, "action", "add", "5", "--title", "Count", "--content", `wc -l "$@"`)

	out := e.mustRun(t, "category", "list")
	assert.Contains(t, out, "Text")
	assert.Contains(t, out, "Count")
	assert.Contains(t, out, "protected")

	_, err := e.run(t, "category", "rm", "0")
	require.ErrorIs(t, err, editor.ErrProtected)

	_, err = e.run(t, "category", "add", "--type", "z")
	require.Error(t, err)

	_, err = e.run(t, "category", "add", "--when", "files +")
	require.Error(t, err)

	_, err = e.run(t, "action", "add", "5", "--kind", "python")
	require.Error(t, err)

	_, err = e.run(t, "action", "rm", "5", "3")
	require.ErrorIs(t, err, editor.ErrOutOfRange)

	e.mustRun(t, "action", "rm", "5", "0")
	e.mustRun(t, "category", "rm", "5")

	out = e.mustRun(t, "config", "show")
	assert.Equal(t, string(config.Encode(config.GenerateDefault())), out)
}

func TestEditing_UnparseableConfig(t *testing.T) {
	t.Parallel()

	e := newEnv(t)

	broken := "- name: \"Docs\"\n  ext: \".md\"\n- name: [unclosed\n"

	userPath := config.Path(e.userRoot)
	require.NoError(t, os.MkdirAll(filepath.Dir(userPath), 0o755))
	require.NoError(t, os.WriteFile(userPath, []byte(broken), 0o600))

	for _, args := range [][]string{
		{"category", "add", "--name", "Text"},
		{"category", "list"},
		{"action", "rm", "0", "0"},
		{"config", "init"},
	} {
		_, err := e.run(t, args...)
		require.ErrorIs(t, err, config.ErrParse, args)
	}

	b, err := os.ReadFile(userPath)
	require.NoError(t, err)
	assert.Equal(t, broken, string(b))

	_, err = e.run(t, "config", "validate")
	require.Error(t, err)
	assert.Contains(t, err.Error(), userPath)

	e.mustRun(t, "config", "init", "--force")

	b, err = os.ReadFile(userPath)
	require.NoError(t, err)
	assert.Equal(t, string(config.Encode(config.GenerateDefault())), string(b))
}

func TestSetCommands(t *testing.T) {
	t.Parallel()

	e := newEnv(t)

	load := func(t *testing.T) []*config.Category {
		t.Helper()

		cats, err := config.Parse([]byte(e.mustRun(t, "config", "show")))
		require.NoError(t, err)

		return cats
	}

	e.mustRun(t, "config", "init")

	e.mustRun(t, "category", "set", "4", "--name", "Pictures", "--ext", ".png;.webp")
	cats := load(t)
	assert.Equal(t, "Pictures", cats[4].Name)
	assert.Equal(t, ".png;.webp", cats[4].Ext)

	_, err := e.run(t, "category", "set", "0", "--name", "Mine")
	require.ErrorIs(t, err, editor.ErrProtected)

	_, err = e.run(t, "category", "set", "4")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nothing to change")

	_, err = e.run(t, "category", "set", "4", "--type", "z")
	require.Error(t, err)

	e.mustRun(t, "action", "add", "4", "--title", "Resize", "--content", `sips "$@"`)

	script := "  # keep\nsips -Z 512 \"$@\"\n"
	e.mustRun(t, "action", "set", "4", "0", "--title", "Resize 512", "--ask-folder", "--content", script)

	a := load(t)[4].Actions[0]
	assert.Equal(t, "Resize 512", a.GetTitle())
	assert.Equal(t, script, a.GetContent())
	assert.True(t, a.AskFolder)

	e.mustRun(t, "action", "set", "4", "0", "--path", "/tmp/resize.sh")

	a = load(t)[4].Actions[0]
	assert.True(t, a.FromFile)
	assert.Equal(t, "/tmp/resize.sh", a.GetPath())
	assert.Equal(t, script, a.GetContent())

	e.mustRun(t, "action", "set", "4", "0", "--from-file=false", "--kind", "applescript")

	a = load(t)[4].Actions[0]
	assert.False(t, a.FromFile)
	assert.Equal(t, "applescript", a.GetKind())

	// Actions of protected categories can be changed.
	e.mustRun(t, "action", "set", "1", "0", "--ask-folder")
	assert.True(t, load(t)[1].Actions[0].AskFolder)

	_, err = e.run(t, "action", "set", "4", "3", "--title", "x")
	require.ErrorIs(t, err, editor.ErrOutOfRange)

	_, err = e.run(t, "action", "set", "4", "0", "--kind", "python")
	require.Error(t, err)
}

func TestMenuCommand(t *testing.T) {
	t.Parallel()

	e := newEnv(t)

	work := t.TempDir()
	note := filepath.Join(work, "note.txt")
	require.NoError(t, os.WriteFile(note, []byte("hello from note\n"), 0o600))

	e.mustRun(t, "config", "init")
	e.mustRun(t, "category", "add", "--name", "Text", "--ext", ".txt")
	e.mustRun(t, "action", "add", "5", "--title", "Print", "--content", `cat "$@"`)
	e.mustRun(t, "action", "add", "5", "--title", "Copy Here", "--ask-folder", "--content", `echo "to $1"`)

	out := e.mustRun(t, "menu", "--items", "--target", work, note)
	assert.Contains(t, out, "Show Selected Items")
	assert.Contains(t, out, "Print")
	assert.Contains(t, out, "Copy Here")

	out = e.mustRun(t, "menu", "--items", "--target", work, note, "--pick", "print")
	assert.Equal(t, "hello from note\n", out)

	out = e.mustRun(t, "menu", "--items", "--target", work, note, "--run", "2", "--folder", "/tmp/dest")
	assert.Equal(t, "to /tmp/dest\n", out)

	// No folder given and stdin is not a terminal: nothing runs.
	out = e.mustRun(t, "menu", "--items", "--target", work, note, "--run", "2")
	assert.Empty(t, out)

	out = e.mustRun(t, "menu", "--container", "--target", work)
	assert.Contains(t, out, "no actions")

	_, err := e.run(t, "menu", "--items", "--target", work, note, "--run", "9")
	require.Error(t, err)

	_, err = e.run(t, "menu", "--items", "--container", "--target", work)
	require.Error(t, err)
}

func TestHelperCallCommands(t *testing.T) {
	t.Parallel()

	e := newEnv(t)

	out := e.mustRun(t, "helper", "call", "run", "--command", "bash /dev/stdin 'a b' c", "--stdin", `echo "$1|$2"`)
	assert.Equal(t, "a b|c\n", out)

	_, err := e.run(t, "helper", "call", "run", "--command", "bash /dev/stdin", "--stdin", "exit 2")
	require.Error(t, err)

	out = e.mustRun(t, "helper", "call", "load", "--scope", "system")
	assert.Empty(t, out)
}

func TestErrorHandler(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		err  error
		want string
	}{
		"usage error": {
			err:  errors.New("unknown flag: --nope"),
			want: "--help",
		},
		"unparseable config": {
			err:  fmt.Errorf("load user configuration: %w", config.ErrParse),
			want: "config validate",
		},
		"helper unavailable": {
			err:  helper.ErrUnavailable,
			want: "--helper inproc",
		},
		"plain error": {
			err: errors.New("boom"),
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			buf := &bytes.Buffer{}
			cli.ErrorHandler(buf, fang.Styles{}, tc.err)

			assert.Contains(t, buf.String(), tc.err.Error())

			if tc.want != "" {
				assert.Contains(t, buf.String(), tc.want)
			} else {
				assert.NotContains(t, buf.String(), "Try")
			}
		})
	}
}
