package expr_test

import (
	"testing"

	"github.com/google/cel-go/cel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yantoz/finderex/pkg/expr"
)

func TestPathFunctions(t *testing.T) {
	t.Parallel()

	env, err := expr.NewEnvironment(cel.Variable("path", cel.StringType))
	require.NoError(t, err)

	tcs := map[string]struct {
		expression string
		path       string
		want       bool
	}{
		"pathBase": {
			expression: `pathBase(path) == "photo.jpg"`,
			path:       "/Users/me/Pictures/photo.jpg",
			want:       true,
		},
		"pathDir": {
			expression: `pathDir(path) == "/Users/me/Pictures"`,
			path:       "/Users/me/Pictures/photo.jpg",
			want:       true,
		},
		"pathExt": {
			expression: `pathExt(path) == ".jpg"`,
			path:       "/Users/me/Pictures/photo.jpg",
			want:       true,
		},
		"pathExt of directory": {
			expression: `pathExt(path) == ""`,
			path:       "/Users/me/Pictures",
			want:       true,
		},
		"pathStem": {
			expression: `pathStem(path) == "archive.tar"`,
			path:       "/tmp/archive.tar.gz",
			want:       true,
		},
		"pathMatch": {
			expression: `pathMatch("IMG_*.HEIC", path)`,
			path:       "/DCIM/IMG_0001.HEIC",
			want:       true,
		},
		"pathMatch is case sensitive": {
			expression: `pathMatch("*.heic", path)`,
			path:       "/DCIM/IMG_0001.HEIC",
			want:       false,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			program, err := env.Compile(tc.expression)
			require.NoError(t, err)

			result, _, err := program.Eval(map[string]any{"path": tc.path})
			require.NoError(t, err)
			assert.Equal(t, tc.want, result.Value())
		})
	}
}

func TestCompile_Errors(t *testing.T) {
	t.Parallel()

	env, err := expr.NewSelectionEnvironment()
	require.NoError(t, err)

	tcs := map[string]string{
		"syntax error":     `files.exists(f,`,
		"unknown function": `pathNope(dir)`,
		"non-bool result":  `pathBase(dir)`,
	}

	for name, expression := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			_, err := env.Compile(expression)
			require.Error(t, err)
		})
	}
}
