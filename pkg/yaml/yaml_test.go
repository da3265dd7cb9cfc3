package yaml_test

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yantoz/finderex/pkg/yaml"
)

func TestError_Error(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		err  yaml.Error
		want string
	}{
		"with path": {
			err: yaml.Error{
				Err:  errors.New("value is required"),
				Path: yaml.NewPathBuilder().Root().Index(0).Child("name").Build(),
			},
			want: "error at $[0].name: value is required",
		},
		"without position": {
			err: yaml.Error{
				Err: errors.New("validation error"),
			},
			want: "validation error",
		},
		"nil error": {
			err:  yaml.Error{},
			want: "",
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.want, tc.err.Error())
		})
	}
}

func TestError_AnnotatesSource(t *testing.T) {
	t.Parallel()

	src := []byte("- name: \"Images\"\n  ext: \".png\"\n")

	err := yaml.NewError(errors.New("bad extension"),
		yaml.WithPath(yaml.NewPathBuilder().Root().Index(0).Child("ext").Build()),
		yaml.WithSource(src),
	)

	msg := err.Error()
	assert.True(t, strings.HasPrefix(msg, "[2:3] bad extension:"), msg)
	assert.Contains(t, msg, "ext")
}

func TestDecoder_Decode(t *testing.T) {
	t.Parallel()

	t.Run("valid document", func(t *testing.T) {
		t.Parallel()

		var got []map[string]any

		err := yaml.NewDecoder(strings.NewReader("- name: a\n- name: b\n")).Decode(&got)
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("empty document", func(t *testing.T) {
		t.Parallel()

		var got []map[string]any

		err := yaml.NewDecoder(strings.NewReader("")).Decode(&got)
		require.ErrorIs(t, err, io.EOF)
	})

	t.Run("syntax error is positioned", func(t *testing.T) {
		t.Parallel()

		var got any

		err := yaml.NewDecoder(strings.NewReader("- name: \"open\n")).Decode(&got)
		require.Error(t, err)

		var yamlErr *yaml.Error
		require.ErrorAs(t, err, &yamlErr)
		assert.NotNil(t, yamlErr.Token)
	})
}

func TestValidator(t *testing.T) {
	t.Parallel()

	schema := []byte(`{
  "type": "array",
  "items": {
    "type": "object",
    "required": ["name"],
    "properties": {"name": {"type": "string"}}
  }
}`)

	v, err := yaml.NewValidator("/test.json", schema)
	require.NoError(t, err)

	require.NoError(t, v.Validate([]any{map[string]any{"name": "a"}}))

	err = v.Validate([]any{map[string]any{"name": "a"}, map[string]any{"name": 5}})
	require.Error(t, err)

	var yamlErr *yaml.Error
	require.ErrorAs(t, err, &yamlErr)
	require.NotNil(t, yamlErr.Path)
	assert.Equal(t, "$[1].name", yamlErr.Path.String())
}

func TestMarshal(t *testing.T) {
	t.Parallel()

	b, err := yaml.Marshal(map[string]any{"title": "Run"})
	require.NoError(t, err)
	assert.Equal(t, "title: Run\n", string(b))
}
