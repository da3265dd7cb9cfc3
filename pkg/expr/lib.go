package expr

import (
	"path/filepath"
	"strings"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"
	"github.com/google/cel-go/ext"
)

type lib struct{}

func (lib) CompileOptions() []cel.EnvOption {
	return []cel.EnvOption{
		ext.Strings(),
		ext.Lists(),

		// `pathBase` returns the last element of the path.
		// Example: files.all(f, pathBase(f).startsWith("IMG_")).
		cel.Function("pathBase",
			cel.Overload("path_base", []*cel.Type{cel.StringType}, cel.StringType,
				cel.UnaryBinding(stringFunc("pathBase", filepath.Base)),
			),
		),

		// `pathDir` returns all but the last element of the path.
		// Example: files.all(f, pathDir(f) == dir).
		cel.Function("pathDir",
			cel.Overload("path_dir", []*cel.Type{cel.StringType}, cel.StringType,
				cel.UnaryBinding(stringFunc("pathDir", filepath.Dir)),
			),
		),

		// `pathExt` returns the file extension of the path, including the dot.
		// Example: files.all(f, pathExt(f) in [".heic", ".HEIC"]).
		cel.Function("pathExt",
			cel.Overload("path_ext", []*cel.Type{cel.StringType}, cel.StringType,
				cel.UnaryBinding(stringFunc("pathExt", filepath.Ext)),
			),
		),

		// `pathStem` returns the last element of the path without its extension.
		// Example: files.exists(f, pathStem(f).endsWith("-draft")).
		cel.Function("pathStem",
			cel.Overload("path_stem", []*cel.Type{cel.StringType}, cel.StringType,
				cel.UnaryBinding(stringFunc("pathStem", func(p string) string {
					base := filepath.Base(p)

					return strings.TrimSuffix(base, filepath.Ext(base))
				})),
			),
		),

		// `pathMatch` reports whether the path's last element matches a shell
		// pattern. Malformed patterns are errors.
		// Example: files.all(f, pathMatch("*.tar.gz", f)).
		cel.Function("pathMatch",
			cel.Overload("path_match", []*cel.Type{cel.StringType, cel.StringType}, cel.BoolType,
				cel.BinaryBinding(func(pattern, path ref.Val) ref.Val {
					patternValue, ok := pattern.Value().(string)
					if !ok {
						return types.NewErr("pathMatch: invalid pattern")
					}

					pathValue, ok := path.Value().(string)
					if !ok {
						return types.NewErr("pathMatch: invalid path")
					}

					matched, err := filepath.Match(patternValue, filepath.Base(pathValue))
					if err != nil {
						return types.NewErr("pathMatch: %v", err)
					}

					return types.Bool(matched)
				}),
			),
		),
	}
}

func (lib) ProgramOptions() []cel.ProgramOption {
	return []cel.ProgramOption{}
}

func stringFunc(name string, fn func(string) string) func(ref.Val) ref.Val {
	return func(v ref.Val) ref.Val {
		s, ok := v.Value().(string)
		if !ok {
			return types.NewErr("%s: invalid string value", name)
		}

		return types.String(fn(s))
	}
}
