// Package expr provides the CEL (Common Expression Language) environment
// used by conditional categories.
//
// Expressions have access to variables:
//   - `files` (list<string>): the selected paths
//   - `dir` (string): the target folder
//   - `context` (string): "container" or "items"
//
// and to the path functions pathBase, pathDir, pathExt and pathMatch, plus
// the cel-go string and list extensions.
package expr
