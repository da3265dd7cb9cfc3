package rule

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/yantoz/finderex/pkg/expr"
)

// Click contexts exposed to expressions as `context`.
const (
	ContextContainer = "container"
	ContextItems     = "items"
)

var (
	ErrEmptyExpression = errors.New("empty expression")
	ErrNotBool         = errors.New("expression did not return a bool")
)

var selectionEnv = sync.OnceValues(expr.NewSelectionEnvironment)

// Rule is a compiled `when` condition.
//
// CEL expressions have access to variables:
//   - `files` (list<string>): the selected paths
//   - `dir` (string): the target folder
//   - `context` (string): "container" or "items"
//
// CEL expressions must return a boolean value:
//   - files.all(f, pathExt(f) in [".heic", ".HEIC"]) - every file is a HEIC image
//   - size(files) == 1 - exactly one item is selected
//   - dir.startsWith("/Volumes/") - the target is on a mounted volume
//   - context == "items" && files.exists(f, pathBase(f) == "Makefile")
//
// Path functions available: pathBase, pathDir, pathExt, pathStem and
// pathMatch(pattern, path). CEL also provides `endsWith`, `contains`,
// `startsWith`, `matches` and list macros such as `all`, `exists` and
// `filter`.
type Rule struct {
	program cel.Program

	// When is the source expression.
	When string
}

// Selection is the input a [Rule] is evaluated against.
type Selection struct {
	Context string
	Dir     string
	Files   []string
}

// New compiles expression into a [Rule].
func New(expression string) (*Rule, error) {
	if expression == "" {
		return nil, ErrEmptyExpression
	}

	env, err := selectionEnv()
	if err != nil {
		return nil, err
	}

	program, err := env.Compile(expression)
	if err != nil {
		return nil, fmt.Errorf("rule %q: %w", expression, err)
	}

	return &Rule{When: expression, program: program}, nil
}

// Eval evaluates the rule against sel.
func (r *Rule) Eval(sel Selection) (bool, error) {
	files := sel.Files
	if files == nil {
		files = []string{}
	}

	result, _, err := r.program.Eval(map[string]any{
		expr.VarFiles:   files,
		expr.VarDir:     sel.Dir,
		expr.VarContext: sel.Context,
	})
	if err != nil {
		return false, fmt.Errorf("evaluate %q: %w", r.When, err)
	}

	matched, ok := result.Value().(bool)
	if !ok {
		return false, fmt.Errorf("evaluate %q: %w", r.When, ErrNotBool)
	}

	return matched, nil
}

// Cache compiles each distinct expression once. It is safe for concurrent
// use.
type Cache struct {
	rules map[string]*Rule
	errs  map[string]error
	mu    sync.Mutex
}

// NewCache creates a new [Cache].
func NewCache() *Cache {
	return &Cache{
		rules: make(map[string]*Rule),
		errs:  make(map[string]error),
	}
}

// Get returns the compiled rule for expression, compiling it on first use.
func (c *Cache) Get(expression string) (*Rule, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if r, ok := c.rules[expression]; ok {
		return r, nil
	}
	if err, ok := c.errs[expression]; ok {
		return nil, err
	}

	r, err := New(expression)
	if err != nil {
		c.errs[expression] = err

		return nil, err
	}

	c.rules[expression] = r

	return r, nil
}
