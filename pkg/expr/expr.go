package expr

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"
)

// Variable names declared by [NewSelectionEnvironment].
const (
	VarFiles   = "files"
	VarDir     = "dir"
	VarContext = "context"
)

// Protect CEL environment creation and compilation from concurrent access.
var celMutex sync.Mutex

// Environment provides a thread-safe wrapper around a [*cel.Env].
type Environment struct {
	env *cel.Env
}

// NewEnvironment creates a new [Environment] with the path functions and
// any additional options.
func NewEnvironment(opts ...cel.EnvOption) (*Environment, error) {
	celMutex.Lock()
	defer celMutex.Unlock()

	opts = append(opts, cel.Lib(&lib{}))

	env, err := cel.NewEnv(opts...)
	if err != nil {
		return nil, fmt.Errorf("create CEL environment: %w", err)
	}

	return &Environment{env: env}, nil
}

// NewSelectionEnvironment creates an [Environment] declaring the selection
// variables files, dir and context.
func NewSelectionEnvironment() (*Environment, error) {
	return NewEnvironment(
		cel.Variable(VarFiles, cel.ListType(cel.StringType)),
		cel.Variable(VarDir, cel.StringType),
		cel.Variable(VarContext, cel.StringType),
	)
}

// Compile compiles a boolean CEL expression and returns a program.
//
//nolint:ireturn // Following CEL's function signature.
func (e *Environment) Compile(expression string) (cel.Program, error) {
	celMutex.Lock()
	defer celMutex.Unlock()

	ast, issues := e.env.Compile(expression)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile expression: %w", issues.Err())
	}

	if !ast.OutputType().IsExactType(cel.BoolType) && !ast.OutputType().IsExactType(cel.DynType) {
		return nil, fmt.Errorf("compile expression: want bool result, got %s", ast.OutputType())
	}

	program, err := e.env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("create program: %w", err)
	}

	return program, nil
}
