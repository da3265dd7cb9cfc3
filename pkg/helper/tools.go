package helper

import (
	"github.com/yantoz/finderex/pkg/config"
)

// HomeDirectoryArgs are the (empty) arguments of [ToolHomeDirectory].
type HomeDirectoryArgs struct{}

// HomeDirectoryResult is the result of [ToolHomeDirectory].
type HomeDirectoryResult struct {
	Path string `json:"path" jsonschema:"The home directory of the helper's user"`
}

// LoadConfigArgs are the arguments of [ToolLoadConfig].
type LoadConfigArgs struct {
	Scope config.Scope `json:"scope" jsonschema:"Which document to read: user or system"`
}

// LoadConfigResult is the result of [ToolLoadConfig].
type LoadConfigResult struct {
	Content string `json:"content" jsonschema:"The document text, empty when it could not be read"`
}

// SaveConfigArgs are the arguments of [ToolSaveConfig].
type SaveConfigArgs struct {
	Content string `json:"content" jsonschema:"The full text of the user document"`
}

// SaveConfigResult is the result of [ToolSaveConfig].
type SaveConfigResult struct {
	OK bool `json:"ok" jsonschema:"Whether every stage of the write succeeded"`
}

// RunProcessArgs are the arguments of [ToolRunProcess].
type RunProcessArgs struct {
	Executable string   `json:"executable"      jsonschema:"Absolute path of the program to run"`
	Stdin      string   `json:"stdin,omitempty" jsonschema:"Data written to the process before its stdin is closed"`
	Argv       []string `json:"argv,omitempty"  jsonschema:"Arguments passed to the program"`
}

// RunProcessResult is the result of [ToolRunProcess].
type RunProcessResult struct {
	Output   string `json:"output"   jsonschema:"Combined stdout and stderr"`
	ExitCode int    `json:"exitCode" jsonschema:"Process exit status"`
}
