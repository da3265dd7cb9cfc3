package helper

import (
	"context"
	"fmt"
	"io"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/yantoz/finderex/pkg/version"
)

const (
	serverName   = "finderex-helper"
	instructions = "Privileged helper for finderex. Reads and writes the finderex configuration documents and runs action processes on behalf of the menu host."
)

// Server exposes a [Helper] as MCP tools.
type Server struct {
	helper Helper
	server *mcp.Server
	tracer trace.Tracer
}

// NewServer creates a new [Server] serving h.
func NewServer(h Helper) *Server {
	s := &Server{
		helper: h,
		tracer: otel.Tracer("helper"),
		server: mcp.NewServer(&mcp.Implementation{
			Name:    serverName,
			Version: version.GetVersion(),
		}, &mcp.ServerOptions{
			Instructions: instructions,
		}),
	}

	s.registerTools()

	return s
}

func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        ToolHomeDirectory,
		Description: "Return the home directory of the helper's user.",
	}, withTracing(s.tracer, s.handleHomeDirectory))

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        ToolLoadConfig,
		Description: "Read the user or system-wide configuration document. Returns empty content when it cannot be read.",
	}, withTracing(s.tracer, s.handleLoadConfig))

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        ToolSaveConfig,
		Description: "Replace the user configuration document.",
	}, withTracing(s.tracer, s.handleSaveConfig))

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        ToolRunProcess,
		Description: "Run a process to completion and return its combined output and exit code.",
	}, withTracing(s.tracer, s.handleRunProcess))
}

// Run serves on t until the client disconnects or ctx is done.
func (s *Server) Run(ctx context.Context, t mcp.Transport) error {
	err := s.server.Run(ctx, t)
	if err != nil {
		return fmt.Errorf("helper server: %w", err)
	}

	return nil
}

// Connect starts a session on t and returns without waiting for it to end.
func (s *Server) Connect(ctx context.Context, t mcp.Transport) (*mcp.ServerSession, error) {
	ss, err := s.server.Connect(ctx, t, nil)
	if err != nil {
		return nil, fmt.Errorf("connect helper server: %w", err)
	}

	return ss, nil
}

// ServeStdio serves on stdin and stdout. When rpcLog is not nil, protocol
// messages are copied to it.
func (s *Server) ServeStdio(ctx context.Context, rpcLog io.Writer) error {
	var t mcp.Transport = &mcp.StdioTransport{}
	if rpcLog != nil {
		t = &mcp.LoggingTransport{Transport: t, Writer: rpcLog}
	}

	return s.Run(ctx, t)
}

func (s *Server) handleHomeDirectory(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ HomeDirectoryArgs,
) (*mcp.CallToolResult, HomeDirectoryResult, error) {
	home, err := s.helper.HomeDirectory(ctx)
	if err != nil {
		return nil, HomeDirectoryResult{}, err
	}

	return nil, HomeDirectoryResult{Path: home}, nil
}

func (s *Server) handleLoadConfig(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	args LoadConfigArgs,
) (*mcp.CallToolResult, LoadConfigResult, error) {
	content, err := s.helper.LoadConfig(ctx, args.Scope)
	if err != nil {
		return nil, LoadConfigResult{}, err
	}

	return nil, LoadConfigResult{Content: content}, nil
}

func (s *Server) handleSaveConfig(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	args SaveConfigArgs,
) (*mcp.CallToolResult, SaveConfigResult, error) {
	ok, err := s.helper.SaveConfig(ctx, args.Content)
	if err != nil {
		return nil, SaveConfigResult{}, err
	}

	return nil, SaveConfigResult{OK: ok}, nil
}

func (s *Server) handleRunProcess(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	args RunProcessArgs,
) (*mcp.CallToolResult, RunProcessResult, error) {
	res, err := s.helper.RunProcess(ctx, args.Executable, args.Stdin, args.Argv)
	if err != nil {
		return nil, RunProcessResult{}, err
	}

	return nil, RunProcessResult{Output: res.Output, ExitCode: res.ExitCode}, nil
}
