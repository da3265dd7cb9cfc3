package helper

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/yantoz/finderex/pkg/config"
	"github.com/yantoz/finderex/pkg/execs"
	"github.com/yantoz/finderex/pkg/log"
	"github.com/yantoz/finderex/pkg/version"
)

// Client calls a helper [Server] over MCP. Calls are serialized: each one
// blocks until its reply arrives and only one is in flight at a time.
//
// A client whose connection could not be established stays usable; every
// call returns [ErrUnavailable].
type Client struct {
	session *mcp.ClientSession
	connErr error
	closers []func() error
	mu      sync.Mutex
}

// Dial connects to a helper over t. It never fails: connection errors are
// logged and turn the client unavailable.
func Dial(ctx context.Context, t mcp.Transport) *Client {
	client := mcp.NewClient(&mcp.Implementation{
		Name:    "finderex",
		Version: version.GetVersion(),
	}, nil)

	session, err := client.Connect(ctx, t, nil)
	if err != nil {
		log.WithContext(ctx).WarnContext(ctx, "helper unavailable", slog.Any("err", err))

		return &Client{connErr: fmt.Errorf("%w: %w", ErrUnavailable, err)}
	}

	return &Client{session: session}
}

// DialCommand starts the helper executable with args (normally
// "helper serve") and connects to it over its stdin and stdout.
func DialCommand(ctx context.Context, executable string, args ...string) *Client {
	//nolint:gosec // G204: The helper executable is chosen by the caller.
	cmd := exec.Command(executable, args...)

	return Dial(ctx, &mcp.CommandTransport{Command: cmd})
}

// DialInProcess serves h in the current process and connects to it over
// in-memory transports.
func DialInProcess(ctx context.Context, h Helper) *Client {
	serverTransport, clientTransport := mcp.NewInMemoryTransports()

	ss, err := NewServer(h).Connect(ctx, serverTransport)
	if err != nil {
		log.WithContext(ctx).WarnContext(ctx, "helper unavailable", slog.Any("err", err))

		return &Client{connErr: fmt.Errorf("%w: %w", ErrUnavailable, err)}
	}

	c := Dial(ctx, clientTransport)
	c.closers = append(c.closers, ss.Close)

	return c
}

// Available reports whether the connection was established.
func (c *Client) Available() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.session != nil
}

// Err returns the connection error of an unavailable client.
func (c *Client) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.connErr
}

// Close ends the session.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var errs []error

	if c.session != nil {
		errs = append(errs, c.session.Close())
		c.session = nil
		c.connErr = fmt.Errorf("%w: client closed", ErrUnavailable)
	}

	for _, closer := range c.closers {
		err := closer()
		if err != nil {
			slog.Debug("close helper server", slog.Any("err", err))
		}
	}

	c.closers = nil

	return errors.Join(errs...)
}

func (c *Client) HomeDirectory(ctx context.Context) (string, error) {
	res, err := call[HomeDirectoryResult](ctx, c, ToolHomeDirectory, HomeDirectoryArgs{})
	if err != nil {
		return "", err
	}

	return res.Path, nil
}

func (c *Client) LoadConfig(ctx context.Context, scope config.Scope) (string, error) {
	res, err := call[LoadConfigResult](ctx, c, ToolLoadConfig, LoadConfigArgs{Scope: scope})
	if err != nil {
		return "", err
	}

	return res.Content, nil
}

func (c *Client) SaveConfig(ctx context.Context, content string) (bool, error) {
	res, err := call[SaveConfigResult](ctx, c, ToolSaveConfig, SaveConfigArgs{Content: content})
	if err != nil {
		return false, err
	}

	return res.OK, nil
}

// RunProcess runs a process through the helper. Once sent, the request is
// not canceled with ctx; the call returns when the process exits.
func (c *Client) RunProcess(ctx context.Context, executable, stdin string, argv []string) (*execs.Result, error) {
	res, err := call[RunProcessResult](context.WithoutCancel(ctx), c, ToolRunProcess, RunProcessArgs{
		Executable: executable,
		Stdin:      stdin,
		Argv:       argv,
	})
	if err != nil {
		return nil, err
	}

	return &execs.Result{Output: res.Output, ExitCode: res.ExitCode}, nil
}

func call[Out any](ctx context.Context, c *Client, name string, args any) (*Out, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session == nil {
		return nil, c.connErr
	}

	requestID := uuid.NewString()
	ctx = log.WithRequest(ctx, name, requestID)
	logger := log.WithContext(ctx)

	logger.DebugContext(ctx, "calling helper")

	res, err := c.session.CallTool(ctx, &mcp.CallToolParams{
		Meta:      mcp.Meta{metaRequestID: requestID},
		Name:      name,
		Arguments: args,
	})
	if err != nil {
		logger.WarnContext(ctx, "helper call failed", slog.Any("err", err))

		return nil, fmt.Errorf("%w: %s: %w", ErrUnavailable, name, err)
	}

	if res.IsError {
		msg := textContent(res)
		if strings.Contains(msg, execs.ErrSpawn.Error()) {
			return nil, fmt.Errorf("%s: %w: %s", name, ErrSpawn, msg)
		}

		return nil, fmt.Errorf("%w: %s: %s", ErrRemote, name, msg)
	}

	// Structured content arrives as generic JSON.
	b, err := json.Marshal(res.StructuredContent)
	if err != nil {
		return nil, fmt.Errorf("%s: marshal result: %w", name, err)
	}

	out := new(Out)

	err = json.Unmarshal(b, out)
	if err != nil {
		return nil, fmt.Errorf("%s: unmarshal result: %w", name, err)
	}

	return out, nil
}

func textContent(res *mcp.CallToolResult) string {
	var parts []string

	for _, content := range res.Content {
		if text, ok := content.(*mcp.TextContent); ok {
			parts = append(parts, text.Text)
		}
	}

	return strings.Join(parts, "\n")
}
