package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/yantoz/finderex/pkg/config"
	"github.com/yantoz/finderex/pkg/helper"
	"github.com/yantoz/finderex/pkg/log"
	"github.com/yantoz/finderex/pkg/ui/theme"
)

const (
	cmdName = "finderex"
	cmdDesc = `Context-menu actions for files, folders and containers, driven by a YAML configuration.`

	// HelperExec runs the helper as a child process.
	HelperExec = "exec"
	// HelperInProcess serves the helper inside the current process.
	HelperInProcess = "inproc"
)

var helperModes = []string{HelperExec, HelperInProcess}

type RootArgs struct {
	LogLevel     string
	LogFormat    string
	UserRoot     string
	SystemRoot   string
	Helper       string
	OTLPEndpoint string
	Theme        string

	shutdown func(context.Context) error
}

func NewRootArgs() *RootArgs {
	return &RootArgs{}
}

func (ra *RootArgs) AddFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().
		StringVar(&ra.LogLevel, "log-level", "info", fmt.Sprintf("Log level, one of: %s", log.AllLevels))
	cmd.PersistentFlags().
		StringVar(&ra.LogFormat, "log-format", "text", fmt.Sprintf("Log format, one of: %s", log.AllFormats))
	cmd.PersistentFlags().
		StringVar(&ra.UserRoot, "user-root", "", "Root of the user configuration, defaults to the home directory")
	cmd.PersistentFlags().
		StringVar(&ra.SystemRoot, "system-root", "/", "Root of the system-wide configuration")
	cmd.PersistentFlags().
		StringVar(&ra.Helper, "helper", HelperExec, fmt.Sprintf("How to reach the helper, one of: %s", helperModes))
	cmd.PersistentFlags().
		StringVar(&ra.OTLPEndpoint, "otlp-endpoint", "", "Export traces to this OTLP/gRPC endpoint")
	cmd.PersistentFlags().
		StringVar(&ra.Theme, "theme", "auto", "Chroma style used for terminal output")

	must(cmd.RegisterFlagCompletionFunc("log-format",
		cobra.FixedCompletions(log.AllFormats, cobra.ShellCompDirectiveNoFileComp),
	))
	must(cmd.RegisterFlagCompletionFunc("log-level",
		cobra.FixedCompletions(log.AllLevels, cobra.ShellCompDirectiveNoFileComp),
	))
	must(cmd.RegisterFlagCompletionFunc("helper",
		cobra.FixedCompletions(helperModes, cobra.ShellCompDirectiveNoFileComp),
	))
	must(cmd.MarkPersistentFlagDirname("user-root"))
	must(cmd.MarkPersistentFlagDirname("system-root"))
}

func NewRootCmd() *cobra.Command {
	args := NewRootArgs()

	cmd := &cobra.Command{
		Use:               cmdName,
		Short:             cmdDesc,
		SilenceUsage:      true,
		PersistentPreRunE: setup(args),
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return args.close(cmd.Context())
		},
	}

	args.AddFlags(cmd)

	cmd.AddCommand(
		NewMenuCmd(args),
		NewHelperCmd(args),
		NewConfigCmd(args),
		NewCategoryCmd(args),
		NewActionCmd(args),
	)

	bindEnvVars(cmd)

	return cmd
}

func setup(ra *RootArgs) func(cmd *cobra.Command, _ []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		logHandler, err := log.CreateHandlerWithStrings(cmd.ErrOrStderr(), ra.LogLevel, ra.LogFormat)
		if err != nil {
			return fmt.Errorf("create log handler: %w", err)
		}

		slog.SetDefault(slog.New(logHandler))

		if ra.OTLPEndpoint != "" {
			ra.shutdown, err = setupTracing(cmd.Context(), ra.OTLPEndpoint)
			if err != nil {
				return fmt.Errorf("setup tracing: %w", err)
			}
		}

		return nil
	}
}

func (ra *RootArgs) close(ctx context.Context) error {
	if ra.shutdown == nil {
		return nil
	}

	err := ra.shutdown(context.WithoutCancel(ctx))
	if err != nil {
		return fmt.Errorf("shutdown tracing: %w", err)
	}

	return nil
}

// local returns a helper that runs in this process with the configured roots.
func (ra *RootArgs) local() (*helper.Local, error) {
	var opts []helper.LocalOpt
	if ra.UserRoot != "" {
		opts = append(opts, helper.WithUserRoot(ra.UserRoot))
	}

	if ra.SystemRoot != "" {
		opts = append(opts, helper.WithSystemRoot(ra.SystemRoot))
	}

	l, err := helper.NewLocal(opts...)
	if err != nil {
		return nil, fmt.Errorf("create helper: %w", err)
	}

	return l, nil
}

// dial connects to the helper selected by --helper. The returned client may
// be unavailable; its calls then fail with [helper.ErrUnavailable].
func (ra *RootArgs) dial(ctx context.Context) (*helper.Client, error) {
	switch ra.Helper {
	case HelperInProcess:
		l, err := ra.local()
		if err != nil {
			return nil, err
		}

		return helper.DialInProcess(ctx, l), nil

	case HelperExec:
		exe, err := os.Executable()
		if err != nil {
			return nil, fmt.Errorf("find executable: %w", err)
		}

		return helper.DialCommand(ctx, exe, ra.helperArgs()...), nil
	}

	return nil, fmt.Errorf("%w: --helper %q", log.ErrInvalidArgument, ra.Helper)
}

// helperArgs are the arguments that start a helper child process sharing
// this process's roots and logging.
func (ra *RootArgs) helperArgs() []string {
	args := []string{
		"helper", "serve",
		"--log-level", ra.LogLevel,
		"--log-format", ra.LogFormat,
		"--system-root", ra.SystemRoot,
	}
	if ra.UserRoot != "" {
		args = append(args, "--user-root", ra.UserRoot)
	}

	return args
}

// store dials the helper and returns a configuration store backed by it.
// Callers close the returned client.
func (ra *RootArgs) store(ctx context.Context) (*config.Store, *helper.Client, error) {
	client, err := ra.dial(ctx)
	if err != nil {
		return nil, nil, err
	}

	return config.NewStore(client), client, nil
}

func (ra *RootArgs) theme() *theme.Theme {
	return theme.New(ra.Theme)
}

func closeClient(ctx context.Context, c *helper.Client) {
	err := c.Close()
	if err != nil {
		log.WithContext(ctx).DebugContext(ctx, "close helper", slog.Any("err", err))
	}
}
