package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-shellwords"
	"github.com/spf13/cobra"

	"github.com/yantoz/finderex/pkg/config"
	"github.com/yantoz/finderex/pkg/execs"
	"github.com/yantoz/finderex/pkg/helper"
)

var errSaveFailed = errors.New("helper could not save the configuration")

func NewHelperCmd(rootArgs *RootArgs) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "helper",
		Short: "Run or call the privileged helper",
	}

	cmd.AddCommand(
		newHelperServeCmd(rootArgs),
		newHelperCallCmd(rootArgs),
	)

	return cmd
}

func newHelperServeCmd(rootArgs *RootArgs) *cobra.Command {
	var rpcLog string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the helper tools over stdin and stdout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			l, err := rootArgs.local()
			if err != nil {
				return err
			}

			var w io.Writer

			if rpcLog != "" {
				//nolint:gosec // G304: Path is chosen by the user.
				f, err := os.OpenFile(rpcLog, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
				if err != nil {
					return fmt.Errorf("open rpc log: %w", err)
				}
				defer f.Close() //nolint:errcheck // Best effort.

				w = f
			}

			return helper.NewServer(l).ServeStdio(cmd.Context(), w) //nolint:wrapcheck // Already wrapped.
		},
	}

	cmd.Flags().StringVar(&rpcLog, "rpc-log", "", "Append protocol messages to this file")
	must(cmd.MarkFlagFilename("rpc-log"))

	return cmd
}

func newHelperCallCmd(rootArgs *RootArgs) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "call",
		Short: "Call one helper operation and print the result",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "home",
			Short: "Print the helper's home directory",
			Args:  cobra.NoArgs,
			RunE: withClient(rootArgs, func(cmd *cobra.Command, c *helper.Client) error {
				home, err := c.HomeDirectory(cmd.Context())
				if err != nil {
					return err //nolint:wrapcheck // Names the tool.
				}

				mustN(fmt.Fprintln(cmd.OutOrStdout(), home))

				return nil
			}),
		},
		newHelperLoadCmd(rootArgs),
		newHelperSaveCmd(rootArgs),
		newHelperRunCmd(rootArgs),
	)

	return cmd
}

func newHelperLoadCmd(rootArgs *RootArgs) *cobra.Command {
	var scope string

	cmd := &cobra.Command{
		Use:   "load",
		Short: "Print a configuration document as the helper reads it",
		Args:  cobra.NoArgs,
		RunE: withClient(rootArgs, func(cmd *cobra.Command, c *helper.Client) error {
			content, err := c.LoadConfig(cmd.Context(), config.Scope(scope))
			if err != nil {
				return err //nolint:wrapcheck // Names the tool.
			}

			mustN(io.WriteString(cmd.OutOrStdout(), content))

			return nil
		}),
	}

	cmd.Flags().StringVar(&scope, "scope", string(config.ScopeUser), "Document scope, user or system")
	must(cmd.RegisterFlagCompletionFunc("scope", cobra.FixedCompletions(
		[]string{string(config.ScopeUser), string(config.ScopeSystemWide)},
		cobra.ShellCompDirectiveNoFileComp,
	)))

	return cmd
}

func newHelperSaveCmd(rootArgs *RootArgs) *cobra.Command {
	return &cobra.Command{
		Use:   "save",
		Short: "Replace the user document with stdin, without validation",
		Args:  cobra.NoArgs,
		RunE: withClient(rootArgs, func(cmd *cobra.Command, c *helper.Client) error {
			b, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("read stdin: %w", err)
			}

			ok, err := c.SaveConfig(cmd.Context(), string(b))
			if err != nil {
				return err //nolint:wrapcheck // Names the tool.
			}

			if !ok {
				return errSaveFailed
			}

			return nil
		}),
	}
}

func newHelperRunCmd(rootArgs *RootArgs) *cobra.Command {
	var (
		executable string
		command    string
		stdin      string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a process through the helper",
		Example: `  finderex helper call run --command "bash /dev/stdin" --stdin "echo hi"
  finderex helper call run --executable /bin/ls --command "-la /tmp"`,
		Args: cobra.NoArgs,
		RunE: withClient(rootArgs, func(cmd *cobra.Command, c *helper.Client) error {
			argv, err := shellwords.Parse(command)
			if err != nil {
				return fmt.Errorf("parse --command: %w", err)
			}

			res, err := c.RunProcess(cmd.Context(), executable, stdin, argv)
			if err != nil {
				return err //nolint:wrapcheck // Names the tool.
			}

			mustN(io.WriteString(cmd.OutOrStdout(), res.Output))

			if res.ExitCode != 0 {
				return fmt.Errorf("%w: exit status %d", errActionFailed, res.ExitCode)
			}

			return nil
		}),
	}

	cmd.Flags().StringVar(&executable, "executable", execs.Env, "Program to run")
	cmd.Flags().StringVar(&command, "command", "", "Arguments, split like a shell would")
	cmd.Flags().StringVar(&stdin, "stdin", "", "Data written to the process's stdin")

	return cmd
}

func withClient(
	rootArgs *RootArgs,
	run func(cmd *cobra.Command, c *helper.Client) error,
) func(cmd *cobra.Command, _ []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		c, err := rootArgs.dial(ctx)
		if err != nil {
			return err
		}
		defer closeClient(ctx, c)

		return run(cmd, c)
	}
}
