package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/yantoz/finderex/pkg/config"
	"github.com/yantoz/finderex/pkg/helper"
	"github.com/yantoz/finderex/pkg/log"
	"github.com/yantoz/finderex/pkg/ui/theme"
	"github.com/yantoz/finderex/pkg/ui/yamls"
	"github.com/yantoz/finderex/pkg/yaml"
)

var (
	errConfigExists = errors.New("user configuration already exists")
	errInvalid      = errors.New("configuration is invalid")
)

func NewConfigCmd(rootArgs *RootArgs) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show, create, format and validate configuration documents",
	}

	cmd.AddCommand(
		newConfigShowCmd(rootArgs),
		newConfigInitCmd(rootArgs),
		newConfigFmtCmd(rootArgs),
		newConfigValidateCmd(rootArgs),
		newConfigSchemaCmd(),
	)

	return cmd
}

func newConfigShowCmd(rootArgs *RootArgs) *cobra.Command {
	var systemWide, merged, defaults bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the user configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			if defaults {
				return writeYAML(cmd.OutOrStdout(), rootArgs.theme(), config.DefaultYAML())
			}

			store, client, err := rootArgs.store(ctx)
			if err != nil {
				return err
			}
			defer closeClient(ctx, client)

			var doc []byte

			switch {
			case merged:
				doc, err = yaml.Marshal(config.NewDocument(store.LoadMerged(ctx, true)))
				if err != nil {
					return err //nolint:wrapcheck // Already wrapped.
				}

			case systemWide:
				content, err := client.LoadConfig(ctx, config.ScopeSystemWide)
				if err != nil {
					return err //nolint:wrapcheck // Names the tool.
				}

				doc = []byte(content)

			default:
				content, err := client.LoadConfig(ctx, config.ScopeUser)
				if err != nil {
					return err //nolint:wrapcheck // Names the tool.
				}

				doc = []byte(content)
			}

			return writeYAML(cmd.OutOrStdout(), rootArgs.theme(), doc)
		},
	}

	cmd.Flags().BoolVar(&systemWide, "system-wide", false, "Print the system-wide configuration")
	cmd.Flags().BoolVar(&merged, "merged", false, "Print system-wide and user categories in menu order")
	cmd.Flags().BoolVar(&defaults, "default", false, "Print the default configuration")
	cmd.MarkFlagsMutuallyExclusive("system-wide", "merged", "default")

	return cmd
}

func newConfigInitCmd(rootArgs *RootArgs) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration to the user scope",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, client, err := rootArgs.store(ctx)
			if err != nil {
				return err
			}
			defer closeClient(ctx, client)

			if !force {
				cats, err := store.LoadDocument(ctx, config.ScopeUser)
				if errors.Is(err, config.ErrParse) {
					return fmt.Errorf("%w, use --force to replace it", err)
				}
				if err != nil {
					return err //nolint:wrapcheck // Names the tool.
				}
				if len(cats) > 0 {
					return fmt.Errorf("%w, use --force to replace it", errConfigExists)
				}
			}

			return store.Save(ctx, config.GenerateDefault()) //nolint:wrapcheck // Wraps config.ErrSave.
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Replace an existing user configuration")

	return cmd
}

func newConfigFmtCmd(rootArgs *RootArgs) *cobra.Command {
	var diff bool

	cmd := &cobra.Command{
		Use:   "fmt",
		Short: "Rewrite the user configuration in the canonical layout",
		Long: `Rewrite the user configuration in the canonical layout.

Categories without a name and actions without a title, kind or content are
dropped, as they are whenever the configuration is saved.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, client, err := rootArgs.store(ctx)
			if err != nil {
				return err
			}
			defer closeClient(ctx, client)

			before, err := client.LoadConfig(ctx, config.ScopeUser)
			if err != nil {
				return err //nolint:wrapcheck // Names the tool.
			}

			cats, err := config.Parse([]byte(before))
			if err != nil {
				return fmt.Errorf("%w: %w", errInvalid, err)
			}

			after := string(config.Encode(cats))

			if diff {
				d := yamls.Diff(config.FileName, config.FileName+" (formatted)", before, after)
				if isTerminal(cmd.OutOrStdout()) {
					d = yamls.ColorizeDiff(rootArgs.theme(), d)
				}

				mustN(io.WriteString(cmd.OutOrStdout(), d))

				return nil
			}

			if before == after {
				log.WithContext(ctx).InfoContext(ctx, "already formatted")

				return nil
			}

			return store.Save(ctx, cats) //nolint:wrapcheck // Wraps config.ErrSave.
		},
	}

	cmd.Flags().BoolVar(&diff, "diff", false, "Print the changes instead of saving them")

	return cmd
}

func newConfigValidateCmd(rootArgs *RootArgs) *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "validate [FILE]",
		Short: "Check a configuration document against the schema",
		Long: `Check a configuration document against the schema.

Without FILE the user configuration is validated. With --watch the document
is validated again each time it changes, until interrupted.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			var doc configDoc
			if len(args) > 0 {
				doc = fileDoc(args[0])
			} else {
				_, client, err := rootArgs.store(ctx)
				if err != nil {
					return err
				}
				defer closeClient(ctx, client)

				doc, err = userDoc(ctx, client, rootArgs.UserRoot)
				if err != nil {
					return err
				}
			}

			err := validateDoc(ctx, cmd.OutOrStdout(), doc)
			if !watch {
				return err
			}

			if err != nil {
				mustN(fmt.Fprintln(cmd.ErrOrStderr(), err))
			}

			return config.Watch(ctx, doc.path, func(ctx context.Context) { //nolint:wrapcheck // Already wrapped.
				err := validateDoc(ctx, cmd.OutOrStdout(), doc)
				if err != nil {
					log.WithContext(ctx).ErrorContext(ctx, "validate", slog.Any("err", err))
				}
			})
		},
	}

	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Validate again on every change")
	cmd.ValidArgsFunction = func(_ *cobra.Command, _ []string, _ string) ([]cobra.Completion, cobra.ShellCompDirective) {
		return []cobra.Completion{"yaml", "yml"}, cobra.ShellCompDirectiveFilterFileExt
	}

	return cmd
}

// configDoc is a document to validate: where it lives, for reporting and
// watching, and how to read it.
type configDoc struct {
	read func(ctx context.Context) ([]byte, error)
	path string
}

func fileDoc(path string) configDoc {
	return configDoc{
		path: path,
		read: func(context.Context) ([]byte, error) {
			//nolint:gosec // G304: Path is chosen by the user.
			b, err := os.ReadFile(path)
			if err != nil {
				return nil, fmt.Errorf("read config: %w", err)
			}

			return b, nil
		},
	}
}

// userDoc reads the user document through the helper. Only change
// notifications come from the file system. The document lives below root,
// or below the helper's home directory when root is empty.
func userDoc(ctx context.Context, client *helper.Client, root string) (configDoc, error) {
	if root == "" {
		home, err := client.HomeDirectory(ctx)
		if err != nil {
			return configDoc{}, err //nolint:wrapcheck // Names the tool.
		}

		root = home
	}

	return configDoc{
		path: config.Path(root),
		read: func(ctx context.Context) ([]byte, error) {
			content, err := client.LoadConfig(ctx, config.ScopeUser)
			if err != nil {
				return nil, err //nolint:wrapcheck // Names the tool.
			}

			return []byte(content), nil
		},
	}, nil
}

func validateDoc(ctx context.Context, w io.Writer, doc configDoc) error {
	b, err := doc.read(ctx)
	if err != nil {
		return err
	}

	err = config.Validate(b)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", errInvalid, doc.path, err)
	}

	mustN(fmt.Fprintf(w, "%s: valid\n", doc.path))

	return nil
}

func newConfigSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON schema of the configuration document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			b, err := config.Schema()
			if err != nil {
				return err //nolint:wrapcheck // Already wrapped.
			}

			mustN(fmt.Fprintln(cmd.OutOrStdout(), string(b)))

			return nil
		},
	}
}

// writeYAML writes doc to w, highlighted when w is a terminal.
func writeYAML(w io.Writer, t *theme.Theme, doc []byte) error {
	if !isTerminal(w) {
		mustN(w.Write(doc))

		return nil
	}

	out, err := yamls.NewHighlighter(t, termenv.NewOutput(w).Profile).Render(string(doc))
	if err != nil {
		return fmt.Errorf("highlight: %w", err)
	}

	mustN(io.WriteString(w, out))

	return nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)

	return ok && term.IsTerminal(int(f.Fd()))
}
