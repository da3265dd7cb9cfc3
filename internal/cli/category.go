package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"

	xstrings "github.com/charmbracelet/x/exp/strings"
	"github.com/spf13/cobra"

	"github.com/yantoz/finderex/pkg/config"
	"github.com/yantoz/finderex/pkg/editor"
	"github.com/yantoz/finderex/pkg/rule"
	"github.com/yantoz/finderex/pkg/ui/theme"
)

var (
	errInvalidType = errors.New("invalid category type")
	errInvalidKind = errors.New("invalid action kind")
	errNoChanges   = errors.New("nothing to change")
)

func NewCategoryCmd(rootArgs *RootArgs) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "category",
		Short: "List, add, change and remove categories of the user configuration",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List categories with their indices",
			Args:  cobra.NoArgs,
			RunE: withSession(rootArgs, func(cmd *cobra.Command, _ []string, s *editor.Session) error {
				printCategories(cmd.OutOrStdout(), rootArgs.theme(), s)

				return nil
			}),
		},
		newCategoryAddCmd(rootArgs),
		newCategorySetCmd(rootArgs),
		&cobra.Command{
			Use:   "rm INDEX",
			Short: "Remove a category",
			Args:  cobra.ExactArgs(1),
			RunE: withSession(rootArgs, func(cmd *cobra.Command, args []string, s *editor.Session) error {
				i, err := parseIndex(args[0])
				if err != nil {
					return err
				}

				err = s.RemoveCategory(i)
				if err != nil {
					return err //nolint:wrapcheck // Names the category.
				}

				return s.Save(cmd.Context()) //nolint:wrapcheck // Wraps config.ErrSave.
			}),
		},
	)

	return cmd
}

func newCategoryAddCmd(rootArgs *RootArgs) *cobra.Command {
	var name, typ, ext, when string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Append a category",
		Example: `  finderex category add --name "Images" --ext ".png;.jpg"
  finderex category add --name "Single folder" --type d --when "size(files) == 1"`,
		Args: cobra.NoArgs,
		RunE: withSession(rootArgs, func(cmd *cobra.Command, _ []string, s *editor.Session) error {
			err := validateCategory(typ, when)
			if err != nil {
				return err
			}

			c := s.AddCategory()
			if name != "" {
				c.Name = name
			}

			c.Type = typ
			c.Ext = ext
			c.When = when

			return s.Save(cmd.Context()) //nolint:wrapcheck // Wraps config.ErrSave.
		}),
	}

	cmd.Flags().StringVar(&name, "name", config.DefaultCategoryName, "Category name")
	cmd.Flags().StringVar(&typ, "type", "", "Context type: c, a, d or f; empty for an extension category")
	cmd.Flags().StringVar(&ext, "ext", "", "Semicolon-separated filename suffixes")
	cmd.Flags().StringVar(&when, "when", "", "CEL expression that must hold for the selection")
	must(cmd.RegisterFlagCompletionFunc("type",
		cobra.FixedCompletions(config.ContextTypes, cobra.ShellCompDirectiveNoFileComp),
	))

	return cmd
}

func newCategorySetCmd(rootArgs *RootArgs) *cobra.Command {
	var name, typ, ext, when string

	cmd := &cobra.Command{
		Use:   "set INDEX",
		Short: "Change a category in place",
		Long: `Change a category in place. Only the given flags are applied.

Protected categories cannot be changed, but their actions can.`,
		Example: `  finderex category set 4 --ext ".png;.gif;.jpg;.jpeg;.webp"
  finderex category set 5 --when ""`,
		Args: cobra.ExactArgs(1),
		RunE: withSession(rootArgs, func(cmd *cobra.Command, args []string, s *editor.Session) error {
			i, err := parseIndex(args[0])
			if err != nil {
				return err
			}

			c, err := s.Category(i)
			if err != nil {
				return err //nolint:wrapcheck // Names the index.
			}

			if !c.Editable {
				return fmt.Errorf("%w: %q", editor.ErrProtected, c.Name)
			}

			flags := cmd.Flags()
			if !slices.ContainsFunc([]string{"name", "type", "ext", "when"}, flags.Changed) {
				return errNoChanges
			}

			if !flags.Changed("type") {
				typ = c.Type
			}
			if !flags.Changed("when") {
				when = c.When
			}

			err = validateCategory(typ, when)
			if err != nil {
				return err
			}

			if flags.Changed("name") {
				c.Name = name
			}
			if flags.Changed("ext") {
				c.Ext = ext
			}

			c.Type = typ
			c.When = when
			s.MarkDirty()

			return s.Save(cmd.Context()) //nolint:wrapcheck // Wraps config.ErrSave.
		}),
	}

	cmd.Flags().StringVar(&name, "name", "", "Category name")
	cmd.Flags().StringVar(&typ, "type", "", "Context type: c, a, d or f; empty for an extension category")
	cmd.Flags().StringVar(&ext, "ext", "", "Semicolon-separated filename suffixes")
	cmd.Flags().StringVar(&when, "when", "", "CEL expression that must hold for the selection")
	must(cmd.RegisterFlagCompletionFunc("type",
		cobra.FixedCompletions(config.ContextTypes, cobra.ShellCompDirectiveNoFileComp),
	))

	return cmd
}

func validateCategory(typ, when string) error {
	if typ != "" && !slices.Contains(config.ContextTypes, typ) {
		return fmt.Errorf("%w %q, want %s or empty", errInvalidType, typ,
			xstrings.EnglishJoin(config.ContextTypes, false))
	}

	if when != "" {
		_, err := rule.New(when)
		if err != nil {
			return fmt.Errorf("--when: %w", err)
		}
	}

	return nil
}

func NewActionCmd(rootArgs *RootArgs) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "action",
		Short: "Add, change and remove actions of a category",
	}

	cmd.AddCommand(
		newActionAddCmd(rootArgs),
		newActionSetCmd(rootArgs),
		&cobra.Command{
			Use:   "rm CATEGORY ACTION",
			Short: "Remove an action",
			Args:  cobra.ExactArgs(2),
			RunE: withSession(rootArgs, func(cmd *cobra.Command, args []string, s *editor.Session) error {
				i, err := parseIndex(args[0])
				if err != nil {
					return err
				}

				j, err := parseIndex(args[1])
				if err != nil {
					return err
				}

				err = s.RemoveAction(i, j)
				if err != nil {
					return err //nolint:wrapcheck // Names the category.
				}

				return s.Save(cmd.Context()) //nolint:wrapcheck // Wraps config.ErrSave.
			}),
		},
	)

	return cmd
}

func newActionAddCmd(rootArgs *RootArgs) *cobra.Command {
	var (
		title, kind, content, contentFile, path string
		askFolder                               bool
	)

	cmd := &cobra.Command{
		Use:   "add CATEGORY",
		Short: "Append an action to a category",
		Example: `  finderex action add 4 --title "Resize" --content 'sips -Z 512 "$@"'
  finderex action add 0 --title "Import" --kind workflow --path ~/Library/Services/Import.workflow`,
		Args: cobra.ExactArgs(1),
		RunE: withSession(rootArgs, func(cmd *cobra.Command, args []string, s *editor.Session) error {
			i, err := parseIndex(args[0])
			if err != nil {
				return err
			}

			err = validateKind(kind)
			if err != nil {
				return err
			}

			if contentFile != "" {
				content, err = readContent(contentFile)
				if err != nil {
					return err
				}
			}

			a, err := s.AddAction(i)
			if err != nil {
				return err //nolint:wrapcheck // Names the index.
			}

			a.Title = &title
			a.Kind = &kind
			a.Content = &content
			a.AskFolder = askFolder

			if path != "" {
				a.Path = &path
				a.FromFile = true
			}

			return s.Save(cmd.Context()) //nolint:wrapcheck // Wraps config.ErrSave.
		}),
	}

	cmd.Flags().StringVar(&title, "title", config.DefaultActionTitle, "Menu title")
	cmd.Flags().StringVar(&kind, "kind", config.DefaultActionKind, "Action kind: bash, applescript or workflow")
	cmd.Flags().StringVar(&content, "content", "", "Inline script")
	cmd.Flags().StringVar(&contentFile, "content-file", "", "Read the inline script from this file")
	cmd.Flags().StringVar(&path, "path", "", "Run this script or workflow file instead of inline content")
	cmd.Flags().BoolVar(&askFolder, "ask-folder", false, "Ask for a folder, passed before the selection")
	cmd.MarkFlagsMutuallyExclusive("content", "content-file", "path")
	must(cmd.RegisterFlagCompletionFunc("kind",
		cobra.FixedCompletions(config.ValidKinds, cobra.ShellCompDirectiveNoFileComp),
	))
	must(cmd.MarkFlagFilename("content-file"))
	must(cmd.MarkFlagFilename("path"))

	return cmd
}

func newActionSetCmd(rootArgs *RootArgs) *cobra.Command {
	var (
		title, kind, content, contentFile, path string
		askFolder, fromFile                     bool
	)

	cmd := &cobra.Command{
		Use:   "set CATEGORY ACTION",
		Short: "Change an action in place",
		Long: `Change an action in place. Only the given flags are applied.

Setting --path also switches the action to run that file, unless
--from-file is given explicitly.`,
		Example: `  finderex action set 4 0 --title "Resize to 512"
  finderex action set 1 0 --ask-folder=false
  finderex action set 5 2 --from-file=false --content 'open "$@"'`,
		Args: cobra.ExactArgs(2),
		RunE: withSession(rootArgs, func(cmd *cobra.Command, args []string, s *editor.Session) error {
			i, err := parseIndex(args[0])
			if err != nil {
				return err
			}

			j, err := parseIndex(args[1])
			if err != nil {
				return err
			}

			a, err := s.Action(i, j)
			if err != nil {
				return err //nolint:wrapcheck // Names the indices.
			}

			flags := cmd.Flags()
			if !slices.ContainsFunc([]string{
				"title", "kind", "content", "content-file", "path", "ask-folder", "from-file",
			}, flags.Changed) {
				return errNoChanges
			}

			if flags.Changed("kind") {
				err = validateKind(kind)
				if err != nil {
					return err
				}
			}

			if contentFile != "" {
				content, err = readContent(contentFile)
				if err != nil {
					return err
				}
			}

			if flags.Changed("title") {
				a.Title = &title
			}
			if flags.Changed("kind") {
				a.Kind = &kind
			}
			if flags.Changed("content") || flags.Changed("content-file") {
				a.Content = &content
			}
			if flags.Changed("ask-folder") {
				a.AskFolder = askFolder
			}
			if flags.Changed("path") {
				a.Path = &path
				if !flags.Changed("from-file") {
					a.FromFile = path != ""
				}
			}
			if flags.Changed("from-file") {
				a.FromFile = fromFile
			}

			if a.FromFile && a.Content == nil {
				// Actions without content are not saved.
				a.Content = new(string)
			}

			s.MarkDirty()

			return s.Save(cmd.Context()) //nolint:wrapcheck // Wraps config.ErrSave.
		}),
	}

	cmd.Flags().StringVar(&title, "title", "", "Menu title")
	cmd.Flags().StringVar(&kind, "kind", "", "Action kind: bash, applescript or workflow")
	cmd.Flags().StringVar(&content, "content", "", "Inline script")
	cmd.Flags().StringVar(&contentFile, "content-file", "", "Read the inline script from this file")
	cmd.Flags().StringVar(&path, "path", "", "Script or workflow file to run")
	cmd.Flags().BoolVar(&askFolder, "ask-folder", false, "Ask for a folder, passed before the selection")
	cmd.Flags().BoolVar(&fromFile, "from-file", false, "Run the file at --path instead of inline content")
	cmd.MarkFlagsMutuallyExclusive("content", "content-file")
	must(cmd.RegisterFlagCompletionFunc("kind",
		cobra.FixedCompletions(config.ValidKinds, cobra.ShellCompDirectiveNoFileComp),
	))
	must(cmd.MarkFlagFilename("content-file"))
	must(cmd.MarkFlagFilename("path"))

	return cmd
}

func validateKind(kind string) error {
	if !slices.Contains(config.ValidKinds, kind) {
		return fmt.Errorf("%w %q, want %s", errInvalidKind, kind,
			xstrings.EnglishJoin(config.ValidKinds, false))
	}

	return nil
}

func readContent(path string) (string, error) {
	//nolint:gosec // G304: Path is chosen by the user.
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read content: %w", err)
	}

	return string(b), nil
}

func withSession(
	rootArgs *RootArgs,
	run func(cmd *cobra.Command, args []string, s *editor.Session) error,
) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		store, client, err := rootArgs.store(ctx)
		if err != nil {
			return err
		}
		defer closeClient(ctx, client)

		s, err := editor.Load(ctx, store)
		if err != nil {
			return err //nolint:wrapcheck // Already wrapped.
		}

		return run(cmd, args, s)
	}
}

func parseIndex(s string) (int, error) {
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid argument %q: not an index", s)
	}

	return i, nil
}

func printCategories(w io.Writer, t *theme.Theme, s *editor.Session) {
	if s.Dirty() {
		mustN(fmt.Fprintln(w, t.SubtleStyle.Render("(defaults, not yet saved)")))
	}

	for i, c := range s.Categories() {
		kind := c.Type
		if kind == "" {
			kind = c.Ext
		}

		locked := ""
		if !c.Editable {
			locked = " " + t.CategoryStyle.Render("protected")
		}

		mustN(fmt.Fprintf(w, "%s  %s  %s%s\n",
			t.HandleStyle.Render(strconv.Itoa(i)),
			t.TitleStyle.Render(c.Name),
			t.SubtleStyle.Render(kind),
			locked,
		))

		for j, a := range c.Actions {
			mustN(fmt.Fprintf(w, "   %s  %s  %s\n",
				t.HandleStyle.Render(strconv.Itoa(j)),
				a.GetTitle(),
				t.SubtleStyle.Render(a.GetKind()),
			))
		}
	}
}
