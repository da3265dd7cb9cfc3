package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/atotto/clipboard"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/yantoz/finderex/pkg/execs"
	"github.com/yantoz/finderex/pkg/log"
	"github.com/yantoz/finderex/pkg/match"
	"github.com/yantoz/finderex/pkg/menu"
	"github.com/yantoz/finderex/pkg/ui/theme"
)

const menuExamples = `  # Menu for a click on a folder background:
  finderex menu --container --target ~/Pictures

  # Menu for selected items:
  finderex menu --items --target ~/Pictures ~/Pictures/a.png ~/Pictures/b.jpg

  # Run the second entry:
  finderex menu --items --target ~/Pictures ~/Pictures/a.png --run 1

  # Run the entry best matching a title:
  finderex menu --items --target ~/Pictures ~/Pictures/a.png --pick resize`

type MenuArgs struct {
	*RootArgs

	Target    string
	Folder    string
	Pick      string
	Run       int
	Container bool
	Items     bool
	Copy      bool
}

func NewMenuArgs(rootArgs *RootArgs) *MenuArgs {
	return &MenuArgs{RootArgs: rootArgs, Run: -1}
}

func (ma *MenuArgs) AddFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&ma.Container, "container", false, "Menu for a click on the target folder itself")
	cmd.Flags().BoolVar(&ma.Items, "items", false, "Menu for the selected items in the target folder")
	cmd.Flags().StringVar(&ma.Target, "target", "", "Folder that was clicked or that holds the selection")
	cmd.Flags().IntVar(&ma.Run, "run", -1, "Run the entry with this number")
	cmd.Flags().StringVar(&ma.Pick, "pick", "", "Run the entry whose title best matches this text")
	cmd.Flags().StringVar(&ma.Folder, "folder", "", "Folder passed to actions that ask for one")
	cmd.Flags().BoolVar(&ma.Copy, "copy", false, "Copy the action output to the clipboard")

	cmd.MarkFlagsMutuallyExclusive("container", "items")
	cmd.MarkFlagsOneRequired("container", "items")
	cmd.MarkFlagsMutuallyExclusive("run", "pick")
	must(cmd.MarkFlagRequired("target"))
	must(cmd.MarkFlagDirname("target"))
	must(cmd.MarkFlagDirname("folder"))
}

func NewMenuCmd(rootArgs *RootArgs) *cobra.Command {
	ma := NewMenuArgs(rootArgs)

	cmd := &cobra.Command{
		Use:     "menu (--container | --items) --target DIR [PATH...]",
		Short:   "Print or run the context menu for a selection",
		Example: menuExamples,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMenu(cmd, ma, args)
		},
	}

	ma.AddFlags(cmd)

	return cmd
}

func (ma *MenuArgs) request(args []string) (match.Request, error) {
	target, err := filepath.Abs(ma.Target)
	if err != nil {
		return match.Request{}, fmt.Errorf("resolve target: %w", err)
	}

	req := match.Request{Context: match.ContextContainer, Target: target}
	if ma.Container {
		return req, nil
	}

	req.Context = match.ContextItems

	for _, arg := range args {
		path, err := filepath.Abs(arg)
		if err != nil {
			return match.Request{}, fmt.Errorf("resolve %q: %w", arg, err)
		}

		req.Items = append(req.Items, path)
	}

	return req, nil
}

func (ma *MenuArgs) prompter(t *theme.Theme, target string) menu.Prompter {
	if ma.Folder != "" || !term.IsTerminal(int(os.Stdin.Fd())) {
		return menu.FixedPrompter(ma.Folder)
	}

	return menu.NewFormPrompter(t, target)
}

func runMenu(cmd *cobra.Command, ma *MenuArgs, args []string) error {
	ctx := cmd.Context()

	req, err := ma.request(args)
	if err != nil {
		return err
	}

	store, client, err := ma.store(ctx)
	if err != nil {
		return err
	}
	defer closeClient(ctx, client)

	t := ma.theme()
	svc := menu.NewService(store, execs.NewExecutor(client), menu.WithPrompter(ma.prompter(t, req.Target)))

	table := svc.Build(ctx, req)

	var handle match.Handle

	switch {
	case ma.Run >= 0:
		handle = match.Handle(ma.Run)

	case ma.Pick != "":
		entry, err := table.Find(ma.Pick)
		if err != nil {
			return err //nolint:wrapcheck // Names the query.
		}

		handle = entry.Handle

	default:
		printMenu(cmd.OutOrStdout(), t, table)

		return nil
	}

	res, err := svc.Dispatch(ctx, table, handle)
	if errors.Is(err, menu.ErrCanceled) {
		return nil
	}

	if err != nil {
		return err //nolint:wrapcheck // Names the action.
	}

	log.WithContext(ctx).InfoContext(ctx, "action finished",
		slog.Int("exit_code", res.ExitCode),
		slog.String("output", humanize.Bytes(uint64(len(res.Output)))),
	)

	mustN(io.WriteString(cmd.OutOrStdout(), res.Output))

	if ma.Copy {
		err := clipboard.WriteAll(res.Output)
		if err != nil {
			return fmt.Errorf("copy output: %w", err)
		}
	}

	if res.ExitCode != 0 {
		return fmt.Errorf("%w: exit status %d", errActionFailed, res.ExitCode)
	}

	return nil
}

var errActionFailed = errors.New("action failed")

func printMenu(w io.Writer, t *theme.Theme, table *match.Table) {
	entries := table.Entries()
	if len(entries) == 0 {
		mustN(fmt.Fprintln(w, t.SubtleStyle.Render("no actions for this selection")))

		return
	}

	width := len(strconv.Itoa(len(entries) - 1))

	for _, e := range entries {
		mustN(fmt.Fprintf(w, "%s  %s  %s\n",
			t.HandleStyle.Render(fmt.Sprintf("%*d", width, e.Handle)),
			t.TitleStyle.Render(e.Title()),
			t.CategoryStyle.Render(e.Category.Name),
		))
	}
}
