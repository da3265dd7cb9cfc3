package menu

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"

	"github.com/yantoz/finderex/pkg/match"
	"github.com/yantoz/finderex/pkg/ui/theme"
)

// ErrNotInteractive is returned by [FormPrompter] when stdin is not a
// terminal.
var ErrNotInteractive = errors.New("not running interactively")

// Prompter chooses the folder passed to actions with askFolder set. An empty
// folder with a nil error means the user chose nothing.
type Prompter interface {
	AskFolder(ctx context.Context, entry match.Entry) (string, error)
}

// FixedPrompter answers every prompt with the same folder.
type FixedPrompter string

func (p FixedPrompter) AskFolder(_ context.Context, _ match.Entry) (string, error) {
	return string(p), nil
}

// FormPrompter asks for a folder with an interactive directory picker.
type FormPrompter struct {
	t     *theme.Theme
	start string
}

// NewFormPrompter creates a new [FormPrompter] whose picker opens in start.
func NewFormPrompter(t *theme.Theme, start string) *FormPrompter {
	return &FormPrompter{t: t, start: start}
}

func (p *FormPrompter) AskFolder(ctx context.Context, entry match.Entry) (string, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return "", ErrNotInteractive
	}

	var folder string

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewFilePicker().
				Title(entry.Title()).
				Description("Choose a folder").
				CurrentDirectory(p.start).
				DirAllowed(true).
				FileAllowed(false).
				Picking(true).
				Height(12).
				Value(&folder),
		),
	).
		WithShowHelp(false).
		WithTheme(theme.HuhTheme(p.t))

	err := form.RunWithContext(ctx)
	if errors.Is(err, huh.ErrUserAborted) {
		return "", nil
	}

	if err != nil {
		return "", fmt.Errorf("run folder prompt: %w", err)
	}

	return folder, nil
}
