package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/lipgloss"

	"github.com/yantoz/finderex/pkg/config"
	"github.com/yantoz/finderex/pkg/editor"
	"github.com/yantoz/finderex/pkg/helper"
	"github.com/yantoz/finderex/pkg/match"
)

// ErrorHandler prints err in fang's error style, followed by a hint for
// usage errors and for errors a user can act on.
func ErrorHandler(w io.Writer, styles fang.Styles, err error) {
	mustN(fmt.Fprintln(w, styles.ErrorHeader.String()))
	mustN(fmt.Fprintln(w, lipgloss.NewStyle().MarginLeft(2).Render(err.Error())))
	mustN(fmt.Fprintln(w))

	hint := errorHint(err)
	if hint == "" {
		return
	}

	mustN(fmt.Fprintln(w, lipgloss.JoinHorizontal(
		lipgloss.Left,
		styles.ErrorText.UnsetWidth().Render("Try"),
		styles.Program.Flag.Render(hint),
	)))
	mustN(fmt.Fprintln(w))
}

func errorHint(err error) string {
	switch {
	case isUsageError(err):
		return "--help for usage."
	case errors.Is(err, helper.ErrUnavailable):
		return "--helper inproc to run without a helper process."
	case errors.Is(err, match.ErrUnknownHandle), errors.Is(err, match.ErrNoMatch):
		return "running without --run or --pick to list the menu."
	case errors.Is(err, config.ErrParse):
		return "'finderex config validate' to locate the problem."
	case errors.Is(err, editor.ErrOutOfRange), errors.Is(err, editor.ErrProtected):
		return "'finderex category list' to see indices."
	}

	return ""
}

// XXX: this is a hack to detect usage errors.
// See: https://github.com/spf13/cobra/pull/2266
func isUsageError(err error) bool {
	s := err.Error()
	for _, prefix := range []string{
		"flag needs an argument:",
		"unknown flag:",
		"unknown shorthand flag:",
		"unknown command",
		"invalid argument",
		"if any flags in the group",
		"accepts ",
		"requires ",
	} {
		if strings.HasPrefix(s, prefix) {
			return true
		}
	}

	return false
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

func mustN(_ int, err error) {
	must(err)
}
