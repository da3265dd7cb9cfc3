// Package theme derives terminal styles from a chroma style, so menus,
// prompts and highlighted documents share one palette.
package theme

import (
	"errors"
	"fmt"
	"os"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

var (
	ErrInvalidName    = errors.New("invalid theme name")
	ErrRegisterStyles = errors.New("register styles")
)

// Default follows the terminal background.
var Default = New("auto")

type Theme struct {
	// HandleStyle renders menu entry numbers.
	HandleStyle lipgloss.Style
	// TitleStyle renders menu entry titles.
	TitleStyle lipgloss.Style
	// CategoryStyle renders the category an entry came from.
	CategoryStyle lipgloss.Style
	SelectedStyle lipgloss.Style
	SubtleStyle   lipgloss.Style
	ErrorStyle    lipgloss.Style
	InsertedStyle lipgloss.Style
	DeletedStyle  lipgloss.Style

	ChromaStyle *chroma.Style
}

// New creates a [Theme] from the named chroma style. "dark", "light" and
// "auto" are aliases; unknown names fall back to chroma's default style.
func New(name string) *Theme {
	style := newChromaStyle(name)

	selectedStyle := lipgloss.NewStyle().
		Foreground(style.lipglossFromToken(chroma.NameTag))

	subtleStyle := lipgloss.NewStyle().
		Foreground(style.lipglossFromToken(chroma.Comment))

	return &Theme{
		HandleStyle: lipgloss.NewStyle().
			Foreground(style.lipglossFromTokenWithFactor(chroma.NameTag, 0.3)).
			Bold(true),
		TitleStyle: lipgloss.NewStyle().
			Foreground(style.lipglossFromToken(chroma.Background)),
		CategoryStyle: subtleStyle.Italic(true),
		SelectedStyle: selectedStyle,
		SubtleStyle:   subtleStyle,
		ErrorStyle: lipgloss.NewStyle().
			Foreground(style.lipglossFromToken(chroma.GenericDeleted)).
			Bold(true),
		InsertedStyle: lipgloss.NewStyle().
			Foreground(style.lipglossFromToken(chroma.GenericInserted)),
		DeletedStyle: lipgloss.NewStyle().
			Foreground(style.lipglossFromToken(chroma.GenericDeleted)),

		ChromaStyle: style.style,
	}
}

// Register adds a chroma style that [New] can then refer to by name.
func Register(name string, entries chroma.StyleEntries) error {
	if name == "" {
		return ErrInvalidName
	}

	customTheme, err := chroma.NewStyle(name, entries)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRegisterStyles, err)
	}

	styles.Register(customTheme)

	return nil
}

type chromaStyle struct {
	style *chroma.Style
}

func newChromaStyle(theme string) chromaStyle {
	s := styles.Get(getStyle(theme))
	if s == nil {
		s = styles.Fallback
	}

	return chromaStyle{style: s}
}

func (cs chromaStyle) lipglossFromToken(c chroma.TokenType) lipgloss.Color {
	s := cs.style.Get(c)

	return lipgloss.Color(s.Colour.String()) //nolint:misspell // Chroma naming.
}

func (cs chromaStyle) lipglossFromTokenWithFactor(c chroma.TokenType, factor float64) lipgloss.Color {
	s := cs.style.Get(c)

	sc := s.Colour.BrightenOrDarken(factor) //nolint:misspell // Chroma naming.

	return lipgloss.Color(sc.String())
}

func getStyle(style string) string {
	switch style {
	case "dark":
		return "github-dark"
	case "light":
		return "github"
	case "auto", "":
		return getDefaultStyle()
	default:
		return style
	}
}

func getDefaultStyle() string {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return "github"
	}

	if termenv.HasDarkBackground() {
		return "github-dark"
	}

	return "github"
}
