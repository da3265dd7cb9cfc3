// Package yamls renders configuration documents for terminals: syntax
// highlighting with chroma and unified diffs with go-udiff.
package yamls

import (
	"bytes"
	"fmt"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/muesli/termenv"

	"github.com/yantoz/finderex/pkg/ui/theme"
)

// Highlighter renders YAML with chroma styling.
type Highlighter struct {
	lexer     chroma.Lexer
	formatter chroma.Formatter
	style     *chroma.Style
}

// NewHighlighter creates a new [Highlighter] for the given color profile.
// The [termenv.Ascii] profile leaves content unstyled.
func NewHighlighter(t *theme.Theme, profile termenv.Profile) *Highlighter {
	lexer := chroma.Coalesce(lexers.Get("YAML"))

	formatterName := "noop"

	switch profile {
	case termenv.TrueColor:
		formatterName = "terminal16m"

	case termenv.ANSI256:
		formatterName = "terminal256"

	case termenv.ANSI:
		formatterName = "terminal8"
	}

	return &Highlighter{
		lexer:     lexer,
		formatter: formatters.Get(formatterName),
		style:     t.ChromaStyle,
	}
}

// Render returns yaml with syntax highlighting applied.
func (h *Highlighter) Render(yaml string) (string, error) {
	iterator, err := h.lexer.Tokenise(nil, yaml)
	if err != nil {
		return "", fmt.Errorf("lexer tokenize: %w", err)
	}

	buf := &bytes.Buffer{}

	err = h.formatter.Format(buf, h.style, iterator)
	if err != nil {
		return "", fmt.Errorf("format: %w", err)
	}

	return buf.String(), nil
}
