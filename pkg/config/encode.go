package config

import (
	"bytes"
	"slices"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Encode renders categories in the canonical document layout: one block per
// category, defaults omitted, and each action body written as a literal
// block scalar where it survives one. Actions lacking a title, a kind or
// content are dropped.
func Encode(cats []*Category) []byte {
	w := &docWriter{}

	for _, c := range cats {
		w.line(0, "- name: "+quote(c.Name))
		if c.Type != "" {
			w.line(0, "  type: "+plainOrQuote(c.Type, ContextTypes))
		}
		if c.Ext != "" {
			w.line(0, "  ext: "+quote(c.Ext))
		}
		if !c.Editable {
			w.line(0, "  allowedit: false")
		}
		if c.When != "" {
			w.line(0, "  when: "+quote(c.When))
		}

		actions := savedActions(c)
		if len(actions) == 0 {
			continue
		}

		w.line(0, "  menus:")

		for _, a := range actions {
			w.line(2, "- title: "+quote(*a.Title))
			w.line(2, "  action: "+plainOrQuote(*a.Kind, ValidKinds))
			if a.AskFolder {
				w.line(2, "  askfolder: true")
			}
			if a.FromFile {
				w.line(2, "  fromfile: true")
				if a.Path != nil {
					w.line(2, "  path: "+quote(*a.Path))
				}
			}

			w.content(4, *a.Content)
		}
	}

	return w.buf.Bytes()
}

type docWriter struct {
	buf bytes.Buffer
}

// line writes s indented by indent*2 spaces. Empty lines carry no
// trailing whitespace.
func (w *docWriter) line(indent int, s string) {
	if s != "" {
		w.buf.WriteString(strings.Repeat("  ", indent))
		w.buf.WriteString(s)
	}

	w.buf.WriteByte('\n')
}

// content writes a "content:" key. Bodies a literal block scalar can carry
// unchanged are written as one, with a chomping indicator that reproduces the
// trailing newlines of s and an indentation indicator when the first line is
// itself indented. Anything else is written double-quoted.
func (w *docWriter) content(indent int, s string) {
	s = strings.ToValidUTF8(s, string(utf8.RuneError))

	if !literalSafe(s) {
		w.line(indent-2, "  content: "+quote(s))

		return
	}

	body := strings.TrimRight(s, "\n")
	trailing := len(s) - len(body)

	header := "|"
	if strings.HasPrefix(strings.TrimLeft(body, "\n"), " ") {
		// Body lines sit two columns right of the key.
		header += "2"
	}

	switch {
	case trailing == 0:
		header += "-"
	case trailing > 1:
		header += "+"
	}

	w.line(indent-2, "  content: "+header)

	if body == "" {
		return
	}

	lines := strings.Split(body, "\n")
	if trailing > 1 {
		// Kept trailing newlines appear as empty lines after the body.
		lines = append(lines, make([]string, trailing-1)...)
	}

	for _, l := range lines {
		if l == "" {
			w.line(0, "")

			continue
		}

		w.line(indent, l)
	}
}

// literalSafe reports whether s reads back unchanged from a literal block
// scalar.
func literalSafe(s string) bool {
	if s == "" {
		return true
	}

	if strings.Trim(s, "\n") == "" {
		return false
	}

	for _, r := range s {
		if r == '\r' || (r != '\n' && r != '\t' && !unicode.IsPrint(r)) {
			return false
		}
	}

	if strings.HasPrefix(strings.TrimLeft(s, "\n"), "\t") {
		return false
	}

	for l := range strings.SplitSeq(s, "\n") {
		if strings.HasSuffix(l, " ") || strings.HasSuffix(l, "\t") {
			return false
		}
	}

	return true
}

// quote returns s as a double-quoted scalar. Go's escape sequences are a
// subset of those YAML accepts in double-quoted scalars. YAML text is
// Unicode, so invalid UTF-8 is replaced with U+FFFD first.
func quote(s string) string {
	return strconv.Quote(strings.ToValidUTF8(s, string(utf8.RuneError)))
}

func plainOrQuote(s string, plain []string) string {
	if slices.Contains(plain, s) {
		return s
	}

	return quote(s)
}
