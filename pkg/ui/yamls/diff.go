package yamls

import (
	"strings"

	"github.com/aymanbagabas/go-udiff"

	"github.com/yantoz/finderex/pkg/ui/theme"
)

// Diff returns the unified diff turning before into after, or an empty
// string when they are equal.
func Diff(beforeLabel, afterLabel, before, after string) string {
	return udiff.Unified(beforeLabel, afterLabel, before, after)
}

// ColorizeDiff styles the added and removed lines of a unified diff.
func ColorizeDiff(t *theme.Theme, diff string) string {
	lines := strings.SplitAfter(diff, "\n")

	var b strings.Builder

	for _, line := range lines {
		body, nl := strings.CutSuffix(line, "\n")

		switch {
		case strings.HasPrefix(body, "+++"), strings.HasPrefix(body, "---"):
			b.WriteString(t.SubtleStyle.Render(body))
		case strings.HasPrefix(body, "+"):
			b.WriteString(t.InsertedStyle.Render(body))
		case strings.HasPrefix(body, "-"):
			b.WriteString(t.DeletedStyle.Render(body))
		case strings.HasPrefix(body, "@@"):
			b.WriteString(t.HandleStyle.Render(body))
		default:
			b.WriteString(body)
		}

		if nl {
			b.WriteByte('\n')
		}
	}

	return b.String()
}
