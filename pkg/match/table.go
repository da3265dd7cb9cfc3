package match

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/yantoz/finderex/pkg/config"
)

var (
	// ErrUnknownHandle is returned when a handle does not belong to a table.
	ErrUnknownHandle = errors.New("unknown menu handle")
	// ErrNoMatch is returned when a title query matches no entry.
	ErrNoMatch = errors.New("no matching menu entry")
)

// Handle identifies an entry by its position in a [Table].
type Handle int

// Entry is one menu item: a valid action and the category it came from.
type Entry struct {
	Category *config.Category
	Action   *config.Action
	Handle   Handle
}

// Title returns the menu label.
func (e Entry) Title() string {
	return e.Action.GetTitle()
}

// Table is the ordered result of a single menu build.
type Table struct {
	entries []Entry
	req     Request
}

func newTable(req Request) *Table {
	return &Table{req: req}
}

func (t *Table) add(c *config.Category) {
	for _, a := range c.ValidActions() {
		t.entries = append(t.entries, Entry{
			Handle:   Handle(len(t.entries)),
			Category: c,
			Action:   a,
		})
	}
}

// Request returns the request the table was built for.
func (t *Table) Request() Request {
	return t.req
}

// Len returns the number of entries.
func (t *Table) Len() int {
	return len(t.entries)
}

// Entries returns the entries in menu order.
func (t *Table) Entries() []Entry {
	return t.entries
}

// Titles returns the menu labels in menu order.
func (t *Table) Titles() []string {
	titles := make([]string, 0, len(t.entries))
	for _, e := range t.entries {
		titles = append(titles, e.Title())
	}

	return titles
}

// Resolve returns the entry for h.
func (t *Table) Resolve(h Handle) (Entry, error) {
	if h < 0 || int(h) >= len(t.entries) {
		return Entry{}, fmt.Errorf("%w: %d", ErrUnknownHandle, h)
	}

	return t.entries[h], nil
}

// Find returns the entry whose title best matches query. An exact title
// (ignoring case) wins; otherwise titles are ranked by fuzzy match.
func (t *Table) Find(query string) (Entry, error) {
	titles := t.Titles()

	for i, title := range titles {
		if strings.EqualFold(title, query) {
			return t.entries[i], nil
		}
	}

	ranks := fuzzy.Find(query, titles)
	if len(ranks) == 0 {
		return Entry{}, fmt.Errorf("%w: %q", ErrNoMatch, query)
	}

	sort.Stable(ranks)

	return t.entries[ranks[0].Index], nil
}

// Inputs returns the paths an action receives: the target folder in
// container context, or the selected items otherwise.
func (t *Table) Inputs() []string {
	if t.req.Context == ContextContainer {
		if t.req.Target == "" {
			return nil
		}

		return []string{t.req.Target}
	}

	return t.req.Items
}
