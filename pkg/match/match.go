package match

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/yantoz/finderex/pkg/config"
	"github.com/yantoz/finderex/pkg/log"
	"github.com/yantoz/finderex/pkg/rule"
)

// Context discriminates how the menu was requested.
type Context string

const (
	// ContextContainer is a click on the folder itself with nothing selected.
	ContextContainer Context = rule.ContextContainer
	// ContextItems is a click on one or more selected items.
	ContextItems Context = rule.ContextItems
)

// ParseContext converts a string into a [Context].
func ParseContext(s string) (Context, error) {
	switch Context(s) {
	case ContextContainer, ContextItems:
		return Context(s), nil
	}

	return "", fmt.Errorf("unknown context %q", s)
}

// Request describes a menu build.
type Request struct {
	// Context is the click context.
	Context Context
	// Target is the folder that was clicked, or that holds the selection.
	Target string
	// Items are the selected absolute paths.
	Items []string
}

// Matcher builds menu tables from categories.
type Matcher struct {
	prober Prober
	rules  *rule.Cache
}

// Opt configures a [Matcher].
type Opt func(*Matcher)

// WithProber sets the [Prober] used to classify selected items.
func WithProber(p Prober) Opt {
	return func(m *Matcher) {
		m.prober = p
	}
}

// NewMatcher creates a new [Matcher]. Items are probed with [StatProber]
// unless [WithProber] is given.
func NewMatcher(opts ...Opt) *Matcher {
	m := &Matcher{
		prober: StatProber{},
		rules:  rule.NewCache(),
	}
	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Match returns the menu table for req. Categories are evaluated in order
// and contribute their valid actions in declaration order:
//
//   - Container context: categories of type "c".
//   - Items context (target required): categories of type "a"; then, when
//     every existing selected item is a directory (or every one a file),
//     categories of type "d" (or "f"); then, for files only, every
//     extension category of which all selected paths are members.
//
// Categories with a `when` rule are additionally filtered by it.
func (m *Matcher) Match(ctx context.Context, req Request, cats []*config.Category) *Table {
	t := newTable(req)
	if req.Target == "" {
		return t
	}

	sel := rule.Selection{
		Context: string(req.Context),
		Dir:     req.Target,
		Files:   req.Items,
	}
	if req.Context == ContextContainer {
		sel.Files = []string{req.Target}
	}

	addType := func(typ string) {
		for _, c := range cats {
			if c.Type == typ && m.allowed(ctx, c, sel) {
				t.add(c)
			}
		}
	}

	switch req.Context {
	case ContextContainer:
		addType(config.TypeContainer)

	case ContextItems:
		addType(config.TypeAny)

		if len(req.Items) == 0 {
			break
		}

		typ, ok := m.classify(req.Items)
		if !ok {
			break
		}

		addType(typ)

		if typ != config.TypeFile {
			break
		}

		for _, c := range cats {
			if !c.IsContext() && allMembers(c, req.Items) && m.allowed(ctx, c, sel) {
				t.add(c)
			}
		}
	}

	log.WithContext(ctx).DebugContext(ctx, "built menu",
		slog.String("context", string(req.Context)),
		slog.Int("items", len(req.Items)),
		slog.Int("entries", t.Len()),
	)

	return t
}

// classify returns "d" or "f" when every existing item has that type.
// Missing items are ignored; a mixed or fully missing selection does not
// resolve.
func (m *Matcher) classify(items []string) (string, bool) {
	var typ string

	for _, item := range items {
		var this string

		switch m.prober.Probe(item) {
		case EntryDirectory:
			this = config.TypeDirectory
		case EntryFile:
			this = config.TypeFile
		default:
			continue
		}

		if typ == "" {
			typ = this
		} else if typ != this {
			return "", false
		}
	}

	return typ, typ != ""
}

func allMembers(c *config.Category, items []string) bool {
	for _, item := range items {
		if !c.IsMember(item) {
			return false
		}
	}

	return true
}

func (m *Matcher) allowed(ctx context.Context, c *config.Category, sel rule.Selection) bool {
	if c.When == "" {
		return true
	}

	logger := log.WithContext(ctx).With(slog.String("category", c.Name))

	r, err := m.rules.Get(c.When)
	if err != nil {
		logger.DebugContext(ctx, "invalid when rule", slog.Any("err", err))

		return false
	}

	ok, err := r.Eval(sel)
	if err != nil {
		logger.DebugContext(ctx, "evaluate when rule", slog.Any("err", err))

		return false
	}

	return ok
}
