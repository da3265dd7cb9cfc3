package menu

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/yantoz/finderex/pkg/config"
	"github.com/yantoz/finderex/pkg/execs"
	"github.com/yantoz/finderex/pkg/log"
	"github.com/yantoz/finderex/pkg/match"
)

// ErrCanceled is returned by [Service.Dispatch] when an action that asks for
// a folder was given none.
var ErrCanceled = errors.New("no folder chosen")

// Service builds menu tables and runs their entries.
type Service struct {
	store    *config.Store
	matcher  *match.Matcher
	executor *execs.Executor
	prompter Prompter
}

// Opt configures a [Service].
type Opt func(*Service)

// WithMatcher replaces the default [match.Matcher].
func WithMatcher(m *match.Matcher) Opt {
	return func(s *Service) {
		s.matcher = m
	}
}

// WithPrompter sets the [Prompter] asked for a folder by actions with
// askFolder set. Without one, such actions are canceled.
func WithPrompter(p Prompter) Opt {
	return func(s *Service) {
		s.prompter = p
	}
}

// NewService creates a new [Service] reading configuration from store and
// running actions with executor.
func NewService(store *config.Store, executor *execs.Executor, opts ...Opt) *Service {
	s := &Service{
		store:    store,
		executor: executor,
		matcher:  match.NewMatcher(),
		prompter: FixedPrompter(""),
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Build reloads the system-wide and user configuration and returns the menu
// table for req.
func (s *Service) Build(ctx context.Context, req match.Request) *match.Table {
	cats := s.store.LoadMerged(ctx, true)
	table := s.matcher.Match(ctx, req, cats)

	log.WithContext(ctx).DebugContext(ctx, "built menu",
		slog.String("context", string(req.Context)),
		slog.Int("categories", len(cats)),
		slog.Int("entries", table.Len()),
	)

	return table
}

// Dispatch runs the entry of table identified by h. Actions receive the
// selected items, or the target folder in container context; when the
// action asks for a folder, the chosen folder is passed first.
func (s *Service) Dispatch(ctx context.Context, table *match.Table, h match.Handle) (*execs.Result, error) {
	entry, err := table.Resolve(h)
	if err != nil {
		return nil, err //nolint:wrapcheck // Already carries the handle.
	}

	inputs := table.Inputs()

	if entry.Action.AskFolder {
		folder, err := s.prompter.AskFolder(ctx, entry)
		if err != nil {
			return nil, fmt.Errorf("ask folder: %w", err)
		}

		if folder == "" {
			log.WithContext(ctx).InfoContext(ctx, "no folder chosen", slog.String("title", entry.Title()))

			return nil, ErrCanceled
		}

		inputs = append([]string{folder}, inputs...)
	}

	return s.executor.Exec(ctx, entry.Action, inputs) //nolint:wrapcheck // Executor errors name the action.
}
