// Package editor holds an editing session over the user configuration.
//
// A [Session] owns the categories loaded from the user scope. Categories and
// actions are changed in place through the pointers it hands out; nothing
// is written until [Session.Save].
package editor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/yantoz/finderex/pkg/config"
	"github.com/yantoz/finderex/pkg/log"
)

var (
	// ErrProtected is returned when removing a category that is not editable.
	ErrProtected = errors.New("category is protected")
	// ErrOutOfRange is returned for category or action indices that do not
	// exist.
	ErrOutOfRange = errors.New("index out of range")
)

// Session is an in-memory copy of the user configuration.
type Session struct {
	store *config.Store
	cats  []*config.Category
	dirty bool
}

// Load starts a session on the user scope of store. When the user scope is
// empty the default configuration is used and the session starts dirty.
// A user document that cannot be read or parsed is an error, so that it is
// never replaced by the defaults.
func Load(ctx context.Context, store *config.Store) (*Session, error) {
	cats, err := store.LoadDocument(ctx, config.ScopeUser)
	if err != nil {
		return nil, fmt.Errorf("load user configuration: %w", err)
	}

	s := &Session{
		store: store,
		cats:  cats,
	}

	if len(s.cats) == 0 {
		log.WithContext(ctx).InfoContext(ctx, "user configuration is empty, using defaults")

		s.cats = config.GenerateDefault()
		s.dirty = true
	}

	return s, nil
}

// Categories returns the categories in document order.
func (s *Session) Categories() []*config.Category {
	return s.cats
}

// Category returns the category at i.
func (s *Session) Category(i int) (*config.Category, error) {
	if i < 0 || i >= len(s.cats) {
		return nil, fmt.Errorf("%w: category %d", ErrOutOfRange, i)
	}

	return s.cats[i], nil
}

// Action returns action j of category i.
func (s *Session) Action(i, j int) (*config.Action, error) {
	c, err := s.Category(i)
	if err != nil {
		return nil, err
	}

	if j < 0 || j >= len(c.Actions) {
		return nil, fmt.Errorf("%w: action %d of %q", ErrOutOfRange, j, c.Name)
	}

	return c.Actions[j], nil
}

// AddCategory appends a new editable category and returns it.
func (s *Session) AddCategory() *config.Category {
	c := config.NewCategory()
	s.cats = append(s.cats, c)
	s.dirty = true

	return c
}

// RemoveCategory removes the category at i. Categories that are not
// editable cannot be removed.
func (s *Session) RemoveCategory(i int) error {
	c, err := s.Category(i)
	if err != nil {
		return err
	}

	if !c.Editable {
		return fmt.Errorf("%w: %q", ErrProtected, c.Name)
	}

	s.cats = append(s.cats[:i:i], s.cats[i+1:]...)
	s.dirty = true

	return nil
}

// AddAction appends a new action to category i and returns it.
func (s *Session) AddAction(i int) (*config.Action, error) {
	c, err := s.Category(i)
	if err != nil {
		return nil, err
	}

	a := config.NewAction()
	c.Actions = append(c.Actions, a)
	s.dirty = true

	return a, nil
}

// RemoveAction removes action j of category i. Any action can be removed,
// including those of protected categories.
func (s *Session) RemoveAction(i, j int) error {
	c, err := s.Category(i)
	if err != nil {
		return err
	}

	if j < 0 || j >= len(c.Actions) {
		return fmt.Errorf("%w: action %d of %q", ErrOutOfRange, j, c.Name)
	}

	c.Actions = append(c.Actions[:j:j], c.Actions[j+1:]...)
	s.dirty = true

	return nil
}

// MarkDirty records a change made through a category or action pointer.
func (s *Session) MarkDirty() {
	s.dirty = true
}

// Dirty reports whether the session has unsaved changes.
func (s *Session) Dirty() bool {
	return s.dirty
}

// Save writes the session to the user scope and clears the dirty flag.
func (s *Session) Save(ctx context.Context) error {
	err := s.store.Save(ctx, s.cats)
	if err != nil {
		return err //nolint:wrapcheck // Wraps config.ErrSave.
	}

	log.WithContext(ctx).DebugContext(ctx, "saved session", slog.Int("categories", len(s.cats)))

	s.dirty = false

	return nil
}
