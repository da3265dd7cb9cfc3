package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/yantoz/finderex/pkg/log"
)

// Scope selects one of the two configuration documents.
type Scope string

const (
	ScopeUser       Scope = "user"
	ScopeSystemWide Scope = "system"
)

// AppName is the directory under Library that holds the documents.
const AppName = "FinderEx"

// FileName is the document file name within the scope directory.
const FileName = "config.yaml"

// ErrSave indicates that the user document could not be written.
var ErrSave = errors.New("save config")

// ErrParse indicates that a document was read but is not a valid
// configuration document.
var ErrParse = errors.New("parse config")

// ErrUnknownScope is returned for a [Scope] other than the two defined ones.
var ErrUnknownScope = errors.New("unknown scope")

// ParseScope converts a string into a [Scope].
func ParseScope(s string) (Scope, error) {
	switch Scope(s) {
	case ScopeUser, ScopeSystemWide:
		return Scope(s), nil
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownScope, s)
}

// Path returns the document path below root, which is the home directory
// for [ScopeUser] and "/" for [ScopeSystemWide].
func Path(root string) string {
	return filepath.Join(root, "Library", AppName, FileName)
}

// Source reads and writes raw documents, normally through the privileged
// helper.
type Source interface {
	// LoadConfig returns the document text for scope, or an empty string
	// when it cannot be read.
	LoadConfig(ctx context.Context, scope Scope) (string, error)
	// SaveConfig replaces the user document with content.
	SaveConfig(ctx context.Context, content string) (bool, error)
}

// Store loads, merges and saves categories through a [Source].
// Unreadable or unparseable documents degrade to no categories.
type Store struct {
	src Source
}

// NewStore creates a new [Store].
func NewStore(src Source) *Store {
	return &Store{src: src}
}

// Load returns the categories of the document in scope. An absent, empty
// or unparseable document yields no categories.
func (s *Store) Load(ctx context.Context, scope Scope) []*Category {
	cats, err := s.LoadDocument(ctx, scope)
	if err != nil {
		log.WithContext(ctx).WarnContext(ctx, "load config",
			slog.String("scope", string(scope)),
			slog.Any("err", err),
		)

		return nil
	}

	return cats
}

// LoadDocument is like [Store.Load], but reports why a document yields no
// categories. Source failures are returned as is; documents that cannot be
// parsed wrap [ErrParse]. An absent or empty document is not an error.
func (s *Store) LoadDocument(ctx context.Context, scope Scope) ([]*Category, error) {
	text, err := s.src.LoadConfig(ctx, scope)
	if err != nil {
		return nil, err //nolint:wrapcheck // Source errors name their cause.
	}

	cats, err := Parse([]byte(text))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrParse, scope, err)
	}

	log.WithContext(ctx).DebugContext(ctx, "loaded config",
		slog.String("scope", string(scope)),
		slog.Int("categories", len(cats)),
	)

	return cats, nil
}

// LoadMerged returns the system-wide categories (when includeSystemWide is
// set) followed by the user categories. Categories are concatenated, not
// de-duplicated.
func (s *Store) LoadMerged(ctx context.Context, includeSystemWide bool) []*Category {
	var cats []*Category

	if includeSystemWide {
		cats = append(cats, s.Load(ctx, ScopeSystemWide)...)
	}

	return append(cats, s.Load(ctx, ScopeUser)...)
}

// Save writes cats to the user document in the canonical layout.
// Failures wrap [ErrSave].
func (s *Store) Save(ctx context.Context, cats []*Category) error {
	ok, err := s.src.SaveConfig(ctx, string(Encode(cats)))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSave, err)
	}
	if !ok {
		return fmt.Errorf("%w: write failed", ErrSave)
	}

	log.WithContext(ctx).DebugContext(ctx, "saved config", slog.Int("categories", len(cats)))

	return nil
}
