package config

import (
	"slices"
	"strings"
)

// Reserved context codes for [Category.Type].
const (
	TypeContainer = "c"
	TypeAny       = "a"
	TypeDirectory = "d"
	TypeFile      = "f"
)

// Action kinds.
const (
	KindBash        = "bash"
	KindAppleScript = "applescript"
	KindWorkflow    = "workflow"
)

// Defaults for entries created by the editor.
const (
	DefaultCategoryName = "Category"
	DefaultActionTitle  = "Title"
	DefaultActionKind   = KindBash
)

// ValidKinds lists the recognized action kinds.
var ValidKinds = []string{KindAppleScript, KindBash, KindWorkflow}

// ContextTypes lists the reserved context codes.
var ContextTypes = []string{TypeContainer, TypeAny, TypeDirectory, TypeFile}

// Category is a named rule bucket owning an ordered list of actions.
// It matches either by a reserved context code in Type or, when Type is
// not a context code, by the file extensions in Ext.
type Category struct {
	// Name is the display label.
	Name string
	// Type is one of the reserved context codes, or empty for an
	// extension-based category.
	Type string
	// Ext is the raw, semicolon-separated extension list.
	Ext string
	// When is an optional CEL expression that must also hold for the
	// category to match.
	When string
	// Actions in declaration order.
	Actions []*Action
	// Editable is false for built-in categories, which cannot be removed.
	Editable bool
}

// NewCategory returns an editable, empty category with the default name.
func NewCategory() *Category {
	return &Category{
		Name:     DefaultCategoryName,
		Editable: true,
	}
}

// IsContext reports whether the category matches by a reserved context code.
func (c *Category) IsContext() bool {
	return slices.Contains(ContextTypes, c.Type)
}

// Extensions returns the trimmed, non-empty entries of Ext in order.
func (c *Category) Extensions() []string {
	var exts []string

	for e := range strings.SplitSeq(c.Ext, ";") {
		e = strings.TrimSpace(e)
		if e != "" {
			exts = append(exts, e)
		}
	}

	return exts
}

// SetExtensions replaces Ext with the given extensions.
func (c *Category) SetExtensions(exts ...string) {
	c.Ext = strings.Join(exts, ";")
}

// IsMember reports whether path ends with one of the category's extensions.
// The comparison is a literal, case-sensitive suffix match.
func (c *Category) IsMember(path string) bool {
	for _, e := range c.Extensions() {
		if strings.HasSuffix(path, e) {
			return true
		}
	}

	return false
}

// ValidActions returns the category's valid actions in declaration order.
func (c *Category) ValidActions() []*Action {
	var actions []*Action

	for _, a := range c.Actions {
		if a.IsValid() {
			actions = append(actions, a)
		}
	}

	return actions
}

// Action is a single menu entry. Optional string fields are pointers so
// that an absent key and an empty value stay distinct.
type Action struct {
	Title   *string
	Kind    *string
	Path    *string
	Content *string
	// AskFolder prompts for an extra folder argument before running.
	AskFolder bool
	// FromFile loads the script from Path instead of Content.
	FromFile bool
}

// NewAction returns an inline bash action with the default title and an
// empty body.
func NewAction() *Action {
	return &Action{
		Title:   ptr(DefaultActionTitle),
		Kind:    ptr(DefaultActionKind),
		Content: ptr(""),
	}
}

// IsValid reports whether the action has a title and a recognized kind, and
// either a path (when FromFile) or inline content (otherwise).
func (a *Action) IsValid() bool {
	if a == nil || a.Title == nil || a.Kind == nil {
		return false
	}

	if !slices.Contains(ValidKinds, *a.Kind) {
		return false
	}

	if a.FromFile {
		return a.Path != nil
	}

	return a.Content != nil
}

// GetTitle returns the title, or an empty string when unset.
func (a *Action) GetTitle() string {
	return deref(a.Title)
}

// GetKind returns the kind, or an empty string when unset.
func (a *Action) GetKind() string {
	return deref(a.Kind)
}

// GetPath returns the path, or an empty string when unset.
func (a *Action) GetPath() string {
	return deref(a.Path)
}

// GetContent returns the inline content, or an empty string when unset.
func (a *Action) GetContent() string {
	return deref(a.Content)
}

func ptr[T any](v T) *T {
	return &v
}

func deref(s *string) string {
	if s == nil {
		return ""
	}

	return *s
}
