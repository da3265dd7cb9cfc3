package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/invopop/jsonschema"

	"github.com/yantoz/finderex/pkg/yaml"
)

// Document is the on-disk shape of a configuration document.
type Document []CategoryDoc

// CategoryDoc is the on-disk shape of a [Category].
type CategoryDoc struct {
	// Name is the display label of the category.
	Name *string `json:"name" jsonschema:"title=Name" yaml:"name"`
	// Type is a reserved context code: c (container), a (any selection),
	// d (directories) or f (regular files).
	Type string `json:"type,omitempty" jsonschema:"title=Type" yaml:"type,omitempty"`
	// Ext is a semicolon-separated list of file suffixes.
	Ext string `json:"ext,omitempty" jsonschema:"title=Extensions" yaml:"ext,omitempty"`
	// AllowEdit is false for built-in categories.
	AllowEdit *bool `json:"allowedit,omitempty" jsonschema:"title=Allow Edit" yaml:"allowedit,omitempty"`
	// When is a CEL expression over files, dir and context.
	When string `json:"when,omitempty" jsonschema:"title=When" yaml:"when,omitempty"`
	// Menus are the category's actions.
	Menus []*ActionDoc `json:"menus,omitempty" jsonschema:"title=Menus" yaml:"menus,omitempty"`
}

// ActionDoc is the on-disk shape of an [Action].
type ActionDoc struct {
	Title     *string `json:"title,omitempty"     jsonschema:"title=Title"      yaml:"title,omitempty"`
	Action    *string `json:"action,omitempty"    jsonschema:"title=Action"     yaml:"action,omitempty"`
	AskFolder *bool   `json:"askfolder,omitempty" jsonschema:"title=Ask Folder" yaml:"askfolder,omitempty"`
	FromFile  *bool   `json:"fromfile,omitempty"  jsonschema:"title=From File"  yaml:"fromfile,omitempty"`
	Path      *string `json:"path,omitempty"      jsonschema:"title=Path"       yaml:"path,omitempty"`
	Content   *string `json:"content,omitempty"   jsonschema:"title=Content"    yaml:"content,omitempty"`
}

func (CategoryDoc) JSONSchemaExtend(jss *jsonschema.Schema) {
	typ, ok := jss.Properties.Get("type")
	if !ok {
		panic("type property not found in schema")
	}

	typ.Enum = []any{""}
	for _, t := range ContextTypes {
		typ.Enum = append(typ.Enum, t)
	}

	_, _ = jss.Properties.Set("type", typ)
}

func (ActionDoc) JSONSchemaExtend(jss *jsonschema.Schema) {
	action, ok := jss.Properties.Get("action")
	if !ok {
		panic("action property not found in schema")
	}

	action.Enum = nil
	for _, k := range ValidKinds {
		action.Enum = append(action.Enum, k)
	}

	_, _ = jss.Properties.Set("action", action)
}

// Parse decodes a configuration document. Empty input yields no categories
// and no error. Categories without a name are skipped.
func Parse(data []byte) ([]*Category, error) {
	var doc Document

	dec := yaml.NewDecoder(bytes.NewReader(data))

	err := dec.Decode(&doc)
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, yaml.WrapSource(err, data)
	}

	return doc.Categories(), nil
}

// Categories converts the document into the in-memory model.
func (d Document) Categories() []*Category {
	cats := make([]*Category, 0, len(d))

	for i, cd := range d {
		if cd.Name == nil {
			slog.Warn("skipping category without a name", slog.Int("index", i))

			continue
		}

		cat := &Category{
			Name:     *cd.Name,
			Type:     cd.Type,
			Ext:      cd.Ext,
			When:     cd.When,
			Editable: cd.AllowEdit == nil || *cd.AllowEdit,
		}

		for _, ad := range cd.Menus {
			if ad == nil {
				continue
			}

			cat.Actions = append(cat.Actions, &Action{
				Title:     ad.Title,
				Kind:      ad.Action,
				Path:      ad.Path,
				Content:   ad.Content,
				AskFolder: ad.AskFolder != nil && *ad.AskFolder,
				FromFile:  ad.FromFile != nil && *ad.FromFile,
			})
		}

		cats = append(cats, cat)
	}

	return cats
}

// NewDocument converts categories into their on-disk shape, for views that
// do not need the canonical layout of [Encode]. Actions are kept only when
// they carry a title, a kind and content, as in [Encode].
func NewDocument(cats []*Category) Document {
	doc := make(Document, 0, len(cats))

	for _, c := range cats {
		cd := CategoryDoc{
			Name: ptr(c.Name),
			Type: c.Type,
			Ext:  c.Ext,
			When: c.When,
		}
		if !c.Editable {
			cd.AllowEdit = ptr(false)
		}

		for _, a := range savedActions(c) {
			ad := &ActionDoc{
				Title:   a.Title,
				Action:  a.Kind,
				Content: a.Content,
			}
			if a.AskFolder {
				ad.AskFolder = ptr(true)
			}
			if a.FromFile {
				ad.FromFile = ptr(true)
				ad.Path = a.Path
			}

			cd.Menus = append(cd.Menus, ad)
		}

		doc = append(doc, cd)
	}

	return doc
}

func savedActions(c *Category) []*Action {
	return slices.DeleteFunc(slices.Clone(c.Actions), func(a *Action) bool {
		return a == nil || a.Title == nil || a.Kind == nil || a.Content == nil
	})
}

// Validate checks data against the document schema. YAML syntax errors and
// schema violations are both returned as positioned [*yaml.Error] values.
func Validate(data []byte) error {
	validator, err := DefaultValidator()
	if err != nil {
		return err
	}

	var anyDoc any

	dec := yaml.NewDecoder(bytes.NewReader(data))

	err = dec.Decode(&anyDoc)
	if errors.Is(err, io.EOF) {
		return nil
	}
	if err != nil {
		return yaml.WrapSource(err, data)
	}

	err = validator.Validate(anyDoc)
	if err != nil {
		return fmt.Errorf("validate: %w", yaml.WrapSource(err, data))
	}

	return nil
}
