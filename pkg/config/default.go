package config

import (
	_ "embed"
)

//go:embed default.yaml
var defaultYAML []byte

// DefaultYAML returns the built-in starter document.
func DefaultYAML() []byte {
	return defaultYAML
}

// GenerateDefault returns the built-in starter categories: the four context
// categories (protected) and an editable "Image Files" extension category.
// It is used when the user document is empty.
func GenerateDefault() []*Category {
	cats, err := Parse(defaultYAML)
	if err != nil {
		panic("parse default config: " + err.Error())
	}

	return cats
}
