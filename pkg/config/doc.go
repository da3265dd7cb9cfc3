// Package config holds the finderex configuration model and its store.
//
// A configuration document is a YAML sequence of [Category] mappings, each
// owning an ordered list of [Action] menu entries. Documents live in two
// scopes ([ScopeSystemWide] and [ScopeUser]) and are read and written
// wholesale through a [Source], normally the privileged helper.
package config
