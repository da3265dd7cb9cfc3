// Package menu builds context menus for a selection and dispatches the
// chosen entry.
//
// A [Service] reloads the merged configuration on every build, so edits made
// between two menu requests are always visible. Entries are addressed by the
// [match.Handle] of the table they were built in.
package menu
