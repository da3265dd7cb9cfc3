// Package match decides which configured actions apply to a file-system
// selection.
//
// A [Matcher] turns a [Request] (click context, target folder and selected
// paths) into a [Table]: the ordered menu entries for that request, each
// identified by a dense [Handle]. Tables are rebuilt for every request and
// handles are only meaningful within the table that issued them.
package match
