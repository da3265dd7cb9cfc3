// Package rule compiles and evaluates the CEL `when` conditions attached to
// categories.
package rule
