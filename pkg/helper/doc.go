// Package helper implements the privileged helper boundary.
//
// Every file-system and process operation the menu host needs goes through
// a [Helper]: the home directory, reading a configuration document, writing
// the user document, and running a process. [Local] performs the operations
// directly; [Server] exposes a [Helper] as MCP tools; [Client] calls those
// tools over any MCP transport and itself satisfies [Helper].
package helper
