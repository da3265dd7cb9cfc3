// Package execs turns configured actions into process invocations and runs
// them.
//
// [Build] maps an action and its inputs to a [Command] following the
// per-kind argument table (bash, osascript, automator, all launched through
// /usr/bin/env). An [Executor] hands commands to a [Runner], normally the
// privileged helper, and never spawns processes itself. [Command.Run] is the
// process-spawning half used by the helper.
package execs
