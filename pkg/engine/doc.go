// Package engine implements the conflict resolution core: a recursive
// driver that repeatedly invokes the system package manager, classifies
// its diagnostic output against an ordered pattern table and applies a
// remediation per issue until the system converges or an unrecoverable
// error occurs.
//
// The engine is format-agnostic: the pattern table lives behind the
// Diagnostics interface and the command shapes behind CommandSet, with
// the pacman back-end provided by the pacman package. All mutable state
// is carried in a ResolverContext threaded through the Engine, so each
// run is independent and testable.
package engine
