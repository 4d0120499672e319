// Package pacman is the pacman back-end of the resolution engine: the
// ordered diagnostic pattern table, the command set and the database
// lock wait. Alternative package managers plug in by providing their
// own engine.Diagnostics and engine.CommandSet.
package pacman
