// Package stores persists run history: one row per resolution run plus
// its append-only event trail, in a local SQLite database. History is a
// record for the operator; the engine never reads it back.
package stores
