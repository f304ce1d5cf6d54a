// Package mocks provides in-memory implementations of the store
// interfaces for testing.
//
// Each mock keeps its data in maps guarded by a mutex and applies the
// same conditional-write semantics as the postgres implementations
// (compare-and-swap on availability, at most one open loan per book),
// so the engine's check-then-act behavior can be exercised under real
// goroutine contention without a database. Every method has an
// overridable function field for error injection.
package mocks
