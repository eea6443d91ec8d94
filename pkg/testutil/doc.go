// Package testutil provides utilities for testing expobridge components.
//
// Key components:
//   - MemoryFS: in-memory filesystem.FS with real symlink semantics and a
//     log of every mutation, for asserting that a run changed nothing
//   - JarBuilder: zip archives shaped like compiled script libraries
//   - FakeRunner: process.Runner that records invocations
//   - file helpers for tests that need the real filesystem
//
// Usage guidelines:
//   - Prefer MemoryFS; use the host filesystem only when the behavior
//     under test depends on the operating system
//   - All test data should be defined inline, not in external files
package testutil
