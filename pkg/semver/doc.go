// Package semver coerces arbitrary version strings into a canonical
// three-component semantic version with an optional suffix.
//
// Coerce never fails: malformed input degrades to the best canonical form it
// can produce, because its output feeds package manifests that must always be
// written. The function is idempotent, Coerce(Coerce(v)) == Coerce(v).
package semver
