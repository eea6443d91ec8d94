// Package link makes every staged package reachable from the dependency
// directory through an alias: a symbolic link on POSIX systems, a directory
// junction on Windows.
//
// Reconcile converges node_modules/<name> to point at the staging directory
// of each package. An alias that already resolves to the right place is left
// alone, so a second run over the same packages changes nothing on disk.
// Anything else found at the link path is replaced. Removing an alias never
// touches the staged content it pointed to.
package link
