// Package artifact reads resolved build artifacts: the list produced by the
// host build and the archives it points to.
//
// An archive is a zip file (usually a .jar) that may carry compiled script
// modules. Three things in it matter to the unpack stage:
//
//   - *.meta.js files, whose kotlin_module_metadata comment names a module
//   - an embedded package.json declaring a package name and version
//   - a Maven POM under META-INF/maven, used to fill missing coordinates
//
// Archives are read fully into memory through a filesystem.FS so the same
// code works against the real disk and in-memory test filesystems.
package artifact
