// Package filesystem provides filesystem implementations for expobridge.
//
// The FS interface is the narrow set of operations the unpack and link stages
// need. NewAferoFS wraps any afero.Fs: afero.NewOsFs for the real filesystem,
// an in-memory one so the unpack stage runs entirely in memory under test.
package filesystem
