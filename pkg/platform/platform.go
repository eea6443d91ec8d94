// Package platform identifies the host OS family. Link creation and command
// shaping differ between the Windows family and everything else, and the
// choice is made once per run from the detected family.
package platform

import "runtime"

// Family is an operating system family as reported by runtime.GOOS.
type Family string

// OS family constants for runtime.GOOS comparisons.
const (
	Windows Family = "windows"
	Darwin  Family = "darwin"
	Linux   Family = "linux"
)

// Current returns the family of the running process.
func Current() Family {
	return Family(runtime.GOOS)
}

// IsWindows reports whether f belongs to the Windows family.
func (f Family) IsWindows() bool {
	return f == Windows
}

// ExecutableSuffixes returns the file suffixes tried when looking for a
// command on the search path.
func (f Family) ExecutableSuffixes() []string {
	if f.IsWindows() {
		return []string{".exe", ".bat", ".cmd"}
	}
	return []string{"", ".sh", ".bin", ".app"}
}

// PathListSeparator returns the separator used by the PATH variable.
func (f Family) PathListSeparator() string {
	if f.IsWindows() {
		return ";"
	}
	return ":"
}
