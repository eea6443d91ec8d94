package process

import "path/filepath"

// Invocation describes one execution of an external command.
type Invocation struct {
	// Name is the logical name used in logs and errors, e.g. "npm install".
	Name string
	// Executable is the command to run. Absolute paths have their directory
	// added to PATH.
	Executable string
	Args       []string
	// Dir is the working directory; empty means the current one.
	Dir string
	// Env holds overrides applied on top of the inherited environment.
	Env map[string]string
}

// DisplayName returns Name, or the executable base name when Name is empty.
func (i Invocation) DisplayName() string {
	if i.Name != "" {
		return i.Name
	}
	return filepath.Base(i.Executable)
}

// Result is the outcome of a supervised run.
type Result struct {
	// ExitCode is the child's exit status, -1 when it was killed or never
	// reported one.
	ExitCode int
	// Completed is true when the child exited on its own.
	Completed bool
}

// Success reports whether the child ran to completion with exit code zero.
func (r Result) Success() bool {
	return r.Completed && r.ExitCode == 0
}
