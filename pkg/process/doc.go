// Package process supervises the external tools expobridge drives (npm, expo,
// and mklink on Windows).
//
// A Supervisor starts one child per Invocation, drains stdout and stderr on
// two goroutines while a third waits for the child, and keeps a bounded tail
// of the combined output. When the child fails, Execute turns the result into
// an error that carries the invocation name, the exit code and that tail, so
// the operator sees the tool's own diagnostics rather than a bare exit code.
package process
