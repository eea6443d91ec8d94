package link

import (
	"context"

	"github.com/arthur-debert/expobridge/pkg/filesystem"
	"github.com/arthur-debert/expobridge/pkg/process"
)

// Linker creates an alias at link resolving to target. The link path is
// known to be absent when Link is called.
type Linker interface {
	Link(ctx context.Context, target, link string) error
	Kind() string
}

// SymlinkLinker creates symbolic links through the filesystem.
type SymlinkLinker struct {
	fs filesystem.FS
}

// NewSymlinkLinker returns a linker creating symlinks on fsys.
func NewSymlinkLinker(fsys filesystem.FS) *SymlinkLinker {
	return &SymlinkLinker{fs: fsys}
}

// Link implements Linker
func (s *SymlinkLinker) Link(_ context.Context, target, link string) error {
	return s.fs.Symlink(target, link)
}

// Kind implements Linker
func (s *SymlinkLinker) Kind() string { return "symlink" }

// JunctionLinker creates directory junctions with mklink. Junctions need no
// elevated privileges on Windows, unlike symbolic links.
type JunctionLinker struct {
	runner process.Runner
}

// NewJunctionLinker returns a linker running mklink through runner.
func NewJunctionLinker(runner process.Runner) *JunctionLinker {
	return &JunctionLinker{runner: runner}
}

// Invocation returns the command creating a junction at link.
func (j *JunctionLinker) Invocation(target, link string) process.Invocation {
	return process.Invocation{
		Name:       "mklink",
		Executable: "cmd.exe",
		Args:       []string{"/C", "mklink", "/J", link, target},
	}
}

// Link implements Linker
func (j *JunctionLinker) Link(ctx context.Context, target, link string) error {
	return j.runner.Execute(ctx, j.Invocation(target, link))
}

// Kind implements Linker
func (j *JunctionLinker) Kind() string { return "junction" }
