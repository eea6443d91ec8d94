package link

import (
	"context"
	stderrors "errors"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/expobridge/pkg/errors"
	"github.com/arthur-debert/expobridge/pkg/filesystem"
	"github.com/arthur-debert/expobridge/pkg/logging"
	"github.com/arthur-debert/expobridge/pkg/platform"
	"github.com/arthur-debert/expobridge/pkg/process"
	"github.com/arthur-debert/expobridge/pkg/records"
	"github.com/rs/zerolog"
)

// Action is what Reconcile did for one package.
type Action string

const (
	ActionUnchanged       Action = "unchanged"
	ActionCreated         Action = "created"
	ActionReplacedAlias   Action = "replaced-alias"
	ActionReplacedContent Action = "replaced-content"
)

// Entry reports the outcome for one package.
type Entry struct {
	Name   string
	Link   string
	Target string
	Action Action
}

// Report lists the packages reconciled so far, in input order.
type Report struct {
	Entries []Entry
}

// Changed returns how many links were created or replaced.
func (r Report) Changed() int {
	n := 0
	for _, e := range r.Entries {
		if e.Action != ActionUnchanged {
			n++
		}
	}
	return n
}

// Reconciler converges dependency links to staged packages.
type Reconciler struct {
	fs     filesystem.FS
	family platform.Family
	runner process.Runner
	linker Linker
	logger zerolog.Logger
}

// Option configures a Reconciler
type Option func(*Reconciler)

// WithFamily overrides the detected platform family.
func WithFamily(f platform.Family) Option {
	return func(r *Reconciler) { r.family = f }
}

// WithLinker replaces the platform linker.
func WithLinker(l Linker) Option {
	return func(r *Reconciler) { r.linker = l }
}

// New creates a Reconciler. The linker is chosen once from the platform
// family: junctions through runner on Windows, symlinks elsewhere.
func New(fsys filesystem.FS, runner process.Runner, opts ...Option) *Reconciler {
	r := &Reconciler{
		fs:     fsys,
		family: platform.Current(),
		runner: runner,
		logger: logging.GetLogger("link"),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.linker == nil {
		if r.family.IsWindows() {
			r.linker = NewJunctionLinker(r.runner)
		} else {
			r.linker = NewSymlinkLinker(r.fs)
		}
	}
	return r
}

// Linker returns the linker in use.
func (r *Reconciler) Linker() Linker {
	return r.linker
}

// Reconcile links dependencyRoot/<name> to the staging path of every
// package. It stops at the first failure; links already made stay in place
// and are part of the returned report.
func (r *Reconciler) Reconcile(ctx context.Context, dependencyRoot string, packages []records.StagedPackage) (Report, error) {
	done := logging.LogOperationStart(r.logger, "link")
	defer done()

	var report Report
	for _, pkg := range packages {
		if err := ctx.Err(); err != nil {
			return report, errors.Wrapf(err, errors.ErrFilesystemLink, "cancelled before linking %s", pkg.Name)
		}
		entry, err := r.reconcileOne(ctx, dependencyRoot, pkg)
		if err != nil {
			return report, err
		}
		report.Entries = append(report.Entries, entry)
	}

	r.logger.Info().
		Int("packages", len(report.Entries)).
		Int("changed", report.Changed()).
		Str("linker", r.linker.Kind()).
		Msg("Links reconciled")
	return report, nil
}

func (r *Reconciler) reconcileOne(ctx context.Context, root string, pkg records.StagedPackage) (Entry, error) {
	link := filepath.Join(root, filepath.FromSlash(pkg.Name))
	target, err := filepath.Abs(pkg.StagingPath)
	if err != nil {
		return Entry{}, linkError(err, link, "cannot resolve staging path")
	}
	entry := Entry{Name: pkg.Name, Link: link, Target: target}

	info, err := r.fs.Lstat(link)
	switch {
	case isNotExist(err):
		entry.Action = ActionCreated
	case err != nil:
		return entry, linkError(err, link, "cannot inspect")
	case isAlias(info, r.family):
		current, readErr := r.fs.Readlink(link)
		if readErr == nil && sameTarget(current, target, link, r.family) {
			entry.Action = ActionUnchanged
			r.logger.Debug().Str("link", link).Msg("Link up to date")
			return entry, nil
		}
		if err := r.fs.Remove(link); err != nil && !isNotExist(err) {
			return entry, linkError(err, link, "cannot remove stale alias")
		}
		entry.Action = ActionReplacedAlias
	default:
		if err := r.fs.RemoveAll(link); err != nil && !isNotExist(err) {
			return entry, linkError(err, link, "cannot remove existing content")
		}
		entry.Action = ActionReplacedContent
	}

	if err := r.fs.MkdirAll(filepath.Dir(link), 0755); err != nil {
		return entry, linkError(err, filepath.Dir(link), "cannot create directory")
	}
	if err := r.linker.Link(ctx, target, link); err != nil {
		return entry, linkError(err, link, "cannot create "+r.linker.Kind())
	}

	r.logger.Info().
		Str("package", pkg.Name).
		Str("link", link).
		Str("target", target).
		Str("action", string(entry.Action)).
		Msg("Linked package")
	return entry, nil
}

// isAlias reports whether info describes a symlink, or a junction on
// Windows where they are reported as irregular files.
func isAlias(info fs.FileInfo, family platform.Family) bool {
	mode := info.Mode()
	if mode&fs.ModeSymlink != 0 {
		return true
	}
	return family.IsWindows() && mode&fs.ModeIrregular != 0
}

func sameTarget(current, target, link string, family platform.Family) bool {
	if family.IsWindows() {
		current = strings.TrimPrefix(current, `\\?\`)
	}
	if !filepath.IsAbs(current) {
		current = filepath.Join(filepath.Dir(link), current)
	}
	current = filepath.Clean(current)
	target = filepath.Clean(target)
	if family.IsWindows() {
		return strings.EqualFold(current, target)
	}
	return current == target
}

func isNotExist(err error) bool {
	return err != nil && stderrors.Is(err, fs.ErrNotExist)
}

func linkError(err error, path, msg string) error {
	return errors.Wrapf(err, errors.ErrFilesystemLink, "%s: %s", path, msg).WithDetail("path", path)
}
