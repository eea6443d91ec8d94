package unpack

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/expobridge/pkg/artifact"
	"github.com/arthur-debert/expobridge/pkg/errors"
	"github.com/arthur-debert/expobridge/pkg/filesystem"
	"github.com/arthur-debert/expobridge/pkg/logging"
	"github.com/arthur-debert/expobridge/pkg/manifest"
	"github.com/arthur-debert/expobridge/pkg/records"
	"github.com/arthur-debert/expobridge/pkg/semver"
	"github.com/rs/zerolog"
)

// CollisionPolicy selects what happens when two artifacts stage the same
// package name.
type CollisionPolicy string

const (
	CollisionLastWins CollisionPolicy = "last-wins"
	CollisionFail     CollisionPolicy = "fail"
)

// ParseCollisionPolicy validates a policy name. Empty means last-wins.
func ParseCollisionPolicy(s string) (CollisionPolicy, error) {
	switch CollisionPolicy(strings.TrimSpace(s)) {
	case "", CollisionLastWins:
		return CollisionLastWins, nil
	case CollisionFail:
		return CollisionFail, nil
	}
	return "", errors.Newf(errors.ErrInvalidInput, "unknown collision policy %q (want %s or %s)",
		s, CollisionLastWins, CollisionFail)
}

// Unpacker stages artifacts.
type Unpacker struct {
	fs          filesystem.FS
	stagingRoot string
	recordPath  string
	collision   CollisionPolicy
	logger      zerolog.Logger
}

// Option configures an Unpacker
type Option func(*Unpacker)

// WithCollisionPolicy sets the collision policy.
func WithCollisionPolicy(p CollisionPolicy) Option {
	return func(u *Unpacker) { u.collision = p }
}

// New creates an Unpacker staging into stagingRoot and recording the result
// in recordPath.
func New(fsys filesystem.FS, stagingRoot, recordPath string, opts ...Option) *Unpacker {
	u := &Unpacker{
		fs:          fsys,
		stagingRoot: absolute(stagingRoot),
		recordPath:  recordPath,
		collision:   CollisionLastWins,
		logger:      logging.GetLogger("unpack"),
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// run holds the state of one Unpack call.
type run struct {
	staged  []records.StagedPackage
	index   map[string]int
	origins map[string]string
}

// Unpack stages every recognized artifact, in order, and writes the record
// file. overrides maps a module or artifact name to the version used in
// synthesized manifests. Any extraction failure aborts the whole unpack and
// leaves the record file untouched.
func (u *Unpacker) Unpack(artifacts []artifact.Resolved, overrides map[string]string) ([]records.StagedPackage, error) {
	done := logging.LogOperationStart(u.logger, "unpack")
	defer done()

	if err := u.fs.MkdirAll(u.stagingRoot, 0755); err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileWrite, "cannot create staging directory %s", u.stagingRoot).
			WithDetail("path", u.stagingRoot)
	}

	r := &run{index: make(map[string]int), origins: make(map[string]string)}
	for _, resolved := range artifacts {
		if err := u.unpackOne(r, resolved, overrides); err != nil {
			return nil, err
		}
	}

	if err := records.Write(u.fs, u.recordPath, r.staged); err != nil {
		return nil, err
	}
	u.logger.Info().Int("packages", len(r.staged)).Str("records", u.recordPath).Msg("Unpack complete")
	return r.staged, nil
}

func (u *Unpacker) unpackOne(r *run, resolved artifact.Resolved, overrides map[string]string) error {
	a, err := artifact.Open(u.fs, resolved)
	if err != nil {
		return err
	}
	resolved = a.Complete(resolved)

	if !a.IsScriptLibrary() {
		u.logger.Debug().Str("artifact", resolved.String()).Msg("Not a script library, skipping")
		return nil
	}

	embedded, err := a.Manifest()
	if err != nil {
		return err
	}
	modules, err := a.ModuleNames()
	if err != nil {
		return err
	}

	if embedded != nil {
		name := firstNonEmpty(embedded.Name, single(modules), resolved.Name, resolved.FileStem())
		version := embedded.Version
		if version == "" {
			version = semver.Zero
		}
		return u.stage(r, a, resolved, name, version, false)
	}

	if len(modules) == 0 {
		modules = []string{firstNonEmpty(resolved.Name, resolved.FileStem())}
	}
	for _, name := range modules {
		version, ok := overrides[name]
		if !ok {
			version, ok = overrides[resolved.Name]
		}
		if !ok {
			version = semver.Coerce(resolved.Version)
		}
		if err := u.stage(r, a, resolved, name, version, true); err != nil {
			return err
		}
	}
	return nil
}

// stage extracts a into the staging directory of name and records it.
func (u *Unpacker) stage(r *run, a *artifact.Archive, source artifact.Resolved, name, version string, synthesize bool) error {
	if err := validateName(name); err != nil {
		return errors.Wrapf(err, errors.ErrArtifactExtraction, "%s: invalid package name", source).
			WithDetail("artifact", source.String()).
			WithDetail("name", name)
	}

	if previous, ok := r.origins[name]; ok {
		if u.collision == CollisionFail {
			return errors.Newf(errors.ErrArtifactCollision, "package %s is produced by both %s and %s", name, previous, source).
				WithDetail("name", name).
				WithDetail("artifact", source.String()).
				WithDetail("previous", previous)
		}
		u.logger.Warn().
			Str("package", name).
			Str("previous", previous).
			Str("artifact", source.String()).
			Msg("Package name collision, later artifact wins")
	}

	dir := filepath.Join(u.stagingRoot, filepath.FromSlash(name))
	pkg := records.StagedPackage{
		Name:            name,
		OriginalVersion: source.Version,
		Semver:          version,
		StagingPath:     dir,
	}
	if err := pkg.Validate(); err != nil {
		return errors.Wrapf(err, errors.ErrArtifactExtraction, "%s: cannot be recorded", source).
			WithDetail("artifact", source.String()).
			WithDetail("name", name)
	}

	// stale content from earlier runs or a colliding artifact must not leak in
	if err := u.fs.RemoveAll(dir); err != nil {
		return errors.Wrapf(err, errors.ErrArtifactExtraction, "%s: cannot clear %s", source, dir).
			WithDetail("artifact", source.String()).
			WithDetail("path", dir)
	}

	u.logger.Debug().Str("artifact", source.String()).Str("dir", dir).Msg("Extracting")
	if err := a.ExtractTo(u.fs, dir); err != nil {
		return err
	}

	if synthesize {
		if err := manifest.WriteJSON(u.fs, filepath.Join(dir, "package.json"), manifest.NewSynthesized(name, version)); err != nil {
			return errors.Wrapf(err, errors.ErrArtifactExtraction, "%s: cannot write manifest", source).
				WithDetail("artifact", source.String())
		}
	}

	if i, ok := r.index[name]; ok {
		r.staged[i] = pkg
	} else {
		r.index[name] = len(r.staged)
		r.staged = append(r.staged, pkg)
	}
	r.origins[name] = source.String()

	u.logger.Info().Str("package", name).Str("version", version).Msg("Staged package")
	return nil
}

// validateName accepts plain and scoped npm names that stay inside the
// staging root.
func validateName(name string) error {
	if name == "" {
		return fmt.Errorf("empty name")
	}
	if strings.ContainsAny(name, `\:`) {
		return fmt.Errorf("name %q contains a path separator", name)
	}
	parts := strings.Split(name, "/")
	if len(parts) > 2 || (len(parts) == 2 && !strings.HasPrefix(parts[0], "@")) {
		return fmt.Errorf("name %q is not a package name", name)
	}
	for _, p := range parts {
		if p == "" || p == "." || p == ".." {
			return fmt.Errorf("name %q is not a package name", name)
		}
	}
	return nil
}

func single(names []string) string {
	if len(names) == 1 {
		return names[0]
	}
	return ""
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func absolute(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}
