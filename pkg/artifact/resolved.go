package artifact

import (
	"path/filepath"
	"strings"

	"github.com/arthur-debert/expobridge/pkg/errors"
	"github.com/arthur-debert/expobridge/pkg/filesystem"
	"gopkg.in/yaml.v3"
)

// Resolved is one artifact produced by dependency resolution.
type Resolved struct {
	// Path is the archive location on disk.
	Path string `yaml:"path"`
	// Group is the optional coordinate group, e.g. "org.jetbrains.kotlin".
	Group string `yaml:"group,omitempty"`
	// Name is the logical coordinate name, e.g. "kotlin-stdlib-js".
	Name string `yaml:"name,omitempty"`
	// Version is the declared version, possibly not semver.
	Version string `yaml:"version,omitempty"`
}

// FileStem returns the archive file name without its extension.
func (r Resolved) FileStem() string {
	base := filepath.Base(r.Path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// String renders the coordinate as group:name:version, leaving out empty
// parts, or the file name when there is no coordinate.
func (r Resolved) String() string {
	var parts []string
	for _, p := range []string{r.Group, r.Name, r.Version} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if r.Name == "" {
		return filepath.Base(r.Path)
	}
	return strings.Join(parts, ":")
}

// List is the on-disk form of the resolved artifact list.
type List struct {
	Artifacts []Resolved `yaml:"artifacts"`
}

// LoadList reads a YAML artifact list. Relative paths are resolved against
// the directory holding the list file. Order is preserved, it decides which
// artifact wins when two produce the same package name.
func LoadList(fsys filesystem.FS, path string) ([]Resolved, error) {
	data, err := fsys.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileNotFound, "cannot read artifact list %s", path).
			WithDetail("path", path)
	}

	var list List
	if err := yaml.Unmarshal(data, &list); err != nil {
		return nil, errors.Wrapf(err, errors.ErrInvalidInput, "invalid artifact list %s", path).
			WithDetail("path", path)
	}

	base := filepath.Dir(path)
	for i, a := range list.Artifacts {
		if strings.TrimSpace(a.Path) == "" {
			return nil, errors.Newf(errors.ErrInvalidInput, "artifact %d in %s has no path", i+1, path).
				WithDetail("path", path)
		}
		if !filepath.IsAbs(a.Path) {
			list.Artifacts[i].Path = filepath.Join(base, filepath.FromSlash(a.Path))
		}
	}

	return list.Artifacts, nil
}
