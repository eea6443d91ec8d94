// Package manifest writes the npm files of the Expo workspace: the
// consolidated package.json, the .npmrc and the small manifests synthesized
// for staged packages that do not ship one.
package manifest

import (
	"encoding/json"
	"path/filepath"

	"github.com/arthur-debert/expobridge/pkg/errors"
	"github.com/arthur-debert/expobridge/pkg/filesystem"
	"github.com/arthur-debert/expobridge/pkg/records"
	"github.com/arthur-debert/expobridge/pkg/semver"
)

const (
	// SourceMarker is the provenance value of synthesized manifests.
	SourceMarker = "expobridge"

	// DefaultName is used when the project has no name.
	DefaultName = "noname"

	// DefaultDescription is the description of generated workspaces.
	DefaultDescription = "simple description"

	// MainFile is the entry point Expo loads.
	MainFile = "App.js"

	// NpmrcContent disables progress output and lockfile generation.
	NpmrcContent = "progress=false\npackage-lock=false\n"
)

// Synthesized is the manifest written into a staged package that came
// without one.
type Synthesized struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Main    string `json:"main"`
	Source  string `json:"_source"`
}

// NewSynthesized returns the manifest for module name at version.
func NewSynthesized(name, version string) Synthesized {
	return Synthesized{
		Name:    name,
		Version: version,
		Main:    name + ".js",
		Source:  SourceMarker,
	}
}

// PackageJSON is the consolidated workspace manifest.
type PackageJSON struct {
	Name            string            `json:"name"`
	Version         string            `json:"version"`
	Description     string            `json:"description"`
	Main            string            `json:"main"`
	Dependencies    map[string]string `json:"dependencies"`
	DevDependencies map[string]string `json:"devDependencies"`
}

// Project holds what the consolidated manifest needs from configuration.
type Project struct {
	Name    string
	Version string
	// Dependencies and DevDependencies already include the defaults.
	Dependencies    map[string]string
	DevDependencies map[string]string
}

// Generate builds the consolidated manifest. Staged packages are added to
// the runtime dependencies as file URIs and take precedence over configured
// entries with the same name.
func Generate(project Project, staged []records.StagedPackage) PackageJSON {
	name := project.Name
	if name == "" {
		name = DefaultName
	}

	deps := make(map[string]string, len(project.Dependencies)+len(staged))
	for k, v := range project.Dependencies {
		deps[k] = v
	}
	for _, p := range staged {
		deps[p.Name] = p.URI()
	}

	devDeps := make(map[string]string, len(project.DevDependencies))
	for k, v := range project.DevDependencies {
		devDeps[k] = v
	}

	return PackageJSON{
		Name:            name,
		Version:         semver.Coerce(project.Version),
		Description:     DefaultDescription,
		Main:            MainFile,
		Dependencies:    deps,
		DevDependencies: devDeps,
	}
}

// Marshal renders v as indented JSON with a trailing newline.
func Marshal(v interface{}) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// WriteJSON marshals v into path.
func WriteJSON(fsys filesystem.FS, path string, v interface{}) error {
	data, err := Marshal(v)
	if err != nil {
		return errors.Wrapf(err, errors.ErrInternal, "cannot encode %s", filepath.Base(path))
	}
	if err := fsys.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "cannot create directory for %s", path).WithDetail("path", path)
	}
	if err := fsys.WriteFile(path, data, 0644); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "cannot write %s", path).WithDetail("path", path)
	}
	return nil
}

// WriteNpmrc writes the fixed .npmrc at path.
func WriteNpmrc(fsys filesystem.FS, path string) error {
	if err := fsys.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "cannot create directory for %s", path).WithDetail("path", path)
	}
	if err := fsys.WriteFile(path, []byte(NpmrcContent), 0644); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "cannot write %s", path).WithDetail("path", path)
	}
	return nil
}
