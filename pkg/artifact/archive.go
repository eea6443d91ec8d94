package artifact

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"io/fs"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/arthur-debert/expobridge/pkg/errors"
	"github.com/arthur-debert/expobridge/pkg/filesystem"
)

const (
	metaSuffix       = ".meta.js"
	manifestFile     = "package.json"
	jarManifest      = "META-INF/MANIFEST.MF"
	scriptLibraryTag = "Specification-Title: Kotlin JavaScript Lib"
)

var moduleNamePattern = regexp.MustCompile(`\s*//\s*Kotlin\.kotlin_module_metadata\(\s*\d+\s*,\s*("[^"]+")`)

// Archive is an artifact loaded into memory.
type Archive struct {
	source Resolved
	zr     *zip.Reader
}

// PackageManifest is the part of an embedded package.json the unpacker uses.
type PackageManifest struct {
	Name    string
	Version string
}

// Open reads the archive of r from fsys. Missing, unreadable and corrupt
// archives all produce ARTIFACT_EXTRACTION errors naming the artifact.
func Open(fsys filesystem.FS, r Resolved) (*Archive, error) {
	data, err := fsys.ReadFile(r.Path)
	if err != nil {
		return nil, extractionError(err, r, "cannot read archive")
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	// insecure names are still readable; ExtractTo refuses them
	if err != nil && !(stderrors.Is(err, zip.ErrInsecurePath) && zr != nil) {
		return nil, extractionError(err, r, "corrupt archive")
	}
	return &Archive{source: r, zr: zr}, nil
}

// IsScriptLibrary reports whether the archive carries script modules.
func (a *Archive) IsScriptLibrary() bool {
	for _, f := range a.zr.File {
		name := f.Name
		if strings.HasSuffix(name, metaSuffix) || path.Base(name) == manifestFile {
			return true
		}
	}
	data, err := a.read(jarManifest)
	if err != nil {
		return false
	}
	for _, line := range strings.Split(string(data), "\n") {
		if strings.TrimSpace(line) == scriptLibraryTag {
			return true
		}
	}
	return false
}

// Manifest returns the first embedded package.json, or nil when there is
// none. A manifest that is not valid JSON is an extraction error.
func (a *Archive) Manifest() (*PackageManifest, error) {
	for _, f := range a.zr.File {
		if f.FileInfo().IsDir() || path.Base(f.Name) != manifestFile {
			continue
		}
		data, err := readEntry(f)
		if err != nil {
			return nil, extractionError(err, a.source, "cannot read "+f.Name)
		}
		var raw map[string]interface{}
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, extractionError(err, a.source, "invalid "+f.Name)
		}
		return &PackageManifest{
			Name:    stringField(raw, "name"),
			Version: stringField(raw, "version"),
		}, nil
	}
	return nil, nil
}

// ModuleNames returns the module names declared by *.meta.js files, in
// archive order.
func (a *Archive) ModuleNames() ([]string, error) {
	var names []string
	for _, f := range a.zr.File {
		if f.FileInfo().IsDir() || !strings.HasSuffix(f.Name, metaSuffix) {
			continue
		}
		data, err := readEntry(f)
		if err != nil {
			return nil, extractionError(err, a.source, "cannot read "+f.Name)
		}
		m := moduleNamePattern.FindSubmatch(data)
		if m == nil {
			continue
		}
		var name string
		if err := json.Unmarshal(m[1], &name); err != nil || name == "" {
			continue
		}
		names = append(names, name)
	}
	return names, nil
}

// ExtractTo writes every entry of the archive below dir. Entries that would
// land outside dir are rejected.
func (a *Archive) ExtractTo(fsys filesystem.FS, dir string) error {
	if err := fsys.MkdirAll(dir, 0755); err != nil {
		return extractionError(err, a.source, "cannot create "+dir)
	}

	for _, f := range a.zr.File {
		dest, err := entryPath(dir, f.Name)
		if err != nil {
			return extractionError(err, a.source, "unsafe entry")
		}
		if f.FileInfo().IsDir() {
			if err := fsys.MkdirAll(dest, 0755); err != nil {
				return extractionError(err, a.source, "cannot create "+dest)
			}
			continue
		}
		data, err := readEntry(f)
		if err != nil {
			return extractionError(err, a.source, "cannot read "+f.Name)
		}
		if err := fsys.MkdirAll(filepath.Dir(dest), 0755); err != nil {
			return extractionError(err, a.source, "cannot create "+filepath.Dir(dest))
		}
		if err := fsys.WriteFile(dest, data, entryMode(f)); err != nil {
			return extractionError(err, a.source, "cannot write "+dest)
		}
	}
	return nil
}

func (a *Archive) read(name string) ([]byte, error) {
	for _, f := range a.zr.File {
		if f.Name == name {
			return readEntry(f)
		}
	}
	return nil, fs.ErrNotExist
}

func readEntry(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()
	return io.ReadAll(rc)
}

func entryPath(dir, name string) (string, error) {
	if name == "" || path.IsAbs(name) || strings.Contains(name, `\`) {
		return "", fmt.Errorf("illegal entry name %q", name)
	}
	dest := filepath.Join(dir, filepath.FromSlash(name))
	rel, err := filepath.Rel(dir, dest)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("entry %q escapes the target directory", name)
	}
	return dest, nil
}

func entryMode(f *zip.File) fs.FileMode {
	perm := f.Mode().Perm()
	if perm == 0 {
		return 0644
	}
	return perm | 0600
}

func stringField(raw map[string]interface{}, key string) string {
	v, ok := raw[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

func extractionError(err error, r Resolved, msg string) *errors.ExpoError {
	return errors.Wrapf(err, errors.ErrArtifactExtraction, "%s: %s", r, msg).
		WithDetail("artifact", r.String()).
		WithDetail("path", r.Path)
}
