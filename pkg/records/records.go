// Package records reads and writes the staged package record file.
//
// Each line is "name/originalVersion/semver/stagingURI". Scoped names
// ("@scope/pkg") and URL versions contain slashes themselves, so a line is
// anchored on its trailing file:// URI: the name takes one segment, or two
// when it starts with "@", the original version the next one and the semver
// everything up to the URI. The file lets the link stage run in a separate
// invocation from the unpack stage.
package records

import (
	"bufio"
	"bytes"
	stderrors "errors"
	"fmt"
	"io/fs"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/expobridge/pkg/errors"
	"github.com/arthur-debert/expobridge/pkg/filesystem"
	"github.com/arthur-debert/expobridge/pkg/logging"
)

const fileScheme = "file://"

// StagedPackage is one package materialized in the staging tree.
type StagedPackage struct {
	Name string
	// OriginalVersion is the artifact's declared version, possibly empty.
	OriginalVersion string
	// Semver is the version written to the package manifest.
	Semver string
	// StagingPath is the absolute staging directory.
	StagingPath string
}

// URI returns StagingPath as a file URI.
func (p StagedPackage) URI() string {
	return FileURI(p.StagingPath)
}

// Line renders the record line for p, without a newline.
func (p StagedPackage) Line() string {
	return strings.Join([]string{p.Name, p.OriginalVersion, p.Semver, p.URI()}, "/")
}

// Validate reports an error when p would not read back unchanged from its
// record line.
func (p StagedPackage) Validate() error {
	got, ok, err := parseLine(p.Line())
	if err != nil {
		return err
	}
	if !ok || got != p {
		return fmt.Errorf("record %q does not read back as the same package", p.Line())
	}
	return nil
}

// FileURI converts an absolute path to a file:// URI.
func FileURI(path string) string {
	slashed := filepath.ToSlash(path)
	if !strings.HasPrefix(slashed, "/") {
		// drive letter paths become file:///C:/...
		slashed = "/" + slashed
	}
	u := url.URL{Scheme: "file", Path: slashed}
	return u.String()
}

// PathFromURI converts a file URI back to a native path.
func PathFromURI(uri string) (string, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return "", err
	}
	if u.Scheme != "file" {
		return "", fmt.Errorf("not a file URI: %s", uri)
	}
	p := u.Path
	if len(p) >= 3 && p[0] == '/' && p[2] == ':' {
		p = p[1:]
	}
	return filepath.FromSlash(p), nil
}

// Format renders packages in record file form, one line each.
func Format(packages []StagedPackage) []byte {
	var buf bytes.Buffer
	for _, p := range packages {
		buf.WriteString(p.Line())
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

// Parse reads record file content. Fields are trimmed, lines that do not
// hold four fields are skipped. A staging URI that does not parse is an
// error.
func Parse(data []byte) ([]StagedPackage, error) {
	logger := logging.GetLogger("records")

	var packages []StagedPackage
	scanner := bufio.NewScanner(bytes.NewReader(data))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		pkg, ok, err := parseLine(line)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrRecordParse, "line %d: bad staging URI", lineNo).
				WithDetail("line", lineNo)
		}
		if !ok {
			if strings.TrimSpace(line) != "" {
				logger.Debug().Int("line", lineNo).Str("content", line).Msg("Skipping malformed record")
			}
			continue
		}
		packages = append(packages, pkg)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrRecordParse, "cannot read records")
	}
	return packages, nil
}

// parseLine splits one record line. ok is false for lines that are not
// records at all; err is set when the line has four fields but the last is
// not a file URI.
func parseLine(line string) (StagedPackage, bool, error) {
	head, uri, anchored := splitURI(line)
	if !anchored {
		fields := strings.SplitN(line, "/", 4)
		if len(fields) < 4 {
			return StagedPackage{}, false, nil
		}
		_, err := PathFromURI(strings.TrimSpace(fields[3]))
		if err == nil {
			err = fmt.Errorf("not a file URI: %s", fields[3])
		}
		return StagedPackage{}, false, err
	}

	segs := strings.Split(head, "/")
	for i := range segs {
		segs[i] = strings.TrimSpace(segs[i])
	}
	nameLen := 1
	if strings.HasPrefix(segs[0], "@") && len(segs) >= 4 {
		nameLen = 2
	}
	if len(segs) < nameLen+2 {
		return StagedPackage{}, false, nil
	}

	path, err := PathFromURI(uri)
	if err != nil {
		return StagedPackage{}, false, err
	}
	return StagedPackage{
		Name:            strings.Join(segs[:nameLen], "/"),
		OriginalVersion: segs[nameLen],
		Semver:          strings.Join(segs[nameLen+1:], "/"),
		StagingPath:     path,
	}, true, nil
}

// splitURI cuts line before its last "/file://". A clean absolute path never
// holds "//", so the last occurrence always starts the staging URI.
func splitURI(line string) (head, uri string, ok bool) {
	idx := strings.LastIndex(line, fileScheme)
	if idx < 0 {
		return "", "", false
	}
	head = strings.TrimRight(line[:idx], " \t")
	if !strings.HasSuffix(head, "/") {
		return "", "", false
	}
	return head[:len(head)-1], strings.TrimSpace(line[idx:]), true
}

// Write stores packages at path, replacing any previous file.
func Write(fsys filesystem.FS, path string, packages []StagedPackage) error {
	if err := fsys.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "cannot create directory for %s", path)
	}
	if err := fsys.WriteFile(path, Format(packages), 0644); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "cannot write %s", path).WithDetail("path", path)
	}
	return nil
}

// Read loads the record file at path. A missing file yields no packages.
func Read(fsys filesystem.FS, path string) ([]StagedPackage, error) {
	data, err := fsys.ReadFile(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, errors.ErrRecordParse, "cannot read %s", path).WithDetail("path", path)
	}
	packages, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrRecordParse, "invalid record file %s", path).WithDetail("path", path)
	}
	return packages, nil
}
