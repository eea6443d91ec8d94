package process

import (
	"os"
	"path/filepath"

	"github.com/arthur-debert/expobridge/pkg/errors"
	"github.com/arthur-debert/expobridge/pkg/platform"
)

// LookPath returns every file on pathValue that can run as command, in PATH
// order. Each directory is tried with the platform's executable suffixes.
// Duplicates are reported once.
func LookPath(command, pathValue string, family platform.Family) ([]string, error) {
	if command == "" {
		return nil, errors.New(errors.ErrInvalidInput, "command name cannot be empty")
	}

	var found []string
	seen := make(map[string]bool)
	for _, dir := range SplitPath(pathValue, family) {
		for _, suffix := range family.ExecutableSuffixes() {
			candidate := filepath.Join(dir, command+suffix)
			if seen[candidate] || !isExecutable(candidate, family) {
				continue
			}
			seen[candidate] = true
			found = append(found, candidate)
		}
	}

	if len(found) == 0 {
		return nil, errors.Newf(errors.ErrMissingExecutable, "could not find %s in PATH", command).
			WithDetail("command", command).
			WithDetail("path", pathValue)
	}
	return found, nil
}

// FindExecutable looks command up on the current process PATH and returns the
// first match.
func FindExecutable(command string) (string, error) {
	family := platform.Current()
	pathValue, _ := lookupEnv(os.Environ(), pathVar, family)
	found, err := LookPath(command, pathValue, family)
	if err != nil {
		return "", err
	}
	return found[0], nil
}

func isExecutable(path string, family platform.Family) bool {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return false
	}
	if family.IsWindows() {
		return true
	}
	return info.Mode().Perm()&0o111 != 0
}
