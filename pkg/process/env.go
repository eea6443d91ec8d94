package process

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/arthur-debert/expobridge/pkg/platform"
)

const pathVar = "PATH"

// BuildEnv merges overrides into base and, when executable is absolute,
// makes sure its directory is the first PATH entry. Variable names compare
// case-insensitively on Windows.
func BuildEnv(base []string, overrides map[string]string, executable string, family platform.Family) []string {
	env := make([]string, len(base))
	copy(env, base)

	keys := make([]string, 0, len(overrides))
	for k := range overrides {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		env = setEnv(env, k, overrides[k], family)
	}

	if executable != "" && filepath.IsAbs(executable) {
		dir := filepath.Dir(executable)
		current, _ := lookupEnv(env, pathVar, family)
		env = setEnv(env, pathVar, AugmentPath(current, dir, family.PathListSeparator()), family)
	}

	return env
}

// AugmentPath returns pathValue with dir as its first entry. Any other
// occurrence of dir and empty entries are dropped, so applying it twice gives
// the same value.
func AugmentPath(pathValue, dir, separator string) string {
	entries := []string{dir}
	for _, entry := range strings.Split(pathValue, separator) {
		if entry == "" || entry == dir {
			continue
		}
		entries = append(entries, entry)
	}
	return strings.Join(entries, separator)
}

// SplitPath splits a PATH value into its non-blank entries.
func SplitPath(pathValue string, family platform.Family) []string {
	var out []string
	for _, entry := range strings.Split(pathValue, family.PathListSeparator()) {
		if strings.TrimSpace(entry) != "" {
			out = append(out, entry)
		}
	}
	return out
}

func lookupEnv(env []string, key string, family platform.Family) (string, bool) {
	for i := len(env) - 1; i >= 0; i-- {
		k, v, ok := strings.Cut(env[i], "=")
		if ok && sameKey(k, key, family) {
			return v, true
		}
	}
	return "", false
}

func setEnv(env []string, key, value string, family platform.Family) []string {
	out := env[:0]
	name := key
	for _, kv := range env {
		k, _, ok := strings.Cut(kv, "=")
		if ok && sameKey(k, key, family) {
			// keep the spelling already in use, e.g. "Path" on Windows
			name = k
			continue
		}
		out = append(out, kv)
	}
	return append(out, name+"="+value)
}

func sameKey(a, b string, family platform.Family) bool {
	if family.IsWindows() {
		return strings.EqualFold(a, b)
	}
	return a == b
}
