package config

import (
	"fmt"

	"github.com/arthur-debert/expobridge/pkg/errors"
)

// Platforms accepted by expo start
var Platforms = []string{"android", "ios"}

// CollisionPolicies accepted by the unpack stage
var CollisionPolicies = []string{"last-wins", "fail"}

// Validate checks values that cannot be expressed by types alone.
func Validate(cfg *Config) error {
	if !oneOf(cfg.Unpack.Collision, CollisionPolicies) {
		return invalid("unpack.collision", cfg.Unpack.Collision, "must be one of %v", CollisionPolicies)
	}
	if cfg.Process.DiagnosticCapacity <= 0 {
		return invalid("process.diagnostic_capacity", cfg.Process.DiagnosticCapacity, "must be positive")
	}
	if cfg.Process.DrainTimeout <= 0 {
		return invalid("process.drain_timeout", cfg.Process.DrainTimeout, "must be positive")
	}
	if !oneOf(cfg.Expo.Platform, Platforms) {
		return invalid("expo.platform", cfg.Expo.Platform, "must be one of %v", Platforms)
	}
	if cfg.Workspace.BuildDir == "" {
		return invalid("workspace.build_dir", "", "must not be empty")
	}
	for i, r := range cfg.Npm.VersionReplacements {
		if r.Name == "" || r.Version == "" {
			return invalid("npm.version_replacements", i, "entry %d needs both name and version", i+1)
		}
	}
	return nil
}

func invalid(key string, value interface{}, format string, args ...interface{}) error {
	return errors.New(errors.ErrConfigValid, key+": "+fmt.Sprintf(format, args...)).
		WithDetail("key", key).
		WithDetail("value", value)
}

func oneOf(v string, allowed []string) bool {
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}
