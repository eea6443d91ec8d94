package config

import "time"

// Config is the complete expobridge configuration.
type Config struct {
	Project   Project   `koanf:"project" toml:"project"`
	Workspace Workspace `koanf:"workspace" toml:"workspace"`
	Npm       Npm       `koanf:"npm" toml:"npm"`
	Unpack    Unpack    `koanf:"unpack" toml:"unpack"`
	Process   Process   `koanf:"process" toml:"process"`
	Expo      Expo      `koanf:"expo" toml:"expo"`
}

// Project describes the application being bridged
type Project struct {
	Name    string `koanf:"name" toml:"name"`
	Version string `koanf:"version" toml:"version"`
	// Bundle is the compiled application script copied to App.js
	Bundle string `koanf:"bundle" toml:"bundle"`
}

// Workspace holds where the Expo workspace is created
type Workspace struct {
	BuildDir string `koanf:"build_dir" toml:"build_dir"`
}

// Npm holds the dependencies written to package.json
type Npm struct {
	Dependencies        map[string]string `koanf:"dependencies" toml:"dependencies"`
	DevDependencies     map[string]string `koanf:"dev_dependencies" toml:"dev_dependencies"`
	VersionReplacements []Replacement     `koanf:"version_replacements" toml:"version_replacements,omitempty"`
}

// Replacement forces the version of a staged package
type Replacement struct {
	Name    string `koanf:"name" toml:"name"`
	Version string `koanf:"version" toml:"version"`
}

// Unpack configures artifact staging
type Unpack struct {
	ArtifactsFile string `koanf:"artifacts_file" toml:"artifacts_file"`
	Collision     string `koanf:"collision" toml:"collision"`
}

// Process configures the process supervisor
type Process struct {
	DiagnosticCapacity int           `koanf:"diagnostic_capacity" toml:"diagnostic_capacity"`
	LiveEcho           bool          `koanf:"live_echo" toml:"live_echo"`
	DrainTimeout       time.Duration `koanf:"drain_timeout" toml:"drain_timeout"`
}

// Expo configures expo start
type Expo struct {
	Platform string `koanf:"platform" toml:"platform"`
}

// Overrides returns the version replacements as a name to version map.
// Later entries win.
func (n Npm) Overrides() map[string]string {
	out := make(map[string]string, len(n.VersionReplacements))
	for _, r := range n.VersionReplacements {
		out[r.Name] = r.Version
	}
	return out
}
