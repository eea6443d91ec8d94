package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/arthur-debert/expobridge/pkg/platform"
)

// Environment variable names
const (
	// EnvConfigDir overrides the XDG config directory for expobridge
	EnvConfigDir = "EXPOBRIDGE_CONFIG_DIR"
)

// Workspace layout. These names are what npm and Expo expect and are not
// configurable.
const (
	WorkspaceDirName   = "expo"
	PackageJSONFile    = "package.json"
	NpmrcFile          = ".npmrc"
	NodeModulesDir     = "node_modules"
	StagingDirName     = "node_modules_imported"
	RecordFile         = ".unpack.txt"
	AppFile            = "App.js"
	ProjectConfigFile  = "expobridge.toml"
	UserConfigFile     = "config.toml"
	appName            = "expobridge"
)

// Layout resolves the files of one Expo workspace.
type Layout struct {
	root string
}

// New returns the layout of the workspace inside buildDir. Relative build
// directories are made absolute.
func New(buildDir string) Layout {
	if abs, err := filepath.Abs(buildDir); err == nil {
		buildDir = abs
	}
	return Layout{root: filepath.Join(buildDir, WorkspaceDirName)}
}

// Root is the workspace directory.
func (l Layout) Root() string { return l.root }

// PackageJSON is the consolidated npm manifest.
func (l Layout) PackageJSON() string { return filepath.Join(l.root, PackageJSONFile) }

// Npmrc is the npm configuration file.
func (l Layout) Npmrc() string { return filepath.Join(l.root, NpmrcFile) }

// NodeModules is the dependency root links are created in.
func (l Layout) NodeModules() string { return filepath.Join(l.root, NodeModulesDir) }

// Staging is the directory staged packages are extracted to.
func (l Layout) Staging() string { return filepath.Join(l.root, StagingDirName) }

// Records is the staged package record file.
func (l Layout) Records() string { return filepath.Join(l.root, RecordFile) }

// App is where the compiled bundle is copied.
func (l Layout) App() string { return filepath.Join(l.root, AppFile) }

// ExpoBin returns the expo launcher installed by npm. On Windows npm
// installs a .cmd shim.
func (l Layout) ExpoBin(family platform.Family) string {
	name := "expo"
	if family.IsWindows() {
		name = "expo.cmd"
	}
	return filepath.Join(l.NodeModules(), ".bin", name)
}

// ProjectConfig returns the project configuration file in projectDir.
func ProjectConfig(projectDir string) string {
	return filepath.Join(projectDir, ProjectConfigFile)
}

// ConfigDir returns the user configuration directory.
func ConfigDir() string {
	if dir := os.Getenv(EnvConfigDir); dir != "" {
		return dir
	}
	return filepath.Join(xdg.ConfigHome, appName)
}

// UserConfig returns the user level configuration file.
func UserConfig() string {
	return filepath.Join(ConfigDir(), UserConfigFile)
}
