// Package commands provides the high-level operations of expobridge.
//
// This package is the orchestration layer between the CLI and the building
// blocks: it loads the artifact list, stages packages, writes the workspace
// manifests, reconciles node_modules and drives npm and expo through the
// process supervisor.
//
// Each command takes an Environment holding the configuration and the
// collaborators it acts through, so tests can substitute an in-memory
// filesystem and a fake process runner.
package commands

import (
	"github.com/arthur-debert/expobridge/pkg/config"
	"github.com/arthur-debert/expobridge/pkg/filesystem"
	"github.com/arthur-debert/expobridge/pkg/paths"
	"github.com/arthur-debert/expobridge/pkg/platform"
	"github.com/arthur-debert/expobridge/pkg/process"
	"github.com/spf13/afero"
)

// Environment carries what every command needs.
type Environment struct {
	Config *config.Config
	FS     filesystem.FS
	Runner process.Runner
	Family platform.Family
	// Npm is the npm executable; empty means it is looked up on PATH.
	Npm string
}

// NewEnvironment wires the production collaborators for cfg: the host
// filesystem and a supervisor configured from the process section.
func NewEnvironment(cfg *config.Config) Environment {
	family := platform.Current()
	return Environment{
		Config: cfg,
		FS:     filesystem.NewAferoFS(afero.NewOsFs()),
		Runner: process.New(
			process.WithFamily(family),
			process.WithDiagnosticCapacity(cfg.Process.DiagnosticCapacity),
			process.WithLiveEcho(cfg.Process.LiveEcho),
			process.WithDrainTimeout(cfg.Process.DrainTimeout),
		),
		Family: family,
	}
}

// Layout returns the workspace layout under the configured build directory.
func (e Environment) Layout() paths.Layout {
	return paths.New(e.Config.Workspace.BuildDir)
}

func (e Environment) family() platform.Family {
	if e.Family == "" {
		return platform.Current()
	}
	return e.Family
}
