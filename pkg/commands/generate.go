package commands

import (
	"github.com/arthur-debert/expobridge/pkg/logging"
	"github.com/arthur-debert/expobridge/pkg/manifest"
	"github.com/arthur-debert/expobridge/pkg/records"
)

// GenerateResult describes the written workspace manifests.
type GenerateResult struct {
	PackageJSON string
	Npmrc       string
	Manifest    manifest.PackageJSON
}

// Generate writes package.json and .npmrc into the workspace. Packages from
// the record file are added as file dependencies.
func Generate(env Environment) (*GenerateResult, error) {
	log := logging.GetLogger("commands")
	log.Debug().Str("command", "Generate").Msg("Executing command")

	layout := env.Layout()
	staged, err := records.Read(env.FS, layout.Records())
	if err != nil {
		return nil, err
	}

	cfg := env.Config
	pkg := manifest.Generate(manifest.Project{
		Name:            cfg.Project.Name,
		Version:         cfg.Project.Version,
		Dependencies:    cfg.Npm.Dependencies,
		DevDependencies: cfg.Npm.DevDependencies,
	}, staged)

	if err := manifest.WriteJSON(env.FS, layout.PackageJSON(), pkg); err != nil {
		return nil, err
	}
	if err := manifest.WriteNpmrc(env.FS, layout.Npmrc()); err != nil {
		return nil, err
	}

	log.Info().Str("command", "Generate").Str("path", layout.PackageJSON()).Msg("Command finished")
	return &GenerateResult{
		PackageJSON: layout.PackageJSON(),
		Npmrc:       layout.Npmrc(),
		Manifest:    pkg,
	}, nil
}
