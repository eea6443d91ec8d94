package commands

import (
	"github.com/arthur-debert/expobridge/pkg/artifact"
	"github.com/arthur-debert/expobridge/pkg/logging"
	"github.com/arthur-debert/expobridge/pkg/records"
	"github.com/arthur-debert/expobridge/pkg/unpack"
)

// UnpackResult lists the packages staged by Unpack.
type UnpackResult struct {
	Artifacts int
	Packages  []records.StagedPackage
}

// Unpack stages every script library of the configured artifact list and
// rewrites the record file.
func Unpack(env Environment) (*UnpackResult, error) {
	log := logging.GetLogger("commands")
	log.Debug().Str("command", "Unpack").Msg("Executing command")

	cfg := env.Config
	list, err := artifact.LoadList(env.FS, cfg.Unpack.ArtifactsFile)
	if err != nil {
		return nil, err
	}
	policy, err := unpack.ParseCollisionPolicy(cfg.Unpack.Collision)
	if err != nil {
		return nil, err
	}

	layout := env.Layout()
	unpacker := unpack.New(env.FS, layout.Staging(), layout.Records(), unpack.WithCollisionPolicy(policy))
	staged, err := unpacker.Unpack(list, cfg.Npm.Overrides())
	if err != nil {
		return nil, err
	}

	log.Info().Str("command", "Unpack").Int("packages", len(staged)).Msg("Command finished")
	return &UnpackResult{Artifacts: len(list), Packages: staged}, nil
}
