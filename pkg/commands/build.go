package commands

import (
	stderrors "errors"
	"io/fs"
	"path/filepath"

	"github.com/arthur-debert/expobridge/pkg/errors"
	"github.com/arthur-debert/expobridge/pkg/logging"
)

// BuildResult names the copied bundle.
type BuildResult struct {
	Source      string
	Destination string
	Bytes       int
}

// Build copies the compiled application bundle to App.js.
func Build(env Environment) (*BuildResult, error) {
	log := logging.GetLogger("commands")
	log.Debug().Str("command", "Build").Msg("Executing command")

	bundle := env.Config.Project.Bundle
	if bundle == "" {
		return nil, errors.New(errors.ErrInvalidInput, "no application bundle configured (project.bundle)")
	}

	data, err := env.FS.ReadFile(bundle)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.Wrapf(err, errors.ErrFileNotFound, "application bundle %s not found", bundle).
				WithDetail("path", bundle)
		}
		return nil, errors.Wrapf(err, errors.ErrInternal, "cannot read %s", bundle).WithDetail("path", bundle)
	}

	dest := env.Layout().App()
	if err := env.FS.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileWrite, "cannot create %s", filepath.Dir(dest)).
			WithDetail("path", dest)
	}
	if err := env.FS.WriteFile(dest, data, 0644); err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileWrite, "cannot write %s", dest).WithDetail("path", dest)
	}

	log.Info().Str("command", "Build").Str("source", bundle).Int("bytes", len(data)).Msg("Command finished")
	return &BuildResult{Source: bundle, Destination: dest, Bytes: len(data)}, nil
}
