package commands

import (
	"context"

	"github.com/arthur-debert/expobridge/pkg/config"
	"github.com/arthur-debert/expobridge/pkg/errors"
	"github.com/arthur-debert/expobridge/pkg/logging"
	"github.com/arthur-debert/expobridge/pkg/process"
)

// Run starts the Expo development server for platform, "android" or "ios".
// An empty platform uses the configured one.
func Run(ctx context.Context, env Environment, platform string) error {
	log := logging.GetLogger("commands")
	log.Debug().Str("command", "Run").Str("platform", platform).Msg("Executing command")

	if platform == "" {
		platform = env.Config.Expo.Platform
	}
	if !validPlatform(platform) {
		return errors.Newf(errors.ErrInvalidInput, "unknown platform %q", platform).
			WithDetail("platform", platform)
	}

	layout := env.Layout()
	expo := layout.ExpoBin(env.family())
	if _, err := env.FS.Stat(expo); err != nil {
		return errors.Wrapf(err, errors.ErrMissingExecutable, "expo not found at %s, run install first", expo).
			WithDetail("command", "expo").
			WithDetail("path", expo)
	}

	return env.Runner.Execute(ctx, process.Invocation{
		Name:       "expo start",
		Executable: expo,
		Args:       []string{"start", "--" + platform},
		Dir:        layout.Root(),
	})
}

func validPlatform(p string) bool {
	for _, known := range config.Platforms {
		if p == known {
			return true
		}
	}
	return false
}
