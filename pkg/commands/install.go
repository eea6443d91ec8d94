package commands

import (
	"context"

	"github.com/arthur-debert/expobridge/pkg/link"
	"github.com/arthur-debert/expobridge/pkg/logging"
	"github.com/arthur-debert/expobridge/pkg/process"
	"github.com/arthur-debert/expobridge/pkg/records"
)

// InstallResult reports the link reconciliation that preceded npm install.
type InstallResult struct {
	Packages []records.StagedPackage
	Links    link.Report
}

// Install links the staged packages into node_modules, then runs
// npm install in the workspace.
func Install(ctx context.Context, env Environment) (*InstallResult, error) {
	log := logging.GetLogger("commands")
	log.Debug().Str("command", "Install").Msg("Executing command")

	layout := env.Layout()
	staged, err := records.Read(env.FS, layout.Records())
	if err != nil {
		return nil, err
	}

	reconciler := link.New(env.FS, env.Runner, link.WithFamily(env.family()))
	report, err := reconciler.Reconcile(ctx, layout.NodeModules(), staged)
	if err != nil {
		return nil, err
	}

	npm, err := env.npm()
	if err != nil {
		return nil, err
	}
	inv := process.Invocation{
		Name:       "npm install",
		Executable: npm,
		Args:       []string{"install"},
		Dir:        layout.Root(),
	}
	if err := env.Runner.Execute(ctx, inv); err != nil {
		return nil, err
	}

	log.Info().
		Str("command", "Install").
		Int("packages", len(staged)).
		Int("changed", report.Changed()).
		Msg("Command finished")
	return &InstallResult{Packages: staged, Links: report}, nil
}

func (e Environment) npm() (string, error) {
	if e.Npm != "" {
		return e.Npm, nil
	}
	return process.FindExecutable("npm")
}
