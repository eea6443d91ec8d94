package commands

import (
	"github.com/arthur-debert/expobridge/pkg/link"
	"github.com/arthur-debert/expobridge/pkg/logging"
	"github.com/arthur-debert/expobridge/pkg/records"
)

// StatusResult pairs each staged package with the state of its alias.
type StatusResult struct {
	Workspace string
	Packages  []records.StagedPackage
	Links     []link.LinkStatus
}

// Status reports staged packages and their node_modules links without
// changing anything.
func Status(env Environment) (*StatusResult, error) {
	log := logging.GetLogger("commands")
	log.Debug().Str("command", "Status").Msg("Executing command")

	layout := env.Layout()
	staged, err := records.Read(env.FS, layout.Records())
	if err != nil {
		return nil, err
	}

	reconciler := link.New(env.FS, env.Runner, link.WithFamily(env.family()))
	return &StatusResult{
		Workspace: layout.Root(),
		Packages:  staged,
		Links:     reconciler.Status(layout.NodeModules(), staged),
	}, nil
}
