package expobridge

import (
	"fmt"

	"github.com/arthur-debert/expobridge/internal/version"
	"github.com/arthur-debert/expobridge/pkg/commands"
	"github.com/arthur-debert/expobridge/pkg/config"
	"github.com/arthur-debert/expobridge/pkg/logging"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// app holds the state shared by all subcommands of one root command.
type app struct {
	verbosity  int
	configFile string
	projectDir string

	// newEnvironment builds the command environment; tests replace it.
	newEnvironment func(cfg *config.Config) commands.Environment
}

func (a *app) loadConfig() (*config.Config, error) {
	return config.Load(config.Options{
		ProjectDir: a.projectDir,
		ConfigFile: a.configFile,
	})
}

func (a *app) environment() (commands.Environment, error) {
	cfg, err := a.loadConfig()
	if err != nil {
		return commands.Environment{}, err
	}
	return a.newEnvironment(cfg), nil
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	return newRootCmd(&app{newEnvironment: commands.NewEnvironment})
}

func newRootCmd(a *app) *cobra.Command {
	// Initialize custom template formatting functions
	initTemplateFormatting()

	rootCmd := &cobra.Command{
		Use:     "expobridge",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(a.verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			// If we get here, no subcommand was provided
			_ = cmd.Help()
			return fmt.Errorf("no command specified")
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	// Global flags
	rootCmd.PersistentFlags().CountVarP(&a.verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.PersistentFlags().StringVarP(&a.configFile, "config", "c", "", MsgFlagConfig)
	rootCmd.PersistentFlags().StringVarP(&a.projectDir, "project-dir", "C", ".", MsgFlagProjectDir)

	rootCmd.AddGroup(&cobra.Group{
		ID:    "workspace",
		Title: "WORKSPACE:",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "misc",
		Title: "MISC:",
	})

	rootCmd.AddCommand(newUnpackCmd(a))
	rootCmd.AddCommand(newGenerateCmd(a))
	rootCmd.AddCommand(newInstallCmd(a))
	rootCmd.AddCommand(newBuildCmd(a))
	rootCmd.AddCommand(newRunCmd(a))
	rootCmd.AddCommand(newStatusCmd(a))
	rootCmd.AddCommand(newGenConfigCmd(a))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}
