package expobridge

import (
	"fmt"

	"github.com/arthur-debert/expobridge/internal/version"
	"github.com/arthur-debert/expobridge/pkg/commands"
	"github.com/arthur-debert/expobridge/pkg/config"
	"github.com/arthur-debert/expobridge/pkg/errors"
	"github.com/arthur-debert/expobridge/pkg/link"
	"github.com/spf13/cobra"
)

func newUnpackCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "unpack",
		Short:   MsgUnpackShort,
		GroupID: "workspace",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := a.environment()
			if err != nil {
				return err
			}
			result, err := commands.Unpack(env)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(result.Packages) == 0 {
				_, _ = fmt.Fprint(out, MsgNothingStaged)
				return nil
			}
			_, _ = fmt.Fprintf(out, MsgStagedFormat, len(result.Packages), result.Artifacts)
			rows := make([][]string, 0, len(result.Packages))
			for _, p := range result.Packages {
				rows = append(rows, []string{p.Name, p.OriginalVersion, p.Semver, p.StagingPath})
			}
			return renderTable(out, []string{"Package", "Version", "Semver", "Staged at"}, rows)
		},
	}
}

func newGenerateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "generate",
		Short:   MsgGenerateShort,
		GroupID: "workspace",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := a.environment()
			if err != nil {
				return err
			}
			result, err := commands.Generate(env)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), MsgWroteFormat, result.PackageJSON)
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), MsgWroteFormat, result.Npmrc)
			return nil
		},
	}
}

func newInstallCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "install",
		Short:   MsgInstallShort,
		GroupID: "workspace",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := a.environment()
			if err != nil {
				return err
			}
			result, err := commands.Install(cmd.Context(), env)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), MsgLinksFormat, len(result.Links.Entries), result.Links.Changed())
			return nil
		},
	}
}

func newBuildCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "build",
		Short:   MsgBuildShort,
		GroupID: "workspace",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := a.environment()
			if err != nil {
				return err
			}
			result, err := commands.Build(env)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), MsgBuildFormat, result.Source, result.Destination, result.Bytes)
			return nil
		},
	}
}

func newRunCmd(a *app) *cobra.Command {
	var android, ios bool

	cmd := &cobra.Command{
		Use:     "run",
		Short:   MsgRunShort,
		GroupID: "workspace",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if android && ios {
				return errors.New(errors.ErrInvalidInput, MsgPlatformsConflict)
			}
			env, err := a.environment()
			if err != nil {
				return err
			}
			platform := ""
			switch {
			case android:
				platform = "android"
			case ios:
				platform = "ios"
			}
			return commands.Run(cmd.Context(), env, platform)
		},
	}

	cmd.Flags().BoolVar(&android, "android", false, MsgFlagAndroid)
	cmd.Flags().BoolVar(&ios, "ios", false, MsgFlagIOS)
	return cmd
}

func newStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "status",
		Short:   MsgStatusShort,
		GroupID: "workspace",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := a.environment()
			if err != nil {
				return err
			}
			result, err := commands.Status(env)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, MsgWorkspaceFormat, result.Workspace)
			if len(result.Packages) == 0 {
				_, _ = fmt.Fprint(out, MsgNoStagedPackages)
				return nil
			}
			rows := make([][]string, 0, len(result.Links))
			for i, st := range result.Links {
				rows = append(rows, []string{st.Name, result.Packages[i].Semver, linkState(st)})
			}
			return renderTable(out, []string{"Package", "Semver", "Link"}, rows)
		},
	}
}

func linkState(st link.LinkStatus) string {
	switch st.State {
	case link.StateWrongTarget:
		return fmt.Sprintf("%s (-> %s)", st.State, st.Actual)
	case link.StateError:
		return fmt.Sprintf("%s (%v)", st.State, st.Err)
	}
	return string(st.State)
}

func newGenConfigCmd(a *app) *cobra.Command {
	var effective bool

	cmd := &cobra.Command{
		Use:     "gen-config",
		Short:   MsgGenConfigShort,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !effective {
				_, _ = fmt.Fprint(cmd.OutOrStdout(), config.GenerateConfigContent())
				return nil
			}
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			content, err := config.Render(cfg)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprint(cmd.OutOrStdout(), content)
			return nil
		},
	}

	cmd.Flags().BoolVar(&effective, "effective", false, MsgFlagEffective)
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   MsgVersionShort,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), MsgVersionFormat, version.String())
		},
	}
}
