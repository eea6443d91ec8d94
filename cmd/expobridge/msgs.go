package expobridge

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort      = "Bridge compiled JavaScript libraries into an Expo workspace"
	MsgUnpackShort    = "Stage script libraries from the resolved artifacts"
	MsgGenerateShort  = "Write package.json and .npmrc into the workspace"
	MsgInstallShort   = "Link staged packages into node_modules and run npm install"
	MsgBuildShort     = "Copy the compiled bundle to App.js"
	MsgRunShort       = "Start the Expo development server"
	MsgStatusShort    = "Show staged packages and their links"
	MsgGenConfigShort = "Print a starter expobridge.toml"
	MsgVersionShort   = "Print version information"

	// Output
	MsgStagedFormat      = "Staged %d package(s) from %d artifact(s)\n"
	MsgNothingStaged     = "No script libraries found.\n"
	MsgWroteFormat       = "Wrote %s\n"
	MsgLinksFormat       = "Linked %d package(s), %d changed\n"
	MsgBuildFormat       = "Copied %s to %s (%d bytes)\n"
	MsgWorkspaceFormat   = "Workspace: %s\n"
	MsgNoStagedPackages  = "No staged packages. Run unpack first.\n"
	MsgVersionFormat     = "expobridge %s\n"
	MsgPlatformsConflict = "--android and --ios are mutually exclusive"

	// Flag descriptions
	MsgFlagVerbose    = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagConfig     = "Configuration file (default <project-dir>/expobridge.toml)"
	MsgFlagProjectDir = "Project directory"
	MsgFlagAndroid    = "Start on Android"
	MsgFlagIOS        = "Start on iOS"
	MsgFlagEffective  = "Print the effective configuration instead of the defaults"
)

// MsgRootLong is the root command description.
const MsgRootLong = `expobridge turns the JavaScript output of a compiled project into a
runnable Expo workspace: it stages script libraries from resolved artifacts as
npm packages, writes the workspace package.json, links the staged packages
into node_modules and drives npm and expo.

A typical session runs, in order:

  expobridge unpack
  expobridge generate
  expobridge install
  expobridge build
  expobridge run --android`
