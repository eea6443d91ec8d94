// Package paths provides centralized path handling for expobridge.
//
// The Expo workspace lives in <build_dir>/expo and has a fixed layout:
//
//   - package.json, .npmrc: generated npm files
//   - node_modules: installed packages and the links to staged ones
//   - node_modules_imported: staged packages, one directory each
//   - .unpack.txt: the staged package records
//   - App.js: the compiled application bundle
//
// User level configuration follows the XDG Base Directory specification:
// $XDG_CONFIG_HOME/expobridge/config.toml, overridable with
// EXPOBRIDGE_CONFIG_DIR.
package paths
