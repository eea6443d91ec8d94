// Package config loads expobridge configuration.
//
// Sources are layered, later ones winning:
//
//  1. embedded defaults (embedded/defaults.toml)
//  2. the user file, $XDG_CONFIG_HOME/expobridge/config.toml
//  3. the project file, expobridge.toml in the project directory
//  4. EXPOBRIDGE_* environment variables, "__" separating section and key
//
// The result is an explicit *Config handed to each component. There is no
// package level state.
package config
