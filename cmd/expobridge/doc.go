// Package expobridge implements the expobridge command line.
//
// Every subcommand loads the layered configuration, builds a
// commands.Environment and delegates to the matching function of
// pkg/commands. Output meant for people goes to the command's writer;
// diagnostics go through zerolog to stderr and the log file.
package expobridge
