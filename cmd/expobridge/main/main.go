package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/arthur-debert/expobridge/cmd/expobridge"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rootCmd := expobridge.NewRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		// Print the error in red
		fmt.Fprintln(os.Stderr, errorStyle().Render(fmt.Sprintf("Error: %v", err)))
		stop()
		os.Exit(1)
	}
}

func errorStyle() lipgloss.Style {
	renderer := lipgloss.NewRenderer(os.Stderr)
	if os.Getenv("NO_COLOR") != "" || !isatty.IsTerminal(os.Stderr.Fd()) {
		renderer.SetColorProfile(termenv.Ascii)
	}
	return renderer.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
}
