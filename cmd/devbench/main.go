// Package main is the entry point for the devbench CLI tool.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/devbench/devbench/internal/debug"
)

// Version is set at build time via ldflags
var Version = "dev"

// Global flags
var (
	debugFlag  bool
	configPath string
)

// newRootCmd creates and returns the root command
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "devbench",
		Short: "Benchmark developer toolchains",
		Long: `DevBench measures how long developer toolchains take to do their job.

The compile benchmark builds a trivial program with every selected
toolchain, repeating each build a fixed number of times after a few
discarded warm-up runs, and reports the mean, minimum, maximum, standard
deviation and variance of the wall-clock times. The build output directory
is emptied after every run so no build sees another's artifacts.

GETTING STARTED:
  1. Check which toolchains are installed:
     $ devbench doctor

  2. Run the compile benchmark and pick the targets:
     $ devbench compile

CONFIGURATION:
  Settings are read from .devbench.json, .devbench.yaml or .devbench.toml
  in the current directory or in the user config directory, or from the
  file named by DEVBENCH_CONFIG or --config. Command flags override file
  settings.`,
		Version: Version,
		Example: `  # Interactive target selection
  devbench compile

  # Benchmark C and Go without prompting
  devbench compile --yes --targets C,Go

  # Machine-readable output
  devbench compile --yes --format json --save results.json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if debugFlag {
				debug.Enable()
			}
		},
	}
	cmd.SetVersionTemplate("DevBench v{{.Version}}\n")

	// Global flags
	cmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "Enable debug output")
	cmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to settings file")

	// Disable the default completion command
	cmd.CompletionOptions.DisableDefaultCmd = true

	cmd.AddCommand(newCompileCmd())
	cmd.AddCommand(newDoctorCmd())
	cmd.AddCommand(newCompletionCmd())
	cmd.AddCommand(newManCmd())

	return cmd
}

func main() {
	// Parse global flags early to enable debug logging
	for i := 1; i < len(os.Args); i++ {
		if os.Args[i] == "--debug" {
			debug.Enable()
			break
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
