package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/devbench/devbench/internal/doctor"
	"github.com/devbench/devbench/internal/executor"
)

func newDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check which benchmark toolchains are installed",
		Long: `Check which toolchains of the target catalog are installed.

For every target the executable is looked up on PATH and asked for its
version. Missing toolchains are reported but do not fail the command.`,
		Args: cobra.NoArgs,
		RunE: runDoctor,
	}
}

func runDoctor(cmd *cobra.Command, args []string) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}

	c, err := settings.Catalog()
	if err != nil {
		return err
	}

	env := executor.MergeEnvironment(os.Environ(), settings.Environment)
	statuses := doctor.New(executor.NewCommandExecutor(0), env).Check(cmd.Context(), c)

	out := cmd.OutOrStdout()
	doctor.WriteTable(out, statuses)
	fmt.Fprintln(out, doctor.Summary(statuses))
	return nil
}
