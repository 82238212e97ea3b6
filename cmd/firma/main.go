package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// version is replaced at build time with -ldflags "-X main.version=...".
var version = "dev"

// errInvalid is returned by commands that found a blocking validation error.
// The report has already been printed, so main only sets the exit status.
var errInvalid = errors.New("signature data is invalid")

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, errInvalid) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "firma",
		Short: "UCN email signature editor",
		Long: `firma composes institutional email signatures for the
Departamento de Ingeniería de Sistemas y Computación.

It serves the interactive editor and also composes, validates and
copies signatures from the command line, reading the data from a
YAML file and field flags.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(composeCmd())
	rootCmd.AddCommand(validateCmd())
	rootCmd.AddCommand(copyCmd())
	rootCmd.AddCommand(versionCmd())

	return rootCmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "firma %s\n", version)
			return nil
		},
	}
}
