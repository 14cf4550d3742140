// Package cmd provides the command-line interface of roccaes.
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// Exit statuses of the run command.
const (
	ExitPassed      = 0
	ExitFailed      = 1
	ExitConfigError = 2
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "roccaes",
	Short: "roccaes verifies a RoCC AES accelerator in co-simulation.",
	Long: `roccaes drives randomized rounds of key loads, address loads and ` +
		`cipher commands into an AES accelerator, detects completion by ` +
		`polling or interrupt, and checks the memory side effects against ` +
		`a reference cipher.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(ExitConfigError)
	}
}
