// Package main provides the entry point for the pdfscrub CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for pdfscrub.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pdfscrub",
		Short: "Remove identifying metadata from PDF files",
		Long: `pdfscrub removes identifying metadata from PDF files and forensically
verifies the result.

It tries multiple scrub strategies in order of thoroughness, sanitizes the
document object graph, and only accepts an output that passes independent
forensic validation. If every strategy leaves detectable metadata behind,
no output is written.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewScrubCmd())
	cmd.AddCommand(NewValidateCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
