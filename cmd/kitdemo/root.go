package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "kitdemo",
	Short: "kitdemo serves a demo application built on form actions",
	Long: `kitdemo runs a todo list and a login page whose mutations are form actions.
Browsers get full page renders; clients that send Accept: application/json get
the normalised action result as JSON.`,
	SilenceUsage: true,
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to a YAML configuration file")
}
