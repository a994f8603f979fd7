package main

import (
	"os"

	"github.com/aretw0/orxa/internal/cli"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate [policy.yaml]",
	Short: "Check a policy file for errors",
	Long:  `Loads the policy with environment overrides applied and reports every problem found.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("config")
		if len(args) > 0 {
			path = args[0]
		}
		return cli.Validate(path, os.Stdout)
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
