package main

import (
	"fmt"
	"io"
	"os"

	"github.com/aretw0/orxa/internal/cli"
	"github.com/spf13/cobra"
)

// exitDenied is the exit status of `orxa check` when the call is denied.
const exitDenied = 2

var checkCmd = &cobra.Command{
	Use:   "check [call.json]",
	Short: "Evaluate one tool call against the policy",
	Long: `Reads a call as JSON ({"tool", "agent", "session_id", "args", ...}) from the
given file or Stdin and prints the decision. Exits with status 2 when the call is denied.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")
		logger := newLogger(cmd, "")

		rt, err := cli.NewRuntime(runtimeOptions(cmd), logger)
		if err != nil {
			return err
		}
		defer rt.Close()

		var in io.Reader = cmd.InOrStdin()
		if len(args) > 0 {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open call file: %w", err)
			}
			defer f.Close()
			in = f
		}

		d, err := cli.Check(cmd.Context(), rt.Governor, in, os.Stdout, asJSON)
		if err != nil {
			return err
		}
		if !d.Allow {
			_ = rt.Close()
			os.Exit(exitDenied)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().Bool("json", false, "Print the decision as JSON")
}
