package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/aretw0/orxa/internal/cli"
	"github.com/aretw0/orxa/pkg/domain"
	"github.com/spf13/cobra"
)

var driftCmd = &cobra.Command{
	Use:   "drift",
	Short: "Record one orchestrator tool use and print a reminder when due",
	Long: `Reads {"tool", "agent", "session_id"} as JSON from Stdin. Prints the reminder
and nothing else when one is due. Use --state-dir or --redis so that state
survives between invocations.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := cli.NewRuntime(runtimeOptions(cmd), newLogger(cmd, ""))
		if err != nil {
			return err
		}
		defer rt.Close()

		var hc domain.HookContext
		if err := json.NewDecoder(cmd.InOrStdin()).Decode(&hc); err != nil && err != io.EOF {
			return fmt.Errorf("failed to read hook context: %w", err)
		}
		if reminder, due := rt.Governor.DriftCheck(cmd.Context(), hc); due {
			fmt.Fprintln(os.Stdout, reminder)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(driftCmd)
	runtimeFlags(driftCmd)
}
