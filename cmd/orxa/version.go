package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/aretw0/orxa"
	"github.com/aretw0/orxa/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of orxa",
	Run: func(cmd *cobra.Command, args []string) {
		if tui.IsTerminal(os.Stdout) {
			tui.PrintBanner(os.Stdout)
		}
		fmt.Printf("orxa version %s\n", strings.TrimSpace(orxa.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
