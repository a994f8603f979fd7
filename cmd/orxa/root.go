package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/orxa/internal/cli"
	"github.com/aretw0/orxa/internal/config"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "orxa",
	Short: "orxa governs how coding agents use tools and delegate work",
	Long: `orxa enforces a role policy on agent tool calls, reminds an orchestrator
that keeps doing work itself to delegate, and runs delegations in subagent sessions.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	flags := rootCmd.PersistentFlags()
	flags.StringP("config", "c", config.DefaultPath, "Policy file (YAML or JSON)")
	flags.String("log-level", "", "Log level (debug, info, warn, error); empty disables logging")
	flags.Bool("log-json", false, "Log as JSON")
}

// runtimeFlags registers the flags of commands that build a full Governor.
func runtimeFlags(cmd *cobra.Command) {
	cmd.Flags().String("redis", "", "Redis address for shared drift state (host:port)")
	cmd.Flags().String("redis-password", "", "Redis password")
	cmd.Flags().Int("redis-db", 0, "Redis database")
	cmd.Flags().Duration("redis-ttl", 0, "Expire idle drift state after this long (0 keeps it)")
	cmd.Flags().String("state-dir", "", "Keep drift state as files in this directory when --redis is not set")
	cmd.Flags().String("host-url", "", "opencode-compatible server used for delegations")
	cmd.Flags().String("dir", "", "Fallback working directory for delegated sessions")
}

func runtimeOptions(cmd *cobra.Command) cli.Options {
	configPath, _ := cmd.Flags().GetString("config")
	redisAddr, _ := cmd.Flags().GetString("redis")
	redisPassword, _ := cmd.Flags().GetString("redis-password")
	redisDB, _ := cmd.Flags().GetInt("redis-db")
	redisTTL, _ := cmd.Flags().GetDuration("redis-ttl")
	stateDir, _ := cmd.Flags().GetString("state-dir")
	hostURL, _ := cmd.Flags().GetString("host-url")
	dir, _ := cmd.Flags().GetString("dir")

	return cli.Options{
		ConfigPath:    configPath,
		RedisAddr:     redisAddr,
		RedisPassword: redisPassword,
		RedisDB:       redisDB,
		RedisTTL:      redisTTL,
		StateDir:      stateDir,
		HostURL:       hostURL,
		Directory:     dir,
	}
}

func newLogger(cmd *cobra.Command, fallback string) *slog.Logger {
	level, _ := cmd.Flags().GetString("log-level")
	asJSON, _ := cmd.Flags().GetBool("log-json")
	if level == "" {
		level = fallback
	}
	return cli.NewLogger(level, asJSON)
}
