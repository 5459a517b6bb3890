package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	clientcmd "github.com/liinahamari/Loggy/internal/cmd/client"
	serverrun "github.com/liinahamari/Loggy/internal/cmd/server"
	cfgpkg "github.com/liinahamari/Loggy/internal/config"
	logpkg "github.com/liinahamari/Loggy/pkg/log"
)

// Set with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "loggy",
		Short: "Loggy log tape CLI",
		Long:  "Loggy keeps a bounded, append-only log tape. This CLI runs the server and reads, filters and exports its entries.",
	}
	rootCmd.PersistentFlags().String("config", os.Getenv("LOGGY_CONFIG"), "Config file (json, yaml or toml)")

	// server start
	serverCmd := &cobra.Command{Use: "server", Short: "Server commands"}
	serverStartCmd := &cobra.Command{
		Use:     "start",
		Short:   "Start loggy server (gRPC and HTTP)",
		Aliases: []string{"run"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("data-dir") {
				cfg.DataDir, _ = flags.GetString("data-dir")
			}
			if flags.Changed("backend") {
				cfg.Backend, _ = flags.GetString("backend")
			}
			if flags.Changed("http") {
				cfg.Server.HTTPAddr, _ = flags.GetString("http")
			}
			if flags.Changed("grpc") {
				cfg.Server.GRPCAddr, _ = flags.GetString("grpc")
			}
			if flags.Changed("volume") {
				cfg.Volume, _ = flags.GetInt64("volume")
			}
			if flags.Changed("log-level") {
				cfg.Log.Level, _ = flags.GetString("log-level")
			}
			if flags.Changed("log-format") {
				cfg.Log.Format, _ = flags.GetString("log-format")
			}
			logger, err := logpkg.ApplyConfig(&cfg.Log)
			if err != nil {
				return fmt.Errorf("invalid log config: %w", err)
			}
			if err := serverrun.Run(cmd.Context(), serverrun.Options{Config: cfg, Logger: logger}); err != nil {
				return fmt.Errorf("server error: %w", err)
			}
			_ = logger.Sync()
			return nil
		},
	}
	serverStartCmd.Flags().String("data-dir", "", "Data directory (if not specified, uses OS-specific application data directory)")
	serverStartCmd.Flags().String("backend", "tape", "Storage backend: tape|box")
	serverStartCmd.Flags().String("http", ":8080", "HTTP listen address")
	serverStartCmd.Flags().String("grpc", ":9090", "gRPC listen address (health service)")
	serverStartCmd.Flags().Int64("volume", 10<<20, "Maximum stored bytes")
	serverStartCmd.Flags().String("log-level", "info", "Log level: debug|info|warn|error")
	serverStartCmd.Flags().String("log-format", "text", "Log format: text|json")
	serverCmd.AddCommand(serverStartCmd)
	rootCmd.AddCommand(serverCmd)

	// client commands
	tapePath := func() string {
		cfg, err := loadConfig(rootCmd)
		if err != nil {
			return ""
		}
		return cfg.TapePath()
	}
	rootCmd.AddCommand(clientcmd.Commands(apiURL, tapePath)...)

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the loggy version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "loggy", version)
		},
	})
	return rootCmd
}

func loadConfig(cmd *cobra.Command) (cfgpkg.Config, error) {
	path, _ := cmd.Root().PersistentFlags().GetString("config")
	return serverrun.LoadConfig(path)
}

func apiURL() string {
	if v := os.Getenv("LOGGY_HTTP"); v != "" {
		return v
	}
	return "http://127.0.0.1:8080"
}
