/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ssargent/bodyfile/pkg/api"
	"github.com/ssargent/bodyfile/pkg/config"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Start the bodyfile REST API server over the record catalog.

Requests to /api/v1 must carry the configured key in the X-API-Key header
when one is set. Prometheus metrics are served unauthenticated on /metrics.

Examples:
  bodyfile serve
  bodyfile serve --port 9000 --api-key mysecretkey --data-dir ./case42`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		serverConfig := serverConfigFromFlags(cmd, cfg)

		if container == nil {
			return fmt.Errorf("dependency container not initialized")
		}

		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		if serverConfig.APIKey == "" {
			appLogger.Warn("no API key configured, REST API is unauthenticated")
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return container.GetServerStarter()(ctx, store, serverConfig, appLogger)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntP("port", "p", 8080, "Port to listen on")
	serveCmd.Flags().String("bind", "127.0.0.1", "Address to bind to")
	serveCmd.Flags().String("api-key", "", "API key required in X-API-Key (default from config)")
	serveCmd.Flags().Int64("max-body-size", 64<<20, "Maximum request body size in bytes (0 = unlimited)")
}

// serverConfigFromFlags merges the loaded config with explicitly set flags
func serverConfigFromFlags(cmd *cobra.Command, c *config.Config) api.ServerConfig {
	sc := api.ServerConfig{
		Port:        c.Port,
		Bind:        c.Bind,
		APIKey:      c.Security.APIKey,
		SkipInvalid: c.Parser.SkipInvalid,
		MaxLineSize: c.Parser.MaxLineSize,
	}
	sc.MaxBodySize, _ = cmd.Flags().GetInt64("max-body-size")

	if cmd.Flags().Changed("port") {
		sc.Port, _ = cmd.Flags().GetInt("port")
	}
	if cmd.Flags().Changed("bind") {
		sc.Bind, _ = cmd.Flags().GetString("bind")
	}
	if cmd.Flags().Changed("api-key") {
		sc.APIKey, _ = cmd.Flags().GetString("api-key")
	}
	return sc
}
