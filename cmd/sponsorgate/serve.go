package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pearlfi/sponsorgate/bootstrap"
	"github.com/pearlfi/sponsorgate/config"
)

var (
	hotReload bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the sponsorship server",
	Long: `Start the sponsorgate HTTP server.

The server will:
  - Load configuration from sponsorgate.yaml (or --config)
  - Or load configuration from SPONSORGATE_* environment variables
  - Connect to the sponsorship provider and fullnode
  - Serve the sponsorship API with per-user limit tracking

Environment variables (for Docker deployments):
  SPONSORGATE_PROVIDER_MODE     - Provider mode: enoki or none
  SPONSORGATE_PROVIDER_API_KEY  - Enoki private API key
  SPONSORGATE_PROVIDER_NETWORK  - Network: mainnet, testnet, devnet
  SPONSORGATE_SERVER_PORT       - Server port (default: 8080)
  SPONSORGATE_LOG_LEVEL         - Log level: debug, info, warn, error

Examples:
  sponsorgate serve
  sponsorgate serve --config /etc/sponsorgate/config.yaml
  sponsorgate serve --hot-reload=false

  # Docker (env vars only):
  SPONSORGATE_PROVIDER_MODE=enoki SPONSORGATE_PROVIDER_API_KEY=... sponsorgate serve`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().BoolVar(&hotReload, "hot-reload", true, "enable hot reload of configuration")
}

func runServe(cmd *cobra.Command, args []string) error {
	hasConfigFile := false
	if _, err := os.Stat(cfgFile); err == nil {
		hasConfigFile = true
	}

	hasEnvConfig := config.HasEnvConfig()

	// No configuration at all
	if !hasConfigFile && !hasEnvConfig {
		fmt.Println("No configuration found.")
		fmt.Println()
		fmt.Printf("Option 1: Create %s\n", cfgFile)
		fmt.Println("Option 2: Set SPONSORGATE_PROVIDER_MODE environment variable")
		fmt.Println()
		fmt.Println("Example (env vars):")
		fmt.Println("  SPONSORGATE_PROVIDER_MODE=enoki SPONSORGATE_PROVIDER_API_KEY=... sponsorgate serve")
		return nil
	}

	// Create application
	var app *bootstrap.App
	var err error

	if hasConfigFile && hotReload {
		// Hot reload only works with config file
		app, err = bootstrap.NewWithHotReload(cfgFile)
	} else {
		// Load config (file with env overrides, or env-only)
		cfg, loadErr := config.LoadWithFallback(cfgFile)
		if loadErr != nil {
			return fmt.Errorf("error loading config: %w", loadErr)
		}

		if !hasConfigFile {
			fmt.Println("Running with environment variables (no config file)")
		}

		app, err = bootstrap.New(cfg)
	}

	if err != nil {
		return fmt.Errorf("error initializing: %w", err)
	}

	// Run (blocks until shutdown)
	return app.Run()
}
