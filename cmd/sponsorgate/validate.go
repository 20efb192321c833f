package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pearlfi/sponsorgate/adapters/sui"
	"github.com/pearlfi/sponsorgate/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration before deployment",
	Long: `Validate the sponsorgate configuration file.

Checks:
  - YAML syntax is valid
  - Required fields are present
  - Fullnode is reachable (optional)

Examples:
  sponsorgate validate
  sponsorgate validate --config /etc/sponsorgate/config.yaml`,
	RunE: runValidate,
}

var (
	validateCheckFullnode bool
)

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().BoolVar(&validateCheckFullnode, "check-fullnode", false, "check if the fullnode is reachable")
}

func runValidate(cmd *cobra.Command, args []string) error {
	fmt.Printf("Validating %s...\n\n", cfgFile)

	// Check file exists
	if _, err := os.Stat(cfgFile); os.IsNotExist(err) {
		fmt.Printf("  %s Config file exists\n", crossMark)
		return fmt.Errorf("config file not found: %s", cfgFile)
	}
	fmt.Printf("  %s Config file exists\n", checkMark)

	// Load and validate config
	cfg, err := config.Load(cfgFile)
	if err != nil {
		fmt.Printf("  %s Config syntax valid\n", crossMark)
		return fmt.Errorf("config error: %w", err)
	}
	fmt.Printf("  %s Config syntax valid\n", checkMark)

	// Show config summary
	fmt.Printf("  %s Provider: %s (%s)\n", checkMark, cfg.Provider.Mode, cfg.Provider.Network)
	fmt.Printf("  %s Fullnode: %s\n", checkMark, cfg.Fullnode.URL)
	fmt.Printf("  %s Limits: %d/day, %d/month, $%.2f total\n", checkMark,
		cfg.Sponsorship.DailyPositions, cfg.Sponsorship.MonthlyPositions, cfg.Sponsorship.TotalValueUSD)

	// Optional: check fullnode
	if validateCheckFullnode {
		if err := checkFullnodeReachable(cfg); err != nil {
			fmt.Printf("  %s Fullnode reachable\n", crossMark)
			fmt.Printf("      Error: %v\n", err)
		} else {
			fmt.Printf("  %s Fullnode reachable\n", checkMark)
		}
	}

	fmt.Println()
	fmt.Println("Configuration is valid.")
	return nil
}

func checkFullnodeReachable(cfg *config.Config) error {
	client, err := sui.NewClient(sui.ClientConfig{
		URL:     cfg.Fullnode.URL,
		Timeout: cfg.Fullnode.Timeout,
	})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	id, err := client.ChainIdentifier(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("      Chain: %s\n", id)
	return nil
}

const (
	checkMark = "\033[32m✓\033[0m"
	crossMark = "\033[31m✗\033[0m"
)
