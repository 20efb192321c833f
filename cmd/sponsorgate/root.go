package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "sponsorgate",
	Short: "Gas sponsorship service for liquidity position transactions",
	Long: `Sponsorgate sponsors gas for liquidity position transactions on Sui.

It tracks per-user sponsorship usage, enforces daily and monthly limits,
and forwards eligible transactions to a gas sponsorship provider.

Quick start:
  sponsorgate serve     # Start the HTTP server

Management:
  sponsorgate validate  # Validate configuration
  sponsorgate version   # Print version information`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "sponsorgate.yaml", "config file path")
}
