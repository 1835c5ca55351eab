package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "switchboard",
	Short: "Switchboard is a USSD conversation engine",
	Long: `Switchboard drives multi-step USSD dialogs: a turn-based state machine
with per-identity persistence, operational counters and an external
directory/registration backend.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", "", "Path to the YAML configuration file")
}
