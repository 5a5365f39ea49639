package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "xchain",
	Short: "Cross-chain bridge backend",
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default config.yaml)")
	rootCmd.AddCommand(
		serveCmd(),
		migrateCmd(),
		tokenCmd(),
		totpCmd(),
	)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
