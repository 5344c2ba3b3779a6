package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"residue/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the residue config file",
}

// configInitCmd writes the default config
var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file to --config",
	Args:  cobra.NoArgs,
	RunE:  runConfigInit,
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("config file %s already exists", configPath)
	}
	if err := config.DefaultConfig().Save(configPath); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", configPath)
	return nil
}
