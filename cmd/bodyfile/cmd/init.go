/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ssargent/bodyfile/pkg/config"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a configuration file with a generated API key",
	Long: `Create a configuration file with default settings and a freshly
generated API key for the REST API.

Examples:
  bodyfile init
  bodyfile init --config ./bodyfile.yaml --data-dir ./case42 --force`,
	Args: cobra.NoArgs,
	// The config file may not exist yet, so skip loading it
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		dataDir, _ := cmd.Flags().GetString("data-dir")
		force, _ := cmd.Flags().GetBool("force")

		if configPath == "" {
			configPath = config.GetDefaultConfigPath()
		}

		created, err := runInit(configPath, dataDir, force)
		if err != nil {
			return err
		}

		cmd.Printf("✅ Configuration written to %s\n", configPath)
		cmd.Printf("Data directory: %s\n", created.DataDir)
		cmd.Printf("API key: %s\n", created.Security.APIKey)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().Bool("force", false, "Overwrite an existing configuration file")
}

// runInit bootstraps a configuration file at configPath
func runInit(configPath, dataDir string, force bool) (*config.Config, error) {
	if config.ConfigExists(configPath) && !force {
		return nil, fmt.Errorf("config already exists at %s, use --force to overwrite", configPath)
	}
	return config.BootstrapConfig(configPath, dataDir)
}
