/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/ssargent/bodyfile/pkg/config"
	"github.com/ssargent/bodyfile/pkg/di"
	"github.com/ssargent/bodyfile/pkg/logger"
	"github.com/ssargent/bodyfile/pkg/storage"
	"github.com/ssargent/bodyfile/pkg/stream"
)

var (
	container *di.Container
	cfg       = config.DefaultConfig()
	appLogger = slog.Default()
	closeLog  = func() error { return nil }
)

// SetContainer injects the dependency container used by the commands
func SetContainer(c *di.Container) {
	container = c
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "bodyfile",
	Short: "bodyfile - read, check and catalogue bodyfile v3 timelines",
	Long: `bodyfile works with the pipe separated bodyfile v3 format produced by
fls, mactime and other forensic timeline tools.

Lines can be parsed, checked and formatted directly, or imported into a local
record catalog that is also served over a REST API.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := resolveConfig(cmd)
		if err != nil {
			return err
		}
		cfg = loaded

		l, closeFn, err := logger.Setup(cfg.Logging.Level, cfg.Logging.File)
		if err != nil {
			return fmt.Errorf("failed to set up logging: %w", err)
		}
		appLogger = l
		closeLog = closeFn
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeLog()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Config file (default ~/.config/bodyfile/config.yaml)")
	rootCmd.PersistentFlags().StringP("data-dir", "d", "", "Data directory for the record catalog")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error)")
}

// resolveConfig loads the config file when one exists and applies flag overrides
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	configPath, _ := cmd.Flags().GetString("config")
	explicit := configPath != ""
	if !explicit {
		configPath = config.GetDefaultConfigPath()
	}

	c := config.DefaultConfig()
	if explicit || config.ConfigExists(configPath) {
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		c = loaded
	}

	if cmd.Flags().Changed("data-dir") {
		c.DataDir, _ = cmd.Flags().GetString("data-dir")
	}
	if cmd.Flags().Changed("log-level") {
		c.Logging.Level, _ = cmd.Flags().GetString("log-level")
	}

	return c, c.Validate()
}

// openStore opens the record catalog in the configured data directory
func openStore() (*storage.RecordStore, error) {
	if container == nil {
		return nil, fmt.Errorf("dependency container not initialized")
	}
	if err := os.MkdirAll(cfg.DataDir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create data dir: %w", err)
	}
	store, err := container.GetStoreOpener()(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open record store: %w", err)
	}
	return store, nil
}

// openInput returns a reader over path, or over stdin when path is "-"
func openInput(cmd *cobra.Command, path string, skipInvalid bool) (*stream.Reader, error) {
	rc := stream.ReaderConfig{
		FilePath:    path,
		SkipInvalid: skipInvalid,
		MaxLineSize: cfg.Parser.MaxLineSize,
		Logger:      appLogger,
	}
	if path == "-" {
		return stream.NewReaderFrom(cmd.InOrStdin(), rc), nil
	}
	return stream.NewReader(rc)
}

// openOutput returns a writer for path, or for out when path is empty or "-"
func openOutput(out io.Writer, path string) (*stream.Writer, error) {
	if path == "" || path == "-" {
		return stream.NewStreamWriter(out, cfg.Writer.BufferSize), nil
	}

	interval, err := cfg.Writer.Interval()
	if err != nil {
		return nil, err
	}
	return stream.NewWriter(stream.WriterConfig{
		FilePath:      path,
		FsyncInterval: interval,
		BufferSize:    cfg.Writer.BufferSize,
		Truncate:      true,
	})
}

func inputArg(args []string) string {
	if len(args) == 0 {
		return "-"
	}
	return args[0]
}
