package cmd

import (
	"fmt"
	"os"

	"github.com/govdbot/govfuni/config"
	"github.com/govdbot/govfuni/database"
	"github.com/govdbot/govfuni/ext"
	"github.com/govdbot/govfuni/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Version is set at build time via ldflags.
var Version = "dev"

var flagDebug bool

var rootCmd = &cobra.Command{
	Use:               "govfuni",
	Short:             "Resolve playable formats of Funimation episodes",
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadConfig,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagDebug, "debug", "x", false, "Debug logging to stderr")

	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(versionCmd)
}

func loadConfig(cmd *cobra.Command, args []string) error {
	if err := config.Load(); err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	logger.SetLevel(config.Env.LogLevel)
	if flagDebug {
		logger.SetLevel("debug")
	}
	logger.SetLogFile(config.Env.LogFile)

	for _, codeName := range unknownExtractors() {
		zap.S().Warnf("%s configures unknown extractor %q", config.ExtractorConfigPath, codeName)
	}

	if config.Env.Caching {
		if err := database.Start(config.Env); err != nil {
			// extraction still works without the cache
			zap.S().Warnf("caching disabled: %v", err)
			config.Env.Caching = false
		}
	}
	return nil
}

func unknownExtractors() []string {
	var unknown []string
	for _, codeName := range config.ExtractorCodeNames() {
		if ext.ByCodeName(codeName) == nil {
			unknown = append(unknown, codeName)
		}
	}
	return unknown
}
