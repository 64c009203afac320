package main

import (
	"os"

	"orion-os/internal/config"
	"orion-os/internal/logger"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "orion",
	Short:         "Orion OS backend: design systems, notes and fonts",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Load configuration
		if err := config.LoadConfig(); err != nil {
			return err
		}
		logger.Setup(config.AppConfig.LogLevel, config.AppConfig.Environment)
		return nil
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}
