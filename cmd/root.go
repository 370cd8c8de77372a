package cmd

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/chapool/go-substrate-client/cmd/encode"
	"github.com/chapool/go-substrate-client/cmd/follow"
	"github.com/chapool/go-substrate-client/cmd/probe"
	"github.com/chapool/go-substrate-client/cmd/submit"
	"github.com/chapool/go-substrate-client/internal/config"
)

const moduleName = "subx"

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   moduleName,
	Short: "Offline extrinsic construction and chainHead session client",
	Long: `subx

A Go library and CLI for constructing and encoding Substrate extrinsics
and for driving chainHead_v1_follow sessions against a JSON-RPC node.`,
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main(). It only needs to happen
// once to the rootCmd.
func Execute() {
	cobra.OnInitialize(configureLogging)

	rootCmd.AddCommand(
		probe.New(),
		encode.New(),
		follow.New(),
		submit.New(),
	)

	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("Failed to execute root command")
		os.Exit(1)
	}
}

func configureLogging() {
	cfg, err := config.Load()
	if err != nil {
		log.Error().Err(err).Msg("failed to load configuration, continuing with defaults")
		return
	}

	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil {
		log.Warn().Str("level", cfg.Log.Level).Msg("unrecognized log level, defaulting to info")
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.Log.PrettyPrintConsole {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}
