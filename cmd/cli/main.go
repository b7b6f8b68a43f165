package main

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/Digitalbradley/adbrain-legal-sub000/config"
)

var (
	cfgFile string
	cfg     *config.Config
	logger  *zerolog.Logger
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "feedcheck",
	Short: "Feedcheck CLI - product feed checking tool",
	Long: `A CLI tool for checking product feeds before they are submitted to a
merchant platform. It parses CSV and XLSX feeds, reports structural problems
and content rule violations, validates feeds against the merchant validator
and applies automatic fixes.`,
	SilenceUsage:      true,
	PersistentPreRunE: persistentPreRun,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config/config.yaml or ./config.yaml)")
}

// persistentPreRun loads configuration and the logger before each command
func persistentPreRun(cmd *cobra.Command, args []string) error {
	if cmd.Name() == "help" || cmd.Name() == "completion" {
		return nil
	}

	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger = initLogger(cfg.Logging, cmd.ErrOrStderr())
	log.Logger = *logger
	return nil
}

// initLogger writes to stderr so command output on stdout stays parseable
func initLogger(cfg config.LoggingConfig, out io.Writer) *zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}

	var output io.Writer = out
	if cfg.Format != "json" {
		output = zerolog.ConsoleWriter{Out: out, NoColor: cfg.NoColor}
	}

	l := zerolog.New(output).Level(level).With().Timestamp().Logger()
	return &l
}

func main() {
	if err := Execute(); err != nil {
		os.Exit(1)
	}
}
