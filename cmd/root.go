// Package cmd implements the contagion-sim command-line entrypoints: a
// thin rootCmd with one subcommand per operating mode, flags bound at init
// time, configuration resolved layered over AppConfig.
package cmd

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "contagion-sim",
	Short: "Discrete-event simulator of disease spread among colliding particles",
}

// Execute runs the CLI, exiting the process with status 1 on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "optional YAML config file")
	rootCmd.AddCommand(runCmd, serveCmd, replayCmd)
}

// resolveAppConfig builds an AppConfig by layering, lowest to highest
// precedence: built-in defaults, an optional --config YAML file, then
// .env/process environment. CLI flags are applied by each subcommand's
// RunE after this returns, so they always win.
func resolveAppConfig() (AppConfig, error) {
	loadDotEnv()
	cfg := DefaultAppConfig()
	if err := loadYAMLFile(&cfg, configPath); err != nil {
		return cfg, err
	}
	applyEnvOverrides(&cfg)
	return cfg, nil
}

// applyEnvOverrides reads a small set of CONTAGION_-prefixed environment
// variables, the layer between the YAML file and explicit CLI flags.
func applyEnvOverrides(cfg *AppConfig) {
	if v := os.Getenv("CONTAGION_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("CONTAGION_LISTEN_ADDR"); v != "" {
		cfg.Server.ListenAddr = v
	}
}

// configureLogging applies cfg.LogLevel to a fresh logrus logger, falling
// back to info level on an unparseable value.
func configureLogging(cfg AppConfig) *logrus.Logger {
	log := logrus.New()
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Warnf("invalid log level %q, defaulting to info", cfg.LogLevel)
		level = logrus.InfoLevel
	}
	log.SetLevel(level)
	return log
}
