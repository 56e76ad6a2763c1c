package cmd

import (
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/ppgllrd/contagion-sim/internal/api"
	"github.com/ppgllrd/contagion-sim/internal/sim"
)

// AppConfig is the process-level configuration, a superset of sim.Config
// adding the listen address, CORS origins, observability, and logging
// concerns a running server needs beyond the simulation parameters
// themselves.
type AppConfig struct {
	Sim sim.Config `yaml:"sim"`

	Server struct {
		ListenAddr  string   `yaml:"listen_addr"`
		CORSOrigins []string `yaml:"cors_origins"`
	} `yaml:"server"`

	Observability api.ObservabilityConfig `yaml:"observability"`

	LogLevel string `yaml:"log_level"`
}

// DefaultAppConfig returns the built-in defaults, the lowest layer of the
// precedence chain defaults -> YAML file -> .env/environment -> CLI flags.
func DefaultAppConfig() AppConfig {
	cfg := AppConfig{
		Sim:           sim.DefaultConfig(),
		Observability: api.DefaultObservabilityConfig(),
		LogLevel:      "info",
	}
	cfg.Server.ListenAddr = ":8080"
	cfg.Server.CORSOrigins = []string{"http://localhost:*", "http://127.0.0.1:*"}
	return cfg
}

// loadYAMLFile overlays path's contents onto cfg. A missing path is not an
// error: --config is optional.
func loadYAMLFile(cfg *AppConfig, path string) error {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// loadDotEnv loads a .env file into the process environment if present.
// Silent on a missing file.
func loadDotEnv() {
	if err := godotenv.Load(); err != nil {
		_ = err // no .env file is the common case outside development
	}
}
