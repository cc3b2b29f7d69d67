// Package config holds the settings of a validator load run.
package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/thep2p/validator-load/internal/model"
	"gopkg.in/yaml.v3"
)

const (
	// BackendRPC fetches validator load over JSON-RPC from a lite-server bridge.
	BackendRPC = "rpc"
	// BackendFile replays validator load from a captured JSON file.
	BackendFile = "file"

	// DefaultCyclesLimit is how many of the most recent cycles are requested from the elections service.
	DefaultCyclesLimit = 2
)

// Config defines the parameters of a single run.
type Config struct {
	// Log configures the process logger.
	Log LogConfig `yaml:"log"`
	// Elections locates the elections service listing validation cycles.
	Elections ElectionsConfig `yaml:"elections"`
	// Network selects how validator load is retrieved.
	Network NetworkConfig `yaml:"network"`
}

// LogConfig configures logging.
type LogConfig struct {
	// Level is a zerolog level name.
	Level string `yaml:"level" validate:"oneof=trace debug info warn error"`
}

// ElectionsConfig locates the elections service.
type ElectionsConfig struct {
	// URL is the base URL of the elections API, without the endpoint name.
	URL string `yaml:"url" validate:"required,url"`
	// Limit is the number of most recent cycles to request.
	Limit int `yaml:"limit" validate:"gt=0"`
}

// NetworkConfig selects the validator load backend.
type NetworkConfig struct {
	// Backend is the registered name of the load source.
	Backend string `yaml:"backend" validate:"required,oneof=rpc file"`
	// Endpoint is the JSON-RPC endpoint (http, ws or ipc path) of the lite-server bridge.
	Endpoint string `yaml:"endpoint" validate:"required_if=Backend rpc"`
	// Method is the JSON-RPC method returning validator load for a time range.
	Method string `yaml:"method" validate:"required_if=Backend rpc"`
	// File is the path of a captured load result, used by the file backend.
	File string `yaml:"file" validate:"required_if=Backend file"`
}

// Default returns a Config with every optional setting filled in.
func Default() Config {
	return Config{
		Log: LogConfig{Level: zerolog.InfoLevel.String()},
		Elections: ElectionsConfig{
			Limit: DefaultCyclesLimit,
		},
		Network: NetworkConfig{
			Backend: BackendRPC,
			Method:  model.LiteValidatorsLoad,
		},
	}
}

// Load reads a YAML config file on top of Default. An empty path yields Default unchanged.
//
// The result is not validated; callers apply overrides and then call Validate.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the configuration for missing or malformed settings.
func (c Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// LogLevel returns the parsed log level.
func (c Config) LogLevel() zerolog.Level {
	lvl, err := zerolog.ParseLevel(c.Log.Level)
	if err != nil {
		return zerolog.InfoLevel
	}
	return lvl
}
