package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/paw-chain/burnoracle/app"
)

const (
	envPrefix      = "ORACLED"
	configFileName = "oracled"
	configFileType = "toml"

	keyLogLevel    = "log_level"
	keyMetricsPort = "metrics_port"
	keyDBBackend   = "db_backend"
	keyBlockTime   = "block_time"
	keyOTLP        = "otlp_endpoint"
	keySampleRate  = "trace_sample_rate"

	defaultMetricsPort = 36660
)

// Config is the node configuration read from $HOME/config/oracled.toml,
// ORACLED_* environment variables and command flags, in increasing priority
type Config struct {
	LogLevel    string        `mapstructure:"log_level"`
	MetricsPort int           `mapstructure:"metrics_port"`
	DBBackend   string        `mapstructure:"db_backend"`
	BlockTime   time.Duration `mapstructure:"block_time"`

	// OTLPEndpoint enables span export when set
	OTLPEndpoint    string  `mapstructure:"otlp_endpoint"`
	TraceSampleRate float64 `mapstructure:"trace_sample_rate"`
}

// DefaultConfig returns the configuration written by init
func DefaultConfig() Config {
	return Config{
		LogLevel:    "info",
		MetricsPort: defaultMetricsPort,
		DBBackend:   "goleveldb",
		BlockTime:   app.DefaultBlockTime,

		TraceSampleRate: 1,
	}
}

// DefaultNodeHome is the node home used when neither --home nor ORACLED_HOME is set
func DefaultNodeHome() string {
	userHome, err := os.UserHomeDir()
	if err != nil {
		return ".oracled"
	}
	return filepath.Join(userHome, ".oracled")
}

func configDir(home string) string { return filepath.Join(home, "config") }
func dataDir(home string) string   { return filepath.Join(home, "data") }
func configPath(home string) string {
	return filepath.Join(configDir(home), configFileName+"."+configFileType)
}
func genesisPath(home string) string { return filepath.Join(configDir(home), "genesis.json") }

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	def := DefaultConfig()
	v.SetDefault(keyLogLevel, def.LogLevel)
	v.SetDefault(keyMetricsPort, def.MetricsPort)
	v.SetDefault(keyDBBackend, def.DBBackend)
	v.SetDefault(keyBlockTime, def.BlockTime)
	v.SetDefault(keyOTLP, def.OTLPEndpoint)
	v.SetDefault(keySampleRate, def.TraceSampleRate)
	return v
}

// loadConfig reads the config file under home when it exists and decodes
// the merged settings
func loadConfig(v *viper.Viper, home string) (Config, error) {
	v.AddConfigPath(configDir(home))
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if cfg.BlockTime <= 0 {
		return Config{}, fmt.Errorf("block_time must be positive, got %s", cfg.BlockTime)
	}
	if cfg.MetricsPort <= 0 || cfg.MetricsPort > 65535 {
		return Config{}, fmt.Errorf("metrics_port out of range: %d", cfg.MetricsPort)
	}
	return cfg, nil
}

// writeConfig persists cfg as the node's config file
func writeConfig(home string, cfg Config) error {
	if err := os.MkdirAll(configDir(home), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType(configFileType)
	v.Set(keyLogLevel, cfg.LogLevel)
	v.Set(keyMetricsPort, cfg.MetricsPort)
	v.Set(keyDBBackend, cfg.DBBackend)
	v.Set(keyBlockTime, cfg.BlockTime.String())
	v.Set(keyOTLP, cfg.OTLPEndpoint)
	v.Set(keySampleRate, cfg.TraceSampleRate)
	return v.WriteConfigAs(configPath(home))
}
