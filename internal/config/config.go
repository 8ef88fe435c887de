// Package config turns flags, YGGHUNTER_* environment variables and an
// optional YAML file into a validated search configuration.
package config

import (
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/Amr-9/YggHunter/pkg/generator"
)

// EnvPrefix prefixes every environment override, e.g. YGGHUNTER_BATCH_SIZE.
const EnvPrefix = "YGGHUNTER"

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatSSH  = "ssh"
)

// Keys shared by flags, environment and file.
const (
	KeyBackend       = "backend"
	KeyBatchSize     = "batch-size"
	KeyStats         = "stats"
	KeyStatsInterval = "stats-interval"
	KeyRegex         = "regex"
	KeyWorkers       = "workers"
	KeyFormat        = "format"
	KeyLogLevel      = "log-level"
	KeyConfig        = "config"
)

// Config is the validated runtime configuration.
type Config struct {
	Backend       string        `mapstructure:"backend"`
	BatchSize     int           `mapstructure:"batch-size"`
	Stats         bool          `mapstructure:"stats"`
	StatsInterval time.Duration `mapstructure:"stats-interval"`
	Regexes       []string      `mapstructure:"regex"`
	Workers       int           `mapstructure:"workers"`
	Format        string        `mapstructure:"format"`
	LogLevel      string        `mapstructure:"log-level"`
}

// RegisterFlags defines the search flags on fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.StringP(KeyBackend, "", "gpu", "where keys are derived: cpu or gpu")
	fs.IntP(KeyBatchSize, "b", 1024, "device batch size, in workgroups of 64 keys")
	fs.BoolP(KeyStats, "s", false, "log the key rate periodically")
	fs.Duration(KeyStatsInterval, 5*time.Second, "interval between stats lines")
	fs.StringArrayP(KeyRegex, "r", nil, "address pattern to track (repeatable); none tracks every address")
	fs.IntP(KeyWorkers, "w", 0, "host worker goroutines, 0 for one per CPU")
	fs.StringP(KeyFormat, "f", FormatText, "report format: text, json or ssh")
	fs.String(KeyLogLevel, "info", "log level: debug, info, warn or error")
	fs.StringP(KeyConfig, "c", "", "YAML file with defaults for the flags above")
}

// Bind wires fs and the environment into v and reads the config file named
// by the --config flag, if any.
func Bind(v *viper.Viper, fs *pflag.FlagSet) error {
	if err := v.BindPFlags(fs); err != nil {
		return fmt.Errorf("bind flags: %w", err)
	}
	// Viper reads array flags back through a CSV parser, which would split
	// patterns such as "a{1,3}".
	if fs.Changed(KeyRegex) {
		patterns, err := fs.GetStringArray(KeyRegex)
		if err != nil {
			return err
		}
		v.Set(KeyRegex, patterns)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if path := v.GetString(KeyConfig); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config %s: %w", path, err)
		}
	}
	return nil
}

// Load decodes and validates the configuration held by v.
func Load(v *viper.Viper) (*Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) validate() error {
	if _, err := generator.ParseBackend(c.Backend); err != nil {
		return err
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("batch size must be positive, got %d", c.BatchSize)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}
	if c.Workers == 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.Stats && c.StatsInterval <= 0 {
		return fmt.Errorf("stats interval must be positive, got %s", c.StatsInterval)
	}
	switch c.Format {
	case FormatText, FormatJSON, FormatSSH:
	default:
		return fmt.Errorf("unknown format %q (want text, json or ssh)", c.Format)
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// Level returns the parsed log level.
func (c *Config) Level() logrus.Level {
	lvl, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return logrus.InfoLevel
	}
	return lvl
}

// Generator converts c into a generator configuration.
func (c *Config) Generator(log logrus.FieldLogger) *generator.Config {
	backend, _ := generator.ParseBackend(c.Backend)
	return &generator.Config{
		Backend:   backend,
		Patterns:  c.Regexes,
		Workers:   c.Workers,
		BatchSize: c.BatchSize,
		Logger:    log,
	}
}
