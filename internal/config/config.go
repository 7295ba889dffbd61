// Package config loads the settings of the genfile command from defaults,
// an optional YAML or TOML file, GENFILE_* environment variables and
// command line flags, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/arloliu/genfile/format"
	"github.com/arloliu/genfile/internal/logger"
)

// EnvPrefix prefixes every environment variable, e.g. GENFILE_LOG_LEVEL.
const EnvPrefix = "GENFILE"

// Config holds the command settings.
type Config struct {
	Log logger.Config `mapstructure:"log"`

	// Mmap maps input files instead of reading them with positioned reads.
	Mmap bool `mapstructure:"mmap"`
	// Eager reads every payload when a file is opened.
	Eager bool `mapstructure:"eager"`
	// Sync fsyncs files after writing.
	Sync bool `mapstructure:"sync"`

	// Compression of dump output: none, zstd, s2 or lz4.
	Compression string `mapstructure:"compression"`

	// Tolerance is the absolute float tolerance of check.
	Tolerance float64 `mapstructure:"tolerance"`
	// Concurrency is the number of datasets check compares in parallel.
	Concurrency int `mapstructure:"concurrency"`
}

// New returns a viper instance with every default set and environment
// lookup enabled. Callers bind flags to it before calling Load.
func New() *viper.Viper {
	v := viper.New()

	def := logger.DefaultConfig()
	v.SetDefault("log.level", def.Level)
	v.SetDefault("log.encoding", def.Encoding)
	v.SetDefault("log.output_paths", []string{"stderr"})
	v.SetDefault("log.development", false)
	v.SetDefault("mmap", false)
	v.SetDefault("eager", false)
	v.SetDefault("sync", true)
	v.SetDefault("compression", "none")
	v.SetDefault("tolerance", 0.0)
	v.SetDefault("concurrency", 4)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

// Load reads file, when not empty, into v and decodes the merged settings.
func Load(v *viper.Viper, file string) (*Config, error) {
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", file, err)
		}
	}

	cfg := new(Config)
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks value ranges and names.
func (c *Config) Validate() error {
	var errList []error
	if _, ok := format.ParseCompressionType(c.Compression); !ok {
		errList = append(errList, fmt.Errorf("unknown compression %q", c.Compression))
	}
	if c.Tolerance < 0 {
		errList = append(errList, fmt.Errorf("negative tolerance %g", c.Tolerance))
	}
	if c.Concurrency < 1 {
		errList = append(errList, fmt.Errorf("concurrency must be positive, got %d", c.Concurrency))
	}

	return errors.Join(errList...)
}

// CompressionType returns the parsed compression setting.
func (c *Config) CompressionType() format.CompressionType {
	ct, _ := format.ParseCompressionType(c.Compression)
	return ct
}
