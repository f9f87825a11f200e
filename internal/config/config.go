// Package config loads the batch definition used by "datagen run".
package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"pkg.jsn.cam/datagen/pkg/dataset"
	"pkg.jsn.cam/datagen/pkg/kinds"
)

// EnvPrefix prefixes environment overrides, e.g. DATAGEN_SEED.
const EnvPrefix = "DATAGEN"

// DefaultDir is the directory outputs are written under.
const DefaultDir = "data"

// Config is a batch of datasets to generate.
type Config struct {
	// Seed makes runs reproducible. Zero picks a random seed per run.
	Seed     int64     `mapstructure:"seed"`
	Dir      string    `mapstructure:"dir" validate:"required"`
	Atomic   bool      `mapstructure:"atomic"`
	MakeDirs bool      `mapstructure:"mkdir"`
	Datasets []Dataset `mapstructure:"datasets" validate:"dive"`
}

// Dataset is one entry of the batch. Empty fields fall back to the kind defaults.
type Dataset struct {
	Kind     string `mapstructure:"kind" validate:"required"`
	Count    *int   `mapstructure:"count" validate:"omitempty,gte=0"`
	Output   string `mapstructure:"output"`
	Format   string `mapstructure:"format" validate:"omitempty,oneof=array lines bolt"`
	Compress string `mapstructure:"compress" validate:"omitempty,oneof=none gzip zstd"`
}

// Default reproduces the four datasets of the original generator scripts.
func Default() Config {
	cfg := Config{Dir: DefaultDir, Atomic: true}
	for _, name := range []string{"blog", "product", "access-log", "app-log"} {
		cfg.Datasets = append(cfg.Datasets, Dataset{Kind: name})
	}
	return cfg
}

// Load reads the YAML (or JSON/TOML) file at path and applies DATAGEN_*
// environment overrides. An empty path loads the defaults. A file without a
// datasets list generates the default datasets.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	def := Default()
	v.SetDefault("seed", def.Seed)
	v.SetDefault("dir", def.Dir)
	v.SetDefault("atomic", def.Atomic)
	v.SetDefault("mkdir", def.MakeDirs)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("%w: read config %s: %w", dataset.ErrIOFailure, path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("%w: decode config: %w", dataset.ErrInvalidArgument, err)
	}
	if len(cfg.Datasets) == 0 {
		cfg.Datasets = def.Datasets
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

var validate = validator.New()

// Validate checks field constraints and that every kind is registered.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: config: %w", dataset.ErrInvalidArgument, err)
	}
	for i, d := range c.Datasets {
		if _, err := kinds.Get(d.Kind); err != nil {
			return fmt.Errorf("%w: datasets[%d]: %w", dataset.ErrInvalidArgument, i, err)
		}
	}
	return nil
}
