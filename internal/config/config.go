package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config holds the server and engine configuration.
type Config struct {
	ServerAddr string       `mapstructure:"SERVER_ADDR"`
	GinMode    string       `mapstructure:"GIN_MODE"`
	DBPath     string       `mapstructure:"DB_PATH"`
	MaxCourses int          `mapstructure:"MAX_COURSES"`
	Rerank     bool         `mapstructure:"RERANK"`
	Search     SearchConfig `mapstructure:"SEARCH"`
}

// SearchConfig tunes the similarity search.
type SearchConfig struct {
	NeighborsPerWeakness int `mapstructure:"NEIGHBORS_PER_WEAKNESS"`
}

// Load reads examlens.yaml from the current directory, then overrides with
// EXAMLENS_* environment variables. A missing config file is fine; defaults
// fill the gaps.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("examlens")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetDefault("SERVER_ADDR", ":8080")
	v.SetDefault("GIN_MODE", "release")
	v.SetDefault("DB_PATH", "")
	v.SetDefault("MAX_COURSES", 5)
	v.SetDefault("RERANK", false)
	v.SetDefault("SEARCH.NEIGHBORS_PER_WEAKNESS", 5)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	v.SetEnvPrefix("EXAMLENS")
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &cfg, nil
}
