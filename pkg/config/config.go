package config

import (
	"os"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Database  string   `yaml:"database"`
	Manifests []string `yaml:"manifests"`
	Workers   int      `yaml:"workers"`
	Output    string   `yaml:"-"`
	Ignore    Ignore   `yaml:"ignore"`
}

type Ignore struct {
	Advisories []string `yaml:"advisories"`
	Packages   []string `yaml:"packages"`
}

func Default() *Config {
	return &Config{
		Workers: 4,
		Output:  "table",
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func MergeFlags(cfg *Config, flags *pflag.FlagSet) *Config {
	if v, err := flags.GetString("db"); err == nil && v != "" {
		cfg.Database = v
	}
	if v, err := flags.GetStringSlice("manifest"); err == nil && len(v) > 0 {
		cfg.Manifests = v
	}
	if v, err := flags.GetInt("workers"); err == nil && v > 0 {
		cfg.Workers = v
	}
	if v, err := flags.GetString("output"); err == nil && v != "" {
		cfg.Output = v
	}
	if v, err := flags.GetStringSlice("ignore"); err == nil && len(v) > 0 {
		cfg.Ignore.Advisories = append(cfg.Ignore.Advisories, v...)
	}
	return cfg
}
