// Package config loads and validates the build configuration.
//
// Configuration comes from a YAML file whose content passes through
// os.ExpandEnv before decoding, so values like ${CONTENT_DIR} resolve from
// the process environment. A .env file next to the working directory is
// loaded first (without overriding existing variables).
package config

import (
	"fmt"
	"os"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"
)

// DefaultPageSize is the number of document summaries per page shard when
// build.page_size is not configured.
const DefaultPageSize = 10

// Config is the root configuration for a build.
type Config struct {
	// Source is the directory enumerated for Markdown documents.
	Source string `yaml:"source" json:"source"`
	// Output is the directory the artifact tree is published into.
	Output  string        `yaml:"output" json:"output"`
	Site    SiteConfig    `yaml:"site" json:"site"`
	Build   BuildConfig   `yaml:"build" json:"build"`
	History HistoryConfig `yaml:"history" json:"history"`
}

// SiteConfig carries presentation metadata copied verbatim into the manifest.
type SiteConfig struct {
	Title       string `yaml:"title" json:"title"`
	Subtitle    string `yaml:"subtitle" json:"subtitle"`
	Description string `yaml:"description" json:"description"`
}

// BuildConfig tunes the compile pipeline.
type BuildConfig struct {
	// PageSize is the maximum number of document summaries per page shard.
	PageSize int `yaml:"page_size" json:"page_size"`
	// Parallelism bounds concurrent source parsing; 0 means one worker per CPU.
	Parallelism int `yaml:"parallelism" json:"parallelism"`
	// FailOnEmpty aborts the build when no document survives validation.
	FailOnEmpty bool `yaml:"fail_on_empty" json:"fail_on_empty"`
}

// HistoryConfig locates the build event database. An empty path disables history.
type HistoryConfig struct {
	Path string `yaml:"path" json:"path"`
}

// Default returns a configuration populated with defaults.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Load reads, expands, decodes, defaults and validates the configuration file.
func Load(configPath string) (*Config, error) {
	loadEnvFile()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("configuration file not found: %s", configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Expand environment variables in the YAML content
	expandedData := os.ExpandEnv(string(data))

	var config Config
	if err := yaml.Unmarshal([]byte(expandedData), &config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&config)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &config, nil
}

// applyDefaults fills zero values with working defaults.
func applyDefaults(config *Config) {
	if config.Source == "" {
		config.Source = "content"
	}
	if config.Output == "" {
		config.Output = "public"
	}
	if config.Build.PageSize == 0 {
		config.Build.PageSize = DefaultPageSize
	}
	if config.Build.Parallelism < 0 {
		config.Build.Parallelism = 0
	}
}

// Validate checks structural invariants after defaults have been applied.
func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Source, validation.Required),
		validation.Field(&c.Output, validation.Required, validation.By(func(any) error {
			if c.Output == c.Source {
				return validation.NewError("config.output.distinct", "output must differ from source")
			}
			return nil
		})),
		validation.Field(&c.Build),
	)
}

// Validate enforces pipeline bounds.
func (b BuildConfig) Validate() error {
	return validation.ValidateStruct(&b,
		validation.Field(&b.PageSize, validation.Min(1)),
		validation.Field(&b.Parallelism, validation.Min(0)),
	)
}

// Init writes an example configuration file.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", configPath)
	}

	example := Default()
	example.Site = SiteConfig{Title: "My Site", Subtitle: "", Description: "Compiled content artifacts"}
	example.History.Path = "shardpress-history.db"

	data, err := yaml.Marshal(example)
	if err != nil {
		return fmt.Errorf("marshal example config: %w", err)
	}
	content := append([]byte("# shardpress configuration\n"), data...)
	if err := os.WriteFile(configPath, content, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}
