// Package config loads the gateway configuration from an optional YAML file
// with environment overrides.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config is the full gateway configuration.
type Config struct {
	Listen  string        `yaml:"listen"`
	S3      S3Config      `yaml:"s3"`
	Maven   MavenConfig   `yaml:"maven"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// S3Config selects the backing store endpoint. No credentials live here;
// callers supply them per request.
type S3Config struct {
	Region       string `yaml:"region"`
	Endpoint     string `yaml:"endpoint"`
	UsePathStyle bool   `yaml:"usePathStyle"`
}

// MavenConfig controls the artifact path grammar.
type MavenConfig struct {
	Validate bool `yaml:"validate"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

// Default returns the built-in defaults, tuned for a local MinIO.
func Default() Config {
	return Config{
		Listen: ":8080",
		S3: S3Config{
			Region:       "us-east-1",
			Endpoint:     "http://localhost:9000",
			UsePathStyle: true,
		},
		Maven:   MavenConfig{Validate: true},
		Metrics: MetricsConfig{Enabled: true},
	}
}

// Load builds the configuration: defaults, then the YAML file at path (if
// given), then environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("MVNIO_LISTEN"); v != "" {
		c.Listen = v
	}
	if v := os.Getenv("MVNIO_S3_REGION"); v != "" {
		c.S3.Region = v
	}
	if v := os.Getenv("MVNIO_S3_ENDPOINT"); v != "" {
		c.S3.Endpoint = v
	}
	if v := os.Getenv("MVNIO_S3_PATH_STYLE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("MVNIO_S3_PATH_STYLE: %w", err)
		}
		c.S3.UsePathStyle = b
	}
	if v := os.Getenv("MVNIO_MAVEN_VALIDATE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("MVNIO_MAVEN_VALIDATE: %w", err)
		}
		c.Maven.Validate = b
	}
	return nil
}
