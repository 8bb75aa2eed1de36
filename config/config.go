// Package config holds the configuration of the chartable command.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	fs "github.com/ungerik/go-fs"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/domonda/go-chartable"
)

// EnvPrefix of environment variables overriding the configuration.
const EnvPrefix = "CHARTABLE_"

// Config of the chartable command.
type Config struct {
	Addr         string        `yaml:"addr"`
	LogLevel     string        `yaml:"log_level"`
	LogFormat    string        `yaml:"log_format"`
	Title        string        `yaml:"title"`
	VizzuURL     string        `yaml:"vizzu_url"`
	Duration     time.Duration `yaml:"duration"`
	StreamBuffer int           `yaml:"stream_buffer"`

	ColumnTypes chartable.ColumnTypes `yaml:"column_types"`
	Chart       map[string]any        `yaml:"chart"`
	Style       map[string]any        `yaml:"style"`
	Animation   map[string]any        `yaml:"animation"`

	// Encodings tried when reading CSV files
	CSVEncodings []string `yaml:"csv_encodings"`
}

// Default returns the configuration used
// for values missing in files and environment.
func Default() *Config {
	return &Config{
		Addr:         "localhost:8080",
		LogLevel:     "info",
		LogFormat:    "console",
		Title:        "Chart",
		Duration:     500 * time.Millisecond,
		StreamBuffer: 16,
	}
}

// Load returns the Default configuration overwritten
// by the YAML file if not nil and by CHARTABLE_* environment variables.
func Load(file fs.FileReader) (*Config, error) {
	cfg := Default()
	if file != nil {
		data, err := file.ReadAll()
		if err != nil {
			return nil, fmt.Errorf("config file: %w", err)
		}
		if err := cfg.decode(data); err != nil {
			return nil, fmt.Errorf("config file %s: %w", file.Name(), err)
		}
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) decode(data []byte) error {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	err := decoder.Decode(c)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	for name, dst := range map[string]*string{
		"ADDR":       &c.Addr,
		"LOG_LEVEL":  &c.LogLevel,
		"LOG_FORMAT": &c.LogFormat,
		"TITLE":      &c.Title,
		"VIZZU_URL":  &c.VizzuURL,
	} {
		if v, ok := lookup(EnvPrefix + name); ok && v != "" {
			*dst = v
		}
	}
	if v, ok := lookup(EnvPrefix + "DURATION"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%sDURATION: %w", EnvPrefix, err)
		}
		c.Duration = d
	}
	if v, ok := lookup(EnvPrefix + "STREAM_BUFFER"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%sSTREAM_BUFFER: %w", EnvPrefix, err)
		}
		c.StreamBuffer = n
	}
	return nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.Addr == "" {
		errs = append(errs, errors.New("missing addr"))
	}
	if _, err := zap.ParseAtomicLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	if c.LogFormat != "console" && c.LogFormat != "json" {
		errs = append(errs, fmt.Errorf("invalid log_format %q, must be console or json", c.LogFormat))
	}
	if c.Duration < 0 {
		errs = append(errs, fmt.Errorf("negative duration %s", c.Duration))
	}
	if c.StreamBuffer < 1 {
		errs = append(errs, fmt.Errorf("stream_buffer must be positive, got %d", c.StreamBuffer))
	}
	if err := c.ColumnTypes.Validate(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// NewLogger returns a zap logger for the configured level and format.
func (c *Config) NewLogger() (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(c.LogLevel)
	if err != nil {
		return nil, err
	}
	var zc zap.Config
	if c.LogFormat == "json" {
		zc = zap.NewProductionConfig()
	} else {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = level
	return zc.Build()
}
