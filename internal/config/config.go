package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

type PrometheusCfg struct {
	Port int `yaml:"port" json:"port"` // 0 disables the /metrics server
}

type LoggingCfg struct {
	File string `yaml:"file" json:"file"` // empty disables the run log
}

type Config struct {
	QueueSize     int           `yaml:"queue_size" json:"queue_size"`
	SortThreshold int           `yaml:"sort_threshold" json:"sort_threshold"`
	DatabasePath  string        `yaml:"database_path" json:"database_path"` // empty disables deletion history
	Prometheus    PrometheusCfg `yaml:"prometheus" json:"prometheus"`
	Logging       LoggingCfg    `yaml:"logging" json:"logging"`
}

const (
	defaultQueueSize     = 1_000_000
	defaultSortThreshold = 5000
)

var (
	errNegativeQueueSize = errors.New("queue_size cannot be negative")
	errNegativeThreshold = errors.New("sort_threshold cannot be negative")
	errInvalidPort       = errors.New("prometheus port out of range")
)

// Default returns the configuration used when no config file is given.
func Default() *Config {
	cfg := &Config{}
	_ = cfg.validateAndDefault()
	return cfg
}

func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	cfg, err := decode(f)
	if err != nil {
		return nil, err
	}
	if err := cfg.validateAndDefault(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decode(r io.Reader) (*Config, error) {
	cfg := &Config{}
	decoder := yaml.NewDecoder(r)
	if err := decoder.Decode(cfg); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	return cfg, nil
}

func (c *Config) validateAndDefault() error {
	if c.QueueSize < 0 {
		return errNegativeQueueSize
	}
	if c.SortThreshold < 0 {
		return errNegativeThreshold
	}
	if c.Prometheus.Port < 0 || c.Prometheus.Port > 65535 {
		return errInvalidPort
	}

	if c.QueueSize == 0 {
		c.QueueSize = defaultQueueSize
	}
	if c.SortThreshold == 0 {
		c.SortThreshold = defaultSortThreshold
	}
	return nil
}

func (c *Config) PrometheusAddress() string {
	return fmt.Sprintf(":%d", c.Prometheus.Port)
}
