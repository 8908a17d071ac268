package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	ClientID      string `json:"client_id"       yaml:"client_id"`
	CountryCode   string `json:"country_code"    yaml:"country_code"`
	Locale        string `json:"locale"          yaml:"locale"`
	DeviceType    string `json:"device_type"     yaml:"device_type"`
	Limit         int    `json:"limit"           yaml:"limit"`
	Quality       string `json:"quality"         yaml:"quality"`
	TokenFilePath string `json:"token_file_path" yaml:"token_file_path"`
}

func (cfg *Config) validate() error {
	if cfg.ClientID == "" {
		return errors.New("client id is empty")
	}

	switch cfg.Quality {
	case "", "LOW", "HIGH", "LOSSLESS":
	default:
		return fmt.Errorf("unknown quality %q", cfg.Quality)
	}

	if cfg.Limit < 0 {
		return fmt.Errorf("limit must not be negative, got %d", cfg.Limit)
	}

	return nil
}

func (cfg *Config) applyDefaults() {
	if cfg.CountryCode == "" {
		cfg.CountryCode = "US"
	}
	if cfg.Locale == "" {
		cfg.Locale = "en_US"
	}
	if cfg.DeviceType == "" {
		cfg.DeviceType = "BROWSER"
	}
	if cfg.Limit == 0 {
		cfg.Limit = 50
	}
	if cfg.Quality == "" {
		cfg.Quality = "HIGH"
	}
	if cfg.TokenFilePath == "" {
		cfg.TokenFilePath = "token.json"
	}
}

func FromFile(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if nil != err {
		return nil, fmt.Errorf("failed to read config file %q: %v", filePath, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); nil != err {
		return nil, fmt.Errorf("failed to unmarshal config file %q: %v", filePath, err)
	}

	if err := cfg.validate(); nil != err {
		return nil, fmt.Errorf("validation failed: %v", err)
	}
	cfg.applyDefaults()

	return &cfg, nil
}

func FromString(data string) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal([]byte(data), &cfg); nil != err {
		return nil, fmt.Errorf("failed to unmarshal config: %v", err)
	}

	if err := cfg.validate(); nil != err {
		return nil, fmt.Errorf("validation failed: %v", err)
	}
	cfg.applyDefaults()

	return &cfg, nil
}
