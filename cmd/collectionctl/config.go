package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

const (
	configFileName = "config"
	configFileType = "yaml"

	cfgKeyBaseURL = "base_url"
	cfgKeyToken   = "token"

	defaultBaseURL = "http://localhost:3000/api"
)

const defaultConfigYAML = `# collectionctl configuration

# Backend API base URL (overridable by --base-url flag)
base_url: http://localhost:3000/api

# Bearer token (overridable by --token flag or COLLECTIONCTL_TOKEN)
# token:
`

// clientConfig is the resolved configuration handed to every subcommand.
type clientConfig struct {
	BaseURL string
	Token   string
}

// loadConfig reads config.yaml from the config directory using Viper,
// creating the directory and a default config.yaml on first run. A missing
// config file is not an error.
func loadConfig(configDir string) (*viper.Viper, error) {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return nil, fmt.Errorf("collectionctl: ensure config dir: %w", err)
	}
	path := filepath.Join(configDir, configFileName+"."+configFileType)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := os.WriteFile(path, []byte(defaultConfigYAML), 0o644); err != nil {
			return nil, fmt.Errorf("collectionctl: write default config: %w", err)
		}
	}

	v := viper.New()
	v.SetDefault(cfgKeyBaseURL, defaultBaseURL)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)
	v.SetEnvPrefix("collectionctl")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("collectionctl: read config: %w", err)
		}
	}
	return v, nil
}

// resolveConfig merges config file values with flag overrides.
func resolveConfig(configDir, baseURL, token string) (*clientConfig, error) {
	if configDir == "" {
		home, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("collectionctl: resolve config dir: %w", err)
		}
		configDir = filepath.Join(home, "collectionctl")
	}
	v, err := loadConfig(configDir)
	if err != nil {
		return nil, err
	}
	cfg := &clientConfig{
		BaseURL: v.GetString(cfgKeyBaseURL),
		Token:   v.GetString(cfgKeyToken),
	}
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if token != "" {
		cfg.Token = token
	}
	return cfg, nil
}
