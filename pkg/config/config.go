package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// envKeyReplacer maps config keys like hub.endpoint to ZOOMAKER_HUB_ENDPOINT.
var envKeyReplacer = strings.NewReplacer(".", "_")

// Config holds all configuration for zoomaker
type Config struct {
	Manifest ManifestConfig `mapstructure:"manifest"`
	Hub      HubConfig      `mapstructure:"hub"`
	Download DownloadConfig `mapstructure:"download"`
	Install  InstallConfig  `mapstructure:"install"`
}

// ManifestConfig holds manifest loading options
type ManifestConfig struct {
	File string `mapstructure:"file"` // default manifest filename
}

// HubConfig holds model-hub client options
type HubConfig struct {
	Endpoint string `mapstructure:"endpoint"`
	Token    string `mapstructure:"token"`
}

// DownloadConfig holds generic download options
type DownloadConfig struct {
	UserAgent string `mapstructure:"user_agent"`
}

// InstallConfig holds orchestrator options
type InstallConfig struct {
	NoSymlinks bool `mapstructure:"no_symlinks"`
	Jobs       int  `mapstructure:"jobs"`
}

var defaultConfig = Config{
	Manifest: ManifestConfig{
		File: "zoo.yaml",
	},
	Hub: HubConfig{
		Endpoint: "https://huggingface.co",
	},
	Download: DownloadConfig{
		UserAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.134 Safari/538.36",
	},
	Install: InstallConfig{
		NoSymlinks: false,
		Jobs:       1,
	},
}

// LoadConfig loads configuration from defaults, an optional .zoomaker.yaml in the
// working directory, and ZOOMAKER_* environment variables, in ascending precedence.
func LoadConfig() (*Config, error) {
	v := viper.New()

	v.SetDefault("manifest.file", defaultConfig.Manifest.File)
	v.SetDefault("hub.endpoint", defaultConfig.Hub.Endpoint)
	v.SetDefault("hub.token", defaultConfig.Hub.Token)
	v.SetDefault("download.user_agent", defaultConfig.Download.UserAgent)
	v.SetDefault("install.no_symlinks", defaultConfig.Install.NoSymlinks)
	v.SetDefault("install.jobs", defaultConfig.Install.Jobs)

	v.SetConfigName(".zoomaker")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("ZOOMAKER")
	v.SetEnvKeyReplacer(envKeyReplacer)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	// The hub respects the conventional HF_* variables as a fallback.
	if cfg.Hub.Token == "" {
		cfg.Hub.Token = hubTokenFromEnv()
	}
	if ep := os.Getenv("HF_ENDPOINT"); ep != "" {
		cfg.Hub.Endpoint = ep
	}

	return &cfg, nil
}

func hubTokenFromEnv() string {
	if token := os.Getenv("HF_TOKEN"); token != "" {
		return token
	}
	return os.Getenv("HUGGING_FACE_HUB_TOKEN")
}

// GetZoomakerHome returns the zoomaker home directory
func GetZoomakerHome() (string, error) {
	// Check environment variable first
	if home := os.Getenv("ZOOMAKER_HOME"); home != "" {
		return home, nil
	}

	// Use standard dev tool convention: ~/.zoomaker
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %v", err)
	}

	return filepath.Join(homeDir, ".zoomaker"), nil
}

// EnsureZoomakerHome creates the zoomaker home directory if it doesn't exist
func EnsureZoomakerHome() (string, error) {
	homeDir, err := GetZoomakerHome()
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(homeDir, 0750); err != nil {
		return "", fmt.Errorf("failed to create zoomaker home directory: %v", err)
	}

	return homeDir, nil
}
