package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
)

// Config holds the bridge daemon settings.
type Config struct {
	ListenAddr string `json:"listen_addr"`
	Channel    string `json:"channel"`
	StagingDir string `json:"staging_dir"`
}

var (
	instance *Config
	once     sync.Once
)

// GetConfig returns the singleton instance of Config.
func GetConfig() *Config {
	once.Do(func() {
		cfg, err := Load(GetFilename())
		if err != nil {
			log.Printf("Error loading config, using defaults: %v", err)
			cfg = Default()
		}
		instance = cfg
	})
	return instance
}

// Default returns a Config populated with default values.
func Default() *Config {
	c := &Config{}
	c.setDefaultValues()
	return c
}

// Load reads the config at filename. A missing file yields the defaults.
func Load(filename string) (*Config, error) {
	c := Default()
	data, err := os.ReadFile(filename)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return c, nil
		}
		return nil, fmt.Errorf("reading config %s: %w", filename, err)
	}

	if err := json.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("decoding config %s: %w", filename, err)
	}
	c.setDefaultValues()
	return c, nil
}

// GetPath returns the path to the user's config directory
func GetPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Fatalf("Error getting user home directory: %v", err)
	}
	return filepath.Join(homeDir, "."+ServiceName)
}

// GetFilename returns the path to the user's config file
func GetFilename() string {
	return filepath.Join(GetPath(), "config.json")
}

// setDefaultValues fills any empty field with its default.
func (c *Config) setDefaultValues() {
	if c.ListenAddr == "" {
		c.ListenAddr = DefaultListenAddr
	}
	if c.Channel == "" {
		c.Channel = DefaultChannel
	}
	if c.StagingDir == "" {
		c.StagingDir = defaultStagingDir()
	}
}

func defaultStagingDir() string {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		cacheDir = os.TempDir()
	}
	return filepath.Join(cacheDir, ServiceName, StagingSubDir)
}

// SaveTo writes the configuration to filename as indented JSON.
func (c *Config) SaveTo(filename string) error {
	if err := os.MkdirAll(filepath.Dir(filename), 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ") // Use indentation for readability
	if err != nil {
		return fmt.Errorf("encoding config data: %w", err)
	}

	return os.WriteFile(filename, data, 0644)
}

// Save saves the current configuration to the user's config file
func (c *Config) Save() error {
	return c.SaveTo(GetFilename())
}
