package main

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type TranslatorConfig struct {
	Endpoint string `yaml:"endpoint"`
	Key      string `yaml:"key"`
	Region   string `yaml:"region"`
}

type GeocoderConfig struct {
	Endpoint string `yaml:"endpoint"`
}

type Config struct {
	Addr       string           `yaml:"addr"`
	SiteURL    string           `yaml:"site_url"`
	DB         string           `yaml:"db"`
	UploadsDir string           `yaml:"uploads"`
	CacheDir   string           `yaml:"cache"`
	CacheTTL   time.Duration    `yaml:"cache_ttl"`
	Resources  string           `yaml:"resources"`
	Basemaps   string           `yaml:"basemaps"`
	Translator TranslatorConfig `yaml:"translator"`
	Geocoder   GeocoderConfig   `yaml:"geocoder"`
}

func DefaultConfig() *Config {
	return &Config{
		Addr:       ":8080",
		DB:         "geoview.db",
		UploadsDir: "./uploads",
		CacheDir:   "./cache",
		CacheTTL:   time.Hour,
		Resources:  "resources.yml",
		Basemaps:   "basemaps.yml",
	}
}

func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	d, err := os.ReadFile(path)

	if err != nil {
		return nil, err
	}

	if err := yaml.Unmarshal(d, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}
