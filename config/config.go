// Package config loads the harvester's YAML configuration.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultOAIPMHURL is the Kielipankki metadata API harvested when the
// configuration does not name another endpoint.
const DefaultOAIPMHURL = "https://kielipankki.fi/md_api/que"

// Config holds the settings of one harvester deployment.
type Config struct {
	MetaxAPIToken    string `yaml:"metax_api_token"`
	MetaxBaseURL     string `yaml:"metax_base_url"`
	MetaxCatalogID   string `yaml:"metax_catalog_id"`
	HarvesterLogFile string `yaml:"harvester_log_file"`
	MetaxAPILogFile  string `yaml:"metax_api_log_file"`

	// OAIPMHURL is optional; the Kielipankki endpoint is the default.
	OAIPMHURL string `yaml:"oai_pmh_url"`
}

// Load reads and validates the configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading configuration file: %w", err)
	}
	return Parse(data)
}

// Parse validates configuration content. Every mandatory value must be
// present; see config/template.yml for a valid example.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("configuration file does not seem to be in YAML format: %w", err)
	}

	mandatory := map[string]string{
		"metax_api_token":    cfg.MetaxAPIToken,
		"metax_base_url":     cfg.MetaxBaseURL,
		"metax_catalog_id":   cfg.MetaxCatalogID,
		"harvester_log_file": cfg.HarvesterLogFile,
		"metax_api_log_file": cfg.MetaxAPILogFile,
	}
	for key, value := range mandatory {
		if value == "" {
			return nil, fmt.Errorf("value for %q not found in configuration file", key)
		}
	}

	if cfg.OAIPMHURL == "" {
		cfg.OAIPMHURL = DefaultOAIPMHURL
	}
	return &cfg, nil
}
