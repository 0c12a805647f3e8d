package core

import (
	"fmt"
	"os"

	"github.com/jo-hoe/gorecipes/internal/media"
	"gopkg.in/yaml.v3"
)

const defaultThumbnailWidth = 360

type Database struct {
	Type             string `yaml:"type"`
	ConnectionString string `yaml:"connectionString"`
}

// Cache configures the optional Redis listing cache. An empty address
// disables caching entirely.
type Cache struct {
	Address    string `yaml:"address"`
	TTLSeconds int    `yaml:"ttlSeconds"`
}

type ServiceConfig struct {
	Port           int                   `yaml:"port"`
	Database       Database              `yaml:"database"`
	Cache          Cache                 `yaml:"cache"`
	ThumbnailWidth int                   `yaml:"thumbnailWidth"`
	SeedSampleData bool                  `yaml:"seedSampleData"`
	PhotoPipeline  []media.CommandConfig `yaml:"photoPipeline"`
}

// LoadConfig loads configuration from the specified YAML file
func LoadConfig(configPath string) (*ServiceConfig, error) {
	// Read the config file
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	// Parse YAML
	var config ServiceConfig
	err = yaml.Unmarshal(data, &config)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
	}

	// Validate pipeline steps
	if err := validatePhotoPipeline(config.PhotoPipeline); err != nil {
		return nil, fmt.Errorf("invalid photo pipeline configuration: %w", err)
	}

	if config.ThumbnailWidth <= 0 {
		config.ThumbnailWidth = defaultThumbnailWidth
	}

	return &config, nil
}

// validatePhotoPipeline ensures all pipeline steps have required fields
func validatePhotoPipeline(commands []media.CommandConfig) error {
	seenNames := make(map[string]bool)

	for i, cmd := range commands {
		// Validate name is not empty
		if cmd.Name == "" {
			return fmt.Errorf("pipeline step at index %d has empty name", i)
		}

		// Validate name is unique
		if seenNames[cmd.Name] {
			return fmt.Errorf("duplicate pipeline step name: %s", cmd.Name)
		}
		seenNames[cmd.Name] = true
	}

	return nil
}
