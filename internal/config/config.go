// Package config holds the user-authored tracker configuration: which stats
// exist, which info-box widgets are enabled, and which relationship statuses
// are legal. The pipeline is pure with respect to this configuration; it is
// passed in explicitly rather than read from a global.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds all tracknerd configuration.
type Config struct {
	UserStats  UserStatsConfig  `yaml:"user_stats"`
	InfoBox    InfoBoxConfig    `yaml:"info_box"`
	Characters CharactersConfig `yaml:"characters"`
	Defaults   DefaultsConfig   `yaml:"defaults"`
}

// StatDef declares one tracked stat. Name is free text chosen by the user;
// the wire key is derived from it (see normalize.ToKey). Max of 0 means the
// conventional 0-100 range.
type StatDef struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
	Max  int    `yaml:"max,omitempty"`
}

// UserStatsConfig configures the user-stats tracker.
type UserStatsConfig struct {
	Stats        []StatDef `yaml:"stats"`
	StatusFields []string  `yaml:"status_fields"`
	MoodEnabled  bool      `yaml:"mood_enabled"`
}

// InfoBoxConfig enables individual info-box widgets. A disabled widget is
// absent from the canonical record even when the model reports it.
type InfoBoxConfig struct {
	Date         bool `yaml:"date"`
	Weather      bool `yaml:"weather"`
	Temperature  bool `yaml:"temperature"`
	Time         bool `yaml:"time"`
	Location     bool `yaml:"location"`
	RecentEvents bool `yaml:"recent_events"`
}

// CharactersConfig configures the present-characters tracker.
type CharactersConfig struct {
	RelationshipStatuses []string `yaml:"relationship_statuses"`
}

// DefaultsConfig holds the fallback constants for numeric coercion when the
// model omits a field under every accepted alias.
type DefaultsConfig struct {
	TimeMinutes int `yaml:"time_minutes"`
	Energy      int `yaml:"energy"`
	Money       int `yaml:"money"`
	HP          int `yaml:"hp"`
}

// Default returns the stock configuration.
func Default() *Config {
	return &Config{
		UserStats: UserStatsConfig{
			Stats: []StatDef{
				{ID: "hp", Name: "HP"},
				{ID: "energy", Name: "Energy"},
				{ID: "hunger", Name: "Hunger"},
			},
			StatusFields: []string{"Condition", "Location"},
			MoodEnabled:  true,
		},
		InfoBox: InfoBoxConfig{
			Date:         true,
			Weather:      true,
			Temperature:  true,
			Time:         true,
			Location:     true,
			RecentEvents: true,
		},
		Characters: CharactersConfig{
			RelationshipStatuses: []string{
				"stranger", "acquaintance", "friend", "close friend",
				"romantic interest", "partner", "rival", "enemy",
			},
		},
		Defaults: DefaultsConfig{
			TimeMinutes: 30,
			Energy:      100,
			Money:       0,
			HP:          100,
		},
	}
}

// Load reads a YAML config file layered over the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// RelationshipAllowed reports whether status is in the configured enum.
func (c *Config) RelationshipAllowed(status string) bool {
	for _, s := range c.Characters.RelationshipStatuses {
		if s == status {
			return true
		}
	}
	return false
}
