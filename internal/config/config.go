package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// StorageConfig holds the session store backend selection and its
// per-backend settings.
type StorageConfig struct {
	Type   string       `json:"type" mapstructure:"type"`
	File   FileConfig   `json:"file" mapstructure:"file"`
	SQLite SQLiteConfig `json:"sqlite" mapstructure:"sqlite"`
}

// FileConfig holds file storage backend settings
type FileConfig struct {
	Dir string `json:"dir" mapstructure:"dir"`
}

// SQLiteConfig holds sqlite storage backend settings
type SQLiteConfig struct {
	Path string `json:"path" mapstructure:"path"`
}

// AutosaveConfig holds session autosave settings.
type AutosaveConfig struct {
	Enabled bool          `json:"enabled" mapstructure:"enabled"`
	Delay   time.Duration `json:"delay" mapstructure:"delay"`
	Slot    string        `json:"slot" mapstructure:"slot"`
}

// Load reads configuration from JSON file and sets default values.
// configDir is the directory containing the config file.
func Load(configDir string) error {
	// Set default values
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logsDir", "./plannerlogs")

	viper.SetDefault("api.serverUrl", "http://localhost:5000")
	viper.SetDefault("api.apiKey", "")
	viper.SetDefault("api.defaultImageUrl", "")

	viper.SetDefault("autosave.enabled", true)
	viper.SetDefault("autosave.delay", "600ms")
	viper.SetDefault("autosave.slot", "default")

	viper.SetDefault("graph.maxDegree", 4)
	viper.SetDefault("node.maxCount", 50)

	viper.SetDefault("storage.type", "file")
	viper.SetDefault("storage.file.dir", "./sessions")
	viper.SetDefault("storage.sqlite.path", "./sessions/planner.db")

	viper.SetDefault("db.host", "localhost")
	viper.SetDefault("db.port", "5432")
	viper.SetDefault("db.username", "postgres")
	viper.SetDefault("db.password", "postgres")
	viper.SetDefault("db.database", "planner")

	viper.SetDefault("influx.enabled", false)
	viper.SetDefault("influx.host", "localhost")
	viper.SetDefault("influx.port", "8086")
	viper.SetDefault("influx.protocol", "http")
	viper.SetDefault("influx.token", "")
	viper.SetDefault("influx.org", "planner-metrics")

	viper.SetDefault("graylog.enabled", false)
	viper.SetDefault("graylog.address", "localhost:12201")

	viper.SetConfigName("planner.cfg.json")
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	err := viper.ReadInConfig()
	if err != nil {
		return fmt.Errorf("error reading config file: %v", err)
	}

	return nil
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value.
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool config value.
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// GetStorageConfig returns the typed session store configuration.
func GetStorageConfig() StorageConfig {
	return StorageConfig{
		Type: viper.GetString("storage.type"),
		File: FileConfig{
			Dir: viper.GetString("storage.file.dir"),
		},
		SQLite: SQLiteConfig{
			Path: viper.GetString("storage.sqlite.path"),
		},
	}
}

// GetAutosaveConfig returns the typed autosave configuration.
func GetAutosaveConfig() AutosaveConfig {
	return AutosaveConfig{
		Enabled: viper.GetBool("autosave.enabled"),
		Delay:   viper.GetDuration("autosave.delay"),
		Slot:    viper.GetString("autosave.slot"),
	}
}
