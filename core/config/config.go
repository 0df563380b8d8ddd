package config

import (
	"reflect"
	"strings"

	"github.com/danass/leha/core/database"
	"github.com/danass/leha/core/logger"
	"github.com/danass/leha/core/server"
	"github.com/danass/leha/core/storage"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// It is divided into partial configurations for better modularity.
type Config struct {
	// Server holds configuration for the HTTP query API.
	Server server.Config `mapstructure:"server"`
	// DB holds configuration for the registry database connection. The
	// section key "db" keeps the original environment contract
	// (DB_USER, DB_PASSWORD, DB_HOST).
	DB database.Config `mapstructure:"db"`
	// Storage holds configuration for snapshot archive retention.
	Storage storage.Config `mapstructure:"storage"`
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
	// Source holds configuration for the upstream snapshot source.
	Source SourceConfig `mapstructure:"source"`
}

// SourceConfig describes where snapshot archives are published.
type SourceConfig struct {
	// DatasetURL is the data.gouv.fr resources listing for the RNCP export
	// dataset.
	DatasetURL string `mapstructure:"dataset_url" default:"https://www.data.gouv.fr/api/2/datasets/5eebbc067a14b6fecc9c9976/resources/?page=1"`
	// ResourceTitle selects the archive flavor from the listing.
	ResourceTitle string `mapstructure:"resource_title" default:"export-fiches-csv"`
	// DownloadDir is where extracted CSV files are kept during a run.
	DownloadDir string `mapstructure:"download_dir" default:"downloads"`
	// TimeoutSeconds bounds the archive download.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"300"`
}

// LoadConfig loads configuration from environment variables and .env file.
func LoadConfig(path string) (*Config, error) {
	// 1. Load .env file if it exists
	// We construct the path to .env
	envPath := path + "/.env"
	if path == "." {
		envPath = ".env"
	}

	// Ignore error if file doesn't exist (e.g. production)
	_ = godotenv.Overload(envPath)

	v := viper.New()

	// Recursively parse struct tags to set default values
	bindValues(v, Config{}, "")

	// Map environment variables to nested keys (e.g. DB_USER -> db.user)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// bindValues uses reflection to iterate over the struct and set default values in Viper
// based on the 'default' and 'mapstructure' tags.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)

	// If it's a pointer, get the element
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")

		// Skip if no tag
		if tag == "" {
			continue
		}

		// Build the key
		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		// If it's a nested struct, recurse
		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}

		defaultValue := field.Tag.Get("default")
		// Always set default (even if empty) to register the key for AutomaticEnv
		v.SetDefault(key, defaultValue)
	}
}
