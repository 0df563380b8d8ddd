// Package config provides configuration management for the registry service.
//
// It utilizes Viper for loading configuration from environment variables and
// an optional .env file (via godotenv).
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings,
// divided into subsections:
//   - Server: HTTP query API settings (port, API key)
//   - DB: Postgres connection details (DB_USER, DB_PASSWORD, ...)
//   - Storage: snapshot archive retention (S3/MinIO credentials, bucket)
//   - Log: logging level and format
//   - Source: upstream data.gouv.fr dataset listing and download settings
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.DB.Name)
package config
