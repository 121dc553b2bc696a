package utils

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Mongo    MongoConfig
}

type AppConfig struct {
	Name           string
	Port           string
	Debug          bool
	LogPath        string
	StrictSchema   bool
	RequestTimeout time.Duration
	CORSOrigins    []string
	MetricsEnabled bool
	TracingEnabled bool
}

// DatabaseConfig selects the store driver. Host..MaxConns only apply to postgres.
type DatabaseConfig struct {
	Driver   string
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	MaxConns int32
}

type MongoConfig struct {
	URI        string
	Database   string
	Collection string
	Timeout    time.Duration
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	// Set defaults
	viper.SetDefault("APP_NAME", "movie-catalog")
	viper.SetDefault("PORT", "3000")
	viper.SetDefault("DEBUG", false)
	viper.SetDefault("LOG_PATH", "logs/")
	viper.SetDefault("STRICT_SCHEMA", false)
	viper.SetDefault("REQUEST_TIMEOUT", "10s")
	viper.SetDefault("CORS_ORIGINS", "*")
	viper.SetDefault("METRICS_ENABLED", true)
	viper.SetDefault("TRACING_ENABLED", false)
	viper.SetDefault("DB_DRIVER", DriverMongo)
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	viper.SetDefault("MONGO_DB", "movies")
	viper.SetDefault("MONGO_COLLECTION", "movies")
	viper.SetDefault("MONGO_TIMEOUT", "10s")

	// .env is optional, the environment alone is enough in containers
	if err := viper.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	viper.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:           viper.GetString("APP_NAME"),
			Port:           viper.GetString("PORT"),
			Debug:          viper.GetBool("DEBUG"),
			LogPath:        viper.GetString("LOG_PATH"),
			StrictSchema:   viper.GetBool("STRICT_SCHEMA"),
			RequestTimeout: viper.GetDuration("REQUEST_TIMEOUT"),
			CORSOrigins:    splitList(viper.GetString("CORS_ORIGINS")),
			MetricsEnabled: viper.GetBool("METRICS_ENABLED"),
			TracingEnabled: viper.GetBool("TRACING_ENABLED"),
		},
		Database: DatabaseConfig{
			Driver:   strings.ToLower(viper.GetString("DB_DRIVER")),
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASS"),
			MaxConns: viper.GetInt32("DB_MAX_CONNS"),
		},
		Mongo: MongoConfig{
			URI:        viper.GetString("MONGO_URI"),
			Database:   viper.GetString("MONGO_DB"),
			Collection: viper.GetString("MONGO_COLLECTION"),
			Timeout:    viper.GetDuration("MONGO_TIMEOUT"),
		},
	}

	return config, nil
}

func splitList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
