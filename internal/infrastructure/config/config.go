package config

import (
	"errors"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const defaultDatabaseName = "tdd_store"

type Config struct {
	ProjectName string
	RootPath    string
	Server      ServerConfig
	Database    DatabaseConfig
	OTLP        OTLPConfig
	CORS        CORSConfig
}

type ServerConfig struct {
	Port string
	Host string
}

type DatabaseConfig struct {
	URL     string
	Name    string
	Backend string
	Timeout time.Duration
}

type OTLPConfig struct {
	Enabled     bool
	Endpoint    string
	ServiceName string
	Environment string
}

type CORSConfig struct {
	AllowedOrigins []string
}

// LoadConfig loads configuration from environment variables, then an optional .env file, then defaults
func LoadConfig() (*Config, error) {
	return load(".env")
}

func load(envFile string) (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PROJECT_NAME", "Store API")
	v.SetDefault("ROOT_PATH", "/")
	v.SetDefault("DATABASE_URL", "mongodb://localhost:27017/"+defaultDatabaseName)
	v.SetDefault("DATABASE_TIMEOUT", "10s")
	v.SetDefault("STORE_BACKEND", "mongo")
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("OTEL_ENABLED", true)
	v.SetDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317")
	v.SetDefault("OTEL_SERVICE_NAME", "store-api")
	v.SetDefault("OTEL_ENVIRONMENT", "development")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")

	if envFile != "" {
		v.SetConfigFile(envFile)
		v.SetConfigType("env")
		if err := v.ReadInConfig(); err != nil && !errors.Is(err, os.ErrNotExist) {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, err
			}
		}
	}

	databaseURL := v.GetString("DATABASE_URL")

	return &Config{
		ProjectName: v.GetString("PROJECT_NAME"),
		RootPath:    normalizeRootPath(v.GetString("ROOT_PATH")),
		Server: ServerConfig{
			Host: v.GetString("SERVER_HOST"),
			Port: v.GetString("SERVER_PORT"),
		},
		Database: DatabaseConfig{
			URL:     databaseURL,
			Name:    databaseName(databaseURL),
			Backend: strings.ToLower(v.GetString("STORE_BACKEND")),
			Timeout: v.GetDuration("DATABASE_TIMEOUT"),
		},
		OTLP: OTLPConfig{
			Enabled:     v.GetBool("OTEL_ENABLED"),
			Endpoint:    v.GetString("OTEL_EXPORTER_OTLP_ENDPOINT"),
			ServiceName: v.GetString("OTEL_SERVICE_NAME"),
			Environment: v.GetString("OTEL_ENVIRONMENT"),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		},
	}, nil
}

// databaseName extracts the database from the connection string path
func databaseName(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return defaultDatabaseName
	}
	if name := strings.Trim(u.Path, "/"); name != "" {
		return name
	}
	return defaultDatabaseName
}

func normalizeRootPath(p string) string {
	p = "/" + strings.Trim(p, "/")
	if p == "/" {
		return ""
	}
	return p
}

func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
