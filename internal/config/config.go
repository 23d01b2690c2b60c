// Package config provides application configuration loaded from environment variables,
// optionally layered over a YAML file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Server ServerConfig `yaml:"server"`
	API    APIConfig    `yaml:"api"`
	App    AppConfig    `yaml:"app"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string `yaml:"port"`
	ReadTimeout  int    `yaml:"read_timeout"`  // seconds
	WriteTimeout int    `yaml:"write_timeout"` // seconds
	IdleTimeout  int    `yaml:"idle_timeout"`  // seconds
}

// APIConfig points at the remote proforma backend.
type APIConfig struct {
	GraphQLURL     string `yaml:"graphql_url"`
	DocumentBase   string `yaml:"document_base"`
	Timeout        int    `yaml:"timeout"`          // seconds, 0 = no client timeout
	SearchCacheTTL int    `yaml:"search_cache_ttl"` // seconds, 0 disables caching
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Name     string `yaml:"name"`
	Version  string `yaml:"version"`
	Dev      bool   `yaml:"dev"`
	LogLevel string `yaml:"log_level"`
}

// TimeoutDuration is the HTTP client timeout for backend calls.
func (a APIConfig) TimeoutDuration() time.Duration {
	return time.Duration(a.Timeout) * time.Second
}

// CacheTTL is how long client-search results are reused.
func (a APIConfig) CacheTTL() time.Duration {
	return time.Duration(a.SearchCacheTTL) * time.Second
}

// Addr returns the listen address for the HTTP server.
func (s ServerConfig) Addr() string {
	return ":" + s.Port
}

// Defaults returns the configuration used for local development against
// a backend on 127.0.0.1:8000.
func Defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         "8080",
			ReadTimeout:  15,
			WriteTimeout: 15,
			IdleTimeout:  60,
		},
		API: APIConfig{
			GraphQLURL:     "http://127.0.0.1:8000/graphql/",
			DocumentBase:   "http://127.0.0.1:8000",
			Timeout:        0,
			SearchCacheTTL: 30,
		},
		App: AppConfig{
			Name:     "Taller Metalúrgico Vallegrande",
			Version:  "1.0",
			Dev:      false,
			LogLevel: "info",
		},
	}
}

// Load reads configuration from environment variables over the defaults.
func Load() *Config {
	cfg := Defaults()
	applyEnv(cfg)
	return cfg
}

// LoadFile reads a YAML file over the defaults, then applies environment variables.
// Precedence: env var > YAML file > default.
func LoadFile(path string) (*Config, error) {
	cfg := Defaults()
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	applyEnv(cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.Server.Port = getEnv("PORT", cfg.Server.Port)
	cfg.Server.ReadTimeout = getEnvInt("SERVER_READ_TIMEOUT", cfg.Server.ReadTimeout)
	cfg.Server.WriteTimeout = getEnvInt("SERVER_WRITE_TIMEOUT", cfg.Server.WriteTimeout)
	cfg.Server.IdleTimeout = getEnvInt("SERVER_IDLE_TIMEOUT", cfg.Server.IdleTimeout)

	cfg.API.GraphQLURL = getEnv("API_GRAPHQL_URL", cfg.API.GraphQLURL)
	cfg.API.DocumentBase = strings.TrimRight(getEnv("API_DOCUMENT_BASE", cfg.API.DocumentBase), "/")
	cfg.API.Timeout = getEnvInt("API_TIMEOUT", cfg.API.Timeout)
	cfg.API.SearchCacheTTL = getEnvInt("API_SEARCH_CACHE_TTL", cfg.API.SearchCacheTTL)

	cfg.App.Name = getEnv("APP_NAME", cfg.App.Name)
	cfg.App.Version = getEnv("APP_VERSION", cfg.App.Version)
	cfg.App.Dev = getEnvBool("DEV", cfg.App.Dev)
	cfg.App.LogLevel = getEnv("LOG_LEVEL", cfg.App.LogLevel)
}

// getEnv returns the value of an environment variable or a default.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns the integer value of an environment variable or a default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

// getEnvBool returns the boolean value of an environment variable or a default.
// Accepts "1", "true", "yes" as true; everything else is false.
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "1" || value == "true" || value == "yes"
}
