// Package config provides configuration management for travelrec.
//
// Config file locations (priority order):
//  1. the -config flag
//  2. ./travelrec.yaml
//  3. $XDG_CONFIG_HOME/travelrec/config.yaml
//  4. ~/.config/travelrec/config.yaml
//  5. /etc/travelrec/config.yaml
//
// Store connection parameters for MongoDB may also come from the
// TRAVELREC_MONGO_HOST, TRAVELREC_MONGO_PORT and TRAVELREC_MONGO_DATABASE
// environment variables, which win over the file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment overrides for the MongoDB connection
const (
	EnvMongoHost     = "TRAVELREC_MONGO_HOST"
	EnvMongoPort     = "TRAVELREC_MONGO_PORT"
	EnvMongoDatabase = "TRAVELREC_MONGO_DATABASE"
)

// Defaults
const (
	DefaultMaxRecords    = 100
	DefaultCSVInput      = "travelq.csv"
	DefaultCSVOutput     = "saved_travel_data.csv"
	DefaultSQLitePath    = "./travelrec.db"
	DefaultMongoHost     = "localhost"
	DefaultMongoPort     = 27017
	DefaultMongoDatabase = "CST8333"
	DefaultCollection    = "records"
	DefaultLogLevel      = "warn"
	defaultMongoTimeout  = 5 * time.Second
)

// Load finds and loads the config file, or returns defaults if none found
func Load() (*Config, string, error) {
	path := FindConfigPath()

	if path == "" {
		return DefaultConfig(), "", nil
	}

	return LoadFromPath(path)
}

// LoadFromPath loads config from a specific path
func LoadFromPath(path string) (*Config, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, path, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, path, err
	}

	return &cfg, path, nil
}

// Save writes config to the specified path
func (c *Config) Save(path string) error {
	if err := EnsureConfigDir(path); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0644)
}

// DefaultConfig returns the settings used when no file is found
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// applyDefaults fills in missing values with defaults
func (c *Config) applyDefaults() {
	if c.Version == 0 {
		c.Version = 1
	}

	s := &c.Store
	if s.Kind == "" {
		s.Kind = StoreCSV
	}
	if s.MaxRecords <= 0 {
		s.MaxRecords = DefaultMaxRecords
	}
	if s.CSV.Input == "" {
		s.CSV.Input = DefaultCSVInput
	}
	if s.CSV.Output == "" {
		s.CSV.Output = DefaultCSVOutput
	}
	if s.SQLite.Path == "" {
		s.SQLite.Path = DefaultSQLitePath
	}
	if s.Mongo.Host == "" {
		s.Mongo.Host = DefaultMongoHost
	}
	if s.Mongo.Port == 0 {
		s.Mongo.Port = DefaultMongoPort
	}
	if s.Mongo.Database == "" {
		s.Mongo.Database = DefaultMongoDatabase
	}
	if s.Mongo.Collection == "" {
		s.Mongo.Collection = DefaultCollection
	}
	if s.Mongo.ConnectTimeout == nil {
		d := Duration(defaultMongoTimeout)
		s.Mongo.ConnectTimeout = &d
	}

	if c.Logging.Level == "" {
		c.Logging.Level = DefaultLogLevel
	}
}

// Validate checks values that defaults cannot repair
func (c *Config) Validate() error {
	kind, err := ParseStoreKind(string(c.Store.Kind))
	if err != nil {
		return fmt.Errorf("store.kind: %w", err)
	}
	c.Store.Kind = kind

	if c.Store.Mongo.Port < 1 || c.Store.Mongo.Port > 65535 {
		return fmt.Errorf("store.mongodb.port: %d out of range", c.Store.Mongo.Port)
	}
	return nil
}

// ApplyEnv overlays the MongoDB environment overrides. getenv is usually
// os.Getenv.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if host := getenv(EnvMongoHost); host != "" {
		c.Store.Mongo.Host = host
	}
	if port := getenv(EnvMongoPort); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil || p < 1 || p > 65535 {
			return fmt.Errorf("%s: invalid port %q", EnvMongoPort, port)
		}
		c.Store.Mongo.Port = p
	}
	if db := getenv(EnvMongoDatabase); db != "" {
		c.Store.Mongo.Database = db
	}
	return nil
}

// MongoTimeout returns the connect timeout
func (c *Config) MongoTimeout() time.Duration {
	if c.Store.Mongo.ConnectTimeout == nil {
		return defaultMongoTimeout
	}
	return c.Store.Mongo.ConnectTimeout.Duration()
}

// Summary returns a human-readable config summary
func (c *Config) Summary() string {
	s := c.Store
	summary := fmt.Sprintf("Store: %s, cap %d\n", s.Kind, s.MaxRecords)
	switch s.Kind {
	case StoreCSV:
		summary += fmt.Sprintf("Input: %s, Output: %s", s.CSV.Input, s.CSV.Output)
	case StoreSQLite:
		summary += fmt.Sprintf("Database: %s", s.SQLite.Path)
	case StoreMongoDB:
		if s.Mongo.URI != "" {
			summary += fmt.Sprintf("URI: %s, ", s.Mongo.URI)
		} else {
			summary += fmt.Sprintf("Server: %s:%d, ", s.Mongo.Host, s.Mongo.Port)
		}
		summary += fmt.Sprintf("Namespace: %s.%s", s.Mongo.Database, s.Mongo.Collection)
	}
	return summary
}
