package config

import (
	"time"
)

// Config is the root configuration structure
type Config struct {
	Version int           `yaml:"version"`
	Store   StoreConfig   `yaml:"store"`
	Logging LoggingConfig `yaml:"logging"`
}

// StoreConfig selects and configures the backing store
type StoreConfig struct {
	Kind       StoreKind    `yaml:"kind"`        // csv, sqlite or mongodb
	MaxRecords int          `yaml:"max_records"` // cap applied on load
	CSV        CSVConfig    `yaml:"csv"`
	SQLite     SQLiteConfig `yaml:"sqlite"`
	Mongo      MongoConfig  `yaml:"mongodb"`
}

// CSVConfig holds flat file paths. The extension of each path picks the
// codec: .json and .yaml/.yml are accepted alongside .csv.
type CSVConfig struct {
	Input  string `yaml:"input"`
	Output string `yaml:"output"`
}

// SQLiteConfig holds embedded database settings
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// MongoConfig holds connection parameters. URI overrides host and port.
type MongoConfig struct {
	URI            string    `yaml:"uri,omitempty"`
	Host           string    `yaml:"host"`
	Port           int       `yaml:"port"`
	Database       string    `yaml:"database"`
	Collection     string    `yaml:"collection"`
	ConnectTimeout *Duration `yaml:"connect_timeout,omitempty"`
}

// LoggingConfig holds log settings
type LoggingConfig struct {
	Level string `yaml:"level"`          // debug, info, warn, error
	File  string `yaml:"file,omitempty"` // JSON log file, teed with stderr
}

// Duration wraps time.Duration for YAML unmarshaling
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler
func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Duration returns the underlying time.Duration
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}
