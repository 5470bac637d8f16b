package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"travelrec/internal/config"
	"travelrec/internal/repository"

	"go.uber.org/zap"
)

func TestLoadConfigOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "travelrec.yaml")
	if err := os.WriteFile(path, []byte("store:\n  kind: csv\n  max_records: 10\n"), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv(config.EnvMongoHost, "mongo.test")

	cfg, found, err := loadConfig(path, "sqlite", "debug")
	if err != nil {
		t.Fatalf("loadConfig() error: %v", err)
	}
	if found != path {
		t.Errorf("path = %s, want %s", found, path)
	}
	if cfg.Store.Kind != config.StoreSQLite {
		t.Errorf("Store.Kind = %s, want sqlite", cfg.Store.Kind)
	}
	if cfg.Store.MaxRecords != 10 {
		t.Errorf("MaxRecords = %d, want 10", cfg.Store.MaxRecords)
	}
	if cfg.Store.Mongo.Host != "mongo.test" {
		t.Errorf("Mongo.Host = %s, want mongo.test", cfg.Store.Mongo.Host)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %s, want debug", cfg.Logging.Level)
	}
}

func TestLoadDotenv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte(config.EnvMongoDatabase+"=from_dotenv\n"), 0644); err != nil {
		t.Fatalf("write env: %v", err)
	}
	t.Setenv(config.EnvMongoDatabase, "")
	os.Unsetenv(config.EnvMongoDatabase)

	if err := loadDotenv(path); err != nil {
		t.Fatalf("loadDotenv() error: %v", err)
	}
	if got := os.Getenv(config.EnvMongoDatabase); got != "from_dotenv" {
		t.Errorf("%s = %q, want from_dotenv", config.EnvMongoDatabase, got)
	}

	if err := loadDotenv(filepath.Join(t.TempDir(), "absent.env")); err != nil {
		t.Errorf("missing dotenv file should be ignored, got %v", err)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	if _, _, err := loadConfig(filepath.Join(t.TempDir(), "missing.yaml"), "", ""); err == nil {
		t.Error("expected error for a missing explicit config")
	}

	path := filepath.Join(t.TempDir(), "travelrec.yaml")
	os.WriteFile(path, []byte("version: 1\n"), 0644)
	if _, _, err := loadConfig(path, "oracle", ""); err == nil {
		t.Error("expected error for an unknown store kind")
	}
}

func TestOpenStore(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	tests := []struct {
		name  string
		setup func(cfg *config.Config)
		kind  string
		write bool
	}{
		{
			name: "csv",
			setup: func(cfg *config.Config) {
				cfg.Store.Kind = config.StoreCSV
				cfg.Store.CSV.Input = filepath.Join(dir, "in.csv")
			},
			kind: "csv",
		},
		{
			name: "sqlite",
			setup: func(cfg *config.Config) {
				cfg.Store.Kind = config.StoreSQLite
				cfg.Store.SQLite.Path = filepath.Join(dir, "records.db")
			},
			kind:  "sqlite",
			write: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.DefaultConfig()
			tt.setup(cfg)

			store, err := openStore(ctx, cfg, zap.NewNop())
			if err != nil {
				t.Fatalf("openStore() error: %v", err)
			}
			defer store.Close()

			if store.Kind() != tt.kind {
				t.Errorf("Kind() = %s, want %s", store.Kind(), tt.kind)
			}
			if _, ok := store.(repository.DocumentStore); ok != tt.write {
				t.Errorf("write-through = %v, want %v", ok, tt.write)
			}
		})
	}
}

func TestOpenStoreUnknownKind(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Store.Kind = "tape"
	if _, err := openStore(context.Background(), cfg, zap.NewNop()); err == nil {
		t.Error("expected error for an unknown store kind")
	}
}

func TestWriteConfigFile(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)
	t.Setenv(config.EnvMongoHost, "")
	t.Setenv(config.EnvMongoPort, "")
	t.Setenv(config.EnvMongoDatabase, "")

	path, err := writeConfigFile("", "sqlite", "")
	if err != nil {
		t.Fatalf("writeConfigFile() error: %v", err)
	}
	if want := filepath.Join(xdg, config.ConfigDirName, "config.yaml"); path != want {
		t.Errorf("path = %s, want %s", path, want)
	}

	cfg, _, err := config.LoadFromPath(path)
	if err != nil {
		t.Fatalf("reload written config: %v", err)
	}
	if cfg.Store.Kind != config.StoreSQLite {
		t.Errorf("Store.Kind = %s, want sqlite", cfg.Store.Kind)
	}
	if cfg.Store.MaxRecords != config.DefaultMaxRecords {
		t.Errorf("MaxRecords = %d, want %d", cfg.Store.MaxRecords, config.DefaultMaxRecords)
	}

	// Rewriting an existing file keeps its settings and applies the flags
	explicit := filepath.Join(t.TempDir(), "nested", "travelrec.yaml")
	if err := os.MkdirAll(filepath.Dir(explicit), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(explicit, []byte("store:\n  max_records: 7\n"), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := writeConfigFile(explicit, "", "error"); err != nil {
		t.Fatalf("writeConfigFile() error: %v", err)
	}
	cfg, _, err = config.LoadFromPath(explicit)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if cfg.Store.MaxRecords != 7 || cfg.Logging.Level != "error" {
		t.Errorf("expected max_records 7 and level error, got %d and %s", cfg.Store.MaxRecords, cfg.Logging.Level)
	}

	if _, err := writeConfigFile(filepath.Join(t.TempDir(), "c.yaml"), "redis", ""); err == nil {
		t.Error("expected an unknown store kind to be rejected")
	}
}

func TestBanner(t *testing.T) {
	tests := []struct {
		kind config.StoreKind
		want string
	}{
		{config.StoreCSV, "Store: csv (choose Save to keep changes)"},
		{config.StoreSQLite, "Store: sqlite (changes are written immediately)"},
		{config.StoreMongoDB, "Store: mongodb (changes are written immediately)"},
	}
	for _, tt := range tests {
		if got := banner(tt.kind, string(tt.kind)); got != tt.want {
			t.Errorf("banner(%s) = %q, want %q", tt.kind, got, tt.want)
		}
	}
}
