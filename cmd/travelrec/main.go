package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"

	"travelrec/internal/config"
	"travelrec/internal/console"
	"travelrec/internal/logging"
	"travelrec/internal/service"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "", "config file path (default: search ./travelrec.yaml, XDG, /etc)")
	storeKind := flag.String("store", "", "store kind override: csv, sqlite or mongodb")
	logLevel := flag.String("log-level", "", "log level override: debug, info, warn, error")
	envFile := flag.String("env", ".env", "dotenv file with TRAVELREC_* overrides, ignored when absent")
	writeConfig := flag.Bool("write-config", false, "write the effective config to -config (or the default path) and exit")
	flag.Parse()

	if err := loadDotenv(*envFile); err != nil {
		fmt.Fprintf(os.Stderr, "travelrec: %v\n", err)
		os.Exit(1)
	}
	if *writeConfig {
		path, err := writeConfigFile(*configPath, *storeKind, *logLevel)
		if err != nil {
			fmt.Fprintf(os.Stderr, "travelrec: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("wrote %s\n", path)
		return
	}
	if err := run(*configPath, *storeKind, *logLevel); err != nil {
		fmt.Fprintf(os.Stderr, "travelrec: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, storeKind, logLevel string) error {
	cfg, path, err := loadConfig(configPath, storeKind, logLevel)
	if err != nil {
		return err
	}

	logger, closeLog, err := logging.New(logging.Options{
		Level: cfg.Logging.Level,
		File:  cfg.Logging.File,
	})
	if err != nil {
		return err
	}
	defer closeLog()

	if path != "" {
		logger.Info("loaded config", zap.String("path", path))
	}
	logger.Debug("configuration", zap.String("summary", cfg.Summary()))

	ctx := context.Background()
	store, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to open store", zap.String("kind", string(cfg.Store.Kind)), zap.Error(err))
		return err
	}

	svc := service.New(store, cfg.Store.MaxRecords, logger)
	defer func() {
		if err := svc.Close(); err != nil {
			logger.Warn("failed to close store", zap.Error(err))
		}
	}()

	out, color := console.Stdout()
	c := console.New(svc, os.Stdin, out, console.Options{
		Color:  color,
		Banner: banner(cfg.Store.Kind, store.Kind()),
	}, logger)
	return c.Run(ctx)
}

// banner describes the active store and when changes reach it
func banner(kind config.StoreKind, medium string) string {
	if kind.IsDocumentStore() {
		return fmt.Sprintf("Store: %s (changes are written immediately)", medium)
	}
	return fmt.Sprintf("Store: %s (choose Save to keep changes)", medium)
}

// writeConfigFile saves the effective configuration. Without an explicit
// path the file goes to config.DefaultConfigPath; an existing file there
// is loaded first so its settings are kept.
func writeConfigFile(configPath, storeKind, logLevel string) (string, error) {
	target := configPath
	if target == "" {
		target = config.DefaultConfigPath()
	}

	var (
		cfg *config.Config
		err error
	)
	if _, statErr := os.Stat(target); statErr == nil {
		cfg, _, err = loadConfig(target, storeKind, logLevel)
	} else {
		cfg, err = applyOverrides(config.DefaultConfig(), storeKind, logLevel)
	}
	if err != nil {
		return "", err
	}

	if err := cfg.Save(target); err != nil {
		return "", fmt.Errorf("write config: %w", err)
	}
	return target, nil
}

// loadDotenv exports the variables in path that are not already set. A
// missing file is not an error.
func loadDotenv(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// loadConfig resolves the config file and applies environment and flag
// overrides, in that order
func loadConfig(configPath, storeKind, logLevel string) (*config.Config, string, error) {
	var (
		cfg  *config.Config
		path string
		err  error
	)
	if configPath != "" {
		cfg, path, err = config.LoadFromPath(configPath)
	} else {
		cfg, path, err = config.Load()
	}
	if err != nil {
		return nil, path, err
	}

	cfg, err = applyOverrides(cfg, storeKind, logLevel)
	return cfg, path, err
}

// applyOverrides applies the environment and then the flag values to cfg
func applyOverrides(cfg *config.Config, storeKind, logLevel string) (*config.Config, error) {
	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		return nil, err
	}

	if storeKind != "" {
		kind, err := config.ParseStoreKind(storeKind)
		if err != nil {
			return nil, err
		}
		cfg.Store.Kind = kind
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	return cfg, nil
}
