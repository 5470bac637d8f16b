package main

import (
	"context"
	"fmt"

	"travelrec/internal/config"
	"travelrec/internal/repository"
	"travelrec/internal/repository/flatfile"
	"travelrec/internal/repository/mongodb"
	"travelrec/internal/repository/sqlite"

	"go.uber.org/zap"
)

// openStore builds the store selected by cfg.Store.Kind
func openStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (repository.Store, error) {
	s := cfg.Store

	switch s.Kind {
	case config.StoreCSV:
		return flatfile.New(flatfile.Options{
			InputPath:  s.CSV.Input,
			OutputPath: s.CSV.Output,
			MaxRecords: s.MaxRecords,
		}, logger), nil

	case config.StoreSQLite:
		store, err := sqlite.New(s.SQLite.Path, s.MaxRecords, logger)
		if err != nil {
			return nil, err
		}
		return store, nil

	case config.StoreMongoDB:
		store, err := mongodb.Connect(ctx, mongodb.Options{
			URI:            s.Mongo.URI,
			Host:           s.Mongo.Host,
			Port:           s.Mongo.Port,
			Database:       s.Mongo.Database,
			Collection:     s.Mongo.Collection,
			ConnectTimeout: cfg.MongoTimeout(),
			MaxRecords:     s.MaxRecords,
		}, logger)
		if err != nil {
			return nil, err
		}
		return store, nil

	default:
		return nil, fmt.Errorf("unsupported store kind %q", s.Kind)
	}
}
