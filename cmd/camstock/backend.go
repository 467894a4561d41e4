package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/vbonduro/camstock/internal/config"
	"github.com/vbonduro/camstock/internal/db"
	"github.com/vbonduro/camstock/internal/mongostore"
	"github.com/vbonduro/camstock/internal/service"
	"github.com/vbonduro/camstock/internal/store"
)

type backend struct {
	stores service.Stores
	close  func()
}

// openBackend connects to the store selected by DB_DRIVER. For sqlite DB_PATH
// is a file path, for postgres a connection string.
func openBackend(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*backend, error) {
	if cfg.DBDriver == config.DriverMongo {
		return openMongo(ctx, cfg, logger)
	}

	database, err := db.Open(cfg.DBDriver, cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	logger.Info("database ready", "driver", cfg.DBDriver)

	dialect := db.Dialect(cfg.DBDriver)
	return &backend{
		stores: service.Stores{
			Cameras: store.NewCameraStore(database, dialect),
			Flashes: store.NewFlashStore(database, dialect),
			Lenses:  store.NewLensStore(database, dialect),
			Stock:   store.NewStockStore(database, dialect),
		},
		close: func() { closeDB(database, logger) },
	}, nil
}

func openMongo(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*backend, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	mdb, disconnect, err := mongostore.Connect(connectCtx, cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		return nil, err
	}
	txn, err := mongostore.SupportsTransactions(connectCtx, mdb)
	if err != nil {
		_ = disconnect(context.Background())
		return nil, err
	}
	logger.Info("mongodb ready", "database", cfg.MongoDatabase, "transactions", txn)

	opt := mongostore.WithTransactions(txn)
	return &backend{
		stores: service.Stores{
			Cameras: mongostore.NewCameraCollection(mdb, opt),
			Flashes: mongostore.NewFlashCollection(mdb, opt),
			Lenses:  mongostore.NewLensCollection(mdb, opt),
			Stock:   mongostore.NewStockCollection(mdb, opt),
		},
		close: func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := disconnect(ctx); err != nil {
				logger.Error("failed to disconnect from mongodb", "error", err)
			}
		},
	}, nil
}

func closeDB(database *sql.DB, logger *slog.Logger) {
	if err := database.Close(); err != nil {
		logger.Error("failed to close database", "error", err)
	}
}
