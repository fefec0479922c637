// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"fmt"

	sqlitestore "github.com/dalemusser/studyhub/internal/app/store/sqlite"
	"github.com/dalemusser/studyhub/internal/app/system/indexes"
	"github.com/dalemusser/studyhub/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// ConnectDB opens the configured store backend.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	switch appCfg.StoreBackend {
	case BackendSQLite:
		st, err := sqlitestore.Open(appCfg.SQLitePath)
		if err != nil {
			return DBDeps{}, err
		}
		logger.Info("connected to SQLite", zap.String("path", appCfg.SQLitePath))
		return DBDeps{Backend: BackendSQLite, SQLite: st}, nil

	case BackendMongo:
		opts := options.Client().
			ApplyURI(appCfg.MongoURI).
			SetMaxPoolSize(appCfg.MongoMaxPoolSize).
			SetMinPoolSize(appCfg.MongoMinPoolSize)

		cctx, cancel := context.WithTimeout(ctx, timeouts.Long())
		defer cancel()

		client, err := mongo.Connect(cctx, opts)
		if err != nil {
			return DBDeps{}, fmt.Errorf("mongo connect: %w", err)
		}
		if err := client.Ping(cctx, readpref.Primary()); err != nil {
			_ = client.Disconnect(context.Background())
			return DBDeps{}, fmt.Errorf("mongo ping: %w", err)
		}
		logger.Info("connected to MongoDB",
			zap.String("database", appCfg.MongoDatabase),
			zap.Uint64("max_pool_size", appCfg.MongoMaxPoolSize))
		return DBDeps{
			Backend:       BackendMongo,
			MongoClient:   client,
			MongoDatabase: client.Database(appCfg.MongoDatabase),
		}, nil
	}
	return DBDeps{}, fmt.Errorf("unknown store_backend %q", appCfg.StoreBackend)
}

// EnsureSchema creates Mongo indexes. The SQLite schema is applied by Open.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if deps.MongoDatabase == nil {
		return nil
	}

	ictx, cancel := context.WithTimeout(ctx, timeouts.Long())
	defer cancel()

	if err := indexes.EnsureAll(ictx, deps.MongoDatabase); err != nil {
		logger.Error("ensure indexes failed", zap.Error(err))
		return err
	}
	logger.Info("mongo indexes ensured")
	return nil
}
