// main.go
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"movie-catalog/cmd"
	"movie-catalog/internal/data/repository"
	"movie-catalog/internal/wire"
	"movie-catalog/pkg/database"
	"movie-catalog/pkg/tracing"
	"movie-catalog/pkg/utils"

	"go.uber.org/zap"
)

func main() {
	// Load config
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App.LogPath, config.App.Name, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.String("driver", config.Database.Driver),
		zap.Bool("debug", config.App.Debug),
		zap.Bool("strict_schema", config.App.StrictSchema),
	)

	shutdownTracing, err := tracing.Setup(config.App.TracingEnabled, config.App.Name, os.Stdout)
	if err != nil {
		logger.Fatal("Failed to set up tracing", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(ctx); err != nil {
			logger.Warn("Failed to flush traces", zap.Error(err))
		}
	}()

	// Connect to the store
	repos, closeStore, err := openRepository(config, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer closeStore()

	logger.Info("Database connected successfully", zap.String("driver", config.Database.Driver))

	// Wire all dependencies
	app := wire.Wiring(repos, config, logger)

	if err := cmd.APIServer(app.Handler, config.App.Port, logger); err != nil {
		logger.Error("Server error", zap.Error(err))
	}
}

// openRepository connects the configured driver and returns its repositories
// with a function releasing the connection.
func openRepository(config *utils.Config, logger *zap.Logger) (*repository.Repository, func(), error) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	switch config.Database.Driver {
	case utils.DriverMongo:
		mongo, err := database.InitMongo(ctx, config.Mongo)
		if err != nil {
			return nil, nil, err
		}
		closeFn := func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := mongo.Close(ctx); err != nil {
				logger.Warn("Failed to disconnect mongo", zap.Error(err))
			}
		}

		coll := mongo.Database.Collection(config.Mongo.Collection)
		if err := repository.EnsureMongoIndexes(ctx, coll); err != nil {
			closeFn()
			return nil, nil, err
		}

		return repository.NewMongoRepository(mongo.Database, config.Mongo.Collection, logger), closeFn, nil

	case utils.DriverPostgres:
		db, err := database.InitDB(config.Database)
		if err != nil {
			return nil, nil, err
		}

		if err := repository.EnsurePostgresSchema(ctx, db); err != nil {
			db.Close()
			return nil, nil, err
		}

		return repository.NewPostgresRepository(db, logger), db.Close, nil

	case utils.DriverMemory:
		logger.Warn("Using in-memory store, data is lost on restart")
		return repository.NewMemoryRepository(logger), func() {}, nil

	default:
		return nil, nil, fmt.Errorf("unknown DB_DRIVER %q", config.Database.Driver)
	}
}
