// Package bootstrap wires configuration into a ready predictor.Service.
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/Skufu/symptomdx/internal/artifact"
	"github.com/Skufu/symptomdx/internal/config"
	"github.com/Skufu/symptomdx/internal/predictor"
	"github.com/Skufu/symptomdx/internal/rawrows"
	"github.com/Skufu/symptomdx/internal/training"
)

// App holds the service and the connections it owns.
type App struct {
	Service *predictor.Service
	// DB is nil unless ENABLE_DB is set.
	DB *pgxpool.Pool

	redis *redis.Client
}

func New(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*App, error) {
	app := &App{}

	store, err := app.openStore(ctx, cfg.Artifacts)
	if err != nil {
		app.Close()
		return nil, err
	}

	var rows rawrows.Store
	if cfg.Database.Enabled {
		pool, err := connectDB(ctx, cfg.Database.URL)
		if err != nil {
			app.Close()
			return nil, fmt.Errorf("database connection failed: %w", err)
		}
		app.DB = pool

		pg := rawrows.NewPostgresStore(pool)
		if err := pg.EnsureSchema(ctx); err != nil {
			app.Close()
			return nil, err
		}
		rows = pg
	}

	app.Service = predictor.NewService(predictor.Options{
		DatasetPath: cfg.DatasetPath,
		Store:       store,
		Training: training.Options{
			NoiseFraction: cfg.Training.NoiseFraction,
			NoiseSeed:     cfg.Training.NoiseSeed,
			Folds:         cfg.Training.Folds,
		},
		TopK:   cfg.TopK,
		Rows:   rows,
		Logger: logger,
	})
	return app, nil
}

func (a *App) openStore(ctx context.Context, cfg config.ArtifactConfig) (artifact.Store, error) {
	switch cfg.Backend {
	case config.BackendRedis:
		client, err := artifact.DialRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, err
		}
		a.redis = client
		return artifact.NewRedisStore(client, cfg.RedisKey), nil
	default:
		return artifact.NewFileStore(cfg.Dir)
	}
}

// Close releases the database pool and redis client, if any.
func (a *App) Close() {
	if a.DB != nil {
		a.DB.Close()
	}
	if a.redis != nil {
		_ = a.redis.Close()
	}
}

func connectDB(ctx context.Context, url string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("parse db url: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	return pool, nil
}
