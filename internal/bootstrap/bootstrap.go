// Package bootstrap wires the application from configuration. Both binaries
// build their dependencies through it.
package bootstrap

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"recipe-shopper/internal/app"
	"recipe-shopper/internal/clipper"
	"recipe-shopper/internal/config"
	"recipe-shopper/internal/database"
	"recipe-shopper/internal/ghost"
	"recipe-shopper/internal/ingredient"
	"recipe-shopper/internal/metrics"
	"recipe-shopper/internal/recipe"
	"recipe-shopper/internal/shopping"
	"recipe-shopper/internal/storage"
	"recipe-shopper/internal/validation"
)

// Services holds everything a front end needs.
type Services struct {
	App     *app.App
	Metrics *metrics.Store
	DB      *database.DB
}

// Close releases the database.
func (s *Services) Close() error {
	return s.DB.Close()
}

// NewLogger builds a production zap logger. verbose forces debug level.
func NewLogger(level string, verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	if verbose {
		lvl = zapcore.DebugLevel
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	return cfg.Build()
}

// New opens the database, loads the catalog and builds the App.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Services, error) {
	catalog, err := config.LoadCatalog(cfg.CatalogPath)
	if err != nil {
		return nil, err
	}

	images, err := NewImageStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	db, err := database.NewDB(cfg.DatabasePath, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	v := validation.New(catalog.UnitSet(), validation.DefaultLimits()).
		WithDefaultUnit(ingredient.Unit(catalog.DefaultUnit))
	metricsStore := metrics.NewStore(db.SQL)
	application := app.NewApp(
		recipe.NewRepository(db.SQL, logger),
		shopping.NewRepository(db.SQL),
		metricsStore,
		images,
		clipper.NewClipper(v, logger),
		v,
		shopping.NewSorter(catalog.Categorizer()),
		logger,
	)

	if cfg.GhostURL != "" {
		application.EnableBlog(ghost.NewClient(cfg.GhostURL, cfg.GhostContentKey, cfg.GhostAdminKey))
	}

	return &Services{App: application, Metrics: metricsStore, DB: db}, nil
}

// NewImageStore returns the image store selected by cfg.ImageStore.
func NewImageStore(ctx context.Context, cfg *config.Config) (storage.ImageStore, error) {
	switch cfg.ImageStore {
	case "s3":
		store, err := storage.NewS3Store(ctx, storage.S3Config{
			Bucket:          cfg.S3Bucket,
			Region:          cfg.S3Region,
			Endpoint:        cfg.S3Endpoint,
			PathStyle:       cfg.S3PathStyle,
			AccessKeyID:     cfg.S3AccessKey,
			SecretAccessKey: cfg.S3SecretKey,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize s3 image store: %w", err)
		}
		return store, nil
	default:
		store, err := storage.NewFileStore(cfg.ImageDir)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize image directory: %w", err)
		}
		return store, nil
	}
}
