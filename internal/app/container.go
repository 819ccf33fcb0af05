package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"hirehub/internal/config"
	"hirehub/internal/database"
	dbpostgres "hirehub/internal/database/postgres"
	"hirehub/internal/infrastructure/cache"
	"hirehub/internal/infrastructure/storage"
	"hirehub/internal/ws"
)

// UploadURLPrefix is the public path prefix of locally stored CVs.
const UploadURLPrefix = "uploads/cv"

type Container struct {
	Config config.Config
	Logger *log.Logger
	DB     database.DB
	Cache  *cache.Redis
	Files  storage.FileStore
	Hub    *ws.Hub
}

func NewContainer(cfg config.Config) (*Container, error) {
	logger := log.New(os.Stdout, "", log.LstdFlags|log.Lmicroseconds)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := dbpostgres.Connect(ctx, cfg.Database, logger)
	if err != nil {
		return nil, err
	}

	files, err := newFileStore(cfg.Upload, logger)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Container{
		Config: cfg,
		Logger: logger,
		DB:     db,
		Cache:  cache.NewRedis(cfg.Redis, logger),
		Files:  files,
		Hub:    ws.NewHub(logger),
	}, nil
}

func newFileStore(cfg config.UploadConfig, logger *log.Logger) (storage.FileStore, error) {
	switch cfg.Driver {
	case config.UploadDriverSpaces:
		return storage.NewSpaces(cfg.Spaces, UploadURLPrefix, logger)
	case config.UploadDriverLocal, "":
		return storage.NewLocal(cfg.Dir, UploadURLPrefix, logger)
	default:
		return nil, fmt.Errorf("unknown upload driver %q", cfg.Driver)
	}
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	var errs []error
	if c.Cache != nil {
		errs = append(errs, c.Cache.Close())
	}
	if c.DB != nil {
		errs = append(errs, c.DB.Close())
	}
	return errors.Join(errs...)
}
