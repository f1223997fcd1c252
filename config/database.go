package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"laundromat-backend/store"
)

// ConnectDB opens the relational database named by cfg.Driver.
func ConnectDB(cfg Database, log *logrus.Entry) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch strings.ToLower(cfg.Driver) {
	case "postgres", "postgresql":
		dialector = postgres.Open(cfg.URL)
	case "mysql":
		dialector = mysql.Open(cfg.URL)
	default:
		return nil, fmt.Errorf("unsupported sql driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.New(log, logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	return db, nil
}

// OpenStore connects the configured store and prepares its schema.
func OpenStore(ctx context.Context, cfg Database, log *logrus.Entry) (store.Store, error) {
	switch strings.ToLower(cfg.Driver) {
	case "memory":
		log.Warn("using the in-memory store, data is lost on restart")
		return store.NewMemoryStore(), nil

	case "mongo", "mongodb":
		s, err := store.NewMongoStore(ctx, cfg.URL, cfg.Name)
		if err != nil {
			return nil, err
		}
		if err := s.EnsureIndexes(ctx); err != nil {
			_ = s.Close()
			return nil, err
		}
		return s, nil

	default:
		db, err := ConnectDB(cfg, log)
		if err != nil {
			return nil, err
		}
		s := store.NewGormStore(db)
		if err := s.Migrate(); err != nil {
			_ = s.Close()
			return nil, fmt.Errorf("failed to migrate schema: %w", err)
		}
		return s, nil
	}
}
