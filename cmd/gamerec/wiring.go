package main

import (
	"context"
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/rushteam/gamerec/catalog"
	"github.com/rushteam/gamerec/config"
	"github.com/rushteam/gamerec/core"
	"github.com/rushteam/gamerec/preference"
	"github.com/rushteam/gamerec/store"
)

func openDB(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	return db, nil
}

// catalogProvider 按配置返回目录数据源。
func catalogProvider(cfg config.CatalogConfig) (catalog.Provider, error) {
	switch cfg.Source {
	case "sqlite":
		db, err := openDB(cfg.Database)
		if err != nil {
			return nil, err
		}
		repo := catalog.NewRepository(db)
		if err := repo.AutoMigrate(); err != nil {
			return nil, err
		}
		return repo, nil
	default:
		return catalog.NewFileLoader(cfg.Path), nil
	}
}

// preferenceBackend 返回反馈存储，以及可用于读取黑名单的 KV 存储（sqlite 后端时为 nil）。
func preferenceBackend(ctx context.Context, cfg *config.Config) (core.PreferenceStore, core.Store, func(), error) {
	switch cfg.Preferences.Backend {
	case "memory":
		kv := store.NewMemoryStore()
		return preference.NewKVStore(kv, cfg.Preferences.KeyPrefix), kv, func() { _ = kv.Close() }, nil
	case "redis":
		rc := cfg.Preferences.Redis
		kv, err := store.NewRedisStore(ctx, rc.Addr, rc.Password, rc.DB)
		if err != nil {
			return nil, nil, nil, err
		}
		return preference.NewKVStore(kv, cfg.Preferences.KeyPrefix), kv, func() { _ = kv.Close() }, nil
	default:
		db, err := openDB(cfg.Catalog.Database)
		if err != nil {
			return nil, nil, nil, err
		}
		s := preference.NewSQLStore(db)
		if err := s.AutoMigrate(); err != nil {
			return nil, nil, nil, err
		}
		return s, nil, func() {}, nil
	}
}
