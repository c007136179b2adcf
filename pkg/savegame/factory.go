package savegame

import (
	"fmt"

	"flipseven-server/internal/config"
	"flipseven-server/pkg/db"
	"github.com/redis/go-redis/v9"
)

// NewStoreFromConfig returns the store selected by the storage driver
func NewStoreFromConfig(cfg config.Config) (Store, error) {
	switch cfg.Storage.Driver {
	case "", "memory":
		return NewMemoryStore(), nil
	case "postgres":
		return NewSQLStore(db.Instance(), DialectPostgres), nil
	case "sqlite":
		return OpenSQLite(cfg.Storage.SQLitePath)
	case "redis":
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Storage.RedisAddr,
			Password: cfg.Storage.RedisPassword,
			DB:       cfg.Storage.RedisDB,
		})

		return NewRedisStore(rdb, cfg.Storage.RedisTTL()), nil
	}

	return nil, fmt.Errorf("unknown storage driver: %s", cfg.Storage.Driver)
}
