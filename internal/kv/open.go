package kv

import (
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"sarren/internal/database"
)

// Open builds the Store named by backend. The valkey backend uses client,
// which must already be connected; the postgres backend connects to dsn
// and applies migrations.
func Open(backend string, client *redis.Client, dsn string) (Store, error) {
	switch backend {
	case "memory":
		slog.Warn("using in-memory KV store, data will not survive a restart")
		return NewMemory(), nil
	case "valkey":
		if client == nil {
			return nil, fmt.Errorf("kv open: valkey backend needs a client")
		}
		return NewValkey(client), nil
	case "postgres":
		db, err := database.Connect(dsn)
		if err != nil {
			return nil, fmt.Errorf("kv open: %w", err)
		}
		if err := database.Migrate(db); err != nil {
			db.Close()
			return nil, fmt.Errorf("kv open: %w", err)
		}
		return NewPostgres(db), nil
	default:
		return nil, fmt.Errorf("kv open: unknown backend %q", backend)
	}
}
