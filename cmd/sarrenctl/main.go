// Package main is the entry point for sarrenctl, the operator CLI.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/redis/go-redis/v9"

	"sarren/internal/cache"
	"sarren/internal/cli"
	"sarren/internal/config"
	"sarren/internal/kv"
)

func main() {
	config.LoadDotEnv()
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))

	deps := &cli.Deps{OpenStore: openStore}
	if err := cli.NewRootCmd(deps).ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "sarrenctl:", err)
		os.Exit(1)
	}
}

// openStore connects the KV backend selected by the environment.
func openStore(_ context.Context) (kv.Store, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if cfg.KVBackend == config.BackendMemory {
		return nil, fmt.Errorf("KV_BACKEND=%s keeps nothing between runs, select valkey or postgres", cfg.KVBackend)
	}

	var client *redis.Client
	if cfg.KVBackend == config.BackendValkey {
		client, err = cache.ConnectValkey(cfg.RedisURL, cfg.ValkeyAddr(), cfg.ValkeyPassword)
		if err != nil {
			return nil, err
		}
	}

	s, err := kv.Open(cfg.KVBackend, client, cfg.DSN())
	if err != nil {
		if client != nil {
			client.Close()
		}
		return nil, err
	}
	if client != nil {
		return &clientStore{Store: s, client: client}, nil
	}
	return s, nil
}

// clientStore closes the Valkey client along with the store, since the
// Valkey store does not own its client.
type clientStore struct {
	kv.Store
	client *redis.Client
}

func (c *clientStore) Close() error {
	c.Store.Close()
	return c.client.Close()
}
