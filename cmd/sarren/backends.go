package main

import (
	"context"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"sarren/internal/cache"
	"sarren/internal/config"
	"sarren/internal/mail"
	"sarren/internal/storage"
)

// openBlobs connects the blob backend named by BLOB_BACKEND.
func openBlobs(ctx context.Context, cfg *config.Config) (storage.Blobs, error) {
	switch cfg.BlobBackend {
	case config.BackendS3:
		s3, err := storage.NewS3(cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket, cfg.S3PublicURL)
		if err != nil {
			return nil, err
		}
		slog.Info("s3 storage connected", "endpoint", cfg.S3Endpoint, "bucket", cfg.S3Bucket)
		return s3, nil
	case config.BackendMinio:
		m, err := storage.NewMinio(ctx, cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioBucket, cfg.MinioUseSSL, cfg.MinioPublicURL)
		if err != nil {
			return nil, err
		}
		slog.Info("minio storage connected", "endpoint", cfg.MinioEndpoint, "bucket", cfg.MinioBucket)
		return m, nil
	default:
		slog.Warn("blob storage is in memory, uploaded PDFs are lost on restart")
		return storage.NewMemory(), nil
	}
}

// openCache builds the public response cache named by CACHE_BACKEND.
func openCache(cfg *config.Config, client *redis.Client) cache.Cache {
	switch cfg.CacheBackend {
	case config.BackendValkey:
		return cache.NewResponseCache(client, cache.DefaultTTL)
	case config.BackendNone:
		return cache.Nop{}
	default:
		return cache.NewMemory(cache.DefaultTTL)
	}
}

// openMailer relays contact forms over SMTP when configured and logs them
// otherwise.
func openMailer(cfg *config.Config) mail.Sender {
	if !cfg.SMTPConfigured() {
		slog.Warn("smtp not configured, contact forms are only logged")
		return mail.Log{}
	}
	return mail.NewSMTP(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.SMTPFrom, cfg.ContactEmail)
}
