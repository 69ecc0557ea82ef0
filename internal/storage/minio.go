package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Minio stores documents in a MinIO bucket.
type Minio struct {
	client    *minio.Client
	bucket    string
	publicURL string
}

// NewMinio connects to MinIO and makes sure the bucket exists. Without a
// publicURL, object URLs are built from the endpoint.
func NewMinio(ctx context.Context, endpoint, accessKey, secretKey, bucket string, useSSL bool, publicURL string) (*Minio, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("minio bucket check %s: %w", bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("minio make bucket %s: %w", bucket, err)
		}
		slog.Info("minio bucket created", "bucket", bucket)
	}

	if publicURL == "" {
		scheme := "http"
		if useSSL {
			scheme = "https"
		}
		publicURL = scheme + "://" + endpoint + "/" + bucket
	}

	return &Minio{client: client, bucket: bucket, publicURL: strings.TrimRight(publicURL, "/")}, nil
}

// Put uploads an object and returns its public URL.
func (m *Minio) Put(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error) {
	info, err := m.client.PutObject(ctx, m.bucket, key, body, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("minio upload %s/%s: %w", m.bucket, key, err)
	}
	return m.publicURL + "/" + info.Key, nil
}

// Delete removes the object behind url.
func (m *Minio) Delete(ctx context.Context, url string) error {
	key, ok := keyFromURL(url, m.publicURL+"/")
	if !ok {
		return fmt.Errorf("minio delete %s: %w", url, ErrForeignURL)
	}
	if err := m.client.RemoveObject(ctx, m.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("minio delete %s/%s: %w", m.bucket, key, err)
	}
	return nil
}
