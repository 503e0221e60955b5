// Package objectstore wraps the MinIO S3 client used for audit copies of
// rendered settlement files. The pipeline treats every put as best-effort.
package objectstore

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/settlement-reporting/internal/config"
)

// Client persists byte payloads into a single configured bucket.
type Client struct {
	mc     *minio.Client
	bucket string
	logger *slog.Logger
}

// NewClient connects to the object store and ensures the archive bucket exists.
func NewClient(ctx context.Context, logger *slog.Logger, cfg *config.BackupConfig) (*Client, error) {
	mc, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create object store client: %w", err)
	}

	exists, err := mc.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket %s: %w", cfg.Bucket, err)
	}
	if !exists {
		if err := mc.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket %s: %w", cfg.Bucket, err)
		}
		logger.Info("Created object store bucket", "bucket", cfg.Bucket)
	}

	logger.Info("Connected to object store", "endpoint", cfg.Endpoint, "bucket", cfg.Bucket)

	return &Client{
		mc:     mc,
		bucket: cfg.Bucket,
		logger: logger,
	}, nil
}

// Put stores the payload under the given object name.
func (c *Client) Put(ctx context.Context, objectName string, payload []byte) error {
	_, err := c.mc.PutObject(ctx, c.bucket, objectName, bytes.NewReader(payload), int64(len(payload)), minio.PutObjectOptions{
		ContentType: "text/plain",
	})
	if err != nil {
		return fmt.Errorf("failed to put object %s: %w", objectName, err)
	}

	c.logger.Debug("Stored object", "bucket", c.bucket, "object", objectName, "bytes", len(payload))
	return nil
}
