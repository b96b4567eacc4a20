// Package publish uploads a finished dataset to an S3 compatible bucket.
package publish

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"verse-embed/internal/app/embedding/orchestrator"
	"verse-embed/internal/app/storage/snapshot"
	"verse-embed/internal/config"
)

// ObjectStore is the subset of *minio.Client the publisher uses
type ObjectStore interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	FPutObject(ctx context.Context, bucketName, objectName, filePath string, opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

// Logger interface for dependency injection
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
}

// Publisher uploads the dataset files of a directory
type Publisher struct {
	store  ObjectStore
	bucket string
	prefix string
	dir    string
	logger Logger
}

// NewMinioPublisher creates a publisher backed by a MinIO client
func NewMinioPublisher(cfg config.PublishConfig, dir string, logger Logger) (*Publisher, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey.Value(), cfg.SecretKey.Value(), ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}
	return NewPublisher(client, cfg.Bucket, cfg.Prefix, dir, logger), nil
}

// NewPublisher creates a publisher on any ObjectStore
func NewPublisher(store ObjectStore, bucket, prefix, dir string, logger Logger) *Publisher {
	return &Publisher{
		store:  store,
		bucket: bucket,
		prefix: strings.Trim(prefix, "/"),
		dir:    dir,
		logger: logger,
	}
}

// Write implements orchestrator.Sink. Only final snapshots are published.
func (p *Publisher) Write(ctx context.Context, snap *orchestrator.Snapshot) error {
	if !snap.Final {
		return nil
	}
	_, err := p.Publish(ctx, snap.State.RunID)
	return err
}

// Publish uploads every dataset file present in the directory and returns the object keys
func (p *Publisher) Publish(ctx context.Context, runID string) ([]string, error) {
	if err := p.ensureBucket(ctx); err != nil {
		return nil, err
	}

	var keys []string
	for _, name := range snapshot.FileNames {
		localPath := filepath.Join(p.dir, name)
		if _, err := os.Stat(localPath); os.IsNotExist(err) {
			continue
		}

		key := p.ObjectKey(name)
		_, err := p.store.FPutObject(ctx, p.bucket, key, localPath, minio.PutObjectOptions{
			ContentType: contentType(name),
			UserMetadata: map[string]string{
				"run-id":       runID,
				"published-at": time.Now().UTC().Format(time.RFC3339),
			},
		})
		if err != nil {
			return keys, fmt.Errorf("failed to upload %s: %w", name, err)
		}
		keys = append(keys, key)
	}

	if p.logger != nil {
		p.logger.Info("Dataset published", "bucket", p.bucket, "objects", len(keys), "run_id", runID)
	}
	return keys, nil
}

// ObjectKey returns the bucket key of a dataset file
func (p *Publisher) ObjectKey(name string) string {
	if p.prefix == "" {
		return name
	}
	return path.Join(p.prefix, name)
}

func (p *Publisher) ensureBucket(ctx context.Context) error {
	exists, err := p.store.BucketExists(ctx, p.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if exists {
		return nil
	}
	if err := p.store.MakeBucket(ctx, p.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("failed to create bucket: %w", err)
	}
	return nil
}

func contentType(name string) string {
	switch {
	case strings.HasSuffix(name, ".d.ts"):
		return "application/typescript"
	case strings.HasSuffix(name, ".js"):
		return "text/javascript"
	case strings.HasSuffix(name, ".json"):
		return "application/json"
	default:
		return "application/octet-stream"
	}
}
