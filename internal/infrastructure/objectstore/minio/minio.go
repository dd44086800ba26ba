package minio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"

	"file-storage-api/config"
	"file-storage-api/internal/domain/file"
	"file-storage-api/internal/infrastructure/objectstore"
)

type Store struct {
	client *minio.Client
	region string
	logger *zap.Logger
}

func New(cfg config.ObjectStore, logger *zap.Logger) (*Store, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("minio: endpoint is required")
	}

	client, err := minio.New(objectstore.HostPort(cfg.Endpoint), &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}

	logger.Info("minio object store initialized", zap.String("endpoint", cfg.Endpoint))

	return &Store{client: client, region: cfg.Region, logger: logger}, nil
}

func hasCode(err error, codes ...string) bool {
	code := minio.ToErrorResponse(err).Code
	for _, c := range codes {
		if code == c {
			return true
		}
	}
	return false
}

func (s *Store) PutObject(ctx context.Context, bucket, path string, body io.Reader, size int64, contentType string) error {
	_, err := s.client.PutObject(ctx, bucket, path, body, size, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return fmt.Errorf("minio put %s/%s: %w", bucket, path, err)
	}
	return nil
}

func (s *Store) DeleteObject(ctx context.Context, bucket, path string) error {
	err := s.client.RemoveObject(ctx, bucket, path, minio.RemoveObjectOptions{})
	if err != nil && !hasCode(err, "NoSuchKey") {
		return fmt.Errorf("minio delete %s/%s: %w", bucket, path, err)
	}
	return nil
}

func (s *Store) SignDownloadURL(ctx context.Context, bucket, path string, ttl time.Duration) (string, error) {
	u, err := s.client.PresignedGetObject(ctx, bucket, path, ttl, url.Values{})
	if err != nil {
		return "", fmt.Errorf("minio presign %s/%s: %w", bucket, path, err)
	}
	return u.String(), nil
}

func (s *Store) EnsureBucket(ctx context.Context, name string, public bool) error {
	exists, err := s.client.BucketExists(ctx, name)
	if err != nil {
		return fmt.Errorf("minio bucket exists %s: %w", name, err)
	}

	if !exists {
		err = s.client.MakeBucket(ctx, name, minio.MakeBucketOptions{Region: s.region})
		switch {
		case err == nil:
			return s.created(ctx, name, public)
		case !hasCode(err, "BucketAlreadyOwnedByYou"):
			return fmt.Errorf("minio make bucket %s: %w", name, err)
		}
	}

	policy, err := s.client.GetBucketPolicy(ctx, name)
	if err != nil && !hasCode(err, "NoSuchBucketPolicy") {
		return fmt.Errorf("minio get policy %s: %w", name, err)
	}
	if objectstore.IsPublicRead(policy, name) != public {
		return file.ErrBucketConflict
	}
	return nil
}

func (s *Store) created(ctx context.Context, name string, public bool) error {
	if public {
		if err := s.client.SetBucketPolicy(ctx, name, objectstore.PublicReadPolicy(name)); err != nil {
			return fmt.Errorf("minio set policy %s: %w", name, err)
		}
	}

	s.logger.Info("bucket created", zap.String("bucket", name), zap.Bool("public", public))

	return nil
}
