package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"go.uber.org/zap"

	"file-storage-api/config"
	"file-storage-api/internal/domain/file"
	"file-storage-api/internal/infrastructure/objectstore"
)

type Store struct {
	client  *s3.Client
	presign *s3.PresignClient
	region  string
	logger  *zap.Logger
}

func New(ctx context.Context, cfg config.ObjectStore, logger *zap.Logger) (*Store, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		// custom endpoints are MinIO or Localstack, both need path-style addressing
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(objectstore.EndpointURL(cfg.Endpoint, cfg.UseSSL))
			o.UsePathStyle = true
		}
	})

	logger.Info("s3 object store initialized", zap.String("region", cfg.Region), zap.String("endpoint", cfg.Endpoint))

	return newStore(client, cfg.Region, logger), nil
}

func newStore(client *s3.Client, region string, logger *zap.Logger) *Store {
	return &Store{
		client:  client,
		presign: s3.NewPresignClient(client),
		region:  region,
		logger:  logger,
	}
}

func errorCode(err error) string {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode()
	}
	return ""
}

func isNotFound(err error) bool {
	var noSuchKey *types.NoSuchKey
	var notFound *types.NotFound
	var noSuchBucket *types.NoSuchBucket
	if errors.As(err, &noSuchKey) || errors.As(err, &notFound) || errors.As(err, &noSuchBucket) {
		return true
	}
	switch errorCode(err) {
	case "NotFound", "NoSuchKey", "NoSuchBucket":
		return true
	}
	return false
}

// seekable returns body as an io.ReadSeeker. The SDK refuses unseekable
// payloads over plain HTTP so anything else is buffered; size is already
// bounded by the upload limit.
func seekable(body io.Reader, size int64) (io.ReadSeeker, error) {
	if rs, ok := body.(io.ReadSeeker); ok {
		return rs, nil
	}
	buf := bytes.NewBuffer(make([]byte, 0, size))
	if _, err := io.CopyN(buf, body, size); err != nil {
		return nil, fmt.Errorf("buffer upload body: %w", err)
	}
	return bytes.NewReader(buf.Bytes()), nil
}

func (s *Store) PutObject(ctx context.Context, bucket, path string, body io.Reader, size int64, contentType string) error {
	rs, err := seekable(body, size)
	if err != nil {
		return err
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(bucket),
		Key:           aws.String(path),
		Body:          rs,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("s3 put %s/%s: %w", bucket, path, err)
	}
	return nil
}

func (s *Store) DeleteObject(ctx context.Context, bucket, path string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(path),
	})
	if err != nil && !isNotFound(err) {
		return fmt.Errorf("s3 delete %s/%s: %w", bucket, path, err)
	}
	return nil
}

func (s *Store) SignDownloadURL(ctx context.Context, bucket, path string, ttl time.Duration) (string, error) {
	req, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(path),
	}, s3.WithPresignExpires(ttl))
	if err != nil {
		return "", fmt.Errorf("s3 presign %s/%s: %w", bucket, path, err)
	}
	return req.URL, nil
}

func (s *Store) EnsureBucket(ctx context.Context, name string, public bool) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(name)})
	switch {
	case err == nil:
		return s.checkVisibility(ctx, name, public)
	case !isNotFound(err):
		return fmt.Errorf("s3 head bucket %s: %w", name, err)
	}

	in := &s3.CreateBucketInput{Bucket: aws.String(name)}
	// us-east-1 rejects an explicit location constraint
	if s.region != "" && s.region != "us-east-1" {
		in.CreateBucketConfiguration = &types.CreateBucketConfiguration{
			LocationConstraint: types.BucketLocationConstraint(s.region),
		}
	}
	if _, err = s.client.CreateBucket(ctx, in); err != nil {
		var owned *types.BucketAlreadyOwnedByYou
		if errors.As(err, &owned) {
			return s.checkVisibility(ctx, name, public)
		}
		var taken *types.BucketAlreadyExists
		if errors.As(err, &taken) {
			return file.ErrBucketConflict
		}
		return fmt.Errorf("s3 create bucket %s: %w", name, err)
	}

	if public {
		if _, err = s.client.PutBucketPolicy(ctx, &s3.PutBucketPolicyInput{
			Bucket: aws.String(name),
			Policy: aws.String(objectstore.PublicReadPolicy(name)),
		}); err != nil {
			return fmt.Errorf("s3 put policy %s: %w", name, err)
		}
	}

	s.logger.Info("bucket created", zap.String("bucket", name), zap.Bool("public", public))

	return nil
}

func (s *Store) checkVisibility(ctx context.Context, name string, public bool) error {
	var policy string

	out, err := s.client.GetBucketPolicy(ctx, &s3.GetBucketPolicyInput{Bucket: aws.String(name)})
	switch {
	case err == nil:
		policy = aws.ToString(out.Policy)
	case errorCode(err) != "NoSuchBucketPolicy":
		return fmt.Errorf("s3 get policy %s: %w", name, err)
	}

	if objectstore.IsPublicRead(policy, name) != public {
		return file.ErrBucketConflict
	}
	return nil
}
