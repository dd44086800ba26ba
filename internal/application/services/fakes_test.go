package services

import (
	"context"
	"io"
	"sync"
	"time"

	"file-storage-api/internal/domain/file"
	"file-storage-api/internal/infrastructure/mq"
)

type putCall struct {
	Bucket, Path, ContentType string
	Size                      int64
	Body                      []byte
}

type FakeObjectStore struct {
	PutObjectFunc       func(ctx context.Context, bucket, path string, body io.Reader, size int64, contentType string) error
	DeleteObjectFunc    func(ctx context.Context, bucket, path string) error
	SignDownloadURLFunc func(ctx context.Context, bucket, path string, ttl time.Duration) (string, error)
	EnsureBucketFunc    func(ctx context.Context, name string, public bool) error

	mu      sync.Mutex
	Puts    []putCall
	Deletes []string
}

func (f *FakeObjectStore) PutObject(ctx context.Context, bucket, path string, body io.Reader, size int64, contentType string) error {
	b, _ := io.ReadAll(body)
	f.mu.Lock()
	f.Puts = append(f.Puts, putCall{Bucket: bucket, Path: path, ContentType: contentType, Size: size, Body: b})
	f.mu.Unlock()

	if f.PutObjectFunc == nil {
		return nil
	}
	return f.PutObjectFunc(ctx, bucket, path, nil, size, contentType)
}

func (f *FakeObjectStore) DeleteObject(ctx context.Context, bucket, path string) error {
	f.mu.Lock()
	f.Deletes = append(f.Deletes, bucket+"/"+path)
	f.mu.Unlock()

	if f.DeleteObjectFunc == nil {
		return nil
	}
	return f.DeleteObjectFunc(ctx, bucket, path)
}

func (f *FakeObjectStore) SignDownloadURL(ctx context.Context, bucket, path string, ttl time.Duration) (string, error) {
	if f.SignDownloadURLFunc == nil {
		return "https://objects.local/" + bucket + "/" + path + "?ttl=" + ttl.String(), nil
	}
	return f.SignDownloadURLFunc(ctx, bucket, path, ttl)
}

func (f *FakeObjectStore) EnsureBucket(ctx context.Context, name string, public bool) error {
	if f.EnsureBucketFunc == nil {
		return nil
	}
	return f.EnsureBucketFunc(ctx, name, public)
}

type FakeAnomalyReporter struct {
	mu       sync.Mutex
	Orphaned []file.OrphanedObject
}

func (f *FakeAnomalyReporter) ReportOrphanedObject(_ context.Context, o file.OrphanedObject) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Orphaned = append(f.Orphaned, o)
}

type FakePublisher struct {
	mu     sync.Mutex
	Events []mq.Event
}

func (f *FakePublisher) Publish(_ context.Context, e mq.Event) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Events = append(f.Events, e)
}

func (f *FakePublisher) Actions() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.Events))
	for i, e := range f.Events {
		out[i] = e.Action
	}
	return out
}

// faultyRepo fails selected calls and delegates the rest.
type faultyRepo struct {
	file.Repository
	createErr     error
	permissionErr error
}

func (r *faultyRepo) CreateFile(ctx context.Context, req file.NewFile) (*file.File, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	return r.Repository.CreateFile(ctx, req)
}

func (r *faultyRepo) FetchPermission(ctx context.Context, fileID file.ID, userID string) (file.Level, error) {
	if r.permissionErr != nil {
		return file.LevelNone, r.permissionErr
	}
	return r.Repository.FetchPermission(ctx, fileID, userID)
}
