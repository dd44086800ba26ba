package ports

import (
	"context"
	"io"
	"time"

	"file-storage-api/internal/domain/caller"
	"file-storage-api/internal/domain/file"
)

type (
	UploadRequest struct {
		Bucket      string
		FileName    string
		ContentType string
		Size        int64
		Body        io.Reader
	}
	SignedURL struct {
		URL       string
		ExpiresIn time.Duration
	}
)

type StorageService interface {
	CreateBucket(ctx context.Context, who caller.Identity, name string, public bool) error
	Upload(ctx context.Context, who caller.Identity, req UploadRequest) (*file.File, error)
	ListFiles(ctx context.Context, who caller.Identity) (file.AccessibleFiles, error)
	GetFile(ctx context.Context, who caller.Identity, id file.ID) (*file.AccessibleFile, error)
	RenameFile(ctx context.Context, who caller.Identity, id file.ID, name string) (*file.AccessibleFile, error)
	DeleteFile(ctx context.Context, who caller.Identity, id file.ID) error
	DownloadURL(ctx context.Context, who caller.Identity, id file.ID) (*SignedURL, error)

	GetAccess(ctx context.Context, who caller.Identity, id file.ID) (file.Level, error)
	GrantAccess(ctx context.Context, who caller.Identity, id file.ID, targetUserID string, level file.Level) error
	RevokeAccess(ctx context.Context, who caller.Identity, id file.ID, targetUserID string) error
	ListPermissions(ctx context.Context, who caller.Identity, id file.ID) (file.Permissions, error)
}
