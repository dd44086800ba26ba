package file

import (
	"context"
)

// Repository keeps file and permission records consistent. Every method that
// touches permissions is atomic with respect to the owner count of the file.
type Repository interface {
	CreateFile(ctx context.Context, req NewFile) (*File, error)
	FetchFile(ctx context.Context, id ID) (*File, error)
	FetchAccessibleFiles(ctx context.Context, userID string) (AccessibleFiles, error)
	RenameFile(ctx context.Context, id ID, name string) (*File, error)
	DeleteFile(ctx context.Context, id ID) (*File, error)

	UpsertPermission(ctx context.Context, fileID ID, granteeID string, level Level, grantedBy string) error
	DeletePermission(ctx context.Context, fileID ID, granteeID string) error
	FetchPermission(ctx context.Context, fileID ID, userID string) (Level, error)
	FetchPermissions(ctx context.Context, fileID ID) (Permissions, error)
}
