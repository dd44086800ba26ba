package file

import (
	"time"

	"github.com/google/uuid"
)

type (
	File struct {
		ID      uuid.UUID
		OwnerID string

		Bucket      string
		FileName    string
		StoragePath string
		SizeBytes   int64
		ContentType string

		CreatedAt time.Time
		UpdatedAt time.Time
	}
	Files []*File

	AccessibleFile struct {
		File
		AccessLevel string
	}
	AccessibleFiles []*AccessibleFile

	Permission struct {
		FileID      uuid.UUID
		UserID      string
		AccessLevel string
		GrantedBy   *string

		CreatedAt time.Time
	}
	Permissions []*Permission
)
