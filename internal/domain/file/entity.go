package file

import (
	"time"

	"github.com/google/uuid"
)

type (
	ID   = uuid.UUID
	File struct {
		ID      ID
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

	// NewFile is what the storage service hands to the repository; the ID and
	// timestamps are assigned on insert.
	NewFile struct {
		OwnerID     string
		Bucket      string
		FileName    string
		StoragePath string
		SizeBytes   int64
		ContentType string
	}

	// AccessibleFile is a file annotated with the level a specific user holds on it.
	AccessibleFile struct {
		File
		Level Level
	}
	AccessibleFiles []*AccessibleFile

	// OrphanedObject describes a blob left in the object store without metadata.
	OrphanedObject struct {
		FileID      string `json:"file_id,omitempty"`
		Bucket      string `json:"bucket"`
		StoragePath string `json:"storage_path"`
		Reason      string `json:"reason"`
	}
)
