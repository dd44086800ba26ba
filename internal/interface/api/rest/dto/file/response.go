package file

import (
	"time"

	"github.com/google/uuid"
)

type (
	File struct {
		ID          uuid.UUID `json:"id"`
		OwnerID     string    `json:"owner_id"`
		Bucket      string    `json:"bucket"`
		FileName    string    `json:"file_name"`
		StoragePath string    `json:"storage_path"`
		SizeBytes   int64     `json:"size_bytes"`
		ContentType string    `json:"content_type"`
		AccessLevel string    `json:"access_level,omitempty"`
		CreatedAt   time.Time `json:"created_at"`
		UpdatedAt   time.Time `json:"updated_at"`
	}
	Files        []File
	ResponseData struct {
		Data Files `json:"data"`
	}

	DownloadURL struct {
		DownloadURL string `json:"download_url"`
		// seconds
		ExpiresIn int64 `json:"expires_in"`
	}

	// Access carries the caller's level, null when there is none.
	Access struct {
		FileID      uuid.UUID `json:"file_id"`
		AccessLevel *string   `json:"access_level"`
	}

	Permission struct {
		UserID      string    `json:"user_id"`
		AccessLevel string    `json:"access_level"`
		GrantedBy   *string   `json:"granted_by"`
		CreatedAt   time.Time `json:"created_at"`
	}
	PermissionsData struct {
		Data []Permission `json:"data"`
	}

	Message struct {
		Message string `json:"message"`
		Success bool   `json:"success"`
	}
	Error struct {
		Error   string            `json:"error"`
		Success bool              `json:"success"`
		Details map[string]string `json:"details,omitempty"`
	}
)
