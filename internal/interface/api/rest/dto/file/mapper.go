package file

import (
	"time"

	"file-storage-api/internal/application/ports"
	domain "file-storage-api/internal/domain/file"
)

func ToResponseFile(f domain.File) File {
	return File{
		ID:          f.ID,
		OwnerID:     f.OwnerID,
		Bucket:      f.Bucket,
		FileName:    f.FileName,
		StoragePath: f.StoragePath,
		SizeBytes:   f.SizeBytes,
		ContentType: f.ContentType,
		CreatedAt:   f.CreatedAt,
		UpdatedAt:   f.UpdatedAt,
	}
}

func ToResponseAccessibleFile(af domain.AccessibleFile) File {
	f := ToResponseFile(af.File)
	f.AccessLevel = string(af.Level)
	return f
}

func ToResponseAccessibleFiles(afs domain.AccessibleFiles) Files {
	fs := make(Files, len(afs))
	for idx, af := range afs {
		fs[idx] = ToResponseAccessibleFile(*af)
	}

	return fs
}

func ToResponseDownloadURL(u ports.SignedURL) DownloadURL {
	return DownloadURL{
		DownloadURL: u.URL,
		ExpiresIn:   int64(u.ExpiresIn / time.Second),
	}
}

func ToResponseAccess(id domain.ID, level domain.Level) Access {
	a := Access{FileID: id}
	if level != domain.LevelNone {
		s := string(level)
		a.AccessLevel = &s
	}
	return a
}

func ToResponsePermissions(ps domain.Permissions) PermissionsData {
	out := make([]Permission, len(ps))
	for idx, p := range ps {
		out[idx] = Permission{
			UserID:      p.UserID,
			AccessLevel: string(p.Level),
			GrantedBy:   p.GrantedBy,
			CreatedAt:   p.CreatedAt,
		}
	}

	return PermissionsData{Data: out}
}

func ErrorResponse(msg string) Error { return Error{Error: msg, Success: false} }

func MessageResponse(msg string) Message { return Message{Message: msg, Success: true} }
