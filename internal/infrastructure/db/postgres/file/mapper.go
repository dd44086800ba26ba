package file

import (
	domain "file-storage-api/internal/domain/file"
)

func fromDBModel(model *File) *domain.File {
	return &domain.File{
		ID:      model.ID,
		OwnerID: model.OwnerID,

		Bucket:      model.Bucket,
		FileName:    model.FileName,
		StoragePath: model.StoragePath,
		SizeBytes:   model.SizeBytes,
		ContentType: model.ContentType,

		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}

func fromAccessibleDBModels(models AccessibleFiles) domain.AccessibleFiles {
	afs := make(domain.AccessibleFiles, len(models))
	for idx, m := range models {
		afs[idx] = &domain.AccessibleFile{
			File:  *fromDBModel(&m.File),
			Level: domain.Level(m.AccessLevel),
		}
	}

	return afs
}

func fromPermissionDBModels(models Permissions) domain.Permissions {
	ps := make(domain.Permissions, len(models))
	for idx, m := range models {
		ps[idx] = &domain.Permission{
			FileID:    m.FileID,
			UserID:    m.UserID,
			Level:     domain.Level(m.AccessLevel),
			GrantedBy: m.GrantedBy,
			CreatedAt: m.CreatedAt,
		}
	}

	return ps
}
