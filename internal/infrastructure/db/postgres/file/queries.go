package file

const (
	InsertFile = `
		INSERT INTO files (owner_id, bucket, file_name, storage_path, size_bytes, content_type)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, owner_id, bucket, file_name, storage_path, size_bytes, content_type, created_at, updated_at
	`
	InsertOwnerPermission = `
		INSERT INTO file_permissions (file_id, user_id, access_level, granted_by)
		VALUES ($1, $2, 'owner', NULL)
	`
	SelectFileByID = `
		SELECT id, owner_id, bucket, file_name, storage_path, size_bytes, content_type, created_at, updated_at
		FROM files
		WHERE id = $1
	`
	SelectAccessibleFiles = `
		SELECT f.id, f.owner_id, f.bucket, f.file_name, f.storage_path, f.size_bytes, f.content_type,
		       f.created_at, f.updated_at, p.access_level
		FROM files f
		JOIN file_permissions p ON p.file_id = f.id
		WHERE p.user_id = $1
		ORDER BY f.created_at DESC, f.id
	`
	UpdateFileName = `
		UPDATE files
		SET file_name = $2, updated_at = now()
		WHERE id = $1
		RETURNING id, owner_id, bucket, file_name, storage_path, size_bytes, content_type, created_at, updated_at
	`
	DeleteFileByID = `
		DELETE FROM files
		WHERE id = $1
		RETURNING id, owner_id, bucket, file_name, storage_path, size_bytes, content_type, created_at, updated_at
	`

	LockFile = `
		SELECT id FROM files WHERE id = $1 FOR UPDATE
	`
	SelectPermissionLevel = `
		SELECT access_level
		FROM file_permissions
		WHERE file_id = $1 AND user_id = $2
	`
	CountOwners = `
		SELECT count(*)
		FROM file_permissions
		WHERE file_id = $1 AND access_level = 'owner'
	`
	UpsertPermission = `
		INSERT INTO file_permissions (file_id, user_id, access_level, granted_by)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (file_id, user_id)
		DO UPDATE SET access_level = EXCLUDED.access_level, granted_by = EXCLUDED.granted_by
	`
	DeletePermission = `
		DELETE FROM file_permissions
		WHERE file_id = $1 AND user_id = $2
	`
	SelectPermissions = `
		SELECT file_id, user_id, access_level, granted_by, created_at
		FROM file_permissions
		WHERE file_id = $1
		ORDER BY created_at, user_id
	`
)
