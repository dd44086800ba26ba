package postgres

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Schema is idempotent; it is applied on every start.
const Schema = `
CREATE EXTENSION IF NOT EXISTS pgcrypto;

CREATE TABLE IF NOT EXISTS files (
    id           UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    owner_id     TEXT NOT NULL,
    bucket       TEXT NOT NULL,
    file_name    TEXT NOT NULL,
    storage_path TEXT NOT NULL,
    size_bytes   BIGINT NOT NULL CHECK (size_bytes > 0),
    content_type TEXT NOT NULL,
    created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
    UNIQUE (bucket, storage_path)
);
CREATE INDEX IF NOT EXISTS idx_files_created_at ON files (created_at);

CREATE TABLE IF NOT EXISTS file_permissions (
    file_id      UUID NOT NULL REFERENCES files (id) ON DELETE CASCADE,
    user_id      TEXT NOT NULL,
    access_level TEXT NOT NULL CHECK (access_level IN ('read', 'write', 'owner')),
    granted_by   TEXT,
    created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
    PRIMARY KEY (file_id, user_id)
);
CREATE INDEX IF NOT EXISTS idx_file_permissions_user_id ON file_permissions (user_id);
`

func EnsureSchema(ctx context.Context, logger *zap.Logger, db DB) error {
	if _, err := db.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}

	logger.Info("db schema ensured")

	return nil
}
