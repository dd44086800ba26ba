package file

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	domain "file-storage-api/internal/domain/file"
	"file-storage-api/internal/infrastructure/db/postgres"
)

type Repository struct {
	db postgres.DB
}

type rowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func NewRepository(db postgres.DB) domain.Repository {
	return &Repository{db: db}
}

func scanFile(row pgx.Row, f *File, extra ...any) error {
	dest := []any{
		&f.ID,
		&f.OwnerID,

		&f.Bucket,
		&f.FileName,
		&f.StoragePath,
		&f.SizeBytes,
		&f.ContentType,

		&f.CreatedAt,
		&f.UpdatedAt,
	}
	return row.Scan(append(dest, extra...)...)
}

func (r *Repository) withTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err = fn(tx); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}

	return tx.Commit(ctx)
}

func (r *Repository) CreateFile(ctx context.Context, req domain.NewFile) (*domain.File, error) {
	f := new(File)

	err := r.withTx(ctx, func(tx pgx.Tx) error {
		err := scanFile(tx.QueryRow(
			ctx,
			InsertFile,
			req.OwnerID, req.Bucket, req.FileName, req.StoragePath, req.SizeBytes, req.ContentType,
		), f)
		if err != nil {
			if postgres.IsPgUniqueViolation(err) {
				return domain.ErrPathTaken
			}
			return err
		}

		_, err = tx.Exec(ctx, InsertOwnerPermission, f.ID, f.OwnerID)
		return err
	})
	if err != nil {
		return nil, err
	}

	return fromDBModel(f), nil
}

func (r *Repository) FetchFile(ctx context.Context, id domain.ID) (*domain.File, error) {
	f := new(File)
	if err := scanFile(r.db.QueryRow(ctx, SelectFileByID, id), f); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrFileNotFound
		}
		return nil, err
	}

	return fromDBModel(f), nil
}

func (r *Repository) FetchAccessibleFiles(ctx context.Context, userID string) (domain.AccessibleFiles, error) {
	rows, err := r.db.Query(ctx, SelectAccessibleFiles, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var afs AccessibleFiles
	for rows.Next() {
		af := new(AccessibleFile)
		if err = scanFile(rows, &af.File, &af.AccessLevel); err != nil {
			return nil, err
		}

		afs = append(afs, af)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	return fromAccessibleDBModels(afs), nil
}

func (r *Repository) RenameFile(ctx context.Context, id domain.ID, name string) (*domain.File, error) {
	f := new(File)
	if err := scanFile(r.db.QueryRow(ctx, UpdateFileName, id, name), f); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrFileNotFound
		}
		return nil, err
	}

	return fromDBModel(f), nil
}

// DeleteFile removes the file row; permission rows go with it through the FK cascade.
func (r *Repository) DeleteFile(ctx context.Context, id domain.ID) (*domain.File, error) {
	f := new(File)
	if err := scanFile(r.db.QueryRow(ctx, DeleteFileByID, id), f); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrFileNotFound
		}
		return nil, err
	}

	return fromDBModel(f), nil
}

// lockFile takes the row lock every permission mutation serializes on.
func lockFile(ctx context.Context, tx pgx.Tx, fileID domain.ID) error {
	var id domain.ID
	if err := tx.QueryRow(ctx, LockFile, fileID).Scan(&id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrFileNotFound
		}
		return err
	}
	return nil
}

func currentLevel(ctx context.Context, q rowQuerier, fileID domain.ID, userID string) (domain.Level, error) {
	var level string
	if err := q.QueryRow(ctx, SelectPermissionLevel, fileID, userID).Scan(&level); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.LevelNone, nil
		}
		return domain.LevelNone, err
	}
	return domain.Level(level), nil
}

// ensureNotLastOwner must run after lockFile within the same tx.
func ensureNotLastOwner(ctx context.Context, tx pgx.Tx, fileID domain.ID) error {
	var owners int64
	if err := tx.QueryRow(ctx, CountOwners, fileID).Scan(&owners); err != nil {
		return err
	}
	if owners <= 1 {
		return domain.ErrLastOwner
	}
	return nil
}

func (r *Repository) UpsertPermission(ctx context.Context, fileID domain.ID, granteeID string, level domain.Level, grantedBy string) error {
	if !level.Valid() {
		return domain.ErrInvalidLevel
	}

	return r.withTx(ctx, func(tx pgx.Tx) error {
		if err := lockFile(ctx, tx, fileID); err != nil {
			return err
		}

		current, err := currentLevel(ctx, tx, fileID, granteeID)
		if err != nil {
			return err
		}
		if current == domain.LevelOwner && level != domain.LevelOwner {
			if err = ensureNotLastOwner(ctx, tx, fileID); err != nil {
				return err
			}
		}

		var by *string
		if grantedBy != "" {
			by = &grantedBy
		}
		_, err = tx.Exec(ctx, UpsertPermission, fileID, granteeID, string(level), by)
		return err
	})
}

func (r *Repository) DeletePermission(ctx context.Context, fileID domain.ID, granteeID string) error {
	return r.withTx(ctx, func(tx pgx.Tx) error {
		if err := lockFile(ctx, tx, fileID); err != nil {
			return err
		}

		current, err := currentLevel(ctx, tx, fileID, granteeID)
		if err != nil {
			return err
		}
		switch current {
		case domain.LevelNone:
			return domain.ErrPermissionNotFound
		case domain.LevelOwner:
			if err = ensureNotLastOwner(ctx, tx, fileID); err != nil {
				return err
			}
		}

		_, err = tx.Exec(ctx, DeletePermission, fileID, granteeID)
		return err
	})
}

func (r *Repository) FetchPermission(ctx context.Context, fileID domain.ID, userID string) (domain.Level, error) {
	return currentLevel(ctx, r.db, fileID, userID)
}

func (r *Repository) FetchPermissions(ctx context.Context, fileID domain.ID) (domain.Permissions, error) {
	rows, err := r.db.Query(ctx, SelectPermissions, fileID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ps Permissions
	for rows.Next() {
		p := new(Permission)
		if err = rows.Scan(
			&p.FileID,
			&p.UserID,
			&p.AccessLevel,
			&p.GrantedBy,
			&p.CreatedAt,
		); err != nil {
			return nil, err
		}

		ps = append(ps, p)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	return fromPermissionDBModels(ps), nil
}
