package services

import (
	"context"

	"file-storage-api/internal/domain/file"
)

// AccessControl answers permission questions from the repository on every
// call; nothing is cached, so a revoke takes effect on the next request.
type AccessControl struct {
	repo file.Repository
}

func NewAccessControl(repo file.Repository) *AccessControl {
	return &AccessControl{repo: repo}
}

// Authorize reports whether effective satisfies required.
func Authorize(effective, required file.Level) bool {
	return effective != file.LevelNone && effective.AtLeast(required)
}

// AuthorizeGrant reports whether a holder of effective may set any target
// level, revocation included. Only owners may.
func AuthorizeGrant(effective, _ file.Level) bool {
	return effective == file.LevelOwner
}

// EffectiveLevel is file.LevelNone for users without a record.
func (a *AccessControl) EffectiveLevel(ctx context.Context, userID string, fileID file.ID) (file.Level, error) {
	level, err := a.repo.FetchPermission(ctx, fileID, userID)
	if err != nil {
		return file.LevelNone, repoErr(err)
	}
	return level, nil
}

// Require returns the caller's level when it satisfies required. Users with no
// record get file.ErrFileNotFound, the same answer as for an absent file.
func (a *AccessControl) Require(ctx context.Context, userID string, fileID file.ID, required file.Level) (file.Level, error) {
	level, err := a.EffectiveLevel(ctx, userID, fileID)
	if err != nil {
		return file.LevelNone, err
	}
	if level == file.LevelNone {
		return file.LevelNone, file.ErrFileNotFound
	}
	if !Authorize(level, required) {
		return level, file.ErrForbidden
	}
	return level, nil
}

func (a *AccessControl) RequireGrant(ctx context.Context, granterID string, fileID file.ID, target file.Level) error {
	level, err := a.EffectiveLevel(ctx, granterID, fileID)
	if err != nil {
		return err
	}
	if level == file.LevelNone {
		return file.ErrFileNotFound
	}
	if !AuthorizeGrant(level, target) {
		return file.ErrForbidden
	}
	return nil
}
