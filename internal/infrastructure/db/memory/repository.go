// Package memory is a process-local metadata store for development and tests.
// A single mutex gives it the same atomicity the postgres repository gets from
// row locks.
package memory

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	domain "file-storage-api/internal/domain/file"
)

type pathKey struct {
	bucket string
	path   string
}

type record struct {
	file domain.File
	seq  uint64
}

type Repository struct {
	mu sync.Mutex

	seq   uint64
	files map[domain.ID]*record
	perms map[domain.ID]map[string]*domain.Permission
	// paths are never released, deleted files keep their path reserved
	paths map[pathKey]struct{}

	now func() time.Time
}

func NewRepository() *Repository {
	return &Repository{
		files: make(map[domain.ID]*record),
		perms: make(map[domain.ID]map[string]*domain.Permission),
		paths: make(map[pathKey]struct{}),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

var _ domain.Repository = (*Repository)(nil)

func (r *Repository) CreateFile(_ context.Context, req domain.NewFile) (*domain.File, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := pathKey{bucket: req.Bucket, path: req.StoragePath}
	if _, taken := r.paths[key]; taken {
		return nil, domain.ErrPathTaken
	}

	now := r.now()
	r.seq++
	rec := &record{
		seq: r.seq,
		file: domain.File{
			ID:          uuid.New(),
			OwnerID:     req.OwnerID,
			Bucket:      req.Bucket,
			FileName:    req.FileName,
			StoragePath: req.StoragePath,
			SizeBytes:   req.SizeBytes,
			ContentType: req.ContentType,
			CreatedAt:   now,
			UpdatedAt:   now,
		},
	}

	r.paths[key] = struct{}{}
	r.files[rec.file.ID] = rec
	r.perms[rec.file.ID] = map[string]*domain.Permission{
		req.OwnerID: {
			FileID:    rec.file.ID,
			UserID:    req.OwnerID,
			Level:     domain.LevelOwner,
			CreatedAt: now,
		},
	}

	f := rec.file
	return &f, nil
}

func (r *Repository) FetchFile(_ context.Context, id domain.ID) (*domain.File, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.files[id]
	if !ok {
		return nil, domain.ErrFileNotFound
	}

	f := rec.file
	return &f, nil
}

func (r *Repository) FetchAccessibleFiles(_ context.Context, userID string) (domain.AccessibleFiles, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	type visible struct {
		af  *domain.AccessibleFile
		seq uint64
	}
	var out []visible
	for id, perms := range r.perms {
		p, ok := perms[userID]
		if !ok {
			continue
		}
		rec := r.files[id]
		out = append(out, visible{af: &domain.AccessibleFile{File: rec.file, Level: p.Level}, seq: rec.seq})
	}

	// newest first, same as the postgres ordering
	slices.SortFunc(out, func(a, b visible) int {
		if c := b.af.CreatedAt.Compare(a.af.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.seq, a.seq)
	})

	afs := make(domain.AccessibleFiles, len(out))
	for i, v := range out {
		afs[i] = v.af
	}
	return afs, nil
}

func (r *Repository) RenameFile(_ context.Context, id domain.ID, name string) (*domain.File, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.files[id]
	if !ok {
		return nil, domain.ErrFileNotFound
	}
	rec.file.FileName = name
	rec.file.UpdatedAt = r.now()

	f := rec.file
	return &f, nil
}

func (r *Repository) DeleteFile(_ context.Context, id domain.ID) (*domain.File, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.files[id]
	if !ok {
		return nil, domain.ErrFileNotFound
	}
	delete(r.files, id)
	delete(r.perms, id)

	f := rec.file
	return &f, nil
}

// ensureNotLastOwner must be called with r.mu held.
func (r *Repository) ensureNotLastOwner(fileID domain.ID) error {
	owners := 0
	for _, p := range r.perms[fileID] {
		if p.Level == domain.LevelOwner {
			owners++
		}
	}
	if owners <= 1 {
		return domain.ErrLastOwner
	}
	return nil
}

func (r *Repository) UpsertPermission(_ context.Context, fileID domain.ID, granteeID string, level domain.Level, grantedBy string) error {
	if !level.Valid() {
		return domain.ErrInvalidLevel
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	perms, ok := r.perms[fileID]
	if !ok {
		return domain.ErrFileNotFound
	}

	current := perms[granteeID]
	if current != nil && current.Level == domain.LevelOwner && level != domain.LevelOwner {
		if err := r.ensureNotLastOwner(fileID); err != nil {
			return err
		}
	}

	var by *string
	if grantedBy != "" {
		by = &grantedBy
	}
	if current != nil {
		current.Level = level
		current.GrantedBy = by
		return nil
	}

	perms[granteeID] = &domain.Permission{
		FileID:    fileID,
		UserID:    granteeID,
		Level:     level,
		GrantedBy: by,
		CreatedAt: r.now(),
	}
	return nil
}

func (r *Repository) DeletePermission(_ context.Context, fileID domain.ID, granteeID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	perms, ok := r.perms[fileID]
	if !ok {
		return domain.ErrFileNotFound
	}
	current, ok := perms[granteeID]
	if !ok {
		return domain.ErrPermissionNotFound
	}
	if current.Level == domain.LevelOwner {
		if err := r.ensureNotLastOwner(fileID); err != nil {
			return err
		}
	}

	delete(perms, granteeID)
	return nil
}

func (r *Repository) FetchPermission(_ context.Context, fileID domain.ID, userID string) (domain.Level, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if p, ok := r.perms[fileID][userID]; ok {
		return p.Level, nil
	}
	return domain.LevelNone, nil
}

func (r *Repository) FetchPermissions(_ context.Context, fileID domain.ID) (domain.Permissions, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	perms := r.perms[fileID]
	ps := make(domain.Permissions, 0, len(perms))
	for _, p := range perms {
		cp := *p
		ps = append(ps, &cp)
	}
	slices.SortFunc(ps, func(a, b *domain.Permission) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.UserID, b.UserID)
	})
	return ps, nil
}
