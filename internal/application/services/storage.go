package services

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"file-storage-api/config"
	"file-storage-api/internal/application/ports"
	"file-storage-api/internal/domain/caller"
	"file-storage-api/internal/domain/file"
	"file-storage-api/internal/infrastructure/metrics"
	"file-storage-api/internal/infrastructure/mq"
)

type StorageService struct {
	repo      file.Repository
	store     ports.ObjectStore
	access    *AccessControl
	anomalies ports.AnomalyReporter
	events    ports.EventPublisher
	cfg       config.Storage
	logger    *zap.Logger
	mCounter  *prometheus.CounterVec
	now       func() time.Time
}

func NewStorageService(
	repo file.Repository,
	store ports.ObjectStore,
	anomalies ports.AnomalyReporter,
	events ports.EventPublisher,
	cfg config.Storage,
	logger *zap.Logger,
	mCounter *prometheus.CounterVec,
) ports.StorageService {
	return &StorageService{
		repo:      repo,
		store:     store,
		access:    NewAccessControl(repo),
		anomalies: anomalies,
		events:    events,
		cfg:       cfg,
		logger:    logger,
		mCounter:  mCounter,
		now:       time.Now,
	}
}

type (
	uploadedPayload struct {
		Bucket      string `json:"bucket"`
		StoragePath string `json:"storage_path"`
		SizeBytes   int64  `json:"size_bytes"`
		ContentType string `json:"content_type"`
	}
	accessPayload struct {
		TargetUserID string `json:"target_user_id"`
		AccessLevel  string `json:"access_level,omitempty"`
	}
)

func upstream(err error) error {
	return fmt.Errorf("%w: %w", file.ErrUpstreamUnavailable, err)
}

// repoErr passes domain errors through and treats anything else as a store failure.
func repoErr(err error) error {
	switch {
	case errors.Is(err, file.ErrNotFound),
		errors.Is(err, file.ErrConflict),
		errors.Is(err, file.ErrInvalidArgument),
		errors.Is(err, file.ErrUpstreamUnavailable):
		return err
	}
	return upstream(err)
}

func (s *StorageService) publish(ctx context.Context, action, userID string, fileID file.ID, payload any) {
	if s.events == nil {
		return
	}
	s.events.Publish(ctx, mq.NewEvent(action, userID, fileID.String(), payload))
}

func (s *StorageService) validateFileName(raw string) (string, error) {
	name := displayName(raw)
	if name == "" {
		return "", file.ErrEmptyFileName
	}
	if !s.cfg.IsExtensionAllowed(path.Ext(name)) {
		return "", file.ErrExtensionNotAllowed
	}
	return name, nil
}

func (s *StorageService) CreateBucket(ctx context.Context, who caller.Identity, name string, public bool) error {
	if who.IsZero() {
		return caller.ErrAnonymous
	}
	if !file.ValidBucketName(name) {
		return file.ErrInvalidBucketName
	}

	if err := s.store.EnsureBucket(ctx, name, public); err != nil {
		if errors.Is(err, file.ErrConflict) {
			return err
		}
		return upstream(err)
	}

	metrics.Inc(s.mCounter, metrics.BucketsEnsured)

	return nil
}

// Upload writes the object before the record: a failed write leaves nothing
// behind, a failed insert is undone with a compensating delete.
func (s *StorageService) Upload(ctx context.Context, who caller.Identity, req ports.UploadRequest) (*file.File, error) {
	if who.IsZero() {
		return nil, caller.ErrAnonymous
	}

	name, err := s.validateFileName(req.FileName)
	if err != nil {
		return nil, err
	}
	if req.Size <= 0 || req.Body == nil {
		return nil, file.ErrEmptyFile
	}
	if s.cfg.MaxFileSize > 0 && req.Size > s.cfg.MaxFileSize {
		return nil, file.ErrFileTooLarge
	}

	bucket := strings.TrimSpace(req.Bucket)
	if bucket == "" {
		bucket = s.cfg.DefaultBucket
	}
	if !file.ValidBucketName(bucket) {
		return nil, file.ErrInvalidBucketName
	}

	contentType, body, err := resolveContentType(req.ContentType, name, req.Body)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}

	objectPath := storagePath(who.UserID(), name, s.now())
	if err = s.store.PutObject(ctx, bucket, objectPath, body, req.Size, contentType); err != nil {
		s.logger.Warn("object upload failed", zap.Error(err), zap.String("bucket", bucket))
		return nil, upstream(err)
	}

	f, err := s.repo.CreateFile(ctx, file.NewFile{
		OwnerID:     who.UserID(),
		Bucket:      bucket,
		FileName:    name,
		StoragePath: objectPath,
		SizeBytes:   req.Size,
		ContentType: contentType,
	})
	if err != nil {
		s.logger.Warn("file record insert failed, removing object", zap.Error(err), zap.String("storage_path", objectPath))
		if delErr := s.store.DeleteObject(context.WithoutCancel(ctx), bucket, objectPath); delErr != nil {
			s.anomalies.ReportOrphanedObject(ctx, file.OrphanedObject{
				Bucket:      bucket,
				StoragePath: objectPath,
				Reason:      "compensating delete after failed insert: " + delErr.Error(),
			})
		}
		return nil, repoErr(err)
	}

	s.publish(ctx, mq.ActionFileUploaded, who.UserID(), f.ID, uploadedPayload{
		Bucket:      f.Bucket,
		StoragePath: f.StoragePath,
		SizeBytes:   f.SizeBytes,
		ContentType: f.ContentType,
	})
	metrics.Inc(s.mCounter, metrics.FilesUploaded)

	return f, nil
}

func (s *StorageService) ListFiles(ctx context.Context, who caller.Identity) (file.AccessibleFiles, error) {
	if who.IsZero() {
		return nil, caller.ErrAnonymous
	}

	afs, err := s.repo.FetchAccessibleFiles(ctx, who.UserID())
	if err != nil {
		return nil, repoErr(err)
	}

	return afs, nil
}

func (s *StorageService) GetFile(ctx context.Context, who caller.Identity, id file.ID) (*file.AccessibleFile, error) {
	if who.IsZero() {
		return nil, caller.ErrAnonymous
	}

	level, err := s.access.Require(ctx, who.UserID(), id, file.LevelRead)
	if err != nil {
		return nil, err
	}

	f, err := s.repo.FetchFile(ctx, id)
	if err != nil {
		return nil, repoErr(err)
	}

	return &file.AccessibleFile{File: *f, Level: level}, nil
}

func (s *StorageService) RenameFile(ctx context.Context, who caller.Identity, id file.ID, name string) (*file.AccessibleFile, error) {
	if who.IsZero() {
		return nil, caller.ErrAnonymous
	}

	name, err := s.validateFileName(name)
	if err != nil {
		return nil, err
	}

	level, err := s.access.Require(ctx, who.UserID(), id, file.LevelWrite)
	if err != nil {
		return nil, err
	}

	f, err := s.repo.RenameFile(ctx, id, name)
	if err != nil {
		return nil, repoErr(err)
	}

	metrics.Inc(s.mCounter, metrics.FilesRenamed)

	return &file.AccessibleFile{File: *f, Level: level}, nil
}

// DeleteFile drops the record before the object so the file is unreachable at
// once; an object left behind is reported, not returned.
func (s *StorageService) DeleteFile(ctx context.Context, who caller.Identity, id file.ID) error {
	if who.IsZero() {
		return caller.ErrAnonymous
	}

	if _, err := s.access.Require(ctx, who.UserID(), id, file.LevelOwner); err != nil {
		return err
	}

	f, err := s.repo.DeleteFile(ctx, id)
	if err != nil {
		return repoErr(err)
	}

	if err = s.store.DeleteObject(context.WithoutCancel(ctx), f.Bucket, f.StoragePath); err != nil {
		s.anomalies.ReportOrphanedObject(ctx, file.OrphanedObject{
			FileID:      f.ID.String(),
			Bucket:      f.Bucket,
			StoragePath: f.StoragePath,
			Reason:      "object delete after record removal: " + err.Error(),
		})
	}

	s.publish(ctx, mq.ActionFileDeleted, who.UserID(), f.ID, nil)
	metrics.Inc(s.mCounter, metrics.FilesDeleted)

	return nil
}

// DownloadURL re-checks access on every call. A URL already handed out stays
// valid until it expires, revocation does not reach it.
func (s *StorageService) DownloadURL(ctx context.Context, who caller.Identity, id file.ID) (*ports.SignedURL, error) {
	if who.IsZero() {
		return nil, caller.ErrAnonymous
	}

	if _, err := s.access.Require(ctx, who.UserID(), id, file.LevelRead); err != nil {
		return nil, err
	}

	f, err := s.repo.FetchFile(ctx, id)
	if err != nil {
		return nil, repoErr(err)
	}

	url, err := s.store.SignDownloadURL(ctx, f.Bucket, f.StoragePath, s.cfg.SignedURLTTL)
	if err != nil {
		return nil, upstream(err)
	}

	metrics.Inc(s.mCounter, metrics.DownloadURLsIssued)

	return &ports.SignedURL{URL: url, ExpiresIn: s.cfg.SignedURLTTL}, nil
}

func (s *StorageService) GetAccess(ctx context.Context, who caller.Identity, id file.ID) (file.Level, error) {
	if who.IsZero() {
		return file.LevelNone, caller.ErrAnonymous
	}

	return s.access.EffectiveLevel(ctx, who.UserID(), id)
}

// GrantAccess replaces whatever target held. Granting owner adds a co-owner.
func (s *StorageService) GrantAccess(ctx context.Context, who caller.Identity, id file.ID, targetUserID string, level file.Level) error {
	if who.IsZero() {
		return caller.ErrAnonymous
	}

	targetUserID = strings.TrimSpace(targetUserID)
	if targetUserID == "" {
		return file.ErrEmptyTargetUser
	}
	if !level.Valid() {
		return file.ErrInvalidLevel
	}

	if err := s.access.RequireGrant(ctx, who.UserID(), id, level); err != nil {
		return err
	}

	if err := s.repo.UpsertPermission(ctx, id, targetUserID, level, who.UserID()); err != nil {
		return repoErr(err)
	}

	s.publish(ctx, mq.ActionAccessGranted, who.UserID(), id, accessPayload{
		TargetUserID: targetUserID,
		AccessLevel:  string(level),
	})
	metrics.Inc(s.mCounter, metrics.AccessGranted)

	return nil
}

func (s *StorageService) RevokeAccess(ctx context.Context, who caller.Identity, id file.ID, targetUserID string) error {
	if who.IsZero() {
		return caller.ErrAnonymous
	}

	targetUserID = strings.TrimSpace(targetUserID)
	if targetUserID == "" {
		return file.ErrEmptyTargetUser
	}

	if err := s.access.RequireGrant(ctx, who.UserID(), id, file.LevelNone); err != nil {
		return err
	}

	if err := s.repo.DeletePermission(ctx, id, targetUserID); err != nil {
		return repoErr(err)
	}

	s.publish(ctx, mq.ActionAccessRevoked, who.UserID(), id, accessPayload{TargetUserID: targetUserID})
	metrics.Inc(s.mCounter, metrics.AccessRevoked)

	return nil
}

func (s *StorageService) ListPermissions(ctx context.Context, who caller.Identity, id file.ID) (file.Permissions, error) {
	if who.IsZero() {
		return nil, caller.ErrAnonymous
	}

	if _, err := s.access.Require(ctx, who.UserID(), id, file.LevelOwner); err != nil {
		return nil, err
	}

	ps, err := s.repo.FetchPermissions(ctx, id)
	if err != nil {
		return nil, repoErr(err)
	}

	return ps, nil
}
