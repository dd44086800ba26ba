package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	jwtv5 "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"file-storage-api/internal/application/ports"
	"file-storage-api/internal/domain/caller"
	"file-storage-api/internal/domain/file"
	jwtSvc "file-storage-api/internal/infrastructure/jwt"
)

const testSecret = "test-secret"

type FakeStorageService struct {
	CreateBucketFunc    func(ctx context.Context, who caller.Identity, name string, public bool) error
	UploadFunc          func(ctx context.Context, who caller.Identity, req ports.UploadRequest) (*file.File, error)
	ListFilesFunc       func(ctx context.Context, who caller.Identity) (file.AccessibleFiles, error)
	GetFileFunc         func(ctx context.Context, who caller.Identity, id file.ID) (*file.AccessibleFile, error)
	RenameFileFunc      func(ctx context.Context, who caller.Identity, id file.ID, name string) (*file.AccessibleFile, error)
	DeleteFileFunc      func(ctx context.Context, who caller.Identity, id file.ID) error
	DownloadURLFunc     func(ctx context.Context, who caller.Identity, id file.ID) (*ports.SignedURL, error)
	GetAccessFunc       func(ctx context.Context, who caller.Identity, id file.ID) (file.Level, error)
	GrantAccessFunc     func(ctx context.Context, who caller.Identity, id file.ID, target string, level file.Level) error
	RevokeAccessFunc    func(ctx context.Context, who caller.Identity, id file.ID, target string) error
	ListPermissionsFunc func(ctx context.Context, who caller.Identity, id file.ID) (file.Permissions, error)
}

var errNotUsed = errors.New("not used")

func (f *FakeStorageService) CreateBucket(ctx context.Context, who caller.Identity, name string, public bool) error {
	if f.CreateBucketFunc == nil {
		return errNotUsed
	}
	return f.CreateBucketFunc(ctx, who, name, public)
}
func (f *FakeStorageService) Upload(ctx context.Context, who caller.Identity, req ports.UploadRequest) (*file.File, error) {
	if f.UploadFunc == nil {
		return nil, errNotUsed
	}
	return f.UploadFunc(ctx, who, req)
}
func (f *FakeStorageService) ListFiles(ctx context.Context, who caller.Identity) (file.AccessibleFiles, error) {
	if f.ListFilesFunc == nil {
		return nil, errNotUsed
	}
	return f.ListFilesFunc(ctx, who)
}
func (f *FakeStorageService) GetFile(ctx context.Context, who caller.Identity, id file.ID) (*file.AccessibleFile, error) {
	if f.GetFileFunc == nil {
		return nil, errNotUsed
	}
	return f.GetFileFunc(ctx, who, id)
}
func (f *FakeStorageService) RenameFile(ctx context.Context, who caller.Identity, id file.ID, name string) (*file.AccessibleFile, error) {
	if f.RenameFileFunc == nil {
		return nil, errNotUsed
	}
	return f.RenameFileFunc(ctx, who, id, name)
}
func (f *FakeStorageService) DeleteFile(ctx context.Context, who caller.Identity, id file.ID) error {
	if f.DeleteFileFunc == nil {
		return errNotUsed
	}
	return f.DeleteFileFunc(ctx, who, id)
}
func (f *FakeStorageService) DownloadURL(ctx context.Context, who caller.Identity, id file.ID) (*ports.SignedURL, error) {
	if f.DownloadURLFunc == nil {
		return nil, errNotUsed
	}
	return f.DownloadURLFunc(ctx, who, id)
}
func (f *FakeStorageService) GetAccess(ctx context.Context, who caller.Identity, id file.ID) (file.Level, error) {
	if f.GetAccessFunc == nil {
		return file.LevelNone, errNotUsed
	}
	return f.GetAccessFunc(ctx, who, id)
}
func (f *FakeStorageService) GrantAccess(ctx context.Context, who caller.Identity, id file.ID, target string, level file.Level) error {
	if f.GrantAccessFunc == nil {
		return errNotUsed
	}
	return f.GrantAccessFunc(ctx, who, id, target, level)
}
func (f *FakeStorageService) RevokeAccess(ctx context.Context, who caller.Identity, id file.ID, target string) error {
	if f.RevokeAccessFunc == nil {
		return errNotUsed
	}
	return f.RevokeAccessFunc(ctx, who, id, target)
}
func (f *FakeStorageService) ListPermissions(ctx context.Context, who caller.Identity, id file.ID) (file.Permissions, error) {
	if f.ListPermissionsFunc == nil {
		return nil, errNotUsed
	}
	return f.ListPermissionsFunc(ctx, who, id)
}

func SignJWT(secret, userID string, exp time.Duration) (string, error) {
	claims := jwtSvc.Claims{
		UserID: userID,
		RegisteredClaims: jwtv5.RegisteredClaims{
			ExpiresAt: jwtv5.NewNumericDate(time.Now().Add(exp)),
		},
	}
	token := jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func authHeader(t *testing.T, userID string) map[string]string {
	t.Helper()
	tok, err := SignJWT(testSecret, userID, time.Hour)
	require.NoError(t, err)
	return map[string]string{"Authorization": "Bearer " + tok}
}

func setupRouterSC(t *testing.T, ss ports.StorageService, maxFileSize int64) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	r := gin.New()
	NewStorageController(r, ss, zap.NewNop(), jwtSvc.New(testSecret), maxFileSize)
	return r
}

func doReq(t *testing.T, r *gin.Engine, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	switch v := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(v))
	default:
		b, err := json.Marshal(v)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func doMultipartReq(t *testing.T, r *gin.Engine, path string, fields map[string]string, fileName string, content []byte, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var b bytes.Buffer
	w := multipart.NewWriter(&b)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if fileName != "" {
		fw, err := w.CreateFormFile("file", fileName)
		require.NoError(t, err)
		_, _ = fw.Write(content)
	}
	require.NoError(t, w.Close())

	req, err := http.NewRequest(http.MethodPost, path, &b)
	require.NoError(t, err)
	req.Header.Set("Content-Type", w.FormDataContentType())
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func decode(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var resp map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp
}

func filePath(id uuid.UUID, suffix string) string {
	return RouteFiles + "/" + id.String() + suffix
}

func TestStorageController_Auth(t *testing.T) {
	expired, err := SignJWT(testSecret, "u1", -time.Minute)
	require.NoError(t, err)
	foreign, err := SignJWT("other-secret", "u1", time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name    string
		headers map[string]string
		wantErr string
	}{
		{name: "missing header", headers: nil, wantErr: "missing Authorization header"},
		{name: "bad format", headers: map[string]string{"Authorization": "Token abc"}, wantErr: "invalid token format"},
		{name: "bad signature", headers: map[string]string{"Authorization": "Bearer " + foreign}, wantErr: "invalid token"},
		{name: "expired", headers: map[string]string{"Authorization": "Bearer " + expired}, wantErr: "invalid token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			r := setupRouterSC(t, &FakeStorageService{
				ListFilesFunc: func(ctx context.Context, who caller.Identity) (file.AccessibleFiles, error) {
					called = true
					return nil, nil
				},
			}, 1<<20)

			rr := doReq(t, r, http.MethodGet, RouteFiles, nil, tt.headers)

			require.Equal(t, http.StatusUnauthorized, rr.Code)
			assert.Equal(t, tt.wantErr, decode(t, rr)["error"])
			assert.False(t, called)
		})
	}
}

func TestStorageController_ErrorMapping(t *testing.T) {
	id := uuid.New()

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantErr    string
	}{
		{"anonymous", caller.ErrAnonymous, http.StatusUnauthorized, "unauthorized"},
		{"not found", file.ErrFileNotFound, http.StatusNotFound, "file not found"},
		{"forbidden", file.ErrForbidden, http.StatusForbidden, "access denied"},
		{"conflict", file.ErrLastOwner, http.StatusConflict, file.ErrLastOwner.Error()},
		{"invalid", file.ErrEmptyFileName, http.StatusBadRequest, file.ErrEmptyFileName.Error()},
		{"too large", file.ErrFileTooLarge, http.StatusRequestEntityTooLarge, file.ErrFileTooLarge.Error()},
		{"upstream", errors.Join(file.ErrUpstreamUnavailable, errors.New("dial tcp: refused")), http.StatusServiceUnavailable, "storage temporarily unavailable"},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError, "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := setupRouterSC(t, &FakeStorageService{
				GetFileFunc: func(ctx context.Context, who caller.Identity, got file.ID) (*file.AccessibleFile, error) {
					return nil, tt.err
				},
			}, 1<<20)

			rr := doReq(t, r, http.MethodGet, filePath(id, ""), nil, authHeader(t, "u1"))

			require.Equal(t, tt.wantStatus, rr.Code)
			resp := decode(t, rr)
			assert.Equal(t, tt.wantErr, resp["error"])
			assert.Equal(t, false, resp["success"])
		})
	}
}

func TestStorageController_InvalidFileID(t *testing.T) {
	r := setupRouterSC(t, &FakeStorageService{}, 1<<20)

	for _, path := range []string{
		RouteFiles + "/not-uuid",
		RouteFiles + "/not-uuid/download",
		RouteFiles + "/not-uuid/access",
		RouteFiles + "/not-uuid/permissions",
	} {
		rr := doReq(t, r, http.MethodGet, path, nil, authHeader(t, "u1"))
		require.Equal(t, http.StatusBadRequest, rr.Code, path)
		assert.Equal(t, "file_id must be a valid UUID", decode(t, rr)["error"])
	}
}

func TestStorageController_CreateBucketHandler(t *testing.T) {
	tests := []struct {
		name       string
		body       any
		svcErr     error
		wantStatus int
		wantDetail string
	}{
		{name: "201 created", body: map[string]any{"bucket_name": "team-docs", "public": true}, wantStatus: http.StatusCreated},
		{name: "400 bad name", body: map[string]any{"bucket_name": "Bad_Name"}, wantStatus: http.StatusBadRequest, wantDetail: "bucket_name"},
		{name: "400 missing name", body: map[string]any{}, wantStatus: http.StatusBadRequest, wantDetail: "bucket_name"},
		{name: "400 malformed json", body: "{", wantStatus: http.StatusBadRequest},
		{name: "409 visibility mismatch", body: map[string]any{"bucket_name": "team-docs"}, svcErr: file.ErrBucketConflict, wantStatus: http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotName string
			var gotPublic bool
			r := setupRouterSC(t, &FakeStorageService{
				CreateBucketFunc: func(ctx context.Context, who caller.Identity, name string, public bool) error {
					gotName, gotPublic = name, public
					return tt.svcErr
				},
			}, 1<<20)

			rr := doReq(t, r, http.MethodPost, RouteBuckets, tt.body, authHeader(t, "u1"))

			require.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantDetail != "" {
				details, ok := decode(t, rr)["details"].(map[string]any)
				require.True(t, ok)
				assert.Contains(t, details, tt.wantDetail)
			}
			if tt.wantStatus == http.StatusCreated {
				assert.Equal(t, "team-docs", gotName)
				assert.True(t, gotPublic)
				assert.Equal(t, true, decode(t, rr)["success"])
			}
		})
	}
}

func TestStorageController_UploadHandler(t *testing.T) {
	id := uuid.New()
	now := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)

	t.Run("201 passes the part through", func(t *testing.T) {
		var got ports.UploadRequest
		var gotBody []byte
		var gotUser string
		r := setupRouterSC(t, &FakeStorageService{
			UploadFunc: func(ctx context.Context, who caller.Identity, req ports.UploadRequest) (*file.File, error) {
				got, gotUser = req, who.UserID()
				gotBody, _ = io.ReadAll(req.Body)
				return &file.File{
					ID: id, OwnerID: "u1", Bucket: "docs", FileName: req.FileName,
					StoragePath: "u1/2026/10/01/x/report.pdf", SizeBytes: req.Size,
					ContentType: "application/pdf", CreatedAt: now, UpdatedAt: now,
				}, nil
			},
		}, 1<<20)

		rr := doMultipartReq(t, r, RouteFiles, map[string]string{"bucket_name": "docs"},
			"report.pdf", []byte("%PDF-1.7"), authHeader(t, "u1"))

		require.Equal(t, http.StatusCreated, rr.Code)
		assert.Equal(t, "u1", gotUser)
		assert.Equal(t, "docs", got.Bucket)
		assert.Equal(t, "report.pdf", got.FileName)
		assert.Equal(t, int64(8), got.Size)
		assert.Equal(t, "application/octet-stream", got.ContentType)
		assert.Equal(t, []byte("%PDF-1.7"), gotBody)

		resp := decode(t, rr)
		assert.Equal(t, id.String(), resp["id"])
		assert.Equal(t, "report.pdf", resp["file_name"])
		assert.NotContains(t, resp, "access_level")
	})

	t.Run("400 file is required", func(t *testing.T) {
		r := setupRouterSC(t, &FakeStorageService{}, 1<<20)

		rr := doMultipartReq(t, r, RouteFiles, map[string]string{"bucket_name": "docs"}, "", nil, authHeader(t, "u1"))

		require.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "file is required", decode(t, rr)["error"])
	})

	t.Run("413 body over the limit", func(t *testing.T) {
		called := false
		r := setupRouterSC(t, &FakeStorageService{
			UploadFunc: func(ctx context.Context, who caller.Identity, req ports.UploadRequest) (*file.File, error) {
				called = true
				return nil, nil
			},
		}, 16)

		rr := doMultipartReq(t, r, RouteFiles, nil, "big.bin", bytes.Repeat([]byte("x"), 2<<20), authHeader(t, "u1"))

		require.Equal(t, http.StatusRequestEntityTooLarge, rr.Code)
		assert.False(t, called)
	})

	t.Run("400 rejected extension", func(t *testing.T) {
		r := setupRouterSC(t, &FakeStorageService{
			UploadFunc: func(ctx context.Context, who caller.Identity, req ports.UploadRequest) (*file.File, error) {
				return nil, file.ErrExtensionNotAllowed
			},
		}, 1<<20)

		rr := doMultipartReq(t, r, RouteFiles, nil, "run.exe", []byte("MZ"), authHeader(t, "u1"))

		require.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, file.ErrExtensionNotAllowed.Error(), decode(t, rr)["error"])
	})
}

func TestStorageController_ListFilesHandler(t *testing.T) {
	id := uuid.New()
	r := setupRouterSC(t, &FakeStorageService{
		ListFilesFunc: func(ctx context.Context, who caller.Identity) (file.AccessibleFiles, error) {
			return file.AccessibleFiles{
				{File: file.File{ID: id, OwnerID: "u2", FileName: "a.txt"}, Level: file.LevelRead},
			}, nil
		},
	}, 1<<20)

	rr := doReq(t, r, http.MethodGet, RouteFiles, nil, authHeader(t, "u1"))

	require.Equal(t, http.StatusOK, rr.Code)
	data, ok := decode(t, rr)["data"].([]any)
	require.True(t, ok)
	require.Len(t, data, 1)
	item := data[0].(map[string]any)
	assert.Equal(t, id.String(), item["id"])
	assert.Equal(t, "read", item["access_level"])
}

func TestStorageController_RenameFileHandler(t *testing.T) {
	id := uuid.New()

	tests := []struct {
		name       string
		body       any
		wantStatus int
	}{
		{name: "200 renamed", body: map[string]string{"file_name": "final.pdf"}, wantStatus: http.StatusOK},
		{name: "400 missing name", body: map[string]string{}, wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := setupRouterSC(t, &FakeStorageService{
				RenameFileFunc: func(ctx context.Context, who caller.Identity, got file.ID, name string) (*file.AccessibleFile, error) {
					assert.Equal(t, id, got)
					return &file.AccessibleFile{File: file.File{ID: got, FileName: name}, Level: file.LevelWrite}, nil
				},
			}, 1<<20)

			rr := doReq(t, r, http.MethodPatch, filePath(id, ""), tt.body, authHeader(t, "u1"))

			require.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantStatus == http.StatusOK {
				resp := decode(t, rr)
				assert.Equal(t, "final.pdf", resp["file_name"])
				assert.Equal(t, "write", resp["access_level"])
			}
		})
	}
}

func TestStorageController_DeleteFileHandler(t *testing.T) {
	id := uuid.New()
	r := setupRouterSC(t, &FakeStorageService{
		DeleteFileFunc: func(ctx context.Context, who caller.Identity, got file.ID) error {
			if who.UserID() != "owner" {
				return file.ErrForbidden
			}
			return nil
		},
	}, 1<<20)

	rr := doReq(t, r, http.MethodDelete, filePath(id, ""), nil, authHeader(t, "reader"))
	require.Equal(t, http.StatusForbidden, rr.Code)

	rr = doReq(t, r, http.MethodDelete, filePath(id, ""), nil, authHeader(t, "owner"))
	require.Equal(t, http.StatusOK, rr.Code)
	resp := decode(t, rr)
	assert.Equal(t, "file deleted", resp["message"])
	assert.Equal(t, true, resp["success"])
}

func TestStorageController_Download(t *testing.T) {
	id := uuid.New()
	const signed = "https://objects.example.com/docs/u1/report.pdf?X-Amz-Signature=abc"
	ss := &FakeStorageService{
		DownloadURLFunc: func(ctx context.Context, who caller.Identity, got file.ID) (*ports.SignedURL, error) {
			return &ports.SignedURL{URL: signed, ExpiresIn: time.Hour}, nil
		},
	}

	t.Run("json", func(t *testing.T) {
		r := setupRouterSC(t, ss, 1<<20)
		rr := doReq(t, r, http.MethodGet, filePath(id, "/download"), nil, authHeader(t, "u1"))

		require.Equal(t, http.StatusOK, rr.Code)
		resp := decode(t, rr)
		assert.Equal(t, signed, resp["download_url"])
		assert.Equal(t, float64(3600), resp["expires_in"])
	})

	t.Run("redirect", func(t *testing.T) {
		r := setupRouterSC(t, ss, 1<<20)
		rr := doReq(t, r, http.MethodGet, filePath(id, "/redirect"), nil, authHeader(t, "u1"))

		require.Equal(t, http.StatusTemporaryRedirect, rr.Code)
		assert.Equal(t, signed, rr.Header().Get("Location"))
	})
}

func TestStorageController_GetAccessHandler(t *testing.T) {
	id := uuid.New()
	level := file.LevelNone
	r := setupRouterSC(t, &FakeStorageService{
		GetAccessFunc: func(ctx context.Context, who caller.Identity, got file.ID) (file.Level, error) {
			return level, nil
		},
	}, 1<<20)

	rr := doReq(t, r, http.MethodGet, filePath(id, "/access"), nil, authHeader(t, "u1"))
	require.Equal(t, http.StatusOK, rr.Code)
	resp := decode(t, rr)
	assert.Equal(t, id.String(), resp["file_id"])
	assert.Contains(t, resp, "access_level")
	assert.Nil(t, resp["access_level"])

	level = file.LevelOwner
	rr = doReq(t, r, http.MethodGet, filePath(id, "/access"), nil, authHeader(t, "u1"))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "owner", decode(t, rr)["access_level"])
}

func TestStorageController_GrantAccessHandler(t *testing.T) {
	id := uuid.New()

	tests := []struct {
		name       string
		body       any
		svcErr     error
		wantStatus int
		wantDetail string
	}{
		{name: "200 granted", body: map[string]string{"target_user_id": "u2", "access_level": "write"}, wantStatus: http.StatusOK},
		{name: "400 unknown level", body: map[string]string{"target_user_id": "u2", "access_level": "admin"}, wantStatus: http.StatusBadRequest, wantDetail: "access_level"},
		{name: "400 missing target", body: map[string]string{"access_level": "read"}, wantStatus: http.StatusBadRequest, wantDetail: "target_user_id"},
		{name: "403 not owner", body: map[string]string{"target_user_id": "u2", "access_level": "read"}, svcErr: file.ErrForbidden, wantStatus: http.StatusForbidden},
		{name: "409 last owner", body: map[string]string{"target_user_id": "u1", "access_level": "read"}, svcErr: file.ErrLastOwner, wantStatus: http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotTarget string
			var gotLevel file.Level
			r := setupRouterSC(t, &FakeStorageService{
				GrantAccessFunc: func(ctx context.Context, who caller.Identity, got file.ID, target string, level file.Level) error {
					gotTarget, gotLevel = target, level
					return tt.svcErr
				},
			}, 1<<20)

			rr := doReq(t, r, http.MethodPost, filePath(id, "/access"), tt.body, authHeader(t, "u1"))

			require.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantDetail != "" {
				details, ok := decode(t, rr)["details"].(map[string]any)
				require.True(t, ok)
				assert.Contains(t, details, tt.wantDetail)
			}
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, "u2", gotTarget)
				assert.Equal(t, file.LevelWrite, gotLevel)
			}
		})
	}
}

func TestStorageController_RevokeAccessHandler(t *testing.T) {
	id := uuid.New()

	t.Run("200 revoked", func(t *testing.T) {
		var gotTarget string
		r := setupRouterSC(t, &FakeStorageService{
			RevokeAccessFunc: func(ctx context.Context, who caller.Identity, got file.ID, target string) error {
				gotTarget = target
				return nil
			},
		}, 1<<20)

		rr := doReq(t, r, http.MethodDelete, filePath(id, "/access/u2"), nil, authHeader(t, "u1"))

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "u2", gotTarget)
		assert.Equal(t, true, decode(t, rr)["success"])
	})

	t.Run("404 no such permission", func(t *testing.T) {
		r := setupRouterSC(t, &FakeStorageService{
			RevokeAccessFunc: func(ctx context.Context, who caller.Identity, got file.ID, target string) error {
				return file.ErrPermissionNotFound
			},
		}, 1<<20)

		rr := doReq(t, r, http.MethodDelete, filePath(id, "/access/u9"), nil, authHeader(t, "u1"))

		require.Equal(t, http.StatusNotFound, rr.Code)
		assert.Equal(t, "permission not found", decode(t, rr)["error"])
	})
}

func TestStorageController_ListPermissionsHandler(t *testing.T) {
	id := uuid.New()
	granter := "u1"
	r := setupRouterSC(t, &FakeStorageService{
		ListPermissionsFunc: func(ctx context.Context, who caller.Identity, got file.ID) (file.Permissions, error) {
			return file.Permissions{
				{FileID: got, UserID: "u1", Level: file.LevelOwner},
				{FileID: got, UserID: "u2", Level: file.LevelRead, GrantedBy: &granter},
			}, nil
		},
	}, 1<<20)

	rr := doReq(t, r, http.MethodGet, filePath(id, "/permissions"), nil, authHeader(t, "u1"))

	require.Equal(t, http.StatusOK, rr.Code)
	data, ok := decode(t, rr)["data"].([]any)
	require.True(t, ok)
	require.Len(t, data, 2)
	assert.Nil(t, data[0].(map[string]any)["granted_by"])
	assert.Equal(t, "u1", data[1].(map[string]any)["granted_by"])
}
