package rest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"file-storage-api/internal/application/ports"
	"file-storage-api/internal/domain/caller"
	"file-storage-api/internal/domain/file"
	dto "file-storage-api/internal/interface/api/rest/dto/file"
	"file-storage-api/internal/interface/api/rest/middleware"
	"file-storage-api/internal/interface/api/rest/validator"
)

// multipart framing on top of the file itself
const multipartOverhead = int64(1 << 20)

type StorageController struct {
	storageService ports.StorageService
	logger         *zap.Logger
	maxBodyBytes   int64
}

func NewStorageController(
	r *gin.Engine,
	storageService ports.StorageService,
	logger *zap.Logger,
	tokens ports.TokenValidator,
	maxFileSize int64,
) *StorageController {
	sc := &StorageController{
		storageService: storageService,
		logger:         logger,
		maxBodyBytes:   maxFileSize + multipartOverhead,
	}

	auth := middleware.AuthMiddleware(tokens)

	r.POST(RouteBuckets, auth, sc.CreateBucketHandler)

	r.GET(RouteFiles, auth, sc.ListFilesHandler)
	r.POST(RouteFiles, auth, sc.UploadHandler)
	r.GET(RouteFile, auth, sc.GetFileHandler)
	r.PATCH(RouteFile, auth, sc.RenameFileHandler)
	r.DELETE(RouteFile, auth, sc.DeleteFileHandler)

	r.GET(RouteDownload, auth, sc.DownloadURLHandler)
	r.GET(RouteRedirect, auth, sc.RedirectHandler)

	r.GET(RouteAccess, auth, sc.GetAccessHandler)
	r.POST(RouteAccess, auth, sc.GrantAccessHandler)
	r.DELETE(RouteAccessUser, auth, sc.RevokeAccessHandler)
	r.GET(RoutePermissions, auth, sc.ListPermissionsHandler)

	return sc
}

// fail maps service errors onto statuses. Only unexpected failures are logged.
func (sc *StorageController) fail(c *gin.Context, op string, err error) {
	status, msg := http.StatusInternalServerError, "internal server error"

	switch {
	case errors.Is(err, caller.ErrAnonymous):
		status, msg = http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, file.ErrFileTooLarge):
		status, msg = http.StatusRequestEntityTooLarge, err.Error()
	case errors.Is(err, file.ErrInvalidArgument):
		status, msg = http.StatusBadRequest, err.Error()
	case errors.Is(err, file.ErrNotFound):
		status, msg = http.StatusNotFound, err.Error()
	case errors.Is(err, file.ErrForbidden):
		status, msg = http.StatusForbidden, file.ErrForbidden.Error()
	case errors.Is(err, file.ErrConflict):
		status, msg = http.StatusConflict, err.Error()
	case errors.Is(err, file.ErrUpstreamUnavailable):
		status, msg = http.StatusServiceUnavailable, file.ErrUpstreamUnavailable.Error()
	}

	if status >= http.StatusInternalServerError {
		sc.logger.Error(op+"() error", zap.Error(err))
	}

	c.JSON(status, dto.ErrorResponse(msg))
}

func (sc *StorageController) fileID(c *gin.Context) (file.ID, bool) {
	ok, id := validator.IsUUID(c.Param("file_id"))
	if !ok {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse("file_id must be a valid UUID"))
		return id, false
	}
	return id, true
}

func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse("invalid request body"))
		return false
	}
	if errs := validator.Struct(req); errs != nil {
		resp := dto.ErrorResponse("invalid request body")
		resp.Details = errs
		c.JSON(http.StatusBadRequest, resp)
		return false
	}
	return true
}

func (sc *StorageController) CreateBucketHandler(c *gin.Context) {
	var req dto.CreateBucketRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := sc.storageService.CreateBucket(c.Request.Context(), middleware.Caller(c), req.BucketName, req.Public); err != nil {
		sc.fail(c, "CreateBucket", err)
		return
	}

	c.JSON(http.StatusCreated, dto.MessageResponse("bucket "+req.BucketName+" is ready"))
}

func (sc *StorageController) UploadHandler(c *gin.Context) {
	if c.Request.ContentLength > sc.maxBodyBytes {
		c.JSON(http.StatusRequestEntityTooLarge, dto.ErrorResponse(file.ErrFileTooLarge.Error()))
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, sc.maxBodyBytes)

	fh, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, dto.ErrorResponse(file.ErrFileTooLarge.Error()))
			return
		}
		c.JSON(http.StatusBadRequest, dto.ErrorResponse("file is required"))
		return
	}

	f, err := fh.Open()
	if err != nil {
		sc.fail(c, "Upload", err)
		return
	}
	defer f.Close()

	out, err := sc.storageService.Upload(c.Request.Context(), middleware.Caller(c), ports.UploadRequest{
		Bucket:      c.PostForm("bucket_name"),
		FileName:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Body:        f,
	})
	if err != nil {
		sc.fail(c, "Upload", err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToResponseFile(*out))
}

func (sc *StorageController) ListFilesHandler(c *gin.Context) {
	files, err := sc.storageService.ListFiles(c.Request.Context(), middleware.Caller(c))
	if err != nil {
		sc.fail(c, "ListFiles", err)
		return
	}

	c.JSON(http.StatusOK, dto.ResponseData{
		Data: dto.ToResponseAccessibleFiles(files),
	})
}

func (sc *StorageController) GetFileHandler(c *gin.Context) {
	id, ok := sc.fileID(c)
	if !ok {
		return
	}

	af, err := sc.storageService.GetFile(c.Request.Context(), middleware.Caller(c), id)
	if err != nil {
		sc.fail(c, "GetFile", err)
		return
	}

	c.JSON(http.StatusOK, dto.ToResponseAccessibleFile(*af))
}

func (sc *StorageController) RenameFileHandler(c *gin.Context) {
	id, ok := sc.fileID(c)
	if !ok {
		return
	}
	var req dto.RenameRequest
	if !bindJSON(c, &req) {
		return
	}

	af, err := sc.storageService.RenameFile(c.Request.Context(), middleware.Caller(c), id, req.FileName)
	if err != nil {
		sc.fail(c, "RenameFile", err)
		return
	}

	c.JSON(http.StatusOK, dto.ToResponseAccessibleFile(*af))
}

func (sc *StorageController) DeleteFileHandler(c *gin.Context) {
	id, ok := sc.fileID(c)
	if !ok {
		return
	}

	if err := sc.storageService.DeleteFile(c.Request.Context(), middleware.Caller(c), id); err != nil {
		sc.fail(c, "DeleteFile", err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse("file deleted"))
}

func (sc *StorageController) DownloadURLHandler(c *gin.Context) {
	id, ok := sc.fileID(c)
	if !ok {
		return
	}

	u, err := sc.storageService.DownloadURL(c.Request.Context(), middleware.Caller(c), id)
	if err != nil {
		sc.fail(c, "DownloadURL", err)
		return
	}

	c.JSON(http.StatusOK, dto.ToResponseDownloadURL(*u))
}

func (sc *StorageController) RedirectHandler(c *gin.Context) {
	id, ok := sc.fileID(c)
	if !ok {
		return
	}

	u, err := sc.storageService.DownloadURL(c.Request.Context(), middleware.Caller(c), id)
	if err != nil {
		sc.fail(c, "DownloadURL", err)
		return
	}

	c.Redirect(http.StatusTemporaryRedirect, u.URL)
}

func (sc *StorageController) GetAccessHandler(c *gin.Context) {
	id, ok := sc.fileID(c)
	if !ok {
		return
	}

	level, err := sc.storageService.GetAccess(c.Request.Context(), middleware.Caller(c), id)
	if err != nil {
		sc.fail(c, "GetAccess", err)
		return
	}

	c.JSON(http.StatusOK, dto.ToResponseAccess(id, level))
}

func (sc *StorageController) GrantAccessHandler(c *gin.Context) {
	id, ok := sc.fileID(c)
	if !ok {
		return
	}
	var req dto.GrantAccessRequest
	if !bindJSON(c, &req) {
		return
	}
	level, err := file.ParseLevel(req.AccessLevel)
	if err != nil {
		sc.fail(c, "GrantAccess", err)
		return
	}

	if err = sc.storageService.GrantAccess(c.Request.Context(), middleware.Caller(c), id, req.TargetUserID, level); err != nil {
		sc.fail(c, "GrantAccess", err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse(level.String()+" access granted to "+req.TargetUserID))
}

func (sc *StorageController) RevokeAccessHandler(c *gin.Context) {
	id, ok := sc.fileID(c)
	if !ok {
		return
	}

	target := c.Param("user_id")
	if err := sc.storageService.RevokeAccess(c.Request.Context(), middleware.Caller(c), id, target); err != nil {
		sc.fail(c, "RevokeAccess", err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse("access revoked for "+target))
}

func (sc *StorageController) ListPermissionsHandler(c *gin.Context) {
	id, ok := sc.fileID(c)
	if !ok {
		return
	}

	ps, err := sc.storageService.ListPermissions(c.Request.Context(), middleware.Caller(c), id)
	if err != nil {
		sc.fail(c, "ListPermissions", err)
		return
	}

	c.JSON(http.StatusOK, dto.ToResponsePermissions(ps))
}
