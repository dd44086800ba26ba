package file

import (
	"errors"
	"fmt"
)

// Categories. Every concrete error below wraps exactly one of them.
var (
	ErrNotFound            = errors.New("not found")
	ErrForbidden           = errors.New("access denied")
	ErrConflict            = errors.New("conflict")
	ErrInvalidArgument     = errors.New("invalid argument")
	ErrUpstreamUnavailable = errors.New("storage temporarily unavailable")
)

var (
	ErrFileNotFound       = fmt.Errorf("file %w", ErrNotFound)
	ErrPermissionNotFound = fmt.Errorf("permission %w", ErrNotFound)

	ErrPathTaken      = fmt.Errorf("%w: storage path already exists", ErrConflict)
	ErrLastOwner      = fmt.Errorf("%w: file must keep at least one owner", ErrConflict)
	ErrBucketConflict = fmt.Errorf("%w: bucket already exists with a different visibility", ErrConflict)

	ErrInvalidLevel        = fmt.Errorf("%w: access level must be one of read, write, owner", ErrInvalidArgument)
	ErrEmptyFileName       = fmt.Errorf("%w: file name is required", ErrInvalidArgument)
	ErrEmptyFile           = fmt.Errorf("%w: file size must be positive", ErrInvalidArgument)
	ErrFileTooLarge        = fmt.Errorf("%w: file exceeds the maximum allowed size", ErrInvalidArgument)
	ErrExtensionNotAllowed = fmt.Errorf("%w: file extension is not allowed", ErrInvalidArgument)
	ErrInvalidBucketName   = fmt.Errorf("%w: invalid bucket name", ErrInvalidArgument)
	ErrEmptyTargetUser     = fmt.Errorf("%w: target user is required", ErrInvalidArgument)
)
