package services

import "errors"

var (
	ErrEventNotFound = errors.New("event not found")
	ErrPhotoNotFound = errors.New("photo not found")
	ErrInvalidStatus = errors.New("invalid status")
	ErrTooManyFiles  = errors.New("too many files")
	ErrNoFiles       = errors.New("no files")
	ErrUploadFailed  = errors.New("upload failed")
)
