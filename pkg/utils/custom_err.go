package utils

import "errors"

var (
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrForbidden          = errors.New("forbidden")

	ErrUserNotFound      = errors.New("user not found")
	ErrOrderNotFound     = errors.New("order not found")
	ErrReferenceNotFound = errors.New("reference not found")

	ErrValidation          = errors.New("validation error")
	ErrInvalidPaymentField = errors.New("invalid payment field")
	ErrNoUpdatableFields   = errors.New("no updatable fields supplied")
	ErrNegativePrice       = errors.New("price must not be negative")
	ErrInvalidFileType     = errors.New("file must be an image")
	ErrFileTooLarge        = errors.New("file exceeds the maximum size")

	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrOrderAlreadyExists = errors.New("order already exists for this email")

	ErrDatabaseError = errors.New("database error")
	ErrStorageError  = errors.New("storage error")
)
