package common

import "errors"

// Business logic errors
var (
	// General errors
	ErrNotFound  = errors.New("resource not found")
	ErrForbidden = errors.New("forbidden")

	// Post errors
	ErrPostNotFound  = errors.New("post not found")
	ErrInvalidTarget = errors.New("invalid approval target")

	// Moderation errors
	ErrPermissionDenied   = errors.New("permission denied")
	ErrModerationRejected = errors.New("rejected by content moderation")

	// Storage errors
	ErrStorageUnavailable = errors.New("storage unavailable")

	// Auth errors
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")

	// Validation errors
	ErrInvalidInput = errors.New("invalid input")
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("expired token")
)
