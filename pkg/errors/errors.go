package errors

import (
	"errors"
	"fmt"
)

// ErrorType represents different types of errors in the system
type ErrorType string

const (
	// ErrorTypeStorageUnavailable indicates the persistent partition store
	// is inaccessible (quota exceeded, connection refused, disabled)
	ErrorTypeStorageUnavailable ErrorType = "STORAGE_UNAVAILABLE"

	// ErrorTypeNetworkUnavailable indicates a fetch failed or timed out
	ErrorTypeNetworkUnavailable ErrorType = "NETWORK_UNAVAILABLE"

	// ErrorTypeInstallIncomplete indicates one or more shell-manifest URLs
	// failed to cache during install
	ErrorTypeInstallIncomplete ErrorType = "INSTALL_INCOMPLETE"

	// ErrorTypeSyncReplayFailed indicates a queued deferred task failed to replay
	ErrorTypeSyncReplayFailed ErrorType = "SYNC_REPLAY_FAILED"

	// ErrorTypeMalformedPush indicates a push payload was missing or unparseable
	ErrorTypeMalformedPush ErrorType = "MALFORMED_PUSH"

	// ErrorTypeNotFound indicates a cache entry or resource was not found
	ErrorTypeNotFound ErrorType = "NOT_FOUND"

	// ErrorTypeInternal indicates an internal error
	ErrorTypeInternal ErrorType = "INTERNAL"
)

// AppError represents an application error
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap implements the unwrap interface
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewStorageUnavailableError creates a new storage unavailable error
func NewStorageUnavailableError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeStorageUnavailable,
		Message: message,
		Err:     err,
	}
}

// NewNetworkUnavailableError creates a new network unavailable error
func NewNetworkUnavailableError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeNetworkUnavailable,
		Message: message,
		Err:     err,
	}
}

// NewInstallIncompleteError creates a new install incomplete error
func NewInstallIncompleteError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeInstallIncomplete,
		Message: message,
		Err:     err,
	}
}

// NewSyncReplayFailedError creates a new sync replay failed error
func NewSyncReplayFailedError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeSyncReplayFailed,
		Message: message,
		Err:     err,
	}
}

// NewMalformedPushError creates a new malformed push error
func NewMalformedPushError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeMalformedPush,
		Message: message,
	}
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeNotFound,
		Message: message,
	}
}

// NewInternalError creates a new internal error
func NewInternalError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeInternal,
		Message: message,
		Err:     err,
	}
}

// IsType reports whether err is an AppError of the given type
func IsType(err error, t ErrorType) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == t
	}
	return false
}

// IsStorageUnavailable reports whether err indicates inaccessible storage
func IsStorageUnavailable(err error) bool {
	return IsType(err, ErrorTypeStorageUnavailable)
}

// IsNetworkUnavailable reports whether err indicates a failed fetch
func IsNetworkUnavailable(err error) bool {
	return IsType(err, ErrorTypeNetworkUnavailable)
}

// IsNotFound reports whether err indicates a missing cache entry
func IsNotFound(err error) bool {
	return IsType(err, ErrorTypeNotFound)
}
