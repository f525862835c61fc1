// Copyright (c) 2026 CloudVault. All rights reserved.
// Author: platform@cloudvault.app

/*
Package apperr defines the centralized error handling framework for CloudVault.

It provides a rich error type that bridges the gap between low-level Domain/Storage
errors and high-level HTTP responses.

Architecture:

  - AppError: A struct containing machine-readable ErrorCode and user-friendly messages.
  - Taxonomy: Stable reason codes for every access-control failure mode
    (invalid credentials, missing session, insufficient role, gate denials).
  - Mapping: Explicit mapping from AppError to standard HTTP Status Codes.

Every error that leaves the service layer should be wrapped as an [AppError] to ensure
consistent API responses.
*/
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError is the canonical error type for the CloudVault API.
//
// It carries an HTTP status code, a machine-readable code, a client-safe
// message, and an optional slice of field-level validation errors.
//
// # Security
//
// The Cause field is for server-side logging only and is never sent to clients
// to avoid leaking internal implementation details (e.g., secret hashes,
// other callers' tokens).
type AppError struct {
	// Code is a machine-readable error identifier (e.g. "INVALID_CODE").
	Code string `json:"code"`
	// Message is a human-readable description safe to return to the client.
	Message string `json:"error"`
	// HTTPStatus is the HTTP response status code.
	HTTPStatus int `json:"-"`
	// Cause is the underlying error, used for server-side logging only.
	Cause error `json:"-"`
	// Details holds per-field validation errors for VALIDATION_ERROR responses.
	Details []FieldError `json:"details,omitempty"`
}

// FieldError represents a single field-level validation failure.
type FieldError struct {
	// Field is the JSON field name that failed validation.
	Field string `json:"field"`
	// Message is the human-readable description of the failure.
	Message string `json:"message"`
}

// Error implements the error interface. It returns the client-safe message.
func (e *AppError) Error() string { return e.Message }

// Unwrap allows [errors.Is] and [errors.As] to traverse the cause chain.
func (e *AppError) Unwrap() error { return e.Cause }

// # Access-Control Taxonomy (4xx)

// InvalidCredentials creates a 401 [AppError] for a failed login attempt.
//
// The message is deliberately generic: it never distinguishes an unknown
// username from a wrong password, preventing account enumeration.
func InvalidCredentials() *AppError {
	return &AppError{
		Code:       "INVALID_CREDENTIALS",
		Message:    "Invalid username or password",
		HTTPStatus: http.StatusUnauthorized,
	}
}

// Unauthenticated creates a 401 [AppError] for anonymous callers hitting
// a session-protected operation.
func Unauthenticated() *AppError {
	return &AppError{
		Code:       "UNAUTHENTICATED",
		Message:    "Authentication required",
		HTTPStatus: http.StatusUnauthorized,
	}
}

// InsufficientRole creates a 403 [AppError] for callers whose role does not
// satisfy the operation's requirement.
func InsufficientRole() *AppError {
	return &AppError{
		Code:       "INSUFFICIENT_ROLE",
		Message:    "Insufficient permissions for this operation",
		HTTPStatus: http.StatusForbidden,
	}
}

// InvalidCode creates a 403 [AppError] for a failed ephemeral-code
// verification. The outstanding challenge stays live and retryable.
func InvalidCode() *AppError {
	return &AppError{
		Code:       "INVALID_CODE",
		Message:    "Invalid verification code",
		HTTPStatus: http.StatusForbidden,
	}
}

// InvalidSecret creates a 403 [AppError] for a failed pre-shared secret
// verification (e.g. a wrong file download password).
func InvalidSecret() *AppError {
	return &AppError{
		Code:       "INVALID_SECRET",
		Message:    "Incorrect password. Please try again.",
		HTTPStatus: http.StatusForbidden,
	}
}

// # Generic Client Errors (4xx)

// NotFound creates a 404 [AppError] for a named resource.
//
// Example:
//
//	apperr.NotFound("Resource") // Returns "Resource not found"
func NotFound(resource string) *AppError {
	return &AppError{
		Code:       "NOT_FOUND",
		Message:    resource + " not found",
		HTTPStatus: http.StatusNotFound,
	}
}

// Conflict creates a 409 [AppError] for duplicate or unique-constraint violations.
func Conflict(msg string) *AppError {
	return &AppError{
		Code:       "CONFLICT",
		Message:    msg,
		HTTPStatus: http.StatusConflict,
	}
}

// ValidationError creates a 400 [AppError] with optional per-field details.
func ValidationError(msg string, details ...FieldError) *AppError {
	return &AppError{
		Code:       "VALIDATION_ERROR",
		Message:    msg,
		HTTPStatus: http.StatusBadRequest,
		Details:    details,
	}
}

// RateLimited creates a 429 [AppError].
func RateLimited(retryAfterSeconds int) *AppError {
	return &AppError{
		Code:       "RATE_LIMITED",
		Message:    fmt.Sprintf("Too many requests. Try again in %ds.", retryAfterSeconds),
		HTTPStatus: http.StatusTooManyRequests,
	}
}

// # Server Errors (5xx)

// Internal creates a 500 [AppError] wrapping an unexpected server-side error.
// The cause is stored for logging but is never sent to the client.
func Internal(cause error) *AppError {
	return &AppError{
		Code:       "INTERNAL_ERROR",
		Message:    "An unexpected error occurred",
		HTTPStatus: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// StoreUnavailable creates a 503 [AppError] for a backing-store outage.
//
// This is the only non-recoverable condition in the taxonomy: it surfaces a
// teardown path (e.g. logout) failing to reach the session store, and is
// reported upward as a fatal operational condition rather than retried.
func StoreUnavailable(cause error) *AppError {
	return &AppError{
		Code:       "STORE_UNAVAILABLE",
		Message:    "Backing store is unavailable",
		HTTPStatus: http.StatusServiceUnavailable,
		Cause:      cause,
	}
}

// # Helpers

// IsAppError reports whether err (or any error in its chain) is an [*AppError].
func IsAppError(err error) bool {
	var ae *AppError
	return errors.As(err, &ae)
}

// As extracts the [*AppError] from err's chain. It returns nil if not found.
func As(err error) *AppError {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae
	}
	return nil
}

// IsCode reports whether err is an [*AppError] carrying the given code.
func IsCode(err error, code string) bool {
	ae := As(err)
	return ae != nil && ae.Code == code
}
