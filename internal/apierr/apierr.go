// Package apierr normalizes backend rejections into a single structured
// error type. Every non-2xx response from the SaaS API is converted to a
// RemoteError carrying message, status and raw payload before it reaches the
// workflow or UI layers.
package apierr

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Base error types
var (
	ErrNotFound         = errors.New("not found")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrForbidden        = errors.New("forbidden")
	ErrInvalidInput     = errors.New("invalid input")
	ErrConnectionFailed = errors.New("connection failed")
)

// Type represents the category of a remote failure.
type Type string

const (
	TypeConnection Type = "connection"
	TypeAuth       Type = "auth"
	TypeNotFound   Type = "not_found"
	TypeAPI        Type = "api"
)

// RemoteError is the normalized form of a backend rejection.
type RemoteError struct {
	Type      Type
	Op        string // operation that failed (e.g. "create_tenant")
	Message   string // human-readable message extracted from the response
	Status    int    // HTTP status code, 0 for transport failures
	Data      json.RawMessage
	Err       error
	Timestamp time.Time
}

func (e *RemoteError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("%s failed (status %d): %s", e.Op, e.Status, e.Message)
	}
	return fmt.Sprintf("%s failed: %s", e.Op, e.Message)
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is against the base error types.
func (e *RemoteError) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.Type == TypeNotFound
	case ErrUnauthorized, ErrForbidden:
		return e.Type == TypeAuth
	case ErrConnectionFailed:
		return e.Type == TypeConnection
	}
	return errors.Is(e.Err, target)
}

// Normalize converts an HTTP error response into a RemoteError. The message
// is extracted from common JSON shapes ({"message": ...}, {"detail": ...},
// {"error": ...}) with the raw body retained in Data.
func Normalize(op string, status int, body []byte) *RemoteError {
	e := &RemoteError{
		Type:      typeForStatus(status),
		Op:        op,
		Status:    status,
		Data:      json.RawMessage(body),
		Timestamp: time.Now(),
	}
	e.Message = extractMessage(body)
	if e.Message == "" {
		e.Message = fmt.Sprintf("request rejected with status %d", status)
	}
	return e
}

// WrapConnection converts a transport-level failure into a RemoteError.
func WrapConnection(op string, err error) *RemoteError {
	return &RemoteError{
		Type:      TypeConnection,
		Op:        op,
		Message:   err.Error(),
		Err:       err,
		Timestamp: time.Now(),
	}
}

func typeForStatus(status int) Type {
	switch {
	case status == 401 || status == 403:
		return TypeAuth
	case status == 404:
		return TypeNotFound
	default:
		return TypeAPI
	}
}

func extractMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
		Detail  string `json:"detail"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		switch {
		case payload.Message != "":
			return payload.Message
		case payload.Detail != "":
			return payload.Detail
		case payload.Error != "":
			return payload.Error
		}
	}
	return strings.TrimSpace(string(body))
}

// IsAuthError reports whether the error is a session-invalidation signal
// (401/403 class). The CLI treats these as a hard redirect to login.
func IsAuthError(err error) bool {
	if err == nil {
		return false
	}

	var remote *RemoteError
	if errors.As(err, &remote) {
		if remote.Type == TypeAuth {
			return true
		}
		if remote.Status == 401 || remote.Status == 403 {
			return true
		}
	}

	return errors.Is(err, ErrUnauthorized) || errors.Is(err, ErrForbidden)
}

// IsRetryable reports whether an operator retry has a chance of succeeding
// without changing the input. Validation-class rejections are not retryable.
func IsRetryable(err error) bool {
	var remote *RemoteError
	if errors.As(err, &remote) {
		if remote.Type == TypeConnection {
			return true
		}
		if remote.Status >= 500 || remote.Status == 429 || remote.Status == 408 {
			return true
		}
		return false
	}
	return errors.Is(err, ErrConnectionFailed)
}

// StatusOf returns the HTTP status carried by the error, or 0.
func StatusOf(err error) int {
	var remote *RemoteError
	if errors.As(err, &remote) {
		return remote.Status
	}
	return 0
}
