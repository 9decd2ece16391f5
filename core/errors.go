// Package core provides shared types and utilities for the KaiwaDB SDK.
//
// This package contains:
//   - Error types for every failure class the SDK surfaces
//   - The engine descriptor sent with each translate request
//   - Debug logging utilities
//
// Error types can be used for type assertions to handle specific error cases:
//
//	result, err := session.Run(ctx, "find overdue invoices", exec)
//	if err != nil {
//	    var translation *core.QueryTranslationError
//	    if errors.As(err, &translation) {
//	        // Prompt could not be mapped to a query; fix the prompt, not the session.
//	    }
//	}
package core

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// KaiwaError is the base error type for all KaiwaDB SDK errors.
//
// All specific error types (QueryTranslationError, RemoteTimeoutError, etc.)
// embed this type. The RequestID field can be used when contacting KaiwaDB
// support about a remote failure.
type KaiwaError struct {
	Message    string `json:"message"`
	StatusCode int    `json:"statusCode,omitempty"`
	Detail     string `json:"detail,omitempty"`
	RequestID  string `json:"requestId,omitempty"`
	Cause      error  `json:"-"`
}

func (e *KaiwaError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s", e.Message, e.Detail)
	}
	return e.Message
}

func (e *KaiwaError) Unwrap() error {
	return e.Cause
}

// SchemaDefinitionError is returned when a schema declaration is invalid.
//
// It is always raised at construction time (NewField, NewDocument,
// NewRegistry), never deferred to query time. Schema and Field identify the
// offending declaration when known.
type SchemaDefinitionError struct {
	KaiwaError
	Schema string `json:"schema,omitempty"`
	Field  string `json:"field,omitempty"`
}

func (e *SchemaDefinitionError) Error() string {
	switch {
	case e.Schema != "" && e.Field != "":
		return fmt.Sprintf("schema %q, field %q: %s", e.Schema, e.Field, e.KaiwaError.Error())
	case e.Schema != "":
		return fmt.Sprintf("schema %q: %s", e.Schema, e.KaiwaError.Error())
	case e.Field != "":
		return fmt.Sprintf("field %q: %s", e.Field, e.KaiwaError.Error())
	}
	return e.KaiwaError.Error()
}

// NewSchemaDefinitionError creates a new SchemaDefinitionError.
func NewSchemaDefinitionError(schema, field, message string) *SchemaDefinitionError {
	return &SchemaDefinitionError{
		KaiwaError: KaiwaError{Message: message},
		Schema:     schema,
		Field:      field,
	}
}

// AuthenticationError is returned when a credential is missing or malformed
// (checked locally, before any network call) or when the remote service
// rejects the key (HTTP 401/403).
type AuthenticationError struct {
	KaiwaError
}

// NewAuthenticationError creates a new AuthenticationError.
func NewAuthenticationError(message, requestID string) *AuthenticationError {
	return &AuthenticationError{
		KaiwaError: KaiwaError{Message: message, RequestID: requestID},
	}
}

// QueryTranslationError is returned when the remote service reports that a
// prompt could not be mapped to a query (status "ambiguous" or "error"), or
// when the returned artifact is unusable. The session is not affected and
// remains usable for subsequent calls.
type QueryTranslationError struct {
	KaiwaError
	Prompt       string `json:"prompt,omitempty"`
	RemoteStatus string `json:"remoteStatus,omitempty"`
}

func (e *QueryTranslationError) Error() string {
	msg := e.KaiwaError.Error()
	if e.RemoteStatus != "" {
		msg = fmt.Sprintf("%s (remote status: %s)", msg, e.RemoteStatus)
	}
	if e.Prompt != "" {
		msg = fmt.Sprintf("%s (prompt: %q)", msg, e.Prompt)
	}
	return msg
}

// NewQueryTranslationError creates a new QueryTranslationError.
func NewQueryTranslationError(prompt, remoteStatus, message, requestID string) *QueryTranslationError {
	return &QueryTranslationError{
		KaiwaError:   KaiwaError{Message: message, RequestID: requestID},
		Prompt:       prompt,
		RemoteStatus: remoteStatus,
	}
}

// RemoteTimeoutError is returned when the translate call does not complete
// within the configured timeout.
type RemoteTimeoutError struct {
	KaiwaError
	Timeout time.Duration `json:"timeout"`
}

func (e *RemoteTimeoutError) Error() string {
	return fmt.Sprintf("translate request timed out after %s", e.Timeout)
}

// NewRemoteTimeoutError creates a new RemoteTimeoutError.
func NewRemoteTimeoutError(timeout time.Duration, cause error) *RemoteTimeoutError {
	return &RemoteTimeoutError{
		KaiwaError: KaiwaError{
			Message: fmt.Sprintf("translate request timed out after %s", timeout),
			Cause:   cause,
		},
		Timeout: timeout,
	}
}

// RemoteUnavailableError is returned when the remote service cannot be
// reached or reports a transient failure (connection errors, HTTP 429, 5xx).
// The SDK never retries internally; callers needing resilience wrap Run
// themselves (see IsRetryableError).
type RemoteUnavailableError struct {
	KaiwaError
}

// NewRemoteUnavailableError creates a new RemoteUnavailableError.
func NewRemoteUnavailableError(message, requestID string, statusCode int, cause error) *RemoteUnavailableError {
	return &RemoteUnavailableError{
		KaiwaError: KaiwaError{
			Message:    message,
			StatusCode: statusCode,
			RequestID:  requestID,
			Cause:      cause,
		},
	}
}

// SessionClosedError is returned when Run or Translate is called after the
// session has been closed.
type SessionClosedError struct {
	KaiwaError
	SessionID string `json:"sessionId,omitempty"`
}

func (e *SessionClosedError) Error() string {
	if e.SessionID != "" {
		return fmt.Sprintf("session %s is closed", e.SessionID)
	}
	return "session is closed"
}

// NewSessionClosedError creates a new SessionClosedError.
func NewSessionClosedError(sessionID string) *SessionClosedError {
	return &SessionClosedError{
		KaiwaError: KaiwaError{Message: "session is closed"},
		SessionID:  sessionID,
	}
}

// ParseErrorResponse parses a non-200 HTTP response from the translate
// endpoint into an appropriate error type.
func ParseErrorResponse(resp *http.Response, prompt string) error {
	requestID := resp.Header.Get("X-Kaiwa-Request")

	var body struct {
		Status    string `json:"status"`
		Message   string `json:"message"`
		RequestID string `json:"request_id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		body.Message = resp.Status
	}
	if body.RequestID != "" {
		requestID = body.RequestID
	}

	message := body.Message
	if message == "" {
		message = resp.Status
	}

	switch {
	case resp.StatusCode == http.StatusBadRequest:
		return NewQueryTranslationError(prompt, body.Status, message, requestID)
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return NewAuthenticationError(message, requestID)
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return NewRemoteUnavailableError(message, requestID, resp.StatusCode, nil)
	default:
		return &KaiwaError{
			Message:    message,
			StatusCode: resp.StatusCode,
			RequestID:  requestID,
		}
	}
}

// IsRetryableError returns true if the error is transient and a retry by the
// caller may succeed. Translation errors and schema errors are never
// retryable: the same input produces the same failure.
func IsRetryableError(err error) bool {
	switch err.(type) {
	case *RemoteTimeoutError:
		return true
	case *RemoteUnavailableError:
		return true
	}
	return false
}
