// ABOUTME: Single failure shape for every gateway call
// ABOUTME: Carries kind, HTTP status, and the backend-provided detail message
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrorKind classifies where a request failed.
type ErrorKind int

const (
	// KindTransport covers network failures, timeouts, and cancellation.
	KindTransport ErrorKind = iota
	// KindStatus is a non-2xx response.
	KindStatus
	// KindDecode is a 2xx response whose body did not match the expected shape.
	KindDecode
	// KindEncode is a request body that could not be built.
	KindEncode
)

func (k ErrorKind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindStatus:
		return "status"
	case KindDecode:
		return "decode"
	case KindEncode:
		return "encode"
	}
	return "unknown"
}

// Error is returned by every Client method on failure.
type Error struct {
	Kind   ErrorKind
	Method string
	Path   string
	// Status is the HTTP status code, zero when no response was received.
	Status int
	// Detail is the human-readable message from the backend, if any.
	Detail string
	Err    error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindStatus:
		if e.Detail != "" {
			return fmt.Sprintf("%s %s: backend returned %d: %s", e.Method, e.Path, e.Status, e.Detail)
		}
		return fmt.Sprintf("%s %s: backend returned %d", e.Method, e.Path, e.Status)
	case KindDecode:
		return fmt.Sprintf("%s %s: invalid response: %v", e.Method, e.Path, e.Err)
	case KindEncode:
		return fmt.Sprintf("%s %s: failed to encode request: %v", e.Method, e.Path, e.Err)
	}
	return fmt.Sprintf("%s %s: request failed: %v", e.Method, e.Path, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// DetailOr returns the backend detail carried by err, or fallback when
// there is none.
func DetailOr(err error, fallback string) string {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail
	}
	return fallback
}

// IsUnauthorized reports whether err is a 401 from the backend.
func IsUnauthorized(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Kind == KindStatus && apiErr.Status == http.StatusUnauthorized
}

// parseDetail extracts the "detail" field of an error body. The backend sends
// either a plain string or a list of validation objects with a "msg" field.
func parseDetail(body []byte) string {
	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Detail) == 0 {
		return ""
	}

	var text string
	if err := json.Unmarshal(envelope.Detail, &text); err == nil {
		return strings.TrimSpace(text)
	}

	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(envelope.Detail, &items); err == nil {
		msgs := make([]string, 0, len(items))
		for _, item := range items {
			if item.Msg != "" {
				msgs = append(msgs, item.Msg)
			}
		}
		return strings.Join(msgs, "; ")
	}

	return ""
}
