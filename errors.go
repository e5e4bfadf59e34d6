package orion

import (
	"errors"
	"fmt"
)

// Sentinel errors. Use errors.Is to check.
var (
	ErrToolNotFound       = errors.New("tool not found")
	ErrValidation         = errors.New("validation failed")
	ErrOutputTypeRequired = errors.New("output type is required but was not configured")
	ErrMissingAPIKey      = errors.New("orion API key not configured: call SetDefaultKey or set " + EnvAPIKey)
)

// ClientError is a failure the backend model can recover from by correcting
// its own output (invalid JSON arguments, schema violation, bad enum value).
// The Reason is sent back to the backend verbatim, so it must not leak
// internal details. Err optionally wraps a sentinel for errors.Is.
type ClientError struct {
	Reason string
	Err    error
}

func (e *ClientError) Error() string {
	return fmt.Sprintf("invalid tool input: %s", e.Reason)
}

func (e *ClientError) Unwrap() error { return e.Err }

// IsClientError reports whether err is or wraps a ClientError.
func IsClientError(err error) bool {
	var ce *ClientError
	return errors.As(err, &ce)
}

// ExtractError is returned when every extraction strategy failed to produce a
// valid instance. Text is the original model output; Err is the failure from
// the last strategy attempted.
type ExtractError struct {
	Text string
	Err  error
}

func (e *ExtractError) Error() string {
	return fmt.Sprintf("structured output extraction failed: %v", e.Err)
}

func (e *ExtractError) Unwrap() error { return e.Err }

// APIError is a non-success status from the Orion backend. Body holds a
// truncated copy of the response body for diagnostics.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("orion backend returned status %d: %s", e.StatusCode, e.Body)
}

// wrapJSONParseError returns a ClientError for JSON unmarshal failures so the
// backend sees a consistent message for malformed arguments.
func wrapJSONParseError(err error) error {
	return &ClientError{Reason: "json parse error: " + err.Error()}
}

// panicError wraps a recovered panic value; used by Registry and the
// WithRecovery middleware.
type panicError struct{ p any }

func (e *panicError) Error() string {
	return "panic: " + fmt.Sprint(e.p)
}
