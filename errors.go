package nuclino

import (
	"fmt"
	"strconv"
	"time"
)

// Error type discriminators carried by APIError.Type. HTTP-mapped kinds
// follow the API's status code contract; the remaining kinds are raised
// client-side (configuration, protocol mismatches, property lookups).
const (
	ErrorTypeValidation     = "ValidationError"     // 400
	ErrorTypeAuthentication = "AuthenticationError" // 401
	ErrorTypePermission     = "PermissionError"     // 403
	ErrorTypeNotFound       = "NotFoundError"       // 404
	ErrorTypeRateLimit      = "RateLimitError"      // 429
	ErrorTypeServer         = "ServerError"         // 5xx
	ErrorTypeHTTP           = "HTTPError"           // any other status
	ErrorTypeNetwork        = "NetworkError"        // transport failure, no status
	ErrorTypeConfig         = "ConfigError"         // invalid client configuration
	ErrorTypeProtocol       = "ProtocolError"       // unknown object tag, unexpected shape
	ErrorTypeKeyNotFound    = "KeyNotFoundError"    // object property lookup miss
)

// APIError is the single error type surfaced by the client. Type narrows the
// failure kind; StatusCode, Message and Body carry the raw diagnostics from
// the response that produced it. Client-side kinds have StatusCode 0 (except
// ValidationError raised before a request is sent, which uses 400).
type APIError struct {
	Type       string
	StatusCode int
	Message    string
	Body       map[string]any
	RetryAfter int // seconds, RateLimitError only; 0 when the API gave no hint
	Cause      error
	Timestamp  time.Time
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e == nil {
		return "<nil>"
	}
	msg := fmt.Sprintf("%s: %s", e.Type, e.Message)
	if e.StatusCode > 0 {
		msg = fmt.Sprintf("%s (%d): %s", e.Type, e.StatusCode, e.Message)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s (%v)", msg, e.Cause)
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *APIError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// Is compares error types for errors.Is.
func (e *APIError) Is(target error) bool {
	if e == nil {
		return false
	}
	if targetErr, ok := target.(*APIError); ok {
		return e.Type == targetErr.Type
	}
	return false
}

// DebugInfo renders a multi-line string with diagnostic context.
func (e *APIError) DebugInfo() string {
	if e == nil {
		return "Error: <nil>"
	}
	info := fmt.Sprintf("Error Type: %s\n", e.Type)
	info += fmt.Sprintf("Message: %s\n", e.Message)
	if e.StatusCode > 0 {
		info += fmt.Sprintf("Status Code: %d\n", e.StatusCode)
	}
	if e.RetryAfter > 0 {
		info += fmt.Sprintf("Retry After: %ds\n", e.RetryAfter)
	}
	if len(e.Body) > 0 {
		info += fmt.Sprintf("Body: %v\n", e.Body)
	}
	if !e.Timestamp.IsZero() {
		info += fmt.Sprintf("Timestamp: %s\n", e.Timestamp.Format(time.RFC3339))
	}
	if e.Cause != nil {
		info += fmt.Sprintf("Cause: %v\n", e.Cause)
	}
	return info
}

// classifyStatus maps an HTTP status code to the concrete error kind. The
// mapping is exhaustive: every status resolves to some kind, with 5xx folding
// into ServerError and anything unmapped into the generic HTTPError. Call
// sites treat it as a terminator: `return nil, classifyStatus(...)`.
func classifyStatus(status int, message string, body map[string]any) *APIError {
	e := &APIError{
		StatusCode: status,
		Message:    message,
		Body:       body,
		Timestamp:  time.Now(),
	}
	switch {
	case status == 400:
		e.Type = ErrorTypeValidation
	case status == 401:
		e.Type = ErrorTypeAuthentication
	case status == 403:
		e.Type = ErrorTypePermission
	case status == 404:
		e.Type = ErrorTypeNotFound
	case status == 429:
		e.Type = ErrorTypeRateLimit
		e.RetryAfter = retryAfterHint(body)
	case status >= 500 && status < 600:
		e.Type = ErrorTypeServer
	default:
		e.Type = ErrorTypeHTTP
	}
	return e
}

// retryAfterHint pulls the optional retry-after hint out of a 429 body.
// The API has emitted both camelCase and snake_case spellings.
func retryAfterHint(body map[string]any) int {
	for _, key := range []string{"retryAfter", "retry_after"} {
		switch v := body[key].(type) {
		case float64:
			return int(v)
		case string:
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
	}
	return 0
}

func configError(message string, cause error) *APIError {
	return &APIError{
		Type:      ErrorTypeConfig,
		Message:   message,
		Cause:     cause,
		Timestamp: time.Now(),
	}
}

func protocolError(format string, args ...any) *APIError {
	return &APIError{
		Type:      ErrorTypeProtocol,
		Message:   fmt.Sprintf(format, args...),
		Timestamp: time.Now(),
	}
}

func networkError(message string, cause error) *APIError {
	return &APIError{
		Type:      ErrorTypeNetwork,
		Message:   message,
		Cause:     cause,
		Timestamp: time.Now(),
	}
}
