package anthropic

import "fmt"

// Category classifies a terminal transport failure.
type Category int

const (
	// CategoryNetwork is a connection-level failure (DNS, reset, timeout)
	// that survived the retry budget.
	CategoryNetwork Category = iota
	// CategoryHTTPClient is a 4xx response. Never retried.
	CategoryHTTPClient
	// CategoryServerExhausted is a 5xx response that survived the retry
	// budget.
	CategoryServerExhausted
	// CategoryMalformedResponse is a 2xx whose body was empty, not JSON,
	// or of an unrecognized shape.
	CategoryMalformedResponse
	// CategoryApplication is a well-formed error reported by the remote
	// service itself.
	CategoryApplication
)

// String returns a short label for the category.
func (c Category) String() string {
	switch c {
	case CategoryNetwork:
		return "network"
	case CategoryHTTPClient:
		return "http-client"
	case CategoryServerExhausted:
		return "http-server-exhausted"
	case CategoryMalformedResponse:
		return "malformed-response"
	case CategoryApplication:
		return "application-error"
	default:
		return "unknown"
	}
}

// TransportError is a terminal failure from the transport layer.
type TransportError struct {
	Category   Category
	StatusCode int    // 0 when no HTTP response was received
	Body       string // response body, when one was read
	Message    string
	Err        error // underlying error, if any

	// retry metadata, consulted only by the retry loop
	retryable bool
	jitter    bool
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("anthropic: %s (status %d): %s", e.Category, e.StatusCode, msg)
	}
	return fmt.Sprintf("anthropic: %s: %s", e.Category, msg)
}

// Unwrap exposes the underlying error for errors.Is/As.
func (e *TransportError) Unwrap() error { return e.Err }
