package launcher

import (
	"fmt"
	"strings"
)

// ErrorKind classifies a LaunchError.
type ErrorKind string

const (
	// KindTransport covers network failures and non-2xx responses.
	KindTransport ErrorKind = "transport"
	// KindValidation means the upstream rejected the request with an errors array.
	KindValidation ErrorKind = "validation"
	// KindEmptyResponse means a 2xx response had no usable body.
	KindEmptyResponse ErrorKind = "empty_response"
)

// LaunchError is returned when the launch API call fails.
type LaunchError struct {
	Kind       ErrorKind
	StatusCode int      // 0 when no HTTP response was received
	Messages   []string // upstream validation messages
	Err        error
}

func (e *LaunchError) Error() string {
	switch e.Kind {
	case KindValidation:
		return "API Validation Error: " + strings.Join(e.Messages, ", ")
	case KindEmptyResponse:
		return "Invalid response from token creation API"
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("failed to create token: %d - %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("failed to create token: %v", e.Err)
}

func (e *LaunchError) Unwrap() error { return e.Err }
