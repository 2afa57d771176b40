package mexc

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrMissingCredentials is returned by signed calls when key or secret is empty.
	ErrMissingCredentials = errors.New("mexc api key and secret are required")
	// ErrInvalidOrder is returned before any I/O when an order request is malformed.
	ErrInvalidOrder = errors.New("invalid order request")
)

// TransportError network, TLS or timeout failure. No response was parsed.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("mexc transport %s %s: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ExchangeError error reported by the exchange, either as a {"code","msg"}
// body or as a non-success HTTP status.
type ExchangeError struct {
	Code       int
	Message    string
	HTTPStatus int
}

func (e *ExchangeError) Error() string {
	return fmt.Sprintf("mexc api error %d (http %d): %s", e.Code, e.HTTPStatus, e.Message)
}

// MalformedResponseError body could not be decoded into the expected shape.
type MalformedResponseError struct {
	Endpoint string
	Body     string
	Err      error
}

func (e *MalformedResponseError) Error() string {
	body := e.Body
	if len(body) > 256 {
		body = body[:256] + "..."
	}
	return fmt.Sprintf("mexc malformed response from %s: %v: %s", e.Endpoint, e.Err, body)
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }

// ErrorCode returns the exchange error code carried by err, 0 if none.
func ErrorCode(err error) int {
	var apiErr *ExchangeError
	if errors.As(err, &apiErr) {
		return apiErr.Code
	}
	return 0
}

// IsTransport reports whether err is a network level failure.
func IsTransport(err error) bool {
	var tErr *TransportError
	return errors.As(err, &tErr)
}

// IsMalformed reports whether err is a decoding failure.
func IsMalformed(err error) bool {
	var mErr *MalformedResponseError
	return errors.As(err, &mErr)
}

// Kind classifies err for logging and metrics.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case IsTransport(err):
		return "transport"
	case IsMalformed(err):
		return "malformed"
	case ErrorCode(err) != 0:
		return "exchange"
	default:
		return "other"
	}
}
