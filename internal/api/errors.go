package api

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

// Error categories. Use errors.Is to tell them apart.
var (
	ErrTransport = errors.New("transport failure")
	ErrDecode    = errors.New("decode failure")
	ErrClosed    = errors.New("client closed")
)

// maxErrorBody caps the body excerpt kept on HTTPError.
const maxErrorBody = 512

// TransportError is a network, timeout or TLS failure.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Is reports ErrTransport.
func (e *TransportError) Is(target error) bool { return target == ErrTransport }

// HTTPError is a completed exchange with a non-2xx status.
type HTTPError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%s %s: unexpected status %d", e.Method, e.URL, e.StatusCode)
}

// Is reports ErrTransport.
func (e *HTTPError) Is(target error) bool { return target == ErrTransport }

func newHTTPError(method, url string, status int, body []byte) *HTTPError {
	if len(body) > maxErrorBody {
		cut := maxErrorBody
		for cut > 0 && !utf8.RuneStart(body[cut]) {
			cut--
		}
		body = body[:cut]
	}
	return &HTTPError{Method: method, URL: url, StatusCode: status, Body: string(body)}
}

// DecodeError is a response body that does not match the expected envelope.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return "decode envelope: " + e.Err.Error()
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Is reports ErrDecode.
func (e *DecodeError) Is(target error) bool { return target == ErrDecode }

// ConfigurationFault is an unrecoverable programming or configuration error.
// Constructors return it; the request builder panics with it.
type ConfigurationFault struct {
	Reason string
	Err    error
}

func (e *ConfigurationFault) Error() string {
	if e.Err == nil {
		return "configuration fault: " + e.Reason
	}
	return fmt.Sprintf("configuration fault: %s: %v", e.Reason, e.Err)
}

func (e *ConfigurationFault) Unwrap() error { return e.Err }
