package client

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrUnavailable  = errors.New("server unavailable")
	ErrNotFound     = errors.New("not found")
	ErrBadRequest   = errors.New("bad request")
	ErrServer       = errors.New("server error")
	ErrBadResponse  = errors.New("bad response")
	ErrNoLocalCache = errors.New("local cache unavailable")
)

// StatusError is a non-2xx answer from the backend. It unwraps to one of the
// sentinel errors above.
type StatusError struct {
	Method string
	Path   string
	Code   int
	Body   string

	kind error
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.Code, http.StatusText(e.Code))
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

func (e *StatusError) Unwrap() error {
	return e.kind
}

func mapStatus(method, path string, code int, body string) error {
	if code >= 200 && code < 300 {
		return nil
	}

	e := &StatusError{Method: method, Path: path, Code: code, Body: body}
	switch {
	case code == http.StatusNotFound:
		e.kind = ErrNotFound
	case code == http.StatusBadGateway, code == http.StatusServiceUnavailable, code == http.StatusGatewayTimeout:
		e.kind = ErrUnavailable
	case code >= 500:
		e.kind = ErrServer
	case code >= 400:
		e.kind = ErrBadRequest
	default:
		e.kind = ErrBadResponse
	}
	return e
}
