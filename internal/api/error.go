package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// Error is a backend failure with an HTTP status. Transport-level failures
// (refused connections, timeouts) are plain wrapped errors, not *Error;
// callers that care about the distinction use errors.As.
type Error struct {
	Method string
	Path   string
	Status int
	Detail string // server's detail message, if it sent one
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s %s: %d: %s", e.Method, e.Path, e.Status, e.Detail)
	}
	return fmt.Sprintf("%s %s: %s", e.Method, e.Path, http.StatusText(e.Status))
}

// IsNotFound reports whether the error is a backend 404.
func (e *Error) IsNotFound() bool { return e.Status == http.StatusNotFound }

// errorBody is the backend's error envelope: {"detail": "Market not found"}.
type errorBody struct {
	Detail string `json:"detail"`
}

// maxErrorBody caps how much of a failed response we read looking for the
// detail message.
const maxErrorBody = 8 << 10

// newStatusError builds an *Error from a non-2xx response, salvaging the
// backend's detail message when the body carries one.
func newStatusError(method, endpoint string, resp *http.Response) *Error {
	apiErr := &Error{
		Method: method,
		Path:   endpoint,
		Status: resp.StatusCode,
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil || len(data) == 0 {
		return apiErr
	}

	var body errorBody
	if err := json.Unmarshal(data, &body); err == nil && body.Detail != "" {
		apiErr.Detail = body.Detail
	}
	return apiErr
}
