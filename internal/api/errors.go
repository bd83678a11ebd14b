package api

import (
	"encoding/json"
	"fmt"
)

// Error is a non-2xx response from the host API.
type Error struct {
	Method     string
	Path       string
	StatusCode int
	// Message is the host's "message" field, when the body carried one.
	Message string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s %s returned status %d", e.Method, e.Path, e.StatusCode)
}

// errorBody is the error payload shape returned by the host.
type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func newError(method, path string, status int, body []byte) *Error {
	e := &Error{Method: method, Path: path, StatusCode: status}
	var eb errorBody
	if len(body) > 0 && json.Unmarshal(body, &eb) == nil {
		e.Message = eb.Message
	}
	return e
}
