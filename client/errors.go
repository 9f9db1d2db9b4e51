package client

import (
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrInvalidCredentials is the single answer to any rejected login.
	// 401, 403 and 404 from the login endpoint are deliberately collapsed
	// into one vague message.
	ErrInvalidCredentials = errors.New("incorrect email or password")

	// ErrSessionInvalid means the API rejected the bearer token on a
	// non-login endpoint. Recovery is forced re-authentication, not retry.
	ErrSessionInvalid = errors.New("session expired, please sign in again")
)

// APIError is any other non-2xx response: surfaced with the server's
// detail when present, retryable by the user, never retried automatically.
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("server error (HTTP %d), please try again", e.Status)
}

// ValidationRejection is a 422: the server refused the submitted value.
// The caller reverts its optimistic edit and re-fetches authoritative
// state.
type ValidationRejection struct {
	Detail string
}

func (e *ValidationRejection) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return "invalid value, grades must be between 0 and 100"
}

// errorBody is the API's error envelope. `detail` is either a plain
// string or a list of {"msg": ...} items.
type errorBody struct {
	Detail json.RawMessage `json:"detail"`
}

func (b errorBody) message() string {
	if len(b.Detail) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(b.Detail, &s); err == nil {
		return s
	}

	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(b.Detail, &items); err == nil && len(items) > 0 {
		return items[0].Msg
	}
	return ""
}
