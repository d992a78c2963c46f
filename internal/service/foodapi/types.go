package foodapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrUnauthorized      = errors.New("unauthorized")
	ErrNotFound          = errors.New("not found")
	ErrMalformedResponse = errors.New("malformed response")
)

// Error is a failure reported by the backend, either through a non-2xx status or
// through a {"success": false} envelope.
type Error struct {
	StatusCode int    `json:"status"`
	Message    string `json:"message"`
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("foodapi: status %d", e.StatusCode)
	}
	return fmt.Sprintf("foodapi: status %d: %s", e.StatusCode, e.Message)
}

func (e *Error) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	}
	return false
}

// envelope is the {success, message, data} wrapper some endpoints use.
type envelope struct {
	Success *bool           `json:"success"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Data    json.RawMessage `json:"data"`
}

// unwrap returns the payload of a wrapped response, or the body itself when it is bare.
func unwrap(status int, body []byte) (json.RawMessage, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%w: empty body", ErrMalformedResponse)
	}
	if trimmed[0] != '{' {
		return trimmed, nil
	}

	var env envelope
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if env.Success == nil {
		return trimmed, nil
	}
	if !*env.Success {
		return nil, &Error{StatusCode: status, Message: env.message()}
	}
	return env.Data, nil
}

// errorFromBody builds an Error for a non-2xx response, keeping whatever message the backend sent.
func errorFromBody(status int, body []byte) error {
	apiErr := &Error{StatusCode: status}
	var env envelope
	if err := json.Unmarshal(body, &env); err == nil {
		apiErr.Message = env.message()
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(status)
	}
	return apiErr
}

func (e envelope) message() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Error
}

func decode(status int, body []byte, out any) error {
	payload, err := unwrap(status, body)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if len(payload) == 0 || bytes.Equal(payload, []byte("null")) {
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return nil
}
