package clinicapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

var (
	ErrUnauthorized = errors.New("clinic api: unauthorized")
	ErrNotFound     = errors.New("clinic api: not found")
	ErrConflict     = errors.New("clinic api: conflict")
)

const maxErrorBody = 512

// APIError ответ API с кодом 4xx/5xx
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("clinic api: status %d", e.StatusCode)
	}
	return fmt.Sprintf("clinic api: status %d: %s", e.StatusCode, e.Message)
}

// Unwrap сводит известные коды к sentinel ошибкам
func (e *APIError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrUnauthorized
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusConflict:
		return ErrConflict
	default:
		return nil
	}
}

func newAPIError(resp *http.Response) *APIError {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	msg := strings.TrimSpace(string(raw))
	if err := json.Unmarshal(raw, &payload); err == nil {
		switch {
		case payload.Message != "":
			msg = payload.Message
		case payload.Error != "":
			msg = payload.Error
		}
	}

	return &APIError{StatusCode: resp.StatusCode, Message: msg}
}
