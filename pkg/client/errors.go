package client

import (
	"errors"
	"fmt"

	"github.com/cuidadomaisfamilia/cuidado-api/pkg/autherr"
)

var (
	ErrNotSignedIn    = errors.New("client: not signed in")
	ErrSessionExpired = errors.New("client: session expired")
)

// APIError is a non-2xx response of the API.
type APIError struct {
	Status  int
	Code    string
	Message string
	Fields  map[string]string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: status %d", e.Status)
	}
	return fmt.Sprintf("api: %s (%d): %s", e.Code, e.Status, e.Message)
}

// Unwrap exposes identity error kinds so autherr.KindOf works on API errors.
func (e *APIError) Unwrap() error {
	if kind := autherr.Kind(e.Code); autherr.Known(kind) {
		return autherr.New(kind)
	}
	return nil
}

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// FieldErrors returns the per-field validation messages carried by err.
func FieldErrors(err error) map[string]string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Fields
	}
	return nil
}
