// Package apperr defines the error taxonomy shared by the service clients
// and the session layer.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// HTTPError means the backend was reachable but rejected the request.
// Message is taken from the decoded error body when present.
type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("http %d: %s", e.Status, e.Message)
}

// NetworkError means the backend could not be reached at all.
type NetworkError struct {
	Service string
	Err     error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s service unreachable: %v", e.Service, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// IsAuthExpired reports whether err is a 401 rejection. Any such error
// forces a logout regardless of which backend produced it.
func IsAuthExpired(err error) bool {
	var he *HTTPError
	return errors.As(err, &he) && he.Status == http.StatusUnauthorized
}

// IsNetwork reports whether err means the backend was unreachable.
func IsNetwork(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}

// StatusCode maps an error to the HTTP status the portal surface should
// respond with. Unreachable backends become 502, unknown errors 500.
func StatusCode(err error) int {
	var he *HTTPError
	if errors.As(err, &he) {
		return he.Status
	}
	if IsNetwork(err) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
