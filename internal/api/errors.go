package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNetwork indicates the server could not be reached.
	ErrNetwork = errors.New("api: network unavailable")
	// ErrServer indicates a 5xx response.
	ErrServer = errors.New("api: server error")
	// ErrUnauthorized indicates a 401 or 403 response.
	ErrUnauthorized = errors.New("api: unauthorized")
	// ErrNotFound indicates a 404 response.
	ErrNotFound = errors.New("api: not found")
)

// StatusError is a non-2xx response. It unwraps to the matching sentinel
// when the status has one.
type StatusError struct {
	Op     string
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("api: %s: unexpected status %d %s", e.Op, e.Code, http.StatusText(e.Code))
}

// Unwrap maps the status code onto the sentinel errors.
func (e *StatusError) Unwrap() error {
	switch {
	case e.Code == http.StatusUnauthorized || e.Code == http.StatusForbidden:
		return ErrUnauthorized
	case e.Code == http.StatusNotFound:
		return ErrNotFound
	case e.Code >= 500:
		return ErrServer
	}
	return nil
}

// Kind is the class of a failure, used to choose what to show the user.
type Kind int

const (
	KindNone Kind = iota
	KindNetwork
	KindServer
	KindAuth
	KindNotFound
	KindGeneric
)

// Classify returns the Kind of err.
func Classify(err error) Kind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrUnauthorized):
		return KindAuth
	case errors.Is(err, ErrServer):
		return KindServer
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrNetwork), errors.Is(err, context.DeadlineExceeded):
		return KindNetwork
	}
	return KindGeneric
}

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindNetwork:
		return "network"
	case KindServer:
		return "server"
	case KindAuth:
		return "auth"
	case KindNotFound:
		return "not-found"
	}
	return "generic"
}

// Title is the heading shown for a failure of this kind.
func (k Kind) Title() string {
	switch k {
	case KindNetwork:
		return "Connection Problem"
	case KindServer:
		return "Server Error"
	case KindAuth:
		return "Access Denied"
	case KindNotFound:
		return "Not Found"
	}
	return "Something Went Wrong"
}

// Message is the explanation shown for a failure of this kind.
func (k Kind) Message() string {
	switch k {
	case KindNetwork:
		return "Unable to connect to the server. Check the API URL and your connection, then try again."
	case KindServer:
		return "The server is having trouble. Try again in a few minutes."
	case KindAuth:
		return "You don't have permission to access this resource. Contact support if this seems wrong."
	case KindNotFound:
		return "The requested resource does not exist."
	}
	return "An unexpected error occurred. Try again, or contact support if it keeps happening."
}

// Retryable reports whether retrying the same request may succeed.
func (k Kind) Retryable() bool {
	return k != KindAuth && k != KindNotFound
}
