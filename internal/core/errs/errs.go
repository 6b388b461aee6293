// Package errs defines the error taxonomy shared by the session manager, the
// wishlist stores and the extraction cascade.
package errs

import (
	"errors"
	"fmt"
)

var (
	// ErrAuthenticationRequired is returned when a 401 survived one
	// refresh-and-retry cycle, or no usable credentials exist.
	ErrAuthenticationRequired = errors.New("authentication required")
	// ErrDuplicateItem is returned when an item with the same URL already
	// exists in the target wishlist.
	ErrDuplicateItem = errors.New("item already exists")
	// ErrExtractionUnavailable is returned when no page document could be
	// obtained to extract from.
	ErrExtractionUnavailable = errors.New("extraction unavailable")
)

// NetworkError is a transport-level failure talking to the service.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ServiceError is a non-2xx service response. Detail carries the service
// provided reason verbatim when present.
type ServiceError struct {
	StatusCode int
	Detail     string
}

func (e *ServiceError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("service returned status %d", e.StatusCode)
	}
	return e.Detail
}

// UserMessage renders err as the notice shown to the user.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var (
		netErr *NetworkError
		svcErr *ServiceError
	)

	switch {
	case errors.Is(err, ErrAuthenticationRequired):
		return "Session expired. Please log in again."
	case errors.Is(err, ErrDuplicateItem):
		return "This item is already in your wishlist."
	case errors.Is(err, ErrExtractionUnavailable):
		return "Could not read this page."
	case errors.As(err, &svcErr):
		if svcErr.Detail == "" {
			return "Unknown error"
		}
		return svcErr.Detail
	case errors.As(err, &netErr):
		return "Network error: " + netErr.Err.Error()
	default:
		return err.Error()
	}
}
