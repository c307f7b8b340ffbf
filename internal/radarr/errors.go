package radarr

import (
	"errors"
	"fmt"
	"time"
)

// TimeoutError is returned when a fetch did not resolve within the client
// timeout. The underlying request may still complete; its result is dropped.
type TimeoutError struct {
	ServerID int
	Endpoint string
	After    time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("server %d %s: network request timed out after %s", e.ServerID, e.Endpoint, e.After)
}

// NetworkError wraps transport, status and decode failures.
type NetworkError struct {
	ServerID int
	Endpoint string
	Err      error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("server %d %s: %v", e.ServerID, e.Endpoint, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// IsTimeout reports whether err is (or wraps) a TimeoutError.
func IsTimeout(err error) bool {
	var te *TimeoutError
	return errors.As(err, &te)
}

// IsNetwork reports whether err is (or wraps) a NetworkError.
func IsNetwork(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}
