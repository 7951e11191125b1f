package upstream

import (
	"errors"
	"fmt"
	"net"
)

var (
	// ErrNotConfigured reports a backend whose address or credential is unset.
	ErrNotConfigured = errors.New("backend not configured")
	// ErrUnreachable wraps transport-level failures talking to a backend.
	ErrUnreachable = errors.New("backend unreachable")
	// ErrInvalidResponse reports a backend body that lacks the expected shape.
	ErrInvalidResponse = errors.New("invalid backend response")
)

// StatusError is a non-success answer from a backend. Status is zero when the
// client library did not expose one.
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("backend error: %s", e.Body)
	}
	return fmt.Sprintf("backend returned status %d: %s", e.Status, e.Body)
}

// Unreachable wraps err with ErrUnreachable.
func Unreachable(err error) error {
	return fmt.Errorf("%w: %w", ErrUnreachable, err)
}

// Classify normalizes an error returned by a third-party client: transport
// failures become ErrUnreachable, anything unrecognised becomes a StatusError
// carrying the error text.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	var statusErr *StatusError
	if errors.Is(err, ErrUnreachable) || errors.Is(err, ErrInvalidResponse) || errors.As(err, &statusErr) {
		return err
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return Unreachable(err)
	}
	return &StatusError{Body: err.Error()}
}
