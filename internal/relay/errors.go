package relay

import (
	"errors"
	"fmt"
	"net/http"

	"chatrelay/internal/upstream"
)

// Kind classifies a relay failure.
type Kind int

const (
	KindBadRequest Kind = iota + 1
	KindMisconfigured
	KindUpstream
	KindInvalidResponse
	KindNetwork
)

func (k Kind) String() string {
	switch k {
	case KindBadRequest:
		return "bad request"
	case KindMisconfigured:
		return "misconfigured"
	case KindUpstream:
		return "upstream error"
	case KindInvalidResponse:
		return "invalid response"
	case KindNetwork:
		return "network failure"
	default:
		return "internal error"
	}
}

// Status is the HTTP status a relay answers with for this kind.
func (k Kind) Status() int {
	switch k {
	case KindBadRequest:
		return http.StatusBadRequest
	case KindUpstream, KindInvalidResponse, KindNetwork:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Error is the tagged failure returned by the relays.
type Error struct {
	Kind   Kind
	Detail string
	Err    error
}

func (e *Error) Error() string {
	if e.Detail == "" {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

func (e *Error) Unwrap() error { return e.Err }

func badRequest(detail string) *Error {
	return &Error{Kind: KindBadRequest, Detail: detail}
}

func misconfigured(detail string) *Error {
	return &Error{Kind: KindMisconfigured, Detail: detail}
}

// fromBackend maps a backend error onto the relay taxonomy.
func fromBackend(err error) *Error {
	var statusErr *upstream.StatusError
	switch {
	case errors.As(err, &statusErr):
		detail := statusErr.Body
		if statusErr.Status != 0 {
			detail = fmt.Sprintf("status %d: %s", statusErr.Status, statusErr.Body)
		}
		return &Error{Kind: KindUpstream, Detail: detail, Err: err}
	case errors.Is(err, upstream.ErrInvalidResponse):
		return &Error{Kind: KindInvalidResponse, Detail: err.Error(), Err: err}
	case errors.Is(err, upstream.ErrUnreachable):
		return &Error{Kind: KindNetwork, Detail: err.Error(), Err: err}
	case errors.Is(err, upstream.ErrNotConfigured):
		return &Error{Kind: KindMisconfigured, Detail: err.Error(), Err: err}
	default:
		return &Error{Kind: KindUpstream, Detail: err.Error(), Err: err}
	}
}

// AsError returns err as a relay Error, treating unknown errors as internal.
func AsError(err error) *Error {
	var relayErr *Error
	if errors.As(err, &relayErr) {
		return relayErr
	}
	return &Error{Kind: 0, Detail: err.Error(), Err: err}
}
