package exchangeflex

import (
	"errors"
	"fmt"
)

var (
	// ErrTransport is matched by every failure to get a 2xx answer from the service
	ErrTransport = errors.New("transport error")

	// ErrMalformedResponse is returned when the response body is not well-formed XML
	ErrMalformedResponse = errors.New("malformed response")

	// ErrMissingField is returned when a required element is absent from the response
	ErrMissingField = errors.New("missing field")

	// ErrValueFormat is returned when an element's text can't be converted to its field type
	ErrValueFormat = errors.New("invalid value format")

	// ErrInvalidInput is returned before sending when a parameter can't be carried by XML unchanged
	ErrInvalidInput = errors.New("invalid input")
)

const (
	msgAccountStatus = "error fetching account status from Flexcube"
	msgPayment       = "error sending payment to Flexcube"
	msgListOps       = "error listing operations"
)

// TransportError reports a call that did not end with a 2xx response.
// StatusCode is 0 when no response was received at all.
type TransportError struct {
	Message    string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	case e.StatusCode != 0:
		return fmt.Sprintf("%s: unexpected HTTP status %d", e.Message, e.StatusCode)
	default:
		return e.Message
	}
}

// Is makes errors.Is(err, ErrTransport) true for any *TransportError
func (e *TransportError) Is(target error) bool {
	return target == ErrTransport
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
