package casgate

import (
	"fmt"
	"net/http"

	"github.com/pkg/errors"
)

var (
	// ErrMissingBaseURL is returned at setup when no CAS base url is configured.
	ErrMissingBaseURL = errors.New("no CAS base url provided")
	// ErrTicketAbsent means the request carried neither a ticket parameter nor a bearer token.
	ErrTicketAbsent = errors.New("no service ticket found")
	// ErrTransport means the CAS server could not be reached or the response could not be read.
	ErrTransport = errors.New("CAS server unreachable")
	// ErrMalformedResponse means CAS answered with a body of unexpected shape.
	ErrMalformedResponse = errors.New("malformed CAS response")
	// ErrAuthenticationRejected means CAS denied the ticket.
	ErrAuthenticationRejected = errors.New("CAS authentication rejected")
)

const (
	messageUnauthorized    = "Unauthorized. No service ticket found or invalid."
	messageRequestFailure  = "Error on validation request."
	messageResponseFailure = "Error on validation response."
)

// ValidationError is the error handed downstream when the gate runs in pass
// mode. StatusCode and Message are what the gate would have responded with in
// block mode.
type ValidationError struct {
	StatusCode int
	Message    string
	cause      error
}

func newValidationError(statusCode int, message string, cause error) *ValidationError {
	return &ValidationError{StatusCode: statusCode, Message: message, cause: cause}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%d %s: %s", e.StatusCode, http.StatusText(e.StatusCode), e.Message)
}

// Cause returns the sentinel describing the failure category.
func (e *ValidationError) Cause() error {
	return e.cause
}

func (e *ValidationError) Unwrap() error {
	return e.cause
}

// transportError wraps the low level error of the validation round trip.
// response is false when the request itself failed.
type transportError struct {
	response bool
	err      error
}

func (e *transportError) Error() string {
	if e.response {
		return "error on validation response: " + e.err.Error()
	}
	return "error on validation request: " + e.err.Error()
}

func (e *transportError) Is(target error) bool {
	return target == ErrTransport
}

func (e *transportError) Unwrap() error {
	return e.err
}
