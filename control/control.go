package control

import (
	"fmt"
	"net/http"
)

// ValidationError rejects a submission while still answering the request.
// It is returned as an action's value, never as its error, which is why it
// does not implement the error interface.
type ValidationError struct {
	Status int
	Data   any
}

// Fail builds a ValidationError carrying field-level feedback for the client.
func Fail(status int, data any) *ValidationError {
	return &ValidationError{Status: status, Data: data}
}

// Redirect tells the client to navigate to Location.
type Redirect struct {
	Status   int
	Location string
}

func (r *Redirect) Error() string {
	return fmt.Sprintf("redirect %d to %s", r.Status, r.Location)
}

// RedirectTo returns a *Redirect error. Status must be in 300..308; any other
// code yields a plain error, which classifies as a GenericError.
func RedirectTo(status int, location string) error {
	if status < http.StatusMultipleChoices || status > http.StatusPermanentRedirect {
		return fmt.Errorf("invalid redirect status code %d", status)
	}
	return &Redirect{Status: status, Location: location}
}

// HTTPError is an expected, user-facing failure. It is not reported to the
// global error hook.
type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d %s", e.Status, e.Message)
}

// Error returns an *HTTPError. Status must be in 400..599; any other code
// yields a plain error, which classifies as a GenericError. An empty message
// falls back to the status text.
func Error(status int, message string) error {
	if status < http.StatusBadRequest || status > 599 {
		return fmt.Errorf("invalid error status code %d", status)
	}
	if message == "" {
		message = http.StatusText(status)
	}
	return &HTTPError{Status: status, Message: message}
}
