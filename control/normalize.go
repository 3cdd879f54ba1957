package control

import (
	"errors"
	"fmt"
	"strings"

	pkgerrors "github.com/pkg/errors"
)

// Classified is the closed set Normalize produces: *Redirect, *HTTPError or
// *GenericError.
type Classified interface {
	error
	classified()
}

func (*Redirect) classified()     {}
func (*HTTPError) classified()    {}
func (*GenericError) classified() {}

type stackTracer interface {
	StackTrace() pkgerrors.StackTrace
}

// GenericError wraps an unexpected failure together with the stack at which
// it was created, or at which it was classified when the cause carried none.
type GenericError struct {
	Err   error
	stack pkgerrors.StackTrace
}

func (e *GenericError) Error() string {
	return e.Err.Error()
}

func (e *GenericError) Unwrap() error {
	return e.Err
}

// StackTrace satisfies the pkg/errors stackTracer interface.
func (e *GenericError) StackTrace() pkgerrors.StackTrace {
	return e.stack
}

// Stack renders the captured frames one per line.
func (e *GenericError) Stack() string {
	return strings.TrimPrefix(fmt.Sprintf("%+v", e.stack), "\n")
}

// Normalize classifies err. Redirects and HTTP errors anywhere in the chain
// are returned as is; a GenericError is returned unchanged; anything else is
// wrapped. A nil err yields nil.
func Normalize(err error) Classified {
	if err == nil {
		return nil
	}

	var redirect *Redirect
	if errors.As(err, &redirect) {
		return redirect
	}
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}
	var generic *GenericError
	if errors.As(err, &generic) {
		return generic
	}

	var st stackTracer
	if !errors.As(err, &st) {
		st = pkgerrors.WithStack(err).(stackTracer)
	}
	return &GenericError{Err: err, stack: st.StackTrace()}
}

// Recovered classifies a value obtained from recover(). Errors go through
// Normalize; other values become a GenericError describing the panic.
func Recovered(v any) Classified {
	if v == nil {
		return nil
	}
	if err, ok := v.(error); ok {
		return Normalize(err)
	}
	return Normalize(fmt.Errorf("panic: %v", v))
}
