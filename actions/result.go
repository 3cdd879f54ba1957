package actions

import (
	"errors"
	"net/http"

	"github.com/eduardoboucas/kit/control"
)

// ResultType tags the variant held by a Result.
type ResultType string

const (
	TypeSuccess  ResultType = "success"
	TypeInvalid  ResultType = "invalid"
	TypeRedirect ResultType = "redirect"
	TypeError    ResultType = "error"
)

// Result is the normalised outcome of one submission. Exactly one is produced
// per request.
//
//	success   Status, Data (nil when the action returned nothing)
//	invalid   Status, Data from the control.ValidationError
//	redirect  Status, Location
//	error     Status, Err (*control.HTTPError or *control.GenericError)
type Result struct {
	Type     ResultType
	Status   int
	Data     any
	Location string
	Err      control.Classified
}

// ErrorBody is the wire form of a failed Result.
type ErrorBody struct {
	Name    string     `json:"name,omitempty"`
	Message string     `json:"message"`
	Status  int        `json:"status,omitempty"`
	Stack   string     `json:"stack,omitempty"`
	Cause   *ErrorBody `json:"cause,omitempty"`
}

type wireResult struct {
	Type     ResultType `json:"type"`
	Status   int        `json:"status"`
	Data     any        `json:"data,omitempty"`
	Location string     `json:"location,omitempty"`
	Error    *ErrorBody `json:"error,omitempty"`
}

func (r Result) wire(withStack bool) wireResult {
	out := wireResult{Type: r.Type, Status: r.Status, Data: r.Data, Location: r.Location}
	if r.Err != nil {
		out.Error = errorBody(r.Err, withStack)
	}
	return out
}

// wireStatus is the HTTP status used when r is sent as JSON: 200 for every
// outcome except errors, which carry their own status. The outcome status is
// always in the payload.
func (r Result) wireStatus() int {
	if r.Type == TypeError {
		return r.Status
	}
	return http.StatusOK
}

func errorBody(err error, withStack bool) *ErrorBody {
	var httpErr *control.HTTPError
	if errors.As(err, &httpErr) {
		return &ErrorBody{Message: httpErr.Message, Status: httpErr.Status}
	}

	body := &ErrorBody{Name: "Error", Message: err.Error()}
	var generic *control.GenericError
	if errors.As(err, &generic) {
		if withStack {
			body.Stack = generic.Stack()
		}
		err = generic.Err
	}
	if cause := errors.Unwrap(err); cause != nil {
		body.Cause = errorBody(cause, false)
	}
	return body
}
