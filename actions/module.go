package actions

import (
	"context"
	"net/http"
	"net/url"
)

// DefaultAction is the name used when the query string selects no action.
const DefaultAction = "default"

// Action handles one form submission. It returns the data for the page, a
// *control.ValidationError to reject the input, or an error such as
// control.RedirectTo or control.Error. A panic is treated like a returned
// error.
type Action interface {
	Invoke(ev *Event) (any, error)
}

// ActionFunc adapts an ordinary function to the Action interface.
type ActionFunc func(ev *Event) (any, error)

// Invoke calls f(ev).
func (f ActionFunc) Invoke(ev *Event) (any, error) {
	return f(ev)
}

// Map holds the actions of one route keyed by name. It is read-only once the
// route is served.
type Map map[string]Action

// Module is the server side of a route.
type Module struct {
	// ID identifies the route in error messages and metrics, e.g. "/todos".
	ID string
	// Actions may be nil for routes that only render.
	Actions Map
	// Handlers holds bare method handlers. POST, PUT, PATCH and DELETE are no
	// longer accepted here; mutations must be expressed as Actions.
	Handlers map[string]http.Handler
}

// Validate reports the configuration errors that would otherwise surface on
// the first submission. Call it when the route is mounted.
func (m *Module) Validate() error {
	if m == nil {
		return nil
	}
	if len(m.Actions) == 0 {
		return CheckDeprecatedHandlers(m)
	}
	return checkNamedDefaultSeparate(m.Actions)
}

// Event is the request as seen by an action: the inbound request, the route
// it matched and a sink for response headers.
type Event struct {
	Request *http.Request
	RouteID string
	header  http.Header
}

// NewEvent wraps r for the route routeID.
func NewEvent(r *http.Request, routeID string) *Event {
	return &Event{Request: r, RouteID: routeID, header: make(http.Header)}
}

// Context returns the request context. Cancelling it is the caller's way of
// abandoning an action; no timeout is applied here.
func (e *Event) Context() context.Context {
	if e.Request == nil {
		return context.Background()
	}
	return e.Request.Context()
}

// URL returns the request URL.
func (e *Event) URL() *url.URL {
	if e.Request == nil {
		return &url.URL{}
	}
	return e.Request.URL
}

// SetHeader records a header for the eventual response.
func (e *Event) SetHeader(key, value string) {
	e.Header().Set(key, value)
}

// Header returns the response headers collected so far.
func (e *Event) Header() http.Header {
	if e.header == nil {
		e.header = make(http.Header)
	}
	return e.header
}

func (e *Event) copyHeaders(w http.ResponseWriter) {
	for key, values := range e.header {
		for _, v := range values {
			w.Header().Add(key, v)
		}
	}
}
