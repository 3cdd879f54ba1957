package actions

import (
	"errors"
	"net/http"
)

// Renderer is the page-rendering layer. result is nil for GET and HEAD
// requests; otherwise it is the outcome of the submission and the renderer
// is expected to write result.Status.
type Renderer interface {
	Render(w http.ResponseWriter, ev *Event, result *Result)
}

// RendererFunc adapts a function to the Renderer interface.
type RendererFunc func(w http.ResponseWriter, ev *Event, result *Result)

// Render calls f(w, ev, result).
func (f RendererFunc) Render(w http.ResponseWriter, ev *Event, result *Result) {
	f(w, ev, result)
}

// Page serves one route: reads go to the Renderer, submissions go through the
// Handler and then to the Renderer or onto the wire as JSON.
type Page struct {
	ID       string
	Module   *Module
	Renderer Renderer
	Handler  *Handler
}

// NewPage validates module and returns a Page for it. A nil module describes
// a route without server code, which only answers GET and HEAD.
func NewPage(id string, module *Module, renderer Renderer, opts ...Option) (*Page, error) {
	if renderer == nil {
		return nil, errors.New("actions: renderer is required")
	}
	if err := module.Validate(); err != nil {
		return nil, err
	}
	if module != nil && module.ID == "" {
		module.ID = id
	}
	return &Page{ID: id, Module: module, Renderer: renderer, Handler: NewHandler(opts...)}, nil
}

func (p *Page) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ev := NewEvent(r, p.ID)

	switch {
	case IsActionRequest(r, p.Module) && IsJSONRequest(r):
		p.Handler.HandleJSON(w, ev, p.Module)
	case IsActionRequest(r, p.Module):
		result := p.Handler.Handle(ev, p.Module)
		ev.copyHeaders(w)
		if result.Type == TypeRedirect {
			http.Redirect(w, r, result.Location, result.Status)
			return
		}
		p.Renderer.Render(w, ev, &result)
	case r.Method == http.MethodGet || r.Method == http.MethodHead:
		ev.copyHeaders(w)
		p.Renderer.Render(w, ev, nil)
	default:
		p.Handler.responder.HandleMethodNotAllowed(w, r,
			errors.New(r.Method+" method not allowed on a page without server code"),
			http.MethodGet, http.MethodHead)
	}
}
