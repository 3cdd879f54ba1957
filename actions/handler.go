package actions

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/eduardoboucas/kit/control"
	"github.com/eduardoboucas/kit/jsonsafe"
	"github.com/eduardoboucas/kit/negotiate"
	"github.com/eduardoboucas/kit/responder"
)

const (
	jsonType = "application/json"
	htmlType = "text/html"

	msgNoActions = "POST method not allowed. No actions exist for this page"
)

// ErrorHook receives every unexpected failure, i.e. everything that is not a
// redirect or a control.HTTPError.
type ErrorHook func(ctx context.Context, err *control.GenericError, ev *Event)

// Observer is notified once per handled submission. name is empty when no
// action was resolved.
type Observer interface {
	ObserveAction(ev *Event, name string, result Result, elapsed time.Duration)
}

// Option configures a Handler.
type Option func(*Handler)

// Handler runs submissions through resolution, invocation and
// classification. It holds no per-request state and is safe for concurrent
// use.
type Handler struct {
	logger    *slog.Logger
	responder *responder.Responder
	onError   ErrorHook
	observers []Observer
	stacks    bool
}

// NewHandler returns a Handler logging through slog.Default. Without
// WithErrorHook unexpected failures are logged at error level.
func NewHandler(opts ...Option) *Handler {
	h := &Handler{logger: slog.Default()}
	for _, opt := range opts {
		if opt != nil {
			opt(h)
		}
	}
	if h.responder == nil {
		h.responder = responder.NewResponder(responder.WithLogger(h.logger))
	}
	if h.onError == nil {
		h.onError = h.logError
	}
	return h
}

// WithLogger sets the logger used for diagnostics and the default error hook.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Handler) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// WithResponder replaces the responder that writes JSON responses.
func WithResponder(r *responder.Responder) Option {
	return func(h *Handler) {
		if r != nil {
			h.responder = r
		}
	}
}

// WithErrorHook installs the global error hook.
func WithErrorHook(hook ErrorHook) Option {
	return func(h *Handler) {
		if hook != nil {
			h.onError = hook
		}
	}
}

// WithObserver registers an observer, e.g. a metrics collector.
func WithObserver(o Observer) Option {
	return func(h *Handler) {
		if o != nil {
			h.observers = append(h.observers, o)
		}
	}
}

// WithStacks exposes stack traces of unexpected failures in JSON responses.
// Enable it in development only.
func WithStacks(enabled bool) Option {
	return func(h *Handler) {
		h.stacks = enabled
	}
}

// IsJSONRequest reports whether r is a POST whose Accept header prefers
// application/json over text/html.
func IsJSONRequest(r *http.Request) bool {
	accept := r.Header.Get("Accept")
	if accept == "" {
		accept = negotiate.Wildcard
	}
	return negotiate.Negotiate(accept, jsonType, htmlType) == jsonType && r.Method == http.MethodPost
}

// IsActionRequest reports whether r should be dispatched to module: the route
// has server code and the method is neither GET nor HEAD.
func IsActionRequest(r *http.Request, module *Module) bool {
	return module != nil && r.Method != http.MethodGet && r.Method != http.MethodHead
}

// Handle runs the submission for the full-page render path. The Result is
// passed to the rendering layer untouched; its data is not checked for JSON
// safety and success is always 200.
func (h *Handler) Handle(ev *Event, module *Module) Result {
	return h.run(ev, module, false)
}

// HandleJSON runs the submission and writes the Result as JSON. Success and
// invalid payloads must pass jsonsafe.Check. A success without data reports
// status 204 in the body; only nil counts as no data, so false, 0 and "" are
// reported as 200. The HTTP status is 200 unless the result is an error.
func (h *Handler) HandleJSON(w http.ResponseWriter, ev *Event, module *Module) {
	result := h.run(ev, module, true)
	ev.copyHeaders(w)
	h.responder.RespondWithJSON(w, ev.Request, result.wireStatus(), result.wire(h.stacks))
}

func (h *Handler) run(ev *Event, module *Module, wire bool) Result {
	start := time.Now()
	result, name := h.dispatch(ev, module, wire)
	for _, o := range h.observers {
		o.ObserveAction(ev, name, result, time.Since(start))
	}
	return result
}

func (h *Handler) dispatch(ev *Event, module *Module, wire bool) (Result, string) {
	if module == nil || len(module.Actions) == 0 {
		if err := CheckDeprecatedHandlers(module); err != nil {
			return h.failed(ev, err), ""
		}
		ev.SetHeader("Allow", http.MethodGet)
		return Result{
			Type:   TypeError,
			Status: http.StatusMethodNotAllowed,
			Err:    &control.HTTPError{Status: http.StatusMethodNotAllowed, Message: msgNoActions},
		}, ""
	}

	value, name, err := call(ev, module.Actions)
	if err != nil {
		return h.failed(ev, err), name
	}
	h.logger.Debug("action completed", "route", ev.RouteID, "action", name)

	if invalid, ok := value.(*control.ValidationError); ok {
		if invalid == nil {
			value = nil
		} else {
			if wire {
				if err := jsonsafe.Check(invalid.Data, ev.RouteID, "data"); err != nil {
					return h.failed(ev, err), name
				}
			}
			return Result{Type: TypeInvalid, Status: invalid.Status, Data: invalid.Data}, name
		}
	}

	status := http.StatusOK
	if wire {
		if err := jsonsafe.Check(value, ev.RouteID, "data"); err != nil {
			return h.failed(ev, err), name
		}
		if value == nil {
			status = http.StatusNoContent
		}
	}
	return Result{Type: TypeSuccess, Status: status, Data: value}, name
}

func (h *Handler) failed(ev *Event, err error) Result {
	switch classified := control.Normalize(err).(type) {
	case *control.Redirect:
		return Result{Type: TypeRedirect, Status: classified.Status, Location: classified.Location}
	case *control.HTTPError:
		return Result{Type: TypeError, Status: classified.Status, Err: classified}
	case *control.GenericError:
		h.onError(ev.Context(), classified, ev)
		return Result{Type: TypeError, Status: http.StatusInternalServerError, Err: classified}
	}
	// Normalize never returns nil for a non-nil error.
	panic("actions: unclassified error")
}

func (h *Handler) logError(ctx context.Context, err *control.GenericError, ev *Event) {
	attrs := []any{"error", err.Error(), "route", ev.RouteID, "stack", err.Stack()}
	if ev.Request != nil {
		attrs = append(attrs, "method", ev.Request.Method, "path", ev.Request.URL.RequestURI())
	}
	h.logger.ErrorContext(ctx, "action failed", attrs...)
}
