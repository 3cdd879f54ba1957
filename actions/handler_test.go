package actions

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/eduardoboucas/kit/control"
	"github.com/eduardoboucas/kit/jsonsafe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type hookRecorder struct {
	mu     sync.Mutex
	errors []*control.GenericError
}

func (h *hookRecorder) hook(_ context.Context, err *control.GenericError, _ *Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.errors = append(h.errors, err)
}

type observation struct {
	name   string
	result Result
}

type recordingObserver struct {
	seen []observation
}

func (o *recordingObserver) ObserveAction(_ *Event, name string, result Result, _ time.Duration) {
	o.seen = append(o.seen, observation{name: name, result: result})
}

func newTestHandler(hooks *hookRecorder, opts ...Option) *Handler {
	base := []Option{
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithErrorHook(hooks.hook),
	}
	return NewHandler(append(base, opts...)...)
}

func jsonRequest(target string) *http.Request {
	req := formRequest(target)
	req.Header.Set("Accept", "application/json")
	return req
}

func module(actions Map) *Module {
	return &Module{ID: "/todos", Actions: actions}
}

func returning(value any, err error) Action {
	return ActionFunc(func(*Event) (any, error) { return value, err })
}

func decodeWire(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body
}

func serveJSON(h *Handler, req *http.Request, m *Module) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.HandleJSON(rec, NewEvent(req, "/todos"), m)
	return rec
}

func TestIsJSONRequest(t *testing.T) {
	tests := []struct {
		name   string
		method string
		accept string
		want   bool
	}{
		{name: "post without accept", method: http.MethodPost, want: true},
		{name: "post json", method: http.MethodPost, accept: "application/json", want: true},
		{name: "post browser", method: http.MethodPost, accept: "text/html,application/xhtml+xml,*/*;q=0.8"},
		{name: "put json", method: http.MethodPut, accept: "application/json"},
		{name: "post html preferred by quality", method: http.MethodPost, accept: "application/json;q=0.5, text/html"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, "/", nil)
			if tc.accept != "" {
				req.Header.Set("Accept", tc.accept)
			}
			assert.Equal(t, tc.want, IsJSONRequest(req))
		})
	}
}

func TestIsActionRequest(t *testing.T) {
	m := module(nil)
	assert.True(t, IsActionRequest(httptest.NewRequest(http.MethodPost, "/", nil), m))
	assert.True(t, IsActionRequest(httptest.NewRequest(http.MethodDelete, "/", nil), m))
	assert.False(t, IsActionRequest(httptest.NewRequest(http.MethodGet, "/", nil), m))
	assert.False(t, IsActionRequest(httptest.NewRequest(http.MethodHead, "/", nil), m))
	assert.False(t, IsActionRequest(httptest.NewRequest(http.MethodPost, "/", nil), nil))
}

func TestHandleJSONSuccess(t *testing.T) {
	hooks := &hookRecorder{}
	h := newTestHandler(hooks)

	rec := serveJSON(h, jsonRequest("/todos"), module(Map{DefaultAction: returning(map[string]any{"ok": true}, nil)}))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]any{"type": "success", "status": float64(200), "data": map[string]any{"ok": true}}, decodeWire(t, rec))
	assert.Empty(t, hooks.errors)
}

func TestHandleJSONNoData(t *testing.T) {
	h := newTestHandler(&hookRecorder{})

	rec := serveJSON(h, jsonRequest("/todos"), module(Map{DefaultAction: returning(nil, nil)}))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]any{"type": "success", "status": float64(204)}, decodeWire(t, rec))
}

func TestHandleJSONFalsyDataIsPresent(t *testing.T) {
	h := newTestHandler(&hookRecorder{})

	for _, value := range []any{false, 0, ""} {
		rec := serveJSON(h, jsonRequest("/todos"), module(Map{DefaultAction: returning(value, nil)}))

		assert.Equal(t, http.StatusOK, rec.Code)
		body := decodeWire(t, rec)
		assert.Equal(t, float64(200), body["status"], "value %#v", value)
	}
}

func TestHandleJSONInvalid(t *testing.T) {
	h := newTestHandler(&hookRecorder{})
	fail := control.Fail(http.StatusBadRequest, map[string]any{"title": "required"})

	rec := serveJSON(h, jsonRequest("/todos?/create"), module(Map{"create": returning(fail, nil)}))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]any{
		"type":   "invalid",
		"status": float64(400),
		"data":   map[string]any{"title": "required"},
	}, decodeWire(t, rec))
}

func TestHandleJSONRedirect(t *testing.T) {
	hooks := &hookRecorder{}
	h := newTestHandler(hooks)

	rec := serveJSON(h, jsonRequest("/todos"), module(Map{DefaultAction: returning(nil, control.RedirectTo(http.StatusSeeOther, "/login"))}))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]any{"type": "redirect", "status": float64(303), "location": "/login"}, decodeWire(t, rec))
	assert.Empty(t, hooks.errors)
}

func TestHandleJSONHTTPErrorIsNotReported(t *testing.T) {
	hooks := &hookRecorder{}
	h := newTestHandler(hooks)

	rec := serveJSON(h, jsonRequest("/todos"), module(Map{DefaultAction: returning(nil, control.Error(http.StatusForbidden, "admins only"))}))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, map[string]any{
		"type":   "error",
		"status": float64(403),
		"error":  map[string]any{"message": "admins only", "status": float64(403)},
	}, decodeWire(t, rec))
	assert.Empty(t, hooks.errors)
}

func TestHandleJSONGenericErrorIsReported(t *testing.T) {
	hooks := &hookRecorder{}
	sentinel := errors.New("database unavailable")

	t.Run("without stacks", func(t *testing.T) {
		h := newTestHandler(hooks)
		rec := serveJSON(h, jsonRequest("/todos"), module(Map{DefaultAction: returning(nil, sentinel)}))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		body := decodeWire(t, rec)
		assert.Equal(t, "error", body["type"])
		assert.Equal(t, map[string]any{"name": "Error", "message": "database unavailable"}, body["error"])
	})

	t.Run("with stacks", func(t *testing.T) {
		h := newTestHandler(hooks, WithStacks(true))
		rec := serveJSON(h, jsonRequest("/todos"), module(Map{DefaultAction: returning(nil, sentinel)}))

		body := decodeWire(t, rec)
		errBody := body["error"].(map[string]any)
		assert.NotEmpty(t, errBody["stack"])
	})

	require.Len(t, hooks.errors, 2)
	assert.ErrorIs(t, hooks.errors[0], sentinel)
}

func TestHandleJSONConfigurationErrors(t *testing.T) {
	tests := []struct {
		name    string
		target  string
		module  *Module
		kind    error
		message string
	}{
		{
			name:    "named and default",
			target:  "/todos?/create",
			module:  module(Map{DefaultAction: returning(nil, nil), "create": returning(nil, nil)}),
			kind:    ErrNamedDefault,
			message: "When using named actions, the default action cannot be used",
		},
		{
			name:    "explicit default",
			target:  "/todos?/default",
			module:  module(Map{DefaultAction: returning(nil, nil)}),
			kind:    ErrReservedName,
			message: `Cannot use reserved action name "default"`,
		},
		{
			name:    "unknown action",
			target:  "/todos?/nope",
			module:  module(Map{"create": returning(nil, nil)}),
			kind:    ErrNoAction,
			message: "No action with name 'nope' found",
		},
		{
			name:    "deprecated handler",
			target:  "/todos",
			module:  &Module{ID: "/todos", Handlers: map[string]http.Handler{http.MethodPost: http.NotFoundHandler()}},
			kind:    ErrDeprecatedHandler,
			message: "POST method no longer allowed in page server, use actions instead",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			hooks := &hookRecorder{}
			h := newTestHandler(hooks)

			rec := serveJSON(h, jsonRequest(tc.target), tc.module)

			assert.Equal(t, http.StatusInternalServerError, rec.Code)
			body := decodeWire(t, rec)
			assert.Equal(t, "error", body["type"])
			assert.Equal(t, tc.message, body["error"].(map[string]any)["message"])
			require.Len(t, hooks.errors, 1)
			assert.ErrorIs(t, hooks.errors[0], tc.kind)
		})
	}
}

func TestHandleJSONMalformedEscapeSelectsNamedAction(t *testing.T) {
	hooks := &hookRecorder{}
	h := newTestHandler(hooks)
	fallback := &countingAction{value: "default ran"}

	rec := serveJSON(h, jsonRequest("/todos?/a%zz"), module(Map{DefaultAction: fallback}))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Zero(t, fallback.calls)
	body := decodeWire(t, rec)
	assert.Equal(t, "No action with name 'a%zz' found", body["error"].(map[string]any)["message"])
	require.Len(t, hooks.errors, 1)
	assert.ErrorIs(t, hooks.errors[0], ErrNoAction)
}

func TestHandleJSONWrongContentType(t *testing.T) {
	hooks := &hookRecorder{}
	h := newTestHandler(hooks)
	action := &countingAction{}

	req := httptest.NewRequest(http.MethodPost, "/todos", strings.NewReader(`{"title":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	rec := serveJSON(h, req, module(Map{DefaultAction: action}))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Zero(t, action.calls)
	require.Len(t, hooks.errors, 1)
	assert.ErrorIs(t, hooks.errors[0], ErrContentType)
}

func TestHandleJSONNoActions(t *testing.T) {
	hooks := &hookRecorder{}
	h := newTestHandler(hooks)

	for _, m := range []*Module{nil, {ID: "/about"}, {ID: "/about", Actions: Map{}}} {
		rec := serveJSON(h, jsonRequest("/about"), m)

		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
		assert.Equal(t, http.MethodGet, rec.Header().Get("Allow"))
		body := decodeWire(t, rec)
		assert.Equal(t, "error", body["type"])
		assert.Equal(t, float64(405), body["status"])
		assert.Equal(t, msgNoActions, body["error"].(map[string]any)["message"])
	}
	assert.Empty(t, hooks.errors)
}

func TestHandleJSONRejectsOpaqueData(t *testing.T) {
	tests := []struct {
		name  string
		value any
		path  string
	}{
		{name: "success payload", value: map[string]any{"when": time.Now()}, path: "data.when"},
		{name: "invalid payload", value: control.Fail(http.StatusBadRequest, []any{"ok", struct{}{}}), path: "data[1]"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			hooks := &hookRecorder{}
			h := newTestHandler(hooks)

			rec := serveJSON(h, jsonRequest("/todos"), module(Map{DefaultAction: returning(tc.value, nil)}))

			assert.Equal(t, http.StatusInternalServerError, rec.Code)
			require.Len(t, hooks.errors, 1)
			var serr *jsonsafe.Error
			require.ErrorAs(t, hooks.errors[0], &serr)
			assert.Equal(t, tc.path, serr.Path)
			assert.Equal(t, "/todos", serr.RouteID)
		})
	}
}

func TestHandleSkipsSerializabilityAndAlwaysReturns200(t *testing.T) {
	h := newTestHandler(&hookRecorder{})
	when := time.Unix(0, 0)

	result := h.Handle(NewEvent(formRequest("/todos"), "/todos"), module(Map{DefaultAction: returning(when, nil)}))
	assert.Equal(t, Result{Type: TypeSuccess, Status: http.StatusOK, Data: when}, result)

	result = h.Handle(NewEvent(formRequest("/todos"), "/todos"), module(Map{DefaultAction: returning(nil, nil)}))
	assert.Equal(t, Result{Type: TypeSuccess, Status: http.StatusOK}, result)
}

func TestHandleOutcomes(t *testing.T) {
	hooks := &hookRecorder{}
	h := newTestHandler(hooks)
	ev := func() *Event { return NewEvent(formRequest("/todos?/save"), "/todos") }

	result := h.Handle(ev(), module(Map{"save": returning(control.Fail(422, "bad"), nil)}))
	assert.Equal(t, Result{Type: TypeInvalid, Status: 422, Data: "bad"}, result)

	result = h.Handle(ev(), module(Map{"save": returning(nil, control.RedirectTo(http.StatusFound, "/done"))}))
	assert.Equal(t, Result{Type: TypeRedirect, Status: http.StatusFound, Location: "/done"}, result)

	result = h.Handle(ev(), module(Map{"save": returning(nil, control.Error(http.StatusNotFound, "gone"))}))
	assert.Equal(t, TypeError, result.Type)
	assert.Equal(t, http.StatusNotFound, result.Status)
	assert.IsType(t, &control.HTTPError{}, result.Err)
	assert.Empty(t, hooks.errors)

	result = h.Handle(ev(), module(Map{"save": returning(nil, errors.New("boom"))}))
	assert.Equal(t, http.StatusInternalServerError, result.Status)
	assert.IsType(t, &control.GenericError{}, result.Err)
	assert.Len(t, hooks.errors, 1)
}

func TestHandleNoActionsSetsAllowHeader(t *testing.T) {
	h := newTestHandler(&hookRecorder{})
	ev := NewEvent(formRequest("/about"), "/about")

	result := h.Handle(ev, &Module{ID: "/about"})

	assert.Equal(t, TypeError, result.Type)
	assert.Equal(t, http.StatusMethodNotAllowed, result.Status)
	assert.Equal(t, http.MethodGet, ev.Header().Get("Allow"))
}

func TestObserverSeesEveryOutcome(t *testing.T) {
	obs := &recordingObserver{}
	h := newTestHandler(&hookRecorder{}, WithObserver(obs))

	h.Handle(NewEvent(formRequest("/todos?/create"), "/todos"), module(Map{"create": returning(1, nil)}))
	serveJSON(h, jsonRequest("/todos?/missing"), module(Map{"create": returning(1, nil)}))
	h.Handle(NewEvent(formRequest("/about"), "/about"), nil)

	require.Len(t, obs.seen, 3)
	assert.Equal(t, "create", obs.seen[0].name)
	assert.Equal(t, TypeSuccess, obs.seen[0].result.Type)
	assert.Equal(t, "", obs.seen[1].name)
	assert.Equal(t, TypeError, obs.seen[1].result.Type)
	assert.Equal(t, "", obs.seen[2].name)
	assert.Equal(t, http.StatusMethodNotAllowed, obs.seen[2].result.Status)
}

func TestDefaultErrorHookLogs(t *testing.T) {
	buf := &strings.Builder{}
	h := NewHandler(WithLogger(slog.New(slog.NewTextHandler(buf, nil))))

	h.Handle(NewEvent(formRequest("/todos"), "/todos"), module(Map{DefaultAction: returning(nil, errors.New("disk full"))}))

	assert.Contains(t, buf.String(), "action failed")
	assert.Contains(t, buf.String(), "disk full")
	assert.Contains(t, buf.String(), "route=/todos")
}
