package metrics

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/eduardoboucas/kit/actions"
	"github.com/eduardoboucas/kit/control"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func submit(h *actions.Handler, target string, m *actions.Module) {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader("a=1"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	h.Handle(actions.NewEvent(req, "/todos"), m)
}

func TestCollectorCountsResults(t *testing.T) {
	registry := prometheus.NewRegistry()
	collector := NewCollector(registry)
	handler := actions.NewHandler(
		actions.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		actions.WithObserver(collector),
	)

	module := &actions.Module{ID: "/todos", Actions: actions.Map{
		"create": actions.ActionFunc(func(*actions.Event) (any, error) { return "ok", nil }),
		"delete": actions.ActionFunc(func(*actions.Event) (any, error) { return nil, errors.New("locked") }),
		"check": actions.ActionFunc(func(*actions.Event) (any, error) {
			return control.Fail(http.StatusBadRequest, "missing"), nil
		}),
	}}

	submit(handler, "/todos?/create", module)
	submit(handler, "/todos?/create", module)
	submit(handler, "/todos?/delete", module)
	submit(handler, "/todos?/check", module)
	submit(handler, "/todos", nil)

	expected := `
		# HELP kit_action_results_total Action submissions by normalised result type and status.
		# TYPE kit_action_results_total counter
		kit_action_results_total{action="check",route="/todos",status="400",type="invalid"} 1
		kit_action_results_total{action="create",route="/todos",status="200",type="success"} 2
		kit_action_results_total{action="delete",route="/todos",status="500",type="error"} 1
		kit_action_results_total{action="none",route="/todos",status="405",type="error"} 1
	`
	if err := testutil.CollectAndCompare(collector.Results, strings.NewReader(expected)); err != nil {
		t.Errorf("unexpected metric value: %v", err)
	}

	if count := testutil.CollectAndCount(collector.Duration); count != 4 {
		t.Errorf("expected 4 duration series, got %d", count)
	}
}

func TestCollectorFoldsUnknownActionNames(t *testing.T) {
	registry := prometheus.NewRegistry()
	collector := NewCollector(registry)
	handler := actions.NewHandler(
		actions.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		actions.WithObserver(collector),
	)
	module := &actions.Module{ID: "/todos", Actions: actions.Map{
		"create": actions.ActionFunc(func(*actions.Event) (any, error) { return "ok", nil }),
	}}

	for i := 0; i < 20; i++ {
		submit(handler, fmt.Sprintf("/todos?/guess%d", i), module)
	}

	if count := testutil.CollectAndCount(collector.Results); count != 1 {
		t.Fatalf("expected unknown names to share one series, got %d", count)
	}
	if got := testutil.ToFloat64(collector.Results.WithLabelValues("/todos", "none", "error", "500")); got != 20 {
		t.Fatalf("expected 20 failed submissions under action=none, got %v", got)
	}
}

func TestCollectorRegistersWithRegistry(t *testing.T) {
	registry := prometheus.NewRegistry()
	collector := NewCollector(registry)

	collector.ObserveAction(actions.NewEvent(httptest.NewRequest(http.MethodPost, "/", nil), "/"), "go",
		actions.Result{Type: actions.TypeSuccess, Status: http.StatusOK}, 5*time.Millisecond)

	families, err := registry.Gather()
	if err != nil {
		t.Fatalf("gather failed: %v", err)
	}
	if len(families) != 2 {
		t.Fatalf("expected 2 metric families, got %d", len(families))
	}
}

func TestNilCollectorIsSafe(t *testing.T) {
	var collector *Collector
	collector.ObserveAction(actions.NewEvent(httptest.NewRequest(http.MethodPost, "/", nil), "/"), "",
		actions.Result{}, 0)
}
