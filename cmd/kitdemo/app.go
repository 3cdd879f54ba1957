package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/eduardoboucas/kit/actions"
	"github.com/eduardoboucas/kit/control"
	"github.com/eduardoboucas/kit/metrics"
	"github.com/eduardoboucas/kit/responder"
	"github.com/eduardoboucas/kit/router"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// newApp wires the demo pages, metrics and health endpoints behind the
// router middleware chain.
func newApp(cfg Config, logger *slog.Logger, registry *prometheus.Registry) (http.Handler, error) {
	resp := responder.NewResponder(responder.WithLogger(logger))
	collector := metrics.NewCollector(registry)
	opts := []actions.Option{
		actions.WithLogger(logger),
		actions.WithResponder(resp),
		actions.WithObserver(collector),
		actions.WithStacks(cfg.Dev),
		actions.WithErrorHook(func(ctx context.Context, err *control.GenericError, ev *actions.Event) {
			logger.ErrorContext(ctx, "action failed",
				"route", ev.RouteID,
				"path", ev.URL().RequestURI(),
				"error", err.Error(),
				"stack", err.Stack(),
			)
		}),
	}

	store := newTodoStore()
	todos, err := actions.NewPage("/todos", todoModule(store), &templateRenderer{
		tmpl:   todosPage,
		title:  "Todos",
		logger: logger,
		load: func(_ *http.Request, data *pageData) {
			data.Todos = store.list()
		},
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("todos page: %w", err)
	}

	login, err := actions.NewPage("/login", loginModule(), &templateRenderer{
		tmpl:   loginPage,
		title:  "Sign in",
		logger: logger,
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("login page: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/todos", todos)
	mux.Handle("/login", login)
	mux.Handle("GET /metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}))
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		resp.RespondWithJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/todos", http.StatusFound)
	})

	routerOpts := []router.Option{
		router.WithLogger(logger),
		router.WithConfig(cfg.Router),
		router.WithResponder(resp),
	}
	if cfg.OpenAPI != "" {
		doc, err := loadOpenAPI(cfg.OpenAPI)
		if err != nil {
			return nil, err
		}
		routerOpts = append(routerOpts, router.WithSwagger(doc))
	} else {
		routerOpts = append(routerOpts, router.WithoutOpenAPIValidation())
	}

	return router.New(mux, routerOpts...), nil
}

func newRegistry() *prometheus.Registry {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return registry
}

func loadOpenAPI(path string) (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load openapi document: %w", err)
	}
	if err := doc.Validate(loader.Context); err != nil {
		return nil, fmt.Errorf("invalid openapi document: %w", err)
	}
	return doc, nil
}
