// Package kit turns HTML form submissions into calls to named server-side
// actions and normalises their outcome, so the same route can answer a plain
// browser POST with a rendered page and a fetch request with JSON.
//
// # Packages
//
//   - actions: action resolution, invocation and result normalisation, plus
//     Page, an http.Handler that glues them to a Renderer.
//   - control: the values actions use to steer the outcome (Fail, RedirectTo,
//     Error) and the classifier that maps any error onto them.
//   - negotiate: Accept header negotiation.
//   - jsonsafe: the check that action data can travel as JSON.
//   - form: decoding of form-encoded bodies into structs.
//   - responder: JSON rendering and RFC 9457 problem documents.
//   - router: ServeMux assembly with CSRF, CORS, timeout, logging and
//     optional OpenAPI validation middleware.
//   - metrics: a Prometheus observer for action outcomes.
//   - jsonutil: sonic wrappers used for every wire write.
//
// # Quick Start
//
//	module := &actions.Module{
//	    Actions: actions.Map{
//	        "create": actions.ActionFunc(func(ev *actions.Event) (any, error) {
//	            var in struct {
//	                Title string `form:"title"`
//	            }
//	            if err := form.Decode(ev.Request, &in); err != nil {
//	                return nil, err
//	            }
//	            if in.Title == "" {
//	                return control.Fail(http.StatusBadRequest, map[string]any{"missing": true}), nil
//	            }
//	            return map[string]any{"title": in.Title}, nil
//	        }),
//	    },
//	}
//	page, err := actions.NewPage("/todos", module, renderer,
//	    actions.WithObserver(metrics.NewCollector(registry)))
//
//	mux := http.NewServeMux()
//	mux.Handle("/todos", page)
//	http.ListenAndServe(":8080", router.New(mux, router.WithLogger(logger)))
//
// cmd/kitdemo is a complete application configured from YAML.
package kit
