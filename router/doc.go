// Package router wraps http.ServeMux with the middleware a page server needs:
// optional OpenAPI request validation, CORS, a cross-site form submission
// guard, a timeout and request logging. ExampleNew_customOptions shows how to
// combine the built-in chain with custom middlewares.
package router
