package router

import (
	"fmt"
	"mime"
	"net/http"
	"slices"

	"github.com/eduardoboucas/kit/form"
	"github.com/eduardoboucas/kit/responder"
)

// formContentTypes are the encodings a browser can submit cross-origin
// without a preflight.
var formContentTypes = []string{form.URLEncoded, form.Multipart, "text/plain"}

var unsafeMethods = []string{http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete}

// csrfMiddleware rejects form submissions whose Origin is neither the
// request's own origin nor trusted.
func csrfMiddleware(cfg CSRFConfig, resp *responder.Responder) Middleware {
	trusted := cloneStrings(cfg.TrustedOrigins)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isCrossSiteForm(r, trusted) {
				resp.HandleAPIError(w, r, http.StatusForbidden,
					fmt.Errorf("Cross-site %s form submissions are forbidden", r.Method))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func isCrossSiteForm(r *http.Request, trusted []string) bool {
	if !slices.Contains(unsafeMethods, r.Method) || !isFormContentType(r) {
		return false
	}
	origin := r.Header.Get("Origin")
	if origin != "" && (origin == requestOrigin(r) || allowedOrigin(origin, trusted)) {
		return false
	}
	return true
}

func isFormContentType(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return false
	}
	return slices.Contains(formContentTypes, mediaType)
}

func requestOrigin(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}
