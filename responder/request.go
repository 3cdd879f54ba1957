package responder

import (
	"context"
	"net/http"

	"github.com/eduardoboucas/kit/form"
)

// ReadForm decodes the submitted form into dst and answers with a 400 problem
// document when the body cannot be parsed. It reports whether decoding
// succeeded.
func (r *Responder) ReadForm(w http.ResponseWriter, req *http.Request, dst any) bool {
	if err := form.Decode(req, dst); err != nil {
		r.HandleBadRequestError(w, req, err, "failed to parse form submission")
		return false
	}
	return true
}

func requestInstance(req *http.Request) string {
	if req == nil || req.URL == nil {
		return ""
	}
	return req.URL.RequestURI()
}

func requestContext(req *http.Request) context.Context {
	if req == nil {
		return context.Background()
	}
	return req.Context()
}
