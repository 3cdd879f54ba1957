package responder

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/eduardoboucas/kit/control"
)

// ProblemDetails is an RFC 9457 problem document. Failures outside the action
// pipeline (CSRF rejections, bad form bodies, disallowed methods) are written
// in this shape.
type ProblemDetails struct {
	Type      string `json:"type,omitempty"`
	Title     string `json:"title"`
	Status    int    `json:"status"`
	Detail    string `json:"detail,omitempty"`
	Instance  string `json:"instance,omitempty"`
	TraceID   string `json:"traceId,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
}

func (r *Responder) statusMetaFor(status int) statusMeta {
	return normalizeStatusMeta(status, r.statusMetadata[status])
}

func (r *Responder) newProblem(req *http.Request, status int, err error, meta statusMeta) ProblemDetails {
	return ProblemDetails{
		Type:      meta.typeURI,
		Title:     meta.title,
		Status:    status,
		Detail:    problemDetail(err),
		Instance:  requestInstance(req),
		TraceID:   newTraceID(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// problemDetail is the client-facing message for err. An HTTPError carries
// one already; its status is in the document and is not repeated.
func problemDetail(err error) string {
	var httpErr *control.HTTPError
	if errors.As(err, &httpErr) && httpErr.Message != "" {
		return httpErr.Message
	}
	return err.Error()
}

func (r *Responder) logProblem(req *http.Request, meta statusMeta, err error, problem ProblemDetails, msgs []string) {
	attrs := []slog.Attr{
		slog.String("error", err.Error()),
		slog.String("traceId", problem.TraceID),
		slog.Int("status", problem.Status),
	}
	if req != nil {
		attrs = append(attrs, slog.String("method", req.Method), slog.String("path", problem.Instance))
	}
	if len(msgs) > 0 {
		attrs = append(attrs, slog.Any("logMessages", msgs))
	}
	r.logger().LogAttrs(requestContext(req), meta.logLevel, meta.logMsg, attrs...)
}

// normalizeStatusMeta fills the blanks in meta. Only 5xx statuses default to
// error level; the zero level is Info, which is what 4xx problems log at.
func normalizeStatusMeta(status int, meta statusMeta) statusMeta {
	if meta.logLevel == slog.LevelInfo && status >= http.StatusInternalServerError {
		meta.logLevel = slog.LevelError
	}
	if meta.title == "" {
		meta.title = http.StatusText(status)
	}
	if meta.logMsg == "" {
		meta.logMsg = meta.title
	}
	if meta.typeURI == "" {
		meta.typeURI = fmt.Sprintf("%s/%d", statusDocBaseURL, status)
	}
	return meta
}
