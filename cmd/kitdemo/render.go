package main

import (
	"errors"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/eduardoboucas/kit/actions"
	"github.com/eduardoboucas/kit/control"
)

var pages = template.Must(template.New("layout").Parse(`{{define "layout"}}<!doctype html>
<html lang="en">
<head><meta charset="utf-8"><title>{{.Title}}</title></head>
<body>
<h1>{{.Title}}</h1>
{{with .Error}}<p role="alert">{{.}}</p>{{end}}
{{template "body" .}}
</body>
</html>{{end}}`))

var (
	todosPage = template.Must(template.Must(pages.Clone()).Parse(`{{define "body"}}
{{if .User}}<p>Signed in as {{.User}}</p>{{else}}<p><a href="/login">Sign in</a></p>{{end}}
<form method="post" action="?/create">
  <input name="title" value="{{with index .Form "title"}}{{.}}{{end}}">
  {{if index .Form "missing"}}<span>A title is required</span>{{end}}
  {{if index .Form "too_long"}}<span>That title is too long</span>{{end}}
  <button>Add</button>
</form>
<ul>
{{range .Todos}}  <li>
    <form method="post" action="?/toggle"><input type="hidden" name="id" value="{{.ID}}"><button>{{if .Done}}&#10003;{{else}}&#9675;{{end}}</button></form>
    {{.Title}}
    <form method="post" action="?/delete"><input type="hidden" name="id" value="{{.ID}}"><button>Delete</button></form>
  </li>
{{end}}</ul>{{end}}`))

	loginPage = template.Must(template.Must(pages.Clone()).Parse(`{{define "body"}}
<form method="post">
  <input name="user" value="{{with index .Form "user"}}{{.}}{{end}}">
  {{if index .Form "missing"}}<span>Please enter a name</span>{{end}}
  <button>Sign in</button>
</form>{{end}}`))
)

type pageData struct {
	Title string
	User  string
	Error string
	Form  map[string]any
	Todos []todo
}

// templateRenderer renders a page template with the submission result, if
// any, folded into pageData.
type templateRenderer struct {
	tmpl   *template.Template
	title  string
	logger *slog.Logger
	load   func(r *http.Request, data *pageData)
}

func (t *templateRenderer) Render(w http.ResponseWriter, ev *actions.Event, result *actions.Result) {
	data := pageData{Title: t.title, Form: map[string]any{}}
	if c, err := ev.Request.Cookie(sessionCookie); err == nil {
		data.User = c.Value
	}

	status := http.StatusOK
	if result != nil {
		status = result.Status
		switch result.Type {
		case actions.TypeInvalid:
			if fields, ok := result.Data.(map[string]any); ok {
				data.Form = fields
			}
		case actions.TypeError:
			data.Error = errorMessage(result.Err)
		}
	}
	if t.load != nil {
		t.load(ev.Request, &data)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := t.tmpl.ExecuteTemplate(w, "layout", data); err != nil {
		t.logger.ErrorContext(ev.Context(), "failed to render page", "route", ev.RouteID, "error", err)
	}
}

func errorMessage(err error) string {
	var httpErr *control.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Message
	}
	return "Something went wrong"
}
