package main

import (
	"net/http"
	"slices"
	"strings"
	"sync"

	"github.com/eduardoboucas/kit/actions"
	"github.com/eduardoboucas/kit/control"
	"github.com/eduardoboucas/kit/form"
)

type todo struct {
	ID    int
	Title string
	Done  bool
}

// todoStore is an in-memory list shared by all requests.
type todoStore struct {
	mu     sync.Mutex
	nextID int
	items  []todo
}

func newTodoStore() *todoStore {
	return &todoStore{nextID: 1}
}

func (s *todoStore) list() []todo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.items)
}

func (s *todoStore) add(title string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.items = append(s.items, todo{ID: id, Title: title})
	return id
}

func (s *todoStore) toggle(id int) (bool, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID == id {
			s.items[i].Done = !s.items[i].Done
			return s.items[i].Done, true
		}
	}
	return false, false
}

func (s *todoStore) remove(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := slices.IndexFunc(s.items, func(t todo) bool { return t.ID == id })
	if i < 0 {
		return false
	}
	s.items = slices.Delete(s.items, i, i+1)
	return true
}

const maxTitleLength = 140

type todoInput struct {
	ID    int    `form:"id"`
	Title string `form:"title"`
}

func todoModule(store *todoStore) *actions.Module {
	return &actions.Module{
		ID: "/todos",
		Actions: actions.Map{
			"create": actions.ActionFunc(func(ev *actions.Event) (any, error) {
				var in todoInput
				if err := form.Decode(ev.Request, &in); err != nil {
					return nil, control.Error(http.StatusBadRequest, err.Error())
				}
				title := strings.TrimSpace(in.Title)
				switch {
				case title == "":
					return control.Fail(http.StatusBadRequest, map[string]any{"title": in.Title, "missing": true}), nil
				case len(title) > maxTitleLength:
					return control.Fail(http.StatusBadRequest, map[string]any{"title": in.Title, "too_long": true}), nil
				}
				return map[string]any{"id": store.add(title)}, nil
			}),
			"toggle": actions.ActionFunc(func(ev *actions.Event) (any, error) {
				var in todoInput
				if err := form.Decode(ev.Request, &in); err != nil {
					return nil, control.Error(http.StatusBadRequest, err.Error())
				}
				done, ok := store.toggle(in.ID)
				if !ok {
					return nil, control.Error(http.StatusNotFound, "todo not found")
				}
				return map[string]any{"id": in.ID, "done": done}, nil
			}),
			"delete": actions.ActionFunc(func(ev *actions.Event) (any, error) {
				var in todoInput
				if err := form.Decode(ev.Request, &in); err != nil {
					return nil, control.Error(http.StatusBadRequest, err.Error())
				}
				if !store.remove(in.ID) {
					return nil, control.Error(http.StatusNotFound, "todo not found")
				}
				return nil, nil
			}),
		},
	}
}

type loginInput struct {
	User string `form:"user"`
}

const sessionCookie = "kitdemo_user"

func loginModule() *actions.Module {
	return &actions.Module{
		ID: "/login",
		Actions: actions.Map{
			actions.DefaultAction: actions.ActionFunc(func(ev *actions.Event) (any, error) {
				var in loginInput
				if err := form.Decode(ev.Request, &in); err != nil {
					return nil, control.Error(http.StatusBadRequest, err.Error())
				}
				user := strings.TrimSpace(in.User)
				if user == "" {
					return control.Fail(http.StatusBadRequest, map[string]any{"user": in.User, "missing": true}), nil
				}
				cookie := &http.Cookie{Name: sessionCookie, Value: user, Path: "/", HttpOnly: true, SameSite: http.SameSiteLaxMode}
				ev.SetHeader("Set-Cookie", cookie.String())
				return nil, control.RedirectTo(http.StatusSeeOther, "/todos")
			}),
		},
	}
}
