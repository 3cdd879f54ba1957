package actions

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/eduardoboucas/kit/control"
	"github.com/eduardoboucas/kit/form"
)

// deprecatedMethods are the mutation verbs that must be expressed as actions.
var deprecatedMethods = []string{http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete}

// CheckDeprecatedHandlers fails when module still exports a bare handler for
// a mutation method, naming the first offending method.
func CheckDeprecatedHandlers(module *Module) error {
	if module == nil {
		return nil
	}
	for _, method := range deprecatedMethods {
		if module.Handlers[method] != nil {
			return configErrorf(ErrDeprecatedHandler,
				"%s method no longer allowed in page server, use actions instead", method)
		}
	}
	return nil
}

func checkNamedDefaultSeparate(actions Map) error {
	if _, ok := actions[DefaultAction]; ok && len(actions) > 1 {
		return configErrorf(ErrNamedDefault,
			"When using named actions, the default action cannot be used")
	}
	return nil
}

// ActionName returns the action selected by rawQuery: the remainder of the
// first key that starts with "/", in the order the keys appear. Without such
// a key the name is DefaultAction; spelling out "/default" is rejected. A key
// with an invalid percent escape is used as written.
func ActionName(rawQuery string) (string, error) {
	for _, pair := range strings.Split(rawQuery, "&") {
		raw, _, _ := strings.Cut(pair, "=")
		key, err := url.QueryUnescape(raw)
		if err != nil {
			// Malformed escapes are kept as literal text.
			key = strings.ReplaceAll(raw, "+", " ")
		}
		if name, ok := strings.CutPrefix(key, "/"); ok {
			if name == DefaultAction {
				return "", configErrorf(ErrReservedName, "Cannot use reserved action name %q", DefaultAction)
			}
			return name, nil
		}
	}
	return DefaultAction, nil
}

func checkEncoding(r *http.Request) error {
	mediaType, _, _ := strings.Cut(r.Header.Get("Content-Type"), ";")
	mediaType = strings.TrimSpace(mediaType)
	if mediaType == form.URLEncoded || mediaType == form.Multipart {
		return nil
	}
	if mediaType == "" {
		mediaType = "no content type"
	}
	return configErrorf(ErrContentType, "Actions expect form-encoded data (received %s)", mediaType)
}

// Call resolves the action for ev among actions and invokes it. The returned
// value is the action's own, a *control.ValidationError included; the error
// is a *ConfigError when resolution fails or whatever the action failed with.
func Call(ev *Event, actions Map) (any, error) {
	value, _, err := call(ev, actions)
	return value, err
}

func call(ev *Event, actions Map) (value any, name string, err error) {
	if err := checkNamedDefaultSeparate(actions); err != nil {
		return nil, "", err
	}

	name, err = ActionName(ev.URL().RawQuery)
	if err != nil {
		return nil, "", err
	}

	action := actions[name]
	if action == nil {
		return nil, "", configErrorf(ErrNoAction, "No action with name '%s' found", name)
	}

	if err := checkEncoding(ev.Request); err != nil {
		return nil, name, err
	}

	value, err = invoke(ev, action)
	return value, name, err
}

func invoke(ev *Event, action Action) (value any, err error) {
	defer func() {
		if v := recover(); v != nil {
			value, err = nil, control.Recovered(v)
		}
	}()
	return action.Invoke(ev)
}
