package actions

import (
	"errors"
	"fmt"
)

var (
	// ErrNamedDefault is matched when a Map mixes "default" with named actions.
	ErrNamedDefault = errors.New("actions: named and default actions are mutually exclusive")
	// ErrReservedName is matched when a request spells out "?/default".
	ErrReservedName = errors.New("actions: reserved action name")
	// ErrNoAction is matched when the requested name has no entry.
	ErrNoAction = errors.New("actions: no such action")
	// ErrContentType is matched when the body is not form-encoded.
	ErrContentType = errors.New("actions: body is not form-encoded")
	// ErrDeprecatedHandler is matched when a module exports a bare mutation handler.
	ErrDeprecatedHandler = errors.New("actions: bare method handler is no longer supported")
)

// ConfigError reports a route that cannot serve the request as configured.
// It is fatal to the request and classifies as a control.GenericError.
type ConfigError struct {
	Err error
	Msg string
}

func (e *ConfigError) Error() string {
	return e.Msg
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

func configErrorf(kind error, format string, args ...any) *ConfigError {
	return &ConfigError{Err: kind, Msg: fmt.Sprintf(format, args...)}
}
