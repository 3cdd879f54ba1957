// Package jsonsafe verifies that an action's payload is built only from
// JSON-transparent values before it goes on the wire.
//
// The accepted set is closed: nil, strings, booleans, finite numbers of any
// built-in numeric type, json.Number, []any and map[string]any, plus the
// common homogeneous forms []string, []bool, []int, []int64, []float64,
// []map[string]any, map[string]string, map[string]bool, map[string]int and
// map[string]float64. Containers are checked recursively. Everything else,
// structs, pointers, named types, time.Time, funcs and channels included, is
// opaque and rejected.
package jsonsafe

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"math"
	"slices"
)

// ErrNotSerializable is matched by every *Error.
var ErrNotSerializable = errors.New("jsonsafe: value cannot be serialized as JSON")

// Error names the first offending path and the route that produced it.
type Error struct {
	Path    string
	RouteID string
	Value   any
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s returned from action in %s cannot be serialized as JSON", e.Path, e.RouteID)
}

func (e *Error) Unwrap() error {
	return ErrNotSerializable
}

// Check walks value and returns an *Error for the first opaque value found.
// Array elements extend path as path[i], map fields as path.key; map keys are
// visited in sorted order so the reported path is stable.
func Check(value any, routeID, path string) error {
	fail := func() error {
		return &Error{Path: path, RouteID: routeID, Value: value}
	}

	switch v := value.(type) {
	case nil, string, bool, json.Number,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64, uintptr:
		return nil
	case float32:
		if !finite(float64(v)) {
			return fail()
		}
		return nil
	case float64:
		if !finite(v) {
			return fail()
		}
		return nil
	case []string, []bool, []int, []int64, map[string]string, map[string]bool, map[string]int:
		return nil
	case []float64:
		return checkSlice(v, routeID, path)
	case []any:
		return checkSlice(v, routeID, path)
	case []map[string]any:
		return checkSlice(v, routeID, path)
	case map[string]float64:
		return checkMap(v, routeID, path)
	case map[string]any:
		return checkMap(v, routeID, path)
	}
	return fail()
}

func checkSlice[T any](values []T, routeID, path string) error {
	for i, child := range values {
		if err := Check(child, routeID, fmt.Sprintf("%s[%d]", path, i)); err != nil {
			return err
		}
	}
	return nil
}

func checkMap[T any](values map[string]T, routeID, path string) error {
	for _, key := range slices.Sorted(maps.Keys(values)) {
		if err := Check(values[key], routeID, path+"."+key); err != nil {
			return err
		}
	}
	return nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
