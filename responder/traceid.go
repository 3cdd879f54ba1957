package responder

import "github.com/oklog/ulid/v2"

// newTraceID returns a lexically sortable id; ulid.Make draws from a
// goroutine-safe monotonic entropy source.
func newTraceID() string {
	return ulid.Make().String()
}
