// Package actions dispatches form submissions to named server-side handlers
// and normalises whatever they return or fail with into a single Result.
//
// A route declares its handlers in a Module. For every non-GET request the
// action named by the first query key starting with "/" (or "default" when
// there is none) is invoked exactly once. The outcome is either handed to a
// Renderer (Handler.Handle) or written as JSON (Handler.HandleJSON) when the
// client negotiated application/json for a POST.
//
//	module := &actions.Module{
//	    ID: "/todos",
//	    Actions: actions.Map{
//	        "create": actions.ActionFunc(createTodo),
//	        "delete": actions.ActionFunc(deleteTodo),
//	    },
//	}
//	page, err := actions.NewPage("/todos", module, renderer)
//
// See ExampleHandler_HandleJSON for the wire format.
package actions
