package utils

import "net/http"

type Middleware func(http.Handler) http.Handler

// ApplyMiddleware wraps h so the first middleware in the list is the
// outermost.
func ApplyMiddleware(h http.Handler, mws ...Middleware) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}
