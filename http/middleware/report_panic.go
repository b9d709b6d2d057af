package middleware

import (
	"fmt"
	"net/http"

	"github.com/rafacorp/recipes/logger"
)

// ReportPanic recovers a panicking handler, logging the value recovered,
// and responds with a 500 so the process serves on.
//
// If ls is nil, NoopAdapter returns and this middleware does nothing.
func ReportPanic(ls logger.Logger) Adapter {
	if ls == nil {
		return NoopAdapter
	}

	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					ls.Error(fmt.Sprintf("panicked handling %s %s", r.Method, r.URL.Path), &logger.LogContext{
						Error:   fmt.Errorf("panic: %v", rec),
						Request: r,
					})
					http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				}
			}()

			h.ServeHTTP(w, r)
		})
	}
}
