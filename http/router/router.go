package router

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rafacorp/recipes/http/keyring"
	"github.com/rafacorp/recipes/http/middleware"
)

// A Route maps a path and HTTP method to an [http.HandlerFunc].
// Additional [middleware.Adapter] can be called when a server handles
// a request matching the Route.
type Route struct {
	Path        string
	Method      string
	Handler     http.HandlerFunc
	Middlewares []middleware.Adapter
}

// Router routes requests to their handlers in the recipes API.
type Router struct {
	everyReqStack []middleware.Adapter
	panicReporter middleware.Adapter
	r             *mux.Router
}

// New constructs a *Router.
//
// Unmatched paths answer 404 and matched paths with unsupported methods
// answer 405, both with JSON bodies.
//
// panicReporter wraps every handler; pass middleware.NoopAdapter to opt out.
func New(panicReporter middleware.Adapter) *Router {
	r := mux.NewRouter()
	r.NotFoundHandler = jsonStatusHandler(http.StatusNotFound)
	r.MethodNotAllowedHandler = jsonStatusHandler(http.StatusMethodNotAllowed)

	if panicReporter == nil {
		panicReporter = middleware.NoopAdapter
	}

	return &Router{panicReporter: panicReporter, r: r}
}

// AuthedRoutes registers the set of Routes as those requiring authentication,
// using middleware.RequireAuthed with the provided user key.
// AuthedRoutes applies the given middlewares before performing that check.
func (r *Router) AuthedRoutes(userKey keyring.Keyable, routes []Route, middlewares ...middleware.Adapter) {
	r.HandleRoutes(routes, append(middlewares, middleware.RequireAuthed(userKey))...)
}

// Handle applies the [Route] to the [*Router].
func (r *Router) Handle(route Route) {
	r.HandleRoutes([]Route{route})
}

// HandleRoutes registers the set of Routes on the Router
// and includes all the [middleware.Adapter] on each Route.
// Any [middleware.Adapter] already assigned to a Route is appended to
// middlewares, so they are called after the default set.
func (r *Router) HandleRoutes(routes []Route, middlewares ...middleware.Adapter) {
	for _, route := range routes {
		mws := append(r.everyReqStack, middlewares...)
		mws = append(mws, route.Middlewares...)
		handler := middleware.Chain(r.panicReporter(route.Handler), mws...)
		r.r.Handle(route.Path, handler).Methods(route.Method)
	}
}

// OnEveryRequest appends the middlewares to the existing stack
// that the [*Router] will apply to every request.
func (r *Router) OnEveryRequest(middlewares ...middleware.Adapter) {
	r.everyReqStack = append(r.everyReqStack, middlewares...)
}

// ServeHTTP responds to an HTTP request.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.r.ServeHTTP(w, req)
}

// Subrouter constructs a [Router] that handles requests to endpoints
// matching the prefix.
//
// e.g., r.Subrouter("/api") handles requests to endpoints like /api/users
func (r *Router) Subrouter(prefix string) *Router {
	return &Router{
		everyReqStack: r.everyReqStack,
		panicReporter: r.panicReporter,
		r:             r.r.PathPrefix(prefix).Subrouter(),
	}
}

// jsonStatusHandler answers with code and its text as a JSON body.
func jsonStatusHandler(code int) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=UTF-8")
		w.WriteHeader(code)
		json.NewEncoder(w).Encode(map[string]string{"error": http.StatusText(code)})
	})
}
