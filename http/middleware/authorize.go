package middleware

import (
	"net/http"

	"github.com/rafacorp/recipes/http/keyring"
)

// An AuthorizeApplicator constructs Adapters that apply custom authorization
// rules for users, as specified by type T.
type AuthorizeApplicator[T any] struct {
	key keyring.Keyable
}

// NewAuthorizeApplicator constructs an AuthorizeApplicator for type T.
// Apply methods will use key to pull a user out of the request Context.
func NewAuthorizeApplicator[T any](key keyring.Keyable) AuthorizeApplicator[T] {
	return AuthorizeApplicator[T]{key: key}
}

// Apply wraps a custom function validating the authorization of a user,
// whose type is specified by T.
//
// Apply retrieves the value for its key from the request Context.
// If there is no value of type T, or the custom function returns false,
// Apply writes 401 and does not pass the request on;
// otherwise, Apply hands off to the next handler in the middleware stack.
//
// If fn is nil, Apply returns a NoopAdapter.
func (aa AuthorizeApplicator[T]) Apply(fn func(user T) bool) Adapter {
	if fn == nil {
		return NoopAdapter
	}

	return func(handler http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			val, ok := r.Context().Value(aa.key).(T)
			if !ok {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}

			if !fn(val) {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}

			handler.ServeHTTP(w, r)
		})
	}
}
