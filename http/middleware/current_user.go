package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/rafacorp/recipes/auth"
	"github.com/rafacorp/recipes/http/keyring"
)

// The User defines attributes about a user in the context of middleware.
type User interface {
	HasAccess() bool
}

// UserStorer defines how to retrieve a User by an ID in the context of middleware.
type UserStorer func(id uint) (User, error)

// A TokenVerifier decodes claims from a request token.
type TokenVerifier interface {
	VerifyToken(token string) (*auth.Claims, error)
}

// CurrentUser authenticates the request token in the "Authorization" header
// and stashes the matching User in the *http.Request.Context under userKey.
//
// A request without an "Authorization" header passes through unauthenticated;
// whether that is acceptable is for RequireAuthed to determine.
// A request presenting a token that does not verify, or that identifies a
// User that no longer exists or no longer has access, is rejected with 401.
func CurrentUser(verifier TokenVerifier, storer UserStorer, userKey keyring.Keyable) Adapter {
	if verifier == nil || storer == nil || userKey == nil {
		return NoopAdapter
	}

	return func(handler http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r.Header)
			if token == "" {
				// No token in the request; the request may be for an
				// unauthenticated endpoint, maybe not, something for
				// access control middlewares to determine.
				handler.ServeHTTP(w, r)
				return
			}

			claims, err := verifier.VerifyToken(token)
			if err != nil {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}

			user, err := storer(claims.UserID)
			if err != nil {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}

			if !user.HasAccess() {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}

			w.Header().Add("Cache-control", "no-store")
			w.Header().Add("Pragma", "no-cache")

			ctx := context.WithValue(r.Context(), userKey, user)
			handler.ServeHTTP(w, r.Clone(ctx))
		})
	}
}

// RequireAuthed returns an Adapter that checks whether a User is
// authenticated, and requires they be authenticated.
// When the User is authenticated, RequireAuthed hands off to the next part
// of the middleware chain.
//
// Authenticated means a User is set in the request context with the
// provided key.
//
// When the User is not authenticated, RequireAuthed writes 401 to the client.
func RequireAuthed(key keyring.Keyable) Adapter {
	if key == nil {
		return NoopAdapter
	}

	return func(handler http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := r.Context().Value(key).(User); !ok {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}

			handler.ServeHTTP(w, r)
		})
	}
}

// bearerToken extracts the token from an "Authorization" header,
// accepting both the "Bearer" and "Token" schemes.
func bearerToken(hm http.Header) string {
	val := hm.Get("Authorization")
	for _, scheme := range []string{"Bearer ", "Token "} {
		if strings.HasPrefix(val, scheme) {
			return strings.TrimSpace(strings.TrimPrefix(val, scheme))
		}
	}

	return ""
}
