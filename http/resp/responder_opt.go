package resp

import (
	"github.com/rafacorp/recipes/http/keyring"
	"github.com/rafacorp/recipes/logger"
)

// A ResponderOptFn is a functional option configuring a Responder
// when constructing a new one.
type ResponderOptFn func(*Responder)

// WithLogger sets the Logger the Responder logs failure states with.
func WithLogger(l logger.Logger) ResponderOptFn {
	return func(d *Responder) {
		d.logger = l
	}
}

// WithUserKey sets the context key the Responder pulls
// the authenticated user out of a request context with.
func WithUserKey(key keyring.Keyable) ResponderOptFn {
	return func(d *Responder) {
		d.userKey = key
	}
}
