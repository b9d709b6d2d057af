/*
Package resp writes structured JSON responses to HTTP requests.

A single Responder is configured at application startup and reused by every
handler. Handlers shape an individual response through Fn functional options:

	d.Json(w, r, resp.Code(http.StatusCreated), resp.Data(user))

Sentinel errors from the root recipes package translate to HTTP status codes
through Error, keeping the not-found-versus-forbidden surface uniform.
*/
package resp

import "errors"

var (
	ErrBadConfig   = errors.New("bad config")
	ErrDone        = errors.New("done")
	ErrMissingData = errors.New("missing data")
	ErrNotFound    = errors.New("not found")
)
