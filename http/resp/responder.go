package resp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/rafacorp/recipes"
	"github.com/rafacorp/recipes/http/keyring"
	"github.com/rafacorp/recipes/logger"
)

const responderFrames = 0

// Responder maintains reusable pieces for responding to HTTP requests.
//
// Most oftentimes, setting up a single instance of a Responder suffices for
// an application. When handling a specific HTTP request, calling code
// supplies additional data through Fn functions.
type Responder struct {
	logger logger.Logger

	// Pool of *bytes.Buffer to prerender responses into
	pool *sync.Pool

	// Key for pulling the authenticated user out of the *http.Request.Context
	userKey keyring.Keyable
}

// NewResponder constructs a *Responder using the ResponderOptFns passed in.
func NewResponder(opts ...ResponderOptFn) *Responder {
	d := &Responder{
		pool: &sync.Pool{New: func() any { return new(bytes.Buffer) }},
	}
	for _, opt := range opts {
		opt(d)
	}

	if d.logger == nil {
		d.logger = logger.New()
	}

	if l, ok := d.logger.(logger.SkipLogger); ok {
		d.logger = l.AddSkip(responderFrames)
	}

	return d
}

// CurrentUser retrieves the user set in the context.
//
// If WithUserKey was not called setting up the Responder or the
// context.Context has no value for that key, ErrNotFound returns.
func (doer Responder) CurrentUser(ctx context.Context) (any, error) {
	if doer.userKey == nil {
		return nil, fmt.Errorf("%w: no user key configured", ErrBadConfig)
	}

	val := ctx.Value(doer.userKey)
	if val == nil {
		return nil, fmt.Errorf("%w: no user found with userKey", ErrNotFound)
	}

	return val, nil
}

// Json responds with data in JSON format, collating it from Data()
// and setting appropriate headers.
//
// The body is exactly the value passed through Data().
// With no Data(), Json writes only the status code.
func (doer *Responder) Json(w http.ResponseWriter, r *http.Request, opts ...Fn) error {
	rr, err := doer.do(w, r, opts...)
	if err != nil {
		return err
	}

	if rr.closeBody {
		defer r.Body.Close()
	}

	if rr.code == 0 {
		rr.code = http.StatusOK
	}

	if rr.data == nil {
		w.WriteHeader(rr.code)
		return nil
	}

	b := doer.pool.Get().(*bytes.Buffer)
	b.Reset()
	defer doer.pool.Put(b)

	if err := json.NewEncoder(b).Encode(rr.data); err != nil {
		doer.Err(w, r, err)
		return err
	}

	w.Header().Set("Content-Type", "application/json; charset=UTF-8")
	w.WriteHeader(rr.code)
	if _, err := b.WriteTo(w); err != nil {
		return err
	}

	return nil
}

// Error translates err into an HTTP status code and a terse JSON body,
// logging the underlying cause.
//
// The sentinel errors of the root recipes package map as follows:
//
//	ErrNotValid, ErrExists, ErrMissingData, ErrBadFormat -> 400
//	ErrNotFound                                          -> 404
//	anything else                                        -> 500
//
// Detail is only included for 400-class errors implementing json.Marshaler,
// such as req.ValidationErrors; other bodies never leak the cause.
func (doer *Responder) Error(w http.ResponseWriter, r *http.Request, err error, opts ...Fn) error {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, recipes.ErrNotFound):
		code = http.StatusNotFound

	case errors.Is(err, recipes.ErrNotValid),
		errors.Is(err, recipes.ErrExists),
		errors.Is(err, recipes.ErrMissingData),
		errors.Is(err, recipes.ErrBadFormat):
		code = http.StatusBadRequest
	}

	if code == http.StatusInternalServerError {
		doer.Err(w, r, err, opts...)
		return err
	}

	body := any(map[string]string{"error": http.StatusText(code)})
	if code == http.StatusBadRequest {
		var m json.Marshaler
		if errors.As(err, &m) {
			body = m
		}
	}

	return doer.Json(w, r, append(opts, Code(code), Data(body))...)
}

// Err wraps http.Error(), logging the error causing the failure state.
//
// Use in exceptional circumstances when no Json response can occur.
func (doer *Responder) Err(w http.ResponseWriter, r *http.Request, err error, opts ...Fn) {
	rr, nested := doer.do(w, r, append(opts, Err(err))...)
	defer r.Body.Close()
	if nested != nil {
		err = fmt.Errorf("%w: %s", err, nested)
	}

	if rr.code == 0 || rr.code == http.StatusOK {
		rr.code = http.StatusInternalServerError
	}

	http.Error(w, http.StatusText(rr.code), rr.code)
}

// do applies each Fn to a new *Response, returning it
// for a Responder method to finish forming the response.
func (doer *Responder) do(w http.ResponseWriter, r *http.Request, opts ...Fn) (*Response, error) {
	rr := &Response{w: w, r: r, closeBody: true}
	for _, opt := range opts {
		if err := opt(*doer, rr); err != nil {
			if errors.Is(err, ErrDone) {
				return rr, nil
			}

			return rr, err
		}
	}

	return rr, nil
}
