package user

import (
	"fmt"
	"net/http"

	"github.com/rafacorp/recipes"
	"github.com/rafacorp/recipes/auth"
	"github.com/rafacorp/recipes/http/req"
	"github.com/rafacorp/recipes/http/resp"
)

// createParams is the body of a registration request.
type createParams struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=5"`
	Name     string `json:"name"`
}

// tokenParams is the body of a token request.
type tokenParams struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// profileParams is the body of a profile update;
// absent fields are left as they are.
type profileParams struct {
	Name     *string `json:"name"`
	Password *string `json:"password" validate:"omitempty,min=5"`
}

// profileView is how a user sees their own record;
// the password hash never leaves the server.
type profileView struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Handler exposes the account store over HTTP.
type Handler struct {
	d      *resp.Responder
	p      *req.Parser
	svc    *Service
	tokens *auth.Service
}

func NewHandler(d *resp.Responder, p *req.Parser, svc *Service, tokens *auth.Service) *Handler {
	return &Handler{d: d, p: p, svc: svc, tokens: tokens}
}

// Create registers a new account, answering 201 with the public profile.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var params createParams
	if err := h.p.ParseBody(r.Body, &params); err != nil {
		h.d.Error(w, r, err)
		return
	}

	u, err := h.svc.Create(params.Email, params.Password, params.Name)
	if err != nil {
		h.d.Error(w, r, err)
		return
	}

	h.d.Json(w, r, resp.Code(http.StatusCreated), resp.Data(profileView{Email: u.Email, Name: u.Name}))
}

// Token exchanges valid credentials for a signed API token.
func (h *Handler) Token(w http.ResponseWriter, r *http.Request) {
	var params tokenParams
	if err := h.p.ParseBody(r.Body, &params); err != nil {
		h.d.Error(w, r, err)
		return
	}

	u, err := h.svc.Authenticate(params.Email, params.Password)
	if err != nil {
		h.d.Error(w, r, err)
		return
	}

	token, err := h.tokens.IssueToken(u.ID)
	if err != nil {
		h.d.Error(w, r, err)
		return
	}

	h.d.Json(w, r, resp.Data(map[string]string{"token": token}))
}

// Me answers with the authenticated user's own profile.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	u, err := h.currentUser(r)
	if err != nil {
		h.d.Err(w, r, err)
		return
	}

	h.d.Json(w, r, resp.Data(profileView{Email: u.Email, Name: u.Name}))
}

// UpdateMe applies a partial update to the authenticated user's profile.
func (h *Handler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	u, err := h.currentUser(r)
	if err != nil {
		h.d.Err(w, r, err)
		return
	}

	var params profileParams
	if err := h.p.ParseBody(r.Body, &params); err != nil {
		h.d.Error(w, r, err)
		return
	}

	update := ProfileUpdate{Name: params.Name, Password: params.Password}
	if err := h.svc.Update(&u, update); err != nil {
		h.d.Error(w, r, err)
		return
	}

	h.d.Json(w, r, resp.Data(profileView{Email: u.Email, Name: u.Name}))
}

func (h *Handler) currentUser(r *http.Request) (recipes.User, error) {
	val, err := h.d.CurrentUser(r.Context())
	if err != nil {
		return recipes.User{}, err
	}

	u, ok := val.(recipes.User)
	if !ok {
		return recipes.User{}, fmt.Errorf("%w: current user is a %T", recipes.ErrUnexpected, val)
	}

	return u, nil
}
