package user

import (
	"net/http"

	"github.com/rafacorp/recipes/http/resp"
)

// listParams selects a page of the administrative user listing.
type listParams struct {
	Page    int64 `schema:"page" validate:"omitempty,min=1"`
	PerPage int64 `schema:"per_page" validate:"omitempty,min=1,max=100"`
}

// List answers with a page of all registered users.
// Routes serving it must require the staff flag.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	params := listParams{Page: 1, PerPage: 25}
	if err := h.p.ParseQueryParams(r.URL.Query(), &params); err != nil {
		h.d.Error(w, r, err)
		return
	}

	pd, err := h.svc.Paged(params.Page, params.PerPage)
	if err != nil {
		h.d.Error(w, r, err)
		return
	}

	h.d.Json(w, r, resp.Data(pd))
}
