package catalog

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/rafacorp/recipes"
	"github.com/rafacorp/recipes/http/req"
	"github.com/rafacorp/recipes/http/resp"
)

// listParams filters catalog listings through query params.
type listParams struct {
	AssignedOnly bool `schema:"assigned_only"`
}

// nameParams is the body for creating a tag or an ingredient.
type nameParams struct {
	Name string `json:"name" validate:"required"`
}

// createRecipeParams is the body for creating a recipe.
type createRecipeParams struct {
	Title         string  `json:"title" validate:"required"`
	TimeMinutes   int     `json:"time_minutes" validate:"min=0"`
	Price         float64 `json:"price" validate:"min=0"`
	Link          string  `json:"link"`
	TagIDs        []uint  `json:"tags"`
	IngredientIDs []uint  `json:"ingredients"`
}

// patchRecipeParams is the body for updating a recipe;
// absent fields are left as they are on a partial update.
type patchRecipeParams struct {
	Title         *string  `json:"title"`
	TimeMinutes   *int     `json:"time_minutes" validate:"omitempty,min=0"`
	Price         *float64 `json:"price" validate:"omitempty,min=0"`
	Link          *string  `json:"link"`
	TagIDs        *[]uint  `json:"tags"`
	IngredientIDs *[]uint  `json:"ingredients"`
}

// namedView renders a tag or an ingredient.
type namedView struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// recipeView renders a recipe with its tags and ingredients as ID lists.
type recipeView struct {
	ID            uint    `json:"id"`
	Title         string  `json:"title"`
	TimeMinutes   int     `json:"time_minutes"`
	Price         float64 `json:"price"`
	Link          string  `json:"link"`
	TagIDs        []uint  `json:"tags"`
	IngredientIDs []uint  `json:"ingredients"`
}

// recipeDetailView renders a recipe with its tags and ingredients expanded.
type recipeDetailView struct {
	ID          uint        `json:"id"`
	Title       string      `json:"title"`
	TimeMinutes int         `json:"time_minutes"`
	Price       float64     `json:"price"`
	Link        string      `json:"link"`
	Tags        []namedView `json:"tags"`
	Ingredients []namedView `json:"ingredients"`
}

// Handler exposes the catalog over HTTP.
// Every route serving it must run behind authentication.
type Handler struct {
	d   *resp.Responder
	p   *req.Parser
	svc *Service
}

func NewHandler(d *resp.Responder, p *req.Parser, svc *Service) *Handler {
	return &Handler{d: d, p: p, svc: svc}
}

// ListTags answers with the authenticated user's tags.
func (h *Handler) ListTags(w http.ResponseWriter, r *http.Request) {
	u, err := h.currentUser(r)
	if err != nil {
		h.d.Err(w, r, err)
		return
	}

	var params listParams
	if err := h.p.ParseQueryParams(r.URL.Query(), &params); err != nil {
		h.d.Error(w, r, err)
		return
	}

	tags, err := h.svc.Tags(u, params.AssignedOnly)
	if err != nil {
		h.d.Error(w, r, err)
		return
	}

	views := make([]namedView, 0, len(tags))
	for _, t := range tags {
		views = append(views, namedView{ID: t.ID, Name: t.Name})
	}

	h.d.Json(w, r, resp.Data(views))
}

// CreateTag adds a tag to the authenticated user's catalog.
func (h *Handler) CreateTag(w http.ResponseWriter, r *http.Request) {
	u, err := h.currentUser(r)
	if err != nil {
		h.d.Err(w, r, err)
		return
	}

	var params nameParams
	if err := h.p.ParseBody(r.Body, &params); err != nil {
		h.d.Error(w, r, err)
		return
	}

	t, err := h.svc.CreateTag(u, params.Name)
	if err != nil {
		h.d.Error(w, r, err)
		return
	}

	h.d.Json(w, r, resp.Code(http.StatusCreated), resp.Data(namedView{ID: t.ID, Name: t.Name}))
}

// DeleteTag removes a tag from the authenticated user's catalog.
func (h *Handler) DeleteTag(w http.ResponseWriter, r *http.Request) {
	u, err := h.currentUser(r)
	if err != nil {
		h.d.Err(w, r, err)
		return
	}

	id, err := pathID(r)
	if err != nil {
		h.d.Error(w, r, err)
		return
	}

	if err := h.svc.DeleteTag(u, id); err != nil {
		h.d.Error(w, r, err)
		return
	}

	h.d.Json(w, r, resp.Code(http.StatusNoContent))
}

// ListIngredients answers with the authenticated user's ingredients.
func (h *Handler) ListIngredients(w http.ResponseWriter, r *http.Request) {
	u, err := h.currentUser(r)
	if err != nil {
		h.d.Err(w, r, err)
		return
	}

	var params listParams
	if err := h.p.ParseQueryParams(r.URL.Query(), &params); err != nil {
		h.d.Error(w, r, err)
		return
	}

	ings, err := h.svc.Ingredients(u, params.AssignedOnly)
	if err != nil {
		h.d.Error(w, r, err)
		return
	}

	views := make([]namedView, 0, len(ings))
	for _, i := range ings {
		views = append(views, namedView{ID: i.ID, Name: i.Name})
	}

	h.d.Json(w, r, resp.Data(views))
}

// CreateIngredient adds an ingredient to the authenticated user's catalog.
func (h *Handler) CreateIngredient(w http.ResponseWriter, r *http.Request) {
	u, err := h.currentUser(r)
	if err != nil {
		h.d.Err(w, r, err)
		return
	}

	var params nameParams
	if err := h.p.ParseBody(r.Body, &params); err != nil {
		h.d.Error(w, r, err)
		return
	}

	i, err := h.svc.CreateIngredient(u, params.Name)
	if err != nil {
		h.d.Error(w, r, err)
		return
	}

	h.d.Json(w, r, resp.Code(http.StatusCreated), resp.Data(namedView{ID: i.ID, Name: i.Name}))
}

// DeleteIngredient removes an ingredient from the authenticated
// user's catalog.
func (h *Handler) DeleteIngredient(w http.ResponseWriter, r *http.Request) {
	u, err := h.currentUser(r)
	if err != nil {
		h.d.Err(w, r, err)
		return
	}

	id, err := pathID(r)
	if err != nil {
		h.d.Error(w, r, err)
		return
	}

	if err := h.svc.DeleteIngredient(u, id); err != nil {
		h.d.Error(w, r, err)
		return
	}

	h.d.Json(w, r, resp.Code(http.StatusNoContent))
}

// ListRecipes answers with the authenticated user's recipes, newest first.
func (h *Handler) ListRecipes(w http.ResponseWriter, r *http.Request) {
	u, err := h.currentUser(r)
	if err != nil {
		h.d.Err(w, r, err)
		return
	}

	rs, err := h.svc.Recipes(u)
	if err != nil {
		h.d.Error(w, r, err)
		return
	}

	views := make([]recipeView, 0, len(rs))
	for _, rec := range rs {
		views = append(views, newRecipeView(rec))
	}

	h.d.Json(w, r, resp.Data(views))
}

// CreateRecipe adds a recipe to the authenticated user's catalog.
func (h *Handler) CreateRecipe(w http.ResponseWriter, r *http.Request) {
	u, err := h.currentUser(r)
	if err != nil {
		h.d.Err(w, r, err)
		return
	}

	var params createRecipeParams
	if err := h.p.ParseBody(r.Body, &params); err != nil {
		h.d.Error(w, r, err)
		return
	}

	rec, err := h.svc.CreateRecipe(u, RecipeInput{
		Title:         params.Title,
		TimeMinutes:   params.TimeMinutes,
		Price:         params.Price,
		Link:          params.Link,
		TagIDs:        params.TagIDs,
		IngredientIDs: params.IngredientIDs,
	})
	if err != nil {
		h.d.Error(w, r, err)
		return
	}

	h.d.Json(w, r, resp.Code(http.StatusCreated), resp.Data(newRecipeView(rec)))
}

// GetRecipe answers with one of the authenticated user's recipes,
// tags and ingredients expanded.
func (h *Handler) GetRecipe(w http.ResponseWriter, r *http.Request) {
	u, err := h.currentUser(r)
	if err != nil {
		h.d.Err(w, r, err)
		return
	}

	id, err := pathID(r)
	if err != nil {
		h.d.Error(w, r, err)
		return
	}

	rec, err := h.svc.RecipeByID(u, id)
	if err != nil {
		h.d.Error(w, r, err)
		return
	}

	h.d.Json(w, r, resp.Data(newRecipeDetailView(rec)))
}

// UpdateRecipe applies a partial update to one of the authenticated
// user's recipes.
func (h *Handler) UpdateRecipe(w http.ResponseWriter, r *http.Request) {
	h.updateRecipe(w, r, true)
}

// ReplaceRecipe replaces one of the authenticated user's recipes whole.
func (h *Handler) ReplaceRecipe(w http.ResponseWriter, r *http.Request) {
	h.updateRecipe(w, r, false)
}

func (h *Handler) updateRecipe(w http.ResponseWriter, r *http.Request, partial bool) {
	u, err := h.currentUser(r)
	if err != nil {
		h.d.Err(w, r, err)
		return
	}

	id, err := pathID(r)
	if err != nil {
		h.d.Error(w, r, err)
		return
	}

	var params patchRecipeParams
	if err := h.p.ParseBody(r.Body, &params); err != nil {
		h.d.Error(w, r, err)
		return
	}

	rec, err := h.svc.UpdateRecipe(u, id, RecipePatch{
		Title:         params.Title,
		TimeMinutes:   params.TimeMinutes,
		Price:         params.Price,
		Link:          params.Link,
		TagIDs:        params.TagIDs,
		IngredientIDs: params.IngredientIDs,
	}, partial)
	if err != nil {
		h.d.Error(w, r, err)
		return
	}

	h.d.Json(w, r, resp.Data(newRecipeView(rec)))
}

// DeleteRecipe removes one of the authenticated user's recipes.
func (h *Handler) DeleteRecipe(w http.ResponseWriter, r *http.Request) {
	u, err := h.currentUser(r)
	if err != nil {
		h.d.Err(w, r, err)
		return
	}

	id, err := pathID(r)
	if err != nil {
		h.d.Error(w, r, err)
		return
	}

	if err := h.svc.DeleteRecipe(u, id); err != nil {
		h.d.Error(w, r, err)
		return
	}

	h.d.Json(w, r, resp.Code(http.StatusNoContent))
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

// pathID parses the {id} path variable.
// A malformed ID behaves like a missing record.
func pathID(r *http.Request) (uint, error) {
	raw := mux.Vars(r)["id"]
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: no record at %q", recipes.ErrNotFound, raw)
	}

	return uint(id), nil
}

func newRecipeView(rec recipes.Recipe) recipeView {
	return recipeView{
		ID:            rec.ID,
		Title:         rec.Title,
		TimeMinutes:   rec.TimeMinutes,
		Price:         rec.Price,
		Link:          rec.Link,
		TagIDs:        rec.TagIDs(),
		IngredientIDs: rec.IngredientIDs(),
	}
}

func newRecipeDetailView(rec recipes.Recipe) recipeDetailView {
	tags := make([]namedView, 0, len(rec.Tags))
	for _, t := range rec.Tags {
		tags = append(tags, namedView{ID: t.ID, Name: t.Name})
	}

	ings := make([]namedView, 0, len(rec.Ingredients))
	for _, i := range rec.Ingredients {
		ings = append(ings, namedView{ID: i.ID, Name: i.Name})
	}

	return recipeDetailView{
		ID:          rec.ID,
		Title:       rec.Title,
		TimeMinutes: rec.TimeMinutes,
		Price:       rec.Price,
		Link:        rec.Link,
		Tags:        tags,
		Ingredients: ings,
	}
}
