package catalog_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"

	"github.com/gorilla/mux"
	"github.com/rafacorp/recipes"
	"github.com/rafacorp/recipes/fixture"
)

func (s *CatalogTestSuite) request(method, target string, body any, u recipes.User) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		s.Require().Nil(json.NewEncoder(&buf).Encode(body))
	}

	r := httptest.NewRequest(method, target, &buf)
	return r.Clone(context.WithValue(r.Context(), recipes.CurrentUserKey, u))
}

func withPathID(r *http.Request, id uint) *http.Request {
	return mux.SetURLVars(r, map[string]string{"id": fmt.Sprint(id)})
}

func (s *CatalogTestSuite) TestHandlerListTags() {
	// Arrange
	assigned, err := fixture.SampleTag(s.db, s.owner, fixture.TagName("Assigned"))
	s.Require().Nil(err)

	_, err = fixture.SampleTag(s.db, s.owner, fixture.TagName("Bare"))
	s.Require().Nil(err)

	_, err = fixture.SampleRecipe(s.db, s.owner, fixture.RecipeTags(assigned))
	s.Require().Nil(err)

	w := httptest.NewRecorder()
	r := s.request(http.MethodGet, "/api/recipe/tags", nil, s.owner)

	// Act
	s.handler.ListTags(w, r)

	// Assert
	s.Require().Equal(http.StatusOK, w.Code)

	var body []map[string]any
	s.Require().Nil(json.NewDecoder(w.Body).Decode(&body))
	s.Require().Len(body, 2)
	s.Require().Equal("Bare", body[0]["name"])

	// Arrange
	w = httptest.NewRecorder()
	r = s.request(http.MethodGet, "/api/recipe/tags?assigned_only=1", nil, s.owner)

	// Act
	s.handler.ListTags(w, r)

	// Assert
	body = nil
	s.Require().Nil(json.NewDecoder(w.Body).Decode(&body))
	s.Require().Len(body, 1)
	s.Require().Equal("Assigned", body[0]["name"])
}

func (s *CatalogTestSuite) TestHandlerCreateTag() {
	// Arrange
	w := httptest.NewRecorder()
	r := s.request(http.MethodPost, "/api/recipe/tags", map[string]string{"name": "Vegan"}, s.owner)

	// Act
	s.handler.CreateTag(w, r)

	// Assert
	s.Require().Equal(http.StatusCreated, w.Code)

	var body map[string]any
	s.Require().Nil(json.NewDecoder(w.Body).Decode(&body))
	s.Require().Equal("Vegan", body["name"])
	s.Require().NotZero(body["id"])

	// Arrange: a missing name is rejected.
	w = httptest.NewRecorder()
	r = s.request(http.MethodPost, "/api/recipe/tags", map[string]string{}, s.owner)

	// Act
	s.handler.CreateTag(w, r)

	// Assert
	s.Require().Equal(http.StatusBadRequest, w.Code)
}

func (s *CatalogTestSuite) TestHandlerCreateIngredient() {
	// Arrange
	w := httptest.NewRecorder()
	r := s.request(http.MethodPost, "/api/recipe/ingredients", map[string]string{"name": "Cabbage"}, s.owner)

	// Act
	s.handler.CreateIngredient(w, r)

	// Assert
	s.Require().Equal(http.StatusCreated, w.Code)

	var body map[string]any
	s.Require().Nil(json.NewDecoder(w.Body).Decode(&body))
	s.Require().Equal("Cabbage", body["name"])
}

func (s *CatalogTestSuite) TestHandlerListRecipes() {
	// Arrange
	tag, err := fixture.SampleTag(s.db, s.owner)
	s.Require().Nil(err)

	_, err = fixture.SampleRecipe(s.db, s.owner, fixture.RecipeTags(tag))
	s.Require().Nil(err)

	_, err = fixture.SampleRecipe(s.db, s.other, fixture.RecipeTitle("Theirs"))
	s.Require().Nil(err)

	w := httptest.NewRecorder()
	r := s.request(http.MethodGet, "/api/recipe/recipes", nil, s.owner)

	// Act
	s.handler.ListRecipes(w, r)

	// Assert: rows carry relation ID lists.
	s.Require().Equal(http.StatusOK, w.Code)

	var body []map[string]any
	s.Require().Nil(json.NewDecoder(w.Body).Decode(&body))
	s.Require().Len(body, 1)
	s.Require().Equal("Sample recipe", body[0]["title"])
	s.Require().Equal([]any{float64(tag.ID)}, body[0]["tags"])
}

func (s *CatalogTestSuite) TestHandlerCreateRecipe() {
	// Arrange
	tag, err := fixture.SampleTag(s.db, s.owner)
	s.Require().Nil(err)

	w := httptest.NewRecorder()
	r := s.request(http.MethodPost, "/api/recipe/recipes", map[string]any{
		"title":        "Chocolate cheesecake",
		"time_minutes": 30,
		"price":        5.50,
		"tags":         []uint{tag.ID},
	}, s.owner)

	// Act
	s.handler.CreateRecipe(w, r)

	// Assert
	s.Require().Equal(http.StatusCreated, w.Code)

	var body map[string]any
	s.Require().Nil(json.NewDecoder(w.Body).Decode(&body))
	s.Require().Equal("Chocolate cheesecake", body["title"])
	s.Require().Equal([]any{float64(tag.ID)}, body["tags"])

	// Arrange: a missing title is rejected.
	w = httptest.NewRecorder()
	r = s.request(http.MethodPost, "/api/recipe/recipes", map[string]any{"time_minutes": 30}, s.owner)

	// Act
	s.handler.CreateRecipe(w, r)

	// Assert
	s.Require().Equal(http.StatusBadRequest, w.Code)
}

func (s *CatalogTestSuite) TestHandlerGetRecipe() {
	// Arrange
	tag, err := fixture.SampleTag(s.db, s.owner)
	s.Require().Nil(err)

	rec, err := fixture.SampleRecipe(s.db, s.owner, fixture.RecipeTags(tag))
	s.Require().Nil(err)

	w := httptest.NewRecorder()
	r := withPathID(s.request(http.MethodGet, "/api/recipe/recipes/1", nil, s.owner), rec.ID)

	// Act
	s.handler.GetRecipe(w, r)

	// Assert: the detail expands relations into objects.
	s.Require().Equal(http.StatusOK, w.Code)

	var body struct {
		Title string           `json:"title"`
		Tags  []map[string]any `json:"tags"`
	}
	s.Require().Nil(json.NewDecoder(w.Body).Decode(&body))
	s.Require().Equal(rec.Title, body.Title)
	s.Require().Len(body.Tags, 1)
	s.Require().Equal(tag.Name, body.Tags[0]["name"])

	// Arrange: somebody else's recipe is a 404, never a 403.
	w = httptest.NewRecorder()
	r = withPathID(s.request(http.MethodGet, "/api/recipe/recipes/1", nil, s.other), rec.ID)

	// Act
	s.handler.GetRecipe(w, r)

	// Assert
	s.Require().Equal(http.StatusNotFound, w.Code)
}

func (s *CatalogTestSuite) TestHandlerUpdateRecipe() {
	// Arrange
	rec, err := fixture.SampleRecipe(s.db, s.owner)
	s.Require().Nil(err)

	w := httptest.NewRecorder()
	r := withPathID(s.request(http.MethodPatch, "/api/recipe/recipes/1", map[string]any{
		"title": "Renamed",
	}, s.owner), rec.ID)

	// Act
	s.handler.UpdateRecipe(w, r)

	// Assert
	s.Require().Equal(http.StatusOK, w.Code)

	var body map[string]any
	s.Require().Nil(json.NewDecoder(w.Body).Decode(&body))
	s.Require().Equal("Renamed", body["title"])
	s.Require().Equal(float64(rec.TimeMinutes), body["time_minutes"])
}

func (s *CatalogTestSuite) TestHandlerDeleteRecipe() {
	// Arrange
	rec, err := fixture.SampleRecipe(s.db, s.owner)
	s.Require().Nil(err)

	w := httptest.NewRecorder()
	r := withPathID(s.request(http.MethodDelete, "/api/recipe/recipes/1", nil, s.owner), rec.ID)

	// Act
	s.handler.DeleteRecipe(w, r)

	// Assert
	s.Require().Equal(http.StatusNoContent, w.Code)

	_, err = s.svc.RecipeByID(s.owner, rec.ID)
	s.Require().ErrorIs(err, recipes.ErrNotFound)
}

func (s *CatalogTestSuite) TestHandlerDeleteTag() {
	// Arrange
	tag, err := fixture.SampleTag(s.db, s.owner)
	s.Require().Nil(err)

	w := httptest.NewRecorder()
	r := withPathID(s.request(http.MethodDelete, "/api/recipe/tags/1", nil, s.owner), tag.ID)

	// Act
	s.handler.DeleteTag(w, r)

	// Assert
	s.Require().Equal(http.StatusNoContent, w.Code)

	// Arrange: somebody else's tag.
	theirs, err := fixture.SampleTag(s.db, s.other)
	s.Require().Nil(err)

	w = httptest.NewRecorder()
	r = withPathID(s.request(http.MethodDelete, "/api/recipe/tags/1", nil, s.owner), theirs.ID)

	// Act
	s.handler.DeleteTag(w, r)

	// Assert
	s.Require().Equal(http.StatusNotFound, w.Code)
}
