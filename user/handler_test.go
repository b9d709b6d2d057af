package user_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"github.com/rafacorp/recipes"
	"github.com/rafacorp/recipes/fixture"
)

func (s *UserTestSuite) jsonBody(v any) *bytes.Buffer {
	b := new(bytes.Buffer)
	s.Require().Nil(json.NewEncoder(b).Encode(v))

	return b
}

func (s *UserTestSuite) TestHandlerCreate() {
	// Arrange
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/users", s.jsonBody(map[string]string{
		"email":    "test@rafacorp.com",
		"password": "testpass123",
		"name":     "Test name",
	}))

	// Act
	s.handler.Create(w, r)

	// Assert
	s.Require().Equal(http.StatusCreated, w.Code)

	var body map[string]any
	s.Require().Nil(json.NewDecoder(w.Body).Decode(&body))
	s.Require().Equal("test@rafacorp.com", body["email"])
	s.Require().Equal("Test name", body["name"])
	s.Require().NotContains(body, "password")

	// Arrange: the same email again.
	w = httptest.NewRecorder()
	r = httptest.NewRequest(http.MethodPost, "/api/users", s.jsonBody(map[string]string{
		"email":    "test@rafacorp.com",
		"password": "testpass123",
	}))

	// Act
	s.handler.Create(w, r)

	// Assert
	s.Require().Equal(http.StatusBadRequest, w.Code)
}

func (s *UserTestSuite) TestHandlerCreateShortPassword() {
	// Arrange
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/users", s.jsonBody(map[string]string{
		"email":    "test@rafacorp.com",
		"password": "pw",
	}))

	// Act
	s.handler.Create(w, r)

	// Assert
	s.Require().Equal(http.StatusBadRequest, w.Code)

	count, err := s.db.Model(&recipes.User{}).Count()
	s.Require().Nil(err)
	s.Require().Zero(count)
}

func (s *UserTestSuite) TestHandlerToken() {
	// Arrange
	_, err := fixture.SampleUser(s.db, fixture.UserPassword("testpass123"))
	s.Require().Nil(err)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/users/token", s.jsonBody(map[string]string{
		"email":    fixture.DefaultEmail,
		"password": "testpass123",
	}))

	// Act
	s.handler.Token(w, r)

	// Assert
	s.Require().Equal(http.StatusOK, w.Code)

	var body map[string]any
	s.Require().Nil(json.NewDecoder(w.Body).Decode(&body))
	s.Require().Contains(body, "token")

	claims, err := s.tokens.VerifyToken(body["token"].(string))
	s.Require().Nil(err)
	s.Require().NotZero(claims.UserID)
}

func (s *UserTestSuite) TestHandlerTokenFailures() {
	// Arrange
	_, err := fixture.SampleUser(s.db, fixture.UserPassword("testpass123"))
	s.Require().Nil(err)

	tcs := []struct {
		name string
		body map[string]string
	}{
		{"Wrong-Password", map[string]string{"email": fixture.DefaultEmail, "password": "wrongpass"}},
		{"Unknown-User", map[string]string{"email": "nobody@rafacorp.com", "password": "testpass123"}},
		{"Missing-Password", map[string]string{"email": fixture.DefaultEmail}},
	}

	for _, tc := range tcs {
		s.Run(tc.name, func() {
			// Arrange
			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodPost, "/api/users/token", s.jsonBody(tc.body))

			// Act
			s.handler.Token(w, r)

			// Assert
			s.Require().Equal(http.StatusBadRequest, w.Code)

			var body map[string]any
			s.Require().Nil(json.NewDecoder(w.Body).Decode(&body))
			s.Require().NotContains(body, "token")
		})
	}
}

func (s *UserTestSuite) TestHandlerMe() {
	// Arrange
	u, err := fixture.SampleUser(s.db)
	s.Require().Nil(err)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	r = r.Clone(context.WithValue(r.Context(), recipes.CurrentUserKey, u))

	// Act
	s.handler.Me(w, r)

	// Assert
	s.Require().Equal(http.StatusOK, w.Code)
	s.Require().JSONEq(
		`{"email":"test@rafacorp.com","name":"Test name"}`,
		w.Body.String(),
	)
}

func (s *UserTestSuite) TestHandlerUpdateMe() {
	// Arrange
	u, err := fixture.SampleUser(s.db)
	s.Require().Nil(err)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPatch, "/api/users/me", s.jsonBody(map[string]string{
		"name":     "Renamed",
		"password": "newpass456",
	}))
	r = r.Clone(context.WithValue(r.Context(), recipes.CurrentUserKey, u))

	// Act
	s.handler.UpdateMe(w, r)

	// Assert
	s.Require().Equal(http.StatusOK, w.Code)

	var body map[string]any
	s.Require().Nil(json.NewDecoder(w.Body).Decode(&body))
	s.Require().Equal("Renamed", body["name"])

	_, err = s.svc.Authenticate(u.Email, "newpass456")
	s.Require().Nil(err)
}
