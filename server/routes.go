package server

import (
	"net/http"

	"github.com/rafacorp/recipes"
	"github.com/rafacorp/recipes/catalog"
	"github.com/rafacorp/recipes/http/middleware"
	"github.com/rafacorp/recipes/http/router"
	"github.com/rafacorp/recipes/user"
)

// routes registers the full API surface under /api.
func (s *Server) routes(users *user.Handler, cat *catalog.Handler) {
	api := s.router.Subrouter("/api")

	api.HandleRoutes([]router.Route{
		{Path: "/users", Method: http.MethodPost, Handler: users.Create},
		{Path: "/users/token", Method: http.MethodPost, Handler: users.Token},
	})

	api.AuthedRoutes(s.kr.CurrentUserKey(), []router.Route{
		{Path: "/users/me", Method: http.MethodGet, Handler: users.Me},
		{Path: "/users/me", Method: http.MethodPatch, Handler: users.UpdateMe},

		{Path: "/recipe/tags", Method: http.MethodGet, Handler: cat.ListTags},
		{Path: "/recipe/tags", Method: http.MethodPost, Handler: cat.CreateTag},
		{Path: "/recipe/tags/{id:[0-9]+}", Method: http.MethodDelete, Handler: cat.DeleteTag},

		{Path: "/recipe/ingredients", Method: http.MethodGet, Handler: cat.ListIngredients},
		{Path: "/recipe/ingredients", Method: http.MethodPost, Handler: cat.CreateIngredient},
		{Path: "/recipe/ingredients/{id:[0-9]+}", Method: http.MethodDelete, Handler: cat.DeleteIngredient},

		{Path: "/recipe/recipes", Method: http.MethodGet, Handler: cat.ListRecipes},
		{Path: "/recipe/recipes", Method: http.MethodPost, Handler: cat.CreateRecipe},
		{Path: "/recipe/recipes/{id:[0-9]+}", Method: http.MethodGet, Handler: cat.GetRecipe},
		{Path: "/recipe/recipes/{id:[0-9]+}", Method: http.MethodPatch, Handler: cat.UpdateRecipe},
		{Path: "/recipe/recipes/{id:[0-9]+}", Method: http.MethodPut, Handler: cat.ReplaceRecipe},
		{Path: "/recipe/recipes/{id:[0-9]+}", Method: http.MethodDelete, Handler: cat.DeleteRecipe},
	})

	staff := middleware.NewAuthorizeApplicator[recipes.User](s.kr.CurrentUserKey())
	api.AuthedRoutes(s.kr.CurrentUserKey(), []router.Route{
		{
			Path:        "/admin/users",
			Method:      http.MethodGet,
			Handler:     users.List,
			Middlewares: []middleware.Adapter{staff.Apply(func(u recipes.User) bool { return u.Staff })},
		},
	})
}
