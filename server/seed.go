package server

import (
	"github.com/rafacorp/recipes"
	"github.com/rafacorp/recipes/fixture"
	"github.com/rafacorp/recipes/logger"
)

// seed loads a development database with a first set of records:
// an admin account and a user with a small catalog.
// It is a no-op when any user already exists.
func (s *Server) seed() error {
	count, err := s.db.Model(&recipes.User{}).Count()
	if err != nil {
		return err
	}

	if count > 0 {
		return nil
	}

	if _, err := s.users.CreateSuperuser("admin@rafacorp.com", "changemenow"); err != nil {
		return err
	}

	u, err := fixture.SampleUser(s.db, fixture.UserEmail("dev@rafacorp.com"), fixture.UserName("Dev"))
	if err != nil {
		return err
	}

	tag, err := fixture.SampleTag(s.db, u, fixture.TagName("Dessert"))
	if err != nil {
		return err
	}

	ing, err := fixture.SampleIngredient(s.db, u, fixture.IngredientName("Sugar"))
	if err != nil {
		return err
	}

	_, err = fixture.SampleRecipe(s.db, u,
		fixture.RecipeTitle("Chocolate cheesecake"),
		fixture.RecipeTime(30),
		fixture.RecipePrice(12.50),
		fixture.RecipeTags(tag),
		fixture.RecipeIngredients(ing),
	)
	if err != nil {
		return err
	}

	s.l.Info("seeded development fixtures", &logger.LogContext{User: u})
	return nil
}
