package catalog_test

import (
	"github.com/rafacorp/recipes"
	"github.com/rafacorp/recipes/catalog"
	"github.com/rafacorp/recipes/fixture"
)

func (s *CatalogTestSuite) TestTags() {
	// Arrange
	for _, name := range []string{"Vegan", "Dessert"} {
		_, err := fixture.SampleTag(s.db, s.owner, fixture.TagName(name))
		s.Require().Nil(err)
	}

	_, err := fixture.SampleTag(s.db, s.other, fixture.TagName("Fruity"))
	s.Require().Nil(err)

	// Act
	tags, err := s.svc.Tags(s.owner, false)

	// Assert: only the owner's tags, name descending.
	s.Require().Nil(err)
	s.Require().Len(tags, 2)
	s.Require().Equal("Vegan", tags[0].Name)
	s.Require().Equal("Dessert", tags[1].Name)
}

func (s *CatalogTestSuite) TestTagsAssignedOnly() {
	// Arrange
	breakfast, err := fixture.SampleTag(s.db, s.owner, fixture.TagName("Breakfast"))
	s.Require().Nil(err)

	_, err = fixture.SampleTag(s.db, s.owner, fixture.TagName("Lunch"))
	s.Require().Nil(err)

	_, err = fixture.SampleRecipe(s.db, s.owner, fixture.RecipeTitle("Pancakes"), fixture.RecipeTags(breakfast))
	s.Require().Nil(err)

	_, err = fixture.SampleRecipe(s.db, s.owner, fixture.RecipeTitle("Porridge"), fixture.RecipeTags(breakfast))
	s.Require().Nil(err)

	// Act
	tags, err := s.svc.Tags(s.owner, true)

	// Assert: the assigned tag once, the unassigned not at all.
	s.Require().Nil(err)
	s.Require().Len(tags, 1)
	s.Require().Equal(breakfast.ID, tags[0].ID)
}

func (s *CatalogTestSuite) TestCreateTag() {
	// Act
	tag, err := s.svc.CreateTag(s.owner, "Comfort food")

	// Assert
	s.Require().Nil(err)
	s.Require().True(tag.Exists())
	s.Require().Equal(s.owner.ID, tag.UserID)

	// Act
	_, err = s.svc.CreateTag(s.owner, "  ")

	// Assert
	s.Require().ErrorIs(err, recipes.ErrNotValid)
}

func (s *CatalogTestSuite) TestDeleteTag() {
	// Arrange
	tag, err := fixture.SampleTag(s.db, s.owner)
	s.Require().Nil(err)

	rec, err := fixture.SampleRecipe(s.db, s.owner, fixture.RecipeTags(tag))
	s.Require().Nil(err)

	// Act
	err = s.svc.DeleteTag(s.owner, tag.ID)

	// Assert
	s.Require().Nil(err)

	tags, err := s.svc.Tags(s.owner, false)
	s.Require().Nil(err)
	s.Require().Empty(tags)

	// The recipe survives, detached.
	found, err := s.svc.RecipeByID(s.owner, rec.ID)
	s.Require().Nil(err)
	s.Require().Empty(found.Tags)

	// Act: a tag attached to nothing deletes cleanly too.
	bare, err := fixture.SampleTag(s.db, s.owner, fixture.TagName("Bare"))
	s.Require().Nil(err)
	s.Require().Nil(s.svc.DeleteTag(s.owner, bare.ID))

	// Act: somebody else's tag does not exist for the owner.
	theirs, err := fixture.SampleTag(s.db, s.other)
	s.Require().Nil(err)

	err = s.svc.DeleteTag(s.owner, theirs.ID)

	// Assert
	s.Require().ErrorIs(err, recipes.ErrNotFound)
}

func (s *CatalogTestSuite) TestIngredients() {
	// Arrange
	for _, name := range []string{"Kale", "Salt"} {
		_, err := fixture.SampleIngredient(s.db, s.owner, fixture.IngredientName(name))
		s.Require().Nil(err)
	}

	_, err := fixture.SampleIngredient(s.db, s.other, fixture.IngredientName("Vinegar"))
	s.Require().Nil(err)

	// Act
	ings, err := s.svc.Ingredients(s.owner, false)

	// Assert
	s.Require().Nil(err)
	s.Require().Len(ings, 2)
	s.Require().Equal("Salt", ings[0].Name)
	s.Require().Equal("Kale", ings[1].Name)
}

func (s *CatalogTestSuite) TestIngredientsAssignedOnly() {
	// Arrange
	apple, err := fixture.SampleIngredient(s.db, s.owner, fixture.IngredientName("Apple"))
	s.Require().Nil(err)

	_, err = fixture.SampleIngredient(s.db, s.owner, fixture.IngredientName("Turkey"))
	s.Require().Nil(err)

	_, err = fixture.SampleRecipe(s.db, s.owner, fixture.RecipeIngredients(apple))
	s.Require().Nil(err)

	_, err = fixture.SampleRecipe(s.db, s.owner, fixture.RecipeTitle("Apple pie"), fixture.RecipeIngredients(apple))
	s.Require().Nil(err)

	// Act
	ings, err := s.svc.Ingredients(s.owner, true)

	// Assert
	s.Require().Nil(err)
	s.Require().Len(ings, 1)
	s.Require().Equal(apple.ID, ings[0].ID)
}

func (s *CatalogTestSuite) TestRecipes() {
	// Arrange
	first, err := fixture.SampleRecipe(s.db, s.owner, fixture.RecipeTitle("First"))
	s.Require().Nil(err)

	second, err := fixture.SampleRecipe(s.db, s.owner, fixture.RecipeTitle("Second"))
	s.Require().Nil(err)

	_, err = fixture.SampleRecipe(s.db, s.other, fixture.RecipeTitle("Theirs"))
	s.Require().Nil(err)

	// Act
	rs, err := s.svc.Recipes(s.owner)

	// Assert: only the owner's recipes, newest first.
	s.Require().Nil(err)
	s.Require().Len(rs, 2)
	s.Require().Equal(second.ID, rs[0].ID)
	s.Require().Equal(first.ID, rs[1].ID)
}

func (s *CatalogTestSuite) TestRecipeByID() {
	// Arrange
	tag, err := fixture.SampleTag(s.db, s.owner)
	s.Require().Nil(err)

	rec, err := fixture.SampleRecipe(s.db, s.owner, fixture.RecipeTags(tag))
	s.Require().Nil(err)

	// Act
	found, err := s.svc.RecipeByID(s.owner, rec.ID)

	// Assert
	s.Require().Nil(err)
	s.Require().Equal([]uint{tag.ID}, found.TagIDs())

	// Act: somebody else's recipe is indistinguishable from a missing one.
	_, err = s.svc.RecipeByID(s.other, rec.ID)

	// Assert
	s.Require().ErrorIs(err, recipes.ErrNotFound)
}

func (s *CatalogTestSuite) TestCreateRecipe() {
	// Arrange
	tag, err := fixture.SampleTag(s.db, s.owner)
	s.Require().Nil(err)

	ing, err := fixture.SampleIngredient(s.db, s.owner)
	s.Require().Nil(err)

	// Act
	rec, err := s.svc.CreateRecipe(s.owner, catalog.RecipeInput{
		Title:         "Avocado lime cheesecake",
		TimeMinutes:   60,
		Price:         20.00,
		TagIDs:        []uint{tag.ID},
		IngredientIDs: []uint{ing.ID},
	})

	// Assert
	s.Require().Nil(err)
	s.Require().True(rec.Exists())
	s.Require().Equal(s.owner.ID, rec.UserID)

	found, err := s.svc.RecipeByID(s.owner, rec.ID)
	s.Require().Nil(err)
	s.Require().Equal([]uint{tag.ID}, found.TagIDs())
	s.Require().Equal([]uint{ing.ID}, found.IngredientIDs())
}

func (s *CatalogTestSuite) TestCreateRecipeRejectsForeignRefs() {
	// Arrange
	theirs, err := fixture.SampleTag(s.db, s.other)
	s.Require().Nil(err)

	// Act
	_, err = s.svc.CreateRecipe(s.owner, catalog.RecipeInput{
		Title:  "Sneaky",
		TagIDs: []uint{theirs.ID},
	})

	// Assert
	s.Require().ErrorIs(err, recipes.ErrNotValid)

	// Act
	_, err = s.svc.CreateRecipe(s.owner, catalog.RecipeInput{Title: ""})

	// Assert
	s.Require().ErrorIs(err, recipes.ErrNotValid)
}

func (s *CatalogTestSuite) TestUpdateRecipePartial() {
	// Arrange
	tag, err := fixture.SampleTag(s.db, s.owner)
	s.Require().Nil(err)

	replacement, err := fixture.SampleTag(s.db, s.owner, fixture.TagName("Replacement"))
	s.Require().Nil(err)

	rec, err := fixture.SampleRecipe(s.db, s.owner, fixture.RecipeTags(tag), fixture.RecipeLink("https://example.com"))
	s.Require().Nil(err)

	title := "Renamed"
	tagIDs := []uint{replacement.ID}

	// Act
	updated, err := s.svc.UpdateRecipe(s.owner, rec.ID, catalog.RecipePatch{
		Title:  &title,
		TagIDs: &tagIDs,
	}, true)

	// Assert: the present fields changed and the absent survived.
	s.Require().Nil(err)
	s.Require().Equal("Renamed", updated.Title)
	s.Require().Equal([]uint{replacement.ID}, updated.TagIDs())
	s.Require().Equal("https://example.com", updated.Link)
	s.Require().Equal(rec.TimeMinutes, updated.TimeMinutes)
}

func (s *CatalogTestSuite) TestUpdateRecipeFull() {
	// Arrange
	tag, err := fixture.SampleTag(s.db, s.owner)
	s.Require().Nil(err)

	rec, err := fixture.SampleRecipe(s.db, s.owner, fixture.RecipeTags(tag), fixture.RecipeLink("https://example.com"))
	s.Require().Nil(err)

	title := "Spaghetti carbonara"
	minutes := 25
	price := 5.00

	// Act
	updated, err := s.svc.UpdateRecipe(s.owner, rec.ID, catalog.RecipePatch{
		Title:       &title,
		TimeMinutes: &minutes,
		Price:       &price,
	}, false)

	// Assert: absent fields reset; absent relations detach.
	s.Require().Nil(err)
	s.Require().Equal("Spaghetti carbonara", updated.Title)
	s.Require().Equal(25, updated.TimeMinutes)
	s.Require().Empty(updated.Link)
	s.Require().Empty(updated.TagIDs())

	// Act: a full update without a title is rejected.
	_, err = s.svc.UpdateRecipe(s.owner, rec.ID, catalog.RecipePatch{}, false)

	// Assert
	s.Require().ErrorIs(err, recipes.ErrNotValid)
}

func (s *CatalogTestSuite) TestUpdateRecipeScoping() {
	// Arrange
	rec, err := fixture.SampleRecipe(s.db, s.owner)
	s.Require().Nil(err)

	theirs, err := fixture.SampleTag(s.db, s.other)
	s.Require().Nil(err)

	title := "Stolen"
	tagIDs := []uint{theirs.ID}

	// Act: somebody else's recipe cannot be updated.
	_, err = s.svc.UpdateRecipe(s.other, rec.ID, catalog.RecipePatch{Title: &title}, true)

	// Assert
	s.Require().ErrorIs(err, recipes.ErrNotFound)

	// Act: somebody else's tag cannot be attached.
	_, err = s.svc.UpdateRecipe(s.owner, rec.ID, catalog.RecipePatch{TagIDs: &tagIDs}, true)

	// Assert
	s.Require().ErrorIs(err, recipes.ErrNotValid)
}

func (s *CatalogTestSuite) TestDeleteRecipe() {
	// Arrange
	tag, err := fixture.SampleTag(s.db, s.owner)
	s.Require().Nil(err)

	rec, err := fixture.SampleRecipe(s.db, s.owner, fixture.RecipeTags(tag))
	s.Require().Nil(err)

	// Act
	err = s.svc.DeleteRecipe(s.owner, rec.ID)

	// Assert
	s.Require().Nil(err)

	_, err = s.svc.RecipeByID(s.owner, rec.ID)
	s.Require().ErrorIs(err, recipes.ErrNotFound)

	// The tag survives the recipe.
	tags, err := s.svc.Tags(s.owner, false)
	s.Require().Nil(err)
	s.Require().Len(tags, 1)

	// Act
	err = s.svc.DeleteRecipe(s.owner, 10101)

	// Assert
	s.Require().ErrorIs(err, recipes.ErrNotFound)
}
