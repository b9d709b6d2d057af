package postgres_test

import (
	"github.com/rafacorp/recipes"
	"github.com/rafacorp/recipes/fixture"
	"github.com/rafacorp/recipes/postgres"
)

func (s *DBTestSuite) TestCreateAndFirst() {
	// Arrange
	u, err := fixture.SampleUser(s.db)
	s.Require().Nil(err)
	s.Require().True(u.Exists())

	// Act
	var found recipes.User
	err = s.db.Where("email = ?", fixture.DefaultEmail).First(&found)

	// Assert
	s.Require().Nil(err)
	s.Require().Equal(u.ID, found.ID)

	// Act
	err = s.db.Where("email = ?", "nobody@rafacorp.com").First(&found)

	// Assert
	s.Require().ErrorIs(err, recipes.ErrNotFound)
}

func (s *DBTestSuite) TestCreateUniqueViolation() {
	// Arrange
	_, err := fixture.SampleUser(s.db)
	s.Require().Nil(err)

	// Act
	_, err = fixture.SampleUser(s.db)

	// Assert
	s.Require().ErrorIs(err, recipes.ErrExists)
}

func (s *DBTestSuite) TestCreateFKViolation() {
	// Act: no user row backs the foreign key.
	err := s.db.Create(&recipes.Tag{Name: "Orphaned", UserID: 10101})

	// Assert
	s.Require().ErrorIs(err, recipes.ErrNotValid)
}

func (s *DBTestSuite) TestFindReturnsEmptySlice() {
	// Act
	var tags []recipes.Tag
	err := s.db.Where("user_id = ?", 10101).Find(&tags)

	// Assert
	s.Require().Nil(err)
	s.Require().Empty(tags)
}

func (s *DBTestSuite) TestCountAndExists() {
	// Arrange
	u, err := fixture.SampleUser(s.db)
	s.Require().Nil(err)

	for _, name := range []string{"Vegan", "Dessert"} {
		_, err := fixture.SampleTag(s.db, u, fixture.TagName(name))
		s.Require().Nil(err)
	}

	// Act
	count, err := s.db.Model(&recipes.Tag{}).Count()

	// Assert
	s.Require().Nil(err)
	s.Require().Equal(int64(2), count)

	// Act
	ok, err := s.db.Model(&recipes.Tag{}).Where("name = ?", "Vegan").Exists()

	// Assert
	s.Require().Nil(err)
	s.Require().True(ok)
}

func (s *DBTestSuite) TestUpdate() {
	// Arrange
	u, err := fixture.SampleUser(s.db)
	s.Require().Nil(err)

	tag, err := fixture.SampleTag(s.db, u)
	s.Require().Nil(err)

	// Act
	err = s.db.Model(&recipes.Tag{}).Where("id = ?", tag.ID).Update(postgres.Updates{"name": "Renamed"})

	// Assert
	s.Require().Nil(err)

	var found recipes.Tag
	s.Require().Nil(s.db.Where("id = ?", tag.ID).First(&found))
	s.Require().Equal("Renamed", found.Name)

	// Act: updating nothing is a miss.
	err = s.db.Model(&recipes.Tag{}).Where("id = ?", 10101).Update(postgres.Updates{"name": "Nope"})

	// Assert
	s.Require().ErrorIs(err, recipes.ErrNotFound)
}

func (s *DBTestSuite) TestPaged() {
	// Arrange
	u, err := fixture.SampleUser(s.db)
	s.Require().Nil(err)

	for _, name := range []string{"One", "Two", "Three", "Four", "Five"} {
		_, err := fixture.SampleIngredient(s.db, u, fixture.IngredientName(name))
		s.Require().Nil(err)
	}

	// Act
	pd, err := s.db.Model(&recipes.Ingredient{}).Order("id ASC").Paged(2, 2)

	// Assert
	s.Require().Nil(err)
	s.Require().Equal(int64(2), pd.Page)
	s.Require().Equal(int64(2), pd.PerPage)
	s.Require().Equal(int64(5), pd.TotalItems)
	s.Require().Equal(int64(3), pd.TotalPages)

	items, ok := pd.Items.(*[]recipes.Ingredient)
	s.Require().True(ok)
	s.Require().Len(*items, 2)
}

func (s *DBTestSuite) TestReplaceAndClearAssociation() {
	// Arrange
	u, err := fixture.SampleUser(s.db)
	s.Require().Nil(err)

	first, err := fixture.SampleTag(s.db, u, fixture.TagName("First"))
	s.Require().Nil(err)

	second, err := fixture.SampleTag(s.db, u, fixture.TagName("Second"))
	s.Require().Nil(err)

	rec, err := fixture.SampleRecipe(s.db, u, fixture.RecipeTags(first))
	s.Require().Nil(err)

	// Act
	err = s.db.ReplaceAssociation(&rec, "Tags", []recipes.Tag{second})

	// Assert
	s.Require().Nil(err)

	var found recipes.Recipe
	s.Require().Nil(s.db.Where("id = ?", rec.ID).Preload("Tags").First(&found))
	s.Require().Equal([]uint{second.ID}, found.TagIDs())

	// Act
	err = s.db.ClearAssociation(&rec, "Tags")

	// Assert
	s.Require().Nil(err)
	s.Require().Nil(s.db.Where("id = ?", rec.ID).Preload("Tags").First(&found))
	s.Require().Empty(found.TagIDs())
}

func (s *DBTestSuite) TestTransactionRollback() {
	// Arrange
	u, err := fixture.SampleUser(s.db)
	s.Require().Nil(err)

	// Act
	tx := s.db.Begin()
	s.Require().Nil(tx.Create(&recipes.Tag{Name: "Doomed", UserID: u.ID}))
	s.Require().Nil(tx.Rollback())

	// Assert
	ok, err := s.db.Model(&recipes.Tag{}).Where("name = ?", "Doomed").Exists()
	s.Require().Nil(err)
	s.Require().False(ok)
}
