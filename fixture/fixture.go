// Package fixture persists sample records for tests and for seeding a
// development database. Every builder writes a row with sensible defaults
// and accepts option funcs overriding them.
package fixture

import (
	"fmt"

	"github.com/rafacorp/recipes"
	"github.com/rafacorp/recipes/postgres"
	"golang.org/x/crypto/bcrypt"
)

// Default values shared by the builders.
const (
	DefaultEmail    = "test@rafacorp.com"
	DefaultPassword = "testpass123"
)

type (
	UserOpt       func(*userFixture)
	TagOpt        func(*recipes.Tag)
	IngredientOpt func(*recipes.Ingredient)
	RecipeOpt     func(*recipes.Recipe)
)

type userFixture struct {
	recipes.User
	password string
}

func UserEmail(email string) UserOpt { return func(f *userFixture) { f.Email = email } }
func UserName(name string) UserOpt   { return func(f *userFixture) { f.Name = name } }
func UserPassword(pw string) UserOpt { return func(f *userFixture) { f.password = pw } }
func UserInactive() UserOpt          { return func(f *userFixture) { f.Active = false } }
func UserStaff() UserOpt             { return func(f *userFixture) { f.Staff = true } }

func TagName(name string) TagOpt { return func(t *recipes.Tag) { t.Name = name } }

func IngredientName(name string) IngredientOpt {
	return func(i *recipes.Ingredient) { i.Name = name }
}

func RecipeTitle(title string) RecipeOpt { return func(r *recipes.Recipe) { r.Title = title } }
func RecipeLink(link string) RecipeOpt   { return func(r *recipes.Recipe) { r.Link = link } }

func RecipeTime(minutes int) RecipeOpt {
	return func(r *recipes.Recipe) { r.TimeMinutes = minutes }
}

func RecipePrice(price float64) RecipeOpt {
	return func(r *recipes.Recipe) { r.Price = price }
}
func RecipeTags(tags ...recipes.Tag) RecipeOpt {
	return func(r *recipes.Recipe) { r.Tags = tags }
}
func RecipeIngredients(ings ...recipes.Ingredient) RecipeOpt {
	return func(r *recipes.Recipe) { r.Ingredients = ings }
}

// SampleUser persists a user with a bcrypt-hashed password.
func SampleUser(db *postgres.DB, opts ...UserOpt) (recipes.User, error) {
	f := userFixture{
		User:     recipes.User{Email: DefaultEmail, Name: "Test name", Active: true},
		password: DefaultPassword,
	}
	for _, opt := range opts {
		opt(&f)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(f.password), bcrypt.MinCost)
	if err != nil {
		return recipes.User{}, fmt.Errorf("%w: %s", recipes.ErrUnexpected, err)
	}

	f.User.Password = hash
	if err := db.Create(&f.User); err != nil {
		return recipes.User{}, err
	}

	return f.User, nil
}

// SampleTag persists a tag owned by owner.
func SampleTag(db *postgres.DB, owner recipes.User, opts ...TagOpt) (recipes.Tag, error) {
	t := recipes.Tag{Name: "Main course", UserID: owner.ID}
	for _, opt := range opts {
		opt(&t)
	}

	if err := db.Create(&t); err != nil {
		return recipes.Tag{}, err
	}

	return t, nil
}

// SampleIngredient persists an ingredient owned by owner.
func SampleIngredient(db *postgres.DB, owner recipes.User, opts ...IngredientOpt) (recipes.Ingredient, error) {
	i := recipes.Ingredient{Name: "Cinnamon", UserID: owner.ID}
	for _, opt := range opts {
		opt(&i)
	}

	if err := db.Create(&i); err != nil {
		return recipes.Ingredient{}, err
	}

	return i, nil
}

// SampleRecipe persists a recipe owned by owner,
// attaching any tags or ingredients set through opts.
func SampleRecipe(db *postgres.DB, owner recipes.User, opts ...RecipeOpt) (recipes.Recipe, error) {
	r := recipes.Recipe{
		Title:       "Sample recipe",
		TimeMinutes: 10,
		Price:       5.00,
		UserID:      owner.ID,
	}
	for _, opt := range opts {
		opt(&r)
	}

	if err := db.Create(&r); err != nil {
		return recipes.Recipe{}, err
	}

	return r, nil
}
