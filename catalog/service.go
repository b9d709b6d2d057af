// Package catalog implements the recipe catalog: recipes and the tags and
// ingredients attached to them, always scoped to the owning user.
package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rafacorp/recipes"
	"github.com/rafacorp/recipes/postgres"
)

// Service owns every read and write of the catalog.
//
// Every method takes the owning user and only ever touches that user's
// records; a record belonging to anybody else behaves as if it
// did not exist.
type Service struct {
	db *postgres.DB
}

func NewService(db *postgres.DB) *Service { return &Service{db: db} }

// Tags lists owner's tags ordered by name, descending.
//
// With assignedOnly, only tags attached to at least one of owner's
// recipes return, each once regardless of how many recipes use it.
func (s *Service) Tags(owner recipes.User, assignedOnly bool) ([]recipes.Tag, error) {
	q := s.db.Model(&recipes.Tag{}).Where("tags.user_id = ?", owner.ID)
	if assignedOnly {
		q = q.Distinct("tags.*").
			Joins("INNER JOIN recipe_tags ON recipe_tags.tag_id = tags.id").
			Joins("INNER JOIN recipes ON recipes.id = recipe_tags.recipe_id AND recipes.deleted_at IS NULL AND recipes.user_id = ?", owner.ID)
	}

	var tags []recipes.Tag
	if err := q.Order("tags.name DESC").Find(&tags); err != nil {
		return nil, err
	}

	return tags, nil
}

// CreateTag adds a tag to owner's catalog.
func (s *Service) CreateTag(owner recipes.User, name string) (recipes.Tag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return recipes.Tag{}, fmt.Errorf("%w: tag name is required", recipes.ErrNotValid)
	}

	t := recipes.Tag{Name: name, UserID: owner.ID}
	if err := s.db.Create(&t); err != nil {
		return recipes.Tag{}, err
	}

	return t, nil
}

// DeleteTag removes one of owner's tags, detaching it from any recipes
// using it. A tag owned by somebody else fails with ErrNotFound.
func (s *Service) DeleteTag(owner recipes.User, id uint) error {
	var t recipes.Tag
	err := s.db.Where("user_id = ?", owner.ID).Where("id = ?", id).First(&t)
	if err != nil {
		return err
	}

	tx := s.db.Begin()
	// A tag attached to no recipe leaves zero join rows to delete.
	err = tx.Exec("DELETE FROM recipe_tags WHERE tag_id = ?", t.ID)
	if err != nil && !errors.Is(err, recipes.ErrNotFound) {
		tx.Rollback()
		return err
	}

	if err := tx.Delete(&t); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit()
}

// Ingredients lists owner's ingredients ordered by name, descending.
//
// With assignedOnly, only ingredients attached to at least one of
// owner's recipes return, deduplicated.
func (s *Service) Ingredients(owner recipes.User, assignedOnly bool) ([]recipes.Ingredient, error) {
	q := s.db.Model(&recipes.Ingredient{}).Where("ingredients.user_id = ?", owner.ID)
	if assignedOnly {
		q = q.Distinct("ingredients.*").
			Joins("INNER JOIN recipe_ingredients ON recipe_ingredients.ingredient_id = ingredients.id").
			Joins("INNER JOIN recipes ON recipes.id = recipe_ingredients.recipe_id AND recipes.deleted_at IS NULL AND recipes.user_id = ?", owner.ID)
	}

	var ings []recipes.Ingredient
	if err := q.Order("ingredients.name DESC").Find(&ings); err != nil {
		return nil, err
	}

	return ings, nil
}

// CreateIngredient adds an ingredient to owner's catalog.
func (s *Service) CreateIngredient(owner recipes.User, name string) (recipes.Ingredient, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return recipes.Ingredient{}, fmt.Errorf("%w: ingredient name is required", recipes.ErrNotValid)
	}

	i := recipes.Ingredient{Name: name, UserID: owner.ID}
	if err := s.db.Create(&i); err != nil {
		return recipes.Ingredient{}, err
	}

	return i, nil
}

// DeleteIngredient removes one of owner's ingredients, detaching it from
// any recipes using it.
func (s *Service) DeleteIngredient(owner recipes.User, id uint) error {
	var i recipes.Ingredient
	err := s.db.Where("user_id = ?", owner.ID).Where("id = ?", id).First(&i)
	if err != nil {
		return err
	}

	tx := s.db.Begin()
	err = tx.Exec("DELETE FROM recipe_ingredients WHERE ingredient_id = ?", i.ID)
	if err != nil && !errors.Is(err, recipes.ErrNotFound) {
		tx.Rollback()
		return err
	}

	if err := tx.Delete(&i); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit()
}

// A RecipeInput carries the full set of fields for creating a recipe.
// TagIDs and IngredientIDs must all belong to the owning user.
type RecipeInput struct {
	Title         string
	TimeMinutes   int
	Price         float64
	Link          string
	TagIDs        []uint
	IngredientIDs []uint
}

// A RecipePatch carries the optional fields of a recipe mutation.
// A nil field leaves the current value untouched.
type RecipePatch struct {
	Title         *string
	TimeMinutes   *int
	Price         *float64
	Link          *string
	TagIDs        *[]uint
	IngredientIDs *[]uint
}

// Recipes lists owner's recipes, newest first, with their tag and
// ingredient associations loaded.
func (s *Service) Recipes(owner recipes.User) ([]recipes.Recipe, error) {
	var rs []recipes.Recipe
	err := s.db.
		Where("user_id = ?", owner.ID).
		Order("id DESC").
		Preload("Tags").
		Preload("Ingredients").
		Find(&rs)
	if err != nil {
		return nil, err
	}

	return rs, nil
}

// RecipeByID retrieves one of owner's recipes with its associations loaded.
// A recipe owned by somebody else fails with ErrNotFound.
func (s *Service) RecipeByID(owner recipes.User, id uint) (recipes.Recipe, error) {
	var rec recipes.Recipe
	err := s.db.
		Where("user_id = ?", owner.ID).
		Where("id = ?", id).
		Preload("Tags").
		Preload("Ingredients").
		First(&rec)
	if err != nil {
		return recipes.Recipe{}, err
	}

	return rec, nil
}

// CreateRecipe adds a recipe to owner's catalog, attaching the referenced
// tags and ingredients.
//
// Referencing a tag or ingredient outside owner's catalog fails
// with ErrNotValid.
func (s *Service) CreateRecipe(owner recipes.User, in RecipeInput) (recipes.Recipe, error) {
	if strings.TrimSpace(in.Title) == "" {
		return recipes.Recipe{}, fmt.Errorf("%w: recipe title is required", recipes.ErrNotValid)
	}

	tags, err := s.tagsByIDs(owner, in.TagIDs)
	if err != nil {
		return recipes.Recipe{}, err
	}

	ings, err := s.ingredientsByIDs(owner, in.IngredientIDs)
	if err != nil {
		return recipes.Recipe{}, err
	}

	rec := recipes.Recipe{
		Title:       in.Title,
		TimeMinutes: in.TimeMinutes,
		Price:       in.Price,
		Link:        in.Link,
		UserID:      owner.ID,
		Tags:        tags,
		Ingredients: ings,
	}
	if err := s.db.Create(&rec); err != nil {
		return recipes.Recipe{}, err
	}

	return rec, nil
}

// UpdateRecipe mutates one of owner's recipes.
//
// With partial, only the fields supplied on the RecipePatch change.
// Without, the patch replaces the whole recipe: the title is required,
// absent scalars reset to their zero values and absent ID lists detach
// every tag or ingredient.
func (s *Service) UpdateRecipe(owner recipes.User, id uint, p RecipePatch, partial bool) (recipes.Recipe, error) {
	rec, err := s.RecipeByID(owner, id)
	if err != nil {
		return recipes.Recipe{}, err
	}

	if !partial {
		if p.Title == nil {
			return recipes.Recipe{}, fmt.Errorf("%w: recipe title is required", recipes.ErrNotValid)
		}

		p = fillPatch(p)
	}

	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		return recipes.Recipe{}, fmt.Errorf("%w: recipe title is required", recipes.ErrNotValid)
	}

	updates := postgres.Updates{}
	if p.Title != nil {
		updates["title"] = *p.Title
	}
	if p.TimeMinutes != nil {
		updates["time_minutes"] = *p.TimeMinutes
	}
	if p.Price != nil {
		updates["price"] = *p.Price
	}
	if p.Link != nil {
		updates["link"] = *p.Link
	}

	var tags []recipes.Tag
	if p.TagIDs != nil {
		if tags, err = s.tagsByIDs(owner, *p.TagIDs); err != nil {
			return recipes.Recipe{}, err
		}
	}

	var ings []recipes.Ingredient
	if p.IngredientIDs != nil {
		if ings, err = s.ingredientsByIDs(owner, *p.IngredientIDs); err != nil {
			return recipes.Recipe{}, err
		}
	}

	tx := s.db.Begin()
	if len(updates) > 0 {
		err := tx.Model(&recipes.Recipe{}).Where("id = ?", rec.ID).Update(updates)
		if err != nil {
			tx.Rollback()
			return recipes.Recipe{}, err
		}
	}

	if p.TagIDs != nil {
		if err := tx.ReplaceAssociation(&rec, "Tags", tags); err != nil {
			tx.Rollback()
			return recipes.Recipe{}, err
		}
	}

	if p.IngredientIDs != nil {
		if err := tx.ReplaceAssociation(&rec, "Ingredients", ings); err != nil {
			tx.Rollback()
			return recipes.Recipe{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return recipes.Recipe{}, err
	}

	return s.RecipeByID(owner, id)
}

// DeleteRecipe removes one of owner's recipes along with its tag and
// ingredient attachments. The tags and ingredients themselves survive.
func (s *Service) DeleteRecipe(owner recipes.User, id uint) error {
	rec, err := s.RecipeByID(owner, id)
	if err != nil {
		return err
	}

	tx := s.db.Begin()
	if err := tx.ClearAssociation(&rec, "Tags"); err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.ClearAssociation(&rec, "Ingredients"); err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Delete(&rec); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit()
}

// tagsByIDs resolves ids within owner's catalog,
// failing with ErrNotValid when any ID falls outside it.
func (s *Service) tagsByIDs(owner recipes.User, ids []uint) ([]recipes.Tag, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var tags []recipes.Tag
	err := s.db.Where("user_id = ?", owner.ID).Where("id IN ?", ids).Find(&tags)
	if err != nil {
		return nil, err
	}

	if len(tags) != len(dedupe(ids)) {
		return nil, fmt.Errorf("%w: unknown tag in %v", recipes.ErrNotValid, ids)
	}

	return tags, nil
}

// ingredientsByIDs resolves ids within owner's catalog,
// failing with ErrNotValid when any ID falls outside it.
func (s *Service) ingredientsByIDs(owner recipes.User, ids []uint) ([]recipes.Ingredient, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var ings []recipes.Ingredient
	err := s.db.Where("user_id = ?", owner.ID).Where("id IN ?", ids).Find(&ings)
	if err != nil {
		return nil, err
	}

	if len(ings) != len(dedupe(ids)) {
		return nil, fmt.Errorf("%w: unknown ingredient in %v", recipes.ErrNotValid, ids)
	}

	return ings, nil
}

// fillPatch zero-fills every absent field so the patch replaces
// the whole record.
func fillPatch(p RecipePatch) RecipePatch {
	if p.TimeMinutes == nil {
		p.TimeMinutes = new(int)
	}
	if p.Price == nil {
		p.Price = new(float64)
	}
	if p.Link == nil {
		p.Link = new(string)
	}
	if p.TagIDs == nil {
		p.TagIDs = &[]uint{}
	}
	if p.IngredientIDs == nil {
		p.IngredientIDs = &[]uint{}
	}

	return p
}

func dedupe(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}

		seen[id] = struct{}{}
		out = append(out, id)
	}

	return out
}
