package recipes

// A Tag is an owner-scoped label attachable to any number of the owner's
// Recipes. Two Users may each own a tag with the same name.
type Tag struct {
	Model
	Name   string `gorm:"not null" json:"name"`
	UserID uint   `gorm:"not null;index" json:"-"`

	// Associations
	User *User `json:"-"`
}

// An Ingredient is an owner-scoped component attachable to any number of the
// owner's Recipes. It has the same relational shape as a Tag.
type Ingredient struct {
	Model
	Name   string `gorm:"not null" json:"name"`
	UserID uint   `gorm:"not null;index" json:"-"`

	// Associations
	User *User `json:"-"`
}

// A Recipe is the central catalog entity: scalar attributes plus two
// many-to-many relations, all scoped to the owning User.
type Recipe struct {
	Model
	Title       string  `gorm:"not null" json:"title"`
	TimeMinutes int     `json:"time_minutes"`
	Price       float64 `gorm:"type:numeric(8,2)" json:"price"`
	Link        string  `json:"link"`
	UserID      uint    `gorm:"not null;index" json:"-"`

	// Associations
	User        *User        `json:"-"`
	Tags        []Tag        `gorm:"many2many:recipe_tags" json:"-"`
	Ingredients []Ingredient `gorm:"many2many:recipe_ingredients" json:"-"`
}

// TagIDs collects the identifiers of the Recipe's tags.
func (r Recipe) TagIDs() []uint {
	ids := make([]uint, len(r.Tags))
	for i, t := range r.Tags {
		ids[i] = t.ID
	}

	return ids
}

// IngredientIDs collects the identifiers of the Recipe's ingredients.
func (r Recipe) IngredientIDs() []uint {
	ids := make([]uint, len(r.Ingredients))
	for i, in := range r.Ingredients {
		ids[i] = in.ID
	}

	return ids
}
