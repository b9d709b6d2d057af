package server

import (
	"github.com/rafacorp/recipes/postgres"
	"gorm.io/gorm"
)

// Migrations is the ordered schema history of the recipes service.
// postgres.MigrateUp runs each entry once, recording its key.
var Migrations = []postgres.Migration{
	{
		Key: "0001_create_users",
		Executor: func(db *gorm.DB) error {
			return db.Exec(`
CREATE TABLE users (
	id bigserial PRIMARY KEY,
	created_at timestamptz NOT NULL DEFAULT now(),
	updated_at timestamptz NOT NULL DEFAULT now(),
	deleted_at timestamptz,
	email text NOT NULL,
	name text NOT NULL DEFAULT '',
	password bytea NOT NULL,
	active boolean NOT NULL DEFAULT true,
	staff boolean NOT NULL DEFAULT false,
	superuser boolean NOT NULL DEFAULT false
);
CREATE UNIQUE INDEX idx_users_email ON users (email);
CREATE INDEX idx_users_deleted_at ON users (deleted_at);
`).Error
		},
	},
	{
		Key: "0002_create_tags",
		Executor: func(db *gorm.DB) error {
			return db.Exec(`
CREATE TABLE tags (
	id bigserial PRIMARY KEY,
	created_at timestamptz NOT NULL DEFAULT now(),
	updated_at timestamptz NOT NULL DEFAULT now(),
	deleted_at timestamptz,
	name text NOT NULL,
	user_id bigint NOT NULL REFERENCES users (id)
);
CREATE INDEX idx_tags_user_id ON tags (user_id);
CREATE INDEX idx_tags_deleted_at ON tags (deleted_at);
`).Error
		},
	},
	{
		Key: "0003_create_ingredients",
		Executor: func(db *gorm.DB) error {
			return db.Exec(`
CREATE TABLE ingredients (
	id bigserial PRIMARY KEY,
	created_at timestamptz NOT NULL DEFAULT now(),
	updated_at timestamptz NOT NULL DEFAULT now(),
	deleted_at timestamptz,
	name text NOT NULL,
	user_id bigint NOT NULL REFERENCES users (id)
);
CREATE INDEX idx_ingredients_user_id ON ingredients (user_id);
CREATE INDEX idx_ingredients_deleted_at ON ingredients (deleted_at);
`).Error
		},
	},
	{
		Key: "0004_create_recipes",
		Executor: func(db *gorm.DB) error {
			return db.Exec(`
CREATE TABLE recipes (
	id bigserial PRIMARY KEY,
	created_at timestamptz NOT NULL DEFAULT now(),
	updated_at timestamptz NOT NULL DEFAULT now(),
	deleted_at timestamptz,
	title text NOT NULL,
	time_minutes bigint NOT NULL DEFAULT 0,
	price numeric(8,2) NOT NULL DEFAULT 0,
	link text NOT NULL DEFAULT '',
	user_id bigint NOT NULL REFERENCES users (id)
);
CREATE INDEX idx_recipes_user_id ON recipes (user_id);
CREATE INDEX idx_recipes_deleted_at ON recipes (deleted_at);
`).Error
		},
	},
	{
		Key: "0005_create_recipe_tags",
		Executor: func(db *gorm.DB) error {
			return db.Exec(`
CREATE TABLE recipe_tags (
	recipe_id bigint NOT NULL REFERENCES recipes (id),
	tag_id bigint NOT NULL REFERENCES tags (id),
	PRIMARY KEY (recipe_id, tag_id)
);
`).Error
		},
	},
	{
		Key: "0006_create_recipe_ingredients",
		Executor: func(db *gorm.DB) error {
			return db.Exec(`
CREATE TABLE recipe_ingredients (
	recipe_id bigint NOT NULL REFERENCES recipes (id),
	ingredient_id bigint NOT NULL REFERENCES ingredients (id),
	PRIMARY KEY (recipe_id, ingredient_id)
);
`).Error
		},
	},
}
