package database

import "database/sql"

type DatabaseService interface {
	CreateDatabase() (*sql.DB, error)
	DoesDatabaseExist() bool
	Close() error

	// CreateRecipe inserts a new recipe and assigns a rank that sorts after
	// all existing recipes, returning the generated ID.
	CreateRecipe(recipe *Recipe) (string, error)
	// GetRecipes returns all recipes with only the requested fields populated.
	// With no fields given, all fields are selected. Results are ordered by
	// rank, with creation time as tiebreak.
	GetRecipes(fields ...string) ([]*Recipe, error)
	// GetRecipeByID returns nil without error when no recipe matches.
	GetRecipeByID(id string) (*Recipe, error)
	GetRecipesByCategory(category string, fields ...string) ([]*Recipe, error)
	GetCategories() ([]string, error)
	DeleteRecipe(id string) error
	CountRecipes() (int, error)

	SetRecipePhoto(id string, photo []byte) error
	GetRecipePhotoByID(id string) ([]byte, error)

	// GetOrderedRecipeIDs returns all recipe IDs in persisted display order.
	GetOrderedRecipeIDs() ([]string, error)
	// GetRanks returns the current rank of every recipe keyed by ID.
	GetRanks() (map[string]string, error)
	// UpdateRanks applies the given id -> rank updates.
	UpdateRanks(updates map[string]string) error

	CreateContactMessage(message *ContactMessage) (string, error)
}
