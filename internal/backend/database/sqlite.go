package database

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

type SQLiteDatabase struct {
	db               *sql.DB
	connectionString string
}

func NewSQLiteDatabase(connectionString string) (DatabaseService, error) {
	db, err := sql.Open("sqlite", connectionString)
	if err != nil {
		return nil, err
	}
	// SQLite serializes writes; a single pooled connection avoids SQLITE_BUSY
	// and keeps ":memory:" databases from splitting across connections.
	db.SetMaxOpenConns(1)

	return &SQLiteDatabase{
		db:               db,
		connectionString: connectionString,
	}, nil
}

func (s *SQLiteDatabase) CreateDatabase() (*sql.DB, error) {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS recipes (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		category TEXT NOT NULL,
		description TEXT NOT NULL,
		ingredients TEXT NOT NULL DEFAULT '',
		directions TEXT NOT NULL DEFAULT '',
		photo BLOB,
		rank TEXT NOT NULL,
		created_at INTEGER NOT NULL
	)`)
	if err != nil {
		return nil, err
	}

	_, err = s.db.Exec(`CREATE TABLE IF NOT EXISTS contact_messages (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL,
		message TEXT NOT NULL,
		created_at INTEGER NOT NULL
	)`)
	if err != nil {
		return nil, err
	}

	return s.db, nil
}

func (s *SQLiteDatabase) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLiteDatabase) DoesDatabaseExist() bool {
	// In SQLite, the database file is created when you connect to it.
	// So we can assume it exists if we can successfully ping the database.
	err := s.db.Ping()
	return err == nil
}

func (s *SQLiteDatabase) CreateRecipe(recipe *Recipe) (string, error) {
	id := uuid.NewString()

	// New recipes go to the end of the curated order.
	var maxRank sql.NullString
	if err := s.db.QueryRow("SELECT MAX(rank) FROM recipes").Scan(&maxRank); err != nil {
		return "", fmt.Errorf("failed to determine current max rank: %w", err)
	}
	rank := Next(maxRank.String)

	createdAt := recipe.CreatedAt
	if createdAt == 0 {
		createdAt = time.Now().Unix()
	}

	_, err := s.db.Exec(
		`INSERT INTO recipes (id, name, category, description, ingredients, directions, photo, rank, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, recipe.Name, recipe.Category, recipe.Description,
		recipe.Ingredients, recipe.Directions, recipe.Photo, rank, createdAt)
	if err != nil {
		return "", err
	}

	recipe.ID = id
	recipe.Rank = rank
	recipe.CreatedAt = createdAt
	return id, nil
}

var recipeColumns = []string{"id", "name", "category", "description", "ingredients", "directions", "photo", "rank", "created_at"}

// scanTarget maps a selectable field name to the matching struct field.
func scanTarget(recipe *Recipe, column string) (any, error) {
	switch column {
	case "id":
		return &recipe.ID, nil
	case "name":
		return &recipe.Name, nil
	case "category":
		return &recipe.Category, nil
	case "description":
		return &recipe.Description, nil
	case "ingredients":
		return &recipe.Ingredients, nil
	case "directions":
		return &recipe.Directions, nil
	case "photo":
		return &recipe.Photo, nil
	case "rank":
		return &recipe.Rank, nil
	case "created_at":
		return &recipe.CreatedAt, nil
	default:
		return nil, fmt.Errorf("unknown recipe field: %s", column)
	}
}

func (s *SQLiteDatabase) queryRecipes(where string, args []any, fields ...string) ([]*Recipe, error) {
	columns := fields
	if len(columns) == 0 {
		columns = recipeColumns
	}
	// Validate requested fields before touching the database.
	for _, column := range columns {
		if _, err := scanTarget(&Recipe{}, column); err != nil {
			return nil, err
		}
	}

	query := fmt.Sprintf("SELECT %s FROM recipes", strings.Join(columns, ", "))
	if where != "" {
		query += " WHERE " + where
	}
	query += " ORDER BY rank ASC, created_at ASC"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close() // Explicitly ignore error as we're already returning an error from the function
	}()

	var recipes []*Recipe
	for rows.Next() {
		var recipe Recipe
		targets := make([]any, 0, len(columns))
		for _, column := range columns {
			target, err := scanTarget(&recipe, column)
			if err != nil {
				return nil, err
			}
			targets = append(targets, target)
		}
		if err := rows.Scan(targets...); err != nil {
			return nil, err
		}
		recipes = append(recipes, &recipe)
	}
	return recipes, rows.Err()
}

func (s *SQLiteDatabase) GetRecipes(fields ...string) ([]*Recipe, error) {
	return s.queryRecipes("", nil, fields...)
}

func (s *SQLiteDatabase) GetRecipesByCategory(category string, fields ...string) ([]*Recipe, error) {
	return s.queryRecipes("category = ?", []any{category}, fields...)
}

func (s *SQLiteDatabase) GetRecipeByID(id string) (*Recipe, error) {
	row := s.db.QueryRow(
		`SELECT id, name, category, description, ingredients, directions, photo, rank, created_at
		 FROM recipes WHERE id = ?`, id)
	var recipe Recipe
	err := row.Scan(&recipe.ID, &recipe.Name, &recipe.Category, &recipe.Description,
		&recipe.Ingredients, &recipe.Directions, &recipe.Photo, &recipe.Rank, &recipe.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &recipe, nil
}

func (s *SQLiteDatabase) GetCategories() ([]string, error) {
	rows, err := s.db.Query("SELECT DISTINCT category FROM recipes ORDER BY category ASC")
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close()
	}()

	var categories []string
	for rows.Next() {
		var category string
		if err := rows.Scan(&category); err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	return categories, rows.Err()
}

func (s *SQLiteDatabase) DeleteRecipe(id string) error {
	_, err := s.db.Exec("DELETE FROM recipes WHERE id = ?", id)
	return err
}

func (s *SQLiteDatabase) CountRecipes() (int, error) {
	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM recipes").Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (s *SQLiteDatabase) SetRecipePhoto(id string, photo []byte) error {
	result, err := s.db.Exec("UPDATE recipes SET photo = ? WHERE id = ?", photo, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("no recipe with id %s", id)
	}
	return nil
}

func (s *SQLiteDatabase) GetRecipePhotoByID(id string) ([]byte, error) {
	row := s.db.QueryRow("SELECT photo FROM recipes WHERE id = ?", id)
	var photo []byte
	if err := row.Scan(&photo); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("no recipe with id %s", id)
		}
		return nil, err
	}
	return photo, nil
}

func (s *SQLiteDatabase) GetOrderedRecipeIDs() ([]string, error) {
	rows, err := s.db.Query("SELECT id FROM recipes ORDER BY rank ASC, created_at ASC")
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close()
	}()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (s *SQLiteDatabase) GetRanks() (map[string]string, error) {
	rows, err := s.db.Query("SELECT id, rank FROM recipes")
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close()
	}()

	ranks := make(map[string]string)
	for rows.Next() {
		var id, rank string
		if err := rows.Scan(&id, &rank); err != nil {
			return nil, err
		}
		ranks[id] = rank
	}
	return ranks, rows.Err()
}

func (s *SQLiteDatabase) UpdateRanks(updates map[string]string) error {
	if len(updates) == 0 {
		return nil
	}
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	for id, rank := range updates {
		if _, err := tx.Exec("UPDATE recipes SET rank = ? WHERE id = ?", rank, id); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to update rank for %s: %w", id, err)
		}
	}
	return tx.Commit()
}

func (s *SQLiteDatabase) CreateContactMessage(message *ContactMessage) (string, error) {
	id := uuid.NewString()
	createdAt := message.CreatedAt
	if createdAt == 0 {
		createdAt = time.Now().Unix()
	}

	_, err := s.db.Exec(
		"INSERT INTO contact_messages (id, name, email, message, created_at) VALUES (?, ?, ?, ?, ?)",
		id, message.Name, message.Email, message.Message, createdAt)
	if err != nil {
		return "", err
	}

	message.ID = id
	message.CreatedAt = createdAt
	return id, nil
}
