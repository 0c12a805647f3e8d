package core

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jo-hoe/gorecipes/internal/backend/database"
	"github.com/jo-hoe/gorecipes/internal/media"
)

// listFields selects everything except the photo blob; listings never need it.
var listFields = []string{"id", "name", "category", "description", "ingredients", "directions", "rank", "created_at"}

type CoreService struct {
	config          *ServiceConfig
	databaseService database.DatabaseService
	cache           *ListingCache
}

func NewCoreService(config *ServiceConfig) *CoreService {
	databaseService, err := getDatabaseService(config)
	if err != nil {
		slog.Error("failed to initialize database service", "error", err)
		panic(err)
	}

	service := &CoreService{
		config:          config,
		databaseService: databaseService,
		cache:           NewListingCache(config.Cache),
	}

	if config.SeedSampleData {
		if err := service.seedIfEmpty(); err != nil {
			slog.Error("failed to seed sample recipes", "error", err)
			panic(err)
		}
	}

	return service
}

func getDatabaseService(config *ServiceConfig) (database.DatabaseService, error) {
	databaseService, err := database.NewDatabase(config.Database.Type, config.Database.ConnectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	slog.Info("database initialized successfully", "type", config.Database.Type)
	return databaseService, nil
}

// ListRecipes returns all recipes in curated order, without photo data.
func (service *CoreService) ListRecipes(ctx context.Context) ([]*database.Recipe, error) {
	if recipes, ok := service.cache.GetRecipes(ctx, cacheKeyAllRecipes); ok {
		return recipes, nil
	}
	recipes, err := service.databaseService.GetRecipes(listFields...)
	if err != nil {
		return nil, err
	}
	service.cache.SetRecipes(ctx, cacheKeyAllRecipes, recipes)
	return recipes, nil
}

// ListRecipesByCategory returns all recipes of one category in curated order.
func (service *CoreService) ListRecipesByCategory(ctx context.Context, category string) ([]*database.Recipe, error) {
	key := categoryKey(category)
	if recipes, ok := service.cache.GetRecipes(ctx, key); ok {
		return recipes, nil
	}
	recipes, err := service.databaseService.GetRecipesByCategory(category, listFields...)
	if err != nil {
		return nil, err
	}
	service.cache.SetRecipes(ctx, key, recipes)
	return recipes, nil
}

func (service *CoreService) Categories() ([]string, error) {
	return service.databaseService.GetCategories()
}

// GetRecipeByID returns nil without error when no recipe matches.
func (service *CoreService) GetRecipeByID(id string) (*database.Recipe, error) {
	return service.databaseService.GetRecipeByID(id)
}

// AddRecipe validates and stores a new recipe, returning its generated ID.
func (service *CoreService) AddRecipe(ctx context.Context, recipe *database.Recipe) (string, error) {
	if strings.TrimSpace(recipe.Name) == "" {
		return "", fmt.Errorf("recipe name must not be empty")
	}
	if strings.TrimSpace(recipe.Category) == "" {
		return "", fmt.Errorf("recipe category must not be empty")
	}
	if strings.TrimSpace(recipe.Description) == "" {
		return "", fmt.Errorf("recipe description must not be empty")
	}

	id, err := service.databaseService.CreateRecipe(recipe)
	if err != nil {
		return "", fmt.Errorf("failed to store recipe: %w", err)
	}
	service.cache.Invalidate(ctx)
	slog.Info("recipe created", "recipe_id", id, "name", recipe.Name, "category", recipe.Category)
	return id, nil
}

func (service *CoreService) DeleteRecipe(ctx context.Context, id string) error {
	if err := service.databaseService.DeleteRecipe(id); err != nil {
		return err
	}
	service.cache.Invalidate(ctx)
	slog.Info("recipe deleted", "recipe_id", id)
	return nil
}

// AttachPhoto runs the configured photo pipeline on raw upload bytes and
// stores the result on the recipe.
func (service *CoreService) AttachPhoto(ctx context.Context, id string, raw []byte) error {
	if len(raw) == 0 {
		return fmt.Errorf("photo data must not be empty")
	}
	processed, err := media.ExecuteCommands(raw, service.config.PhotoPipeline)
	if err != nil {
		return fmt.Errorf("failed to process photo: %w", err)
	}
	if err := service.databaseService.SetRecipePhoto(id, processed); err != nil {
		return err
	}
	service.cache.Invalidate(ctx)
	return nil
}

// RecipePhoto returns the stored photo; the slice is empty when the recipe
// has none.
func (service *CoreService) RecipePhoto(id string) ([]byte, error) {
	return service.databaseService.GetRecipePhotoByID(id)
}

// GetOrderedRecipeIDs returns all recipe IDs in persisted display order.
func (service *CoreService) GetOrderedRecipeIDs() ([]string, error) {
	return service.databaseService.GetOrderedRecipeIDs()
}

// UpdateRecipeOrder persists the given display order with minimal rank writes.
func (service *CoreService) UpdateRecipeOrder(ctx context.Context, order []string) error {
	ranks, err := service.databaseService.GetRanks()
	if err != nil {
		return fmt.Errorf("failed to fetch current ranks: %w", err)
	}
	if len(order) != len(ranks) {
		return fmt.Errorf("order lists %d recipes, database has %d", len(order), len(ranks))
	}
	for _, id := range order {
		if _, ok := ranks[id]; !ok {
			return fmt.Errorf("unknown recipe in order: %s", id)
		}
	}

	updates := database.Reorder(ranks, order)
	if err := service.databaseService.UpdateRanks(updates); err != nil {
		return fmt.Errorf("failed to update ranks: %w", err)
	}
	service.cache.Invalidate(ctx)
	return nil
}

// MoveRecipe moves a recipe one position up or down in the curated order.
// Moving the first recipe up or the last down is a no-op.
func (service *CoreService) MoveRecipe(ctx context.Context, id, dir string) error {
	if dir != "up" && dir != "down" {
		return fmt.Errorf("invalid move direction: %s", dir)
	}

	order, err := service.databaseService.GetOrderedRecipeIDs()
	if err != nil {
		return fmt.Errorf("failed to fetch order: %w", err)
	}

	idx := -1
	for i := range order {
		if order[i] == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("recipe not found: %s", id)
	}

	switch dir {
	case "up":
		if idx == 0 {
			return nil
		}
		order[idx], order[idx-1] = order[idx-1], order[idx]
	case "down":
		if idx == len(order)-1 {
			return nil
		}
		order[idx], order[idx+1] = order[idx+1], order[idx]
	}

	return service.UpdateRecipeOrder(ctx, order)
}

// SubmitContactMessage stores a message from the contact page.
func (service *CoreService) SubmitContactMessage(name, email, message string) (string, error) {
	if strings.TrimSpace(name) == "" || strings.TrimSpace(message) == "" {
		return "", fmt.Errorf("contact name and message must not be empty")
	}
	return service.databaseService.CreateContactMessage(&database.ContactMessage{
		Name:    name,
		Email:   email,
		Message: message,
	})
}

func (service *CoreService) ThumbnailWidth() int {
	return service.config.ThumbnailWidth
}

func (service *CoreService) Close() error {
	if err := service.cache.Close(); err != nil {
		slog.Warn("failed to close listing cache", "error", err)
	}
	return service.databaseService.Close()
}
