package backend

import (
	"log/slog"
	"net/http"

	"github.com/jo-hoe/gorecipes/internal/backend/database"
	"github.com/jo-hoe/gorecipes/internal/core"
	"github.com/labstack/echo/v4"
)

type APIService struct {
	config      *core.ServiceConfig
	coreService *core.CoreService
}

func NewAPIService(config *core.ServiceConfig, coreService *core.CoreService) *APIService {
	return &APIService{
		config:      config,
		coreService: coreService,
	}
}

// RecipeResponse is the JSON shape of a recipe. Photos are exposed via the
// frontend thumbnail route, not inlined.
type RecipeResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Ingredients string `json:"ingredients,omitempty"`
	Directions  string `json:"directions,omitempty"`
	CreatedAt   int64  `json:"createdAt"`
}

type CreateRecipeRequest struct {
	Name        string `json:"name" validate:"required"`
	Category    string `json:"category" validate:"required"`
	Description string `json:"description" validate:"required"`
	Ingredients string `json:"ingredients"`
	Directions  string `json:"directions"`
}

type UpdateOrderRequest struct {
	Order []string `json:"order" validate:"required,min=1"`
}

func toRecipeResponse(recipe *database.Recipe) RecipeResponse {
	return RecipeResponse{
		ID:          recipe.ID,
		Name:        recipe.Name,
		Category:    recipe.Category,
		Description: recipe.Description,
		Ingredients: recipe.Ingredients,
		Directions:  recipe.Directions,
		CreatedAt:   recipe.CreatedAt,
	}
}

func (s *APIService) SetRoutes(e *echo.Echo) {
	// Probe route for liveness checks
	e.GET("/probe", func(c echo.Context) error {
		return c.String(http.StatusOK, "service is running")
	})

	e.GET("/api/recipes", s.listRecipesHandler)
	e.GET("/api/recipes/:id", s.getRecipeHandler)
	e.POST("/api/recipes", s.createRecipeHandler)
	e.DELETE("/api/recipes/:id", s.deleteRecipeHandler)
	e.PUT("/api/recipes/order", s.updateOrderHandler)
}

func (s *APIService) listRecipesHandler(ctx echo.Context) error {
	var (
		recipes []*database.Recipe
		err     error
	)
	if category := ctx.QueryParam("category"); category != "" {
		recipes, err = s.coreService.ListRecipesByCategory(ctx.Request().Context(), category)
	} else {
		recipes, err = s.coreService.ListRecipes(ctx.Request().Context())
	}
	if err != nil {
		slog.Error("listRecipesHandler: failed to list recipes", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list recipes")
	}

	response := make([]RecipeResponse, 0, len(recipes))
	for _, recipe := range recipes {
		response = append(response, toRecipeResponse(recipe))
	}
	return ctx.JSON(http.StatusOK, response)
}

func (s *APIService) getRecipeHandler(ctx echo.Context) error {
	id := ctx.Param("id")
	recipe, err := s.coreService.GetRecipeByID(id)
	if err != nil {
		slog.Error("getRecipeHandler: failed to fetch recipe", "recipe_id", id, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to fetch recipe")
	}
	if recipe == nil {
		return echo.NewHTTPError(http.StatusNotFound, "recipe not found")
	}
	return ctx.JSON(http.StatusOK, toRecipeResponse(recipe))
}

func (s *APIService) createRecipeHandler(ctx echo.Context) error {
	var request CreateRecipeRequest
	if err := ctx.Bind(&request); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := ctx.Validate(&request); err != nil {
		return err
	}

	recipe := &database.Recipe{
		Name:        request.Name,
		Category:    request.Category,
		Description: request.Description,
		Ingredients: request.Ingredients,
		Directions:  request.Directions,
	}
	id, err := s.coreService.AddRecipe(ctx.Request().Context(), recipe)
	if err != nil {
		slog.Error("createRecipeHandler: failed to create recipe", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to create recipe")
	}

	recipe.ID = id
	return ctx.JSON(http.StatusCreated, toRecipeResponse(recipe))
}

func (s *APIService) deleteRecipeHandler(ctx echo.Context) error {
	id := ctx.Param("id")
	recipe, err := s.coreService.GetRecipeByID(id)
	if err != nil {
		slog.Error("deleteRecipeHandler: failed to fetch recipe", "recipe_id", id, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to fetch recipe")
	}
	if recipe == nil {
		return echo.NewHTTPError(http.StatusNotFound, "recipe not found")
	}

	if err := s.coreService.DeleteRecipe(ctx.Request().Context(), id); err != nil {
		slog.Error("deleteRecipeHandler: failed to delete recipe", "recipe_id", id, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to delete recipe")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (s *APIService) updateOrderHandler(ctx echo.Context) error {
	var request UpdateOrderRequest
	if err := ctx.Bind(&request); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := ctx.Validate(&request); err != nil {
		return err
	}

	if err := s.coreService.UpdateRecipeOrder(ctx.Request().Context(), request.Order); err != nil {
		slog.Warn("updateOrderHandler: failed to update order", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "failed to update recipe order")
	}
	return ctx.NoContent(http.StatusNoContent)
}
