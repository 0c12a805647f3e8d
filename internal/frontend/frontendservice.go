package frontend

import (
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/jo-hoe/gorecipes/internal/backend/database"
	"github.com/jo-hoe/gorecipes/internal/core"
	"github.com/jo-hoe/gorecipes/internal/media"
	"github.com/labstack/echo/v4"
)

const mimePNG = "image/png"

// Template adapts the embedded views to echo's renderer interface.
type Template struct {
	templates *template.Template
}

func (t *Template) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	return t.templates.ExecuteTemplate(w, name, data)
}

type FrontendService struct {
	coreService *core.CoreService
	config      *core.ServiceConfig
}

func NewFrontendService(config *core.ServiceConfig, coreService *core.CoreService) *FrontendService {
	return &FrontendService{
		coreService: coreService,
		config:      config,
	}
}

func (service *FrontendService) SetRoutes(e *echo.Echo) {
	// Create template renderer
	e.Renderer = &Template{
		templates: template.Must(template.New("").ParseFS(templateFS, viewsPattern)),
	}

	e.GET("/", service.indexHandler)
	e.GET("/recipe/:id", service.recipeDetailHandler)
	e.GET("/add-recipe", service.addRecipeFormHandler)
	e.POST("/add-recipe", service.addRecipeSubmitHandler)
	e.GET("/about", service.aboutHandler)
	e.GET("/contact", service.contactHandler)
	e.POST("/contact", service.contactSubmitHandler)

	// Routes for listing, thumbnails, deleting, and reordering recipes
	e.GET("/htmx/recipes", service.htmxListRecipesHandler)
	e.GET("/htmx/recipe/thumb/:id", service.htmxGetThumbnailByIDHandler)
	e.DELETE("/htmx/recipe/:id", service.htmxDeleteRecipeHandler)
	e.POST("/htmx/recipe/:id/move", service.htmxMoveRecipeHandler)

	// Favicon (SVG) route and embedded static assets
	e.GET("/icon.svg", service.iconHandler)
	e.StaticFS("/static", echo.MustSubFS(staticFS, "static"))
}

// recipeView is the template model for a single recipe.
type recipeView struct {
	ID          string
	Name        string
	Category    string
	Description string
	Ingredients template.HTML
	Directions  template.HTML
	AddedOn     string
}

func (service *FrontendService) toRecipeView(recipe *database.Recipe) (recipeView, error) {
	ingredients, err := renderMarkdown(recipe.Ingredients)
	if err != nil {
		return recipeView{}, err
	}
	directions, err := renderMarkdown(recipe.Directions)
	if err != nil {
		return recipeView{}, err
	}
	return recipeView{
		ID:          recipe.ID,
		Name:        recipe.Name,
		Category:    recipe.Category,
		Description: recipe.Description,
		Ingredients: ingredients,
		Directions:  directions,
		AddedOn:     time.Unix(recipe.CreatedAt, 0).UTC().Format("2006-01-02"),
	}, nil
}

func (service *FrontendService) indexHandler(ctx echo.Context) error {
	recipes, err := service.coreService.ListRecipes(ctx.Request().Context())
	if err != nil {
		slog.Error("indexHandler: failed to list recipes",
			"status", http.StatusInternalServerError, "error", err)
		return ctx.String(http.StatusInternalServerError, "Failed to list recipes")
	}

	views := make([]recipeView, 0, len(recipes))
	for _, recipe := range recipes {
		view, err := service.toRecipeView(recipe)
		if err != nil {
			slog.Error("indexHandler: failed to render recipe", "recipe_id", recipe.ID, "error", err)
			return ctx.String(http.StatusInternalServerError, "Failed to render recipes")
		}
		views = append(views, view)
	}

	return ctx.Render(http.StatusOK, "index.html", map[string]any{
		"Recipes": views,
	})
}

func (service *FrontendService) recipeDetailHandler(ctx echo.Context) error {
	id := ctx.Param("id")
	recipe, err := service.coreService.GetRecipeByID(id)
	if err != nil {
		slog.Error("recipeDetailHandler: failed to fetch recipe",
			"status", http.StatusInternalServerError, "recipe_id", id, "error", err)
		return ctx.String(http.StatusInternalServerError, "Failed to fetch recipe")
	}
	if recipe == nil {
		slog.Warn("recipeDetailHandler: recipe not found",
			"status", http.StatusNotFound, "recipe_id", id)
		return ctx.Render(http.StatusNotFound, "notfound.html", nil)
	}

	view, err := service.toRecipeView(recipe)
	if err != nil {
		slog.Error("recipeDetailHandler: failed to render recipe", "recipe_id", id, "error", err)
		return ctx.String(http.StatusInternalServerError, "Failed to render recipe")
	}
	return ctx.Render(http.StatusOK, "recipe_detail.html", view)
}

func (service *FrontendService) addRecipeFormHandler(ctx echo.Context) error {
	return service.renderAddRecipeForm(ctx, http.StatusOK, "")
}

func (service *FrontendService) renderAddRecipeForm(ctx echo.Context, status int, errorMessage string) error {
	categories, err := service.coreService.Categories()
	if err != nil {
		slog.Error("renderAddRecipeForm: failed to list categories", "error", err)
		return ctx.String(http.StatusInternalServerError, "Failed to load form")
	}
	return ctx.Render(status, "add_recipe.html", map[string]any{
		"Categories": categories,
		"Error":      errorMessage,
	})
}

func (service *FrontendService) addRecipeSubmitHandler(ctx echo.Context) error {
	recipe := &database.Recipe{
		Name:        strings.TrimSpace(ctx.FormValue("name")),
		Category:    strings.TrimSpace(ctx.FormValue("category")),
		Description: strings.TrimSpace(ctx.FormValue("description")),
		Ingredients: ctx.FormValue("ingredients"),
		Directions:  ctx.FormValue("directions"),
	}

	id, err := service.coreService.AddRecipe(ctx.Request().Context(), recipe)
	if err != nil {
		slog.Warn("addRecipeSubmitHandler: rejected recipe submission", "error", err)
		return service.renderAddRecipeForm(ctx, http.StatusBadRequest, err.Error())
	}

	// Optional photo upload; a failed photo never loses the created recipe
	if file, err := ctx.FormFile("photo"); err == nil && file != nil {
		if err := service.attachUploadedPhoto(ctx, id, file.Filename); err != nil {
			slog.Error("addRecipeSubmitHandler: failed to attach photo",
				"recipe_id", id, "filename", file.Filename, "error", err)
		}
	}

	return ctx.Redirect(http.StatusSeeOther, "/recipe/"+id)
}

func (service *FrontendService) attachUploadedPhoto(ctx echo.Context, id, filename string) error {
	file, err := ctx.FormFile("photo")
	if err != nil {
		return err
	}
	src, err := file.Open()
	if err != nil {
		return fmt.Errorf("failed to open uploaded photo: %w", err)
	}
	defer func() {
		if cerr := src.Close(); cerr != nil {
			slog.Error("attachUploadedPhoto: failed to close uploaded file reader", "error", cerr, "filename", filename)
		}
	}()

	raw, err := io.ReadAll(src)
	if err != nil {
		return fmt.Errorf("failed to read uploaded photo: %w", err)
	}
	return service.coreService.AttachPhoto(ctx.Request().Context(), id, raw)
}

func (service *FrontendService) aboutHandler(ctx echo.Context) error {
	return ctx.Render(http.StatusOK, "about.html", nil)
}

func (service *FrontendService) contactHandler(ctx echo.Context) error {
	return ctx.Render(http.StatusOK, "contact.html", map[string]any{
		"Submitted": false,
	})
}

func (service *FrontendService) contactSubmitHandler(ctx echo.Context) error {
	name := strings.TrimSpace(ctx.FormValue("name"))
	email := strings.TrimSpace(ctx.FormValue("email"))
	message := strings.TrimSpace(ctx.FormValue("message"))

	if _, err := service.coreService.SubmitContactMessage(name, email, message); err != nil {
		slog.Warn("contactSubmitHandler: rejected contact submission", "error", err)
		return ctx.Render(http.StatusBadRequest, "contact.html", map[string]any{
			"Submitted": false,
			"Error":     err.Error(),
		})
	}
	return ctx.Render(http.StatusOK, "contact.html", map[string]any{
		"Submitted": true,
	})
}

func (service *FrontendService) htmxListRecipesHandler(ctx echo.Context) error {
	listHTML, err := service.buildRecipeListHTML(ctx)
	if err != nil {
		slog.Error("htmxListRecipesHandler: failed to list recipes",
			"status", http.StatusInternalServerError, "error", err)
		return ctx.String(http.StatusInternalServerError, "Failed to list recipes")
	}

	// Prevent caching so the latest recipes are always shown
	service.setNoCache(ctx)

	return ctx.HTML(http.StatusOK, listHTML)
}

func (service *FrontendService) htmxGetThumbnailByIDHandler(ctx echo.Context) error {
	id := ctx.Param("id")
	if id == "" {
		slog.Warn("htmxGetThumbnailByIDHandler: missing recipe id",
			"status", http.StatusBadRequest,
			"route", "/htmx/recipe/thumb/:id")
		return ctx.String(http.StatusBadRequest, "Missing recipe ID")
	}

	photo, err := service.coreService.RecipePhoto(id)
	if err != nil {
		slog.Warn("htmxGetThumbnailByIDHandler: photo not available",
			"status", http.StatusNotFound, "recipe_id", id, "error", err)
		return ctx.String(http.StatusNotFound, "Photo not available")
	}
	if len(photo) == 0 {
		photo, err = service.placeholderPNG()
		if err != nil {
			slog.Error("htmxGetThumbnailByIDHandler: failed to render placeholder", "error", err)
			return ctx.String(http.StatusInternalServerError, "Failed to render placeholder")
		}
	}

	thumbnail, err := service.toThumbnail(photo)
	if err != nil || len(thumbnail) == 0 {
		slog.Warn("htmxGetThumbnailByIDHandler: thumbnail not available",
			"status", http.StatusNotFound, "recipe_id", id, "error", err)
		return ctx.String(http.StatusNotFound, "Thumbnail not available")
	}

	// Prevent caching
	service.setNoCache(ctx)

	return ctx.Blob(http.StatusOK, mimePNG, thumbnail)
}

func (service *FrontendService) htmxDeleteRecipeHandler(ctx echo.Context) error {
	id := ctx.Param("id")
	if id == "" {
		slog.Warn("htmxDeleteRecipeHandler: missing recipe id",
			"status", http.StatusBadRequest,
			"route", "/htmx/recipe/:id")
		return ctx.String(http.StatusBadRequest, "Missing recipe ID")
	}

	if err := service.coreService.DeleteRecipe(ctx.Request().Context(), id); err != nil {
		slog.Error("htmxDeleteRecipeHandler: failed to delete recipe",
			"status", http.StatusInternalServerError, "recipe_id", id, "error", err)
		return ctx.String(http.StatusInternalServerError, "Failed to delete recipe")
	}

	listHTML, err := service.buildRecipeListHTML(ctx)
	if err != nil {
		slog.Error("htmxDeleteRecipeHandler: failed to list recipes after delete",
			"status", http.StatusInternalServerError, "error", err)
		return ctx.String(http.StatusInternalServerError, "Failed to list recipes")
	}

	// Prevent caching so the latest state is shown
	service.setNoCache(ctx)

	return ctx.HTML(http.StatusOK, listHTML)
}

func (service *FrontendService) htmxMoveRecipeHandler(ctx echo.Context) error {
	id := ctx.Param("id")
	dir := strings.ToLower(strings.TrimSpace(ctx.QueryParam("dir")))
	if id == "" || (dir != "up" && dir != "down") {
		slog.Warn("htmxMoveRecipeHandler: invalid params", "id", id, "dir", dir)
		return ctx.String(http.StatusBadRequest, "Invalid parameters")
	}

	if err := service.coreService.MoveRecipe(ctx.Request().Context(), id, dir); err != nil {
		slog.Error("htmxMoveRecipeHandler: failed to move recipe", "recipe_id", id, "dir", dir, "error", err)
		return ctx.String(http.StatusBadRequest, "Failed to move recipe")
	}

	listHTML, err := service.buildRecipeListHTML(ctx)
	if err != nil {
		slog.Error("htmxMoveRecipeHandler: failed to rebuild recipe list", "error", err)
		return ctx.String(http.StatusInternalServerError, "Failed to rebuild recipe list")
	}

	// Prevent caching
	service.setNoCache(ctx)

	return ctx.HTML(http.StatusOK, listHTML)
}

func (service *FrontendService) buildRecipeListHTML(ctx echo.Context) (string, error) {
	// Render strictly in persisted DB order for deterministic Up/Down moves
	recipes, err := service.coreService.ListRecipes(ctx.Request().Context())
	if err != nil {
		return "", err
	}

	var b strings.Builder
	if len(recipes) == 0 {
		b.WriteString(`<p>No recipes yet. <a href="/add-recipe">Add the first one.</a></p>`)
		return b.String(), nil
	}
	ts := fmt.Sprintf("%d", time.Now().UnixNano())

	b.WriteString(`<div class="vertical-list" id="recipe-sort-list">`)
	for i, recipe := range recipes {
		// Controls: Up disabled for first, Down disabled for last
		disableUp := ""
		disableDown := ""
		if i == 0 {
			disableUp = " disabled"
		}
		if i == len(recipes)-1 {
			disableDown = " disabled"
		}

		name := template.HTMLEscapeString(recipe.Name)
		category := template.HTMLEscapeString(recipe.Category)
		description := template.HTMLEscapeString(recipe.Description)

		b.WriteString(fmt.Sprintf(`<div class="vertical-item" data-id="%s"><article>
	<a href="/recipe/%s"><img src="/htmx/recipe/thumb/%s?ts=%s" alt="Photo of %s"></a>
	<h3><a href="/recipe/%s">%s</a></h3>
	<p><small>%s</small></p>
	<p>%s</p>
	<footer>
		<button hx-post="/htmx/recipe/%s/move?dir=up" hx-target="#recipe-list" hx-swap="innerHTML"%s aria-label="Move up" title="Move up">&#9650;</button>
		<button hx-post="/htmx/recipe/%s/move?dir=down" hx-target="#recipe-list" hx-swap="innerHTML"%s aria-label="Move down" title="Move down">&#9660;</button>
		<button hx-delete="/htmx/recipe/%s" hx-target="#recipe-list" hx-swap="innerHTML" class="secondary">Delete</button>
	</footer>
</article></div>`, recipe.ID, recipe.ID, recipe.ID, ts, name, recipe.ID, name, category, description,
			recipe.ID, disableUp, recipe.ID, disableDown, recipe.ID))
	}
	b.WriteString(`</div>`)
	return b.String(), nil
}

func (service *FrontendService) toThumbnail(photo []byte) ([]byte, error) {
	width := service.coreService.ThumbnailWidth()
	command, err := media.NewScaleCommand(map[string]any{"width": width})
	if err != nil {
		return nil, fmt.Errorf("failed to create thumbnail command: %w", err)
	}
	thumbnail, err := command.Execute(photo)
	if err != nil {
		return nil, fmt.Errorf("failed to generate thumbnail: %w", err)
	}
	return thumbnail, nil
}

// placeholderPNG rasterizes the embedded placeholder SVG for recipes
// without a photo.
func (service *FrontendService) placeholderPNG() ([]byte, error) {
	data, err := assetsFS.ReadFile("views/placeholder.svg")
	if err != nil {
		return nil, fmt.Errorf("failed to read placeholder.svg: %w", err)
	}
	width := service.coreService.ThumbnailWidth()
	height := width * 3 / 4
	return media.RenderSVGToPNG(data, width, height)
}

func (service *FrontendService) setNoCache(ctx echo.Context) {
	ctx.Response().Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")
	ctx.Response().Header().Set("Pragma", "no-cache")
	ctx.Response().Header().Set("Expires", "0")
}

func (service *FrontendService) iconHandler(ctx echo.Context) error {
	data, err := assetsFS.ReadFile("views/icon.svg")
	if err != nil {
		slog.Error("iconHandler: failed to read icon.svg", "status", http.StatusInternalServerError, "error", err)
		return ctx.String(http.StatusInternalServerError, "Failed to load icon")
	}
	// Cache for 7 days
	ctx.Response().Header().Set("Cache-Control", "public, max-age=604800, immutable")
	return ctx.Blob(http.StatusOK, "image/svg+xml", data)
}
