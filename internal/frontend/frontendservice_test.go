package frontend

import (
	"bytes"
	"context"
	"image/png"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/jo-hoe/gorecipes/internal/backend/database"
	"github.com/jo-hoe/gorecipes/internal/core"
	"github.com/labstack/echo/v4"
)

func newTestFrontend(t *testing.T) (*echo.Echo, *core.CoreService) {
	t.Helper()
	cfg := &core.ServiceConfig{
		Database: core.Database{
			Type:             "sqlite",
			ConnectionString: ":memory:",
		},
		ThumbnailWidth: 80,
	}
	coreService := core.NewCoreService(cfg)
	t.Cleanup(func() { _ = coreService.Close() })

	e := echo.New()
	NewFrontendService(cfg, coreService).SetRoutes(e)
	return e, coreService
}

func mustAddRecipe(t *testing.T, coreService *core.CoreService, name string) string {
	t.Helper()
	id, err := coreService.AddRecipe(context.Background(), &database.Recipe{
		Name:        name,
		Category:    "Main Course",
		Description: "test dish",
		Ingredients: "- 1 kg pork\n- 1 cup vinegar",
		Directions:  "1. Brown the pork.\n2. Simmer.",
	})
	if err != nil {
		t.Fatalf("failed to add recipe %s: %v", name, err)
	}
	return id
}

func doRequest(e *echo.Echo, method, target string, form url.Values) *httptest.ResponseRecorder {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestIndexPage(t *testing.T) {
	e, coreService := newTestFrontend(t)
	mustAddRecipe(t, coreService, "Adobo")
	mustAddRecipe(t, coreService, "Lumpia")

	rec := doRequest(e, http.MethodGet, "/", nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Adobo") || !strings.Contains(body, "Lumpia") {
		t.Errorf("expected both recipes on index page")
	}
	if !strings.Contains(body, `hx-get="/htmx/recipes"`) {
		t.Errorf("expected htmx listing trigger on index page")
	}
}

func TestIndexPage_Empty(t *testing.T) {
	e, _ := newTestFrontend(t)

	rec := doRequest(e, http.MethodGet, "/", nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "No recipes yet") {
		t.Errorf("expected empty state message")
	}
}

func TestRecipeDetailPage(t *testing.T) {
	e, coreService := newTestFrontend(t)
	id := mustAddRecipe(t, coreService, "Kare-Kare")

	rec := doRequest(e, http.MethodGet, "/recipe/"+id, nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Kare-Kare") {
		t.Errorf("expected recipe name on detail page")
	}
	if !strings.Contains(body, "<li>1 kg pork</li>") {
		t.Errorf("expected rendered markdown ingredients, got %s", body)
	}
}

func TestRecipeDetailPage_NotFound(t *testing.T) {
	e, _ := newTestFrontend(t)

	rec := doRequest(e, http.MethodGet, "/recipe/does-not-exist", nil)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Recipe not found") {
		t.Errorf("expected not-found page body")
	}
}

func TestAddRecipeForm(t *testing.T) {
	e, coreService := newTestFrontend(t)
	mustAddRecipe(t, coreService, "Adobo")

	rec := doRequest(e, http.MethodGet, "/add-recipe", nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `action="/add-recipe"`) {
		t.Errorf("expected recipe form")
	}
	if !strings.Contains(body, `<option value="Main Course">`) {
		t.Errorf("expected existing category in datalist")
	}
}

func TestAddRecipeSubmit(t *testing.T) {
	e, coreService := newTestFrontend(t)

	form := url.Values{}
	form.Set("name", "Sinigang")
	form.Set("category", "Soup")
	form.Set("description", "Sour tamarind soup")
	form.Set("ingredients", "- pork\n- tamarind")
	rec := doRequest(e, http.MethodPost, "/add-recipe", form)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d: %s", rec.Code, rec.Body.String())
	}
	location := rec.Header().Get("Location")
	if !strings.HasPrefix(location, "/recipe/") {
		t.Fatalf("expected redirect to recipe page, got %q", location)
	}

	id := strings.TrimPrefix(location, "/recipe/")
	recipe, err := coreService.GetRecipeByID(id)
	if err != nil || recipe == nil {
		t.Fatalf("expected recipe to be persisted, got %v, %v", recipe, err)
	}
	if recipe.Name != "Sinigang" {
		t.Errorf("expected Sinigang, got %q", recipe.Name)
	}
}

func TestAddRecipeSubmit_MissingFields(t *testing.T) {
	e, _ := newTestFrontend(t)

	form := url.Values{}
	form.Set("name", "")
	form.Set("category", "Soup")
	form.Set("description", "missing name")
	rec := doRequest(e, http.MethodPost, "/add-recipe", form)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "form-error") {
		t.Errorf("expected form error message in re-rendered form")
	}
}

func TestAboutPage(t *testing.T) {
	e, _ := newTestFrontend(t)

	rec := doRequest(e, http.MethodGet, "/about", nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestContactSubmit(t *testing.T) {
	e, _ := newTestFrontend(t)

	form := url.Values{}
	form.Set("name", "Maria")
	form.Set("email", "maria@example.com")
	form.Set("message", "Love the adobo recipe!")
	rec := doRequest(e, http.MethodPost, "/contact", form)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Thanks for your message") {
		t.Errorf("expected confirmation message")
	}
}

func TestContactSubmit_MissingMessage(t *testing.T) {
	e, _ := newTestFrontend(t)

	form := url.Values{}
	form.Set("name", "Maria")
	rec := doRequest(e, http.MethodPost, "/contact", form)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "form-error") {
		t.Errorf("expected form error message")
	}
}

func TestHtmxRecipeList(t *testing.T) {
	e, coreService := newTestFrontend(t)
	mustAddRecipe(t, coreService, "Adobo")
	mustAddRecipe(t, coreService, "Lumpia")

	rec := doRequest(e, http.MethodGet, "/htmx/recipes", nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if strings.Index(body, "Adobo") > strings.Index(body, "Lumpia") {
		t.Errorf("expected Adobo before Lumpia in listing")
	}
	// First item cannot move up, last cannot move down
	if !strings.Contains(body, `dir=up" hx-target="#recipe-list" hx-swap="innerHTML" disabled`) {
		t.Errorf("expected disabled up button on first item")
	}
	if rec.Header().Get("Cache-Control") == "" {
		t.Errorf("expected no-cache headers on fragment response")
	}
}

func TestHtmxMoveRecipe(t *testing.T) {
	e, coreService := newTestFrontend(t)
	first := mustAddRecipe(t, coreService, "Adobo")
	mustAddRecipe(t, coreService, "Lumpia")

	rec := doRequest(e, http.MethodPost, "/htmx/recipe/"+first+"/move?dir=down", nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	body := rec.Body.String()
	if strings.Index(body, "Lumpia") > strings.Index(body, "Adobo") {
		t.Errorf("expected Lumpia before Adobo after move")
	}

	order, err := coreService.GetOrderedRecipeIDs()
	if err != nil {
		t.Fatalf("failed to fetch order: %v", err)
	}
	if order[len(order)-1] != first {
		t.Errorf("expected moved recipe to be last in persisted order")
	}
}

func TestHtmxMoveRecipe_InvalidDirection(t *testing.T) {
	e, coreService := newTestFrontend(t)
	id := mustAddRecipe(t, coreService, "Adobo")

	rec := doRequest(e, http.MethodPost, "/htmx/recipe/"+id+"/move?dir=sideways", nil)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestHtmxDeleteRecipe(t *testing.T) {
	e, coreService := newTestFrontend(t)
	id := mustAddRecipe(t, coreService, "Adobo")
	mustAddRecipe(t, coreService, "Lumpia")

	rec := doRequest(e, http.MethodDelete, "/htmx/recipe/"+id, nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "Adobo") {
		t.Errorf("expected deleted recipe to be absent from listing")
	}
}

func TestThumbnail_PlaceholderForMissingPhoto(t *testing.T) {
	e, coreService := newTestFrontend(t)
	id := mustAddRecipe(t, coreService, "Adobo")

	rec := doRequest(e, http.MethodGet, "/htmx/recipe/thumb/"+id, nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if contentType := rec.Header().Get(echo.HeaderContentType); contentType != mimePNG {
		t.Fatalf("expected %s, got %s", mimePNG, contentType)
	}
	img, err := png.Decode(bytes.NewReader(rec.Body.Bytes()))
	if err != nil {
		t.Fatalf("expected valid PNG placeholder: %v", err)
	}
	if img.Bounds().Dx() != 80 {
		t.Errorf("expected thumbnail width 80, got %d", img.Bounds().Dx())
	}
}

func TestThumbnail_UnknownRecipe(t *testing.T) {
	e, _ := newTestFrontend(t)

	rec := doRequest(e, http.MethodGet, "/htmx/recipe/thumb/does-not-exist", nil)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestIconRoute(t *testing.T) {
	e, _ := newTestFrontend(t)

	rec := doRequest(e, http.MethodGet, "/icon.svg", nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Header().Get(echo.HeaderContentType), "image/svg+xml") {
		t.Errorf("expected SVG content type, got %s", rec.Header().Get(echo.HeaderContentType))
	}
	if rec.Header().Get("Cache-Control") == "" {
		t.Errorf("expected long-lived cache header on icon")
	}
}

func TestStaticAssets(t *testing.T) {
	e, _ := newTestFrontend(t)

	for _, path := range []string{"/static/style.css", "/static/nav.js"} {
		rec := doRequest(e, http.MethodGet, path, nil)
		if rec.Code != http.StatusOK {
			t.Errorf("expected 200 for %s, got %d", path, rec.Code)
		}
	}
}
