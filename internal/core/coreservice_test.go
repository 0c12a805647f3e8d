package core

import (
	"context"
	"testing"

	"github.com/jo-hoe/gorecipes/internal/backend/database"
)

func newTestCoreService(t *testing.T) *CoreService {
	t.Helper()
	cfg := &ServiceConfig{
		Port: 0,
		Database: Database{
			Type:             "sqlite",
			ConnectionString: ":memory:",
		},
		ThumbnailWidth: defaultThumbnailWidth,
	}
	svc := NewCoreService(cfg)
	t.Cleanup(func() { _ = svc.Close() })
	return svc
}

func mustAddRecipe(t *testing.T, svc *CoreService, name, category string) string {
	t.Helper()
	id, err := svc.AddRecipe(context.Background(), &database.Recipe{
		Name:        name,
		Category:    category,
		Description: "description of " + name,
	})
	if err != nil {
		t.Fatalf("AddRecipe(%s) error: %v", name, err)
	}
	return id
}

func TestAddRecipe_RequiresFields(t *testing.T) {
	svc := newTestCoreService(t)
	ctx := context.Background()

	cases := []database.Recipe{
		{Name: "", Category: "Main Course", Description: "d"},
		{Name: "Adobo", Category: " ", Description: "d"},
		{Name: "Adobo", Category: "Main Course", Description: ""},
	}
	for i, recipe := range cases {
		if _, err := svc.AddRecipe(ctx, &recipe); err == nil {
			t.Errorf("case %d: expected validation error, got nil", i)
		}
	}
}

func TestListRecipes_InsertionOrder(t *testing.T) {
	svc := newTestCoreService(t)

	id1 := mustAddRecipe(t, svc, "Adobo", "Main Course")
	id2 := mustAddRecipe(t, svc, "Kare-Kare", "Main Course")
	id3 := mustAddRecipe(t, svc, "Lumpia", "Main Course")

	recipes, err := svc.ListRecipes(context.Background())
	if err != nil {
		t.Fatalf("ListRecipes error: %v", err)
	}
	if len(recipes) != 3 {
		t.Fatalf("expected 3 recipes, got %d", len(recipes))
	}
	got := []string{recipes[0].ID, recipes[1].ID, recipes[2].ID}
	want := []string{id1, id2, id3}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("position %d: expected %s, got %s", i, want[i], got[i])
		}
	}
	// Photo blob must not be loaded for listings
	for i, recipe := range recipes {
		if recipe.Photo != nil {
			t.Errorf("recipe[%d].Photo loaded in listing; expected nil", i)
		}
	}
}

func TestListRecipesByCategory(t *testing.T) {
	svc := newTestCoreService(t)

	mustAddRecipe(t, svc, "Adobo", "Main Course")
	mustAddRecipe(t, svc, "Halo-Halo", "Dessert")

	desserts, err := svc.ListRecipesByCategory(context.Background(), "Dessert")
	if err != nil {
		t.Fatalf("ListRecipesByCategory error: %v", err)
	}
	if len(desserts) != 1 || desserts[0].Name != "Halo-Halo" {
		t.Fatalf("expected only Halo-Halo, got %+v", desserts)
	}

	categories, err := svc.Categories()
	if err != nil {
		t.Fatalf("Categories error: %v", err)
	}
	if len(categories) != 2 {
		t.Fatalf("expected 2 categories, got %v", categories)
	}
}

func TestGetRecipeByID_Missing(t *testing.T) {
	svc := newTestCoreService(t)

	recipe, err := svc.GetRecipeByID("does-not-exist")
	if err != nil {
		t.Fatalf("GetRecipeByID error: %v", err)
	}
	if recipe != nil {
		t.Fatalf("expected nil for missing recipe, got %+v", recipe)
	}
}

func TestDeleteRecipe(t *testing.T) {
	svc := newTestCoreService(t)
	ctx := context.Background()

	id1 := mustAddRecipe(t, svc, "Adobo", "Main Course")
	id2 := mustAddRecipe(t, svc, "Lumpia", "Main Course")

	if err := svc.DeleteRecipe(ctx, id1); err != nil {
		t.Fatalf("DeleteRecipe error: %v", err)
	}

	recipes, err := svc.ListRecipes(ctx)
	if err != nil {
		t.Fatalf("ListRecipes error: %v", err)
	}
	if len(recipes) != 1 || recipes[0].ID != id2 {
		t.Fatalf("expected only %s to remain, got %+v", id2, recipes)
	}
}

func TestMoveRecipe(t *testing.T) {
	svc := newTestCoreService(t)
	ctx := context.Background()

	id1 := mustAddRecipe(t, svc, "Adobo", "Main Course")
	id2 := mustAddRecipe(t, svc, "Kare-Kare", "Main Course")
	id3 := mustAddRecipe(t, svc, "Lumpia", "Main Course")

	if err := svc.MoveRecipe(ctx, id3, "up"); err != nil {
		t.Fatalf("MoveRecipe up error: %v", err)
	}
	order, err := svc.GetOrderedRecipeIDs()
	if err != nil {
		t.Fatalf("GetOrderedRecipeIDs error: %v", err)
	}
	want := []string{id1, id3, id2}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("after move up, position %d: expected %s, got %s (full order %v)", i, want[i], order[i], order)
		}
	}

	// Moving the first recipe up is a no-op
	if err := svc.MoveRecipe(ctx, id1, "up"); err != nil {
		t.Fatalf("MoveRecipe no-op error: %v", err)
	}
	order2, err := svc.GetOrderedRecipeIDs()
	if err != nil {
		t.Fatalf("GetOrderedRecipeIDs error: %v", err)
	}
	if order2[0] != id1 {
		t.Fatalf("no-op move changed order: %v", order2)
	}

	if err := svc.MoveRecipe(ctx, id1, "sideways"); err == nil {
		t.Fatal("expected error for invalid direction")
	}
	if err := svc.MoveRecipe(ctx, "unknown-id", "up"); err == nil {
		t.Fatal("expected error for unknown recipe")
	}
}

func TestUpdateRecipeOrder_RejectsBadInput(t *testing.T) {
	svc := newTestCoreService(t)
	ctx := context.Background()

	id1 := mustAddRecipe(t, svc, "Adobo", "Main Course")
	mustAddRecipe(t, svc, "Lumpia", "Main Course")

	if err := svc.UpdateRecipeOrder(ctx, []string{id1}); err == nil {
		t.Fatal("expected error for incomplete order")
	}
	if err := svc.UpdateRecipeOrder(ctx, []string{id1, "bogus"}); err == nil {
		t.Fatal("expected error for unknown recipe in order")
	}
}

func TestSeedSampleData_Idempotent(t *testing.T) {
	cfg := &ServiceConfig{
		Database: Database{
			Type:             "sqlite",
			ConnectionString: "file:seedtest?mode=memory&cache=shared",
		},
		SeedSampleData: true,
	}
	svc := NewCoreService(cfg)
	t.Cleanup(func() { _ = svc.Close() })

	recipes, err := svc.ListRecipes(context.Background())
	if err != nil {
		t.Fatalf("ListRecipes error: %v", err)
	}
	if len(recipes) != 3 {
		t.Fatalf("expected 3 seeded recipes, got %d", len(recipes))
	}
	if recipes[0].Name != "Adobo" || recipes[1].Name != "Kare-Kare" || recipes[2].Name != "Lumpia" {
		t.Fatalf("unexpected seed order: %s, %s, %s", recipes[0].Name, recipes[1].Name, recipes[2].Name)
	}

	// A second seed pass over the same database must not duplicate rows
	if err := svc.seedIfEmpty(); err != nil {
		t.Fatalf("second seedIfEmpty error: %v", err)
	}
	recipes2, err := svc.ListRecipes(context.Background())
	if err != nil {
		t.Fatalf("ListRecipes error: %v", err)
	}
	if len(recipes2) != 3 {
		t.Fatalf("expected seeding to stay at 3 recipes, got %d", len(recipes2))
	}
}

func TestAttachPhoto_RequiresData(t *testing.T) {
	svc := newTestCoreService(t)
	id := mustAddRecipe(t, svc, "Adobo", "Main Course")

	if err := svc.AttachPhoto(context.Background(), id, nil); err == nil {
		t.Fatal("expected error for empty photo data")
	}
}

func TestSubmitContactMessage(t *testing.T) {
	svc := newTestCoreService(t)

	id, err := svc.SubmitContactMessage("Maria", "maria@example.com", "Love the site!")
	if err != nil {
		t.Fatalf("SubmitContactMessage error: %v", err)
	}
	if id == "" {
		t.Fatal("expected non-empty message ID")
	}

	if _, err := svc.SubmitContactMessage("", "a@b.c", "hi"); err == nil {
		t.Fatal("expected error for empty name")
	}
	if _, err := svc.SubmitContactMessage("Maria", "a@b.c", ""); err == nil {
		t.Fatal("expected error for empty message")
	}
}
