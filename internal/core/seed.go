package core

import (
	"log/slog"

	"github.com/jo-hoe/gorecipes/internal/backend/database"
)

// sampleRecipes are inserted on first start when seeding is enabled, so a
// fresh install has something to browse.
var sampleRecipes = []database.Recipe{
	{
		Name:        "Adobo",
		Category:    "Main Course",
		Description: "A savoury dish of marinated pork or chicken simmered in soy sauce, vinegar, and garlic.",
		Ingredients: "- 1 kg pork belly or chicken thighs\n" +
			"- 1/2 cup soy sauce\n" +
			"- 1/2 cup cane vinegar\n" +
			"- 1 head garlic, crushed\n" +
			"- 3 bay leaves\n" +
			"- 1 tsp whole black peppercorns",
		Directions: "1. Marinate the meat in soy sauce and garlic for at least 30 minutes.\n" +
			"2. Brown the meat in a hot pan, then pour in the marinade and vinegar.\n" +
			"3. Add bay leaves and peppercorns. Simmer uncovered until the sauce reduces, about 40 minutes.\n" +
			"4. Serve over steamed rice.",
	},
	{
		Name:        "Kare-Kare",
		Category:    "Main Course",
		Description: "A rich peanut-based stew with oxtail, beef, or pork, served with a side of shrimp paste (bagoong).",
		Ingredients: "- 1 kg oxtail, cut into sections\n" +
			"- 1 cup peanut butter\n" +
			"- 1 banana heart, sliced\n" +
			"- 1 bundle string beans\n" +
			"- 2 eggplants, sliced\n" +
			"- 1/4 cup toasted ground rice\n" +
			"- bagoong (shrimp paste), to serve",
		Directions: "1. Simmer the oxtail until tender, about 2 to 3 hours, reserving the broth.\n" +
			"2. Stir peanut butter and toasted ground rice into the broth until thick.\n" +
			"3. Add the vegetables and cook until just tender.\n" +
			"4. Serve hot with bagoong on the side.",
	},
	{
		Name:        "Lumpia",
		Category:    "Main Course",
		Description: "A crispy, golden fried spring roll filled with seasoned ground pork and vegetables, often served with sweet and sour dipping sauce.",
		Ingredients: "- 500 g ground pork\n" +
			"- 1 carrot, finely diced\n" +
			"- 1 onion, minced\n" +
			"- 2 cloves garlic, minced\n" +
			"- 30 lumpia wrappers\n" +
			"- oil for deep frying",
		Directions: "1. Mix pork, carrot, onion, and garlic; season with salt and pepper.\n" +
			"2. Spoon the filling onto each wrapper and roll tightly, sealing the edge with water.\n" +
			"3. Deep fry in batches until golden and crisp, about 4 minutes.\n" +
			"4. Serve with sweet and sour dipping sauce.",
	},
}

// seedIfEmpty inserts the sample recipes when the recipes table has no rows.
// Seeding is idempotent across restarts.
func (service *CoreService) seedIfEmpty() error {
	count, err := service.databaseService.CountRecipes()
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	for i := range sampleRecipes {
		recipe := sampleRecipes[i]
		if _, err := service.databaseService.CreateRecipe(&recipe); err != nil {
			return err
		}
	}
	slog.Info("seeded sample recipes", "count", len(sampleRecipes))
	return nil
}
