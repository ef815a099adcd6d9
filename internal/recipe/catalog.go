package recipe

import (
	"math/rand/v2"
	"time"

	"kitchen-companion/internal/shared"
)

var catalog = []Recipe{
	{
		Name:        "Mediterranean Herb Bowl",
		Description: "A fresh and flavorful bowl combining your ingredients with Mediterranean flair",
		PrepTime:    "25 minutes",
		CookTime:    "10 minutes",
		Servings:    4,
		Difficulty:  DifficultyEasy,
		Ingredients: []string{"olive oil", "lemon juice", "garlic", "salt", "black pepper", "fresh herbs"},
		Instructions: []string{
			"Prepare all ingredients by washing and chopping as needed",
			"Heat olive oil in a large pan over medium heat",
			"Add garlic and sauté for 1 minute until fragrant",
			"Add your main ingredients and cook for 5-7 minutes",
			"Season with salt, pepper, and lemon juice",
			"Garnish with fresh herbs and serve warm",
		},
		NutritionInfo: NutritionInfo{Calories: 320, Protein: "12g", Carbs: "45g", Fat: "14g"},
	},
	{
		Name:        "Quick Stir-Fry Delight",
		Description: "A quick and nutritious stir-fry using your available ingredients",
		PrepTime:    "15 minutes",
		CookTime:    "8 minutes",
		Servings:    3,
		Difficulty:  DifficultyEasy,
		Ingredients: []string{"soy sauce", "garlic", "ginger", "sesame oil", "green onions"},
		Instructions: []string{
			"Heat a wok or large skillet over high heat",
			"Add oil and let it get hot",
			"Add ginger and garlic, stir-fry for 30 seconds",
			"Add your main ingredients in order of cooking time needed",
			"Stir-fry for 3-5 minutes until tender-crisp",
			"Add soy sauce and seasonings, toss to combine",
			"Garnish with green onions and serve immediately",
		},
		NutritionInfo: NutritionInfo{Calories: 285, Protein: "18g", Carbs: "32g", Fat: "11g"},
	},
	{
		Name:        "Rustic Garden Pasta",
		Description: "A hearty pasta dish that makes the most of fresh, seasonal ingredients",
		PrepTime:    "20 minutes",
		CookTime:    "15 minutes",
		Servings:    6,
		Difficulty:  DifficultyMedium,
		Ingredients: []string{"pasta", "olive oil", "garlic", "cherry tomatoes", "basil", "parmesan"},
		Instructions: []string{
			"Bring a large pot of salted water to boil and cook pasta according to package directions",
			"Heat olive oil in a large pan over medium heat",
			"Add garlic and cook until fragrant, about 1 minute",
			"Add cherry tomatoes and cook until they start to burst",
			"Drain pasta, reserving 1/2 cup pasta water",
			"Toss pasta with the tomato mixture, adding pasta water as needed",
			"Finish with fresh basil and grated parmesan",
		},
		NutritionInfo: NutritionInfo{Calories: 420, Protein: "15g", Carbs: "68g", Fat: "12g"},
	},
}

// Catalog returns copies of the built-in recipes.
func Catalog() []Recipe {
	out := make([]Recipe, len(catalog))
	for i, r := range catalog {
		out[i] = r.clone()
	}
	return out
}

// Pick returns a random catalog recipe.
func Pick(rng *rand.Rand) Recipe {
	return catalog[rng.IntN(len(catalog))].clone()
}

// Shuffled returns the catalog in random order.
func Shuffled(rng *rand.Rand) []Recipe {
	out := Catalog()
	rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

// Fallback labels for catalog recipes served in place of a generated one.
const (
	LabelEnhanced = "Enhanced"
	LabelMock     = "Mock"
)

// Customize adapts a catalog recipe to a request: the user's ingredients come
// first, followed by the recipe's own. A non-empty label is appended to the name.
func Customize(base Recipe, req Request, label string, now time.Time) Recipe {
	req = req.WithDefaults()
	out := base.clone()
	if label != "" {
		out.Name = base.Name + " (" + label + ")"
	}
	out.Ingredients = shared.Union(req.Ingredients, base.Ingredients)
	out.Servings = req.Servings
	out.GeneratedAt = now
	out.UsedIngredients = append([]string{}, req.Ingredients...)
	out.DietaryRestrictions = append([]string{}, req.DietaryRestrictions...)
	out.MealType = req.MealType
	return out
}
