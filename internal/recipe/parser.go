package recipe

import (
	"fmt"
	"strings"
	"time"

	"kitchen-companion/internal/shared"
)

// requiredFields must all be present in model output for it to be accepted.
var requiredFields = []string{
	"name", "description", "prepTime", "cookTime", "servings",
	"difficulty", "ingredients", "instructions", "nutritionInfo",
}

// SchemaError reports model output that could not be turned into a recipe.
type SchemaError struct {
	Reason string
}

func (e *SchemaError) Error() string {
	return "recipe schema error: " + e.Reason
}

// ParseRecipe converts raw model output into a Recipe. Output that is not a
// JSON object or lacks a required field yields a *SchemaError; a partially
// valid object is never accepted.
func ParseRecipe(content string, req Request, now time.Time) (Recipe, error) {
	req = req.WithDefaults()

	obj, err := shared.DecodeObject(shared.StripFences(content))
	if err != nil {
		return Recipe{}, &SchemaError{Reason: err.Error()}
	}
	if missing := shared.MissingKeys(obj, requiredFields...); len(missing) > 0 {
		return Recipe{}, &SchemaError{Reason: fmt.Sprintf("missing fields: %s", strings.Join(missing, ", "))}
	}

	nutrition, _ := obj["nutritionInfo"].(map[string]any)

	return Recipe{
		Name:         shared.CoerceString(obj["name"], "Generated Recipe"),
		Description:  shared.CoerceString(obj["description"], "A delicious recipe"),
		PrepTime:     shared.CoerceString(obj["prepTime"], "15 minutes"),
		CookTime:     shared.CoerceString(obj["cookTime"], "20 minutes"),
		Servings:     shared.CoerceInt(obj["servings"], req.Servings),
		Difficulty:   NormalizeDifficulty(shared.CoerceString(obj["difficulty"], DifficultyEasy)),
		Ingredients:  shared.CoerceStrings(obj["ingredients"]),
		Instructions: shared.CoerceStrings(obj["instructions"]),
		NutritionInfo: NutritionInfo{
			Calories: shared.CoerceInt(nutrition["calories"], 300),
			Protein:  shared.CoerceString(nutrition["protein"], "15g"),
			Carbs:    shared.CoerceString(nutrition["carbs"], "25g"),
			Fat:      shared.CoerceString(nutrition["fat"], "10g"),
		},
		GeneratedAt:         now,
		UsedIngredients:     append([]string{}, req.Ingredients...),
		DietaryRestrictions: append([]string{}, req.DietaryRestrictions...),
		MealType:            req.MealType,
	}, nil
}
