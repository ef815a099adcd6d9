// Package recipe holds the recipe model, the built-in recipe catalog and the
// conversion of model output into recipes.
package recipe

import (
	"strings"
	"time"
)

// Difficulty levels accepted in a recipe.
const (
	DifficultyEasy   = "Easy"
	DifficultyMedium = "Medium"
	DifficultyHard   = "Hard"
)

const (
	DefaultServings = 4
	DefaultMealType = "any"
)

// NutritionInfo is the per-serving nutrition summary of a recipe.
type NutritionInfo struct {
	Calories int    `json:"calories"`
	Protein  string `json:"protein"`
	Carbs    string `json:"carbs"`
	Fat      string `json:"fat"`
}

// Recipe is a complete recipe as returned to clients.
type Recipe struct {
	Name                string        `json:"name"`
	Description         string        `json:"description"`
	PrepTime            string        `json:"prepTime"`
	CookTime            string        `json:"cookTime"`
	Servings            int           `json:"servings"`
	Difficulty          string        `json:"difficulty"`
	Ingredients         []string      `json:"ingredients"`
	Instructions        []string      `json:"instructions"`
	NutritionInfo       NutritionInfo `json:"nutritionInfo"`
	GeneratedAt         time.Time     `json:"generatedAt"`
	UsedIngredients     []string      `json:"usedIngredients"`
	DietaryRestrictions []string      `json:"dietaryRestrictions"`
	MealType            string        `json:"mealType"`
}

// Request describes what the user asked for.
type Request struct {
	Ingredients         []string
	DietaryRestrictions []string
	MealType            string
	Servings            int
}

// WithDefaults fills the optional fields of the request.
func (r Request) WithDefaults() Request {
	if r.DietaryRestrictions == nil {
		r.DietaryRestrictions = []string{}
	}
	if strings.TrimSpace(r.MealType) == "" {
		r.MealType = DefaultMealType
	}
	if r.Servings <= 0 {
		r.Servings = DefaultServings
	}
	return r
}

// NormalizeDifficulty maps any casing of Easy/Medium/Hard to its canonical
// form. Anything else becomes Easy.
func NormalizeDifficulty(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "medium":
		return DifficultyMedium
	case "hard":
		return DifficultyHard
	default:
		return DifficultyEasy
	}
}

func (r Recipe) clone() Recipe {
	r.Ingredients = append([]string(nil), r.Ingredients...)
	r.Instructions = append([]string(nil), r.Instructions...)
	r.UsedIngredients = append([]string(nil), r.UsedIngredients...)
	r.DietaryRestrictions = append([]string(nil), r.DietaryRestrictions...)
	return r
}
