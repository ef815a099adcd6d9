package app

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	"kitchen-companion/internal/recipe"
)

const (
	msgIngredientsRequired  = "Ingredients array is required and must not be empty"
	msgSubstitutionRequired = "Substitution ingredient is required and must be a non-empty string"
	msgIngredientRequired   = "Ingredient name is required and must be a string"
)

// RecipeInput is the body of the recipe endpoints.
type RecipeInput struct {
	Ingredients         []string `json:"ingredients" validate:"required,min=1,dive,notblank"`
	DietaryRestrictions []string `json:"dietaryRestrictions"`
	MealType            string   `json:"mealType"`
	Servings            int      `json:"servings"`
}

// Request converts the input into a recipe request with defaults applied.
func (in RecipeInput) Request() recipe.Request {
	return recipe.Request{
		Ingredients:         in.Ingredients,
		DietaryRestrictions: in.DietaryRestrictions,
		MealType:            in.MealType,
		Servings:            in.Servings,
	}.WithDefaults()
}

// IngredientInput is the body of the substitution endpoints.
type IngredientInput struct {
	Ingredient string `json:"ingredient" validate:"notblank"`
}

// MealPlanInput is the body of the meal plan endpoint.
type MealPlanInput struct {
	Days                *int     `json:"days" validate:"omitempty,gte=1"`
	DietaryRestrictions []string `json:"dietaryRestrictions"`
	Preferences         any      `json:"preferences"`
	Budget              any      `json:"budget"`
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Registration only fails for empty tags or nil funcs.
	_ = v.RegisterValidation("notblank", validators.NotBlank)
	return v
}

// check validates in and maps any failure to an InputError with msg.
func (a *App) check(in any, msg string) error {
	if err := a.validate.Struct(in); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return &InputError{Message: msg}
		}
		return err
	}
	return nil
}
