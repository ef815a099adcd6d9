package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"kitchen-companion/internal/recipe"
	"kitchen-companion/internal/substitute"
)

// MockRecipe serves a catalog recipe built around the user's ingredients.
// It does not touch the quota.
func (a *App) MockRecipe(ctx context.Context, in RecipeInput) (RecipeResult, error) {
	if err := a.check(in, msgIngredientsRequired); err != nil {
		return RecipeResult{}, err
	}
	if err := a.simulateDelay(ctx); err != nil {
		return RecipeResult{}, err
	}

	req := in.Request()
	r := recipe.Customize(recipe.Pick(a.rng), req, "", a.now().UTC())
	a.logger.Debug("mock recipe served", zap.String("name", r.Name), zap.Strings("ingredients", req.Ingredients))
	return RecipeResult{
		Recipe:  r,
		Message: fmt.Sprintf("Recipe generated using %d of your ingredients!", len(req.Ingredients)),
	}, nil
}

// MockSubstitution is the plain-string answer of the table lookup.
type MockSubstitution struct {
	OriginalIngredient string    `json:"originalIngredient"`
	Substitutions      []string  `json:"substitutions"`
	Notes              string    `json:"notes"`
	GeneratedAt        time.Time `json:"generatedAt"`
}

// MockSubstitute looks an ingredient up in the substitution table.
func (a *App) MockSubstitute(ctx context.Context, in IngredientInput) (MockSubstitution, error) {
	if err := a.check(in, msgIngredientRequired); err != nil {
		return MockSubstitution{}, err
	}
	if err := a.simulateDelay(ctx); err != nil {
		return MockSubstitution{}, err
	}

	e := substitute.Find(in.Ingredient)
	return MockSubstitution{
		OriginalIngredient: in.Ingredient,
		Substitutions:      e.Substitutions,
		Notes:              e.Notes,
		GeneratedAt:        a.now().UTC(),
	}, nil
}

func (a *App) simulateDelay(ctx context.Context) error {
	if a.mockDelay <= 0 {
		return nil
	}
	t := time.NewTimer(a.mockDelay)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
