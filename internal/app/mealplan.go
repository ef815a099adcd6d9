package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"kitchen-companion/internal/planner"
)

// MealPlanResult is a fabricated plan and its message.
type MealPlanResult struct {
	Plan    planner.MealPlan
	Message string
}

// MealPlan fabricates a plan from the recipe catalog.
func (a *App) MealPlan(ctx context.Context, in MealPlanInput) (MealPlanResult, error) {
	if err := a.check(in, planner.ErrInvalidDays.Error()); err != nil {
		return MealPlanResult{}, err
	}
	if err := a.simulateDelay(ctx); err != nil {
		return MealPlanResult{}, err
	}

	plan, err := a.mealPlanner.GeneratePlan(planner.Request{
		Days:                in.Days,
		DietaryRestrictions: in.DietaryRestrictions,
		Preferences:         in.Preferences,
		Budget:              in.Budget,
	})
	if err != nil {
		return MealPlanResult{}, &InputError{Message: err.Error()}
	}

	a.logger.Info("meal plan generated",
		zap.Int("days", plan.TotalDays),
		zap.Strings("dietaryRestrictions", plan.DietaryRestrictions),
		zap.Int("shoppingItems", len(plan.WeeklyShoppingList)),
	)
	return MealPlanResult{
		Plan:    plan,
		Message: fmt.Sprintf("Generated a %d-day meal plan tailored to your preferences!", plan.TotalDays),
	}, nil
}
