package planner

import "time"

// MealSummary is one meal slot of a fabricated plan.
type MealSummary struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	PrepTime    string `json:"prepTime"`
}

// DayMeals holds the three fixed slots of a day.
type DayMeals struct {
	Breakfast MealSummary `json:"breakfast"`
	Lunch     MealSummary `json:"lunch"`
	Dinner    MealSummary `json:"dinner"`
}

// DayPlan represents the plan for a single day.
type DayPlan struct {
	Day          string   `json:"day"`
	Date         string   `json:"date"`
	Meals        DayMeals `json:"meals"`
	ShoppingList []string `json:"shoppingList"`
}

// MealPlan represents a full fabricated meal plan. Dietary restrictions,
// preferences and budget are echoed back and do not shape the plan.
type MealPlan struct {
	Days                []DayPlan `json:"days"`
	TotalDays           int       `json:"totalDays"`
	DietaryRestrictions []string  `json:"dietaryRestrictions"`
	Preferences         any       `json:"preferences"`
	Budget              any       `json:"budget"`
	GeneratedAt         time.Time `json:"generatedAt"`
	WeeklyShoppingList  []string  `json:"weeklyShoppingList"`
}
