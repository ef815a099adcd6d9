package planner

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"
)

// MealType is the slot a meal occupies in a day.
type MealType string

const (
	Breakfast MealType = "breakfast"
	Lunch     MealType = "lunch"
	Dinner    MealType = "dinner"
	Snack     MealType = "snack"
)

// Valid reports whether t is one of the four meal types.
func (t MealType) Valid() bool {
	switch t {
	case Breakfast, Lunch, Dinner, Snack:
		return true
	}
	return false
}

var (
	ErrEmptyName       = errors.New("meal name is required")
	ErrInvalidMealType = errors.New("meal type must be breakfast, lunch, dinner or snack")
	ErrInvalidServings = errors.New("servings must be at least 1")
	ErrUnknownDay      = errors.New("unknown day")
	ErrNoSelection     = errors.New("at least one day and one meal type are required")
)

// Meal is a meal a user placed on a day.
type Meal struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Type        MealType `json:"type"`
	Ingredients []string `json:"ingredients"`
	Servings    int      `json:"servings"`
	OriginalID  string   `json:"originalId,omitempty"`
}

// MealInput is what a user enters for a meal. Ingredients are comma separated.
type MealInput struct {
	Name        string
	Type        MealType
	Ingredients string
	Servings    int
}

// WeekPlan is a user-composed week of meals keyed by weekday.
type WeekPlan struct {
	days  map[string][]Meal
	newID func() string
}

// NewWeekPlan returns an empty week.
func NewWeekPlan() *WeekPlan {
	days := make(map[string][]Meal, len(Weekdays))
	for _, d := range Weekdays {
		days[d] = []Meal{}
	}
	return &WeekPlan{days: days, newID: uuid.NewString}
}

// ParseIngredients splits a comma separated list, trimming and dropping blanks.
func ParseIngredients(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (in MealInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return ErrEmptyName
	}
	if in.Servings < 1 {
		return ErrInvalidServings
	}
	return nil
}

// AddMeal appends a meal to day.
func (w *WeekPlan) AddMeal(day string, in MealInput) (Meal, error) {
	if _, ok := w.days[day]; !ok {
		return Meal{}, fmt.Errorf("%w: %q", ErrUnknownDay, day)
	}
	if err := in.validate(); err != nil {
		return Meal{}, err
	}
	if !in.Type.Valid() {
		return Meal{}, ErrInvalidMealType
	}

	meal := Meal{
		ID:          w.newID(),
		Name:        in.Name,
		Type:        in.Type,
		Ingredients: ParseIngredients(in.Ingredients),
		Servings:    in.Servings,
	}
	w.days[day] = append(w.days[day], meal)
	return meal, nil
}

// AddBatchMeal places the same meal on every selected day and meal type. All
// copies share OriginalID; each copy's ID is "<base>-<day>-<type>". The
// input's Type is ignored.
func (w *WeekPlan) AddBatchMeal(days []string, types []MealType, in MealInput) ([]Meal, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	if len(days) == 0 || len(types) == 0 {
		return nil, ErrNoSelection
	}
	for _, d := range days {
		if _, ok := w.days[d]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownDay, d)
		}
	}
	for _, t := range types {
		if !t.Valid() {
			return nil, ErrInvalidMealType
		}
	}

	baseID := w.newID()
	ingredients := ParseIngredients(in.Ingredients)
	added := make([]Meal, 0, len(days)*len(types))
	for _, d := range days {
		for _, t := range types {
			meal := Meal{
				ID:          fmt.Sprintf("%s-%s-%s", baseID, d, t),
				Name:        in.Name,
				Type:        t,
				Ingredients: slices.Clone(ingredients),
				Servings:    in.Servings,
				OriginalID:  baseID,
			}
			w.days[d] = append(w.days[d], meal)
			added = append(added, meal)
		}
	}
	return added, nil
}

// RemoveMeal deletes the meal with id from day and reports whether it existed.
func (w *WeekPlan) RemoveMeal(day, id string) bool {
	meals, ok := w.days[day]
	if !ok {
		return false
	}
	i := slices.IndexFunc(meals, func(m Meal) bool { return m.ID == id })
	if i < 0 {
		return false
	}
	w.days[day] = slices.Delete(meals, i, i+1)
	return true
}

// Meals returns a copy of the meals of day.
func (w *WeekPlan) Meals(day string) []Meal {
	return slices.Clone(w.days[day])
}

// GroceryList is the sorted, deduplicated union of every meal's ingredients.
func (w *WeekPlan) GroceryList() []string {
	seen := map[string]struct{}{}
	out := []string{}
	for _, d := range Weekdays {
		for _, m := range w.days[d] {
			for _, ing := range m.Ingredients {
				if _, ok := seen[ing]; ok {
					continue
				}
				seen[ing] = struct{}{}
				out = append(out, ing)
			}
		}
	}
	slices.Sort(out)
	return out
}
