package planner

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"kitchen-companion/internal/recipe"
	"kitchen-companion/internal/shared"
)

const (
	DefaultDays = 7
	MaxDays     = 7
)

// ErrInvalidDays is returned for a requested day count below one.
var ErrInvalidDays = errors.New("days must be a positive number")

// Weekdays in plan order.
var Weekdays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// Request is a meal plan request. A nil Days means the default.
type Request struct {
	Days                *int
	DietaryRestrictions []string
	Preferences         any
	Budget              any
}

// Planner fabricates meal plans from the recipe catalog.
type Planner struct {
	rng *rand.Rand
	now func() time.Time
}

// NewPlanner creates a new Planner instance. rng must be safe for concurrent use.
func NewPlanner(rng *rand.Rand) *Planner {
	return &Planner{rng: rng, now: time.Now}
}

// GeneratePlan builds one day per requested day, at most MaxDays.
func (p *Planner) GeneratePlan(req Request) (MealPlan, error) {
	days := DefaultDays
	if req.Days != nil {
		if *req.Days < 1 {
			return MealPlan{}, ErrInvalidDays
		}
		days = min(*req.Days, MaxDays)
	}

	start := p.now().UTC()
	plan := MealPlan{
		Days:                make([]DayPlan, 0, days),
		TotalDays:           days,
		DietaryRestrictions: req.DietaryRestrictions,
		Preferences:         echo(req.Preferences),
		Budget:              echo(req.Budget),
		GeneratedAt:         start,
	}
	if plan.DietaryRestrictions == nil {
		plan.DietaryRestrictions = []string{}
	}

	lists := make([][]string, 0, days)
	for i := 0; i < days; i++ {
		recipes := recipe.Shuffled(p.rng)
		lunch, dinner := recipes[0], recipes[1]

		shopping := append(firstN(lunch.Ingredients, 3), firstN(dinner.Ingredients, 3)...)
		lists = append(lists, shopping)

		plan.Days = append(plan.Days, DayPlan{
			Day:  Weekdays[i],
			Date: start.AddDate(0, 0, i).Format(time.DateOnly),
			Meals: DayMeals{
				Breakfast: MealSummary{
					Name:        fmt.Sprintf("Day %d Breakfast Bowl", i+1),
					Description: "A nutritious start to your day",
					PrepTime:    "10 minutes",
				},
				Lunch:  summary(lunch),
				Dinner: summary(dinner),
			},
			ShoppingList: shopping,
		})
	}
	plan.WeeklyShoppingList = shared.Union(lists...)

	return plan, nil
}

func summary(r recipe.Recipe) MealSummary {
	return MealSummary{Name: r.Name, Description: r.Description, PrepTime: r.PrepTime}
}

func firstN(items []string, n int) []string {
	if len(items) < n {
		n = len(items)
	}
	return append([]string(nil), items[:n]...)
}

// echo turns empty values into null.
func echo(v any) any {
	switch t := v.(type) {
	case nil:
		return nil
	case string:
		if t == "" {
			return nil
		}
	case bool:
		if !t {
			return nil
		}
	case float64:
		if t == 0 {
			return nil
		}
	}
	return v
}
