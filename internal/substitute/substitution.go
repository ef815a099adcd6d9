package substitute

import (
	"fmt"
	"time"
)

const standardRatioNote = "Standard substitution ratio"

// Substitution is one suggested replacement with a usage note.
type Substitution struct {
	Substitution string `json:"substitution"`
	Note         string `json:"note"`
}

// Set is the answer to a substitution request.
type Set struct {
	OriginalIngredient string         `json:"originalIngredient"`
	Substitutions      []Substitution `json:"substitutions"`
	Notes              string         `json:"notes,omitempty"`
	GeneratedAt        time.Time      `json:"generatedAt"`
}

// FromEntry pairs each table substitution with the standard ratio note.
func FromEntry(e Entry) []Substitution {
	out := make([]Substitution, 0, len(e.Substitutions))
	for _, s := range e.Substitutions {
		out = append(out, Substitution{Substitution: s, Note: standardRatioNote})
	}
	return out
}

// Fallback builds the answer served when the model output was unusable.
func Fallback(ingredient string, now time.Time) Set {
	if e, ok := Lookup(ingredient); ok {
		return Set{OriginalIngredient: ingredient, Substitutions: FromEntry(e), Notes: e.Notes, GeneratedAt: now}
	}
	return Set{
		OriginalIngredient: ingredient,
		Substitutions: []Substitution{
			{Substitution: searchOnline(ingredient), Note: "Check cooking websites for specific ratios"},
			{Substitution: "Look for similar ingredients in the same food category", Note: "Consider texture and flavor profile"},
			{Substitution: "Ask at your local grocery store", Note: "Staff may have helpful recommendations"},
		},
		GeneratedAt: now,
	}
}

// RateLimitedFallback builds the answer served when the provider refused the call.
func RateLimitedFallback(ingredient string, now time.Time) Set {
	if e, ok := Lookup(ingredient); ok {
		return Set{OriginalIngredient: ingredient, Substitutions: FromEntry(e), Notes: e.Notes, GeneratedAt: now}
	}
	return Set{
		OriginalIngredient: ingredient,
		Substitutions: []Substitution{
			{Substitution: searchOnline(ingredient), Note: "AI provider quota exceeded, using fallback suggestions"},
		},
		GeneratedAt: now,
	}
}

func searchOnline(ingredient string) string {
	return fmt.Sprintf(`Search online for "%s substitute"`, ingredient)
}
