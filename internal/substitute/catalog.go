// Package substitute finds replacements for cooking ingredients, from a
// language model or from the built-in substitution table.
package substitute

import (
	"fmt"
	"strings"
)

// Entry is one row of the substitution table.
type Entry struct {
	Substitutions []string
	Notes         string
}

var table = map[string]Entry{
	"eggs": {
		Substitutions: []string{
			"1/4 cup applesauce per egg (for baking)",
			"1 tablespoon ground flaxseed + 3 tablespoons water per egg",
			"1/4 cup mashed banana per egg (adds sweetness)",
			"Commercial egg replacer (follow package instructions)",
			"1/4 cup silken tofu per egg (for baking)",
		},
		Notes: "For binding: flaxseed works best. For moisture: applesauce or banana. For leavening: commercial replacers.",
	},
	"butter": {
		Substitutions: []string{
			"Equal amount of coconut oil (solid state)",
			"3/4 the amount of olive oil",
			"Equal amount of vegan butter",
			"1/2 the amount of applesauce (for baking)",
			"Equal amount of avocado (for spreading)",
		},
		Notes: "For baking: coconut oil works best. For cooking: olive oil. For spreading: vegan butter or avocado.",
	},
	"milk": {
		Substitutions: []string{
			"Equal amount of almond milk",
			"Equal amount of oat milk",
			"Equal amount of soy milk",
			"Equal amount of coconut milk (canned for richness)",
			"Equal amount of rice milk",
		},
		Notes: "Oat milk froths well for coffee. Coconut milk adds richness to curries. Soy milk has most protein.",
	},
	"flour": {
		Substitutions: []string{
			"1:1 ratio of almond flour (reduce liquid slightly)",
			"3/4 cup rice flour per 1 cup wheat flour",
			"1:1 ratio of gluten-free flour blend",
			"3/4 cup coconut flour + extra liquid",
			"1:1 ratio of oat flour",
		},
		Notes: "Coconut flour absorbs more liquid. Almond flour adds richness. Rice flour is neutral-tasting.",
	},
}

// aliases map common spellings onto table keys.
var aliases = map[string]string{
	"egg":               "eggs",
	"large eggs":        "eggs",
	"whole eggs":        "eggs",
	"unsalted butter":   "butter",
	"salted butter":     "butter",
	"whole milk":        "milk",
	"skim milk":         "milk",
	"cow's milk":        "milk",
	"all-purpose flour": "flour",
	"all purpose flour": "flour",
	"plain flour":       "flour",
	"wheat flour":       "flour",
}

// Normalize lower-cases name and collapses its whitespace.
func Normalize(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}

// Lookup finds an ingredient by exact name, then by alias.
func Lookup(ingredient string) (Entry, bool) {
	key := Normalize(ingredient)
	if e, ok := table[key]; ok {
		return e.clone(), true
	}
	if canonical, ok := aliases[key]; ok {
		return table[canonical].clone(), true
	}
	return Entry{}, false
}

// GenericTips is the answer for ingredients the table does not know.
func GenericTips(ingredient string) Entry {
	return Entry{
		Substitutions: []string{
			fmt.Sprintf(`Try searching online for "%s substitute"`, ingredient),
			"Check if you have similar ingredients in the same food category",
			"Consider the ingredient's role (binding, flavoring, texture) and find alternatives",
			"Ask at your local grocery store for recommendations",
		},
		Notes: fmt.Sprintf(`No specific substitutions available for "%s" in our database, but these general tips might help!`, ingredient),
	}
}

// Find returns the table entry for ingredient or the generic tips.
func Find(ingredient string) Entry {
	if e, ok := Lookup(ingredient); ok {
		return e
	}
	return GenericTips(ingredient)
}

func (e Entry) clone() Entry {
	e.Substitutions = append([]string(nil), e.Substitutions...)
	return e
}
