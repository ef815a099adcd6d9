package recipe

import (
	"context"
	"errors"
	"math/rand/v2"
	"strings"
	"testing"
	"time"

	"kitchen-companion/internal/llm"
	"kitchen-companion/internal/shared"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

const validRecipeJSON = `{
	"name": "Tomato Soup",
	"description": "Warm and simple",
	"prepTime": "10 minutes",
	"cookTime": "25 minutes",
	"servings": 2,
	"difficulty": "medium",
	"ingredients": ["4 tomatoes", "1 onion"],
	"instructions": ["Chop", "Simmer", "Blend"],
	"nutritionInfo": {"calories": 180, "protein": "4g", "carbs": "20g", "fat": "6g"}
}`

// mockTextGenerator returns a canned response or error.
type mockTextGenerator struct {
	response string
	err      error
	got      llm.Request
}

func (m *mockTextGenerator) GenerateContent(ctx context.Context, r llm.Request) (llm.ContentResponse, error) {
	m.got = r
	if m.err != nil {
		return llm.ContentResponse{}, m.err
	}
	return llm.ContentResponse{
		Content: m.response,
		Usage:   shared.TokenUsage{PromptTokens: 100, CompletionTokens: 50, TotalTokens: 150, Model: "test-model"},
	}, nil
}

func TestParseRecipe(t *testing.T) {
	req := Request{Ingredients: []string{"tomato", "onion"}, Servings: 2}

	t.Run("Valid", func(t *testing.T) {
		r, err := ParseRecipe(validRecipeJSON, req, fixedNow)
		require.NoError(t, err)
		assert.Equal(t, "Tomato Soup", r.Name)
		assert.Equal(t, DifficultyMedium, r.Difficulty)
		assert.Equal(t, 2, r.Servings)
		assert.Equal(t, []string{"Chop", "Simmer", "Blend"}, r.Instructions)
		assert.Equal(t, 180, r.NutritionInfo.Calories)
		assert.Equal(t, []string{"tomato", "onion"}, r.UsedIngredients)
		assert.Equal(t, DefaultMealType, r.MealType)
		assert.Equal(t, []string{}, r.DietaryRestrictions)
		assert.Equal(t, fixedNow, r.GeneratedAt)
	})

	t.Run("Fenced", func(t *testing.T) {
		fenced, err := ParseRecipe("```json\n"+validRecipeJSON+"\n```", req, fixedNow)
		require.NoError(t, err)
		plain, err := ParseRecipe(validRecipeJSON, req, fixedNow)
		require.NoError(t, err)
		assert.Equal(t, plain, fenced)
	})

	t.Run("MissingFieldIsSchemaError", func(t *testing.T) {
		for _, field := range requiredFields {
			content := strings.Replace(validRecipeJSON, `"`+field+`"`, `"x_`+field+`"`, 1)
			_, err := ParseRecipe(content, req, fixedNow)
			var schemaErr *SchemaError
			require.True(t, errors.As(err, &schemaErr), "field %s", field)
			assert.Contains(t, schemaErr.Reason, field)
		}
	})

	t.Run("NotJSON", func(t *testing.T) {
		_, err := ParseRecipe("I could not think of a recipe", req, fixedNow)
		var schemaErr *SchemaError
		assert.True(t, errors.As(err, &schemaErr))
	})

	t.Run("Coercion", func(t *testing.T) {
		content := `{
			"name": "", "description": "<p>Rich &amp; creamy</p>", "prepTime": 0, "cookTime": "30 minutes",
			"servings": "lots", "difficulty": "impossible",
			"ingredients": "rice", "instructions": ["Boil", 2, {"step": 3}],
			"nutritionInfo": {"calories": "n/a"}
		}`
		r, err := ParseRecipe(content, Request{Ingredients: []string{"rice"}, Servings: 3}, fixedNow)
		require.NoError(t, err)
		assert.Equal(t, "Generated Recipe", r.Name)
		assert.Equal(t, "Rich & creamy", r.Description)
		assert.Equal(t, "15 minutes", r.PrepTime)
		assert.Equal(t, 3, r.Servings)
		assert.Equal(t, DifficultyEasy, r.Difficulty)
		assert.Equal(t, []string{}, r.Ingredients)
		assert.Equal(t, []string{"Boil", "2"}, r.Instructions)
		assert.Equal(t, NutritionInfo{Calories: 300, Protein: "15g", Carbs: "25g", Fat: "10g"}, r.NutritionInfo)
	})

	t.Run("OutOfRangeCountsTakeDefaults", func(t *testing.T) {
		content := strings.Replace(validRecipeJSON, `"servings": 2`, `"servings": 1e30`, 1)
		content = strings.Replace(content, `"calories": 180`, `"calories": -5e25`, 1)
		r, err := ParseRecipe(content, Request{Ingredients: []string{"tomato"}, Servings: 3}, fixedNow)
		require.NoError(t, err)
		assert.Equal(t, 3, r.Servings)
		assert.Equal(t, 300, r.NutritionInfo.Calories)

		content = strings.Replace(validRecipeJSON, `"servings": 2`, `"servings": -4`, 1)
		r, err = ParseRecipe(content, Request{Ingredients: []string{"tomato"}}, fixedNow)
		require.NoError(t, err)
		assert.Equal(t, DefaultServings, r.Servings)
	})

	t.Run("NullFieldsTakeDefaults", func(t *testing.T) {
		content := `{"name": null, "description": null, "prepTime": null, "cookTime": null, "servings": null,
			"difficulty": null, "ingredients": null, "instructions": null, "nutritionInfo": null}`
		r, err := ParseRecipe(content, Request{Ingredients: []string{"rice"}}, fixedNow)
		require.NoError(t, err)
		assert.Equal(t, "Generated Recipe", r.Name)
		assert.Equal(t, "20 minutes", r.CookTime)
		assert.Equal(t, DefaultServings, r.Servings)
		assert.Equal(t, []string{}, r.Instructions)
		assert.Equal(t, NutritionInfo{Calories: 300, Protein: "15g", Carbs: "25g", Fat: "10g"}, r.NutritionInfo)
	})

	t.Run("BackticksInsideValues", func(t *testing.T) {
		content := strings.Replace(validRecipeJSON, `"Simmer`, "\"Simmer, then serve with ``` garnish", 1)
		r, err := ParseRecipe("```json\n"+content+"\n```", req, fixedNow)
		require.NoError(t, err)
		assert.Contains(t, r.Instructions[1], "```")
	})
}

func TestGenerator_Generate(t *testing.T) {
	ctx := context.Background()
	req := Request{Ingredients: []string{"tomato", "onion"}, DietaryRestrictions: []string{"vegan"}, Servings: 2}

	t.Run("Success", func(t *testing.T) {
		mock := &mockTextGenerator{response: validRecipeJSON}
		g := NewGenerator(mock)

		r, meta, err := g.Generate(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, "Tomato Soup", r.Name)
		assert.Equal(t, 150, meta.Usage.TotalTokens)
		assert.Equal(t, "recipe", meta.Action)

		assert.Equal(t, generatorSystem, mock.got.System)
		assert.Equal(t, 1500, mock.got.MaxTokens)
		assert.Contains(t, mock.got.Prompt, "tomato, onion")
		assert.Contains(t, mock.got.Prompt, "vegan")
		assert.Contains(t, mock.got.Prompt, `"servings": 2,`)
	})

	t.Run("SchemaErrorKeepsMeta", func(t *testing.T) {
		g := NewGenerator(&mockTextGenerator{response: `{"name": "Half a recipe"}`})
		_, meta, err := g.Generate(ctx, req)
		var schemaErr *SchemaError
		require.True(t, errors.As(err, &schemaErr))
		assert.Equal(t, "test-model", meta.Usage.Model)
	})

	t.Run("ProviderErrorIsWrapped", func(t *testing.T) {
		g := NewGenerator(&mockTextGenerator{err: &llm.APIError{StatusCode: 429}})
		_, _, err := g.Generate(ctx, req)
		require.Error(t, err)
		assert.True(t, llm.IsRateLimited(err))
		var schemaErr *SchemaError
		assert.False(t, errors.As(err, &schemaErr))
	})
}

func TestBuildPrompt_MealType(t *testing.T) {
	prompt, err := BuildPrompt(Request{Ingredients: []string{"eggs"}, MealType: "breakfast"})
	require.NoError(t, err)
	assert.Contains(t, prompt, "meant for breakfast")
	assert.Contains(t, prompt, `"servings": 4,`)

	prompt, err = BuildPrompt(Request{Ingredients: []string{"eggs"}})
	require.NoError(t, err)
	assert.NotContains(t, prompt, "meant for")
}

func TestCustomize(t *testing.T) {
	base := Catalog()[2]
	req := Request{Ingredients: []string{"zucchini", "garlic"}, Servings: 5}

	r := Customize(base, req, LabelEnhanced, fixedNow)
	assert.Equal(t, "Rustic Garden Pasta (Enhanced)", r.Name)
	assert.Equal(t, []string{"zucchini", "garlic", "pasta", "olive oil", "cherry tomatoes", "basil", "parmesan"}, r.Ingredients)
	assert.Equal(t, 5, r.Servings)
	assert.Equal(t, []string{"zucchini", "garlic"}, r.UsedIngredients)
	assert.Equal(t, "any", r.MealType)

	// The catalog itself is untouched.
	assert.Equal(t, "Rustic Garden Pasta", Catalog()[2].Name)
	assert.Len(t, Catalog()[2].Ingredients, 6)

	assert.Equal(t, base.Name, Customize(base, req, "", fixedNow).Name)
}

func TestPickAndShuffle(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	names := map[string]bool{}
	for _, r := range Catalog() {
		names[r.Name] = true
	}
	for i := 0; i < 20; i++ {
		assert.True(t, names[Pick(rng).Name])
	}

	shuffled := Shuffled(rng)
	require.Len(t, shuffled, 3)
	seen := map[string]bool{}
	for _, r := range shuffled {
		seen[r.Name] = true
	}
	assert.Len(t, seen, 3)
}

func TestNormalizeDifficulty(t *testing.T) {
	assert.Equal(t, DifficultyHard, NormalizeDifficulty(" HARD "))
	assert.Equal(t, DifficultyMedium, NormalizeDifficulty("Medium"))
	assert.Equal(t, DifficultyEasy, NormalizeDifficulty("trivial"))
}
