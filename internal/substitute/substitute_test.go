package substitute

import (
	"context"
	"errors"
	"testing"
	"time"

	"kitchen-companion/internal/llm"
	"kitchen-companion/internal/shared"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

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
	return llm.ContentResponse{Content: m.response, Usage: shared.TokenUsage{TotalTokens: 42, Model: "test-model"}}, nil
}

func TestLookup(t *testing.T) {
	e, ok := Lookup("eggs")
	require.True(t, ok)
	assert.Len(t, e.Substitutions, 5)
	assert.Equal(t, "1/4 cup applesauce per egg (for baking)", e.Substitutions[0])

	for _, name := range []string{"  EGGS ", "egg", "Large   Eggs"} {
		got, ok := Lookup(name)
		require.True(t, ok, name)
		assert.Equal(t, e, got, name)
	}

	_, ok = Lookup("All-Purpose Flour")
	assert.True(t, ok)

	// No substring matching.
	_, ok = Lookup("eggplant")
	assert.False(t, ok)
	_, ok = Lookup("buttermilk")
	assert.False(t, ok)
}

func TestLookupReturnsCopies(t *testing.T) {
	e, _ := Lookup("milk")
	e.Substitutions[0] = "changed"
	again, _ := Lookup("milk")
	assert.Equal(t, "Equal amount of almond milk", again.Substitutions[0])
}

func TestFind_GenericTips(t *testing.T) {
	e := Find("durian")
	require.Len(t, e.Substitutions, 4)
	assert.Equal(t, `Try searching online for "durian substitute"`, e.Substitutions[0])
	assert.Equal(t, `No specific substitutions available for "durian" in our database, but these general tips might help!`, e.Notes)

	// Random unknown produce always gets the generic answer naming it.
	for i := 0; i < 10; i++ {
		name := gofakeit.Fruit() + " " + gofakeit.Vegetable()
		tips := Find(name)
		assert.Contains(t, tips.Notes, name)
		assert.Len(t, tips.Substitutions, 4)
	}
}

func TestFallbacks(t *testing.T) {
	hit := Fallback("Butter", fixedNow)
	require.Len(t, hit.Substitutions, 5)
	assert.Equal(t, standardRatioNote, hit.Substitutions[0].Note)
	assert.Equal(t, "Butter", hit.OriginalIngredient)
	assert.NotEmpty(t, hit.Notes)

	miss := Fallback("saffron", fixedNow)
	require.Len(t, miss.Substitutions, 3)
	assert.Equal(t, `Search online for "saffron substitute"`, miss.Substitutions[0].Substitution)
	assert.Empty(t, miss.Notes)

	limited := RateLimitedFallback("saffron", fixedNow)
	require.Len(t, limited.Substitutions, 1)
	assert.Equal(t, "AI provider quota exceeded, using fallback suggestions", limited.Substitutions[0].Note)

	assert.Equal(t, hit, RateLimitedFallback("Butter", fixedNow))
}

func TestParseSubstitutions(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		subs, err := ParseSubstitutions("```json\n{\"substitutions\": [{\"substitution\": \"Honey\", \"note\": \"Use 3/4 cup\"}, {\"substitution\": \"Maple syrup\"}]}\n```")
		require.NoError(t, err)
		assert.Equal(t, []Substitution{
			{Substitution: "Honey", Note: "Use 3/4 cup"},
			{Substitution: "Maple syrup", Note: "No additional notes"},
		}, subs)
	})

	for name, content := range map[string]string{
		"NotJSON":  "try honey",
		"Missing":  `{"alternatives": []}`,
		"NotArray": `{"substitutions": "honey"}`,
		"Empty":    `{"substitutions": []}`,
		"BadItem":  `{"substitutions": [42]}`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ParseSubstitutions(content)
			var schemaErr *SchemaError
			assert.True(t, errors.As(err, &schemaErr))
		})
	}
}

func TestFinder_Find(t *testing.T) {
	ctx := context.Background()

	mock := &mockTextGenerator{response: `{"substitutions": [{"substitution": "Greek yogurt", "note": "1:1"}]}`}
	set, meta, err := NewFinder(mock).Find(ctx, "sour cream")
	require.NoError(t, err)
	assert.Equal(t, "sour cream", set.OriginalIngredient)
	assert.Equal(t, "Greek yogurt", set.Substitutions[0].Substitution)
	assert.Equal(t, 42, meta.Usage.TotalTokens)
	assert.Equal(t, 800, mock.got.MaxTokens)
	assert.Contains(t, mock.got.Prompt, `substitutes for "sour cream"`)

	_, meta, err = NewFinder(&mockTextGenerator{response: "{}"}).Find(ctx, "sour cream")
	var schemaErr *SchemaError
	assert.True(t, errors.As(err, &schemaErr))
	assert.Equal(t, "test-model", meta.Usage.Model)

	_, _, err = NewFinder(&mockTextGenerator{err: llm.ErrRateLimited}).Find(ctx, "sour cream")
	assert.True(t, llm.IsRateLimited(err))
}
