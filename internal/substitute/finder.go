package substitute

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"text/template"
	"time"

	"kitchen-companion/internal/llm"
	"kitchen-companion/internal/shared"
)

//go:embed finder_prompt.md
var finderPrompt string

var finderTmpl = template.Must(template.New("finder").Parse(finderPrompt))

const finderSystem = "You are an ingredient substitute generator that responds only with valid JSON. Never include explanations or extra text."

// Finder asks a language model for substitutes.
type Finder struct {
	textGen llm.TextGenerator
	now     func() time.Time
}

// NewFinder creates a Finder.
func NewFinder(textGen llm.TextGenerator) *Finder {
	return &Finder{textGen: textGen, now: time.Now}
}

// Find calls the model for ingredient. Unusable output is returned as a
// *SchemaError together with the call meta.
func (f *Finder) Find(ctx context.Context, ingredient string) (Set, shared.CallMeta, error) {
	start := time.Now()

	var buf bytes.Buffer
	if err := finderTmpl.Execute(&buf, struct{ Ingredient string }{ingredient}); err != nil {
		return Set{}, shared.CallMeta{}, fmt.Errorf("failed to render substitution prompt: %w", err)
	}

	resp, err := f.textGen.GenerateContent(ctx, llm.Request{
		System:      finderSystem,
		Prompt:      buf.String(),
		MaxTokens:   800,
		Temperature: 0.3,
	})
	if err != nil {
		return Set{}, shared.CallMeta{}, fmt.Errorf("failed to get LLM response: %w", err)
	}

	meta := shared.CallMeta{Action: "substitution", Usage: resp.Usage, Latency: time.Since(start)}
	subs, err := ParseSubstitutions(resp.Content)
	if err != nil {
		return Set{}, meta, err
	}
	return Set{
		OriginalIngredient: ingredient,
		Substitutions:      subs,
		GeneratedAt:        f.now().UTC(),
	}, meta, nil
}
