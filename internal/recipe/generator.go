package recipe

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"strings"
	"text/template"
	"time"

	"kitchen-companion/internal/llm"
	"kitchen-companion/internal/shared"
)

//go:embed generator_prompt.md
var generatorPrompt string

var generatorTmpl = template.Must(template.New("generator").
	Funcs(template.FuncMap{"join": strings.Join}).
	Parse(generatorPrompt))

const generatorSystem = "You are a recipe generator that responds only with valid JSON. Never include explanations or extra text."

// Generator asks a language model for a recipe.
type Generator struct {
	textGen llm.TextGenerator
	now     func() time.Time
}

// NewGenerator creates a Generator.
func NewGenerator(textGen llm.TextGenerator) *Generator {
	return &Generator{textGen: textGen, now: time.Now}
}

// Generate calls the model and parses its answer. Provider failures are
// returned wrapped; unusable output is returned as a *SchemaError. The meta
// is filled whenever the provider answered.
func (g *Generator) Generate(ctx context.Context, req Request) (Recipe, shared.CallMeta, error) {
	req = req.WithDefaults()
	start := time.Now()

	prompt, err := BuildPrompt(req)
	if err != nil {
		return Recipe{}, shared.CallMeta{}, err
	}

	resp, err := g.textGen.GenerateContent(ctx, llm.Request{
		System:      generatorSystem,
		Prompt:      prompt,
		MaxTokens:   1500,
		Temperature: 0.3,
	})
	if err != nil {
		return Recipe{}, shared.CallMeta{}, fmt.Errorf("failed to get LLM response: %w", err)
	}

	meta := shared.CallMeta{Action: "recipe", Usage: resp.Usage, Latency: time.Since(start)}
	r, err := ParseRecipe(resp.Content, req, g.now().UTC())
	return r, meta, err
}

// BuildPrompt renders the recipe prompt for req.
func BuildPrompt(req Request) (string, error) {
	var buf bytes.Buffer
	if err := generatorTmpl.Execute(&buf, req.WithDefaults()); err != nil {
		return "", fmt.Errorf("failed to render recipe prompt: %w", err)
	}
	return buf.String(), nil
}
