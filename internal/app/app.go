package app

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"kitchen-companion/internal/config"
	"kitchen-companion/internal/llm"
	"kitchen-companion/internal/metrics"
	"kitchen-companion/internal/planner"
	"kitchen-companion/internal/quota"
	"kitchen-companion/internal/recipe"
	"kitchen-companion/internal/shared"
	"kitchen-companion/internal/substitute"
)

// CallRecorder persists one row per provider call.
type CallRecorder interface {
	RecordCall(ctx context.Context, meta shared.CallMeta, outcome string) error
}

// App holds the application's dependencies.
type App struct {
	textGen      llm.TextGenerator
	gate         *quota.Gate
	recipes      *recipe.Generator
	finder       *substitute.Finder
	mealPlanner  *planner.Planner
	metricsStore CallRecorder
	prom         *metrics.Prom
	validate     *validator.Validate
	logger       *zap.Logger

	rng        *rand.Rand
	now        func() time.Time
	llmTimeout time.Duration
	mockDelay  time.Duration
	model      string
}

// NewApp creates and initializes a new App instance. metricsStore may be nil.
func NewApp(
	cfg *config.Config,
	textGen llm.TextGenerator,
	gate *quota.Gate,
	metricsStore CallRecorder,
	prom *metrics.Prom,
	logger *zap.Logger,
) *App {
	rng := shared.NewTimeSeededRand()
	return &App{
		textGen:      textGen,
		gate:         gate,
		recipes:      recipe.NewGenerator(textGen),
		finder:       substitute.NewFinder(textGen),
		mealPlanner:  planner.NewPlanner(rng),
		metricsStore: metricsStore,
		prom:         prom,
		validate:     newValidator(),
		logger:       logger.Named("app"),
		rng:          rng,
		now:          time.Now,
		llmTimeout:   cfg.LLMTimeout,
		mockDelay:    cfg.MockDelay,
		model:        cfg.ProviderModel(),
	}
}

// RecipeResult is a recipe with the message and usage shown to the user.
type RecipeResult struct {
	Recipe  recipe.Recipe
	Message string
	Usage   quota.Usage
}

// GenerateRecipe runs the AI recipe pipeline: reserve a quota slot, validate,
// call the provider, then either commit the slot and return the parsed recipe
// or release it and serve a catalog recipe.
func (a *App) GenerateRecipe(ctx context.Context, in RecipeInput) (RecipeResult, error) {
	const action = quota.ActionRecipe

	res, usage, err := a.gate.Reserve(ctx, action)
	if err != nil {
		return RecipeResult{}, fmt.Errorf("failed to check daily usage: %w", err)
	}
	if res == nil {
		a.observe(action, metrics.OutcomeBlocked)
		a.logger.Info("daily recipe limit reached", zap.Int("current", usage.Current), zap.Int("max", usage.Max))
		return RecipeResult{}, newLimitError(action, usage)
	}

	if err := a.check(in, msgIngredientsRequired); err != nil {
		a.release(ctx, res)
		a.observe(action, metrics.OutcomeInvalid)
		return RecipeResult{}, err
	}
	req := in.Request()

	callCtx, cancel := context.WithTimeout(ctx, a.llmTimeout)
	defer cancel()
	r, meta, err := a.recipes.Generate(callCtx, req)

	var schemaErr *recipe.SchemaError
	switch {
	case err == nil:
		usage = a.commit(ctx, res, action)
		a.record(ctx, action, meta, metrics.OutcomeSuccess)
		a.logger.Info("recipe generated", zap.String("name", r.Name), zap.Int("used", usage.Current), zap.Int("max", usage.Max))
		return RecipeResult{
			Recipe:  r,
			Message: fmt.Sprintf("AI-generated recipe created using %d of your ingredients!", len(req.Ingredients)),
			Usage:   usage,
		}, nil

	case errors.As(err, &schemaErr):
		a.release(ctx, res)
		a.record(ctx, action, meta, metrics.OutcomeFallbackParse)
		a.logger.Warn("unusable recipe from provider, serving catalog recipe", zap.String("reason", schemaErr.Reason))
		return RecipeResult{
			Recipe: recipe.Customize(recipe.Pick(a.rng), req, recipe.LabelEnhanced, a.now().UTC()),
			Message: fmt.Sprintf("Recipe generated using %d of your ingredients! (Note: AI response parsing failed, using enhanced mock data with your ingredients)",
				len(req.Ingredients)),
			Usage: a.usage(ctx, action),
		}, nil

	case llm.IsRateLimited(err):
		a.release(ctx, res)
		a.record(ctx, action, shared.CallMeta{}, metrics.OutcomeFallbackRateLimit)
		a.logger.Warn("provider rate limited, serving mock recipe", zap.Error(err))
		return RecipeResult{
			Recipe: recipe.Customize(recipe.Pick(a.rng), req, recipe.LabelMock, a.now().UTC()),
			Message: fmt.Sprintf("Recipe generated using %d of your ingredients! (Note: AI provider quota exceeded, using mock data with your ingredients)",
				len(req.Ingredients)),
			Usage: a.usage(ctx, action),
		}, nil

	default:
		a.release(ctx, res)
		a.record(ctx, action, shared.CallMeta{}, metrics.OutcomeProviderError)
		a.logger.Error("recipe generation failed", zap.Error(err))
		return RecipeResult{}, &ProviderError{Summary: "Failed to generate AI recipe", Err: err}
	}
}

// SubstitutionResult is a substitution set with the message and usage shown to the user.
type SubstitutionResult struct {
	Set     substitute.Set
	Message string
	Usage   quota.Usage
}

// FindSubstitutes runs the AI substitution pipeline. Its quota is separate
// from the recipe quota.
func (a *App) FindSubstitutes(ctx context.Context, in IngredientInput) (SubstitutionResult, error) {
	const action = quota.ActionSubstitution

	res, usage, err := a.gate.Reserve(ctx, action)
	if err != nil {
		return SubstitutionResult{}, fmt.Errorf("failed to check daily usage: %w", err)
	}
	if res == nil {
		a.observe(action, metrics.OutcomeBlocked)
		a.logger.Info("daily substitution limit reached", zap.Int("current", usage.Current), zap.Int("max", usage.Max))
		return SubstitutionResult{}, newLimitError(action, usage)
	}

	if err := a.check(in, msgSubstitutionRequired); err != nil {
		a.release(ctx, res)
		a.observe(action, metrics.OutcomeInvalid)
		return SubstitutionResult{}, err
	}

	callCtx, cancel := context.WithTimeout(ctx, a.llmTimeout)
	defer cancel()
	set, meta, err := a.finder.Find(callCtx, in.Ingredient)

	var schemaErr *substitute.SchemaError
	switch {
	case err == nil:
		usage = a.commit(ctx, res, action)
		a.record(ctx, action, meta, metrics.OutcomeSuccess)
		a.logger.Info("substitutions generated", zap.String("ingredient", in.Ingredient), zap.Int("count", len(set.Substitutions)))
		return SubstitutionResult{Set: set, Usage: usage}, nil

	case errors.As(err, &schemaErr):
		a.release(ctx, res)
		a.record(ctx, action, meta, metrics.OutcomeFallbackParse)
		a.logger.Warn("unusable substitutions from provider, serving fallback", zap.String("reason", schemaErr.Reason))
		return SubstitutionResult{
			Set:     substitute.Fallback(in.Ingredient, a.now().UTC()),
			Message: "AI response parsing failed, using fallback substitutions",
			Usage:   a.usage(ctx, action),
		}, nil

	case llm.IsRateLimited(err):
		a.release(ctx, res)
		a.record(ctx, action, shared.CallMeta{}, metrics.OutcomeFallbackRateLimit)
		a.logger.Warn("provider rate limited, serving fallback substitutions", zap.Error(err))
		return SubstitutionResult{
			Set:     substitute.RateLimitedFallback(in.Ingredient, a.now().UTC()),
			Message: "AI provider quota exceeded, using fallback suggestions",
			Usage:   a.usage(ctx, action),
		}, nil

	default:
		a.release(ctx, res)
		a.record(ctx, action, shared.CallMeta{}, metrics.OutcomeProviderError)
		a.logger.Error("substitution generation failed", zap.Error(err))
		return SubstitutionResult{}, &ProviderError{Summary: "Failed to generate AI substitutions", Err: err}
	}
}

// commit counts a reservation. A failed commit is logged and the current
// usage is returned; the user already has their answer.
func (a *App) commit(ctx context.Context, res *quota.Reservation, action quota.Action) quota.Usage {
	usage, err := res.Commit(context.WithoutCancel(ctx))
	if err != nil {
		a.logger.Error("failed to commit quota reservation", zap.String("action", string(action)), zap.Error(err))
		return a.usage(ctx, action)
	}
	return usage
}

func (a *App) release(ctx context.Context, res *quota.Reservation) {
	if err := res.Release(context.WithoutCancel(ctx)); err != nil {
		a.logger.Error("failed to release quota reservation", zap.Error(err))
	}
}

func (a *App) usage(ctx context.Context, action quota.Action) quota.Usage {
	u, err := a.gate.Check(context.WithoutCancel(ctx), action)
	if err != nil {
		a.logger.Error("failed to read daily usage", zap.String("action", string(action)), zap.Error(err))
	}
	return u
}

func (a *App) observe(action quota.Action, outcome string) {
	if a.prom != nil {
		a.prom.ObserveRequest(string(action), outcome)
	}
}

// record counts the outcome and stores the provider call.
func (a *App) record(ctx context.Context, action quota.Action, meta shared.CallMeta, outcome string) {
	a.observe(action, outcome)

	meta.Action = string(action)
	if meta.Usage.Model == "" {
		meta.Usage.Model = a.model
	}
	if a.prom != nil && meta.Latency > 0 {
		a.prom.ObserveProvider(meta.Action, meta.Latency, meta.Usage.PromptTokens, meta.Usage.CompletionTokens)
	}
	if a.metricsStore == nil {
		return
	}
	if err := a.metricsStore.RecordCall(context.WithoutCancel(ctx), meta, outcome); err != nil {
		a.logger.Warn("failed to record execution metric", zap.String("action", meta.Action), zap.Error(err))
	}
}
