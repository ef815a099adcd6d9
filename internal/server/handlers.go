package server

import (
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"kitchen-companion/internal/app"
	"kitchen-companion/internal/metrics"
	"kitchen-companion/internal/planner"
	"kitchen-companion/internal/quota"
	"kitchen-companion/internal/recipe"
	"kitchen-companion/internal/shared"
	"kitchen-companion/internal/substitute"
)

const (
	defaultReportDays = 7
	maxReportDays     = 90
)

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "OK",
		"timestamp": time.Now().UTC(),
		"message":   "Kitchen Companion Server is running!",
	})
}

type providerCheckResponse struct {
	Success   bool              `json:"success"`
	Message   string            `json:"message"`
	Response  string            `json:"response"`
	Model     string            `json:"model"`
	Usage     shared.TokenUsage `json:"usage"`
	Timestamp time.Time         `json:"timestamp"`
}

func (s *Server) handleTestProvider(w http.ResponseWriter, r *http.Request) {
	check, err := s.app.TestProvider(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, providerCheckResponse{
		Success:   true,
		Message:   "AI provider API key is working correctly!",
		Response:  check.Response,
		Model:     check.Model,
		Usage:     check.Usage,
		Timestamp: check.Timestamp,
	})
}

type recipeResponse struct {
	Success bool          `json:"success"`
	Recipe  recipe.Recipe `json:"recipe"`
	Message string        `json:"message"`
	Usage   *limitUsage   `json:"usage,omitempty"`
}

func (s *Server) handleMockRecipe(w http.ResponseWriter, r *http.Request) {
	var in app.RecipeInput
	if err := decodeJSON(w, r, &in, "Ingredients array is required and must not be empty"); err != nil {
		s.writeError(w, err)
		return
	}
	res, err := s.app.MockRecipe(r.Context(), in)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, recipeResponse{Success: true, Recipe: res.Recipe, Message: res.Message})
}

type mockSubstitutionResponse struct {
	Success bool `json:"success"`
	app.MockSubstitution
}

func (s *Server) handleMockSubstitute(w http.ResponseWriter, r *http.Request) {
	var in app.IngredientInput
	if err := decodeJSON(w, r, &in, "Ingredient name is required and must be a string"); err != nil {
		s.writeError(w, err)
		return
	}
	res, err := s.app.MockSubstitute(r.Context(), in)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mockSubstitutionResponse{Success: true, MockSubstitution: res})
}

type mealPlanResponse struct {
	Success  bool             `json:"success"`
	MealPlan planner.MealPlan `json:"mealPlan"`
	Message  string           `json:"message"`
}

func (s *Server) handleMealPlan(w http.ResponseWriter, r *http.Request) {
	var in app.MealPlanInput
	if err := decodeJSON(w, r, &in, planner.ErrInvalidDays.Error()); err != nil {
		s.writeError(w, err)
		return
	}
	res, err := s.app.MealPlan(r.Context(), in)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mealPlanResponse{Success: true, MealPlan: res.Plan, Message: res.Message})
}

type usageResponse struct {
	Success bool        `json:"success"`
	Usage   quota.Usage `json:"usage"`
	Message string      `json:"message"`
}

func (s *Server) handleRecipeUsage(w http.ResponseWriter, r *http.Request) {
	s.writeUsage(w, r, quota.ActionRecipe)
}

func (s *Server) handleSubstitutionUsage(w http.ResponseWriter, r *http.Request) {
	s.writeUsage(w, r, quota.ActionSubstitution)
}

func (s *Server) writeUsage(w http.ResponseWriter, r *http.Request, action quota.Action) {
	status, err := s.app.Usage(r.Context(), action)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, usageResponse{Success: true, Usage: status.Usage, Message: status.Message})
}

func (s *Server) handleAIRecipe(w http.ResponseWriter, r *http.Request) {
	var in app.RecipeInput
	if err := decodeJSON(w, r, &in, "Ingredients array is required and must not be empty"); err != nil {
		// An undecodable body validates as empty, after the quota gate.
		s.logger.Debug("recipe body did not decode", zap.Error(err))
		in = app.RecipeInput{}
	}
	res, err := s.app.GenerateRecipe(r.Context(), in)
	if err != nil {
		s.writeError(w, err)
		return
	}
	usage := usageOf(res.Usage)
	writeJSON(w, http.StatusOK, recipeResponse{Success: true, Recipe: res.Recipe, Message: res.Message, Usage: &usage})
}

type substitutionResponse struct {
	Success bool `json:"success"`
	substitute.Set
	Message string     `json:"message,omitempty"`
	Usage   limitUsage `json:"usage"`
}

func (s *Server) handleAISubstitute(w http.ResponseWriter, r *http.Request) {
	var in app.IngredientInput
	if err := decodeJSON(w, r, &in, "Substitution ingredient is required and must be a non-empty string"); err != nil {
		s.logger.Debug("substitution body did not decode", zap.Error(err))
		in = app.IngredientInput{}
	}
	res, err := s.app.FindSubstitutes(r.Context(), in)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, substitutionResponse{Success: true, Set: res.Set, Message: res.Message, Usage: usageOf(res.Usage)})
}

type usageReport struct {
	Success bool                 `json:"success"`
	Days    int                  `json:"days"`
	Usage   []metrics.DailyUsage `json:"usage"`
	System  metrics.SysHealth    `json:"system"`
}

func (s *Server) handleUsageReport(w http.ResponseWriter, r *http.Request) {
	days := defaultReportDays
	if v := r.URL.Query().Get("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > maxReportDays {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "days must be between 1 and 90"})
			return
		}
		days = n
	}

	report := usageReport{Success: true, Days: days, Usage: []metrics.DailyUsage{}}
	if s.usage != nil {
		rows, err := s.usage.GetDailyUsage(r.Context(), days)
		if err != nil {
			s.logger.Error("failed to read usage report", zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Failed to read usage report", Message: err.Error()})
			return
		}
		if rows != nil {
			report.Usage = rows
		}
	}
	report.System = metrics.GetSysHealth(s.dataDir())
	writeJSON(w, http.StatusOK, report)
}
