package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"kitchen-companion/internal/app"
	"kitchen-companion/internal/quota"
)

const maxBodyBytes = 1 << 20

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

type limitResponse struct {
	Success      bool       `json:"success"`
	Error        string     `json:"error"`
	Message      string     `json:"message"`
	Usage        limitUsage `json:"usage"`
	Explanation  string     `json:"explanation"`
	Alternatives []string   `json:"alternatives"`
}

type limitUsage struct {
	Current   int `json:"current"`
	Max       int `json:"max"`
	Remaining int `json:"remaining"`
}

type providerCheckFailure struct {
	Success   bool      `json:"success"`
	Error     string    `json:"error"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// decodeJSON reads a JSON body into dst. Any failure is reported as an
// input error carrying msg.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any, msg string) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return &app.InputError{Message: msg}
	}
	return nil
}

// writeError maps application errors to status codes and bodies.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	var (
		limitErr *app.LimitError
		inputErr *app.InputError
		provErr  *app.ProviderError
		checkErr *app.ProviderCheckError
	)
	switch {
	case errors.As(err, &limitErr):
		writeJSON(w, http.StatusTooManyRequests, limitResponse{
			Error:        limitErr.Code,
			Message:      limitErr.Message,
			Usage:        usageOf(limitErr.Usage),
			Explanation:  limitErr.Explanation,
			Alternatives: limitErr.Alternatives,
		})
	case errors.As(err, &inputErr):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: inputErr.Message})
	case errors.As(err, &provErr):
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: provErr.Summary, Message: provErr.Err.Error()})
	case errors.As(err, &checkErr):
		writeJSON(w, http.StatusInternalServerError, providerCheckFailure{
			Error:     checkErr.Kind,
			Message:   checkErr.Message,
			Timestamp: time.Now().UTC(),
		})
	default:
		s.logger.Error("request failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Internal server error", Message: err.Error()})
	}
}

func usageOf(u quota.Usage) limitUsage {
	return limitUsage{Current: u.Current, Max: u.Max, Remaining: u.Remaining}
}
