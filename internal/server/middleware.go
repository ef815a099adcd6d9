package server

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"kitchen-companion/internal/admin"
	"kitchen-companion/internal/metrics"
)

// requestLogger logs every request and feeds the HTTP latency histogram.
func requestLogger(logger *zap.Logger, prom *metrics.Prom) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			elapsed := time.Since(start)

			route := r.URL.Path
			if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
				route = rctx.RoutePattern()
			}
			if prom != nil {
				prom.ObserveHTTP(r.Method, route, strconv.Itoa(status), elapsed)
			}

			logger.Info("API Request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status_code", status),
				zap.Duration("duration", elapsed),
				zap.String("request_id", middleware.GetReqID(r.Context())),
			)
		})
	}
}

// requireAdmin accepts only requests carrying a valid admin bearer token.
func requireAdmin(secret string, logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || token == "" {
				writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthorized", Message: "Missing bearer token"})
				return
			}
			if err := admin.Verify(secret, token); err != nil {
				logger.Warn("rejected admin token", zap.String("remote_addr", r.RemoteAddr), zap.Error(err))
				writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthorized", Message: "Invalid or expired token"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
