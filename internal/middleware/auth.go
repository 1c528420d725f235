package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"ballotbox/internal/auth"
	"ballotbox/internal/domain"
	"ballotbox/internal/repository"
	"ballotbox/pkg/apierror"

	"go.uber.org/zap"
)

// ContextKey represents keys used in request context
type ContextKey string

const (
	// VoterContextKey is the key for the authenticated voter in context
	VoterContextKey ContextKey = "voter"
)

// Auth validates the bearer token and loads the voter it was issued for.
// Every request past this middleware carries a *domain.Voter in its context.
func Auth(tokens *auth.TokenManager, voters repository.VoterRepository, log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeErrorResponse(w, apierror.NewAuthenticationError("Authorization header is required"), log)
				return
			}
			if !strings.HasPrefix(authHeader, "Bearer ") {
				writeErrorResponse(w, apierror.NewAuthenticationError("Invalid authorization header format"), log)
				return
			}
			token := strings.TrimPrefix(authHeader, "Bearer ")
			if token == "" {
				writeErrorResponse(w, apierror.NewAuthenticationError("Token is required"), log)
				return
			}

			voterCode, err := tokens.Verify(token)
			if err != nil {
				log.Debug("Token verification failed", zap.Error(err))
				writeErrorResponse(w, apierror.NewAuthenticationError("Invalid or expired token"), log)
				return
			}

			ctx := r.Context()
			voter, err := voters.GetByCode(ctx, voterCode)
			if err != nil {
				log.Error("Failed to load voter for token", zap.Error(err))
				writeErrorResponse(w, apierror.FromDomain(err), log)
				return
			}
			if voter == nil {
				writeErrorResponse(w, apierror.NewAuthenticationError("Invalid or expired token"), log)
				return
			}

			ctx = context.WithValue(ctx, VoterContextKey, voter)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// VoterFromContext returns the authenticated voter, or nil when the request
// skipped the auth middleware.
func VoterFromContext(ctx context.Context) *domain.Voter {
	voter, _ := ctx.Value(VoterContextKey).(*domain.Voter)
	return voter
}

// writeErrorResponse writes the JSON error envelope.
func writeErrorResponse(w http.ResponseWriter, appErr *apierror.AppError, log *zap.Logger) {
	if appErr.StatusCode >= http.StatusInternalServerError {
		log.Error("Request error", zap.Error(appErr))
	}

	response := &apierror.ErrorResponse{}
	response.Error.Type = appErr.Type
	response.Error.Message = appErr.Message
	response.Error.Timestamp = time.Now().UTC().Format(time.RFC3339)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(appErr.StatusCode)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Error("Failed to write error response", zap.Error(err))
	}
}
