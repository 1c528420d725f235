package handler

import (
	"net/http"

	"ballotbox/internal/domain"
	"ballotbox/internal/middleware"
	"ballotbox/internal/service"
	"ballotbox/pkg/apierror"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type ParticipationHandler struct {
	participationService *service.ParticipationService
	logger               *zap.Logger
}

func NewParticipationHandler(participationService *service.ParticipationService, logger *zap.Logger) *ParticipationHandler {
	return &ParticipationHandler{
		participationService: participationService,
		logger:               logger,
	}
}

// Invite handles POST /api/v1/polls/{pollCode}/participations
func (h *ParticipationHandler) Invite(w http.ResponseWriter, r *http.Request) {
	inviter := middleware.VoterFromContext(r.Context())
	if inviter == nil {
		respondError(w, apierror.NewAuthenticationError("Authentication required"), h.logger)
		return
	}

	var req domain.InviteRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, err, h.logger)
		return
	}
	req.PollCode = chi.URLParam(r, "pollCode")
	if req.Username == "" {
		respondError(w, apierror.NewValidationError("username is required"), h.logger)
		return
	}

	participation, err := h.participationService.Invite(r.Context(), inviter, &req)
	if err != nil {
		respondError(w, err, h.logger)
		return
	}

	respondJSON(w, http.StatusCreated, participation)
}
