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

type VoteHandler struct {
	voteService *service.VoteService
	logger      *zap.Logger
}

func NewVoteHandler(voteService *service.VoteService, logger *zap.Logger) *VoteHandler {
	return &VoteHandler{
		voteService: voteService,
		logger:      logger,
	}
}

// Cast handles POST /api/v1/polls/{pollCode}/votes
func (h *VoteHandler) Cast(w http.ResponseWriter, r *http.Request) {
	voter := middleware.VoterFromContext(r.Context())
	if voter == nil {
		respondError(w, apierror.NewAuthenticationError("Authentication required"), h.logger)
		return
	}

	var req domain.CastVoteRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, err, h.logger)
		return
	}
	req.PollCode = chi.URLParam(r, "pollCode")
	if len(req.OptionCodes) == 0 {
		respondError(w, apierror.NewValidationError("options are required"), h.logger)
		return
	}

	vote, err := h.voteService.CastVote(r.Context(), voter, &req)
	if err != nil {
		respondError(w, err, h.logger)
		return
	}

	respondJSON(w, http.StatusCreated, vote)
}
