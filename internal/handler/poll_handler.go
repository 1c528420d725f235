package handler

import (
	"net/http"
	"strconv"

	"ballotbox/internal/domain"
	"ballotbox/internal/middleware"
	"ballotbox/internal/service"
	"ballotbox/pkg/apierror"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type PollHandler struct {
	pollService *service.PollService
	logger      *zap.Logger
}

func NewPollHandler(pollService *service.PollService, logger *zap.Logger) *PollHandler {
	return &PollHandler{
		pollService: pollService,
		logger:      logger,
	}
}

// Create handles POST /api/v1/polls
func (h *PollHandler) Create(w http.ResponseWriter, r *http.Request) {
	voter := middleware.VoterFromContext(r.Context())
	if voter == nil {
		respondError(w, apierror.NewAuthenticationError("Authentication required"), h.logger)
		return
	}

	var req domain.CreatePollRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, err, h.logger)
		return
	}

	poll, err := h.pollService.CreatePoll(r.Context(), voter, &req)
	if err != nil {
		respondError(w, err, h.logger)
		return
	}

	respondJSON(w, http.StatusCreated, poll)
}

// Get handles GET /api/v1/polls/{pollCode}
func (h *PollHandler) Get(w http.ResponseWriter, r *http.Request) {
	voter := middleware.VoterFromContext(r.Context())
	if voter == nil {
		respondError(w, apierror.NewAuthenticationError("Authentication required"), h.logger)
		return
	}

	code := chi.URLParam(r, "pollCode")
	poll, err := h.pollService.GetPoll(r.Context(), voter, code)
	if err != nil {
		respondError(w, err, h.logger)
		return
	}

	respondJSON(w, http.StatusOK, poll)
}

// List handles GET /api/v1/polls?scope=public|private|created&page=&size=
func (h *PollHandler) List(w http.ResponseWriter, r *http.Request) {
	voter := middleware.VoterFromContext(r.Context())
	if voter == nil {
		respondError(w, apierror.NewAuthenticationError("Authentication required"), h.logger)
		return
	}

	scope := domain.ListScope(r.URL.Query().Get("scope"))
	if scope == "" {
		scope = domain.ScopePublic
	}

	page, err := queryInt(r, "page", 0)
	if err != nil {
		respondError(w, err, h.logger)
		return
	}
	size, err := queryInt(r, "size", 0)
	if err != nil {
		respondError(w, err, h.logger)
		return
	}

	result, err := h.pollService.ListPolls(r.Context(), voter, scope, page, size)
	if err != nil {
		respondError(w, err, h.logger)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

func queryInt(r *http.Request, name string, fallback int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apierror.NewValidationError("invalid " + name + " parameter")
	}
	return value, nil
}
