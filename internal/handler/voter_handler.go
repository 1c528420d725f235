package handler

import (
	"fmt"
	"net/http"

	"ballotbox/internal/domain"
	"ballotbox/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type VoterHandler struct {
	voterService *service.VoterService
	logger       *zap.Logger
}

func NewVoterHandler(voterService *service.VoterService, logger *zap.Logger) *VoterHandler {
	return &VoterHandler{
		voterService: voterService,
		logger:       logger,
	}
}

// loginResponse carries the bearer token alongside the voter it identifies.
type loginResponse struct {
	Token string        `json:"token"`
	Voter *domain.Voter `json:"voter"`
}

// Register handles POST /api/v1/voters
func (h *VoterHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req domain.RegisterRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, err, h.logger)
		return
	}

	voter, err := h.voterService.Register(r.Context(), &req)
	if err != nil {
		respondError(w, err, h.logger)
		return
	}

	respondJSON(w, http.StatusCreated, voter)
}

// Login handles POST /api/v1/voters/login
func (h *VoterHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, err, h.logger)
		return
	}

	voter, token, err := h.voterService.Login(r.Context(), &req)
	if err != nil {
		respondError(w, err, h.logger)
		return
	}

	respondJSON(w, http.StatusOK, loginResponse{Token: token, Voter: voter})
}

// Get handles GET /api/v1/voters/{voterCode}
func (h *VoterHandler) Get(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "voterCode")
	voter, err := h.voterService.GetByCode(r.Context(), code)
	if err != nil {
		respondError(w, err, h.logger)
		return
	}
	if voter == nil {
		respondError(w, fmt.Errorf("%w: voter", domain.ErrNotFound), h.logger)
		return
	}

	respondJSON(w, http.StatusOK, voter)
}
