package service

import (
	"context"
	"fmt"
	"time"

	"ballotbox/internal/auth"
	"ballotbox/internal/codes"
	"ballotbox/internal/domain"
	"ballotbox/internal/repository"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// VoterService registers and authenticates voters.
type VoterService struct {
	voters   repository.VoterRepository
	assigner *codes.Assigner
	tokens   *auth.TokenManager
	logger   *zap.Logger
}

func NewVoterService(repos repository.Repositories, assigner *codes.Assigner, tokens *auth.TokenManager, logger *zap.Logger) *VoterService {
	return &VoterService{
		voters:   repos.Voters,
		assigner: assigner,
		tokens:   tokens,
		logger:   logger,
	}
}

// Register creates a voter account. Email and username uniqueness is enforced
// by the repository; a duplicate surfaces as Conflict.
func (s *VoterService) Register(ctx context.Context, req *domain.RegisterRequest) (*domain.Voter, error) {
	if err := domain.ValidateEmail(req.Email); err != nil {
		return nil, err
	}
	if err := domain.ValidateUsername(req.Username); err != nil {
		return nil, err
	}
	if err := domain.ValidatePassword(req.Password); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	code, err := s.assigner.Assign(ctx, codes.KindVoter)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	voter := &domain.Voter{
		Code:         code,
		Email:        req.Email,
		Username:     req.Username,
		PasswordHash: string(hash),
		Role:         "Voter",
		Status:       "Active",
		TimeCreated:  now,
		TimeUpdated:  now,
	}
	if err := s.voters.Create(ctx, voter); err != nil {
		return nil, err
	}

	s.logger.Info("Voter registered",
		zap.String("voter", voter.Code),
		zap.String("username", voter.Username))
	return voter, nil
}

// Login verifies the credentials and issues a bearer token. Unknown username
// and wrong password are indistinguishable to the caller.
func (s *VoterService) Login(ctx context.Context, req *domain.LoginRequest) (*domain.Voter, string, error) {
	voter, err := s.voters.GetByUsername(ctx, req.Username)
	if err != nil {
		return nil, "", err
	}
	if voter == nil {
		return nil, "", fmt.Errorf("%w: bad credentials", domain.ErrUnauthorized)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(voter.PasswordHash), []byte(req.Password)); err != nil {
		return nil, "", fmt.Errorf("%w: bad credentials", domain.ErrUnauthorized)
	}

	token, err := s.tokens.Issue(voter.Code)
	if err != nil {
		return nil, "", err
	}
	return voter, token, nil
}

// GetByCode resolves a voter by code, nil when absent.
func (s *VoterService) GetByCode(ctx context.Context, code string) (*domain.Voter, error) {
	return s.voters.GetByCode(ctx, code)
}
