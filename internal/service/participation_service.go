package service

import (
	"context"
	"fmt"
	"time"

	"ballotbox/internal/codes"
	"ballotbox/internal/domain"
	"ballotbox/internal/repository"

	"go.uber.org/zap"
)

// ParticipationService handles explicit invitations into a poll.
type ParticipationService struct {
	polls          repository.PollRepository
	voters         repository.VoterRepository
	participations repository.ParticipationRepository
	assigner       *codes.Assigner
	logger         *zap.Logger
}

func NewParticipationService(repos repository.Repositories, assigner *codes.Assigner, logger *zap.Logger) *ParticipationService {
	return &ParticipationService{
		polls:          repos.Polls,
		voters:         repos.Voters,
		participations: repos.Participations,
		assigner:       assigner,
		logger:         logger,
	}
}

// Invite lets the poll creator admit another voter by username. The insert
// runs against the (voter, poll) uniqueness constraint, so a racing duplicate
// still comes back as Conflict.
func (s *ParticipationService) Invite(ctx context.Context, inviter *domain.Voter, req *domain.InviteRequest) (*domain.Participation, error) {
	poll, err := s.polls.GetByCode(ctx, req.PollCode)
	if err != nil {
		return nil, err
	}
	if poll == nil {
		return nil, fmt.Errorf("%w: poll", domain.ErrNotFound)
	}
	if poll.CreatorID != inviter.ID {
		return nil, fmt.Errorf("%w: only the poll creator may invite", domain.ErrForbidden)
	}

	invitee, err := s.voters.GetByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if invitee == nil {
		return nil, fmt.Errorf("%w: voter", domain.ErrNotFound)
	}

	existing, err := s.participations.Find(ctx, invitee.ID, poll.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: participation already exists", domain.ErrConflict)
	}

	if poll.IsExpired(time.Now().UTC()) {
		return nil, fmt.Errorf("%w: invitation rejected", domain.ErrExpired)
	}

	code, err := s.assigner.Assign(ctx, codes.KindParticipation)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	participation := &domain.Participation{
		VoterID:     invitee.ID,
		PollID:      poll.ID,
		Code:        code,
		VoterCode:   invitee.Code,
		PollCode:    poll.Code,
		TimeCreated: now,
		TimeUpdated: now,
	}
	if err := s.participations.Create(ctx, participation); err != nil {
		return nil, err
	}

	s.logger.Info("Participation created",
		zap.String("poll", poll.Code),
		zap.String("invitee", invitee.Code),
		zap.String("inviter", inviter.Code))
	return participation, nil
}

// Find returns the participation for the pair, or nil.
func (s *ParticipationService) Find(ctx context.Context, voterID, pollID int64) (*domain.Participation, error) {
	return s.participations.Find(ctx, voterID, pollID)
}
