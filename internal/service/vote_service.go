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

// VoteService runs the cast-vote workflow: every invariant is checked in
// order and the accepting write is a single atomic unit in the repository.
type VoteService struct {
	polls          repository.PollRepository
	participations repository.ParticipationRepository
	votes          repository.VoteRepository
	assigner       *codes.Assigner
	cache          *CacheService
	logger         *zap.Logger
}

func NewVoteService(repos repository.Repositories, assigner *codes.Assigner, cache *CacheService, logger *zap.Logger) *VoteService {
	return &VoteService{
		polls:          repos.Polls,
		participations: repos.Participations,
		votes:          repos.Votes,
		assigner:       assigner,
		cache:          cache,
		logger:         logger,
	}
}

// CastVote accepts or rejects a vote. Rejections, in order: unknown poll,
// prior vote (Conflict), private poll without participation (Forbidden),
// expired poll, wrong option count for the mode, option not belonging to the
// poll. Acceptance persists the vote, the implicit public-poll participation
// and the tally increments together; two concurrent calls for the same
// (voter, poll) end with exactly one success and one Conflict.
func (s *VoteService) CastVote(ctx context.Context, voter *domain.Voter, req *domain.CastVoteRequest) (*domain.Vote, error) {
	poll, err := s.polls.GetByCode(ctx, req.PollCode)
	if err != nil {
		return nil, err
	}
	if poll == nil {
		return nil, fmt.Errorf("%w: poll", domain.ErrNotFound)
	}

	prior, err := s.votes.Find(ctx, voter.ID, poll.ID)
	if err != nil {
		return nil, err
	}
	if prior != nil {
		return nil, fmt.Errorf("%w: vote already exists", domain.ErrConflict)
	}

	participation, err := s.participations.Find(ctx, voter.ID, poll.ID)
	if err != nil {
		return nil, err
	}
	if poll.Visibility == domain.VisibilityPrivate && participation == nil {
		return nil, fmt.Errorf("%w: poll requires a participation", domain.ErrForbidden)
	}

	if poll.IsExpired(time.Now().UTC()) {
		return nil, fmt.Errorf("%w: vote rejected", domain.ErrExpired)
	}

	if err := domain.ValidateChosenOptionCount(poll.Mode, len(req.OptionCodes), len(poll.Options)); err != nil {
		return nil, err
	}

	optionIDs := make([]int64, 0, len(req.OptionCodes))
	seen := make(map[string]bool, len(req.OptionCodes))
	for _, code := range req.OptionCodes {
		if seen[code] {
			return nil, fmt.Errorf("%w: invalid option count", domain.ErrValidation)
		}
		seen[code] = true
		option := poll.OptionByCode(code)
		if option == nil {
			return nil, fmt.Errorf("%w: option", domain.ErrNotFound)
		}
		optionIDs = append(optionIDs, option.ID)
	}

	voteCode, err := s.assigner.Assign(ctx, codes.KindVote)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	vote := &domain.Vote{
		VoterID:     voter.ID,
		PollID:      poll.ID,
		Code:        voteCode,
		VoterCode:   voter.Code,
		PollCode:    poll.Code,
		TimeCreated: now,
		TimeUpdated: now,
	}

	// Public polls admit the voter as a side effect of the first vote.
	var autoParticipation *domain.Participation
	if poll.Visibility == domain.VisibilityPublic && participation == nil {
		participationCode, err := s.assigner.Assign(ctx, codes.KindParticipation)
		if err != nil {
			return nil, err
		}
		autoParticipation = &domain.Participation{
			VoterID:     voter.ID,
			PollID:      poll.ID,
			Code:        participationCode,
			VoterCode:   voter.Code,
			PollCode:    poll.Code,
			TimeCreated: now,
			TimeUpdated: now,
		}
	}

	if err := s.votes.Cast(ctx, vote, optionIDs, autoParticipation); err != nil {
		return nil, err
	}

	s.cache.InvalidatePoll(ctx, poll.Code)

	s.logger.Info("Vote accepted",
		zap.String("poll", poll.Code),
		zap.String("voter", voter.Code),
		zap.Int("options", len(optionIDs)))
	return vote, nil
}

// Find returns the vote for the pair, or nil.
func (s *VoteService) Find(ctx context.Context, voterID, pollID int64) (*domain.Vote, error) {
	return s.votes.Find(ctx, voterID, pollID)
}
