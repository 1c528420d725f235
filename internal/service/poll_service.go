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

// PollService owns poll creation, lookup and the paginated listings.
type PollService struct {
	polls          repository.PollRepository
	participations repository.ParticipationRepository
	assigner       *codes.Assigner
	cache          *CacheService
	logger         *zap.Logger
}

func NewPollService(repos repository.Repositories, assigner *codes.Assigner, cache *CacheService, logger *zap.Logger) *PollService {
	return &PollService{
		polls:          repos.Polls,
		participations: repos.Participations,
		assigner:       assigner,
		cache:          cache,
		logger:         logger,
	}
}

// CreatePoll persists a poll with its options and, unconditionally, the
// creator's own participation. The creator joins regardless of visibility;
// only voting applies the public/private branching.
func (s *PollService) CreatePoll(ctx context.Context, creator *domain.Voter, req *domain.CreatePollRequest) (*domain.Poll, error) {
	visibility, err := domain.ParseVisibility(req.Visibility)
	if err != nil {
		return nil, err
	}
	mode, err := domain.ParseMode(req.Mode)
	if err != nil {
		return nil, err
	}
	if err := domain.ValidateQuestion(req.Question); err != nil {
		return nil, err
	}
	if err := domain.ValidateOptionTexts(req.Options); err != nil {
		return nil, err
	}
	if err := domain.ValidateExpirationDays(req.ExpirationDays); err != nil {
		return nil, err
	}

	pollCode, err := s.assigner.Assign(ctx, codes.KindPoll)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	poll := &domain.Poll{
		Code:        pollCode,
		CreatorID:   creator.ID,
		CreatorCode: creator.Code,
		Visibility:  visibility,
		Mode:        mode,
		Question:    req.Question,
		Status:      "Active",
		Expiration:  now.AddDate(0, 0, req.ExpirationDays),
		TimeCreated: now,
		TimeUpdated: now,
	}
	for _, text := range req.Options {
		optionCode, err := s.assigner.Assign(ctx, codes.KindOption)
		if err != nil {
			return nil, err
		}
		poll.Options = append(poll.Options, domain.Option{
			Code:        optionCode,
			Text:        text,
			Votes:       0,
			TimeCreated: now,
			TimeUpdated: now,
		})
	}

	participationCode, err := s.assigner.Assign(ctx, codes.KindParticipation)
	if err != nil {
		return nil, err
	}
	participation := &domain.Participation{
		VoterID:     creator.ID,
		Code:        participationCode,
		VoterCode:   creator.Code,
		PollCode:    poll.Code,
		TimeCreated: now,
		TimeUpdated: now,
	}

	if err := s.polls.Create(ctx, poll, participation); err != nil {
		return nil, err
	}

	s.logger.Info("Poll created",
		zap.String("poll", poll.Code),
		zap.String("creator", creator.Code),
		zap.String("visibility", string(poll.Visibility)))
	return poll, nil
}

// GetPoll fetches a poll by code. Private polls are only readable by voters
// holding a participation.
func (s *PollService) GetPoll(ctx context.Context, requester *domain.Voter, code string) (*domain.Poll, error) {
	if cached := s.cache.GetPoll(ctx, code); cached != nil && cached.Visibility == domain.VisibilityPublic {
		return cached, nil
	}

	poll, err := s.polls.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if poll == nil {
		return nil, fmt.Errorf("%w: poll", domain.ErrNotFound)
	}

	if poll.Visibility == domain.VisibilityPrivate {
		participation, err := s.participations.Find(ctx, requester.ID, poll.ID)
		if err != nil {
			return nil, err
		}
		if participation == nil {
			return nil, fmt.Errorf("%w: poll requires a participation", domain.ErrForbidden)
		}
	} else {
		s.cache.SetPoll(ctx, poll)
	}
	return poll, nil
}

// ListPolls pages one of the three listings, newest first. Oversized pages
// are rejected, not clamped.
func (s *PollService) ListPolls(ctx context.Context, requester *domain.Voter, scope domain.ListScope, page, size int) (*domain.Page, error) {
	if page < 0 {
		return nil, fmt.Errorf("%w: negative page index", domain.ErrValidation)
	}
	size, err := domain.NormalizePageSize(size)
	if err != nil {
		return nil, err
	}

	switch scope {
	case domain.ScopePublic:
		return s.polls.ListPublic(ctx, page, size)
	case domain.ScopePrivate:
		return s.polls.ListPrivateFor(ctx, requester.ID, page, size)
	case domain.ScopeCreatedBy:
		return s.polls.ListCreatedBy(ctx, requester.ID, page, size)
	default:
		return nil, fmt.Errorf("%w: unknown list scope %q", domain.ErrValidation, scope)
	}
}
