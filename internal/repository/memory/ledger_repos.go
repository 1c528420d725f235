package memory

import (
	"context"
	"fmt"

	"ballotbox/internal/domain"
)

type participationRepo struct{ s *Store }

func (r *participationRepo) Create(ctx context.Context, p *domain.Participation) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	key := pairKey{p.VoterID, p.PollID}
	if _, ok := r.s.participations[key]; ok {
		return fmt.Errorf("%w: participation already exists", domain.ErrConflict)
	}
	cp := *p
	r.s.participations[key] = &cp
	r.s.claimCode("participation", p.Code)
	return nil
}

func (r *participationRepo) Ensure(ctx context.Context, p *domain.Participation) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.ensureParticipationLocked(p)
	return nil
}

func (r *participationRepo) Find(ctx context.Context, voterID, pollID int64) (*domain.Participation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if p, ok := r.s.participations[pairKey{voterID, pollID}]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, nil
}

func (r *participationRepo) CodeExists(ctx context.Context, code string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.codes["participation"][code], nil
}

// ensureParticipationLocked mirrors ON CONFLICT DO NOTHING; the caller holds
// the store lock.
func (s *Store) ensureParticipationLocked(p *domain.Participation) {
	key := pairKey{p.VoterID, p.PollID}
	if _, ok := s.participations[key]; ok {
		return
	}
	cp := *p
	s.participations[key] = &cp
	s.claimCode("participation", p.Code)
}

type voteRepo struct{ s *Store }

func (r *voteRepo) Cast(ctx context.Context, vote *domain.Vote, optionIDs []int64, autoParticipation *domain.Participation) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	key := pairKey{vote.VoterID, vote.PollID}
	if _, ok := r.s.votes[key]; ok {
		return fmt.Errorf("%w: vote already exists", domain.ErrConflict)
	}

	if autoParticipation != nil {
		r.s.ensureParticipationLocked(autoParticipation)
	}

	cp := *vote
	r.s.votes[key] = &cp
	r.s.claimCode("vote", vote.Code)

	poll := r.s.polls[vote.PollID]
	if poll == nil {
		return fmt.Errorf("%w: poll row missing", domain.ErrNotFound)
	}
	for _, id := range optionIDs {
		for i := range poll.Options {
			if poll.Options[i].ID == id {
				poll.Options[i].Votes++
				poll.Options[i].TimeUpdated = vote.TimeCreated
			}
		}
	}
	return nil
}

func (r *voteRepo) Find(ctx context.Context, voterID, pollID int64) (*domain.Vote, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if v, ok := r.s.votes[pairKey{voterID, pollID}]; ok {
		cp := *v
		return &cp, nil
	}
	return nil, nil
}

func (r *voteRepo) CodeExists(ctx context.Context, code string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.codes["vote"][code], nil
}
