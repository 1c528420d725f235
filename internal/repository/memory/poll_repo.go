package memory

import (
	"context"
	"sort"

	"ballotbox/internal/domain"
)

type pollRepo struct{ s *Store }

func (r *pollRepo) Create(ctx context.Context, poll *domain.Poll, creatorParticipation *domain.Participation) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	poll.ID = r.s.allocID()
	for i := range poll.Options {
		poll.Options[i].ID = r.s.allocID()
		poll.Options[i].PollID = poll.ID
		r.s.claimCode("option", poll.Options[i].Code)
	}
	r.s.polls[poll.ID] = copyPoll(poll)
	r.s.claimCode("poll", poll.Code)

	creatorParticipation.PollID = poll.ID
	cp := *creatorParticipation
	r.s.participations[pairKey{cp.VoterID, cp.PollID}] = &cp
	r.s.claimCode("participation", cp.Code)
	return nil
}

func (r *pollRepo) GetByCode(ctx context.Context, code string) (*domain.Poll, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, p := range r.s.polls {
		if p.Code == code {
			return copyPoll(p), nil
		}
	}
	return nil, nil
}

func (r *pollRepo) ListPublic(ctx context.Context, page, size int) (*domain.Page, error) {
	return r.list(page, size, func(p *domain.Poll) bool {
		return p.Visibility == domain.VisibilityPublic
	})
}

func (r *pollRepo) ListPrivateFor(ctx context.Context, voterID int64, page, size int) (*domain.Page, error) {
	return r.list(page, size, func(p *domain.Poll) bool {
		if p.Visibility != domain.VisibilityPrivate {
			return false
		}
		_, ok := r.s.participations[pairKey{voterID, p.ID}]
		return ok
	})
}

func (r *pollRepo) ListCreatedBy(ctx context.Context, voterID int64, page, size int) (*domain.Page, error) {
	return r.list(page, size, func(p *domain.Poll) bool {
		return p.CreatorID == voterID
	})
}

func (r *pollRepo) list(page, size int, match func(*domain.Poll) bool) (*domain.Page, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var matched []*domain.Poll
	for _, p := range r.s.polls {
		if match(p) {
			matched = append(matched, p)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].TimeCreated.Equal(matched[j].TimeCreated) {
			return matched[i].ID > matched[j].ID
		}
		return matched[i].TimeCreated.After(matched[j].TimeCreated)
	})

	result := &domain.Page{
		Polls:      []domain.Poll{},
		PageIndex:  page,
		PageSize:   size,
		TotalCount: len(matched),
	}
	start := page * size
	for i := start; i < len(matched) && i < start+size; i++ {
		result.Polls = append(result.Polls, *copyPoll(matched[i]))
	}
	return result, nil
}

func (r *pollRepo) CodeExists(ctx context.Context, code string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.codes["poll"][code], nil
}

func (r *pollRepo) OptionCodeExists(ctx context.Context, code string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.codes["option"][code], nil
}
