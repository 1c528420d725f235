// Package memory holds mutex-guarded implementations of the repository
// interfaces with the same constraint semantics as the postgres ones:
// check-then-create is atomic under the store lock, duplicate pairs surface
// as Conflict, tally increments never lose updates.
package memory

import (
	"context"
	"fmt"
	"sync"

	"ballotbox/internal/domain"
	"ballotbox/internal/repository"
)

type pairKey struct {
	voterID int64
	pollID  int64
}

// Store backs all four repositories so cross-entity reads stay consistent.
type Store struct {
	mu             sync.Mutex
	nextID         int64
	voters         map[int64]*domain.Voter
	polls          map[int64]*domain.Poll
	participations map[pairKey]*domain.Participation
	votes          map[pairKey]*domain.Vote
	codes          map[string]map[string]bool
}

func NewStore() *Store {
	return &Store{
		voters:         make(map[int64]*domain.Voter),
		polls:          make(map[int64]*domain.Poll),
		participations: make(map[pairKey]*domain.Participation),
		votes:          make(map[pairKey]*domain.Vote),
		codes: map[string]map[string]bool{
			"voter":         {},
			"poll":          {},
			"option":        {},
			"participation": {},
			"vote":          {},
		},
	}
}

// Repositories returns the interface bundle backed by this store.
func (s *Store) Repositories() repository.Repositories {
	return repository.Repositories{
		Voters:         &voterRepo{s},
		Polls:          &pollRepo{s},
		Participations: &participationRepo{s},
		Votes:          &voteRepo{s},
	}
}

func (s *Store) allocID() int64 {
	s.nextID++
	return s.nextID
}

func (s *Store) claimCode(kind, code string) {
	s.codes[kind][code] = true
}

func copyPoll(p *domain.Poll) *domain.Poll {
	cp := *p
	cp.Options = make([]domain.Option, len(p.Options))
	copy(cp.Options, p.Options)
	return &cp
}

type voterRepo struct{ s *Store }

func (r *voterRepo) Create(ctx context.Context, voter *domain.Voter) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, v := range r.s.voters {
		if v.Email == voter.Email {
			return fmt.Errorf("%w: email already registered", domain.ErrConflict)
		}
		if v.Username == voter.Username {
			return fmt.Errorf("%w: username already taken", domain.ErrConflict)
		}
	}
	voter.ID = r.s.allocID()
	cp := *voter
	r.s.voters[voter.ID] = &cp
	r.s.claimCode("voter", voter.Code)
	return nil
}

func (r *voterRepo) GetByCode(ctx context.Context, code string) (*domain.Voter, error) {
	return r.getBy(func(v *domain.Voter) bool { return v.Code == code })
}

func (r *voterRepo) GetByUsername(ctx context.Context, username string) (*domain.Voter, error) {
	return r.getBy(func(v *domain.Voter) bool { return v.Username == username })
}

func (r *voterRepo) GetByEmail(ctx context.Context, email string) (*domain.Voter, error) {
	return r.getBy(func(v *domain.Voter) bool { return v.Email == email })
}

func (r *voterRepo) getBy(match func(*domain.Voter) bool) (*domain.Voter, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, v := range r.s.voters {
		if match(v) {
			cp := *v
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *voterRepo) CodeExists(ctx context.Context, code string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.codes["voter"][code], nil
}
