package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"ballotbox/internal/auth"
	"ballotbox/internal/codes"
	"ballotbox/internal/domain"
	"ballotbox/internal/repository"
	"ballotbox/internal/repository/memory"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// testEnv wires the services against the in-memory repositories. The memory
// store enforces the same uniqueness semantics as postgres, so the
// concurrency tests exercise the real check-then-act paths.
type testEnv struct {
	repos          repository.Repositories
	assigner       *codes.Assigner
	polls          *PollService
	participations *ParticipationService
	votes          *VoteService
	voters         *VoterService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store := memory.NewStore()
	repos := store.Repositories()

	assigner := codes.NewAssigner(map[codes.Kind]codes.ExistsFunc{
		codes.KindVoter:         repos.Voters.CodeExists,
		codes.KindPoll:          repos.Polls.CodeExists,
		codes.KindOption:        repos.Polls.OptionCodeExists,
		codes.KindParticipation: repos.Participations.CodeExists,
		codes.KindVote:          repos.Votes.CodeExists,
	})

	log := zap.NewNop()
	cache := NewCacheService(nil, log)
	tokens, err := auth.NewTokenManager("test-secret", time.Hour)
	require.NoError(t, err)

	return &testEnv{
		repos:          repos,
		assigner:       assigner,
		polls:          NewPollService(repos, assigner, cache, log),
		participations: NewParticipationService(repos, assigner, log),
		votes:          NewVoteService(repos, assigner, cache, log),
		voters:         NewVoterService(repos, assigner, tokens, log),
	}
}

func (e *testEnv) register(t *testing.T, username string) *domain.Voter {
	t.Helper()

	voter, err := e.voters.Register(context.Background(), &domain.RegisterRequest{
		Email:    username + "@example.com",
		Username: username,
		Password: "correct horse battery",
	})
	require.NoError(t, err)
	return voter
}

func (e *testEnv) createPoll(t *testing.T, creator *domain.Voter, visibility domain.Visibility, mode domain.Mode, options ...string) *domain.Poll {
	t.Helper()

	if len(options) == 0 {
		options = []string{"Option A", "Option B"}
	}
	poll, err := e.polls.CreatePoll(context.Background(), creator, &domain.CreatePollRequest{
		Visibility:     string(visibility),
		Mode:           string(mode),
		Question:       "Which one do you prefer?",
		Options:        options,
		ExpirationDays: 7,
	})
	require.NoError(t, err)
	return poll
}

// createPollExpiringAt bypasses the day-granular creation path so boundary
// tests can place the expiration within seconds of now.
func (e *testEnv) createPollExpiringAt(t *testing.T, creator *domain.Voter, visibility domain.Visibility, expiration time.Time) *domain.Poll {
	t.Helper()

	ctx := context.Background()
	now := time.Now().UTC()

	pollCode, err := e.assigner.Assign(ctx, codes.KindPoll)
	require.NoError(t, err)

	poll := &domain.Poll{
		Code:        pollCode,
		CreatorID:   creator.ID,
		CreatorCode: creator.Code,
		Visibility:  visibility,
		Mode:        domain.ModeSingle,
		Question:    "Does the boundary hold?",
		Status:      "Active",
		Expiration:  expiration,
		TimeCreated: now,
		TimeUpdated: now,
	}
	for i := 0; i < 2; i++ {
		optCode, err := e.assigner.Assign(ctx, codes.KindOption)
		require.NoError(t, err)
		poll.Options = append(poll.Options, domain.Option{
			Code:        optCode,
			Text:        fmt.Sprintf("Option %d", i+1),
			TimeCreated: now,
			TimeUpdated: now,
		})
	}

	participationCode, err := e.assigner.Assign(ctx, codes.KindParticipation)
	require.NoError(t, err)
	participation := &domain.Participation{
		VoterID:     creator.ID,
		Code:        participationCode,
		VoterCode:   creator.Code,
		PollCode:    poll.Code,
		TimeCreated: now,
		TimeUpdated: now,
	}

	require.NoError(t, e.repos.Polls.Create(ctx, poll, participation))
	return poll
}
