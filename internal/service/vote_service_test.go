package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"ballotbox/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCastVotePublicAutoParticipation(t *testing.T) {
	env := newTestEnv(t)
	creator := env.register(t, "creator1")
	visitor := env.register(t, "visitor1")
	ctx := context.Background()

	poll := env.createPoll(t, creator, domain.VisibilityPublic, domain.ModeSingle, "Yes", "No")

	vote, err := env.votes.CastVote(ctx, visitor, &domain.CastVoteRequest{
		PollCode:    poll.Code,
		OptionCodes: []string{poll.Options[0].Code},
	})
	require.NoError(t, err)
	assert.Equal(t, visitor.Code, vote.VoterCode)
	assert.Equal(t, poll.Code, vote.PollCode)

	// Voting on a public poll admits the voter as a side effect.
	participation, err := env.participations.Find(ctx, visitor.ID, poll.ID)
	require.NoError(t, err)
	require.NotNil(t, participation)

	got, err := env.polls.GetPoll(ctx, visitor, poll.Code)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Options[0].Votes)
	assert.Equal(t, 0, got.Options[1].Votes)
}

func TestCastVotePrivateRequiresParticipation(t *testing.T) {
	env := newTestEnv(t)
	creator := env.register(t, "creator1")
	outsider := env.register(t, "outside1")
	ctx := context.Background()

	poll := env.createPoll(t, creator, domain.VisibilityPrivate, domain.ModeSingle)

	_, err := env.votes.CastVote(ctx, outsider, &domain.CastVoteRequest{
		PollCode:    poll.Code,
		OptionCodes: []string{poll.Options[0].Code},
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	// The rejection leaves no vote, no participation and no tally mutation.
	vote, err := env.votes.Find(ctx, outsider.ID, poll.ID)
	require.NoError(t, err)
	assert.Nil(t, vote)

	participation, err := env.participations.Find(ctx, outsider.ID, poll.ID)
	require.NoError(t, err)
	assert.Nil(t, participation)

	got, err := env.polls.GetPoll(ctx, creator, poll.Code)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Options[0].Votes)
}

func TestCastVotePrivateAfterInvite(t *testing.T) {
	env := newTestEnv(t)
	creator := env.register(t, "creator1")
	invitee := env.register(t, "invitee1")
	ctx := context.Background()

	poll := env.createPoll(t, creator, domain.VisibilityPrivate, domain.ModeSingle)

	_, err := env.participations.Invite(ctx, creator, &domain.InviteRequest{
		PollCode: poll.Code,
		Username: invitee.Username,
	})
	require.NoError(t, err)

	_, err = env.votes.CastVote(ctx, invitee, &domain.CastVoteRequest{
		PollCode:    poll.Code,
		OptionCodes: []string{poll.Options[0].Code},
	})
	require.NoError(t, err)
}

func TestCastVoteDuplicateIsConflict(t *testing.T) {
	env := newTestEnv(t)
	creator := env.register(t, "creator1")
	ctx := context.Background()

	poll := env.createPoll(t, creator, domain.VisibilityPublic, domain.ModeSingle)
	req := &domain.CastVoteRequest{
		PollCode:    poll.Code,
		OptionCodes: []string{poll.Options[0].Code},
	}

	_, err := env.votes.CastVote(ctx, creator, req)
	require.NoError(t, err)

	_, err = env.votes.CastVote(ctx, creator, req)
	assert.ErrorIs(t, err, domain.ErrConflict)

	// The duplicate never double-counts.
	got, err := env.polls.GetPoll(ctx, creator, poll.Code)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Options[0].Votes)
}

func TestCastVoteUnknownPollAndOption(t *testing.T) {
	env := newTestEnv(t)
	creator := env.register(t, "creator1")
	ctx := context.Background()

	poll := env.createPoll(t, creator, domain.VisibilityPublic, domain.ModeSingle)
	other := env.createPoll(t, creator, domain.VisibilityPublic, domain.ModeSingle)

	_, err := env.votes.CastVote(ctx, creator, &domain.CastVoteRequest{
		PollCode:    "nope!",
		OptionCodes: []string{poll.Options[0].Code},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// An option of another poll is NotFound for this poll.
	_, err = env.votes.CastVote(ctx, creator, &domain.CastVoteRequest{
		PollCode:    poll.Code,
		OptionCodes: []string{other.Options[0].Code},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	got, err := env.polls.GetPoll(ctx, creator, poll.Code)
	require.NoError(t, err)
	for _, opt := range got.Options {
		assert.Zero(t, opt.Votes)
	}
}

func TestCastVoteModeEnforcement(t *testing.T) {
	env := newTestEnv(t)
	creator := env.register(t, "creator1")
	ctx := context.Background()

	single := env.createPoll(t, creator, domain.VisibilityPublic, domain.ModeSingle, "A", "B", "C")

	_, err := env.votes.CastVote(ctx, creator, &domain.CastVoteRequest{
		PollCode:    single.Code,
		OptionCodes: []string{single.Options[0].Code, single.Options[1].Code},
	})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = env.votes.CastVote(ctx, creator, &domain.CastVoteRequest{
		PollCode:    single.Code,
		OptionCodes: []string{single.Options[0].Code},
	})
	require.NoError(t, err)

	multiple := env.createPoll(t, creator, domain.VisibilityPublic, domain.ModeMultiple, "A", "B", "C")
	voter := env.register(t, "multi001")

	// Repeating the same option is not a way around the count rule.
	_, err = env.votes.CastVote(ctx, voter, &domain.CastVoteRequest{
		PollCode: multiple.Code,
		OptionCodes: []string{
			multiple.Options[0].Code,
			multiple.Options[0].Code,
		},
	})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = env.votes.CastVote(ctx, voter, &domain.CastVoteRequest{
		PollCode: multiple.Code,
		OptionCodes: []string{
			multiple.Options[0].Code,
			multiple.Options[2].Code,
		},
	})
	require.NoError(t, err)

	got, err := env.polls.GetPoll(ctx, voter, multiple.Code)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Options[0].Votes)
	assert.Equal(t, 0, got.Options[1].Votes)
	assert.Equal(t, 1, got.Options[2].Votes)
}

func TestCastVoteExpirationBoundary(t *testing.T) {
	env := newTestEnv(t)
	creator := env.register(t, "creator1")
	voter := env.register(t, "voter001")
	ctx := context.Background()

	expired := env.createPollExpiringAt(t, creator, domain.VisibilityPublic, time.Now().UTC().Add(-time.Second))
	_, err := env.votes.CastVote(ctx, voter, &domain.CastVoteRequest{
		PollCode:    expired.Code,
		OptionCodes: []string{expired.Options[0].Code},
	})
	assert.ErrorIs(t, err, domain.ErrExpired)

	active := env.createPollExpiringAt(t, creator, domain.VisibilityPublic, time.Now().UTC().Add(time.Second))
	_, err = env.votes.CastVote(ctx, voter, &domain.CastVoteRequest{
		PollCode:    active.Code,
		OptionCodes: []string{active.Options[0].Code},
	})
	require.NoError(t, err)
}

func TestCastVoteConcurrentSamePair(t *testing.T) {
	env := newTestEnv(t)
	creator := env.register(t, "creator1")
	voter := env.register(t, "racer001")
	ctx := context.Background()

	poll := env.createPoll(t, creator, domain.VisibilityPublic, domain.ModeSingle)

	const n = 16
	results := make(chan error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := env.votes.CastVote(ctx, voter, &domain.CastVoteRequest{
				PollCode:    poll.Code,
				OptionCodes: []string{poll.Options[0].Code},
			})
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	successes, conflicts := 0, 0
	for err := range results {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, domain.ErrConflict):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, successes)
	assert.Equal(t, n-1, conflicts)

	got, err := env.polls.GetPoll(ctx, voter, poll.Code)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Options[0].Votes)
}

func TestCastVoteConcurrentTalliesAddUp(t *testing.T) {
	env := newTestEnv(t)
	creator := env.register(t, "creator1")
	ctx := context.Background()

	poll := env.createPoll(t, creator, domain.VisibilityPublic, domain.ModeMultiple, "A", "B", "C")

	const n = 20
	voters := make([]*domain.Voter, n)
	for i := 0; i < n; i++ {
		voters[i] = env.register(t, fmt.Sprintf("tally%03d", i))
	}

	// Voter i selects option A always and option B for even i, so the final
	// sums are known: A = n, B = n/2, C = 0.
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			optionCodes := []string{poll.Options[0].Code}
			if i%2 == 0 {
				optionCodes = append(optionCodes, poll.Options[1].Code)
			}
			_, err := env.votes.CastVote(ctx, voters[i], &domain.CastVoteRequest{
				PollCode:    poll.Code,
				OptionCodes: optionCodes,
			})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	got, err := env.polls.GetPoll(ctx, creator, poll.Code)
	require.NoError(t, err)
	assert.Equal(t, n, got.Options[0].Votes)
	assert.Equal(t, n/2, got.Options[1].Votes)
	assert.Equal(t, 0, got.Options[2].Votes)
}
